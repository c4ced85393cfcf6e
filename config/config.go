// Package config holds the settings of the tyck CLI and driver
package config

import (
	"log/slog"
	"os"
	"runtime"
	"slices"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type Color string

const (
	ColorAuto   Color = "auto"
	ColorAlways Color = "always"
	ColorNever  Color = "never"
)

type Config struct {
	// LogLevel is a slog.Level, so -4 is debug and 8 is error
	LogLevel int `yaml:"logLevel"`
	// LogSections are the sections whose sub-warn records get logged, like "tycheck" or "unify"
	LogSections []string `yaml:"logSections,omitempty"`
	// Parallel is how many bodies are checked at once
	Parallel int   `yaml:"parallel"`
	Color    Color `yaml:"color"`
}

func Default() *Config {
	return &Config{
		LogLevel:    int(slog.LevelError),
		LogSections: []string{"cli", "tycheck"},
		Parallel:    runtime.GOMAXPROCS(0),
		Color:       ColorAuto,
	}
}

// Load reads the config at path. Settings missing from the file keep their Default value
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "could not read config %s", path)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "in config %s", path)
	}
	return cfg, nil
}

func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "could not parse config")
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if !slices.Contains([]Color{ColorAuto, ColorAlways, ColorNever}, c.Color) {
		return errors.Errorf("color must be one of auto, always or never, but got %q", c.Color)
	}
	if c.Parallel < 0 {
		return errors.Errorf("parallel must not be negative, but got %d", c.Parallel)
	}
	return nil
}

// UseColor decides whether output is coloured, given whether it goes to a terminal
func (c *Config) UseColor(isTerminal bool) bool {
	switch c.Color {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	default:
		return isTerminal
	}
}
