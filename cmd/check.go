package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/cottand/tyck/config"
	"github.com/cottand/tyck/fixture"
	"github.com/cottand/tyck/internal/log"
	"github.com/cottand/tyck/ty"
	"github.com/cottand/tyck/ty/lower"
	"github.com/cottand/tyck/ty/traits"
	"github.com/cottand/tyck/ty/tycheck"
	"github.com/cottand/tyck/tyerr"
	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

var logger = log.DefaultLogger.With("section", "cli")

var CheckCmd = NewCheckCmd()

// ErrTypeErrors is returned by the check command when some function did not type check
var ErrTypeErrors = errors.New("type errors found")

type checkOptions struct {
	configPath string
	logLevel   int
	parallel   int
	color      string
	watch      bool
}

func NewCheckCmd() *cobra.Command {
	opts := &checkOptions{}
	cmd := &cobra.Command{
		Use:          "check fixture.yaml",
		Short:        "Type check the functions of a fixture and print their typed bodies",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, opts, args[0])
		},
	}
	flags := cmd.Flags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "path to a YAML config file")
	flags.IntVarP(&opts.logLevel, "log-level", "l", int(slog.LevelError), "log level")
	flags.IntVarP(&opts.parallel, "parallel", "p", 0, "how many functions to check at once (default GOMAXPROCS)")
	flags.StringVar(&opts.color, "color", string(config.ColorAuto), "auto, always or never")
	flags.BoolVarP(&opts.watch, "watch", "w", false, "check again every time the fixture changes")
	return cmd
}

// loadConfig reads the config file if one was given, and applies the flags set explicitly on top of it
func loadConfig(cmd *cobra.Command, opts *checkOptions) (*config.Config, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		var err error
		if cfg, err = config.Load(opts.configPath); err != nil {
			return nil, err
		}
	}
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel = opts.logLevel
	}
	if flags.Changed("parallel") {
		cfg.Parallel = opts.parallel
	}
	if flags.Changed("color") {
		cfg.Color = config.Color(opts.color)
	}
	return cfg, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func runCheck(cmd *cobra.Command, opts *checkOptions, target string) error {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}
	log.SetLevel(slog.Level(cfg.LogLevel))
	log.EnableSections(cfg.LogSections...)

	path, err := filepath.Abs(target)
	if err != nil {
		return fmt.Errorf("could not get absolute path of target: %w", err)
	}

	out := cmd.OutOrStdout()
	p := &printer{w: out, color: cfg.UseColor(isTerminal(out))}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	if !opts.watch {
		return checkFixture(ctx, path, cfg, p)
	}
	return watch(ctx, path, func() {
		if err := checkFixture(ctx, path, cfg, p); err != nil && !errors.Is(err, ErrTypeErrors) {
			p.failure(err)
		}
	})
}

// checkFixture checks every function of the fixture at path and prints the results.
// Returns ErrTypeErrors if some function has type errors
func checkFixture(ctx context.Context, path string, cfg *config.Config, p *printer) error {
	runLogger := logger.With("run", uuid.NewString())
	runLogger.Info("checking fixture", "path", path, "parallel", cfg.Parallel)

	f, err := fixture.Load(path)
	if err != nil {
		return fmt.Errorf("could not load fixture: %w", err)
	}

	db := ty.NewDB()
	lowerer := lower.NewTypeLowerer(db)
	if err := lowerer.DeclareModule(f.Module); err != nil {
		return fmt.Errorf("could not declare the items of %s: %w", path, err)
	}
	deps := tycheck.Deps{
		Lowerer:     lowerer,
		Constraints: traits.NewConstraintCollector(db, lowerer),
		Items:       lowerer,
	}

	results, err := tycheck.CheckAll(ctx, db, f.Module.Funcs, deps, cfg.Parallel)
	if err != nil {
		return fmt.Errorf("check was interrupted: %w", err)
	}

	failed := 0
	for _, result := range results {
		if result.Func == nil {
			continue
		}
		p.result(db, f, result)
		var noBody tyerr.NoBody
		if result.Errors.HasError() || result.Err != nil && !errors.As(result.Err, &noBody) {
			failed++
		}
	}
	runLogger.Info("checked fixture", "path", path, "funcs", len(results), "failed", failed)
	if failed > 0 {
		return fmt.Errorf("%w in %d of %d functions", ErrTypeErrors, failed, len(results))
	}
	return nil
}
