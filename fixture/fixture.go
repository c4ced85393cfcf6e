// Package fixture loads modules described in YAML, so that bodies can be
// checked without a parser.
//
// A fixture lists adts, traits and funcs. Types are written as strings,
// like `Array<u8, 3>`, and function bodies as a tree of single-key mappings:
//
//	funcs:
//	  - name: f
//	    params: [{name: x, ty: Int}, {name: y, ty: Int, mut: true}]
//	    ret: Int
//	    body:
//	      block:
//	        - let: {pat: z, init: x}
//	        - expr: z
package fixture

import (
	"go/token"
	"os"
	"slices"

	"github.com/cottand/tyck/hir"
	"github.com/cottand/tyck/internal/log"
	"github.com/cottand/tyck/util"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

var logger = log.DefaultLogger.With("section", "fixture")

type file struct {
	Name   string      `yaml:"name"`
	Adts   []adt       `yaml:"adts"`
	Traits []trait     `yaml:"traits"`
	Funcs  []yaml.Node `yaml:"funcs"`
}

type generic struct {
	Name string `yaml:"name"`
	// Const is the type of a const generic, like usize
	Const string `yaml:"const"`
}

type adt struct {
	Name     string    `yaml:"name"`
	Generics []generic `yaml:"generics"`
	Fields   []struct {
		Name string `yaml:"name"`
		Ty   string `yaml:"ty"`
	} `yaml:"fields"`
}

type trait struct {
	Name     string    `yaml:"name"`
	Generics []generic `yaml:"generics"`
}

type bound struct {
	Ty    string   `yaml:"ty"`
	Trait string   `yaml:"trait"`
	Args  []string `yaml:"args"`
}

type param struct {
	Name string `yaml:"name"`
	Ty   string `yaml:"ty"`
	Mut  bool   `yaml:"mut"`
}

type parent struct {
	Name     string    `yaml:"name"`
	Generics []generic `yaml:"generics"`
	Bounds   []bound   `yaml:"bounds"`
}

type function struct {
	Name      string    `yaml:"name"`
	Generics  []generic `yaml:"generics"`
	Bounds    []bound   `yaml:"bounds"`
	Params    []param   `yaml:"params"`
	Ret       string    `yaml:"ret"`
	Parent    *parent   `yaml:"parent"`
	Anonymous bool      `yaml:"anonymous"`
	Body      yaml.Node `yaml:"body"`
}

// Fixture is a loaded module, and the file set its positions refer to
type Fixture struct {
	Module *hir.Module
	Files  *token.FileSet
}

// Position resolves a position of the fixture into a file, line and column
func (f *Fixture) Position(p hir.Positioner) token.Position {
	return f.Files.Position(p.Pos())
}

// Load reads the fixture at path
func Load(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "could not read fixture %s", path)
	}
	return Parse(path, data)
}

// Parse loads a fixture from data. filename is only used for positions
func Parse(filename string, data []byte) (*Fixture, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrapf(err, "could not parse fixture %s", filename)
	}

	files := token.NewFileSet()
	tokFile := files.AddFile(filename, -1, len(data))
	tokFile.SetLinesForContent(data)
	l := &loader{file: tokFile}

	m, err := l.module(&f)
	if err != nil {
		return nil, errors.Wrapf(err, "in fixture %s", filename)
	}
	logger.Debug("loaded fixture", "file", filename, "adts", len(m.Adts), "traits", len(m.Traits), "funcs", len(m.Funcs))
	return &Fixture{Module: m, Files: files}, nil
}

type loader struct {
	file *token.File
}

// rangeOf is the position where n starts. Nodes decoded from YAML have no end
func (l *loader) rangeOf(n *yaml.Node) hir.Range {
	if n == nil || n.Line <= 0 || n.Line > l.file.LineCount() {
		return hir.Range{}
	}
	pos := l.file.LineStart(n.Line) + token.Pos(max(n.Column-1, 0))
	return hir.Range{PosStart: pos, PosEnd: pos}
}

func (l *loader) module(f *file) (*hir.Module, error) {
	m := &hir.Module{Name: hir.IdentID(f.Name)}
	for _, a := range f.Adts {
		generics, err := l.generics(a.Generics)
		if err != nil {
			return nil, errors.Wrapf(err, "adt %s", a.Name)
		}
		decl := &hir.Adt{Name: hir.IdentID(a.Name), Generics: generics}
		for _, field := range a.Fields {
			fieldTy, err := ParseTypeRef(field.Ty)
			if err != nil {
				return nil, errors.Wrapf(err, "field %s of adt %s", field.Name, a.Name)
			}
			decl.Fields = append(decl.Fields, hir.Field{Name: hir.IdentID(field.Name), Ty: fieldTy})
		}
		m.Adts = append(m.Adts, decl)
	}
	for _, t := range f.Traits {
		generics, err := l.generics(t.Generics)
		if err != nil {
			return nil, errors.Wrapf(err, "trait %s", t.Name)
		}
		m.Traits = append(m.Traits, &hir.Trait{Name: hir.IdentID(t.Name), Generics: generics})
	}
	for i := range f.Funcs {
		fn, err := l.function(&f.Funcs[i])
		if err != nil {
			return nil, err
		}
		m.Funcs = append(m.Funcs, fn)
	}
	return m, nil
}

func (l *loader) function(n *yaml.Node) (*hir.Func, error) {
	var decl function
	if err := n.Decode(&decl); err != nil {
		return nil, errors.Wrapf(err, "line %d", n.Line)
	}
	wrap := func(err error) error { return errors.Wrapf(err, "func %s", decl.Name) }
	if decl.Name == "" {
		return nil, errors.Errorf("line %d: func without a name", n.Line)
	}

	names := util.SetFromSeq(util.MapIter(slices.Values(decl.Params), func(p param) string { return p.Name }), len(decl.Params))
	names.Remove("")
	if named := countNamed(decl.Params); names.Size() != named {
		return nil, wrap(errors.New("duplicate parameter names"))
	}

	params := make([]hir.Param, len(decl.Params))
	for i, p := range decl.Params {
		paramTy, err := parseOptionalTypeRef(p.Ty)
		if err != nil {
			return nil, wrap(errors.Wrapf(err, "parameter %s", p.Name))
		}
		params[i] = hir.Param{Name: hir.IdentID(p.Name), Ty: paramTy, IsMut: p.Mut, NameSpan: l.rangeOf(n)}
	}
	ret, err := parseOptionalTypeRef(decl.Ret)
	if err != nil {
		return nil, wrap(errors.Wrap(err, "return type"))
	}

	var body *hir.Body
	if !decl.Body.IsZero() {
		kind := hir.FuncBody
		if decl.Anonymous {
			kind = hir.Anonymous
		}
		if body, err = l.body(kind, &decl.Body); err != nil {
			return nil, wrap(err)
		}
	}

	fn := hir.NewFunc(hir.IdentID(decl.Name), params, ret, body)
	fn.Range = l.rangeOf(n)
	if fn.Generics, err = l.generics(decl.Generics); err != nil {
		return nil, wrap(err)
	}
	if fn.Bounds, err = l.bounds(decl.Bounds); err != nil {
		return nil, wrap(err)
	}
	if decl.Parent != nil {
		item := &hir.ParentItem{Name: hir.IdentID(decl.Parent.Name)}
		if item.Generics, err = l.generics(decl.Parent.Generics); err != nil {
			return nil, wrap(err)
		}
		if item.Bounds, err = l.bounds(decl.Parent.Bounds); err != nil {
			return nil, wrap(err)
		}
		fn.Parent = item
	}
	return fn, nil
}

func countNamed(params []param) int {
	named := 0
	for _, p := range params {
		if p.Name != "" {
			named++
		}
	}
	return named
}

func (l *loader) generics(gs []generic) ([]hir.GenericParam, error) {
	params := make([]hir.GenericParam, len(gs))
	for i, g := range gs {
		constTy, err := parseOptionalTypeRef(g.Const)
		if err != nil {
			return nil, errors.Wrapf(err, "generic %s", g.Name)
		}
		params[i] = hir.GenericParam{Name: hir.IdentID(g.Name), ConstTy: constTy}
	}
	return params, nil
}

func (l *loader) bounds(bs []bound) ([]hir.Bound, error) {
	bounds := make([]hir.Bound, len(bs))
	for i, b := range bs {
		boundTy, err := ParseTypeRef(b.Ty)
		if err != nil {
			return nil, errors.Wrapf(err, "bound on %s", b.Trait)
		}
		bounds[i] = hir.Bound{Ty: boundTy, Trait: hir.IdentID(b.Trait)}
		for _, arg := range b.Args {
			argTy, err := ParseTypeRef(arg)
			if err != nil {
				return nil, errors.Wrapf(err, "bound on %s", b.Trait)
			}
			bounds[i].Args = append(bounds[i].Args, argTy)
		}
	}
	return bounds, nil
}
