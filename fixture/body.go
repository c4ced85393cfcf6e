package fixture

import (
	"math/big"

	"github.com/cottand/tyck/hir"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// bodyLoader builds a hir.Body from its YAML tree. Every node is either a
// scalar shorthand or a mapping with a single key naming the node kind
type bodyLoader struct {
	*loader
	b *hir.BodyBuilder
}

func (l *loader) body(kind hir.BodyKind, n *yaml.Node) (*hir.Body, error) {
	bl := &bodyLoader{loader: l, b: hir.NewBodyBuilder(kind)}
	root, err := bl.expr(n)
	if err != nil {
		return nil, err
	}
	return bl.b.Finish(root), nil
}

func nodeErr(n *yaml.Node, format string, args ...any) error {
	return errors.Wrapf(errors.Errorf(format, args...), "line %d", n.Line)
}

// single returns the key and value of a single-key mapping
func single(n *yaml.Node) (string, *yaml.Node, error) {
	if n.Kind != yaml.MappingNode || len(n.Content) != 2 {
		return "", nil, nodeErr(n, "expected a mapping with a single key")
	}
	return n.Content[0].Value, n.Content[1], nil
}

func isNull(n *yaml.Node) bool {
	return n == nil || n.IsZero() || n.Tag == "!!null"
}

type callNode struct {
	Callee yaml.Node   `yaml:"callee"`
	Args   []yaml.Node `yaml:"args"`
}

type binNode struct {
	Op  string    `yaml:"op"`
	Lhs yaml.Node `yaml:"lhs"`
	Rhs yaml.Node `yaml:"rhs"`
}

type unNode struct {
	Op   string    `yaml:"op"`
	Expr yaml.Node `yaml:"expr"`
}

type ifNode struct {
	Cond yaml.Node `yaml:"cond"`
	Then yaml.Node `yaml:"then"`
	Else yaml.Node `yaml:"else"`
}

type matchNode struct {
	Scrutinee yaml.Node `yaml:"scrutinee"`
	Arms      []struct {
		Pat  yaml.Node `yaml:"pat"`
		Body yaml.Node `yaml:"body"`
	} `yaml:"arms"`
}

func (bl *bodyLoader) exprs(nodes []yaml.Node) ([]hir.ExprID, error) {
	ids := make([]hir.ExprID, len(nodes))
	for i := range nodes {
		id, err := bl.expr(&nodes[i])
		if err != nil {
			return nil, err
		}
		ids[i] = id
	}
	return ids, nil
}

// expr loads an expression. Children are allocated before their parent,
// so the span is set again right before allocating each node
func (bl *bodyLoader) expr(n *yaml.Node) (hir.ExprID, error) {
	at := func() *hir.BodyBuilder { return bl.b.At(bl.rangeOf(n)) }
	if n.Kind == yaml.ScalarNode {
		switch n.Tag {
		case "!!int":
			return at().Int(n.Value), nil
		case "!!bool":
			return at().Bool(n.Value == "true"), nil
		default:
			return at().Path(hir.IdentID(n.Value)), nil
		}
	}

	kind, v, err := single(n)
	if err != nil {
		return 0, err
	}
	switch kind {
	case "int":
		if _, ok := new(big.Int).SetString(v.Value, 10); !ok {
			return 0, nodeErr(v, "not an integer: %q", v.Value)
		}
		return at().Int(v.Value), nil
	case "bool":
		var value bool
		if err := v.Decode(&value); err != nil {
			return 0, errors.Wrapf(err, "line %d", v.Line)
		}
		return at().Bool(value), nil
	case "str":
		return at().Str(v.Value), nil
	case "path":
		return at().Path(hir.IdentID(v.Value)), nil

	case "block":
		if v.Kind != yaml.SequenceNode && !isNull(v) {
			return 0, nodeErr(v, "a block is a list of statements")
		}
		stmts := make([]hir.StmtID, len(v.Content))
		for i, s := range v.Content {
			if stmts[i], err = bl.stmt(s); err != nil {
				return 0, err
			}
		}
		return at().Block(stmts...), nil

	case "call":
		var call callNode
		if err := v.Decode(&call); err != nil {
			return 0, errors.Wrapf(err, "line %d", v.Line)
		}
		callee, err := bl.expr(&call.Callee)
		if err != nil {
			return 0, err
		}
		args, err := bl.exprs(call.Args)
		if err != nil {
			return 0, err
		}
		return at().Call(callee, args...), nil

	case "bin":
		var bin binNode
		if err := v.Decode(&bin); err != nil {
			return 0, errors.Wrapf(err, "line %d", v.Line)
		}
		op, ok := hir.ParseBinOp(bin.Op)
		if !ok {
			return 0, nodeErr(v, "unknown binary operator %q", bin.Op)
		}
		lhs, err := bl.expr(&bin.Lhs)
		if err != nil {
			return 0, err
		}
		rhs, err := bl.expr(&bin.Rhs)
		if err != nil {
			return 0, err
		}
		return at().Bin(op, lhs, rhs), nil

	case "un":
		var un unNode
		if err := v.Decode(&un); err != nil {
			return 0, errors.Wrapf(err, "line %d", v.Line)
		}
		op, ok := hir.ParseUnOp(un.Op)
		if !ok {
			return 0, nodeErr(v, "unknown unary operator %q", un.Op)
		}
		operand, err := bl.expr(&un.Expr)
		if err != nil {
			return 0, err
		}
		return at().Un(op, operand), nil

	case "tuple":
		elems, err := bl.exprs(nodeList(v))
		if err != nil {
			return 0, err
		}
		return at().Tuple(elems...), nil

	case "if":
		var ifn ifNode
		if err := v.Decode(&ifn); err != nil {
			return 0, errors.Wrapf(err, "line %d", v.Line)
		}
		cond, err := bl.expr(&ifn.Cond)
		if err != nil {
			return 0, err
		}
		then, err := bl.expr(&ifn.Then)
		if err != nil {
			return 0, err
		}
		var els *hir.ExprID
		if !isNull(&ifn.Else) {
			id, err := bl.expr(&ifn.Else)
			if err != nil {
				return 0, err
			}
			els = hir.Some(id)
		}
		return at().If(cond, then, els), nil

	case "match":
		var m matchNode
		if err := v.Decode(&m); err != nil {
			return 0, errors.Wrapf(err, "line %d", v.Line)
		}
		scrutinee, err := bl.expr(&m.Scrutinee)
		if err != nil {
			return 0, err
		}
		arms := make([]hir.MatchArm, len(m.Arms))
		for i := range m.Arms {
			if arms[i].Pat, err = bl.pat(&m.Arms[i].Pat); err != nil {
				return 0, err
			}
			if arms[i].Body, err = bl.expr(&m.Arms[i].Body); err != nil {
				return 0, err
			}
		}
		return at().Match(scrutinee, arms...), nil
	}
	return 0, nodeErr(n, "unknown expression %q", kind)
}

func nodeList(n *yaml.Node) []yaml.Node {
	nodes := make([]yaml.Node, len(n.Content))
	for i, c := range n.Content {
		nodes[i] = *c
	}
	return nodes
}

type letNode struct {
	Pat  yaml.Node `yaml:"pat"`
	Ty   string    `yaml:"ty"`
	Init yaml.Node `yaml:"init"`
}

type loopNode struct {
	Pat  yaml.Node `yaml:"pat"`
	Iter yaml.Node `yaml:"iter"`
	Cond yaml.Node `yaml:"cond"`
	Body yaml.Node `yaml:"body"`
}

type assignNode struct {
	Op  string    `yaml:"op"`
	Lhs yaml.Node `yaml:"lhs"`
	Rhs yaml.Node `yaml:"rhs"`
}

type assertNode struct {
	Cond yaml.Node `yaml:"cond"`
	Msg  yaml.Node `yaml:"msg"`
}

func (bl *bodyLoader) stmt(n *yaml.Node) (hir.StmtID, error) {
	at := func() *hir.BodyBuilder { return bl.b.At(bl.rangeOf(n)) }
	if n.Kind == yaml.ScalarNode {
		switch n.Value {
		case "break":
			return at().Break(), nil
		case "continue":
			return at().Continue(), nil
		case "return":
			return at().Return(nil), nil
		}
		return 0, nodeErr(n, "unknown statement %q", n.Value)
	}

	kind, v, err := single(n)
	if err != nil {
		return 0, err
	}
	switch kind {
	case "expr":
		e, err := bl.expr(v)
		if err != nil {
			return 0, err
		}
		return at().ExprStmt(e), nil

	case "let":
		var let letNode
		if err := v.Decode(&let); err != nil {
			return 0, errors.Wrapf(err, "line %d", v.Line)
		}
		annotation, err := parseOptionalTypeRef(let.Ty)
		if err != nil {
			return 0, errors.Wrapf(err, "line %d", v.Line)
		}
		var init *hir.ExprID
		if !isNull(&let.Init) {
			id, err := bl.expr(&let.Init)
			if err != nil {
				return 0, err
			}
			init = hir.Some(id)
		}
		pat, err := bl.pat(&let.Pat)
		if err != nil {
			return 0, err
		}
		return at().Let(pat, annotation, init), nil

	case "for":
		var loop loopNode
		if err := v.Decode(&loop); err != nil {
			return 0, errors.Wrapf(err, "line %d", v.Line)
		}
		pat, err := bl.pat(&loop.Pat)
		if err != nil {
			return 0, err
		}
		iter, err := bl.expr(&loop.Iter)
		if err != nil {
			return 0, err
		}
		body, err := bl.expr(&loop.Body)
		if err != nil {
			return 0, err
		}
		return at().For(pat, iter, body), nil

	case "while":
		var loop loopNode
		if err := v.Decode(&loop); err != nil {
			return 0, errors.Wrapf(err, "line %d", v.Line)
		}
		cond, err := bl.expr(&loop.Cond)
		if err != nil {
			return 0, err
		}
		body, err := bl.expr(&loop.Body)
		if err != nil {
			return 0, err
		}
		return at().While(cond, body), nil

	case "break":
		return at().Break(), nil
	case "continue":
		return at().Continue(), nil

	case "return":
		var value *hir.ExprID
		if !isNull(v) {
			id, err := bl.expr(v)
			if err != nil {
				return 0, err
			}
			value = hir.Some(id)
		}
		return at().Return(value), nil

	case "assign":
		var assign assignNode
		if err := v.Decode(&assign); err != nil {
			return 0, errors.Wrapf(err, "line %d", v.Line)
		}
		lhs, err := bl.expr(&assign.Lhs)
		if err != nil {
			return 0, err
		}
		rhs, err := bl.expr(&assign.Rhs)
		if err != nil {
			return 0, err
		}
		if assign.Op == "" {
			return at().Assign(lhs, rhs), nil
		}
		op, ok := hir.ParseBinOp(assign.Op)
		if !ok {
			return 0, nodeErr(v, "unknown assignment operator %q", assign.Op)
		}
		return at().Stmt(&hir.AugAssignStmt{Op: op, Lhs: lhs, Rhs: rhs}), nil

	case "assert":
		var a assertNode
		if err := v.Decode(&a); err != nil {
			return 0, errors.Wrapf(err, "line %d", v.Line)
		}
		cond, err := bl.expr(&a.Cond)
		if err != nil {
			return 0, err
		}
		var msg *hir.ExprID
		if !isNull(&a.Msg) {
			id, err := bl.expr(&a.Msg)
			if err != nil {
				return 0, err
			}
			msg = hir.Some(id)
		}
		return at().Stmt(&hir.AssertStmt{Cond: cond, Msg: msg}), nil
	}
	return 0, nodeErr(n, "unknown statement %q", kind)
}

type bindNode struct {
	Name string `yaml:"name"`
	Mut  bool   `yaml:"mut"`
}

func (bl *bodyLoader) pat(n *yaml.Node) (hir.PatID, error) {
	at := func() *hir.BodyBuilder { return bl.b.At(bl.rangeOf(n)) }
	if n.Kind == yaml.ScalarNode {
		switch {
		case n.Value == "_":
			return at().WildCard(), nil
		case n.Tag == "!!int":
			return at().Pat(&hir.LitPat{Lit: hir.IntLit{Value: n.Value}}), nil
		case n.Tag == "!!bool":
			return at().Pat(&hir.LitPat{Lit: hir.BoolLit{Value: n.Value == "true"}}), nil
		default:
			return at().Bind(hir.IdentID(n.Value), false), nil
		}
	}

	kind, v, err := single(n)
	if err != nil {
		return 0, err
	}
	switch kind {
	case "bind":
		var bind bindNode
		if err := v.Decode(&bind); err != nil {
			return 0, errors.Wrapf(err, "line %d", v.Line)
		}
		return at().Bind(hir.IdentID(bind.Name), bind.Mut), nil
	case "mut":
		return at().Bind(hir.IdentID(v.Value), true), nil
	case "str":
		return at().Pat(&hir.LitPat{Lit: hir.StrLit{Value: v.Value}}), nil
	case "tuple":
		elems := make([]hir.PatID, len(v.Content))
		for i, elem := range v.Content {
			if elems[i], err = bl.pat(elem); err != nil {
				return 0, err
			}
		}
		return at().Pat(&hir.TuplePat{Elems: elems}), nil
	case "or":
		if len(v.Content) < 2 {
			return 0, nodeErr(v, "an or pattern needs at least two alternatives")
		}
		lhs, err := bl.pat(v.Content[0])
		if err != nil {
			return 0, err
		}
		for _, alt := range v.Content[1:] {
			rhs, err := bl.pat(alt)
			if err != nil {
				return 0, err
			}
			lhs = at().Pat(&hir.OrPat{Lhs: lhs, Rhs: rhs})
		}
		return lhs, nil
	}
	return 0, nodeErr(n, "unknown pattern %q", kind)
}
