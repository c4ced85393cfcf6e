package hir

import "fmt"

// IdentID is a name as written in the source
type IdentID string

// ExprID addresses an expression inside the Body that created it.
// IDs are dense indices and stay valid for the lifetime of the Body
type ExprID uint32

// PatID addresses a pattern inside the Body that created it
type PatID uint32

// StmtID addresses a statement inside the Body that created it
type StmtID uint32

func (id ExprID) String() string { return fmt.Sprintf("e%d", uint32(id)) }
func (id PatID) String() string  { return fmt.Sprintf("p%d", uint32(id)) }
func (id StmtID) String() string { return fmt.Sprintf("s%d", uint32(id)) }

type BodyKind int

const (
	// FuncBody is the body of a named function
	FuncBody BodyKind = iota
	// Anonymous bodies are standalone expression contexts, like const initialisers
	Anonymous
)

func (k BodyKind) String() string {
	switch k {
	case FuncBody:
		return "func"
	case Anonymous:
		return "anonymous"
	default:
		return fmt.Sprintf("BodyKind(%d)", int(k))
	}
}

// Body is an arena owning every expression, pattern and statement of
// a single function body. Nodes refer to each other by ID only.
//
// A nil node means the node is absent, typically because the parser
// recovered from an error there
type Body struct {
	Kind BodyKind
	Root ExprID

	owner *Func

	exprs []Expr
	pats  []Pat
	stmts []Stmt

	exprSpans []Range
	patSpans  []Range
	stmtSpans []Range
}

// Owner returns the function this body belongs to, or nil for anonymous bodies
func (b *Body) Owner() *Func { return b.owner }

// Expr returns the expression with the given id, or nil if it is absent
func (b *Body) Expr(id ExprID) Expr {
	if int(id) >= len(b.exprs) {
		return nil
	}
	return b.exprs[id]
}

// Pat returns the pattern with the given id, or nil if it is absent
func (b *Body) Pat(id PatID) Pat {
	if int(id) >= len(b.pats) {
		return nil
	}
	return b.pats[id]
}

// Stmt returns the statement with the given id, or nil if it is absent
func (b *Body) Stmt(id StmtID) Stmt {
	if int(id) >= len(b.stmts) {
		return nil
	}
	return b.stmts[id]
}

func (b *Body) ExprSpan(id ExprID) Range {
	if int(id) >= len(b.exprSpans) {
		return Range{}
	}
	return b.exprSpans[id]
}

func (b *Body) PatSpan(id PatID) Range {
	if int(id) >= len(b.patSpans) {
		return Range{}
	}
	return b.patSpans[id]
}

func (b *Body) StmtSpan(id StmtID) Range {
	if int(id) >= len(b.stmtSpans) {
		return Range{}
	}
	return b.stmtSpans[id]
}

func (b *Body) NumExprs() int { return len(b.exprs) }
func (b *Body) NumPats() int  { return len(b.pats) }
func (b *Body) NumStmts() int { return len(b.stmts) }
