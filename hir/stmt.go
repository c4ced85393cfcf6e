package hir

type Stmt interface {
	stmtNode()
}

var (
	_ Stmt = (*LetStmt)(nil)
	_ Stmt = (*ForStmt)(nil)
	_ Stmt = (*WhileStmt)(nil)
	_ Stmt = (*ContinueStmt)(nil)
	_ Stmt = (*BreakStmt)(nil)
	_ Stmt = (*AssertStmt)(nil)
	_ Stmt = (*ReturnStmt)(nil)
	_ Stmt = (*AssignStmt)(nil)
	_ Stmt = (*AugAssignStmt)(nil)
	_ Stmt = (*ExprStmt)(nil)
)

// LetStmt is `let pat: Ty = Init`, where the annotation and the initialiser are optional
type LetStmt struct {
	Pat PatID
	// Ty may be nil
	Ty TypeRef
	// Init may be nil
	Init *ExprID
}

type ForStmt struct {
	Pat  PatID
	Iter ExprID
	Body ExprID
}

type WhileStmt struct {
	Cond ExprID
	Body ExprID
}

type ContinueStmt struct{}

type BreakStmt struct{}

type AssertStmt struct {
	Cond ExprID
	// Msg may be nil
	Msg *ExprID
}

type ReturnStmt struct {
	// Expr may be nil
	Expr *ExprID
}

type AssignStmt struct {
	Lhs, Rhs ExprID
}

// AugAssignStmt is an assignment combined with an operator, like `x += 1`
type AugAssignStmt struct {
	Op       BinOp
	Lhs, Rhs ExprID
}

type ExprStmt struct {
	Expr ExprID
}

func (*LetStmt) stmtNode()       {}
func (*ForStmt) stmtNode()       {}
func (*WhileStmt) stmtNode()     {}
func (*ContinueStmt) stmtNode()  {}
func (*BreakStmt) stmtNode()     {}
func (*AssertStmt) stmtNode()    {}
func (*ReturnStmt) stmtNode()    {}
func (*AssignStmt) stmtNode()    {}
func (*AugAssignStmt) stmtNode() {}
func (*ExprStmt) stmtNode()      {}
