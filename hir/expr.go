package hir

// Expr is a node of a Body's expression arena
type Expr interface {
	exprNode()
}

var (
	_ Expr = (*LitExpr)(nil)
	_ Expr = (*BlockExpr)(nil)
	_ Expr = (*PathExpr)(nil)
	_ Expr = (*CallExpr)(nil)
	_ Expr = (*BinExpr)(nil)
	_ Expr = (*UnExpr)(nil)
	_ Expr = (*TupleExpr)(nil)
	_ Expr = (*IfExpr)(nil)
	_ Expr = (*MatchExpr)(nil)
)

type LitExpr struct {
	Lit Lit
}

type BlockExpr struct {
	Stmts []StmtID
}

// PathExpr refers to a local variable, a parameter or an item, by name
type PathExpr struct {
	Name IdentID
}

type CallExpr struct {
	Callee ExprID
	Args   []ExprID
}

type BinExpr struct {
	Op       BinOp
	Lhs, Rhs ExprID
}

type UnExpr struct {
	Op   UnOp
	Expr ExprID
}

type TupleExpr struct {
	Elems []ExprID
}

type IfExpr struct {
	Cond ExprID
	Then ExprID
	// Else may be nil
	Else *ExprID
}

type MatchExpr struct {
	Scrutinee ExprID
	Arms      []MatchArm
}

type MatchArm struct {
	Pat  PatID
	Body ExprID
}

func (*LitExpr) exprNode()   {}
func (*BlockExpr) exprNode() {}
func (*PathExpr) exprNode()  {}
func (*CallExpr) exprNode()  {}
func (*BinExpr) exprNode()   {}
func (*UnExpr) exprNode()    {}
func (*TupleExpr) exprNode() {}
func (*IfExpr) exprNode()    {}
func (*MatchExpr) exprNode() {}

type Lit interface {
	litNode()
}

// IntLit holds the literal as written, in base 10
type IntLit struct {
	Value string
}

type BoolLit struct {
	Value bool
}

type StrLit struct {
	Value string
}

func (IntLit) litNode()  {}
func (BoolLit) litNode() {}
func (StrLit) litNode()  {}

type BinOp int

const (
	Add BinOp = iota
	Sub
	Mul
	Div
	Rem
	Pow
	BitAnd
	BitOr
	BitXor
	Shl
	Shr
	Eq
	NotEq
	Lt
	LtEq
	Gt
	GtEq
	And
	Or
)

var binOpStrings = [...]string{
	Add: "+", Sub: "-", Mul: "*", Div: "/", Rem: "%", Pow: "**",
	BitAnd: "&", BitOr: "|", BitXor: "^", Shl: "<<", Shr: ">>",
	Eq: "==", NotEq: "!=", Lt: "<", LtEq: "<=", Gt: ">", GtEq: ">=",
	And: "&&", Or: "||",
}

func (op BinOp) String() string { return binOpStrings[op] }

func (op BinOp) IsComparison() bool { return op >= Eq && op <= GtEq }
func (op BinOp) IsLogical() bool    { return op == And || op == Or }

type UnOp int

const (
	Plus UnOp = iota
	Minus
	Not
	BitNot
)

func (op UnOp) String() string {
	switch op {
	case Plus:
		return "+"
	case Minus:
		return "-"
	case Not:
		return "!"
	default:
		return "~"
	}
}

// ParseBinOp returns the operator written as s, like "+" or "&&"
func ParseBinOp(s string) (BinOp, bool) {
	for op, str := range binOpStrings {
		if str == s {
			return BinOp(op), true
		}
	}
	return 0, false
}

func ParseUnOp(s string) (UnOp, bool) {
	for op := Plus; op <= BitNot; op++ {
		if op.String() == s {
			return op, true
		}
	}
	return 0, false
}
