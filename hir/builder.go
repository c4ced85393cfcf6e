package hir

// BodyBuilder allocates the nodes of a Body. Nodes are created bottom-up:
// children first, so that parents can refer to them by ID
type BodyBuilder struct {
	body *Body
	span Range
}

func NewBodyBuilder(kind BodyKind) *BodyBuilder {
	return &BodyBuilder{body: &Body{Kind: kind}}
}

// At sets the span given to every node allocated from now on
func (b *BodyBuilder) At(r Range) *BodyBuilder {
	b.span = r
	return b
}

// Expr allocates e, which may be nil to represent an absent expression
func (b *BodyBuilder) Expr(e Expr) ExprID {
	b.body.exprs = append(b.body.exprs, e)
	b.body.exprSpans = append(b.body.exprSpans, b.span)
	return ExprID(len(b.body.exprs) - 1)
}

// Pat allocates p, which may be nil to represent an absent pattern
func (b *BodyBuilder) Pat(p Pat) PatID {
	b.body.pats = append(b.body.pats, p)
	b.body.patSpans = append(b.body.patSpans, b.span)
	return PatID(len(b.body.pats) - 1)
}

// Stmt allocates s, which may be nil to represent an absent statement
func (b *BodyBuilder) Stmt(s Stmt) StmtID {
	b.body.stmts = append(b.body.stmts, s)
	b.body.stmtSpans = append(b.body.stmtSpans, b.span)
	return StmtID(len(b.body.stmts) - 1)
}

// Finish returns the Body rooted at root. The builder must not be used afterwards
func (b *BodyBuilder) Finish(root ExprID) *Body {
	body := b.body
	body.Root = root
	b.body = nil
	return body
}

func (b *BodyBuilder) Int(value string) ExprID { return b.Expr(&LitExpr{Lit: IntLit{Value: value}}) }
func (b *BodyBuilder) Bool(value bool) ExprID  { return b.Expr(&LitExpr{Lit: BoolLit{Value: value}}) }
func (b *BodyBuilder) Str(value string) ExprID { return b.Expr(&LitExpr{Lit: StrLit{Value: value}}) }
func (b *BodyBuilder) Path(name IdentID) ExprID {
	return b.Expr(&PathExpr{Name: name})
}

func (b *BodyBuilder) Block(stmts ...StmtID) ExprID {
	return b.Expr(&BlockExpr{Stmts: stmts})
}

func (b *BodyBuilder) Call(callee ExprID, args ...ExprID) ExprID {
	return b.Expr(&CallExpr{Callee: callee, Args: args})
}

func (b *BodyBuilder) Bin(op BinOp, lhs, rhs ExprID) ExprID {
	return b.Expr(&BinExpr{Op: op, Lhs: lhs, Rhs: rhs})
}

func (b *BodyBuilder) Un(op UnOp, expr ExprID) ExprID {
	return b.Expr(&UnExpr{Op: op, Expr: expr})
}

func (b *BodyBuilder) Tuple(elems ...ExprID) ExprID {
	return b.Expr(&TupleExpr{Elems: elems})
}

func (b *BodyBuilder) If(cond, then ExprID, els *ExprID) ExprID {
	return b.Expr(&IfExpr{Cond: cond, Then: then, Else: els})
}

func (b *BodyBuilder) Match(scrutinee ExprID, arms ...MatchArm) ExprID {
	return b.Expr(&MatchExpr{Scrutinee: scrutinee, Arms: arms})
}

// Bind allocates a pattern introducing the local name
func (b *BodyBuilder) Bind(name IdentID, isMut bool) PatID {
	return b.Pat(&PathPat{Name: name, IsMut: isMut})
}

func (b *BodyBuilder) WildCard() PatID { return b.Pat(&WildCardPat{}) }

func (b *BodyBuilder) Let(pat PatID, ty TypeRef, init *ExprID) StmtID {
	return b.Stmt(&LetStmt{Pat: pat, Ty: ty, Init: init})
}

func (b *BodyBuilder) ExprStmt(e ExprID) StmtID { return b.Stmt(&ExprStmt{Expr: e}) }
func (b *BodyBuilder) Break() StmtID            { return b.Stmt(&BreakStmt{}) }
func (b *BodyBuilder) Continue() StmtID         { return b.Stmt(&ContinueStmt{}) }
func (b *BodyBuilder) Return(e *ExprID) StmtID  { return b.Stmt(&ReturnStmt{Expr: e}) }

func (b *BodyBuilder) While(cond, body ExprID) StmtID {
	return b.Stmt(&WhileStmt{Cond: cond, Body: body})
}

func (b *BodyBuilder) For(pat PatID, iter, body ExprID) StmtID {
	return b.Stmt(&ForStmt{Pat: pat, Iter: iter, Body: body})
}

func (b *BodyBuilder) Assign(lhs, rhs ExprID) StmtID {
	return b.Stmt(&AssignStmt{Lhs: lhs, Rhs: rhs})
}

// Some is a shorthand for optional IDs, like the initialiser of a LetStmt
func Some[ID ExprID | PatID | StmtID](id ID) *ID {
	return &id
}
