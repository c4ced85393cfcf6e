package tycheck

import (
	"github.com/cottand/tyck/hir"
	"github.com/cottand/tyck/ty"
	"github.com/cottand/tyck/tyerr"
)

func (c *checker) checkStmt(stmt hir.StmtID) {
	db := c.db
	span := c.body.StmtSpan(stmt)
	switch s := c.body.Stmt(stmt).(type) {
	case *hir.LetStmt:
		declTy := c.freshVar()
		if s.Ty != nil {
			declTy = c.lowerAnnotation(span, s.Ty)
		}
		if s.Init != nil {
			c.checkExpr(*s.Init, declTy)
		}
		c.checkPat(s.Pat, declTy)
		c.env.FlushPendingBindings()

	case *hir.ForStmt:
		elemTy := c.freshVar()
		length := c.table.NewConstVar(db.Prim(ty.PrimUsize))
		c.checkExpr(s.Iter, db.AppN(db.Prim(ty.PrimArray), elemTy, length))

		c.env.EnterLoop(stmt)
		c.env.EnterScope(s.Body)
		c.checkPat(s.Pat, elemTy)
		c.env.FlushPendingBindings()
		c.checkExpr(s.Body, db.Unit())
		c.env.LeaveScope()
		c.env.LeaveLoop()

	case *hir.WhileStmt:
		c.checkExpr(s.Cond, db.Bool())
		c.env.EnterLoop(stmt)
		c.checkExpr(s.Body, db.Unit())
		c.env.LeaveLoop()

	case *hir.BreakStmt:
		c.checkInLoop(span, "break")

	case *hir.ContinueStmt:
		c.checkInLoop(span, "continue")

	case *hir.AssertStmt:
		c.checkExpr(s.Cond, db.Bool())
		if s.Msg != nil {
			c.checkExpr(*s.Msg, c.freshVar())
		}

	case *hir.ReturnStmt:
		if s.Expr != nil {
			c.checkExpr(*s.Expr, c.retTy)
		} else {
			c.unify(span, c.retTy, db.Unit())
		}

	case *hir.AssignStmt:
		lhs := c.checkAssignee(s.Lhs)
		c.checkExpr(s.Rhs, lhs.Ty)

	case *hir.AugAssignStmt:
		lhs := c.checkAssignee(s.Lhs)
		if !s.Op.IsComparison() && !s.Op.IsLogical() {
			c.unify(span, c.table.NewVar(ty.SortIntegral, ty.KindStar), lhs.Ty)
		}
		c.checkExpr(s.Rhs, lhs.Ty)

	case *hir.ExprStmt:
		c.checkExpr(s.Expr, c.freshVar())
	}
}

// lowerAnnotation lowers a type annotation found in the body, which must be a proper type
func (c *checker) lowerAnnotation(pos hir.Positioner, ref hir.TypeRef) ty.TyID {
	lowered := c.env.deps.Lowerer.LowerTy(ref, c.env.Scope())
	if !c.db.IsStarKind(lowered) {
		c.addError(tyerr.New(tyerr.StarKindExpected{Positioner: pos, Type: c.db.TyString(lowered)}))
		return c.db.Invalid(ty.InvalidNotFullyApplied{})
	}
	return lowered
}

func (c *checker) checkInLoop(pos hir.Positioner, keyword string) {
	if _, ok := c.env.CurrentLoop(); !ok {
		c.addError(tyerr.New(tyerr.NotInLoop{Positioner: pos, Keyword: keyword}))
	}
}

// checkAssignee checks the left-hand side of an assignment, which must be mutable
func (c *checker) checkAssignee(expr hir.ExprID) ExprProp {
	lhs := c.checkExpr(expr, c.freshVar())
	if lhs.IsMut {
		return lhs
	}
	err := tyerr.ImmutableAssignment{Positioner: c.body.ExprSpan(expr)}
	if binding, ok := lhs.Binding(); ok {
		err.Name = string(c.env.BindingName(binding))
		err.DefinedAt = c.env.BindingDefSpan(binding)
	}
	c.addError(tyerr.New(err))
	return lhs
}

// checkPat types pat as expected. The bindings it introduces are staged
// as pending, the caller decides when they become visible
func (c *checker) checkPat(pat hir.PatID, expected ty.TyID) ty.TyID {
	db := c.db
	span := c.body.PatSpan(pat)
	patTy := expected
	switch p := c.body.Pat(pat).(type) {
	case *hir.WildCardPat:
		// matches anything
	case *hir.LitPat:
		patTy = c.litTy(p.Lit)
		c.unify(span, expected, patTy)

	case *hir.PathPat:
		c.env.RegisterPendingBinding(p.Name, Local(pat, p.IsMut))

	case *hir.TuplePat:
		elems := make([]ty.TyID, len(p.Elems))
		for i := range elems {
			elems[i] = c.freshVar()
		}
		patTy = db.Tuple(elems...)
		c.unify(span, expected, patTy)
		for i, elem := range p.Elems {
			c.checkPat(elem, elems[i])
		}

	case *hir.OrPat:
		c.checkPat(p.Lhs, expected)
		c.checkPat(p.Rhs, expected)

	default:
		patTy = db.Invalid(ty.InvalidOther{})
	}
	c.env.TypePat(pat, patTy)
	return patTy
}
