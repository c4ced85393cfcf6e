package tycheck

import (
	"github.com/cottand/tyck/hir"
	"github.com/cottand/tyck/ty"
	"github.com/cottand/tyck/ty/unify"
	"github.com/cottand/tyck/tyerr"
)

// checker infers the types of a body, recording them in an Env
type checker struct {
	env   *Env
	db    *ty.DB
	body  *hir.Body
	table *unify.Table
	errs  *tyerr.Errors
	retTy ty.TyID
}

func newChecker(env *Env, table *unify.Table) *checker {
	return &checker{
		env:   env,
		db:    env.db,
		body:  env.body,
		table: table,
	}
}

func (c *checker) checkBody() {
	if fn, ok := c.env.Func(); ok {
		c.retTy = c.db.FuncDef(fn).RetTy
	} else {
		c.retTy = c.freshVar()
	}
	c.checkExpr(c.body.Root, c.retTy)
}

func (c *checker) freshVar() ty.TyID {
	return c.table.NewVar(ty.SortGeneral, ty.KindStar)
}

func (c *checker) addError(err tyerr.Error) {
	c.errs = c.errs.With(err)
}

// unify requires expected and found to be the same type, reporting a TypeMismatch at pos otherwise
func (c *checker) unify(pos hir.Positioner, expected, found ty.TyID) bool {
	if err := c.table.Unify(expected, found); err != nil {
		c.addError(tyerr.New(tyerr.TypeMismatch{
			Positioner: pos,
			Expected:   c.db.TyString(c.table.Fold(expected)),
			Found:      c.db.TyString(c.table.Fold(found)),
		}))
		return false
	}
	return true
}

// checkExpr infers the type of expr, requires it to be expected, and records it
func (c *checker) checkExpr(expr hir.ExprID, expected ty.TyID) ExprProp {
	logger := logger.With("expr", expr, "func", c.env.fn.Name)
	logger.Debug("checkExpr: typing expression", "expected", ty.Slog(c.db, expected))

	prop := c.inferExpr(expr, expected)
	c.unify(c.body.ExprSpan(expr), expected, prop.Ty)
	c.env.TypeExpr(expr, prop)

	logger.Debug("checkExpr: done typing expression", "result", ty.Slog(c.db, prop.Ty))
	return prop
}

func (c *checker) inferExpr(expr hir.ExprID, expected ty.TyID) ExprProp {
	db := c.db
	switch e := c.body.Expr(expr).(type) {
	case *hir.LitExpr:
		return NewExprProp(c.litTy(e.Lit), false)

	case *hir.BlockExpr:
		return c.checkBlock(expr, e, expected)

	case *hir.PathExpr:
		return c.checkPath(expr, e)

	case *hir.CallExpr:
		return c.checkCall(expr, e)

	case *hir.BinExpr:
		return c.checkBin(e)

	case *hir.UnExpr:
		var operandTy ty.TyID
		if e.Op == hir.Not {
			operandTy = db.Bool()
		} else {
			operandTy = c.table.NewVar(ty.SortIntegral, ty.KindStar)
		}
		operand := c.checkExpr(e.Expr, operandTy)
		return NewExprProp(operand.Ty, false)

	case *hir.TupleExpr:
		elems := make([]ty.TyID, len(e.Elems))
		for i, elem := range e.Elems {
			elems[i] = c.checkExpr(elem, c.freshVar()).Ty
		}
		return NewExprProp(db.Tuple(elems...), false)

	case *hir.IfExpr:
		c.checkExpr(e.Cond, db.Bool())
		if e.Else == nil {
			c.checkExpr(e.Then, db.Unit())
			return NewExprProp(db.Unit(), false)
		}
		c.checkExpr(e.Then, expected)
		c.checkExpr(*e.Else, expected)
		return NewExprProp(expected, false)

	case *hir.MatchExpr:
		return c.checkMatch(e, expected)

	default:
		// absent expressions were already reported by the parser
		return InvalidExprProp(db)
	}
}

func (c *checker) litTy(lit hir.Lit) ty.TyID {
	switch lit := lit.(type) {
	case hir.IntLit:
		return c.table.NewVar(ty.SortIntegral, ty.KindStar)
	case hir.BoolLit:
		return c.db.Bool()
	case hir.StrLit:
		return c.table.NewVar(ty.SortString(uint(len(lit.Value))), ty.KindStar)
	default:
		return c.db.Invalid(ty.InvalidOther{})
	}
}

func (c *checker) checkBlock(expr hir.ExprID, block *hir.BlockExpr, expected ty.TyID) ExprProp {
	c.env.EnterScope(expr)
	defer c.env.LeaveScope()

	resultTy := c.db.Unit()
	for i, stmt := range block.Stmts {
		if i < len(block.Stmts)-1 {
			c.checkStmt(stmt)
			continue
		}
		switch last := c.body.Stmt(stmt).(type) {
		case *hir.ExprStmt:
			resultTy = c.checkExpr(last.Expr, expected).Ty
		case *hir.ReturnStmt, *hir.BreakStmt, *hir.ContinueStmt:
			c.checkStmt(stmt)
			resultTy = c.db.Never()
		default:
			c.checkStmt(stmt)
		}
	}
	return NewExprProp(resultTy, false)
}

func (c *checker) checkPath(expr hir.ExprID, path *hir.PathExpr) ExprProp {
	if binding, ok := c.env.Lookup(path.Name); ok {
		return NewBindingRef(c.env.LookupBindingTy(binding), binding.IsMut(), binding)
	}
	if items := c.env.deps.Items; items != nil {
		if fn, ok := items.LookupFunc(path.Name); ok {
			callable, _, _ := c.instantiate(fn)
			return NewExprProp(callable.Ty(c.db), false)
		}
	}
	c.addError(tyerr.New(tyerr.UndefinedVariable{
		Positioner: c.body.ExprSpan(expr),
		Name:       string(path.Name),
	}))
	return InvalidExprProp(c.db)
}

func (c *checker) checkBin(e *hir.BinExpr) ExprProp {
	db := c.db
	switch {
	case e.Op.IsLogical():
		c.checkExpr(e.Lhs, db.Bool())
		c.checkExpr(e.Rhs, db.Bool())
		return NewExprProp(db.Bool(), false)
	case e.Op.IsComparison():
		lhs := c.checkExpr(e.Lhs, c.freshVar())
		c.checkExpr(e.Rhs, lhs.Ty)
		return NewExprProp(db.Bool(), false)
	default:
		lhs := c.checkExpr(e.Lhs, c.table.NewVar(ty.SortIntegral, ty.KindStar))
		c.checkExpr(e.Rhs, lhs.Ty)
		return NewExprProp(lhs.Ty, false)
	}
}

// checkMatch checks every arm in its own scope. The bindings of an arm's
// pattern are staged, and only made visible once the pattern is fully checked,
// so that they never leak into another arm
func (c *checker) checkMatch(e *hir.MatchExpr, expected ty.TyID) ExprProp {
	scrutinee := c.checkExpr(e.Scrutinee, c.freshVar())
	for _, arm := range e.Arms {
		c.env.EnterScope(arm.Body)
		c.checkPat(arm.Pat, scrutinee.Ty)
		c.env.FlushPendingBindings()
		c.checkExpr(arm.Body, expected)
		c.env.LeaveScope()
	}
	if len(e.Arms) == 0 {
		return NewExprProp(c.db.Never(), false)
	}
	return NewExprProp(expected, false)
}
