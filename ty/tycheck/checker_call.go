package tycheck

import (
	"github.com/cottand/tyck/hir"
	"github.com/cottand/tyck/ty"
	"github.com/cottand/tyck/tyerr"
)

// instantiate gives fresh variables to the generic parameters of fn.
// Returns the Callable, and the argument and return types of the instantiated signature
func (c *checker) instantiate(fn ty.FuncDefID) (Callable, []ty.TyID, ty.TyID) {
	db := c.db
	def := db.FuncDef(fn)
	subst := make(map[ty.TyID]ty.TyID, len(def.Params))
	args := make([]ty.TyID, len(def.Params))
	for i, param := range def.Params {
		if constTy, ok := db.Data(param).(ty.ConstTy); ok {
			args[i] = c.table.NewConstVar(db.ConstTyData(constTy.ID).Ty())
		} else {
			args[i] = c.table.NewVar(ty.SortGeneral, db.Kind(param))
		}
		subst[param] = args[i]
	}
	folder := ty.FolderFunc(db, func(f ty.Folder, t ty.TyID) ty.TyID {
		if replacement, ok := subst[t]; ok {
			return replacement
		}
		return ty.SuperFold(f, t)
	})
	return Callable{Func: fn, GenericArgs: args}, ty.FoldSlice(folder, def.ArgTys), def.RetTy.FoldWith(folder)
}

func (c *checker) checkCall(expr hir.ExprID, call *hir.CallExpr) ExprProp {
	db := c.db
	fn, ok := c.resolveCallee(call.Callee)
	if !ok {
		callee := c.checkExpr(call.Callee, c.freshVar())
		calleeTy := c.table.Fold(callee.Ty)
		if !db.IsInvalid(calleeTy) {
			c.addError(tyerr.New(tyerr.NotCallable{Positioner: c.body.ExprSpan(call.Callee), Type: db.TyString(calleeTy)}))
		}
		for _, arg := range call.Args {
			c.checkExpr(arg, c.freshVar())
		}
		return InvalidExprProp(db)
	}

	callable, argTys, retTy := c.instantiate(fn)
	c.env.RegisterCallable(expr, callable)
	c.env.TypeExpr(call.Callee, NewExprProp(callable.Ty(db), false))

	if len(argTys) != len(call.Args) {
		c.addError(tyerr.New(tyerr.ArgCountMismatch{
			Positioner: c.body.ExprSpan(expr),
			Func:       string(db.FuncDef(fn).Name),
			Expected:   len(argTys),
			Given:      len(call.Args),
		}))
	}
	for i, arg := range call.Args {
		expected := c.freshVar()
		if i < len(argTys) {
			expected = argTys[i]
		}
		c.checkExpr(arg, expected)
	}
	return NewExprProp(retTy, false)
}

// resolveCallee returns the function a callee names, unless a local binding shadows it
func (c *checker) resolveCallee(callee hir.ExprID) (ty.FuncDefID, bool) {
	path, ok := c.body.Expr(callee).(*hir.PathExpr)
	if !ok || c.env.deps.Items == nil {
		return 0, false
	}
	if _, shadowed := c.env.Lookup(path.Name); shadowed {
		return 0, false
	}
	return c.env.deps.Items.LookupFunc(path.Name)
}
