package tycheck

import (
	"github.com/cottand/tyck/hir"
	"github.com/cottand/tyck/ty"
)

// Resolver substitutes the variables bound during inference, like a unify.Table
type Resolver interface {
	ty.Folder
}

// envFinisher resolves types through the table, and gives string literal
// variables that are still unbound the type String<N>, where N is the
// length of the longest literal they were unified with
type envFinisher struct {
	table Resolver
}

func (f envFinisher) DB() *ty.DB { return f.table.DB() }

func (f envFinisher) FoldTy(t ty.TyID) ty.TyID {
	db := f.DB()
	t = f.table.FoldTy(t)
	tv, ok := db.Data(t).(ty.TyVar)
	if !ok {
		return ty.SuperFold(f, t)
	}
	length, ok := tv.Var.Sort.IsString()
	if !ok {
		return ty.SuperFold(f, t)
	}
	str := db.Prim(ty.PrimString)
	slot, _ := db.ApplicableTy(str)
	return db.App(str, db.EvaluatedInt(uint64(length), slot.ConstTy))
}

// Finish resolves every recorded type through table and returns the result of the check.
// The Env cannot be used afterwards
func (env *Env) Finish(table Resolver) *TypedBody {
	env.checkLive()
	folder := envFinisher{table: table}

	exprTy := make(map[hir.ExprID]ExprProp, len(env.exprTy))
	for expr, prop := range env.exprTy {
		exprTy[expr] = prop.FoldWith(folder)
	}
	patTy := make(map[hir.PatID]ty.TyID, len(env.patTy))
	for pat, t := range env.patTy {
		patTy[pat] = t.FoldWith(folder)
	}
	callables := make(map[hir.ExprID]Callable, len(env.callables))
	for expr, callable := range env.callables {
		callables[expr] = callable.FoldWith(folder)
	}

	env.finished = true
	env.exprTy, env.patTy, env.callables = nil, nil, nil
	logger.Debug("finished body", "func", env.fn.Name, "exprs", len(exprTy), "pats", len(patTy), "callables", len(callables))

	return &TypedBody{
		db:        env.db,
		body:      env.body,
		patTy:     patTy,
		exprTy:    exprTy,
		callables: callables,
	}
}
