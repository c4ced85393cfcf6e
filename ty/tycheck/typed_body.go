package tycheck

import (
	"maps"
	"slices"

	"github.com/cottand/tyck/hir"
	"github.com/cottand/tyck/ty"
)

// TypedBody is the result of checking a body. It is never modified once created
type TypedBody struct {
	db        *ty.DB
	body      *hir.Body
	patTy     map[hir.PatID]ty.TyID
	exprTy    map[hir.ExprID]ExprProp
	callables map[hir.ExprID]Callable
}

func (b *TypedBody) Body() *hir.Body { return b.body }

// ExprTy returns the type of expr, or Invalid if expr was never typed
func (b *TypedBody) ExprTy(expr hir.ExprID) ty.TyID {
	if prop, ok := b.exprTy[expr]; ok {
		return prop.Ty
	}
	return b.db.Invalid(ty.InvalidOther{})
}

func (b *TypedBody) ExprProp(expr hir.ExprID) (ExprProp, bool) {
	prop, ok := b.exprTy[expr]
	return prop, ok
}

// PatTy returns the type of pat, or Invalid if pat was never typed
func (b *TypedBody) PatTy(pat hir.PatID) ty.TyID {
	if t, ok := b.patTy[pat]; ok {
		return t
	}
	return b.db.Invalid(ty.InvalidOther{})
}

func (b *TypedBody) Callable(expr hir.ExprID) (Callable, bool) {
	c, ok := b.callables[expr]
	return c, ok
}

// TypedExprs returns the IDs of every typed expression, in increasing order
func (b *TypedBody) TypedExprs() []hir.ExprID {
	return slices.Sorted(maps.Keys(b.exprTy))
}

// TypedPats returns the IDs of every typed pattern, in increasing order
func (b *TypedBody) TypedPats() []hir.PatID {
	return slices.Sorted(maps.Keys(b.patTy))
}

func (b *TypedBody) VisitWith(v ty.Visitor) {
	for _, expr := range b.TypedExprs() {
		b.exprTy[expr].VisitWith(v)
	}
	for _, pat := range b.TypedPats() {
		b.patTy[pat].VisitWith(v)
	}
	for _, expr := range slices.Sorted(maps.Keys(b.callables)) {
		b.callables[expr].VisitWith(v)
	}
}
