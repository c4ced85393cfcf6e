package lower

import (
	"github.com/cottand/tyck/hir"
	"github.com/cottand/tyck/ty"
)

// primAliases are names that resolve to a primitive other than their own
var primAliases = map[hir.IdentID]ty.PrimTy{
	"Int": ty.PrimI256,
}

func (l *TypeLowerer) lower(ref hir.TypeRef, env genericEnv) ty.TyID {
	db := l.db
	switch ref := ref.(type) {
	case *hir.PathType:
		head := l.resolveName(ref.Name, env)
		if db.IsInvalid(head) {
			return head
		}
		return l.applyArgs(head, ref.Args, env)
	case *hir.TupleType:
		elems := make([]ty.TyID, len(ref.Elems))
		for i, elem := range ref.Elems {
			elems[i] = l.lower(elem, env)
		}
		return db.Tuple(elems...)
	default:
		// nil annotations, and literals outside of generic arguments
		return db.Invalid(ty.InvalidOther{})
	}
}

func (l *TypeLowerer) resolveName(name hir.IdentID, env genericEnv) ty.TyID {
	if param, ok := env.names[name]; ok {
		return param
	}
	if prim, ok := ty.PrimByName(string(name)); ok {
		return l.db.Prim(prim)
	}
	if prim, ok := primAliases[name]; ok {
		return l.db.Prim(prim)
	}
	if adt, ok := l.adts[name]; ok {
		return l.db.AdtTy(adt)
	}
	logger.Debug("type not found", "name", name)
	return l.db.Invalid(ty.InvalidTypeNotFound{Name: name})
}

func (l *TypeLowerer) applyArgs(head ty.TyID, args []hir.TypeRef, env genericEnv) ty.TyID {
	db := l.db
	applied := head
	for _, arg := range args {
		slot, ok := db.ApplicableTy(applied)
		if !ok {
			return db.Invalid(ty.InvalidKindMismatch{Expected: ty.KindAny, Given: applied})
		}
		argTy := l.lowerArg(arg, slot, env)
		if db.IsInvalid(argTy) {
			return argTy
		}
		applied = db.App(applied, argTy)
	}
	return applied
}

func (l *TypeLowerer) lowerArg(arg hir.TypeRef, slot ty.ApplicableTy, env genericEnv) ty.TyID {
	db := l.db
	if constArg, ok := arg.(*hir.ConstArg); ok {
		return l.lowerConstArg(constArg.Lit, slot)
	}

	argTy := l.lower(arg, env)
	if db.IsInvalid(argTy) {
		return argTy
	}
	constTy, isConst := db.Data(argTy).(ty.ConstTy)
	switch {
	case slot.IsConst && !isConst:
		return db.Invalid(ty.InvalidConstTyMismatch{Expected: slot.ConstTy, Given: argTy})
	case slot.IsConst:
		if carry := db.ConstTyData(constTy.ID).Ty(); carry != slot.ConstTy {
			return db.Invalid(ty.InvalidConstTyMismatch{Expected: slot.ConstTy, Given: carry})
		}
		return argTy
	case isConst, !ty.KindsCompatible(slot.Kind, db.Kind(argTy)):
		return db.Invalid(ty.InvalidKindMismatch{Expected: slot.Kind, Given: argTy})
	}
	return argTy
}

func (l *TypeLowerer) lowerConstArg(lit hir.Lit, slot ty.ApplicableTy) ty.TyID {
	db := l.db
	var value ty.EvaluatedConst
	var litTy ty.TyID
	switch lit := lit.(type) {
	case hir.IntLit:
		n, ok := ty.ParseLitInt(lit.Value)
		if !ok {
			return db.Invalid(ty.InvalidOther{})
		}
		value, litTy = n, db.Prim(ty.PrimU256)
	case hir.BoolLit:
		value, litTy = ty.LitBool{Value: lit.Value}, db.Bool()
	default:
		return db.Invalid(ty.InvalidOther{})
	}

	if !slot.IsConst {
		given := db.ConstTy(ty.ConstTyEvaluated{Value: value, Carry: litTy})
		return db.Invalid(ty.InvalidKindMismatch{Expected: slot.Kind, Given: given})
	}
	_, isBool := value.(ty.LitBool)
	fits := isBool && db.IsPrim(slot.ConstTy, ty.PrimBool) || !isBool && db.IsIntegral(slot.ConstTy)
	if !fits {
		return db.Invalid(ty.InvalidConstTyMismatch{Expected: slot.ConstTy, Given: litTy})
	}
	return db.ConstTy(ty.ConstTyEvaluated{Value: value, Carry: slot.ConstTy})
}
