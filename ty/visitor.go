package ty

import "iter"

// Visitor walks types without changing them.
//
// The only required method is DB. A visitor takes part in the walk by implementing
// any of the optional hook interfaces below (TyVisitor, VarVisitor, AppVisitor...).
// Hooks that are not implemented fall back to the default structural walk, so
// composite types are always fully traversed, even by visitors that only care
// about one shape. An overriding hook that still wants to recurse calls the
// matching Walk function, like WalkTy or WalkApp
type Visitor interface {
	DB() *DB
}

type (
	TyVisitor         interface{ VisitTy(t TyID) }
	VarVisitor        interface{ VisitVar(v Var) }
	ParamVisitor      interface{ VisitParam(p Param) }
	ConstParamVisitor interface {
		VisitConstParam(p Param, constTyTy TyID)
	}
	AppVisitor     interface{ VisitApp(abs, arg TyID) }
	BaseVisitor    interface{ VisitBase(base Base) }
	InvalidVisitor interface{ VisitInvalid(cause InvalidCause) }
	NeverVisitor   interface{ VisitNever() }
	PrimVisitor    interface{ VisitPrim(prim PrimTy) }
	AdtVisitor     interface{ VisitAdt(adt AdtID) }
	FuncVisitor    interface{ VisitFunc(fn FuncDefID) }
	ConstTyVisitor interface{ VisitConstTy(c ConstTyID) }
)

// Visitable is implemented by everything that contains types
type Visitable interface {
	VisitWith(v Visitor)
}

func VisitTy(v Visitor, t TyID) {
	if hook, ok := v.(TyVisitor); ok {
		hook.VisitTy(t)
		return
	}
	WalkTy(v, t)
}

// WalkTy dispatches on the shape of t
func WalkTy(v Visitor, t TyID) {
	switch data := v.DB().Data(t).(type) {
	case TyVar:
		VisitVar(v, data.Var)
	case TyParam:
		VisitParam(v, data.Param)
	case TyApp:
		VisitApp(v, data.Abs, data.Arg)
	case TyBase:
		VisitBase(v, data.Base)
	case ConstTy:
		VisitConstTy(v, data.ID)
	case Never:
		if hook, ok := v.(NeverVisitor); ok {
			hook.VisitNever()
		}
	case Invalid:
		if hook, ok := v.(InvalidVisitor); ok {
			hook.VisitInvalid(data.Cause)
		}
	}
}

func VisitVar(v Visitor, tv Var) {
	if hook, ok := v.(VarVisitor); ok {
		hook.VisitVar(tv)
	}
}

func VisitParam(v Visitor, p Param) {
	if hook, ok := v.(ParamVisitor); ok {
		hook.VisitParam(p)
	}
}

func VisitConstParam(v Visitor, p Param, constTyTy TyID) {
	if hook, ok := v.(ConstParamVisitor); ok {
		hook.VisitConstParam(p, constTyTy)
	}
}

func VisitApp(v Visitor, abs, arg TyID) {
	if hook, ok := v.(AppVisitor); ok {
		hook.VisitApp(abs, arg)
		return
	}
	WalkApp(v, abs, arg)
}

// WalkApp visits the applied type, then the argument
func WalkApp(v Visitor, abs, arg TyID) {
	VisitTy(v, abs)
	VisitTy(v, arg)
}

func VisitBase(v Visitor, base Base) {
	if hook, ok := v.(BaseVisitor); ok {
		hook.VisitBase(base)
		return
	}
	WalkBase(v, base)
}

func WalkBase(v Visitor, base Base) {
	switch base := base.(type) {
	case PrimTy:
		if hook, ok := v.(PrimVisitor); ok {
			hook.VisitPrim(base)
		}
	case AdtID:
		if hook, ok := v.(AdtVisitor); ok {
			hook.VisitAdt(base)
		}
	case FuncDefID:
		if hook, ok := v.(FuncVisitor); ok {
			hook.VisitFunc(base)
		}
	}
}

func VisitConstTy(v Visitor, c ConstTyID) {
	if hook, ok := v.(ConstTyVisitor); ok {
		hook.VisitConstTy(c)
		return
	}
	WalkConstTy(v, c)
}

// WalkConstTy visits the type of the const value, then its variable or parameter, if any
func WalkConstTy(v Visitor, c ConstTyID) {
	data := v.DB().ConstTyData(c)
	VisitTy(v, data.Ty())
	switch data := data.(type) {
	case ConstTyVar:
		VisitVar(v, data.Var)
	case ConstTyParam:
		VisitConstParam(v, data.Param, data.Carry)
	}
}

func (t TyID) VisitWith(v Visitor) {
	VisitTy(v, t)
}

// VisitAll visits every element of items in order
func VisitAll[T Visitable](v Visitor, items iter.Seq[T]) {
	for item := range items {
		item.VisitWith(v)
	}
}

func VisitSlice[T Visitable](v Visitor, items []T) {
	for _, item := range items {
		item.VisitWith(v)
	}
}

func (id TraitInstID) VisitWith(v Visitor) {
	VisitSlice(v, id.Args(v.DB()))
}

func (i Implementor) VisitWith(v Visitor) {
	VisitSlice(v, i.Params)
}

func (p Predicate) VisitWith(v Visitor) {
	p.Ty.VisitWith(v)
	p.Trait.VisitWith(v)
}

func (l PredicateList) VisitWith(v Visitor) {
	VisitSlice(v, l.Predicates())
}

// TypeList is a Visitable and Foldable slice of types
type TypeList []TyID

func (l TypeList) VisitWith(v Visitor) {
	VisitSlice(v, l)
}
