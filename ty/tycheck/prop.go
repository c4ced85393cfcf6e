package tycheck

import (
	"github.com/cottand/tyck/ty"
)

// ExprProp is what the checker knows about an expression: its type,
// whether it is a place that may be assigned to, and the variable it denotes, if any
type ExprProp struct {
	Ty    ty.TyID
	IsMut bool

	binding    LocalBinding
	hasBinding bool
}

func NewExprProp(t ty.TyID, isMut bool) ExprProp {
	return ExprProp{Ty: t, IsMut: isMut}
}

// NewBindingRef is the ExprProp of an expression that refers to binding directly, like a path
func NewBindingRef(t ty.TyID, isMut bool, binding LocalBinding) ExprProp {
	return ExprProp{Ty: t, IsMut: isMut, binding: binding, hasBinding: true}
}

// InvalidExprProp is given to expressions that could not be typed.
// It is mutable so that assigning to it does not report more errors
func InvalidExprProp(db *ty.DB) ExprProp {
	return ExprProp{Ty: db.Invalid(ty.InvalidOther{}), IsMut: true}
}

func (p ExprProp) Binding() (LocalBinding, bool) {
	return p.binding, p.hasBinding
}

// SwapTy sets the type of p, and returns the previous one
func (p *ExprProp) SwapTy(t ty.TyID) ty.TyID {
	old := p.Ty
	p.Ty = t
	return old
}

func (p ExprProp) VisitWith(v ty.Visitor) {
	p.Ty.VisitWith(v)
}

func (p ExprProp) FoldWith(f ty.Folder) ExprProp {
	p.Ty = p.Ty.FoldWith(f)
	return p
}

// Callable is what a call expression resolved to: a function, and the
// types its generic parameters were instantiated with
type Callable struct {
	Func        ty.FuncDefID
	GenericArgs []ty.TyID
	// TraitInst is the trait instance a trait method was called through,
	// nil for plain function calls
	TraitInst *ty.TraitInstID
}

// Ty is the type of the instantiated function
func (c Callable) Ty(db *ty.DB) ty.TyID {
	return db.AppN(db.FuncTy(c.Func), c.GenericArgs...)
}

func (c Callable) VisitWith(v ty.Visitor) {
	ty.VisitSlice(v, c.GenericArgs)
	if c.TraitInst != nil {
		c.TraitInst.VisitWith(v)
	}
}

func (c Callable) FoldWith(f ty.Folder) Callable {
	folded := Callable{Func: c.Func, GenericArgs: ty.FoldSlice(f, c.GenericArgs)}
	if c.TraitInst != nil {
		inst := c.TraitInst.FoldWith(f)
		folded.TraitInst = &inst
	}
	return folded
}
