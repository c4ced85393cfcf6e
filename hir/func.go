package hir

// Func is a function item. Body is nil for declarations without an implementation
type Func struct {
	Range
	Name     IdentID
	Params   []Param
	Ret      TypeRef
	Generics []GenericParam
	Bounds   []Bound
	// Parent is the item (like an impl block) that contributes
	// generics and bounds to the function, and may be nil
	Parent *ParentItem
	Body   *Body
}

// NewFunc creates a Func and makes it the owner of body, which may be nil
func NewFunc(name IdentID, params []Param, ret TypeRef, body *Body) *Func {
	f := &Func{
		Name:   name,
		Params: params,
		Ret:    ret,
	}
	f.SetBody(body)
	return f
}

func (f *Func) SetBody(body *Body) {
	f.Body = body
	if body != nil {
		body.owner = f
	}
}

type Param struct {
	// Name is empty for unnamed parameters, like `_: u8`
	Name IdentID
	// Ty may be nil if the annotation is missing
	Ty       TypeRef
	IsMut    bool
	NameSpan Range
}

type GenericParam struct {
	Name IdentID
	// ConstTy is non-nil for const generic parameters, like `N: usize`
	ConstTy TypeRef
}

// Bound is a `Ty: Trait<Args>` requirement
type Bound struct {
	Ty    TypeRef
	Trait IdentID
	Args  []TypeRef
}

type ParentItem struct {
	Name     IdentID
	Generics []GenericParam
	Bounds   []Bound
}
