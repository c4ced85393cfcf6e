package hir

// Module is a set of items checked together
type Module struct {
	Name   IdentID
	Adts   []*Adt
	Traits []*Trait
	Funcs  []*Func
}

type Adt struct {
	Range
	Name     IdentID
	Generics []GenericParam
	Fields   []Field
}

type Field struct {
	Name IdentID
	Ty   TypeRef
}

type Trait struct {
	Range
	Name     IdentID
	Generics []GenericParam
}

func (m *Module) LookupFunc(name IdentID) (*Func, bool) {
	for _, f := range m.Funcs {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}

func (m *Module) LookupAdt(name IdentID) (*Adt, bool) {
	for _, a := range m.Adts {
		if a.Name == name {
			return a, true
		}
	}
	return nil, false
}
