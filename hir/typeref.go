package hir

import "strings"

// TypeRef is a type annotation as written in the source, before lowering
type TypeRef interface {
	typeRef()
	String() string
}

var (
	_ TypeRef = (*PathType)(nil)
	_ TypeRef = (*TupleType)(nil)
	_ TypeRef = (*ConstArg)(nil)
)

// PathType is a named type, optionally applied to generic arguments, like `Foo<u8, 3>`
type PathType struct {
	Name IdentID
	Args []TypeRef
}

type TupleType struct {
	Elems []TypeRef
}

// ConstArg is a literal used as a generic argument, like the length in `String<10>`
type ConstArg struct {
	Lit Lit
}

func (*PathType) typeRef()  {}
func (*TupleType) typeRef() {}
func (*ConstArg) typeRef()  {}

func (t *PathType) String() string {
	if len(t.Args) == 0 {
		return string(t.Name)
	}
	return string(t.Name) + "<" + joinTypeRefs(t.Args) + ">"
}

func (t *TupleType) String() string {
	return "(" + joinTypeRefs(t.Elems) + ")"
}

func (t *ConstArg) String() string {
	return LitString(t.Lit)
}

func joinTypeRefs(refs []TypeRef) string {
	strs := make([]string, len(refs))
	for i, ref := range refs {
		if ref == nil {
			strs[i] = "?"
			continue
		}
		strs[i] = ref.String()
	}
	return strings.Join(strs, ", ")
}
