package ty

import (
	"fmt"

	"github.com/cottand/tyck/hir"
)

// TyID is an interned type. Two TyIDs from the same DB are equal
// if and only if the types they denote are structurally equal
type TyID uint32

// TyData is the structure behind a TyID. Every implementation is comparable
type TyData interface {
	tyData()
}

var (
	_ TyData = TyVar{}
	_ TyData = TyParam{}
	_ TyData = TyApp{}
	_ TyData = TyBase{}
	_ TyData = ConstTy{}
	_ TyData = Never{}
	_ TyData = Invalid{}
)

// TyVar is an inference variable, resolved by unification
type TyVar struct{ Var Var }

// TyParam is a generic parameter of an item, like the T in `fn f<T>(..)`
type TyParam struct{ Param Param }

// TyApp is the application of a type constructor to one argument.
// Types with several arguments are nested applications: `Foo<A, B>` is `App(App(Foo, A), B)`
type TyApp struct{ Abs, Arg TyID }

type TyBase struct{ Base Base }

// ConstTy is a type-level value, like the 10 in `String<10>`
type ConstTy struct{ ID ConstTyID }

// Never is the type of expressions that never produce a value
type Never struct{}

// Invalid marks a type that could not be computed. It unifies with
// every type so that a single mistake does not cascade into many errors
type Invalid struct{ Cause InvalidCause }

func (TyVar) tyData()   {}
func (TyParam) tyData() {}
func (TyApp) tyData()   {}
func (TyBase) tyData()  {}
func (ConstTy) tyData() {}
func (Never) tyData()   {}
func (Invalid) tyData() {}

type VarKey uint32

// Var identifies an inference variable. Sort and Kind are the ones
// known when the variable was interned; a unification table may know better
type Var struct {
	Key  VarKey
	Sort TyVarSort
	Kind Kind
}

type sortKind uint8

const (
	sortGeneral sortKind = iota
	sortIntegral
	sortString
)

// TyVarSort restricts which types a variable may be resolved to
type TyVarSort struct {
	kind   sortKind
	strLen uint
}

var (
	SortGeneral  = TyVarSort{kind: sortGeneral}
	SortIntegral = TyVarSort{kind: sortIntegral}
)

// SortString is the sort of variables created for string literals of length n.
// They can only be resolved to strings of capacity n or more
func SortString(n uint) TyVarSort {
	return TyVarSort{kind: sortString, strLen: n}
}

func (s TyVarSort) IsGeneral() bool  { return s.kind == sortGeneral }
func (s TyVarSort) IsIntegral() bool { return s.kind == sortIntegral }

// IsString returns the length bound of a string sort
func (s TyVarSort) IsString() (uint, bool) {
	return s.strLen, s.kind == sortString
}

func (s TyVarSort) String() string {
	switch s.kind {
	case sortIntegral:
		return "int"
	case sortString:
		return fmt.Sprintf("str(%d)", s.strLen)
	default:
		return "any"
	}
}

// Param is a generic parameter. Owner distinguishes same-named parameters of different items
type Param struct {
	Name        hir.IdentID
	Idx         int
	Kind        Kind
	IsTraitSelf bool
	Owner       hir.ScopeID
}

// Base is a type constructor that is not itself an application:
// a PrimTy, an AdtID or a FuncDefID
type Base interface {
	isBase()
}

func (PrimTy) isBase()    {}
func (AdtID) isBase()     {}
func (FuncDefID) isBase() {}

// InvalidCause says why a type is Invalid. Every implementation is comparable
type InvalidCause interface {
	isInvalidCause()
	String() string
}

type (
	InvalidOther struct{}
	// InvalidNotFullyApplied is for a type that still expects arguments where a proper type was required
	InvalidNotFullyApplied struct{}
	// InvalidKindMismatch is for an argument of the wrong kind. Expected is
	// KindAny when the applied type did not take any more arguments
	InvalidKindMismatch struct {
		Expected Kind
		Given    TyID
	}
	InvalidTypeNotFound struct {
		Name hir.IdentID
	}
	InvalidConstTyMismatch struct {
		Expected TyID
		Given    TyID
	}
)

func (InvalidOther) isInvalidCause()           {}
func (InvalidNotFullyApplied) isInvalidCause() {}
func (InvalidKindMismatch) isInvalidCause()    {}
func (InvalidTypeNotFound) isInvalidCause()    {}
func (InvalidConstTyMismatch) isInvalidCause() {}

func (InvalidOther) String() string           { return "other" }
func (InvalidNotFullyApplied) String() string { return "not fully applied" }
func (InvalidKindMismatch) String() string    { return "kind mismatch" }
func (c InvalidTypeNotFound) String() string  { return fmt.Sprintf("type '%s' not found", c.Name) }
func (InvalidConstTyMismatch) String() string { return "const type mismatch" }
