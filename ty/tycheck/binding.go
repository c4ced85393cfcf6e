package tycheck

import (
	"fmt"

	"github.com/cottand/tyck/hir"
	"github.com/cottand/tyck/ty"
)

type bindingKind uint8

const (
	localBinding bindingKind = iota + 1
	paramBinding
)

// LocalBinding is a variable visible in a body: either a local introduced by a
// pattern, or a parameter of the function. Bindings are immutable values,
// and two bindings are == iff they are the same variant with the same fields
type LocalBinding struct {
	kind  bindingKind
	pat   hir.PatID
	idx   int
	ty    ty.TyID
	isMut bool
}

// Local is the binding introduced by the path pattern pat
func Local(pat hir.PatID, isMut bool) LocalBinding {
	return LocalBinding{kind: localBinding, pat: pat, isMut: isMut}
}

// Param is the binding of the idx-th parameter of the function being checked
func Param(idx int, paramTy ty.TyID, isMut bool) LocalBinding {
	return LocalBinding{kind: paramBinding, idx: idx, ty: paramTy, isMut: isMut}
}

func (b LocalBinding) IsMut() bool { return b.isMut }

// Pat returns the pattern that introduced a local binding
func (b LocalBinding) Pat() (hir.PatID, bool) {
	return b.pat, b.kind == localBinding
}

// ParamIdx returns the position of a parameter binding in the function's parameter list
func (b LocalBinding) ParamIdx() (int, bool) {
	return b.idx, b.kind == paramBinding
}

func (b LocalBinding) String() string {
	mut := ""
	if b.isMut {
		mut = "mut "
	}
	switch b.kind {
	case localBinding:
		return fmt.Sprintf("local(%s%s)", mut, b.pat)
	case paramBinding:
		return fmt.Sprintf("param(%s#%d)", mut, b.idx)
	default:
		return "<no binding>"
	}
}

// BlockEnv is one level of the scope stack of an Env
type BlockEnv struct {
	Scope hir.ScopeID
	Vars  map[hir.IdentID]LocalBinding
	idx   int
}

func newBlockEnv(scope hir.ScopeID, idx int) *BlockEnv {
	return &BlockEnv{
		Scope: scope,
		Vars:  make(map[hir.IdentID]LocalBinding),
		idx:   idx,
	}
}

// Idx is the position of the block in the scope stack, 0 being the root
func (b *BlockEnv) Idx() int { return b.idx }

func (b *BlockEnv) LookupVar(name hir.IdentID) (LocalBinding, bool) {
	binding, ok := b.Vars[name]
	return binding, ok
}

// registerVar binds name, replacing any previous binding with the same name in this block
func (b *BlockEnv) registerVar(name hir.IdentID, binding LocalBinding) {
	b.Vars[name] = binding
}
