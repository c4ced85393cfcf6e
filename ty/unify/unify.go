package unify

import (
	"errors"
	"fmt"

	"github.com/cottand/tyck/ty"
)

var (
	ErrTypeMismatch = errors.New("type mismatch")
	ErrOccursCheck  = errors.New("type would contain itself")
	ErrSortMismatch = errors.New("variable sort mismatch")
	ErrKindMismatch = errors.New("kind mismatch")
)

// Error is returned when two types cannot be unified. Lhs and Rhs are
// the innermost types that failed, not necessarily the ones passed to Unify
type Error struct {
	Reason   error
	Lhs, Rhs ty.TyID
}

func (e *Error) Error() string {
	return fmt.Sprintf("%v between types %d and %d", e.Reason, e.Lhs, e.Rhs)
}

func (e *Error) Unwrap() error { return e.Reason }

// Unify makes a and b equal by binding variables, or returns an *Error.
// On failure, bindings made before the failing point are rolled back
func (t *Table) Unify(a, b ty.TyID) error {
	snapshot := t.Snapshot()
	if err := t.unify(a, b); err != nil {
		t.Rollback(snapshot)
		logger.Debug("unification failed", "lhs", ty.Slog(t.db, a), "rhs", ty.Slog(t.db, b), "err", err)
		return err
	}
	t.Commit(snapshot)
	return nil
}

func (t *Table) unify(a, b ty.TyID) error {
	a, b = t.shallowResolve(a), t.shallowResolve(b)
	if a == b {
		return nil
	}
	db := t.db
	dataA, dataB := db.Data(a), db.Data(b)

	switch {
	case isInvalid(dataA) || isInvalid(dataB), isNever(dataA) || isNever(dataB):
		return nil
	}

	varA, aIsVar := dataA.(ty.TyVar)
	varB, bIsVar := dataB.(ty.TyVar)
	switch {
	case aIsVar && bIsVar:
		return t.unifyVarVar(varA.Var, varB.Var, a, b)
	case aIsVar:
		return t.bindVar(varA.Var, b)
	case bIsVar:
		return t.bindVar(varB.Var, a)
	}

	switch dataA := dataA.(type) {
	case ty.TyApp:
		dataB, ok := dataB.(ty.TyApp)
		if !ok {
			return &Error{Reason: ErrTypeMismatch, Lhs: a, Rhs: b}
		}
		if err := t.unify(dataA.Abs, dataB.Abs); err != nil {
			return err
		}
		return t.unify(dataA.Arg, dataB.Arg)
	case ty.ConstTy:
		dataB, ok := dataB.(ty.ConstTy)
		if !ok {
			return &Error{Reason: ErrTypeMismatch, Lhs: a, Rhs: b}
		}
		return t.unifyConst(dataA.ID, dataB.ID, a, b)
	default:
		// bases and params are interned, so different IDs are different types
		return &Error{Reason: ErrTypeMismatch, Lhs: a, Rhs: b}
	}
}

func isInvalid(data ty.TyData) bool {
	_, ok := data.(ty.Invalid)
	return ok
}

func isNever(data ty.TyData) bool {
	_, ok := data.(ty.Never)
	return ok
}

func mergeSorts(a, b ty.TyVarSort) (ty.TyVarSort, bool) {
	switch {
	case a.IsGeneral():
		return b, true
	case b.IsGeneral():
		return a, true
	case a.IsIntegral() && b.IsIntegral():
		return a, true
	}
	lenA, aIsString := a.IsString()
	lenB, bIsString := b.IsString()
	if aIsString && bIsString {
		return ty.SortString(max(lenA, lenB)), true
	}
	return ty.TyVarSort{}, false
}

func (t *Table) unifyVarVar(a, b ty.Var, tyA, tyB ty.TyID) error {
	rootA, entryA := t.find(a.Key)
	rootB, entryB := t.find(b.Key)
	if rootA == rootB {
		return nil
	}
	if !ty.KindsCompatible(entryA.kind, entryB.kind) {
		return &Error{Reason: ErrKindMismatch, Lhs: tyA, Rhs: tyB}
	}
	sort, ok := mergeSorts(entryA.sort, entryB.sort)
	if !ok {
		return &Error{Reason: ErrSortMismatch, Lhs: tyA, Rhs: tyB}
	}
	entryB.sort = sort
	if entryB.kind == ty.KindAny {
		entryB.kind = entryA.kind
	}
	t.entries = t.entries.
		Set(rootA, entry{parent: rootB}).
		Set(rootB, entryB)
	return nil
}

func (t *Table) bindVar(v ty.Var, value ty.TyID) error {
	root, e := t.find(v.Key)
	varTy := t.db.Var(ty.Var{Key: root, Sort: e.sort, Kind: e.kind})

	for _, free := range ty.FreeVars(t.db, t.Fold(value)) {
		if freeRoot, _ := t.find(free.Key); freeRoot == root {
			return &Error{Reason: ErrOccursCheck, Lhs: varTy, Rhs: value}
		}
	}
	if !ty.KindsCompatible(e.kind, t.db.Kind(value)) {
		return &Error{Reason: ErrKindMismatch, Lhs: varTy, Rhs: value}
	}
	if !t.satisfiesSort(e.sort, value) {
		return &Error{Reason: ErrSortMismatch, Lhs: varTy, Rhs: value}
	}

	e.value = value
	e.bound = true
	t.entries = t.entries.Set(root, e)
	return nil
}

func (t *Table) satisfiesSort(sort ty.TyVarSort, value ty.TyID) bool {
	if sort.IsGeneral() {
		return true
	}
	if sort.IsIntegral() {
		return t.db.IsIntegral(value)
	}
	minLen, _ := sort.IsString()
	lenTy, ok := t.db.StringLen(value)
	if !ok {
		return false
	}
	lenTy = t.shallowResolve(lenTy)
	length, evaluated := t.db.EvaluatedLen(lenTy)
	if !evaluated {
		// a length that is not known yet, like a const variable or parameter
		return true
	}
	return length.IsUint64() && length.Uint64() >= uint64(minLen)
}

func (t *Table) unifyConst(a, b ty.ConstTyID, tyA, tyB ty.TyID) error {
	dataA, dataB := t.db.ConstTyData(a), t.db.ConstTyData(b)
	if err := t.unify(dataA.Ty(), dataB.Ty()); err != nil {
		return err
	}

	if varA, ok := dataA.(ty.ConstTyVar); ok {
		return t.bindConstVar(varA.Var, tyB)
	}
	if varB, ok := dataB.(ty.ConstTyVar); ok {
		return t.bindConstVar(varB.Var, tyA)
	}

	evalA, okA := dataA.(ty.ConstTyEvaluated)
	evalB, okB := dataB.(ty.ConstTyEvaluated)
	if okA && okB && evalA.Value == evalB.Value {
		return nil
	}
	return &Error{Reason: ErrTypeMismatch, Lhs: tyA, Rhs: tyB}
}

func (t *Table) bindConstVar(v ty.Var, value ty.TyID) error {
	root, e := t.find(v.Key)
	if otherVar, ok := t.constVarOf(value); ok {
		otherRoot, _ := t.find(otherVar.Key)
		if otherRoot != root {
			t.entries = t.entries.Set(root, entry{parent: otherRoot})
		}
		return nil
	}
	e.value = value
	e.bound = true
	t.entries = t.entries.Set(root, e)
	return nil
}

func (t *Table) constVarOf(x ty.TyID) (ty.Var, bool) {
	c, ok := t.db.Data(x).(ty.ConstTy)
	if !ok {
		return ty.Var{}, false
	}
	constVar, ok := t.db.ConstTyData(c.ID).(ty.ConstTyVar)
	return constVar.Var, ok
}
