package ty

import (
	"math/big"
	"strconv"

	"github.com/cottand/tyck/hir"
)

// ConstTyID is an interned ConstTyData
type ConstTyID uint32

// ConstTyData is a type-level value. Ty returns the type of the value itself,
// like u256 for the length of a String
type ConstTyData interface {
	constTyData()
	Ty() TyID
}

type (
	ConstTyVar struct {
		Var   Var
		Carry TyID
	}
	ConstTyParam struct {
		Param Param
		Carry TyID
	}
	ConstTyEvaluated struct {
		Value EvaluatedConst
		Carry TyID
	}
	// ConstTyUnevaluated is a const expression that has not been evaluated yet
	ConstTyUnevaluated struct {
		Body  *hir.Body
		Carry TyID
	}
)

func (ConstTyVar) constTyData()         {}
func (ConstTyParam) constTyData()       {}
func (ConstTyEvaluated) constTyData()   {}
func (ConstTyUnevaluated) constTyData() {}

func (c ConstTyVar) Ty() TyID         { return c.Carry }
func (c ConstTyParam) Ty() TyID       { return c.Carry }
func (c ConstTyEvaluated) Ty() TyID   { return c.Carry }
func (c ConstTyUnevaluated) Ty() TyID { return c.Carry }

// EvaluatedConst is the value of an evaluated const type. Every implementation is comparable
type EvaluatedConst interface {
	evaluatedConst()
	String() string
}

// LitInt holds its value in base 10
type LitInt struct{ Value string }
type LitBool struct{ Value bool }
type InvalidConst struct{}

func (LitInt) evaluatedConst()       {}
func (LitBool) evaluatedConst()      {}
func (InvalidConst) evaluatedConst() {}

func (l LitInt) String() string     { return l.Value }
func (l LitBool) String() string    { return strconv.FormatBool(l.Value) }
func (InvalidConst) String() string { return "<invalid>" }

func NewLitInt(v uint64) LitInt {
	return LitInt{Value: strconv.FormatUint(v, 10)}
}

// ParseLitInt reads the base 10 integer s, so that equal values get the same LitInt
// whatever leading zeros or sign they were written with
func ParseLitInt(s string) (LitInt, bool) {
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return LitInt{}, false
	}
	return LitInt{Value: n.String()}, true
}

// Int returns the value of l, or false if it is not a valid base 10 integer
func (l LitInt) Int() (*big.Int, bool) {
	return new(big.Int).SetString(l.Value, 10)
}

// ConstTyData returns the data behind an interned const type
func (db *DB) ConstTyData(id ConstTyID) ConstTyData {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.constTys[id]
}

// ConstTy interns data and returns the type wrapping it
func (db *DB) ConstTy(data ConstTyData) TyID {
	return db.intern(ConstTy{ID: db.internConst(data)})
}

func (db *DB) internConst(data ConstTyData) ConstTyID {
	db.mu.RLock()
	id, ok := db.constIndex[data]
	db.mu.RUnlock()
	if ok {
		return id
	}
	db.mu.Lock()
	defer db.mu.Unlock()
	if id, ok := db.constIndex[data]; ok {
		return id
	}
	id = ConstTyID(len(db.constTys))
	db.constTys = append(db.constTys, data)
	db.constIndex[data] = id
	return id
}

// EvaluatedLen returns the value of t if it is an evaluated integer const type
func (db *DB) EvaluatedLen(t TyID) (*big.Int, bool) {
	c, ok := db.Data(t).(ConstTy)
	if !ok {
		return nil, false
	}
	evaluated, ok := db.ConstTyData(c.ID).(ConstTyEvaluated)
	if !ok {
		return nil, false
	}
	lit, ok := evaluated.Value.(LitInt)
	if !ok {
		return nil, false
	}
	return lit.Int()
}

// EvaluatedInt is the const type of the integer n, whose type is carry
func (db *DB) EvaluatedInt(n uint64, carry TyID) TyID {
	return db.ConstTy(ConstTyEvaluated{Value: NewLitInt(n), Carry: carry})
}
