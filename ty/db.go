package ty

import (
	"sync"
)

// DB interns types and owns the definitions they refer to.
// It is safe for concurrent use, so that several bodies may be checked at once
type DB struct {
	mu sync.RWMutex

	tys     []TyData
	tyIndex map[TyData]TyID

	kinds     []kindAbs
	kindIndex map[kindAbs]Kind

	constTys   []ConstTyData
	constIndex map[ConstTyData]ConstTyID

	adts   []AdtDef
	funcs  []FuncDef
	traits []TraitDef

	traitInsts     []TraitInst
	traitInstIndex map[string]TraitInstID
}

func NewDB() *DB {
	return &DB{
		tyIndex:        make(map[TyData]TyID),
		kindIndex:      make(map[kindAbs]Kind),
		constIndex:     make(map[ConstTyData]ConstTyID),
		traitInstIndex: make(map[string]TraitInstID),
	}
}

func (db *DB) intern(data TyData) TyID {
	db.mu.RLock()
	id, ok := db.tyIndex[data]
	db.mu.RUnlock()
	if ok {
		return id
	}
	db.mu.Lock()
	defer db.mu.Unlock()
	if id, ok := db.tyIndex[data]; ok {
		return id
	}
	id = TyID(len(db.tys))
	db.tys = append(db.tys, data)
	db.tyIndex[data] = id
	return id
}

// Data returns the structure behind t
func (db *DB) Data(t TyID) TyData {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.tys[t]
}

func (db *DB) Var(v Var) TyID           { return db.intern(TyVar{Var: v}) }
func (db *DB) Param(p Param) TyID       { return db.intern(TyParam{Param: p}) }
func (db *DB) App(abs, arg TyID) TyID   { return db.intern(TyApp{Abs: abs, Arg: arg}) }
func (db *DB) Base(b Base) TyID         { return db.intern(TyBase{Base: b}) }
func (db *DB) Prim(p PrimTy) TyID       { return db.Base(p) }
func (db *DB) AdtTy(id AdtID) TyID      { return db.Base(id) }
func (db *DB) FuncTy(id FuncDefID) TyID { return db.Base(id) }
func (db *DB) Never() TyID              { return db.intern(Never{}) }
func (db *DB) Bool() TyID               { return db.Prim(PrimBool) }

func (db *DB) Invalid(cause InvalidCause) TyID {
	if cause == nil {
		cause = InvalidOther{}
	}
	return db.intern(Invalid{Cause: cause})
}

// Unit is the empty tuple
func (db *DB) Unit() TyID { return db.Prim(PrimTuple(0)) }

// AppN applies abs to every argument in order
func (db *DB) AppN(abs TyID, args ...TyID) TyID {
	for _, arg := range args {
		abs = db.App(abs, arg)
	}
	return abs
}

// Tuple returns the tuple type of elems
func (db *DB) Tuple(elems ...TyID) TyID {
	return db.AppN(db.Prim(PrimTuple(len(elems))), elems...)
}

// Decompose splits a chain of applications into its head and arguments
func (db *DB) Decompose(t TyID) (head TyID, args []TyID) {
	for {
		app, ok := db.Data(t).(TyApp)
		if !ok {
			break
		}
		args = append(args, app.Arg)
		t = app.Abs
	}
	for i, j := 0, len(args)-1; i < j; i, j = i+1, j-1 {
		args[i], args[j] = args[j], args[i]
	}
	return t, args
}

// BaseOf returns the Base at the head of t, if there is one
func (db *DB) BaseOf(t TyID) (Base, bool) {
	head, _ := db.Decompose(t)
	base, ok := db.Data(head).(TyBase)
	if !ok {
		return nil, false
	}
	return base.Base, true
}

func (db *DB) IsPrim(t TyID, p PrimTy) bool {
	base, ok := db.BaseOf(t)
	return ok && base == p
}

func (db *DB) IsInvalid(t TyID) bool {
	_, ok := db.Data(t).(Invalid)
	return ok
}

func (db *DB) IsIntegral(t TyID) bool {
	prim, ok := db.Data(t).(TyBase)
	if !ok {
		return false
	}
	p, ok := prim.Base.(PrimTy)
	return ok && p.IsIntegral()
}

// StringTy is String<n>
func (db *DB) StringTy(n uint64) TyID {
	str := db.Prim(PrimString)
	app, _ := db.ApplicableTy(str)
	return db.App(str, db.EvaluatedInt(n, app.ConstTy))
}

// StringLen returns the length argument of a String<N> type
func (db *DB) StringLen(t TyID) (TyID, bool) {
	head, args := db.Decompose(t)
	if len(args) != 1 || head != db.Prim(PrimString) {
		return 0, false
	}
	return args[0], true
}

// Kind computes the kind of t
func (db *DB) Kind(t TyID) Kind {
	switch data := db.Data(t).(type) {
	case TyVar:
		return data.Var.Kind
	case TyParam:
		return data.Param.Kind
	case TyApp:
		_, result, ok := db.KindAbsData(db.Kind(data.Abs))
		if !ok {
			return KindAny
		}
		return result
	case TyBase:
		kind := KindStar
		slots := db.baseSlots(data.Base)
		for i := len(slots) - 1; i >= 0; i-- {
			kind = db.KindAbs(slots[i].kind, kind)
		}
		return kind
	case Invalid:
		return KindAny
	default:
		return KindStar
	}
}

// IsStarKind reports whether t is a proper type, one that does not take any more arguments.
// Types of kind KindAny are accepted too
func (db *DB) IsStarKind(t TyID) bool {
	_, _, isAbs := db.KindAbsData(db.Kind(t))
	return !isAbs
}

// paramSlot describes one parameter of a type constructor
type paramSlot struct {
	kind    Kind
	constTy TyID
	isConst bool
}

func (db *DB) baseSlots(base Base) []paramSlot {
	switch base := base.(type) {
	case PrimTy:
		return db.primSlots(base)
	case AdtID:
		return db.slotsOf(db.Adt(base).Params)
	case FuncDefID:
		return db.slotsOf(db.FuncDef(base).Params)
	default:
		return nil
	}
}

func (db *DB) slotsOf(params []TyID) []paramSlot {
	slots := make([]paramSlot, len(params))
	for i, param := range params {
		if c, ok := db.Data(param).(ConstTy); ok {
			slots[i] = paramSlot{kind: KindStar, constTy: db.ConstTyData(c.ID).Ty(), isConst: true}
			continue
		}
		slots[i] = paramSlot{kind: db.Kind(param)}
	}
	return slots
}

// ApplicableTy describes the next argument a type constructor accepts
type ApplicableTy struct {
	Kind Kind
	// ConstTy is the type of the argument's value, when IsConst is set
	ConstTy TyID
	IsConst bool
}

// ApplicableTy returns the next parameter of t, or false if t does not take more arguments
func (db *DB) ApplicableTy(t TyID) (ApplicableTy, bool) {
	head, args := db.Decompose(t)
	switch data := db.Data(head).(type) {
	case TyBase:
		slots := db.baseSlots(data.Base)
		if len(args) >= len(slots) {
			return ApplicableTy{}, false
		}
		slot := slots[len(args)]
		return ApplicableTy{Kind: slot.kind, ConstTy: slot.constTy, IsConst: slot.isConst}, true
	default:
		param, _, ok := db.KindAbsData(db.Kind(t))
		if !ok {
			return ApplicableTy{}, false
		}
		return ApplicableTy{Kind: param}, true
	}
}
