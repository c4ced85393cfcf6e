package ty

import "fmt"

// PrimTy is a built-in type constructor. Tuples of every arity are
// encoded above PrimTuple0, see PrimTuple
type PrimTy uint16

const (
	PrimBool PrimTy = iota
	PrimU8
	PrimU16
	PrimU32
	PrimU64
	PrimU128
	PrimU256
	PrimUsize
	PrimI8
	PrimI16
	PrimI32
	PrimI64
	PrimI128
	PrimI256
	PrimIsize
	PrimString
	PrimArray
	PrimPtr
	PrimTuple0
)

var primNames = map[PrimTy]string{
	PrimBool: "bool",
	PrimU8:   "u8", PrimU16: "u16", PrimU32: "u32", PrimU64: "u64", PrimU128: "u128", PrimU256: "u256", PrimUsize: "usize",
	PrimI8: "i8", PrimI16: "i16", PrimI32: "i32", PrimI64: "i64", PrimI128: "i128", PrimI256: "i256", PrimIsize: "isize",
	PrimString: "String",
	PrimArray:  "Array",
	PrimPtr:    "Ptr",
}

// PrimTuple is the constructor of tuples with n elements
func PrimTuple(n int) PrimTy {
	return PrimTuple0 + PrimTy(n)
}

func (p PrimTy) IsTuple() (arity int, ok bool) {
	if p < PrimTuple0 {
		return 0, false
	}
	return int(p - PrimTuple0), true
}

func (p PrimTy) IsIntegral() bool {
	return p >= PrimU8 && p <= PrimIsize
}

func (p PrimTy) IsSigned() bool {
	return p >= PrimI8 && p <= PrimIsize
}

func (p PrimTy) String() string {
	if n, ok := p.IsTuple(); ok {
		return fmt.Sprintf("Tuple%d", n)
	}
	return primNames[p]
}

// PrimByName resolves the surface name of a primitive type
func PrimByName(name string) (PrimTy, bool) {
	for p, primName := range primNames {
		if primName == name {
			return p, true
		}
	}
	return 0, false
}

// primSlots describes the parameters each primitive constructor takes
func (db *DB) primSlots(p PrimTy) []paramSlot {
	star := paramSlot{kind: KindStar}
	switch p {
	case PrimString:
		return []paramSlot{{kind: KindStar, constTy: db.Prim(PrimU256), isConst: true}}
	case PrimArray:
		return []paramSlot{star, {kind: KindStar, constTy: db.Prim(PrimUsize), isConst: true}}
	case PrimPtr:
		return []paramSlot{star}
	}
	if n, ok := p.IsTuple(); ok {
		slots := make([]paramSlot, n)
		for i := range slots {
			slots[i] = star
		}
		return slots
	}
	return nil
}
