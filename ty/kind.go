package ty

// Kind classifies types the way types classify values.
// KindStar is the kind of proper types, like u8 or String<10>.
// Kinds of constructors, like String, are interned by DB.KindAbs
type Kind uint32

const (
	KindStar Kind = iota
	// KindAny is compatible with every kind. Invalid types have it
	KindAny
	firstAbsKind
)

type kindAbs struct {
	param, result Kind
}

// KindAbs returns the kind of constructors taking an argument of kind param
// and producing a type of kind result
func (db *DB) KindAbs(param, result Kind) Kind {
	key := kindAbs{param, result}
	db.mu.RLock()
	k, ok := db.kindIndex[key]
	db.mu.RUnlock()
	if ok {
		return k
	}
	db.mu.Lock()
	defer db.mu.Unlock()
	if k, ok := db.kindIndex[key]; ok {
		return k
	}
	k = firstAbsKind + Kind(len(db.kinds))
	db.kinds = append(db.kinds, key)
	db.kindIndex[key] = k
	return k
}

// KindAbsData returns the parameter and result kinds of an abstraction kind
func (db *DB) KindAbsData(k Kind) (param, result Kind, ok bool) {
	if k < firstAbsKind {
		return 0, 0, false
	}
	db.mu.RLock()
	defer db.mu.RUnlock()
	abs := db.kinds[k-firstAbsKind]
	return abs.param, abs.result, true
}

// KindsCompatible is kind equality, where KindAny is equal to everything
func KindsCompatible(a, b Kind) bool {
	return a == b || a == KindAny || b == KindAny
}

func (db *DB) KindString(k Kind) string {
	switch k {
	case KindStar:
		return "*"
	case KindAny:
		return "_"
	}
	param, result, _ := db.KindAbsData(k)
	paramStr := db.KindString(param)
	if _, _, isAbs := db.KindAbsData(param); isAbs {
		paramStr = "(" + paramStr + ")"
	}
	return paramStr + " -> " + db.KindString(result)
}
