package ty

// Folder rewrites types. FoldTy is called on every type a Foldable contains;
// implementations that want to keep descending into a type's children call SuperFold
type Folder interface {
	DB() *DB
	FoldTy(t TyID) TyID
}

// SuperFold rebuilds t from its folded children. Types without children are returned as they are
func SuperFold(f Folder, t TyID) TyID {
	db := f.DB()
	switch data := db.Data(t).(type) {
	case TyApp:
		abs := f.FoldTy(data.Abs)
		arg := f.FoldTy(data.Arg)
		return db.App(abs, arg)
	case ConstTy:
		return db.ConstTy(foldConstTyData(f, db.ConstTyData(data.ID)))
	default:
		return t
	}
}

func foldConstTyData(f Folder, data ConstTyData) ConstTyData {
	switch data := data.(type) {
	case ConstTyVar:
		data.Carry = f.FoldTy(data.Carry)
		return data
	case ConstTyParam:
		data.Carry = f.FoldTy(data.Carry)
		return data
	case ConstTyEvaluated:
		data.Carry = f.FoldTy(data.Carry)
		return data
	case ConstTyUnevaluated:
		data.Carry = f.FoldTy(data.Carry)
		return data
	default:
		return data
	}
}

func (t TyID) FoldWith(f Folder) TyID {
	return f.FoldTy(t)
}

func FoldSlice(f Folder, tys []TyID) []TyID {
	if tys == nil {
		return nil
	}
	folded := make([]TyID, len(tys))
	for i, t := range tys {
		folded[i] = f.FoldTy(t)
	}
	return folded
}

func (id TraitInstID) FoldWith(f Folder) TraitInstID {
	db := f.DB()
	inst := db.TraitInstData(id)
	return db.TraitInst(TraitInst{Def: inst.Def, Args: FoldSlice(f, inst.Args)})
}

func (p Predicate) FoldWith(f Folder) Predicate {
	return Predicate{Ty: p.Ty.FoldWith(f), Trait: p.Trait.FoldWith(f)}
}

func (l PredicateList) FoldWith(f Folder) PredicateList {
	preds := l.Predicates()
	for i, p := range preds {
		preds[i] = p.FoldWith(f)
	}
	return NewPredicateList(preds...)
}

// FolderFunc adapts fn to the Folder interface
func FolderFunc(db *DB, fn func(f Folder, t TyID) TyID) Folder {
	return folderFunc{db: db, fn: fn}
}

type folderFunc struct {
	db *DB
	fn func(f Folder, t TyID) TyID
}

func (f folderFunc) DB() *DB            { return f.db }
func (f folderFunc) FoldTy(t TyID) TyID { return f.fn(f, t) }

func (l TypeList) FoldWith(f Folder) TypeList {
	return FoldSlice(f, l)
}
