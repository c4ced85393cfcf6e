package ty

import (
	"testing"

	"github.com/cottand/tyck/hir"
	"github.com/stretchr/testify/assert"
)

// primCounter only overrides VisitPrim, everything else uses the default walk
type primCounter struct {
	db    *DB
	prims []PrimTy
}

func (c *primCounter) DB() *DB            { return c.db }
func (c *primCounter) VisitPrim(p PrimTy) { c.prims = append(c.prims, p) }

// appSkipper stops at applications whose head is a tuple
type appSkipper struct {
	primCounter
}

func (s *appSkipper) VisitApp(abs, arg TyID) {
	head, _ := s.db.Decompose(abs)
	if s.db.IsPrim(head, PrimTuple(2)) {
		return
	}
	WalkApp(s, abs, arg)
}

func TestVisitorPartialOverride(t *testing.T) {
	db := NewDB()
	u8, boolean := db.Prim(PrimU8), db.Bool()
	nested := db.Tuple(u8, db.Tuple(boolean, db.StringTy(3)))

	c := &primCounter{db: db}
	nested.VisitWith(c)
	assert.Equal(t, []PrimTy{PrimTuple(2), PrimU8, PrimTuple(2), PrimBool, PrimString, PrimU256}, c.prims)

	t.Run("overridden hook can stop recursion", func(t *testing.T) {
		s := &appSkipper{primCounter{db: db}}
		db.Tuple(u8, boolean).VisitWith(s)
		assert.Empty(t, s.prims)

		s = &appSkipper{primCounter{db: db}}
		db.StringTy(1).VisitWith(s)
		assert.Equal(t, []PrimTy{PrimString, PrimU256}, s.prims)
	})
}

func TestFreeVars(t *testing.T) {
	db := NewDB()
	v0 := db.Var(Var{Key: 0, Sort: SortGeneral, Kind: KindStar})
	v1 := db.Var(Var{Key: 1, Sort: SortIntegral, Kind: KindStar})
	constVar := db.ConstTy(ConstTyVar{Var: Var{Key: 2, Sort: SortGeneral, Kind: KindStar}, Carry: db.Prim(PrimU256)})

	x := db.Tuple(v1, v0, v1, db.App(db.Prim(PrimString), constVar))
	vars := FreeVars(db, x)

	keys := make([]VarKey, len(vars))
	for i, v := range vars {
		keys[i] = v.Key
	}
	assert.Equal(t, []VarKey{0, 1, 2}, keys)
	assert.Empty(t, FreeVars(db, db.Bool()))
}

func TestCollectParams(t *testing.T) {
	db := NewDB()
	owner := hir.ItemScope(hir.NewFunc("f", nil, nil, nil))
	tParam := Param{Name: "T", Idx: 0, Kind: KindStar, Owner: owner}
	nParam := Param{Name: "N", Idx: 1, Kind: KindStar, Owner: owner}
	paramT := db.Param(tParam)
	constN := db.ConstTy(ConstTyParam{Param: nParam, Carry: db.Prim(PrimU256)})

	inst := db.TraitInst(TraitInst{Def: db.NewTrait(TraitDef{Name: "Eq"})})

	preds := NewPredicateList(
		Predicate{Ty: db.Tuple(paramT, paramT), Trait: inst},
		Predicate{Ty: db.App(db.Prim(PrimString), constN), Trait: inst},
	)
	assert.Equal(t, []Param{tParam, nParam}, CollectParams(db, preds))
}

func TestInvalidCauses(t *testing.T) {
	db := NewDB()
	notFound := InvalidTypeNotFound{Name: "Foo"}
	x := db.Tuple(db.Invalid(notFound), db.Bool(), db.Invalid(nil))

	assert.True(t, ContainsInvalid(db, x))
	assert.False(t, ContainsInvalid(db, db.Tuple(db.Bool())))
	assert.Equal(t, []InvalidCause{notFound, InvalidOther{}}, InvalidCauses(db, x))
}

func TestVisitTraitInst(t *testing.T) {
	db := NewDB()
	trait := db.NewTrait(TraitDef{Name: "Add"})
	inst := db.TraitInst(TraitInst{Def: trait, Args: []TyID{db.Prim(PrimU8), db.Bool()}})

	c := &primCounter{db: db}
	Predicate{Ty: db.Prim(PrimI32), Trait: inst}.VisitWith(c)
	assert.Equal(t, []PrimTy{PrimI32, PrimU8, PrimBool}, c.prims)
}
