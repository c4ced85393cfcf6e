package ty

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSuperFoldIsStructural(t *testing.T) {
	db := NewDB()
	u8, u16, boolean := db.Prim(PrimU8), db.Prim(PrimU16), db.Bool()

	replaceU8 := FolderFunc(db, func(f Folder, t TyID) TyID {
		if t == u8 {
			return u16
		}
		return SuperFold(f, t)
	})

	assert.Equal(t, db.Tuple(u16, db.Tuple(boolean, u16)), db.Tuple(u8, db.Tuple(boolean, u8)).FoldWith(replaceU8))
	assert.Equal(t, boolean, boolean.FoldWith(replaceU8))

	t.Run("const carriers are folded", func(t *testing.T) {
		c := db.EvaluatedInt(4, u8)
		assert.Equal(t, db.EvaluatedInt(4, u16), c.FoldWith(replaceU8))
	})

	t.Run("identity folder keeps ids", func(t *testing.T) {
		identity := FolderFunc(db, SuperFold)
		x := db.Tuple(u8, db.StringTy(3))
		assert.Equal(t, x, x.FoldWith(identity))
	})
}

func TestFoldPredicates(t *testing.T) {
	db := NewDB()
	u8, u16 := db.Prim(PrimU8), db.Prim(PrimU16)
	trait := db.NewTrait(TraitDef{Name: "Eq"})
	eqU8 := db.TraitInst(TraitInst{Def: trait, Args: []TyID{u8}})
	eqU16 := db.TraitInst(TraitInst{Def: trait, Args: []TyID{u16}})

	replaceU8 := FolderFunc(db, func(f Folder, t TyID) TyID {
		if t == u8 {
			return u16
		}
		return SuperFold(f, t)
	})

	list := NewPredicateList(Predicate{Ty: u8, Trait: eqU8}, Predicate{Ty: u16, Trait: eqU16})
	folded := list.FoldWith(replaceU8)

	// both predicates become the same one
	assert.Equal(t, 1, folded.Len())
	assert.True(t, folded.Contains(Predicate{Ty: u16, Trait: eqU16}))
	assert.Equal(t, 2, list.Len())
}
