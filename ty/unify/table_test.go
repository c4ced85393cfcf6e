package unify

import (
	"testing"

	"github.com/cottand/tyck/ty"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnifyVarWithPrim(t *testing.T) {
	db := ty.NewDB()
	table := NewTable(db)
	u8 := db.Prim(ty.PrimU8)

	v := table.NewVar(ty.SortGeneral, ty.KindStar)
	require.NoError(t, table.Unify(v, u8))
	assert.Equal(t, u8, table.Fold(v))

	// already bound
	assert.NoError(t, table.Unify(u8, v))
	assert.ErrorIs(t, table.Unify(v, db.Bool()), ErrTypeMismatch)
}

func TestUnifySorts(t *testing.T) {
	db := ty.NewDB()

	t.Run("integral only accepts integers", func(t *testing.T) {
		table := NewTable(db)
		v := table.NewVar(ty.SortIntegral, ty.KindStar)
		assert.ErrorIs(t, table.Unify(v, db.Bool()), ErrSortMismatch)
		assert.NoError(t, table.Unify(v, db.Prim(ty.PrimI32)))
	})

	t.Run("general adopts the other sort", func(t *testing.T) {
		table := NewTable(db)
		general := table.NewVar(ty.SortGeneral, ty.KindStar)
		integral := table.NewVar(ty.SortIntegral, ty.KindStar)
		require.NoError(t, table.Unify(general, integral))

		key := db.Data(general).(ty.TyVar).Var.Key
		assert.True(t, table.Sort(key).IsIntegral())
		assert.Equal(t, table.Fold(general), table.Fold(integral))
	})

	t.Run("strings keep the longest bound", func(t *testing.T) {
		table := NewTable(db)
		short := table.NewVar(ty.SortString(3), ty.KindStar)
		long := table.NewVar(ty.SortString(10), ty.KindStar)
		require.NoError(t, table.Unify(short, long))

		key := db.Data(short).(ty.TyVar).Var.Key
		n, ok := table.Sort(key).IsString()
		assert.True(t, ok)
		assert.EqualValues(t, 10, n)

		assert.ErrorIs(t, table.Unify(short, db.StringTy(5)), ErrSortMismatch)
		assert.NoError(t, table.Unify(short, db.StringTy(12)))
	})

	t.Run("integral and string do not merge", func(t *testing.T) {
		table := NewTable(db)
		integral := table.NewVar(ty.SortIntegral, ty.KindStar)
		str := table.NewVar(ty.SortString(1), ty.KindStar)
		assert.ErrorIs(t, table.Unify(integral, str), ErrSortMismatch)
	})
}

func TestUnifyApps(t *testing.T) {
	db := ty.NewDB()
	table := NewTable(db)
	u8, boolean := db.Prim(ty.PrimU8), db.Bool()

	a := table.NewVar(ty.SortGeneral, ty.KindStar)
	b := table.NewVar(ty.SortGeneral, ty.KindStar)
	require.NoError(t, table.Unify(db.Tuple(a, boolean), db.Tuple(u8, b)))

	assert.Equal(t, db.Tuple(u8, boolean), table.Fold(db.Tuple(a, b)))
	assert.ErrorIs(t, table.Unify(db.Tuple(a), db.Tuple(a, b)), ErrTypeMismatch)
}

func TestOccursCheck(t *testing.T) {
	db := ty.NewDB()
	table := NewTable(db)
	v := table.NewVar(ty.SortGeneral, ty.KindStar)

	err := table.Unify(v, db.Tuple(v, db.Bool()))
	var unifyErr *Error
	require.ErrorAs(t, err, &unifyErr)
	assert.ErrorIs(t, err, ErrOccursCheck)
	assert.Equal(t, v, table.Fold(v))
}

func TestInvalidAndNeverUnifyWithAnything(t *testing.T) {
	db := ty.NewDB()
	table := NewTable(db)

	assert.NoError(t, table.Unify(db.Invalid(nil), db.Bool()))
	assert.NoError(t, table.Unify(db.Prim(ty.PrimU8), db.Never()))

	v := table.NewVar(ty.SortGeneral, ty.KindStar)
	assert.NoError(t, table.Unify(v, db.Never()))
	// the variable stays unbound
	assert.Equal(t, v, table.Fold(v))
}

func TestConstUnification(t *testing.T) {
	db := ty.NewDB()
	table := NewTable(db)
	str := db.Prim(ty.PrimString)
	u256 := db.Prim(ty.PrimU256)

	length := table.NewConstVar(u256)
	require.NoError(t, table.Unify(db.App(str, length), db.StringTy(4)))
	assert.Equal(t, db.StringTy(4), table.Fold(db.App(str, length)))

	assert.ErrorIs(t, table.Unify(db.StringTy(4), db.StringTy(5)), ErrTypeMismatch)
	assert.NoError(t, table.Unify(db.StringTy(4), db.StringTy(4)))
}

func TestSnapshots(t *testing.T) {
	db := ty.NewDB()
	table := NewTable(db)
	v := table.NewVar(ty.SortGeneral, ty.KindStar)

	s := table.Snapshot()
	assert.True(t, table.InSnapshot())
	w := table.NewVar(ty.SortGeneral, ty.KindStar)
	require.NoError(t, table.Unify(v, db.Bool()))
	require.NoError(t, table.Unify(w, db.Bool()))
	assert.Equal(t, 2, table.Len())

	table.Rollback(s)
	assert.False(t, table.InSnapshot())
	assert.Equal(t, 1, table.Len())
	assert.Equal(t, v, table.Fold(v))
	_, bound := table.Probe(db.Data(v).(ty.TyVar).Var.Key)
	assert.False(t, bound)

	s = table.Snapshot()
	require.NoError(t, table.Unify(v, db.Bool()))
	table.Commit(s)
	assert.Equal(t, db.Bool(), table.Fold(v))
}

func TestFailedUnifyLeavesNoBindings(t *testing.T) {
	db := ty.NewDB()
	table := NewTable(db)
	a := table.NewVar(ty.SortGeneral, ty.KindStar)

	// a gets bound to u8 before the second element fails
	err := table.Unify(db.Tuple(a, db.Bool()), db.Tuple(db.Prim(ty.PrimU8), db.Prim(ty.PrimU16)))
	assert.Error(t, err)
	assert.Equal(t, a, table.Fold(a))
}

func TestNewKeyFromVar(t *testing.T) {
	db := ty.NewDB()
	table := NewTable(db)
	v := table.NewVar(ty.SortIntegral, ty.KindStar)

	fresh := table.NewKeyFromVar(db.Data(v).(ty.TyVar).Var)
	freshVar := db.Data(fresh).(ty.TyVar).Var
	assert.NotEqual(t, v, fresh)
	assert.True(t, freshVar.Sort.IsIntegral())
}
