package lower

import (
	"testing"

	"github.com/cottand/tyck/hir"
	"github.com/cottand/tyck/ty"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func path(name hir.IdentID, args ...hir.TypeRef) *hir.PathType {
	return &hir.PathType{Name: name, Args: args}
}

func constInt(v string) *hir.ConstArg {
	return &hir.ConstArg{Lit: hir.IntLit{Value: v}}
}

func TestLowerPrims(t *testing.T) {
	db := ty.NewDB()
	l := NewTypeLowerer(db)
	scope := hir.ItemScope(nil)

	cases := []struct {
		name     string
		ref      hir.TypeRef
		expected ty.TyID
	}{
		{"bool", path("bool"), db.Bool()},
		{"alias", path("Int"), db.Prim(ty.PrimI256)},
		{"string", path("String", constInt("10")), db.StringTy(10)},
		{"leading zeros", path("String", constInt("010")), db.StringTy(10)},
		{"unapplied string", path("String"), db.Prim(ty.PrimString)},
		{"tuple", &hir.TupleType{Elems: []hir.TypeRef{path("u8"), path("bool")}}, db.Tuple(db.Prim(ty.PrimU8), db.Bool())},
		{"unit", &hir.TupleType{}, db.Unit()},
		{"missing annotation", nil, db.Invalid(nil)},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.expected, l.LowerTy(c.ref, scope))
		})
	}
}

func TestLowerInvalid(t *testing.T) {
	db := ty.NewDB()
	l := NewTypeLowerer(db)
	scope := hir.ItemScope(nil)

	t.Run("unknown name", func(t *testing.T) {
		lowered := l.LowerTy(path("Foo"), scope)
		assert.Equal(t, db.Invalid(ty.InvalidTypeNotFound{Name: "Foo"}), lowered)
	})

	t.Run("too many arguments", func(t *testing.T) {
		lowered := l.LowerTy(path("bool", path("u8")), scope)
		assert.Equal(t, db.Invalid(ty.InvalidKindMismatch{Expected: ty.KindAny, Given: db.Bool()}), lowered)
	})

	t.Run("type where a const is expected", func(t *testing.T) {
		lowered := l.LowerTy(path("String", path("u8")), scope)
		expected := ty.InvalidConstTyMismatch{Expected: db.Prim(ty.PrimU256), Given: db.Prim(ty.PrimU8)}
		assert.Equal(t, db.Invalid(expected), lowered)
	})

	t.Run("const where a type is expected", func(t *testing.T) {
		lowered := l.LowerTy(path("Ptr", constInt("1")), scope)
		causes := ty.InvalidCauses(db, lowered)
		require.Len(t, causes, 1)
		assert.IsType(t, ty.InvalidKindMismatch{}, causes[0])
	})

	t.Run("bool const for an integer", func(t *testing.T) {
		lowered := l.LowerTy(path("String", &hir.ConstArg{Lit: hir.BoolLit{Value: true}}), scope)
		assert.IsType(t, ty.InvalidConstTyMismatch{}, ty.InvalidCauses(db, lowered)[0])
	})

	t.Run("non star argument", func(t *testing.T) {
		lowered := l.LowerTy(path("Ptr", path("String")), scope)
		assert.IsType(t, ty.InvalidKindMismatch{}, ty.InvalidCauses(db, lowered)[0])
	})
}

func TestDeclareModule(t *testing.T) {
	db := ty.NewDB()
	l := NewTypeLowerer(db)

	list := &hir.Adt{
		Name:     "List",
		Generics: []hir.GenericParam{{Name: "T"}},
		Fields: []hir.Field{
			{Name: "head", Ty: path("T")},
			{Name: "tail", Ty: path("Ptr", path("List", path("T")))},
		},
	}
	buf := &hir.Adt{
		Name:     "Buf",
		Generics: []hir.GenericParam{{Name: "N", ConstTy: path("usize")}},
		Fields:   []hir.Field{{Name: "data", Ty: path("Array", path("u8"), path("N"))}},
	}
	eq := &hir.Trait{Name: "Eq"}
	m := &hir.Module{Name: "test", Adts: []*hir.Adt{list, buf}, Traits: []*hir.Trait{eq}}
	require.NoError(t, l.DeclareModule(m))

	listID, ok := l.Adt("List")
	require.True(t, ok)
	def := db.Adt(listID)
	require.Len(t, def.Params, 1)
	paramT := def.Params[0]
	assert.Equal(t, paramT, def.Fields[0].Ty)
	assert.Equal(t, db.App(db.Prim(ty.PrimPtr), db.App(db.AdtTy(listID), paramT)), def.Fields[1].Ty)

	bufID, ok := l.Adt("Buf")
	require.True(t, ok)
	assert.False(t, ty.ContainsInvalid(db, db.Adt(bufID).Fields[0].Ty))
	assert.Equal(t, "Buf<3>", db.TyString(l.LowerTy(path("Buf", constInt("3")), hir.ItemScope(nil))))

	traitID, ok := l.Trait("Eq")
	require.True(t, ok)
	self := db.Data(db.Trait(traitID).Self).(ty.TyParam)
	assert.True(t, self.Param.IsTraitSelf)

	assert.Error(t, l.DeclareModule(&hir.Module{Traits: []*hir.Trait{{Name: "Eq"}}}))
}

func TestLowerFunc(t *testing.T) {
	db := ty.NewDB()
	l := NewTypeLowerer(db)

	fn := hir.NewFunc("id", []hir.Param{{Name: "x", Ty: path("T")}, {Name: "y"}}, path("T"), nil)
	fn.Generics = []hir.GenericParam{{Name: "T"}}
	require.NoError(t, l.DeclareModule(&hir.Module{Funcs: []*hir.Func{fn}}))

	id, ok := l.LookupFunc("id")
	require.True(t, ok)
	assert.Equal(t, id, l.LowerFunc(fn))

	def := db.FuncDef(id)
	require.Len(t, def.Params, 1)
	assert.Equal(t, []ty.TyID{def.Params[0], db.Invalid(nil)}, def.ArgTys)
	assert.Equal(t, def.Params[0], def.RetTy)
	assert.Same(t, fn, def.Hir)

	t.Run("generics are scoped to their function", func(t *testing.T) {
		other := hir.NewFunc("other", nil, nil, nil)
		other.Generics = []hir.GenericParam{{Name: "T"}}
		assert.NotEqual(t, l.LowerTy(path("T"), hir.ItemScope(fn)), l.LowerTy(path("T"), hir.ItemScope(other)))
		assert.Equal(t, db.Invalid(ty.InvalidTypeNotFound{Name: "T"}), l.LowerTy(path("T"), hir.ItemScope(nil)))
	})

	t.Run("parent generics come first", func(t *testing.T) {
		method := hir.NewFunc("method", nil, nil, nil)
		method.Parent = &hir.ParentItem{Name: "Impl", Generics: []hir.GenericParam{{Name: "S"}}}
		method.Generics = []hir.GenericParam{{Name: "U"}}
		def := db.FuncDef(l.LowerFunc(method))
		require.Len(t, def.Params, 2)
		assert.Equal(t, hir.IdentID("S"), db.Data(def.Params[0]).(ty.TyParam).Param.Name)
		assert.Equal(t, 1, db.Data(def.Params[1]).(ty.TyParam).Param.Idx)
		assert.Equal(t, db.Unit(), def.RetTy)
	})
}
