package tycheck

import (
	"errors"
	"testing"

	"github.com/cottand/tyck/hir"
	"github.com/cottand/tyck/ty"
	"github.com/cottand/tyck/ty/lower"
	"github.com/cottand/tyck/ty/traits"
	"github.com/cottand/tyck/ty/unify"
	"github.com/cottand/tyck/tyerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intRef() hir.TypeRef { return &hir.PathType{Name: "Int"} }

func newDeps(t *testing.T, db *ty.DB, m *hir.Module) Deps {
	l := lower.NewTypeLowerer(db)
	require.NoError(t, l.DeclareModule(m))
	return Deps{
		Lowerer:     l,
		Constraints: traits.NewConstraintCollector(db, l),
		Items:       l,
	}
}

func catchFailure(f func()) (err error) {
	defer tyerr.RecoverFailure(&err)
	f()
	return nil
}

func assertFailure(t *testing.T, f func()) {
	t.Helper()
	var failure tyerr.Failure
	assert.ErrorAs(t, catchFailure(f), &failure)
}

// scopesBody is `{ { } }` with two unused patterns for bindings called a
type scopesBody struct {
	body       *hir.Body
	root       *hir.BlockExpr
	rootID     hir.ExprID
	inner      hir.ExprID
	literal    hir.ExprID
	outerA     hir.PatID
	innerA     hir.PatID
	literalPat hir.PatID
}

func newScopesBody(kind hir.BodyKind) scopesBody {
	b := hir.NewBodyBuilder(kind)
	s := scopesBody{}
	s.outerA = b.Bind("a", false)
	s.innerA = b.Bind("a", true)
	s.literalPat = b.WildCard()
	s.literal = b.Int("1")
	s.inner = b.Block(b.ExprStmt(s.literal))
	s.rootID = b.Block(b.ExprStmt(s.inner))
	s.body = b.Finish(s.rootID)
	return s
}

func newScopesEnv(t *testing.T) (*Env, scopesBody) {
	db := ty.NewDB()
	s := newScopesBody(hir.FuncBody)
	fn := hir.NewFunc("scopes", nil, nil, s.body)
	env, err := NewEnvWithFunc(db, fn, newDeps(t, db, &hir.Module{Funcs: []*hir.Func{fn}}))
	require.NoError(t, err)
	return env, s
}

func TestEndToEndEnv(t *testing.T) {
	db := ty.NewDB()
	i256 := db.Prim(ty.PrimI256)

	// f(x: Int, mut y: Int) { let z = x; z }
	b := hir.NewBodyBuilder(hir.FuncBody)
	xRef := b.Path("x")
	zPat := b.Bind("z", false)
	let := b.Let(zPat, nil, hir.Some(xRef))
	zRef := b.Path("z")
	root := b.Block(let, b.ExprStmt(zRef))
	body := b.Finish(root)
	fn := hir.NewFunc("f", []hir.Param{{Name: "x", Ty: intRef()}, {Name: "y", Ty: intRef(), IsMut: true}}, nil, body)

	env, err := NewEnvWithFunc(db, fn, newDeps(t, db, &hir.Module{Funcs: []*hir.Func{fn}}))
	require.NoError(t, err)

	t.Run("parameters are bound", func(t *testing.T) {
		x, ok := env.Lookup("x")
		require.True(t, ok)
		assert.False(t, x.IsMut())
		assert.Equal(t, i256, env.LookupBindingTy(x))
		idx, ok := x.ParamIdx()
		assert.True(t, ok)
		assert.Equal(t, 0, idx)

		y, ok := env.Lookup("y")
		require.True(t, ok)
		assert.True(t, y.IsMut())
		assert.Equal(t, i256, env.LookupBindingTy(y))

		top := env.GetBlock(env.CurrentBlockIdx())
		assert.Len(t, top.Vars, 2)
		assert.Equal(t, hir.BlockScope(body, root), top.Scope)
		assert.Equal(t, hir.ItemScope(fn), env.GetBlock(0).Scope)
		assert.Equal(t, hir.IdentID("y"), env.BindingName(y))
	})

	x, _ := env.Lookup("x")
	env.EnterScope(root)
	env.TypeExpr(xRef, NewBindingRef(env.LookupBindingTy(x), x.IsMut(), x))
	env.TypePat(zPat, i256)
	env.RegisterPendingBinding("z", Local(zPat, false))
	env.FlushPendingBindings()

	z, ok := env.Lookup("z")
	require.True(t, ok)
	assert.Equal(t, hir.IdentID("z"), env.BindingName(z))
	env.TypeExpr(zRef, NewBindingRef(env.LookupBindingTy(z), z.IsMut(), z))
	env.LeaveScope()

	typed := env.Finish(unify.NewTable(db))
	assert.Equal(t, i256, typed.ExprTy(xRef))
	assert.Equal(t, i256, typed.ExprTy(zRef))
	assert.Equal(t, i256, typed.PatTy(zPat))
	assert.False(t, ty.ContainsInvalid(db, typed))

	prop, ok := typed.ExprProp(zRef)
	require.True(t, ok)
	binding, ok := prop.Binding()
	assert.True(t, ok)
	assert.Equal(t, z, binding)
}

func TestNoBody(t *testing.T) {
	db := ty.NewDB()
	decl := hir.NewFunc("decl", nil, nil, nil)
	_, err := NewEnvWithFunc(db, decl, newDeps(t, db, &hir.Module{}))

	var noBody tyerr.NoBody
	require.True(t, errors.As(err, &noBody))
	assert.Equal(t, "decl", noBody.Func)
	assert.Equal(t, tyerr.NoBodyCode, noBody.Code())
}

func TestParamTypes(t *testing.T) {
	db := ty.NewDB()
	body := newScopesBody(hir.FuncBody).body
	fn := hir.NewFunc("params", []hir.Param{
		{Name: "", Ty: intRef()},
		{Name: "missing"},
		{Name: "unapplied", Ty: &hir.PathType{Name: "String"}},
		{Name: "unknown", Ty: &hir.PathType{Name: "Nope"}},
		{Name: "ok", Ty: &hir.PathType{Name: "bool"}},
	}, nil, body)
	env, err := NewEnvWithFunc(db, fn, newDeps(t, db, &hir.Module{Funcs: []*hir.Func{fn}}))
	require.NoError(t, err)

	assert.Len(t, env.GetBlock(env.CurrentBlockIdx()).Vars, 4)

	for _, name := range []hir.IdentID{"missing", "unapplied", "unknown"} {
		binding, ok := env.Lookup(name)
		require.True(t, ok, name)
		assert.True(t, db.IsInvalid(env.LookupBindingTy(binding)), name)
	}
	ok, _ := env.Lookup("ok")
	idx, _ := ok.ParamIdx()
	assert.Equal(t, 4, idx)
	assert.Equal(t, db.Bool(), env.LookupBindingTy(ok))
}

func TestScopeBalance(t *testing.T) {
	env, s := newScopesEnv(t)
	depth, scope := env.ScopeDepth(), env.Scope()

	env.EnterScope(s.inner)
	assert.Equal(t, hir.BlockScope(s.body, s.inner), env.Scope())
	env.EnterScope(s.literal)
	assert.Equal(t, hir.BlockScope(s.body, s.inner), env.Scope(), "non-block expressions keep the current scope")
	assert.Equal(t, depth+2, env.ScopeDepth())
	assert.Equal(t, depth+1, env.CurrentBlockIdx())
	env.LeaveScope()
	env.LeaveScope()

	assert.Equal(t, depth, env.ScopeDepth())
	assert.Equal(t, scope, env.Scope())

	t.Run("the root scope cannot be left", func(t *testing.T) {
		for env.ScopeDepth() > 1 {
			env.LeaveScope()
		}
		assertFailure(t, env.LeaveScope)
		assert.Equal(t, 1, env.ScopeDepth())
	})
}

func TestShadowing(t *testing.T) {
	env, s := newScopesEnv(t)
	outer, inner := Local(s.outerA, false), Local(s.innerA, true)

	env.RegisterPendingBinding("a", outer)
	env.FlushPendingBindings()
	env.EnterScope(s.inner)
	env.RegisterPendingBinding("a", inner)
	env.FlushPendingBindings()

	found, ok := env.Lookup("a")
	require.True(t, ok)
	assert.Equal(t, inner, found)

	env.LeaveScope()
	found, ok = env.Lookup("a")
	require.True(t, ok)
	assert.Equal(t, outer, found)

	_, ok = env.Lookup("b")
	assert.False(t, ok)
}

func TestPendingIsolation(t *testing.T) {
	env, s := newScopesEnv(t)
	binding := Local(s.outerA, false)

	env.RegisterPendingBinding("a", binding)
	_, ok := env.Lookup("a")
	assert.False(t, ok)

	env.FlushPendingBindings()
	found, ok := env.Lookup("a")
	assert.True(t, ok)
	assert.Equal(t, binding, found)

	vars := len(env.GetBlock(env.CurrentBlockIdx()).Vars)
	env.FlushPendingBindings()
	assert.Len(t, env.GetBlock(env.CurrentBlockIdx()).Vars, vars)

	t.Run("discarded bindings never become visible", func(t *testing.T) {
		env.RegisterPendingBinding("b", Local(s.innerA, true))
		env.DiscardPendingBindings()
		env.FlushPendingBindings()
		_, ok := env.Lookup("b")
		assert.False(t, ok)
	})

	t.Run("last write wins within a scope", func(t *testing.T) {
		env.RegisterPendingBinding("a", Local(s.innerA, true))
		env.FlushPendingBindings()
		found, _ := env.Lookup("a")
		assert.Equal(t, Local(s.innerA, true), found)
	})
}

func TestLoops(t *testing.T) {
	env, _ := newScopesEnv(t)
	_, ok := env.CurrentLoop()
	assert.False(t, ok)

	env.EnterLoop(1)
	env.EnterLoop(2)
	loop, ok := env.CurrentLoop()
	assert.True(t, ok)
	assert.Equal(t, hir.StmtID(2), loop)

	env.LeaveLoop()
	loop, _ = env.CurrentLoop()
	assert.Equal(t, hir.StmtID(1), loop)
	env.LeaveLoop()
	_, ok = env.CurrentLoop()
	assert.False(t, ok)
}

func TestRecording(t *testing.T) {
	env, s := newScopesEnv(t)
	db := env.DB()

	t.Run("last write wins", func(t *testing.T) {
		first, second := NewExprProp(db.Bool(), false), NewExprProp(db.Prim(ty.PrimU8), true)
		env.TypeExpr(s.literal, first)
		env.TypeExpr(s.literal, second)
		typed, ok := env.TypedExpr(s.literal)
		assert.True(t, ok)
		assert.Equal(t, second, typed)

		env.TypePat(s.literalPat, db.Bool())
		env.TypePat(s.literalPat, db.Unit())
		patTy, _ := env.TypedPat(s.literalPat)
		assert.Equal(t, db.Unit(), patTy)
	})

	t.Run("callables are registered once", func(t *testing.T) {
		callable := Callable{Func: 0}
		env.RegisterCallable(s.literal, callable)
		assertFailure(t, func() { env.RegisterCallable(s.literal, callable) })
	})

	t.Run("untyped locals are invalid", func(t *testing.T) {
		assert.True(t, db.IsInvalid(env.LookupBindingTy(Local(s.innerA, false))))
	})

	t.Run("swap ty", func(t *testing.T) {
		prop := NewExprProp(db.Bool(), false)
		old := prop.SwapTy(db.Unit())
		assert.Equal(t, db.Bool(), old)
		assert.Equal(t, db.Unit(), prop.Ty)
	})
}

func TestFinishDefaultsStrings(t *testing.T) {
	env, s := newScopesEnv(t)
	db := env.DB()
	table := unify.NewTable(db)

	short := table.NewVar(ty.SortString(3), ty.KindStar)
	long := table.NewVar(ty.SortString(7), ty.KindStar)
	require.NoError(t, table.Unify(short, long))
	bound := table.NewVar(ty.SortString(2), ty.KindStar)
	require.NoError(t, table.Unify(bound, db.StringTy(10)))
	integral := table.NewVar(ty.SortIntegral, ty.KindStar)

	env.TypeExpr(s.literal, NewExprProp(short, false))
	env.TypeExpr(s.inner, NewExprProp(db.Tuple(bound, integral), false))
	env.TypePat(s.outerA, db.Tuple(db.StringTy(1), table.NewVar(ty.SortString(4), ty.KindStar)))

	typed := env.Finish(table)
	assert.Equal(t, db.StringTy(7), typed.ExprTy(s.literal))
	assert.Equal(t, db.Tuple(db.StringTy(1), db.StringTy(4)), typed.PatTy(s.outerA))

	innerTy := typed.ExprTy(s.inner)
	_, args := db.Decompose(innerTy)
	require.Len(t, args, 2)
	assert.Equal(t, db.StringTy(10), args[0])
	vars := ty.FreeVars(db, innerTy)
	require.Len(t, vars, 1, "other variables are not defaulted")
	assert.True(t, vars[0].Sort.IsIntegral())

	for _, expr := range typed.TypedExprs() {
		for _, v := range ty.FreeVars(db, typed.ExprTy(expr)) {
			_, isString := v.Sort.IsString()
			assert.False(t, isString)
		}
	}

	t.Run("the env cannot be used after finishing", func(t *testing.T) {
		assertFailure(t, func() { env.TypeExpr(s.literal, NewExprProp(db.Bool(), false)) })
		assertFailure(t, func() { env.Lookup("a") })
		assertFailure(t, func() { env.Finish(table) })
		assertFailure(t, func() { env.Scope() })
		assertFailure(t, func() { env.CurrentBlockIdx() })
		assertFailure(t, func() { env.ScopeDepth() })
		assertFailure(t, func() { env.GetBlock(0) })
		assertFailure(t, func() { env.Body() })
		assertFailure(t, func() { env.HirFunc() })
		assertFailure(t, func() { env.Assumptions() })
		assertFailure(t, func() { env.ExprData(s.literal) })
		assertFailure(t, func() { env.StmtData(0) })
		assertFailure(t, func() { env.PatData(s.outerA) })
		assertFailure(t, func() { env.BindingName(Param(0, db.Bool(), false)) })
		assertFailure(t, func() { env.BindingDefSpan(Param(0, db.Bool(), false)) })
	})
}

func TestFinishFoldsCallables(t *testing.T) {
	env, s := newScopesEnv(t)
	db := env.DB()
	table := unify.NewTable(db)

	arg := table.NewVar(ty.SortGeneral, ty.KindStar)
	require.NoError(t, table.Unify(arg, db.Prim(ty.PrimU8)))
	trait := db.NewTrait(ty.TraitDef{Name: "Add"})
	inst := db.TraitInst(ty.TraitInst{Def: trait, Args: []ty.TyID{arg}})

	env.RegisterCallable(s.literal, Callable{Func: 0, GenericArgs: []ty.TyID{arg}, TraitInst: &inst})
	env.RegisterCallable(s.inner, Callable{Func: 0})
	assert.Len(t, ty.FreeVars(db, Callable{TraitInst: &inst}), 1)

	typed := env.Finish(table)
	callable, ok := typed.Callable(s.literal)
	require.True(t, ok)
	assert.Equal(t, []ty.TyID{db.Prim(ty.PrimU8)}, callable.GenericArgs)
	require.NotNil(t, callable.TraitInst)
	assert.Equal(t, db.TraitInst(ty.TraitInst{Def: trait, Args: []ty.TyID{db.Prim(ty.PrimU8)}}), *callable.TraitInst)

	plain, ok := typed.Callable(s.inner)
	require.True(t, ok)
	assert.Nil(t, plain.TraitInst)
}

func TestAssumptions(t *testing.T) {
	db := ty.NewDB()
	bounds := []hir.Bound{{Ty: &hir.PathType{Name: "T"}, Trait: "Eq"}}
	generics := []hir.GenericParam{{Name: "T"}}

	named := hir.NewFunc("named", nil, nil, newScopesBody(hir.FuncBody).body)
	named.Generics, named.Bounds = generics, bounds
	anonymous := hir.NewFunc("anonymous", nil, nil, newScopesBody(hir.Anonymous).body)
	anonymous.Generics, anonymous.Bounds = generics, bounds

	deps := newDeps(t, db, &hir.Module{
		Traits: []*hir.Trait{{Name: "Eq"}},
		Funcs:  []*hir.Func{named, anonymous},
	})

	env, err := NewEnvWithFunc(db, named, deps)
	require.NoError(t, err)
	assert.Equal(t, 1, env.Assumptions().Len())
	fn, ok := env.Func()
	assert.True(t, ok)
	assert.Equal(t, deps.Lowerer.LowerFunc(named), fn)

	env, err = NewEnvWithFunc(db, anonymous, deps)
	require.NoError(t, err)
	assert.True(t, env.Assumptions().IsEmpty())
	_, ok = env.Func()
	assert.False(t, ok)
}

func TestBindings(t *testing.T) {
	db := ty.NewDB()
	assert.Equal(t, Local(1, true), Local(1, true))
	assert.NotEqual(t, Local(1, true), Local(1, false))
	assert.NotEqual(t, Local(0, false), Param(0, 0, false))
	assert.Equal(t, Param(2, db.Bool(), false), Param(2, db.Bool(), false))

	_, isParam := Local(1, true).ParamIdx()
	assert.False(t, isParam)
	_, isLocal := Param(0, db.Bool(), true).Pat()
	assert.False(t, isLocal)
	assert.Equal(t, "local(mut p1)", Local(1, true).String())
	assert.Equal(t, "param(#0)", Param(0, db.Bool(), false).String())
}
