package fixture

import (
	"testing"

	"github.com/cottand/tyck/hir"
	"github.com/cottand/tyck/ty"
	"github.com/cottand/tyck/ty/lower"
	"github.com/cottand/tyck/ty/traits"
	"github.com/cottand/tyck/ty/tycheck"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTypeRef(t *testing.T) {
	tests := map[string]string{
		"u8":                    "u8",
		" Array< u8 , 3 > ":     "Array<u8, 3>",
		"(bool, Pair<A, B>)":    "(bool, Pair<A, B>)",
		"()":                    "()",
		"Flag<true>":            "Flag<true>",
		"Nested<Buf<10>, (u8)>": "Nested<Buf<10>, (u8)>",
	}
	for src, want := range tests {
		t.Run(src, func(t *testing.T) {
			ref, err := ParseTypeRef(src)
			require.NoError(t, err)
			assert.Equal(t, want, ref.String())
		})
	}

	ref, err := ParseTypeRef("String<10>")
	require.NoError(t, err)
	path := ref.(*hir.PathType)
	assert.Equal(t, &hir.ConstArg{Lit: hir.IntLit{Value: "10"}}, path.Args[0])

	for _, bad := range []string{"", "u8>", "Array<u8", "(u8,", "3", "Foo<,>", "a b"} {
		_, err := ParseTypeRef(bad)
		assert.Error(t, err, bad)
	}
}

func TestLoad(t *testing.T) {
	f, err := Load("testdata/example.yaml")
	require.NoError(t, err)
	m := f.Module

	assert.Equal(t, hir.IdentID("example"), m.Name)
	require.Len(t, m.Adts, 2)
	assert.Equal(t, "Array<u8, N>", m.Adts[1].Fields[0].Ty.String())
	assert.Equal(t, "usize", m.Adts[1].Generics[0].ConstTy.String())
	require.Len(t, m.Traits, 1)

	alias, ok := m.LookupFunc("alias")
	require.True(t, ok)
	require.Len(t, alias.Params, 2)
	assert.True(t, alias.Params[1].IsMut)
	assert.Equal(t, "Int", alias.Ret.String())
	assert.Equal(t, 18, f.Position(alias).Line)

	root, ok := alias.Body.Expr(alias.Body.Root).(*hir.BlockExpr)
	require.True(t, ok)
	require.Len(t, root.Stmts, 3)
	let := alias.Body.Stmt(root.Stmts[0]).(*hir.LetStmt)
	assert.Equal(t, &hir.PathPat{Name: "z"}, alias.Body.Pat(let.Pat))
	require.NotNil(t, let.Init)
	assert.Equal(t, "x", hir.ExprString(alias.Body, *let.Init))
	aug := alias.Body.Stmt(root.Stmts[1]).(*hir.AugAssignStmt)
	assert.Equal(t, hir.Add, aug.Op)

	id, _ := m.LookupFunc("id")
	require.Len(t, id.Bounds, 1)
	assert.Equal(t, hir.IdentID("Eq"), id.Bounds[0].Trait)

	declared, _ := m.LookupFunc("declared")
	assert.Nil(t, declared.Body)
}

func TestParseScalarChildren(t *testing.T) {
	src := `
funcs:
  - name: f
    params: [{name: x, ty: u8}, {name: c, ty: bool}]
    body:
      block:
        - let: {pat: z, init: x}
        - let: {pat: w, ty: u8}
        - assert: {cond: c, msg: "no"}
        - assert: {cond: c}
        - expr: {if: {cond: c, then: z, else: x}}
        - expr: {if: {cond: c, then: {block: []}}}
`
	f, err := Parse("test.yaml", []byte(src))
	require.NoError(t, err)
	body := f.Module.Funcs[0].Body
	stmts := body.Expr(body.Root).(*hir.BlockExpr).Stmts
	require.Len(t, stmts, 6)

	withInit := body.Stmt(stmts[0]).(*hir.LetStmt)
	require.NotNil(t, withInit.Init)
	assert.Equal(t, "x", hir.ExprString(body, *withInit.Init))
	assert.Nil(t, body.Stmt(stmts[1]).(*hir.LetStmt).Init)

	withMsg := body.Stmt(stmts[2]).(*hir.AssertStmt)
	require.NotNil(t, withMsg.Msg)
	assert.Equal(t, "no", hir.ExprString(body, *withMsg.Msg))
	assert.Nil(t, body.Stmt(stmts[3]).(*hir.AssertStmt).Msg)

	withElse := body.Expr(body.Stmt(stmts[4]).(*hir.ExprStmt).Expr).(*hir.IfExpr)
	require.NotNil(t, withElse.Else)
	assert.Equal(t, "x", hir.ExprString(body, *withElse.Else))
	assert.Nil(t, body.Expr(body.Stmt(stmts[5]).(*hir.ExprStmt).Expr).(*hir.IfExpr).Else)
}

func TestParseErrors(t *testing.T) {
	tests := map[string]string{
		"unknown expression": `funcs: [{name: f, body: {lambda: x}}]`,
		"unknown statement":  `funcs: [{name: f, body: {block: [loop]}}]`,
		"unknown operator":   `funcs: [{name: f, body: {bin: {op: "<>", lhs: 1, rhs: 2}}}]`,
		"bad type":           `funcs: [{name: f, ret: "Array<"}]`,
		"not a mapping":      `funcs: [{name: f, body: {int: 1, bool: true}}]`,
		"unnamed func":       `funcs: [{body: {int: 1}}]`,
		"duplicate params":   `funcs: [{name: f, params: [{name: x}, {name: x}]}]`,
		"bad integer":        `funcs: [{name: f, body: {int: one}}]`,
		"short or pattern":   `funcs: [{name: f, body: {match: {scrutinee: 1, arms: [{pat: {or: [1]}, body: 1}]}}}]`,
	}
	for name, src := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse("test.yaml", []byte(src))
			assert.Error(t, err)
		})
	}

	_, err := Parse("test.yaml", []byte(`funcs: [{name: f, params: [{ty: u8}, {ty: u8}]}]`))
	assert.NoError(t, err, "unnamed parameters are not duplicates")
}

func TestCheckExample(t *testing.T) {
	f, err := Load("testdata/example.yaml")
	require.NoError(t, err)

	db := ty.NewDB()
	l := lower.NewTypeLowerer(db)
	require.NoError(t, l.DeclareModule(f.Module))
	deps := tycheck.Deps{Lowerer: l, Constraints: traits.NewConstraintCollector(db, l), Items: l}

	for _, fn := range f.Module.Funcs {
		t.Run(string(fn.Name), func(t *testing.T) {
			typed, errs, err := tycheck.CheckFunc(db, fn, deps)
			if fn.Body == nil {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.False(t, errs.HasError(), "%v", errs.Errors())
			assert.False(t, ty.ContainsInvalid(db, typed))
		})
	}
}
