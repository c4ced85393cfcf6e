package tycheck

import (
	"github.com/cottand/tyck/hir"
	"github.com/cottand/tyck/internal/log"
	"github.com/cottand/tyck/ty"
	"github.com/cottand/tyck/ty/lower"
	"github.com/cottand/tyck/ty/traits"
	"github.com/cottand/tyck/tyerr"
	"github.com/cottand/tyck/util"
)

var logger = log.DefaultLogger.With("section", "tycheck")

// Deps are the collaborators an Env queries. They are shared between
// the Envs of different bodies, so they must be safe for concurrent use
type Deps struct {
	Lowerer     lower.Lowerer
	Constraints traits.Collector
	Items       Items
}

// Items resolves the names of the functions a body may call
type Items interface {
	LookupFunc(name hir.IdentID) (ty.FuncDefID, bool)
}

// Env is the state of the check of a single body: the scopes and loops
// the checker is currently in, and what it found about every node so far.
//
// An Env is used by one goroutine, and only until Finish is called
type Env struct {
	db   *ty.DB
	deps Deps
	fn   *hir.Func
	body *hir.Body

	patTy     map[hir.PatID]ty.TyID
	exprTy    map[hir.ExprID]ExprProp
	callables map[hir.ExprID]Callable

	varEnv      *util.Stack[*BlockEnv]
	pendingVars map[hir.IdentID]LocalBinding
	loopStack   *util.Stack[hir.StmtID]

	finished bool
}

// NewEnvWithFunc creates the Env for the body of fn, with the root block entered
// and the named parameters of fn bound in it. Returns a tyerr.NoBody error if
// fn has no body.
//
// Parameters without a valid annotation are still bound, with an Invalid type
func NewEnvWithFunc(db *ty.DB, fn *hir.Func, deps Deps) (*Env, error) {
	body := fn.Body
	if body == nil {
		return nil, tyerr.New(tyerr.NoBody{Positioner: fn.Range, Func: string(fn.Name)})
	}

	env := &Env{
		db:          db,
		deps:        deps,
		fn:          fn,
		body:        body,
		patTy:       make(map[hir.PatID]ty.TyID),
		exprTy:      make(map[hir.ExprID]ExprProp),
		callables:   make(map[hir.ExprID]Callable),
		varEnv:      util.NewStack(newBlockEnv(hir.ItemScope(fn), 0)),
		pendingVars: make(map[hir.IdentID]LocalBinding),
		loopStack:   util.NewStack[hir.StmtID](),
	}
	env.EnterScope(body.Root)

	scope := hir.ItemScope(fn)
	for idx, param := range fn.Params {
		if param.Name == "" {
			continue
		}
		paramTy := db.Invalid(ty.InvalidOther{})
		if param.Ty != nil {
			paramTy = deps.Lowerer.LowerTy(param.Ty, scope)
		}
		if !db.IsStarKind(paramTy) {
			logger.Debug("parameter type is not fully applied", "func", fn.Name, "param", param.Name, "ty", ty.Slog(db, paramTy))
			paramTy = db.Invalid(ty.InvalidOther{})
		}
		env.top().registerVar(param.Name, Param(idx, paramTy, param.IsMut))
	}
	return env, nil
}

func (env *Env) DB() *ty.DB { return env.db }

func (env *Env) checkLive() {
	if env.finished {
		tyerr.Fail("environment of %s used after Finish", env.fn.Name)
	}
}

func (env *Env) top() *BlockEnv {
	top, ok := env.varEnv.Peek()
	if !ok {
		tyerr.Fail("empty scope stack in environment of %s", env.fn.Name)
	}
	return top
}

func (env *Env) Body() *hir.Body {
	env.checkLive()
	return env.body
}

// HirFunc is the function whose body is being checked
func (env *Env) HirFunc() *hir.Func {
	env.checkLive()
	return env.fn
}

// Func returns the signature of the function whose body is being checked.
// Anonymous bodies have no signature
func (env *Env) Func() (ty.FuncDefID, bool) {
	env.checkLive()
	if env.body.Kind == hir.Anonymous {
		return 0, false
	}
	item := env.varEnv.At(0).Scope.Item()
	if item == nil {
		return 0, false
	}
	return env.deps.Lowerer.LowerFunc(item), true
}

// Assumptions are the predicates that hold while checking the body:
// the bounds of the function and of its parent item
func (env *Env) Assumptions() ty.PredicateList {
	fn, ok := env.Func()
	if !ok || env.deps.Constraints == nil {
		return ty.EmptyPredicateList()
	}
	return env.deps.Constraints.ConstraintsFor(fn, true)
}

// EnterScope pushes a new scope. If expr is a block, the scope belongs to it,
// otherwise it shares the ScopeID of the current one
func (env *Env) EnterScope(expr hir.ExprID) {
	env.checkLive()
	scope := env.Scope()
	if _, ok := env.body.Expr(expr).(*hir.BlockExpr); ok {
		scope = hir.BlockScope(env.body, expr)
	}
	env.varEnv.Push(newBlockEnv(scope, env.varEnv.Len()))
}

// LeaveScope pops the current scope. The root scope can never be left
func (env *Env) LeaveScope() {
	env.checkLive()
	if env.varEnv.Len() <= 1 {
		tyerr.Fail("unbalanced LeaveScope in %s: only the root scope is left", env.fn.Name)
	}
	env.varEnv.Pop()
}

// Lookup finds the innermost binding of name. Pending bindings are not visible
func (env *Env) Lookup(name hir.IdentID) (LocalBinding, bool) {
	env.checkLive()
	for block := range env.varEnv.Backward() {
		if binding, ok := block.LookupVar(name); ok {
			return binding, true
		}
	}
	return LocalBinding{}, false
}

func (env *Env) EnterLoop(stmt hir.StmtID) {
	env.checkLive()
	env.loopStack.Push(stmt)
}

func (env *Env) LeaveLoop() {
	env.checkLive()
	env.loopStack.Pop()
}

// CurrentLoop is the innermost loop, which break and continue refer to
func (env *Env) CurrentLoop() (hir.StmtID, bool) {
	env.checkLive()
	return env.loopStack.Peek()
}

// TypeExpr records prop for expr, replacing any previous record
func (env *Env) TypeExpr(expr hir.ExprID, prop ExprProp) {
	env.checkLive()
	env.exprTy[expr] = prop
}

// TypePat records the type of pat, replacing any previous one
func (env *Env) TypePat(pat hir.PatID, t ty.TyID) {
	env.checkLive()
	env.patTy[pat] = t
}

// RegisterCallable records what the call expr resolved to. Every call is resolved exactly once
func (env *Env) RegisterCallable(expr hir.ExprID, callable Callable) {
	env.checkLive()
	if _, ok := env.callables[expr]; ok {
		tyerr.Fail("callable is already registered for %s in %s", expr, env.fn.Name)
	}
	env.callables[expr] = callable
}

// RegisterPendingBinding stages a binding, which only becomes visible
// once FlushPendingBindings is called
func (env *Env) RegisterPendingBinding(name hir.IdentID, binding LocalBinding) {
	env.checkLive()
	env.pendingVars[name] = binding
}

// FlushPendingBindings moves the staged bindings into the current scope
func (env *Env) FlushPendingBindings() {
	env.checkLive()
	top := env.top()
	for name, binding := range env.pendingVars {
		top.registerVar(name, binding)
	}
	clear(env.pendingVars)
}

// DiscardPendingBindings drops the staged bindings without making them visible
func (env *Env) DiscardPendingBindings() {
	env.checkLive()
	clear(env.pendingVars)
}

func (env *Env) TypedExpr(expr hir.ExprID) (ExprProp, bool) {
	env.checkLive()
	prop, ok := env.exprTy[expr]
	return prop, ok
}

func (env *Env) TypedPat(pat hir.PatID) (ty.TyID, bool) {
	env.checkLive()
	t, ok := env.patTy[pat]
	return t, ok
}

// LookupBindingTy returns the type of a binding. Locals whose
// pattern was never typed are Invalid
func (env *Env) LookupBindingTy(binding LocalBinding) ty.TyID {
	env.checkLive()
	if pat, ok := binding.Pat(); ok {
		if t, ok := env.patTy[pat]; ok {
			return t
		}
		return env.db.Invalid(ty.InvalidOther{})
	}
	return binding.ty
}

// Scope is the ScopeID of the current scope
func (env *Env) Scope() hir.ScopeID {
	env.checkLive()
	return env.top().Scope
}

func (env *Env) CurrentBlockIdx() int {
	env.checkLive()
	return env.top().idx
}

// GetBlock returns the scope at position idx of the scope stack, 0 being the root
func (env *Env) GetBlock(idx int) *BlockEnv {
	env.checkLive()
	if idx < 0 || idx >= env.varEnv.Len() {
		tyerr.Fail("no block %d in scope stack of depth %d", idx, env.varEnv.Len())
	}
	return env.varEnv.At(idx)
}

// ScopeDepth is the number of scopes on the stack, including the root
func (env *Env) ScopeDepth() int {
	env.checkLive()
	return env.varEnv.Len()
}

func (env *Env) ExprData(expr hir.ExprID) hir.Expr {
	env.checkLive()
	return env.body.Expr(expr)
}

func (env *Env) StmtData(stmt hir.StmtID) hir.Stmt {
	env.checkLive()
	return env.body.Stmt(stmt)
}

func (env *Env) PatData(pat hir.PatID) hir.Pat {
	env.checkLive()
	return env.body.Pat(pat)
}

// BindingName returns the name a binding was introduced with
func (env *Env) BindingName(binding LocalBinding) hir.IdentID {
	env.checkLive()
	if pat, ok := binding.Pat(); ok {
		path, ok := env.body.Pat(pat).(*hir.PathPat)
		if !ok {
			tyerr.Fail("local binding %s does not come from a path pattern", binding)
		}
		return path.Name
	}
	return env.param(binding).Name
}

// BindingDefSpan is where a binding was introduced, for diagnostics
func (env *Env) BindingDefSpan(binding LocalBinding) hir.Range {
	env.checkLive()
	if pat, ok := binding.Pat(); ok {
		return env.body.PatSpan(pat)
	}
	return env.param(binding).NameSpan
}

func (env *Env) param(binding LocalBinding) hir.Param {
	idx, _ := binding.ParamIdx()
	if idx >= len(env.fn.Params) {
		tyerr.Fail("parameter binding %s out of range for %s", binding, env.fn.Name)
	}
	return env.fn.Params[idx]
}
