// Package lower turns type annotations, as written in hir, into types
package lower

import (
	"fmt"
	"sync"

	"github.com/cottand/tyck/hir"
	"github.com/cottand/tyck/internal/log"
	"github.com/cottand/tyck/ty"
)

var logger = log.DefaultLogger.With("section", "lower")

// Lowerer resolves type annotations and function signatures
type Lowerer interface {
	// LowerTy resolves ref in scope. Annotations that do not make sense
	// lower to Invalid types rather than failing
	LowerTy(ref hir.TypeRef, scope hir.ScopeID) ty.TyID
	LowerFunc(fn *hir.Func) ty.FuncDefID
}

// genericEnv holds the generic parameters visible in an item
type genericEnv struct {
	names  map[hir.IdentID]ty.TyID
	params []ty.TyID
}

var emptyEnv = genericEnv{}

type cacheKey struct {
	ref   hir.TypeRef
	scope hir.ScopeID
}

// TypeLowerer is the Lowerer for a set of declared items. It is safe for concurrent use
type TypeLowerer struct {
	db *ty.DB

	mu       sync.Mutex
	adts     map[hir.IdentID]ty.AdtID
	traits   map[hir.IdentID]ty.TraitID
	funcs    map[hir.IdentID]*hir.Func
	funcDefs map[*hir.Func]ty.FuncDefID
	envs     map[hir.ScopeID]genericEnv
	cache    map[cacheKey]ty.TyID
}

var _ Lowerer = (*TypeLowerer)(nil)

func NewTypeLowerer(db *ty.DB) *TypeLowerer {
	return &TypeLowerer{
		db:       db,
		adts:     make(map[hir.IdentID]ty.AdtID),
		traits:   make(map[hir.IdentID]ty.TraitID),
		funcs:    make(map[hir.IdentID]*hir.Func),
		funcDefs: make(map[*hir.Func]ty.FuncDefID),
		envs:     make(map[hir.ScopeID]genericEnv),
		cache:    make(map[cacheKey]ty.TyID),
	}
}

func (l *TypeLowerer) DB() *ty.DB { return l.db }

// DeclareModule registers the traits, ADTs and function signatures of m.
// ADT fields may refer to any ADT of m, including the one being declared
func (l *TypeLowerer) DeclareModule(m *hir.Module) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, trait := range m.Traits {
		if _, ok := l.traits[trait.Name]; ok {
			return fmt.Errorf("trait %s declared twice", trait.Name)
		}
		l.traits[trait.Name] = l.declareTrait(trait)
	}

	declared := make([]ty.AdtID, len(m.Adts))
	for i, adt := range m.Adts {
		if _, ok := l.adts[adt.Name]; ok {
			return fmt.Errorf("ADT %s declared twice", adt.Name)
		}
		env := l.envFor(hir.AdtScope(adt))
		declared[i] = l.db.NewAdt(ty.AdtDef{Name: adt.Name, Params: env.params})
		l.adts[adt.Name] = declared[i]
	}
	for i, adt := range m.Adts {
		env := l.envFor(hir.AdtScope(adt))
		fields := make([]ty.AdtField, len(adt.Fields))
		for j, field := range adt.Fields {
			fields[j] = ty.AdtField{Name: field.Name, Ty: l.lower(field.Ty, env)}
		}
		l.db.SetAdtFields(declared[i], fields)
	}

	for _, fn := range m.Funcs {
		if _, ok := l.funcs[fn.Name]; ok {
			return fmt.Errorf("function %s declared twice", fn.Name)
		}
		l.funcs[fn.Name] = fn
	}
	for _, fn := range m.Funcs {
		l.lowerFunc(fn)
	}
	logger.Debug("declared module", "module", m.Name, "adts", len(m.Adts), "traits", len(m.Traits), "funcs", len(m.Funcs))
	return nil
}

func (l *TypeLowerer) declareTrait(trait *hir.Trait) ty.TraitID {
	env := l.envFor(hir.TraitScope(trait))
	return l.db.NewTrait(ty.TraitDef{
		Name:   trait.Name,
		Self:   env.names["Self"],
		Params: env.params[1:],
	})
}

func (l *TypeLowerer) Trait(name hir.IdentID) (ty.TraitID, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	id, ok := l.traits[name]
	return id, ok
}

func (l *TypeLowerer) Adt(name hir.IdentID) (ty.AdtID, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	id, ok := l.adts[name]
	return id, ok
}

// LookupFunc returns the signature of a function declared through DeclareModule
func (l *TypeLowerer) LookupFunc(name hir.IdentID) (ty.FuncDefID, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fn, ok := l.funcs[name]
	if !ok {
		return 0, false
	}
	return l.lowerFunc(fn), true
}

func (l *TypeLowerer) LowerTy(ref hir.TypeRef, scope hir.ScopeID) ty.TyID {
	l.mu.Lock()
	defer l.mu.Unlock()
	scope = itemOf(scope)
	key := cacheKey{ref: ref, scope: scope}
	if lowered, ok := l.cache[key]; ok {
		return lowered
	}
	lowered := l.lower(ref, l.envFor(scope))
	if ref != nil {
		l.cache[key] = lowered
	}
	return lowered
}

// LowerFunc returns the signature of fn. Calling it again for the same fn returns the same ID
func (l *TypeLowerer) LowerFunc(fn *hir.Func) ty.FuncDefID {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lowerFunc(fn)
}

func (l *TypeLowerer) lowerFunc(fn *hir.Func) ty.FuncDefID {
	if id, ok := l.funcDefs[fn]; ok {
		return id
	}
	env := l.envFor(hir.ItemScope(fn))
	argTys := make([]ty.TyID, len(fn.Params))
	for i, param := range fn.Params {
		argTys[i] = l.lower(param.Ty, env)
	}
	retTy := l.db.Unit()
	if fn.Ret != nil {
		retTy = l.lower(fn.Ret, env)
	}
	id := l.db.NewFuncDef(ty.FuncDef{
		Name:   fn.Name,
		Hir:    fn,
		Params: env.params,
		ArgTys: argTys,
		RetTy:  retTy,
	})
	l.funcDefs[fn] = id
	return id
}

// itemOf maps block scopes to the item they belong to, since
// blocks do not declare generic parameters
func itemOf(scope hir.ScopeID) hir.ScopeID {
	if scope.Kind() == hir.BlockScopeKind {
		return hir.ItemScope(scope.Item())
	}
	return scope
}

func (l *TypeLowerer) envFor(scope hir.ScopeID) genericEnv {
	if env, ok := l.envs[scope]; ok {
		return env
	}
	env := genericEnv{names: make(map[hir.IdentID]ty.TyID)}
	switch scope.Kind() {
	case hir.AdtScopeKind:
		l.addGenerics(&env, scope, scope.Adt().Generics)
	case hir.TraitScopeKind:
		self := l.db.Param(ty.Param{Name: "Self", Kind: ty.KindStar, IsTraitSelf: true, Owner: scope})
		env.names["Self"] = self
		env.params = append(env.params, self)
		l.addGenerics(&env, scope, scope.Trait().Generics)
	default:
		fn := scope.Item()
		if fn == nil {
			break
		}
		if fn.Parent != nil {
			l.addGenerics(&env, scope, fn.Parent.Generics)
		}
		l.addGenerics(&env, scope, fn.Generics)
	}
	l.envs[scope] = env
	return env
}

func (l *TypeLowerer) addGenerics(env *genericEnv, owner hir.ScopeID, generics []hir.GenericParam) {
	for _, generic := range generics {
		param := ty.Param{Name: generic.Name, Idx: len(env.params), Kind: ty.KindStar, Owner: owner}
		var paramTy ty.TyID
		if generic.ConstTy != nil {
			carry := l.lower(generic.ConstTy, emptyEnv)
			paramTy = l.db.ConstTy(ty.ConstTyParam{Param: param, Carry: carry})
		} else {
			paramTy = l.db.Param(param)
		}
		env.names[generic.Name] = paramTy
		env.params = append(env.params, paramTy)
	}
}
