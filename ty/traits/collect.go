// Package traits computes the trait predicates a function may assume
package traits

import (
	"slices"
	"sync"

	"github.com/cottand/tyck/hir"
	"github.com/cottand/tyck/internal/log"
	"github.com/cottand/tyck/ty"
	"github.com/cottand/tyck/ty/lower"
	"github.com/cottand/tyck/util"
)

var logger = log.DefaultLogger.With("section", "traits")

// Collector returns the assumptions available while checking a function:
// the bounds it declares and, when includeParent is set, the bounds of its parent item
type Collector interface {
	ConstraintsFor(fn ty.FuncDefID, includeParent bool) ty.PredicateList
}

// Lowerer is a lower.Lowerer that can also resolve trait names
type Lowerer interface {
	lower.Lowerer
	Trait(name hir.IdentID) (ty.TraitID, bool)
}

type constraintsKey struct {
	fn            ty.FuncDefID
	includeParent bool
}

// ConstraintCollector is the Collector for functions lowered by a Lowerer.
// It is safe for concurrent use
type ConstraintCollector struct {
	db      *ty.DB
	lowerer Lowerer

	mu    sync.Mutex
	cache map[constraintsKey]ty.PredicateList
}

var _ Collector = (*ConstraintCollector)(nil)

func NewConstraintCollector(db *ty.DB, lowerer Lowerer) *ConstraintCollector {
	return &ConstraintCollector{
		db:      db,
		lowerer: lowerer,
		cache:   make(map[constraintsKey]ty.PredicateList),
	}
}

func (c *ConstraintCollector) ConstraintsFor(fn ty.FuncDefID, includeParent bool) ty.PredicateList {
	key := constraintsKey{fn: fn, includeParent: includeParent}
	c.mu.Lock()
	cached, ok := c.cache[key]
	c.mu.Unlock()
	if ok {
		return cached
	}

	hirFn := c.db.FuncDef(fn).Hir
	scope := hir.ItemScope(hirFn)
	bounds := slices.Values(hirFn.Bounds)
	if includeParent && hirFn.Parent != nil {
		bounds = util.ConcatIter(bounds, slices.Values(hirFn.Parent.Bounds))
	}

	var preds []ty.Predicate
	for bound := range bounds {
		if pred, ok := c.lowerBound(bound, scope); ok {
			preds = append(preds, pred)
		}
	}
	list := ty.NewPredicateList(preds...)

	c.mu.Lock()
	c.cache[key] = list
	c.mu.Unlock()
	return list
}

func (c *ConstraintCollector) lowerBound(bound hir.Bound, scope hir.ScopeID) (ty.Predicate, bool) {
	trait, ok := c.lowerer.Trait(bound.Trait)
	if !ok {
		logger.Warn("bound refers to an unknown trait", "trait", bound.Trait, "scope", scope)
		return ty.Predicate{}, false
	}
	boundTy := c.lowerer.LowerTy(bound.Ty, scope)
	args := make([]ty.TyID, len(bound.Args))
	for i, arg := range bound.Args {
		args[i] = c.lowerer.LowerTy(arg, scope)
	}
	if ty.ContainsInvalid(c.db, boundTy) || ty.ContainsInvalid(c.db, ty.TypeList(args)) {
		logger.Debug("skipping ill-formed bound", "trait", bound.Trait, "scope", scope)
		return ty.Predicate{}, false
	}
	inst := c.db.TraitInst(ty.TraitInst{Def: trait, Args: args})
	return ty.Predicate{Ty: boundTy, Trait: inst}, true
}
