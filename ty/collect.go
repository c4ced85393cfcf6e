package ty

import (
	"sort"

	goset "github.com/hashicorp/go-set/v3"
	"github.com/xtgo/set"
)

type varCollector struct {
	db   *DB
	vars varsByKey
}

func (c *varCollector) DB() *DB        { return c.db }
func (c *varCollector) VisitVar(v Var) { c.vars = append(c.vars, v) }

type varsByKey []Var

func (v varsByKey) Len() int           { return len(v) }
func (v varsByKey) Less(i, j int) bool { return v[i].Key < v[j].Key }
func (v varsByKey) Swap(i, j int)      { v[i], v[j] = v[j], v[i] }

// FreeVars returns the inference variables occurring in x, ordered by key and without duplicates.
// Variables of const types are included
func FreeVars(db *DB, x Visitable) []Var {
	c := &varCollector{db: db}
	x.VisitWith(c)
	sort.Sort(c.vars)
	n := set.Uniq(c.vars)
	return c.vars[:n]
}

type paramCollector struct {
	db     *DB
	seen   *goset.Set[Param]
	params []Param
}

func (c *paramCollector) DB() *DB { return c.db }

func (c *paramCollector) VisitParam(p Param) {
	if c.seen.Insert(p) {
		c.params = append(c.params, p)
	}
}

func (c *paramCollector) VisitConstParam(p Param, _ TyID) {
	c.VisitParam(p)
}

// CollectParams returns the generic parameters occurring in x, in the order they are first met
func CollectParams(db *DB, x Visitable) []Param {
	c := &paramCollector{db: db, seen: goset.New[Param](0)}
	x.VisitWith(c)
	return c.params
}

type invalidCollector struct {
	db     *DB
	causes []InvalidCause
}

func (c *invalidCollector) DB() *DB                         { return c.db }
func (c *invalidCollector) VisitInvalid(cause InvalidCause) { c.causes = append(c.causes, cause) }

// InvalidCauses returns the causes of every Invalid type found in x, in visiting order
func InvalidCauses(db *DB, x Visitable) []InvalidCause {
	c := &invalidCollector{db: db}
	x.VisitWith(c)
	return c.causes
}

func ContainsInvalid(db *DB, x Visitable) bool {
	return len(InvalidCauses(db, x)) > 0
}
