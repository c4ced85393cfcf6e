// Package unify solves equalities between types by binding inference variables
package unify

import (
	"fmt"

	"github.com/benbjohnson/immutable"
	"github.com/cottand/tyck/internal/log"
	"github.com/cottand/tyck/ty"
)

var logger = log.DefaultLogger.With("section", "unify")

// entry is the state of one variable. Non-root entries only hold their parent
type entry struct {
	parent ty.VarKey
	isRoot bool

	sort ty.TyVarSort
	kind ty.Kind
	// constTy is the type of the value of const variables
	constTy ty.TyID
	isConst bool

	value ty.TyID
	bound bool
}

type keyHasher struct{}

func (keyHasher) Hash(key ty.VarKey) uint32 { return uint32(key) }
func (keyHasher) Equal(a, b ty.VarKey) bool { return a == b }

// Table is a union-find over inference variables.
//
// Entries live in a persistent map, which makes Snapshot and RollbackTo cheap.
// A Table belongs to the check of a single body and is not safe for concurrent use
type Table struct {
	db      *ty.DB
	entries *immutable.Map[ty.VarKey, entry]
	next    ty.VarKey

	openSnapshots int
}

func NewTable(db *ty.DB) *Table {
	return &Table{
		db:      db,
		entries: immutable.NewMap[ty.VarKey, entry](keyHasher{}),
	}
}

func (t *Table) DB() *ty.DB { return t.db }

// Len is the number of variables created by the table
func (t *Table) Len() int { return t.entries.Len() }

// NewVar returns a fresh, unbound variable
func (t *Table) NewVar(sort ty.TyVarSort, kind ty.Kind) ty.TyID {
	key := t.newKey(entry{isRoot: true, sort: sort, kind: kind})
	return t.db.Var(ty.Var{Key: key, Sort: sort, Kind: kind})
}

// NewConstVar returns a fresh variable standing for a const value of type constTy
func (t *Table) NewConstVar(constTy ty.TyID) ty.TyID {
	key := t.newKey(entry{isRoot: true, sort: ty.SortGeneral, kind: ty.KindStar, constTy: constTy, isConst: true})
	return t.db.ConstTy(ty.ConstTyVar{
		Var:   ty.Var{Key: key, Sort: ty.SortGeneral, Kind: ty.KindStar},
		Carry: constTy,
	})
}

// NewKeyFromVar returns a fresh variable with the sort and kind v currently has
func (t *Table) NewKeyFromVar(v ty.Var) ty.TyID {
	_, e := t.find(v.Key)
	if e.isConst {
		return t.NewConstVar(e.constTy)
	}
	return t.NewVar(e.sort, e.kind)
}

func (t *Table) newKey(e entry) ty.VarKey {
	key := t.next
	t.next++
	t.entries = t.entries.Set(key, e)
	return key
}

func (t *Table) entry(key ty.VarKey) entry {
	e, ok := t.entries.Get(key)
	if !ok {
		panic(fmt.Sprintf("variable ?%d does not belong to this table", key))
	}
	return e
}

func (t *Table) find(key ty.VarKey) (ty.VarKey, entry) {
	for {
		e := t.entry(key)
		if e.isRoot {
			return key, e
		}
		key = e.parent
	}
}

// Probe returns the value the variable is bound to, if any
func (t *Table) Probe(key ty.VarKey) (ty.TyID, bool) {
	_, e := t.find(key)
	return e.value, e.bound
}

// Sort returns the current sort of the variable, which unification may have refined
func (t *Table) Sort(key ty.VarKey) ty.TyVarSort {
	_, e := t.find(key)
	return e.sort
}

// Snapshot records the state of the table so that it can be restored with Rollback.
// Every Snapshot must be ended by exactly one Commit or Rollback
type Snapshot struct {
	entries *immutable.Map[ty.VarKey, entry]
	next    ty.VarKey
	depth   int
}

func (t *Table) Snapshot() Snapshot {
	t.openSnapshots++
	return Snapshot{entries: t.entries, next: t.next, depth: t.openSnapshots}
}

// Rollback undoes every binding made and variable created since s was taken
func (t *Table) Rollback(s Snapshot) {
	t.endSnapshot(s)
	t.entries = s.entries
	t.next = s.next
}

// Commit keeps the changes made since s was taken
func (t *Table) Commit(s Snapshot) {
	t.endSnapshot(s)
}

// InSnapshot reports whether there is a snapshot that was neither committed nor rolled back
func (t *Table) InSnapshot() bool {
	return t.openSnapshots > 0
}

func (t *Table) endSnapshot(s Snapshot) {
	if s.depth != t.openSnapshots {
		panic(fmt.Sprintf("snapshot %d ended while %d is the innermost one", s.depth, t.openSnapshots))
	}
	t.openSnapshots--
}

// shallowResolve replaces a variable at the top of x by its value,
// or by its root variable if it is unbound
func (t *Table) shallowResolve(x ty.TyID) ty.TyID {
	for {
		switch data := t.db.Data(x).(type) {
		case ty.TyVar:
			root, e := t.find(data.Var.Key)
			if e.bound {
				x = e.value
				continue
			}
			return t.db.Var(ty.Var{Key: root, Sort: e.sort, Kind: e.kind})
		case ty.ConstTy:
			constVar, ok := t.db.ConstTyData(data.ID).(ty.ConstTyVar)
			if !ok {
				return x
			}
			root, e := t.find(constVar.Var.Key)
			if e.bound {
				x = e.value
				continue
			}
			return t.db.ConstTy(ty.ConstTyVar{
				Var:   ty.Var{Key: root, Sort: e.sort, Kind: e.kind},
				Carry: constVar.Carry,
			})
		default:
			return x
		}
	}
}

// FoldTy fully substitutes bound variables in x. Unbound variables are
// replaced by their root, so that equal variables look the same
func (t *Table) FoldTy(x ty.TyID) ty.TyID {
	return ty.SuperFold(t, t.shallowResolve(x))
}

// Fold is FoldTy, for readability at call sites that are not folders themselves
func (t *Table) Fold(x ty.TyID) ty.TyID {
	return t.FoldTy(x)
}
