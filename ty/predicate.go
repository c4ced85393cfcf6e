package ty

import (
	"cmp"

	"github.com/hashicorp/go-set/v3"
)

// Predicate is the requirement that Ty implements Trait
type Predicate struct {
	Ty    TyID
	Trait TraitInstID
}

func comparePredicates(a, b Predicate) int {
	if c := cmp.Compare(a.Ty, b.Ty); c != 0 {
		return c
	}
	return cmp.Compare(a.Trait, b.Trait)
}

// PredicateList is an ordered set of predicates, like the assumptions
// available while checking a function. The zero value is an empty list.
// Lists are never modified after creation
type PredicateList struct {
	preds *set.TreeSet[Predicate]
}

func EmptyPredicateList() PredicateList {
	return PredicateList{}
}

func NewPredicateList(preds ...Predicate) PredicateList {
	if len(preds) == 0 {
		return PredicateList{}
	}
	return PredicateList{preds: set.TreeSetFrom(preds, comparePredicates)}
}

// Predicates returns the predicates of the list in order
func (l PredicateList) Predicates() []Predicate {
	if l.preds == nil {
		return nil
	}
	return l.preds.Slice()
}

func (l PredicateList) Len() int {
	if l.preds == nil {
		return 0
	}
	return l.preds.Size()
}

func (l PredicateList) IsEmpty() bool {
	return l.Len() == 0
}

func (l PredicateList) Contains(p Predicate) bool {
	return l.preds != nil && l.preds.Contains(p)
}

// Extend returns a new list with the predicates of both l and other
func (l PredicateList) Extend(other PredicateList) PredicateList {
	return NewPredicateList(append(l.Predicates(), other.Predicates()...)...)
}
