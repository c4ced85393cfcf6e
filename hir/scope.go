package hir

import "fmt"

type ScopeKind int

const (
	ItemScopeKind ScopeKind = iota
	BlockScopeKind
	AdtScopeKind
	TraitScopeKind
)

// ScopeID identifies a lexical scope: an item, or a block expression
// inside a body. ScopeIDs are comparable
type ScopeID struct {
	kind  ScopeKind
	item  *Func
	adt   *Adt
	trait *Trait
	body  *Body
	block ExprID
}

func ItemScope(f *Func) ScopeID {
	return ScopeID{kind: ItemScopeKind, item: f}
}

func AdtScope(a *Adt) ScopeID {
	return ScopeID{kind: AdtScopeKind, adt: a}
}

func TraitScope(t *Trait) ScopeID {
	return ScopeID{kind: TraitScopeKind, trait: t}
}

func BlockScope(body *Body, block ExprID) ScopeID {
	return ScopeID{kind: BlockScopeKind, body: body, block: block}
}

func (s ScopeID) Kind() ScopeKind { return s.kind }

// Item returns the function enclosing this scope, or nil if the
// scope is a block of an anonymous body
func (s ScopeID) Item() *Func {
	if s.kind == ItemScopeKind {
		return s.item
	}
	if s.body == nil {
		return nil
	}
	return s.body.owner
}

func (s ScopeID) Adt() *Adt     { return s.adt }
func (s ScopeID) Trait() *Trait { return s.trait }

// Block returns the block expression of a block scope
func (s ScopeID) Block() (ExprID, bool) {
	return s.block, s.kind == BlockScopeKind
}

func (s ScopeID) String() string {
	switch s.kind {
	case BlockScopeKind:
		return fmt.Sprintf("block(%s)", s.block)
	case AdtScopeKind:
		return fmt.Sprintf("adt(%s)", s.adt.Name)
	case TraitScopeKind:
		return fmt.Sprintf("trait(%s)", s.trait.Name)
	}
	if s.item == nil {
		return "item(?)"
	}
	return fmt.Sprintf("item(%s)", s.item.Name)
}
