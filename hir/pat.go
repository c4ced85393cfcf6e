package hir

type Pat interface {
	patNode()
}

var (
	_ Pat = (*WildCardPat)(nil)
	_ Pat = (*LitPat)(nil)
	_ Pat = (*PathPat)(nil)
	_ Pat = (*TuplePat)(nil)
	_ Pat = (*OrPat)(nil)
)

type WildCardPat struct{}

type LitPat struct {
	Lit Lit
}

// PathPat introduces a new local binding called Name
type PathPat struct {
	Name  IdentID
	IsMut bool
}

type TuplePat struct {
	Elems []PatID
}

// OrPat matches if either side matches. Both sides must bind the same names
type OrPat struct {
	Lhs, Rhs PatID
}

func (*WildCardPat) patNode() {}
func (*LitPat) patNode()      {}
func (*PathPat) patNode()     {}
func (*TuplePat) patNode()    {}
func (*OrPat) patNode()       {}
