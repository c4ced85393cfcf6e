package fixture

import (
	"strings"
	"unicode"

	"github.com/cottand/tyck/hir"
	"github.com/pkg/errors"
)

// ParseTypeRef parses a type annotation, like `u8`, `(bool, Foo<T>)` or `String<10>`.
// Integer and boolean generic arguments become hir.ConstArg
func ParseTypeRef(s string) (hir.TypeRef, error) {
	p := &typeParser{src: s, toks: tokenizeType(s)}
	ref, err := p.typeRef()
	if err != nil {
		return nil, err
	}
	if tok, ok := p.peek(); ok {
		return nil, errors.Errorf("unexpected %q after type in %q", tok, s)
	}
	return ref, nil
}

func tokenizeType(s string) []string {
	var toks []string
	for i := 0; i < len(s); {
		r := rune(s[i])
		switch {
		case unicode.IsSpace(r):
			i++
		case strings.ContainsRune("()<>,", r):
			toks = append(toks, s[i:i+1])
			i++
		default:
			start := i
			for i < len(s) && !unicode.IsSpace(rune(s[i])) && !strings.ContainsRune("()<>,", rune(s[i])) {
				i++
			}
			toks = append(toks, s[start:i])
		}
	}
	return toks
}

type typeParser struct {
	src  string
	toks []string
	pos  int
}

func (p *typeParser) peek() (string, bool) {
	if p.pos >= len(p.toks) {
		return "", false
	}
	return p.toks[p.pos], true
}

func (p *typeParser) next() (string, error) {
	tok, ok := p.peek()
	if !ok {
		return "", errors.Errorf("unexpected end of type %q", p.src)
	}
	p.pos++
	return tok, nil
}

func (p *typeParser) expect(want string) error {
	tok, err := p.next()
	if err != nil {
		return err
	}
	if tok != want {
		return errors.Errorf("expected %q but found %q in type %q", want, tok, p.src)
	}
	return nil
}

// list parses `elem, elem, ...` up to and including the closing token
func (p *typeParser) list(closing string, elem func() (hir.TypeRef, error)) ([]hir.TypeRef, error) {
	var elems []hir.TypeRef
	if tok, _ := p.peek(); tok == closing {
		p.pos++
		return elems, nil
	}
	for {
		ref, err := elem()
		if err != nil {
			return nil, err
		}
		elems = append(elems, ref)
		tok, err := p.next()
		if err != nil {
			return nil, err
		}
		switch tok {
		case closing:
			return elems, nil
		case ",":
		default:
			return nil, errors.Errorf("expected ',' or %q but found %q in type %q", closing, tok, p.src)
		}
	}
}

func (p *typeParser) typeRef() (hir.TypeRef, error) {
	tok, err := p.next()
	if err != nil {
		return nil, err
	}
	if tok == "(" {
		elems, err := p.list(")", p.typeRef)
		if err != nil {
			return nil, err
		}
		return &hir.TupleType{Elems: elems}, nil
	}
	if !isIdent(tok) {
		return nil, errors.Errorf("expected a type name but found %q in type %q", tok, p.src)
	}
	path := &hir.PathType{Name: hir.IdentID(tok)}
	if next, _ := p.peek(); next == "<" {
		p.pos++
		if path.Args, err = p.list(">", p.genericArg); err != nil {
			return nil, err
		}
	}
	return path, nil
}

func (p *typeParser) genericArg() (hir.TypeRef, error) {
	tok, ok := p.peek()
	if !ok {
		return nil, errors.Errorf("unexpected end of type %q", p.src)
	}
	switch {
	case tok == "true" || tok == "false":
		p.pos++
		return &hir.ConstArg{Lit: hir.BoolLit{Value: tok == "true"}}, nil
	case isInt(tok):
		p.pos++
		return &hir.ConstArg{Lit: hir.IntLit{Value: tok}}, nil
	default:
		return p.typeRef()
	}
}

func isIdent(tok string) bool {
	for i, r := range tok {
		if r != '_' && !unicode.IsLetter(r) && (i == 0 || !unicode.IsDigit(r)) {
			return false
		}
	}
	return tok != ""
}

func isInt(tok string) bool {
	for _, r := range tok {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return tok != ""
}

func parseOptionalTypeRef(s string) (hir.TypeRef, error) {
	if s == "" {
		return nil, nil
	}
	return ParseTypeRef(s)
}
