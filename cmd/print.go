package cmd

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/cottand/tyck/fixture"
	"github.com/cottand/tyck/hir"
	"github.com/cottand/tyck/ty"
	"github.com/cottand/tyck/ty/tycheck"
	"github.com/cottand/tyck/tyerr"
	"github.com/cottand/tyck/util"
)

const (
	ansiReset = "\x1b[0m"
	ansiBold  = "\x1b[1m"
	ansiRed   = "\x1b[31m"
	ansiGrey  = "\x1b[90m"
)

// printer writes check results for humans
type printer struct {
	w     io.Writer
	color bool
}

func (p *printer) paint(style, s string) string {
	if !p.color {
		return s
	}
	return style + s + ansiReset
}

func (p *printer) failure(err error) {
	_, _ = fmt.Fprintln(p.w, p.paint(ansiRed, "error: "+err.Error()))
}

func (p *printer) result(db *ty.DB, f *fixture.Fixture, result tycheck.Result) {
	fn := result.Func
	_, _ = fmt.Fprintln(p.w, p.paint(ansiBold, "fn "+signature(fn)))

	var noBody tyerr.NoBody
	switch {
	case errors.As(result.Err, &noBody):
		_, _ = fmt.Fprintln(p.w, p.paint(ansiGrey, "  no body"))
		return
	case result.Err != nil:
		p.failure(result.Err)
		return
	}

	for _, err := range result.Errors.Errors() {
		_, _ = fmt.Fprintln(p.w, "  "+p.paint(ansiRed, tyerr.FormatWithCodeAndPosition(err, f.Files)))
	}

	typed, body := result.Body, fn.Body
	for _, expr := range typed.TypedExprs() {
		line := fmt.Sprintf("  %-5s %s : %s", expr, hir.ExprString(body, expr), db.TyString(typed.ExprTy(expr)))
		if callable, ok := typed.Callable(expr); ok && len(callable.GenericArgs) > 0 {
			line += p.paint(ansiGrey, " with "+tyList(db, callable.GenericArgs))
		}
		_, _ = fmt.Fprintln(p.w, line)
	}
	for _, pat := range typed.TypedPats() {
		_, _ = fmt.Fprintf(p.w, "  %-5s %s : %s\n", pat, hir.PatString(body, pat), db.TyString(typed.PatTy(pat)))
	}
}

func tyList(db *ty.DB, tys []ty.TyID) string {
	return "<" + strings.Join(slices.Collect(util.MapIter(slices.Values(tys), db.TyString)), ", ") + ">"
}

func signature(fn *hir.Func) string {
	params := util.MapIter(slices.Values(fn.Params), func(param hir.Param) string {
		s := string(param.Name)
		if s == "" {
			s = "_"
		}
		if param.IsMut {
			s = "mut " + s
		}
		if param.Ty != nil {
			s += ": " + param.Ty.String()
		}
		return s
	})
	sig := string(fn.Name) + "(" + strings.Join(slices.Collect(params), ", ") + ")"
	if fn.Ret != nil {
		sig += " -> " + fn.Ret.String()
	}
	return sig
}
