package hir

import (
	"fmt"
	"strconv"
	"strings"
)

func LitString(lit Lit) string {
	switch lit := lit.(type) {
	case IntLit:
		return lit.Value
	case BoolLit:
		return strconv.FormatBool(lit.Value)
	case StrLit:
		return strconv.Quote(lit.Value)
	default:
		return "?"
	}
}

// ExprString renders an expression of body in a compact, single-line form
func ExprString(body *Body, id ExprID) string {
	sb := &strings.Builder{}
	writeExpr(sb, body, id)
	return sb.String()
}

func writeExpr(sb *strings.Builder, body *Body, id ExprID) {
	switch e := body.Expr(id).(type) {
	case nil:
		sb.WriteString("<absent>")
	case *LitExpr:
		sb.WriteString(LitString(e.Lit))
	case *PathExpr:
		sb.WriteString(string(e.Name))
	case *BlockExpr:
		fmt.Fprintf(sb, "{ %d stmts }", len(e.Stmts))
	case *CallExpr:
		writeExpr(sb, body, e.Callee)
		sb.WriteString("(")
		writeExprs(sb, body, e.Args)
		sb.WriteString(")")
	case *BinExpr:
		writeExpr(sb, body, e.Lhs)
		fmt.Fprintf(sb, " %s ", e.Op)
		writeExpr(sb, body, e.Rhs)
	case *UnExpr:
		sb.WriteString(e.Op.String())
		writeExpr(sb, body, e.Expr)
	case *TupleExpr:
		sb.WriteString("(")
		writeExprs(sb, body, e.Elems)
		sb.WriteString(")")
	case *IfExpr:
		sb.WriteString("if ")
		writeExpr(sb, body, e.Cond)
		sb.WriteString(" ...")
	case *MatchExpr:
		sb.WriteString("match ")
		writeExpr(sb, body, e.Scrutinee)
		fmt.Fprintf(sb, " { %d arms }", len(e.Arms))
	default:
		fmt.Fprintf(sb, "%T", e)
	}
}

func writeExprs(sb *strings.Builder, body *Body, ids []ExprID) {
	for i, id := range ids {
		if i > 0 {
			sb.WriteString(", ")
		}
		writeExpr(sb, body, id)
	}
}

// PatString renders a pattern of body in a compact, single-line form
func PatString(body *Body, id PatID) string {
	switch p := body.Pat(id).(type) {
	case nil:
		return "<absent>"
	case *WildCardPat:
		return "_"
	case *LitPat:
		return LitString(p.Lit)
	case *PathPat:
		if p.IsMut {
			return "mut " + string(p.Name)
		}
		return string(p.Name)
	case *TuplePat:
		strs := make([]string, len(p.Elems))
		for i, elem := range p.Elems {
			strs[i] = PatString(body, elem)
		}
		return "(" + strings.Join(strs, ", ") + ")"
	case *OrPat:
		return PatString(body, p.Lhs) + " | " + PatString(body, p.Rhs)
	default:
		return fmt.Sprintf("%T", p)
	}
}
