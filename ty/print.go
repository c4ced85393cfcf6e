package ty

import (
	"fmt"
	"log/slog"
	"strings"
)

// TyString renders t the way it would appear in a diagnostic
func (db *DB) TyString(t TyID) string {
	sb := &strings.Builder{}
	db.writeTy(sb, t)
	return sb.String()
}

func (db *DB) writeTy(sb *strings.Builder, t TyID) {
	switch data := db.Data(t).(type) {
	case TyVar:
		fmt.Fprintf(sb, "?%d", data.Var.Key)
		if !data.Var.Sort.IsGeneral() {
			fmt.Fprintf(sb, ":%s", data.Var.Sort)
		}
	case TyParam:
		sb.WriteString(string(data.Param.Name))
	case TyApp:
		head, args := db.Decompose(t)
		if base, ok := db.Data(head).(TyBase); ok {
			if prim, ok := base.Base.(PrimTy); ok {
				if _, isTuple := prim.IsTuple(); isTuple {
					sb.WriteString("(")
					db.writeTys(sb, args)
					sb.WriteString(")")
					return
				}
			}
		}
		db.writeTy(sb, head)
		sb.WriteString("<")
		db.writeTys(sb, args)
		sb.WriteString(">")
	case TyBase:
		sb.WriteString(db.baseString(data.Base))
	case ConstTy:
		db.writeConstTy(sb, data.ID)
	case Never:
		sb.WriteString("!")
	case Invalid:
		sb.WriteString("<invalid>")
	default:
		fmt.Fprintf(sb, "<%T>", data)
	}
}

func (db *DB) writeTys(sb *strings.Builder, tys []TyID) {
	for i, t := range tys {
		if i > 0 {
			sb.WriteString(", ")
		}
		db.writeTy(sb, t)
	}
}

func (db *DB) writeConstTy(sb *strings.Builder, id ConstTyID) {
	switch data := db.ConstTyData(id).(type) {
	case ConstTyVar:
		fmt.Fprintf(sb, "?%d", data.Var.Key)
	case ConstTyParam:
		sb.WriteString(string(data.Param.Name))
	case ConstTyEvaluated:
		sb.WriteString(data.Value.String())
	case ConstTyUnevaluated:
		sb.WriteString("{const}")
	}
}

func (db *DB) baseString(base Base) string {
	switch base := base.(type) {
	case PrimTy:
		if n, ok := base.IsTuple(); ok && n == 0 {
			return "()"
		}
		return base.String()
	case AdtID:
		return string(db.Adt(base).Name)
	case FuncDefID:
		return "fn " + string(db.FuncDef(base).Name)
	default:
		return fmt.Sprintf("<%T>", base)
	}
}

// Slog wraps t as a slog.LogValuer so that it is only rendered when logged
func Slog(db *DB, t TyID) slog.LogValuer {
	return tyLogValuer{db: db, t: t}
}

type tyLogValuer struct {
	db *DB
	t  TyID
}

func (l tyLogValuer) LogValue() slog.Value { return slog.StringValue(l.db.TyString(l.t)) }
