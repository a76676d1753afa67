package cabs

import (
	"fmt"
	"strings"
)

// Sexpr renders e as a compact prefix tree, e.g. Binary(-, Binary(-, a, b), c).
// Spans are omitted.
func Sexpr(e Expr) string {
	var sb strings.Builder
	writeSexpr(&sb, e)
	return sb.String()
}

func writeSexpr(sb *strings.Builder, expr Expr) {
	switch e := expr.(type) {
	case IntConst:
		fmt.Fprintf(sb, "Int(%s, %s)", e.Raw, e.Radix)
	case FloatConst:
		fmt.Fprintf(sb, "Float(%s)", e.Raw)
	case CharConst:
		fmt.Fprintf(sb, "Char(%s)", e.Raw)
	case StringConst:
		fmt.Fprintf(sb, "String(\"%s\")", e.Value)
	case Variable:
		sb.WriteString(e.Name)
	case Unary:
		fmt.Fprintf(sb, "Unary(%s, ", e.Op)
		writeSexpr(sb, e.Expr)
		sb.WriteString(")")
	case Postfix:
		fmt.Fprintf(sb, "Postfix(%s, ", e.Op)
		writeSexpr(sb, e.Expr)
		sb.WriteString(")")
	case Binary:
		fmt.Fprintf(sb, "Binary(%s, ", e.Op)
		writeSexpr(sb, e.Left)
		sb.WriteString(", ")
		writeSexpr(sb, e.Right)
		sb.WriteString(")")
	case Paren:
		sb.WriteString("Paren(")
		writeSexpr(sb, e.Expr)
		sb.WriteString(")")
	case Conditional:
		sb.WriteString("Cond(")
		writeSexpr(sb, e.Cond)
		sb.WriteString(", ")
		writeSexpr(sb, e.Then)
		sb.WriteString(", ")
		writeSexpr(sb, e.Else)
		sb.WriteString(")")
	case Assign:
		sb.WriteString("Assign(")
		writeSexpr(sb, e.Left)
		sb.WriteString(", ")
		writeSexpr(sb, e.Right)
		sb.WriteString(")")
	case Call:
		fmt.Fprintf(sb, "Call(%s, [", e.Func.Name)
		for i, arg := range e.Args {
			if i > 0 {
				sb.WriteString(", ")
			}
			writeSexpr(sb, arg)
		}
		sb.WriteString("])")
	case Index:
		sb.WriteString("Index(")
		writeSexpr(sb, e.Array)
		sb.WriteString(", ")
		writeSexpr(sb, e.Index)
		sb.WriteString(")")
	case Cast:
		fmt.Fprintf(sb, "Cast(%s, ", e.Type.Text)
		writeSexpr(sb, e.Expr)
		sb.WriteString(")")
	default:
		fmt.Fprintf(sb, "?%T", expr)
	}
}
