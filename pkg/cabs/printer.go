// Package cabs provides AST printing functionality
package cabs

import (
	"fmt"
	"io"
	"strings"
)

// Printer outputs expressions as C source. Only Paren nodes produce
// parentheses, so the output re-parses to the same tree.
type Printer struct {
	w io.Writer
}

// NewPrinter creates a new AST printer
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

// PrintExprs prints each expression as an expression statement
func (p *Printer) PrintExprs(exprs []Expr) {
	for _, e := range exprs {
		p.PrintExpr(e)
		fmt.Fprintln(p.w, ";")
	}
}

// PrintExpr prints a single expression without a terminator
func (p *Printer) PrintExpr(expr Expr) {
	p.printExpr(expr)
}

// String renders e as C source
func String(e Expr) string {
	var sb strings.Builder
	NewPrinter(&sb).PrintExpr(e)
	return sb.String()
}

func (p *Printer) printExpr(expr Expr) {
	switch e := expr.(type) {
	case IntConst:
		fmt.Fprint(p.w, e.Raw)
	case FloatConst:
		fmt.Fprint(p.w, e.Raw)
	case CharConst:
		fmt.Fprint(p.w, e.Raw)
	case StringConst:
		fmt.Fprintf(p.w, "\"%s\"", e.Value)
	case Variable:
		fmt.Fprint(p.w, e.Name)
	case Unary:
		p.printUnary(e)
	case Postfix:
		p.printExpr(e.Expr)
		fmt.Fprint(p.w, e.Op.String())
	case Binary:
		p.printExpr(e.Left)
		fmt.Fprintf(p.w, " %s ", e.Op.String())
		p.printExpr(e.Right)
	case Paren:
		fmt.Fprint(p.w, "(")
		p.printExpr(e.Expr)
		fmt.Fprint(p.w, ")")
	case Conditional:
		p.printExpr(e.Cond)
		fmt.Fprint(p.w, " ? ")
		p.printExpr(e.Then)
		fmt.Fprint(p.w, " : ")
		p.printExpr(e.Else)
	case Assign:
		p.printExpr(e.Left)
		fmt.Fprint(p.w, " = ")
		p.printExpr(e.Right)
	case Call:
		fmt.Fprint(p.w, e.Func.Name)
		fmt.Fprint(p.w, "(")
		for i, arg := range e.Args {
			if i > 0 {
				fmt.Fprint(p.w, ", ")
			}
			p.printExpr(arg)
		}
		fmt.Fprint(p.w, ")")
	case Index:
		p.printExpr(e.Array)
		fmt.Fprint(p.w, "[")
		p.printExpr(e.Index)
		fmt.Fprint(p.w, "]")
	case Cast:
		fmt.Fprintf(p.w, "(%s)", e.Type.Text)
		p.printExpr(e.Expr)
	default:
		fmt.Fprintf(p.w, "/* unknown expr %T */", expr)
	}
}

func (p *Printer) printUnary(u Unary) {
	op := u.Op.String()
	fmt.Fprint(p.w, op)
	// "- -x" must not print as "--x", nor "& &x" as "&&x"
	if last := op[len(op)-1]; (last == '-' || last == '+' || last == '&') && leadingByte(u.Expr) == last {
		fmt.Fprint(p.w, " ")
	}
	p.printExpr(u.Expr)
}

// leadingByte returns the first character printExpr would emit for e
func leadingByte(e Expr) byte {
	switch e := e.(type) {
	case Unary:
		return e.Op.String()[0]
	case Postfix:
		return leadingByte(e.Expr)
	case Binary:
		return leadingByte(e.Left)
	case Conditional:
		return leadingByte(e.Cond)
	case Assign:
		return leadingByte(e.Left)
	case Index:
		return leadingByte(e.Array)
	case Paren, Cast:
		return '('
	case StringConst:
		return '"'
	case IntConst:
		return firstByte(e.Raw)
	case FloatConst:
		return firstByte(e.Raw)
	case CharConst:
		return '\''
	case Call:
		return firstByte(e.Func.Name)
	case Variable:
		return firstByte(e.Name)
	}
	return 0
}

func firstByte(s string) byte {
	if s == "" {
		return 0
	}
	return s[0]
}
