package cabs

import (
	"bytes"
	"strings"
	"testing"
)

func TestPrintExpr(t *testing.T) {
	tests := []struct {
		name string
		expr Expr
		want string
	}{
		{"binary", Binary{Op: OpAdd, Left: v("a"), Right: Binary{Op: OpMul, Left: v("b"), Right: v("c")}}, "a + b * c"},
		{"paren kept", Binary{Op: OpMul, Left: Paren{Expr: Binary{Op: OpAdd, Left: v("a"), Right: v("b")}}, Right: v("c")}, "(a + b) * c"},
		{"cast", Cast{Type: TypeName{Text: "unsigned int"}, Expr: v("x")}, "(unsigned int)x"},
		{"call", Call{Func: v("f"), Args: []Expr{v("a"), dec("1")}}, "f(a, 1)"},
		{"empty call", Call{Func: v("f")}, "f()"},
		{"index postfix", Postfix{Op: OpPostInc, Expr: Index{Array: v("a"), Index: dec("0")}}, "a[0]++"},
		{"ternary", Conditional{Cond: v("a"), Then: v("b"), Else: v("c")}, "a ? b : c"},
		{"assign", Assign{Left: v("a"), Right: Assign{Left: v("b"), Right: v("c")}}, "a = b = c"},
		{"string", StringConst{Value: `ab\n`}, `"ab\n"`},
		{"char", CharConst{Raw: "'x'"}, "'x'"},
		{"neg neg", Unary{Op: OpNeg, Expr: Unary{Op: OpNeg, Expr: v("x")}}, "- -x"},
		{"neg predec", Unary{Op: OpNeg, Expr: Unary{Op: OpPreDec, Expr: v("x")}}, "- --x"},
		{"plus preinc", Unary{Op: OpPlus, Expr: Unary{Op: OpPreInc, Expr: v("x")}}, "+ ++x"},
		{"addr addr", Unary{Op: OpAddrOf, Expr: Unary{Op: OpAddrOf, Expr: v("x")}}, "& &x"},
		{"deref deref", Unary{Op: OpDeref, Expr: Unary{Op: OpDeref, Expr: v("p")}}, "**p"},
		{"neg postdec", Unary{Op: OpNeg, Expr: Postfix{Op: OpPostDec, Expr: v("x")}}, "-x--"},
		{"not", Unary{Op: OpNot, Expr: v("x")}, "!x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := String(tt.expr); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPrintExprs(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintExprs([]Expr{v("a"), Assign{Left: v("b"), Right: dec("1")}})
	want := "a;\nb = 1;\n"
	if got := buf.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestDotPrinter(t *testing.T) {
	var buf bytes.Buffer
	expr := Binary{
		Op:    OpAdd,
		Left:  Call{Func: v("f"), Args: []Expr{StringConst{Value: `a"b`}}},
		Right: IntConst{Raw: "0x10", Radix: Hexadecimal},
	}
	NewDotPrinter(&buf).PrintExprs([]Expr{expr})
	out := buf.String()

	for _, want := range []string{
		"digraph ast {",
		`n0 [label="+"];`,
		`n1 [label="func call"];`,
		`n0 -> n1 [label="lhs"];`,
		`[label="\"a\"b\""];`,
		`[label="hex"];`,
		`[label="0x10"];`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, out)
		}
	}
	if !strings.HasSuffix(out, "}\n") {
		t.Errorf("expected closing brace, got:\n%s", out)
	}
}
