package cabs

import (
	"fmt"
	"io"
	"strings"
)

// dotTree is a labeled tree ready for Graphviz output
type dotTree struct {
	label    string
	children []dotEdge
}

type dotEdge struct {
	label string
	node  dotTree
}

func dotLeaf(label string) dotTree {
	return dotTree{label: label}
}

// DotPrinter writes expressions as Graphviz digraphs
type DotPrinter struct {
	w    io.Writer
	next int
}

// NewDotPrinter creates a printer writing to w
func NewDotPrinter(w io.Writer) *DotPrinter {
	return &DotPrinter{w: w}
}

// PrintExprs writes one digraph with a root per expression
func (p *DotPrinter) PrintExprs(exprs []Expr) {
	fmt.Fprintln(p.w, "digraph ast {")
	fmt.Fprintln(p.w, "  node [shape=box];")
	for _, e := range exprs {
		p.emit(toDot(e))
	}
	fmt.Fprintln(p.w, "}")
}

func (p *DotPrinter) emit(t dotTree) int {
	id := p.next
	p.next++
	fmt.Fprintf(p.w, "  n%d [label=\"%s\"];\n", id, escapeDot(t.label))
	for _, c := range t.children {
		child := p.emit(c.node)
		if c.label == "" {
			fmt.Fprintf(p.w, "  n%d -> n%d;\n", id, child)
		} else {
			fmt.Fprintf(p.w, "  n%d -> n%d [label=\"%s\"];\n", id, child, escapeDot(c.label))
		}
	}
	return id
}

func escapeDot(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}

func toDot(expr Expr) dotTree {
	switch e := expr.(type) {
	case IntConst:
		return dotTree{"literal", []dotEdge{{e.Radix.String(), dotLeaf(e.Raw)}}}
	case FloatConst:
		return dotTree{"literal", []dotEdge{{"float", dotLeaf(e.Raw)}}}
	case CharConst:
		return dotTree{"literal", []dotEdge{{"char", dotLeaf(e.Raw)}}}
	case StringConst:
		return dotTree{"literal", []dotEdge{{"string", dotLeaf(`"` + e.Value + `"`)}}}
	case Variable:
		return dotLeaf(e.Name)
	case Unary:
		return dotTree{e.Op.String() + "◌", []dotEdge{{"", toDot(e.Expr)}}}
	case Postfix:
		return dotTree{"◌" + e.Op.String(), []dotEdge{{"", toDot(e.Expr)}}}
	case Binary:
		return dotTree{e.Op.String(), []dotEdge{{"lhs", toDot(e.Left)}, {"rhs", toDot(e.Right)}}}
	case Paren:
		return dotTree{"(◌)", []dotEdge{{"", toDot(e.Expr)}}}
	case Conditional:
		return dotTree{"◌ ? ◌ : ◌", []dotEdge{
			{"cond", toDot(e.Cond)},
			{"then", toDot(e.Then)},
			{"else", toDot(e.Else)},
		}}
	case Assign:
		return dotTree{"=", []dotEdge{{"lhs", toDot(e.Left)}, {"rhs", toDot(e.Right)}}}
	case Call:
		edges := []dotEdge{{"name", dotLeaf(e.Func.Name)}}
		for _, arg := range e.Args {
			edges = append(edges, dotEdge{"arg", toDot(arg)})
		}
		return dotTree{"func call", edges}
	case Index:
		return dotTree{"◌[◌]", []dotEdge{{"lhs", toDot(e.Array)}, {"rhs", toDot(e.Index)}}}
	case Cast:
		return dotTree{"cast", []dotEdge{{"type", dotLeaf(e.Type.Text)}, {"expr", toDot(e.Expr)}}}
	}
	return dotLeaf(fmt.Sprintf("%T", expr))
}
