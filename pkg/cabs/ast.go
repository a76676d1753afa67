// Package cabs defines the abstract syntax tree for C expressions
package cabs

import "github.com/raymyers/cexpr/pkg/lexer"

// Node is the base interface for all AST nodes
type Node interface {
	implCabsNode()
	Span() lexer.Span
}

// Expr is the interface for all expression nodes
type Expr interface {
	Node
	implCabsExpr()
}

// BinaryOp represents binary operators
type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpLt
	OpLe
	OpGt
	OpGe
	OpEq
	OpNe
	OpAnd // &&
	OpOr  // ||
	OpBitAnd
	OpBitOr
	OpBitXor
	OpShl // <<
	OpShr // >>
)

func (op BinaryOp) String() string {
	names := []string{"+", "-", "*", "/", "%", "<", "<=", ">", ">=", "==", "!=", "&&", "||", "&", "|", "^", "<<", ">>"}
	if int(op) < len(names) {
		return names[op]
	}
	return "?"
}

// UnaryOp represents prefix operators
type UnaryOp int

const (
	OpNeg    UnaryOp = iota // -
	OpNot                   // !
	OpBitNot                // ~
	OpPlus                  // +
	OpAddrOf                // &
	OpDeref                 // *
	OpPreInc                // ++
	OpPreDec                // --
)

func (op UnaryOp) String() string {
	names := []string{"-", "!", "~", "+", "&", "*", "++", "--"}
	if int(op) < len(names) {
		return names[op]
	}
	return "?"
}

// PostfixOp represents postfix increment and decrement
type PostfixOp int

const (
	OpPostInc PostfixOp = iota // ++
	OpPostDec                  // --
)

func (op PostfixOp) String() string {
	if op == OpPostInc {
		return "++"
	}
	return "--"
}

// Radix tags the base an integer constant was written in
type Radix int

const (
	Decimal Radix = iota
	Octal
	Hexadecimal
)

func (r Radix) String() string {
	switch r {
	case Octal:
		return "oct"
	case Hexadecimal:
		return "hex"
	}
	return "dec"
}

// IntConst is an integer constant kept in source form
type IntConst struct {
	Raw   string
	Radix Radix
	Loc   lexer.Span
}

// FloatConst is a floating constant kept in source form
type FloatConst struct {
	Raw string
	Loc lexer.Span
}

// CharConst is a character constant including its quotes
type CharConst struct {
	Raw string
	Loc lexer.Span
}

// StringConst is one or more adjacent string literals joined together.
// Value holds the undecoded bodies without quotes.
type StringConst struct {
	Value string
	Loc   lexer.Span
}

// Variable represents an identifier expression
type Variable struct {
	Name string
	Loc  lexer.Span
}

// Unary represents a prefix expression
type Unary struct {
	Op   UnaryOp
	Expr Expr
	Loc  lexer.Span
}

// Postfix represents x++ and x--
type Postfix struct {
	Op   PostfixOp
	Expr Expr
	Loc  lexer.Span
}

// Binary represents a binary expression
type Binary struct {
	Op    BinaryOp
	Left  Expr
	Right Expr
	Loc   lexer.Span
}

// Paren represents a parenthesized expression
type Paren struct {
	Expr Expr
	Loc  lexer.Span
}

// Conditional represents the ternary operator: cond ? then : else
type Conditional struct {
	Cond Expr
	Then Expr
	Else Expr
	Loc  lexer.Span
}

// Assign represents simple assignment
type Assign struct {
	Left  Expr
	Right Expr
	Loc   lexer.Span
}

// Call represents a function call; only named functions can be called
type Call struct {
	Func Variable
	Args []Expr
	Loc  lexer.Span
}

// Index represents array subscript access: arr[idx]
type Index struct {
	Array Expr
	Index Expr
	Loc   lexer.Span
}

// TypeName is the token run a cast names, opaque to the expression tree.
// Text is the tokens joined by single spaces.
type TypeName struct {
	Text string
	Loc  lexer.Span
}

// Cast represents (type)expr
type Cast struct {
	Type TypeName
	Expr Expr
	Loc  lexer.Span
}

func (e IntConst) Span() lexer.Span    { return e.Loc }
func (e FloatConst) Span() lexer.Span  { return e.Loc }
func (e CharConst) Span() lexer.Span   { return e.Loc }
func (e StringConst) Span() lexer.Span { return e.Loc }
func (e Variable) Span() lexer.Span    { return e.Loc }
func (e Unary) Span() lexer.Span       { return e.Loc }
func (e Postfix) Span() lexer.Span     { return e.Loc }
func (e Binary) Span() lexer.Span      { return e.Loc }
func (e Paren) Span() lexer.Span       { return e.Loc }
func (e Conditional) Span() lexer.Span { return e.Loc }
func (e Assign) Span() lexer.Span      { return e.Loc }
func (e Call) Span() lexer.Span        { return e.Loc }
func (e Index) Span() lexer.Span       { return e.Loc }
func (e Cast) Span() lexer.Span        { return e.Loc }

// Marker methods for interface implementation
func (IntConst) implCabsNode() {}
func (IntConst) implCabsExpr() {}

func (FloatConst) implCabsNode() {}
func (FloatConst) implCabsExpr() {}

func (CharConst) implCabsNode() {}
func (CharConst) implCabsExpr() {}

func (StringConst) implCabsNode() {}
func (StringConst) implCabsExpr() {}

func (Variable) implCabsNode() {}
func (Variable) implCabsExpr() {}

func (Unary) implCabsNode() {}
func (Unary) implCabsExpr() {}

func (Postfix) implCabsNode() {}
func (Postfix) implCabsExpr() {}

func (Binary) implCabsNode() {}
func (Binary) implCabsExpr() {}

func (Paren) implCabsNode() {}
func (Paren) implCabsExpr() {}

func (Conditional) implCabsNode() {}
func (Conditional) implCabsExpr() {}

func (Assign) implCabsNode() {}
func (Assign) implCabsExpr() {}

func (Call) implCabsNode() {}
func (Call) implCabsExpr() {}

func (Index) implCabsNode() {}
func (Index) implCabsExpr() {}

func (Cast) implCabsNode() {}
func (Cast) implCabsExpr() {}

// Unparen strips any grouping parentheses around e
func Unparen(e Expr) Expr {
	for {
		p, ok := e.(Paren)
		if !ok {
			return e
		}
		e = p.Expr
	}
}
