package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/raymyers/cexpr/pkg/cabs"
	"github.com/raymyers/cexpr/pkg/lexer"
)

// UnexpectedTokenError reports a token that cannot continue the expression
type UnexpectedTokenError struct {
	Expected []lexer.TokenType
	Found    lexer.Token
}

func (e *UnexpectedTokenError) Error() string {
	return fmt.Sprintf("line %d, col %d: expected %s, got %s",
		e.Found.Line, e.Found.Column, describe(e.Expected), foundText(e.Found))
}

// Span returns the location of the offending token
func (e *UnexpectedTokenError) Span() lexer.Span { return e.Found.Span }

// UnexpectedEOFError reports input ending in the middle of an expression
type UnexpectedEOFError struct {
	Expected []lexer.TokenType
	At       lexer.Token // the EOF token
}

func (e *UnexpectedEOFError) Error() string {
	return fmt.Sprintf("line %d, col %d: unexpected end of input, expected %s",
		e.At.Line, e.At.Column, describe(e.Expected))
}

// Span returns the (empty) location of the end of input
func (e *UnexpectedEOFError) Span() lexer.Span { return e.At.Span }

// InvalidCastTargetError reports a parenthesized type name that is neither
// a usable cast nor a valid grouping. Err is the error from parsing the
// parentheses as a grouping.
type InvalidCastTargetError struct {
	Type cabs.TypeName
	Err  error
}

func (e *InvalidCastTargetError) Error() string {
	return fmt.Sprintf("invalid cast to %q: %v", e.Type.Text, e.Err)
}

func (e *InvalidCastTargetError) Unwrap() error { return e.Err }

// Span returns the location of the type name
func (e *InvalidCastTargetError) Span() lexer.Span { return e.Type.Loc }

// DepthLimitError reports nesting deeper than the configured limit
type DepthLimitError struct {
	Limit int
	At    lexer.Token
}

func (e *DepthLimitError) Error() string {
	return fmt.Sprintf("line %d, col %d: expression nested deeper than %d levels",
		e.At.Line, e.At.Column, e.Limit)
}

// Span returns the location where the limit was hit
func (e *DepthLimitError) Span() lexer.Span { return e.At.Span }

func describe(expected []lexer.TokenType) string {
	if len(expected) == 1 {
		return expected[0].String()
	}
	names := make([]string, len(expected))
	for i, t := range expected {
		names[i] = t.String()
	}
	return "one of " + strings.Join(names, " ")
}

func foundText(tok lexer.Token) string {
	switch tok.Type {
	case lexer.TokenIdent, lexer.TokenKeyword, lexer.TokenDecInt, lexer.TokenOctInt, lexer.TokenHexInt,
		lexer.TokenFloatConst, lexer.TokenCharConst:
		return fmt.Sprintf("%s %s", tok.Type, tok.Literal)
	}
	return tok.Type.String()
}

// errorToken returns the token an error was reported at, if it has one
func errorToken(err error) (lexer.Token, bool) {
	switch e := err.(type) {
	case *UnexpectedTokenError:
		return e.Found, true
	case *UnexpectedEOFError:
		return e.At, true
	case *DepthLimitError:
		return e.At, true
	}
	return lexer.Token{}, false
}

// errorOffset returns the byte offset an error was reported at, or -1
func errorOffset(err error) int {
	var sp interface{ Span() lexer.Span }
	if errors.As(err, &sp) {
		return sp.Span().Start
	}
	return -1
}
