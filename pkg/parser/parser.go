// Package parser implements a recursive descent parser for C expressions
package parser

import (
	"strings"

	"github.com/raymyers/cexpr/pkg/cabs"
	"github.com/raymyers/cexpr/pkg/lexer"
	"github.com/raymyers/cexpr/pkg/typename"
	"github.com/tliron/commonlog"
)

// DefaultMaxDepth bounds nesting when no WithMaxDepth option is given
const DefaultMaxDepth = 256

// TypeNameOracle decides whether a type name starts at token index pos and
// how many tokens it spans. Implementations must not move the cursor.
type TypeNameOracle interface {
	MatchTypeName(s *lexer.Stream, pos int) (int, bool)
}

// IdentifierRecognizer decides whether a token names a variable or function
type IdentifierRecognizer interface {
	IsIdentifier(tok lexer.Token) bool
}

// IdentifierFunc adapts a function to IdentifierRecognizer
type IdentifierFunc func(tok lexer.Token) bool

func (f IdentifierFunc) IsIdentifier(tok lexer.Token) bool { return f(tok) }

func isIdentToken(tok lexer.Token) bool { return tok.Type == lexer.TokenIdent }

// Option configures a Parser
type Option func(*Parser)

// WithTypeNames sets the oracle used to tell casts from groupings
func WithTypeNames(o TypeNameOracle) Option {
	return func(p *Parser) { p.types = o }
}

// WithIdentifiers sets the identifier recognizer
func WithIdentifiers(r IdentifierRecognizer) Option {
	return func(p *Parser) { p.idents = r }
}

// WithMaxDepth bounds the number of nested parse frames; n <= 0 keeps the default
func WithMaxDepth(n int) Option {
	return func(p *Parser) {
		if n > 0 {
			p.maxDepth = n
		}
	}
}

// Parser parses C expressions into a Cabs AST. A Parser owns its stream's
// cursor and is not safe for concurrent use.
type Parser struct {
	s        *lexer.Stream
	types    TypeNameOracle
	idents   IdentifierRecognizer
	maxDepth int
	depth    int

	// abandoned is the error of the abandoned cast that got furthest
	// into the input during the current expression
	abandoned error
}

// New creates a new Parser reading from s. Without WithTypeNames only
// keyword type names (int, unsigned char *, struct tag...) are recognized.
func New(s *lexer.Stream, opts ...Option) *Parser {
	p := &Parser{
		s:        s,
		types:    typename.New(),
		idents:   IdentifierFunc(isIdentToken),
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ParseString tokenizes src and parses it as a single expression
func ParseString(src string, opts ...Option) (cabs.Expr, error) {
	s, err := lexer.NewStreamString(src)
	if err != nil {
		return nil, err
	}
	return New(s, opts...).ParseExpression()
}

func (p *Parser) cur() lexer.Token {
	return p.s.Peek(0)
}

func (p *Parser) nextToken() lexer.Token {
	return p.s.Next()
}

func (p *Parser) curTokenIs(t lexer.TokenType) bool {
	return p.cur().Type == t
}

func (p *Parser) peekTokenIs(t lexer.TokenType) bool {
	return p.s.Peek(1).Type == t
}

func (p *Parser) expect(t lexer.TokenType) (lexer.Token, error) {
	if p.curTokenIs(t) {
		return p.nextToken(), nil
	}
	return lexer.Token{}, p.unexpected(t)
}

// unexpected builds the error for the current token not being one of expected
func (p *Parser) unexpected(expected ...lexer.TokenType) error {
	tok := p.cur()
	if tok.Type == lexer.TokenEOF {
		return &UnexpectedEOFError{Expected: expected, At: tok}
	}
	return &UnexpectedTokenError{Expected: expected, Found: tok}
}

func (p *Parser) enter() error {
	if p.depth >= p.maxDepth {
		return &DepthLimitError{Limit: p.maxDepth, At: p.cur()}
	}
	p.depth++
	return nil
}

func (p *Parser) leave() {
	p.depth--
}

// ParseExpression parses one expression that must span the whole stream
func (p *Parser) ParseExpression() (cabs.Expr, error) {
	p.abandoned = nil
	expr, err := p.parseExpression()
	if err != nil {
		return nil, p.furthest(err)
	}
	if !p.curTokenIs(lexer.TokenEOF) {
		return nil, p.furthest(p.unexpected(lexer.TokenEOF))
	}
	return expr, nil
}

// ParseExpressionList parses expressions separated (or terminated) by
// semicolons up to the end of the stream. Empty statements are skipped.
func (p *Parser) ParseExpressionList() ([]cabs.Expr, error) {
	var exprs []cabs.Expr
	for !p.curTokenIs(lexer.TokenEOF) {
		if p.curTokenIs(lexer.TokenSemicolon) {
			p.nextToken()
			continue
		}
		p.abandoned = nil
		expr, err := p.parseExpression()
		if err != nil {
			return nil, p.furthest(err)
		}
		exprs = append(exprs, expr)
		if p.curTokenIs(lexer.TokenEOF) {
			break
		}
		if _, err := p.expect(lexer.TokenSemicolon); err != nil {
			return nil, p.furthest(err)
		}
	}
	return exprs, nil
}

// furthest picks between err and the error of an abandoned cast. When the
// cast got further into the input before failing, its error is closer to
// the real fault: `(T)(a + b` with typedef T otherwise reports the "(" after
// "(T)" instead of the missing ")".
func (p *Parser) furthest(err error) error {
	if p.abandoned != nil && errorOffset(p.abandoned) > errorOffset(err) {
		return p.abandoned
	}
	return err
}

// parseExpression is the grammar's `expression`: an assignment expression
func (p *Parser) parseExpression() (cabs.Expr, error) {
	return p.parseAssignment()
}

// parseAssignment: conditional [ "=" assignment ]
func (p *Parser) parseAssignment() (cabs.Expr, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	left, err := p.parseConditional()
	if err != nil {
		return nil, err
	}
	if !p.curTokenIs(lexer.TokenAssign) {
		return left, nil
	}
	p.nextToken()

	right, err := p.parseAssignment()
	if err != nil {
		return nil, err
	}
	return cabs.Assign{Left: left, Right: right, Loc: left.Span().Cover(right.Span())}, nil
}

// parseConditional: logical-or [ "?" expression ":" conditional ]
func (p *Parser) parseConditional() (cabs.Expr, error) {
	cond, err := p.parseLogicalOr()
	if err != nil {
		return nil, err
	}
	if !p.curTokenIs(lexer.TokenQuestion) {
		return cond, nil
	}
	p.nextToken()

	then, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenColon); err != nil {
		return nil, err
	}

	if err := p.enter(); err != nil {
		return nil, err
	}
	els, err := p.parseConditional()
	p.leave()
	if err != nil {
		return nil, err
	}
	return cabs.Conditional{Cond: cond, Then: then, Else: els, Loc: cond.Span().Cover(els.Span())}, nil
}

var (
	logicalOrOps      = map[lexer.TokenType]cabs.BinaryOp{lexer.TokenOr: cabs.OpOr}
	logicalAndOps     = map[lexer.TokenType]cabs.BinaryOp{lexer.TokenAnd: cabs.OpAnd}
	bitOrOps          = map[lexer.TokenType]cabs.BinaryOp{lexer.TokenPipe: cabs.OpBitOr}
	bitXorOps         = map[lexer.TokenType]cabs.BinaryOp{lexer.TokenCaret: cabs.OpBitXor}
	bitAndOps         = map[lexer.TokenType]cabs.BinaryOp{lexer.TokenAmpersand: cabs.OpBitAnd}
	equalityOps       = map[lexer.TokenType]cabs.BinaryOp{lexer.TokenEq: cabs.OpEq, lexer.TokenNe: cabs.OpNe}
	relationalOps     = map[lexer.TokenType]cabs.BinaryOp{lexer.TokenLt: cabs.OpLt, lexer.TokenLe: cabs.OpLe, lexer.TokenGt: cabs.OpGt, lexer.TokenGe: cabs.OpGe}
	shiftOps          = map[lexer.TokenType]cabs.BinaryOp{lexer.TokenShl: cabs.OpShl, lexer.TokenShr: cabs.OpShr}
	additiveOps       = map[lexer.TokenType]cabs.BinaryOp{lexer.TokenPlus: cabs.OpAdd, lexer.TokenMinus: cabs.OpSub}
	multiplicativeOps = map[lexer.TokenType]cabs.BinaryOp{lexer.TokenStar: cabs.OpMul, lexer.TokenSlash: cabs.OpDiv, lexer.TokenPercent: cabs.OpMod}
)

// parseBinary parses one left-associative level: operand { op operand }.
// The chain is folded in a loop so its length never adds stack depth.
func (p *Parser) parseBinary(operand func() (cabs.Expr, error), ops map[lexer.TokenType]cabs.BinaryOp) (cabs.Expr, error) {
	left, err := operand()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := ops[p.cur().Type]
		if !ok {
			return left, nil
		}
		p.nextToken()
		right, err := operand()
		if err != nil {
			return nil, err
		}
		left = cabs.Binary{Op: op, Left: left, Right: right, Loc: left.Span().Cover(right.Span())}
	}
}

func (p *Parser) parseLogicalOr() (cabs.Expr, error) {
	return p.parseBinary(p.parseLogicalAnd, logicalOrOps)
}

func (p *Parser) parseLogicalAnd() (cabs.Expr, error) {
	return p.parseBinary(p.parseBitOr, logicalAndOps)
}

func (p *Parser) parseBitOr() (cabs.Expr, error) {
	return p.parseBinary(p.parseBitXor, bitOrOps)
}

func (p *Parser) parseBitXor() (cabs.Expr, error) {
	return p.parseBinary(p.parseBitAnd, bitXorOps)
}

func (p *Parser) parseBitAnd() (cabs.Expr, error) {
	return p.parseBinary(p.parseEquality, bitAndOps)
}

func (p *Parser) parseEquality() (cabs.Expr, error) {
	return p.parseBinary(p.parseRelational, equalityOps)
}

func (p *Parser) parseRelational() (cabs.Expr, error) {
	return p.parseBinary(p.parseShift, relationalOps)
}

func (p *Parser) parseShift() (cabs.Expr, error) {
	return p.parseBinary(p.parseAdditive, shiftOps)
}

func (p *Parser) parseAdditive() (cabs.Expr, error) {
	return p.parseBinary(p.parseMultiplicative, additiveOps)
}

func (p *Parser) parseMultiplicative() (cabs.Expr, error) {
	return p.parseBinary(p.parseCast, multiplicativeOps)
}

// parseCast: "(" type-name ")" cast | unary
func (p *Parser) parseCast() (cabs.Expr, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	var affirmed *cabs.TypeName
	if p.curTokenIs(lexer.TokenLParen) {
		expr, typ, ok := p.tryCast()
		if ok {
			return expr, nil
		}
		affirmed = typ
	}

	expr, err := p.parseUnary()
	if err != nil {
		// The grouping path choked on the very type name the oracle
		// accepted, so neither reading of the parentheses works.
		if tok, ok := errorToken(err); ok && affirmed != nil && tok.Span.Start == affirmed.Loc.Start {
			return nil, &InvalidCastTargetError{Type: *affirmed, Err: err}
		}
		return nil, err
	}
	return expr, nil
}

// tryCast speculatively parses a cast at the current "(". On failure the
// cursor and depth are restored and nothing built is kept; typ is non-nil
// when the oracle accepted a type name.
func (p *Parser) tryCast() (expr cabs.Expr, typ *cabs.TypeName, ok bool) {
	mark := p.s.Save()
	depth := p.depth
	rollback := func() {
		p.s.Restore(mark)
		p.depth = depth
	}

	lparen := p.nextToken()
	start := p.s.Pos()
	n, matched := p.types.MatchTypeName(p.s, start)
	if !matched || n <= 0 {
		rollback()
		return nil, nil, false
	}
	tn := typeName(p.s, start, n)

	if p.s.Peek(n).Type != lexer.TokenRParen || !p.canStartCast(p.s.Peek(n+1)) {
		rollback()
		return nil, &tn, false
	}
	p.s.Advance(n)
	p.nextToken() // consume ')'

	operand, err := p.parseCast()
	if err != nil {
		commonlog.GetLogger("cexpr.parser").Debugf("cast to %q at line %d, col %d abandoned: %v",
			tn.Text, lparen.Line, lparen.Column, err)
		rollback()
		if p.abandoned == nil || errorOffset(err) > errorOffset(p.abandoned) {
			p.abandoned = err
		}
		return nil, &tn, false
	}
	return cabs.Cast{Type: tn, Expr: operand, Loc: lparen.Span.Cover(operand.Span())}, &tn, true
}

func typeName(s *lexer.Stream, start, n int) cabs.TypeName {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = s.At(start + i).Literal
	}
	return cabs.TypeName{
		Text: strings.Join(parts, " "),
		Loc:  s.At(start).Span.Cover(s.At(start + n - 1).Span),
	}
}

// canStartCast reports whether tok can begin a cast expression
func (p *Parser) canStartCast(tok lexer.Token) bool {
	if tok.Type == lexer.TokenLParen || tok.Type.IsLiteral() {
		return true
	}
	if _, ok := unaryOps[tok.Type]; ok {
		return true
	}
	return p.idents.IsIdentifier(tok)
}

var unaryOps = map[lexer.TokenType]cabs.UnaryOp{
	lexer.TokenIncrement: cabs.OpPreInc,
	lexer.TokenDecrement: cabs.OpPreDec,
	lexer.TokenNot:       cabs.OpNot,
	lexer.TokenPlus:      cabs.OpPlus,
	lexer.TokenMinus:     cabs.OpNeg,
	lexer.TokenAmpersand: cabs.OpAddrOf,
	lexer.TokenStar:      cabs.OpDeref,
	lexer.TokenTilde:     cabs.OpBitNot,
}

// exprStart lists the tokens that can begin a cast-level expression
var exprStart = []lexer.TokenType{
	lexer.TokenLParen,
	lexer.TokenIncrement, lexer.TokenDecrement, lexer.TokenNot, lexer.TokenPlus,
	lexer.TokenMinus, lexer.TokenAmpersand, lexer.TokenStar, lexer.TokenTilde,
	lexer.TokenIdent, lexer.TokenDecInt, lexer.TokenOctInt, lexer.TokenHexInt,
	lexer.TokenFloatConst, lexer.TokenCharConst, lexer.TokenString,
}

// parseUnary: unary-op cast | postfix
func (p *Parser) parseUnary() (cabs.Expr, error) {
	tok := p.cur()
	op, ok := unaryOps[tok.Type]
	if !ok {
		return p.parsePostfix()
	}
	p.nextToken()

	operand, err := p.parseCast()
	if err != nil {
		return nil, err
	}
	return cabs.Unary{Op: op, Expr: operand, Loc: tok.Span.Cover(operand.Span())}, nil
}

// parsePostfix: (call | primary) { "[" expression "]" | "++" | "--" }
func (p *Parser) parsePostfix() (cabs.Expr, error) {
	var (
		expr cabs.Expr
		err  error
	)
	if p.idents.IsIdentifier(p.cur()) && p.peekTokenIs(lexer.TokenLParen) {
		expr, err = p.parseCall()
	} else {
		expr, err = p.parsePrimary()
	}
	if err != nil {
		return nil, err
	}

	for {
		switch p.cur().Type {
		case lexer.TokenLBracket:
			p.nextToken()
			index, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			rbrack, err := p.expect(lexer.TokenRBracket)
			if err != nil {
				return nil, err
			}
			expr = cabs.Index{Array: expr, Index: index, Loc: expr.Span().Cover(rbrack.Span)}
		case lexer.TokenIncrement, lexer.TokenDecrement:
			tok := p.nextToken()
			op := cabs.OpPostInc
			if tok.Type == lexer.TokenDecrement {
				op = cabs.OpPostDec
			}
			expr = cabs.Postfix{Op: op, Expr: expr, Loc: expr.Span().Cover(tok.Span)}
		default:
			return expr, nil
		}
	}
}

// parseCall: identifier "(" [ expression { "," expression } ] ")"
func (p *Parser) parseCall() (cabs.Expr, error) {
	name := p.nextToken()
	p.nextToken() // consume '('

	var args []cabs.Expr
	if !p.curTokenIs(lexer.TokenRParen) {
		for {
			arg, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if !p.curTokenIs(lexer.TokenComma) {
				break
			}
			p.nextToken()
		}
		if !p.curTokenIs(lexer.TokenRParen) {
			return nil, p.unexpected(lexer.TokenComma, lexer.TokenRParen)
		}
	}
	rparen := p.nextToken()

	return cabs.Call{
		Func: cabs.Variable{Name: name.Literal, Loc: name.Span},
		Args: args,
		Loc:  name.Span.Cover(rparen.Span),
	}, nil
}

// parsePrimary: "(" expression ")" | literal | identifier
func (p *Parser) parsePrimary() (cabs.Expr, error) {
	tok := p.cur()
	switch tok.Type {
	case lexer.TokenLParen:
		p.nextToken()
		inner, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		rparen, err := p.expect(lexer.TokenRParen)
		if err != nil {
			return nil, err
		}
		return cabs.Paren{Expr: inner, Loc: tok.Span.Cover(rparen.Span)}, nil
	case lexer.TokenString:
		return p.parseStrings(), nil
	case lexer.TokenDecInt:
		p.nextToken()
		return cabs.IntConst{Raw: tok.Literal, Radix: cabs.Decimal, Loc: tok.Span}, nil
	case lexer.TokenOctInt:
		p.nextToken()
		return cabs.IntConst{Raw: tok.Literal, Radix: cabs.Octal, Loc: tok.Span}, nil
	case lexer.TokenHexInt:
		p.nextToken()
		return cabs.IntConst{Raw: tok.Literal, Radix: cabs.Hexadecimal, Loc: tok.Span}, nil
	case lexer.TokenFloatConst:
		p.nextToken()
		return cabs.FloatConst{Raw: tok.Literal, Loc: tok.Span}, nil
	case lexer.TokenCharConst:
		p.nextToken()
		return cabs.CharConst{Raw: tok.Literal, Loc: tok.Span}, nil
	}

	if p.idents.IsIdentifier(tok) {
		p.nextToken()
		return cabs.Variable{Name: tok.Literal, Loc: tok.Span}, nil
	}
	return nil, p.unexpected(exprStart...)
}

// parseStrings joins a maximal run of adjacent string literals
func (p *Parser) parseStrings() cabs.Expr {
	first := p.cur()
	var sb strings.Builder
	last := first
	for p.curTokenIs(lexer.TokenString) {
		last = p.nextToken()
		sb.WriteString(last.Literal)
	}
	return cabs.StringConst{Value: sb.String(), Loc: first.Span.Cover(last.Span)}
}
