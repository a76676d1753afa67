package lexer

import (
	"fmt"
	"strings"
	"unicode"
)

// Lexer tokenizes C source code
type Lexer struct {
	input   string
	pos     int  // current position in input
	readPos int  // next reading position
	ch      byte // current character
	line    int
	column  int
	err     *Error // first malformed token, if any
}

// Error reports a malformed token
type Error struct {
	Msg   string
	Token Token
}

func (e *Error) Error() string {
	return fmt.Sprintf("line %d, col %d: %s", e.Token.Line, e.Token.Column, e.Msg)
}

// New creates a new Lexer for the given input
func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1, column: 0}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}
	if l.readPos >= len(l.input) {
		l.ch = 0 // EOF
	} else {
		l.ch = l.input[l.readPos]
	}
	l.pos = l.readPos
	l.readPos++
	l.column++
}

func (l *Lexer) peekChar() byte {
	if l.readPos >= len(l.input) {
		return 0
	}
	return l.input[l.readPos]
}

// Err returns the first lexical error seen so far, or nil
func (l *Lexer) Err() error {
	if l.err == nil {
		return nil
	}
	return l.err
}

// NextToken returns the next token from the input
func (l *Lexer) NextToken() Token {
	l.skipWhitespace()
	l.skipComments()
	l.skipWhitespace()

	tok := Token{Line: l.line, Column: l.column}
	start := l.pos

	switch l.ch {
	case 0:
		tok.Type = TokenEOF
		tok.Span = Span{Start: len(l.input)}
		return tok
	case '+':
		tok.Type = l.pick(TokenPlus, '+', TokenIncrement, '=', TokenPlusAssign)
	case '-':
		switch l.peekChar() {
		case '>':
			l.readChar()
			tok.Type = TokenArrow
		case '-':
			l.readChar()
			tok.Type = TokenDecrement
		case '=':
			l.readChar()
			tok.Type = TokenMinusAssign
		default:
			tok.Type = TokenMinus
		}
	case '*':
		tok.Type = l.pick(TokenStar, '=', TokenStarAssign, 0, 0)
	case '/':
		tok.Type = l.pick(TokenSlash, '=', TokenSlashAssign, 0, 0)
	case '%':
		tok.Type = l.pick(TokenPercent, '=', TokenPercentAssign, 0, 0)
	case '=':
		tok.Type = l.pick(TokenAssign, '=', TokenEq, 0, 0)
	case '!':
		tok.Type = l.pick(TokenNot, '=', TokenNe, 0, 0)
	case '<':
		if l.peekChar() == '<' {
			l.readChar()
			tok.Type = l.pick(TokenShl, '=', TokenShlAssign, 0, 0)
		} else {
			tok.Type = l.pick(TokenLt, '=', TokenLe, 0, 0)
		}
	case '>':
		if l.peekChar() == '>' {
			l.readChar()
			tok.Type = l.pick(TokenShr, '=', TokenShrAssign, 0, 0)
		} else {
			tok.Type = l.pick(TokenGt, '=', TokenGe, 0, 0)
		}
	case '&':
		tok.Type = l.pick(TokenAmpersand, '&', TokenAnd, '=', TokenAndAssign)
	case '|':
		tok.Type = l.pick(TokenPipe, '|', TokenOr, '=', TokenOrAssign)
	case '^':
		tok.Type = l.pick(TokenCaret, '=', TokenXorAssign, 0, 0)
	case '~':
		tok.Type = TokenTilde
	case '?':
		tok.Type = TokenQuestion
	case ':':
		tok.Type = TokenColon
	case '(':
		tok.Type = TokenLParen
	case ')':
		tok.Type = TokenRParen
	case '{':
		tok.Type = TokenLBrace
	case '}':
		tok.Type = TokenRBrace
	case '[':
		tok.Type = TokenLBracket
	case ']':
		tok.Type = TokenRBracket
	case ';':
		tok.Type = TokenSemicolon
	case ',':
		tok.Type = TokenComma
	case '.':
		if isDigit(l.peekChar()) {
			return l.number(tok, start)
		}
		tok.Type = TokenDot
	case '"':
		body, ok := l.readQuoted('"')
		if !ok {
			return l.illegal(tok, start, "unterminated string literal")
		}
		tok.Type = TokenString
		tok = l.finish(tok, start, body)
		return tok
	case '\'':
		if _, ok := l.readQuoted('\''); !ok {
			return l.illegal(tok, start, "unterminated character constant")
		}
		tok.Type = TokenCharConst
		return l.finish(tok, start, l.input[start:l.pos])
	default:
		if isLetter(l.ch) {
			ident := l.readIdentifier()
			tok.Type = LookupIdent(ident)
			return l.finish(tok, start, ident)
		} else if isDigit(l.ch) {
			return l.number(tok, start)
		}
		l.readChar()
		return l.illegal(tok, start, fmt.Sprintf("unexpected character %q", l.input[start]))
	}

	l.readChar()
	return l.finish(tok, start, l.input[start:l.pos])
}

// pick consumes one more character when it matches a or b and returns the
// corresponding two-character token type, otherwise single.
func (l *Lexer) pick(single TokenType, a byte, ta TokenType, b byte, tb TokenType) TokenType {
	switch next := l.peekChar(); {
	case a != 0 && next == a:
		l.readChar()
		return ta
	case b != 0 && next == b:
		l.readChar()
		return tb
	}
	return single
}

func (l *Lexer) finish(tok Token, start int, literal string) Token {
	tok.Literal = literal
	tok.Span = Span{Start: start, Length: l.pos - start}
	return tok
}

func (l *Lexer) illegal(tok Token, start int, msg string) Token {
	tok.Type = TokenIllegal
	tok = l.finish(tok, start, l.input[start:l.pos])
	if l.err == nil {
		l.err = &Error{Msg: msg, Token: tok}
	}
	return tok
}

func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' || l.ch == '\f' || l.ch == '\v' {
		l.readChar()
	}
}

func (l *Lexer) skipComments() {
	for l.ch == '/' {
		if l.peekChar() == '/' {
			// Single-line comment
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
			l.skipWhitespace()
		} else if l.peekChar() == '*' {
			// Multi-line comment
			l.readChar() // consume /
			l.readChar() // consume *
			for {
				if l.ch == 0 {
					break
				}
				if l.ch == '*' && l.peekChar() == '/' {
					l.readChar() // consume *
					l.readChar() // consume /
					break
				}
				l.readChar()
			}
			l.skipWhitespace()
		} else {
			break
		}
	}
}

func (l *Lexer) readIdentifier() string {
	pos := l.pos
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return l.input[pos:l.pos]
}

// readNumber consumes an integer or floating constant and classifies it.
// Suffixes stay part of the lexeme; no value is computed. A non-empty msg
// means the constant is malformed.
func (l *Lexer) readNumber() (typ TokenType, msg string) {
	if l.ch == '0' && (l.peekChar() == 'x' || l.peekChar() == 'X') {
		l.readChar()
		l.readChar()
		digits := 0
		for isHexDigit(l.ch) {
			l.readChar()
			digits++
		}
		l.readSuffix("uUlL")
		if digits == 0 {
			return TokenHexInt, "hexadecimal constant has no digits"
		}
		return TokenHexInt, ""
	}

	start := l.pos
	for isDigit(l.ch) {
		l.readChar()
	}
	isFloat := false
	if l.ch == '.' {
		isFloat = true
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	if l.ch == 'e' || l.ch == 'E' {
		isFloat = true
		l.readChar()
		if l.ch == '+' || l.ch == '-' {
			l.readChar()
		}
		exp := l.pos
		for isDigit(l.ch) {
			l.readChar()
		}
		if l.pos == exp {
			l.readSuffix("fFlL")
			return TokenFloatConst, "exponent has no digits"
		}
	}
	if isFloat {
		l.readSuffix("fFlL")
		return TokenFloatConst, ""
	}

	digits := l.input[start:l.pos]
	l.readSuffix("uUlL")
	if digits[0] == '0' && len(digits) > 1 {
		if i := strings.IndexAny(digits, "89"); i >= 0 {
			return TokenOctInt, fmt.Sprintf("invalid digit %q in octal constant", digits[i])
		}
		return TokenOctInt, ""
	}
	return TokenDecInt, ""
}

func (l *Lexer) number(tok Token, start int) Token {
	typ, msg := l.readNumber()
	if msg != "" {
		return l.illegal(tok, start, msg)
	}
	tok.Type = typ
	return l.finish(tok, start, l.input[start:l.pos])
}

func (l *Lexer) readSuffix(set string) {
	for l.ch != 0 && strings.IndexByte(set, l.ch) >= 0 {
		l.readChar()
	}
}

// readQuoted consumes a quoted literal starting at the opening quote and
// returns the undecoded body.
func (l *Lexer) readQuoted(quote byte) (string, bool) {
	l.readChar() // consume opening quote
	pos := l.pos
	for l.ch != quote {
		if l.ch == 0 || l.ch == '\n' {
			return l.input[pos:l.pos], false
		}
		if l.ch == '\\' {
			l.readChar() // skip escape char
			if l.ch == 0 {
				return l.input[pos:l.pos], false
			}
		}
		l.readChar()
	}
	body := l.input[pos:l.pos]
	l.readChar() // consume closing quote
	return body, true
}

// Tokenize lexes the whole input, including the trailing EOF token.
// It stops at the first illegal token.
func Tokenize(input string) ([]Token, error) {
	l := New(input)
	var toks []Token
	for {
		tok := l.NextToken()
		if tok.Type == TokenIllegal {
			return nil, l.Err()
		}
		toks = append(toks, tok)
		if tok.Type == TokenEOF {
			return toks, nil
		}
	}
}

func isLetter(ch byte) bool {
	return unicode.IsLetter(rune(ch)) || ch == '_'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return isDigit(ch) || ('a' <= ch && ch <= 'f') || ('A' <= ch && ch <= 'F')
}
