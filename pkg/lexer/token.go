package lexer

// TokenType represents the type of a token
type TokenType int

const (
	// Special tokens
	TokenEOF TokenType = iota
	TokenIllegal

	// Identifiers and literals
	TokenIdent      // main, foo, x
	TokenDecInt     // 42, 42u
	TokenOctInt     // 017
	TokenHexInt     // 0x1F
	TokenFloatConst // 1.5, 1e10, .5f
	TokenCharConst  // 'a', '\n'
	TokenString     // "hello"

	// TokenKeyword is any reserved word that cannot appear in a type name
	// (return, sizeof, static...). The word itself is in Literal.
	TokenKeyword

	// Type keywords
	TokenVoid
	TokenChar
	TokenShort
	TokenInt_
	TokenLong
	TokenFloat
	TokenDouble
	TokenSigned
	TokenUnsigned
	TokenBool // _Bool
	TokenStruct
	TokenUnion
	TokenEnum
	TokenConst
	TokenVolatile
	TokenRestrict

	// Operators
	TokenPlus      // +
	TokenMinus     // -
	TokenStar      // *
	TokenSlash     // /
	TokenPercent   // %
	TokenAssign    // =
	TokenEq        // ==
	TokenNe        // !=
	TokenLt        // <
	TokenLe        // <=
	TokenGt        // >
	TokenGe        // >=
	TokenAnd       // &&
	TokenOr        // ||
	TokenNot       // !
	TokenAmpersand // &
	TokenPipe      // |
	TokenCaret     // ^
	TokenTilde     // ~
	TokenShl       // <<
	TokenShr       // >>
	TokenQuestion  // ?
	TokenColon     // :

	// Compound assignment operators
	TokenPlusAssign    // +=
	TokenMinusAssign   // -=
	TokenStarAssign    // *=
	TokenSlashAssign   // /=
	TokenPercentAssign // %=
	TokenAndAssign     // &=
	TokenOrAssign      // |=
	TokenXorAssign     // ^=
	TokenShlAssign     // <<=
	TokenShrAssign     // >>=

	// Increment/decrement
	TokenIncrement // ++
	TokenDecrement // --

	// Delimiters
	TokenLParen    // (
	TokenRParen    // )
	TokenLBrace    // {
	TokenRBrace    // }
	TokenLBracket  // [
	TokenRBracket  // ]
	TokenSemicolon // ;
	TokenComma     // ,
	TokenDot       // .
	TokenArrow     // ->
)

// typeKeywords maps the words that can make up a type name to their tokens
var typeKeywords = map[string]TokenType{
	"void":     TokenVoid,
	"char":     TokenChar,
	"short":    TokenShort,
	"int":      TokenInt_,
	"long":     TokenLong,
	"float":    TokenFloat,
	"double":   TokenDouble,
	"signed":   TokenSigned,
	"unsigned": TokenUnsigned,
	"_Bool":    TokenBool,
	"struct":   TokenStruct,
	"union":    TokenUnion,
	"enum":     TokenEnum,
	"const":    TokenConst,
	"volatile": TokenVolatile,
	"restrict": TokenRestrict,
}

// reserved holds the other C11 keywords
var reserved = map[string]bool{
	"auto": true, "break": true, "case": true, "continue": true, "default": true,
	"do": true, "else": true, "extern": true, "for": true, "goto": true, "if": true,
	"inline": true, "register": true, "return": true, "sizeof": true, "static": true,
	"switch": true, "typedef": true, "while": true,
	"_Alignas": true, "_Alignof": true, "_Atomic": true, "_Complex": true,
	"_Generic": true, "_Imaginary": true, "_Noreturn": true, "_Static_assert": true,
	"_Thread_local": true,
}

var tokenNames = map[TokenType]string{
	TokenEOF:           "EOF",
	TokenIllegal:       "ILLEGAL",
	TokenIdent:         "IDENT",
	TokenDecInt:        "DEC_INT",
	TokenOctInt:        "OCT_INT",
	TokenHexInt:        "HEX_INT",
	TokenFloatConst:    "FLOAT",
	TokenCharConst:     "CHAR",
	TokenString:        "STRING",
	TokenKeyword:       "KEYWORD",
	TokenPlus:          "+",
	TokenMinus:         "-",
	TokenStar:          "*",
	TokenSlash:         "/",
	TokenPercent:       "%",
	TokenAssign:        "=",
	TokenEq:            "==",
	TokenNe:            "!=",
	TokenLt:            "<",
	TokenLe:            "<=",
	TokenGt:            ">",
	TokenGe:            ">=",
	TokenAnd:           "&&",
	TokenOr:            "||",
	TokenNot:           "!",
	TokenAmpersand:     "&",
	TokenPipe:          "|",
	TokenCaret:         "^",
	TokenTilde:         "~",
	TokenShl:           "<<",
	TokenShr:           ">>",
	TokenQuestion:      "?",
	TokenColon:         ":",
	TokenPlusAssign:    "+=",
	TokenMinusAssign:   "-=",
	TokenStarAssign:    "*=",
	TokenSlashAssign:   "/=",
	TokenPercentAssign: "%=",
	TokenAndAssign:     "&=",
	TokenOrAssign:      "|=",
	TokenXorAssign:     "^=",
	TokenShlAssign:     "<<=",
	TokenShrAssign:     ">>=",
	TokenIncrement:     "++",
	TokenDecrement:     "--",
	TokenLParen:        "(",
	TokenRParen:        ")",
	TokenLBrace:        "{",
	TokenRBrace:        "}",
	TokenLBracket:      "[",
	TokenRBracket:      "]",
	TokenSemicolon:     ";",
	TokenComma:         ",",
	TokenDot:           ".",
	TokenArrow:         "->",
}

func init() {
	for word, t := range typeKeywords {
		tokenNames[t] = word
	}
}

func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return "UNKNOWN"
}

// IsLiteral reports whether t is a character, string, floating or integer constant
func (t TokenType) IsLiteral() bool {
	switch t {
	case TokenDecInt, TokenOctInt, TokenHexInt, TokenFloatConst, TokenCharConst, TokenString:
		return true
	}
	return false
}

// IsTypeKeyword reports whether t is a type specifier, tag or qualifier keyword
func (t TokenType) IsTypeKeyword() bool {
	return t >= TokenVoid && t <= TokenRestrict
}

// Span is a byte range in the source text
type Span struct {
	Start  int
	Length int
}

// End returns the offset one past the last byte of the span
func (s Span) End() int {
	return s.Start + s.Length
}

// Cover returns the smallest span containing both s and o
func (s Span) Cover(o Span) Span {
	start := min(s.Start, o.Start)
	end := max(s.End(), o.End())
	return Span{Start: start, Length: end - start}
}

// Token represents a lexical token
type Token struct {
	Type    TokenType
	Literal string // raw text; string bodies exclude the quotes
	Line    int
	Column  int
	Span    Span
}

// LookupIdent returns the token type for a word: a type keyword, another
// reserved word, or IDENT
func LookupIdent(ident string) TokenType {
	if tok, ok := typeKeywords[ident]; ok {
		return tok
	}
	if reserved[ident] {
		return TokenKeyword
	}
	return TokenIdent
}
