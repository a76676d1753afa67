// Package typename recognizes C type names (as used in casts) in a token
// stream and resolves them to ctypes.
//
// Grammar:
//
//	type-name  = { specifier | qualifier } { "*" { qualifier } } .
//	specifier  = "void" | "char" | "short" | "int" | "long" | "float"
//	           | "double" | "signed" | "unsigned" | "_Bool"
//	           | ( "struct" | "union" | "enum" ) IDENT
//	           | typedef-name .
//	qualifier  = "const" | "volatile" | "restrict" .
//
// A typedef name only counts as a specifier when no other type specifier
// has been seen, so `(T x)` is not a type name even if T is one.
package typename

import (
	"errors"
	"fmt"
	"sort"

	"github.com/raymyers/cexpr/pkg/ctypes"
	"github.com/raymyers/cexpr/pkg/lexer"
)

var errInvalidCombination = errors.New("invalid combination of type specifiers")

// Matcher recognizes type names built from keywords and a set of typedef names
type Matcher struct {
	typedefs map[string]bool
}

// New returns a Matcher that knows the given typedef names
func New(typedefs ...string) *Matcher {
	m := &Matcher{typedefs: make(map[string]bool)}
	for _, name := range typedefs {
		m.Add(name)
	}
	return m
}

// Add registers a typedef name
func (m *Matcher) Add(name string) {
	m.typedefs[name] = true
}

// IsTypedef reports whether name was registered
func (m *Matcher) IsTypedef(name string) bool {
	return m.typedefs[name]
}

// Typedefs returns the registered names in sorted order
func (m *Matcher) Typedefs() []string {
	names := make([]string, 0, len(m.typedefs))
	for name := range m.typedefs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MatchTypeName reports how many tokens of a valid type name start at pos.
// It only reads from s and never moves its cursor.
func (m *Matcher) MatchTypeName(s *lexer.Stream, pos int) (int, bool) {
	n := m.scan(s, pos)
	if n == 0 {
		return 0, false
	}
	toks := make([]lexer.Token, n)
	for i := range toks {
		toks[i] = s.At(pos + i)
	}
	if _, err := m.Resolve(toks); err != nil {
		return 0, false
	}
	return n, true
}

// scan returns the length of the longest token run shaped like a type name
func (m *Matcher) scan(s *lexer.Stream, pos int) int {
	i := pos
	sawType := false
	for {
		tok := s.At(i)
		switch {
		case isQualifier(tok.Type):
			i++
		case isSpecifierKeyword(tok.Type):
			sawType = true
			i++
		case isTagKeyword(tok.Type):
			if s.At(i+1).Type != lexer.TokenIdent {
				return 0
			}
			sawType = true
			i += 2
		case tok.Type == lexer.TokenIdent && !sawType && m.typedefs[tok.Literal]:
			sawType = true
			i++
		default:
			if !sawType {
				return 0
			}
			for s.At(i).Type == lexer.TokenStar {
				i++
				for isQualifier(s.At(i).Type) {
					i++
				}
			}
			return i - pos
		}
	}
}

// Resolve converts the tokens of a type name to a ctypes.Type
func (m *Matcher) Resolve(toks []lexer.Token) (ctypes.Type, error) {
	var (
		counts   = make(map[lexer.TokenType]int)
		tagged   ctypes.Type
		named    ctypes.Type
		quals    ctypes.Tqualified
		nspec    int
		declStar = len(toks)
	)

	for i := 0; i < len(toks); i++ {
		tok := toks[i]
		if tok.Type == lexer.TokenStar {
			declStar = i
			break
		}
		switch {
		case isQualifier(tok.Type):
			setQualifier(&quals, tok.Type)
		case isSpecifierKeyword(tok.Type):
			counts[tok.Type]++
			nspec++
		case isTagKeyword(tok.Type):
			if i+1 >= len(toks) || toks[i+1].Type != lexer.TokenIdent {
				return nil, fmt.Errorf("%s requires a tag name", tok.Type)
			}
			tagged = tagType(tok.Type, toks[i+1].Literal)
			nspec++
			i++
		case tok.Type == lexer.TokenIdent && m.typedefs[tok.Literal]:
			named = ctypes.Tnamed{Name: tok.Literal}
			nspec++
		default:
			return nil, fmt.Errorf("unexpected %s in type name", tok.Type)
		}
	}

	var base ctypes.Type
	switch {
	case tagged != nil || named != nil:
		if nspec != 1 {
			return nil, errInvalidCombination
		}
		base = tagged
		if named != nil {
			base = named
		}
	case nspec == 0:
		return nil, fmt.Errorf("type name has no type specifier")
	default:
		t, err := arithmetic(counts, nspec)
		if err != nil {
			return nil, err
		}
		base = t
	}
	typ := qualify(base, quals)

	// abstract declarator: pointers with their own qualifiers
	for i := declStar; i < len(toks); i++ {
		if toks[i].Type != lexer.TokenStar {
			return nil, fmt.Errorf("unexpected %s in abstract declarator", toks[i].Type)
		}
		var pq ctypes.Tqualified
		for i+1 < len(toks) && isQualifier(toks[i+1].Type) {
			i++
			setQualifier(&pq, toks[i].Type)
		}
		typ = qualify(ctypes.Pointer(typ), pq)
	}
	return typ, nil
}

// arithmetic resolves a multiset of keyword specifiers (C11 6.7.2p2)
func arithmetic(counts map[lexer.TokenType]int, nspec int) (ctypes.Type, error) {
	signed := counts[lexer.TokenSigned]
	unsigned := counts[lexer.TokenUnsigned]
	longs := counts[lexer.TokenLong]
	ints := counts[lexer.TokenInt_]
	invalid := errInvalidCombination

	if signed+unsigned > 1 || ints > 1 || longs > 2 || counts[lexer.TokenShort] > 1 {
		return nil, invalid
	}
	sign := ctypes.Signed
	if unsigned > 0 {
		sign = ctypes.Unsigned
	}
	signs := signed + unsigned

	switch {
	case counts[lexer.TokenVoid] > 0:
		if nspec != 1 {
			return nil, invalid
		}
		return ctypes.Void(), nil
	case counts[lexer.TokenBool] > 0:
		if nspec != 1 {
			return nil, invalid
		}
		return ctypes.Tint{Size: ctypes.IBool, Sign: ctypes.Unsigned}, nil
	case counts[lexer.TokenChar] > 0:
		if nspec != 1+signs || counts[lexer.TokenChar] > 1 {
			return nil, invalid
		}
		return ctypes.Tint{Size: ctypes.I8, Sign: sign}, nil
	case counts[lexer.TokenFloat] > 0:
		if nspec != 1 {
			return nil, invalid
		}
		return ctypes.Float(), nil
	case counts[lexer.TokenDouble] > 0:
		if signs > 0 || counts[lexer.TokenDouble] > 1 || longs > 1 || nspec != 1+longs {
			return nil, invalid
		}
		if longs == 1 {
			return ctypes.Tfloat{Size: ctypes.FLong}, nil
		}
		return ctypes.Double(), nil
	case counts[lexer.TokenShort] > 0:
		if longs > 0 || nspec != 1+signs+ints {
			return nil, invalid
		}
		return ctypes.Tint{Size: ctypes.I16, Sign: sign}, nil
	case longs > 0:
		if nspec != longs+signs+ints {
			return nil, invalid
		}
		return ctypes.Tlong{Sign: sign, LongLong: longs == 2}, nil
	default:
		// int, signed, unsigned, signed int, unsigned int
		if nspec != signs+ints {
			return nil, invalid
		}
		return ctypes.Tint{Size: ctypes.I32, Sign: sign}, nil
	}
}

func qualify(t ctypes.Type, q ctypes.Tqualified) ctypes.Type {
	if !q.Const && !q.Volatile && !q.Restrict {
		return t
	}
	q.Elem = t
	return q
}

func setQualifier(q *ctypes.Tqualified, t lexer.TokenType) {
	switch t {
	case lexer.TokenConst:
		q.Const = true
	case lexer.TokenVolatile:
		q.Volatile = true
	case lexer.TokenRestrict:
		q.Restrict = true
	}
}

func tagType(kw lexer.TokenType, name string) ctypes.Type {
	switch kw {
	case lexer.TokenStruct:
		return ctypes.Tstruct{Name: name}
	case lexer.TokenUnion:
		return ctypes.Tunion{Name: name}
	}
	return ctypes.Tenum{Name: name}
}

func isQualifier(t lexer.TokenType) bool {
	return t == lexer.TokenConst || t == lexer.TokenVolatile || t == lexer.TokenRestrict
}

func isSpecifierKeyword(t lexer.TokenType) bool {
	switch t {
	case lexer.TokenVoid, lexer.TokenChar, lexer.TokenShort, lexer.TokenInt_, lexer.TokenLong,
		lexer.TokenFloat, lexer.TokenDouble, lexer.TokenSigned, lexer.TokenUnsigned, lexer.TokenBool:
		return true
	}
	return false
}

func isTagKeyword(t lexer.TokenType) bool {
	return t == lexer.TokenStruct || t == lexer.TokenUnion || t == lexer.TokenEnum
}
