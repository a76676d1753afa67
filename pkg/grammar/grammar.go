// Package grammar holds the C expression grammar in EBNF form
package grammar

import (
	_ "embed"
	"fmt"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/exp/ebnf"
)

// Start is the grammar's start production
const Start = "Expression"

//go:embed expression.ebnf
var source string

// Source returns the grammar text
func Source() string {
	return source
}

// Load parses the embedded grammar and verifies it from Start
func Load() (ebnf.Grammar, error) {
	g, err := ebnf.Parse("expression.ebnf", strings.NewReader(source))
	if err != nil {
		return nil, fmt.Errorf("parse grammar: %w", err)
	}
	if err := ebnf.Verify(g, Start); err != nil {
		return nil, fmt.Errorf("verify grammar: %w", err)
	}
	return g, nil
}

// Productions returns the production names in sorted order
func Productions(g ebnf.Grammar) []string {
	names := make([]string, 0, len(g))
	for name := range g {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Terminals returns the distinct literal tokens used by the non-lexical
// productions of g, sorted
func Terminals(g ebnf.Grammar) []string {
	seen := make(map[string]bool)
	for name, prod := range g {
		if isLexical(name) {
			continue
		}
		collect(prod.Expr, seen)
	}
	terms := make([]string, 0, len(seen))
	for t := range seen {
		terms = append(terms, t)
	}
	slices.Sort(terms)
	return terms
}

// isLexical reports whether name is a lexical production. As in ebnf.Verify,
// those are the names that do not start with an upper case letter.
func isLexical(name string) bool {
	ch, _ := utf8.DecodeRuneInString(name)
	return !unicode.IsUpper(ch)
}

func collect(x ebnf.Expression, seen map[string]bool) {
	switch x := x.(type) {
	case ebnf.Alternative:
		for _, e := range x {
			collect(e, seen)
		}
	case ebnf.Sequence:
		for _, e := range x {
			collect(e, seen)
		}
	case *ebnf.Group:
		collect(x.Body, seen)
	case *ebnf.Option:
		collect(x.Body, seen)
	case *ebnf.Repetition:
		collect(x.Body, seen)
	case *ebnf.Token:
		seen[x.String] = true
	}
}
