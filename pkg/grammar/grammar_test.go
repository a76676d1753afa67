package grammar

import (
	"slices"
	"strings"
	"testing"
)

func TestLoad(t *testing.T) {
	g, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	for _, name := range []string{Start, "Cast", "TypeName", "identifier", "int_lit"} {
		if g[name] == nil {
			t.Errorf("missing production %s", name)
		}
	}
}

func TestTerminals(t *testing.T) {
	g, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	terms := Terminals(g)

	ops := strings.Fields("= ? : || && | ^ & == != < <= > >= << >> + - * / % ++ -- ! ~ ( ) [ ] ,")
	for _, op := range ops {
		if !slices.Contains(terms, op) {
			t.Errorf("operator %q not in grammar", op)
		}
	}
	// lexical productions are excluded
	if slices.Contains(terms, "0") {
		t.Errorf("terminals include lexical token 0: %v", terms)
	}
}

func TestProductionsSorted(t *testing.T) {
	g, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	names := Productions(g)
	if !slices.IsSorted(names) {
		t.Errorf("not sorted: %v", names)
	}
	if len(names) != len(g) {
		t.Errorf("got %d names for %d productions", len(names), len(g))
	}
}

func TestIsLexical(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"identifier", true},
		{"int_lit", true},
		{"Expression", false},
		{"TypeName", false},
		{"_letter", true},
	}

	for _, tt := range tests {
		if got := isLexical(tt.name); got != tt.want {
			t.Errorf("isLexical(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
