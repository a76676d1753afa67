package typename

import (
	"testing"

	"github.com/raymyers/cexpr/pkg/ctypes"
	"github.com/raymyers/cexpr/pkg/lexer"
)

func stream(t *testing.T, input string) *lexer.Stream {
	t.Helper()
	s, err := lexer.NewStreamString(input)
	if err != nil {
		t.Fatalf("lex %q: %v", input, err)
	}
	return s
}

func TestMatchTypeName(t *testing.T) {
	m := New("size_t", "T")

	tests := []struct {
		input string
		n     int
		ok    bool
	}{
		{"int", 1, true},
		{"int)", 1, true},
		{"unsigned long long int)", 4, true},
		{"const char * const *)", 5, true},
		{"struct node *)", 3, true},
		{"enum color)", 2, true},
		{"size_t)", 1, true},
		{"T *)", 2, true},
		{"long double)", 2, true},
		{"_Bool)", 1, true},
		{"unsigned _Bool)", 0, false},
		{"x)", 0, false},
		{"const)", 0, false},
		{"struct)", 0, false},
		{"unsigned float)", 0, false},
		{"long long long)", 0, false},
		{"short char)", 0, false},
		{"void int)", 0, false},
		{"int T)", 1, true}, // T is not a specifier after int
		{"1)", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			s := stream(t, tt.input)
			n, ok := m.MatchTypeName(s, 0)
			if ok != tt.ok || n != tt.n {
				t.Errorf("MatchTypeName = (%d, %v), want (%d, %v)", n, ok, tt.n, tt.ok)
			}
			if s.Pos() != 0 {
				t.Errorf("MatchTypeName moved the cursor to %d", s.Pos())
			}
		})
	}
}

func TestMatchTypeNameAtOffset(t *testing.T) {
	m := New()
	s := stream(t, "( int ) x")
	if n, ok := m.MatchTypeName(s, 1); !ok || n != 1 {
		t.Errorf("MatchTypeName(1) = (%d, %v), want (1, true)", n, ok)
	}
	if _, ok := m.MatchTypeName(s, 3); ok {
		t.Errorf("x should not be a type name")
	}
}

func TestResolve(t *testing.T) {
	m := New("size_t")

	tests := []struct {
		input string
		want  ctypes.Type
	}{
		{"int", ctypes.Int()},
		{"signed", ctypes.Int()},
		{"unsigned", ctypes.UInt()},
		{"unsigned char", ctypes.UChar()},
		{"short int", ctypes.Short()},
		{"long", ctypes.Long()},
		{"unsigned long long", ctypes.Tlong{Sign: ctypes.Unsigned, LongLong: true}},
		{"float", ctypes.Float()},
		{"double", ctypes.Double()},
		{"long double", ctypes.Tfloat{Size: ctypes.FLong}},
		{"void *", ctypes.Pointer(ctypes.Void())},
		{"const char *", ctypes.Pointer(ctypes.Tqualified{Elem: ctypes.Char(), Const: true})},
		{"char * const", ctypes.Tqualified{Elem: ctypes.Pointer(ctypes.Char()), Const: true}},
		{"struct s", ctypes.Tstruct{Name: "s"}},
		{"union u **", ctypes.Pointer(ctypes.Pointer(ctypes.Tunion{Name: "u"}))},
		{"size_t", ctypes.Tnamed{Name: "size_t"}},
		{"_Bool", ctypes.Tint{Size: ctypes.IBool, Sign: ctypes.Unsigned}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			toks, err := lexer.Tokenize(tt.input)
			if err != nil {
				t.Fatalf("lex: %v", err)
			}
			got, err := m.Resolve(toks[:len(toks)-1])
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if !ctypes.Equal(got, tt.want) {
				t.Errorf("Resolve = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResolveErrors(t *testing.T) {
	m := New("T")
	for _, input := range []string{"", "const", "int double", "signed unsigned", "T int", "struct", "int x"} {
		t.Run(input, func(t *testing.T) {
			toks, err := lexer.Tokenize(input)
			if err != nil {
				t.Fatalf("lex: %v", err)
			}
			if _, err := m.Resolve(toks[:len(toks)-1]); err == nil {
				t.Errorf("expected error for %q", input)
			}
		})
	}
}

func TestTypedefs(t *testing.T) {
	m := New("b", "a")
	m.Add("c")
	got := m.Typedefs()
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("Typedefs = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Typedefs[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if !m.IsTypedef("a") || m.IsTypedef("z") {
		t.Errorf("IsTypedef mismatch")
	}
}
