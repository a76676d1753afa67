package parser

import (
	"errors"
	"os"
	"slices"
	"strings"
	"testing"

	"github.com/raymyers/cexpr/pkg/cabs"
	"github.com/raymyers/cexpr/pkg/lexer"
	"github.com/raymyers/cexpr/pkg/typename"
	"gopkg.in/yaml.v3"
)

// parseCase is a test case from parse.yaml
type parseCase struct {
	Name  string `yaml:"name"`
	Input string `yaml:"input"`
	Sexpr string `yaml:"sexpr"`
}

// TestFile represents the parse.yaml file structure
type TestFile struct {
	Tests []parseCase `yaml:"tests"`
}

func loadCases(t *testing.T) []parseCase {
	t.Helper()
	data, err := os.ReadFile("../../testdata/parse.yaml")
	if err != nil {
		t.Fatalf("failed to read parse.yaml: %v", err)
	}
	var testFile TestFile
	if err := yaml.Unmarshal(data, &testFile); err != nil {
		t.Fatalf("failed to parse parse.yaml: %v", err)
	}
	if len(testFile.Tests) == 0 {
		t.Fatal("parse.yaml has no tests")
	}
	return testFile.Tests
}

func mustParse(t *testing.T, input string, opts ...Option) cabs.Expr {
	t.Helper()
	expr, err := ParseString(input, opts...)
	if err != nil {
		t.Fatalf("ParseString(%q): %v", input, err)
	}
	return expr
}

func TestParseYAML(t *testing.T) {
	for _, tc := range loadCases(t) {
		t.Run(tc.Name, func(t *testing.T) {
			expr := mustParse(t, tc.Input)
			if got := cabs.Sexpr(expr); got != tc.Sexpr {
				t.Errorf("input %q\n got: %s\nwant: %s", tc.Input, got, tc.Sexpr)
			}
		})
	}
}

// Printing a tree and parsing the result must give the same tree back
func TestPrintReparse(t *testing.T) {
	for _, tc := range loadCases(t) {
		t.Run(tc.Name, func(t *testing.T) {
			expr := mustParse(t, tc.Input)
			printed := cabs.String(expr)
			again, err := ParseString(printed)
			if err != nil {
				t.Fatalf("reparse %q: %v", printed, err)
			}
			if !cabs.Equal(expr, again) {
				t.Errorf("reparse of %q differs:\n got: %s\nwant: %s", printed, cabs.Sexpr(again), cabs.Sexpr(expr))
			}
		})
	}
}

func TestSpans(t *testing.T) {
	tests := []struct {
		input string
		want  lexer.Span
	}{
		{"a + bc", lexer.Span{Start: 0, Length: 6}},
		{"  x", lexer.Span{Start: 2, Length: 1}},
		{"(int)x", lexer.Span{Start: 0, Length: 6}},
		{`"ab" "cd"`, lexer.Span{Start: 0, Length: 9}},
		{"f(a)", lexer.Span{Start: 0, Length: 4}},
		{"a[i]++", lexer.Span{Start: 0, Length: 6}},
		{"a ? b : c", lexer.Span{Start: 0, Length: 9}},
		{"-x", lexer.Span{Start: 0, Length: 2}},
		{"(a)", lexer.Span{Start: 0, Length: 3}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := mustParse(t, tt.input).Span(); got != tt.want {
				t.Errorf("Span = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestCastTypeNameSpan(t *testing.T) {
	expr := mustParse(t, "( unsigned  int )x")
	cast, ok := expr.(cabs.Cast)
	if !ok {
		t.Fatalf("expected Cast, got %T", expr)
	}
	if cast.Type.Text != "unsigned int" {
		t.Errorf("Type.Text = %q", cast.Type.Text)
	}
	if want := (lexer.Span{Start: 2, Length: 13}); cast.Type.Loc != want {
		t.Errorf("Type.Loc = %+v, want %+v", cast.Type.Loc, want)
	}
}

func TestTypedefCasts(t *testing.T) {
	types := WithTypeNames(typename.New("T", "size_t"))

	tests := []struct {
		input string
		opts  []Option
		want  string
	}{
		{"(T)x", []Option{types}, "Cast(T, x)"},
		{"(T)-x", []Option{types}, "Cast(T, Unary(-, x))"},
		{"(T *)p", []Option{types}, "Cast(T *, p)"},
		{"(size_t)n * 2", []Option{types}, "Binary(*, Cast(size_t, n), Int(2, dec))"},
		{"(T)-x", nil, "Binary(-, Paren(T), x)"},
		{"(T)(x)", nil, "?"}, // not a call: T( needs an identifier directly before (
		{"(x)-1", []Option{types}, "Binary(-, Paren(x), Int(1, dec))"},
		{"(T) + (T)", []Option{types}, "Cast(T, Unary(+, Paren(T)))"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expr, err := ParseString(tt.input, tt.opts...)
			if tt.want == "?" {
				if err == nil {
					t.Fatalf("expected error, got %s", cabs.Sexpr(expr))
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseString: %v", err)
			}
			if got := cabs.Sexpr(expr); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

// When a cast fails deep inside its operand, the grouping fallback
// stops right after "(T)". The error must still point at the real fault.
func TestAbandonedCastReportsFurthestError(t *testing.T) {
	types := WithTypeNames(typename.New("T"))

	_, err := ParseString("(T)(a + b", types)
	var eof *UnexpectedEOFError
	if !errors.As(err, &eof) {
		t.Fatalf("expected UnexpectedEOFError, got %T: %v", err, err)
	}
	if !slices.Equal(eof.Expected, []lexer.TokenType{lexer.TokenRParen}) {
		t.Errorf("Expected = %v", eof.Expected)
	}
	if eof.At.Span.Start != 9 {
		t.Errorf("error at %d, want end of input", eof.At.Span.Start)
	}

	s, err := lexer.NewStreamString("x; (T)(f(a) b; y")
	if err != nil {
		t.Fatal(err)
	}
	_, err = New(s, types).ParseExpressionList()
	var tokErr *UnexpectedTokenError
	if !errors.As(err, &tokErr) {
		t.Fatalf("expected UnexpectedTokenError, got %T: %v", err, err)
	}
	if tokErr.Found.Literal != "b" {
		t.Errorf("error at %q, want b", tokErr.Found.Literal)
	}

	// The cast fails at "=", but the grouping reading gets past it to "y"
	_, err = ParseString("(T)-- = x y", types)
	if !errors.As(err, &tokErr) || tokErr.Found.Literal != "y" {
		t.Errorf("got %v", err)
	}
}

func TestIdentifierRecognizer(t *testing.T) {
	reserved := WithIdentifiers(IdentifierFunc(func(tok lexer.Token) bool {
		return tok.Type == lexer.TokenIdent && !strings.HasPrefix(tok.Literal, "__")
	}))

	if got := cabs.Sexpr(mustParse(t, "f(x)", reserved)); got != "Call(f, [x])" {
		t.Errorf("got %s", got)
	}
	_, err := ParseString("a + __b", reserved)
	var unexpected *UnexpectedTokenError
	if !errors.As(err, &unexpected) {
		t.Fatalf("expected UnexpectedTokenError, got %v", err)
	}
	if unexpected.Found.Literal != "__b" {
		t.Errorf("Found = %q", unexpected.Found.Literal)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		input    string
		eof      bool
		expected []lexer.TokenType
	}{
		{"", true, exprStart},
		{"a +", true, exprStart},
		{"a )", false, []lexer.TokenType{lexer.TokenEOF}},
		{"f(a b)", false, []lexer.TokenType{lexer.TokenComma, lexer.TokenRParen}},
		{"f(a,", true, exprStart},
		{"a ? b", true, []lexer.TokenType{lexer.TokenColon}},
		{"a ? b ; c", false, []lexer.TokenType{lexer.TokenColon}},
		{"a[1", true, []lexer.TokenType{lexer.TokenRBracket}},
		{"(a", true, []lexer.TokenType{lexer.TokenRParen}},
		{"a = ", true, exprStart},
		{"a * / b", false, exprStart},
		{"(int)x y", false, []lexer.TokenType{lexer.TokenEOF}},
		{"a += 1", false, []lexer.TokenType{lexer.TokenEOF}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := ParseString(tt.input)
			if err == nil {
				t.Fatal("expected error")
			}
			var got []lexer.TokenType
			if tt.eof {
				var e *UnexpectedEOFError
				if !errors.As(err, &e) {
					t.Fatalf("expected UnexpectedEOFError, got %T: %v", err, err)
				}
				got = e.Expected
			} else {
				var e *UnexpectedTokenError
				if !errors.As(err, &e) {
					t.Fatalf("expected UnexpectedTokenError, got %T: %v", err, err)
				}
				got = e.Expected
			}
			if !slices.Equal(got, tt.expected) {
				t.Errorf("Expected = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"a )", "line 1, col 3: expected EOF, got )"},
		{"f(a b)", "line 1, col 5: expected one of , ), got IDENT b"},
		{"a ?\n b", "line 2, col 3: unexpected end of input, expected :"},
		{"a @ b", "line 1, col 3: unexpected character '@'"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := ParseString(tt.input)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.HasPrefix(err.Error(), tt.want) {
				t.Errorf("error = %q, want prefix %q", err.Error(), tt.want)
			}
		})
	}
}

func TestLexerErrorPassthrough(t *testing.T) {
	_, err := ParseString(`a + "open`)
	var lexErr *lexer.Error
	if !errors.As(err, &lexErr) {
		t.Fatalf("expected lexer.Error, got %T: %v", err, err)
	}
}

func TestInvalidCastTarget(t *testing.T) {
	for _, input := range []string{"(int)", "(int) + ", "(unsigned char *)", "f((long))"} {
		t.Run(input, func(t *testing.T) {
			_, err := ParseString(input)
			var e *InvalidCastTargetError
			if !errors.As(err, &e) {
				t.Fatalf("expected InvalidCastTargetError, got %T: %v", err, err)
			}
			var inner *UnexpectedTokenError
			if !errors.As(err, &inner) {
				t.Errorf("expected wrapped UnexpectedTokenError, got %v", e.Err)
			}
			if e.Span() != e.Type.Loc {
				t.Errorf("Span = %+v, want type name %+v", e.Span(), e.Type.Loc)
			}
			if inner.Found.Span.Start != e.Type.Loc.Start {
				t.Errorf("inner error at %d, type name at %d", inner.Found.Span.Start, e.Type.Loc.Start)
			}
		})
	}
}

func TestDepthLimit(t *testing.T) {
	nest := func(n int) string {
		return strings.Repeat("(", n) + "x" + strings.Repeat(")", n)
	}

	if _, err := ParseString(nest(4), WithMaxDepth(10)); err != nil {
		t.Fatalf("4 levels: %v", err)
	}
	_, err := ParseString(nest(5), WithMaxDepth(10))
	var e *DepthLimitError
	if !errors.As(err, &e) {
		t.Fatalf("expected DepthLimitError, got %T: %v", err, err)
	}
	if e.Limit != 10 {
		t.Errorf("Limit = %d", e.Limit)
	}

	// Far past the default must fail cleanly instead of exhausting the stack
	_, err = ParseString(strings.Repeat("!", 100000) + "x")
	if !errors.As(err, &e) || e.Limit != DefaultMaxDepth {
		t.Fatalf("expected DepthLimitError at default, got %v", err)
	}
}

func TestLongChainsDoNotNest(t *testing.T) {
	input := strings.Repeat("a + ", 50000) + "a"
	expr, err := ParseString(input, WithMaxDepth(8))
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	n := 0
	for {
		b, ok := expr.(cabs.Binary)
		if !ok {
			break
		}
		if _, nested := b.Right.(cabs.Binary); nested {
			t.Fatal("addition chain should lean left")
		}
		expr = b.Left
		n++
	}
	if n != 50000 {
		t.Errorf("chain length = %d, want 50000", n)
	}
}

func TestParserReusesDepthAfterBacktrack(t *testing.T) {
	// Each abandoned cast restores the depth counter, so a row of them
	// must not accumulate toward the limit.
	input := strings.Repeat("(x) + (int)", 200) + "x"
	if _, err := ParseString(input, WithMaxDepth(16)); err != nil {
		t.Fatalf("ParseString: %v", err)
	}
}

func TestParseExpressionList(t *testing.T) {
	s, err := lexer.NewStreamString("a; b = 1;; f();")
	if err != nil {
		t.Fatal(err)
	}
	exprs, err := New(s).ParseExpressionList()
	if err != nil {
		t.Fatalf("ParseExpressionList: %v", err)
	}
	var got []string
	for _, e := range exprs {
		got = append(got, cabs.Sexpr(e))
	}
	want := []string{"a", "Assign(b, Int(1, dec))", "Call(f, [])"}
	if !slices.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}

	s, _ = lexer.NewStreamString("a b")
	_, err = New(s).ParseExpressionList()
	var e *UnexpectedTokenError
	if !errors.As(err, &e) || !slices.Equal(e.Expected, []lexer.TokenType{lexer.TokenSemicolon}) {
		t.Errorf("expected ; error, got %v", err)
	}

	s, _ = lexer.NewStreamString("")
	if exprs, err := New(s).ParseExpressionList(); err != nil || len(exprs) != 0 {
		t.Errorf("empty input: %v, %v", exprs, err)
	}
}

func TestParseExpressionStopsAtCursor(t *testing.T) {
	// New continues from wherever the stream's cursor is
	s, _ := lexer.NewStreamString("skip a * b")
	s.Next()
	expr, err := New(s).ParseExpression()
	if err != nil {
		t.Fatal(err)
	}
	if got := cabs.Sexpr(expr); got != "Binary(*, a, b)" {
		t.Errorf("got %s", got)
	}
}

func TestReservedWordIsNotAnOperand(t *testing.T) {
	_, err := ParseString("sizeof x")
	if err == nil || !strings.HasSuffix(err.Error(), "got KEYWORD sizeof") {
		t.Errorf("got %v", err)
	}
	if got := cabs.Sexpr(mustParse(t, "(_Bool)flag")); got != "Cast(_Bool, flag)" {
		t.Errorf("got %s", got)
	}
}
