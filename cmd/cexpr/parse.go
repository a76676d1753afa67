package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/raymyers/cexpr/pkg/cabs"
	"github.com/raymyers/cexpr/pkg/config"
	"github.com/raymyers/cexpr/pkg/lexer"
	"github.com/raymyers/cexpr/pkg/parser"
	"github.com/raymyers/cexpr/pkg/typename"
	"github.com/tliron/commonlog"
	"golang.org/x/sync/errgroup"
)

// input is one unit of source: a file, or an expression given with -e
type input struct {
	name   string
	src    string
	inline bool
}

// result is the outcome of parsing one input
type result struct {
	input
	exprs []cabs.Expr
	err   error
}

// parserOptions builds the parser options selected by cfg
func parserOptions(cfg config.Config) []parser.Option {
	return []parser.Option{
		parser.WithTypeNames(typename.New(cfg.Typedefs...)),
		parser.WithMaxDepth(cfg.MaxDepth),
	}
}

// parseInput parses all expressions of one input
func parseInput(in input, opts []parser.Option) result {
	s, err := lexer.NewStreamString(in.src)
	if err != nil {
		return result{input: in, err: err}
	}
	exprs, err := parser.New(s, opts...).ParseExpressionList()
	return result{input: in, exprs: exprs, err: err}
}

// parseAll reads and parses inputs concurrently. Results come back in
// input order. Only I/O failures are returned as an error; parse errors
// are recorded per result.
func parseAll(ctx context.Context, inputs []input, cfg config.Config) ([]result, error) {
	log := commonlog.GetLogger("cexpr.cli")
	opts := parserOptions(cfg)
	results := make([]result, len(inputs))

	g, gctx := errgroup.WithContext(ctx)
	if jobs > 0 {
		g.SetLimit(jobs)
	}
	for i, in := range inputs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if !in.inline {
				data, err := os.ReadFile(in.name)
				if err != nil {
					return fmt.Errorf("error reading %s: %w", in.name, err)
				}
				in.src = string(data)
			}
			results[i] = parseInput(in, opts)
			log.Debugf("parsed %s: %d expressions", in.name, len(results[i].exprs))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// processInputs parses inputs and writes each one's dump, or diagnostics,
// in input order
func processInputs(ctx context.Context, inputs []input, cfg config.Config, out, errOut io.Writer) error {
	results, err := parseAll(ctx, inputs, cfg)
	if err != nil {
		fmt.Fprintf(errOut, "cexpr: %v\n", err)
		return err
	}

	failed := 0
	for _, r := range results {
		if r.err != nil {
			failed++
			writeDiagnostic(errOut, r.name, r.src, r.err)
			continue
		}
		if len(results) > 1 {
			fmt.Fprintf(out, "// %s\n", r.name)
		}
		dump(out, cfg.Output, r.exprs)
	}
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d inputs", ErrParse, failed, len(results))
	}
	return nil
}

// dump writes exprs in the given output format
func dump(w io.Writer, format string, exprs []cabs.Expr) {
	switch format {
	case config.OutputC:
		cabs.NewPrinter(w).PrintExprs(exprs)
	case config.OutputDot:
		cabs.NewDotPrinter(w).PrintExprs(exprs)
	default:
		for _, e := range exprs {
			fmt.Fprintln(w, cabs.Sexpr(e))
		}
	}
}

// spanner is implemented by errors that know where in the source they occurred
type spanner interface {
	Span() lexer.Span
}

// writeDiagnostic prints err and, when it carries a location, the source
// line with a caret under the offending text
func writeDiagnostic(w io.Writer, name, src string, err error) {
	fmt.Fprintf(w, "%s: %v\n", name, err)

	var sp spanner
	var lexErr *lexer.Error
	var span lexer.Span
	switch {
	case errors.As(err, &sp):
		span = sp.Span()
	case errors.As(err, &lexErr):
		span = lexErr.Token.Span
	default:
		return
	}
	if span.Start > len(src) {
		return
	}

	lineStart := strings.LastIndexByte(src[:span.Start], '\n') + 1
	lineEnd := len(src)
	if i := strings.IndexByte(src[span.Start:], '\n'); i >= 0 {
		lineEnd = span.Start + i
	}
	width := max(1, min(span.Length, lineEnd-span.Start))

	var caret strings.Builder
	for _, ch := range []byte(src[lineStart:span.Start]) {
		if ch == '\t' {
			caret.WriteByte('\t')
		} else {
			caret.WriteByte(' ')
		}
	}
	caret.WriteByte('^')
	caret.WriteString(strings.Repeat("~", width-1))
	fmt.Fprintf(w, "  %s\n  %s\n", src[lineStart:lineEnd], caret.String())
}
