package driver

import (
	"testing"

	"github.com/kaleidoscope-lang/kale/internal/errors"
	"github.com/kaleidoscope-lang/kale/internal/ir"
	"github.com/kaleidoscope-lang/kale/internal/lexer"
	"github.com/kaleidoscope-lang/kale/internal/lower"
	"github.com/kaleidoscope-lang/kale/internal/parser"
	"github.com/stretchr/testify/require"
)

func runSource(t *testing.T, src string) ([]Result, *ir.Module, *errors.Sink) {
	t.Helper()
	errs := errors.NewSink(src, "test.kal")
	p := parser.New(lexer.NewFromString(src), errs)
	mod := ir.NewModule("test")
	lctx := lower.New(mod, nil, errs, "test.kal")
	results := Run(p, lctx)
	return results, mod, errs
}

func TestDriverHandlesDefExternAndExpression(t *testing.T) {
	results, mod, errs := runSource(t, "extern sin(x); def f(x) sin(x); 1 + 2")
	require.False(t, errs.HasErrors())
	require.Len(t, results, 3)
	require.Equal(t, "extern", results[0].Kind)
	require.Equal(t, "def", results[1].Kind)
	require.Equal(t, "expr", results[2].Kind)

	_, ok := mod.GetFunction("f")
	require.True(t, ok)
	// The top-level expression's anonymous wrapper is erased after lowering.
	_, ok = mod.GetFunction("__anon_expr")
	require.False(t, ok)
}

func TestDriverResyncsAfterParseFailure(t *testing.T) {
	results, _, errs := runSource(t, "def f(x (\ndef g(x) x")
	require.True(t, errs.HasErrors())
	require.GreaterOrEqual(t, len(results), 1)
	require.False(t, results[0].OK)
}

func TestDriverSkipsCommentsAndSemicolons(t *testing.T) {
	results, _, errs := runSource(t, "# just a comment\n;;; def f(x) x")
	require.False(t, errs.HasErrors())
	require.Len(t, results, 1)
	require.Equal(t, "def", results[0].Kind)
}
