package lower

import (
	"strings"
	"testing"

	"github.com/kaleidoscope-lang/kale/internal/errors"
	"github.com/kaleidoscope-lang/kale/internal/ir"
	"github.com/kaleidoscope-lang/kale/internal/lexer"
	"github.com/kaleidoscope-lang/kale/internal/parser"
	"github.com/stretchr/testify/require"
)

func lowerDefs(t *testing.T, src string) (*ir.Module, *Context, *errors.Sink) {
	t.Helper()
	errs := errors.NewSink(src, "test.kal")
	p := parser.New(lexer.NewFromString(src), errs)
	mod := ir.NewModule("test")
	lctx := New(mod, nil, errs, "test.kal")

	for {
		switch p.Current().Type {
		case lexer.EOF:
			return mod, lctx, errs
		case lexer.SEMICOLON:
			p.Advance()
		case lexer.DEF:
			fn := p.ParseDefinition()
			require.NotNil(t, fn)
			lctx.Definition(fn)
		case lexer.EXTERN:
			proto := p.ParseExtern()
			require.NotNil(t, proto)
			lctx.Extern(proto)
		default:
			t.Fatalf("unexpected token %s", p.Current())
		}
	}
}

func TestLowerSimpleDefinition(t *testing.T) {
	mod, _, errs := lowerDefs(t, "def add(x y) x + y")
	require.False(t, errs.HasErrors())
	fn, ok := mod.GetFunction("add")
	require.True(t, ok)
	require.NoError(t, fn.Verify())
	require.Contains(t, fn.String(), "fadd double")
}

func TestLowerDivisionUsesFDiv(t *testing.T) {
	mod, _, errs := lowerDefs(t, "def recip(x) 1 / x")
	require.False(t, errs.HasErrors())
	fn, _ := mod.GetFunction("recip")
	require.Contains(t, fn.String(), "fdiv double")
}

func TestLowerComparisonConvertsToDouble(t *testing.T) {
	mod, _, errs := lowerDefs(t, "def lt(x y) x < y")
	require.False(t, errs.HasErrors())
	fn, _ := mod.GetFunction("lt")
	require.Contains(t, fn.String(), "fcmp ult")
	require.Contains(t, fn.String(), "uitofp")
}

func TestLowerUnaryMinus(t *testing.T) {
	mod, _, errs := lowerDefs(t, "def neg(x) -x")
	require.False(t, errs.HasErrors())
	fn, _ := mod.GetFunction("neg")
	require.Contains(t, fn.String(), "fsub double 0,")
	require.NoError(t, fn.Verify())
}

func TestLowerUnknownVariable(t *testing.T) {
	_, _, errs := lowerDefs(t, "def f(x) y")
	require.True(t, errs.HasErrors())
	require.Contains(t, errs.Diagnostics()[0].Message, "Unknown variable name")
}

func TestLowerUnknownFunction(t *testing.T) {
	_, _, errs := lowerDefs(t, "def f(x) missing(x)")
	require.True(t, errs.HasErrors())
	require.Contains(t, errs.Diagnostics()[0].Message, "Unknown function referenced")
}

func TestLowerArityMismatch(t *testing.T) {
	_, _, errs := lowerDefs(t, "def g(x y) x + y\ndef f(x) g(x)")
	require.True(t, errs.HasErrors())
	require.Contains(t, errs.Diagnostics()[0].Message, "Incorrect # arguments passed")
}

func TestLowerRedefinitionRejected(t *testing.T) {
	_, _, errs := lowerDefs(t, "def f(x) x\ndef f(x) x + 1")
	require.True(t, errs.HasErrors())
	require.Contains(t, errs.Diagnostics()[0].Message, "Function cannot be redefined")
}

func TestLowerExternThenDefineReusesDeclaration(t *testing.T) {
	mod, _, errs := lowerDefs(t, "extern sin(x)\ndef f(x) sin(x)")
	require.False(t, errs.HasErrors())
	fn, ok := mod.GetFunction("sin")
	require.True(t, ok)
	require.True(t, fn.Empty())
}

func TestLowerIfThenElseMergesWithPhi(t *testing.T) {
	mod, _, errs := lowerDefs(t, "def fib(x) if x < 2 then x else fib(x-1)+fib(x-2)")
	require.False(t, errs.HasErrors())
	fn, _ := mod.GetFunction("fib")
	require.NoError(t, fn.Verify())
	require.Contains(t, fn.String(), "phi double")
	names := []string{}
	for _, b := range fn.Blocks {
		names = append(names, b.Name)
	}
	require.Contains(t, names, "then")
	require.Contains(t, names, "else")
	require.Contains(t, names, "ifcont")
}

func TestLowerForLoopEvaluatesToZero(t *testing.T) {
	mod, _, errs := lowerDefs(t, "def loopsum(n) for i = 1, i < n, 1 in i")
	require.False(t, errs.HasErrors())
	fn, _ := mod.GetFunction("loopsum")
	require.NoError(t, fn.Verify())
	require.Contains(t, fn.String(), "ret double 0")
}

func TestLowerForLoopDefaultStepIsOne(t *testing.T) {
	mod, _, errs := lowerDefs(t, "def count(n) for i = 0, i < n in i")
	require.False(t, errs.HasErrors())
	fn, _ := mod.GetFunction("count")
	require.Contains(t, fn.String(), "fadd double")
}

func TestLowerVarInShadowsOuterBinding(t *testing.T) {
	mod, _, errs := lowerDefs(t, "def f(x) var x = x + 1 in x")
	require.False(t, errs.HasErrors())
	fn, _ := mod.GetFunction("f")
	require.NoError(t, fn.Verify())
}

func TestLowerVarInDefaultsInitToZero(t *testing.T) {
	mod, _, errs := lowerDefs(t, "def f() var a in a")
	require.False(t, errs.HasErrors())
	fn, _ := mod.GetFunction("f")
	require.Contains(t, fn.String(), "store double 0")
}

func TestLowerSeqOperatorEvaluatesLeftThenRight(t *testing.T) {
	mod, _, errs := lowerDefs(t, "def f(x) (x + 1 : x + 2)")
	require.False(t, errs.HasErrors())
	fn, _ := mod.GetFunction("f")
	require.NoError(t, fn.Verify())
	require.Equal(t, 2, strings.Count(fn.String(), "fadd double"))
}

func TestLowerInvalidBinaryOperator(t *testing.T) {
	_, _, errs := lowerDefs(t, "def f(x y) x | y")
	require.True(t, errs.HasErrors())
	require.Contains(t, errs.Diagnostics()[0].Message, "invalid binary operator")
}

func TestLowerAssignStoresAndYieldsValue(t *testing.T) {
	mod, _, errs := lowerDefs(t, "def f(x) (x = x + 1)")
	require.False(t, errs.HasErrors())
	fn, _ := mod.GetFunction("f")
	require.NoError(t, fn.Verify())
	require.Contains(t, fn.String(), "store double")
}

func TestLowerAssignToUnknownVariableErrors(t *testing.T) {
	_, _, errs := lowerDefs(t, "def f(x) y = 1")
	require.True(t, errs.HasErrors())
	require.Contains(t, errs.Diagnostics()[0].Message, "Unknown variable name")
}

func TestLowerAssignToNonVariableErrors(t *testing.T) {
	_, _, errs := lowerDefs(t, "def f(x) 1 = x")
	require.True(t, errs.HasErrors())
	require.Contains(t, errs.Diagnostics()[0].Message, "destination of '=' must be a variable")
}

// TestLowerMutableAccumulatorAcrossForLoop is the mutable-binding
// end-to-end case: a var-bound accumulator reassigned through '=' on
// every iteration of a for-loop, then read back out of its VarIn
// scope. This only lowers at all once '=' is implemented as an
// assignment rather than rejected as an invalid binary operator.
func TestLowerMutableAccumulatorAcrossForLoop(t *testing.T) {
	mod, _, errs := lowerDefs(t, "def sumto(n) var s = 0 in (for i = 1, i < n, 1 in s = s + i) : s")
	require.False(t, errs.HasErrors())
	fn, ok := mod.GetFunction("sumto")
	require.True(t, ok)
	require.NoError(t, fn.Verify())
}
