package parser

import (
	"testing"

	"github.com/kaleidoscope-lang/kale/internal/ast"
	"github.com/kaleidoscope-lang/kale/internal/errors"
	"github.com/kaleidoscope-lang/kale/internal/lexer"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, src string) (*Parser, *errors.Sink) {
	t.Helper()
	errs := errors.NewSink(src, "test.kal")
	p := New(lexer.NewFromString(src), errs)
	return p, errs
}

func TestParsePrecedenceClimbing(t *testing.T) {
	p, errs := parse(t, "1 + 2 * 3")
	expr := p.ParseExpression()
	require.False(t, errs.HasErrors())
	bin, ok := expr.(*ast.BinaryExpr)
	require.True(t, ok)
	require.Equal(t, byte('+'), bin.Op)
	require.Equal(t, "(2 * 3)", bin.Right.String())
}

func TestParseLeftAssociativeEqualPrecedence(t *testing.T) {
	p, errs := parse(t, "1 - 2 - 3")
	expr := p.ParseExpression()
	require.False(t, errs.HasErrors())
	require.Equal(t, "((1 - 2) - 3)", expr.String())
}

func TestParseUnaryMinus(t *testing.T) {
	p, errs := parse(t, "-x")
	expr := p.ParseExpression()
	require.False(t, errs.HasErrors())
	u, ok := expr.(*ast.UnaryExpr)
	require.True(t, ok)
	require.Equal(t, byte('-'), u.Op)
}

func TestParseCallExpression(t *testing.T) {
	p, errs := parse(t, "foo(1, bar(2), 3)")
	expr := p.ParseExpression()
	require.False(t, errs.HasErrors())
	call, ok := expr.(*ast.CallExpr)
	require.True(t, ok)
	require.Equal(t, "foo", call.Callee)
	require.Len(t, call.Args, 3)
}

func TestParseIfThenElse(t *testing.T) {
	p, errs := parse(t, "if x < 2 then 1 else 2")
	expr := p.ParseExpression()
	require.False(t, errs.HasErrors())
	ifExpr, ok := expr.(*ast.IfExpr)
	require.True(t, ok)
	require.NotNil(t, ifExpr.Cond)
	require.NotNil(t, ifExpr.Then)
	require.NotNil(t, ifExpr.Else)
}

func TestParseForLoopWithAndWithoutStep(t *testing.T) {
	p, errs := parse(t, "for i = 0, 10 in i")
	forExpr, ok := p.ParseExpression().(*ast.ForExpr)
	require.False(t, errs.HasErrors())
	require.True(t, ok)
	require.Equal(t, "i", forExpr.Ident)
	require.Nil(t, forExpr.Step)

	p2, errs2 := parse(t, "for i = 0, 10, 2 in i")
	forExpr2, ok := p2.ParseExpression().(*ast.ForExpr)
	require.False(t, errs2.HasErrors())
	require.True(t, ok)
	require.NotNil(t, forExpr2.Step)
}

func TestParseVarIn(t *testing.T) {
	p, errs := parse(t, "var a = 1, b in a + b")
	varExpr, ok := p.ParseExpression().(*ast.VarInExpr)
	require.False(t, errs.HasErrors())
	require.True(t, ok)
	require.Len(t, varExpr.Bindings, 2)
	require.NotNil(t, varExpr.Bindings[0].Init)
	require.Nil(t, varExpr.Bindings[1].Init)
}

func TestParseSeqOperator(t *testing.T) {
	p, errs := parse(t, "a : b")
	expr := p.ParseExpression()
	require.False(t, errs.HasErrors())
	_, ok := expr.(*ast.SeqExpr)
	require.True(t, ok)
}

func TestParseMalformedNumberRejected(t *testing.T) {
	p, errs := parse(t, "1.2.3")
	expr := p.ParseExpression()
	require.Nil(t, expr)
	require.True(t, errs.HasErrors())
}

func TestParseMissingCloseParenIsError(t *testing.T) {
	p, errs := parse(t, "(1 + 2")
	expr := p.ParseExpression()
	require.Nil(t, expr)
	require.True(t, errs.HasErrors())
}

func TestParseDefinitionAndExtern(t *testing.T) {
	p, errs := parse(t, "def foo(x y) x + y")
	fn := p.ParseDefinition()
	require.False(t, errs.HasErrors())
	require.Equal(t, "foo", fn.Proto.Name)
	require.Equal(t, []string{"x", "y"}, fn.Proto.Params)

	p2, errs2 := parse(t, "extern sin(x)")
	proto := p2.ParseExtern()
	require.False(t, errs2.HasErrors())
	require.Equal(t, "sin", proto.Name)
	require.Equal(t, []string{"x"}, proto.Params)
}

func TestParseTopWrapsAnonymousFunction(t *testing.T) {
	p, errs := parse(t, "1 + 2")
	fn := p.ParseTop()
	require.False(t, errs.HasErrors())
	require.True(t, fn.Anonymous)
	require.Equal(t, anonName, fn.Proto.Name)
}
