package ast

import (
	"testing"

	"github.com/kaleidoscope-lang/kale/internal/lexer"
	"github.com/stretchr/testify/require"
)

func tok(lit string) lexer.Token { return lexer.Token{Literal: lit} }

func TestBinaryExprString(t *testing.T) {
	e := &BinaryExpr{
		Op:   '+',
		Left: &NumberExpr{BaseNode: BaseNode{Token: tok("1")}, Value: 1},
		Right: &VariableExpr{
			BaseNode: BaseNode{Token: tok("x")},
			Name:     "x",
		},
	}
	require.Equal(t, "(1 + x)", e.String())
}

func TestForExprStringOmitsStepWhenNil(t *testing.T) {
	f := &ForExpr{
		Ident: "i",
		Start: &NumberExpr{Value: 0},
		End:   &NumberExpr{Value: 10},
		Body:  &VariableExpr{Name: "i"},
	}
	require.Equal(t, "for i = 0, 10 in i", f.String())
}

func TestVarInExprStringShowsOptionalInit(t *testing.T) {
	v := &VarInExpr{
		Bindings: []Binding{
			{Name: "a", Init: &NumberExpr{Value: 1}},
			{Name: "b"},
		},
		Body: &VariableExpr{Name: "a"},
	}
	require.Equal(t, "var a = 1, b in a", v.String())
}

func TestSeqExprString(t *testing.T) {
	s := &SeqExpr{
		Left:  &VariableExpr{Name: "a"},
		Right: &VariableExpr{Name: "b"},
	}
	require.Equal(t, "(a : b)", s.String())
}

func TestFunctionString(t *testing.T) {
	fn := &Function{
		Proto: &Prototype{Name: "add", Params: []string{"x", "y"}},
		Body:  &BinaryExpr{Op: '+', Left: &VariableExpr{Name: "x"}, Right: &VariableExpr{Name: "y"}},
	}
	require.Equal(t, "def add(x y) (x + y)", fn.String())
}
