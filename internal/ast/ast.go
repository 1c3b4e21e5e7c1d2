// Package ast defines the Kaleidoscope abstract syntax tree: a tagged
// variant of expression nodes plus function prototypes and
// definitions, each carrying the source location of its first atom.
package ast

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/kaleidoscope-lang/kale/internal/lexer"
)

// Node is the base interface every AST node implements.
type Node interface {
	// TokenLiteral returns the literal text of the token the node is
	// anchored on, for debugging.
	TokenLiteral() string

	// String renders the node for debugging and for round-trip tests.
	String() string

	// Pos returns the source location of the first atom that
	// contributed to the node's production. Immutable after parsing.
	Pos() lexer.Position
}

// Expr is any node that produces a value.
type Expr interface {
	Node
	exprNode()
}

// BaseNode carries the anchor token shared by every node and
// implements TokenLiteral/Pos for embedders, the way the teacher's
// ast.Node embedding works.
type BaseNode struct {
	Token lexer.Token
}

func (n BaseNode) TokenLiteral() string { return n.Token.Literal }
func (n BaseNode) Pos() lexer.Position  { return n.Token.Pos }

// NumberExpr is a binary64 literal.
type NumberExpr struct {
	BaseNode
	Value float64
}

func (*NumberExpr) exprNode() {}
func (n *NumberExpr) String() string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%f", n.Value), "0"), ".")
}

// VariableExpr references a binding by name; resolved to a stack slot
// at lowering time.
type VariableExpr struct {
	BaseNode
	Name string
}

func (*VariableExpr) exprNode()        {}
func (v *VariableExpr) String() string { return v.Name }

// BinaryExpr applies a binary operator to two owned sub-expressions.
// Op is the single operator character recognised by the parser's
// precedence table (§4.2): + - * / < > | & or = (assignment). The
// parser builds a SeqExpr, not a BinaryExpr, for ':'.
type BinaryExpr struct {
	BaseNode
	Op    byte
	Left  Expr
	Right Expr
}

func (*BinaryExpr) exprNode() {}
func (b *BinaryExpr) String() string {
	return fmt.Sprintf("(%s %c %s)", b.Left.String(), b.Op, b.Right.String())
}

// Pos returns the location of the left operand's first atom, not that
// of the operator token the node is anchored on.
func (b *BinaryExpr) Pos() lexer.Position { return b.Left.Pos() }

// UnaryExpr applies a prefix operator to a single owned operand.
// Only '-' is given semantics by lowering (§4.3 open question on
// UnaryOp); other operator characters parse but fail to lower.
type UnaryExpr struct {
	BaseNode
	Op      byte
	Operand Expr
}

func (*UnaryExpr) exprNode() {}
func (u *UnaryExpr) String() string {
	return fmt.Sprintf("(%c%s)", u.Op, u.Operand.String())
}

// CallExpr invokes a named function with an ordered, owned argument
// list. Arity is checked against the resolved prototype at lowering.
type CallExpr struct {
	BaseNode
	Callee string
	Args   []Expr
}

func (*CallExpr) exprNode() {}
func (c *CallExpr) String() string {
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", c.Callee, strings.Join(args, ", "))
}

// IfExpr is a required condition/then/else triple; its value is the
// value of the taken branch.
type IfExpr struct {
	BaseNode
	Cond Expr
	Then Expr
	Else Expr
}

func (*IfExpr) exprNode() {}
func (e *IfExpr) String() string {
	var out bytes.Buffer
	out.WriteString("if ")
	out.WriteString(e.Cond.String())
	out.WriteString(" then ")
	out.WriteString(e.Then.String())
	out.WriteString(" else ")
	out.WriteString(e.Else.String())
	return out.String()
}

// ForExpr is a counted loop: induction variable, start, end, an
// optional step (nil meaning "default to 1.0"), and a body. Always
// evaluates to 0.0 (§4.3).
type ForExpr struct {
	BaseNode
	Ident string
	Start Expr
	End   Expr
	Step  Expr // nil if omitted
	Body  Expr
}

func (*ForExpr) exprNode() {}
func (f *ForExpr) String() string {
	var out bytes.Buffer
	out.WriteString("for ")
	out.WriteString(f.Ident)
	out.WriteString(" = ")
	out.WriteString(f.Start.String())
	out.WriteString(", ")
	out.WriteString(f.End.String())
	if f.Step != nil {
		out.WriteString(", ")
		out.WriteString(f.Step.String())
	}
	out.WriteString(" in ")
	out.WriteString(f.Body.String())
	return out.String()
}

// Binding is one (name, optional-initializer) pair of a VarInExpr.
// A nil Init defaults to 0.0 at lowering.
type Binding struct {
	Name string
	Init Expr
}

// VarInExpr introduces block-scoped mutable bindings, shadowing any
// outer bindings of the same name for the duration of Body. The
// bindings list is non-empty (enforced by the parser).
type VarInExpr struct {
	BaseNode
	Bindings []Binding
	Body     Expr
}

func (*VarInExpr) exprNode() {}
func (v *VarInExpr) String() string {
	var out bytes.Buffer
	out.WriteString("var ")
	parts := make([]string, len(v.Bindings))
	for i, b := range v.Bindings {
		if b.Init != nil {
			parts[i] = fmt.Sprintf("%s = %s", b.Name, b.Init.String())
		} else {
			parts[i] = b.Name
		}
	}
	out.WriteString(strings.Join(parts, ", "))
	out.WriteString(" in ")
	out.WriteString(v.Body.String())
	return out.String()
}

// SeqExpr is the resolved ":" sequencing operator (§4.3 open
// question): evaluate Left and discard its value, then evaluate and
// return Right.
type SeqExpr struct {
	BaseNode
	Left  Expr
	Right Expr
}

func (*SeqExpr) exprNode() {}
func (s *SeqExpr) String() string {
	return fmt.Sprintf("(%s : %s)", s.Left.String(), s.Right.String())
}

// Pos returns the location of the left operand's first atom.
func (s *SeqExpr) Pos() lexer.Position { return s.Left.Pos() }

// Prototype is a function's name and ordered parameter list; every
// parameter is binary64.
type Prototype struct {
	BaseNode
	Name   string
	Params []string
}

func (p *Prototype) String() string {
	return fmt.Sprintf("%s(%s)", p.Name, strings.Join(p.Params, " "))
}

// Function pairs a prototype with a body expression. A Function whose
// Anonymous flag is set is a top-level expression wrapped by the
// parser's `top` entry point (§4.2); the driver may erase it from the
// module after inspecting the lowered result.
type Function struct {
	BaseNode
	Proto     *Prototype
	Body      Expr
	Anonymous bool
}

func (f *Function) String() string {
	return fmt.Sprintf("def %s %s", f.Proto.String(), f.Body.String())
}
