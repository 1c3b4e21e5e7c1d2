package ir

import "fmt"

// Value is anything an instruction can take as an operand: a
// compile-time constant, a function parameter, or the result of a
// previously emitted instruction.
type Value interface {
	Type() Type
	// Ident returns the value's SSA name for disassembly, e.g. "%3"
	// or a literal constant's printed form.
	Ident() string
}

// ConstFloat is a binary64 compile-time constant.
type ConstFloat struct {
	Val float64
}

func (c *ConstFloat) Type() Type    { return Double }
func (c *ConstFloat) Ident() string { return fmt.Sprintf("%g", c.Val) }

// Param is a reference to one of a function's formal arguments.
type Param struct {
	Name  string
	Index int
}

func (p *Param) Type() Type    { return Double }
func (p *Param) Ident() string { return "%" + p.Name }

// ConstFloat of 0.0 and 1.0 are used often enough (boolean results,
// default loop step, For's fixed 0.0 result) to warrant constructors.
func Zero() *ConstFloat { return &ConstFloat{Val: 0.0} }
func One() *ConstFloat  { return &ConstFloat{Val: 1.0} }
