// Package lower translates the Kaleidoscope AST into the IR library's
// SSA form, one definition at a time, per §4.3's lowering rules. It
// owns the one piece of state the rules share across an entire
// function body: the symbol table mapping a bound name to the IR
// stack slot that holds its current value.
package lower

import (
	"strconv"

	"github.com/kaleidoscope-lang/kale/internal/errors"
	"github.com/kaleidoscope-lang/kale/internal/ir"
)

// Context is the lowering pass's working state for one module: the IR
// module and builder being filled in, the debug-info builder tracking
// the current function's scope, a diagnostic sink, and the source
// file name attached to debug locations.
//
// The symbol table is a single map restored by save-and-restore as
// scopes open and close (§9), not a stack of nested maps: VarIn and
// For shadow an outer binding by remembering its prior value (or its
// absence) and putting it back when the scope ends.
type Context struct {
	Module *ir.Module
	Build  *ir.Builder
	Dbg    *ir.DebugInfoBuilder
	Errs   *errors.Sink
	File   string

	symtab map[string]*ir.Instr
	curFn  *ir.Function
	blocks map[string]int
}

// New creates a lowering Context over mod, reporting failures to errs.
func New(mod *ir.Module, dbg *ir.DebugInfoBuilder, errs *errors.Sink, file string) *Context {
	return &Context{
		Module: mod,
		Build:  ir.NewBuilder(dbg),
		Dbg:    dbg,
		Errs:   errs,
		File:   file,
		symtab: make(map[string]*ir.Instr),
	}
}

// shadow installs slot as the binding for name, returning a restore
// closure that undoes it: reinstating the prior slot if name was
// already bound, or deleting the entry entirely if it was not (the
// "null sentinel" discipline of §9).
func (c *Context) shadow(name string, slot *ir.Instr) func() {
	old, hadOld := c.symtab[name]
	c.symtab[name] = slot
	if hadOld {
		return func() { c.symtab[name] = old }
	}
	return func() { delete(c.symtab, name) }
}

// freshBlockName returns a function-scoped unique block label built
// from prefix: the first block of a given prefix within a function is
// named exactly prefix (so a function with one `if` has blocks named
// "then"/"else"/"ifcont"); later reuses of the same prefix within the
// same function get a numeric suffix. Mirrors the way the teacher's
// compiler threads a single label counter through nested control flow
// (internal/bytecode/compiler_core.go), scoped per label family
// instead of globally.
func (c *Context) freshBlockName(prefix string) string {
	c.blocks[prefix]++
	n := c.blocks[prefix]
	if n == 1 {
		return prefix
	}
	return prefix + "." + strconv.Itoa(n)
}

func (c *Context) newBlock(prefix string) *ir.BasicBlock {
	b := ir.NewBasicBlock(c.freshBlockName(prefix))
	c.curFn.Append(b)
	return b
}
