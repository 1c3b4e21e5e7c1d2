package ir

import "strconv"

// Function is an IR function: either an external declaration (no
// blocks, created by lowering a Kaleidoscope `extern`) or a
// definition with an entry block and zero or more additional blocks
// appended as control flow is lowered.
type Function struct {
	Name       string
	ParamNames []string
	Blocks     []*BasicBlock
	Parent     *Module

	valueSeq int
}

// Arity returns the function's declared parameter count.
func (f *Function) Arity() int { return len(f.ParamNames) }

// Empty reports whether the function has no basic blocks, i.e. is a
// declaration (from `extern`) rather than a definition.
func (f *Function) Empty() bool { return len(f.Blocks) == 0 }

// Param returns a Value referencing the i'th formal argument.
func (f *Function) Param(i int) *Param {
	return &Param{Name: f.ParamNames[i], Index: i}
}

// ParamNamed returns a Value for the formal argument with the given
// name, or nil if there is none.
func (f *Function) ParamNamed(name string) *Param {
	for i, n := range f.ParamNames {
		if n == name {
			return &Param{Name: n, Index: i}
		}
	}
	return nil
}

// Append attaches a detached basic block to the function.
func (f *Function) Append(b *BasicBlock) {
	b.Parent = f
	f.Blocks = append(f.Blocks, b)
}

// EntryBlock returns the function's first basic block, or nil if the
// function has none yet.
func (f *Function) EntryBlock() *BasicBlock {
	if len(f.Blocks) == 0 {
		return nil
	}
	return f.Blocks[0]
}

// Erase removes the function from its parent module. Used by
// definition lowering (§4.3 step 4) to discard a partially built
// function after a lowering failure, and by the driver to drop the
// anonymous top-level function once it has been inspected (§9).
func (f *Function) Erase() {
	if f.Parent != nil {
		f.Parent.erase(f.Name)
	}
}

// nextValueID hands out sequential SSA value names scoped to this
// function, the single counter the teacher's compiler threads through
// codegen (internal/bytecode/compiler_core.go) adapted to name SSA
// values instead of bytecode registers.
func (f *Function) nextValueID() string {
	id := f.valueSeq
	f.valueSeq++
	return strconv.Itoa(id)
}

func (f *Function) String() string {
	params := ""
	for i, n := range f.ParamNames {
		if i > 0 {
			params += ", "
		}
		params += "double %" + n
	}
	if f.Empty() {
		return "declare double @" + f.Name + "(" + params + ")"
	}
	out := "define double @" + f.Name + "(" + params + ") {\n"
	for _, b := range f.Blocks {
		out += b.Name + ":\n"
		for _, in := range b.Instrs {
			out += "  " + in.String() + "\n"
		}
	}
	out += "}"
	return out
}
