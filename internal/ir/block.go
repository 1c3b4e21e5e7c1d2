package ir

// BasicBlock is a straight-line sequence of instructions ending, once
// complete, in exactly one terminator (Br, CondBr, or Ret).
type BasicBlock struct {
	Name   string
	Parent *Function
	Instrs []*Instr
}

// NewBasicBlock creates a detached basic block. Attach it to a
// function with Function.Append before emitting instructions that
// reference it as a branch target.
func NewBasicBlock(name string) *BasicBlock {
	return &BasicBlock{Name: name}
}

// Append adds an instruction to the end of the block.
func (b *BasicBlock) Append(in *Instr) {
	b.Instrs = append(b.Instrs, in)
}

// Terminator returns the block's terminating instruction, or nil if
// the block is not yet terminated.
func (b *BasicBlock) Terminator() *Instr {
	if len(b.Instrs) == 0 {
		return nil
	}
	last := b.Instrs[len(b.Instrs)-1]
	if last.IsTerminator() {
		return last
	}
	return nil
}

