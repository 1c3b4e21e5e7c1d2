package ir

// SourceLoc is the (line, column) the debug-info builder attaches to
// the instruction the IR builder emits next (§4.3 "Debug-info
// discipline"). Kept local to this package so the IR library has no
// dependency on the front end's own lexer.Position type, matching
// §6's framing of the IR library as an abstraction the lowering pass
// consumes, not one coupled to it.
type SourceLoc struct {
	Line   int
	Column int
}

// Builder is the single owning context for one insertion point: the
// current basic block that newly emitted instructions are appended
// to. Mirrors the "shared IR context / builder / module" collapsed
// into one owning object that §9's design notes call for.
type Builder struct {
	block   *BasicBlock
	dbg     *DebugInfoBuilder
	curLoc  SourceLoc
	hasLoc  bool
}

// NewBuilder creates a Builder with no insertion point set.
func NewBuilder(dbg *DebugInfoBuilder) *Builder {
	return &Builder{dbg: dbg}
}

// SetInsertPoint moves the insertion point to the end of b.
func (bd *Builder) SetInsertPoint(b *BasicBlock) { bd.block = b }

// InsertBlock returns the block instructions are currently appended
// to.
func (bd *Builder) InsertBlock() *BasicBlock { return bd.block }

// SetDebugLoc records the source location attached to every
// instruction emitted from now on, until changed or cleared.
func (bd *Builder) SetDebugLoc(loc SourceLoc) {
	bd.curLoc = loc
	bd.hasLoc = true
}

// ClearDebugLoc clears the current debug location, the behaviour
// §9 describes as "cleared when set from a null node".
func (bd *Builder) ClearDebugLoc() {
	bd.curLoc = SourceLoc{}
	bd.hasLoc = false
}

func (bd *Builder) fn() *Function { return bd.block.Parent }

func (bd *Builder) emit(in *Instr) *Instr {
	if bd.hasLoc {
		in.Loc = bd.curLoc
		in.HasLoc = true
	}
	bd.block.Append(in)
	return in
}

func (bd *Builder) namedEmit(resType Type, in *Instr) *Instr {
	in.ID = bd.fn().nextValueID()
	in.ResType = resType
	return bd.emit(in)
}

// ConstFloat builds a binary64 constant value.
func (bd *Builder) ConstFloat(v float64) *ConstFloat { return &ConstFloat{Val: v} }

func (bd *Builder) binop(op Op, lhs, rhs Value) *Instr {
	return bd.namedEmit(Double, &Instr{Op: op, Operands: []Value{lhs, rhs}})
}

// BuildFAdd emits lhs + rhs.
func (bd *Builder) BuildFAdd(lhs, rhs Value) *Instr { return bd.binop(OpFAdd, lhs, rhs) }

// BuildFSub emits lhs - rhs.
func (bd *Builder) BuildFSub(lhs, rhs Value) *Instr { return bd.binop(OpFSub, lhs, rhs) }

// BuildFMul emits lhs * rhs.
func (bd *Builder) BuildFMul(lhs, rhs Value) *Instr { return bd.binop(OpFMul, lhs, rhs) }

// BuildFDiv emits lhs / rhs.
func (bd *Builder) BuildFDiv(lhs, rhs Value) *Instr { return bd.binop(OpFDiv, lhs, rhs) }

// BuildFCmpULT emits an unordered less-than compare, producing Bool1.
func (bd *Builder) BuildFCmpULT(lhs, rhs Value) *Instr {
	return bd.namedEmit(Bool1, &Instr{Op: OpFCmpULT, Operands: []Value{lhs, rhs}})
}

// BuildFCmpUGT emits an unordered greater-than compare, producing Bool1.
func (bd *Builder) BuildFCmpUGT(lhs, rhs Value) *Instr {
	return bd.namedEmit(Bool1, &Instr{Op: OpFCmpUGT, Operands: []Value{lhs, rhs}})
}

// BuildFCmpUNE emits an unordered not-equal compare, producing Bool1.
func (bd *Builder) BuildFCmpUNE(lhs, rhs Value) *Instr {
	return bd.namedEmit(Bool1, &Instr{Op: OpFCmpUNE, Operands: []Value{lhs, rhs}})
}

// BuildUIToFP converts a Bool1 predicate to Double, yielding 0.0 or
// 1.0 — never -1.0, the way a signed conversion would (§4.3).
func (bd *Builder) BuildUIToFP(v Value) *Instr {
	return bd.namedEmit(Double, &Instr{Op: OpUIToFP, Operands: []Value{v}})
}

// BuildEntryAlloca reserves a stack slot for one Double by inserting
// the alloca at the very beginning of the current function's entry
// block, regardless of the builder's current insertion point. This is
// the "entry-block-alloca discipline" of §4.3: every stack slot for a
// mutable binding is allocated at function entry, not at the point of
// use, so a later mem2reg-style pass can trivially promote it to a
// register.
func (bd *Builder) BuildEntryAlloca() *Instr {
	fn := bd.fn()
	entry := fn.EntryBlock()
	in := &Instr{Op: OpAlloca, ResType: Double, ID: fn.nextValueID()}
	if bd.hasLoc {
		in.Loc = bd.curLoc
		in.HasLoc = true
	}
	entry.Instrs = append([]*Instr{in}, entry.Instrs...)
	return in
}

// BuildLoad loads the Double stored in slot.
func (bd *Builder) BuildLoad(slot Value) *Instr {
	return bd.namedEmit(Double, &Instr{Op: OpLoad, Slot: slot})
}

// BuildStore stores val into slot. Stores produce no value.
func (bd *Builder) BuildStore(val, slot Value) *Instr {
	return bd.emit(&Instr{Op: OpStore, ResType: Void, Operands: []Value{val}, Slot: slot})
}

// BuildCall emits a call to callee with the given arguments, in
// left-to-right evaluation order (the caller is expected to have
// already lowered each argument in that order).
func (bd *Builder) BuildCall(callee string, args []Value) *Instr {
	return bd.namedEmit(Double, &Instr{Op: OpCall, Callee: callee, Args: append([]Value(nil), args...)})
}

// BuildBr emits an unconditional branch to target.
func (bd *Builder) BuildBr(target *BasicBlock) *Instr {
	return bd.emit(&Instr{Op: OpBr, ResType: Void, Targets: []*BasicBlock{target}})
}

// BuildCondBr emits a conditional branch: to thenBlock if cond is
// true (nonzero), else to elseBlock.
func (bd *Builder) BuildCondBr(cond Value, thenBlock, elseBlock *BasicBlock) *Instr {
	return bd.emit(&Instr{Op: OpCondBr, ResType: Void, Cond: cond, Targets: []*BasicBlock{thenBlock, elseBlock}})
}

// BuildPhi emits a phi node with the given incoming (value, block)
// pairs.
func (bd *Builder) BuildPhi(incoming []PhiIncoming) *Instr {
	return bd.namedEmit(Double, &Instr{Op: OpPhi, Incoming: append([]PhiIncoming(nil), incoming...)})
}

// BuildRet emits a return of val, terminating the current block.
func (bd *Builder) BuildRet(val Value) *Instr {
	return bd.emit(&Instr{Op: OpRet, ResType: Void, Operands: []Value{val}})
}
