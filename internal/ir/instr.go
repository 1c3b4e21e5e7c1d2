package ir

import (
	"fmt"
	"strings"
)

// Op identifies an instruction opcode. The set is exactly the
// instruction catalogue §6 requires of the IR library.
type Op int

const (
	OpFAdd Op = iota
	OpFSub
	OpFMul
	OpFDiv
	OpFCmpULT // unordered less-than
	OpFCmpUGT // unordered greater-than
	OpFCmpUNE // unordered not-equal
	OpUIToFP  // unsigned-int-to-float cast
	OpAlloca  // entry-block stack slot for one Double
	OpLoad
	OpStore
	OpCall
	OpBr     // unconditional branch
	OpCondBr // conditional branch
	OpPhi
	OpRet
)

var opNames = map[Op]string{
	OpFAdd:    "fadd",
	OpFSub:    "fsub",
	OpFMul:    "fmul",
	OpFDiv:    "fdiv",
	OpFCmpULT: "fcmp ult",
	OpFCmpUGT: "fcmp ugt",
	OpFCmpUNE: "fcmp une",
	OpUIToFP:  "uitofp",
	OpAlloca:  "alloca",
	OpLoad:    "load",
	OpStore:   "store",
	OpCall:    "call",
	OpBr:      "br",
	OpCondBr:  "br",
	OpPhi:     "phi",
	OpRet:     "ret",
}

func (o Op) String() string {
	if s, ok := opNames[o]; ok {
		return s
	}
	return fmt.Sprintf("op(%d)", int(o))
}

// PhiIncoming is one (value, predecessor block) pair of a phi
// instruction's incoming list.
type PhiIncoming struct {
	Value Value
	Block *BasicBlock
}

// Instr is every instruction kind the IR supports. A single struct
// (rather than one type per opcode) keeps the builder and the
// disassembler small, the way the teacher's bytecode.Instruction
// keeps one struct shape for every opcode in its flat stream; here it
// additionally carries the operands and result type an SSA value
// needs since there is no separate operand stack.
type Instr struct {
	Op       Op
	ID       string // SSA name, e.g. "2" (printed as "%2"); empty for void instructions
	ResType  Type
	Operands []Value // FAdd/FSub/FMul/FDiv/FCmp*/UIToFP/Store(val): operand(s)
	Slot     Value   // Alloca result used as Load/Store target; Load/Store's pointer operand
	Callee   string  // OpCall
	Args     []Value // OpCall
	Targets  []*BasicBlock
	Cond     Value // OpCondBr
	Incoming []PhiIncoming

	Loc    SourceLoc
	HasLoc bool
}

func (in *Instr) Type() Type {
	return in.ResType
}

func (in *Instr) Ident() string {
	if in.ID == "" {
		return ""
	}
	return "%" + in.ID
}

// String renders one disassembly line for the instruction.
func (in *Instr) String() string {
	var sb strings.Builder
	if in.ID != "" {
		fmt.Fprintf(&sb, "%%%s = ", in.ID)
	}
	switch in.Op {
	case OpFAdd, OpFSub, OpFMul, OpFDiv, OpFCmpULT, OpFCmpUGT, OpFCmpUNE:
		fmt.Fprintf(&sb, "%s double %s, %s", in.Op, in.Operands[0].Ident(), in.Operands[1].Ident())
	case OpUIToFP:
		fmt.Fprintf(&sb, "uitofp i1 %s to double", in.Operands[0].Ident())
	case OpAlloca:
		sb.WriteString("alloca double")
	case OpLoad:
		fmt.Fprintf(&sb, "load double, double* %s", in.Slot.Ident())
	case OpStore:
		fmt.Fprintf(&sb, "store double %s, double* %s", in.Operands[0].Ident(), in.Slot.Ident())
	case OpCall:
		args := make([]string, len(in.Args))
		for i, a := range in.Args {
			args[i] = a.Ident()
		}
		fmt.Fprintf(&sb, "call double @%s(%s)", in.Callee, strings.Join(args, ", "))
	case OpBr:
		fmt.Fprintf(&sb, "br label %%%s", in.Targets[0].Name)
	case OpCondBr:
		fmt.Fprintf(&sb, "br i1 %s, label %%%s, label %%%s", in.Cond.Ident(), in.Targets[0].Name, in.Targets[1].Name)
	case OpPhi:
		parts := make([]string, len(in.Incoming))
		for i, inc := range in.Incoming {
			parts[i] = fmt.Sprintf("[ %s, %%%s ]", inc.Value.Ident(), inc.Block.Name)
		}
		fmt.Fprintf(&sb, "phi double %s", strings.Join(parts, ", "))
	case OpRet:
		fmt.Fprintf(&sb, "ret double %s", in.Operands[0].Ident())
	}
	return sb.String()
}

// IsTerminator reports whether the instruction ends a basic block.
func (in *Instr) IsTerminator() bool {
	switch in.Op {
	case OpBr, OpCondBr, OpRet:
		return true
	default:
		return false
	}
}
