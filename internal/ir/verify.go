package ir

import "fmt"

// Verify checks the structural invariants §8 requires of a completed
// function definition: it has at least an entry block, every block
// ends in exactly one terminator, and every phi's incoming list is
// non-empty. It does not re-check operand types, since this IR has
// only one real value type (Double) plus the transient Bool1
// predicate produced and consumed entirely within one expression's
// lowering.
func (f *Function) Verify() error {
	if f.Empty() {
		return fmt.Errorf("function %q has no basic blocks", f.Name)
	}
	for _, b := range f.Blocks {
		if len(b.Instrs) == 0 {
			return fmt.Errorf("function %q: block %q is empty", f.Name, b.Name)
		}
		for i, in := range b.Instrs {
			isLast := i == len(b.Instrs)-1
			if in.IsTerminator() && !isLast {
				return fmt.Errorf("function %q: block %q has a terminator before its end", f.Name, b.Name)
			}
			if in.Op == OpPhi && len(in.Incoming) == 0 {
				return fmt.Errorf("function %q: block %q has a phi with no incoming values", f.Name, b.Name)
			}
		}
		if t := b.Terminator(); t == nil {
			return fmt.Errorf("function %q: block %q has no terminator", f.Name, b.Name)
		}
	}
	if !hasReturn(f) {
		return fmt.Errorf("function %q has no return instruction", f.Name)
	}
	return nil
}

func hasReturn(f *Function) bool {
	for _, b := range f.Blocks {
		if t := b.Terminator(); t != nil && t.Op == OpRet {
			return true
		}
	}
	return false
}
