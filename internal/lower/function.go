package lower

import (
	"github.com/kaleidoscope-lang/kale/internal/ast"
	"github.com/kaleidoscope-lang/kale/internal/ir"
)

// Extern lowers a standalone prototype to an external-linkage IR
// declaration, creating it in the module if no function of that name
// exists yet, or returning the existing one otherwise (§4.3
// "Prototype lowering"; a repeated `extern` of the same name is not
// itself an error, only defining over a body is).
func (c *Context) Extern(p *ast.Prototype) *ir.Function {
	if fn, ok := c.Module.GetFunction(p.Name); ok {
		return fn
	}
	return c.Module.NewFunction(p.Name, p.Params)
}

// Definition lowers a `def`, implementing §4.3's five-step algorithm:
// look up or create the named function, reject redefinition of one
// that already has a body, open an entry block and bind its
// parameters, lower the body, and finally emit the return and verify
// the result. Returns nil once a diagnostic has been recorded.
func (c *Context) Definition(fn *ast.Function) *ir.Function {
	target, ok := c.Module.GetFunction(fn.Proto.Name)
	if !ok {
		target = c.Module.NewFunction(fn.Proto.Name, fn.Proto.Params)
	} else if !target.Empty() {
		c.Errs.Semanticf(fn.Pos(), "Function cannot be redefined")
		return nil
	}

	c.curFn = target
	c.blocks = make(map[string]int)
	entry := ir.NewBasicBlock("entry")
	target.Append(entry)
	c.Build.SetInsertPoint(entry)

	if c.Dbg != nil {
		c.Dbg.PushSubprogram(fn.Proto.Name, c.Dbg.File(c.File, ""), fn.Pos().Line, c.Dbg.SubroutineType(target.Arity()))
		defer c.Dbg.PopSubprogram()
	}

	c.symtab = make(map[string]*ir.Instr)
	for i, name := range target.ParamNames {
		slot := c.Build.BuildEntryAlloca()
		c.Build.BuildStore(target.Param(i), slot)
		c.symtab[name] = slot
	}

	bodyVal, ok := c.Expr(fn.Body)
	if !ok {
		target.Erase()
		return nil
	}

	c.Build.BuildRet(bodyVal)
	if err := target.Verify(); err != nil {
		c.Errs.Semanticf(fn.Pos(), "%s", err)
		target.Erase()
		return nil
	}
	return target
}
