package ir

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuilderStraightLineArithmetic(t *testing.T) {
	mod := NewModule("test")
	fn := mod.NewFunction("add", []string{"x", "y"})
	entry := NewBasicBlock("entry")
	fn.Append(entry)

	b := NewBuilder(nil)
	b.SetInsertPoint(entry)
	sum := b.BuildFAdd(fn.Param(0), fn.Param(1))
	b.BuildRet(sum)

	require.NoError(t, fn.Verify())
	require.Contains(t, fn.String(), "fadd double %x, %y")
	require.Contains(t, fn.String(), "ret double %0")
}

func TestVerifyRejectsMissingTerminator(t *testing.T) {
	mod := NewModule("test")
	fn := mod.NewFunction("f", nil)
	entry := NewBasicBlock("entry")
	fn.Append(entry)

	b := NewBuilder(nil)
	b.SetInsertPoint(entry)
	b.BuildFAdd(Zero(), One())

	require.Error(t, fn.Verify())
}

func TestVerifyRejectsEmptyFunction(t *testing.T) {
	mod := NewModule("test")
	fn := mod.NewFunction("f", nil)
	require.Error(t, fn.Verify())
}

func TestVerifyRejectsPhiWithNoIncoming(t *testing.T) {
	mod := NewModule("test")
	fn := mod.NewFunction("f", nil)
	entry := NewBasicBlock("entry")
	fn.Append(entry)

	b := NewBuilder(nil)
	b.SetInsertPoint(entry)
	b.BuildPhi(nil)
	b.BuildRet(Zero())

	require.Error(t, fn.Verify())
}

func TestBuildEntryAllocaInsertsAtEntryFront(t *testing.T) {
	mod := NewModule("test")
	fn := mod.NewFunction("f", nil)
	entry := NewBasicBlock("entry")
	fn.Append(entry)

	b := NewBuilder(nil)
	b.SetInsertPoint(entry)
	b.BuildFAdd(Zero(), One()) // occupies entry before the alloca is requested
	slot := b.BuildEntryAlloca()
	b.BuildRet(Zero())

	require.Equal(t, OpAlloca, entry.Instrs[0].Op)
	require.Same(t, slot, entry.Instrs[0])
}

func TestUIToFPConversionOfComparison(t *testing.T) {
	mod := NewModule("test")
	fn := mod.NewFunction("lt", []string{"x", "y"})
	entry := NewBasicBlock("entry")
	fn.Append(entry)

	b := NewBuilder(nil)
	b.SetInsertPoint(entry)
	cmp := b.BuildFCmpULT(fn.Param(0), fn.Param(1))
	require.Equal(t, Bool1, cmp.Type())
	conv := b.BuildUIToFP(cmp)
	require.Equal(t, Double, conv.Type())
	b.BuildRet(conv)

	require.NoError(t, fn.Verify())
}

func TestModuleEraseRemovesFunction(t *testing.T) {
	mod := NewModule("test")
	fn := mod.NewFunction("tmp", nil)
	_, ok := mod.GetFunction("tmp")
	require.True(t, ok)
	fn.Erase()
	_, ok = mod.GetFunction("tmp")
	require.False(t, ok)
}

func TestDebugInfoSubprogramStack(t *testing.T) {
	dbg := NewDebugInfoBuilder("kale", "test.kal", ".")
	require.Nil(t, dbg.CurrentSubprogram())
	dbg.PushSubprogram("f", dbg.File("test.kal", "."), 1, dbg.SubroutineType(1))
	require.NotNil(t, dbg.CurrentSubprogram())
	require.Equal(t, "f", dbg.CurrentSubprogram().Name)
	dbg.PopSubprogram()
	require.Nil(t, dbg.CurrentSubprogram())
}
