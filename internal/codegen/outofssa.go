package codegen

import "github.com/tiro-lang/tiro/internal/ir"

// insertParallelCopies implements spec §4.4's conventional-SSA
// construction: for every phi, each predecessor gets a fresh copy
// instruction (`t_i <- operand_i`) appended at its end, and the phi's
// operand list is rewritten to name the copies instead of the original
// values. This guarantees a phi and the values reaching it never
// interfere, so local allocation (alloc.go) can safely unify them onto
// one physical slot.
//
// Must run after splitCriticalEdges, so every predecessor in a phi
// block's Preds list is a safe place to append a copy with no other
// successor depending on not seeing it (a block with more than one
// successor can no longer also be a phi predecessor with more than one
// predecessor on the other side).
func insertParallelCopies(fn *ir.Function) {
	for _, b := range fn.BlockIds() {
		blk := fn.Block(b)
		for _, inst := range blk.Insts {
			v := fn.Value(inst)
			if v.Kind != ir.VPhi {
				continue
			}
			operands := fn.List(v.Operands)
			for i, pred := range blk.Preds {
				if i >= len(operands) {
					continue // malformed phi; alloc/emit will reject it
				}
				copyInst := fn.Emit(pred, ir.NewAlias(operands[i]))
				operands[i] = copyInst
			}
		}
	}
}
