package codegen

import "github.com/tiro-lang/tiro/internal/ir"

// allocateLocals assigns each SSA value a physical local-frame slot
// (spec §4.4). The algorithm is deliberately simple, per spec's own
// description of it: walk rpo once to unify every phi with the copies
// conventional-SSA construction gave it (so they share a slot by
// construction), then walk rpo again giving every still-unassigned
// value a fresh slot. The total slot count becomes the function's
// local-frame size.
func allocateLocals(fn *ir.Function, rpo []ir.BlockId) (slots map[ir.InstId]uint32, count uint32) {
	slots = make(map[ir.InstId]uint32)
	var next uint32

	for _, b := range rpo {
		for _, inst := range fn.Block(b).Insts {
			v := fn.Value(inst)
			if v.Kind != ir.VPhi {
				continue
			}
			if _, ok := slots[inst]; !ok {
				slots[inst] = next
				next++
			}
			for _, op := range fn.List(v.Operands) {
				slots[op] = slots[inst]
			}
		}
	}

	for _, b := range rpo {
		for _, inst := range fn.Block(b).Insts {
			if _, ok := slots[inst]; ok {
				continue
			}
			slots[inst] = next
			next++
		}
	}

	return slots, next
}
