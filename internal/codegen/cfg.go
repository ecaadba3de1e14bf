package codegen

import "github.com/tiro-lang/tiro/internal/ir"

// reversePostOrder returns fn's blocks ordered so that, outside of loop
// back-edges, every block appears after all of its predecessors. codegen
// emits blocks in this order (spec §4.4's "Emission" step) so forward
// jumps are the only ones needing a label fix-up.
func reversePostOrder(fn *ir.Function) []ir.BlockId {
	visited := make(map[ir.BlockId]bool)
	var post []ir.BlockId

	var visit func(b ir.BlockId)
	visit = func(b ir.BlockId) {
		if visited[b] {
			return
		}
		visited[b] = true
		for _, s := range fn.Block(b).Terminator.Successors() {
			visit(s)
		}
		post = append(post, b)
	}
	visit(fn.Entry)

	rpo := make([]ir.BlockId, len(post))
	for i, b := range post {
		rpo[len(post)-1-i] = b
	}
	return rpo
}

// splitCriticalEdges inserts a jump-only block on every edge whose
// source has more than one successor and whose destination has more
// than one predecessor (spec §4.4). Phi operands keep their original
// index into the destination's predecessor list: the inserted block
// merely replaces the original predecessor at that same index, so no
// phi operand list needs reordering, only the one predecessor entry
// needs redirecting (spec: "Phi operands indexed by the original
// predecessor are redirected to the inserted block").
func splitCriticalEdges(fn *ir.Function) {
	for _, u := range fn.BlockIds() {
		term := fn.Block(u).Terminator
		succs := term.Successors()
		if len(succs) <= 1 {
			continue
		}
		for _, v := range succs {
			if len(fn.Block(v).Preds) <= 1 {
				continue
			}
			w := fn.NewBlock()
			fn.Block(w).Terminator = ir.Jump(v)
			fn.Block(w).Preds = []ir.BlockId{u}
			retargetTerminator(fn, u, v, w)
			redirectPred(fn, v, u, w)
		}
	}
}

// retargetTerminator rewrites every successor of u's terminator that
// points at from to point at to instead.
func retargetTerminator(fn *ir.Function, u, from, to ir.BlockId) {
	blk := fn.Block(u)
	t := blk.Terminator
	switch t.Kind {
	case ir.TermJump:
		if t.Target == from {
			t.Target = to
		}
	case ir.TermBranch:
		if t.Taken == from {
			t.Taken = to
		}
		if t.Fallthrough == from {
			t.Fallthrough = to
		}
	}
	blk.Terminator = t
}

// redirectPred replaces the first occurrence of from in v's predecessor
// list with to, preserving its position (and hence which phi operand
// index it corresponds to).
func redirectPred(fn *ir.Function, v, from, to ir.BlockId) {
	preds := fn.Block(v).Preds
	for i, p := range preds {
		if p == from {
			preds[i] = to
			return
		}
	}
}
