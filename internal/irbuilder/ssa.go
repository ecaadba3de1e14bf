// Package irbuilder lowers a resolved, categorized AST (internal/ast +
// internal/sema) into the SSA IR of internal/ir, one function at a
// time (spec §4.3).
//
// The variable-definition half of this file implements on-the-fly SSA
// construction per Braun, Buchwald, Hack, Leißa, Mehne, Zwinkau, "Simple
// and Efficient Construction of Static Single Assignment Form" (CC'13):
// sealed/unsealed blocks, pending (incomplete) phis recorded per
// unsealed block, and trivial-phi elimination. This lets the lowering
// pass below read and write local variables directly by symbol without
// a separate dominance-frontier computation, which is what lets a
// single pass over the (structured, goto-free) source language handle
// loop headers' back-edges correctly. The loop-context break/continue
// stacking is grounded on golang-tools' ssa package's targets/lblock
// idiom (one pushed frame per loop, popped on exit).
package irbuilder

import (
	"github.com/tiro-lang/tiro/internal/ir"
	"github.com/tiro-lang/tiro/internal/symbols"
)

// varKey is one (block, variable) cell of the SSA construction
// algorithm's def table.
type varKey struct {
	block BlockKey
	sym   symbols.SymbolID
}

// BlockKey is a local alias kept distinct from ir.BlockId only for
// documentation; the two are numerically identical within one
// function's construction.
type BlockKey = ir.BlockId

// ssaBuilder tracks the per-function state the Braun algorithm needs,
// layered on top of an ir.Function.
type ssaBuilder struct {
	fn *ir.Function

	currentDef map[varKey]ir.InstId
	sealed     map[BlockKey]bool

	// incompletePhis holds, for each unsealed block, the phi instruction
	// pending completion for each variable read there before the block
	// was sealed (i.e. before all of its predecessors were known).
	incompletePhis map[BlockKey]map[symbols.SymbolID]ir.InstId

	// phiSymbol remembers which symbol each Phi instruction was created
	// for.
	phiSymbol map[ir.InstId]symbols.SymbolID

	// users records every Phi instruction whose operand list references
	// a given instruction, so trivial-phi elimination can rewrite them.
	users map[ir.InstId][]ir.InstId
}

func newSSABuilder(fn *ir.Function) *ssaBuilder {
	return &ssaBuilder{
		fn:             fn,
		currentDef:     make(map[varKey]ir.InstId),
		sealed:         make(map[BlockKey]bool),
		incompletePhis: make(map[BlockKey]map[symbols.SymbolID]ir.InstId),
		phiSymbol:      make(map[ir.InstId]symbols.SymbolID),
		users:          make(map[ir.InstId][]ir.InstId),
	}
}

// writeVariable records that sym's current value in block is value.
func (b *ssaBuilder) writeVariable(sym symbols.SymbolID, block BlockKey, value ir.InstId) {
	b.currentDef[varKey{block, sym}] = value
}

// readVariable returns sym's current SSA value as observed from block,
// inserting a phi (possibly incomplete) at a join point if no local
// definition is known yet.
func (b *ssaBuilder) readVariable(sym symbols.SymbolID, block BlockKey) ir.InstId {
	if v, ok := b.currentDef[varKey{block, sym}]; ok {
		return v
	}
	return b.readVariableRecursive(sym, block)
}

func (b *ssaBuilder) readVariableRecursive(sym symbols.SymbolID, block BlockKey) ir.InstId {
	var value ir.InstId
	preds := b.fn.Block(block).Preds

	if !b.sealed[block] {
		// Block not yet sealed: we don't know all its predecessors, so
		// park an incomplete phi and fill it in once sealBlock runs.
		value = b.fn.Emit(block, ir.NewPhi(b.fn.NewList(nil)))
		if b.incompletePhis[block] == nil {
			b.incompletePhis[block] = make(map[symbols.SymbolID]ir.InstId)
		}
		b.incompletePhis[block][sym] = value
		b.phiSymbol[value] = sym
	} else if len(preds) == 1 {
		// One predecessor: no merge needed, just forward its value.
		value = b.readVariable(sym, preds[0])
	} else {
		// Multiple predecessors: create the phi up front (breaking
		// potential cycles through self-reference) before recursing into
		// predecessors, exactly as Braun et al. describe.
		value = b.fn.Emit(block, ir.NewPhi(b.fn.NewList(nil)))
		b.phiSymbol[value] = sym
		b.writeVariable(sym, block, value)
		value = b.addPhiOperands(sym, value, block)
	}

	b.writeVariable(sym, block, value)
	return value
}

// addPhiOperands fills in phi's operand list, one operand per
// predecessor of block, then attempts trivial-phi elimination.
func (b *ssaBuilder) addPhiOperands(sym symbols.SymbolID, phi ir.InstId, block BlockKey) ir.InstId {
	for _, pred := range b.fn.Block(block).Preds {
		operand := b.readVariable(sym, pred)
		b.addOperand(phi, operand)
	}
	return b.tryRemoveTrivialPhi(phi)
}

func (b *ssaBuilder) addOperand(phi, operand ir.InstId) {
	v := b.fn.Value(phi)
	b.fn.AppendList(v.Operands, operand)
	b.users[operand] = append(b.users[operand], phi)
}

// tryRemoveTrivialPhi collapses a phi whose operands are all either
// itself or exactly one other distinct value into that value (Braun et
// al. §3.2): the phi becomes an Alias of that value, and every phi that
// used it as an operand is rewritten to use the value instead.
func (b *ssaBuilder) tryRemoveTrivialPhi(phi ir.InstId) ir.InstId {
	v := b.fn.Value(phi)
	operands := b.fn.List(v.Operands)

	var same ir.InstId
	for _, op := range operands {
		if op == same || op == phi {
			continue
		}
		if same.Valid() {
			return phi // more than one distinct operand: genuinely non-trivial
		}
		same = op
	}
	if !same.Valid() {
		same = b.fn.Emit(b.fn.DefBlock(phi), ir.NewErrorValue())
	}

	users := b.users[phi]
	*b.fn.Value(phi) = ir.NewAlias(same)
	delete(b.users, phi)

	for _, user := range users {
		if user == phi {
			continue
		}
		b.replaceOperand(user, phi, same)
		if b.fn.Value(user).Kind == ir.VPhi {
			b.tryRemoveTrivialPhi(user)
		}
	}
	return same
}

func (b *ssaBuilder) replaceOperand(user, old, new_ ir.InstId) {
	v := b.fn.Value(user)
	list := b.fn.List(v.Operands)
	for i, op := range list {
		if op == old {
			list[i] = new_
			b.users[new_] = append(b.users[new_], user)
		}
	}
}

// sealBlock marks block as having all of its predecessors known,
// completing any phi inserted speculatively for reads that happened
// while it was still open.
func (b *ssaBuilder) sealBlock(block BlockKey) {
	for sym, phi := range b.incompletePhis[block] {
		b.addPhiOperands(sym, phi, block)
	}
	delete(b.incompletePhis, block)
	b.sealed[block] = true
}
