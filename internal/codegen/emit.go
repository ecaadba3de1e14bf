package codegen

import (
	"encoding/binary"
	"math"

	"github.com/tiro-lang/tiro/internal/ir"
)

// iterNextPair records the two GetAggregateMember instructions (if both
// exist) that split one AggIteratorNext aggregate back into its valid
// flag and element. OpIterNext advances the iterator exactly once and
// produces both at the same time, so the two reads must share one
// emission even though they can appear in different blocks (spec
// §3.3's "for-in" lowering reads Valid in the loop header and Value in
// the loop body).
type iterNextPair struct {
	valid, value ir.InstId
}

// funcEmitter holds the state threaded through translating one
// ir.Function into its LinkFunction bytecode, fix-up table, and
// local-frame size (spec §4.4's "Emission" step).
type funcEmitter struct {
	g     *Generator
	fn    *ir.Function
	slots map[ir.InstId]uint32

	code   []byte
	fixups []ir.Fixup

	blockOffset  map[ir.BlockId]int
	pendingJumps []pendingJump

	iterPairs   map[ir.InstId]*iterNextPair // aggregate inst id -> its two readers
	iterEmitted map[ir.InstId]bool          // aggregate inst id -> OpIterNext already emitted
}

type pendingJump struct {
	patchPos int
	target   ir.BlockId
}

// compileFunction runs the out-of-SSA pipeline (spec §4.4) and emits
// fn's bytecode, assembling the LinkFunction the linker will see.
// kind records whether fn is ever instantiated via MakeClosure anywhere
// in the module (see collectClosureMembers): a plain top-level function
// that is only ever called by direct module reference needs no implicit
// captured-environment argument, while a closure does.
func (g *Generator) compileFunction(fn *ir.Function, kind ir.LinkFunctionKind) ir.LinkFunction {
	splitCriticalEdges(fn)
	insertParallelCopies(fn)
	rpo := reversePostOrder(fn)
	slots, localCount := allocateLocals(fn, rpo)

	e := &funcEmitter{
		g:           g,
		fn:          fn,
		slots:       slots,
		blockOffset: make(map[ir.BlockId]int, len(rpo)),
		iterPairs:   collectIterNextPairs(fn),
		iterEmitted: make(map[ir.InstId]bool),
	}

	for i, b := range rpo {
		e.blockOffset[b] = len(e.code)
		blk := fn.Block(b)
		for _, inst := range blk.Insts {
			e.emitInst(inst)
		}
		var next ir.BlockId
		hasNext := i+1 < len(rpo)
		if hasNext {
			next = rpo[i+1]
		}
		e.emitTerminator(blk.Terminator, next, hasNext)
	}

	e.resolveJumps()

	return ir.LinkFunction{
		Name:       fn.Name,
		Kind:       kind,
		ParamCount: len(fn.Params),
		LocalCount: int(localCount),
		Code:       e.code,
		Fixups:     e.fixups,
	}
}

// collectIterNextPairs scans every instruction in fn once, grouping the
// (up to two) GetAggregateMember readers of each AggIteratorNext
// aggregate by the aggregate's defining instruction id.
func collectIterNextPairs(fn *ir.Function) map[ir.InstId]*iterNextPair {
	pairs := make(map[ir.InstId]*iterNextPair)
	for _, b := range fn.BlockIds() {
		for _, inst := range fn.Block(b).Insts {
			v := fn.Value(inst)
			if v.Kind != ir.VGetAggregateMember {
				continue
			}
			if v.Member != ir.IteratorNextValid && v.Member != ir.IteratorNextValue {
				continue
			}
			pair := pairs[v.Operand]
			if pair == nil {
				pair = &iterNextPair{}
				pairs[v.Operand] = pair
			}
			if v.Member == ir.IteratorNextValid {
				pair.valid = inst
			} else {
				pair.value = inst
			}
		}
	}
	return pairs
}

func (e *funcEmitter) slot(id ir.InstId) uint16 {
	s, ok := e.slots[id]
	if !ok {
		fail("codegen: instruction %d has no allocated slot", id)
	}
	return uint16(s)
}

func (e *funcEmitter) optSlot(id ir.InstId) uint16 {
	if !id.Valid() {
		return noSlot
	}
	return e.slot(id)
}

func (e *funcEmitter) emitOp(op OpCode) { e.code = append(e.code, byte(op)) }

func (e *funcEmitter) writeU16(v uint16) {
	e.code = binary.LittleEndian.AppendUint16(e.code, v)
}

func (e *funcEmitter) writeU32(v uint32) {
	e.code = binary.LittleEndian.AppendUint32(e.code, v)
}

func (e *funcEmitter) writeI64(v int64) {
	e.code = binary.LittleEndian.AppendUint64(e.code, uint64(v))
}

func (e *funcEmitter) writeF64(v float64) {
	e.code = binary.LittleEndian.AppendUint64(e.code, math.Float64bits(v))
}

// writeJumpOperand reserves a 4-byte placeholder and records it to be
// patched once every block's offset is known (resolveJumps).
func (e *funcEmitter) writeJumpOperand(target ir.BlockId) {
	e.pendingJumps = append(e.pendingJumps, pendingJump{patchPos: len(e.code), target: target})
	e.code = binary.LittleEndian.AppendUint32(e.code, 0)
}

func (e *funcEmitter) resolveJumps() {
	for _, j := range e.pendingJumps {
		targetOff, ok := e.blockOffset[j.target]
		if !ok {
			fail("codegen: jump to block %d which was never emitted", j.target)
		}
		rel := int32(targetOff - (j.patchPos + 4))
		binary.LittleEndian.PutUint32(e.code[j.patchPos:], uint32(rel))
	}
}

// fixup records that the u32 link-item operand the caller just wrote
// at pos (via writeU32) refers to item.
func (e *funcEmitter) fixup(pos int, item ir.LinkItemId) {
	e.fixups = append(e.fixups, ir.Fixup{Offset: pos, Item: item})
}

func (e *funcEmitter) emitModuleRef(op OpCode, member ir.ModuleMemberId, other func()) {
	e.emitOp(op)
	item := e.g.memberItem[member]
	pos := len(e.code)
	e.writeU32(0)
	e.fixup(pos, item)
	other()
}

// emitInst translates one instruction's Value into bytecode, appending
// to e.code. Phis and the virtual Aggregate node itself never emit
// anything: a phi's value is already materialized into its shared slot
// by the parallel copies insertParallelCopies planted in every
// predecessor, and an Aggregate only exists to be split apart by its
// GetAggregateMember readers.
func (e *funcEmitter) emitInst(inst ir.InstId) {
	v := e.fn.Value(inst)
	dst := e.slot(inst)

	switch v.Kind {
	case ir.VPhi, ir.VAggregate, ir.VNop:
		// no bytecode

	case ir.VRead:
		e.emitLoad(v.Target, dst)

	case ir.VWrite:
		src := e.slot(v.Operand)
		e.emitStore(v.Target, src)
		e.emitOp(OpCopy)
		e.writeU16(src)
		e.writeU16(dst)

	case ir.VAlias:
		e.emitOp(OpCopy)
		e.writeU16(e.slot(v.Operand))
		e.writeU16(dst)

	case ir.VObserveAssign:
		// Not yet produced by the IR builder (reserved for a future
		// exception-visible-write feature). Conservatively take the
		// most recently published value, matching PublishAssign's own
		// copy-through semantics below.
		operands := e.fn.List(v.Operands)
		if len(operands) == 0 {
			e.emitOp(OpLoadNull)
			e.writeU16(dst)
			break
		}
		e.emitOp(OpCopy)
		e.writeU16(e.slot(operands[len(operands)-1]))
		e.writeU16(dst)

	case ir.VPublishAssign:
		e.emitOp(OpCopy)
		e.writeU16(e.slot(v.Operand))
		e.writeU16(dst)

	case ir.VConstant:
		e.emitConstant(v.Const, dst)

	case ir.VOuterEnvironment:
		e.emitOp(OpLoadOuterEnv)
		e.writeU16(dst)

	case ir.VBinaryOp:
		e.emitOp(binOpcode(v.BinOp))
		e.writeU16(e.slot(v.Left))
		e.writeU16(e.slot(v.Right))
		e.writeU16(dst)

	case ir.VUnaryOp:
		e.emitOp(unOpcode(v.UnOp))
		e.writeU16(e.slot(v.Operand))
		e.writeU16(dst)

	case ir.VCall:
		e.emitArgs(v.Args)
		e.emitOp(OpCall)
		e.writeU16(e.slot(v.Func))
		e.writeU16(uint16(len(e.fn.List(v.Args))))
		e.writeU16(dst)

	case ir.VMethodCall:
		e.emitArgs(v.Args)
		e.emitOp(OpMethodCall)
		e.writeU16(e.slot(v.Func))
		e.writeU16(uint16(len(e.fn.List(v.Args))))
		e.writeU16(dst)

	case ir.VGetAggregateMember:
		e.emitAggregateMember(inst, v, dst)

	case ir.VMakeEnvironment:
		e.emitOp(OpEnv)
		e.writeU16(e.optSlot(v.Parent))
		e.writeU32(v.Size)
		e.writeU16(dst)

	case ir.VMakeClosure:
		e.emitModuleRef(OpClosure, v.FuncMember, func() {
			e.writeU16(e.slot(v.Env))
			e.writeU16(dst)
		})

	case ir.VMakeIterator:
		e.emitOp(OpMakeIterator)
		e.writeU16(e.slot(v.Operand))
		e.writeU16(dst)

	case ir.VRecord:
		e.emitRecord(v.RecordVal, dst)

	case ir.VContainer:
		e.emitArgs(v.Args)
		argc := len(e.fn.List(v.Args))
		switch v.ContainerKind {
		case ir.ContainerArray:
			e.emitOp(OpArray)
			e.writeU16(uint16(argc))
		case ir.ContainerTuple:
			e.emitOp(OpTuple)
			e.writeU16(uint16(argc))
		case ir.ContainerSet:
			e.emitOp(OpSet)
			e.writeU16(uint16(argc))
		case ir.ContainerMap:
			e.emitOp(OpMap)
			e.writeU16(uint16(argc / 2))
		default:
			fail("codegen: unknown container kind %v", v.ContainerKind)
		}
		e.writeU16(dst)

	case ir.VFormat:
		e.emitOp(OpFormatter)
		e.writeU16(dst)
		for _, a := range e.fn.List(v.Args) {
			e.emitOp(OpAppendFormat)
			e.writeU16(e.slot(a))
			e.writeU16(dst)
		}
		e.emitOp(OpFormatResult)
		e.writeU16(dst)
		e.writeU16(dst)

	case ir.VError:
		fail("codegen: unresolved error value reached codegen (sema should have rejected this program)")

	default:
		fail("codegen: unhandled value kind %v", v.Kind)
	}
}

func (e *funcEmitter) emitArgs(args ir.InstListId) {
	for _, a := range e.fn.List(args) {
		e.emitOp(OpPush)
		e.writeU16(e.slot(a))
	}
}

func (e *funcEmitter) emitRecord(r ir.RecordId, dst uint16) {
	rec := e.fn.Record(r)
	for _, v := range rec.Values {
		e.emitOp(OpPush)
		e.writeU16(e.slot(v))
	}
	e.emitOp(OpRecord)
	e.writeU16(uint16(len(rec.Values)))
	e.writeU16(dst)
	for _, name := range rec.Names {
		e.writeU32(uint32(name))
	}
}

// emitAggregateMember splits a virtual Aggregate back into the part its
// reader needs (spec §3.3: GetAggregateMember "never needs to
// materialize that pair as a runtime value"). Method lookups become a
// plain member read by name on the receiver (methods are ordinary
// dynamically-dispatched members in this language); iterator steps
// share one OpIterNext between their Valid and Value readers, however
// far apart in the function those readers are, since advancing the
// iterator twice would skip an element.
func (e *funcEmitter) emitAggregateMember(inst ir.InstId, v *ir.Value, dst uint16) {
	agg := e.fn.Value(v.Operand).Agg
	if agg.Kind != v.Member.RequiredAggregateKind() {
		fail("codegen: GetAggregateMember member %v does not match aggregate kind %v", v.Member, agg.Kind)
	}

	switch v.Member {
	case ir.MethodInstance:
		e.emitOp(OpCopy)
		e.writeU16(e.slot(agg.Instance))
		e.writeU16(dst)

	case ir.MethodFunction:
		e.emitOp(OpLoadMember)
		e.writeU16(e.slot(agg.Instance))
		e.writeU32(uint32(agg.Function))
		e.writeU16(dst)

	case ir.IteratorNextValid, ir.IteratorNextValue:
		if e.iterEmitted[v.Operand] {
			break
		}
		e.iterEmitted[v.Operand] = true
		pair := e.iterPairs[v.Operand]
		e.emitOp(OpIterNext)
		e.writeU16(e.slot(agg.Iterator))
		e.writeU16(e.optSlot(pair.valid))
		e.writeU16(e.optSlot(pair.value))

	default:
		fail("codegen: unknown aggregate member %v", v.Member)
	}
}

func (e *funcEmitter) emitConstant(c ir.Constant, dst uint16) {
	switch c.Kind {
	case ir.ConstNull:
		e.emitOp(OpLoadNull)
		e.writeU16(dst)
	case ir.ConstTrue:
		e.emitOp(OpLoadTrue)
		e.writeU16(dst)
	case ir.ConstFalse:
		e.emitOp(OpLoadFalse)
		e.writeU16(dst)
	case ir.ConstInteger:
		e.emitOp(OpLoadInt)
		e.writeI64(c.Int)
		e.writeU16(dst)
	case ir.ConstFloat:
		e.emitOp(OpLoadFloat)
		e.writeF64(c.Float.Value)
		e.writeU16(dst)
	case ir.ConstString, ir.ConstSymbol:
		item := e.g.internConst(c)
		e.emitOp(OpLoadModule)
		pos := len(e.code)
		e.writeU32(0)
		e.fixup(pos, item)
		e.writeU16(dst)
	default:
		fail("codegen: unknown constant kind %v", c.Kind)
	}
}

func (e *funcEmitter) emitLoad(t ir.LValue, dst uint16) {
	switch t.Kind {
	case ir.LValParam:
		e.emitOp(OpLoadParam)
		e.writeU16(uint16(t.Param))
		e.writeU16(dst)
	case ir.LValClosure:
		e.emitOp(OpLoadEnv)
		e.writeU16(e.slot(t.Env))
		e.writeU32(t.Levels)
		e.writeU32(t.Index)
		e.writeU16(dst)
	case ir.LValModule:
		e.emitModuleRef(OpLoadModule, t.Member, func() { e.writeU16(dst) })
	case ir.LValField:
		e.emitOp(OpLoadMember)
		e.writeU16(e.slot(t.Object))
		e.writeU32(uint32(t.Name))
		e.writeU16(dst)
	case ir.LValTupleField:
		e.emitOp(OpLoadTupleMember)
		e.writeU16(e.slot(t.Object))
		e.writeU32(t.TupleIndex)
		e.writeU16(dst)
	case ir.LValIndex:
		e.emitOp(OpLoadIndex)
		e.writeU16(e.slot(t.Object))
		e.writeU16(e.slot(t.IndexOperand))
		e.writeU16(dst)
	default:
		fail("codegen: unknown lvalue kind %v", t.Kind)
	}
}

func (e *funcEmitter) emitStore(t ir.LValue, src uint16) {
	switch t.Kind {
	case ir.LValParam:
		e.emitOp(OpStoreParam)
		e.writeU16(src)
		e.writeU16(uint16(t.Param))
	case ir.LValClosure:
		e.emitOp(OpStoreEnv)
		e.writeU16(src)
		e.writeU16(e.slot(t.Env))
		e.writeU32(t.Levels)
		e.writeU32(t.Index)
	case ir.LValModule:
		e.emitOp(OpStoreModule)
		e.writeU16(src)
		item := e.g.memberItem[t.Member]
		pos := len(e.code)
		e.writeU32(0)
		e.fixup(pos, item)
	case ir.LValField:
		e.emitOp(OpStoreMember)
		e.writeU16(src)
		e.writeU16(e.slot(t.Object))
		e.writeU32(uint32(t.Name))
	case ir.LValTupleField:
		e.emitOp(OpStoreTupleMember)
		e.writeU16(src)
		e.writeU16(e.slot(t.Object))
		e.writeU32(t.TupleIndex)
	case ir.LValIndex:
		e.emitOp(OpStoreIndex)
		e.writeU16(src)
		e.writeU16(e.slot(t.Object))
		e.writeU16(e.slot(t.IndexOperand))
	default:
		fail("codegen: unknown lvalue kind %v", t.Kind)
	}
}

// emitTerminator lowers a block's terminator. Jumping to the block that
// immediately follows in emission order is skipped, since control falls
// through to it anyway (a simple peephole that keeps the common
// straight-line case from growing a redundant OpJmp).
func (e *funcEmitter) emitTerminator(t ir.Terminator, next ir.BlockId, hasNext bool) {
	fallsThrough := func(b ir.BlockId) bool { return hasNext && b == next }

	switch t.Kind {
	case ir.TermJump:
		if fallsThrough(t.Target) {
			return
		}
		e.emitOp(OpJmp)
		e.writeJumpOperand(t.Target)

	case ir.TermBranch:
		takenOp := OpJmpTrue
		if t.Which == ir.IfFalse {
			takenOp = OpJmpFalse
		}
		e.emitOp(takenOp)
		e.writeU16(e.slot(t.Cond))
		e.writeJumpOperand(t.Taken)
		if fallsThrough(t.Fallthrough) {
			return
		}
		e.emitOp(OpJmp)
		e.writeJumpOperand(t.Fallthrough)

	case ir.TermReturn:
		e.emitOp(OpReturn)
		e.writeU16(e.slot(t.Value))

	case ir.TermExit:
		e.emitOp(OpExit)

	case ir.TermAssertFail:
		e.emitOp(OpAssertFail)
		e.writeU16(e.slot(t.Expr))
		e.writeU16(e.optSlot(t.Message))

	case ir.TermNever:
		// unreachable; nothing to emit

	default:
		fail("codegen: block left unterminated (TermNone reached emission)")
	}
}

func binOpcode(op ir.BinaryOpType) OpCode {
	switch op {
	case ir.BinPlus:
		return OpAdd
	case ir.BinMinus:
		return OpSub
	case ir.BinMultiply:
		return OpMul
	case ir.BinDivide:
		return OpDiv
	case ir.BinModulus:
		return OpMod
	case ir.BinPower:
		return OpPow
	case ir.BinLeftShift:
		return OpLsh
	case ir.BinRightShift:
		return OpRsh
	case ir.BinBitwiseAnd:
		return OpBAnd
	case ir.BinBitwiseOr:
		return OpBOr
	case ir.BinBitwiseXor:
		return OpBXor
	case ir.BinLess:
		return OpLt
	case ir.BinLessEquals:
		return OpLte
	case ir.BinGreater:
		return OpGt
	case ir.BinGreaterEquals:
		return OpGte
	case ir.BinEquals:
		return OpEq
	case ir.BinNotEquals:
		return OpNeq
	default:
		fail("codegen: unknown binary op %v", op)
		return 0
	}
}

func unOpcode(op ir.UnaryOpType) OpCode {
	switch op {
	case ir.UnaryPlus:
		return OpUAdd
	case ir.UnaryMinus:
		return OpUNeg
	case ir.UnaryBitwiseNot:
		return OpBNot
	case ir.UnaryLogicalNot:
		return OpLNot
	default:
		fail("codegen: unknown unary op %v", op)
		return 0
	}
}
