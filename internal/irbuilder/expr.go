package irbuilder

import (
	"github.com/tiro-lang/tiro/internal/ast"
	"github.com/tiro-lang/tiro/internal/ir"
	"github.com/tiro-lang/tiro/internal/symbols"
)

// lowerExpr lowers one expression into the current block, returning the
// instruction producing its value (spec §4.3's per-node-kind lowering
// table, grounded on original_source/src/tiro/ir_gen/gen_expr.cpp).
func (fb *funcBuilder) lowerExpr(e ast.Expr) ir.InstId {
	switch t := e.(type) {
	case *ast.IntLiteral:
		return fb.fn.Emit(fb.cur, ir.NewConstant(ir.CInteger(t.Value)))
	case *ast.FloatLiteral:
		return fb.fn.Emit(fb.cur, ir.NewConstant(ir.CFloat(t.Value)))
	case *ast.StringLiteral:
		return fb.fn.Emit(fb.cur, ir.NewConstant(ir.CString(fb.b.Strs.Intern(t.Value))))
	case *ast.BoolLiteral:
		if t.Value {
			return fb.fn.Emit(fb.cur, ir.NewConstant(ir.CTrue()))
		}
		return fb.fn.Emit(fb.cur, ir.NewConstant(ir.CFalse()))
	case *ast.NullLiteral:
		return fb.fn.Emit(fb.cur, ir.NewConstant(ir.CNull()))
	case *ast.InterpolatedString:
		args := fb.lowerExprList(t.Pieces)
		return fb.fn.Emit(fb.cur, ir.NewFormat(fb.fn.NewList(args)))
	case *ast.Ident:
		return fb.lowerIdent(t)
	case *ast.BinaryExpr:
		return fb.lowerBinary(t)
	case *ast.UnaryExpr:
		operand := fb.lowerExpr(t.Operand)
		return fb.fn.Emit(fb.cur, ir.NewUnaryOp(unaryOpMap[t.Op], operand))
	case *ast.AssignExpr:
		return fb.lowerAssign(t)
	case *ast.CompoundAssignExpr:
		return fb.lowerCompoundAssign(t)
	case *ast.CallExpr:
		return fb.lowerCall(t)
	case *ast.MethodCallExpr:
		return fb.lowerMethodCall(t)
	case *ast.FieldExpr:
		return fb.lowerField(t)
	case *ast.IndexExpr:
		return fb.lowerIndex(t)
	case *ast.IfExpr:
		return fb.lowerIfExpr(t)
	case *ast.TupleExpr:
		args := fb.lowerExprList(t.Elements)
		return fb.fn.Emit(fb.cur, ir.NewContainer(ir.ContainerTuple, fb.fn.NewList(args)))
	case *ast.ArrayExpr:
		args := fb.lowerExprList(t.Elements)
		return fb.fn.Emit(fb.cur, ir.NewContainer(ir.ContainerArray, fb.fn.NewList(args)))
	case *ast.SetExpr:
		args := fb.lowerExprList(t.Elements)
		return fb.fn.Emit(fb.cur, ir.NewContainer(ir.ContainerSet, fb.fn.NewList(args)))
	case *ast.MapExpr:
		args := make([]ir.InstId, 0, len(t.Entries)*2)
		for _, ent := range t.Entries {
			args = append(args, fb.lowerExpr(ent.Key), fb.lowerExpr(ent.Value))
		}
		return fb.fn.Emit(fb.cur, ir.NewContainer(ir.ContainerMap, fb.fn.NewList(args)))
	case *ast.RecordExpr:
		return fb.lowerRecord(t)
	case *ast.FuncLit:
		return fb.lowerFuncLit(t)
	}
	return fb.fn.Emit(fb.cur, ir.NewErrorValue())
}

func (fb *funcBuilder) lowerExprList(exprs []ast.Expr) []ir.InstId {
	out := make([]ir.InstId, len(exprs))
	for i, e := range exprs {
		out[i] = fb.lowerExpr(e)
	}
	return out
}

func (fb *funcBuilder) lowerIdent(t *ast.Ident) ir.InstId {
	sym, ok := fb.b.Syms.RefOf(t.ID)
	if !ok {
		return fb.fn.Emit(fb.cur, ir.NewErrorValue())
	}
	switch sym.Kind {
	case symbols.Func:
		if member, ok := fb.b.funcMembers[sym.DeclNode]; ok {
			return fb.fn.Emit(fb.cur, ir.NewRead(ir.LModule(member)))
		}
	case symbols.Import:
		if member, ok := fb.b.importMembers[sym.DeclNode]; ok {
			return fb.fn.Emit(fb.cur, ir.NewRead(ir.LModule(member)))
		}
	}
	return fb.readSymbol(sym)
}

// lowerMerge is the shared control-flow-join primitive behind
// if-expressions, short-circuiting &&/||/??, and optional access: it
// branches on cond, evaluates thenFn in the taken arm and elseFn in the
// fallthrough arm, and returns the phi-merged value of whichever arm
// actually ran. Reusing the SSA builder's phi machinery (keyed by a
// synthetic symbol id rather than a real declared variable) lets every
// one of these constructs share the same sealed/unsealed bookkeeping as
// ordinary loop headers.
func (fb *funcBuilder) lowerMerge(cond ir.InstId, thenFn, elseFn func() ir.InstId) ir.InstId {
	thenBlock := fb.newBlock()
	elseBlock := fb.newBlock()
	join := fb.newBlock()

	fb.fn.Block(fb.cur).Terminator = ir.Branch(ir.IfTrue, cond, thenBlock, elseBlock)
	fb.fn.Block(thenBlock).AddPred(fb.cur)
	fb.fn.Block(elseBlock).AddPred(fb.cur)

	sym := fb.freshSynthetic()

	fb.switchTo(thenBlock)
	fb.ssa.sealBlock(thenBlock)
	tv := thenFn()
	fb.ssa.writeVariable(sym, fb.cur, tv)
	fb.jumpTo(join)

	fb.switchTo(elseBlock)
	fb.ssa.sealBlock(elseBlock)
	ev := elseFn()
	fb.ssa.writeVariable(sym, fb.cur, ev)
	fb.jumpTo(join)

	fb.switchTo(join)
	fb.ssa.sealBlock(join)
	return fb.ssa.readVariable(sym, fb.cur)
}

func (fb *funcBuilder) lowerBinary(t *ast.BinaryExpr) ir.InstId {
	switch t.Op {
	case ast.OpAndAnd:
		left := fb.lowerExpr(t.Left)
		return fb.lowerMerge(left,
			func() ir.InstId { return fb.lowerExpr(t.Right) },
			func() ir.InstId { return left },
		)
	case ast.OpOrOr:
		left := fb.lowerExpr(t.Left)
		return fb.lowerMerge(left,
			func() ir.InstId { return left },
			func() ir.InstId { return fb.lowerExpr(t.Right) },
		)
	case ast.OpNullCoalesce:
		left := fb.lowerExpr(t.Left)
		isNull := fb.lowerIsNull(left)
		return fb.lowerMerge(isNull,
			func() ir.InstId { return fb.lowerExpr(t.Right) },
			func() ir.InstId { return left },
		)
	default:
		left := fb.lowerExpr(t.Left)
		right := fb.lowerExpr(t.Right)
		return fb.fn.Emit(fb.cur, ir.NewBinaryOp(binOpMap[t.Op], left, right))
	}
}

// lowerIsNull emits `value == null`, the test every optional-access form
// and `??` compile down to (spec.md: "a null receiver short-circuits the
// chain to null").
func (fb *funcBuilder) lowerIsNull(value ir.InstId) ir.InstId {
	null := fb.fn.Emit(fb.cur, ir.NewConstant(ir.CNull()))
	return fb.fn.Emit(fb.cur, ir.NewBinaryOp(ir.BinEquals, value, null))
}

// lowerOptional evaluates objExpr once, then either short-circuits to
// null (Optional access, object is null) or runs then with the object's
// value (Direct access, or Optional access with a non-null object).
func (fb *funcBuilder) lowerOptional(objExpr ast.Expr, access ast.AccessType, then func(obj ir.InstId) ir.InstId) ir.InstId {
	obj := fb.lowerExpr(objExpr)
	if access == ast.Direct {
		return then(obj)
	}
	isNull := fb.lowerIsNull(obj)
	return fb.lowerMerge(isNull,
		func() ir.InstId { return fb.fn.Emit(fb.cur, ir.NewConstant(ir.CNull())) },
		func() ir.InstId { return then(obj) },
	)
}

func (fb *funcBuilder) lowerField(t *ast.FieldExpr) ir.InstId {
	return fb.lowerOptional(t.Object, t.Access, func(obj ir.InstId) ir.InstId {
		return fb.fn.Emit(fb.cur, ir.NewRead(ir.LField(obj, fb.b.Strs.Intern(t.Name))))
	})
}

func (fb *funcBuilder) lowerIndex(t *ast.IndexExpr) ir.InstId {
	return fb.lowerOptional(t.Object, t.Access, func(obj ir.InstId) ir.InstId {
		idx := fb.lowerExpr(t.Index)
		return fb.fn.Emit(fb.cur, ir.NewRead(ir.LIndex(obj, idx)))
	})
}

func (fb *funcBuilder) lowerCall(t *ast.CallExpr) ir.InstId {
	return fb.lowerOptional(t.Callee, t.Access, func(callee ir.InstId) ir.InstId {
		args := fb.lowerExprList(t.Args)
		return fb.fn.Emit(fb.cur, ir.NewCall(callee, fb.fn.NewList(args)))
	})
}

// lowerMethodCall lowers `receiver.name(args...)` via the virtual
// (instance, method) aggregate spec §3.3 describes: one
// Aggregate::Method value split back into its two members by
// GetAggregateMember, so a method call shares the same Call-like
// instruction shape as a plain call site. The receiver is passed as the
// implicit first argument, mirroring gen_expr.cpp's instance_field()
// lowering of member access read this segment.
func (fb *funcBuilder) lowerMethodCall(t *ast.MethodCallExpr) ir.InstId {
	return fb.lowerOptional(t.Receiver, t.Access, func(recv ir.InstId) ir.InstId {
		agg := fb.fn.Emit(fb.cur, ir.NewAggregateValue(ir.AggregateMethod(recv, fb.b.Strs.Intern(t.Name))))
		instance := fb.fn.Emit(fb.cur, ir.NewGetAggregateMember(agg, ir.MethodInstance))
		method := fb.fn.Emit(fb.cur, ir.NewGetAggregateMember(agg, ir.MethodFunction))
		args := append([]ir.InstId{instance}, fb.lowerExprList(t.Args)...)
		return fb.fn.Emit(fb.cur, ir.NewMethodCall(method, fb.fn.NewList(args)))
	})
}

// lowerIfExpr lowers an if-expression's value, reusing lowerMerge for
// the then/else phi join. An arm with no `else` falls through to null,
// matching the implicit-null-return convention used for a function body
// whose block falls off the end (spec §4.2/§4.3).
func (fb *funcBuilder) lowerIfExpr(t *ast.IfExpr) ir.InstId {
	cond := fb.lowerExpr(t.Cond)
	return fb.lowerMerge(cond,
		func() ir.InstId { return fb.lowerArm(t.Then) },
		func() ir.InstId {
			if t.Else != nil {
				return fb.lowerArm(t.Else)
			}
			return fb.fn.Emit(fb.cur, ir.NewConstant(ir.CNull()))
		},
	)
}

// lowerArm lowers one if-expression arm, which is either a nested
// BlockStmt (the common case, whose trailing expression statement if
// any supplies the arm's value) or another expression (an else-if
// chain).
func (fb *funcBuilder) lowerArm(e ast.Expr) ir.InstId {
	if bs, ok := e.(*ast.BlockStmt); ok {
		return fb.lowerBlockValue(bs)
	}
	return fb.lowerExpr(e)
}

// lowerBlockValue lowers every statement of b, returning the value of
// its trailing expression statement (or null, if b is empty or ends in
// a statement with no value, or an instruction the caller must not use
// if the block provably never falls through — see lowerMerge's handling
// of a terminated arm).
func (fb *funcBuilder) lowerBlockValue(b *ast.BlockStmt) ir.InstId {
	if len(b.Stmts) == 0 {
		return fb.fn.Emit(fb.cur, ir.NewConstant(ir.CNull()))
	}
	for _, s := range b.Stmts[:len(b.Stmts)-1] {
		if fb.terminated() {
			return ir.InstId(0)
		}
		fb.lowerStmt(s)
	}
	if fb.terminated() {
		return ir.InstId(0)
	}
	last := b.Stmts[len(b.Stmts)-1]
	if es, ok := last.(*ast.ExprStmt); ok {
		return fb.lowerExpr(es.X)
	}
	fb.lowerStmt(last)
	if fb.terminated() {
		return ir.InstId(0)
	}
	return fb.fn.Emit(fb.cur, ir.NewConstant(ir.CNull()))
}

func (fb *funcBuilder) lowerRecord(t *ast.RecordExpr) ir.InstId {
	var rv ir.RecordValue
	for _, f := range t.Fields {
		rv.Names = append(rv.Names, fb.b.Strs.Intern(f.Name))
		rv.Values = append(rv.Values, fb.lowerExpr(f.Value))
	}
	rec := fb.fn.NewRecord(rv)
	return fb.fn.Emit(fb.cur, ir.NewRecordValue(rec))
}

// lowerFuncLit lowers a closure literal: its body becomes its own
// ir.Function registered as a module member, and the enclosing
// instruction stream gets a MakeClosure tying that function to the
// current environment (its own, if it owns captures, or the ambient
// outer environment otherwise).
func (fb *funcBuilder) lowerFuncLit(t *ast.FuncLit) ir.InstId {
	nested := fb.b.lowerFunction(t.ID, "", t.Params, t.Body)
	member := fb.b.Module.AddFunction(nested)

	var env ir.InstId
	if fb.selfEnv.Valid() {
		env = fb.selfEnv
	} else {
		env = fb.fn.Emit(fb.cur, ir.NewOuterEnvironment())
	}
	return fb.fn.Emit(fb.cur, ir.NewMakeClosure(env, member))
}

// --- assignment targets ---

type targetKind int

const (
	targetIdent targetKind = iota
	targetField
	targetIndex
	targetTuple
)

// assignTarget is the result of evaluating an lvalue expression's
// sub-expressions exactly once (spec §9's resolved open question),
// ready to be read from or stored to without re-evaluating anything.
type assignTarget struct {
	kind  targetKind
	sym   *symbols.Symbol
	obj   ir.InstId
	idx   ir.InstId
	name  string
	elems []assignTarget
}

func (fb *funcBuilder) resolveAssignTarget(e ast.Expr) assignTarget {
	switch t := e.(type) {
	case *ast.Ident:
		sym, _ := fb.b.Syms.RefOf(t.ID)
		return assignTarget{kind: targetIdent, sym: sym}
	case *ast.FieldExpr:
		obj := fb.lowerExpr(t.Object)
		return assignTarget{kind: targetField, obj: obj, name: t.Name}
	case *ast.IndexExpr:
		obj := fb.lowerExpr(t.Object)
		idx := fb.lowerExpr(t.Index)
		return assignTarget{kind: targetIndex, obj: obj, idx: idx}
	case *ast.TupleExpr:
		elems := make([]assignTarget, len(t.Elements))
		for i, el := range t.Elements {
			elems[i] = fb.resolveAssignTarget(el)
		}
		return assignTarget{kind: targetTuple, elems: elems}
	}
	return assignTarget{}
}

func (fb *funcBuilder) storeAssignTarget(t assignTarget, value ir.InstId) {
	switch t.kind {
	case targetIdent:
		if t.sym != nil {
			fb.writeSymbol(t.sym, value)
		}
	case targetField:
		fb.fn.Emit(fb.cur, ir.NewWrite(ir.LField(t.obj, fb.b.Strs.Intern(t.name)), value))
	case targetIndex:
		fb.fn.Emit(fb.cur, ir.NewWrite(ir.LIndex(t.obj, t.idx), value))
	case targetTuple:
		for i, el := range t.elems {
			field := fb.fn.Emit(fb.cur, ir.NewRead(ir.LTupleField(value, uint32(i))))
			fb.storeAssignTarget(el, field)
		}
	}
}

func (fb *funcBuilder) readAssignTarget(t assignTarget) ir.InstId {
	switch t.kind {
	case targetIdent:
		if t.sym == nil {
			return fb.fn.Emit(fb.cur, ir.NewErrorValue())
		}
		return fb.readSymbol(t.sym)
	case targetField:
		return fb.fn.Emit(fb.cur, ir.NewRead(ir.LField(t.obj, fb.b.Strs.Intern(t.name))))
	case targetIndex:
		return fb.fn.Emit(fb.cur, ir.NewRead(ir.LIndex(t.obj, t.idx)))
	}
	return fb.fn.Emit(fb.cur, ir.NewErrorValue())
}

// lowerAssign lowers `target = value` with targets-before-rhs evaluation
// order (spec §9's resolved open question: "targets-before-rhs for
// assignment, rhs-before-targets for declarations").
func (fb *funcBuilder) lowerAssign(t *ast.AssignExpr) ir.InstId {
	target := fb.resolveAssignTarget(t.Target)
	value := fb.lowerExpr(t.Value)
	fb.storeAssignTarget(target, value)
	return value
}

// lowerCompoundAssign lowers `target op= value`, evaluating the
// lvalue's sub-expressions exactly once and reading its current value
// through that same resolved target (spec §4.3 lowering table).
func (fb *funcBuilder) lowerCompoundAssign(t *ast.CompoundAssignExpr) ir.InstId {
	target := fb.resolveAssignTarget(t.Target)
	old := fb.readAssignTarget(target)
	rhs := fb.lowerExpr(t.Value)
	next := fb.fn.Emit(fb.cur, ir.NewBinaryOp(compoundOpMap[t.Op], old, rhs))
	fb.storeAssignTarget(target, next)
	return next
}
