package irbuilder

import (
	"github.com/tiro-lang/tiro/internal/ast"
	"github.com/tiro-lang/tiro/internal/ir"
)

// lowerBlockStmts lowers each statement of b in order into the current
// block, stopping early if a statement terminates the block (dead code
// after return/break/continue never reaches codegen).
func (fb *funcBuilder) lowerBlockStmts(b *ast.BlockStmt) {
	for _, s := range b.Stmts {
		if fb.terminated() {
			return
		}
		fb.lowerStmt(s)
	}
}

func (fb *funcBuilder) lowerStmt(s ast.Stmt) {
	switch t := s.(type) {
	case *ast.BlockStmt:
		fb.lowerBlockStmts(t)
	case *ast.ExprStmt:
		fb.lowerExpr(t.X)
	case *ast.VarDecl:
		fb.lowerDecl(t.Target, t.Init)
	case *ast.ConstDecl:
		fb.lowerDecl(t.Target, t.Init)
	case *ast.WhileStmt:
		fb.lowerWhile(t)
	case *ast.ForStmt:
		fb.lowerFor(t)
	case *ast.ForInStmt:
		fb.lowerForIn(t)
	case *ast.ReturnStmt:
		var v ir.InstId
		if t.Value != nil {
			v = fb.lowerExpr(t.Value)
		} else {
			v = fb.zeroValue()
		}
		fb.fn.Block(fb.cur).Terminator = ir.Return(v)
	case *ast.BreakStmt:
		fb.jumpTo(fb.loops[len(fb.loops)-1].breakTarget)
	case *ast.ContinueStmt:
		fb.jumpTo(fb.loops[len(fb.loops)-1].continueTarget)
	case *ast.AssertStmt:
		fb.lowerAssert(t)
	}
}

// lowerDecl lowers a var/const declaration: rhs first, then bind each
// leaf of the (possibly tuple) binding pattern, per spec §4.4's
// resolved evaluation-order rule ("rhs-before-targets for
// declarations").
func (fb *funcBuilder) lowerDecl(target ast.Binding, init ast.Expr) {
	if init == nil {
		fb.bindPattern(target, fb.zeroValue())
		return
	}
	value := fb.lowerExpr(init)
	fb.bindPattern(target, value)
}

func (fb *funcBuilder) bindPattern(binding ast.Binding, value ir.InstId) {
	switch t := binding.(type) {
	case *ast.NameBinding:
		sym, ok := fb.b.Syms.DeclOf(t.ID)
		if !ok {
			return
		}
		fb.writeSymbol(sym, value)
	case *ast.TupleBinding:
		for i, el := range t.Elements {
			field := fb.fn.Emit(fb.cur, ir.NewRead(ir.LTupleField(value, uint32(i))))
			fb.bindPattern(el, field)
		}
	}
}

func (fb *funcBuilder) lowerAssert(t *ast.AssertStmt) {
	cond := fb.lowerExpr(t.Cond)
	var msg ir.InstId
	if t.Message != nil {
		msg = fb.lowerExpr(t.Message)
	}
	okBlock := fb.newBlock()
	failBlock := fb.newBlock()
	fb.fn.Block(fb.cur).Terminator = ir.Branch(ir.IfTrue, cond, okBlock, failBlock)
	fb.fn.Block(okBlock).AddPred(fb.cur)
	fb.fn.Block(failBlock).AddPred(fb.cur)

	fb.switchTo(failBlock)
	fb.ssa.sealBlock(failBlock)
	fb.fn.Block(fb.cur).Terminator = ir.AssertFail(cond, msg)

	fb.switchTo(okBlock)
	fb.ssa.sealBlock(okBlock)
}

func (fb *funcBuilder) lowerWhile(t *ast.WhileStmt) {
	header := fb.newBlock()
	body := fb.newBlock()
	exit := fb.newBlock()

	fb.jumpTo(header)
	fb.switchTo(header)

	cond := fb.lowerExpr(t.Cond)
	fb.fn.Block(fb.cur).Terminator = ir.Branch(ir.IfTrue, cond, body, exit)
	fb.fn.Block(body).AddPred(fb.cur)
	fb.fn.Block(exit).AddPred(fb.cur)

	fb.loops = append(fb.loops, loopCtx{continueTarget: header, breakTarget: exit})
	fb.switchTo(body)
	fb.ssa.sealBlock(body)
	fb.lowerBlockStmts(t.Body)
	fb.jumpTo(header)
	fb.loops = fb.loops[:len(fb.loops)-1]

	// header has two predecessors (the preheader's fallthrough and the
	// body's back-edge) and can only be sealed once both are known.
	fb.ssa.sealBlock(header)

	fb.switchTo(exit)
	fb.ssa.sealBlock(exit)
}

func (fb *funcBuilder) lowerFor(t *ast.ForStmt) {
	if t.Init != nil {
		fb.lowerStmt(t.Init)
	}

	header := fb.newBlock()
	body := fb.newBlock()
	step := fb.newBlock()
	exit := fb.newBlock()

	fb.jumpTo(header)
	fb.switchTo(header)

	if t.Cond != nil {
		cond := fb.lowerExpr(t.Cond)
		fb.fn.Block(fb.cur).Terminator = ir.Branch(ir.IfTrue, cond, body, exit)
	} else {
		fb.fn.Block(fb.cur).Terminator = ir.Jump(body)
	}
	fb.fn.Block(body).AddPred(fb.cur)
	fb.fn.Block(exit).AddPred(fb.cur)

	fb.loops = append(fb.loops, loopCtx{continueTarget: step, breakTarget: exit})
	fb.switchTo(body)
	fb.ssa.sealBlock(body)
	fb.lowerBlockStmts(t.Body)
	fb.jumpTo(step)
	fb.loops = fb.loops[:len(fb.loops)-1]

	fb.switchTo(step)
	fb.ssa.sealBlock(step)
	if t.Step != nil {
		fb.lowerStmt(t.Step)
	}
	fb.jumpTo(header)

	fb.ssa.sealBlock(header)

	fb.switchTo(exit)
	fb.ssa.sealBlock(exit)
}

// lowerForIn lowers `for (pattern) in iterable { body }` using
// MakeIterator plus the virtual IteratorNext aggregate (spec §3.3),
// supplementing the C-style for row spec.md describes explicitly
// (grounded on test/eval/{functions,variables}.cpp's tuple-unpacking
// for-in usage, per SPEC_FULL.md §4).
func (fb *funcBuilder) lowerForIn(t *ast.ForInStmt) {
	container := fb.lowerExpr(t.Iterable)
	iter := fb.fn.Emit(fb.cur, ir.NewMakeIterator(container))

	header := fb.newBlock()
	body := fb.newBlock()
	exit := fb.newBlock()

	fb.jumpTo(header)
	fb.switchTo(header)

	next := fb.fn.Emit(fb.cur, ir.NewAggregateValue(ir.AggregateIteratorNext(iter)))
	valid := fb.fn.Emit(fb.cur, ir.NewGetAggregateMember(next, ir.IteratorNextValid))
	fb.fn.Block(fb.cur).Terminator = ir.Branch(ir.IfTrue, valid, body, exit)
	fb.fn.Block(body).AddPred(fb.cur)
	fb.fn.Block(exit).AddPred(fb.cur)

	fb.loops = append(fb.loops, loopCtx{continueTarget: header, breakTarget: exit})
	fb.switchTo(body)
	fb.ssa.sealBlock(body)
	value := fb.fn.Emit(fb.cur, ir.NewGetAggregateMember(next, ir.IteratorNextValue))
	fb.bindPattern(t.Target, value)
	fb.lowerBlockStmts(t.Body)
	fb.jumpTo(header)
	fb.loops = fb.loops[:len(fb.loops)-1]

	fb.ssa.sealBlock(header)

	fb.switchTo(exit)
	fb.ssa.sealBlock(exit)
}
