package irbuilder

import (
	"github.com/tiro-lang/tiro/internal/ast"
	"github.com/tiro-lang/tiro/internal/diag"
	"github.com/tiro-lang/tiro/internal/ir"
	"github.com/tiro-lang/tiro/internal/sema"
	"github.com/tiro-lang/tiro/internal/strtab"
	"github.com/tiro-lang/tiro/internal/symbols"
)

// Builder lowers one analyzed file into an ir.Module, one top-level
// function at a time (spec §4.3).
type Builder struct {
	Module *ir.Module
	Strs   *strtab.Table
	Syms   *symbols.Table
	Sema   *sema.Analyzer
	Diags  *diag.Sink

	// env records, for every function scope that owns at least one
	// captured symbol, the slot index assigned to it within that
	// function's closure environment.
	env map[*symbols.Scope]map[symbols.SymbolID]uint32

	// funcMembers/importMembers map a top-level FuncDecl/ImportDecl's
	// node id to the module member slot BuildFile registered it under,
	// so an Ident that resolves to a function or import name can be read
	// through ir.LModule instead of the ordinary SSA path.
	funcMembers   map[ast.NodeID]ir.ModuleMemberId
	importMembers map[ast.NodeID]ir.ModuleMemberId
}

// New creates a Builder that lowers into module, consuming the side
// tables an earlier sema.Analyze run populated.
func New(module *ir.Module, syms *symbols.Table, an *sema.Analyzer, diags *diag.Sink) *Builder {
	return &Builder{
		Module:        module,
		Strs:          module.Strs,
		Syms:          syms,
		Sema:          an,
		Diags:         diags,
		env:           make(map[*symbols.Scope]map[symbols.SymbolID]uint32),
		funcMembers:   make(map[ast.NodeID]ir.ModuleMemberId),
		importMembers: make(map[ast.NodeID]ir.ModuleMemberId),
	}
}

// BuildFile lowers every top-level function declaration in f, in
// source order, registering each as a module member.
func BuildFile(f *ast.File, module *ir.Module, syms *symbols.Table, an *sema.Analyzer, diags *diag.Sink) {
	b := New(module, syms, an, diags)
	for _, d := range f.Decls {
		switch t := d.(type) {
		case *ast.FuncDecl:
			b.buildTopLevelFunc(t)
		case *ast.ImportDecl:
			member := module.AddImport(b.Strs.Intern(t.Name))
			b.importMembers[t.ID] = member
		}
	}
	if len(f.Stmts) > 0 {
		b.buildTopLevelScript(f)
	}
}

func (b *Builder) buildTopLevelFunc(fd *ast.FuncDecl) ir.ModuleMemberId {
	fn := b.lowerFunction(fd.ID, fd.Name, fd.Params, fd.Body)
	member := b.Module.AddFunction(fn)
	b.funcMembers[fd.ID] = member
	return member
}

// envSlot returns the slot index fnScope's environment assigns to sym,
// allocating one (and the scope's first slot if this is its first
// captured symbol) on first request. fnScope must be a FuncScope.
func (b *Builder) envSlot(fnScope *symbols.Scope, sym *symbols.Symbol) uint32 {
	slots, ok := b.env[fnScope]
	if !ok {
		slots = make(map[symbols.SymbolID]uint32)
		b.env[fnScope] = slots
	}
	if idx, ok := slots[sym.ID]; ok {
		return idx
	}
	idx := uint32(len(slots))
	slots[sym.ID] = idx
	return idx
}

// envSize returns the number of slots fnScope's environment needs,
// after every captured symbol it owns has had envSlot called on it
// (the lowering pass below visits every declaration before it can be
// read from a nested closure, since capture marking already ran as
// part of sema.Analyze).
func (b *Builder) envSize(fnScope *symbols.Scope) uint32 {
	return uint32(len(b.env[fnScope]))
}

// funcBuilder holds the mutable state for lowering one function body:
// the SSA construction bookkeeping, the current insertion block, and
// the enclosing loops' break/continue targets.
type funcBuilder struct {
	b  *Builder
	fn *ir.Function

	ssa *ssaBuilder
	cur ir.BlockId

	// fnScope is this function's own scope (symbols.FuncScope), used to
	// resolve envSlot/envSize and to tell apart "my own capture" from "an
	// outer function's capture" when reading a captured variable.
	fnScope *symbols.Scope

	// selfEnv is the MakeEnvironment instruction holding this function's
	// own captured locals, or the zero InstId if it owns none.
	selfEnv ir.InstId

	loops []loopCtx

	// nextSynthetic hands out SymbolIDs for merge points that have no
	// declared variable behind them (if-expression arms, short-circuit
	// operators, optional access) so they can ride the same SSA/phi
	// machinery as ordinary locals. Counting down from the top of the
	// id space keeps these from ever colliding with a real symbols.Table
	// id, which counts up from zero.
	nextSynthetic symbols.SymbolID
}

// freshSynthetic allocates a SymbolID used only as a phi-construction
// key for one lowerMerge call; it never denotes a source-level variable.
func (fb *funcBuilder) freshSynthetic() symbols.SymbolID {
	fb.nextSynthetic--
	return fb.nextSynthetic
}

type loopCtx struct {
	continueTarget ir.BlockId
	breakTarget    ir.BlockId
}

// lowerFunction lowers one function body (top-level or literal) into a
// fresh ir.Function.
func (b *Builder) lowerFunction(funcNode ast.NodeID, name string, params []*ast.Param, body *ast.BlockStmt) *ir.Function {
	fnScope, _ := b.Syms.FuncScopeOf(funcNode)
	fn, fb := b.newFuncBuilder(name, fnScope)
	for _, p := range params {
		fn.Params = append(fn.Params, ir.Param{Name: b.Strs.Intern(p.Name)})
	}

	for i := range params {
		sym, ok := b.Syms.ParamOf(funcNode, i)
		if !ok {
			continue
		}
		read := fn.Emit(fb.cur, ir.NewRead(ir.LParam(ir.ParamId(i))))
		fb.writeSymbol(sym, read)
	}

	fb.lowerBlockStmts(body)
	fb.ensureTerminated(ir.Return(fb.zeroValue()))
	return fn
}

// buildTopLevelScript lowers a file's top-level statements (outside any
// function declaration) into a synthetic no-argument entry function,
// registered under the conventional name "main". The file's root scope
// doubles as this function's own scope (symbols.NewFileScope sets
// Root.Function to itself), so a closure created at top level captures
// exactly like one created inside any other function.
func (b *Builder) buildTopLevelScript(f *ast.File) ir.ModuleMemberId {
	fn, fb := b.newFuncBuilder("main", b.Syms.Root)
	for _, s := range f.Stmts {
		if fb.terminated() {
			break
		}
		fb.lowerStmt(s)
	}
	fb.ensureTerminated(ir.Return(fb.zeroValue()))
	return b.Module.AddFunction(fn)
}

// newFuncBuilder allocates a fresh ir.Function and the funcBuilder that
// lowers into it, wiring up its closure environment from fnScope's
// capture set (already fully computed by sema.Analyze before any
// lowering begins) before a single body statement is lowered.
func (b *Builder) newFuncBuilder(name string, fnScope *symbols.Scope) (*ir.Function, *funcBuilder) {
	fn := ir.NewFunction(b.Strs.Intern(name))
	fb := &funcBuilder{b: b, fn: fn, ssa: newSSABuilder(fn), cur: fn.Entry, fnScope: fnScope}
	fb.ssa.sealBlock(fn.Entry)

	if fnScope != nil && len(fnScope.Captures) > 0 {
		for _, sym := range fnScope.Captures {
			b.envSlot(fnScope, sym)
		}
		parent := fn.Emit(fn.Entry, ir.NewOuterEnvironment())
		fb.selfEnv = fn.Emit(fn.Entry, ir.NewMakeEnvironment(parent, b.envSize(fnScope)))
	}
	return fn, fb
}

// writeSymbol stores value as sym's current SSA definition, routing
// through the closure environment when sym is captured and this is the
// function that owns it; non-captured symbols (and reads of a symbol
// this function merely captures from an outer scope) go straight
// through the SSA builder.
func (fb *funcBuilder) writeSymbol(sym *symbols.Symbol, value ir.InstId) {
	if sym.Captured && sym.Scope.Function == fb.fnScope {
		slot := fb.b.envSlot(fb.fnScope, sym)
		fb.fn.Emit(fb.cur, ir.NewWrite(ir.LClosure(fb.selfEnv, 0, slot), value))
		return
	}
	fb.ssa.writeVariable(sym.ID, fb.cur, value)
}

func (fb *funcBuilder) readSymbol(sym *symbols.Symbol) ir.InstId {
	if sym.Captured {
		if sym.Scope.Function == fb.fnScope {
			slot := fb.b.envSlot(fb.fnScope, sym)
			return fb.fn.Emit(fb.cur, ir.NewRead(ir.LClosure(fb.selfEnv, 0, slot)))
		}
		levels := levelsUpTo(fb.fnScope, sym.Scope.Function)
		slot := fb.b.envSlot(sym.Scope.Function, sym)
		outer := fb.fn.Emit(fb.cur, ir.NewOuterEnvironment())
		return fb.fn.Emit(fb.cur, ir.NewRead(ir.LClosure(outer, levels, slot)))
	}
	return fb.ssa.readVariable(sym.ID, fb.cur)
}

// levelsUpTo counts how many function-scope boundaries separate from
// (typically the current function) from the function scope that owns
// target, by walking declared-in-source nesting. Grounded on
// value.hpp's Closure::levels field ("levels to go up the environment
// hierarchy").
func levelsUpTo(from, target *symbols.Scope) uint32 {
	levels := uint32(0)
	for s := from; s != nil && s != target; s = enclosingFunc(s) {
		levels++
	}
	return levels
}

// enclosingFunc returns the nearest function scope strictly outside s
// (s itself must be a function scope).
func enclosingFunc(s *symbols.Scope) *symbols.Scope {
	for outer := s.Outer; outer != nil; outer = outer.Outer {
		if outer.Kind == symbols.FuncScope {
			return outer
		}
	}
	return nil
}

// zeroValue emits a null constant, used as the implicit return value of
// a function whose body falls off the end (spec §4.3: blocks that are
// None-categorized return null).
func (fb *funcBuilder) zeroValue() ir.InstId {
	return fb.fn.Emit(fb.cur, ir.NewConstant(ir.CNull()))
}

// ensureTerminated sets the current block's terminator to fallback if
// it doesn't already have a real one (a block can already be
// terminated if its last statement was return/break/continue/an
// exhaustive if).
func (fb *funcBuilder) ensureTerminated(fallback ir.Terminator) {
	blk := fb.fn.Block(fb.cur)
	if blk.Terminator.Kind != ir.TermNone {
		return
	}
	blk.Terminator = fallback
}

// newBlock allocates a fresh block in fb's function.
func (fb *funcBuilder) newBlock() ir.BlockId { return fb.fn.NewBlock() }

// jumpTo terminates the current block with a Jump to target (if not
// already terminated) and registers the edge in target's predecessor
// list.
func (fb *funcBuilder) jumpTo(target ir.BlockId) {
	blk := fb.fn.Block(fb.cur)
	if blk.Terminator.Kind == ir.TermNone {
		blk.Terminator = ir.Jump(target)
		fb.fn.Block(target).AddPred(fb.cur)
	}
}

// switchTo moves the insertion point to block.
func (fb *funcBuilder) switchTo(block ir.BlockId) { fb.cur = block }

// terminated reports whether the current block already has a
// terminator other than None (used to skip dead code after a
// return/break/continue within the same block).
func (fb *funcBuilder) terminated() bool {
	return fb.fn.Block(fb.cur).Terminator.Kind != ir.TermNone
}
