package codegen

import (
	"fmt"

	"github.com/tiro-lang/tiro/internal/diag"
	"github.com/tiro-lang/tiro/internal/ir"
	"github.com/tiro-lang/tiro/internal/strtab"
	"github.com/tiro-lang/tiro/internal/token"
)

// invariantViolation is recovered only at Generate's top level; it marks
// a codegen-internal bug (a malformed phi, a reference to an LValue kind
// the IR builder should never have produced) rather than a user-facing
// compile error, per spec §7's error-kind table ("Internal invariant:
// corrupt phi, missing block — Abort with diagnostic").
type invariantViolation struct{ msg string }

func (e invariantViolation) Error() string { return e.msg }

func fail(format string, args ...any) {
	panic(invariantViolation{fmt.Sprintf(format, args...)})
}

// Generator holds the state threaded through one module's code
// generation: the module member -> link item mapping built up front, and
// the structural-value dedup table for constants interned while
// compiling function bodies.
type Generator struct {
	strs  *strtab.Table
	diags *diag.Sink
	obj   *ir.LinkObject

	memberItem []ir.LinkItemId // ir.ModuleMemberId -> its LinkItemId
	consts     []internedConst // linear dedup table for in-body String/Symbol constants
}

type internedConst struct {
	val  ir.Constant
	item ir.LinkItemId
}

// Generate lowers module's SSA IR into a bytecode link object (spec
// §3.4/§4.4). On an internal invariant violation it reports a diagnostic
// to diags and returns nil; callers should treat that exactly like any
// other compile failure (diags.HasErrors() becomes true).
func Generate(module *ir.Module, diags *diag.Sink) (obj *ir.LinkObject) {
	g := &Generator{strs: module.Strs, diags: diags, obj: &ir.LinkObject{}}
	obj = g.obj

	defer func() {
		if r := recover(); r != nil {
			iv, ok := r.(invariantViolation)
			if !ok {
				panic(r)
			}
			diags.Errorf(token.Span{}, "codegen: %s", iv.msg)
			obj = nil
		}
	}()

	closures := collectClosureMembers(module)
	g.registerMembers(module, closures)
	for id, member := range module.Members {
		if member.Kind != ir.MemberFunction {
			continue
		}
		idx := int(g.obj.Items[g.memberItem[id]].Func)
		g.obj.Functions[idx] = g.compileFunction(member.Func, memberKind(closures, ir.ModuleMemberId(id)))
	}
	return g.obj
}

// collectClosureMembers scans every function body in the module for
// MakeClosure instructions, returning the set of function members ever
// instantiated that way. A function reached only through MakeClosure
// expects an implicit captured-environment argument at call time
// (LinkFunctionKind Closure); a function only ever called by direct
// module reference needs none (Normal).
func collectClosureMembers(module *ir.Module) map[ir.ModuleMemberId]bool {
	closures := make(map[ir.ModuleMemberId]bool)
	for _, fn := range module.Functions {
		for _, b := range fn.BlockIds() {
			for _, inst := range fn.Block(b).Insts {
				if v := fn.Value(inst); v.Kind == ir.VMakeClosure {
					closures[v.FuncMember] = true
				}
			}
		}
	}
	return closures
}

func memberKind(closures map[ir.ModuleMemberId]bool, id ir.ModuleMemberId) ir.LinkFunctionKind {
	if closures[id] {
		return ir.FuncClosure
	}
	return ir.FuncNormal
}

// registerMembers creates one LinkItem per module member, in Members
// order, so link-item ids are a deterministic function of module
// structure alone (spec §8's determinism property). Function members
// additionally reserve their slot in obj.Functions up front, so a
// function's own body can reference its own (or a mutually recursive
// sibling's) link item while being compiled.
func (g *Generator) registerMembers(module *ir.Module, closures map[ir.ModuleMemberId]bool) {
	g.memberItem = make([]ir.LinkItemId, len(module.Members))
	for id, member := range module.Members {
		item := ir.LinkItem{Kind: ir.LinkDefinition, Member: ir.ModuleMemberId(id)}
		switch member.Kind {
		case ir.MemberFunction:
			item.Def = ir.DefFunction
			item.Func = len(g.obj.Functions)
			kind := memberKind(closures, ir.ModuleMemberId(id))
			g.obj.Functions = append(g.obj.Functions, ir.LinkFunction{Name: member.Name, Kind: kind})
		case ir.MemberImport:
			item.Def = ir.DefImport
			item.Name = member.Name
		case ir.MemberVariable:
			item.Def = ir.DefVariable
			item.Name = member.Name
		case ir.MemberConstant:
			item.Def, item.Int, item.Float, item.Str = constantPayload(member.Const)
		}
		g.memberItem[id] = g.internItem(item)
	}
}

// internItem appends item to the object's item table and returns its
// id. Module members are registered once each by registerMembers, so no
// dedup is needed here; dedup of in-body constants happens in
// internConst below.
func (g *Generator) internItem(item ir.LinkItem) ir.LinkItemId {
	id := ir.LinkItemId(len(g.obj.Items))
	g.obj.Items = append(g.obj.Items, item)
	return id
}

func constantPayload(c ir.Constant) (def ir.DefinitionKind, i int64, f ir.FloatConstant, s strtab.ID) {
	switch c.Kind {
	case ir.ConstInteger:
		return ir.DefInteger, c.Int, ir.FloatConstant{}, 0
	case ir.ConstFloat:
		return ir.DefFloat, 0, c.Float, 0
	case ir.ConstString:
		return ir.DefString, 0, ir.FloatConstant{}, c.Str
	case ir.ConstSymbol:
		return ir.DefSymbol, 0, ir.FloatConstant{}, c.Str
	default:
		fail("module-level constant must be Integer/Float/String/Symbol, got %v", c.Kind)
		return
	}
}

// internConst interns an in-function-body constant (spec §3.4's
// "de-duplicates definitions by value"): a linear scan using
// ir.Constant.Equal, which treats NaN as equal to itself per the IR
// data model's float dedup rule. Linear is deliberate: constant pools
// are small per spec's own "deliberately simple" allocator precedent,
// and Equal is the only correct equivalence (a map key can't use it
// directly because plain float64 NaN != NaN).
func (g *Generator) internConst(c ir.Constant) ir.LinkItemId {
	for _, e := range g.consts {
		if e.val.Equal(c) {
			return e.item
		}
	}
	def, i, f, s := constantPayload(c)
	item := g.internItem(ir.LinkItem{Kind: ir.LinkDefinition, Def: def, Int: i, Float: f, Str: s})
	g.consts = append(g.consts, internedConst{val: c, item: item})
	return item
}
