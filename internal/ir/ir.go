// Package ir implements the SSA intermediate representation of spec
// §3.3: a per-function arena of instructions and blocks addressed by
// dense numeric ids, owned exclusively by that function (no
// cross-function references, per spec §5's arena-ownership rule).
//
// Grounded on original_source/src/compiler/ir/value.hpp's Value/LValue/
// Constant/Aggregate tagged unions (there implemented as hand-rolled C++
// variant classes generated by a cog template) and on strtab.ID's
// arena-of-ids idiom already used elsewhere in this module. The ~20 C++
// union variants become a Go sum type: one Kind byte plus the payload
// fields of every variant in a single struct. Every payload is a
// handful of ids, so this "fat struct" layout is used instead of the
// C++ file's boxed-union-per-variant scheme.
package ir

import "github.com/tiro-lang/tiro/internal/strtab"

// InstId identifies one instruction within a Function's instruction
// arena. The zero value is never a valid instruction; arenas start
// numbering at 1 so a zero InstId can mean "no value" in optional
// fields (e.g. an AssertFail terminator's absent Message).
type InstId uint32

// BlockId identifies one basic block within a Function's block arena.
type BlockId uint32

// InstListId identifies an auxiliary list of InstIds (phi operands,
// call/method-call arguments, container elements) stored in a
// Function's shared list arena, so the Value variants that reference a
// variable-length operand list stay fixed-size.
type InstListId uint32

// ParamId identifies a function parameter, in declaration order.
type ParamId uint32

// ModuleMemberId identifies a member of the enclosing Module: a
// function, import, module-level variable, or interned constant.
type ModuleMemberId uint32

// RecordId identifies a record literal's field list in a Function's
// record arena.
type RecordId uint32

// SymbolId mirrors symbols.SymbolID at IR level, used by ObserveAssign
// to name the variable whose assignments are being tracked for
// exception-handler visibility.
type SymbolId uint32

// noInst is the zero InstId, meaning "absent" in optional operand
// positions.
const noInst InstId = 0

// Valid reports whether id refers to an actual instruction (as
// opposed to the "absent" zero value).
func (id InstId) Valid() bool { return id != noInst }

// Param is a function's i'th formal parameter.
type Param struct {
	Name strtab.ID
}

// Function is one compiled function: its parameter list plus the
// instruction, block, and auxiliary-list arenas spec §3.3 describes.
// Nested function literals and methods are lowered to separate
// Functions registered with the Module under their own
// ModuleMemberId, so no Function ever references another's arena
// directly (spec §5's ownership invariant).
type Function struct {
	Name   strtab.ID
	Params []Param

	insts  []instSlot
	blocks []Block
	lists  [][]InstId
	records []RecordValue

	// Entry is the function's distinguished entry block: the block with
	// no predecessors (spec §3.3's single-entry invariant).
	Entry BlockId
}

type instSlot struct {
	value Value
	block BlockId
}

// NewFunction creates an empty function with a single entry block and
// no parameters. Id 0 is reserved in every arena as the "absent" marker
// (InstId), so arenas are pre-seeded with one throwaway zero slot.
func NewFunction(name strtab.ID) *Function {
	f := &Function{
		Name:   name,
		insts:  make([]instSlot, 1),
		blocks: make([]Block, 1),
		lists:  make([][]InstId, 1),
		records: make([]RecordValue, 1),
	}
	f.Entry = f.NewBlock()
	return f
}

// NewBlock appends a new, empty block (no instructions, no
// predecessors, no terminator) and returns its id.
func (f *Function) NewBlock() BlockId {
	id := BlockId(len(f.blocks))
	f.blocks = append(f.blocks, Block{Terminator: Terminator{Kind: TermNone}})
	return id
}

// Block returns a pointer to the block identified by id, for in-place
// mutation (appending instructions, adding predecessors, setting the
// terminator).
func (f *Function) Block(id BlockId) *Block {
	return &f.blocks[id]
}

// BlockIds returns every block id in arena order (which is creation
// order, not necessarily reverse-post-order; codegen computes RPO
// separately before emission per spec §4.4).
func (f *Function) BlockIds() []BlockId {
	ids := make([]BlockId, 0, len(f.blocks)-1)
	for i := 1; i < len(f.blocks); i++ {
		ids = append(ids, BlockId(i))
	}
	return ids
}

// Emit appends a new instruction holding value, defined in block, and
// returns its id. Per spec §3.3's SSA invariant, the returned id is
// never reused as a definition target again.
func (f *Function) Emit(block BlockId, value Value) InstId {
	id := InstId(len(f.insts))
	f.insts = append(f.insts, instSlot{value: value, block: block})
	f.blocks[block].Insts = append(f.blocks[block].Insts, id)
	return id
}

// Value returns the Value held by inst.
func (f *Function) Value(inst InstId) *Value {
	return &f.insts[inst].value
}

// DefBlock returns the block that defines inst.
func (f *Function) DefBlock(inst InstId) BlockId {
	return f.insts[inst].block
}

// NewList allocates a fresh auxiliary list of instruction ids (a phi's
// operands, a call's arguments, a container's elements) and returns an
// id referencing it.
func (f *Function) NewList(elems []InstId) InstListId {
	id := InstListId(len(f.lists))
	f.lists = append(f.lists, append([]InstId(nil), elems...))
	return id
}

// List returns the elements of the list identified by id.
func (f *Function) List(id InstListId) []InstId {
	return f.lists[id]
}

// AppendList appends operand to the list identified by id, used while
// building a phi incrementally (mirroring Phi::append_operand in
// value.hpp, which grows the operand list as predecessors are
// discovered during on-the-fly SSA construction).
func (f *Function) AppendList(id InstListId, operand InstId) {
	f.lists[id] = append(f.lists[id], operand)
}

// NewRecord allocates a record literal's field list and returns an id
// referencing it.
func (f *Function) NewRecord(r RecordValue) RecordId {
	id := RecordId(len(f.records))
	f.records = append(f.records, r)
	return id
}

// Record returns the record literal identified by id.
func (f *Function) Record(id RecordId) RecordValue {
	return f.records[id]
}

// RecordValue is the field list of a Record value: a parallel Names/
// Values pair analogous to MapExpr's Entries but keyed by interned
// field name rather than an arbitrary key expression, matching
// RecordExpr's surface syntax (record { name: value, ... }).
type RecordValue struct {
	Names  []strtab.ID
	Values []InstId
}

// Block is one basic block: an ordered instruction list, a
// predecessor list (order is load-bearing: Phi operand i corresponds
// to predecessor i, per spec §3.3's phi well-formedness invariant),
// and a terminator.
type Block struct {
	Insts       []InstId
	Preds       []BlockId
	Terminator  Terminator
}

// AddPred appends pred to b's predecessor list, ignoring it if pred is
// already listed. Builders must call this
// on every successor block named by a terminator as soon as that
// terminator is set (spec §3.3: "on entry, the builder must register
// the source block into each successor's predecessor list").
func (b *Block) AddPred(pred BlockId) {
	for _, p := range b.Preds {
		if p == pred {
			return
		}
	}
	b.Preds = append(b.Preds, pred)
}

// Module groups the functions, imports, module-level variables, and
// interned constants produced by compiling one source file, each
// addressed by a ModuleMemberId (spec §3.3: "An IR module is a set of
// module members").
type Module struct {
	Strs *strtab.Table

	Functions []*Function
	Members   []ModuleMember
}

// NewModule creates an empty module sharing the given string table
// (modules never own their own string table; the compiler driver
// allocates one per compilation and passes it through every pass, per
// spec §5).
func NewModule(strs *strtab.Table) *Module {
	return &Module{Strs: strs}
}

// ModuleMemberKind discriminates Module.Members entries.
type ModuleMemberKind uint8

const (
	MemberFunction ModuleMemberKind = iota
	MemberImport
	MemberVariable
	MemberConstant
)

// ModuleMember is one top-level entry of a Module: a compiled function,
// an import reference, a module-level variable slot, or an interned
// constant, addressed elsewhere by its ModuleMemberId (its index into
// Module.Members).
type ModuleMember struct {
	Kind ModuleMemberKind
	Name strtab.ID

	// Func is set when Kind == MemberFunction.
	Func *Function

	// Const is set when Kind == MemberConstant.
	Const Constant
}

// AddFunction registers fn as a new module member and returns its id.
func (m *Module) AddFunction(fn *Function) ModuleMemberId {
	id := ModuleMemberId(len(m.Members))
	m.Functions = append(m.Functions, fn)
	m.Members = append(m.Members, ModuleMember{Kind: MemberFunction, Name: fn.Name, Func: fn})
	return id
}

// AddImport registers name as an import module member and returns its
// id.
func (m *Module) AddImport(name strtab.ID) ModuleMemberId {
	id := ModuleMemberId(len(m.Members))
	m.Members = append(m.Members, ModuleMember{Kind: MemberImport, Name: name})
	return id
}

// AddVariable registers a module-level variable named name and returns
// its id.
func (m *Module) AddVariable(name strtab.ID) ModuleMemberId {
	id := ModuleMemberId(len(m.Members))
	m.Members = append(m.Members, ModuleMember{Kind: MemberVariable, Name: name})
	return id
}

// AddConstant registers c as an interned constant module member and
// returns its id.
func (m *Module) AddConstant(c Constant) ModuleMemberId {
	id := ModuleMemberId(len(m.Members))
	m.Members = append(m.Members, ModuleMember{Kind: MemberConstant, Const: c})
	return id
}
