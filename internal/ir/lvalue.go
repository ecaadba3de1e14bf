package ir

import "github.com/tiro-lang/tiro/internal/strtab"

// LValueKind discriminates LValue's variants (value.hpp's LValueType).
type LValueKind uint8

const (
	LValParam LValueKind = iota
	LValClosure
	LValModule
	LValField
	LValTupleField
	LValIndex
)

func (k LValueKind) String() string {
	switch k {
	case LValParam:
		return "Param"
	case LValClosure:
		return "Closure"
	case LValModule:
		return "Module"
	case LValField:
		return "Field"
	case LValTupleField:
		return "TupleField"
	case LValIndex:
		return "Index"
	default:
		return "LValue(?)"
	}
}

// LValue is an assignable storage location (spec §3.3). Unlike Value,
// LValues are not themselves SSA instructions: they describe where a
// Read or Write instruction's effect lands, and may alias storage
// shared with the rest of the program, so they carry no InstId of
// their own.
//
// Grounded directly on value.hpp's LValue variant class: each C++
// nested struct (Param/Closure/Module/Field/TupleField/Index) becomes
// one group of Go fields below, selected by Kind.
type LValue struct {
	Kind LValueKind

	// Param (Kind == LValParam): the target argument.
	Param ParamId

	// Closure (Kind == LValClosure): env is the environment instruction
	// to search (a local variable or the function's outer environment),
	// Levels is how many environment links to follow outward (0 is the
	// closure environment itself), Index is the slot within it.
	Env    InstId
	Levels uint32
	Index  uint32

	// Module (Kind == LValModule): the module-level variable.
	Member ModuleMemberId

	// Field (Kind == LValField): object.Name.
	Object InstId
	Name   strtab.ID

	// TupleField (Kind == LValTupleField): object.TupleIndex (a constant
	// tuple index, i.e. `tuple.3`), reusing Object above.
	TupleIndex uint32

	// Index (Kind == LValIndex): object[IndexOperand].
	IndexOperand InstId
}

func LParam(target ParamId) LValue { return LValue{Kind: LValParam, Param: target} }

func LClosure(env InstId, levels, index uint32) LValue {
	return LValue{Kind: LValClosure, Env: env, Levels: levels, Index: index}
}

func LModule(member ModuleMemberId) LValue { return LValue{Kind: LValModule, Member: member} }

func LField(object InstId, name strtab.ID) LValue {
	return LValue{Kind: LValField, Object: object, Name: name}
}

func LTupleField(object InstId, index uint32) LValue {
	return LValue{Kind: LValTupleField, Object: object, TupleIndex: index}
}

func LIndex(object, index InstId) LValue {
	return LValue{Kind: LValIndex, Object: object, IndexOperand: index}
}
