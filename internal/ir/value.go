package ir

// ValueKind discriminates Value's variants (value.hpp's ValueType).
type ValueKind uint8

const (
	VRead ValueKind = iota
	VWrite
	VAlias
	VPhi
	VObserveAssign
	VPublishAssign
	VConstant
	VOuterEnvironment
	VBinaryOp
	VUnaryOp
	VCall
	VAggregate
	VGetAggregateMember
	VMethodCall
	VMakeEnvironment
	VMakeClosure
	VMakeIterator
	VRecord
	VContainer
	VFormat
	VError
	VNop
)

func (k ValueKind) String() string {
	switch k {
	case VRead:
		return "Read"
	case VWrite:
		return "Write"
	case VAlias:
		return "Alias"
	case VPhi:
		return "Phi"
	case VObserveAssign:
		return "ObserveAssign"
	case VPublishAssign:
		return "PublishAssign"
	case VConstant:
		return "Constant"
	case VOuterEnvironment:
		return "OuterEnvironment"
	case VBinaryOp:
		return "BinaryOp"
	case VUnaryOp:
		return "UnaryOp"
	case VCall:
		return "Call"
	case VAggregate:
		return "Aggregate"
	case VGetAggregateMember:
		return "GetAggregateMember"
	case VMethodCall:
		return "MethodCall"
	case VMakeEnvironment:
		return "MakeEnvironment"
	case VMakeClosure:
		return "MakeClosure"
	case VMakeIterator:
		return "MakeIterator"
	case VRecord:
		return "Record"
	case VContainer:
		return "Container"
	case VFormat:
		return "Format"
	case VError:
		return "Error"
	case VNop:
		return "Nop"
	default:
		return "Value(?)"
	}
}

// Value is the payload of one IR instruction (spec §3.3). It is a
// single fat struct rather than the boxed-per-variant union value.hpp
// implements in C++: every variant's payload here is one or two small
// ids, so inlining them all avoids both the allocation the C++ union
// needs for non-trivial members (Phi, Constant::String) and the
// visitor-dispatch ceremony that union requires callers to go through.
// Callers switch on Kind directly; field names are grouped by variant
// in the comments below, mirroring value.hpp's nested-struct members
// one for one.
type Value struct {
	Kind ValueKind

	// Read (Kind == VRead): target.
	// Write (Kind == VWrite): target, Operand (the new value).
	Target LValue

	// Alias (Kind == VAlias): Operand (the aliased instruction).
	// OuterEnvironment carries no payload.

	// Phi (Kind == VPhi): Operands, one per predecessor, same order as
	// the defining block's Preds.
	Operands InstListId

	// ObserveAssign (Kind == VObserveAssign): Symbol, Operands (a list
	// of PublishAssign values for that symbol).
	// PublishAssign (Kind == VPublishAssign): Symbol, Operand (new SSA
	// value).
	Symbol SymbolId

	// Constant (Kind == VConstant).
	Const Constant

	// BinaryOp (Kind == VBinaryOp): BinOp, Left, Right.
	BinOp       BinaryOpType
	Left, Right InstId

	// UnaryOp (Kind == VUnaryOp): UnOp, Operand.
	UnOp UnaryOpType

	// Operand is shared by Write (new value), Alias (aliased
	// instruction), UnaryOp (operand), GetAggregateMember (aggregate),
	// MakeIterator (container), PublishAssign (new value).
	Operand InstId

	// Call (Kind == VCall): Func, Args.
	// MethodCall (Kind == VMethodCall): Func (the method value), Args.
	Func InstId
	Args InstListId

	// Aggregate (Kind == VAggregate).
	Agg Aggregate

	// GetAggregateMember (Kind == VGetAggregateMember): Operand
	// (aggregate), Member.
	Member AggregateMember

	// MakeEnvironment (Kind == VMakeEnvironment): Parent, Size.
	Parent InstId
	Size   uint32

	// MakeClosure (Kind == VMakeClosure): Env, FuncMember.
	Env        InstId
	FuncMember ModuleMemberId

	// Record (Kind == VRecord): RecordVal.
	RecordVal RecordId

	// Container (Kind == VContainer): ContainerKind, Args (reuses Args
	// above).
	ContainerKind ContainerType

	// Format (Kind == VFormat): Args (reuses Args above: the pieces to
	// concatenate).
}

func NewRead(target LValue) Value { return Value{Kind: VRead, Target: target} }

func NewWrite(target LValue, value InstId) Value {
	return Value{Kind: VWrite, Target: target, Operand: value}
}

func NewAlias(target InstId) Value { return Value{Kind: VAlias, Operand: target} }

func NewPhi(operands InstListId) Value { return Value{Kind: VPhi, Operands: operands} }

func NewObserveAssign(symbol SymbolId, operands InstListId) Value {
	return Value{Kind: VObserveAssign, Symbol: symbol, Operands: operands}
}

func NewPublishAssign(symbol SymbolId, value InstId) Value {
	return Value{Kind: VPublishAssign, Symbol: symbol, Operand: value}
}

func NewConstant(c Constant) Value { return Value{Kind: VConstant, Const: c} }

func NewOuterEnvironment() Value { return Value{Kind: VOuterEnvironment} }

func NewBinaryOp(op BinaryOpType, left, right InstId) Value {
	return Value{Kind: VBinaryOp, BinOp: op, Left: left, Right: right}
}

func NewUnaryOp(op UnaryOpType, operand InstId) Value {
	return Value{Kind: VUnaryOp, UnOp: op, Operand: operand}
}

func NewCall(fn InstId, args InstListId) Value {
	return Value{Kind: VCall, Func: fn, Args: args}
}

func NewAggregateValue(agg Aggregate) Value { return Value{Kind: VAggregate, Agg: agg} }

func NewGetAggregateMember(agg InstId, member AggregateMember) Value {
	return Value{Kind: VGetAggregateMember, Operand: agg, Member: member}
}

func NewMethodCall(method InstId, args InstListId) Value {
	return Value{Kind: VMethodCall, Func: method, Args: args}
}

func NewMakeEnvironment(parent InstId, size uint32) Value {
	return Value{Kind: VMakeEnvironment, Parent: parent, Size: size}
}

func NewMakeClosure(env InstId, fn ModuleMemberId) Value {
	return Value{Kind: VMakeClosure, Env: env, FuncMember: fn}
}

func NewMakeIterator(container InstId) Value {
	return Value{Kind: VMakeIterator, Operand: container}
}

func NewRecordValue(r RecordId) Value { return Value{Kind: VRecord, RecordVal: r} }

func NewContainer(kind ContainerType, args InstListId) Value {
	return Value{Kind: VContainer, ContainerKind: kind, Args: args}
}

func NewFormat(args InstListId) Value { return Value{Kind: VFormat, Args: args} }

func NewErrorValue() Value { return Value{Kind: VError} }

func NewNop() Value { return Value{Kind: VNop} }
