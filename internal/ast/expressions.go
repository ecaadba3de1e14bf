package ast

import (
	"github.com/tiro-lang/tiro/internal/strtab"
	"github.com/tiro-lang/tiro/internal/token"
)

func (*IntLiteral) exprNode()           {}
func (*FloatLiteral) exprNode()         {}
func (*StringLiteral) exprNode()        {}
func (*BoolLiteral) exprNode()          {}
func (*NullLiteral) exprNode()          {}
func (*InterpolatedString) exprNode()   {}
func (*Ident) exprNode()                {}
func (*BinaryExpr) exprNode()           {}
func (*UnaryExpr) exprNode()            {}
func (*AssignExpr) exprNode()           {}
func (*CompoundAssignExpr) exprNode()   {}
func (*CallExpr) exprNode()             {}
func (*MethodCallExpr) exprNode()       {}
func (*FieldExpr) exprNode()            {}
func (*IndexExpr) exprNode()            {}
func (*IfExpr) exprNode()               {}
func (*TupleExpr) exprNode()            {}
func (*ArrayExpr) exprNode()            {}
func (*SetExpr) exprNode()              {}
func (*MapExpr) exprNode()              {}
func (*RecordExpr) exprNode()           {}
func (*FuncLit) exprNode()              {}

func (n *IntLiteral) Kind() Kind         { return KIntLiteral }
func (n *FloatLiteral) Kind() Kind       { return KFloatLiteral }
func (n *StringLiteral) Kind() Kind      { return KStringLiteral }
func (n *BoolLiteral) Kind() Kind        { return KBoolLiteral }
func (n *NullLiteral) Kind() Kind        { return KNullLiteral }
func (n *InterpolatedString) Kind() Kind { return KInterpolatedString }
func (n *Ident) Kind() Kind              { return KIdent }
func (n *BinaryExpr) Kind() Kind         { return KBinaryExpr }
func (n *UnaryExpr) Kind() Kind          { return KUnaryExpr }
func (n *AssignExpr) Kind() Kind         { return KAssignExpr }
func (n *CompoundAssignExpr) Kind() Kind { return KCompoundAssignExpr }
func (n *CallExpr) Kind() Kind           { return KCallExpr }
func (n *MethodCallExpr) Kind() Kind     { return KMethodCallExpr }
func (n *FieldExpr) Kind() Kind          { return KFieldExpr }
func (n *IndexExpr) Kind() Kind          { return KIndexExpr }
func (n *IfExpr) Kind() Kind             { return KIfExpr }
func (n *TupleExpr) Kind() Kind          { return KTupleExpr }
func (n *ArrayExpr) Kind() Kind          { return KArrayExpr }
func (n *SetExpr) Kind() Kind            { return KSetExpr }
func (n *MapExpr) Kind() Kind            { return KMapExpr }
func (n *RecordExpr) Kind() Kind         { return KRecordExpr }
func (n *FuncLit) Kind() Kind            { return KFuncLit }

// BinaryOp enumerates binary operators, ordered to mirror spec §4.1's
// precedence table (levels 1-12).
type BinaryOp int

const (
	OpOrOr BinaryOp = iota
	OpAndAnd
	OpNullCoalesce
	OpBitOr
	OpBitXor
	OpBitAnd
	OpEq
	OpNeq
	OpLt
	OpLte
	OpGt
	OpGte
	OpShl
	OpShr
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
	OpPow
)

// UnaryOp enumerates prefix unary operators (spec §4.1 level 13).
type UnaryOp int

const (
	OpUnaryPlus UnaryOp = iota
	OpUnaryMinus
	OpUnaryNot
	OpUnaryBitNot
)

// CompoundOp enumerates the six compound-assignment operators of spec
// §4.1 level 0 (everything but plain `=`).
type CompoundOp int

const (
	OpAddAssign CompoundOp = iota
	OpSubAssign
	OpMulAssign
	OpDivAssign
	OpModAssign
	OpPowAssign
)

// IntLiteral is an integer literal.
type IntLiteral struct {
	Base
	Value int64
}

// FloatLiteral is a floating-point literal. Per spec §9, NaN compares
// equal to itself when this literal reaches the IR constant pool.
type FloatLiteral struct {
	Base
	Value float64
}

// StringLiteral is a non-interpolated string literal, produced either
// directly or by the semantic analyzer's adjacent-literal simplification
// (spec §4.2).
type StringLiteral struct {
	Base
	Value string
	ID    strtab.ID
}

// BoolLiteral is the `true`/`false` literal.
type BoolLiteral struct {
	Base
	Value bool
}

// NullLiteral is the `null` literal.
type NullLiteral struct{ Base }

// InterpolatedString is a flattened sequence of alternating literal
// fragments and embedded expressions, the simplifier's output form for
// a StringGroupExpr (spec §4.2). Pieces[i] is a literal *StringLiteral*
// or Expr; Literal[i] reports which.
type InterpolatedString struct {
	Base
	Pieces  []Expr // either *StringLiteral or any other Expr
	Literal []bool
}

// Ident references a name: a variable, parameter, function, or constant.
// The semantic analyzer resolves it to a SymbolRef (internal/symbols).
type Ident struct {
	Base
	Name string
}

// BinaryExpr is `lhs op rhs` for any of the level 1-12 operators.
type BinaryExpr struct {
	Base
	Op          BinaryOp
	Left, Right Expr
}

// UnaryExpr is a prefix unary operator application.
type UnaryExpr struct {
	Base
	Op      UnaryOp
	Operand Expr
}

// AssignExpr is `lvalue = rhs`. Per spec §9's resolved open question,
// assignment evaluates lvalue sub-expressions (e.g. the object/index of
// a Field/Index target) before rhs.
type AssignExpr struct {
	Base
	Target Expr
	Value  Expr
}

// CompoundAssignExpr is `lvalue op= rhs`; the lvalue is evaluated exactly
// once (spec §4.3 lowering table).
type CompoundAssignExpr struct {
	Base
	Op     CompoundOp
	Target Expr
	Value  Expr
}

// CallExpr is `callee(args...)`.
type CallExpr struct {
	Base
	Callee Expr
	Args   []Expr
	Access AccessType // Optional for `?(`
}

// MethodCallExpr is `receiver.name(args...)`, kept distinct from a plain
// CallExpr so the IR builder can emit the virtual (instance, method)
// aggregate spec §3.3 describes.
type MethodCallExpr struct {
	Base
	Receiver Expr
	Name     string
	Args     []Expr
	Access   AccessType
}

// FieldExpr is `object.name` (Direct) or `object?.name` (Optional).
type FieldExpr struct {
	Base
	Object Expr
	Name   string
	Access AccessType
}

// IndexExpr is `object[index]` (Direct) or `object?[index]` (Optional).
type IndexExpr struct {
	Base
	Object Expr
	Index  Expr
	Access AccessType
}

// IfExpr is `if (cond) { then } [else { else }]`. Its expression
// category depends on both arms per spec §4.2.
type IfExpr struct {
	Base
	Cond Expr
	Then Expr
	Else Expr // nil if no else arm
}

// TupleExpr is a tuple literal: `()`, `(e,)`, or `(e, e', ...)`.
type TupleExpr struct {
	Base
	Elements []Expr
}

// ArrayExpr is an array literal `[e, ...]`.
type ArrayExpr struct {
	Base
	Elements []Expr
}

// SetExpr is a set literal.
type SetExpr struct {
	Base
	Elements []Expr
}

// MapExpr is a map literal; Entries are key/value pairs.
type MapExpr struct {
	Base
	Entries []*MapEntry
}

// MapEntry is one `key: value` pair of a MapExpr.
type MapEntry struct {
	Base
	Key, Value Expr
}

func (*MapEntry) exprNode()    {}
func (n *MapEntry) Kind() Kind { return KMapEntry }

// RecordExpr is a record literal `record { field: value, ... }`. The
// leading keyword disambiguates it from a MapExpr, which shares the
// bare `{ key: value, ... }` bracketing.
type RecordExpr struct {
	Base
	Fields []*RecordField
}

// RecordField is one `name: value` pair of a RecordExpr.
type RecordField struct {
	Base
	Name  string
	Value Expr
}

func (*RecordField) exprNode()    {}
func (n *RecordField) Kind() Kind { return KRecordField }

// FuncLit is an anonymous function expression: `func(params) { body }`.
// When its body references outer-scope names, the semantic analyzer
// marks it as capturing and the IR builder allocates a closure
// environment for it (spec §4.3).
type FuncLit struct {
	Base
	Params []*Param
	Body   *BlockStmt
}

// Param is one formal parameter of a function. It is not itself a Node:
// it only ever appears inside a FuncDecl/FuncLit's Params slice.
type Param struct {
	Span token.Span
	Name string
}
