// Package ast defines the typed tree the parser produces (spec §3.1).
//
// Every node embeds Base, which carries the three cross-cutting
// properties spec §3.1 requires of every node: a unique id (keys side
// tables owned by the symbol table and the IR builder), a source span,
// and an error flag that propagates from partially-recovered parses.
// Child slots are fixed per kind and owned exclusively by their parent,
// following go-dws's interface-per-category AST generalized with the
// id/span/error-flag triple spec.md adds.
package ast

import "github.com/tiro-lang/tiro/internal/token"

// NodeID uniquely identifies a node within one compilation.
type NodeID uint32

// Kind is the closed set of concrete node kinds. Kind is used instead of
// a CRTP-style visitor (spec §9): passes exhaustively switch over it.
type Kind int

const (
	KInvalid Kind = iota

	// Literals
	KIntLiteral
	KFloatLiteral
	KStringLiteral
	KBoolLiteral
	KNullLiteral
	KInterpolatedString

	// Expressions
	KIdent
	KBinaryExpr
	KUnaryExpr
	KAssignExpr
	KCompoundAssignExpr
	KCallExpr
	KMethodCallExpr
	KFieldExpr
	KIndexExpr
	KIfExpr
	KTupleExpr
	KArrayExpr
	KSetExpr
	KMapExpr
	KMapEntry
	KRecordExpr
	KRecordField
	KFuncLit

	// Statements
	KBlockStmt
	KExprStmt
	KVarDecl
	KConstDecl
	KWhileStmt
	KForStmt
	KForInStmt
	KBreakStmt
	KContinueStmt
	KReturnStmt
	KAssertStmt

	// Declarations / top level
	KFuncDecl
	KImportDecl
	KFile

	// Binding patterns
	KNameBinding
	KTupleBinding
)

// AccessType distinguishes `.name`/`[idx]`/`(args)` from their optional
// `?.`/`?[`/`?(` forms, per spec §4.1.
type AccessType int

const (
	Direct AccessType = iota
	Optional
)

// Base is embedded by every concrete node and supplies the id/span/error
// triple spec §3.1 requires.
type Base struct {
	ID       NodeID
	Span     token.Span
	HasError bool
}

func (b *Base) NodePos() token.Span { return b.Span }

// Node is implemented by every AST node.
type Node interface {
	Kind() Kind
	Pos() token.Span
	ErrorFlag() bool
	SetErrorFlag(bool)
}

// Expr is implemented by every expression node — a node that, per
// spec §4.2, may be categorized Value/None/Never.
type Expr interface {
	Node
	exprNode()
}

// Stmt is implemented by every statement node.
type Stmt interface {
	Node
	stmtNode()
}

// Decl is implemented by every top-level declaration.
type Decl interface {
	Node
	declNode()
}

// Binding is implemented by the LHS pattern of a var/const declaration:
// either a single name or a tuple-unpacking pattern (spec §8 scenario 3).
type Binding interface {
	Node
	bindingNode()
}

func (b *Base) Pos() token.Span     { return b.Span }
func (b *Base) ErrorFlag() bool     { return b.HasError }
func (b *Base) SetErrorFlag(v bool) { b.HasError = v }
