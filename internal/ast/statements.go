package ast

func (*BlockStmt) stmtNode() {}

// BlockStmt also implements Expr: per spec §4.2 a block is itself
// Value-categorized when used in expression position (an if-expression's
// arms), so it can appear directly as an IfExpr.Then/Else without a
// separate wrapper node.
func (*BlockStmt) exprNode() {}
func (*ExprStmt) stmtNode()     {}
func (*VarDecl) stmtNode()      {}
func (*ConstDecl) stmtNode()    {}
func (*WhileStmt) stmtNode()    {}
func (*ForStmt) stmtNode()      {}
func (*ForInStmt) stmtNode()    {}
func (*BreakStmt) stmtNode()    {}
func (*ContinueStmt) stmtNode() {}
func (*ReturnStmt) stmtNode()   {}
func (*AssertStmt) stmtNode()   {}

func (n *BlockStmt) Kind() Kind    { return KBlockStmt }
func (n *ExprStmt) Kind() Kind     { return KExprStmt }
func (n *VarDecl) Kind() Kind      { return KVarDecl }
func (n *ConstDecl) Kind() Kind    { return KConstDecl }
func (n *WhileStmt) Kind() Kind    { return KWhileStmt }
func (n *ForStmt) Kind() Kind      { return KForStmt }
func (n *ForInStmt) Kind() Kind    { return KForInStmt }
func (n *BreakStmt) Kind() Kind    { return KBreakStmt }
func (n *ContinueStmt) Kind() Kind { return KContinueStmt }
func (n *ReturnStmt) Kind() Kind   { return KReturnStmt }
func (n *AssertStmt) Kind() Kind   { return KAssertStmt }

// BlockStmt is `{ stmt... }`. Per spec §4.2, a block is Value-categorized
// iff its last statement is an expression statement of Value category.
type BlockStmt struct {
	Base
	Stmts []Stmt
}

// ExprStmt wraps an expression used in statement position.
type ExprStmt struct {
	Base
	X Expr
}

// VarDecl is `var <binding> [= init];`. Per spec §9's resolved open
// question, a declaration evaluates its initializer *before* writing to
// target bindings (rhs-before-targets), the opposite order from a plain
// AssignExpr.
type VarDecl struct {
	Base
	Target Binding
	Init   Expr // nil if no initializer
}

// ConstDecl is `const <binding> = init;`; init is required.
type ConstDecl struct {
	Base
	Target Binding
	Init   Expr
}

// WhileStmt is `while (cond) { body }`.
type WhileStmt struct {
	Base
	Cond Expr
	Body *BlockStmt
}

// ForStmt is the C-style three-clause loop; the IR builder desugars it
// to a WhileStmt-shaped lowering per spec §4.3's table.
type ForStmt struct {
	Base
	Init Stmt // may be nil
	Cond Expr // may be nil (infinite loop)
	Step Stmt // may be nil
	Body *BlockStmt
}

// ForInStmt is `for (binding) in iterable { body }`, a feature recovered
// from original_source/ (SPEC_FULL §4) and desugared by the IR builder
// via MakeIterator (spec §3.3).
type ForInStmt struct {
	Base
	Target   Binding
	Iterable Expr
	Body     *BlockStmt
}

// BreakStmt exits the innermost enclosing loop.
type BreakStmt struct{ Base }

// ContinueStmt jumps to the innermost enclosing loop's continuation.
type ContinueStmt struct{ Base }

// ReturnStmt returns from the enclosing function, optionally with a
// value.
type ReturnStmt struct {
	Base
	Value Expr // nil for a bare `return;`
}

// AssertStmt checks Cond and, if false, terminates with Message (spec
// §3.3's AssertFail terminator).
type AssertStmt struct {
	Base
	Cond    Expr
	Message Expr // nil if no message given
}
