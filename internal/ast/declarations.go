package ast

func (*FuncDecl) declNode()   {}
func (*ImportDecl) declNode() {}

func (n *FuncDecl) Kind() Kind   { return KFuncDecl }
func (n *ImportDecl) Kind() Kind { return KImportDecl }

// FuncDecl is a named top-level (or nested) function. A nested FuncDecl
// lowers to its own IR function, registered under a fresh
// ModuleMemberId, exactly like a FuncLit (spec §4.3).
type FuncDecl struct {
	Base
	Name   string
	Params []*Param
	Body   *BlockStmt
}

// ImportDecl is `import name;`. Imports live in file scope (spec §4.2).
type ImportDecl struct {
	Base
	Name string
}

// File is the parser's top-level output: always present, even for a
// source text that produced only errors (spec §4.1's failure semantics).
type File struct {
	Base
	Decls []Decl
	Stmts []Stmt // top-level statements outside any function
}

func (n *File) Kind() Kind { return KFile }
