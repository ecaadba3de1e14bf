package ast

// Visitor is called once per node during Walk. If Visit returns a
// non-nil Visitor, Walk uses it to visit the node's children; if it
// returns nil, the children are skipped.
//
// go-dws generates a visitor of this shape with cmd/gen-visitor from a
// node-kind catalogue; here the same traversal is hand-written as one
// exhaustive switch over Kind() (spec §9: "exhaustive match over kind
// tags replaces the visitor" in a sum-type language).
type Visitor interface {
	Visit(n Node) Visitor
}

// Walk traverses the AST rooted at n in depth-first, child-slot order.
func Walk(v Visitor, n Node) {
	if n == nil {
		return
	}
	v = v.Visit(n)
	if v == nil {
		return
	}

	switch t := n.(type) {
	case *File:
		for _, d := range t.Decls {
			Walk(v, d)
		}
		for _, s := range t.Stmts {
			Walk(v, s)
		}
	case *FuncDecl:
		walkBlock(v, t.Body)
	case *ImportDecl:
		// leaf
	case *BlockStmt:
		for _, s := range t.Stmts {
			Walk(v, s)
		}
	case *ExprStmt:
		Walk(v, t.X)
	case *VarDecl:
		walkBinding(v, t.Target)
		Walk(v, t.Init)
	case *ConstDecl:
		walkBinding(v, t.Target)
		Walk(v, t.Init)
	case *WhileStmt:
		Walk(v, t.Cond)
		walkBlock(v, t.Body)
	case *ForStmt:
		Walk(v, t.Init)
		Walk(v, t.Cond)
		Walk(v, t.Step)
		walkBlock(v, t.Body)
	case *ForInStmt:
		walkBinding(v, t.Target)
		Walk(v, t.Iterable)
		walkBlock(v, t.Body)
	case *BreakStmt, *ContinueStmt:
		// leaf
	case *ReturnStmt:
		Walk(v, t.Value)
	case *AssertStmt:
		Walk(v, t.Cond)
		Walk(v, t.Message)

	case *IntLiteral, *FloatLiteral, *StringLiteral, *BoolLiteral, *NullLiteral, *Ident:
		// leaf
	case *InterpolatedString:
		for _, p := range t.Pieces {
			Walk(v, p)
		}
	case *BinaryExpr:
		Walk(v, t.Left)
		Walk(v, t.Right)
	case *UnaryExpr:
		Walk(v, t.Operand)
	case *AssignExpr:
		Walk(v, t.Target)
		Walk(v, t.Value)
	case *CompoundAssignExpr:
		Walk(v, t.Target)
		Walk(v, t.Value)
	case *CallExpr:
		Walk(v, t.Callee)
		for _, a := range t.Args {
			Walk(v, a)
		}
	case *MethodCallExpr:
		Walk(v, t.Receiver)
		for _, a := range t.Args {
			Walk(v, a)
		}
	case *FieldExpr:
		Walk(v, t.Object)
	case *IndexExpr:
		Walk(v, t.Object)
		Walk(v, t.Index)
	case *IfExpr:
		Walk(v, t.Cond)
		Walk(v, t.Then)
		Walk(v, t.Else)
	case *TupleExpr:
		for _, e := range t.Elements {
			Walk(v, e)
		}
	case *ArrayExpr:
		for _, e := range t.Elements {
			Walk(v, e)
		}
	case *SetExpr:
		for _, e := range t.Elements {
			Walk(v, e)
		}
	case *MapExpr:
		for _, e := range t.Entries {
			Walk(v, e)
		}
	case *MapEntry:
		Walk(v, t.Key)
		Walk(v, t.Value)
	case *RecordExpr:
		for _, f := range t.Fields {
			Walk(v, f)
		}
	case *RecordField:
		Walk(v, t.Value)
	case *FuncLit:
		walkBlock(v, t.Body)
	}
}

func walkBlock(v Visitor, b *BlockStmt) {
	if b == nil {
		return
	}
	Walk(v, b)
}

func walkBinding(v Visitor, b Binding) {
	if b == nil {
		return
	}
	Walk(v, b)
	if tb, ok := b.(*TupleBinding); ok {
		for _, e := range tb.Elements {
			walkBinding(v, e)
		}
	}
}

type inspector func(Node) bool

func (f inspector) Visit(n Node) Visitor {
	if f(n) {
		return f
	}
	return nil
}

// Inspect traverses the tree rooted at n, calling f for each node. If f
// returns false, Inspect does not recurse into that node's children.
func Inspect(n Node, f func(Node) bool) {
	Walk(inspector(f), n)
}
