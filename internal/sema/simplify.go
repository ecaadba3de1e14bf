package sema

import "github.com/tiro-lang/tiro/internal/ast"

// simplifyFile canonicalizes string literal sequences (spec §4.2,
// "simplifies literal strings"): adjacent literal fragments of an
// InterpolatedString are merged into one *ast.StringLiteral, and an
// InterpolatedString left with a single literal piece collapses to that
// piece directly. Every Expr-typed field in the tree is revisited so a
// nested interpolation (inside a call argument, array element, etc.)
// gets the same treatment; this mirrors go-dws's per-concern analysis
// pass structure (one rewrite pass, run before categorization).
func simplifyFile(a *Analyzer, f *ast.File) {
	for _, d := range f.Decls {
		if fd, ok := d.(*ast.FuncDecl); ok {
			simplifyBlock(a, fd.Body)
		}
	}
	for i, s := range f.Stmts {
		f.Stmts[i] = simplifyStmt(a, s)
	}
}

func simplifyBlock(a *Analyzer, b *ast.BlockStmt) {
	for i, s := range b.Stmts {
		b.Stmts[i] = simplifyStmt(a, s)
	}
}

func simplifyStmt(a *Analyzer, s ast.Stmt) ast.Stmt {
	switch t := s.(type) {
	case *ast.BlockStmt:
		simplifyBlock(a, t)
	case *ast.ExprStmt:
		t.X = simplifyExpr(a, t.X)
	case *ast.VarDecl:
		if t.Init != nil {
			t.Init = simplifyExpr(a, t.Init)
		}
	case *ast.ConstDecl:
		t.Init = simplifyExpr(a, t.Init)
	case *ast.WhileStmt:
		t.Cond = simplifyExpr(a, t.Cond)
		simplifyBlock(a, t.Body)
	case *ast.ForStmt:
		if t.Init != nil {
			t.Init = simplifyStmt(a, t.Init)
		}
		if t.Cond != nil {
			t.Cond = simplifyExpr(a, t.Cond)
		}
		if t.Step != nil {
			t.Step = simplifyStmt(a, t.Step)
		}
		simplifyBlock(a, t.Body)
	case *ast.ForInStmt:
		t.Iterable = simplifyExpr(a, t.Iterable)
		simplifyBlock(a, t.Body)
	case *ast.ReturnStmt:
		if t.Value != nil {
			t.Value = simplifyExpr(a, t.Value)
		}
	case *ast.AssertStmt:
		t.Cond = simplifyExpr(a, t.Cond)
		if t.Message != nil {
			t.Message = simplifyExpr(a, t.Message)
		}
	}
	return s
}

func simplifyExpr(a *Analyzer, e ast.Expr) ast.Expr {
	if e == nil {
		return nil
	}
	switch t := e.(type) {
	case *ast.InterpolatedString:
		return simplifyInterpolated(a, t)
	case *ast.BinaryExpr:
		t.Left = simplifyExpr(a, t.Left)
		t.Right = simplifyExpr(a, t.Right)
	case *ast.UnaryExpr:
		t.Operand = simplifyExpr(a, t.Operand)
	case *ast.AssignExpr:
		t.Target = simplifyExpr(a, t.Target)
		t.Value = simplifyExpr(a, t.Value)
	case *ast.CompoundAssignExpr:
		t.Target = simplifyExpr(a, t.Target)
		t.Value = simplifyExpr(a, t.Value)
	case *ast.CallExpr:
		t.Callee = simplifyExpr(a, t.Callee)
		for i, arg := range t.Args {
			t.Args[i] = simplifyExpr(a, arg)
		}
	case *ast.MethodCallExpr:
		t.Receiver = simplifyExpr(a, t.Receiver)
		for i, arg := range t.Args {
			t.Args[i] = simplifyExpr(a, arg)
		}
	case *ast.FieldExpr:
		t.Object = simplifyExpr(a, t.Object)
	case *ast.IndexExpr:
		t.Object = simplifyExpr(a, t.Object)
		t.Index = simplifyExpr(a, t.Index)
	case *ast.IfExpr:
		t.Cond = simplifyExpr(a, t.Cond)
		t.Then = simplifyArm(a, t.Then)
		if t.Else != nil {
			t.Else = simplifyArm(a, t.Else)
		}
	case *ast.TupleExpr:
		for i, el := range t.Elements {
			t.Elements[i] = simplifyExpr(a, el)
		}
	case *ast.ArrayExpr:
		for i, el := range t.Elements {
			t.Elements[i] = simplifyExpr(a, el)
		}
	case *ast.SetExpr:
		for i, el := range t.Elements {
			t.Elements[i] = simplifyExpr(a, el)
		}
	case *ast.MapExpr:
		for _, ent := range t.Entries {
			ent.Key = simplifyExpr(a, ent.Key)
			ent.Value = simplifyExpr(a, ent.Value)
		}
	case *ast.RecordExpr:
		for _, f := range t.Fields {
			f.Value = simplifyExpr(a, f.Value)
		}
	case *ast.FuncLit:
		simplifyBlock(a, t.Body)
	}
	return e
}

func simplifyArm(a *Analyzer, e ast.Expr) ast.Expr {
	if bs, ok := e.(*ast.BlockStmt); ok {
		simplifyBlock(a, bs)
		return bs
	}
	return simplifyExpr(a, e)
}

// simplifyInterpolated merges consecutive literal pieces and collapses a
// wholly-literal result to a plain *ast.StringLiteral.
func simplifyInterpolated(a *Analyzer, t *ast.InterpolatedString) ast.Expr {
	var pieces []ast.Expr
	var literal []bool

	for i, p := range t.Pieces {
		p = simplifyExpr(a, p)
		if t.Literal[i] && len(pieces) > 0 && literal[len(literal)-1] {
			prev := pieces[len(pieces)-1].(*ast.StringLiteral)
			cur := p.(*ast.StringLiteral)
			merged := prev.Value + cur.Value
			prev.Value = merged
			prev.ID = a.Strs.Intern(merged)
			prev.Span.End = cur.Span.End
			continue
		}
		pieces = append(pieces, p)
		literal = append(literal, t.Literal[i])
	}

	if len(pieces) == 0 {
		return &ast.StringLiteral{Base: t.Base, Value: "", ID: a.Strs.Intern("")}
	}
	if len(pieces) == 1 && literal[0] {
		lit := pieces[0].(*ast.StringLiteral)
		lit.Span = t.Span
		lit.HasError = lit.HasError || t.HasError
		return lit
	}

	t.Pieces = pieces
	t.Literal = literal
	return t
}
