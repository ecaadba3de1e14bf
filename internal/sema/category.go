package sema

import "github.com/tiro-lang/tiro/internal/ast"

// categorizeFile computes the expression category of every expression
// reachable from f, reporting a diagnostic wherever a None-categorized
// expression appears where spec §4.2 requires a value.
func categorizeFile(a *Analyzer, f *ast.File) {
	for _, d := range f.Decls {
		if fd, ok := d.(*ast.FuncDecl); ok {
			categorizeBlock(a, fd.Body)
		}
	}
	for _, s := range f.Stmts {
		categorizeStmt(a, s)
	}
}

// categorize returns e's category, computing and memoizing it if this
// is the first visit. Children are visited first so compound
// expressions can fold their operands' categories per spec §4.2's rules.
func categorize(a *Analyzer, e ast.Expr) Category {
	if e == nil {
		return None
	}
	if c, ok := a.categories[e]; ok {
		return c
	}

	var c Category
	switch t := e.(type) {
	case *ast.IntLiteral, *ast.FloatLiteral, *ast.StringLiteral, *ast.BoolLiteral,
		*ast.NullLiteral, *ast.Ident:
		c = Value
	case *ast.FuncLit:
		categorizeBlock(a, t.Body)
		c = Value
	case *ast.InterpolatedString:
		for _, p := range t.Pieces {
			categorize(a, p)
		}
		c = Value
	case *ast.BinaryExpr:
		requireValue(a, t.Left)
		requireValue(a, t.Right)
		c = Value
	case *ast.UnaryExpr:
		requireValue(a, t.Operand)
		c = Value
	case *ast.AssignExpr:
		categorize(a, t.Target)
		requireValue(a, t.Value)
		c = Value
	case *ast.CompoundAssignExpr:
		categorize(a, t.Target)
		requireValue(a, t.Value)
		c = Value
	case *ast.CallExpr:
		requireValue(a, t.Callee)
		for _, arg := range t.Args {
			requireValue(a, arg)
		}
		c = Value
	case *ast.MethodCallExpr:
		requireValue(a, t.Receiver)
		for _, arg := range t.Args {
			requireValue(a, arg)
		}
		c = Value
	case *ast.FieldExpr:
		requireValue(a, t.Object)
		c = Value
	case *ast.IndexExpr:
		requireValue(a, t.Object)
		requireValue(a, t.Index)
		c = Value
	case *ast.TupleExpr:
		for _, el := range t.Elements {
			requireValue(a, el)
		}
		c = Value
	case *ast.ArrayExpr:
		for _, el := range t.Elements {
			requireValue(a, el)
		}
		c = Value
	case *ast.SetExpr:
		for _, el := range t.Elements {
			requireValue(a, el)
		}
		c = Value
	case *ast.MapExpr:
		for _, ent := range t.Entries {
			requireValue(a, ent.Key)
			requireValue(a, ent.Value)
		}
		c = Value
	case *ast.RecordExpr:
		for _, f := range t.Fields {
			requireValue(a, f.Value)
		}
		c = Value
	case *ast.IfExpr:
		c = categorizeIf(a, t)
	case *ast.BlockStmt:
		c = categorizeBlock(a, t)
	default:
		c = Value
	}

	a.categories[e] = c
	return c
}

// categorizeIf implements spec §4.2's rule verbatim: an if with both
// arms Value is Value; with a missing else it's None; with all arms
// Never it's Never.
func categorizeIf(a *Analyzer, t *ast.IfExpr) Category {
	requireValue(a, t.Cond)
	thenCat := categorizeArm(a, t.Then)
	if t.Else == nil {
		return None
	}
	elseCat := categorizeArm(a, t.Else)
	switch {
	case thenCat == Never && elseCat == Never:
		return Never
	case thenCat == Value && elseCat == Value:
		return Value
	default:
		return None
	}
}

func categorizeArm(a *Analyzer, e ast.Expr) Category {
	if bs, ok := e.(*ast.BlockStmt); ok {
		return categorizeBlock(a, bs)
	}
	return categorize(a, e)
}

// categorizeBlock implements spec §4.2: "Block is Value iff its last
// statement is an expression statement of Value type." A block ending
// in return/break/continue is Never; anything else (including an empty
// block) is None.
func categorizeBlock(a *Analyzer, b *ast.BlockStmt) Category {
	if c, ok := a.categories[ast.Expr(b)]; ok {
		return c
	}
	for _, s := range b.Stmts {
		categorizeStmt(a, s)
	}

	var c Category = None
	if len(b.Stmts) > 0 {
		switch last := b.Stmts[len(b.Stmts)-1].(type) {
		case *ast.ExprStmt:
			c = categorize(a, last.X)
		case *ast.ReturnStmt, *ast.BreakStmt, *ast.ContinueStmt:
			c = Never
		}
	}
	a.categories[ast.Expr(b)] = c
	return c
}

func categorizeStmt(a *Analyzer, s ast.Stmt) {
	switch t := s.(type) {
	case *ast.BlockStmt:
		categorizeBlock(a, t)
	case *ast.ExprStmt:
		categorize(a, t.X)
	case *ast.VarDecl:
		if t.Init != nil {
			requireValue(a, t.Init)
		}
	case *ast.ConstDecl:
		requireValue(a, t.Init)
	case *ast.WhileStmt:
		requireValue(a, t.Cond)
		categorizeBlock(a, t.Body)
	case *ast.ForStmt:
		if t.Init != nil {
			categorizeStmt(a, t.Init)
		}
		if t.Cond != nil {
			requireValue(a, t.Cond)
		}
		if t.Step != nil {
			categorizeStmt(a, t.Step)
		}
		categorizeBlock(a, t.Body)
	case *ast.ForInStmt:
		requireValue(a, t.Iterable)
		categorizeBlock(a, t.Body)
	case *ast.ReturnStmt:
		if t.Value != nil {
			requireValue(a, t.Value)
		}
	case *ast.AssertStmt:
		requireValue(a, t.Cond)
		if t.Message != nil {
			requireValue(a, t.Message)
		}
	case *ast.BreakStmt, *ast.ContinueStmt:
		// leaf
	}
}

// requireValue categorizes e and, per spec §4.2, reports a diagnostic if
// it turns out to be None in this value-required context.
func requireValue(a *Analyzer, e ast.Expr) Category {
	c := categorize(a, e)
	if c == None {
		a.Diags.Errorf(e.Pos(), "expression has no value, but one is required here")
	}
	return c
}
