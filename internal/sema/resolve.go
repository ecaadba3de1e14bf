package sema

import (
	"github.com/tiro-lang/tiro/internal/ast"
	"github.com/tiro-lang/tiro/internal/symbols"
	"github.com/tiro-lang/tiro/internal/token"
)

// resolveFile builds the scope tree and binds every declaration/use site
// into a.Syms, mirroring go-dws's SymbolTable-per-scope resolver but
// additionally populating symbols.Table's decl/ref side tables keyed by
// ast.NodeID. Top-level functions and imports are pre-declared before
// any body is resolved, so forward calls between top-level functions
// resolve correctly.
func resolveFile(a *Analyzer, f *ast.File) {
	root := a.Syms.Root

	for _, d := range f.Decls {
		switch t := d.(type) {
		case *ast.FuncDecl:
			declareName(a, root, t.Name, symbols.Func, t.ID, t.Span)
		case *ast.ImportDecl:
			declareName(a, root, t.Name, symbols.Import, t.ID, t.Span)
		}
	}

	for _, d := range f.Decls {
		if fd, ok := d.(*ast.FuncDecl); ok {
			resolveFuncBody(a, fd.ID, fd.Params, fd.Body, root)
		}
	}
	for _, s := range f.Stmts {
		resolveStmt(a, s, root)
	}
}

func declareName(a *Analyzer, scope *symbols.Scope, name string, kind symbols.Kind, node ast.NodeID, span token.Span) (*symbols.Symbol, bool) {
	sym, ok := scope.Define(a.Syms.NextID(), name, kind, node)
	if !ok {
		a.Diags.Errorf(span, "%q is already declared in this scope", name)
		return nil, false
	}
	a.Syms.BindDecl(node, sym)
	return sym, true
}

func resolveFuncBody(a *Analyzer, funcNode ast.NodeID, params []*ast.Param, body *ast.BlockStmt, outer *symbols.Scope) {
	fnScope := outer.NewChild(symbols.FuncScope)
	a.Syms.BindFuncScope(funcNode, fnScope)
	for i, p := range params {
		sym, ok := fnScope.Define(a.Syms.NextID(), p.Name, symbols.Param, 0)
		if !ok {
			a.Diags.Errorf(p.Span, "parameter %q is already declared", p.Name)
			continue
		}
		a.Syms.BindParam(funcNode, i, sym)
	}
	resolveBlock(a, body, fnScope)
}

func resolveBlock(a *Analyzer, b *ast.BlockStmt, outer *symbols.Scope) {
	inner := outer.NewChild(symbols.BlockScope)
	for _, s := range b.Stmts {
		resolveStmt(a, s, inner)
	}
}

func resolveStmt(a *Analyzer, s ast.Stmt, scope *symbols.Scope) {
	switch t := s.(type) {
	case *ast.BlockStmt:
		resolveBlock(a, t, scope)
	case *ast.ExprStmt:
		resolveExpr(a, t.X, scope)
	case *ast.VarDecl:
		if t.Init != nil {
			resolveExpr(a, t.Init, scope)
		}
		defineBinding(a, t.Target, scope, symbols.Var)
	case *ast.ConstDecl:
		resolveExpr(a, t.Init, scope)
		defineBinding(a, t.Target, scope, symbols.Const)
	case *ast.WhileStmt:
		resolveExpr(a, t.Cond, scope)
		resolveBlock(a, t.Body, scope)
	case *ast.ForStmt:
		forScope := scope.NewChild(symbols.ForInitScope)
		if t.Init != nil {
			resolveStmt(a, t.Init, forScope)
		}
		if t.Cond != nil {
			resolveExpr(a, t.Cond, forScope)
		}
		if t.Step != nil {
			resolveStmt(a, t.Step, forScope)
		}
		resolveBlock(a, t.Body, forScope)
	case *ast.ForInStmt:
		forScope := scope.NewChild(symbols.ForInitScope)
		resolveExpr(a, t.Iterable, forScope)
		defineBinding(a, t.Target, forScope, symbols.Var)
		resolveBlock(a, t.Body, forScope)
	case *ast.ReturnStmt:
		if t.Value != nil {
			resolveExpr(a, t.Value, scope)
		}
	case *ast.AssertStmt:
		resolveExpr(a, t.Cond, scope)
		if t.Message != nil {
			resolveExpr(a, t.Message, scope)
		}
	case *ast.BreakStmt, *ast.ContinueStmt:
		// leaf
	}
}

func defineBinding(a *Analyzer, b ast.Binding, scope *symbols.Scope, kind symbols.Kind) {
	switch t := b.(type) {
	case *ast.NameBinding:
		declareName(a, scope, t.Name, kind, t.ID, t.Span)
	case *ast.TupleBinding:
		for _, e := range t.Elements {
			defineBinding(a, e, scope, kind)
		}
	}
}

func resolveExpr(a *Analyzer, e ast.Expr, scope *symbols.Scope) {
	if e == nil {
		return
	}
	switch t := e.(type) {
	case *ast.Ident:
		if sym, ok := scope.Resolve(t.Name); ok {
			a.Syms.BindRef(t.ID, sym)
		} else {
			a.Diags.Errorf(t.Span, "undefined name %q", t.Name)
		}
	case *ast.InterpolatedString:
		for _, p := range t.Pieces {
			resolveExpr(a, p, scope)
		}
	case *ast.BinaryExpr:
		resolveExpr(a, t.Left, scope)
		resolveExpr(a, t.Right, scope)
	case *ast.UnaryExpr:
		resolveExpr(a, t.Operand, scope)
	case *ast.AssignExpr:
		resolveExpr(a, t.Target, scope)
		resolveExpr(a, t.Value, scope)
	case *ast.CompoundAssignExpr:
		resolveExpr(a, t.Target, scope)
		resolveExpr(a, t.Value, scope)
	case *ast.CallExpr:
		resolveExpr(a, t.Callee, scope)
		for _, arg := range t.Args {
			resolveExpr(a, arg, scope)
		}
	case *ast.MethodCallExpr:
		resolveExpr(a, t.Receiver, scope)
		for _, arg := range t.Args {
			resolveExpr(a, arg, scope)
		}
	case *ast.FieldExpr:
		resolveExpr(a, t.Object, scope)
	case *ast.IndexExpr:
		resolveExpr(a, t.Object, scope)
		resolveExpr(a, t.Index, scope)
	case *ast.IfExpr:
		resolveExpr(a, t.Cond, scope)
		resolveArm(a, t.Then, scope)
		if t.Else != nil {
			resolveArm(a, t.Else, scope)
		}
	case *ast.TupleExpr:
		for _, el := range t.Elements {
			resolveExpr(a, el, scope)
		}
	case *ast.ArrayExpr:
		for _, el := range t.Elements {
			resolveExpr(a, el, scope)
		}
	case *ast.SetExpr:
		for _, el := range t.Elements {
			resolveExpr(a, el, scope)
		}
	case *ast.MapExpr:
		for _, ent := range t.Entries {
			resolveExpr(a, ent.Key, scope)
			resolveExpr(a, ent.Value, scope)
		}
	case *ast.RecordExpr:
		for _, f := range t.Fields {
			resolveExpr(a, f.Value, scope)
		}
	case *ast.FuncLit:
		resolveFuncBody(a, t.ID, t.Params, t.Body, scope)
	case *ast.IntLiteral, *ast.FloatLiteral, *ast.StringLiteral, *ast.BoolLiteral, *ast.NullLiteral:
		// leaf
	}
}

// resolveArm resolves an if-expression arm, which is either a nested
// BlockStmt (the common case) or another IfExpr (an else-if chain).
func resolveArm(a *Analyzer, e ast.Expr, scope *symbols.Scope) {
	if bs, ok := e.(*ast.BlockStmt); ok {
		resolveBlock(a, bs, scope)
		return
	}
	resolveExpr(a, e, scope)
}
