package parser

import (
	"github.com/tiro-lang/tiro/internal/ast"
	"github.com/tiro-lang/tiro/internal/token"
)

// stmtFollow is the sync set used when a top-level statement fails to
// parse: the start of any statement, plus block/file terminators.
var stmtFollow = []token.Kind{
	token.SEMI, token.RBRACE, token.EOF,
	token.VAR, token.CONST, token.IF, token.WHILE, token.FOR, token.BREAK,
	token.CONTINUE, token.RETURN, token.ASSERT, token.FUNC,
}

func (p *Parser) parseBlock() *ast.BlockStmt {
	start := p.tok().Span
	if _, ok := p.expect(token.LBRACE); !ok {
		p.sync(token.RBRACE, token.EOF)
		if p.at(token.RBRACE) {
			p.advance()
		}
		return &ast.BlockStmt{Base: ast.Base{ID: p.id(), Span: start, HasError: true}}
	}

	b := &ast.BlockStmt{Base: ast.Base{ID: p.id()}}
	for !p.at(token.RBRACE) && !p.at(token.EOF) {
		mark := p.Diags.Mark()
		s := p.parseStmt()
		b.Stmts = append(b.Stmts, s)
		if p.Diags.Len() > mark || s.ErrorFlag() {
			b.HasError = true
		}
	}
	end, ok := p.expect(token.RBRACE)
	if !ok {
		b.HasError = true
	}
	b.Span = token.Span{Start: start.Start, End: end.Span.End}
	return b
}

func (p *Parser) parseStmt() ast.Stmt {
	switch p.kind() {
	case token.LBRACE:
		return p.parseBlock()
	case token.VAR:
		return p.parseVarDecl()
	case token.CONST:
		return p.parseConstDecl()
	case token.WHILE:
		return p.parseWhile()
	case token.FOR:
		return p.parseFor()
	case token.BREAK:
		t := p.advance()
		p.consumeOptSemi()
		return &ast.BreakStmt{Base: ast.Base{ID: p.id(), Span: t.Span}}
	case token.CONTINUE:
		t := p.advance()
		p.consumeOptSemi()
		return &ast.ContinueStmt{Base: ast.Base{ID: p.id(), Span: t.Span}}
	case token.RETURN:
		return p.parseReturn()
	case token.ASSERT:
		return p.parseAssert()
	default:
		return p.parseExprStmt()
	}
}

func (p *Parser) consumeOptSemi() {
	if p.at(token.SEMI) {
		p.advance()
	}
}

func (p *Parser) parseExprStmt() *ast.ExprStmt {
	start := p.tok().Span
	x := p.parseExpression(lowest)
	end := p.tok().Span
	p.consumeOptSemi()
	return &ast.ExprStmt{
		Base: ast.Base{ID: p.id(), Span: token.Span{Start: start.Start, End: end.End}, HasError: x.ErrorFlag()},
		X:    x,
	}
}

func (p *Parser) parseBinding() ast.Binding {
	start := p.tok().Span
	if p.at(token.LPAREN) {
		p.advance()
		elems, ok := parseBracedListNoOpen(p, token.RPAREN, func() ast.Binding { return p.parseBinding() })
		end := p.tok().Span
		return &ast.TupleBinding{Base: ast.Base{ID: p.id(), Span: token.Span{Start: start.Start, End: end.End}, HasError: !ok}, Elements: elems}
	}
	tok, ok := p.expect(token.IDENT)
	return &ast.NameBinding{Base: ast.Base{ID: p.id(), Span: tok.Span, HasError: !ok}, Name: tok.Lit}
}

// parseBracedListNoOpen parses a comma-separated list up to (and
// consuming) close, given that the opening bracket was already consumed
// by the caller (used for tuple bindings, whose opening paren is shared
// with the disambiguation logic in parseFor).
func parseBracedListNoOpen[T any](p *Parser, close token.Kind, elem func() T) ([]T, bool) {
	var items []T
	for !p.at(close) && !p.at(token.EOF) {
		items = append(items, elem())
		if p.at(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	_, ok := p.expect(close)
	return items, ok
}

func (p *Parser) parseVarDecl() *ast.VarDecl {
	start := p.tok().Span
	p.advance() // 'var'
	target := p.parseBinding()
	var init ast.Expr
	if p.at(token.ASSIGN) {
		p.advance()
		init = p.parseExpression(lowest)
	}
	end := p.tok().Span
	p.consumeOptSemi()
	hasErr := target.ErrorFlag() || (init != nil && init.ErrorFlag())
	return &ast.VarDecl{
		Base:   ast.Base{ID: p.id(), Span: token.Span{Start: start.Start, End: end.End}, HasError: hasErr},
		Target: target,
		Init:   init,
	}
}

func (p *Parser) parseConstDecl() *ast.ConstDecl {
	start := p.tok().Span
	p.advance() // 'const'
	target := p.parseBinding()
	hasErr := target.ErrorFlag()
	var init ast.Expr
	if _, ok := p.expect(token.ASSIGN); ok {
		init = p.parseExpression(lowest)
		hasErr = hasErr || init.ErrorFlag()
	} else {
		hasErr = true
		p.sync(token.SEMI, token.RBRACE, token.EOF)
	}
	end := p.tok().Span
	p.consumeOptSemi()
	return &ast.ConstDecl{
		Base:   ast.Base{ID: p.id(), Span: token.Span{Start: start.Start, End: end.End}, HasError: hasErr},
		Target: target,
		Init:   init,
	}
}

func (p *Parser) parseWhile() *ast.WhileStmt {
	start := p.tok().Span
	p.advance() // 'while'
	if _, ok := p.expect(token.LPAREN); !ok {
		p.sync(token.RPAREN, token.LBRACE, token.EOF)
		if p.at(token.RPAREN) {
			p.advance()
		}
	}
	cond := p.parseExpression(lowest)
	if _, ok := p.expect(token.RPAREN); !ok {
		p.sync(token.LBRACE, token.EOF)
	}
	body := p.parseBlock()
	return &ast.WhileStmt{
		Base: ast.Base{ID: p.id(), Span: token.Span{Start: start.Start, End: body.Span.End}, HasError: cond.ErrorFlag() || body.HasError},
		Cond: cond,
		Body: body,
	}
}

// forIsForIn looks ahead (without consuming) to decide whether the
// statement beginning at the current 'for' keyword is a for-in loop
// (`for binding in iterable { ... }`) rather than the classic
// three-clause form. This is pure lookahead, never backtracking: the
// cursor's peek buffer makes arbitrary-depth lookahead cheap and
// side-effect free.
func (p *Parser) forIsForIn() bool {
	peekAt := func(i int) token.Token {
		if i == 0 {
			return p.tok()
		}
		return p.peek(i)
	}
	if peekAt(0).Kind == token.IDENT && peekAt(1).Kind == token.IN {
		return true
	}
	if peekAt(0).Kind == token.LPAREN {
		depth := 0
		for i := 0; ; i++ {
			t := peekAt(i)
			if t.Kind == token.EOF {
				return false
			}
			if t.Kind == token.LPAREN {
				depth++
			}
			if t.Kind == token.RPAREN {
				depth--
				if depth == 0 {
					return peekAt(i + 1).Kind == token.IN
				}
			}
		}
	}
	return false
}

func (p *Parser) parseFor() ast.Stmt {
	start := p.tok().Span
	p.advance() // 'for'

	if p.forIsForIn() {
		target := p.parseBinding()
		if _, ok := p.expect(token.IN); !ok {
			p.sync(token.LBRACE, token.EOF)
		}
		iterable := p.parseExpression(lowest)
		body := p.parseBlock()
		return &ast.ForInStmt{
			Base:     ast.Base{ID: p.id(), Span: token.Span{Start: start.Start, End: body.Span.End}, HasError: target.ErrorFlag() || iterable.ErrorFlag() || body.HasError},
			Target:   target,
			Iterable: iterable,
			Body:     body,
		}
	}

	var initStmt ast.Stmt
	if !p.at(token.SEMI) {
		switch p.kind() {
		case token.VAR:
			initStmt = p.parseVarDeclNoSemi()
		default:
			initStmt = p.parseExprStmtNoSemi()
		}
	}
	if _, ok := p.expect(token.SEMI); !ok {
		p.sync(token.SEMI, token.LBRACE, token.EOF)
		if p.at(token.SEMI) {
			p.advance()
		}
	}
	var cond ast.Expr
	if !p.at(token.SEMI) {
		cond = p.parseExpression(lowest)
	}
	if _, ok := p.expect(token.SEMI); !ok {
		p.sync(token.LBRACE, token.EOF)
	}
	var step ast.Stmt
	if !p.at(token.LBRACE) {
		step = p.parseExprStmtNoSemi()
	}
	body := p.parseBlock()
	return &ast.ForStmt{
		Base: ast.Base{ID: p.id(), Span: token.Span{Start: start.Start, End: body.Span.End}, HasError: body.HasError},
		Init: initStmt, Cond: cond, Step: step, Body: body,
	}
}

func (p *Parser) parseVarDeclNoSemi() *ast.VarDecl {
	start := p.tok().Span
	p.advance()
	target := p.parseBinding()
	var init ast.Expr
	if p.at(token.ASSIGN) {
		p.advance()
		init = p.parseExpression(lowest)
	}
	end := p.tok().Span
	return &ast.VarDecl{
		Base:   ast.Base{ID: p.id(), Span: token.Span{Start: start.Start, End: end.End}},
		Target: target,
		Init:   init,
	}
}

func (p *Parser) parseExprStmtNoSemi() *ast.ExprStmt {
	start := p.tok().Span
	x := p.parseExpression(lowest)
	return &ast.ExprStmt{Base: ast.Base{ID: p.id(), Span: token.Span{Start: start.Start, End: x.Pos().End}, HasError: x.ErrorFlag()}, X: x}
}

func (p *Parser) parseReturn() *ast.ReturnStmt {
	start := p.advance().Span // 'return'
	var val ast.Expr
	if !p.at(token.SEMI) && !p.at(token.RBRACE) {
		val = p.parseExpression(lowest)
	}
	end := p.tok().Span
	p.consumeOptSemi()
	hasErr := val != nil && val.ErrorFlag()
	return &ast.ReturnStmt{Base: ast.Base{ID: p.id(), Span: token.Span{Start: start.Start, End: end.End}, HasError: hasErr}, Value: val}
}

func (p *Parser) parseAssert() *ast.AssertStmt {
	start := p.advance().Span // 'assert'
	cond := p.parseExpression(lowest)
	var msg ast.Expr
	if p.at(token.COMMA) {
		p.advance()
		msg = p.parseExpression(lowest)
	}
	end := p.tok().Span
	p.consumeOptSemi()
	return &ast.AssertStmt{Base: ast.Base{ID: p.id(), Span: token.Span{Start: start.Start, End: end.End}, HasError: cond.ErrorFlag()}, Cond: cond, Message: msg}
}
