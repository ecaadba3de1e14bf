package parser

import (
	"github.com/tiro-lang/tiro/internal/ast"
	"github.com/tiro-lang/tiro/internal/token"
)

func (p *Parser) parseImportDecl() *ast.ImportDecl {
	start := p.tok().Span
	p.advance() // 'import'
	nameTok, ok := p.expect(token.IDENT)
	if !ok {
		p.sync(token.SEMI, token.EOF)
	}
	semi := p.tok().Span
	if p.at(token.SEMI) {
		semi = p.advance().Span
	}
	return &ast.ImportDecl{
		Base: ast.Base{ID: p.id(), Span: token.Span{Start: start.Start, End: semi.End}, HasError: !ok},
		Name: nameTok.Lit,
	}
}

func (p *Parser) parseFuncDecl() *ast.FuncDecl {
	start := p.tok().Span
	p.advance() // 'func'
	hasErr := false
	nameTok, ok := p.expect(token.IDENT)
	hasErr = hasErr || !ok

	params, pok := p.parseParamList()
	hasErr = hasErr || !pok

	body := p.parseBlock()
	hasErr = hasErr || body.HasError

	return &ast.FuncDecl{
		Base:   ast.Base{ID: p.id(), Span: token.Span{Start: start.Start, End: body.Span.End}, HasError: hasErr},
		Name:   nameTok.Lit,
		Params: params,
		Body:   body,
	}
}

// parseParamList parses `(name, name, ...)`, sharing the spirit of the
// generic braced-list helper of spec §4.1 (parseBracedList, see lists.go) but
// specialized because parameters are bare names, not expressions.
func (p *Parser) parseParamList() ([]*ast.Param, bool) {
	if _, ok := p.expect(token.LPAREN); !ok {
		p.sync(token.RPAREN, token.LBRACE, token.SEMI, token.EOF)
		if p.at(token.RPAREN) {
			p.advance()
		}
		return nil, false
	}
	var params []*ast.Param
	for !p.at(token.RPAREN) && !p.at(token.EOF) {
		tok := p.tok()
		if tok.Kind != token.IDENT {
			p.Diags.Errorf(tok.Span, "expected parameter name, found %s", tok.Kind)
			p.sync(token.COMMA, token.RPAREN, token.EOF)
		} else {
			p.advance()
			params = append(params, &ast.Param{Span: tok.Span, Name: tok.Lit})
		}
		if p.at(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	_, ok := p.expect(token.RPAREN)
	return params, ok
}
