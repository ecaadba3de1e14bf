package parser

import (
	"github.com/tiro-lang/tiro/internal/ast"
	"github.com/tiro-lang/tiro/internal/lexer"
	"github.com/tiro-lang/tiro/internal/token"
)

// parseExpression is the Pratt parser's entry point: it parses a prefix
// expression then repeatedly absorbs infix/postfix operators whose
// precedence exceeds minPrec, per spec §4.1's precedence table.
func (p *Parser) parseExpression(minPrec precedence) ast.Expr {
	left := p.parsePrefix()
	for {
		opPrec := precedenceOf(p.kind())
		if opPrec <= minPrec {
			return left
		}
		left = p.parseInfix(left, opPrec)
	}
}

func (p *Parser) parsePrefix() ast.Expr {
	tok := p.tok()
	switch tok.Kind {
	case token.INT:
		p.advance()
		return &ast.IntLiteral{Base: ast.Base{ID: p.id(), Span: tok.Span}, Value: tok.IntVal}
	case token.FLOAT:
		p.advance()
		return &ast.FloatLiteral{Base: ast.Base{ID: p.id(), Span: tok.Span}, Value: tok.FloatVal}
	case token.TRUE, token.FALSE:
		p.advance()
		return &ast.BoolLiteral{Base: ast.Base{ID: p.id(), Span: tok.Span}, Value: tok.Kind == token.TRUE}
	case token.NULL:
		p.advance()
		return &ast.NullLiteral{Base: ast.Base{ID: p.id(), Span: tok.Span}}
	case token.IDENT:
		p.advance()
		return &ast.Ident{Base: ast.Base{ID: p.id(), Span: tok.Span}, Name: tok.Lit}
	case token.STRING, token.STRING_CONTENT, token.DOLLAR, token.DOLLARLBR:
		return p.parseStringLiteral()
	case token.PLUS:
		return p.parseUnary(ast.OpUnaryPlus)
	case token.MINUS:
		return p.parseUnary(ast.OpUnaryMinus)
	case token.BANG:
		return p.parseUnary(ast.OpUnaryNot)
	case token.TILDE:
		return p.parseUnary(ast.OpUnaryBitNot)
	case token.LPAREN:
		return p.parseParenOrTuple()
	case token.LBRACKET:
		return p.parseArrayLiteral()
	case token.LBRACE:
		return p.parseBraceLiteral()
	case token.RECORD:
		return p.parseRecordLiteral()
	case token.FUNC:
		return p.parseFuncLit()
	case token.IF:
		return p.parseIfExpr()
	default:
		p.Diags.Errorf(tok.Span, "unexpected token %s in expression", tok.Kind)
		p.advance()
		return &ast.Ident{Base: ast.Base{ID: p.id(), Span: tok.Span, HasError: true}, Name: ""}
	}
}

func (p *Parser) parseUnary(op ast.UnaryOp) ast.Expr {
	start := p.advance().Span
	operand := p.parseExpression(precPrefix)
	return &ast.UnaryExpr{
		Base:    ast.Base{ID: p.id(), Span: token.Span{Start: start.Start, End: operand.Pos().End}, HasError: operand.ErrorFlag()},
		Op:      op,
		Operand: operand,
	}
}

var compoundOps = map[token.Kind]ast.CompoundOp{
	token.PLUS_EQ: ast.OpAddAssign, token.MINUS_EQ: ast.OpSubAssign,
	token.STAR_EQ: ast.OpMulAssign, token.SLASH_EQ: ast.OpDivAssign,
	token.PERCENT_EQ: ast.OpModAssign, token.POW_EQ: ast.OpPowAssign,
}

var binaryOps = map[token.Kind]ast.BinaryOp{
	token.OR_OR: ast.OpOrOr, token.AND_AND: ast.OpAndAnd, token.QQ: ast.OpNullCoalesce,
	token.PIPE: ast.OpBitOr, token.CARET: ast.OpBitXor, token.AMP: ast.OpBitAnd,
	token.EQ: ast.OpEq, token.NEQ: ast.OpNeq,
	token.LT: ast.OpLt, token.LTE: ast.OpLte, token.GT: ast.OpGt, token.GTE: ast.OpGte,
	token.SHL: ast.OpShl, token.SHR: ast.OpShr,
	token.PLUS: ast.OpAdd, token.MINUS: ast.OpSub,
	token.STAR: ast.OpMul, token.SLASH: ast.OpDiv, token.PERCENT: ast.OpMod,
	token.POW: ast.OpPow,
}

func (p *Parser) parseInfix(left ast.Expr, opPrec precedence) ast.Expr {
	tok := p.tok()

	switch tok.Kind {
	case token.LPAREN:
		return p.parseCall(left, ast.Direct)
	case token.QLPAREN:
		return p.parseCall(left, ast.Optional)
	case token.LBRACKET:
		return p.parseIndex(left, ast.Direct)
	case token.QLBRACKET:
		return p.parseIndex(left, ast.Optional)
	case token.DOT:
		return p.parseField(left, ast.Direct)
	case token.QDOT:
		return p.parseField(left, ast.Optional)
	case token.ASSIGN:
		p.advance()
		rhs := p.parseExpression(opPrec - 1) // right-assoc
		return &ast.AssignExpr{
			Base:   ast.Base{ID: p.id(), Span: token.Span{Start: left.Pos().Start, End: rhs.Pos().End}, HasError: left.ErrorFlag() || rhs.ErrorFlag()},
			Target: left, Value: rhs,
		}
	}

	if cop, ok := compoundOps[tok.Kind]; ok {
		p.advance()
		rhs := p.parseExpression(opPrec - 1)
		return &ast.CompoundAssignExpr{
			Base:   ast.Base{ID: p.id(), Span: token.Span{Start: left.Pos().Start, End: rhs.Pos().End}, HasError: left.ErrorFlag() || rhs.ErrorFlag()},
			Op:     cop,
			Target: left, Value: rhs,
		}
	}

	bop, ok := binaryOps[tok.Kind]
	if !ok {
		p.Diags.Errorf(tok.Span, "unexpected token %s", tok.Kind)
		p.advance()
		return left
	}
	p.advance()
	nextMin := opPrec
	if rightAssoc[tok.Kind] {
		nextMin = opPrec - 1
	}
	rhs := p.parseExpression(nextMin)
	return &ast.BinaryExpr{
		Base: ast.Base{ID: p.id(), Span: token.Span{Start: left.Pos().Start, End: rhs.Pos().End}, HasError: left.ErrorFlag() || rhs.ErrorFlag()},
		Op:   bop, Left: left, Right: rhs,
	}
}

func (p *Parser) parseCall(callee ast.Expr, access ast.AccessType) ast.Expr {
	p.advance() // '(' or '?('
	args, ok := parseBracedListNoOpen(p, token.RPAREN, func() ast.Expr { return p.parseExpression(lowest) })
	end := p.tok().Span
	hasErr := callee.ErrorFlag() || !ok
	if fe, isField := callee.(*ast.FieldExpr); isField {
		return &ast.MethodCallExpr{
			Base:     ast.Base{ID: p.id(), Span: token.Span{Start: callee.Pos().Start, End: end.End}, HasError: hasErr},
			Receiver: fe.Object, Name: fe.Name, Args: args, Access: access,
		}
	}
	return &ast.CallExpr{
		Base:   ast.Base{ID: p.id(), Span: token.Span{Start: callee.Pos().Start, End: end.End}, HasError: hasErr},
		Callee: callee, Args: args, Access: access,
	}
}

func (p *Parser) parseIndex(object ast.Expr, access ast.AccessType) ast.Expr {
	p.advance() // '[' or '?['
	idx := p.parseExpression(lowest)
	end, ok := p.expect(token.RBRACKET)
	return &ast.IndexExpr{
		Base:   ast.Base{ID: p.id(), Span: token.Span{Start: object.Pos().Start, End: end.Span.End}, HasError: object.ErrorFlag() || idx.ErrorFlag() || !ok},
		Object: object, Index: idx, Access: access,
	}
}

func (p *Parser) parseField(object ast.Expr, access ast.AccessType) ast.Expr {
	p.advance() // '.' or '?.'
	nameTok, ok := p.expect(token.IDENT)
	return &ast.FieldExpr{
		Base:   ast.Base{ID: p.id(), Span: token.Span{Start: object.Pos().Start, End: nameTok.Span.End}, HasError: object.ErrorFlag() || !ok},
		Object: object, Name: nameTok.Lit, Access: access,
	}
}

// parseParenOrTuple implements spec §4.1's tuple-vs-parenthesized rule:
// `()` is the empty tuple, `(e)` is a parenthesized expression, `(e,)`
// is a 1-tuple, and `(e, e', ...)` is an n-tuple.
func (p *Parser) parseParenOrTuple() ast.Expr {
	start := p.advance().Span // '('
	if p.at(token.RPAREN) {
		end := p.advance().Span
		return &ast.TupleExpr{Base: ast.Base{ID: p.id(), Span: token.Span{Start: start.Start, End: end.End}}}
	}

	first := p.parseExpression(lowest)
	if p.at(token.RPAREN) {
		p.advance()
		return first
	}
	if _, ok := p.expect(token.COMMA); !ok {
		p.sync(token.RPAREN, token.EOF)
		if p.at(token.RPAREN) {
			p.advance()
		}
		return &ast.TupleExpr{Base: ast.Base{ID: p.id(), Span: token.Span{Start: start.Start, End: p.tok().Span.End}, HasError: true}, Elements: []ast.Expr{first}}
	}
	elems := []ast.Expr{first}
	for !p.at(token.RPAREN) && !p.at(token.EOF) {
		elems = append(elems, p.parseExpression(lowest))
		if p.at(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	end, ok := p.expect(token.RPAREN)
	hasErr := !ok
	for _, e := range elems {
		hasErr = hasErr || e.ErrorFlag()
	}
	return &ast.TupleExpr{Base: ast.Base{ID: p.id(), Span: token.Span{Start: start.Start, End: end.Span.End}, HasError: hasErr}, Elements: elems}
}

func (p *Parser) parseArrayLiteral() ast.Expr {
	start := p.tok().Span
	elems, ok := parseBracedList(p, token.LBRACKET, token.RBRACKET, true, 0, func() ast.Expr { return p.parseExpression(lowest) })
	end := p.tok().Span
	hasErr := !ok
	for _, e := range elems {
		hasErr = hasErr || e.ErrorFlag()
	}
	return &ast.ArrayExpr{Base: ast.Base{ID: p.id(), Span: token.Span{Start: start.Start, End: end.End}, HasError: hasErr}, Elements: elems}
}

// parseBraceLiteral disambiguates `{}`/`{e, e, ...}` (set) from
// `{k: v, ...}` (map) by parsing the first element and checking for a
// following colon, since both share the `{`/`}` bracketing.
func (p *Parser) parseBraceLiteral() ast.Expr {
	start := p.advance().Span // '{'
	if p.at(token.RBRACE) {
		end := p.advance().Span
		return &ast.MapExpr{Base: ast.Base{ID: p.id(), Span: token.Span{Start: start.Start, End: end.End}}}
	}

	firstKey := p.parseExpression(lowest)
	if p.at(token.COLON) {
		p.advance()
		firstVal := p.parseExpression(lowest)
		entries := []*ast.MapEntry{{
			Base: ast.Base{ID: p.id(), Span: token.Span{Start: firstKey.Pos().Start, End: firstVal.Pos().End}},
			Key: firstKey, Value: firstVal,
		}}
		for p.at(token.COMMA) {
			p.advance()
			if p.at(token.RBRACE) {
				break
			}
			k := p.parseExpression(lowest)
			if _, ok := p.expect(token.COLON); !ok {
				p.sync(token.COMMA, token.RBRACE, token.EOF)
			}
			v := p.parseExpression(lowest)
			entries = append(entries, &ast.MapEntry{Base: ast.Base{ID: p.id(), Span: token.Span{Start: k.Pos().Start, End: v.Pos().End}}, Key: k, Value: v})
		}
		end, ok := p.expect(token.RBRACE)
		return &ast.MapExpr{Base: ast.Base{ID: p.id(), Span: token.Span{Start: start.Start, End: end.Span.End}, HasError: !ok}, Entries: entries}
	}

	elems := []ast.Expr{firstKey}
	for p.at(token.COMMA) {
		p.advance()
		if p.at(token.RBRACE) {
			break
		}
		elems = append(elems, p.parseExpression(lowest))
	}
	end, ok := p.expect(token.RBRACE)
	return &ast.SetExpr{Base: ast.Base{ID: p.id(), Span: token.Span{Start: start.Start, End: end.Span.End}, HasError: !ok}, Elements: elems}
}

func (p *Parser) parseRecordLiteral() ast.Expr {
	start := p.advance().Span // 'record'
	if _, ok := p.expect(token.LBRACE); !ok {
		p.sync(token.RBRACE, token.EOF)
		if p.at(token.RBRACE) {
			p.advance()
		}
		return &ast.RecordExpr{Base: ast.Base{ID: p.id(), Span: start, HasError: true}}
	}
	var fields []*ast.RecordField
	for !p.at(token.RBRACE) && !p.at(token.EOF) {
		nameTok, ok := p.expect(token.IDENT)
		if !ok {
			p.sync(token.COMMA, token.RBRACE, token.EOF)
		}
		if _, ok := p.expect(token.COLON); !ok {
			p.sync(token.COMMA, token.RBRACE, token.EOF)
		}
		val := p.parseExpression(lowest)
		fields = append(fields, &ast.RecordField{
			Base: ast.Base{ID: p.id(), Span: token.Span{Start: nameTok.Span.Start, End: val.Pos().End}},
			Name: nameTok.Lit, Value: val,
		})
		if p.at(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	end, ok := p.expect(token.RBRACE)
	return &ast.RecordExpr{Base: ast.Base{ID: p.id(), Span: token.Span{Start: start.Start, End: end.Span.End}, HasError: !ok}, Fields: fields}
}

func (p *Parser) parseFuncLit() ast.Expr {
	start := p.advance().Span // 'func'
	params, pok := p.parseParamList()
	body := p.parseBlock()
	return &ast.FuncLit{
		Base:   ast.Base{ID: p.id(), Span: token.Span{Start: start.Start, End: body.Span.End}, HasError: !pok || body.HasError},
		Params: params, Body: body,
	}
}

// parseStringLiteral consumes one string literal, which the lexer
// delivers as a sequence of STRING_CONTENT fragments interleaved with
// DOLLAR/DOLLARLBR interpolation lead-ins and terminated by an empty
// STRING token (spec §6's lexer modes). A literal with no interpolated
// pieces collapses to a plain *ast.StringLiteral; otherwise it becomes
// an *ast.InterpolatedString. Interpolated sub-expressions are lexed by
// switching the lexer back to Normal mode for their extent, mirroring
// the RAII push/pop mode-guard idiom spec §6 describes.
func (p *Parser) parseStringLiteral() ast.Expr {
	start := p.tok().Span
	lastEnd := start
	var pieces []ast.Expr
	var literal []bool
	hasErr := false

loop:
	for {
		tok := p.tok()
		switch tok.Kind {
		case token.STRING:
			lastEnd = p.advance().Span
			break loop
		case token.STRING_CONTENT:
			p.advance()
			id := p.Strs.Intern(tok.Lit)
			pieces = append(pieces, &ast.StringLiteral{Base: ast.Base{ID: p.id(), Span: tok.Span}, Value: tok.Lit, ID: id})
			literal = append(literal, true)
			lastEnd = tok.Span
		case token.DOLLAR:
			p.advance()
			p.lex.PushMode(lexer.Normal)
			identTok, ok := p.expect(token.IDENT)
			p.lex.PopMode()
			hasErr = hasErr || !ok
			pieces = append(pieces, &ast.Ident{Base: ast.Base{ID: p.id(), Span: identTok.Span, HasError: !ok}, Name: identTok.Lit})
			literal = append(literal, false)
			lastEnd = identTok.Span
		case token.DOLLARLBR:
			p.advance()
			p.lex.PushMode(lexer.Normal)
			expr := p.parseExpression(lowest)
			closeTok, ok := p.expect(token.RBRACE)
			p.lex.PopMode()
			hasErr = hasErr || !ok || expr.ErrorFlag()
			pieces = append(pieces, expr)
			literal = append(literal, false)
			lastEnd = closeTok.Span
		default:
			p.Diags.Errorf(tok.Span, "unterminated string literal")
			hasErr = true
			break loop
		}
	}

	span := token.Span{Start: start.Start, End: lastEnd.End}
	if len(pieces) == 0 {
		return &ast.StringLiteral{Base: ast.Base{ID: p.id(), Span: span, HasError: hasErr}, Value: "", ID: p.Strs.Intern("")}
	}
	if len(pieces) == 1 && literal[0] {
		lit := pieces[0].(*ast.StringLiteral)
		lit.Span = span
		lit.HasError = hasErr || lit.HasError
		return lit
	}
	return &ast.InterpolatedString{Base: ast.Base{ID: p.id(), Span: span, HasError: hasErr}, Pieces: pieces, Literal: literal}
}

func (p *Parser) parseIfExpr() ast.Expr {
	start := p.advance().Span // 'if'
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
	then := p.parseBlock()
	var elseExpr ast.Expr
	end := then.Span
	if p.at(token.ELSE) {
		p.advance()
		if p.at(token.IF) {
			elseExpr = p.parseIfExpr()
		} else {
			elseExpr = p.parseBlock()
		}
		end = elseExpr.Pos()
	}
	hasErr := cond.ErrorFlag() || then.HasError || (elseExpr != nil && elseExpr.ErrorFlag())
	return &ast.IfExpr{
		Base: ast.Base{ID: p.id(), Span: token.Span{Start: start.Start, End: end.End}, HasError: hasErr},
		Cond: cond, Then: then, Else: elseExpr,
	}
}
