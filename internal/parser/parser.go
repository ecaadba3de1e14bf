// Package parser implements the hand-written recursive-descent parser
// of spec §4.1: a Pratt parser for expressions layered over
// recursive-descent statement/declaration grammar, with panic-mode
// error recovery driven by caller-supplied sync sets.
//
// Grounded on go-dws's internal/parser (precedence table + registered
// prefix/infix parse functions in parser.go, a lookahead cursor in
// cursor.go, and the error-recovery idiom of structured_error.go),
// adapted to produce the id/span/error-flag AST of internal/ast instead
// of go-dws's interface-only node tree.
package parser

import (
	"github.com/tiro-lang/tiro/internal/ast"
	"github.com/tiro-lang/tiro/internal/diag"
	"github.com/tiro-lang/tiro/internal/lexer"
	"github.com/tiro-lang/tiro/internal/strtab"
	"github.com/tiro-lang/tiro/internal/token"
)

// Parser turns a token stream into an *ast.File. It never aborts: parse
// errors are recorded in Diags and the affected subtree is marked
// HasError, per spec §4.1's failure semantics.
type Parser struct {
	cur *cursor
	lex *lexer.Lexer

	Diags *diag.Sink
	Strs  *strtab.Table

	nextID ast.NodeID
}

// New creates a parser reading from lex, reporting into diags and
// interning string literals into strs.
func New(lex *lexer.Lexer, diags *diag.Sink, strs *strtab.Table) *Parser {
	return &Parser{cur: newCursor(lex), lex: lex, Diags: diags, Strs: strs}
}

func (p *Parser) id() ast.NodeID {
	id := p.nextID
	p.nextID++
	return id
}

func (p *Parser) tok() token.Token    { return p.cur.cur() }
func (p *Parser) peek(n int) token.Token { return p.cur.peek(n) }
func (p *Parser) kind() token.Kind    { return p.cur.cur().Kind }

func (p *Parser) advance() token.Token { return p.cur.advance() }

// at reports whether the current token has kind k.
func (p *Parser) at(k token.Kind) bool { return p.kind() == k }

// expect consumes the current token if it has kind k, otherwise reports
// a diagnostic and returns the current token without consuming it.
// Callers needing recovery
// should follow a failed expect with sync().
func (p *Parser) expect(k token.Kind) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	t := p.tok()
	p.Diags.Errorf(t.Span, "expected %s, found %s", k, t.Kind)
	return t, false
}

// sync skips tokens until the current one is in the given FIRST/FOLLOW
// set or is EOF, implementing spec §4.1's panic-mode recovery.
func (p *Parser) sync(set ...token.Kind) {
	for {
		if p.at(token.EOF) {
			return
		}
		for _, k := range set {
			if p.at(k) {
				return
			}
		}
		p.advance()
	}
}

// ParseFile is the top-level entry point (spec §4.1: parseFile(tokens,
// diagnostics) -> File). It always returns a non-nil File, even when
// every statement failed to parse.
func ParseFile(lex *lexer.Lexer, diags *diag.Sink, strs *strtab.Table) *ast.File {
	p := New(lex, diags, strs)
	return p.parseFile()
}

func (p *Parser) parseFile() *ast.File {
	f := &ast.File{Base: ast.Base{ID: p.id()}}
	start := p.tok().Span

	for !p.at(token.EOF) {
		mark := p.Diags.Mark()
		switch p.kind() {
		case token.IMPORT:
			d := p.parseImportDecl()
			f.Decls = append(f.Decls, d)
		case token.FUNC:
			if p.peek(1).Kind == token.IDENT {
				d := p.parseFuncDecl()
				f.Decls = append(f.Decls, d)
				continue
			}
			s := p.parseStmt()
			f.Stmts = append(f.Stmts, s)
		default:
			s := p.parseStmt()
			f.Stmts = append(f.Stmts, s)
		}
		if p.Diags.Len() > mark {
			f.HasError = true
		}
	}

	f.Span = token.Span{Start: start.Start, End: p.tok().Span.End}
	return f
}
