package parser

import (
	"github.com/tiro-lang/tiro/internal/lexer"
	"github.com/tiro-lang/tiro/internal/token"
)

// cursor buffers lookahead tokens from the lexer on demand, so the
// parser can peek any number of tokens ahead without re-lexing. Grounded on go-dws's internal/parser/cursor.go.
type cursor struct {
	lex    *lexer.Lexer
	buf    []token.Token
	curIdx int
}

func newCursor(lex *lexer.Lexer) *cursor {
	c := &cursor{lex: lex}
	c.fill(2)
	return c
}

func (c *cursor) fill(n int) {
	for len(c.buf) < n {
		c.buf = append(c.buf, c.lex.NextToken())
	}
}

// cur returns the current token.
func (c *cursor) cur() token.Token {
	c.fill(1)
	return c.buf[0]
}

// peek returns the token n positions ahead of cur (peek(1) is the token
// right after cur).
func (c *cursor) peek(n int) token.Token {
	c.fill(n + 1)
	return c.buf[n]
}

// advance consumes the current token and returns it.
func (c *cursor) advance() token.Token {
	c.fill(1)
	t := c.buf[0]
	c.buf = c.buf[1:]
	return t
}
