package parser

import "github.com/tiro-lang/tiro/internal/token"

// parseBracedList is the generic helper spec §4.1 describes: it parses
// `open elem (, elem)* [,]? close`, parameterized by the bracketing
// tokens, whether a trailing comma is accepted, and an optional cap on
// the number of elements (0 means unbounded). It reports and recovers
// from a missing closer by synchronizing to close, a semicolon or EOF.
func parseBracedList[T any](p *Parser, open, close token.Kind, trailingComma bool, maxElems int, elem func() T) ([]T, bool) {
	if _, ok := p.expect(open); !ok {
		p.sync(close, token.SEMI, token.EOF)
		if p.at(close) {
			p.advance()
		}
		var empty []T
		return empty, false
	}

	var items []T
	for !p.at(close) && !p.at(token.EOF) {
		if maxElems > 0 && len(items) >= maxElems {
			p.Diags.Errorf(p.tok().Span, "too many elements (max %d)", maxElems)
			break
		}
		items = append(items, elem())
		if p.at(token.COMMA) {
			p.advance()
			if trailingComma && p.at(close) {
				break
			}
			continue
		}
		break
	}
	_, ok := p.expect(close)
	if !ok {
		p.sync(close, token.SEMI, token.EOF)
		if p.at(close) {
			p.advance()
		}
	}
	return items, ok
}
