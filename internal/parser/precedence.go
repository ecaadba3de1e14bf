package parser

import "github.com/tiro-lang/tiro/internal/token"

// Precedence levels, numbered low to high to match spec §4.1's table
// (lowest, 0, binds nothing; precAssign, 1, is the loosest-binding
// operator level; precPostfix, 15, is the tightest-binding).
type precedence int

const (
	lowest precedence = iota
	precAssign
	precOrOr
	precAndAnd
	precNullCoalesce
	precBitOr
	precBitXor
	precBitAnd
	precEquality
	precRelational
	precShift
	precAdditive
	precMultiplicative
	precPower
	precPrefix
	precPostfix
)

// binaryPrecedences maps an infix operator token to its precedence
// level. Unlisted tokens are not infix operators (precedence lowest).
var binaryPrecedences = map[token.Kind]precedence{
	token.ASSIGN: precAssign, token.PLUS_EQ: precAssign, token.MINUS_EQ: precAssign,
	token.STAR_EQ: precAssign, token.SLASH_EQ: precAssign, token.PERCENT_EQ: precAssign,
	token.POW_EQ: precAssign,

	token.OR_OR:   precOrOr,
	token.AND_AND: precAndAnd,
	token.QQ:      precNullCoalesce,

	token.PIPE:  precBitOr,
	token.CARET: precBitXor,
	token.AMP:   precBitAnd,

	token.EQ: precEquality, token.NEQ: precEquality,

	token.LT: precRelational, token.LTE: precRelational,
	token.GT: precRelational, token.GTE: precRelational,

	token.SHL: precShift, token.SHR: precShift,

	token.PLUS: precAdditive, token.MINUS: precAdditive,

	token.STAR: precMultiplicative, token.SLASH: precMultiplicative, token.PERCENT: precMultiplicative,

	token.POW: precPower,

	token.LPAREN: precPostfix, token.LBRACKET: precPostfix, token.DOT: precPostfix,
	token.QDOT: precPostfix, token.QLBRACKET: precPostfix, token.QLPAREN: precPostfix,
}

// rightAssoc is the set of operator token kinds that associate to the
// right (spec §4.1: assignment forms and `**`).
var rightAssoc = map[token.Kind]bool{
	token.ASSIGN: true, token.PLUS_EQ: true, token.MINUS_EQ: true, token.STAR_EQ: true,
	token.SLASH_EQ: true, token.PERCENT_EQ: true, token.POW_EQ: true,
	token.POW: true,
}

func precedenceOf(k token.Kind) precedence {
	if p, ok := binaryPrecedences[k]; ok {
		return p
	}
	return lowest
}
