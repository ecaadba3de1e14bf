package irbuilder

import (
	"github.com/tiro-lang/tiro/internal/ast"
	"github.com/tiro-lang/tiro/internal/ir"
)

var binOpMap = map[ast.BinaryOp]ir.BinaryOpType{
	ast.OpBitOr:  ir.BinBitwiseOr,
	ast.OpBitXor: ir.BinBitwiseXor,
	ast.OpBitAnd: ir.BinBitwiseAnd,
	ast.OpEq:     ir.BinEquals,
	ast.OpNeq:    ir.BinNotEquals,
	ast.OpLt:     ir.BinLess,
	ast.OpLte:    ir.BinLessEquals,
	ast.OpGt:     ir.BinGreater,
	ast.OpGte:    ir.BinGreaterEquals,
	ast.OpShl:    ir.BinLeftShift,
	ast.OpShr:    ir.BinRightShift,
	ast.OpAdd:    ir.BinPlus,
	ast.OpSub:    ir.BinMinus,
	ast.OpMul:    ir.BinMultiply,
	ast.OpDiv:    ir.BinDivide,
	ast.OpMod:    ir.BinModulus,
	ast.OpPow:    ir.BinPower,
}

var unaryOpMap = map[ast.UnaryOp]ir.UnaryOpType{
	ast.OpUnaryPlus:   ir.UnaryPlus,
	ast.OpUnaryMinus:  ir.UnaryMinus,
	ast.OpUnaryNot:    ir.UnaryLogicalNot,
	ast.OpUnaryBitNot: ir.UnaryBitwiseNot,
}

var compoundOpMap = map[ast.CompoundOp]ir.BinaryOpType{
	ast.OpAddAssign: ir.BinPlus,
	ast.OpSubAssign: ir.BinMinus,
	ast.OpMulAssign: ir.BinMultiply,
	ast.OpDivAssign: ir.BinDivide,
	ast.OpModAssign: ir.BinModulus,
	ast.OpPowAssign: ir.BinPower,
}
