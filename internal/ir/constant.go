package ir

import (
	"math"

	"github.com/tiro-lang/tiro/internal/strtab"
)

// ConstantKind discriminates Constant's variants (value.hpp's
// ConstantType).
type ConstantKind uint8

const (
	ConstInteger ConstantKind = iota
	ConstFloat
	ConstString
	ConstSymbol
	ConstNull
	ConstTrue
	ConstFalse
)

// Constant is a compile-time constant, interned into the module's
// constant pool for value numbering and deduplicated link-object
// emission (spec §3.4).
type Constant struct {
	Kind ConstantKind

	Int   int64
	Float FloatConstant
	Str   strtab.ID // used by both ConstString and ConstSymbol
}

func CInteger(v int64) Constant          { return Constant{Kind: ConstInteger, Int: v} }
func CFloat(v float64) Constant          { return Constant{Kind: ConstFloat, Float: FloatConstant{v}} }
func CString(v strtab.ID) Constant       { return Constant{Kind: ConstString, Str: v} }
func CSymbol(v strtab.ID) Constant       { return Constant{Kind: ConstSymbol, Str: v} }
func CNull() Constant                    { return Constant{Kind: ConstNull} }
func CTrue() Constant                    { return Constant{Kind: ConstTrue} }
func CFalse() Constant                   { return Constant{Kind: ConstFalse} }

// Equal reports whether c and other are the same constant, used by the
// link object's definition-deduplication pass (spec §3.4). It is not
// plain `==` because FloatConstant treats NaN as equal to itself,
// unlike Go's native float64 comparison.
func (c Constant) Equal(other Constant) bool {
	if c.Kind != other.Kind {
		return false
	}
	switch c.Kind {
	case ConstInteger:
		return c.Int == other.Int
	case ConstFloat:
		return c.Float.Equal(other.Float)
	case ConstString, ConstSymbol:
		return c.Str == other.Str
	default:
		return true // Null/True/False carry no payload
	}
}

// FloatConstant wraps a float64 so that NaN compares equal to itself,
// matching value.hpp's FloatConstant: "the important difference
// between this and the plain floating point type is that this class
// treats 'nan' as equal to itself. This enables us to store floating
// point constants in containers (e.g. for value numbering)."
type FloatConstant struct {
	Value float64
}

// Equal implements the NaN-equal-to-itself comparison.
func (f FloatConstant) Equal(other FloatConstant) bool {
	if math.IsNaN(f.Value) && math.IsNaN(other.Value) {
		return true
	}
	return f.Value == other.Value
}
