package codegen

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/tiro-lang/tiro/internal/ir"
)

// Disassemble writes a human-readable listing of every function in obj
// to w, one instruction per line, in the same style as go-dws's
// internal/bytecode disassembler (offset, mnemonic, operands). It knows
// the exact operand layout emit.go writes for every opcode; the two
// must be kept in sync by hand, same as go-dws's own
// compiler.go/disasm.go pair.
func Disassemble(obj *ir.LinkObject, w io.Writer) error {
	for i, fn := range obj.Functions {
		if _, err := fmt.Fprintf(w, "function #%d (params=%d locals=%d):\n", i, fn.ParamCount, fn.LocalCount); err != nil {
			return err
		}
		d := &disasmState{code: fn.Code, w: w}
		for d.pos < len(d.code) {
			if err := d.step(); err != nil {
				return err
			}
		}
	}
	return nil
}

type disasmState struct {
	code []byte
	pos  int
	w    io.Writer
}

func (d *disasmState) u16() uint16 {
	v := binary.LittleEndian.Uint16(d.code[d.pos:])
	d.pos += 2
	return v
}

func (d *disasmState) u32() uint32 {
	v := binary.LittleEndian.Uint32(d.code[d.pos:])
	d.pos += 4
	return v
}

func (d *disasmState) i32() int32 { return int32(d.u32()) }

func (d *disasmState) i64() int64 {
	v := binary.LittleEndian.Uint64(d.code[d.pos:])
	d.pos += 8
	return int64(v)
}

func (d *disasmState) f64() float64 {
	v := binary.LittleEndian.Uint64(d.code[d.pos:])
	d.pos += 8
	return math.Float64frombits(v)
}

func (d *disasmState) slot(v uint16) string {
	if v == noSlot {
		return "-"
	}
	return fmt.Sprintf("s%d", v)
}

// step decodes and prints exactly one instruction, advancing d.pos past
// it. The operand order here must match the corresponding case in
// emit.go exactly.
func (d *disasmState) step() error {
	start := d.pos
	op := OpCode(d.code[d.pos])
	d.pos++

	var line string
	switch op {
	case OpLoadNull, OpLoadTrue, OpLoadFalse:
		line = fmt.Sprintf("%s %s", op, d.slot(d.u16()))
	case OpLoadInt:
		v, dst := d.i64(), d.u16()
		line = fmt.Sprintf("%s %d -> %s", op, v, d.slot(dst))
	case OpLoadFloat:
		v, dst := d.f64(), d.u16()
		line = fmt.Sprintf("%s %g -> %s", op, v, d.slot(dst))
	case OpLoadModule:
		item, dst := d.u32(), d.u16()
		line = fmt.Sprintf("%s item#%d -> %s", op, item, d.slot(dst))
	case OpStoreModule:
		src, item := d.u16(), d.u32()
		line = fmt.Sprintf("%s %s -> item#%d", op, d.slot(src), item)
	case OpLoadOuterEnv:
		line = fmt.Sprintf("%s -> %s", op, d.slot(d.u16()))
	case OpLoadParam:
		idx, dst := d.u16(), d.u16()
		line = fmt.Sprintf("%s p%d -> %s", op, idx, d.slot(dst))
	case OpStoreParam:
		src, idx := d.u16(), d.u16()
		line = fmt.Sprintf("%s %s -> p%d", op, d.slot(src), idx)
	case OpLoadEnv:
		env, lvls, idx, dst := d.u16(), d.u32(), d.u32(), d.u16()
		line = fmt.Sprintf("%s %s +%d[%d] -> %s", op, d.slot(env), lvls, idx, d.slot(dst))
	case OpStoreEnv:
		src, env, lvls, idx := d.u16(), d.u16(), d.u32(), d.u32()
		line = fmt.Sprintf("%s %s -> %s +%d[%d]", op, d.slot(src), d.slot(env), lvls, idx)
	case OpLoadMember:
		obj, name, dst := d.u16(), d.u32(), d.u16()
		line = fmt.Sprintf("%s %s.#%d -> %s", op, d.slot(obj), name, d.slot(dst))
	case OpStoreMember:
		src, obj, name := d.u16(), d.u16(), d.u32()
		line = fmt.Sprintf("%s %s -> %s.#%d", op, d.slot(src), d.slot(obj), name)
	case OpLoadTupleMember:
		obj, idx, dst := d.u16(), d.u32(), d.u16()
		line = fmt.Sprintf("%s %s.%d -> %s", op, d.slot(obj), idx, d.slot(dst))
	case OpStoreTupleMember:
		src, obj, idx := d.u16(), d.u16(), d.u32()
		line = fmt.Sprintf("%s %s -> %s.%d", op, d.slot(src), d.slot(obj), idx)
	case OpLoadIndex:
		obj, idx, dst := d.u16(), d.u16(), d.u16()
		line = fmt.Sprintf("%s %s[%s] -> %s", op, d.slot(obj), d.slot(idx), d.slot(dst))
	case OpStoreIndex:
		src, obj, idx := d.u16(), d.u16(), d.u16()
		line = fmt.Sprintf("%s %s -> %s[%s]", op, d.slot(src), d.slot(obj), d.slot(idx))
	case OpCopy:
		src, dst := d.u16(), d.u16()
		line = fmt.Sprintf("%s %s -> %s", op, d.slot(src), d.slot(dst))
	case OpAdd, OpSub, OpMul, OpDiv, OpMod, OpPow, OpLsh, OpRsh, OpBAnd, OpBOr, OpBXor,
		OpLt, OpLte, OpGt, OpGte, OpEq, OpNeq:
		l, r, dst := d.u16(), d.u16(), d.u16()
		line = fmt.Sprintf("%s %s %s -> %s", op, d.slot(l), d.slot(r), d.slot(dst))
	case OpUAdd, OpUNeg, OpBNot, OpLNot:
		src, dst := d.u16(), d.u16()
		line = fmt.Sprintf("%s %s -> %s", op, d.slot(src), d.slot(dst))
	case OpJmp:
		off := d.i32()
		line = fmt.Sprintf("%s %+d (-> %d)", op, off, d.pos+int(off))
	case OpJmpTrue, OpJmpFalse:
		v := d.u16()
		off := d.i32()
		line = fmt.Sprintf("%s %s %+d (-> %d)", op, d.slot(v), off, d.pos+int(off))
	case OpReturn:
		line = fmt.Sprintf("%s %s", op, d.slot(d.u16()))
	case OpExit:
		line = op.String()
	case OpAssertFail:
		expr, msg := d.u16(), d.u16()
		line = fmt.Sprintf("%s %s %s", op, d.slot(expr), d.slot(msg))
	case OpPush:
		line = fmt.Sprintf("%s %s", op, d.slot(d.u16()))
	case OpCall, OpMethodCall:
		fn, argc, dst := d.u16(), d.u16(), d.u16()
		line = fmt.Sprintf("%s %s argc=%d -> %s", op, d.slot(fn), argc, d.slot(dst))
	case OpEnv:
		parent, size, dst := d.u16(), d.u32(), d.u16()
		line = fmt.Sprintf("%s parent=%s size=%d -> %s", op, d.slot(parent), size, d.slot(dst))
	case OpClosure:
		tmpl, env, dst := d.u32(), d.u16(), d.u16()
		line = fmt.Sprintf("%s tmpl#%d env=%s -> %s", op, tmpl, d.slot(env), d.slot(dst))
	case OpMakeIterator:
		container, dst := d.u16(), d.u16()
		line = fmt.Sprintf("%s %s -> %s", op, d.slot(container), d.slot(dst))
	case OpIterNext:
		iter, valid, value := d.u16(), d.u16(), d.u16()
		line = fmt.Sprintf("%s %s -> valid=%s value=%s", op, d.slot(iter), d.slot(valid), d.slot(value))
	case OpArray, OpTuple, OpSet, OpMap:
		argc, dst := d.u16(), d.u16()
		line = fmt.Sprintf("%s argc=%d -> %s", op, argc, d.slot(dst))
	case OpRecord:
		argc, dst := d.u16(), d.u16()
		names := make([]uint32, argc)
		for i := range names {
			names[i] = d.u32()
		}
		line = fmt.Sprintf("%s argc=%d names=%v -> %s", op, argc, names, d.slot(dst))
	case OpFormatter:
		line = fmt.Sprintf("%s -> %s", op, d.slot(d.u16()))
	case OpAppendFormat:
		v, fmt_ := d.u16(), d.u16()
		line = fmt.Sprintf("%s %s -> %s", op, d.slot(v), d.slot(fmt_))
	case OpFormatResult:
		fmt_, dst := d.u16(), d.u16()
		line = fmt.Sprintf("%s %s -> %s", op, d.slot(fmt_), d.slot(dst))
	default:
		return fmt.Errorf("disasm: unknown opcode %d at offset %d", op, start)
	}

	_, err := fmt.Fprintf(d.w, "%6d  %s\n", start, line)
	return err
}
