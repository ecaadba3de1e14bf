// Package tiro is the public embedding surface: a thin facade over
// internal/compiler for callers that link this module in directly
// rather than invoking cmd/tiroc. It mirrors the shape of go-dws's
// pkg/dwscript boundary (construct an engine/compilation value, call a
// Compile method on it) without go-dws's wider C-style host-FFI surface
// (WithCompileMode, Eval, callback registration, ...), which is out of
// scope per spec §1: this module stops at producing a link object, not
// running one.
package tiro

import (
	"github.com/tiro-lang/tiro/internal/compiler"
	"github.com/tiro-lang/tiro/internal/diag"
	"github.com/tiro-lang/tiro/internal/ir"
)

// Compilation is one source file's worth of compilation context: just
// the filename diagnostics are reported against. It carries no other
// state, since every Compile call is independent (spec §5: compiling
// one file never depends on another compilation's results).
type Compilation struct {
	Filename string
}

// NewCompilation returns a Compilation that will attribute diagnostics
// to filename.
func NewCompilation(filename string) *Compilation {
	return &Compilation{Filename: filename}
}

// Compile lowers source all the way to a bytecode link object, per
// spec §3.8's required embedding signature.
func (c *Compilation) Compile(source []byte) (*ir.LinkObject, []diag.Diagnostic) {
	return compiler.Compile(source, c.Filename)
}
