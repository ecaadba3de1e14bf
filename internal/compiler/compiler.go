// Package compiler wires the front end (lexer, parser, semantic
// analysis), the SSA IR builder, and codegen into the single pipeline
// spec §4 describes end to end, mirroring go-dws's
// cmd/dwscript/cmd/compile.go wiring (lexer -> parser -> analyzer ->
// bytecode.Compiler) but inserting the IR-builder and out-of-SSA stages
// go-dws has no equivalent of between semantic analysis and codegen.
package compiler

import (
	"github.com/tiro-lang/tiro/internal/codegen"
	"github.com/tiro-lang/tiro/internal/diag"
	"github.com/tiro-lang/tiro/internal/ir"
	"github.com/tiro-lang/tiro/internal/irbuilder"
	"github.com/tiro-lang/tiro/internal/lexer"
	"github.com/tiro-lang/tiro/internal/parser"
	"github.com/tiro-lang/tiro/internal/sema"
	"github.com/tiro-lang/tiro/internal/strtab"
	"github.com/tiro-lang/tiro/internal/symbols"
)

// Compile lexes, parses, analyzes, lowers to SSA IR, and emits bytecode
// for one source file (spec §4's pipeline, §3.8's required embedding
// signature). Each stage runs only if the previous one reported no
// errors: a parse error makes semantic analysis meaningless, and so on
// down the pipeline, matching go-dws's RunE short-circuiting in
// compile.go. The returned diagnostics are always complete (every
// diagnostic any stage that did run produced); obj is nil whenever any
// stage reported an error.
func Compile(source []byte, filename string) (*ir.LinkObject, []diag.Diagnostic) {
	diags := diag.NewSink(filename)
	strs := strtab.New()

	lex := lexer.New(string(source))
	file := parser.ParseFile(lex, diags, strs)
	if diags.HasErrors() {
		return nil, diags.All()
	}

	syms := symbols.NewTable()
	an := sema.Analyze(file, syms, diags, strs)
	if diags.HasErrors() {
		return nil, diags.All()
	}

	module := ir.NewModule(strs)
	irbuilder.BuildFile(file, module, syms, an, diags)
	if diags.HasErrors() {
		return nil, diags.All()
	}

	obj := codegen.Generate(module, diags)
	if diags.HasErrors() {
		return nil, diags.All()
	}
	return obj, diags.All()
}
