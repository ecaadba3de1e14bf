// Package sema implements the semantic analyzer of spec §4.2:
// identifier resolution against a scope tree, expression-category
// inference (Value/None/Never), and string-literal simplification.
//
// Grounded on go-dws's internal/semantic/analyze_*.go family: one file
// per concern (resolve.go, category.go, simplify.go here) driven by a
// single orchestrator (analyzer.go's Analyzer there, sema.go's Analyzer
// here), reporting through the same internal/diag.Sink the parser uses
// so diagnostics from both passes interleave in source order.
package sema

import (
	"github.com/tiro-lang/tiro/internal/ast"
	"github.com/tiro-lang/tiro/internal/diag"
	"github.com/tiro-lang/tiro/internal/strtab"
	"github.com/tiro-lang/tiro/internal/symbols"
)

// Category is an expression's spec §4.2 classification.
type Category int

const (
	// Value expressions always produce a usable result on normal
	// completion.
	Value Category = iota
	// None expressions produce no value: statement-like constructs
	// (loops, a block whose last statement isn't a Value expression).
	None
	// Never expressions cannot complete normally: return/break/continue,
	// assertion failure, or a branch where every arm is Never.
	Never
)

func (c Category) String() string {
	switch c {
	case Value:
		return "Value"
	case Never:
		return "Never"
	default:
		return "None"
	}
}

// Analyzer runs the resolve, categorize, and simplify passes over one
// file and collects the result side tables.
type Analyzer struct {
	Syms  *symbols.Table
	Diags *diag.Sink
	Strs  *strtab.Table

	categories map[ast.Expr]Category
}

// New creates an analyzer reporting into diags, resolving against syms,
// and interning simplified string literals into strs.
func New(syms *symbols.Table, diags *diag.Sink, strs *strtab.Table) *Analyzer {
	return &Analyzer{
		Syms:       syms,
		Diags:      diags,
		Strs:       strs,
		categories: make(map[ast.Expr]Category),
	}
}

// Analyze runs all three passes over f in the order spec §4.2 implies:
// resolution first (categorization doesn't need symbol info but
// diagnostics should appear in declaration order), then string
// simplification (so categorization sees the simplified tree), then
// categorization.
func Analyze(f *ast.File, syms *symbols.Table, diags *diag.Sink, strs *strtab.Table) *Analyzer {
	a := New(syms, diags, strs)
	resolveFile(a, f)
	simplifyFile(a, f)
	categorizeFile(a, f)
	return a
}

// CategoryOf returns the category previously computed for e, or Value
// if e was never visited (e.g. a node added after Analyze ran).
func (a *Analyzer) CategoryOf(e ast.Expr) Category {
	if c, ok := a.categories[e]; ok {
		return c
	}
	return Value
}
