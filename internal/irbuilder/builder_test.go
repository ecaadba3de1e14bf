package irbuilder

import (
	"testing"

	"github.com/tiro-lang/tiro/internal/diag"
	"github.com/tiro-lang/tiro/internal/ir"
	"github.com/tiro-lang/tiro/internal/lexer"
	"github.com/tiro-lang/tiro/internal/parser"
	"github.com/tiro-lang/tiro/internal/sema"
	"github.com/tiro-lang/tiro/internal/strtab"
	"github.com/tiro-lang/tiro/internal/symbols"
)

// lower lexes, parses, analyzes, and lowers src into a fresh ir.Module,
// failing the test if any pass reports a diagnostic.
func lower(t *testing.T, src string) *ir.Module {
	t.Helper()
	diags := diag.NewSink("test.tiro")
	strs := strtab.New()
	file := parser.ParseFile(lexer.New(src), diags, strs)
	syms := symbols.NewTable()
	an := sema.Analyze(file, syms, diags, strs)
	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %s", diags.String())
	}
	module := ir.NewModule(strs)
	BuildFile(file, module, syms, an, diags)
	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics after lowering: %s", diags.String())
	}
	return module
}

func TestLowerTopLevelScript(t *testing.T) {
	module := lower(t, `
var x = 1;
var y = x + 2;
`)
	if len(module.Functions) != 1 {
		t.Fatalf("expected one synthetic entry function, got %d", len(module.Functions))
	}
	fn := module.Functions[0]
	if len(fn.BlockIds()) == 0 {
		t.Fatalf("expected at least one block")
	}
	entry := fn.Block(fn.Entry)
	if entry.Terminator.Kind == ir.TermNone {
		t.Fatalf("entry block should be terminated after lowering")
	}
}

func TestLowerFuncDeclWithParams(t *testing.T) {
	module := lower(t, `
func add(a, b) {
	return a + b;
}
`)
	if len(module.Functions) != 1 {
		t.Fatalf("expected one function, got %d", len(module.Functions))
	}
	fn := module.Functions[0]
	if len(fn.Params) != 2 {
		t.Fatalf("expected 2 params, got %d", len(fn.Params))
	}
	entry := fn.Block(fn.Entry)
	if entry.Terminator.Kind != ir.TermReturn {
		t.Fatalf("expected a Return terminator in a single-block function, got %s", entry.Terminator.Kind)
	}
}

func TestLowerWhileLoopSealsHeaderAfterBackEdge(t *testing.T) {
	module := lower(t, `
func count(n) {
	var i = 0;
	while (i < n) {
		i = i + 1;
	}
	return i;
}
`)
	fn := module.Functions[0]
	if len(fn.BlockIds()) < 4 {
		t.Fatalf("expected at least 4 blocks (entry, header, body, exit), got %d", len(fn.BlockIds()))
	}
	sawCompletePhi := false
	for _, id := range fn.BlockIds() {
		blk := fn.Block(id)
		if len(blk.Preds) != 2 {
			continue
		}
		for _, inst := range blk.Insts {
			v := fn.Value(inst)
			if v.Kind == ir.VPhi && len(fn.List(v.Operands)) == len(blk.Preds) {
				sawCompletePhi = true
			}
		}
	}
	if !sawCompletePhi {
		t.Fatalf("expected the loop header's phi for i to get one operand per predecessor once sealed")
	}
}

func TestLowerIfExpressionProducesPhi(t *testing.T) {
	module := lower(t, `
func sign(n) {
	return if (n < 0) { -1 } else { 1 };
}
`)
	fn := module.Functions[0]
	foundPhi := false
	for _, id := range fn.BlockIds() {
		for _, inst := range fn.Block(id).Insts {
			if fn.Value(inst).Kind == ir.VPhi {
				foundPhi = true
			}
		}
	}
	if !foundPhi {
		t.Fatalf("expected a Phi value merging the if-expression's two arms")
	}
}

func TestLowerClosureCapturesOuterVariable(t *testing.T) {
	module := lower(t, `
func counter() {
	var n = 0;
	var inc = func() {
		n = n + 1;
		return n;
	};
	return inc;
}
`)
	if len(module.Functions) != 2 {
		t.Fatalf("expected the outer function plus its nested closure, got %d", len(module.Functions))
	}

	var sawMakeEnv, sawMakeClosure bool
	for _, fn := range module.Functions {
		for _, id := range fn.BlockIds() {
			for _, inst := range fn.Block(id).Insts {
				switch fn.Value(inst).Kind {
				case ir.VMakeEnvironment:
					sawMakeEnv = true
				case ir.VMakeClosure:
					sawMakeClosure = true
				}
			}
		}
	}
	if !sawMakeEnv {
		t.Errorf("expected a MakeEnvironment instruction for the captured variable n")
	}
	if !sawMakeClosure {
		t.Errorf("expected a MakeClosure instruction for the nested function literal")
	}
}

func TestLowerOptionalFieldAccessShortCircuits(t *testing.T) {
	module := lower(t, `
func name(obj) {
	return obj?.name;
}
`)
	fn := module.Functions[0]
	if len(fn.BlockIds()) < 4 {
		t.Fatalf("expected the null-test branch/merge to allocate extra blocks, got %d", len(fn.BlockIds()))
	}
	foundBranch := false
	for _, id := range fn.BlockIds() {
		if fn.Block(id).Terminator.Kind == ir.TermBranch {
			foundBranch = true
		}
	}
	if !foundBranch {
		t.Fatalf("expected a Branch terminator implementing the null short-circuit")
	}
}
