package compiler_test

import (
	"testing"

	"github.com/tiro-lang/tiro/internal/compiler"
)

func TestCompileSucceedsOnValidProgram(t *testing.T) {
	obj, diags := compiler.Compile([]byte(`
func add(a, b) {
	return a + b;
}

var result = add(1, 2);
`), "valid.tiro")

	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if obj == nil {
		t.Fatalf("expected a link object for a valid program")
	}
	if len(obj.Functions) == 0 {
		t.Fatalf("expected at least one compiled function")
	}
}

func TestCompileStopsAtParseErrors(t *testing.T) {
	obj, diags := compiler.Compile([]byte(`func ( {{{`), "bad_syntax.tiro")

	if obj != nil {
		t.Fatalf("expected a nil link object when parsing fails")
	}
	if len(diags) == 0 {
		t.Fatalf("expected at least one diagnostic for invalid syntax")
	}
}

func TestCompileStopsAtSemanticErrors(t *testing.T) {
	obj, diags := compiler.Compile([]byte(`
func useUndefined() {
	return undefinedName;
}
`), "undefined.tiro")

	if obj != nil {
		t.Fatalf("expected a nil link object when semantic analysis fails")
	}
	if len(diags) == 0 {
		t.Fatalf("expected at least one diagnostic for the undefined reference")
	}
}

func TestCompileIsDeterministic(t *testing.T) {
	src := []byte(`
func fib(n) {
	if (n < 2) {
		return n;
	}
	return fib(n - 1) + fib(n - 2);
}
`)

	obj1, diags1 := compiler.Compile(src, "fib.tiro")
	if len(diags1) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags1)
	}
	obj2, diags2 := compiler.Compile(src, "fib.tiro")
	if len(diags2) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags2)
	}

	if len(obj1.Functions) != len(obj2.Functions) {
		t.Fatalf("function count differs across runs: %d vs %d", len(obj1.Functions), len(obj2.Functions))
	}
	for i := range obj1.Functions {
		a, b := obj1.Functions[i], obj2.Functions[i]
		if a.Name != b.Name || a.Kind != b.Kind || a.ParamCount != b.ParamCount || a.LocalCount != b.LocalCount {
			t.Fatalf("function #%d metadata differs across runs: %+v vs %+v", i, a, b)
		}
		if string(a.Code) != string(b.Code) {
			t.Fatalf("function #%d bytecode differs across runs", i)
		}
	}
}
