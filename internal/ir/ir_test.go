package ir

import (
	"math"
	"testing"

	"github.com/tiro-lang/tiro/internal/strtab"
)

func TestFunctionArenasStartAtOneValidId(t *testing.T) {
	fn := NewFunction(0)
	if fn.Entry == 0 {
		t.Fatalf("entry block must not reuse the reserved zero id")
	}
	inst := fn.Emit(fn.Entry, NewConstant(CInteger(42)))
	if !inst.Valid() {
		t.Fatalf("first real instruction should be a valid id")
	}
	if fn.Value(inst).Kind != VConstant {
		t.Fatalf("expected VConstant, got %s", fn.Value(inst).Kind)
	}
	if fn.DefBlock(inst) != fn.Entry {
		t.Fatalf("instruction should be recorded as defined in its emitting block")
	}
}

func TestBlockPredecessorsDeduplicate(t *testing.T) {
	fn := NewFunction(0)
	b := fn.NewBlock()
	fn.Block(b).AddPred(fn.Entry)
	fn.Block(b).AddPred(fn.Entry)
	if len(fn.Block(b).Preds) != 1 {
		t.Fatalf("expected AddPred to dedupe repeated edges, got %d preds", len(fn.Block(b).Preds))
	}
}

func TestInstListRoundTrips(t *testing.T) {
	fn := NewFunction(0)
	a := fn.Emit(fn.Entry, NewConstant(CInteger(1)))
	b := fn.Emit(fn.Entry, NewConstant(CInteger(2)))
	list := fn.NewList([]InstId{a})
	fn.AppendList(list, b)
	got := fn.List(list)
	if len(got) != 2 || got[0] != a || got[1] != b {
		t.Fatalf("expected [%d %d], got %v", a, b, got)
	}
}

func TestRecordArenaRoundTrips(t *testing.T) {
	fn := NewFunction(0)
	rv := RecordValue{Names: []strtab.ID{1, 2}, Values: []InstId{1, 2}}
	id := fn.NewRecord(rv)
	got := fn.Record(id)
	if len(got.Names) != 2 || got.Values[1] != 2 {
		t.Fatalf("record round-trip mismatch: %+v", got)
	}
}

func TestFloatConstantNaNEqualsItself(t *testing.T) {
	nan := CFloat(math.NaN())
	if !nan.Equal(nan) {
		t.Fatalf("NaN constant should compare equal to itself for value-numbering dedup")
	}
	if nan.Equal(CFloat(1.5)) {
		t.Fatalf("distinct float constants must not compare equal")
	}
}

func TestConstantEqualDistinguishesKinds(t *testing.T) {
	if CNull().Equal(CFalse()) {
		t.Fatalf("null and false must not compare equal")
	}
	if !CInteger(7).Equal(CInteger(7)) {
		t.Fatalf("equal integer constants must compare equal")
	}
	if CInteger(7).Equal(CInteger(8)) {
		t.Fatalf("distinct integer constants must not compare equal")
	}
}

func TestModuleAddFunctionAssignsMemberIds(t *testing.T) {
	strs := strtab.New()
	m := NewModule(strs)
	fn := NewFunction(strs.Intern("f"))
	id := m.AddFunction(fn)
	if m.Members[id].Kind != MemberFunction {
		t.Fatalf("expected MemberFunction, got %v", m.Members[id].Kind)
	}
	if m.Members[id].Func != fn {
		t.Fatalf("module member should reference the same *Function")
	}
}

func TestAggregateMemberRequiredKind(t *testing.T) {
	if MethodInstance.RequiredAggregateKind() != AggMethod {
		t.Fatalf("MethodInstance must require AggMethod")
	}
	if IteratorNextValue.RequiredAggregateKind() != AggIteratorNext {
		t.Fatalf("IteratorNextValue must require AggIteratorNext")
	}
}
