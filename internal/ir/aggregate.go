package ir

import "github.com/tiro-lang/tiro/internal/strtab"

// AggregateKind discriminates Aggregate's variants.
type AggregateKind uint8

const (
	AggMethod AggregateKind = iota
	AggIteratorNext
)

// Aggregate is a virtual grouping of values that exists only at IR
// level: the irbuilder produces one in place of allocating a real
// tuple object whenever a language construct naturally yields a pair,
// so that an efficient method call or iterator step never needs to
// materialize that pair as a runtime value. GetAggregateMember
// instructions split it back into its parts.
type Aggregate struct {
	Kind AggregateKind

	// Method (Kind == AggMethod): the instance a method is being called
	// on, and the method's name.
	Instance InstId
	Function strtab.ID

	// IteratorNext (Kind == AggIteratorNext): the iterator being
	// advanced.
	Iterator InstId
}

func AggregateMethod(instance InstId, function strtab.ID) Aggregate {
	return Aggregate{Kind: AggMethod, Instance: instance, Function: function}
}

func AggregateIteratorNext(iterator InstId) Aggregate {
	return Aggregate{Kind: AggIteratorNext, Iterator: iterator}
}
