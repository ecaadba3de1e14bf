package ast

func (*NameBinding) bindingNode()  {}
func (*TupleBinding) bindingNode() {}

func (n *NameBinding) Kind() Kind  { return KNameBinding }
func (n *TupleBinding) Kind() Kind { return KTupleBinding }

// NameBinding binds a single declared name.
type NameBinding struct {
	Base
	Name string
}

// TupleBinding destructures a tuple-valued initializer into per-element
// bindings (spec §8 scenario 3: `var (a, b, c) = (1, 2, 3)`). Elements
// may themselves be TupleBinding for nested patterns.
type TupleBinding struct {
	Base
	Elements []Binding
}
