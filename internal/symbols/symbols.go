// Package symbols implements the scope tree and symbol table of spec
// §3.2: a tree of scopes mirroring lexical structure, side tables from
// AST node id to symbol, and per-function capture sets for closures.
//
// Grounded on go-dws's internal/semantic/symbol_table.go
// (SymbolTable{symbols map[string]*Symbol, outer *SymbolTable}),
// generalized with the SymbolId/SymbolRef side tables and capture
// tracking spec.md requires.
package symbols

import "github.com/tiro-lang/tiro/internal/ast"

// SymbolID uniquely identifies a declared symbol within one compilation.
type SymbolID uint32

// Kind classifies what a symbol denotes.
type Kind int

const (
	Var Kind = iota
	Const
	Param
	Func
	Import
)

// Symbol is one declared name.
type Symbol struct {
	ID       SymbolID
	Name     string
	Kind     Kind
	DeclNode ast.NodeID
	Scope    *Scope

	// Captured reports whether some nested function reads or writes this
	// symbol across a function boundary (spec §4.2).
	Captured bool

	// ObservedAssignment reports whether the symbol is ever the target of
	// an assignment. The resolver does not set it and no pass reads it,
	// so it is always false.
	ObservedAssignment bool
}

// ScopeKind distinguishes the lexical boundaries scopes are created at
// (spec §4.2: "function, block, for-init, and comprehension boundaries").
type ScopeKind int

const (
	FileScope ScopeKind = iota
	FuncScope
	BlockScope
	ForInitScope
	ComprehensionScope
)

// Scope is one node of the scope tree.
type Scope struct {
	Kind    ScopeKind
	Outer   *Scope
	byName  map[string]*Symbol
	Symbols []*Symbol

	// Function is non-nil for FuncScope and names the enclosing function
	// scope reachable by walking Outer links; it is its own Function.
	Function *Scope

	// Captures is the capture set materialised for this function scope:
	// the set of symbols read/written from a nested function. Populated
	// by the resolver, consumed by the IR builder to allocate a closure
	// environment (spec §3.2, §4.3).
	Captures []*Symbol
	captureSeen map[*Symbol]bool
}

// NewFileScope creates the root scope of a compilation.
func NewFileScope() *Scope {
	s := &Scope{Kind: FileScope, byName: make(map[string]*Symbol)}
	s.Function = s
	return s
}

// NewChild creates a scope nested inside s. For FuncScope children, the
// new scope becomes its own Function anchor; every other kind inherits
// the nearest enclosing function.
func (s *Scope) NewChild(kind ScopeKind) *Scope {
	child := &Scope{Kind: kind, Outer: s, byName: make(map[string]*Symbol)}
	if kind == FuncScope {
		child.Function = child
	} else {
		child.Function = s.Function
	}
	return child
}

// Define declares name in s, returning the new Symbol, or nil plus false
// if name is already declared directly in this scope (a duplicate
// declaration, which the caller should report as a diagnostic).
func (s *Scope) Define(id SymbolID, name string, kind Kind, declNode ast.NodeID) (*Symbol, bool) {
	if _, exists := s.byName[name]; exists {
		return nil, false
	}
	sym := &Symbol{ID: id, Name: name, Kind: kind, DeclNode: declNode, Scope: s}
	s.byName[name] = sym
	s.Symbols = append(s.Symbols, sym)
	return sym, true
}

// Resolve finds the innermost declaration of name visible from s,
// walking outward through enclosing scopes. If the resolution crosses
// one or more function-scope boundaries, it marks the symbol captured
// and records it in each crossed function's capture set, mirroring
// spec §4.2's "uses that cross a function boundary mark the source
// symbol as captured".
func (s *Scope) Resolve(name string) (*Symbol, bool) {
	crossedFuncs := []*Scope{}
	startFunc := s.Function
	for cur := s; cur != nil; cur = cur.Outer {
		if sym, ok := cur.byName[name]; ok {
			if cur.Function != startFunc {
				sym.Captured = true
				for _, fn := range crossedFuncs {
					fn.addCapture(sym)
				}
			}
			return sym, true
		}
		if cur.Kind == FuncScope && cur.Outer != nil {
			crossedFuncs = append(crossedFuncs, cur)
		}
	}
	return nil, false
}

func (s *Scope) addCapture(sym *Symbol) {
	if s.captureSeen == nil {
		s.captureSeen = make(map[*Symbol]bool)
	}
	if s.captureSeen[sym] {
		return
	}
	s.captureSeen[sym] = true
	s.Captures = append(s.Captures, sym)
}

// Table holds the side tables mapping AST node ids to symbols (spec
// §3.2: "Side tables map AST node ids to SymbolId (declarations) or
// SymbolRef (uses)").
type Table struct {
	nextID  SymbolID
	decls   map[ast.NodeID]*Symbol   // declaring node -> its symbol
	refs    map[ast.NodeID]*Symbol   // use-site node (an *ast.Ident) -> resolved symbol
	params  map[paramKey]*Symbol     // (owning func/funclit node, param index) -> its symbol
	funcs   map[ast.NodeID]*Scope    // FuncDecl/FuncLit node -> its FuncScope
	Root    *Scope
}

// paramKey identifies one formal parameter. ast.Param carries no NodeID
// of its own (spec §3.1 only requires ids on Expr/Stmt/Decl/Binding
// nodes), so params are addressed by their owning function's node id
// plus their position in its parameter list instead.
type paramKey struct {
	funcNode ast.NodeID
	index    int
}

// NewTable creates an empty symbol table rooted at a fresh file scope.
func NewTable() *Table {
	return &Table{
		decls:  make(map[ast.NodeID]*Symbol),
		refs:   make(map[ast.NodeID]*Symbol),
		params: make(map[paramKey]*Symbol),
		funcs:  make(map[ast.NodeID]*Scope),
		Root:   NewFileScope(),
	}
}

// BindFuncScope records that funcNode's body resolves against scope.
func (t *Table) BindFuncScope(funcNode ast.NodeID, scope *Scope) { t.funcs[funcNode] = scope }

// FuncScopeOf looks up the FuncScope created for funcNode's body.
func (t *Table) FuncScopeOf(funcNode ast.NodeID) (*Scope, bool) {
	s, ok := t.funcs[funcNode]
	return s, ok
}

// BindParam records that the funcNode-th parameter list's index'th
// parameter declares sym.
func (t *Table) BindParam(funcNode ast.NodeID, index int, sym *Symbol) {
	t.params[paramKey{funcNode, index}] = sym
}

// ParamOf looks up the symbol declared by the index'th parameter of the
// function or function literal identified by funcNode.
func (t *Table) ParamOf(funcNode ast.NodeID, index int) (*Symbol, bool) {
	sym, ok := t.params[paramKey{funcNode, index}]
	return sym, ok
}

// NextID allocates a fresh SymbolID.
func (t *Table) NextID() SymbolID {
	id := t.nextID
	t.nextID++
	return id
}

// BindDecl records that declNode declares sym.
func (t *Table) BindDecl(declNode ast.NodeID, sym *Symbol) { t.decls[declNode] = sym }

// BindRef records that a use-site node resolved to sym.
func (t *Table) BindRef(useNode ast.NodeID, sym *Symbol) { t.refs[useNode] = sym }

// DeclOf looks up the symbol declared at declNode.
func (t *Table) DeclOf(declNode ast.NodeID) (*Symbol, bool) {
	sym, ok := t.decls[declNode]
	return sym, ok
}

// RefOf looks up the symbol a use-site node resolved to.
func (t *Table) RefOf(useNode ast.NodeID) (*Symbol, bool) {
	sym, ok := t.refs[useNode]
	return sym, ok
}
