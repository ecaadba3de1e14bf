package ir

import "github.com/tiro-lang/tiro/internal/strtab"

// Package-level output type of code generation: spec §3.4/§6's link
// object. Unlike Function/Module, a LinkObject is not SSA: it is the
// flattened, linear artifact codegen hands to an (out-of-scope) linker,
// so its ids are LinkItemIds, not InstIds.

// LinkItemId identifies one entry of a LinkObject's item table.
type LinkItemId uint32

// LinkItemKind discriminates a LinkItem: either a placeholder reference
// to a member defined elsewhere (Use) or the actual definition of one
// (Definition), per spec §3.4.
type LinkItemKind uint8

const (
	LinkUse LinkItemKind = iota
	LinkDefinition
)

// DefinitionKind discriminates a Definition LinkItem's payload.
type DefinitionKind uint8

const (
	DefInteger DefinitionKind = iota
	DefFloat
	DefString
	DefSymbol
	DefImport
	DefVariable
	DefFunction
)

// LinkItem is one entry of a LinkObject's numbered item table (spec
// §3.4). A Use carries only the ModuleMemberId it refers to; a
// Definition additionally carries its payload, one of Integer/Float/
// String/Symbol/Import(name)/Variable(name, init)/Function(funcId).
type LinkItem struct {
	Kind   LinkItemKind
	Member ModuleMemberId

	Def DefinitionKind

	Int   int64
	Float FloatConstant
	Str   strtab.ID

	// Import/Variable: Name is the member's interned name.
	Name strtab.ID

	// Variable: Init is the LinkItemId of its initializer, or 0 if none.
	Init LinkItemId

	// Function: Func is the index into LinkObject.Functions.
	Func int
}

// LinkFunctionKind discriminates a LinkFunction as an ordinary top-level
// function or a closure template that expects an environment at
// instantiation (spec §6).
type LinkFunctionKind uint8

const (
	FuncNormal LinkFunctionKind = iota
	FuncClosure
)

// Fixup records that the bytecode byte at Offset embeds a LinkItemId
// which the (out-of-scope) linker must resolve and patch in, per spec
// §3.4 ("a table mapping in-stream offsets to LinkItem ids for later
// fix-up").
type Fixup struct {
	Offset int
	Item   LinkItemId
}

// LinkFunction is one compiled function's emitted form: its bytecode
// byte vector plus enough metadata for the VM to set up a call frame
// (spec §6: name, kind, parameter count, local-slot count).
type LinkFunction struct {
	Name       strtab.ID
	Kind       LinkFunctionKind
	ParamCount int
	LocalCount int
	Code       []byte
	Fixups     []Fixup
}

// LinkObject is code generation's output (spec §3.4/§6): a numbered
// LinkItem table plus a numbered LinkFunction table. It de-duplicates
// Definition items by structural value, so requesting the same constant
// twice returns the same LinkItemId (spec's dedup-idempotence
// property).
type LinkObject struct {
	Items     []LinkItem
	Functions []LinkFunction
}
