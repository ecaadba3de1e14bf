// Package strtab implements the compilation's string table: an interning
// pool shared by every pass from the parser onward (the lexer does not
// use it). Per spec §5 access is strictly serial within one
// compilation, so no locking is required.
package strtab

// ID is an interned string handle. IDs are dense and start at 0, so the
// zero value is the first string interned, not a "no string" marker.
type ID uint32

// Table interns strings to small dense ids so that later passes (AST,
// symbol table, IR constant pool) can compare names by id instead of by
// content.
type Table struct {
	strings []string
	byValue map[string]ID
}

// New creates an empty string table.
func New() *Table {
	return &Table{byValue: make(map[string]ID)}
}

// Intern returns the id for s, allocating a new one if s was not seen
// before. Interning is idempotent: the same string always yields the
// same id within one Table.
func (t *Table) Intern(s string) ID {
	if id, ok := t.byValue[s]; ok {
		return id
	}
	id := ID(len(t.strings))
	t.strings = append(t.strings, s)
	t.byValue[s] = id
	return id
}

// Lookup returns the string held by id. It panics if id was never
// produced by this table, since that indicates a cross-compilation id
// leak (arenas in this compiler are never shared, per spec §5).
func (t *Table) Lookup(id ID) string {
	return t.strings[id]
}

// Len returns the number of distinct interned strings.
func (t *Table) Len() int { return len(t.strings) }
