// Package scope implements the lexical scope stack and flat symbol
// table: declaration, shadowed lookup, and scope-exit teardown that
// frees owned array buffers.
package scope

import (
	"fmt"

	"github.com/teachlang/teachlang/internal/value"
)

// Variable is named storage: its declared type never changes after
// declaration (§3 invariant). Arrays carry their element type and an
// owned value.Object; scalars carry Val directly.
type Variable struct {
	Name        string
	Type        string // int, float, string, boolean, or array
	IsArray     bool
	ElementType string // meaningful only when IsArray
	IsDefined   bool
	IsLoopVar   bool
	Level       int // scope-stack depth at declaration time
	Val         value.Value
	Array       *value.Object // non-nil only for array variables
}

// Table is the interpreter's symbol table plus its scope stack. The
// symbol table is a flat, append-only (until truncation) slice; the
// scope stack records, for each open scope, the symbol-table length at
// the moment the scope was entered.
type Table struct {
	symbols []*Variable
	scopes  []int

	// AllocCount and FreeCount track array buffer lifecycle for the
	// "every malloc paired with exactly one free" testable property.
	AllocCount int
	FreeCount  int
}

// New returns an empty table with no open scopes.
func New() *Table {
	return &Table{}
}

// EnterScope pushes the current symbol-table length, opening a new
// innermost scope.
func (t *Table) EnterScope() {
	t.scopes = append(t.scopes, len(t.symbols))
}

// ExitScope pops the innermost scope and truncates the symbol table
// back to where it started, freeing any array buffers declared in that
// scope in reverse declaration order.
func (t *Table) ExitScope() {
	if len(t.scopes) == 0 {
		return
	}
	start := t.scopes[len(t.scopes)-1]
	t.scopes = t.scopes[:len(t.scopes)-1]

	for i := len(t.symbols) - 1; i >= start; i-- {
		v := t.symbols[i]
		if v.IsArray && v.Array != nil && !v.Array.Freed {
			v.Array.Freed = true
			v.Array.Elements = nil
			t.FreeCount++
		}
	}
	t.symbols = t.symbols[:start]
}

// Depth reports the number of currently open scopes.
func (t *Table) Depth() int { return len(t.scopes) }

// Size reports the current symbol-table length, used by invariant
// checks (symbol table size equals the sum of scope sizes).
func (t *Table) Size() int { return len(t.symbols) }

// Mark returns the current symbol-table length, usable as a call
// frame's saved locals-start index.
func (t *Table) Mark() int { return len(t.symbols) }

// TruncateTo truncates the symbol table to mark, freeing array buffers
// above it. Used by call-frame cleanup on function return, which must
// discard the callee's locals even though they span a scope the callee
// itself already exited.
func (t *Table) TruncateTo(mark int) {
	for i := len(t.symbols) - 1; i >= mark && i >= 0; i-- {
		v := t.symbols[i]
		if v.IsArray && v.Array != nil && !v.Array.Freed {
			v.Array.Freed = true
			v.Array.Elements = nil
			t.FreeCount++
		}
	}
	if mark < len(t.symbols) {
		t.symbols = t.symbols[:mark]
	}
}

// currentScopeStart returns the symbol-table index at which the
// innermost scope begins, or 0 if no scope is open (top level).
func (t *Table) currentScopeStart() int {
	if len(t.scopes) == 0 {
		return 0
	}
	return t.scopes[len(t.scopes)-1]
}

// Declare adds v to the innermost scope. It fails if a variable with
// the same name already exists in that scope (§4.S).
func (t *Table) Declare(v *Variable) error {
	start := t.currentScopeStart()
	for i := start; i < len(t.symbols); i++ {
		if t.symbols[i].Name == v.Name {
			return fmt.Errorf("duplicate declaration of %q in the same scope", v.Name)
		}
	}
	v.Level = len(t.scopes)
	t.symbols = append(t.symbols, v)
	if v.IsArray && v.Array != nil {
		t.AllocCount++
	}
	return nil
}

// Lookup scans from newest to oldest so an inner declaration shadows an
// outer one of the same name.
func (t *Table) Lookup(name string) (*Variable, bool) {
	for i := len(t.symbols) - 1; i >= 0; i-- {
		if t.symbols[i].Name == name {
			return t.symbols[i], true
		}
	}
	return nil, false
}
