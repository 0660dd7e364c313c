package interp

import (
	"fmt"

	"github.com/teachlang/teachlang/internal/ast"
)

// builtinNames is the set of names a user function declaration may not
// reuse (§4.F).
var builtinNames = map[string]bool{
	"length":          true,
	"int_to_string":   true,
	"concat":          true,
	"sqrt":            true,
	"to_upper":        true,
	"to_lower":        true,
	"read_file_text":  true,
	"write_file_text": true,
	"substring":       true,
	"string_to_int":   true,
	"string_to_float": true,
	"type_of":         true,
	"pow":             true,
}

// FunctionTable is a flat name-to-definition map.
type FunctionTable struct {
	funcs map[string]*ast.FunctionDecl
}

// NewFunctionTable returns an empty table.
func NewFunctionTable() *FunctionTable {
	return &FunctionTable{funcs: make(map[string]*ast.FunctionDecl)}
}

// Declare registers fn, rejecting a duplicate name or one colliding with
// a built-in.
func (t *FunctionTable) Declare(fn *ast.FunctionDecl) error {
	name := fn.Name.Name
	if builtinNames[name] {
		return fmt.Errorf("function %q collides with a built-in name", name)
	}
	if _, exists := t.funcs[name]; exists {
		return fmt.Errorf("duplicate function declaration %q", name)
	}
	t.funcs[name] = fn
	return nil
}

// Lookup finds a user function definition by name.
func (t *FunctionTable) Lookup(name string) (*ast.FunctionDecl, bool) {
	fn, ok := t.funcs[name]
	return fn, ok
}
