// Package value defines the runtime value variants the interpreter
// operates on: null, int, float, string, boolean, and array reference.
package value

import (
	"strconv"
	"strings"
)

// Value is the tagged union of runtime values. Type returns one of
// "int", "float", "string", "boolean", "array", or "null" — the exact
// set the type_of built-in may return. String renders the value in the
// out.display print format.
type Value interface {
	Type() string
	String() string
}

// Int is a signed integer value.
type Int struct{ V int64 }

func (Int) Type() string      { return "int" }
func (i Int) String() string  { return strconv.FormatInt(i.V, 10) }

// Float is a double-precision floating point value.
type Float struct{ V float64 }

func (Float) Type() string     { return "float" }
func (f Float) String() string { return strconv.FormatFloat(f.V, 'g', -1, 64) }

// Str is a bounded-length string value.
type Str struct{ V string }

func (Str) Type() string      { return "string" }
func (s Str) String() string  { return s.V }

// Bool is a boolean value.
type Bool struct{ V bool }

func (Bool) Type() string { return "boolean" }
func (b Bool) String() string {
	if b.V {
		return "true"
	}
	return "false"
}

// Null is the single null value, the only legal value of a void-typed
// expression slot (a call to a void function evaluates to it).
type Null struct{}

func (Null) Type() string   { return "null" }
func (Null) String() string { return "null" }

// Object is the owned backing store of an array Variable: an element
// type tag and a contiguous buffer of that many elements. Only the
// declaring Variable owns an Object; Array values are non-owning
// handles to it.
type Object struct {
	ElementType string
	Elements    []Value
	Freed       bool
}

// Array is a non-owning reference to an array Variable's backing
// Object. Array equality with == is reference identity: two Array
// values are equal iff they point at the same Object.
type Array struct{ Obj *Object }

func (Array) Type() string { return "array" }
func (a Array) String() string {
	var b strings.Builder
	b.WriteString("[")
	for i, e := range a.Obj.Elements {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(e.String())
	}
	b.WriteString("]")
	return b.String()
}

// ZeroValue returns the default-initialized value for a primitive
// element type, used to fill a freshly allocated array buffer.
func ZeroValue(typ string) Value {
	switch typ {
	case "int":
		return Int{0}
	case "float":
		return Float{0}
	case "string":
		return Str{""}
	case "boolean":
		return Bool{false}
	default:
		return Null{}
	}
}
