package interp

import (
	"testing"

	"github.com/teachlang/teachlang/internal/value"
)

func TestBuiltinArityAndTypeErrors(t *testing.T) {
	if _, _, err := builtinLength([]value.Value{}); err == nil {
		t.Error("expected an arity error for length()")
	}
	if _, _, err := builtinLength([]value.Value{value.Int{V: 1}}); err == nil {
		t.Error("expected a type error for length(1)")
	}
	if _, _, err := builtinSqrt([]value.Value{value.Int{V: -4}}); err == nil {
		t.Error("expected an error for sqrt of a negative number")
	}
}

func TestBuiltinSubstringClampsLength(t *testing.T) {
	v, _, err := builtinSubstring([]value.Value{value.Str{V: "hello"}, value.Int{V: 2}, value.Int{V: 100}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := v.(value.Str).V; got != "llo" {
		t.Errorf("substring = %q, want %q", got, "llo")
	}
}

func TestBuiltinWriteFileTextReturnsFalseOnFailure(t *testing.T) {
	v, _, err := builtinWriteFileText([]value.Value{
		value.Str{V: "/nonexistent-dir/does-not-exist/out.txt"},
		value.Str{V: "hi"},
	})
	if err != nil {
		t.Fatalf("unexpected error (should return false, not an error): %v", err)
	}
	if v.(value.Bool).V {
		t.Error("expected write_file_text to report false on failure")
	}
}
