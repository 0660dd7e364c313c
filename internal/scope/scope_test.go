package scope

import (
	"testing"

	"github.com/teachlang/teachlang/internal/value"
)

func TestDeclareAndLookupShadowing(t *testing.T) {
	s := New()
	s.EnterScope()
	if err := s.Declare(&Variable{Name: "x", Type: "int", Val: value.Int{V: 1}, IsDefined: true}); err != nil {
		t.Fatal(err)
	}

	s.EnterScope()
	if err := s.Declare(&Variable{Name: "x", Type: "int", Val: value.Int{V: 2}, IsDefined: true}); err != nil {
		t.Fatal(err)
	}
	v, ok := s.Lookup("x")
	if !ok || v.Val.(value.Int).V != 2 {
		t.Fatalf("expected shadowed x=2, got %+v", v)
	}
	s.ExitScope()

	v, ok = s.Lookup("x")
	if !ok || v.Val.(value.Int).V != 1 {
		t.Fatalf("expected outer x=1 after inner scope exits, got %+v", v)
	}
	s.ExitScope()

	if _, ok := s.Lookup("x"); ok {
		t.Fatal("expected x to be gone after its declaring scope exits")
	}
}

func TestDeclareDuplicateInSameScopeFails(t *testing.T) {
	s := New()
	s.EnterScope()
	if err := s.Declare(&Variable{Name: "x", Type: "int"}); err != nil {
		t.Fatal(err)
	}
	if err := s.Declare(&Variable{Name: "x", Type: "int"}); err == nil {
		t.Fatal("expected a duplicate-declaration error")
	}
}

func TestExitScopeFreesArrayBuffers(t *testing.T) {
	s := New()
	s.EnterScope()
	obj := &value.Object{ElementType: "int", Elements: []value.Value{value.Int{V: 1}, value.Int{V: 2}}}
	if err := s.Declare(&Variable{Name: "a", Type: "array", IsArray: true, ElementType: "int", Array: obj, IsDefined: true}); err != nil {
		t.Fatal(err)
	}
	if s.AllocCount != 1 {
		t.Fatalf("AllocCount = %d, want 1", s.AllocCount)
	}
	s.ExitScope()
	if !obj.Freed || obj.Elements != nil {
		t.Fatalf("expected array buffer to be freed, got Freed=%v Elements=%v", obj.Freed, obj.Elements)
	}
	if s.FreeCount != 1 {
		t.Fatalf("FreeCount = %d, want 1", s.FreeCount)
	}
}

func TestMarkAndTruncateTo(t *testing.T) {
	s := New()
	s.EnterScope()
	_ = s.Declare(&Variable{Name: "a", Type: "int"})
	mark := s.Mark()
	_ = s.Declare(&Variable{Name: "b", Type: "int"})
	_ = s.Declare(&Variable{Name: "c", Type: "int"})

	if s.Size() != 3 {
		t.Fatalf("Size() = %d, want 3", s.Size())
	}
	s.TruncateTo(mark)
	if s.Size() != 1 {
		t.Fatalf("Size() after TruncateTo = %d, want 1", s.Size())
	}
	if _, ok := s.Lookup("b"); ok {
		t.Fatal("expected b to be truncated away")
	}
}
