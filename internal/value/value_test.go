package value

import "testing"

func TestPrimitiveTypesAndStrings(t *testing.T) {
	cases := []struct {
		v    Value
		typ  string
		want string
	}{
		{Int{V: 42}, "int", "42"},
		{Float{V: 3.5}, "float", "3.5"},
		{Str{V: "hi"}, "string", "hi"},
		{Bool{V: true}, "boolean", "true"},
		{Bool{V: false}, "boolean", "false"},
		{Null{}, "null", "null"},
	}
	for _, c := range cases {
		if c.v.Type() != c.typ {
			t.Errorf("%#v.Type() = %q, want %q", c.v, c.v.Type(), c.typ)
		}
		if c.v.String() != c.want {
			t.Errorf("%#v.String() = %q, want %q", c.v, c.v.String(), c.want)
		}
	}
}

func TestArrayIsReferenceIdentity(t *testing.T) {
	obj := &Object{ElementType: "int", Elements: []Value{Int{V: 1}, Int{V: 2}}}
	a1 := Array{Obj: obj}
	a2 := Array{Obj: obj}
	if a1 != a2 {
		t.Errorf("expected two Array handles to the same Object to compare equal")
	}

	other := &Object{ElementType: "int", Elements: []Value{Int{V: 1}, Int{V: 2}}}
	a3 := Array{Obj: other}
	if a1 == a3 {
		t.Errorf("expected Array handles to distinct Objects to compare unequal even with identical contents")
	}
}

func TestArrayString(t *testing.T) {
	obj := &Object{ElementType: "int", Elements: []Value{Int{V: 1}, Int{V: 2}, Int{V: 3}}}
	a := Array{Obj: obj}
	want := "[1, 2, 3]"
	if got := a.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestZeroValue(t *testing.T) {
	cases := map[string]Value{
		"int":     Int{0},
		"float":   Float{0},
		"string":  Str{""},
		"boolean": Bool{false},
	}
	for typ, want := range cases {
		if got := ZeroValue(typ); got != want {
			t.Errorf("ZeroValue(%q) = %#v, want %#v", typ, got, want)
		}
	}
}
