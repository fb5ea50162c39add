package ast

import "testing"

func TestSizes(t *testing.T) {
	tests := []struct {
		name string
		typ  Type
		want int
	}{
		{"int", Integer{}, 4},
		{"float", Float{}, 8},
		{"string", String{}, 8},
		{"void", Void{}, 1},
		{"pointer", Pointer{Elem: Integer{}}, 8},
		{"struct", Struct{Fields: []StructField{{Name: "a", Type: Integer{}}, {Name: "b", Type: Float{}}}}, 12},
		{"alias", Alias{Name: "Age", Target: Integer{}}, 4},
	}
	for _, tt := range tests {
		if got := tt.typ.Size(); got != tt.want {
			t.Errorf("%s: Size() = %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestResolveUnwrapsAliasChain(t *testing.T) {
	inner := Alias{Name: "Age", Target: Integer{}}
	outer := Alias{Name: "Years", Target: inner}

	resolved := Resolve(outer)
	if _, ok := resolved.(Integer); !ok {
		t.Fatalf("expected Integer after resolving chain, got %T", resolved)
	}
}

func TestResolveRecursesThroughPointer(t *testing.T) {
	aliased := Pointer{Elem: Alias{Name: "Age", Target: Integer{}}}
	resolved := Resolve(aliased)
	p, ok := resolved.(Pointer)
	if !ok {
		t.Fatalf("expected Pointer, got %T", resolved)
	}
	if _, ok := p.Elem.(Integer); !ok {
		t.Fatalf("expected pointer element to resolve to Integer, got %T", p.Elem)
	}
}

func TestEqualAfterAliasResolution(t *testing.T) {
	age := Alias{Name: "Age", Target: Integer{}}
	if !Equal(age, Integer{}) {
		t.Error("expected Age alias to equal Integer after resolution")
	}
	if Equal(age, Float{}) {
		t.Error("did not expect Age alias to equal Float")
	}
}

func TestEqualStructsByFieldShape(t *testing.T) {
	a := Struct{Fields: []StructField{{Name: "x", Type: Integer{}}}}
	b := Struct{Fields: []StructField{{Name: "x", Type: Integer{}}}}
	c := Struct{Fields: []StructField{{Name: "y", Type: Integer{}}}}
	if !Equal(a, b) {
		t.Error("expected structurally identical structs to be equal")
	}
	if Equal(a, c) {
		t.Error("did not expect structs with different field names to be equal")
	}
}
