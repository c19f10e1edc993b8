package ir

import "testing"

func TestNewRegisterUnique(t *testing.T) {
	a := NewRegister()
	b := NewRegister()
	if a.Equal(b) {
		t.Fatalf("expected distinct registers, got equal: %s", a)
	}
	if !a.Equal(a) {
		t.Fatalf("expected register to equal itself")
	}
}

func TestTypeResolveThroughReference(t *testing.T) {
	union := &Type{Kind: TypeUnion}
	ref := &Type{Kind: TypeReference, Ref: union}
	union.Variants = []*Type{ref, nil} // self-recursive + payload-less variant

	if got := ref.Resolve(); got != union {
		t.Fatalf("expected Resolve to follow to the union node")
	}
	if !ref.IsUnion() {
		t.Fatalf("expected reference to a union to report IsUnion")
	}
}
