package ir

// AtomicKind distinguishes the two atomic base types.
type AtomicKind int

const (
	AtomicInt AtomicKind = iota
	AtomicBool
)

func (k AtomicKind) String() string {
	if k == AtomicBool {
		return "bool"
	}
	return "int"
}

// TypeKind tags the variant of a Type.
type TypeKind int

const (
	TypeAtomic TypeKind = iota
	TypeTuple
	TypeFn
	TypeUnion
	// TypeReference is a shared, mutable handle to another Type. It exists
	// so that mutually recursive union definitions can be wired up after
	// all their members have been allocated: a Reference node is created
	// first, and its Ref field is set to point at the real Union node once
	// it is known. Equality/identity for recursive-type purposes is the
	// identity of the pointer a Reference ultimately resolves to, not the
	// Reference node itself.
	TypeReference
)

// Type is a tagged union over the IR's type language. Unions may be
// mutually recursive: a Union variant's payload can be a Reference back to
// another Union Type allocated elsewhere in the same Program, including
// itself. Because Type is always handled through a *Type pointer, pointer
// identity doubles as the shared handle recursive unions are encoded
// with — a Reference's Ref field is simply set to that same pointer.
type Type struct {
	Kind TypeKind

	Atomic AtomicKind // valid when Kind == TypeAtomic

	Tuple []*Type // valid when Kind == TypeTuple

	FnArgs []*Type // valid when Kind == TypeFn
	FnRet  *Type   // valid when Kind == TypeFn

	// Variants holds one entry per union constructor; a nil entry means
	// that constructor carries no payload. Valid when Kind == TypeUnion.
	Variants []*Type

	// Ref is the shared handle a Reference points through. Valid when
	// Kind == TypeReference.
	Ref *Type
}

// Resolve follows Reference indirection until it reaches a non-Reference
// Type (or a nil Ref, which signals an incompletely wired recursive type —
// an internal invariant violation if ever observed downstream).
func (t *Type) Resolve() *Type {
	seen := map[*Type]bool{}
	cur := t
	for cur != nil && cur.Kind == TypeReference {
		if seen[cur] {
			return cur
		}
		seen[cur] = true
		cur = cur.Ref
	}
	return cur
}

// IsUnion reports whether t resolves to a union type.
func (t *Type) IsUnion() bool {
	r := t.Resolve()
	return r != nil && r.Kind == TypeUnion
}
