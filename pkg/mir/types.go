// Package mir defines the machine intermediate representation produced by
// the lowering compiler (pkg/lowering), consumed and rewritten in place by
// the cycle weakener (pkg/weakener), and rendered to source text by the
// emitter (pkg/emitter).
package mir

// Memory is a named machine-IR cell: a target-language identifier holding
// exactly one typed value over its lifetime. Names are assigned once by
// the lowering compiler on first reference to a source Register and never
// change afterward.
type Memory struct {
	Name string

	// Type is the type the cell holds, carried inline the same way
	// ir.Memory carries its own Type rather than through a side table.
	// NewDeclaration sets it as a side effect for cells that get a
	// Declaration statement; the lowering compiler sets it directly for
	// cells bound by a single plain assignment with no Declaration. Nil
	// until one of the two has happened.
	Type *MachineType
}

// MachineTypeKind tags the variant of a MachineType.
type MachineTypeKind int

const (
	MTAtomic MachineTypeKind = iota
	MTTuple
	MTFn
	MTWeakFn
	MTUnion
	MTNamedType
	MTReference
	MTLazy
)

// MachineType is the machine-IR type language: it has everything the
// source ir.Type has, plus the explicit lazy/eager distinction and the
// WeakFn variant the cycle weakener introduces.
type MachineType struct {
	Kind MachineTypeKind

	AtomicName string // valid when Kind == MTAtomic ("int" | "bool")

	Tuple []*MachineType // valid when Kind == MTTuple

	FnArgs []*MachineType // valid when Kind in {MTFn, MTWeakFn}
	FnRet  *MachineType   // valid when Kind in {MTFn, MTWeakFn}

	UnionVariants []string // constructor names; valid when Kind == MTUnion

	Name string // valid when Kind == MTNamedType

	Inner *MachineType // valid when Kind in {MTReference, MTLazy}
}

func Lazy(t *MachineType) *MachineType { return &MachineType{Kind: MTLazy, Inner: t} }

// Eager strips one layer of Lazy, if present; otherwise returns t
// unchanged. Used by lowering to derive a closure's plain function type
// from its FnDef's lazy argument and return types, and by the emitter for
// a FnDef's external signature.
func Eager(t *MachineType) *MachineType {
	if t != nil && t.Kind == MTLazy {
		return t.Inner
	}
	return t
}

func IsLazy(t *MachineType) bool { return t != nil && t.Kind == MTLazy }

// AsWeak returns a copy of a Fn MachineType retagged as WeakFn. Calling it
// on anything else is an internal invariant violation — only the cycle
// weakener calls this, and only on environment-tuple Fn slots.
func AsWeak(t *MachineType) *MachineType {
	if t.Kind != MTFn {
		panic("AsWeak called on non-Fn MachineType")
	}
	return &MachineType{Kind: MTWeakFn, FnArgs: t.FnArgs, FnRet: t.FnRet}
}
