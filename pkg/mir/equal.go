package mir

// Equal reports whether two MachineTypes are structurally identical. The
// lowering compiler's if/match lowering needs this: every branch writes
// into the same result cell, and before that cell's Declaration is hoisted
// above the statement, the branches must agree on its type — a
// disagreement is reported as an invariant violation.
//
// Recursion terminates on named unions by comparing names rather than
// walking into their constructor lists again (a NamedType is the lowering
// compiler's flattening of what would otherwise be an infinite Reference
// cycle — see ir.Type.Resolve and pkg/lowering's type-def compiler).
func Equal(a, b *MachineType) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case MTAtomic:
		return a.AtomicName == b.AtomicName
	case MTTuple:
		return equalTypeSlices(a.Tuple, b.Tuple)
	case MTFn, MTWeakFn:
		return equalTypeSlices(a.FnArgs, b.FnArgs) && Equal(a.FnRet, b.FnRet)
	case MTUnion:
		return equalStringSlices(a.UnionVariants, b.UnionVariants)
	case MTNamedType:
		return a.Name == b.Name
	case MTReference, MTLazy:
		return Equal(a.Inner, b.Inner)
	default:
		return false
	}
}

func equalTypeSlices(a, b []*MachineType) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

func equalStringSlices(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
