package emitter

import (
	"strings"

	"lazylift/pkg/mir"
)

// typeName renders a MachineType as the C++-style type spelling the
// runtime's templates expect. Atomic
// names are capitalized ("int" -> "Int", "bool" -> "Bool") to match the
// value-literal constructors the same table renders ("Int{v LL}",
// "Bool{b}") — the type and its default constructor share a name in the
// runtime surface.
func typeName(t *mir.MachineType) string {
	if t == nil {
		return rtEmpty
	}
	switch t.Kind {
	case mir.MTAtomic:
		return capitalize(t.AtomicName)

	case mir.MTTuple:
		if len(t.Tuple) == 0 {
			return rtEmpty
		}
		return rtTuple + "<" + joinTypes(t.Tuple) + ">"

	case mir.MTFn:
		return rtFn + "<" + joinTypes(append([]*mir.MachineType{t.FnRet}, t.FnArgs...)) + ">"

	case mir.MTWeakFn:
		return rtWeakFn + "<" + joinTypes(append([]*mir.MachineType{t.FnRet}, t.FnArgs...)) + ">"

	case mir.MTUnion:
		return rtVariant + "<" + strings.Join(t.UnionVariants, ", ") + ">"

	case mir.MTNamedType:
		return t.Name

	case mir.MTReference:
		return "shared_ptr<" + typeName(t.Inner) + ">"

	case mir.MTLazy:
		return rtLazy + "<" + typeName(t.Inner) + ">"

	default:
		Fail("unknown-machine-type-kind", "emitter: unhandled MachineType kind %v", t.Kind)
		return ""
	}
}

func joinTypes(ts []*mir.MachineType) string {
	names := make([]string, len(ts))
	for i, t := range ts {
		names[i] = typeName(t)
	}
	return strings.Join(names, ", ")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// unionNameOf recovers the nominal union name a value of type t was
// declared with, following through Lazy (constructor-call results are
// declared lazy, so this is the common case). Constructor calls never
// target a bare MTUnion-kind cell directly — the lowering compiler always
// flattens a union reference to MTNamedType — so any other shape here is
// a lowering defect.
func unionNameOf(t *mir.MachineType) string {
	t = mir.Eager(t)
	if t == nil || t.Kind != mir.MTNamedType {
		Fail("non-named-type-for-constructor", "constructor call's target cell is not a named union type: %+v", t)
	}
	return t.Name
}
