package lowering

import (
	"fmt"

	"lazylift/pkg/ir"
	"lazylift/pkg/mir"
)

// compileTypeDefs extracts the union handles out of
// the program's type list, name each one and its constructors, and build
// the type_lookup table constructor-call and match lowering consult.
// Names are assigned in a first pass so that mutually recursive payloads
// (which reference each other's handles before either's constructor list
// is built) always resolve.
func (c *Compiler) compileTypeDefs(types []*ir.Type) {
	var unions []*ir.Type
	for i, t := range types {
		if t.Kind != ir.TypeUnion {
			continue // non-union handles are inlineable structural types, not nominal
		}
		name := fmt.Sprintf("T%d", i)
		c.typeNames[t] = name
		unions = append(unions, t)
	}

	for _, t := range unions {
		name := c.typeNames[t]
		var variantNames []string
		var ctors []mir.Constructor
		for j, payload := range t.Variants {
			cname := fmt.Sprintf("%sC%d", name, j)
			variantNames = append(variantNames, cname)
			var mt *mir.MachineType
			if payload != nil {
				mt = c.typeOf(payload)
			}
			ctors = append(ctors, mir.Constructor{Name: cname, Payload: mt})
		}
		c.typeDefs = append(c.typeDefs, &mir.TypeDef{Name: name, Constructors: ctors})
		c.typeLookup[t] = &mir.UnionType{Name: name, Variants: variantNames}
	}
}

// typeOf converts a source IR type into its machine-IR equivalent. Union
// handles are flattened to a NamedType reference; every
// union actually used by the program must have been registered by
// compileTypeDefs first.
func (c *Compiler) typeOf(t *ir.Type) *mir.MachineType {
	if t == nil {
		return nil
	}
	switch t.Kind {
	case ir.TypeAtomic:
		return &mir.MachineType{Kind: mir.MTAtomic, AtomicName: t.Atomic.String()}

	case ir.TypeTuple:
		elems := make([]*mir.MachineType, len(t.Tuple))
		for i, e := range t.Tuple {
			elems[i] = c.typeOf(e)
		}
		return &mir.MachineType{Kind: mir.MTTuple, Tuple: elems}

	case ir.TypeFn:
		args := make([]*mir.MachineType, len(t.FnArgs))
		for i, a := range t.FnArgs {
			args[i] = c.typeOf(a)
		}
		return &mir.MachineType{Kind: mir.MTFn, FnArgs: args, FnRet: c.typeOf(t.FnRet)}

	case ir.TypeUnion:
		name, ok := c.typeNames[t]
		if !ok {
			ir.Fail("untyped-undeclared", "union type used but not present in the program's type-def list")
		}
		return &mir.MachineType{Kind: mir.MTNamedType, Name: name}

	case ir.TypeReference:
		return c.typeOf(t.Ref)

	default:
		ir.Fail("unknown-type-kind", "lowering: unhandled type kind %v", t.Kind)
		return nil
	}
}

// resolveUnion follows Reference indirection to the shared Union handle a
// type_lookup entry is keyed by, without going through Type.Resolve's
// cycle bookkeeping (lowering never chases a Reference far enough to
// revisit one — every Reference here terminates at a Union within one or
// two hops).
func resolveUnion(t *ir.Type) *ir.Type {
	for t != nil && t.Kind == ir.TypeReference {
		t = t.Ref
	}
	return t
}
