package emitter

import (
	"strings"

	"lazylift/pkg/mir"
)

// renderTypeDefs: forward-declare every constructor struct, alias each
// union as a Variant over its constructors, then emit
// the constructor struct bodies in dependency order so a constructor that
// embeds another union's value never references an incomplete type.
func renderTypeDefs(typeDefs []*mir.TypeDef, c *ctx) {
	for _, td := range typeDefs {
		for _, ctor := range td.Constructors {
			c.line("struct %s;", ctor.Name)
		}
	}
	c.line("")

	for _, td := range typeDefs {
		names := make([]string, len(td.Constructors))
		for i, ctor := range td.Constructors {
			names[i] = ctor.Name
		}
		c.line("using %s = %s<%s>;", td.Name, rtVariant, strings.Join(names, ", "))
	}
	c.line("")

	for _, td := range topoSortTypeDefs(typeDefs) {
		for _, ctor := range td.Constructors {
			c.line("struct %s {", ctor.Name)
			c.indent++
			if ctor.Payload != nil {
				c.line("using type = %s;", typeName(ctor.Payload))
				c.line("%s<type> value;", rtLazy)
			} else {
				c.line("%s value;", rtEmpty)
			}
			c.indent--
			c.line("};")
			c.stats.TypeDefs++
		}
	}
	c.line("")
}

// directlyUsedTypes returns the names of every other TypeDef td's
// constructors reference, found by walking each payload type for
// MTNamedType leaves.
func directlyUsedTypes(td *mir.TypeDef) []string {
	var out []string
	seen := map[string]bool{}
	var walk func(t *mir.MachineType)
	walk = func(t *mir.MachineType) {
		if t == nil {
			return
		}
		switch t.Kind {
		case mir.MTNamedType:
			if !seen[t.Name] {
				seen[t.Name] = true
				out = append(out, t.Name)
			}
		case mir.MTTuple:
			for _, e := range t.Tuple {
				walk(e)
			}
		case mir.MTFn, mir.MTWeakFn:
			for _, a := range t.FnArgs {
				walk(a)
			}
			walk(t.FnRet)
		case mir.MTReference, mir.MTLazy:
			walk(t.Inner)
		}
	}
	for _, ctor := range td.Constructors {
		walk(ctor.Payload)
	}
	return out
}

// topoSortTypeDefs orders TypeDefs so that every union a TypeDef's
// constructors directly reference comes out before it, with stable
// insertion order among TypeDefs with no ordering constraint between them
// so the output is deterministic.
func topoSortTypeDefs(typeDefs []*mir.TypeDef) []*mir.TypeDef {
	byName := make(map[string]*mir.TypeDef, len(typeDefs))
	for _, td := range typeDefs {
		byName[td.Name] = td
	}

	var out []*mir.TypeDef
	visited := make(map[string]bool, len(typeDefs))
	var visiting map[string]bool = make(map[string]bool)

	var visit func(td *mir.TypeDef)
	visit = func(td *mir.TypeDef) {
		if visited[td.Name] {
			return
		}
		if visiting[td.Name] {
			// Mutually recursive unions — a union can legally depend on
			// itself or a sibling that depends back on it. Nothing more to
			// order; the
			// struct bodies hold their cross-references through Lazy, never
			// by value, so forward declarations already cover this.
			return
		}
		visiting[td.Name] = true
		for _, dep := range directlyUsedTypes(td) {
			if other, ok := byName[dep]; ok {
				visit(other)
			}
		}
		visiting[td.Name] = false
		visited[td.Name] = true
		out = append(out, td)
	}

	for _, td := range typeDefs {
		visit(td)
	}
	return out
}
