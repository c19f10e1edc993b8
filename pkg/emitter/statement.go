package emitter

import (
	"strings"

	"lazylift/pkg/mir"
)

// renderBlock partitions the statement list into Declarations,
// Allocations, and everything else; it emits declarations first, then
// allocations, then the closure predefinitions, then the remaining
// statements in their original order.
func renderBlock(stmts []*mir.Statement, c *ctx) {
	var decls []*mir.Declaration
	var allocs []*mir.Allocation
	var other []*mir.Statement

	for _, st := range stmts {
		switch st.Kind {
		case mir.StmtDeclaration:
			decls = append(decls, st.Declaration)
		case mir.StmtAllocation:
			allocs = append(allocs, st.Allocation)
		default:
			other = append(other, st)
		}
	}

	for _, d := range decls {
		c.line("%s %s;", typeName(d.Type), d.Memory.Name)
		c.stats.Declarations++
	}

	for _, a := range allocs {
		renderAllocation(a, c)
	}

	renderClosurePredefinitions(other, c)

	for _, st := range other {
		renderOther(st, c)
	}
}

// renderAllocation emits a local struct type whose i-th field is the
// i-th member closure's ClosureFnT slot (built from that FnDef's EnvT and
// Fn), then a single shared instance of it at the allocation's target cell. Every member's
// memory name is recorded in the allocator-slot map so the closure
// predefinition pass below can find it.
func renderAllocation(a *mir.Allocation, c *ctx) {
	c.line("struct %s {", a.Name)
	c.indent++
	for i, fn := range a.Fns {
		c.line("%s<%s<typename %s::EnvT>, typename %s::Fn> _%d;", rtClosureFn, rtRemoveLazyT, fn.FnName, fn.FnName, i)
	}
	c.indent--
	c.line("};")
	c.line("std::shared_ptr<%s> %s = std::make_shared<%s>();", a.Name, a.Target.Name, a.Name)
	for i, fn := range a.Fns {
		c.allocOf[fn.Memory.Name] = allocRef{target: a.Target.Name, index: i}
	}
	c.stats.Allocators++
}

// renderClosurePredefinitions: every Assignment in this block whose
// value is a ClosureInstantiation with a
// captured environment gets its closure object predefined — via the
// allocator, if its target was reserved by one of this block's
// Allocations, or standalone otherwise — before anything else in the
// block runs. This lets cyclic members reference each other once their
// environments are stored below.
func renderClosurePredefinitions(other []*mir.Statement, c *ctx) {
	for _, st := range other {
		if st.Kind != mir.StmtAssignment {
			continue
		}
		a := st.Assignment
		if a.Value.Kind != mir.ExprClosureInstantiation || a.Value.ClosureInstantiation.Env == nil {
			continue
		}
		ci := a.Value.ClosureInstantiation
		// The target was already hoisted to a bare declaration above (every
		// capturing closure's cell carries one); this writes into it rather
		// than redeclaring it.
		if ref, ok := c.allocOf[a.Target.Name]; ok {
			c.line("%s = %s<%s>(%s, %s->_%d);", a.Target.Name, rtSetupClosure, ci.Name, ref.target, ref.target, ref.index)
		} else {
			c.line("%s = %s<%s>();", a.Target.Name, rtSetupClosure, ci.Name)
		}
		c.stats.ClosuresPredefined++
	}
}

func renderOther(st *mir.Statement, c *ctx) {
	switch st.Kind {
	case mir.StmtAwait:
		names := make([]string, len(st.Await))
		for i, m := range st.Await {
			names[i] = m.Name
		}
		c.line("%s(%s);", rtAwait, strings.Join(names, ", "))

	case mir.StmtAssignment:
		renderAssignment(st.Assignment, c)

	case mir.StmtIf:
		renderIf(st.If, c)

	case mir.StmtMatch:
		renderMatch(st.Match, c)

	default:
		Fail("unknown-statement-kind", "emitter: unhandled top-level Statement kind %v", st.Kind)
	}
}

func renderAssignment(a *mir.Assignment, c *ctx) {
	if a.Value.Kind == mir.ExprClosureInstantiation {
		ci := a.Value.ClosureInstantiation
		if ci.Env != nil {
			// Already predefined in this block's predefinition pass; all
			// that remains is storing the environment into the closure
			// object.
			c.line("%s(%s, %s);", rtStoreEnv, a.Target.Name, valueToCxx(ci.Env))
		} else {
			// Environment-free closures share the FnDef's G singleton
			// rather than allocating a fresh object per reference.
			c.line("%s = %s<%s<decltype(%s)>>(%s::G);", a.Target.Name, rtMakeLazy, rtRemoveLazyT, a.Target.Name, ci.Name)
		}
		return
	}

	rhs := exprToCxx(a.Target, a.Value)
	if a.CheckNull {
		c.line("%s = %s(%s);", a.Target.Name, rtEnsureLazy, rhs)
	} else {
		c.line("auto %s = %s;", a.Target.Name, rhs)
	}
}

func renderIf(s *mir.IfStatement, c *ctx) {
	c.line("if (%s) {", valueToCxx(s.Cond))
	c.indent++
	renderBlock(s.Then, c)
	c.indent--
	c.line("} else {")
	c.indent++
	renderBlock(s.Else, c)
	c.indent--
	c.line("}")
}

func renderMatch(m *mir.MatchStatement, c *ctx) {
	aux := m.AuxiliaryMemory
	c.line("{")
	c.indent++
	c.line("auto &%s = %s;", aux.Name, valueToCxx(m.Subject))
	c.line("switch (%s.tag()) {", aux.Name)
	for i, br := range m.Branches {
		c.line("case %d: {", i)
		c.indent++
		if br.Target != nil {
			ctorName := m.UnionType.Variants[i]
			c.line("%s %s = reinterpret_cast<%s*>(&%s)->value;", typeName(br.TargetType), br.Target.Name, ctorName, aux.Name)
		}
		renderBlock(br.Statements, c)
		c.line("break;")
		c.indent--
		c.line("}")
	}
	c.line("default: break;")
	c.line("}")
	c.indent--
	c.line("}")
}
