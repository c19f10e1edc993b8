package weakener

import (
	"strings"

	"lazylift/pkg/mir"
)

// weakSlots maps a FnDef name to the set of its environment-tuple indices
// that close a reference cycle, accumulated across every FnDef body in
// the program since the slot belongs to the callee closure's own FnDef,
// not to whichever body is being walked when the slot is discovered.
type weakSlots map[string]map[int]bool

func (w weakSlots) mark(fnName string, index int) {
	if w[fnName] == nil {
		w[fnName] = make(map[int]bool)
	}
	w[fnName][index] = true
}

// insertAllocators rewrites stmts: the first Declaration for a member of
// an unprocessed cyclic group gets a joint Allocation
// spliced in immediately before it (skipped for size-1 groups, which the
// runtime's plain closure instantiation already handles), and every
// environment TupleExpression whose owning closure sits in a cycle has its
// cycle-closing elements recorded as weak slots for that closure's FnDef.
func insertAllocators(stmts []*mir.Statement, g *refGraph, groups map[*mir.Memory]*cyclicGroup, processed map[*cyclicGroup]bool, existing map[string]bool, weak weakSlots) []*mir.Statement {
	out := make([]*mir.Statement, 0, len(stmts))
	for _, st := range stmts {
		switch st.Kind {
		case mir.StmtDeclaration:
			if grp, ok := groups[st.Declaration.Memory]; ok && !processed[grp] {
				processed[grp] = true
				if len(grp.Members) > 1 && !existing[allocatorName(grp.Members)] {
					out = append(out, allocationStatement(grp))
				}
			}
			out = append(out, st)

		case mir.StmtAssignment:
			out = append(out, st)
			recordWeakSlots(st.Assignment, g, groups, weak)

		case mir.StmtIf:
			st.If.Then = insertAllocators(st.If.Then, g, groups, processed, existing, weak)
			st.If.Else = insertAllocators(st.If.Else, g, groups, processed, existing, weak)
			out = append(out, st)

		case mir.StmtMatch:
			for _, br := range st.Match.Branches {
				br.Statements = insertAllocators(br.Statements, g, groups, processed, existing, weak)
			}
			out = append(out, st)

		default:
			out = append(out, st)
		}
	}
	return out
}

// recordWeakSlots: for an environment assignment
// env_i = TupleExpression(v_0, …), if the closure that owns
// env_i is itself a member of a cyclic group S, every element v_j that is
// also a member of S marks (f_i, j) as a weak slot.
func recordWeakSlots(a *mir.Assignment, g *refGraph, groups map[*mir.Memory]*cyclicGroup, weak weakSlots) {
	if a.Value.Kind != mir.ExprTuple {
		return
	}
	owner, ok := g.translation[a.Target]
	if !ok {
		return
	}
	grp, inCycle := groups[owner.Closure]
	if !inCycle {
		return
	}
	for j, v := range a.Value.Tuple {
		if v == nil || !v.IsMemory() {
			continue
		}
		if groups[v.Memory] == grp {
			weak.mark(owner.Name, j)
		}
	}
}

func allocationStatement(grp *cyclicGroup) *mir.Statement {
	name := allocatorName(grp.Members)
	fns := make([]mir.AllocatedFn, len(grp.Members))
	for i, m := range grp.Members {
		fns[i] = mir.AllocatedFn{Memory: m, FnName: grp.Names[i]}
	}
	return mir.NewAllocation(name, &mir.Memory{Name: name + "_"}, fns)
}

func allocatorName(members []*mir.Memory) string {
	names := make([]string, len(members))
	for i, m := range members {
		names[i] = m.Name
	}
	return "Allocator_" + strings.Join(names, "_")
}
