package weakener

import "lazylift/pkg/mir"

// Weaken runs the cycle weakener pass over prog in place and returns it:
// every FnDef body is scanned for closure reference cycles, joint
// allocators are spliced in ahead of each cycle's first declaration,
// and the environment slot that closes each cycle is retagged WeakFn on
// the closure's own FnDef.
func Weaken(prog *mir.Program) *mir.Program {
	weak := make(weakSlots)
	for _, fd := range prog.FnDefs {
		fd.Statements = weakenBody(fd.Statements, weak)
	}
	weakenFnDefs(prog.FnDefs, weak)
	return prog
}

func weakenBody(stmts []*mir.Statement, weak weakSlots) []*mir.Statement {
	g := buildGraph(stmts)
	groups := selectCyclicGroups(g)
	processed := make(map[*cyclicGroup]bool)
	existing := existingAllocationNames(stmts)
	return insertAllocators(stmts, g, groups, processed, existing, weak)
}

// existingAllocationNames collects the names of every Allocation already in
// the statement stream. Running the pass again re-detects the same cycles;
// keying off the allocation's name keeps the second run from splicing in a
// duplicate.
func existingAllocationNames(stmts []*mir.Statement) map[string]bool {
	names := make(map[string]bool)
	var walk func([]*mir.Statement)
	walk = func(stmts []*mir.Statement) {
		for _, st := range stmts {
			switch st.Kind {
			case mir.StmtAllocation:
				names[st.Allocation.Name] = true
			case mir.StmtIf:
				walk(st.If.Then)
				walk(st.If.Else)
			case mir.StmtMatch:
				for _, br := range st.Match.Branches {
					walk(br.Statements)
				}
			}
		}
	}
	walk(stmts)
	return names
}

// weakenFnDefs: for every FnDef whose environment tuple has a weak slot
// at index i with a Fn type there, that slot is retagged WeakFn.
// Environment slots arrive Lazy-wrapped from the lowering compiler, so
// the retag looks through one Lazy layer; every other entry is left
// unchanged. An already-weakened slot no longer
// matches either shape, which is what makes a second Weaken run a no-op
// here.
func weakenFnDefs(fnDefs []*mir.FnDef, weak weakSlots) {
	for _, fd := range fnDefs {
		if fd.Env == nil || fd.Env.Kind != mir.MTTuple {
			continue
		}
		slots := weak[fd.Name]
		if len(slots) == 0 {
			continue
		}
		for i, t := range fd.Env.Tuple {
			if !slots[i] {
				continue
			}
			switch {
			case t.Kind == mir.MTFn:
				fd.Env.Tuple[i] = mir.AsWeak(t)
			case t.Kind == mir.MTLazy && t.Inner.Kind == mir.MTFn:
				fd.Env.Tuple[i] = mir.Lazy(mir.AsWeak(t.Inner))
			}
		}
	}
}
