package weakener

import (
	"sort"

	"lazylift/pkg/mir"
)

// cyclicGroup is the shared handle every member of one selected closure
// cycle is recorded under. Members is sorted canonically by cell name so
// the allocator name and the allocator's member order are deterministic.
type cyclicGroup struct {
	Members []*mir.Memory
	Names   []string // FnDef name per member, aligned with Members
}

// selectCyclicGroups runs SCC detection and keeps the components that are
// genuinely cyclic: more than one node, or a self-edge. Each kept
// component is filtered down to its real-closure members (g.fns) before
// being recorded; a component with no closure members contributes nothing.
func selectCyclicGroups(g *refGraph) map[*mir.Memory]*cyclicGroup {
	groups := make(map[*mir.Memory]*cyclicGroup)
	for _, scc := range stronglyConnectedComponents(g) {
		cyclic := len(scc) > 1 || hasSelfEdge(g, scc[0])
		if !cyclic {
			continue
		}

		var members []*mir.Memory
		for _, m := range scc {
			if _, ok := g.fns[m]; ok {
				members = append(members, m)
			}
		}
		if len(members) == 0 {
			continue
		}
		sort.Slice(members, func(i, j int) bool { return members[i].Name < members[j].Name })

		names := make([]string, len(members))
		for i, m := range members {
			names[i] = g.fns[m]
		}
		grp := &cyclicGroup{Members: members, Names: names}
		for _, m := range members {
			groups[m] = grp
		}
	}
	return groups
}
