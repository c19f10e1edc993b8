package weakener

import "lazylift/pkg/mir"

// stronglyConnectedComponents runs Kosaraju's algorithm: a
// depth-first pass over the forward graph records a postorder, then a
// second depth-first pass over the transpose graph, visiting nodes in
// reverse postorder, carves out one component per DFS tree.
func stronglyConnectedComponents(g *refGraph) [][]*mir.Memory {
	visited := make(map[*mir.Memory]bool, len(g.order))
	var postorder []*mir.Memory
	for _, node := range g.order {
		if !visited[node] {
			topsort(g.graph, node, visited, &postorder)
		}
	}

	transpose := transposeGraph(g)

	seen := make(map[*mir.Memory]bool, len(g.order))
	var sccs [][]*mir.Memory
	for i := len(postorder) - 1; i >= 0; i-- {
		node := postorder[i]
		if seen[node] {
			continue
		}
		var comp []*mir.Memory
		topsort(transpose, node, seen, &comp)
		sccs = append(sccs, comp)
	}
	return sccs
}

// topsort is a plain recursive DFS that appends each node to order once
// every one of its out-edges has been explored, giving a postorder over
// whatever graph it's run on (the forward graph first, the transpose
// second).
func topsort(graph map[*mir.Memory][]*mir.Memory, node *mir.Memory, visited map[*mir.Memory]bool, order *[]*mir.Memory) {
	visited[node] = true
	for _, neighbor := range graph[node] {
		if !visited[neighbor] {
			topsort(graph, neighbor, visited, order)
		}
	}
	*order = append(*order, node)
}

func transposeGraph(g *refGraph) map[*mir.Memory][]*mir.Memory {
	t := make(map[*mir.Memory][]*mir.Memory, len(g.graph))
	for _, n := range g.order {
		t[n] = nil
	}
	for from, tos := range g.graph {
		for _, to := range tos {
			t[to] = append(t[to], from)
		}
	}
	return t
}

func hasSelfEdge(g *refGraph, m *mir.Memory) bool {
	for _, to := range g.graph[m] {
		if to == m {
			return true
		}
	}
	return false
}
