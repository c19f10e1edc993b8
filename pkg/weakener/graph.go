package weakener

import "lazylift/pkg/mir"

// envOwner records, for an environment cell, the closure cell it belongs to
// and the FnDef name that closure instantiates.
type envOwner struct {
	Closure *mir.Memory
	Name    string
}

// refGraph is the reference graph built from one FnDef's statement list.
// graph holds an edge from a cell to every other cell its
// assignment directly references; fns maps a closure cell to the FnDef name
// it instantiates (restricted to closures that capture an environment,
// since closed closures can never sit in a reference cycle); translation
// maps an environment cell back to its owning closure.
type refGraph struct {
	graph       map[*mir.Memory][]*mir.Memory
	fns         map[*mir.Memory]string
	translation map[*mir.Memory]envOwner
	order       []*mir.Memory
}

func buildGraph(stmts []*mir.Statement) *refGraph {
	g := &refGraph{
		graph:       make(map[*mir.Memory][]*mir.Memory),
		fns:         make(map[*mir.Memory]string),
		translation: make(map[*mir.Memory]envOwner),
	}
	g.walk(stmts)
	return g
}

func (g *refGraph) addNode(m *mir.Memory) {
	if _, ok := g.graph[m]; !ok {
		g.graph[m] = nil
		g.order = append(g.order, m)
	}
}

func (g *refGraph) walk(stmts []*mir.Statement) {
	for _, st := range stmts {
		switch st.Kind {
		case mir.StmtAssignment:
			g.visitAssignment(st.Assignment)
		case mir.StmtIf:
			g.walk(st.If.Then)
			g.walk(st.If.Else)
		case mir.StmtMatch:
			for _, br := range st.Match.Branches {
				g.walk(br.Statements)
			}
		}
	}
}

// visitAssignment records target as a graph node and
// follows only Value, TupleExpression and ClosureInstantiation.Env to find
// the cells target references — every other expression kind (element
// access, calls, constructor calls, wrap/unwrap coercions) contributes no
// edge, since a capture of an already-lazy sibling closure is always a
// direct memory reference to that closure's own cell (lowerValueLazy's
// cache hit), never through an intermediate cell.
func (g *refGraph) visitAssignment(a *mir.Assignment) {
	g.addNode(a.Target)

	var refs []*mir.Value
	switch a.Value.Kind {
	case mir.ExprValue:
		refs = []*mir.Value{a.Value.Value}
	case mir.ExprTuple:
		refs = a.Value.Tuple
	case mir.ExprClosureInstantiation:
		ci := a.Value.ClosureInstantiation
		if ci.Env != nil {
			g.fns[a.Target] = ci.Name
			refs = []*mir.Value{ci.Env}
			if ci.Env.IsMemory() {
				g.translation[ci.Env.Memory] = envOwner{Closure: a.Target, Name: ci.Name}
			}
		}
	}

	for _, v := range refs {
		if v != nil && v.IsMemory() {
			g.addNode(v.Memory)
			g.graph[a.Target] = append(g.graph[a.Target], v.Memory)
		}
	}
}
