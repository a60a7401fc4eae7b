package order

// tarjan holds the bookkeeping of one strongly-connected-components run.
type tarjan struct {
	graph    map[string][]string
	next     int
	stack    []string
	onStack  map[string]bool
	indices  map[string]int
	lowlinks map[string]int
	sccs     [][]string
}

// stronglyConnected returns the strongly connected components of graph
// reachable from roots. A component is emitted only after every component
// reachable from it, so dependencies come before their dependents.
// Neighbours are visited in slice order and roots in the given order, which
// keeps the output deterministic.
func stronglyConnected(graph map[string][]string, roots []string) [][]string {
	t := &tarjan{
		graph:    graph,
		onStack:  make(map[string]bool),
		indices:  make(map[string]int),
		lowlinks: make(map[string]int),
	}
	for _, v := range roots {
		if _, seen := t.indices[v]; !seen {
			t.visit(v)
		}
	}
	return t.sccs
}

func (t *tarjan) visit(v string) {
	t.indices[v] = t.next
	t.lowlinks[v] = t.next
	t.next++
	t.stack = append(t.stack, v)
	t.onStack[v] = true

	for _, w := range t.graph[v] {
		if _, seen := t.indices[w]; !seen {
			t.visit(w)
			t.lowlinks[v] = min(t.lowlinks[v], t.lowlinks[w])
		} else if t.onStack[w] {
			t.lowlinks[v] = min(t.lowlinks[v], t.indices[w])
		}
	}

	if t.lowlinks[v] != t.indices[v] {
		return
	}
	var scc []string
	for {
		w := t.stack[len(t.stack)-1]
		t.stack = t.stack[:len(t.stack)-1]
		t.onStack[w] = false
		scc = append(scc, w)
		if w == v {
			break
		}
	}
	t.sccs = append(t.sccs, scc)
}
