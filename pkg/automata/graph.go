package automata

// DiGraph is a directed graph keyed by comparable node values with one
// labeled edge per (source, destination) pair. Nodes and outgoing
// neighbors are enumerated in insertion order so traversals and exports
// built on top of it are deterministic.
type DiGraph[N comparable, E any] struct {
	nodes     map[N]struct{}
	nodeOrder []N

	edges     map[N]map[N]E
	succOrder map[N][]N
	predOrder map[N][]N
}

// NewDiGraph creates an empty directed graph.
func NewDiGraph[N comparable, E any]() *DiGraph[N, E] {
	return &DiGraph[N, E]{
		nodes:     make(map[N]struct{}),
		edges:     make(map[N]map[N]E),
		succOrder: make(map[N][]N),
		predOrder: make(map[N][]N),
	}
}

// AddNode inserts a node and returns it. Re-adding is a no-op.
func (g *DiGraph[N, E]) AddNode(node N) N {
	if _, ok := g.nodes[node]; !ok {
		g.nodes[node] = struct{}{}
		g.nodeOrder = append(g.nodeOrder, node)
	}
	return node
}

// HasNode reports whether the node is present.
func (g *DiGraph[N, E]) HasNode(node N) bool {
	_, ok := g.nodes[node]
	return ok
}

// AddEdge inserts a labeled directed edge, adding both endpoints if
// absent. A single directed edge carries at most one label: if an edge
// for the same (source, destination) pair already exists, its label is
// overwritten and the previous label is returned.
func (g *DiGraph[N, E]) AddEdge(source, destination N, label E) (previous E, replaced bool) {
	g.AddNode(source)
	g.AddNode(destination)

	out, ok := g.edges[source]
	if !ok {
		out = make(map[N]E)
		g.edges[source] = out
	}
	if prev, exists := out[destination]; exists {
		out[destination] = label
		return prev, true
	}
	out[destination] = label
	g.succOrder[source] = append(g.succOrder[source], destination)
	g.predOrder[destination] = append(g.predOrder[destination], source)
	return previous, false
}

// EdgeLabel returns the label on the (source, destination) edge, if any.
func (g *DiGraph[N, E]) EdgeLabel(source, destination N) (E, bool) {
	label, ok := g.edges[source][destination]
	return label, ok
}

// Nodes returns all nodes in insertion order.
func (g *DiGraph[N, E]) Nodes() []N {
	out := make([]N, len(g.nodeOrder))
	copy(out, g.nodeOrder)
	return out
}

// NeighborsOutgoing returns the direct successors of a node in edge
// insertion order.
func (g *DiGraph[N, E]) NeighborsOutgoing(node N) []N {
	out := make([]N, len(g.succOrder[node]))
	copy(out, g.succOrder[node])
	return out
}

// NeighborsIncoming returns the direct predecessors of a node in edge
// insertion order.
func (g *DiGraph[N, E]) NeighborsIncoming(node N) []N {
	out := make([]N, len(g.predOrder[node]))
	copy(out, g.predOrder[node])
	return out
}

// Len returns the number of nodes.
func (g *DiGraph[N, E]) Len() int {
	return len(g.nodes)
}
