package automata

// FiniteAutomaton is the edge-list automaton representation: a state
// set, initial and final subsets, and a transition relation stored both
// as a flat list and as an adjacency graph for traversal. The subsets
// are not necessarily disjoint; a state may be both initial and final.
// States and transitions are added incrementally and never removed.
//
// Initial and final states may carry entry/exit symbols. The exporters
// use them as labels on the synthetic start edges and final markers;
// they play no role in analysis.
type FiniteAutomaton[S, T comparable] struct {
	states map[State[S]]struct{}

	initial      map[State[S]]struct{}
	initialOrder []State[S]
	entrySymbols map[State[S]][]Symbol[T]

	final       map[State[S]]struct{}
	finalOrder  []State[S]
	exitSymbols map[State[S]][]Symbol[T]

	transitions    map[Transition[S, T]]struct{}
	transitionList []Transition[S, T]

	graph *DiGraph[State[S], Symbol[T]]
}

// NewFiniteAutomaton creates an empty edge-list automaton.
func NewFiniteAutomaton[S, T comparable]() *FiniteAutomaton[S, T] {
	return &FiniteAutomaton[S, T]{
		states:       make(map[State[S]]struct{}),
		initial:      make(map[State[S]]struct{}),
		entrySymbols: make(map[State[S]][]Symbol[T]),
		final:        make(map[State[S]]struct{}),
		exitSymbols:  make(map[State[S]][]Symbol[T]),
		transitions:  make(map[Transition[S, T]]struct{}),
		graph:        NewDiGraph[State[S], Symbol[T]](),
	}
}

// AddState inserts a state into the state set and the underlying graph,
// returning the canonical node. Re-adding is a no-op.
func (fa *FiniteAutomaton[S, T]) AddState(state State[S]) State[S] {
	fa.states[state] = struct{}{}
	return fa.graph.AddNode(state)
}

// AddInitialState marks a state as initial, adding it to the state set
// if absent. Entry symbols accumulate across calls and label the start
// pseudo-edges in rendered output.
func (fa *FiniteAutomaton[S, T]) AddInitialState(state State[S], entry ...Symbol[T]) State[S] {
	if _, ok := fa.initial[state]; !ok {
		fa.initial[state] = struct{}{}
		fa.initialOrder = append(fa.initialOrder, state)
	}
	fa.entrySymbols[state] = append(fa.entrySymbols[state], entry...)
	return fa.AddState(state)
}

// AddFinalState marks a state as final, adding it to the state set if
// absent. Exit symbols accumulate across calls and label the final
// markers in rendered output.
func (fa *FiniteAutomaton[S, T]) AddFinalState(state State[S], exit ...Symbol[T]) State[S] {
	if _, ok := fa.final[state]; !ok {
		fa.final[state] = struct{}{}
		fa.finalOrder = append(fa.finalOrder, state)
	}
	fa.exitSymbols[state] = append(fa.exitSymbols[state], exit...)
	return fa.AddState(state)
}

// AddTransition inserts the transition into the flat set and as a graph
// edge labeled by its symbol. If an edge for the same (source,
// destination) pair already exists its label is overwritten; the
// previous symbol is returned with replaced=true.
func (fa *FiniteAutomaton[S, T]) AddTransition(t Transition[S, T]) (previous Symbol[T], replaced bool) {
	fa.AddState(t.Source)
	fa.AddState(t.Destination)
	if _, ok := fa.transitions[t]; !ok {
		fa.transitions[t] = struct{}{}
		fa.transitionList = append(fa.transitionList, t)
	}
	return fa.graph.AddEdge(t.Source, t.Destination, t.Symbol)
}

// Reachable returns the set of states reachable from state through at
// least one outgoing edge, via breadth-first exploration. The starting
// state itself is included only if some cycle leads back to it: the
// result is "successors, transitively", not a closure including self.
func (fa *FiniteAutomaton[S, T]) Reachable(state State[S]) map[State[S]]struct{} {
	discovered := make(map[State[S]]struct{})
	queue := []State[S]{state}
	for len(queue) > 0 {
		s := queue[0]
		queue = queue[1:]
		for _, n := range fa.graph.NeighborsOutgoing(s) {
			if _, seen := discovered[n]; !seen {
				discovered[n] = struct{}{}
				queue = append(queue, n)
			}
		}
	}
	return discovered
}

// IsProductive reports whether some final state is reachable from state.
// Because Reachable excludes the start state, a final state with no path
// back to itself is not productive under this test even though it
// accepts immediately.
func (fa *FiniteAutomaton[S, T]) IsProductive(state State[S]) bool {
	for reached := range fa.Reachable(state) {
		if _, ok := fa.final[reached]; ok {
			return true
		}
	}
	return false
}

// States returns all states in insertion order.
func (fa *FiniteAutomaton[S, T]) States() []State[S] {
	return fa.graph.Nodes()
}

// InitialStates returns the initial states in insertion order.
func (fa *FiniteAutomaton[S, T]) InitialStates() []State[S] {
	out := make([]State[S], len(fa.initialOrder))
	copy(out, fa.initialOrder)
	return out
}

// FinalStates returns the final states in insertion order.
func (fa *FiniteAutomaton[S, T]) FinalStates() []State[S] {
	out := make([]State[S], len(fa.finalOrder))
	copy(out, fa.finalOrder)
	return out
}

// IsFinal reports whether state is in the final set.
func (fa *FiniteAutomaton[S, T]) IsFinal(state State[S]) bool {
	_, ok := fa.final[state]
	return ok
}

// EntrySymbols returns the entry symbols recorded for an initial state.
func (fa *FiniteAutomaton[S, T]) EntrySymbols(state State[S]) []Symbol[T] {
	out := make([]Symbol[T], len(fa.entrySymbols[state]))
	copy(out, fa.entrySymbols[state])
	return out
}

// ExitSymbols returns the exit symbols recorded for a final state.
func (fa *FiniteAutomaton[S, T]) ExitSymbols(state State[S]) []Symbol[T] {
	out := make([]Symbol[T], len(fa.exitSymbols[state]))
	copy(out, fa.exitSymbols[state])
	return out
}

// Transitions returns all stored transitions in insertion order.
// Nondeterministic automata yield one entry per destination.
func (fa *FiniteAutomaton[S, T]) Transitions() []Transition[S, T] {
	out := make([]Transition[S, T], len(fa.transitionList))
	copy(out, fa.transitionList)
	return out
}
