package automata

// StateNode is a destination endpoint in the intermediate automaton: an
// optional underlying state (absent means the terminal pseudo-state)
// plus an optional display-label override. The override never replaces
// the canonical state identity, only how the destination is drawn.
type StateNode[S comparable] struct {
	state   S
	present bool
	label   string
}

// StateNodeOf builds a destination pointing at a real state.
func StateNodeOf[S comparable](state S) StateNode[S] {
	return StateNode[S]{state: state, present: true}
}

// TerminalNode builds a destination pointing at the terminal pseudo-state.
func TerminalNode[S comparable]() StateNode[S] {
	return StateNode[S]{}
}

// WithLabel returns a copy of the node carrying a display-label override.
func (n StateNode[S]) WithLabel(label string) StateNode[S] {
	n.label = label
	return n
}

// State returns the underlying state and whether one is present.
func (n StateNode[S]) State() (S, bool) {
	return n.state, n.present
}

// Label returns the display-label override and whether one is set.
func (n StateNode[S]) Label() (string, bool) {
	return n.label, n.label != ""
}

// NodeKind discriminates the two Node variants.
type NodeKind int

const (
	// KindState is a single (possibly labeled) state destination.
	KindState NodeKind = iota
	// KindDecision is an ordered list of branch candidates reached
	// without consuming further input.
	KindDecision
)

// Node is the destination of an intermediate-automaton transition:
// either a single StateNode or a Decision over an ordered branch list.
// It is a closed sum; renderers switch exhaustively on Kind.
type Node[S comparable] struct {
	kind     NodeKind
	state    StateNode[S]
	decision []StateNode[S]
}

// StateDestination wraps a StateNode as a Node.
func StateDestination[S comparable](node StateNode[S]) Node[S] {
	return Node[S]{kind: KindState, state: node}
}

// DecisionDestination wraps an ordered branch list as a Node.
func DecisionDestination[S comparable](branches ...StateNode[S]) Node[S] {
	return Node[S]{kind: KindDecision, decision: branches}
}

// Kind returns the variant discriminator.
func (n Node[S]) Kind() NodeKind {
	return n.kind
}

// StateNode returns the single destination; valid only for KindState.
func (n Node[S]) StateNode() StateNode[S] {
	return n.state
}

// Branches returns the ordered branch candidates; valid only for KindDecision.
func (n Node[S]) Branches() []StateNode[S] {
	out := make([]StateNode[S], len(n.decision))
	copy(out, n.decision)
	return out
}

// Trigger wraps a transition symbol for the intermediate automaton.
// Equality and hashing are over the symbol only.
type Trigger[T comparable] struct {
	symbol T
}

// TriggerOf wraps a symbol as a Trigger.
func TriggerOf[T comparable](symbol T) Trigger[T] {
	return Trigger[T]{symbol: symbol}
}

// Symbol returns the wrapped symbol.
func (t Trigger[T]) Symbol() T {
	return t.symbol
}

// Source is the optional source state of an intermediate-automaton
// transition. An absent source denotes the automaton's initial
// pseudo-state. Source values are comparable and usable as map keys.
type Source[S comparable] struct {
	state   S
	present bool
}

// SourceOf builds a Source referring to a real state.
func SourceOf[S comparable](state S) Source[S] {
	return Source[S]{state: state, present: true}
}

// InitialSource builds the absent source denoting the initial pseudo-state.
func InitialSource[S comparable]() Source[S] {
	return Source[S]{}
}

// State returns the underlying state and whether one is present.
func (s Source[S]) State() (S, bool) {
	return s.state, s.present
}

type deltaKey[S, T comparable] struct {
	source  Source[S]
	trigger Trigger[T]
}

// IntermediateAutomaton models automata derived from structured,
// possibly-conditional transition definitions: a state set, a "choice"
// subset rendered as branch points, and a transition relation keyed by
// optional source state and trigger. At most one destination Node is
// stored per (source, trigger) pair; inserting a second silently
// replaces the first.
//
// A key with absent source represents an edge from the initial
// pseudo-state and must resolve to a state destination whose inner
// state is present. Exporting an entry that violates this panics; it is
// a builder defect, not a runtime condition.
type IntermediateAutomaton[S, T comparable] struct {
	states     map[S]struct{}
	stateOrder []S

	choices     map[S]struct{}
	choiceOrder []S

	delta    map[deltaKey[S, T]]Node[S]
	keyOrder []deltaKey[S, T]
}

// NewIntermediateAutomaton creates an empty intermediate automaton.
func NewIntermediateAutomaton[S, T comparable]() *IntermediateAutomaton[S, T] {
	return &IntermediateAutomaton[S, T]{
		states:  make(map[S]struct{}),
		choices: make(map[S]struct{}),
		delta:   make(map[deltaKey[S, T]]Node[S]),
	}
}

// AddState inserts a state, reporting whether it was newly added.
func (ia *IntermediateAutomaton[S, T]) AddState(state S) bool {
	if _, ok := ia.states[state]; ok {
		return false
	}
	ia.states[state] = struct{}{}
	ia.stateOrder = append(ia.stateOrder, state)
	return true
}

// AddChoice marks a state as a choice (branch point), reporting whether
// it was newly added to the choice subset.
func (ia *IntermediateAutomaton[S, T]) AddChoice(choice S) bool {
	if _, ok := ia.choices[choice]; ok {
		return false
	}
	ia.choices[choice] = struct{}{}
	ia.choiceOrder = append(ia.choiceOrder, choice)
	return true
}

// AddTransition upserts the destination for the (source, trigger) key.
// Last write wins: callers must not rely on two destinations coexisting
// for the same key.
func (ia *IntermediateAutomaton[S, T]) AddTransition(source Source[S], trigger Trigger[T], destination Node[S]) {
	key := deltaKey[S, T]{source: source, trigger: trigger}
	if _, ok := ia.delta[key]; !ok {
		ia.keyOrder = append(ia.keyOrder, key)
	}
	ia.delta[key] = destination
}

// Destination returns the stored Node for the (source, trigger) key.
func (ia *IntermediateAutomaton[S, T]) Destination(source Source[S], trigger Trigger[T]) (Node[S], bool) {
	node, ok := ia.delta[deltaKey[S, T]{source: source, trigger: trigger}]
	return node, ok
}

// States returns all states in insertion order.
func (ia *IntermediateAutomaton[S, T]) States() []S {
	out := make([]S, len(ia.stateOrder))
	copy(out, ia.stateOrder)
	return out
}

// Choices returns the choice subset in insertion order.
func (ia *IntermediateAutomaton[S, T]) Choices() []S {
	out := make([]S, len(ia.choiceOrder))
	copy(out, ia.choiceOrder)
	return out
}

// IsChoice reports whether state is in the choice subset.
func (ia *IntermediateAutomaton[S, T]) IsChoice(state S) bool {
	_, ok := ia.choices[state]
	return ok
}

// Each calls fn for every (source, trigger, destination) entry in
// insertion order of the keys.
func (ia *IntermediateAutomaton[S, T]) Each(fn func(source Source[S], trigger Trigger[T], destination Node[S])) {
	for _, key := range ia.keyOrder {
		fn(key.source, key.trigger, ia.delta[key])
	}
}
