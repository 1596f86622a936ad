// Package automata models finite-state automata as directed graphs.
//
// Two representations exist. FiniteAutomaton is an edge-list form
// (deterministic or nondeterministic, with explicit initial and final
// state sets) used for reachability and productivity analysis.
// IntermediateAutomaton is a richer form supporting branching decision
// nodes and per-destination display-label overrides, used for automata
// derived from structured, possibly-conditional transition definitions.
// Both feed the renderers in pkg/diagram.
package automata

// State is an automaton state wrapping a caller-supplied identifier.
// Equality delegates to the wrapped value.
type State[T comparable] struct {
	value T
}

// StateOf wraps an identifier as a State.
func StateOf[T comparable](value T) State[T] {
	return State[T]{value: value}
}

// Value returns the wrapped identifier.
func (s State[T]) Value() T {
	return s.value
}

// Symbol is a transition symbol wrapping a caller-supplied value.
// Equality delegates to the wrapped value.
type Symbol[T comparable] struct {
	value T
}

// SymbolOf wraps a value as a Symbol.
func SymbolOf[T comparable](value T) Symbol[T] {
	return Symbol[T]{value: value}
}

// Value returns the wrapped value.
func (s Symbol[T]) Value() T {
	return s.value
}

// Transition is an immutable (source, destination, symbol) triple.
// It is uniquely identified by its three components.
type Transition[S, T comparable] struct {
	Source      State[S]
	Destination State[S]
	Symbol      Symbol[T]
}

// NewTransition builds a transition from source to destination through symbol.
func NewTransition[S, T comparable](source, destination State[S], symbol Symbol[T]) Transition[S, T] {
	return Transition[S, T]{Source: source, Destination: destination, Symbol: symbol}
}
