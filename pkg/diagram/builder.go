package diagram

import (
	"fmt"

	"github.com/stateviz/stateviz/pkg/automata"
)

// FromFinite lowers an edge-list automaton into a Model.
//
// Initial states produce one edge from the start pseudo-node per
// recorded entry symbol (one unlabeled edge when none are recorded);
// final states produce the analogous edges into the terminal
// pseudo-node, which formats render as their own final-marker
// convention. Every stored transition becomes one labeled edge, so
// nondeterministic automata expand to one edge per destination.
func FromFinite[S, T comparable](fa *automata.FiniteAutomaton[S, T]) *Model {
	m := &Model{Flavor: FlavorEdgeList}

	for _, s := range fa.States() {
		m.States = append(m.States, nodeName(s.Value()))
	}

	for _, s := range fa.InitialStates() {
		to := StateEndpoint(nodeName(s.Value()))
		entries := fa.EntrySymbols(s)
		if len(entries) == 0 {
			m.Edges = append(m.Edges, Edge{From: StartEndpoint(), To: to})
			continue
		}
		for _, sym := range entries {
			m.Edges = append(m.Edges, labeled(StartEndpoint(), to, nodeName(sym.Value())))
		}
	}

	for _, s := range fa.FinalStates() {
		from := StateEndpoint(nodeName(s.Value()))
		exits := fa.ExitSymbols(s)
		if len(exits) == 0 {
			m.Edges = append(m.Edges, Edge{From: from, To: EndEndpoint()})
			continue
		}
		for _, sym := range exits {
			m.Edges = append(m.Edges, labeled(from, EndEndpoint(), nodeName(sym.Value())))
		}
	}

	for _, t := range fa.Transitions() {
		m.Edges = append(m.Edges, labeled(
			StateEndpoint(nodeName(t.Source.Value())),
			StateEndpoint(nodeName(t.Destination.Value())),
			nodeName(t.Symbol.Value()),
		))
	}

	return m
}

// FromIntermediate lowers an intermediate automaton into a Model,
// applying the shared interpretation rules for every (source, trigger,
// destination) entry:
//
//   - a direct state destination targets its display-label override
//     when present, otherwise the state identifier, with the trigger
//     symbol as edge text; an absent inner state targets the terminal
//     pseudo-node;
//   - decision branches target each branch's own state (or the terminal
//     pseudo-node) in order, with the branch's override as edge text
//     when present and no text otherwise; the trigger symbol is never
//     shown on branch edges, and branch overrides never rename nodes.
//
// An entry whose source is absent must resolve to a present-state
// destination. Resolving it to the terminal pseudo-state or to a
// decision is a builder defect and panics.
func FromIntermediate[S, T comparable](ia *automata.IntermediateAutomaton[S, T]) *Model {
	m := &Model{Flavor: FlavorIntermediate}

	for _, c := range ia.Choices() {
		m.Choices = append(m.Choices, nodeName(c))
	}
	// Choice states already have a declaration; listing them again as
	// plain states would drop the choice stereotype in some formats.
	for _, s := range ia.States() {
		if ia.IsChoice(s) {
			continue
		}
		m.States = append(m.States, nodeName(s))
	}

	ia.Each(func(source automata.Source[S], trigger automata.Trigger[T], destination automata.Node[S]) {
		m.Edges = append(m.Edges, interpretEntry(source, trigger, destination)...)
	})

	return m
}

// interpretEntry expands one delta entry into diagram edges. This is
// the single home of the destination-variant rules; renderers only
// handle spelling.
func interpretEntry[S, T comparable](source automata.Source[S], trigger automata.Trigger[T], destination automata.Node[S]) []Edge {
	symbol := nodeName(trigger.Symbol())

	src, present := source.State()
	if !present {
		if destination.Kind() != automata.KindState {
			panic("diagram: transition from initial pseudo-state resolves to a decision")
		}
		node := destination.StateNode()
		inner, ok := node.State()
		if !ok {
			panic("diagram: transition from initial pseudo-state resolves to the terminal pseudo-state")
		}
		return []Edge{labeled(StartEndpoint(), StateEndpoint(displayName(node, inner)), symbol)}
	}

	from := StateEndpoint(nodeName(src))
	switch destination.Kind() {
	case automata.KindState:
		node := destination.StateNode()
		inner, ok := node.State()
		if !ok {
			return []Edge{labeled(from, EndEndpoint(), symbol)}
		}
		return []Edge{labeled(from, StateEndpoint(displayName(node, inner)), symbol)}

	case automata.KindDecision:
		branches := destination.Branches()
		edges := make([]Edge, 0, len(branches))
		for _, branch := range branches {
			to := EndEndpoint()
			if inner, ok := branch.State(); ok {
				// Branch overrides supply edge text only; the node
				// keeps its canonical identifier.
				to = StateEndpoint(nodeName(inner))
			}
			if label, ok := branch.Label(); ok {
				edges = append(edges, labeled(from, to, label))
			} else {
				edges = append(edges, Edge{From: from, To: to})
			}
		}
		return edges

	default:
		panic(fmt.Sprintf("diagram: unhandled node kind %d", destination.Kind()))
	}
}

// displayName resolves a direct destination's drawn name: the override
// when present, the state identifier otherwise.
func displayName[S comparable](node automata.StateNode[S], inner S) string {
	if label, ok := node.Label(); ok {
		return label
	}
	return nodeName(inner)
}

func labeled(from, to Endpoint, label string) Edge {
	return Edge{From: from, To: to, Label: label, HasLabel: true}
}

// nodeName stringifies a caller identifier for diagram output.
func nodeName(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	if s, ok := v.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprint(v)
}
