// Package diagram converts automata into textual diagram formats.
//
// Both automaton representations are first lowered into a shared Model
// by the builders in builder.go; the per-format renderers then differ
// only in pseudo-node spelling, arrow syntax and up-front declarations.
package diagram

// Flavor records which automaton representation a Model was built from.
// The DOT renderer styles pseudo-states differently per flavor.
type Flavor int

const (
	// FlavorEdgeList marks models built from a FiniteAutomaton.
	FlavorEdgeList Flavor = iota
	// FlavorIntermediate marks models built from an IntermediateAutomaton.
	FlavorIntermediate
)

// EndpointKind classifies an edge endpoint.
type EndpointKind int

const (
	// EndpointState is a real automaton state (or a display-label
	// override standing in for one).
	EndpointState EndpointKind = iota
	// EndpointStart is the synthetic start pseudo-node.
	EndpointStart
	// EndpointEnd is the terminal pseudo-node. On edge-list models an
	// edge into EndpointEnd is a final-state marker; formats render it
	// per their own convention.
	EndpointEnd
)

// Endpoint is one end of a diagram edge. Name is empty for pseudo-nodes.
type Endpoint struct {
	Kind EndpointKind
	Name string
}

// StateEndpoint builds a real-state endpoint.
func StateEndpoint(name string) Endpoint {
	return Endpoint{Kind: EndpointState, Name: name}
}

// StartEndpoint builds the start pseudo-node endpoint.
func StartEndpoint() Endpoint {
	return Endpoint{Kind: EndpointStart}
}

// EndEndpoint builds the terminal pseudo-node endpoint.
func EndEndpoint() Endpoint {
	return Endpoint{Kind: EndpointEnd}
}

// Edge is a directed, optionally labeled diagram edge. HasLabel
// distinguishes "no edge text" from an empty label, so decision
// branches without an override render with no text at all.
type Edge struct {
	From     Endpoint
	To       Endpoint
	Label    string
	HasLabel bool
}

// Model is the renderer-independent diagram representation. Slices
// preserve builder emission order; rendering the same Model twice
// yields byte-identical text.
type Model struct {
	Flavor  Flavor
	Choices []string // choice states, declared before structural content
	States  []string // plain state declarations (intermediate models)
	Edges   []Edge
}
