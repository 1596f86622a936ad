// Package definition loads, validates and builds automata from JSON
// machine definitions, the document format tooling emits in place of
// source-level annotations.
package definition

// MachineDefinition is the JSON-serializable machine format.
type MachineDefinition struct {
	Name        string                 `json:"name"`
	Version     string                 `json:"version,omitempty"`
	GuardEngine string                 `json:"guard_engine,omitempty"` // cel | expr (default: cel)
	States      []string               `json:"states"`
	Choices     []string               `json:"choices,omitempty"`
	Initial     []Marker               `json:"initial,omitempty"`
	Final       []Marker               `json:"final,omitempty"`
	Transitions []TransitionDefinition `json:"transitions"`
	Metadata    map[string]any         `json:"metadata,omitempty"`
}

// Marker declares an initial or final state, optionally with a label
// drawn on the pseudo-edge that marks it.
type Marker struct {
	State string `json:"state"`
	Label string `json:"label,omitempty"`
}

// TransitionDefinition describes one transition. Exactly one of To,
// Terminal or Branches must be set. An empty From denotes the initial
// pseudo-state; such transitions must name a concrete destination.
type TransitionDefinition struct {
	From     string             `json:"from,omitempty"`
	On       string             `json:"on"`
	To       string             `json:"to,omitempty"`
	Label    string             `json:"label,omitempty"` // display-label override for To
	Terminal bool               `json:"terminal,omitempty"`
	Branches []BranchDefinition `json:"branches,omitempty"`
}

// BranchDefinition is one candidate of a decision destination. Exactly
// one of To or Terminal must be set. Label supplies the branch edge
// text; Guard is an optional condition in the machine's guard engine.
type BranchDefinition struct {
	To       string `json:"to,omitempty"`
	Terminal bool   `json:"terminal,omitempty"`
	Label    string `json:"label,omitempty"`
	Guard    string `json:"guard,omitempty"`
}
