package definition

import (
	"fmt"

	"github.com/stateviz/stateviz/internal/guards"
	"github.com/stateviz/stateviz/pkg/automata"
	"github.com/stateviz/stateviz/pkg/schema"
)

// Validate runs schema validation followed by the cross-reference and
// guard checks the schema cannot express. Definitions that pass
// Validate build automata that satisfy the exporter contract, so the
// fail-fast panic on malformed intermediate automata is reserved for
// hand-built graphs.
func Validate(def *MachineDefinition) error {
	if err := ValidateSchema(def); err != nil {
		return err
	}

	states := make(map[string]struct{}, len(def.States))
	for _, s := range def.States {
		if _, dup := states[s]; dup {
			return schema.NewErrorf(schema.ErrCodeValidation, "duplicate state %q", s).WithMachine(def.Name)
		}
		states[s] = struct{}{}
	}

	for _, c := range def.Choices {
		if _, ok := states[c]; !ok {
			return schema.NewErrorf(schema.ErrCodeValidation, "choice %q is not a declared state", c).WithMachine(def.Name)
		}
	}
	for _, m := range def.Initial {
		if _, ok := states[m.State]; !ok {
			return schema.NewErrorf(schema.ErrCodeValidation, "initial state %q is not declared", m.State).WithMachine(def.Name)
		}
	}
	for _, m := range def.Final {
		if _, ok := states[m.State]; !ok {
			return schema.NewErrorf(schema.ErrCodeValidation, "final state %q is not declared", m.State).WithMachine(def.Name)
		}
	}

	engine, err := guards.ForName(def.GuardEngine)
	if err != nil {
		return err
	}

	for i, t := range def.Transitions {
		if err := validateTransition(def, i, t, states, engine); err != nil {
			return err
		}
	}
	return nil
}

func validateTransition(def *MachineDefinition, i int, t TransitionDefinition, states map[string]struct{}, engine guards.Engine) error {
	at := fmt.Sprintf("transitions[%d]", i)

	forms := 0
	if t.To != "" {
		forms++
	}
	if t.Terminal {
		forms++
	}
	if len(t.Branches) > 0 {
		forms++
	}
	if forms != 1 {
		return schema.NewErrorf(schema.ErrCodeValidation,
			"%s: exactly one of to, terminal or branches must be set", at).WithMachine(def.Name)
	}

	if t.From != "" {
		if _, ok := states[t.From]; !ok {
			return schema.NewErrorf(schema.ErrCodeValidation,
				"%s: source state %q is not declared", at, t.From).WithMachine(def.Name)
		}
	} else if t.To == "" {
		// Start transitions must land on a concrete state; terminal and
		// decision destinations violate the exporter contract.
		return schema.NewErrorf(schema.ErrCodeValidation,
			"%s: a transition from the initial pseudo-state requires a concrete destination", at).WithMachine(def.Name)
	}

	if t.To != "" {
		if _, ok := states[t.To]; !ok {
			return schema.NewErrorf(schema.ErrCodeValidation,
				"%s: destination state %q is not declared", at, t.To).WithMachine(def.Name)
		}
	}

	for j, b := range t.Branches {
		bat := fmt.Sprintf("%s.branches[%d]", at, j)
		if (b.To != "") == b.Terminal {
			return schema.NewErrorf(schema.ErrCodeValidation,
				"%s: exactly one of to or terminal must be set", bat).WithMachine(def.Name)
		}
		if b.To != "" {
			if _, ok := states[b.To]; !ok {
				return schema.NewErrorf(schema.ErrCodeValidation,
					"%s: destination state %q is not declared", bat, b.To).WithMachine(def.Name)
			}
		}
		if b.Guard != "" {
			if err := engine.Check(b.Guard); err != nil {
				return schema.NewErrorf(schema.ErrCodeValidation,
					"%s: invalid guard: %s", bat, err.Error()).WithMachine(def.Name).WithCause(err)
			}
		}
	}
	return nil
}

// BuildIntermediate validates the definition and builds the
// intermediate automaton representation.
func BuildIntermediate(def *MachineDefinition) (*automata.IntermediateAutomaton[string, string], error) {
	if err := Validate(def); err != nil {
		return nil, err
	}

	ia := automata.NewIntermediateAutomaton[string, string]()
	for _, s := range def.States {
		ia.AddState(s)
	}
	for _, c := range def.Choices {
		ia.AddChoice(c)
	}

	for _, t := range def.Transitions {
		source := automata.InitialSource[string]()
		if t.From != "" {
			source = automata.SourceOf(t.From)
		}

		var node automata.Node[string]
		switch {
		case len(t.Branches) > 0:
			branches := make([]automata.StateNode[string], 0, len(t.Branches))
			for _, b := range t.Branches {
				sn := automata.TerminalNode[string]()
				if b.To != "" {
					sn = automata.StateNodeOf(b.To)
				}
				if b.Label != "" {
					sn = sn.WithLabel(b.Label)
				}
				branches = append(branches, sn)
			}
			node = automata.DecisionDestination(branches...)

		case t.Terminal:
			node = automata.StateDestination(automata.TerminalNode[string]())

		default:
			sn := automata.StateNodeOf(t.To)
			if t.Label != "" {
				sn = sn.WithLabel(t.Label)
			}
			node = automata.StateDestination(sn)
		}

		ia.AddTransition(source, automata.TriggerOf(t.On), node)
	}

	return ia, nil
}

// BuildFinite validates the definition and builds the edge-list
// representation used for reachability and productivity analysis.
// Decision branches expand nondeterministically to one transition per
// concrete branch under the outer symbol; terminal destinations have no
// edge-list counterpart and are skipped.
func BuildFinite(def *MachineDefinition) (*automata.FiniteAutomaton[string, string], error) {
	if err := Validate(def); err != nil {
		return nil, err
	}

	fa := automata.NewFiniteAutomaton[string, string]()
	for _, s := range def.States {
		fa.AddState(automata.StateOf(s))
	}
	for _, m := range def.Initial {
		if m.Label != "" {
			fa.AddInitialState(automata.StateOf(m.State), automata.SymbolOf(m.Label))
		} else {
			fa.AddInitialState(automata.StateOf(m.State))
		}
	}
	for _, m := range def.Final {
		if m.Label != "" {
			fa.AddFinalState(automata.StateOf(m.State), automata.SymbolOf(m.Label))
		} else {
			fa.AddFinalState(automata.StateOf(m.State))
		}
	}

	for _, t := range def.Transitions {
		if t.From == "" || t.Terminal {
			continue
		}
		source := automata.StateOf(t.From)
		symbol := automata.SymbolOf(t.On)
		if t.To != "" {
			fa.AddTransition(automata.NewTransition(source, automata.StateOf(t.To), symbol))
			continue
		}
		for _, b := range t.Branches {
			if b.To == "" {
				continue
			}
			fa.AddTransition(automata.NewTransition(source, automata.StateOf(b.To), symbol))
		}
	}

	return fa, nil
}
