package automata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// linearAutomaton builds A -x-> B -y-> C with A initial and C final.
func linearAutomaton() *FiniteAutomaton[string, string] {
	fa := NewFiniteAutomaton[string, string]()
	a := fa.AddInitialState(StateOf("A"))
	b := fa.AddState(StateOf("B"))
	c := fa.AddFinalState(StateOf("C"))
	fa.AddTransition(NewTransition(a, b, SymbolOf("x")))
	fa.AddTransition(NewTransition(b, c, SymbolOf("y")))
	return fa
}

func TestReachableExcludesStart(t *testing.T) {
	fa := linearAutomaton()

	reached := fa.Reachable(StateOf("A"))
	assert.Len(t, reached, 2)
	assert.Contains(t, reached, StateOf("B"))
	assert.Contains(t, reached, StateOf("C"))
	assert.NotContains(t, reached, StateOf("A"))

	// C has no outgoing edges, so nothing is reachable from it.
	assert.Empty(t, fa.Reachable(StateOf("C")))
}

func TestReachableIncludesStartOnCycle(t *testing.T) {
	fa := linearAutomaton()
	fa.AddTransition(NewTransition(StateOf("C"), StateOf("A"), SymbolOf("z")))

	reached := fa.Reachable(StateOf("A"))
	assert.Contains(t, reached, StateOf("A"))
}

func TestIsProductive(t *testing.T) {
	fa := linearAutomaton()

	assert.True(t, fa.IsProductive(StateOf("A")))
	assert.True(t, fa.IsProductive(StateOf("B")))

	// C is final but has no path back to itself, so the reachability
	// test never sees a final state from C.
	assert.False(t, fa.IsProductive(StateOf("C")))
}

func TestIsProductiveFinalSelfLoop(t *testing.T) {
	fa := linearAutomaton()
	fa.AddTransition(NewTransition(StateOf("C"), StateOf("C"), SymbolOf("loop")))

	assert.True(t, fa.IsProductive(StateOf("C")))
}

func TestIsProductiveDeadState(t *testing.T) {
	fa := linearAutomaton()
	fa.AddState(StateOf("D"))
	fa.AddTransition(NewTransition(StateOf("B"), StateOf("D"), SymbolOf("w")))

	assert.False(t, fa.IsProductive(StateOf("D")))
	// B still reaches C through the original path.
	assert.True(t, fa.IsProductive(StateOf("B")))
}

func TestAddTransitionReplacesEdgeLabel(t *testing.T) {
	fa := NewFiniteAutomaton[string, string]()
	a, b := StateOf("A"), StateOf("B")

	_, replaced := fa.AddTransition(NewTransition(a, b, SymbolOf("first")))
	assert.False(t, replaced)

	previous, replaced := fa.AddTransition(NewTransition(a, b, SymbolOf("second")))
	assert.True(t, replaced)
	assert.Equal(t, SymbolOf("first"), previous)

	// Both triples survive in the flat transition list.
	assert.Len(t, fa.Transitions(), 2)
}

func TestStatesInsertionOrder(t *testing.T) {
	fa := NewFiniteAutomaton[string, string]()
	for _, name := range []string{"C", "A", "B"} {
		fa.AddState(StateOf(name))
	}
	fa.AddState(StateOf("A")) // re-add is a no-op

	states := fa.States()
	require.Len(t, states, 3)
	assert.Equal(t, StateOf("C"), states[0])
	assert.Equal(t, StateOf("A"), states[1])
	assert.Equal(t, StateOf("B"), states[2])
}

func TestInitialAndFinalOverlap(t *testing.T) {
	fa := NewFiniteAutomaton[string, string]()
	s := StateOf("only")
	fa.AddInitialState(s)
	fa.AddFinalState(s)

	assert.Equal(t, []State[string]{s}, fa.InitialStates())
	assert.Equal(t, []State[string]{s}, fa.FinalStates())
	assert.True(t, fa.IsFinal(s))
	assert.Len(t, fa.States(), 1)
}

func TestEntryAndExitSymbolsAccumulate(t *testing.T) {
	fa := NewFiniteAutomaton[string, string]()
	s := StateOf("S")
	fa.AddInitialState(s, SymbolOf("a"))
	fa.AddInitialState(s, SymbolOf("b"))
	fa.AddFinalState(s, SymbolOf("done"))

	assert.Equal(t, []Symbol[string]{SymbolOf("a"), SymbolOf("b")}, fa.EntrySymbols(s))
	assert.Equal(t, []Symbol[string]{SymbolOf("done")}, fa.ExitSymbols(s))

	// Marking twice does not duplicate the state in the ordered sets.
	assert.Len(t, fa.InitialStates(), 1)
}

func TestNondeterministicTransitions(t *testing.T) {
	fa := NewFiniteAutomaton[string, string]()
	a, b, c := StateOf("A"), StateOf("B"), StateOf("C")
	fa.AddTransition(NewTransition(a, b, SymbolOf("x")))
	fa.AddTransition(NewTransition(a, c, SymbolOf("x")))

	assert.Len(t, fa.Transitions(), 2)
	reached := fa.Reachable(a)
	assert.Contains(t, reached, b)
	assert.Contains(t, reached, c)
}
