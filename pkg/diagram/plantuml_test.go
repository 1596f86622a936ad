package diagram

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderPlantUMLIntermediate(t *testing.T) {
	output := RenderPlantUML(FromIntermediate(decisionAutomaton()))

	assert.True(t, strings.HasPrefix(output, "@startuml\n"))
	assert.True(t, strings.HasSuffix(output, "@enduml\n"))

	// Declarations come before edges: choices first, then plain states.
	assert.Contains(t, output, "state S <<choice>>\n")
	assert.Contains(t, output, "state T\n")
	choiceIdx := strings.Index(output, "state S <<choice>>")
	edgeIdx := strings.Index(output, "S --> T")
	require.GreaterOrEqual(t, edgeIdx, 0)
	assert.Less(t, choiceIdx, edgeIdx)

	// Branch edges: no text on the plain branch, the override on the
	// terminal branch, and the trigger nowhere.
	assert.Contains(t, output, "S --> T\n")
	assert.Contains(t, output, "S --> [*] : timeout\n")
	assert.NotContains(t, output, "go")
}

func TestRenderPlantUMLEdgeList(t *testing.T) {
	output := RenderPlantUML(FromFinite(edgeListAutomaton()))

	assert.Contains(t, output, "hide empty description\n")
	assert.Contains(t, output, "[*] --> A : start\n")
	assert.Contains(t, output, "C --> [*] : done\n")
	assert.Contains(t, output, "A --> B : x\n")
	assert.Contains(t, output, "B --> C : y\n")

	// Edge-list models declare no states up front.
	assert.NotContains(t, output, "state ")
}

func TestRenderPlantUMLIsDeterministic(t *testing.T) {
	model := FromIntermediate(decisionAutomaton())
	assert.Equal(t, RenderPlantUML(model), RenderPlantUML(model))
}
