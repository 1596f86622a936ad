package diagram

import (
	"fmt"
	"strings"
)

const mermaidMarker = "[*]"

// RenderMermaid renders a Model as a Mermaid stateDiagram-v2 block.
// Choice states are declared with the <<choice>> annotation before any
// structural content; [*] is the universal start/end marker.
func RenderMermaid(model *Model) string {
	var b strings.Builder

	b.WriteString("stateDiagram-v2\n")

	if model.Flavor == FlavorIntermediate {
		for _, choice := range model.Choices {
			fmt.Fprintf(&b, "state %s <<choice>>\n", choice)
		}
		for _, state := range model.States {
			fmt.Fprintf(&b, "state %s\n", state)
		}
	}

	for _, edge := range model.Edges {
		b.WriteString(umlEdge(edge, mermaidMarker) + "\n")
	}

	return b.String()
}
