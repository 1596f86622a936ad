package diagram

import (
	"fmt"
	"strings"
)

const plantUMLMarker = "[*]"

// RenderPlantUML renders a Model as a PlantUML state diagram.
// Intermediate models declare choice and plain states before any edge;
// edge-list models rely on implicit declaration, hiding empty
// descriptions as the state-diagram convention.
func RenderPlantUML(model *Model) string {
	var b strings.Builder

	b.WriteString("@startuml\n")

	switch model.Flavor {
	case FlavorIntermediate:
		for _, choice := range model.Choices {
			fmt.Fprintf(&b, "state %s <<choice>>\n", choice)
		}
		for _, state := range model.States {
			fmt.Fprintf(&b, "state %s\n", state)
		}
		for _, edge := range model.Edges {
			b.WriteString(umlEdge(edge, plantUMLMarker) + "\n")
		}

	default:
		b.WriteString("hide empty description\n")
		for _, edge := range model.Edges {
			b.WriteString(umlEdge(edge, plantUMLMarker) + "\n")
		}
	}

	b.WriteString("@enduml\n")
	return b.String()
}

// umlEdge spells one edge in the shared `-->` / `: label` syntax used
// by both the PlantUML and Mermaid renderers; marker is the universal
// start/end pseudo-node spelling.
func umlEdge(edge Edge, marker string) string {
	from := umlName(edge.From, marker)
	to := umlName(edge.To, marker)
	if !edge.HasLabel {
		return fmt.Sprintf("%s --> %s", from, to)
	}
	return fmt.Sprintf("%s --> %s : %s", from, to, edge.Label)
}

func umlName(ep Endpoint, marker string) string {
	if ep.Kind == EndpointState {
		return ep.Name
	}
	return marker
}
