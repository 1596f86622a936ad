package diagram

import (
	"fmt"
	"strings"
)

// dotPseudoAttrs styles the filled start/end pseudo-nodes on
// intermediate diagrams.
const dotPseudoAttrs = `label="", fillcolor=black, fixedsize=true, height=0.25, style=filled`

const (
	dotStartNode = "_initial_"
	dotEndNode   = "_final_"
)

// RenderDOT renders a Model as a Graphviz digraph.
//
// On intermediate models the start marker is declared first and the
// terminal marker last, so downstream layout favors conventional
// placement; choice states are declared as diamonds before any edges.
// On edge-list models each start edge gets its own plaintext
// pseudo-node and final states are drawn bold with a dashed self-loop
// per exit label.
func RenderDOT(model *Model) string {
	var b strings.Builder

	b.WriteString("digraph Automata {\n")

	switch model.Flavor {
	case FlavorIntermediate:
		fmt.Fprintf(&b, "  %s [%s, shape=circle];\n", dotStartNode, dotPseudoAttrs)
		for _, choice := range model.Choices {
			fmt.Fprintf(&b, "  %s [shape=diamond];\n", choice)
		}
		for _, edge := range model.Edges {
			b.WriteString("  " + dotEdge(edge) + "\n")
		}
		fmt.Fprintf(&b, "  %s [%s, shape=doublecircle];\n", dotEndNode, dotPseudoAttrs)

	default:
		b.WriteString("graph [pad=\"0.25\", nodesep=\"0.75\", ranksep=\"1\"];\n")
		renderDOTEdgeList(&b, model)
	}

	b.WriteString("}\n")
	return b.String()
}

// dotEdge spells one intermediate-model edge.
func dotEdge(edge Edge) string {
	from := dotName(edge.From)
	to := dotName(edge.To)
	if !edge.HasLabel {
		return fmt.Sprintf("%s -> %s;", from, to)
	}
	return fmt.Sprintf("%s -> %s [label=%s];", from, to, edge.Label)
}

// renderDOTEdgeList spells edge-list edges: start edges become indexed
// plaintext pseudo-nodes, final-marker edges become bold declarations
// plus dashed self-loops, transitions become plain labeled edges.
func renderDOTEdgeList(b *strings.Builder, model *Model) {
	startIdx := 0
	boldDeclared := make(map[string]bool)

	for _, edge := range model.Edges {
		switch {
		case edge.From.Kind == EndpointStart:
			pseudo := fmt.Sprintf("%s%d", dotStartNode, startIdx)
			startIdx++
			fmt.Fprintf(b, "\t%s [label=\"\", shape=\"plaintext\"];\n", pseudo)
			if edge.HasLabel {
				fmt.Fprintf(b, "\t%s -> %s [label=\"%s\"];\n", pseudo, edge.To.Name, edge.Label)
			} else {
				fmt.Fprintf(b, "\t%s -> %s;\n", pseudo, edge.To.Name)
			}

		case edge.To.Kind == EndpointEnd:
			if !boldDeclared[edge.From.Name] {
				boldDeclared[edge.From.Name] = true
				fmt.Fprintf(b, "\t%s [style=\"bold\"];\n", edge.From.Name)
			}
			if edge.HasLabel {
				fmt.Fprintf(b, "\t%s -> %s [label=\"%s\", style=dashed];\n", edge.From.Name, edge.From.Name, edge.Label)
			}

		default:
			fmt.Fprintf(b, "\t%s -> %s [label=%s];\n", edge.From.Name, edge.To.Name, edge.Label)
		}
	}
}

func dotName(ep Endpoint) string {
	switch ep.Kind {
	case EndpointStart:
		return dotStartNode
	case EndpointEnd:
		return dotEndNode
	default:
		return ep.Name
	}
}
