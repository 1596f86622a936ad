package diagram

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"
)

// RenderImage renders a Model as a PNG image using graphviz.
// Returns the PNG bytes.
func RenderImage(ctx context.Context, model *Model) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("diagram: create graphviz: %w", err)
	}
	defer gv.Close()

	gv.SetLayout(graphviz.DOT)

	graph, err := gv.Graph()
	if err != nil {
		return nil, fmt.Errorf("diagram: create graph: %w", err)
	}
	defer graph.Close()

	graph.SetRankDir(cgraph.TBRank)

	nodes := make(map[string]*cgraph.Node)

	ensure := func(name string, pseudo bool) (*cgraph.Node, error) {
		if n, ok := nodes[name]; ok {
			return n, nil
		}
		n, nErr := graph.CreateNodeByName(name)
		if nErr != nil {
			return nil, fmt.Errorf("diagram: create node %s: %w", name, nErr)
		}
		if pseudo {
			n.SetLabel("")
			n.SetShape(cgraph.CircleShape)
			n.SetStyle(cgraph.FilledNodeStyle)
			n.SetFillColor("black")
			n.SetWidth(0.25)
			n.SetHeight(0.25)
		}
		nodes[name] = n
		return n, nil
	}

	// Choice states draw as diamonds, declared before edges.
	for _, choice := range model.Choices {
		n, cErr := ensure(choice, false)
		if cErr != nil {
			return nil, cErr
		}
		n.SetShape(cgraph.DiamondShape)
	}
	for _, state := range model.States {
		if _, sErr := ensure(state, false); sErr != nil {
			return nil, sErr
		}
	}

	for _, edge := range model.Edges {
		from, fErr := imageEndpoint(ensure, edge.From)
		if fErr != nil {
			return nil, fErr
		}
		to, tErr := imageEndpoint(ensure, edge.To)
		if tErr != nil {
			return nil, tErr
		}
		e, eErr := graph.CreateEdgeByName("", from, to)
		if eErr != nil {
			return nil, fmt.Errorf("diagram: create edge: %w", eErr)
		}
		if edge.HasLabel && edge.Label != "" {
			e.SetLabel(edge.Label)
		}
	}

	var buf bytes.Buffer
	if err := gv.Render(ctx, graph, graphviz.PNG, &buf); err != nil {
		return nil, fmt.Errorf("diagram: render PNG: %w", err)
	}
	return buf.Bytes(), nil
}

func imageEndpoint(ensure func(string, bool) (*cgraph.Node, error), ep Endpoint) (*cgraph.Node, error) {
	switch ep.Kind {
	case EndpointStart:
		return ensure(dotStartNode, true)
	case EndpointEnd:
		return ensure(dotEndNode, true)
	default:
		return ensure(ep.Name, false)
	}
}
