// gen-diagrams generates sample diagram outputs for README documentation.
// Run: go run ./cmd/gen-diagrams
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/stateviz/stateviz/pkg/automata"
	"github.com/stateviz/stateviz/pkg/diagram"
)

func main() {
	// Order machine: created → (submit) → pending → choice(stock?) →
	// shipped or terminal(timeout); pending may be cancelled.
	ia := automata.NewIntermediateAutomaton[string, string]()
	for _, s := range []string{"Created", "Pending", "Shipped"} {
		ia.AddState(s)
	}
	ia.AddChoice("Pending")

	ia.AddTransition(automata.InitialSource[string](), automata.TriggerOf("new"),
		automata.StateDestination(automata.StateNodeOf("Created")))
	ia.AddTransition(automata.SourceOf("Created"), automata.TriggerOf("submit"),
		automata.StateDestination(automata.StateNodeOf("Pending")))
	ia.AddTransition(automata.SourceOf("Pending"), automata.TriggerOf("check_stock"),
		automata.DecisionDestination(
			automata.StateNodeOf("Shipped").WithLabel("in stock"),
			automata.TerminalNode[string]().WithLabel("timeout"),
		))
	ia.AddTransition(automata.SourceOf("Shipped"), automata.TriggerOf("deliver"),
		automata.StateDestination(automata.TerminalNode[string]()))

	model := diagram.FromIntermediate(ia)

	outDir := filepath.Join("docs", "assets")
	os.MkdirAll(outDir, 0o755)

	dot := diagram.RenderDOT(model)
	writeOut(filepath.Join(outDir, "order.dot"), dot)
	fmt.Println("=== DOT ===")
	fmt.Println(dot)

	uml := diagram.RenderPlantUML(model)
	writeOut(filepath.Join(outDir, "order.puml"), uml)
	fmt.Println("=== PlantUML ===")
	fmt.Println(uml)

	mermaid := diagram.RenderMermaid(model)
	writeOut(filepath.Join(outDir, "order.mmd"), "```mermaid\n"+mermaid+"```\n")
	fmt.Println("=== Mermaid ===")
	fmt.Println(mermaid)

	// Image (PNG)
	png, imgErr := diagram.RenderImage(context.Background(), model)
	if imgErr != nil {
		fmt.Fprintf(os.Stderr, "png render skipped: %v\n", imgErr)
		return
	}
	os.WriteFile(filepath.Join(outDir, "order.png"), png, 0o644)
	fmt.Printf("wrote %s (%d bytes)\n", filepath.Join(outDir, "order.png"), len(png))
}

func writeOut(path, content string) {
	if err := diagram.WriteFile(path, content); err != nil {
		fmt.Fprintf(os.Stderr, "write %s: %v\n", path, err)
		os.Exit(1)
	}
}
