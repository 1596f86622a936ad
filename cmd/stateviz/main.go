// stateviz renders finite-state machine definitions as diagrams and
// serves the rendering tools over MCP.
//
// One-shot render:
//
//	stateviz -input machine.json -format dot -out machine.dot
//
// MCP server (stdio transport):
//
//	stateviz -serve -db file:stateviz.db
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/stateviz/stateviz/internal/definition"
	"github.com/stateviz/stateviz/internal/logging"
	"github.com/stateviz/stateviz/internal/store"
	"github.com/stateviz/stateviz/pkg/diagram"
	"github.com/stateviz/stateviz/pkg/mcp"
)

func main() {
	var (
		serve          = flag.Bool("serve", false, "serve the MCP stdio transport")
		dbPath         = flag.String("db", "file:stateviz.db", "libSQL database path (serve mode)")
		input          = flag.String("input", "", "machine definition JSON file")
		selector       = flag.String("select", "", "jq expression extracting the definition from the input document")
		format         = flag.String("format", "dot", "output format: dot, plantuml or mermaid")
		representation = flag.String("representation", "intermediate", "automaton representation: intermediate or edge-list")
		out            = flag.String("out", "", "output file (default: stdout)")
		verbose        = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	handler := logging.NewCorrelationHandler(
		slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	logger := slog.New(handler)

	if *serve {
		if err := runServe(*dbPath, logger); err != nil {
			logger.Error("server exited", "error", err)
			os.Exit(1)
		}
		return
	}

	if *input == "" {
		fmt.Fprintln(os.Stderr, "stateviz: -input or -serve is required")
		flag.Usage()
		os.Exit(2)
	}

	if err := runRender(*input, *selector, *format, *representation, *out); err != nil {
		logger.Error("render failed", "error", err)
		os.Exit(1)
	}
}

func runServe(dbPath string, logger *slog.Logger) error {
	st, err := store.NewLibSQLStore(dbPath)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := st.Migrate(ctx); err != nil {
		return err
	}

	srv := mcp.NewStatevizServer(mcp.StatevizServerDeps{Store: st, Logger: logger})
	logger.Info("serving MCP on stdio", "db", dbPath)
	return srv.Serve(ctx)
}

func runRender(input, selector, format, representation, out string) error {
	var opts []definition.LoadOption
	if selector != "" {
		opts = append(opts, definition.WithSelector(selector))
	}
	def, err := definition.Load(input, opts...)
	if err != nil {
		return err
	}

	var model *diagram.Model
	switch representation {
	case "edge-list":
		fa, buildErr := definition.BuildFinite(def)
		if buildErr != nil {
			return buildErr
		}
		model = diagram.FromFinite(fa)
	default:
		ia, buildErr := definition.BuildIntermediate(def)
		if buildErr != nil {
			return buildErr
		}
		model = diagram.FromIntermediate(ia)
	}

	var rendered string
	switch format {
	case "plantuml":
		rendered = diagram.RenderPlantUML(model)
	case "mermaid":
		rendered = diagram.RenderMermaid(model)
	default:
		rendered = diagram.RenderDOT(model)
	}

	if out == "" {
		fmt.Print(rendered)
		return nil
	}
	return diagram.WriteFile(out, rendered)
}
