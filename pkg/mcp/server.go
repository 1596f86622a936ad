// Package mcp exposes machine definition, rendering and analysis tools
// over the Model Context Protocol.
package mcp

import (
	"context"
	"log/slog"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/stateviz/stateviz/internal/store"
)

// StatevizServerDeps holds the dependencies for creating a StatevizServer.
type StatevizServerDeps struct {
	Store  store.Store
	Logger *slog.Logger
}

// StatevizServer wraps an MCP server with stateviz-specific tool handlers.
type StatevizServer struct {
	store     store.Store
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// NewStatevizServer creates a new StatevizServer with all 4 tools registered.
func NewStatevizServer(deps StatevizServerDeps) *StatevizServer {
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}

	s := &StatevizServer{
		store:  deps.Store,
		logger: logger,
	}

	mcpSrv := server.NewMCPServer(
		"stateviz",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithRecovery(),
		server.WithInstructions("Stateviz models finite-state machines and renders them as diagrams. Use stateviz.define to register a machine definition, stateviz.render to produce dot/plantuml/mermaid output, stateviz.analyze for reachability and productivity reports, and stateviz.query to list machines and renders."),
	)

	mcpSrv.AddTools(s.tools()...)
	s.mcpServer = mcpSrv
	return s
}

// Serve starts the stdio transport and blocks until ctx is cancelled or stdin closes.
func (s *StatevizServer) Serve(ctx context.Context) error {
	stdio := server.NewStdioServer(s.mcpServer)
	return stdio.Listen(ctx, os.Stdin, os.Stdout)
}

// MCPServer returns the underlying MCPServer for testing or custom transports.
func (s *StatevizServer) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// tools returns the 4 registered MCP tools as ServerTool entries.
func (s *StatevizServer) tools() []server.ServerTool {
	return []server.ServerTool{
		{Tool: defineTool(), Handler: s.handleDefine},
		{Tool: renderTool(), Handler: s.handleRender},
		{Tool: analyzeTool(), Handler: s.handleAnalyze},
		{Tool: queryTool(), Handler: s.handleQuery},
	}
}

// --- Tool definitions ---

func defineTool() mcp.Tool {
	return mcp.NewTool("stateviz.define",
		mcp.WithDescription("Register a machine definition with auto-versioning"),
		mcp.WithString("name", mcp.Required(), mcp.Description("Machine name")),
		mcp.WithObject("definition", mcp.Required(), mcp.Description("Machine definition object")),
	)
}

func renderTool() mcp.Tool {
	return mcp.NewTool("stateviz.render",
		mcp.WithDescription("Render a stored or inline machine as a diagram"),
		mcp.WithString("machine_name", mcp.Description("Name of a stored machine (omit when passing an inline definition)")),
		mcp.WithString("version", mcp.Description("Machine version (default: latest)")),
		mcp.WithObject("definition", mcp.Description("Inline machine definition object")),
		mcp.WithString("format", mcp.Required(),
			mcp.Enum("dot", "plantuml", "mermaid"),
			mcp.Description("Output diagram format"),
		),
		mcp.WithString("representation",
			mcp.Enum("intermediate", "edge-list"),
			mcp.Description("Automaton representation to render (default: intermediate)"),
		),
	)
}

func analyzeTool() mcp.Tool {
	return mcp.NewTool("stateviz.analyze",
		mcp.WithDescription("Report reachable states and productivity for each state of a machine"),
		mcp.WithString("machine_name", mcp.Description("Name of a stored machine (omit when passing an inline definition)")),
		mcp.WithString("version", mcp.Description("Machine version (default: latest)")),
		mcp.WithObject("definition", mcp.Description("Inline machine definition object")),
	)
}

func queryTool() mcp.Tool {
	return mcp.NewTool("stateviz.query",
		mcp.WithDescription("Query stored machines or render artifacts"),
		mcp.WithString("resource", mcp.Required(),
			mcp.Enum("machines", "renders"),
			mcp.Description("Type of resource to query"),
		),
		mcp.WithObject("filter", mcp.Description("Filter criteria (name, machine_name, format, limit)")),
	)
}
