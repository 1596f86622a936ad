package mcp

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strconv"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stateviz/stateviz/internal/store"
	"github.com/stateviz/stateviz/pkg/schema"
)

// --- Mock store ---

type mockStore struct {
	store.Store // panic on unimplemented methods

	machines []*store.Machine
	renders  []*store.Render
}

func newMockStore() *mockStore {
	return &mockStore{}
}

func (m *mockStore) SaveMachine(_ context.Context, machine *store.Machine) error {
	for _, existing := range m.machines {
		if existing.Name == machine.Name && existing.Version == machine.Version {
			existing.Definition = machine.Definition
			return nil
		}
	}
	m.machines = append(m.machines, machine)
	return nil
}

func (m *mockStore) GetMachine(_ context.Context, name, version string) (*store.Machine, error) {
	var best *store.Machine
	for _, machine := range m.machines {
		if machine.Name != name {
			continue
		}
		if version != "" {
			if machine.Version == version {
				return machine, nil
			}
			continue
		}
		if best == nil || versionNum(machine.Version) > versionNum(best.Version) {
			best = machine
		}
	}
	if best == nil {
		return nil, schema.NewErrorf(schema.ErrCodeNotFound, "machine %s not found", name)
	}
	return best, nil
}

func (m *mockStore) ListMachines(_ context.Context, filter store.MachineFilter) ([]*store.Machine, error) {
	result := make([]*store.Machine, 0)
	for _, machine := range m.machines {
		if filter.Name != "" && machine.Name != filter.Name {
			continue
		}
		result = append(result, machine)
	}
	if filter.Limit > 0 && len(result) > filter.Limit {
		result = result[:filter.Limit]
	}
	return result, nil
}

func (m *mockStore) SaveRender(_ context.Context, r *store.Render) error {
	m.renders = append(m.renders, r)
	return nil
}

func (m *mockStore) ListRenders(_ context.Context, filter store.RenderFilter) ([]*store.Render, error) {
	result := make([]*store.Render, 0)
	for _, r := range m.renders {
		if filter.MachineName != "" && r.MachineName != filter.MachineName {
			continue
		}
		if filter.Format != "" && r.Format != filter.Format {
			continue
		}
		result = append(result, r)
	}
	if filter.Limit > 0 && len(result) > filter.Limit {
		result = result[:filter.Limit]
	}
	return result, nil
}

func versionNum(v string) int {
	n, _ := strconv.Atoi(v)
	return n
}

// --- Helpers ---

func newTestServer(ms *mockStore) *StatevizServer {
	return NewStatevizServer(StatevizServerDeps{
		Store:  ms,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

func buildRequest(toolName string, args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      toolName,
			Arguments: args,
		},
	}
}

func extractText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	return mcp.GetTextFromContent(result.Content[0])
}

func unmarshalResult(t *testing.T, result *mcp.CallToolResult, target any) {
	t.Helper()
	require.NoError(t, json.Unmarshal([]byte(extractText(t, result)), target))
}

func orderDefinitionArg() map[string]any {
	return map[string]any{
		"name":    "orders",
		"states":  []any{"Created", "Pending", "Shipped"},
		"choices": []any{"Pending"},
		"initial": []any{map[string]any{"state": "Created", "label": "new"}},
		"final":   []any{map[string]any{"state": "Shipped", "label": "delivered"}},
		"transitions": []any{
			map[string]any{"on": "new", "to": "Created"},
			map[string]any{"from": "Created", "on": "submit", "to": "Pending"},
			map[string]any{"from": "Pending", "on": "check_stock", "branches": []any{
				map[string]any{"to": "Shipped", "label": "in stock"},
				map[string]any{"terminal": true, "label": "timeout"},
			}},
			map[string]any{"from": "Shipped", "on": "deliver", "terminal": true},
		},
	}
}

// --- Tests ---

func TestDefineTool(t *testing.T) {
	ms := newMockStore()
	s := newTestServer(ms)

	req := buildRequest("stateviz.define", map[string]any{
		"name":       "orders",
		"definition": orderDefinitionArg(),
	})

	result, err := s.handleDefine(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, result.IsError)

	var out struct {
		Name    string `json:"name"`
		Version string `json:"version"`
	}
	unmarshalResult(t, result, &out)
	assert.Equal(t, "orders", out.Name)
	assert.Equal(t, "1", out.Version)
	require.Len(t, ms.machines, 1)

	// A second define auto-increments the version.
	result, err = s.handleDefine(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, result.IsError)
	unmarshalResult(t, result, &out)
	assert.Equal(t, "2", out.Version)
	assert.Len(t, ms.machines, 2)
}

func TestDefineToolMissingName(t *testing.T) {
	s := newTestServer(newMockStore())

	result, err := s.handleDefine(context.Background(), buildRequest("stateviz.define", map[string]any{
		"definition": orderDefinitionArg(),
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestDefineToolRejectsInvalidDefinition(t *testing.T) {
	s := newTestServer(newMockStore())

	def := orderDefinitionArg()
	def["choices"] = []any{"Phantom"}

	result, err := s.handleDefine(context.Background(), buildRequest("stateviz.define", map[string]any{
		"name":       "orders",
		"definition": def,
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, extractText(t, result), "definition rejected")
}

func TestRenderToolInline(t *testing.T) {
	ms := newMockStore()
	s := newTestServer(ms)

	result, err := s.handleRender(context.Background(), buildRequest("stateviz.render", map[string]any{
		"definition": orderDefinitionArg(),
		"format":     "dot",
	}))
	require.NoError(t, err)
	assert.False(t, result.IsError)

	var out struct {
		RenderID string `json:"render_id"`
		Machine  string `json:"machine"`
		Format   string `json:"format"`
		Content  string `json:"content"`
	}
	unmarshalResult(t, result, &out)
	assert.NotEmpty(t, out.RenderID)
	assert.Equal(t, "orders", out.Machine)
	assert.Equal(t, "dot", out.Format)
	assert.Contains(t, out.Content, "digraph Automata {")
	assert.Contains(t, out.Content, "Pending [shape=diamond];")

	// The artifact was persisted.
	require.Len(t, ms.renders, 1)
	assert.Equal(t, out.RenderID, ms.renders[0].ID)
}

func TestRenderToolStoredMachine(t *testing.T) {
	ms := newMockStore()
	s := newTestServer(ms)

	raw, err := json.Marshal(orderDefinitionArg())
	require.NoError(t, err)
	ms.machines = append(ms.machines, &store.Machine{Name: "orders", Version: "1", Definition: raw})

	result, err := s.handleRender(context.Background(), buildRequest("stateviz.render", map[string]any{
		"machine_name": "orders",
		"format":       "mermaid",
	}))
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Contains(t, extractText(t, result), "stateDiagram-v2")

	require.Len(t, ms.renders, 1)
	assert.Equal(t, "1", ms.renders[0].MachineVersion)
}

func TestRenderToolEdgeListRepresentation(t *testing.T) {
	s := newTestServer(newMockStore())

	result, err := s.handleRender(context.Background(), buildRequest("stateviz.render", map[string]any{
		"definition":     orderDefinitionArg(),
		"format":         "dot",
		"representation": "edge-list",
	}))
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Contains(t, extractText(t, result), `nodesep=`)
}

func TestRenderToolUnknownMachine(t *testing.T) {
	s := newTestServer(newMockStore())

	result, err := s.handleRender(context.Background(), buildRequest("stateviz.render", map[string]any{
		"machine_name": "missing",
		"format":       "dot",
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestRenderToolUnknownFormat(t *testing.T) {
	s := newTestServer(newMockStore())

	result, err := s.handleRender(context.Background(), buildRequest("stateviz.render", map[string]any{
		"definition": orderDefinitionArg(),
		"format":     "svg",
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestAnalyzeTool(t *testing.T) {
	s := newTestServer(newMockStore())

	result, err := s.handleAnalyze(context.Background(), buildRequest("stateviz.analyze", map[string]any{
		"definition": orderDefinitionArg(),
	}))
	require.NoError(t, err)
	assert.False(t, result.IsError)

	var out struct {
		Machine string `json:"machine"`
		States  []struct {
			State      string   `json:"state"`
			Reachable  []string `json:"reachable"`
			Productive bool     `json:"productive"`
			Final      bool     `json:"final"`
		} `json:"states"`
	}
	unmarshalResult(t, result, &out)
	assert.Equal(t, "orders", out.Machine)
	require.Len(t, out.States, 3)

	reports := make(map[string]struct {
		Reachable  []string
		Productive bool
		Final      bool
	})
	for _, r := range out.States {
		reports[r.State] = struct {
			Reachable  []string
			Productive bool
			Final      bool
		}{r.Reachable, r.Productive, r.Final}
	}

	assert.Equal(t, []string{"Pending", "Shipped"}, reports["Created"].Reachable)
	assert.True(t, reports["Created"].Productive)
	assert.True(t, reports["Pending"].Productive)

	// Shipped is final but reaches no final state, so it is unproductive.
	assert.False(t, reports["Shipped"].Productive)
	assert.True(t, reports["Shipped"].Final)
}

func TestAnalyzeToolMissingInput(t *testing.T) {
	s := newTestServer(newMockStore())

	result, err := s.handleAnalyze(context.Background(), buildRequest("stateviz.analyze", map[string]any{}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestQueryToolMachines(t *testing.T) {
	ms := newMockStore()
	s := newTestServer(ms)
	ms.machines = append(ms.machines,
		&store.Machine{Name: "orders", Version: "1"},
		&store.Machine{Name: "shipments", Version: "1"},
	)

	result, err := s.handleQuery(context.Background(), buildRequest("stateviz.query", map[string]any{
		"resource": "machines",
		"filter":   map[string]any{"name": "orders"},
	}))
	require.NoError(t, err)
	assert.False(t, result.IsError)

	var out struct {
		Machines []*store.Machine `json:"machines"`
	}
	unmarshalResult(t, result, &out)
	require.Len(t, out.Machines, 1)
	assert.Equal(t, "orders", out.Machines[0].Name)
}

func TestQueryToolRenders(t *testing.T) {
	ms := newMockStore()
	s := newTestServer(ms)
	ms.renders = append(ms.renders,
		&store.Render{ID: "r1", MachineName: "orders", Format: "dot"},
		&store.Render{ID: "r2", MachineName: "orders", Format: "mermaid"},
	)

	result, err := s.handleQuery(context.Background(), buildRequest("stateviz.query", map[string]any{
		"resource": "renders",
		"filter":   map[string]any{"machine_name": "orders", "format": "dot"},
	}))
	require.NoError(t, err)
	assert.False(t, result.IsError)

	var out struct {
		Renders []*store.Render `json:"renders"`
	}
	unmarshalResult(t, result, &out)
	require.Len(t, out.Renders, 1)
	assert.Equal(t, "r1", out.Renders[0].ID)
}

func TestQueryToolUnknownResource(t *testing.T) {
	s := newTestServer(newMockStore())

	result, err := s.handleQuery(context.Background(), buildRequest("stateviz.query", map[string]any{
		"resource": "workflows",
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestNextVersion(t *testing.T) {
	ms := newMockStore()
	s := newTestServer(ms)
	ctx := context.Background()

	assert.Equal(t, "1", s.nextVersion(ctx, "orders"))

	ms.machines = append(ms.machines, &store.Machine{Name: "orders", Version: "3"})
	assert.Equal(t, "4", s.nextVersion(ctx, "orders"))

	// Versions must compare numerically, not lexicographically, or the
	// counter stalls at the two-digit boundary and overwrites version 10.
	ms.machines = append(ms.machines,
		&store.Machine{Name: "orders", Version: "9"},
		&store.Machine{Name: "orders", Version: "10"},
	)
	assert.Equal(t, "11", s.nextVersion(ctx, "orders"))

	ms.machines = append(ms.machines, &store.Machine{Name: "legacy", Version: "v2"})
	assert.Equal(t, "1", s.nextVersion(ctx, "legacy"))
}
