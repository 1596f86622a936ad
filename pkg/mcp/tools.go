package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/stateviz/stateviz/internal/definition"
	"github.com/stateviz/stateviz/internal/logging"
	"github.com/stateviz/stateviz/internal/store"
	"github.com/stateviz/stateviz/pkg/diagram"
	"github.com/stateviz/stateviz/pkg/schema"
)

// handleDefine registers a new machine definition with auto-versioning.
func (s *StatevizServer) handleDefine(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError("name is required"), nil
	}

	defRaw := mcp.ParseStringMap(req, "definition", nil)
	if defRaw == nil {
		return mcp.NewToolResultError("definition is required"), nil
	}

	def, defErr := decodeDefinition(defRaw)
	if defErr != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid definition: %v", defErr)), nil
	}
	def.Name = name

	if valErr := definition.Validate(def); valErr != nil {
		return mcp.NewToolResultError(fmt.Sprintf("definition rejected: %v", valErr)), nil
	}

	version := s.nextVersion(ctx, name)
	def.Version = version

	raw, marshalErr := json.Marshal(def)
	if marshalErr != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode definition: %v", marshalErr)), nil
	}

	machine := &store.Machine{Name: name, Version: version, Definition: raw}
	if storeErr := s.store.SaveMachine(ctx, machine); storeErr != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to store machine: %v", storeErr)), nil
	}

	s.logger.InfoContext(logging.WithMachine(ctx, name), "machine defined", "version", version)

	return marshalResult(map[string]any{
		"name":    name,
		"version": version,
	})
}

// handleRender renders a stored or inline machine to a diagram format
// and persists the artifact.
func (s *StatevizServer) handleRender(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	format, err := req.RequireString("format")
	if err != nil {
		return mcp.NewToolResultError("format is required"), nil
	}
	representation := req.GetString("representation", "intermediate")

	def, version, defErr := s.resolveDefinition(ctx, req)
	if defErr != nil {
		return mcp.NewToolResultError(defErr.Error()), nil
	}

	model, buildErr := buildModel(def, representation)
	if buildErr != nil {
		return mcp.NewToolResultError(fmt.Sprintf("build failed: %v", buildErr)), nil
	}

	content, renderErr := renderFormat(model, format)
	if renderErr != nil {
		return mcp.NewToolResultError(renderErr.Error()), nil
	}

	render := &store.Render{
		ID:             uuid.New().String(),
		MachineName:    def.Name,
		MachineVersion: version,
		Format:         format,
		Content:        content,
	}
	if storeErr := s.store.SaveRender(ctx, render); storeErr != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to store render: %v", storeErr)), nil
	}

	logCtx := logging.WithRenderID(logging.WithFormat(logging.WithMachine(ctx, def.Name), format), render.ID)
	s.logger.InfoContext(logCtx, "machine rendered", "representation", representation)

	return marshalResult(map[string]any{
		"render_id": render.ID,
		"machine":   def.Name,
		"format":    format,
		"content":   content,
	})
}

// handleAnalyze reports reachability and productivity per state using
// the edge-list representation.
func (s *StatevizServer) handleAnalyze(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	def, _, defErr := s.resolveDefinition(ctx, req)
	if defErr != nil {
		return mcp.NewToolResultError(defErr.Error()), nil
	}

	fa, buildErr := definition.BuildFinite(def)
	if buildErr != nil {
		return mcp.NewToolResultError(fmt.Sprintf("build failed: %v", buildErr)), nil
	}

	type stateReport struct {
		State      string   `json:"state"`
		Reachable  []string `json:"reachable"`
		Productive bool     `json:"productive"`
		Final      bool     `json:"final"`
	}

	states := fa.States()
	reports := make([]stateReport, 0, len(states))
	for _, st := range states {
		reached := fa.Reachable(st)
		names := make([]string, 0, len(reached))
		// Enumerate in global state order so the report is deterministic.
		for _, other := range states {
			if _, ok := reached[other]; ok {
				names = append(names, other.Value())
			}
		}
		reports = append(reports, stateReport{
			State:      st.Value(),
			Reachable:  names,
			Productive: fa.IsProductive(st),
			Final:      fa.IsFinal(st),
		})
	}

	return marshalResult(map[string]any{
		"machine": def.Name,
		"states":  reports,
	})
}

// handleQuery lists stored machines or render artifacts.
func (s *StatevizServer) handleQuery(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	resource, err := req.RequireString("resource")
	if err != nil {
		return mcp.NewToolResultError("resource is required"), nil
	}
	filter := mcp.ParseStringMap(req, "filter", map[string]any{})

	switch resource {
	case "machines":
		machines, listErr := s.store.ListMachines(ctx, store.MachineFilter{
			Name:  stringField(filter, "name"),
			Limit: intField(filter, "limit"),
		})
		if listErr != nil {
			return mcp.NewToolResultError(fmt.Sprintf("query failed: %v", listErr)), nil
		}
		return marshalResult(map[string]any{"machines": machines})

	case "renders":
		renders, listErr := s.store.ListRenders(ctx, store.RenderFilter{
			MachineName: stringField(filter, "machine_name"),
			Format:      stringField(filter, "format"),
			Limit:       intField(filter, "limit"),
		})
		if listErr != nil {
			return mcp.NewToolResultError(fmt.Sprintf("query failed: %v", listErr)), nil
		}
		return marshalResult(map[string]any{"renders": renders})

	default:
		return mcp.NewToolResultError(fmt.Sprintf("unknown resource %q", resource)), nil
	}
}

// --- Helpers ---

// resolveDefinition returns the machine definition named by the request:
// inline "definition" wins, otherwise the stored machine is loaded.
func (s *StatevizServer) resolveDefinition(ctx context.Context, req mcp.CallToolRequest) (*definition.MachineDefinition, string, error) {
	if defRaw := mcp.ParseStringMap(req, "definition", nil); defRaw != nil {
		def, err := decodeDefinition(defRaw)
		if err != nil {
			return nil, "", fmt.Errorf("invalid definition: %w", err)
		}
		if err := definition.Validate(def); err != nil {
			return nil, "", fmt.Errorf("definition rejected: %w", err)
		}
		return def, def.Version, nil
	}

	name := req.GetString("machine_name", "")
	if name == "" {
		return nil, "", fmt.Errorf("machine_name or definition is required")
	}
	machine, err := s.store.GetMachine(ctx, name, req.GetString("version", ""))
	if err != nil {
		return nil, "", fmt.Errorf("machine lookup failed: %w", err)
	}

	var def definition.MachineDefinition
	if err := json.Unmarshal(machine.Definition, &def); err != nil {
		return nil, "", fmt.Errorf("stored definition is corrupt: %w", err)
	}
	return &def, machine.Version, nil
}

// buildModel lowers the definition through the requested representation.
func buildModel(def *definition.MachineDefinition, representation string) (*diagram.Model, error) {
	switch representation {
	case "", "intermediate":
		ia, err := definition.BuildIntermediate(def)
		if err != nil {
			return nil, err
		}
		return diagram.FromIntermediate(ia), nil
	case "edge-list":
		fa, err := definition.BuildFinite(def)
		if err != nil {
			return nil, err
		}
		return diagram.FromFinite(fa), nil
	default:
		return nil, schema.NewErrorf(schema.ErrCodeValidation, "unknown representation %q", representation)
	}
}

// renderFormat dispatches to the text renderer for the named format.
func renderFormat(model *diagram.Model, format string) (string, error) {
	switch format {
	case "dot":
		return diagram.RenderDOT(model), nil
	case "plantuml":
		return diagram.RenderPlantUML(model), nil
	case "mermaid":
		return diagram.RenderMermaid(model), nil
	default:
		return "", schema.NewErrorf(schema.ErrCodeRender, "unknown format %q", format)
	}
}

// nextVersion finds the latest stored version for a machine and
// increments it, starting at "1".
func (s *StatevizServer) nextVersion(ctx context.Context, name string) string {
	machine, err := s.store.GetMachine(ctx, name, "")
	if err != nil {
		return "1"
	}
	if n, convErr := strconv.Atoi(machine.Version); convErr == nil {
		return strconv.Itoa(n + 1)
	}
	return "1"
}

func decodeDefinition(raw map[string]any) (*definition.MachineDefinition, error) {
	// Marshal then unmarshal to get a proper MachineDefinition.
	bytes, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}
	var def definition.MachineDefinition
	if err := json.Unmarshal(bytes, &def); err != nil {
		return nil, err
	}
	return &def, nil
}

func marshalResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func stringField(m map[string]any, key string) string {
	v, _ := m[key].(string)
	return v
}

func intField(m map[string]any, key string) int {
	switch v := m[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case string:
		n, _ := strconv.Atoi(v)
		return n
	default:
		return 0
	}
}
