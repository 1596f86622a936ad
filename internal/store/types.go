package store

import (
	"encoding/json"
	"time"
)

// Machine is a stored machine definition, versioned by name.
type Machine struct {
	Name       string          `json:"name"`
	Version    string          `json:"version"`
	Definition json.RawMessage `json:"definition"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// MachineFilter narrows ListMachines results.
type MachineFilter struct {
	Name  string
	Limit int
}

// Render is a rendered diagram artifact.
type Render struct {
	ID             string    `json:"id"`
	MachineName    string    `json:"machine_name"`
	MachineVersion string    `json:"machine_version"`
	Format         string    `json:"format"` // dot | plantuml | mermaid
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
}

// RenderFilter narrows ListRenders results.
type RenderFilter struct {
	MachineName string
	Format      string
	Limit       int
}
