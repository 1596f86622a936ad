// Package store persists machine definitions and rendered diagram
// artifacts in an embedded libSQL database.
package store

import "context"

// Store defines the persistence layer contract.
// All implementations must be safe for concurrent use.
type Store interface {
	// Machines
	SaveMachine(ctx context.Context, m *Machine) error
	GetMachine(ctx context.Context, name, version string) (*Machine, error)
	ListMachines(ctx context.Context, filter MachineFilter) ([]*Machine, error)
	DeleteMachine(ctx context.Context, name, version string) error

	// Renders
	SaveRender(ctx context.Context, r *Render) error
	GetRender(ctx context.Context, id string) (*Render, error)
	ListRenders(ctx context.Context, filter RenderFilter) ([]*Render, error)

	// Maintenance
	Migrate(ctx context.Context) error
	Vacuum(ctx context.Context) error

	// Lifecycle
	Close() error
}
