package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/tursodatabase/go-libsql"

	"github.com/stateviz/stateviz/pkg/schema"
)

// LibSQLStore implements the Store interface using libSQL (embedded SQLite fork).
type LibSQLStore struct {
	db *sql.DB
}

// NewLibSQLStore opens a libSQL database at the given path and returns a Store.
// The path should be a file URI, e.g. "file:/path/to/db.db".
func NewLibSQLStore(dbPath string) (*LibSQLStore, error) {
	db, err := sql.Open("libsql", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open libsql: %w", err)
	}
	db.SetMaxOpenConns(1)

	// Apply connection-level PRAGMAs. Some PRAGMAs return rows so we use QueryRow.
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
		"PRAGMA temp_store=MEMORY",
	}
	for _, p := range pragmas {
		var result string
		_ = db.QueryRow(p).Scan(&result)
	}

	return &LibSQLStore{db: db}, nil
}

// Close closes the database.
func (s *LibSQLStore) Close() error { return s.db.Close() }

// Migrate runs all pending database migrations.
func (s *LibSQLStore) Migrate(ctx context.Context) error {
	return runMigrations(ctx, s.db)
}

// Vacuum runs VACUUM on the database.
func (s *LibSQLStore) Vacuum(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "VACUUM")
	return err
}

// --- Machines ---

func (s *LibSQLStore) SaveMachine(ctx context.Context, m *Machine) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO machines (name, version, definition, created_at, updated_at)
		 VALUES (?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		 ON CONFLICT(name, version) DO UPDATE SET definition=excluded.definition, updated_at=CURRENT_TIMESTAMP`,
		m.Name, m.Version, string(m.Definition),
	)
	if err != nil {
		return schema.NewError(schema.ErrCodeStore, "save machine").WithMachine(m.Name).WithCause(err)
	}
	return nil
}

func (s *LibSQLStore) GetMachine(ctx context.Context, name, version string) (*Machine, error) {
	query := `SELECT name, version, definition, created_at, updated_at FROM machines WHERE name = ?`
	args := []any{name}
	if version != "" {
		query += ` AND version = ?`
		args = append(args, version)
	}
	// Versions are numeric strings; CAST keeps "10" above "9".
	query += ` ORDER BY CAST(version AS INTEGER) DESC LIMIT 1`

	m := &Machine{}
	var definition string
	err := s.db.QueryRowContext(ctx, query, args...).
		Scan(&m.Name, &m.Version, &definition, &m.CreatedAt, &m.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, schema.NewErrorf(schema.ErrCodeNotFound, "machine %s not found", name).WithMachine(name)
	}
	if err != nil {
		return nil, schema.NewError(schema.ErrCodeStore, "get machine").WithMachine(name).WithCause(err)
	}
	m.Definition = []byte(definition)
	return m, nil
}

func (s *LibSQLStore) ListMachines(ctx context.Context, filter MachineFilter) ([]*Machine, error) {
	query := `SELECT name, version, definition, created_at, updated_at FROM machines`
	var conds []string
	var args []any
	if filter.Name != "" {
		conds = append(conds, "name = ?")
		args = append(args, filter.Name)
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY name ASC, CAST(version AS INTEGER) DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, schema.NewError(schema.ErrCodeStore, "list machines").WithCause(err)
	}
	defer rows.Close()

	var out []*Machine
	for rows.Next() {
		m := &Machine{}
		var definition string
		if err := rows.Scan(&m.Name, &m.Version, &definition, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, schema.NewError(schema.ErrCodeStore, "scan machine").WithCause(err)
		}
		m.Definition = []byte(definition)
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *LibSQLStore) DeleteMachine(ctx context.Context, name, version string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM machines WHERE name = ? AND version = ?`, name, version)
	if err != nil {
		return schema.NewError(schema.ErrCodeStore, "delete machine").WithMachine(name).WithCause(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return schema.NewError(schema.ErrCodeStore, "delete machine").WithMachine(name).WithCause(err)
	}
	if n == 0 {
		return schema.NewErrorf(schema.ErrCodeNotFound, "machine %s@%s not found", name, version).WithMachine(name)
	}
	return nil
}

// --- Renders ---

func (s *LibSQLStore) SaveRender(ctx context.Context, r *Render) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO renders (id, machine_name, machine_version, format, content, created_at)
		 VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)`,
		r.ID, r.MachineName, r.MachineVersion, r.Format, r.Content,
	)
	if err != nil {
		return schema.NewError(schema.ErrCodeStore, "save render").WithMachine(r.MachineName).WithCause(err)
	}
	return nil
}

func (s *LibSQLStore) GetRender(ctx context.Context, id string) (*Render, error) {
	r := &Render{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, machine_name, machine_version, format, content, created_at FROM renders WHERE id = ?`, id,
	).Scan(&r.ID, &r.MachineName, &r.MachineVersion, &r.Format, &r.Content, &r.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, schema.NewErrorf(schema.ErrCodeNotFound, "render %s not found", id)
	}
	if err != nil {
		return nil, schema.NewError(schema.ErrCodeStore, "get render").WithCause(err)
	}
	return r, nil
}

func (s *LibSQLStore) ListRenders(ctx context.Context, filter RenderFilter) ([]*Render, error) {
	query := `SELECT id, machine_name, machine_version, format, content, created_at FROM renders`
	var conds []string
	var args []any
	if filter.MachineName != "" {
		conds = append(conds, "machine_name = ?")
		args = append(args, filter.MachineName)
	}
	if filter.Format != "" {
		conds = append(conds, "format = ?")
		args = append(args, filter.Format)
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC, id ASC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, schema.NewError(schema.ErrCodeStore, "list renders").WithCause(err)
	}
	defer rows.Close()

	var out []*Render
	for rows.Next() {
		r := &Render{}
		if err := rows.Scan(&r.ID, &r.MachineName, &r.MachineVersion, &r.Format, &r.Content, &r.CreatedAt); err != nil {
			return nil, schema.NewError(schema.ErrCodeStore, "scan render").WithCause(err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

var _ Store = (*LibSQLStore)(nil)
