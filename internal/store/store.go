// Package store persists named dock layouts in a local SQLite database.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver" // SQLite driver
	_ "github.com/ncruces/go-sqlite3/embed"  // Embed SQLite
	"github.com/rs/zerolog"

	"github.com/bnema/undock/pkg/dock"
)

// ErrNotFound is returned when no layout is stored under a name.
var ErrNotFound = errors.New("layout not found")

const schema = `
CREATE TABLE IF NOT EXISTS layouts (
	name       TEXT PRIMARY KEY,
	data       TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL
);
`

// Store is a named-layout database. One row per name; Save replaces.
type Store struct {
	db  *sql.DB
	log zerolog.Logger
}

// Entry describes one stored layout.
type Entry struct {
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Open opens (creating if needed) the layout database at path.
func Open(path string, log zerolog.Logger) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("layout database path cannot be empty")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create layout database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open layout database: %w", err)
	}

	if err := db.Ping(); err != nil {
		closeQuietly(db, log)
		return nil, fmt.Errorf("failed to connect to layout database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		closeQuietly(db, log)
		return nil, fmt.Errorf("failed to create layouts table: %w", err)
	}

	return &Store{db: db, log: log}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save writes a layout under name, replacing any previous layout stored
// under the same name.
func (s *Store) Save(ctx context.Context, name string, snap dock.LayoutSnapshot) error {
	if name == "" {
		return fmt.Errorf("layout name cannot be empty")
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode layout %q: %w", name, err)
	}

	now := time.Now().UTC()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO layouts (name, data, created_at, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		name, string(data), now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to save layout %q: %w", name, err)
	}

	s.log.Debug().Str("layout", name).Msg("layout saved")
	return nil
}

// Load reads the layout stored under name.
func (s *Store) Load(ctx context.Context, name string) (dock.LayoutSnapshot, error) {
	var data string
	err := s.db.QueryRowContext(ctx, "SELECT data FROM layouts WHERE name = ?", name).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return dock.LayoutSnapshot{}, fmt.Errorf("layout %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return dock.LayoutSnapshot{}, fmt.Errorf("failed to load layout %q: %w", name, err)
	}

	var snap dock.LayoutSnapshot
	if err := json.Unmarshal([]byte(data), &snap); err != nil {
		return dock.LayoutSnapshot{}, fmt.Errorf("failed to decode layout %q: %w", name, err)
	}
	return snap, nil
}

// List returns all stored layouts sorted by name.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT name, created_at, updated_at FROM layouts ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to list layouts: %w", err)
	}

	entries, scanErr := scanEntries(rows)
	closeErr := rows.Close()
	if scanErr != nil {
		return nil, scanErr
	}
	if closeErr != nil {
		return nil, closeErr
	}
	return entries, nil
}

// Delete removes the layout stored under name.
func (s *Store) Delete(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM layouts WHERE name = ?", name)
	if err != nil {
		return fmt.Errorf("failed to delete layout %q: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete layout %q: %w", name, err)
	}
	if n == 0 {
		return fmt.Errorf("layout %q: %w", name, ErrNotFound)
	}
	return nil
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	var entries []Entry
	var scanErr error
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Name, &e.CreatedAt, &e.UpdatedAt); err != nil {
			scanErr = err
			break
		}
		entries = append(entries, e)
	}
	if scanErr != nil {
		return nil, scanErr
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

func closeQuietly(db *sql.DB, log zerolog.Logger) {
	if err := db.Close(); err != nil {
		log.Warn().Err(err).Msg("failed to close layout database")
	}
}
