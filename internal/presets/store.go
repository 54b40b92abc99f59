package presets

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"patchbay/internal/dsp"
)

// ErrNotFound reports a preset name with no stored snapshot.
var ErrNotFound = errors.New("preset not found")

// Preset is one named engine-config snapshot.
type Preset struct {
	ID        string
	Name      string
	Config    dsp.Config
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Store manages preset persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

const schema = `
CREATE TABLE IF NOT EXISTS presets (
    id         TEXT PRIMARY KEY,
    name       TEXT NOT NULL UNIQUE,
    config     TEXT NOT NULL,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
)`

// Open initializes or connects to the preset database.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Save stores a snapshot under the given name, overwriting any existing
// preset with that name.
func (s *Store) Save(ctx context.Context, name string, cfg dsp.Config) (*Preset, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("preset name must not be empty")
	}

	encoded, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)

	res, err := s.db.ExecContext(ctx,
		`UPDATE presets SET config = ?, updated_at = ? WHERE name = ?`,
		string(encoded), now, name)
	if err != nil {
		return nil, fmt.Errorf("update preset: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		_, err = s.db.ExecContext(ctx,
			`INSERT INTO presets (id, name, config, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
			uuid.NewString(), name, string(encoded), now, now)
		if err != nil {
			return nil, fmt.Errorf("insert preset: %w", err)
		}
	}

	return s.Get(ctx, name)
}

// Get returns the preset stored under name, or ErrNotFound.
func (s *Store) Get(ctx context.Context, name string) (*Preset, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, config, created_at, updated_at FROM presets WHERE name = ?`,
		strings.TrimSpace(name))
	return scanPreset(row.Scan)
}

// List returns all presets ordered by name.
func (s *Store) List(ctx context.Context) ([]*Preset, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, config, created_at, updated_at FROM presets ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list presets: %w", err)
	}
	defer rows.Close()

	var presets []*Preset
	for rows.Next() {
		preset, err := scanPreset(rows.Scan)
		if err != nil {
			return nil, err
		}
		presets = append(presets, preset)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan presets: %w", err)
	}
	return presets, nil
}

// Delete removes the preset stored under name and reports whether one existed.
func (s *Store) Delete(ctx context.Context, name string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM presets WHERE name = ?`, strings.TrimSpace(name))
	if err != nil {
		return false, fmt.Errorf("delete preset: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

func scanPreset(scan func(dest ...any) error) (*Preset, error) {
	var (
		preset    Preset
		encoded   string
		createdAt string
		updatedAt string
	)
	if err := scan(&preset.ID, &preset.Name, &encoded, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan preset: %w", err)
	}
	if err := json.Unmarshal([]byte(encoded), &preset.Config); err != nil {
		return nil, fmt.Errorf("decode preset config: %w", err)
	}
	preset.CreatedAt = parseTimestamp(createdAt)
	preset.UpdatedAt = parseTimestamp(updatedAt)
	return &preset, nil
}

func parseTimestamp(value string) time.Time {
	parsed, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return parsed
}
