package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/nibzard/covenant-go/internal/covenant"
)

// SQLiteStore keeps the record as one row of a key-value table.
type SQLiteStore struct {
	db   *sql.DB
	path string
	key  string
}

// OpenSQLite opens (and creates if missing) the database at path and
// migrates the slot table.
func OpenSQLite(ctx context.Context, path, key string) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("database path is empty")
	}
	if key == "" {
		key = DefaultKey
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("create database dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// A single connection keeps ":memory:" databases alive across calls.
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if err := Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db, path: path, key: key}, nil
}

// Migrate creates the slot table. Safe to call repeatedly.
func Migrate(ctx context.Context, db *sql.DB) error {
	const schema = `CREATE TABLE IF NOT EXISTS slots (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// Load reads the slot. A missing row yields (nil, nil).
func (s *SQLiteStore) Load(ctx context.Context) (*covenant.State, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM slots WHERE key = ?`, s.key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("slot load: %w", err)
	}
	st, err := Decode([]byte(value))
	if err != nil {
		var ce *CorruptError
		if errors.As(err, &ce) {
			ce.Location = s.location()
		}
		return nil, err
	}
	return st, nil
}

// Save upserts the slot.
func (s *SQLiteStore) Save(ctx context.Context, state *covenant.State) error {
	data, err := Encode(state)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO slots (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, s.key, string(data), time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("slot save: %w", err)
	}
	return nil
}

// Info reports the database location and the slot's last update time.
func (s *SQLiteStore) Info(ctx context.Context) (Info, error) {
	info := Info{Backend: BackendSQLite, Location: s.location()}
	var updated string
	err := s.db.QueryRowContext(ctx, `SELECT updated_at FROM slots WHERE key = ?`, s.key).Scan(&updated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return info, nil
		}
		return info, fmt.Errorf("slot info: %w", err)
	}
	t, err := time.Parse(time.RFC3339Nano, updated)
	if err != nil {
		return info, fmt.Errorf("slot info: parse updated_at: %w", err)
	}
	info.SavedAt = &t
	return info, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) location() string {
	return s.path + "#" + s.key
}
