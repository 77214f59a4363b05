// Package store persists covenant state in a single named slot.
//
// Two backends share one record format (see Encode/Decode):
//
//   - file: a JSON file, replaced atomically on every save.
//   - sqlite: one row of a key-value table in a SQLite database.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/nibzard/covenant-go/internal/covenant"
)

// Backend names.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// DefaultKey is the slot name used by the sqlite backend.
const DefaultKey = "covenantTrackerData"

// Store is a covenant.Store that also reports where it keeps data.
type Store interface {
	covenant.Store
	Info(ctx context.Context) (Info, error)
	Close() error
}

// Info describes a store for status output.
type Info struct {
	Backend  string
	Location string
	// SavedAt is the last save time, nil if nothing has been saved yet.
	SavedAt *time.Time
}

// Options selects and configures a backend.
type Options struct {
	Backend string
	// Path is the JSON file for the file backend, the database file for sqlite.
	Path string
	// Key names the slot in the sqlite backend. Defaults to DefaultKey.
	Key string
}

// Open returns the backend named in opts.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Backend {
	case "", BackendFile:
		return NewFileStore(opts.Path)
	case BackendSQLite:
		return OpenSQLite(ctx, opts.Path, opts.Key)
	default:
		return nil, fmt.Errorf("unknown storage backend %q (want %s or %s)", opts.Backend, BackendFile, BackendSQLite)
	}
}
