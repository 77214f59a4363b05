package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/nibzard/covenant-go/internal/covenant"
)

// FileStore keeps the record in a JSON file.
type FileStore struct {
	path string
}

// NewFileStore returns a store for path. The file and its directory are
// created on the first save.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, fmt.Errorf("state file path is empty")
	}
	return &FileStore{path: path}, nil
}

// Path returns the state file path.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the state file. A missing or empty file yields (nil, nil).
func (s *FileStore) Load(ctx context.Context) (*covenant.State, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read state file: %w", err)
	}
	st, err := Decode(data)
	if err != nil {
		var ce *CorruptError
		if errors.As(err, &ce) {
			ce.Location = s.path
		}
		return nil, err
	}
	return st, nil
}

// Save writes the state to a temp file in the same directory and renames it
// over the state file.
func (s *FileStore) Save(ctx context.Context, state *covenant.State) error {
	data, err := Encode(state)
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp state file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close state file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		return fmt.Errorf("chmod state file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("replace state file: %w", err)
	}
	return nil
}

// Info reports the file location and its modification time.
func (s *FileStore) Info(ctx context.Context) (Info, error) {
	info := Info{Backend: BackendFile, Location: s.path}
	fi, err := os.Stat(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return info, nil
		}
		return info, fmt.Errorf("stat state file: %w", err)
	}
	mod := fi.ModTime()
	info.SavedAt = &mod
	return info, nil
}

// Close is a no-op.
func (s *FileStore) Close() error {
	return nil
}
