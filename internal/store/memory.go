package store

import (
	"context"
	"errors"
	"time"

	"github.com/nibzard/covenant-go/internal/covenant"
)

// MemoryStore keeps the encoded record in memory. It round-trips through
// Encode/Decode so it behaves like the persistent backends.
type MemoryStore struct {
	data    []byte
	savedAt *time.Time
	saves   int
}

// NewMemoryStore returns a store whose slot initially holds seed.
func NewMemoryStore(seed []byte) *MemoryStore {
	return &MemoryStore{data: seed}
}

func (m *MemoryStore) Load(ctx context.Context) (*covenant.State, error) {
	st, err := Decode(m.data)
	if err != nil {
		var ce *CorruptError
		if errors.As(err, &ce) {
			ce.Location = "memory"
		}
		return nil, err
	}
	return st, nil
}

func (m *MemoryStore) Save(ctx context.Context, state *covenant.State) error {
	data, err := Encode(state)
	if err != nil {
		return err
	}
	now := time.Now()
	m.data = data
	m.savedAt = &now
	m.saves++
	return nil
}

// Bytes returns the raw slot contents.
func (m *MemoryStore) Bytes() []byte {
	return append([]byte(nil), m.data...)
}

// Saves returns how many times Save succeeded.
func (m *MemoryStore) Saves() int {
	return m.saves
}

func (m *MemoryStore) Info(ctx context.Context) (Info, error) {
	return Info{Backend: "memory", Location: "memory", SavedAt: m.savedAt}, nil
}

func (m *MemoryStore) Close() error { return nil }
