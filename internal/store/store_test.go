package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nibzard/covenant-go/internal/covenant"
)

func sampleState(t *testing.T) *covenant.State {
	t.Helper()
	st := covenant.NewState()
	st.SetStart(covenant.NewDate(2024, time.January, 1))
	st.Set(covenant.NewDate(2024, time.January, 5), covenant.TaskConfession, true)
	st.Set(covenant.NewDate(2024, time.January, 6), covenant.TaskHolyMass, false)
	return st
}

func TestEncodeLayout(t *testing.T) {
	data, err := Encode(sampleState(t))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := `{
  "startDate": "2024-01-01",
  "data": {
    "2024-01-05": {
      "confession": true
    },
    "2024-01-06": {
      "holy_mass": false
    }
  }
}
`
	if string(data) != want {
		t.Errorf("Encode:\n%s\nwant:\n%s", data, want)
	}
}

func TestEncodeUnconfigured(t *testing.T) {
	data, err := Encode(covenant.NewState())
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := "{\n  \"startDate\": null,\n  \"data\": {}\n}\n"
	if string(data) != want {
		t.Errorf("got %q, want %q", data, want)
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantNil     bool
		wantStart   string
		wantDays    int
		wantCorrupt bool
	}{
		{name: "empty", input: "", wantNil: true},
		{name: "whitespace", input: " \n", wantNil: true},
		{name: "null start", input: `{"startDate": null, "data": {}}`, wantStart: ""},
		{name: "null start drops data", input: `{"startDate": null, "data": {"2024-01-01": {"confession": true}}}`, wantStart: ""},
		{name: "missing data", input: `{"startDate": "2024-01-01"}`, wantStart: "2024-01-01"},
		{name: "null data", input: `{"startDate": "2024-01-01", "data": null}`, wantStart: "2024-01-01"},
		{name: "full", input: `{"startDate": "2024-01-01", "data": {"2024-01-05": {"confession": true, "night_prayer": false}}}`, wantStart: "2024-01-01", wantDays: 1},
		{name: "unknown task kept", input: `{"startDate": "2024-01-01", "data": {"2024-01-05": {"fasting": true}}}`, wantStart: "2024-01-01", wantDays: 1},
		{name: "not json", input: `{"startDate":`, wantCorrupt: true},
		{name: "array", input: `[]`, wantCorrupt: true},
		{name: "bad start", input: `{"startDate": "01/01/2024", "data": {}}`, wantCorrupt: true},
		{name: "impossible start", input: `{"startDate": "2024-02-30", "data": {}}`, wantCorrupt: true},
		{name: "bad day key", input: `{"startDate": "2024-01-01", "data": {"monday": {}}}`, wantCorrupt: true},
		{name: "non-bool flag", input: `{"startDate": "2024-01-01", "data": {"2024-01-05": {"confession": "yes"}}}`, wantCorrupt: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, err := Decode([]byte(tt.input))
			if tt.wantCorrupt {
				if !errors.Is(err, ErrCorrupt) {
					t.Fatalf("expected corrupt error, got %v", err)
				}
				if !errors.Is(err, covenant.ErrCorruptState) {
					t.Fatalf("corrupt error must match covenant.ErrCorruptState")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantNil {
				if st != nil {
					t.Fatalf("expected nil state, got %+v", st)
				}
				return
			}
			if st == nil {
				t.Fatal("expected state")
			}
			if got := st.Start().String(); got != tt.wantStart {
				t.Errorf("start: got %q, want %q", got, tt.wantStart)
			}
			if st.Days == nil {
				t.Error("Days must never be nil")
			}
			if len(st.Days) != tt.wantDays {
				t.Errorf("days: got %d, want %d", len(st.Days), tt.wantDays)
			}
		})
	}
}

func TestDecodeReportsPath(t *testing.T) {
	_, err := Decode([]byte(`{"startDate": "2024-01-01", "data": {"2024-01-05": {"confession": "yes"}}}`))
	var ce *CorruptError
	if !errors.As(err, &ce) {
		t.Fatalf("expected CorruptError, got %v", err)
	}
	if !strings.Contains(ce.Path, "confession") {
		t.Errorf("path: got %q", ce.Path)
	}
}

func TestRoundTripKeepsUnknownTasks(t *testing.T) {
	in := `{"startDate": "2024-01-01", "data": {"2024-01-05": {"fasting": true, "confession": true}}}`
	st, err := Decode([]byte(in))
	if err != nil {
		t.Fatal(err)
	}
	out, err := Encode(st)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(out), `"fasting": true`) {
		t.Errorf("unknown task dropped:\n%s", out)
	}
}

func TestFileStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "covenant.json")
	s, err := NewFileStore(path)
	if err != nil {
		t.Fatal(err)
	}

	t.Run("missing file is empty slot", func(t *testing.T) {
		st, err := s.Load(ctx)
		if err != nil || st != nil {
			t.Fatalf("got %v, %v", st, err)
		}
		info, err := s.Info(ctx)
		if err != nil || info.SavedAt != nil {
			t.Fatalf("info before save: %+v, %v", info, err)
		}
	})

	t.Run("save and load", func(t *testing.T) {
		if err := s.Save(ctx, sampleState(t)); err != nil {
			t.Fatalf("Save: %v", err)
		}
		st, err := s.Load(ctx)
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if st.Start().String() != "2024-01-01" {
			t.Errorf("start: %s", st.Start())
		}
		if !st.Done(covenant.NewDate(2024, time.January, 5), covenant.TaskConfession) {
			t.Error("flag lost")
		}
		info, err := s.Info(ctx)
		if err != nil || info.SavedAt == nil || info.Backend != BackendFile || info.Location != path {
			t.Errorf("info: %+v, %v", info, err)
		}
	})

	t.Run("no temp files left behind", func(t *testing.T) {
		entries, err := os.ReadDir(filepath.Dir(path))
		if err != nil {
			t.Fatal(err)
		}
		if len(entries) != 1 {
			names := make([]string, 0, len(entries))
			for _, e := range entries {
				names = append(names, e.Name())
			}
			t.Errorf("unexpected files: %v", names)
		}
	})

	t.Run("corrupt file", func(t *testing.T) {
		if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
			t.Fatal(err)
		}
		_, err := s.Load(ctx)
		var ce *CorruptError
		if !errors.As(err, &ce) {
			t.Fatalf("expected CorruptError, got %v", err)
		}
		if ce.Location != path {
			t.Errorf("location: got %q", ce.Location)
		}
	})
}

func TestNewFileStoreEmptyPath(t *testing.T) {
	if _, err := NewFileStore(""); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestSQLiteStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "covenant.db")
	s, err := OpenSQLite(ctx, path, "")
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer s.Close()

	st, err := s.Load(ctx)
	if err != nil || st != nil {
		t.Fatalf("empty slot: %v, %v", st, err)
	}

	if err := s.Save(ctx, sampleState(t)); err != nil {
		t.Fatalf("Save: %v", err)
	}
	next := sampleState(t)
	next.Set(covenant.NewDate(2024, time.January, 7), covenant.TaskNightPrayer, true)
	if err := s.Save(ctx, next); err != nil {
		t.Fatalf("Save (upsert): %v", err)
	}

	st, err = s.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if st.RecordedDays() != 3 {
		t.Errorf("days: got %d, want 3", st.RecordedDays())
	}

	info, err := s.Info(ctx)
	if err != nil {
		t.Fatalf("Info: %v", err)
	}
	if info.Backend != BackendSQLite || info.SavedAt == nil {
		t.Errorf("info: %+v", info)
	}
	if !strings.HasSuffix(info.Location, "#"+DefaultKey) {
		t.Errorf("location: %q", info.Location)
	}

	// Migrate is idempotent.
	if err := Migrate(ctx, s.db); err != nil {
		t.Errorf("second migrate: %v", err)
	}
}

func TestSQLiteStoreKeysAreIndependent(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "covenant.db")
	a, err := OpenSQLite(ctx, path, "a")
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()
	if err := a.Save(ctx, sampleState(t)); err != nil {
		t.Fatal(err)
	}

	b, err := OpenSQLite(ctx, path, "b")
	if err != nil {
		t.Fatal(err)
	}
	defer b.Close()
	st, err := b.Load(ctx)
	if err != nil || st != nil {
		t.Errorf("slot b should be empty: %v, %v", st, err)
	}
}

func TestSQLiteStoreCorruptRow(t *testing.T) {
	ctx := context.Background()
	s, err := OpenSQLite(ctx, ":memory:", "k")
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	if _, err := s.db.ExecContext(ctx, `INSERT INTO slots (key, value, updated_at) VALUES ('k', 'garbage', '')`); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Load(ctx); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("expected corrupt error, got %v", err)
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	fs, err := Open(ctx, Options{Path: filepath.Join(dir, "s.json")})
	if err != nil {
		t.Fatalf("default backend: %v", err)
	}
	if _, ok := fs.(*FileStore); !ok {
		t.Errorf("default backend: got %T", fs)
	}

	sq, err := Open(ctx, Options{Backend: BackendSQLite, Path: filepath.Join(dir, "s.db")})
	if err != nil {
		t.Fatalf("sqlite backend: %v", err)
	}
	defer sq.Close()
	if _, ok := sq.(*SQLiteStore); !ok {
		t.Errorf("sqlite backend: got %T", sq)
	}

	if _, err := Open(ctx, Options{Backend: "redis"}); err == nil {
		t.Error("expected error for unknown backend")
	}
}

func TestMemoryStoreWithController(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore([]byte("{broken"))
	c := covenant.NewController(m, covenant.WithClock(covenant.FixedDay(covenant.NewDate(2024, time.January, 10), time.UTC)), covenant.WithLocation(time.UTC))
	if err := c.Load(ctx); err != nil {
		t.Fatalf("graceful load: %v", err)
	}
	if c.Recovered() == nil {
		t.Error("expected recovered error")
	}
	if _, err := c.SetStartDate(ctx, "2024-01-01"); err != nil {
		t.Fatal(err)
	}
	if m.Saves() != 1 || !strings.Contains(string(m.Bytes()), `"startDate": "2024-01-01"`) {
		t.Errorf("slot after set: %s", m.Bytes())
	}
}
