package covenant

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

// memStore is an in-memory Store that counts saves.
type memStore struct {
	state   *State
	loadErr error
	saveErr error
	saves   int
}

func (m *memStore) Load(ctx context.Context) (*State, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.state.Clone(), nil
}

func (m *memStore) Save(ctx context.Context, state *State) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.state = state.Clone()
	return nil
}

func newTestController(t *testing.T, store *memStore, today string, opts ...Option) *Controller {
	t.Helper()
	all := append([]Option{WithClock(FixedDay(mustDate(t, today), time.UTC)), WithLocation(time.UTC)}, opts...)
	c := NewController(store, all...)
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return c
}

func TestControllerLoadEmptySlot(t *testing.T) {
	c := newTestController(t, &memStore{}, "2024-01-10")
	if c.Configured() {
		t.Error("expected unconfigured")
	}
	if got := c.Summary().String(); got != "N/A" {
		t.Errorf("summary: got %q", got)
	}
	if c.Log().Placeholder != PlaceholderUnconfigured {
		t.Errorf("placeholder: %q", c.Log().Placeholder)
	}
}

func TestControllerLoadCorrupt(t *testing.T) {
	corrupt := fmt.Errorf("decode: %w", ErrCorruptState)

	t.Run("graceful by default", func(t *testing.T) {
		var buf bytes.Buffer
		logger := log.New(&buf)
		store := &memStore{loadErr: corrupt}
		c := NewController(store, WithLogger(logger), WithClock(FixedDay(NewDate(2024, 1, 10), time.UTC)))
		if err := c.Load(context.Background()); err != nil {
			t.Fatalf("expected graceful load, got %v", err)
		}
		if c.Configured() {
			t.Error("expected unconfigured")
		}
		if c.Recovered() == nil {
			t.Error("expected Recovered to report the decode error")
		}
		if !strings.Contains(buf.String(), "malformed") {
			t.Errorf("expected warning in log, got %q", buf.String())
		}
	})

	t.Run("strict fails", func(t *testing.T) {
		c := NewController(&memStore{loadErr: corrupt}, WithStrictLoad(true))
		err := c.Load(context.Background())
		if !errors.Is(err, ErrCorruptState) {
			t.Fatalf("expected ErrCorruptState, got %v", err)
		}
	})

	t.Run("other errors propagate", func(t *testing.T) {
		c := NewController(&memStore{loadErr: errors.New("disk on fire")})
		if err := c.Load(context.Background()); err == nil {
			t.Fatal("expected error")
		}
	})
}

func TestControllerScenario(t *testing.T) {
	ctx := context.Background()
	store := &memStore{}
	c := newTestController(t, store, "2024-01-10")

	start, err := c.SetStartDate(ctx, "2024-01-01")
	if err != nil {
		t.Fatalf("SetStartDate: %v", err)
	}
	if start.String() != "2024-01-01" {
		t.Errorf("start: got %s", start)
	}
	if store.saves != 1 || !store.state.Configured() {
		t.Fatalf("expected persisted start date, saves=%d", store.saves)
	}
	if n := len(c.Log().Cards); n != 10 {
		t.Errorf("cards: got %d, want 10", n)
	}
	if got := c.Summary().String(); got != "Never" {
		t.Errorf("summary: got %q, want Never", got)
	}

	s, err := c.Mark(ctx, mustDate(t, "2024-01-05"), TaskConfession, true)
	if err != nil {
		t.Fatalf("Mark: %v", err)
	}
	if s.String() != "5 days ago" {
		t.Errorf("summary after mark: got %q, want 5 days ago", s)
	}
	if store.saves != 2 || !store.state.Done(mustDate(t, "2024-01-05"), TaskConfession) {
		t.Error("mark was not persisted")
	}

	if err := c.Reset(ctx); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if c.Configured() || len(c.State().Days) != 0 {
		t.Error("reset left state behind")
	}
	if store.state.Configured() || len(store.state.Days) != 0 {
		t.Error("reset was not persisted")
	}
	if !c.Log().Empty() {
		t.Error("expected placeholder after reset")
	}
	if got := c.Summary().String(); got != "N/A" {
		t.Errorf("summary after reset: got %q", got)
	}
}

func TestControllerSetStartDateValidation(t *testing.T) {
	ctx := context.Background()
	for _, input := range []string{"", "   ", "not-a-date", "2024-13-01"} {
		t.Run(fmt.Sprintf("%q", input), func(t *testing.T) {
			store := &memStore{}
			c := newTestController(t, store, "2024-01-10")
			_, err := c.SetStartDate(ctx, input)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if !errors.Is(err, ErrEmptyDate) {
				t.Errorf("expected ErrEmptyDate, got %v", err)
			}
			if c.Configured() || store.saves != 0 {
				t.Error("state changed on invalid input")
			}
		})
	}
}

func TestControllerSetStartDateToday(t *testing.T) {
	c := newTestController(t, &memStore{}, "2024-01-10")
	d, err := c.SetStartDate(context.Background(), "today")
	if err != nil {
		t.Fatalf("SetStartDate: %v", err)
	}
	if d.String() != "2024-01-10" {
		t.Errorf("got %s", d)
	}
	if n := len(c.Log().Cards); n != 1 {
		t.Errorf("cards: got %d, want 1", n)
	}
}

func TestControllerSetStartDateWhileActive(t *testing.T) {
	ctx := context.Background()
	c := newTestController(t, &memStore{}, "2024-01-10")
	if _, err := c.SetStartDate(ctx, "2024-01-01"); err != nil {
		t.Fatal(err)
	}
	if _, err := c.SetStartDate(ctx, "2024-01-05"); !errors.Is(err, ErrAlreadyConfigured) {
		t.Fatalf("expected ErrAlreadyConfigured, got %v", err)
	}
	if c.State().Start().String() != "2024-01-01" {
		t.Error("start date changed")
	}
}

func TestControllerMarkErrors(t *testing.T) {
	ctx := context.Background()
	store := &memStore{}
	c := newTestController(t, store, "2024-01-10")

	if _, err := c.Mark(ctx, mustDate(t, "2024-01-05"), TaskHolyMass, true); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
	if _, err := c.SetStartDate(ctx, "2024-01-01"); err != nil {
		t.Fatal(err)
	}
	saves := store.saves

	tests := []struct {
		name string
		date string
		task TaskID
		want error
	}{
		{name: "unknown task", date: "2024-01-05", task: "fasting", want: ErrUnknownTask},
		{name: "before start", date: "2023-12-31", task: TaskHolyMass, want: ErrOutOfRange},
		{name: "future", date: "2024-01-11", task: TaskHolyMass, want: ErrOutOfRange},
		{name: "disabled weekday", date: "2024-01-10", task: TaskUdampadiDhyanam, want: ErrTaskDisabled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Mark(ctx, mustDate(t, tt.date), tt.task, true)
			if !errors.Is(err, tt.want) {
				t.Fatalf("got %v, want %v", err, tt.want)
			}
		})
	}
	if store.saves != saves {
		t.Errorf("rejected marks were saved: %d saves", store.saves-saves)
	}

	if _, err := c.Mark(ctx, mustDate(t, "2024-01-09"), TaskUdampadiDhyanam, true); err != nil {
		t.Errorf("tuesday mark: %v", err)
	}
}

func TestControllerToggleTwice(t *testing.T) {
	ctx := context.Background()
	store := &memStore{}
	c := newTestController(t, store, "2024-01-10")
	if _, err := c.SetStartDate(ctx, "2024-01-01"); err != nil {
		t.Fatal(err)
	}
	d := mustDate(t, "2024-01-10")

	v, s, err := c.Toggle(ctx, d, TaskConfession)
	if err != nil || !v {
		t.Fatalf("first toggle: %v, %v", v, err)
	}
	if s.Kind != SummaryToday {
		t.Errorf("summary: got %q, want Today", s)
	}
	v, s, err = c.Toggle(ctx, d, TaskConfession)
	if err != nil || v {
		t.Fatalf("second toggle: %v, %v", v, err)
	}
	if s.Kind != SummaryNever {
		t.Errorf("summary: got %q, want Never", s)
	}
	if store.state.Done(d, TaskConfession) {
		t.Error("persisted flag should be false")
	}
	if store.saves != 3 {
		t.Errorf("saves: got %d, want 3", store.saves)
	}
}

func TestControllerRollsBackOnSaveFailure(t *testing.T) {
	ctx := context.Background()
	store := &memStore{}
	c := newTestController(t, store, "2024-01-10")
	if _, err := c.SetStartDate(ctx, "2024-01-01"); err != nil {
		t.Fatal(err)
	}

	store.saveErr = errors.New("read-only filesystem")
	d := mustDate(t, "2024-01-05")
	if _, _, err := c.Toggle(ctx, d, TaskConfession); err == nil {
		t.Fatal("expected save error")
	}
	if c.State().Done(d, TaskConfession) {
		t.Error("in-memory state kept a mutation that was not saved")
	}
	if err := c.Reset(ctx); err == nil {
		t.Fatal("expected save error on reset")
	}
	if !c.Configured() {
		t.Error("reset applied in memory despite save failure")
	}
}

func TestControllerLoadsPersistedState(t *testing.T) {
	s := activeState(t, "2024-01-01")
	s.Set(mustDate(t, "2024-01-08"), TaskConfession, true)
	c := newTestController(t, &memStore{state: s}, "2024-01-10")

	if !c.Configured() {
		t.Fatal("expected configured")
	}
	if got := c.Summary().String(); got != "2 days ago" {
		t.Errorf("summary: got %q", got)
	}
}
