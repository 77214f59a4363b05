package covenant

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// Store persists State in a single slot.
type Store interface {
	// Load returns the stored state, or nil when the slot is empty.
	Load(ctx context.Context) (*State, error)
	Save(ctx context.Context, state *State) error
}

// Controller owns the tracker state. Every mutation is saved before it
// returns; a failed save rolls the in-memory state back.
type Controller struct {
	store     Store
	clock     Clock
	loc       *time.Location
	logger    *log.Logger
	strict    bool
	state     *State
	recovered error
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock sets the clock used to decide "today".
func WithClock(clock Clock) Option {
	return func(c *Controller) {
		c.clock = clock
	}
}

// WithLocation sets the time zone that defines calendar days.
func WithLocation(loc *time.Location) Option {
	return func(c *Controller) {
		if loc != nil {
			c.loc = loc
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *log.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithStrictLoad makes Load fail on malformed persisted state instead of
// starting fresh.
func WithStrictLoad(strict bool) Option {
	return func(c *Controller) {
		c.strict = strict
	}
}

// NewController returns a controller in the Unconfigured state. Call Load
// to read persisted state.
func NewController(store Store, opts ...Option) *Controller {
	c := &Controller{
		store:  store,
		clock:  SystemClock{},
		loc:    time.Local,
		logger: log.New(io.Discard),
		state:  NewState(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load reads the persisted slot. An empty slot leaves the controller
// Unconfigured. A malformed slot does the same and logs a warning, unless
// strict loading is enabled.
func (c *Controller) Load(ctx context.Context) error {
	st, err := c.store.Load(ctx)
	if err != nil {
		if errors.Is(err, ErrCorruptState) && !c.strict {
			c.logger.Warn("ignoring malformed saved state, starting fresh", "err", err)
			c.recovered = err
			c.state = NewState()
			return nil
		}
		return fmt.Errorf("load state: %w", err)
	}
	if st == nil {
		c.logger.Debug("no saved state")
		c.state = NewState()
		return nil
	}
	if st.Days == nil {
		st.Days = make(map[string]DayRecord)
	}
	c.state = st
	c.logger.Debug("loaded state", "start", st.Start(), "days", st.RecordedDays())
	return nil
}

// Recovered returns the decode error Load skipped over, if any.
func (c *Controller) Recovered() error {
	return c.recovered
}

// Today returns the current calendar day.
func (c *Controller) Today() Date {
	return Today(c.clock, c.loc)
}

// Location returns the time zone that defines calendar days.
func (c *Controller) Location() *time.Location {
	return c.loc
}

// State returns a copy of the current state.
func (c *Controller) State() *State {
	return c.state.Clone()
}

// Configured reports whether a period is active.
func (c *Controller) Configured() bool {
	return c.state.Configured()
}

// Log projects the current state into day cards.
func (c *Controller) Log() Log {
	return BuildLog(c.state, c.Today())
}

// Summary computes the current summary value.
func (c *Controller) Summary() Summary {
	return Summarize(c.state, c.Today())
}

// SetStartDate moves Unconfigured -> Active. Empty or unparsable input
// returns a *ValidationError and changes nothing.
func (c *Controller) SetStartDate(ctx context.Context, input string) (Date, error) {
	if strings.TrimSpace(input) == "" {
		return Date{}, &ValidationError{Field: "start date", Err: ErrEmptyDate}
	}
	d, err := ParseDateInput(input, c.Today())
	if err != nil {
		return Date{}, &ValidationError{Field: "start date", Input: input, Err: ErrEmptyDate}
	}
	if c.state.Configured() {
		return Date{}, ErrAlreadyConfigured
	}

	prev := c.state.Clone()
	c.state.SetStart(d)
	if err := c.commit(ctx, prev); err != nil {
		return Date{}, err
	}
	c.logger.Info("covenant started", "date", d)
	return d, nil
}

// Reset moves Active -> Unconfigured, discarding every day record.
func (c *Controller) Reset(ctx context.Context) error {
	prev := c.state.Clone()
	c.state.Reset()
	if err := c.commit(ctx, prev); err != nil {
		return err
	}
	c.logger.Info("covenant reset", "discarded_days", prev.RecordedDays())
	return nil
}

// Mark stores done for (d, task) and returns the recomputed summary.
func (c *Controller) Mark(ctx context.Context, d Date, task TaskID, done bool) (Summary, error) {
	if err := c.checkMutable(d, task); err != nil {
		return Summary{}, err
	}
	prev := c.state.Clone()
	c.state.Set(d, task, done)
	if err := c.commit(ctx, prev); err != nil {
		return Summary{}, err
	}
	c.logger.Debug("task marked", "date", d, "task", task, "done", done)
	return c.Summary(), nil
}

// Toggle flips (d, task) and returns the new value and recomputed summary.
func (c *Controller) Toggle(ctx context.Context, d Date, task TaskID) (bool, Summary, error) {
	next := !c.state.Done(d, task)
	s, err := c.Mark(ctx, d, task, next)
	if err != nil {
		return false, Summary{}, err
	}
	return next, s, nil
}

func (c *Controller) checkMutable(d Date, id TaskID) error {
	if !c.state.Configured() {
		return ErrNotConfigured
	}
	t, ok := LookupTask(id)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownTask, id)
	}
	from, to, ok := Window(c.state.Start(), c.Today())
	if !ok || d.Before(from) || d.After(to) {
		return fmt.Errorf("%w: %s", ErrOutOfRange, d)
	}
	if !t.EnabledOn(d) {
		return fmt.Errorf("%w: %s is for %s", ErrTaskDisabled, t.Label, t.Condition())
	}
	return nil
}

func (c *Controller) commit(ctx context.Context, prev *State) error {
	if err := c.store.Save(ctx, c.state); err != nil {
		c.state = prev
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}
