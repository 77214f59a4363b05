package covenant

// PeriodDays is the length of a covenant period. The last tracked day is
// start + PeriodDays.
const PeriodDays = 90

// DayRecord maps a task to its completion flag for one day.
type DayRecord map[TaskID]bool

// State is the whole persisted tracker state.
type State struct {
	StartDate *Date                `json:"startDate"`
	Days      map[string]DayRecord `json:"data"`
}

// NewState returns an unconfigured state.
func NewState() *State {
	return &State{Days: make(map[string]DayRecord)}
}

// Configured reports whether a covenant period is active.
func (s *State) Configured() bool {
	return s != nil && s.StartDate != nil && !s.StartDate.IsZero()
}

// Start returns the start date. It is the zero Date when unconfigured.
func (s *State) Start() Date {
	if !s.Configured() {
		return Date{}
	}
	return *s.StartDate
}

// Done returns the stored flag for (d, task). Missing entries are false.
func (s *State) Done(d Date, task TaskID) bool {
	if s == nil || s.Days == nil {
		return false
	}
	return s.Days[d.String()][task]
}

// Set stores the flag for (d, task), creating the day record if needed.
func (s *State) Set(d Date, task TaskID, done bool) {
	if s.Days == nil {
		s.Days = make(map[string]DayRecord)
	}
	key := d.String()
	rec := s.Days[key]
	if rec == nil {
		rec = make(DayRecord)
		s.Days[key] = rec
	}
	rec[task] = done
}

// Toggle flips the flag for (d, task) and returns the new value.
func (s *State) Toggle(d Date, task TaskID) bool {
	next := !s.Done(d, task)
	s.Set(d, task, next)
	return next
}

// SetStart begins a period on d.
func (s *State) SetStart(d Date) {
	start := d
	s.StartDate = &start
	if s.Days == nil {
		s.Days = make(map[string]DayRecord)
	}
}

// Reset clears the start date and discards every day record.
func (s *State) Reset() {
	s.StartDate = nil
	s.Days = make(map[string]DayRecord)
}

// Clone returns a deep copy of s.
func (s *State) Clone() *State {
	if s == nil {
		return nil
	}
	out := &State{Days: make(map[string]DayRecord, len(s.Days))}
	if s.StartDate != nil {
		start := *s.StartDate
		out.StartDate = &start
	}
	for key, rec := range s.Days {
		cp := make(DayRecord, len(rec))
		for id, done := range rec {
			cp[id] = done
		}
		out.Days[key] = cp
	}
	return out
}

// RecordedDays returns how many days have at least one stored flag.
func (s *State) RecordedDays() int {
	if s == nil {
		return 0
	}
	return len(s.Days)
}

// Window returns the tracked range for a period starting at start, as seen
// on today: from start to min(today, start+PeriodDays). ok is false when the
// range is empty (today is before start).
func Window(start, today Date) (from, to Date, ok bool) {
	to = start.AddDays(PeriodDays)
	if today.Before(to) {
		to = today
	}
	return start, to, !to.Before(start)
}

// PeriodEnd returns the last day of the period starting at start.
func PeriodEnd(start Date) Date {
	return start.AddDays(PeriodDays)
}
