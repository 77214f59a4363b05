package covenant

import "time"

// Clock supplies the current instant.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always returns the same instant.
type FixedClock time.Time

func (c FixedClock) Now() time.Time { return time.Time(c) }

// FixedDay returns a clock pinned to noon of d in loc.
func FixedDay(d Date, loc *time.Location) FixedClock {
	return FixedClock(d.Time(loc).Add(12 * time.Hour))
}

// Today returns the calendar day of clock's current instant in loc.
func Today(clock Clock, loc *time.Location) Date {
	if loc == nil {
		loc = time.Local
	}
	return DateOf(clock.Now().In(loc))
}
