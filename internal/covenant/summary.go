package covenant

import "fmt"

// SummaryKind classifies a Summary.
type SummaryKind int

const (
	SummaryNotApplicable SummaryKind = iota
	SummaryNever
	SummaryToday
	SummaryDaysAgo
)

// Summary is the "last confession" value.
type Summary struct {
	Kind SummaryKind
	// Last is the most recent day the summary task was done. Zero unless
	// Kind is SummaryToday or SummaryDaysAgo.
	Last    Date
	DaysAgo int
}

func (s Summary) String() string {
	switch s.Kind {
	case SummaryNever:
		return "Never"
	case SummaryToday:
		return "Today"
	case SummaryDaysAgo:
		if s.DaysAgo == 1 {
			return "1 day ago"
		}
		return fmt.Sprintf("%d days ago", s.DaysAgo)
	default:
		return "N/A"
	}
}

// Summarize scans backward from min(today, period end) to the start date
// and reports the first day SummaryTask was marked done.
func Summarize(state *State, today Date) Summary {
	if !state.Configured() {
		return Summary{Kind: SummaryNotApplicable}
	}
	from, to, ok := Window(state.Start(), today)
	if !ok {
		return Summary{Kind: SummaryNever}
	}
	for d := to; !d.Before(from); d = d.AddDays(-1) {
		if !state.Done(d, SummaryTask) {
			continue
		}
		ago := today.DaysSince(d)
		if ago == 0 {
			return Summary{Kind: SummaryToday, Last: d}
		}
		return Summary{Kind: SummaryDaysAgo, Last: d, DaysAgo: ago}
	}
	return Summary{Kind: SummaryNever}
}
