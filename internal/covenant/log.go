package covenant

const (
	// PlaceholderUnconfigured is shown when no start date is set.
	PlaceholderUnconfigured = "Please set the Covenant Start Date to begin tracking."
	// PlaceholderNotStarted is shown when the tracked range is empty.
	PlaceholderNotStarted = "Tracking period has not yet started or has not been fully configured."
)

// TaskRow is one checkbox on a day card.
type TaskRow struct {
	Task Task
	// Checked is the displayed state. Disabled rows are never checked.
	Checked  bool
	Disabled bool
}

// DayCard is the view model for a single day.
type DayCard struct {
	Date    Date
	Key     string
	Label   string
	Weekday string
	IsToday bool
	Rows    []TaskRow
}

// Log is the projected daily log. Exactly one of Placeholder and Cards is set.
type Log struct {
	Placeholder string
	Cards       []DayCard
}

// Empty reports whether the log has no cards.
func (l Log) Empty() bool {
	return len(l.Cards) == 0
}

// BuildLog projects state into day cards, newest first, for the range
// [start, min(today, start+PeriodDays)].
func BuildLog(state *State, today Date) Log {
	if !state.Configured() {
		return Log{Placeholder: PlaceholderUnconfigured}
	}
	from, to, ok := Window(state.Start(), today)
	if !ok {
		return Log{Placeholder: PlaceholderNotStarted}
	}

	cards := make([]DayCard, 0, to.DaysSince(from)+1)
	for d := to; !d.Before(from); d = d.AddDays(-1) {
		cards = append(cards, buildCard(state, d, today))
	}
	return Log{Cards: cards}
}

func buildCard(state *State, d, today Date) DayCard {
	card := DayCard{
		Date:    d,
		Key:     d.String(),
		Label:   d.Label(),
		Weekday: d.Weekday().String(),
		IsToday: d.Equal(today),
		Rows:    make([]TaskRow, 0, len(tasks)),
	}
	for _, t := range tasks {
		row := TaskRow{Task: t, Disabled: !t.EnabledOn(d)}
		if !row.Disabled {
			row.Checked = state.Done(d, t.ID)
		}
		card.Rows = append(card.Rows, row)
	}
	return card
}
