package ui

import (
	"strings"

	"github.com/nibzard/covenant-go/internal/covenant"
)

// RenderOptions controls CLI rendering.
type RenderOptions struct {
	// Plain drops borders and colors.
	Plain bool
}

const (
	boxChecked  = "[x]"
	boxEmpty    = "[ ]"
	boxDisabled = "[-]"
)

// RenderCard renders one day card.
func RenderCard(card covenant.DayCard, opts RenderOptions) string {
	return renderCard(card, opts, -1)
}

// renderCard highlights row cursor; -1 means no cursor.
func renderCard(card covenant.DayCard, opts RenderOptions, cursor int) string {
	var b strings.Builder
	b.WriteString(cardTitle(card, opts))
	for i, row := range card.Rows {
		b.WriteString("\n")
		b.WriteString(renderRow(row, opts, i == cursor))
	}
	if opts.Plain {
		return b.String()
	}
	if card.IsToday {
		return TodayPanel.Render(b.String())
	}
	return Panel.Render(b.String())
}

func cardTitle(card covenant.DayCard, opts RenderOptions) string {
	title := card.Label + " · " + card.Weekday
	if card.IsToday {
		title += " (today)"
	}
	if opts.Plain {
		return title
	}
	return PanelTitle.Render(title)
}

func renderRow(row covenant.TaskRow, opts RenderOptions, selected bool) string {
	box := boxEmpty
	switch {
	case row.Disabled:
		box = boxDisabled
	case row.Checked:
		box = boxChecked
	}
	line := box + " " + row.Task.Label
	if row.Disabled {
		line += " (" + row.Task.Condition() + ")"
	}
	prefix := "  "
	if selected {
		prefix = "> "
	}
	if opts.Plain {
		return prefix + line
	}
	switch {
	case selected:
		return prefix + SelectedRow.Render(line)
	case row.Disabled:
		return prefix + Dim.Render(line)
	case row.Checked:
		return prefix + Good.Render(box) + " " + row.Task.Label
	default:
		return prefix + line
	}
}

// RenderLog renders the placeholder or every card, newest first.
func RenderLog(l covenant.Log, opts RenderOptions) string {
	if l.Empty() {
		if opts.Plain {
			return l.Placeholder
		}
		return Muted.Render(l.Placeholder)
	}
	parts := make([]string, 0, len(l.Cards))
	for _, card := range l.Cards {
		parts = append(parts, RenderCard(card, opts))
	}
	return strings.Join(parts, "\n\n")
}

// RenderSummary renders the "last confession" line.
func RenderSummary(s covenant.Summary, opts RenderOptions) string {
	if opts.Plain {
		return "Last Confession: " + s.String()
	}
	return LabelValue("Last Confession", SummaryText(s))
}

// RenderHeader renders the start date display and the summary.
func RenderHeader(state *covenant.State, s covenant.Summary, opts RenderOptions) string {
	start := "not set"
	if state.Configured() {
		start = state.Start().Label()
	}
	if opts.Plain {
		return "Covenant Start Date: " + start + "\n" + RenderSummary(s, opts)
	}
	return Heading(IconCross, "Covenant Tracker") + "\n" +
		LabelValue("Covenant Start Date", start) + "\n" +
		RenderSummary(s, opts)
}
