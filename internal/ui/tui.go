// Package ui renders covenant state for the terminal: plain and styled
// text for the CLI and an interactive bubbletea program.
package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nibzard/covenant-go/internal/covenant"
)

// RunTUI starts the interactive tracker. ctrl must already be loaded.
func RunTUI(ctx context.Context, ctrl *covenant.Controller) error {
	if !IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}
	model := newTUIModel(ctx, ctrl)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

type tuiMode int

const (
	modeSetup tuiMode = iota
	modeLog
	modeConfirmReset
)

type tuiModel struct {
	ctx  context.Context
	ctrl *covenant.Controller

	mode    tuiMode
	input   string
	message string
	failed  bool

	log     covenant.Log
	summary covenant.Summary
	card    int
	row     int
	offset  int

	width    int
	height   int
	showHelp bool
}

func newTUIModel(ctx context.Context, ctrl *covenant.Controller) *tuiModel {
	m := &tuiModel{ctx: ctx, ctrl: ctrl}
	m.refresh()
	if err := ctrl.Recovered(); err != nil {
		m.fail("stored data was unreadable, starting fresh")
	}
	return m
}

// refresh rebuilds the whole view from the controller.
func (m *tuiModel) refresh() {
	if !m.ctrl.Configured() {
		m.mode = modeSetup
		m.log = m.ctrl.Log()
		m.summary = m.ctrl.Summary()
		return
	}
	if m.mode == modeSetup {
		m.mode = modeLog
	}
	m.log = m.ctrl.Log()
	m.summary = m.ctrl.Summary()
	m.clampCursor()
}

func (m *tuiModel) clampCursor() {
	if m.log.Empty() {
		m.card, m.row, m.offset = 0, 0, 0
		return
	}
	if m.card >= len(m.log.Cards) {
		m.card = len(m.log.Cards) - 1
	}
	if m.card < 0 {
		m.card = 0
	}
	rows := len(m.log.Cards[m.card].Rows)
	if m.row >= rows {
		m.row = rows - 1
	}
	if m.row < 0 {
		m.row = 0
	}
}

func (m *tuiModel) info(msg string) {
	m.message = msg
	m.failed = false
}

func (m *tuiModel) fail(msg string) {
	m.message = msg
	m.failed = true
}

func (m *tuiModel) Init() tea.Cmd {
	return nil
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		switch m.mode {
		case modeSetup:
			return m.updateSetup(msg)
		case modeConfirmReset:
			return m.updateConfirm(msg)
		default:
			return m.updateLog(msg)
		}
	}
	return m, nil
}

func (m *tuiModel) updateSetup(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		return m, tea.Quit
	case tea.KeyEnter:
		m.submitDate()
		return m, nil
	case tea.KeyBackspace:
		if m.input != "" {
			m.input = m.input[:len(m.input)-1]
		}
		return m, nil
	case tea.KeyRunes:
	default:
		return m, nil
	}

	s := string(msg.Runes)
	if m.input == "" {
		switch s {
		case "q":
			return m, tea.Quit
		case "t":
			m.input = m.ctrl.Today().String()
			return m, nil
		case "y":
			m.input = m.ctrl.Today().AddDays(-1).String()
			return m, nil
		}
	}
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '-' {
			if len(m.input) < len(covenant.DateLayout) {
				m.input += string(r)
			}
		}
	}
	return m, nil
}

func (m *tuiModel) submitDate() {
	d, err := m.ctrl.SetStartDate(m.ctx, m.input)
	if err != nil {
		var ve *covenant.ValidationError
		if errors.As(err, &ve) {
			m.fail(ve.Err.Error())
			return
		}
		m.fail(err.Error())
		return
	}
	m.input = ""
	m.card, m.row, m.offset = 0, 0, 0
	m.refresh()
	m.info("Covenant started on " + d.Label())
}

func (m *tuiModel) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		if err := m.ctrl.Reset(m.ctx); err != nil {
			m.mode = modeLog
			m.fail(err.Error())
			return m, nil
		}
		m.mode = modeSetup
		m.refresh()
		m.info("Covenant reset. Choose a new start date.")
	case "n", "N", "esc", "q":
		m.mode = modeLog
		m.info("")
	}
	return m, nil
}

func (m *tuiModel) updateLog(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		if m.showHelp {
			m.showHelp = false
			return m, nil
		}
		return m, tea.Quit
	case "?", "h":
		m.showHelp = !m.showHelp
	case "up", "k":
		m.moveRow(-1)
	case "down", "j":
		m.moveRow(1)
	case "pgup", "left":
		m.moveCard(-1)
	case "pgdown", "right":
		m.moveCard(1)
	case "g", "home":
		m.card, m.row = 0, 0
	case "G", "end":
		if !m.log.Empty() {
			m.card, m.row = len(m.log.Cards)-1, 0
		}
	case " ", "x", "enter":
		m.toggle()
	case "e":
		m.mode = modeConfirmReset
		m.info("")
	case "r":
		m.refresh()
		m.info("Refreshed.")
	}
	return m, nil
}

func (m *tuiModel) moveRow(delta int) {
	if m.log.Empty() {
		return
	}
	m.row += delta
	for m.row < 0 {
		if m.card == 0 {
			m.row = 0
			return
		}
		m.card--
		m.row += len(m.log.Cards[m.card].Rows)
	}
	for m.row >= len(m.log.Cards[m.card].Rows) {
		if m.card == len(m.log.Cards)-1 {
			m.row = len(m.log.Cards[m.card].Rows) - 1
			return
		}
		m.row -= len(m.log.Cards[m.card].Rows)
		m.card++
	}
}

func (m *tuiModel) moveCard(delta int) {
	if m.log.Empty() {
		return
	}
	m.card += delta
	m.clampCursor()
}

// toggle flips the selected row, updating only that row and the summary.
func (m *tuiModel) toggle() {
	if m.log.Empty() {
		return
	}
	card := &m.log.Cards[m.card]
	row := &card.Rows[m.row]
	if row.Disabled {
		m.fail(fmt.Sprintf("%s is for %s", row.Task.Label, row.Task.Condition()))
		return
	}
	done, summary, err := m.ctrl.Toggle(m.ctx, card.Date, row.Task.ID)
	if err != nil {
		m.fail(err.Error())
		return
	}
	row.Checked = done
	m.summary = summary
	m.info("")
}

func (m *tuiModel) View() string {
	var b strings.Builder
	b.WriteString(Heading(IconCross, "Covenant Tracker"))
	b.WriteString("\n\n")

	if m.showHelp {
		writeHelp(&b)
		return b.String()
	}

	switch m.mode {
	case modeSetup:
		m.writeSetup(&b)
	case modeConfirmReset:
		b.WriteString(Warn.Render("Reset the covenant? All recorded days will be discarded. (y/n)"))
		b.WriteString("\n")
	default:
		m.writeLog(&b)
	}
	return b.String()
}

func (m *tuiModel) writeSetup(b *strings.Builder) {
	b.WriteString(Muted.Render(m.log.Placeholder))
	b.WriteString("\n\n")
	b.WriteString(LabelValue("Covenant Start Date", m.input+"_"))
	b.WriteString("\n")
	m.writeMessage(b)
	b.WriteString("\n")
	b.WriteString(Muted.Render("YYYY-MM-DD, t today, y yesterday, enter to start, esc to quit"))
	b.WriteString("\n")
}

func (m *tuiModel) writeMessage(b *strings.Builder) {
	if m.message == "" {
		return
	}
	if m.failed {
		b.WriteString(Bad.Render(IconWarn + " " + m.message))
	} else {
		b.WriteString(Good.Render(m.message))
	}
	b.WriteString("\n")
}

func (m *tuiModel) writeLog(b *strings.Builder) {
	b.WriteString(LabelValue("Covenant Start Date", m.ctrl.State().Start().Label()))
	b.WriteString("\n")
	b.WriteString(RenderSummary(m.summary, RenderOptions{}))
	b.WriteString("\n")
	m.writeMessage(b)
	b.WriteString("\n")

	header := strings.Count(b.String(), "\n")
	if m.log.Empty() {
		b.WriteString(Muted.Render(m.log.Placeholder))
		b.WriteString("\n")
	} else {
		b.WriteString(m.viewport(m.height - header - 2))
	}
	b.WriteString("\n")
	b.WriteString(Muted.Render("j/k move, space toggle, pgup/pgdn day, e edit start date, ? help, q quit"))
}

// viewport renders the cards and returns the slice of lines that keeps
// the selected card visible. height <= 0 means unlimited.
func (m *tuiModel) viewport(height int) string {
	var lines []string
	start, end := 0, 0
	for i, card := range m.log.Cards {
		if i > 0 {
			lines = append(lines, "")
		}
		cursor := -1
		if i == m.card {
			cursor = m.row
			start = len(lines)
		}
		lines = append(lines, strings.Split(renderCard(card, RenderOptions{}, cursor), "\n")...)
		if i == m.card {
			end = len(lines)
		}
	}
	if height <= 0 || len(lines) <= height {
		m.offset = 0
		return strings.Join(lines, "\n") + "\n"
	}
	if start < m.offset {
		m.offset = start
	}
	if end > m.offset+height {
		m.offset = end - height
	}
	if m.offset > len(lines)-height {
		m.offset = len(lines) - height
	}
	if m.offset < 0 {
		m.offset = 0
	}
	return strings.Join(lines[m.offset:m.offset+height], "\n") + "\n"
}

func writeHelp(b *strings.Builder) {
	b.WriteString("Keyboard Shortcuts\n\n")
	b.WriteString("  up/k, down/j      Move between tasks\n")
	b.WriteString("  space, x, enter   Toggle the selected task\n")
	b.WriteString("  pgup, pgdn        Previous/next day\n")
	b.WriteString("  g, G              First/last day\n")
	b.WriteString("  e                 Edit start date (resets all records)\n")
	b.WriteString("  r                 Refresh\n")
	b.WriteString("  ?, h              Toggle this help screen\n")
	b.WriteString("  q, ctrl+c         Quit\n\n")
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
