package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/nibzard/covenant-go/internal/covenant"
)

func activeState(start covenant.Date) *covenant.State {
	st := covenant.NewState()
	st.SetStart(start)
	return st
}

func TestRenderCardPlain(t *testing.T) {
	start := covenant.NewDate(2024, time.January, 1)
	st := activeState(start)
	tuesday := covenant.NewDate(2024, time.January, 9)
	wednesday := covenant.NewDate(2024, time.January, 10)
	st.Set(wednesday, covenant.TaskConfession, true)
	st.Set(wednesday, covenant.TaskUdampadiDhyanam, true)

	l := covenant.BuildLog(st, wednesday)
	if len(l.Cards) != 10 {
		t.Fatalf("cards: got %d, want 10", len(l.Cards))
	}

	wed := RenderCard(l.Cards[0], RenderOptions{Plain: true})
	tests := []struct {
		name string
		want string
	}{
		{"title", "Jan 10, 2024 · Wednesday (today)"},
		{"checked", "[x] Confession"},
		{"unchecked", "[ ] Morning Prayer"},
		{"disabled", "[-] ഉടംമ്പടി ധ്യാനം (Tuesdays only)"},
	}
	for _, tt := range tests {
		if !strings.Contains(wed, tt.want) {
			t.Errorf("%s: %q not in\n%s", tt.name, tt.want, wed)
		}
	}

	var tueCard covenant.DayCard
	for _, c := range l.Cards {
		if c.Date.Equal(tuesday) {
			tueCard = c
		}
	}
	tue := RenderCard(tueCard, RenderOptions{Plain: true})
	if !strings.Contains(tue, "[ ] ഉടംമ്പടി ധ്യാനം") || strings.Contains(tue, "only") {
		t.Errorf("tuesday card should enable the conditional task:\n%s", tue)
	}
	if strings.Contains(tue, "(today)") {
		t.Errorf("tuesday is not today:\n%s", tue)
	}
}

func TestRenderCardStyled(t *testing.T) {
	today := covenant.NewDate(2024, time.January, 10)
	l := covenant.BuildLog(activeState(covenant.NewDate(2024, time.January, 9)), today)
	out := RenderCard(l.Cards[0], RenderOptions{})
	if !strings.Contains(out, "╭") {
		t.Errorf("styled card should have a border:\n%s", out)
	}
	if !strings.Contains(out, "Jan 10, 2024") {
		t.Errorf("missing label:\n%s", out)
	}
}

func TestRenderLogPlaceholder(t *testing.T) {
	today := covenant.NewDate(2024, time.January, 10)
	tests := []struct {
		name  string
		state *covenant.State
		want  string
	}{
		{"unconfigured", covenant.NewState(), covenant.PlaceholderUnconfigured},
		{"future start", activeState(covenant.NewDate(2024, time.February, 1)), covenant.PlaceholderNotStarted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RenderLog(covenant.BuildLog(tt.state, today), RenderOptions{Plain: true})
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderLogOrder(t *testing.T) {
	today := covenant.NewDate(2024, time.January, 3)
	out := RenderLog(covenant.BuildLog(activeState(covenant.NewDate(2024, time.January, 1)), today), RenderOptions{Plain: true})
	first := strings.Index(out, "Jan 3, 2024")
	last := strings.Index(out, "Jan 1, 2024")
	if first < 0 || last < 0 || first > last {
		t.Errorf("cards should be newest first:\n%s", out)
	}
}

func TestRenderHeader(t *testing.T) {
	today := covenant.NewDate(2024, time.January, 10)

	got := RenderHeader(covenant.NewState(), covenant.Summarize(covenant.NewState(), today), RenderOptions{Plain: true})
	if want := "Covenant Start Date: not set\nLast Confession: N/A"; got != want {
		t.Errorf("unconfigured: got %q, want %q", got, want)
	}

	st := activeState(covenant.NewDate(2024, time.January, 1))
	st.Set(covenant.NewDate(2024, time.January, 5), covenant.TaskConfession, true)
	got = RenderHeader(st, covenant.Summarize(st, today), RenderOptions{Plain: true})
	if want := "Covenant Start Date: Jan 1, 2024\nLast Confession: 5 days ago"; got != want {
		t.Errorf("active: got %q, want %q", got, want)
	}
}
