package covenant

import (
	"fmt"
	"strings"
	"time"
)

// TaskID identifies a checklist task. The set of IDs is closed.
type TaskID string

const (
	TaskMorningPrayer    TaskID = "morning_prayer"
	TaskHolyMass         TaskID = "holy_mass"
	TaskUdampadiDhyanam  TaskID = "udampadi_dhyanam"
	TaskBibleReading     TaskID = "bible_reading"
	TaskKarunyaPravrithi TaskID = "karunya_pravrithi"
	TaskConfession       TaskID = "confession"
	TaskNightPrayer      TaskID = "night_prayer"
)

// SummaryTask is the task whose most recent completion drives the summary.
const SummaryTask = TaskConfession

// Task is a static checklist entry.
type Task struct {
	ID    TaskID
	Label string
	// OnlyOn restricts the task to the listed weekdays. Empty means every day.
	OnlyOn []time.Weekday
}

// Conditional reports whether the task is restricted to certain weekdays.
func (t Task) Conditional() bool {
	return len(t.OnlyOn) > 0
}

// EnabledOn reports whether the task can be checked on d.
func (t Task) EnabledOn(d Date) bool {
	if !t.Conditional() {
		return true
	}
	wd := d.Weekday()
	for _, allowed := range t.OnlyOn {
		if allowed == wd {
			return true
		}
	}
	return false
}

// Condition describes the weekday restriction, e.g. "Tuesdays only".
// It returns "" for unrestricted tasks.
func (t Task) Condition() string {
	if !t.Conditional() {
		return ""
	}
	names := make([]string, 0, len(t.OnlyOn))
	for _, wd := range t.OnlyOn {
		names = append(names, wd.String()+"s")
	}
	return strings.Join(names, ", ") + " only"
}

var tasks = []Task{
	{ID: TaskMorningPrayer, Label: "Morning Prayer"},
	{ID: TaskHolyMass, Label: "Holy Mass"},
	{ID: TaskUdampadiDhyanam, Label: "ഉടംമ്പടി ധ്യാനം", OnlyOn: []time.Weekday{time.Tuesday}},
	{ID: TaskBibleReading, Label: "Bible Reading"},
	{ID: TaskKarunyaPravrithi, Label: "കാരുണ്യ പ്രവർത്തി"},
	{ID: TaskConfession, Label: "Confession"},
	{ID: TaskNightPrayer, Label: "Night Prayer"},
}

// Tasks returns the checklist in display order.
func Tasks() []Task {
	out := make([]Task, len(tasks))
	copy(out, tasks)
	return out
}

// LookupTask returns the task with the given ID.
func LookupTask(id TaskID) (Task, bool) {
	for _, t := range tasks {
		if t.ID == id {
			return t, true
		}
	}
	return Task{}, false
}

// ParseTaskID resolves user input to a known task ID. Matching is
// case-insensitive and treats '-' as '_'.
func ParseTaskID(s string) (TaskID, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.ReplaceAll(norm, "-", "_")
	if _, ok := LookupTask(TaskID(norm)); !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownTask, s)
	}
	return TaskID(norm), nil
}
