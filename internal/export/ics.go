package export

import (
	"fmt"
	"os"
	"time"

	ical "github.com/arran4/golang-ical"

	"cadence/internal/model"
)

// Occurrences expands a task's repeat rule into its next occurrences,
// starting from the task's scheduled date (or from, when the task has
// nothing on the calendar). The scheduled date itself is included. Rules
// without an intrinsic schedule contribute at most the scheduled date.
func Occurrences(task model.Task, from time.Time, count int) []time.Time {
	out := make([]time.Time, 0, count)
	cursor := from
	if task.ScheduledDate != nil {
		cursor = *task.ScheduledDate
		out = append(out, cursor)
	}
	for len(out) < count {
		next, ok := model.Seek(task.Repeat, cursor, true)
		if !ok || !next.After(cursor) {
			break
		}
		out = append(out, next)
		cursor = next
	}
	return out
}

// BuildCalendar renders the upcoming occurrences of every non-completed
// task into a VCALENDAR.
func BuildCalendar(tasks []model.Task, now time.Time, previewCount int) *ical.Calendar {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//cadence//task export//EN")

	for _, task := range tasks {
		if task.Lifecycle == model.LifecycleCompleted {
			continue
		}
		for i, occurrence := range Occurrences(task, now, previewCount) {
			event := cal.AddEvent(fmt.Sprintf("%s-%d@cadence", task.ID, i))
			event.SetSummary(task.Name)
			event.SetStartAt(occurrence)
			event.SetDtStampTime(now)
			event.SetDescription(fmt.Sprintf("repeat: %s", model.FormatRepeat(task.Repeat)))
		}
	}
	return cal
}

// WriteFile serializes the calendar for the given tasks to path.
func WriteFile(path string, tasks []model.Task, now time.Time, previewCount int) error {
	cal := BuildCalendar(tasks, now, previewCount)
	if err := os.WriteFile(path, []byte(cal.Serialize()), 0o644); err != nil {
		return fmt.Errorf("export: write %s: %w", path, err)
	}
	return nil
}
