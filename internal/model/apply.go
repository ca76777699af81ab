package model

import "time"

type Action string

const (
	ActionDelete      Action = "delete"
	ActionStart       Action = "start"
	ActionCancel      Action = "cancel"
	ActionComplete    Action = "complete"
	ActionSeekBack    Action = "seek_back"
	ActionSeekForward Action = "seek_forward"
)

func (a Action) IsValid() bool {
	switch a {
	case ActionDelete, ActionStart, ActionCancel, ActionComplete, ActionSeekBack, ActionSeekForward:
		return true
	default:
		return false
	}
}

type EventKind string

const (
	EventCreate EventKind = "create"
	EventUpdate EventKind = "update"
	EventDelete EventKind = "delete"
)

// TaskEvent is one element of the ordered output of ApplyAction. Create
// events carry a task without an ID; the store assigns identity when it
// applies the event.
type TaskEvent struct {
	Kind EventKind
	Task Task
}

// ApplyAction is the pure transition function of the task state machine:
// it turns a user action on a task at instant now into the ordered event
// sequence the caller must apply to its own store. It performs no I/O and
// never mutates its arguments.
func ApplyAction(action Action, task Task, now time.Time) []TaskEvent {
	switch action {
	case ActionDelete:
		return []TaskEvent{{Kind: EventDelete, Task: task}}

	case ActionStart:
		// Unguarded on purpose: starting a completed task revives it and
		// discards its end time.
		started := now
		task.Lifecycle = LifecycleStarted
		task.StartTime = &started
		task.EndTime = nil
		return []TaskEvent{{Kind: EventUpdate, Task: task}}

	case ActionCancel:
		task.Lifecycle = LifecyclePending
		task.StartTime = nil
		task.EndTime = nil
		return []TaskEvent{{Kind: EventUpdate, Task: task}}

	case ActionComplete:
		return applyComplete(task, now)

	case ActionSeekBack, ActionSeekForward:
		return applySeek(task, action == ActionSeekForward)

	default:
		return nil
	}
}

// applyComplete closes the task out as a one-shot record and, when the
// original rule recurs, spawns a fresh successor rebased at now. The
// Update always precedes the Create.
func applyComplete(task Task, now time.Time) []TaskEvent {
	original := task.Repeat
	ended := now

	done := task
	done.Repeat = Once{}
	done.Lifecycle = LifecycleCompleted
	if done.StartTime == nil {
		done.StartTime = &ended
	}
	done.EndTime = &ended

	events := []TaskEvent{{Kind: EventUpdate, Task: done}}
	if _, terminal := original.(Once); terminal {
		return events
	}

	successor := Task{
		Name:      task.Name,
		Repeat:    Rebase(original, &ended),
		Lifecycle: LifecyclePending,
	}
	if next, ok := Seek(successor.Repeat, now, true); ok {
		successor.ScheduledDate = &next
	}
	return append(events, TaskEvent{Kind: EventCreate, Task: successor})
}

// applySeek shifts the task's scheduled date to the nearest occurrence on
// the requested side of it. The rule is rebased near the task's own
// scheduled date first, so the anchor never drifts away from what the
// user sees. Without a scheduled date there is no anchor and the task
// passes through unchanged.
func applySeek(task Task, forward bool) []TaskEvent {
	if task.ScheduledDate == nil {
		return []TaskEvent{{Kind: EventUpdate, Task: task}}
	}
	rebased := Rebase(task.Repeat, task.ScheduledDate)
	task.Repeat = rebased
	if candidate, ok := Seek(rebased, *task.ScheduledDate, forward); ok {
		task.ScheduledDate = &candidate
	}
	return []TaskEvent{{Kind: EventUpdate, Task: task}}
}
