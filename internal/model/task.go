package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrInvalidLifecycle = errors.New("model: invalid task lifecycle")

type Lifecycle string

const (
	LifecyclePending   Lifecycle = "Pending"
	LifecycleStarted   Lifecycle = "Started"
	LifecycleCompleted Lifecycle = "Completed"
)

func (l Lifecycle) IsValid() bool {
	switch l {
	case LifecyclePending, LifecycleStarted, LifecycleCompleted:
		return true
	default:
		return false
	}
}

// Task is the scheduled unit of work. ScheduledDate is absent for tasks
// with nothing on the calendar; StartTime and EndTime presence is fully
// determined by Lifecycle.
type Task struct {
	ID            string
	Name          string
	ScheduledDate *time.Time
	Repeat        RepeatRule
	Lifecycle     Lifecycle
	StartTime     *time.Time
	EndTime       *time.Time
}

func (t Task) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return errors.New("model: task name is required")
	}
	if t.Repeat == nil {
		return errors.New("model: task repeat rule is required")
	}
	if !t.Lifecycle.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidLifecycle, t.Lifecycle)
	}
	switch t.Lifecycle {
	case LifecyclePending:
		if t.StartTime != nil || t.EndTime != nil {
			return errors.New("model: pending task must not carry start or end time")
		}
	case LifecycleStarted:
		if t.StartTime == nil || t.EndTime != nil {
			return errors.New("model: started task must carry a start time and no end time")
		}
	case LifecycleCompleted:
		if t.StartTime == nil || t.EndTime == nil {
			return errors.New("model: completed task must carry start and end times")
		}
	}
	return nil
}
