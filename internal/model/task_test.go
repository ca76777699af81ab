package model

import (
	"errors"
	"testing"
	"time"
)

func TestTaskValidateSuccess(t *testing.T) {
	begun := time.Date(2023, 6, 1, 9, 0, 0, 0, time.Local)
	ended := begun.Add(time.Hour)
	tasks := []Task{
		{ID: "1", Name: "pending", Repeat: Once{}, Lifecycle: LifecyclePending},
		{ID: "2", Name: "started", Repeat: Manual{}, Lifecycle: LifecycleStarted, StartTime: &begun},
		{ID: "3", Name: "done", Repeat: Once{}, Lifecycle: LifecycleCompleted, StartTime: &begun, EndTime: &ended},
	}
	for _, task := range tasks {
		if err := task.Validate(); err != nil {
			t.Fatalf("task %q should validate: %v", task.Name, err)
		}
	}
}

func TestTaskValidateLifecycleInvariant(t *testing.T) {
	begun := time.Date(2023, 6, 1, 9, 0, 0, 0, time.Local)
	bad := []Task{
		{ID: "1", Name: "pending with start", Repeat: Once{}, Lifecycle: LifecyclePending, StartTime: &begun},
		{ID: "2", Name: "started without start", Repeat: Once{}, Lifecycle: LifecycleStarted},
		{ID: "3", Name: "started with end", Repeat: Once{}, Lifecycle: LifecycleStarted, StartTime: &begun, EndTime: &begun},
		{ID: "4", Name: "completed without end", Repeat: Once{}, Lifecycle: LifecycleCompleted, StartTime: &begun},
	}
	for _, task := range bad {
		if err := task.Validate(); err == nil {
			t.Fatalf("task %q should be invalid", task.Name)
		}
	}
}

func TestTaskValidateRejectsUnknownLifecycle(t *testing.T) {
	task := Task{ID: "1", Name: "x", Repeat: Once{}, Lifecycle: Lifecycle("Paused")}
	if err := task.Validate(); !errors.Is(err, ErrInvalidLifecycle) {
		t.Fatalf("expected ErrInvalidLifecycle, got %v", err)
	}
}

func TestTaskValidateRequiresNameAndRule(t *testing.T) {
	if err := (Task{ID: "1", Repeat: Once{}, Lifecycle: LifecyclePending}).Validate(); err == nil {
		t.Fatal("nameless task should be invalid")
	}
	if err := (Task{ID: "1", Name: "x", Lifecycle: LifecyclePending}).Validate(); err == nil {
		t.Fatal("ruleless task should be invalid")
	}
}
