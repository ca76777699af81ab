package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"cadence/internal/model"
)

var ErrNotFound = errors.New("storage: not found")

type TaskListFilter struct {
	Lifecycle model.Lifecycle
	Limit     int
	Offset    int
}

type Repository interface {
	CreateTask(ctx context.Context, in model.Task) error
	GetTask(ctx context.Context, id string) (model.Task, error)
	UpdateTask(ctx context.Context, in model.Task) error
	DeleteTask(ctx context.Context, id string) error
	ListTasks(ctx context.Context, filter TaskListFilter) ([]model.Task, error)
}

// ApplyEvents maps an ordered event sequence from the state machine onto
// repository mutations. Create events arrive without identity; the store
// assigns a fresh UUID here. Events apply strictly in order and the first
// failure stops the walk.
func ApplyEvents(ctx context.Context, repo Repository, events []model.TaskEvent) error {
	for _, event := range events {
		switch event.Kind {
		case model.EventCreate:
			task := event.Task
			if task.ID == "" {
				task.ID = uuid.NewString()
			}
			if err := repo.CreateTask(ctx, task); err != nil {
				return fmt.Errorf("apply create: %w", err)
			}
		case model.EventUpdate:
			if err := repo.UpdateTask(ctx, event.Task); err != nil {
				return fmt.Errorf("apply update %s: %w", event.Task.ID, err)
			}
		case model.EventDelete:
			if err := repo.DeleteTask(ctx, event.Task.ID); err != nil {
				return fmt.Errorf("apply delete %s: %w", event.Task.ID, err)
			}
		default:
			return fmt.Errorf("storage: unknown event kind %q", event.Kind)
		}
	}
	return nil
}
