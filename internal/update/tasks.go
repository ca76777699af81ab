package update

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"cadence/internal/export"
	domainmodel "cadence/internal/model"
	"cadence/internal/scheduler"
	"cadence/internal/storage"
	"cadence/internal/views"
)

func (m Model) loadTasksCmd() tea.Cmd {
	repo := m.Repo
	filter := m.Filter
	return func() tea.Msg {
		tasks, err := repo.ListTasks(context.Background(), storage.TaskListFilter{Lifecycle: filter})
		if err != nil {
			return AppErrorMsg{Err: err}
		}
		return TasksLoadedMsg{Tasks: tasks}
	}
}

// applyActionCmd runs the pure state machine against the task and applies
// the resulting events to the store.
func (m Model) applyActionCmd(action domainmodel.Action, task domainmodel.Task) tea.Cmd {
	repo := m.Repo
	logger := m.Logger
	now := m.Now()
	return func() tea.Msg {
		events := domainmodel.ApplyAction(action, task, now)
		if err := storage.ApplyEvents(context.Background(), repo, events); err != nil {
			return AppErrorMsg{Err: err}
		}
		logger.Info("action applied",
			zap.String("action", string(action)),
			zap.String("task_id", task.ID),
			zap.Int("events", len(events)))
		return ActionAppliedMsg{Action: action, Name: task.Name}
	}
}

func (m Model) createTaskCmd(name string) tea.Cmd {
	repo := m.Repo
	return func() tea.Msg {
		task := domainmodel.Task{
			ID:        uuid.NewString(),
			Name:      name,
			Repeat:    domainmodel.Once{},
			Lifecycle: domainmodel.LifecyclePending,
		}
		if err := repo.CreateTask(context.Background(), task); err != nil {
			return AppErrorMsg{Err: err}
		}
		return TaskCreatedMsg{Name: name}
	}
}

func (m Model) updateTaskCmd(task domainmodel.Task, field EditorField) tea.Cmd {
	repo := m.Repo
	return func() tea.Msg {
		if err := repo.UpdateTask(context.Background(), task); err != nil {
			return AppErrorMsg{Err: err}
		}
		return FieldEditedMsg{Field: field, Name: task.Name}
	}
}

func (m Model) exportCmd(path string) tea.Cmd {
	repo := m.Repo
	now := m.Now()
	count := m.Cfg.PreviewCount
	return func() tea.Msg {
		tasks, err := repo.ListTasks(context.Background(), storage.TaskListFilter{})
		if err != nil {
			return AppErrorMsg{Err: err}
		}
		if err := export.WriteFile(path, tasks, now, count); err != nil {
			return AppErrorMsg{Err: err}
		}
		return ExportDoneMsg{Path: path, Count: len(tasks)}
	}
}

func waitForDueCmd(ch <-chan scheduler.DueEvent) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return DueMsg{Event: ev}
	}
}

func (m Model) listPane() string {
	items := make([]views.TaskItemData, 0, len(m.Tasks))
	now := m.Now()
	selected := ""
	if task := m.selectedTask(); task != nil {
		selected = task.ID
	}
	for _, task := range m.Tasks {
		item := views.TaskItemData{
			ID:        task.ID,
			Name:      task.Name,
			Lifecycle: string(task.Lifecycle),
			Repeat:    domainmodel.FormatRepeat(task.Repeat),
		}
		if task.ScheduledDate != nil {
			item.Scheduled = domainmodel.FormatInstant(*task.ScheduledDate)
			item.Overdue = task.ScheduledDate.Before(now) && task.Lifecycle != domainmodel.LifecycleCompleted
		}
		items = append(items, item)
	}
	filter := "all"
	if m.Filter != "" {
		filter = string(m.Filter)
	}
	return views.RenderTaskList(views.TaskListData{Filter: filter, Items: items, SelectedID: selected})
}

func (m Model) detailPane() string {
	task := m.selectedTask()
	if task == nil {
		return views.RenderTaskDetail(views.TaskDetailData{})
	}
	item := views.TaskItemData{
		ID:        task.ID,
		Name:      task.Name,
		Lifecycle: string(task.Lifecycle),
		Repeat:    domainmodel.FormatRepeat(task.Repeat),
	}
	if task.ScheduledDate != nil {
		item.Scheduled = domainmodel.FormatInstant(*task.ScheduledDate)
	}
	data := views.TaskDetailData{Selected: &item, DueNote: m.DueNote}
	if task.StartTime != nil {
		data.StartTime = domainmodel.FormatInstant(*task.StartTime)
	}
	if task.EndTime != nil {
		data.EndTime = domainmodel.FormatInstant(*task.EndTime)
	}
	for _, occurrence := range export.Occurrences(*task, m.Now(), m.Cfg.PreviewCount) {
		data.Occurrences = append(data.Occurrences, domainmodel.FormatInstant(occurrence))
	}
	return views.RenderTaskDetail(data)
}
