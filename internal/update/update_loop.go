package update

import (
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	domainmodel "cadence/internal/model"
	"cadence/internal/views"
)

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.loadTasksCmd()}
	if m.Watcher != nil {
		cmds = append(cmds, waitForDueCmd(m.Watcher.C()))
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(typed)

	case TasksLoadedMsg:
		m.Tasks = typed.Tasks
		if m.Cursor >= len(m.Tasks) {
			m.Cursor = len(m.Tasks) - 1
		}
		if m.Cursor < 0 {
			m.Cursor = 0
		}
		if m.Watcher != nil {
			m.Watcher.TrackTasks(m.Tasks, m.Now())
		}
		return m, nil

	case ActionAppliedMsg:
		m.Status = StatusBar{Text: string(typed.Action) + ": " + typed.Name}
		return m, m.loadTasksCmd()

	case TaskCreatedMsg:
		m.Status = StatusBar{Text: "added: " + typed.Name}
		return m, m.loadTasksCmd()

	case FieldEditedMsg:
		m.Status = StatusBar{Text: string(typed.Field) + " updated: " + typed.Name}
		return m, m.loadTasksCmd()

	case ExportDoneMsg:
		m.Status = StatusBar{Text: "exported " + typed.Path}
		return m, nil

	case DueMsg:
		m.DueNote = "due now: " + typed.Event.Name
		m.Logger.Info("task due",
			zap.String("task_id", typed.Event.TaskID),
			zap.String("name", typed.Event.Name))
		if m.Watcher != nil {
			return m, waitForDueCmd(m.Watcher.C())
		}
		return m, nil

	case AppErrorMsg:
		m.LastError = typed.Err
		m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
		m.Logger.Error("app error", zap.Error(typed.Err))
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.Quitting = true
		return m, tea.Quit
	}

	if m.Confirm.Active {
		return m.handleConfirmKey(msg)
	}
	if m.Editor.Active {
		return m.handleEditorKey(msg)
	}
	if m.Palette.Active {
		return m.handlePaletteKey(msg)
	}

	switch msg.String() {
	case m.Keys.Quit:
		m.Quitting = true
		return m, tea.Quit
	case m.Keys.Help:
		m.HelpShown = !m.HelpShown
		return m, nil
	case "/":
		m.Palette.Active = true
		m.paletteInput.SetValue("")
		m.paletteInput.Focus()
		return m, nil
	case m.Keys.Down:
		if m.Cursor < len(m.Tasks)-1 {
			m.Cursor++
		}
		return m, nil
	case m.Keys.Up:
		if m.Cursor > 0 {
			m.Cursor--
		}
		return m, nil
	case m.Keys.Filter:
		m.Filter = nextFilter(m.Filter)
		return m, m.loadTasksCmd()
	case m.Keys.Add:
		return m.openEditor(FieldName, ""), nil
	case m.Keys.EditRepeat:
		if task := m.selectedTask(); task != nil {
			return m.openEditor(FieldRepeat, domainmodel.FormatRepeat(task.Repeat)), nil
		}
		return m, nil
	case m.Keys.EditWhen:
		if task := m.selectedTask(); task != nil {
			seed := ""
			if task.ScheduledDate != nil {
				seed = domainmodel.FormatInstant(*task.ScheduledDate)
			}
			return m.openEditor(FieldWhen, seed), nil
		}
		return m, nil
	case m.Keys.Export:
		return m, m.exportCmd(m.Cfg.ExportPath)
	case m.Keys.Start:
		return m.dispatchAction(domainmodel.ActionStart)
	case m.Keys.Cancel:
		return m.dispatchAction(domainmodel.ActionCancel)
	case m.Keys.Complete:
		return m.dispatchAction(domainmodel.ActionComplete)
	case m.Keys.SeekBack:
		return m.dispatchAction(domainmodel.ActionSeekBack)
	case m.Keys.SeekForward:
		return m.dispatchAction(domainmodel.ActionSeekForward)
	case m.Keys.Delete:
		task := m.selectedTask()
		if task == nil {
			return m, nil
		}
		if m.Cfg.ConfirmDelete {
			m.Confirm = ConfirmState{Active: true, Task: *task}
			return m, nil
		}
		return m, m.applyActionCmd(domainmodel.ActionDelete, *task)
	}
	return m, nil
}

// dispatchAction routes a non-destructive action at the selected task.
func (m Model) dispatchAction(action domainmodel.Action) (tea.Model, tea.Cmd) {
	task := m.selectedTask()
	if task == nil {
		m.Status = StatusBar{Text: "no task selected", IsError: true}
		return m, nil
	}
	return m, m.applyActionCmd(action, *task)
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "enter":
		task := m.Confirm.Task
		m.Confirm = ConfirmState{}
		return m, m.applyActionCmd(domainmodel.ActionDelete, task)
	case "n", "N", "esc":
		m.Confirm = ConfirmState{}
		m.Status = StatusBar{Text: "delete cancelled"}
		return m, nil
	}
	return m, nil
}

func nextFilter(current domainmodel.Lifecycle) domainmodel.Lifecycle {
	switch current {
	case "":
		return domainmodel.LifecyclePending
	case domainmodel.LifecyclePending:
		return domainmodel.LifecycleStarted
	case domainmodel.LifecycleStarted:
		return domainmodel.LifecycleCompleted
	default:
		return ""
	}
}

func (m Model) View() string {
	if m.Quitting {
		return "bye\n"
	}
	if m.HelpShown {
		return m.helpView()
	}

	prompt := views.RenderConfirm(views.ConfirmData{Active: m.Confirm.Active, TaskName: m.Confirm.Task.Name})
	if prompt == "" && m.Editor.Active {
		prompt = views.RenderEditor(views.EditorData{
			Active: true,
			Field:  string(m.Editor.Field),
			Input:  m.editorInput.View(),
			Error:  m.Editor.Err,
		})
	}
	if prompt == "" && m.Palette.Active {
		prompt = views.RenderCommandPalette(true, m.paletteInput.Value())
	}

	return views.RenderApp(views.AppData{
		Header:     "cadence",
		ListPane:   m.listPane(),
		DetailPane: m.detailPane(),
		Prompt:     prompt,
		StatusLine: m.Status.Text,
		IsError:    m.Status.IsError,
		Footer:     "[a]dd [s]tart [x]cancel [c]omplete [d]elete [h/l]seek [r]epeat [w]hen [e]xport [f]ilter [/]cmd [?]help [q]uit",
	})
}
