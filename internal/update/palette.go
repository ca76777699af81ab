package update

import (
	tea "github.com/charmbracelet/bubbletea"

	"cadence/internal/commands"
	domainmodel "cadence/internal/model"
)

func (m Model) handlePaletteKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.Palette = PaletteState{}
		m.paletteInput.Blur()
		return m, nil
	case "enter":
		input := m.paletteInput.Value()
		m.Palette = PaletteState{}
		m.paletteInput.Blur()
		return m.runPaletteCommand(input)
	}
	var cmd tea.Cmd
	m.paletteInput, cmd = m.paletteInput.Update(msg)
	return m, cmd
}

func (m Model) runPaletteCommand(input string) (tea.Model, tea.Cmd) {
	cmd, err := commands.Parse(input)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m, nil
	}

	var teaCmd tea.Cmd
	result, err := commands.Execute(cmd, commands.Handlers{
		Add: func(args commands.AddArgs) (commands.Result, error) {
			teaCmd = m.createTaskCmd(args.Name)
			return commands.Result{Message: "adding " + args.Name}, nil
		},
		Repeat: func(args commands.RepeatArgs) (commands.Result, error) {
			task := m.selectedTask()
			if task == nil {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: "no task selected"}
			}
			rule, parseErr := domainmodel.ParseRepeat(args.RuleText)
			if parseErr != nil {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: parseErr.Error()}
			}
			updated := *task
			updated.Repeat = rule
			teaCmd = m.updateTaskCmd(updated, FieldRepeat)
			return commands.Result{Message: "repeat set for " + task.Name}, nil
		},
		When: func(args commands.WhenArgs) (commands.Result, error) {
			task := m.selectedTask()
			if task == nil {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: "no task selected"}
			}
			when, parseErr := domainmodel.ParseInstant(args.InstantText)
			if parseErr != nil {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: parseErr.Error()}
			}
			updated := *task
			updated.ScheduledDate = &when
			teaCmd = m.updateTaskCmd(updated, FieldWhen)
			return commands.Result{Message: "scheduled " + task.Name}, nil
		},
		Show: func(args commands.ShowArgs) (commands.Result, error) {
			switch args.Lifecycle {
			case "pending":
				m.Filter = domainmodel.LifecyclePending
			case "started":
				m.Filter = domainmodel.LifecycleStarted
			case "completed":
				m.Filter = domainmodel.LifecycleCompleted
			default:
				m.Filter = ""
			}
			teaCmd = m.loadTasksCmd()
			return commands.Result{Message: "showing " + args.Lifecycle}, nil
		},
		Export: func(args commands.ExportArgs) (commands.Result, error) {
			path := args.Path
			if path == "" {
				path = m.Cfg.ExportPath
			}
			teaCmd = m.exportCmd(path)
			return commands.Result{Message: "exporting to " + path}, nil
		},
	})
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m, nil
	}
	m.Status = StatusBar{Text: result.Message}
	return m, teaCmd
}
