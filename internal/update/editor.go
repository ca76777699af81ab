package update

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	domainmodel "cadence/internal/model"
)

func (m Model) openEditor(field EditorField, seed string) Model {
	m.Editor = EditorState{Active: true, Field: field}
	m.editorInput.SetValue(seed)
	m.editorInput.CursorEnd()
	m.editorInput.Focus()
	return m
}

// handleEditorKey feeds keys to the inline editor. Applying the field
// parses the text first; invalid input stays in the editor with an error
// message instead of ever reaching the store.
func (m Model) handleEditorKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.Editor = EditorState{}
		m.editorInput.Blur()
		return m, nil
	case "enter":
		return m.applyEditor()
	}
	var cmd tea.Cmd
	m.editorInput, cmd = m.editorInput.Update(msg)
	return m, cmd
}

func (m Model) applyEditor() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.editorInput.Value())

	switch m.Editor.Field {
	case FieldName:
		if text == "" {
			m.Editor.Err = "name must not be empty"
			return m, nil
		}
		m.Editor = EditorState{}
		m.editorInput.Blur()
		return m, m.createTaskCmd(text)

	case FieldRepeat:
		task := m.selectedTask()
		if task == nil {
			m.Editor = EditorState{}
			return m, nil
		}
		rule, err := domainmodel.ParseRepeat(text)
		if err != nil {
			m.Editor.Err = err.Error()
			return m, nil
		}
		updated := *task
		updated.Repeat = rule
		m.Editor = EditorState{}
		m.editorInput.Blur()
		return m, m.updateTaskCmd(updated, FieldRepeat)

	case FieldWhen:
		task := m.selectedTask()
		if task == nil {
			m.Editor = EditorState{}
			return m, nil
		}
		updated := *task
		if text == "" {
			updated.ScheduledDate = nil
		} else {
			when, err := domainmodel.ParseInstant(text)
			if err != nil {
				m.Editor.Err = err.Error()
				return m, nil
			}
			updated.ScheduledDate = &when
		}
		m.Editor = EditorState{}
		m.editorInput.Blur()
		return m, m.updateTaskCmd(updated, FieldWhen)
	}

	m.Editor = EditorState{}
	return m, nil
}
