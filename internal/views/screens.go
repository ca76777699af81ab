package views

import (
	"fmt"
	"strings"
)

type TaskItemData struct {
	ID        string
	Name      string
	Lifecycle string
	Scheduled string
	Repeat    string
	Overdue   bool
}

type TaskListData struct {
	Filter     string
	Items      []TaskItemData
	SelectedID string
}

type TaskDetailData struct {
	Selected    *TaskItemData
	StartTime   string
	EndTime     string
	Occurrences []string
	DueNote     string
}

type EditorData struct {
	Active bool
	Field  string
	Input  string
	Error  string
}

type ConfirmData struct {
	Active   bool
	TaskName string
}

func RenderTaskList(data TaskListData) string {
	var b strings.Builder
	b.WriteString("tasks")
	if data.Filter != "" && data.Filter != "all" {
		b.WriteString(fmt.Sprintf(" (%s)", data.Filter))
	}
	b.WriteString(":\n")
	if len(data.Items) == 0 {
		b.WriteString("  (empty)")
		return b.String()
	}
	for _, item := range data.Items {
		cursor := " "
		if item.ID == data.SelectedID {
			cursor = ">"
		}
		b.WriteString(fmt.Sprintf("%s %s %s", cursor, lifecycleBadge(item), item.Name))
		if item.Scheduled != "" {
			when := "@" + item.Scheduled
			if item.Overdue {
				when = overdueStyle.Render(when + " overdue")
			}
			b.WriteString(" " + when)
		}
		b.WriteString("\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func RenderTaskDetail(data TaskDetailData) string {
	if data.Selected == nil {
		return "detail:\n(no selection)"
	}
	var b strings.Builder
	b.WriteString("detail:\n")
	b.WriteString(fmt.Sprintf("name: %s\n", data.Selected.Name))
	b.WriteString(fmt.Sprintf("state: %s\n", data.Selected.Lifecycle))
	b.WriteString(fmt.Sprintf("repeat: %s\n", data.Selected.Repeat))
	if data.Selected.Scheduled != "" {
		b.WriteString(fmt.Sprintf("scheduled: %s\n", data.Selected.Scheduled))
	}
	if data.StartTime != "" {
		b.WriteString(fmt.Sprintf("started: %s\n", data.StartTime))
	}
	if data.EndTime != "" {
		b.WriteString(fmt.Sprintf("completed: %s\n", data.EndTime))
	}
	if len(data.Occurrences) > 0 {
		b.WriteString("upcoming:\n")
		for _, occurrence := range data.Occurrences {
			b.WriteString("- " + occurrence + "\n")
		}
	}
	if data.DueNote != "" {
		b.WriteString(data.DueNote + "\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func RenderEditor(data EditorData) string {
	if !data.Active {
		return ""
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("edit %s (enter to apply, esc to cancel):\n", data.Field))
	b.WriteString(data.Input)
	if data.Error != "" {
		b.WriteString("\n" + errorStyle.Render("error: "+data.Error))
	}
	return b.String()
}

func RenderConfirm(data ConfirmData) string {
	if !data.Active {
		return ""
	}
	return fmt.Sprintf("delete %q? [y]es [n]o", data.TaskName)
}

func RenderCommandPalette(active bool, input string) string {
	if !active {
		return ""
	}
	return fmt.Sprintf("command: /%s", input)
}

func lifecycleBadge(item TaskItemData) string {
	switch item.Lifecycle {
	case "Started":
		return "[*]"
	case "Completed":
		return "[x]"
	default:
		return "[ ]"
	}
}
