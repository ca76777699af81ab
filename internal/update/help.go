package update

import "cadence/internal/views"

const helpMarkdown = "# cadence\n\n" +
	"Tasks recur according to a repeat rule:\n\n" +
	"- `once` — never recurs\n" +
	"- `manual` — recurs only when you complete it\n" +
	"- `delay P2D` — next occurrence a fixed span from the reference point\n" +
	"- `schedule 2023-01-01 P7D P0D P6D` — anchored cadence: base, period,\n" +
	"  then one offset per occurrence within a cycle\n\n" +
	"Durations use `P[nY][nM][nD][T[nH][nM][nS]]`; instants are zone-less\n" +
	"local timestamps like `2024-03-01T09:00`.\n\n" +
	"## Keys\n\n" +
	"| key | action |\n" +
	"|---|---|\n" +
	"| j / k | move selection |\n" +
	"| a | add task |\n" +
	"| s / x | start / cancel |\n" +
	"| c | complete (spawns the next occurrence for recurring tasks) |\n" +
	"| h / l | seek scheduled date back / forward |\n" +
	"| r / w | edit repeat rule / scheduled date |\n" +
	"| d | delete |\n" +
	"| e | export upcoming occurrences to ICS |\n" +
	"| f | cycle lifecycle filter |\n" +
	"| / | command palette: add, repeat, when, show, export |\n" +
	"| ? | toggle help |\n" +
	"| q | quit |\n"

func (m Model) helpView() string {
	return views.RenderMarkdown(helpMarkdown)
}
