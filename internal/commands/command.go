package commands

import (
	"fmt"
	"strings"
)

type Type string

const (
	TypeAdd    Type = "add"
	TypeRepeat Type = "repeat"
	TypeWhen   Type = "when"
	TypeShow   Type = "show"
	TypeExport Type = "export"
)

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

type AddArgs struct {
	Name string
}

// RepeatArgs sets the repeat rule of the selected task from raw rule text.
// RuleText is validated by the handler through the model parser, so editor
// errors surface as field-level messages instead of parse failures here.
type RepeatArgs struct {
	RuleText string
}

type WhenArgs struct {
	InstantText string
}

type ShowArgs struct {
	Lifecycle string
}

type ExportArgs struct {
	Path string
}

type Command struct {
	Type   Type
	Raw    string
	Add    *AddArgs
	Repeat *RepeatArgs
	When   *WhenArgs
	Show   *ShowArgs
	Export *ExportArgs
}

func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}
	if strings.HasPrefix(raw, "/") {
		raw = strings.TrimSpace(strings.TrimPrefix(raw, "/"))
	}
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	parts := strings.Fields(raw)
	head := strings.ToLower(parts[0])
	args := parts[1:]

	switch Type(head) {
	case TypeAdd:
		return parseAdd(input, args)
	case TypeRepeat:
		return parseRepeat(input, args)
	case TypeWhen:
		return parseWhen(input, args)
	case TypeShow:
		return parseShow(input, args)
	case TypeExport:
		return parseExport(input, args)
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

func parseAdd(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires a task name"}
	}
	name := strings.TrimSpace(strings.Join(args, " "))
	if name == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires a task name"}
	}
	return Command{Type: TypeAdd, Raw: raw, Add: &AddArgs{Name: name}}, nil
}

func parseRepeat(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "repeat requires rule text, e.g. 'repeat delay P7D'"}
	}
	return Command{Type: TypeRepeat, Raw: raw, Repeat: &RepeatArgs{RuleText: strings.Join(args, " ")}}, nil
}

func parseWhen(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "when requires one instant, e.g. 'when 2024-03-01T09:00'"}
	}
	return Command{Type: TypeWhen, Raw: raw, When: &WhenArgs{InstantText: args[0]}}, nil
}

func parseShow(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "show requires pending, started, completed or all"}
	}
	lifecycle := strings.ToLower(args[0])
	switch lifecycle {
	case "pending", "started", "completed", "all":
	default:
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown show filter: %s", lifecycle)}
	}
	return Command{Type: TypeShow, Raw: raw, Show: &ShowArgs{Lifecycle: lifecycle}}, nil
}

func parseExport(raw string, args []string) (Command, error) {
	path := ""
	if len(args) > 0 {
		path = strings.Join(args, " ")
	}
	return Command{Type: TypeExport, Raw: raw, Export: &ExportArgs{Path: path}}, nil
}
