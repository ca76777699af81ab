package commands

import "fmt"

type Result struct {
	Message string
}

type Handlers struct {
	Add    func(AddArgs) (Result, error)
	Repeat func(RepeatArgs) (Result, error)
	When   func(WhenArgs) (Result, error)
	Show   func(ShowArgs) (Result, error)
	Export func(ExportArgs) (Result, error)
}

func Execute(cmd Command, handlers Handlers) (Result, error) {
	switch cmd.Type {
	case TypeAdd:
		if handlers.Add == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "add handler not configured"}
		}
		return handlers.Add(*cmd.Add)
	case TypeRepeat:
		if handlers.Repeat == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "repeat handler not configured"}
		}
		return handlers.Repeat(*cmd.Repeat)
	case TypeWhen:
		if handlers.When == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "when handler not configured"}
		}
		return handlers.When(*cmd.When)
	case TypeShow:
		if handlers.Show == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "show handler not configured"}
		}
		return handlers.Show(*cmd.Show)
	case TypeExport:
		if handlers.Export == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "export handler not configured"}
		}
		return handlers.Export(*cmd.Export)
	default:
		return Result{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unknown command type: %s", cmd.Type)}
	}
}
