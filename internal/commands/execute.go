package commands

import "fmt"

type Result struct {
	Message string
}

type Handlers struct {
	Add    func(AddArgs) (Result, error)
	Find   func(FindArgs) (Result, error)
	Clear  func() (Result, error)
	Done   func(TargetArgs) (Result, error)
	Remove func(TargetArgs) (Result, error)
	Move   func(MoveArgs) (Result, error)
	Export func(PathArgs) (Result, error)
	Import func(PathArgs) (Result, error)
	Help   func() (Result, error)
}

func Execute(cmd Command, handlers Handlers) (Result, error) {
	switch cmd.Type {
	case TypeAdd:
		if handlers.Add == nil {
			return Result{}, missing("add")
		}
		return handlers.Add(*cmd.Add)
	case TypeFind:
		if handlers.Find == nil {
			return Result{}, missing("find")
		}
		return handlers.Find(*cmd.Find)
	case TypeClear:
		if handlers.Clear == nil {
			return Result{}, missing("clear")
		}
		return handlers.Clear()
	case TypeDone:
		if handlers.Done == nil {
			return Result{}, missing("done")
		}
		return handlers.Done(*cmd.Target)
	case TypeRemove:
		if handlers.Remove == nil {
			return Result{}, missing("rm")
		}
		return handlers.Remove(*cmd.Target)
	case TypeMove:
		if handlers.Move == nil {
			return Result{}, missing("mv")
		}
		return handlers.Move(*cmd.Move)
	case TypeExport:
		if handlers.Export == nil {
			return Result{}, missing("export")
		}
		return handlers.Export(*cmd.Path)
	case TypeImport:
		if handlers.Import == nil {
			return Result{}, missing("import")
		}
		return handlers.Import(*cmd.Path)
	case TypeHelp:
		if handlers.Help == nil {
			return Result{}, missing("help")
		}
		return handlers.Help()
	default:
		return Result{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unknown command type: %s", cmd.Type)}
	}
}

func missing(name string) error {
	return &CommandError{Code: ErrCodeHandlerMissing, Message: name + " handler not configured"}
}
