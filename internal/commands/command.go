package commands

import (
	"fmt"
	"strconv"
	"strings"
)

type Type string

const (
	TypeAdd    Type = "add"
	TypeFind   Type = "find"
	TypeClear  Type = "clear"
	TypeDone   Type = "done"
	TypeRemove Type = "rm"
	TypeMove   Type = "mv"
	TypeExport Type = "export"
	TypeImport Type = "import"
	TypeHelp   Type = "help"
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

// AddArgs carries "add <text> [pts:N|pts:auto] [area:X]".
type AddArgs struct {
	Text     string
	Points   *int
	Estimate bool
	Area     *string
}

type FindArgs struct {
	Query string
}

// TargetArgs names a task by the 1-based position shown next to it or by
// id.
type TargetArgs struct {
	Target string
}

type MoveArgs struct {
	From int
	To   int
}

type PathArgs struct {
	Path string
}

type Command struct {
	Type   Type
	Raw    string
	Add    *AddArgs
	Find   *FindArgs
	Target *TargetArgs
	Move   *MoveArgs
	Path   *PathArgs
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
	case TypeFind, "search":
		return Command{Type: TypeFind, Raw: input, Find: &FindArgs{Query: strings.Join(args, " ")}}, nil
	case TypeClear:
		return Command{Type: TypeClear, Raw: input}, nil
	case TypeDone, "toggle":
		return parseTarget(input, TypeDone, args)
	case TypeRemove, "delete":
		return parseTarget(input, TypeRemove, args)
	case TypeMove, "move":
		return parseMove(input, args)
	case TypeExport:
		return Command{Type: TypeExport, Raw: input, Path: &PathArgs{Path: strings.Join(args, " ")}}, nil
	case TypeImport:
		if len(args) == 0 {
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "import requires a file path"}
		}
		return Command{Type: TypeImport, Raw: input, Path: &PathArgs{Path: strings.Join(args, " ")}}, nil
	case TypeHelp:
		return Command{Type: TypeHelp, Raw: input}, nil
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

func parseAdd(raw string, args []string) (Command, error) {
	out := AddArgs{}
	words := make([]string, 0, len(args))
	for _, arg := range args {
		lower := strings.ToLower(arg)
		switch {
		case strings.HasPrefix(lower, "pts:"):
			value := strings.TrimSpace(arg[len("pts:"):])
			if strings.EqualFold(value, "auto") {
				out.Estimate = true
				continue
			}
			n, err := strconv.Atoi(value)
			if err != nil {
				return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("points must be a whole number: %q", value)}
			}
			out.Points = &n
		case strings.HasPrefix(lower, "area:"):
			area := strings.TrimSpace(arg[len("area:"):])
			out.Area = &area
		default:
			words = append(words, arg)
		}
	}
	out.Text = strings.TrimSpace(strings.Join(words, " "))
	if out.Text == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires task text"}
	}
	return Command{Type: TypeAdd, Raw: raw, Add: &out}, nil
}

func parseTarget(raw string, typ Type, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("%s requires one task number or id", typ)}
	}
	return Command{Type: typ, Raw: raw, Target: &TargetArgs{Target: args[0]}}, nil
}

// parseMove reads 1-based positions as shown in the list; "mv 3 1" puts the
// third task first.
func parseMove(raw string, args []string) (Command, error) {
	if len(args) != 2 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "mv requires from and to positions"}
	}
	from, errFrom := strconv.Atoi(args[0])
	to, errTo := strconv.Atoi(args[1])
	if errFrom != nil || errTo != nil || from < 1 || to < 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "mv positions must be numbers starting at 1"}
	}
	return Command{Type: TypeMove, Raw: raw, Move: &MoveArgs{From: from, To: to}}, nil
}
