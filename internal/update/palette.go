package update

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/tasklist/internal/commands"
	"github.com/sandeepkv93/tasklist/internal/query"
)

func (m Model) handlePaletteKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.Mode = ModeList
		m.commandInput.SetValue("")
		m.commandInput.Blur()
		m.Status = StatusBar{Text: "command palette closed"}
		return m, nil
	case "enter":
		raw := m.commandInput.Value()
		m.Mode = ModeList
		m.commandInput.SetValue("")
		m.commandInput.Blur()
		return m.executePaletteCommand(raw)
	}
	var cmd tea.Cmd
	m.commandInput, cmd = m.commandInput.Update(msg)
	return m, cmd
}

func invalid(format string, args ...any) error {
	return &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf(format, args...)}
}

func (m Model) executePaletteCommand(raw string) (Model, tea.Cmd) {
	cmd, err := commands.Parse(strings.TrimSpace(raw))
	if err != nil {
		m.setStatus(err.Error(), true)
		return m, nil
	}

	var follow tea.Cmd
	res, err := commands.Execute(cmd, commands.Handlers{
		Add: func(a commands.AddArgs) (commands.Result, error) {
			task, err := m.addFromArgs(a)
			if err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("added task: %s", task.Text)}, nil
		},
		Find: func(f commands.FindArgs) (commands.Result, error) {
			c, err := query.ParseCriteria(f.Query)
			if err != nil {
				return commands.Result{}, invalid("%v", err)
			}
			m.Criteria = c
			m.searchInput.SetValue(c.String())
			return commands.Result{Message: fmt.Sprintf("%d matching task(s)", len(m.visible()))}, nil
		},
		Clear: func() (commands.Result, error) {
			m.Criteria = query.Criteria{}
			m.searchInput.SetValue("")
			return commands.Result{Message: "search cleared"}, nil
		},
		Done: func(t commands.TargetArgs) (commands.Result, error) {
			id, ok := m.resolveTarget(t.Target)
			if !ok {
				return commands.Result{}, invalid("no task %q", t.Target)
			}
			if _, err := m.Store.Toggle(m.ctx, id); err != nil {
				return commands.Result{}, err
			}
			m.SelectedTaskID = id
			task, _ := m.Store.Get(id)
			if task.Completed {
				return commands.Result{Message: "Task completed!"}, nil
			}
			return commands.Result{Message: "Task reopened"}, nil
		},
		Remove: func(t commands.TargetArgs) (commands.Result, error) {
			id, ok := m.resolveTarget(t.Target)
			if !ok {
				return commands.Result{}, invalid("no task %q", t.Target)
			}
			if _, err := m.Store.Delete(m.ctx, id); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: "Task deleted"}, nil
		},
		Move: func(a commands.MoveArgs) (commands.Result, error) {
			n := m.Store.Len()
			from, dest := a.From-1, a.To-1
			if from >= n || dest >= n {
				return commands.Result{}, invalid("positions must be between 1 and %d", n)
			}
			// dest is where the task should end up; store.Move wants the
			// drop slot.
			to := dest
			if dest > from {
				to = dest + 1
			}
			moved, err := m.Store.Move(m.ctx, from, to)
			if err != nil {
				return commands.Result{}, err
			}
			if !moved {
				return commands.Result{Message: "nothing to move"}, nil
			}
			return commands.Result{Message: fmt.Sprintf("moved task %d to %d", a.From, a.To)}, nil
		},
		Export: func(p commands.PathArgs) (commands.Result, error) {
			var next Model
			next, follow = m.startExport(p.Path)
			m = next
			return commands.Result{Message: "exporting tasks"}, nil
		},
		Import: func(p commands.PathArgs) (commands.Result, error) {
			var next Model
			next, follow = m.startImport(p.Path)
			m = next
			return commands.Result{Message: fmt.Sprintf("importing %s", p.Path)}, nil
		},
		Help: func() (commands.Result, error) {
			m.HelpVisible = !m.HelpVisible
			return commands.Result{Message: "help toggled"}, nil
		},
	})
	if err != nil {
		m.reportErr("command failed", err)
		return m, follow
	}
	m.setStatus(res.Message, false)
	return m, follow
}
