package update

import (
	"errors"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/tasklist/internal/commands"
	"github.com/sandeepkv93/tasklist/internal/model"
	"github.com/sandeepkv93/tasklist/internal/query"
	"github.com/sandeepkv93/tasklist/internal/store"
)

// visible is the filtered list in display order: active tasks first, then
// completed, each in store order.
func (m Model) visible() []model.Task {
	shown := query.Visible(m.Store.Tasks(), m.Criteria)
	out := make([]model.Task, 0, len(shown))
	for _, t := range shown {
		if !t.Completed {
			out = append(out, t)
		}
	}
	for _, t := range shown {
		if t.Completed {
			out = append(out, t)
		}
	}
	return out
}

func (m *Model) ensureSelection() {
	vis := m.visible()
	if len(vis) == 0 {
		m.SelectedTaskID = ""
		return
	}
	for _, t := range vis {
		if t.ID == m.SelectedTaskID {
			return
		}
	}
	m.SelectedTaskID = vis[0].ID
}

func (m Model) cursor() int {
	for i, t := range m.visible() {
		if t.ID == m.SelectedTaskID {
			return i
		}
	}
	return -1
}

func (m Model) handleListKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case m.Keys.Quit:
		m.Quitting = true
		return m, tea.Quit
	case m.Keys.Add, "n":
		m.Mode = ModeAdd
		m.addInput.SetValue("")
		m.addInput.Focus()
	case m.Keys.Search, "ctrl+f":
		m.Mode = ModeSearch
		m.searchInput.SetValue(m.Criteria.String())
		m.searchInput.Focus()
	case m.Keys.Palette:
		m.Mode = ModePalette
		m.commandInput.SetValue("")
		m.commandInput.Focus()
	case m.Keys.Help:
		m.HelpVisible = !m.HelpVisible
	case "esc":
		if !m.Criteria.IsZero() {
			m.Criteria = query.Criteria{}
			m.setStatus("search cleared", false)
		}
	case "up", "k":
		m.stepCursor(-1)
	case "down", "j":
		m.stepCursor(1)
	case m.Keys.Toggle, "x", "enter":
		m.toggleSelected()
	case m.Keys.Delete:
		m.deleteSelected()
	case m.Keys.MoveUp, "shift+up":
		m.moveSelected(-1)
	case m.Keys.MoveDn, "shift+down":
		m.moveSelected(1)
	case m.Keys.Export:
		return m.startExport("")
	}
	return m, nil
}

func (m *Model) stepCursor(delta int) {
	vis := m.visible()
	if len(vis) == 0 {
		return
	}
	i := m.cursor() + delta
	if i < 0 {
		i = 0
	}
	if i >= len(vis) {
		i = len(vis) - 1
	}
	m.SelectedTaskID = vis[i].ID
}

func (m *Model) addTask(raw string) {
	cmd, err := commands.Parse("add " + raw)
	if err != nil {
		var ce *commands.CommandError
		if errors.As(err, &ce) && ce.Code == commands.ErrCodeInvalidArgument {
			m.setStatus(ce.Message, true)
			return
		}
		m.setStatus(err.Error(), true)
		return
	}
	if _, err := m.addFromArgs(*cmd.Add); err != nil && !errors.Is(err, store.ErrSaveFailed) {
		m.setStatus(err.Error(), true)
	}
}

func (m *Model) addFromArgs(a commands.AddArgs) (model.Task, error) {
	points := a.Points
	if a.Estimate {
		points = model.IntPtr(model.EstimatePoints(a.Text))
	}
	task, err := m.Store.Add(m.ctx, a.Text, store.WithPoints(points), store.WithArea(a.Area))
	if err != nil && !errors.Is(err, store.ErrSaveFailed) {
		return model.Task{}, err
	}
	m.SelectedTaskID = task.ID
	if err != nil {
		m.reportErr("Failed to save tasks", err)
		return task, err
	}
	m.setStatus("Task added successfully!", false)
	return task, nil
}

func (m *Model) toggleSelected() {
	id := m.SelectedTaskID
	if id == "" {
		return
	}
	changed, err := m.Store.Toggle(m.ctx, id)
	if !changed {
		return
	}
	if err != nil {
		m.reportErr("Failed to save tasks", err)
		return
	}
	if task, ok := m.Store.Get(id); ok && task.Completed {
		m.setStatus("Task completed!", false)
	} else {
		m.setStatus("Task reopened", false)
	}
}

func (m *Model) deleteSelected() {
	vis := m.visible()
	i := m.cursor()
	if i < 0 {
		return
	}
	changed, err := m.Store.Delete(m.ctx, vis[i].ID)
	if !changed {
		return
	}
	if i+1 < len(vis) {
		m.SelectedTaskID = vis[i+1].ID
	} else if i > 0 {
		m.SelectedTaskID = vis[i-1].ID
	}
	if err != nil {
		m.reportErr("Failed to save tasks", err)
		return
	}
	m.setStatus("Task deleted", false)
}

// moveSelected swaps the selected task with its visible neighbour in the
// same section, expressed as a drop slot for store.Move.
func (m *Model) moveSelected(delta int) {
	vis := m.visible()
	i := m.cursor()
	if i < 0 {
		return
	}
	j := i + delta
	if j < 0 || j >= len(vis) || vis[j].Completed != vis[i].Completed {
		return
	}
	from := m.Store.IndexOf(vis[i].ID)
	to := m.Store.IndexOf(vis[j].ID)
	if to > from {
		to++
	}
	moved, err := m.Store.Move(m.ctx, from, to)
	if moved && err != nil {
		m.reportErr("Failed to save tasks", err)
	}
}

// resolveTarget maps a 1-based store position or an id to a task id.
func (m Model) resolveTarget(target string) (string, bool) {
	target = strings.TrimSpace(target)
	if pos, err := strconv.Atoi(target); err == nil {
		tasks := m.Store.Tasks()
		if pos < 1 || pos > len(tasks) {
			return "", false
		}
		return tasks[pos-1].ID, true
	}
	if _, ok := m.Store.Get(target); ok {
		return target, true
	}
	return "", false
}
