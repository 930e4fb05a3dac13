package update

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/tasklist/internal/query"
)

func (m Model) handleAddKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.Mode = ModeList
		m.addInput.SetValue("")
		m.addInput.Blur()
		return m, nil
	case "enter":
		raw := m.addInput.Value()
		m.addInput.SetValue("")
		m.addInput.Blur()
		m.Mode = ModeList
		m.addTask(raw)
		return m, nil
	}
	var cmd tea.Cmd
	m.addInput, cmd = m.addInput.Update(msg)
	return m, cmd
}

// handleSearchKey re-filters on every keystroke; enter keeps the filter,
// esc drops it.
func (m Model) handleSearchKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.Mode = ModeList
		m.Criteria = query.Criteria{}
		m.searchInput.SetValue("")
		m.searchInput.Blur()
		return m, nil
	case "enter":
		m.Mode = ModeList
		m.searchInput.Blur()
		c, err := query.ParseCriteria(m.searchInput.Value())
		if err != nil {
			m.setStatus(err.Error(), true)
			return m, nil
		}
		m.Criteria = c
		return m, nil
	}
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	// Half-typed tokens such as "min:" keep the previous filter.
	if c, err := query.ParseCriteria(m.searchInput.Value()); err == nil {
		m.Criteria = c
	}
	return m, cmd
}
