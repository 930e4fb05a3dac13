package update

import (
	"github.com/sandeepkv93/tasklist/internal/query"
	"github.com/sandeepkv93/tasklist/internal/views"
)

func (m Model) renderTaskView() string {
	input := ""
	switch m.Mode {
	case ModeAdd:
		input = m.addInput.View()
	case ModeSearch:
		input = m.searchInput.View()
	case ModePalette:
		input = views.RenderCommandPalette(true, m.commandInput.View())
	}

	data := views.TaskPanelData{
		InputView:  input,
		Filter:     m.Criteria.String(),
		SelectedID: m.SelectedTaskID,
	}
	vis := m.visible()
	switch query.Classify(m.Store.Len(), len(vis)) {
	case query.StateEmptyStore:
		data.EmptyState = views.RenderEmptyState(true)
	case query.StateNoMatches:
		data.EmptyState = views.RenderEmptyState(false)
	}
	now := m.now()
	for _, t := range vis {
		row := views.TaskRowData{
			Position:  m.Store.IndexOf(t.ID) + 1,
			ID:        t.ID,
			Text:      t.Text,
			Completed: t.Completed,
			Points:    formatPoints(t.Points),
			Area:      t.AreaValue(),
			Age:       t.AgeLabel(now),
		}
		if t.Completed {
			data.Completed = append(data.Completed, row)
		} else {
			data.Active = append(data.Active, row)
		}
	}
	return views.RenderTaskPanel(data)
}
