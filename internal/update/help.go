package update

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/sandeepkv93/tasklist/internal/views"
)

type KeyBinding struct {
	Key    string
	Action string
}

type helpKeyMap struct {
	short []key.Binding
	full  [][]key.Binding
}

func (k helpKeyMap) ShortHelp() []key.Binding  { return k.short }
func (k helpKeyMap) FullHelp() [][]key.Binding { return k.full }

const paletteGuide = `## Commands

- ` + "`add <text> [pts:N|pts:auto] [area:X]`" + ` add a task
- ` + "`find <text> [area:X] [min:N]`" + ` filter the list
- ` + "`clear`" + ` drop the filter
- ` + "`done <n|id>`" + `, ` + "`rm <n|id>`" + ` toggle or delete
- ` + "`mv <from> <to>`" + ` reorder by position
- ` + "`export [path]`" + `, ` + "`import <path>`" + ` JSON files
`

func (m Model) renderHelpView() string {
	bindings := m.helpBindings()
	var plain []string
	for _, kb := range m.modeBindings() {
		plain = append(plain, fmt.Sprintf("- %s: %s", kb.Key, kb.Action))
	}
	return views.RenderHelpPanel(views.HelpPanelData{
		Bindings: plain,
		HelpView: m.helpModel.View(helpKeyMap{
			short: bindings,
			full:  [][]key.Binding{bindings},
		}),
		Guide: views.RenderMarkdown(paletteGuide, m.statsWidth()),
	})
}

func (m Model) globalBindings() []KeyBinding {
	return []KeyBinding{
		{Key: m.Keys.Add, Action: "add task"},
		{Key: m.Keys.Search, Action: "search"},
		{Key: m.Keys.Palette, Action: "command palette"},
		{Key: "space", Action: "toggle done"},
		{Key: m.Keys.Delete, Action: "delete"},
		{Key: m.Keys.MoveUp + "/" + m.Keys.MoveDn, Action: "move up/down"},
		{Key: m.Keys.Export, Action: "export"},
		{Key: m.Keys.Help, Action: "toggle help panel"},
		{Key: m.Keys.Quit, Action: "quit app"},
	}
}

func (m Model) modeBindings() []KeyBinding {
	switch m.Mode {
	case ModeAdd:
		return []KeyBinding{
			{Key: "enter", Action: "save task"},
			{Key: "esc", Action: "cancel"},
		}
	case ModeSearch:
		return []KeyBinding{
			{Key: "enter", Action: "keep filter"},
			{Key: "esc", Action: "clear filter"},
		}
	case ModePalette:
		return []KeyBinding{
			{Key: "enter", Action: "run command"},
			{Key: "esc", Action: "close palette"},
		}
	default:
		return []KeyBinding{
			{Key: "j/k", Action: "move cursor"},
			{Key: "esc", Action: "clear filter"},
		}
	}
}

func (m Model) helpBindings() []key.Binding {
	out := make([]key.Binding, 0, len(m.globalBindings()))
	for _, kb := range m.globalBindings() {
		out = append(out, key.NewBinding(key.WithKeys(kb.Key), key.WithHelp(kb.Key, kb.Action)))
	}
	return out
}
