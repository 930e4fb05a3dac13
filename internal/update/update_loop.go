package update

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/tasklist/internal/views"
)

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

type AddTaskMsg struct {
	Text string
}

type ImportLoadedMsg struct {
	Path string
	Data []byte
	Err  error
}

type ExportDoneMsg struct {
	Path  string
	Count int
	Err   error
}

func (m Model) Init() tea.Cmd {
	if err := m.Store.SaveErr(); err != nil {
		return func() tea.Msg { return AppErrorMsg{Err: err} }
	}
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.update(msg)
	next.ensureSelection()
	return next, cmd
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		if typed.String() == "ctrl+c" {
			m.Quitting = true
			return m, tea.Quit
		}
		switch m.Mode {
		case ModeAdd:
			return m.handleAddKey(typed)
		case ModeSearch:
			return m.handleSearchKey(typed)
		case ModePalette:
			return m.handlePaletteKey(typed)
		default:
			return m.handleListKey(typed)
		}
	case tea.WindowSizeMsg:
		m.Width = typed.Width
		m.progressBar.Width = max(10, m.statsWidth()-6)
		return m, nil
	case spinner.TickMsg:
		if m.Busy {
			var cmd tea.Cmd
			m.busySpinner, cmd = m.busySpinner.Update(typed)
			return m, cmd
		}
	case SetStatusMsg:
		m.setStatus(typed.Text, typed.IsError)
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case AppErrorMsg:
		if typed.Err != nil {
			m.LastError = typed.Err
			m.setStatus(typed.Err.Error(), true)
		}
		return m, nil
	case AddTaskMsg:
		m.addTask(typed.Text)
		return m, nil
	case ImportLoadedMsg:
		m.Busy = false
		m.applyImport(typed)
		return m, nil
	case ExportDoneMsg:
		m.Busy = false
		if typed.Err != nil {
			m.reportErr("export failed", typed.Err)
			return m, nil
		}
		m.setStatus(fmt.Sprintf("Exported %d tasks to %s", typed.Count, typed.Path), false)
		return m, nil
	}

	return m, nil
}

func (m Model) View() string {
	status := ""
	if m.Status.Text != "" {
		if m.Status.IsError {
			status = fmt.Sprintf("status: error: %s", m.Status.Text)
		} else {
			status = fmt.Sprintf("status: %s", m.Status.Text)
		}
	}
	if m.Busy {
		status = strings.TrimSpace(status + " " + m.busySpinner.View() + " working")
	}

	rightPane := m.renderStatsView()
	if m.HelpVisible {
		rightPane += "\n\n" + m.renderHelpView()
	}

	return views.RenderApp(views.AppData{
		Width:        m.Width,
		Header:       fmt.Sprintf("tasklist | mode: %s | selected: %s", m.Mode, m.SelectedTaskID),
		LeftPane:     m.renderTaskView(),
		RightPane:    rightPane,
		StatusLine:   status,
		StatusError:  m.Status.IsError,
		Notification: m.renderNotificationsView(),
		Footer: fmt.Sprintf("keys: %s add | %s search | %s cmd | space toggle | %s delete | %s/%s move | %s export | %s help | %s quit",
			m.Keys.Add, m.Keys.Search, m.Keys.Palette, m.Keys.Delete, m.Keys.MoveUp, m.Keys.MoveDn, m.Keys.Export, m.Keys.Help, m.Keys.Quit),
	})
}
