package views

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

// AppData is one frame of the UI. Width is the terminal width; zero means
// unknown and picks the fixed default layout.
type AppData struct {
	Width        int
	Header       string
	LeftPane     string
	RightPane    string
	StatusLine   string
	StatusError  bool
	Footer       string
	Notification string
}

const (
	defaultTaskWidth  = 62
	defaultStatsWidth = 44
	minTaskWidth      = 30
	minStatsWidth     = 24
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	panelStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	doneStyle   = lipgloss.NewStyle().Strikethrough(true).Foreground(lipgloss.Color("8"))
	cursorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13"))
	ageStyle    = lipgloss.NewStyle().Faint(true)
)

// PaneWidths splits the terminal between the task list and the stats pane.
// Narrow terminals get a single task column (stats width zero).
func PaneWidths(total int) (task, stats int) {
	if total <= 0 {
		return defaultTaskWidth, defaultStatsWidth
	}
	// Each bordered, padded pane costs four columns of chrome.
	usable := total - 8
	if usable < minTaskWidth+minStatsWidth {
		return max(minTaskWidth, total-4), 0
	}
	stats = max(minStatsWidth, usable*2/5)
	return usable - stats, stats
}

func RenderApp(data AppData) string {
	taskWidth, statsWidth := PaneWidths(data.Width)
	body := panelStyle.Width(taskWidth).Render(data.LeftPane)
	if strings.TrimSpace(data.RightPane) != "" {
		if statsWidth == 0 {
			body = lipgloss.JoinVertical(lipgloss.Left, body, panelStyle.Width(taskWidth).Render(data.RightPane))
		} else {
			body = lipgloss.JoinHorizontal(lipgloss.Top, body, panelStyle.Width(statsWidth).Render(data.RightPane))
		}
	}

	status := statusStyle.Render(data.StatusLine)
	if data.StatusError {
		status = errorStyle.Render(data.StatusLine)
	}

	lines := []string{headerStyle.Render(data.Header), body, status}
	if data.Notification != "" {
		lines = append(lines, panelStyle.Render(data.Notification))
	}
	if data.Footer != "" {
		lines = append(lines, footerStyle.Render(data.Footer))
	}
	return strings.Join(lines, "\n")
}

// RenderMarkdown renders md for the terminal, falling back to the raw text
// when glamour fails.
func RenderMarkdown(md string, width int) string {
	if strings.TrimSpace(md) == "" {
		return ""
	}
	if width <= 0 {
		width = defaultStatsWidth
	}
	r, err := glamour.NewTermRenderer(glamour.WithStandardStyle("dark"), glamour.WithWordWrap(width))
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimSpace(out)
}
