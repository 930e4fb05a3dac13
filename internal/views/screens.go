package views

import (
	"fmt"
	"strings"
)

type TaskRowData struct {
	Position  int
	ID        string
	Text      string
	Completed bool
	Points    string
	Area      string
	// Age is the relative created or completed time, e.g. "added 5m ago".
	Age string
}

type TaskPanelData struct {
	InputView  string
	Filter     string
	Active     []TaskRowData
	Completed  []TaskRowData
	SelectedID string
	EmptyState string
}

type StatsPanelData struct {
	CompletedCount int
	TotalCount     int
	EarnedPoints   int
	TotalPoints    int
	ProgressView   string
	ProgressPct    int
}

type HelpPanelData struct {
	Bindings []string
	HelpView string
	Guide    string
}

func RenderTaskPanel(data TaskPanelData) string {
	var b strings.Builder
	b.WriteString("tasks:\n")
	if data.InputView != "" {
		b.WriteString(data.InputView + "\n")
	}
	if data.Filter != "" {
		b.WriteString(fmt.Sprintf("filter: %s\n", data.Filter))
	}
	if data.EmptyState != "" {
		b.WriteString("\n" + data.EmptyState)
		return strings.TrimSpace(b.String())
	}
	renderTaskSection(&b, "Active", data.Active, data.SelectedID)
	renderTaskSection(&b, "Completed", data.Completed, data.SelectedID)
	return strings.TrimSpace(b.String())
}

func RenderStatsPanel(data StatsPanelData) string {
	var b strings.Builder
	b.WriteString("progress:\n")
	b.WriteString(fmt.Sprintf("completed: %d / %d\n", data.CompletedCount, data.TotalCount))
	b.WriteString(fmt.Sprintf("points: %d / %d\n", data.EarnedPoints, data.TotalPoints))
	b.WriteString(fmt.Sprintf("%s %d%%", data.ProgressView, data.ProgressPct))
	return b.String()
}

func RenderEmptyState(storeEmpty bool) string {
	if storeEmpty {
		return "No tasks yet\npress [a] to add your first task"
	}
	return "No tasks found\ntry a different search term"
}

func RenderCommandPalette(active bool, input string) string {
	if !active {
		return ""
	}
	return fmt.Sprintf("command: %s", input)
}

func RenderNotification(level string, body string) string {
	if strings.TrimSpace(body) == "" {
		return ""
	}
	return fmt.Sprintf("notification: [%s] %s", strings.ToUpper(level), body)
}

func RenderHelpPanel(data HelpPanelData) string {
	out := fmt.Sprintf("help:\n%s\n%s", strings.Join(data.Bindings, "\n"), data.HelpView)
	if data.Guide != "" {
		out += "\n\n" + data.Guide
	}
	return out
}

func renderTaskSection(b *strings.Builder, title string, rows []TaskRowData, selectedID string) {
	b.WriteString(fmt.Sprintf("\n%s (%d):\n", title, len(rows)))
	if len(rows) == 0 {
		b.WriteString("  (none)\n")
		return
	}
	for _, row := range rows {
		cursor := " "
		if selectedID == row.ID {
			cursor = cursorStyle.Render(">")
		}
		box := "[ ]"
		text := row.Text
		if row.Completed {
			box = "[x]"
			text = doneStyle.Render(text)
		}
		b.WriteString(fmt.Sprintf("%s %2d. %s %s", cursor, row.Position, box, text))
		if row.Points != "" {
			b.WriteString(" " + pointsBadge(row))
		}
		if row.Area != "" {
			b.WriteString(fmt.Sprintf(" @%s", row.Area))
		}
		if row.Age != "" {
			b.WriteString(" " + ageStyle.Render(row.Age))
		}
		b.WriteString("\n")
	}
}

func pointsBadge(row TaskRowData) string {
	return fmt.Sprintf("(%s pts)", row.Points)
}
