package update

import (
	"strconv"
	"strings"

	"github.com/sandeepkv93/tasklist/internal/views"
)

func levelFromError(isErr bool) string {
	if isErr {
		return "error"
	}
	return "info"
}

func escapeAppleScript(s string) string {
	return strings.ReplaceAll(s, `"`, `\"`)
}

func formatPoints(p *int) string {
	if p == nil {
		return ""
	}
	return strconv.Itoa(*p)
}

func clampFraction(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// statsWidth is the content width of the side pane, or of the single
// column when the terminal is too narrow for two.
func (m Model) statsWidth() int {
	task, stats := views.PaneWidths(m.Width)
	if stats == 0 {
		return task
	}
	return stats
}
