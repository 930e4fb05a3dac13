package model

import (
	"fmt"
	"time"
)

// TimeAgo renders the distance from t to now the way the task list shows
// it: "just now", "5m ago", "3h ago", "2d ago", then the plain date after
// thirty days.
func TimeAgo(now, t time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d/time.Minute))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d/time.Hour))
	case d < 30*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d/(24*time.Hour)))
	default:
		return t.Local().Format("2006-01-02")
	}
}

// AgeLabel describes how long ago the task was completed, or created when it
// is still active. It is empty when the relevant timestamp is unknown.
func (t Task) AgeLabel(now time.Time) string {
	if t.Completed {
		if t.CompletedAt == nil {
			return ""
		}
		return "done " + TimeAgo(now, *t.CompletedAt)
	}
	if t.CreatedAt == nil {
		return ""
	}
	return "added " + TimeAgo(now, *t.CreatedAt)
}
