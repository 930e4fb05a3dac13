package model

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrEmptyText = errors.New("model: task text is required")
	ErrEmptyID   = errors.New("model: task id is required")
)

// Task is one unit of work. Points and Area are optional; a nil Points is
// "no score" and never counts as zero. CompletedAt is set only while the
// task is completed.
type Task struct {
	ID          string     `json:"id"`
	Text        string     `json:"text"`
	Completed   bool       `json:"completed"`
	Points      *int       `json:"points"`
	Area        *string    `json:"area,omitempty"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

func (t Task) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return ErrEmptyID
	}
	if strings.TrimSpace(t.Text) == "" {
		return ErrEmptyText
	}
	return nil
}

func (t Task) PointsValue() (int, bool) {
	if t.Points == nil {
		return 0, false
	}
	return *t.Points, true
}

func (t Task) AreaValue() string {
	if t.Area == nil {
		return ""
	}
	return *t.Area
}

// Clone returns a copy that shares no pointers with t.
func (t Task) Clone() Task {
	out := t
	if t.Points != nil {
		p := *t.Points
		out.Points = &p
	}
	if t.Area != nil {
		a := *t.Area
		out.Area = &a
	}
	out.CreatedAt = TimePtr(t.CreatedAt)
	out.CompletedAt = TimePtr(t.CompletedAt)
	return out
}

// Stamp is the timestamp form stored on tasks: UTC, millisecond precision,
// no monotonic reading, so it survives a JSON round trip unchanged.
func Stamp(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}

// TimePtr copies *t into a fresh UTC pointer; nil stays nil.
func TimePtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}

func IntPtr(v int) *int { return &v }

func StringPtr(v string) *string { return &v }
