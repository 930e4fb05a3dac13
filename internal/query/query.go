// Package query computes read-only views over an ordered task list.
package query

import (
	"strings"

	"github.com/sandeepkv93/tasklist/internal/model"
)

// Fields are structured predicates. A nil field matches everything.
type Fields struct {
	AreaContains *string
	MinPoints    *int
}

type Criteria struct {
	Term   string
	Fields Fields
}

func (c Criteria) IsZero() bool {
	return strings.TrimSpace(c.Term) == "" && c.Fields.AreaContains == nil && c.Fields.MinPoints == nil
}

// Search matches text case-insensitively. A blank term matches all tasks.
func Search(tasks []model.Task, term string) map[string]bool {
	term = normalizeTerm(term)
	out := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		if matchesTerm(t, term) {
			out[t.ID] = true
		}
	}
	return out
}

func FilterByFields(tasks []model.Task, f Fields) map[string]bool {
	out := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		if matchesFields(t, f) {
			out[t.ID] = true
		}
	}
	return out
}

// Visible returns the tasks satisfying every active predicate, in store
// order.
func Visible(tasks []model.Task, c Criteria) []model.Task {
	term := normalizeTerm(c.Term)
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if matchesTerm(t, term) && matchesFields(t, c.Fields) {
			out = append(out, t)
		}
	}
	return out
}

func VisibleIDs(tasks []model.Task, c Criteria) map[string]bool {
	visible := Visible(tasks, c)
	out := make(map[string]bool, len(visible))
	for _, t := range visible {
		out[t.ID] = true
	}
	return out
}

func normalizeTerm(term string) string {
	return strings.ToLower(strings.TrimSpace(term))
}

func matchesTerm(t model.Task, term string) bool {
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(t.Text), term)
}

func matchesFields(t model.Task, f Fields) bool {
	if f.AreaContains != nil {
		want := strings.ToLower(strings.TrimSpace(*f.AreaContains))
		area := strings.ToLower(strings.TrimSpace(t.AreaValue()))
		if !strings.Contains(area, want) {
			return false
		}
	}
	if f.MinPoints != nil {
		points, ok := t.PointsValue()
		if !ok || points < *f.MinPoints {
			return false
		}
	}
	return true
}

type State string

const (
	StateEmptyStore State = "empty_store"
	StateNoMatches  State = "no_matches"
	StateResults    State = "results"
)

// Classify tells an empty store apart from a filter that hides everything.
func Classify(total, visible int) State {
	switch {
	case total == 0:
		return StateEmptyStore
	case visible == 0:
		return StateNoMatches
	default:
		return StateResults
	}
}
