package model

import (
	"encoding/json"
	"math"
	"time"
)

// DecodeLoose reads one task object without failing on badly typed fields.
// It reports false when raw is not an object or has no string text. Other
// fields are coerced: completed by JSON truthiness, points only when
// integral, area only when a string, timestamps only when RFC 3339.
func DecodeLoose(raw json.RawMessage) (Task, bool) {
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return Task{}, false
	}
	text, ok := fields["text"].(string)
	if !ok {
		return Task{}, false
	}
	task := Task{Text: text, Completed: Truthy(fields["completed"])}
	if id, ok := fields["id"].(string); ok {
		task.ID = id
	}
	if n, ok := fields["points"].(float64); ok && n == math.Trunc(n) && math.Abs(n) <= math.MaxInt32 {
		task.Points = IntPtr(int(n))
	}
	if area, ok := fields["area"].(string); ok {
		task.Area = StringPtr(area)
	}
	task.CreatedAt = parseStamp(fields["createdAt"])
	task.CompletedAt = parseStamp(fields["completedAt"])
	return task, true
}

func parseStamp(v any) *time.Time {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return nil
	}
	t = t.UTC()
	return &t
}

// Truthy follows JSON-in-JavaScript boolean coercion.
func Truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case float64:
		return x != 0 && !math.IsNaN(x)
	case string:
		return x != ""
	default:
		return true
	}
}
