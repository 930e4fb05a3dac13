// Package codec converts task lists to and from the portable JSON export
// document.
package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sandeepkv93/tasklist/internal/model"
)

// ImportFormatError means the document as a whole was unusable. Nothing is
// imported when it is returned.
type ImportFormatError struct {
	Reason string
	Err    error
}

func (e *ImportFormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("codec: invalid import document: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("codec: invalid import document: %s", e.Reason)
}

func (e *ImportFormatError) Unwrap() error { return e.Err }

type ImportResult struct {
	Accepted []model.Task
	Skipped  int
}

func (r ImportResult) Summary() string {
	if len(r.Accepted) == 0 {
		return "No new tasks to import"
	}
	if r.Skipped > 0 {
		return fmt.Sprintf("Imported %d tasks successfully! (%d skipped)", len(r.Accepted), r.Skipped)
	}
	return fmt.Sprintf("Imported %d tasks successfully!", len(r.Accepted))
}

// Export renders tasks verbatim as an indented JSON array.
func Export(tasks []model.Task) ([]byte, error) {
	if tasks == nil {
		tasks = []model.Task{}
	}
	out, err := json.MarshalIndent(tasks, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("codec: export: %w", err)
	}
	return append(out, '\n'), nil
}

func ExportFilename(t time.Time) string {
	return fmt.Sprintf("tasks-%s.json", t.Format(time.DateOnly))
}

// Decode validates doc and returns the records that are new relative to
// existing. An element is skipped when its text is missing or when a live
// task, or one accepted earlier from the same document, has the same text
// or the same id.
func Decode(doc []byte, existing []model.Task, newID model.IDGenerator) (ImportResult, error) {
	if newID == nil {
		newID = model.NewULID
	}
	trimmed := bytes.TrimSpace(doc)
	if len(trimmed) == 0 {
		return ImportResult{}, &ImportFormatError{Reason: "empty document"}
	}
	if trimmed[0] != '[' {
		return ImportResult{}, &ImportFormatError{Reason: "top-level value is not an array"}
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(trimmed, &elems); err != nil {
		return ImportResult{}, &ImportFormatError{Reason: "malformed json", Err: err}
	}

	texts := make(map[string]bool, len(existing))
	ids := make(map[string]bool, len(existing))
	for _, t := range existing {
		texts[t.Text] = true
		ids[t.ID] = true
	}

	var res ImportResult
	for _, raw := range elems {
		task, ok := decodeElement(raw)
		if !ok {
			res.Skipped++
			continue
		}
		if texts[task.Text] || (task.ID != "" && ids[task.ID]) {
			res.Skipped++
			continue
		}
		for task.ID == "" || ids[task.ID] {
			task.ID = newID()
		}
		texts[task.Text] = true
		ids[task.ID] = true
		res.Accepted = append(res.Accepted, task)
	}
	return res, nil
}

// decodeElement trims text before any comparison so that surrounding
// whitespace cannot slip a duplicate past the dedup rule.
func decodeElement(raw json.RawMessage) (model.Task, bool) {
	task, ok := model.DecodeLoose(raw)
	if !ok {
		return model.Task{}, false
	}
	task.Text = strings.TrimSpace(task.Text)
	if task.Text == "" {
		return model.Task{}, false
	}
	return task, true
}
