package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sandeepkv93/tasklist/internal/model"
)

const DefaultKey = "taskListApp_tasks"

var ErrNotArray = errors.New("storage: stored document is not an array")

// PersistenceError reports a failed read or write of the task document.
type PersistenceError struct {
	Op  string
	Key string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("storage: %s %s: %v", e.Op, e.Key, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// LoadReport counts the records Load had to repair or drop. Coerced records
// had badly typed fields that were dropped or converted; Unreadable ones
// were not task objects at all.
type LoadReport struct {
	Loaded       int
	AssignedIDs  int
	DuplicateIDs int
	EmptyText    int
	Coerced      int
	Unreadable   int
}

func (r LoadReport) Repaired() bool {
	return r.AssignedIDs > 0 || r.DuplicateIDs > 0 || r.EmptyText > 0 || r.Coerced > 0 || r.Unreadable > 0
}

// Adapter stores the whole ordered task sequence as one JSON array under a
// fixed key.
type Adapter struct {
	backend Backend
	key     string
	newID   model.IDGenerator
}

func NewAdapter(backend Backend, key string, gen model.IDGenerator) *Adapter {
	if strings.TrimSpace(key) == "" {
		key = DefaultKey
	}
	if gen == nil {
		gen = model.NewULID
	}
	return &Adapter{backend: backend, key: key, newID: gen}
}

func (a *Adapter) Key() string { return a.key }

func (a *Adapter) Save(ctx context.Context, tasks []model.Task) error {
	if tasks == nil {
		tasks = []model.Task{}
	}
	payload, err := json.Marshal(tasks)
	if err != nil {
		return &PersistenceError{Op: "save", Key: a.key, Err: err}
	}
	if err := a.backend.Put(ctx, a.key, payload); err != nil {
		return &PersistenceError{Op: "save", Key: a.key, Err: err}
	}
	return nil
}

// Load returns an empty sequence when nothing was ever saved. A document that
// does not parse as an array of tasks yields a *PersistenceError.
func (a *Adapter) Load(ctx context.Context) ([]model.Task, LoadReport, error) {
	raw, err := a.backend.Get(ctx, a.key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return []model.Task{}, LoadReport{}, nil
		}
		return nil, LoadReport{}, &PersistenceError{Op: "load", Key: a.key, Err: err}
	}
	if strings.TrimSpace(string(raw)) == "" {
		return []model.Task{}, LoadReport{}, nil
	}
	var probe any
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, LoadReport{}, &PersistenceError{Op: "load", Key: a.key, Err: err}
	}
	if _, ok := probe.([]any); !ok {
		return nil, LoadReport{}, &PersistenceError{Op: "load", Key: a.key, Err: ErrNotArray}
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil, LoadReport{}, &PersistenceError{Op: "load", Key: a.key, Err: err}
	}
	stored, report := decodeRecords(elems)
	tasks := a.normalize(stored, &report)
	return tasks, report, nil
}

// decodeRecords decodes each element on its own so one badly typed field
// does not cost the whole document.
func decodeRecords(elems []json.RawMessage) ([]model.Task, LoadReport) {
	var report LoadReport
	out := make([]model.Task, 0, len(elems))
	for _, raw := range elems {
		var task model.Task
		if err := json.Unmarshal(raw, &task); err == nil {
			out = append(out, task)
			continue
		}
		task, ok := model.DecodeLoose(raw)
		if !ok {
			report.Unreadable++
			continue
		}
		report.Coerced++
		out = append(out, task)
	}
	return out, report
}

func (a *Adapter) normalize(in []model.Task, report *LoadReport) []model.Task {
	out := make([]model.Task, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, task := range in {
		task.Text = strings.TrimSpace(task.Text)
		task.CreatedAt = model.TimePtr(task.CreatedAt)
		task.CompletedAt = model.TimePtr(task.CompletedAt)
		if !task.Completed {
			task.CompletedAt = nil
		}
		if task.Text == "" {
			report.EmptyText++
			continue
		}
		if strings.TrimSpace(task.ID) == "" {
			task.ID = a.newID()
			report.AssignedIDs++
		}
		if seen[task.ID] {
			report.DuplicateIDs++
			continue
		}
		seen[task.ID] = true
		out = append(out, task)
	}
	report.Loaded = len(out)
	return out
}

// LastSaved reports when the task list was last written. ok is false when
// the backend does not track write times or nothing has been saved yet.
func (a *Adapter) LastSaved(ctx context.Context) (at time.Time, ok bool, err error) {
	stamped, isStamped := a.backend.(Stamped)
	if !isStamped {
		return time.Time{}, false, nil
	}
	at, err = stamped.UpdatedAt(ctx, a.key)
	if errors.Is(err, ErrNotFound) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, &PersistenceError{Op: "stat", Key: a.key, Err: err}
	}
	return at, true, nil
}

func (a *Adapter) Close() error {
	return a.backend.Close()
}
