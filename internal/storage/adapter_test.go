package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sandeepkv93/tasklist/internal/model"
)

func counterIDs() model.IDGenerator {
	n := 0
	return func() string {
		n++
		return "gen-" + string(rune('0'+n))
	}
}

func TestAdapterLoadAbsentIsEmpty(t *testing.T) {
	a := NewAdapter(NewMemoryBackend(), "", nil)
	if a.Key() != DefaultKey {
		t.Fatalf("expected default key, got %q", a.Key())
	}
	tasks, report, err := a.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if tasks == nil || len(tasks) != 0 || report.Repaired() {
		t.Fatalf("expected empty non-nil slice, got %#v %+v", tasks, report)
	}
}

func TestAdapterSaveLoadPreservesOrderAndFields(t *testing.T) {
	ctx := context.Background()
	a := NewAdapter(NewMemoryBackend(), DefaultKey, nil)
	in := []model.Task{
		{ID: "c", Text: "third", Points: model.IntPtr(3)},
		{ID: "a", Text: "first", Completed: true, Area: model.StringPtr("home")},
		{ID: "b", Text: "second"},
	}
	if err := a.Save(ctx, in); err != nil {
		t.Fatalf("save: %v", err)
	}
	out, _, err := a.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(out) != 3 || out[0].ID != "c" || out[1].ID != "a" || out[2].ID != "b" {
		t.Fatalf("order not preserved: %#v", out)
	}
	if out[0].Points == nil || *out[0].Points != 3 || out[2].Points != nil {
		t.Fatalf("points not preserved: %#v", out)
	}
	if !out[1].Completed || out[1].AreaValue() != "home" {
		t.Fatalf("fields not preserved: %#v", out[1])
	}
}

func TestAdapterLoadMalformed(t *testing.T) {
	cases := map[string]string{
		"not json":  `{oops`,
		"object":    `{"id":"a","text":"x"}`,
		"string":    `"tasks"`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			backend := NewMemoryBackend()
			_ = backend.Put(context.Background(), DefaultKey, []byte(doc))
			_, _, err := NewAdapter(backend, DefaultKey, nil).Load(context.Background())
			var pe *PersistenceError
			if !errors.As(err, &pe) || pe.Op != "load" {
				t.Fatalf("expected load PersistenceError, got %v", err)
			}
		})
	}
}

func TestAdapterLoadNormalizes(t *testing.T) {
	backend := NewMemoryBackend()
	doc := `[
		{"id":"a","text":"one"},
		{"text":"no id"},
		{"id":"a","text":"dup id"},
		{"id":"b","text":"   "}
	]`
	_ = backend.Put(context.Background(), DefaultKey, []byte(doc))
	tasks, report, err := NewAdapter(backend, DefaultKey, counterIDs()).Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(tasks) != 2 || tasks[0].ID != "a" || tasks[1].ID != "gen-1" {
		t.Fatalf("unexpected normalized tasks: %#v", tasks)
	}
	if report.AssignedIDs != 1 || report.DuplicateIDs != 1 || report.EmptyText != 1 || report.Loaded != 2 {
		t.Fatalf("unexpected report: %+v", report)
	}
	if !report.Repaired() {
		t.Fatal("expected repaired report")
	}
}

func TestAdapterLoadCoercesBadlyTypedRecords(t *testing.T) {
	backend := NewMemoryBackend()
	doc := `[
		{"id":"a","text":"keep me","completed":"yes","points":"five","area":7},
		{"id":"b","text":"clean","points":3},
		42,
		{"id":"c","text":["not","text"]},
		{"id":"d","text":"bad stamp","createdAt":"yesterday"}
	]`
	_ = backend.Put(context.Background(), DefaultKey, []byte(doc))
	tasks, report, err := NewAdapter(backend, DefaultKey, counterIDs()).Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(tasks) != 3 || tasks[0].ID != "a" || tasks[1].ID != "b" || tasks[2].ID != "d" {
		t.Fatalf("unexpected tasks: %#v", tasks)
	}
	if !tasks[0].Completed || tasks[0].Points != nil || tasks[0].Area != nil {
		t.Fatalf("expected coerced fields, got %#v", tasks[0])
	}
	if tasks[1].Points == nil || *tasks[1].Points != 3 {
		t.Fatalf("clean record changed: %#v", tasks[1])
	}
	if tasks[2].CreatedAt != nil {
		t.Fatalf("expected unparseable stamp dropped, got %v", tasks[2].CreatedAt)
	}
	if report.Coerced != 2 || report.Unreadable != 2 || report.Loaded != 3 || !report.Repaired() {
		t.Fatalf("unexpected report: %+v", report)
	}
}

func TestAdapterLoadTrimsTextAndDropsStaleCompletion(t *testing.T) {
	backend := NewMemoryBackend()
	doc := `[
		{"id":"a","text":"  padded  ","completed":false,"completedAt":"2024-05-01T10:00:00Z"},
		{"id":"b","text":"done","completed":true,"completedAt":"2024-05-01T12:00:00+02:00"}
	]`
	_ = backend.Put(context.Background(), DefaultKey, []byte(doc))
	tasks, _, err := NewAdapter(backend, DefaultKey, nil).Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if tasks[0].Text != "padded" || tasks[0].CompletedAt != nil {
		t.Fatalf("unexpected first task: %#v", tasks[0])
	}
	want := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	if tasks[1].CompletedAt == nil || !tasks[1].CompletedAt.Equal(want) || tasks[1].CompletedAt.Location() != time.UTC {
		t.Fatalf("unexpected completedAt: %v", tasks[1].CompletedAt)
	}
}

func TestAdapterSaveFailure(t *testing.T) {
	backend := NewMemoryBackend()
	backend.FailPut = ErrQuotaExceeded
	err := NewAdapter(backend, DefaultKey, nil).Save(context.Background(), []model.Task{{ID: "a", Text: "x"}})
	var pe *PersistenceError
	if !errors.As(err, &pe) || pe.Op != "save" {
		t.Fatalf("expected save PersistenceError, got %v", err)
	}
	if !errors.Is(err, ErrQuotaExceeded) {
		t.Fatalf("expected wrapped quota error, got %v", err)
	}
}

func TestAdapterSaveNilWritesEmptyArray(t *testing.T) {
	backend := NewMemoryBackend()
	if err := NewAdapter(backend, DefaultKey, nil).Save(context.Background(), nil); err != nil {
		t.Fatalf("save: %v", err)
	}
	raw, _ := backend.Get(context.Background(), DefaultKey)
	if string(raw) != "[]" {
		t.Fatalf("expected [], got %q", raw)
	}
}
