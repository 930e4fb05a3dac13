package codec

import (
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/sandeepkv93/tasklist/internal/model"
)

func sequentialIDs() model.IDGenerator {
	n := 0
	return func() string {
		n++
		return "new-" + string(rune('a'+n-1))
	}
}

func sampleTasks() []model.Task {
	return []model.Task{
		{ID: "t1", Text: "Buy milk", Points: model.IntPtr(5)},
		{ID: "t2", Text: "Write report", Completed: true, Points: model.IntPtr(20), Area: model.StringPtr("work")},
		{ID: "t3", Text: "Call mom"},
	}
}

func TestExportPrettyPrintsVerbatim(t *testing.T) {
	out, err := Export(sampleTasks()[:1])
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	want := "[\n  {\n    \"id\": \"t1\",\n    \"text\": \"Buy milk\",\n    \"completed\": false,\n    \"points\": 5\n  }\n]\n"
	if string(out) != want {
		t.Fatalf("unexpected export:\n%s", out)
	}

	empty, err := Export(nil)
	if err != nil || string(empty) != "[]\n" {
		t.Fatalf("expected empty array, got %q err=%v", empty, err)
	}
}

func TestExportFilename(t *testing.T) {
	got := ExportFilename(time.Date(2026, 10, 14, 23, 59, 0, 0, time.UTC))
	if got != "tasks-2026-10-14.json" {
		t.Fatalf("unexpected filename: %q", got)
	}
}

func TestRoundTrip(t *testing.T) {
	tasks := sampleTasks()
	doc, err := Export(tasks)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	res, err := Decode(doc, nil, sequentialIDs())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Skipped != 0 {
		t.Fatalf("unexpected skips: %d", res.Skipped)
	}
	if !reflect.DeepEqual(res.Accepted, tasks) {
		t.Fatalf("round trip mismatch:\n got %#v\nwant %#v", res.Accepted, tasks)
	}
}

func TestDecodeRejectsNonArray(t *testing.T) {
	for _, doc := range []string{`{"text":"x"}`, `"x"`, `42`, ``, `[{"text":`, `null`} {
		_, err := Decode([]byte(doc), sampleTasks(), nil)
		var fe *ImportFormatError
		if !errors.As(err, &fe) {
			t.Fatalf("Decode(%q): expected ImportFormatError, got %v", doc, err)
		}
	}
}

func TestDecodeDeduplicates(t *testing.T) {
	existing := sampleTasks()
	doc := `[
		{"id":"other","text":"Buy milk"},
		{"id":"t3","text":"Something new but same id"},
		{"id":"fresh","text":"Fresh task"},
		{"id":"fresh2","text":"Fresh task"}
	]`
	res, err := Decode([]byte(doc), existing, nil)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Skipped != 3 || len(res.Accepted) != 1 || res.Accepted[0].ID != "fresh" {
		t.Fatalf("unexpected dedup result: %+v", res)
	}
}

func TestDecodeSkipsMalformedElements(t *testing.T) {
	doc := `[
		{"id":"a"},
		{"id":"b","text":42},
		{"id":"c","text":""},
		"just a string",
		null,
		{"text":"kept"}
	]`
	res, err := Decode([]byte(doc), nil, sequentialIDs())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Skipped != 5 || len(res.Accepted) != 1 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res.Accepted[0].ID != "new-a" {
		t.Fatalf("expected generated id, got %q", res.Accepted[0].ID)
	}
}

func TestDecodeCoercesFields(t *testing.T) {
	doc := `[
		{"id":"a","text":"one","completed":"yes","points":8,"area":"home"},
		{"id":"b","text":"two","completed":0,"points":2.5},
		{"id":"c","text":"three","completed":1,"points":null,"area":7},
		{"id":"d","text":"four","points":0}
	]`
	res, err := Decode([]byte(doc), nil, nil)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	got := res.Accepted
	if len(got) != 4 {
		t.Fatalf("expected 4 accepted, got %+v", res)
	}
	if !got[0].Completed || got[0].Points == nil || *got[0].Points != 8 || got[0].AreaValue() != "home" {
		t.Fatalf("unexpected first task: %+v", got[0])
	}
	if got[1].Completed || got[1].Points != nil {
		t.Fatalf("fractional points should be dropped: %+v", got[1])
	}
	if !got[2].Completed || got[2].Points != nil || got[2].Area != nil {
		t.Fatalf("unexpected third task: %+v", got[2])
	}
	if got[3].Points == nil || *got[3].Points != 0 {
		t.Fatalf("explicit zero points should survive: %+v", got[3])
	}
}

func TestSummary(t *testing.T) {
	if s := (ImportResult{}).Summary(); s != "No new tasks to import" {
		t.Fatalf("unexpected summary: %q", s)
	}
	s := ImportResult{Accepted: make([]model.Task, 2), Skipped: 1}.Summary()
	if !strings.HasPrefix(s, "Imported 2 tasks") || !strings.Contains(s, "1 skipped") {
		t.Fatalf("unexpected summary: %q", s)
	}
}

func TestDecodeTrimsTextBeforeDedup(t *testing.T) {
	doc := `[
		{"id":"x1","text":" Buy milk"},
		{"id":"x2","text":"Buy milk "},
		{"id":"x3","text":"  Fresh  "},
		{"id":"x4","text":"Fresh"},
		{"id":"x5","text":"   "}
	]`
	res, err := Decode([]byte(doc), sampleTasks(), nil)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Skipped != 4 || len(res.Accepted) != 1 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res.Accepted[0].ID != "x3" || res.Accepted[0].Text != "Fresh" {
		t.Fatalf("expected trimmed text, got %+v", res.Accepted[0])
	}
}

func TestDecodeKeepsTimestamps(t *testing.T) {
	doc := `[
		{"id":"a","text":"one","completed":true,"createdAt":"2024-03-01T10:00:00.000Z","completedAt":"2024-03-02T11:30:00.250+02:00"},
		{"id":"b","text":"two","createdAt":"last tuesday","completedAt":null}
	]`
	res, err := Decode([]byte(doc), nil, nil)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	first := res.Accepted[0]
	if first.CreatedAt == nil || !first.CreatedAt.Equal(time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected createdAt: %v", first.CreatedAt)
	}
	if first.CompletedAt == nil || !first.CompletedAt.Equal(time.Date(2024, 3, 2, 9, 30, 0, 250e6, time.UTC)) {
		t.Fatalf("unexpected completedAt: %v", first.CompletedAt)
	}
	if second := res.Accepted[1]; second.CreatedAt != nil || second.CompletedAt != nil {
		t.Fatalf("unparseable timestamps should be absent: %+v", second)
	}
}
