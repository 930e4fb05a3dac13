package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sandeepkv93/tasklist/internal/model"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand("test")
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := run(t, args...)
	if err != nil {
		t.Fatalf("tasklist %s: %v", strings.Join(args, " "), err)
	}
	return out
}

func fileHome(t *testing.T) {
	t.Helper()
	t.Setenv("TASKLIST_HOME", t.TempDir())
	t.Setenv("TASKLIST_BACKEND", "file")
}

func TestAddListToggleStats(t *testing.T) {
	fileHome(t)
	mustRun(t, "add", "Buy", "milk")
	mustRun(t, "add", "Write report", "--points", "3", "--area", "work")
	mustRun(t, "add", "Old chore", "--done", "--points", "2")

	out := mustRun(t, "list")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 rows, got:\n%s", out)
	}
	if !strings.Contains(lines[0], "1. [ ] Buy milk") || !strings.HasSuffix(lines[0], "added just now") {
		t.Fatalf("unexpected first row: %q", lines[0])
	}
	if !strings.Contains(lines[1], "(3 pts) @work") {
		t.Fatalf("unexpected second row: %q", lines[1])
	}
	if !strings.Contains(lines[2], "[x] Old chore") || !strings.HasSuffix(lines[2], "done just now") {
		t.Fatalf("unexpected third row: %q", lines[2])
	}

	mustRun(t, "toggle", "2")
	out = mustRun(t, "stats")
	if !strings.Contains(out, "completed: 2 / 3") || !strings.Contains(out, "5 / 5") {
		t.Fatalf("unexpected stats:\n%s", out)
	}
	if !strings.Contains(out, "saved:     just now") {
		t.Fatalf("expected save time in stats:\n%s", out)
	}
}

func TestStatsBeforeFirstSave(t *testing.T) {
	fileHome(t)
	out := mustRun(t, "stats")
	if !strings.Contains(out, "completed: 0 / 0") || !strings.Contains(out, "saved:     never") {
		t.Fatalf("unexpected stats:\n%s", out)
	}
}

func TestFormatRowAge(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	created := now.Add(-3 * time.Hour)
	done := now.Add(-5 * time.Minute)
	cases := []struct {
		name string
		task model.Task
		want string
	}{
		{"active", model.Task{ID: "a", Text: "x", CreatedAt: &created}, "  a  added 3h ago"},
		{"completed", model.Task{ID: "b", Text: "x", Completed: true, CreatedAt: &created, CompletedAt: &done}, "  b  done 5m ago"},
		{"no stamps", model.Task{ID: "c", Text: "x"}, "[ ] x  c"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := formatRow(1, tc.task, now); !strings.HasSuffix(got, tc.want) {
				t.Fatalf("formatRow = %q, want suffix %q", got, tc.want)
			}
		})
	}
}

func TestListFilters(t *testing.T) {
	fileHome(t)
	mustRun(t, "add", "Buy milk", "--area", "Home")
	mustRun(t, "add", "Write report", "--points", "8", "--area", "work")
	mustRun(t, "add", "Fix sink", "--points", "2", "--area", "home")

	out := mustRun(t, "list", "--area", " HOME ")
	if strings.Count(out, "\n") != 2 || strings.Contains(out, "report") {
		t.Fatalf("area filter:\n%s", out)
	}
	out = mustRun(t, "list", "--min-points", "5")
	if strings.TrimSpace(out) == "" || !strings.Contains(out, "Write report") || strings.Contains(out, "sink") {
		t.Fatalf("min points filter:\n%s", out)
	}
	out = mustRun(t, "list", "--search", "nothing here")
	if strings.TrimSpace(out) != "No tasks found" {
		t.Fatalf("expected no-results message, got %q", out)
	}

	out = mustRun(t, "list", "--json", "--search", "MILK")
	var rows []map[string]any
	if err := json.Unmarshal([]byte(out), &rows); err != nil {
		t.Fatalf("decode json list: %v\n%s", err, out)
	}
	if len(rows) != 1 || rows[0]["text"] != "Buy milk" || rows[0]["points"] != nil {
		t.Fatalf("unexpected json rows: %+v", rows)
	}
}

func TestEmptyListMessage(t *testing.T) {
	fileHome(t)
	if out := mustRun(t, "list"); strings.TrimSpace(out) != "No tasks yet" {
		t.Fatalf("unexpected output for empty store: %q", out)
	}
}

func TestMoveAndRemove(t *testing.T) {
	fileHome(t)
	for _, text := range []string{"A", "B", "C"} {
		mustRun(t, "add", text)
	}
	mustRun(t, "mv", "3", "1")
	mustRun(t, "mv", "2", "3")
	out := mustRun(t, "list")
	order := make([]string, 0, 3)
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		fields := strings.Fields(line)
		order = append(order, fields[3])
	}
	if got := strings.Join(order, ","); got != "C,B,A" {
		t.Fatalf("unexpected order %s:\n%s", got, out)
	}

	if _, err := run(t, "mv", "1", "9"); err == nil {
		t.Fatal("expected out of range move to fail")
	}

	mustRun(t, "rm", "1")
	if out := mustRun(t, "list"); strings.Contains(out, " C ") || strings.Count(out, "\n") != 2 {
		t.Fatalf("unexpected list after rm:\n%s", out)
	}
	if _, err := run(t, "rm", "no-such-id"); err == nil {
		t.Fatal("expected unknown id to fail")
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	fileHome(t)
	mustRun(t, "add", "Keep me", "--points", "4")
	mustRun(t, "add", "Done already", "--done")
	path := filepath.Join(t.TempDir(), "backup.json")
	mustRun(t, "export", "--out", path)

	body, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if !strings.HasPrefix(string(body), "[\n  {") {
		t.Fatalf("expected pretty-printed array, got:\n%s", body)
	}

	if out := mustRun(t, "import", path); strings.TrimSpace(out) != "No new tasks to import" {
		t.Fatalf("expected duplicate import to add nothing, got %q", out)
	}

	t.Setenv("TASKLIST_HOME", t.TempDir())
	if out := mustRun(t, "import", path); strings.TrimSpace(out) != "Imported 2 tasks successfully!" {
		t.Fatalf("unexpected import summary %q", out)
	}
	out := mustRun(t, "list", "--completed")
	if !strings.Contains(out, "Done already") || strings.Contains(out, "Keep me") {
		t.Fatalf("unexpected completed list:\n%s", out)
	}

	bad := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(bad, []byte(`{"text":"x"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := run(t, "import", bad); err == nil {
		t.Fatal("expected malformed import to fail")
	}
}

func TestSQLiteBackendFlags(t *testing.T) {
	t.Setenv("TASKLIST_HOME", t.TempDir())
	db := filepath.Join(t.TempDir(), "tasks.db")
	mustRun(t, "--backend", "sqlite", "--db", db, "add", "Persist me")
	out := mustRun(t, "--backend", "sqlite", "--db", db, "list")
	if !strings.Contains(out, "Persist me") {
		t.Fatalf("expected task stored in sqlite, got:\n%s", out)
	}
	if _, err := os.Stat(db); err != nil {
		t.Fatalf("expected db file: %v", err)
	}
}

func TestUnknownBackendFails(t *testing.T) {
	t.Setenv("TASKLIST_HOME", t.TempDir())
	if _, err := run(t, "--backend", "redis", "list"); err == nil {
		t.Fatal("expected unknown backend error")
	}
}

func TestConfigInitAndShow(t *testing.T) {
	t.Setenv("TASKLIST_HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "config.yaml")
	mustRun(t, "--config", path, "config", "init")
	if _, err := run(t, "--config", path, "config", "init"); err == nil {
		t.Fatal("expected second init without --force to fail")
	}
	mustRun(t, "--config", path, "config", "init", "--force")

	out := mustRun(t, "--config", path, "--backend", "memory", "config", "show")
	if !strings.Contains(out, "backend: memory") || !strings.Contains(out, "key: taskListApp_tasks") {
		t.Fatalf("unexpected config output:\n%s", out)
	}
}

func TestVersion(t *testing.T) {
	if out := mustRun(t, "version"); strings.TrimSpace(out) != "tasklist test" {
		t.Fatalf("unexpected version output %q", out)
	}
}
