package logging

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]log.Level{
		"debug":  log.DebugLevel,
		" WARN ": log.WarnLevel,
		"error":  log.ErrorLevel,
		"bogus":  log.InfoLevel,
		"":       log.InfoLevel,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "warn")
	logger.Info("hidden")
	logger.Warn("save failed", "key", "taskListApp_tasks")
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info should be filtered at warn level: %q", out)
	}
	if !strings.Contains(out, "save failed") || !strings.Contains(out, "taskListApp_tasks") {
		t.Fatalf("expected warn line with key, got %q", out)
	}
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "tasklist.log")
	logger, closer, err := OpenFile(path, "info")
	if err != nil {
		t.Fatalf("open log file: %v", err)
	}
	logger.Info("started")
	if err := closer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}
