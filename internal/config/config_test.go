package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	t.Setenv("TASKLIST_HOME", "/tmp/tl-home")
	cfg := Default()
	if cfg.Storage.Backend != BackendSQLite || cfg.Storage.Key != "taskListApp_tasks" {
		t.Fatalf("unexpected storage defaults: %+v", cfg.Storage)
	}
	if cfg.Storage.DBPath != filepath.Join("/tmp/tl-home", "tasklist.db") {
		t.Fatalf("unexpected db path: %q", cfg.Storage.DBPath)
	}
	if cfg.IDFormat != "ulid" || cfg.LogLevel != "info" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("TASKLIST_BACKEND", "FILE")
	t.Setenv("TASKLIST_DATA_DIR", "state/data")
	t.Setenv("TASKLIST_STORAGE_KEY", "custom_key")
	t.Setenv("TASKLIST_ID_FORMAT", "uuid")
	t.Setenv("TASKLIST_LOG_LEVEL", "DEBUG")
	t.Setenv("TASKLIST_DESKTOP_NOTIFICATIONS", "true")

	cfg := FromEnv(Default())
	if cfg.Storage.Backend != BackendFile || cfg.Storage.DataDir != "state/data" {
		t.Fatalf("unexpected storage overrides: %+v", cfg.Storage)
	}
	if cfg.Storage.Key != "custom_key" || cfg.IDFormat != "uuid" || cfg.LogLevel != "debug" {
		t.Fatalf("unexpected overrides: %+v", cfg)
	}
	if !cfg.DesktopNotifications {
		t.Fatal("expected desktop notifications enabled")
	}
}

func TestInvalidBoolEnvIsIgnored(t *testing.T) {
	t.Setenv("TASKLIST_DESKTOP_NOTIFICATIONS", "sometimes")
	if FromEnv(Default()).DesktopNotifications {
		t.Fatal("expected unparsable bool to keep the default")
	}
}

func TestLoadFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "storage:\n  backend: file\n  data_dir: /var/tl\nid_format: uuid\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("TASKLIST_DATA_DIR", "/override")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Storage.Backend != BackendFile || cfg.IDFormat != "uuid" {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.Storage.DataDir != "/override" {
		t.Fatalf("env should override file, got %q", cfg.Storage.DataDir)
	}
	if cfg.Storage.Key != "taskListApp_tasks" {
		t.Fatalf("default key lost: %q", cfg.Storage.Key)
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("TASKLIST_HOME", t.TempDir())
	if _, err := Load(""); err != nil {
		t.Fatalf("missing default config should not fail: %v", err)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing explicit config")
	}
}

func TestValidateRejectsUnknownValues(t *testing.T) {
	cfg := Default()
	cfg.Storage.Backend = "redis"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected unknown backend error")
	}
	cfg = Default()
	cfg.IDFormat = "snowflake"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected unknown id format error")
	}
}

func TestWriteDefaultRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	want := Default()
	want.Storage.Backend = BackendFile
	if err := WriteDefault(path, want); err != nil {
		t.Fatalf("write default: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("load written config: %v", err)
	}
	if got.Storage.Backend != BackendFile {
		t.Fatalf("unexpected backend after round trip: %+v", got.Storage)
	}
}
