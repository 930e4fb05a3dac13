package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sandeepkv93/tasklist/internal/config"
)

// Open returns the backend selected by cfg.
func Open(cfg config.Storage) (Backend, error) {
	switch cfg.Backend {
	case config.BackendSQLite, "":
		if dir := filepath.Dir(cfg.DBPath); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create db dir: %w", err)
			}
		}
		return OpenSQLite(cfg.DBPath)
	case config.BackendFile:
		return NewFileBackend(cfg.DataDir)
	case config.BackendMemory:
		return NewMemoryBackend(), nil
	default:
		return nil, fmt.Errorf("storage: unknown backend %q", cfg.Backend)
	}
}
