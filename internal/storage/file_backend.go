package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FileBackend keeps one file per key under Dir.
type FileBackend struct {
	Dir string
}

func NewFileBackend(dir string) (*FileBackend, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, errors.New("storage: empty data dir")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FileBackend{Dir: dir}, nil
}

func (b *FileBackend) path(key string) string {
	return filepath.Join(b.Dir, filepath.Base(key)+".json")
}

func (b *FileBackend) Get(_ context.Context, key string) ([]byte, error) {
	raw, err := os.ReadFile(b.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return raw, nil
}

func (b *FileBackend) Put(_ context.Context, key string, value []byte) error {
	target := b.path(key)
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, value, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, target)
}

// UpdatedAt reports the modification time of the file behind key.
func (b *FileBackend) UpdatedAt(_ context.Context, key string) (time.Time, error) {
	info, err := os.Stat(b.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return time.Time{}, ErrNotFound
		}
		return time.Time{}, err
	}
	return info.ModTime().UTC(), nil
}

func (b *FileBackend) Close() error { return nil }
