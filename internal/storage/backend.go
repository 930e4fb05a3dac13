package storage

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("storage: not found")

// Backend is a durable key-value store. Get returns ErrNotFound when the key
// has never been written.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Close() error
}

// Stamped is implemented by backends that track when a key was last written.
type Stamped interface {
	UpdatedAt(ctx context.Context, key string) (time.Time, error)
}
