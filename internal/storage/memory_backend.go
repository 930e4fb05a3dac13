package storage

import (
	"context"
	"errors"
)

var ErrQuotaExceeded = errors.New("storage: quota exceeded")

// MemoryBackend is an in-process Backend. Setting FailPut makes every write
// fail, which is how tests simulate a full or unavailable store.
type MemoryBackend struct {
	data    map[string][]byte
	FailPut error
	Puts    int
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{data: make(map[string][]byte)}
}

func (b *MemoryBackend) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := b.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (b *MemoryBackend) Put(_ context.Context, key string, value []byte) error {
	if b.FailPut != nil {
		return b.FailPut
	}
	b.data[key] = append([]byte(nil), value...)
	b.Puts++
	return nil
}

func (b *MemoryBackend) Close() error { return nil }
