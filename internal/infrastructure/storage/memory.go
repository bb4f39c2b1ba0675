package storage

import (
	"context"
	"sync"
)

// MemoryBackend keeps documents in a map. Used for tests and ephemeral profiles.
type MemoryBackend struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{data: make(map[string][]byte)}
}

func (b *MemoryBackend) Read(_ context.Context, key string) ([]byte, bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	v, ok := b.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (b *MemoryBackend) Write(_ context.Context, key string, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.data[key] = append([]byte(nil), data...)
	return nil
}

func (b *MemoryBackend) Usage(_ context.Context) (int64, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var total int64
	for _, v := range b.data {
		total += int64(len(v))
	}
	return total, nil
}

func (b *MemoryBackend) Close() error { return nil }
