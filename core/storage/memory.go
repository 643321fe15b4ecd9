package storage

import (
	"context"
	"sync"
)

// MemoryMedium is an in-process Medium for tests and ephemeral runs.
type MemoryMedium struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryMedium() *MemoryMedium {
	return &MemoryMedium{values: map[string]string{}}
}

func (m *MemoryMedium) Get(ctx context.Context, key string) (string, bool, error) {
	_ = ctx
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryMedium) Set(ctx context.Context, key, value string) error {
	_ = ctx
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *MemoryMedium) Delete(ctx context.Context, key string) error {
	_ = ctx
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

func (m *MemoryMedium) UsedBytes(ctx context.Context) (int64, error) {
	_ = ctx
	m.mu.RLock()
	defer m.mu.RUnlock()
	var used int64
	for _, v := range m.values {
		used += int64(len(v))
	}
	return used, nil
}

func (m *MemoryMedium) Close() error {
	return nil
}
