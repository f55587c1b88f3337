package storage

import (
	"context"
	"sync"
)

type MemoryAdapter struct {
	mu      sync.RWMutex
	entries map[string]string
}

func NewMemoryAdapter() *MemoryAdapter {
	return &MemoryAdapter{entries: make(map[string]string)}
}

func (m *MemoryAdapter) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.entries[key]
	return value, ok, nil
}

func (m *MemoryAdapter) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = value
	return nil
}

func (m *MemoryAdapter) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}
