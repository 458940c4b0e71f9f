package storage

import (
	"context"
	"sync"

	"trendora/internal/domain"
)

// Slots is a durable key-value area partitioned by scope. A scope is one
// client; keys are fixed names such as "trendora_favorites".
// Get returns domain.ErrNotFound when nothing was stored.
type Slots interface {
	Get(ctx context.Context, scope, key string) ([]byte, error)
	Put(ctx context.Context, scope, key string, value []byte) error
}

// Memory keeps slots in process memory. Data is lost on restart.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

var _ Slots = (*Memory)(nil)

func (m *Memory) Get(_ context.Context, scope, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[slotKey(scope, key)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (m *Memory) Put(_ context.Context, scope, key string, value []byte) error {
	v := make([]byte, len(value))
	copy(v, value)
	m.mu.Lock()
	m.data[slotKey(scope, key)] = v
	m.mu.Unlock()
	return nil
}

func slotKey(scope, key string) string {
	return scope + ":" + key
}
