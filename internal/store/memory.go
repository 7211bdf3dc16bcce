package store

import (
	"context"
	"maps"
	"sync"
)

// Memory is a non-durable KV used by tests and dry runs.
type Memory struct {
	mu   sync.Mutex
	data map[string][]byte
}

var _ Repository = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

func (m *Memory) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.data[key]
	if !ok {
		return nil, ErrRecordNotFound
	}
	return append([]byte(nil), v...), nil
}

func (m *Memory) Set(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *Memory) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.data, key)
	return nil
}

// Update stages writes on a copy and swaps it in only when fn succeeds.
func (m *Memory) Update(ctx context.Context, fn func(KV) error) error {
	m.mu.Lock()
	staged := &Memory{data: maps.Clone(m.data)}
	m.mu.Unlock()

	if err := fn(staged); err != nil {
		return err
	}

	m.mu.Lock()
	m.data = staged.data
	m.mu.Unlock()
	return nil
}

func (m *Memory) View(ctx context.Context, fn func(KV) error) error {
	m.mu.Lock()
	view := &Memory{data: maps.Clone(m.data)}
	m.mu.Unlock()

	return fn(view)
}

func (m *Memory) Close() error { return nil }
