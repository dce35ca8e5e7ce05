package storage

import (
	"context"
	"sync"
)

// Memory is an in-process Backend for tests and ephemeral runs. Tests can
// inject transient failures with FailGets/FailSets and inspect attempt counts.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte

	failGets int
	failSets int
	failErr  error
	getCalls int
	setCalls int
}

func NewMemory() *Memory {
	return &Memory{data: map[string][]byte{}}
}

func (m *Memory) Get(ctx context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.getCalls++
	if m.failGets > 0 {
		m.failGets--
		return nil, false, m.failErr
	}
	v, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

func (m *Memory) Set(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.setCalls++
	if m.failSets > 0 {
		m.failSets--
		return m.failErr
	}
	stored := make([]byte, len(value))
	copy(stored, value)
	m.data[key] = stored
	return nil
}

func (m *Memory) Close() error { return nil }

// FailGets makes the next n Get calls fail with err and resets the Get
// attempt counter.
func (m *Memory) FailGets(n int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failGets = n
	m.failErr = err
	m.getCalls = 0
}

// FailSets makes the next n Set calls fail with err and resets the Set
// attempt counter.
func (m *Memory) FailSets(n int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failSets = n
	m.failErr = err
	m.setCalls = 0
}

// GetCalls reports Get attempts since the last FailGets.
func (m *Memory) GetCalls() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.getCalls
}

// SetCalls reports Set attempts since the last FailSets.
func (m *Memory) SetCalls() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.setCalls
}
