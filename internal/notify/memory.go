package notify

import (
	"context"
	"sync"
)

// MemoryNotifier records signals in memory (dev/test use).
type MemoryNotifier struct {
	mu     sync.RWMutex
	events []Event
}

func NewMemoryNotifier() *MemoryNotifier {
	return &MemoryNotifier{events: make([]Event, 0)}
}

func (m *MemoryNotifier) Notify(ctx context.Context, ev Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, ev)
}

// Events returns a copy of everything recorded so far.
func (m *MemoryNotifier) Events() []Event {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Event, len(m.events))
	copy(out, m.events)
	return out
}

func (m *MemoryNotifier) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = m.events[:0]
}
