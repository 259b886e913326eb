package quota

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	count   int64
	expires time.Time
}

// MemoryCounter is an in-process Counter. Counts vanish on restart and
// are not shared between replicas, which suits single-node deployments
// and tests.
type MemoryCounter struct {
	mu      sync.Mutex
	entries map[string]*memoryEntry
}

// NewMemoryCounter builds an empty in-process counter.
func NewMemoryCounter() *MemoryCounter {
	return &MemoryCounter{entries: make(map[string]*memoryEntry)}
}

// Incr atomically increments key and returns the new count.
func (m *MemoryCounter) Incr(_ context.Context, key string, ttl time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.prune()
	entry, ok := m.entries[key]
	if !ok {
		entry = &memoryEntry{expires: time.Now().Add(ttl)}
		m.entries[key] = entry
	}
	entry.count++
	return entry.count, nil
}

// Get returns the current count for key, zero if absent or expired.
func (m *MemoryCounter) Get(_ context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[key]
	if !ok || time.Now().After(entry.expires) {
		return 0, nil
	}
	return entry.count, nil
}

// prune drops expired windows. Callers must hold mu.
func (m *MemoryCounter) prune() {
	now := time.Now()
	for key, entry := range m.entries {
		if now.After(entry.expires) {
			delete(m.entries, key)
		}
	}
}
