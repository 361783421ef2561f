package session

import (
	"context"
	"maps"
	"sync"
	"time"
)

// memoryEntry holds stored values with their expiration time.
type memoryEntry struct {
	expiresAt time.Time // zero value = never expires
	values    map[string]string
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// MemoryStore keeps session values in process memory.
// Expired entries are dropped lazily on Load and in bulk by PurgeExpired.
type MemoryStore struct {
	entries map[string]memoryEntry
	now     func() time.Time
	mu      sync.RWMutex
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// Load returns a copy of the values stored for id.
func (m *MemoryStore) Load(_ context.Context, id string) (map[string]string, error) {
	if id == "" {
		return nil, ErrEmptyID
	}

	m.mu.RLock()
	e, ok := m.entries[id]
	m.mu.RUnlock()

	if !ok {
		return nil, ErrNotFound
	}
	if e.expired(m.now()) {
		m.mu.Lock()
		if cur, ok := m.entries[id]; ok && cur.expired(m.now()) {
			delete(m.entries, id)
		}
		m.mu.Unlock()
		return nil, ErrNotFound
	}

	return maps.Clone(e.values), nil
}

// Save stores a copy of values. A non-positive ttl keeps the entry until deleted.
func (m *MemoryStore) Save(_ context.Context, id string, values map[string]string, ttl time.Duration) error {
	if id == "" {
		return ErrEmptyID
	}

	e := memoryEntry{values: maps.Clone(values)}
	if e.values == nil {
		e.values = make(map[string]string)
	}
	if ttl > 0 {
		e.expiresAt = m.now().Add(ttl)
	}

	m.mu.Lock()
	m.entries[id] = e
	m.mu.Unlock()
	return nil
}

// Delete removes the entry for id.
func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	delete(m.entries, id)
	m.mu.Unlock()
	return nil
}

// PurgeExpired removes all expired entries.
func (m *MemoryStore) PurgeExpired(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	var n int64
	for id, e := range m.entries {
		if e.expired(now) {
			delete(m.entries, id)
			n++
		}
	}
	return n, nil
}

// Len returns the number of stored entries, including expired ones not yet purged.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

var (
	_ Store  = (*MemoryStore)(nil)
	_ Purger = (*MemoryStore)(nil)
)
