package ownercache

import (
	"sync"
	"time"

	"github.com/mwalkowski/travel-notes/internal/domain/attractions"
)

type decision struct {
	allowed   bool
	expiresAt time.Time
}

// Memory memoizes note-access decisions so repeated mutations within a short
// window skip the ownership query. Entries expire passively on read;
// Invalidate drops one eagerly after an access-changing mutation.
type Memory struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]decision
	now     func() time.Time
}

// NewMemory constructs an ownership cache with the given TTL.
func NewMemory(ttl time.Duration) *Memory {
	return &Memory{
		ttl:     ttl,
		entries: make(map[string]decision),
		now:     time.Now,
	}
}

// Get implements attractions.OwnershipCache.
func (m *Memory) Get(key string) (bool, bool) {
	m.mu.RLock()
	cached, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return false, false
	}
	if !cached.expiresAt.After(m.now()) {
		m.mu.Lock()
		delete(m.entries, key)
		m.mu.Unlock()
		return false, false
	}
	return cached.allowed, true
}

// Put implements attractions.OwnershipCache.
func (m *Memory) Put(key string, allowed bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = decision{
		allowed:   allowed,
		expiresAt: m.now().Add(m.ttl),
	}
}

// Invalidate implements attractions.OwnershipCache.
func (m *Memory) Invalidate(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
}

var _ attractions.OwnershipCache = (*Memory)(nil)
