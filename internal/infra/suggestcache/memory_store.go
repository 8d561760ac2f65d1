package suggestcache

import (
	"context"
	"sync"
	"time"

	"github.com/mwalkowski/travel-notes/internal/domain/attractions"
)

type entry struct {
	payload   []attractions.Suggestion
	expiresAt time.Time
}

// MemoryStore is the in-process suggestion cache. Expiry is passive: an
// expired entry is treated as absent on read and removed.
type MemoryStore struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]entry
	now     func() time.Time
}

// NewMemoryStore constructs a cache holding entries for ttl.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:     ttl,
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Get implements attractions.SuggestionCache.
func (s *MemoryStore) Get(_ context.Context, key string) ([]attractions.Suggestion, bool, error) {
	s.mu.RLock()
	cached, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if !cached.expiresAt.After(s.now()) {
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		return nil, false, nil
	}
	return cached.payload, true, nil
}

// Put implements attractions.SuggestionCache.
func (s *MemoryStore) Put(_ context.Context, key string, suggestions []attractions.Suggestion) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = entry{
		payload:   suggestions,
		expiresAt: s.now().Add(s.ttl),
	}
	return nil
}

var _ attractions.SuggestionCache = (*MemoryStore)(nil)
