package suggestcache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/mwalkowski/travel-notes/internal/domain/attractions"
)

// ValkeyStore shares the suggestion cache across instances through a
// Valkey-compatible database. TTL enforcement is delegated to the server.
type ValkeyStore struct {
	client valkey.Client
	prefix string
	ttl    time.Duration
}

// NewValkeyStore constructs a store backed by Valkey.
func NewValkeyStore(client valkey.Client, prefix string, ttl time.Duration) *ValkeyStore {
	if prefix == "" {
		prefix = "suggestions"
	}
	return &ValkeyStore{client: client, prefix: prefix, ttl: ttl}
}

// Get implements attractions.SuggestionCache.
func (s *ValkeyStore) Get(ctx context.Context, key string) ([]attractions.Suggestion, bool, error) {
	cmd := s.client.B().Get().Key(s.entryKey(key)).Build()
	payload, err := s.client.Do(ctx, cmd).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	var suggestions []attractions.Suggestion
	if err := json.Unmarshal([]byte(payload), &suggestions); err != nil {
		return nil, false, err
	}
	return suggestions, true, nil
}

// Put implements attractions.SuggestionCache.
func (s *ValkeyStore) Put(ctx context.Context, key string, suggestions []attractions.Suggestion) error {
	payload, err := json.Marshal(suggestions)
	if err != nil {
		return err
	}
	ttl := s.ttl
	if ttl < time.Second {
		ttl = time.Second
	}
	cmd := s.client.B().Set().Key(s.entryKey(key)).Value(string(payload)).Ex(ttl).Build()
	return s.client.Do(ctx, cmd).Error()
}

func (s *ValkeyStore) entryKey(key string) string {
	return s.prefix + ":" + key
}

var _ attractions.SuggestionCache = (*ValkeyStore)(nil)
