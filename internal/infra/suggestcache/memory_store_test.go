package suggestcache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mwalkowski/travel-notes/internal/domain/attractions"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore(15 * time.Minute)
	payload := []attractions.Suggestion{{Name: "Wawel Castle", EstimatedPrice: "Free entry"}}

	require.NoError(t, store.Put(context.Background(), "note-1:user-1", payload))

	cached, ok, err := store.Get(context.Background(), "note-1:user-1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, payload, cached)

	_, ok, err = store.Get(context.Background(), "note-1:someone-else")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMemoryStoreExpiry(t *testing.T) {
	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store := NewMemoryStore(15 * time.Minute)
	store.now = func() time.Time { return current }

	require.NoError(t, store.Put(context.Background(), "note-1:user-1", []attractions.Suggestion{{Name: "Wawel Castle"}}))

	current = current.Add(14 * time.Minute)
	_, ok, err := store.Get(context.Background(), "note-1:user-1")
	require.NoError(t, err)
	require.True(t, ok)

	current = current.Add(time.Minute)
	_, ok, err = store.Get(context.Background(), "note-1:user-1")
	require.NoError(t, err)
	require.False(t, ok)

	// The expired entry is gone, not just hidden.
	store.mu.RLock()
	_, present := store.entries["note-1:user-1"]
	store.mu.RUnlock()
	require.False(t, present)
}
