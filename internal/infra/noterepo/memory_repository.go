package noterepo

import (
	"context"
	"sync"

	"github.com/mwalkowski/travel-notes/internal/domain/attractions"
)

// MemoryRepository provides an in-memory note store for tests/dev.
type MemoryRepository struct {
	mu    sync.RWMutex
	notes map[string]attractions.Note
}

// NewMemoryRepository constructs a new in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{notes: make(map[string]attractions.Note)}
}

// Seed stores a note, replacing any previous one with the same id.
func (r *MemoryRepository) Seed(note attractions.Note) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes[note.ID] = note
}

// GetByID implements attractions.NoteStore.
func (r *MemoryRepository) GetByID(_ context.Context, id string) (attractions.Note, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	note, ok := r.notes[id]
	return note, ok, nil
}

// GetByIDAndOwner implements attractions.NoteStore.
func (r *MemoryRepository) GetByIDAndOwner(_ context.Context, id, ownerID string) (attractions.Note, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	note, ok := r.notes[id]
	if !ok || note.OwnerID != ownerID {
		return attractions.Note{}, false, nil
	}
	return note, true, nil
}

var _ attractions.NoteStore = (*MemoryRepository)(nil)
