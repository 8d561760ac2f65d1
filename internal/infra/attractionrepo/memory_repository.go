package attractionrepo

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/mwalkowski/travel-notes/internal/domain/attractions"
	"github.com/mwalkowski/travel-notes/pkg/util"
)

// MemoryRepository provides an in-memory attraction store for tests/dev.
type MemoryRepository struct {
	mu      sync.RWMutex
	records []attractions.StoredAttraction
}

// NewMemoryRepository constructs a new in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

// InsertMany implements attractions.AttractionStore.
func (r *MemoryRepository) InsertMany(_ context.Context, noteID string, records []attractions.StoredAttraction) ([]attractions.StoredAttraction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]attractions.StoredAttraction, 0, len(records))
	for _, record := range records {
		record.ID = uuid.NewString()
		record.NoteID = noteID
		record.CreatedAt = util.NowUTC()
		r.records = append(r.records, record)
		out = append(out, record)
	}
	return out, nil
}

// DeleteOne implements attractions.AttractionStore.
func (r *MemoryRepository) DeleteOne(_ context.Context, attractionID, noteID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.records[:0]
	for _, record := range r.records {
		if record.ID == attractionID && record.NoteID == noteID {
			continue
		}
		kept = append(kept, record)
	}
	r.records = kept
	return nil
}

// FindByNameLike implements attractions.AttractionStore.
func (r *MemoryRepository) FindByNameLike(_ context.Context, pattern string, limit int) ([]attractions.StoredAttraction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	needle := strings.ToLower(pattern)
	var out []attractions.StoredAttraction
	for _, record := range r.records {
		if !strings.Contains(strings.ToLower(record.Name), needle) {
			continue
		}
		out = append(out, record)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

// FindImageByName implements attractions.AttractionStore.
func (r *MemoryRepository) FindImageByName(_ context.Context, name string) (*attractions.Image, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, record := range r.records {
		if record.Name != name || record.ImageURL == nil || *record.ImageURL == "" {
			continue
		}
		image := &attractions.Image{URL: *record.ImageURL}
		if record.ImagePhotographer != nil {
			image.Photographer = *record.ImagePhotographer
		}
		if record.ImagePhotographerURL != nil {
			image.PhotographerURL = *record.ImagePhotographerURL
		}
		if record.ImageSource != nil {
			image.Source = *record.ImageSource
		}
		return image, true, nil
	}
	return nil, false, nil
}

// All returns a snapshot of every stored record, newest last.
func (r *MemoryRepository) All() []attractions.StoredAttraction {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]attractions.StoredAttraction, len(r.records))
	copy(out, r.records)
	return out
}

var _ attractions.AttractionStore = (*MemoryRepository)(nil)
