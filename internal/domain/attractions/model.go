package attractions

import (
	"context"
	"time"
)

// Note carries the travel-note fields the suggestion pipeline reads.
type Note struct {
	ID          string
	OwnerID     string
	Name        string
	Description string
	IsPublic    bool
}

// Image is the photo attribution attached to a suggestion or attraction.
// It is a value: once attached it is never mutated or shared.
type Image struct {
	URL             string `json:"url"`
	Photographer    string `json:"photographer"`
	PhotographerURL string `json:"photographerUrl"`
	Source          string `json:"source"`
}

// Suggestion is a candidate attraction proposed to the user, not persisted
// until selected.
type Suggestion struct {
	Name           string  `json:"name"`
	Description    string  `json:"description"`
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	EstimatedPrice string  `json:"estimatedPrice"`
	Image          *Image  `json:"image"`
}

// Attraction is a persisted record created when a user commits suggestions.
type Attraction struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	Image       *Image    `json:"image"`
	CreatedAt   time.Time `json:"createdAt"`
}

// AttractionInput is a user-selected suggestion submitted for persistence.
// Image fields arrive decomposed, matching the storage columns.
type AttractionInput struct {
	Name                 string  `json:"name" binding:"required,min=1,max=255"`
	Description          *string `json:"description"`
	Latitude             float64 `json:"latitude" binding:"min=-90,max=90"`
	Longitude            float64 `json:"longitude" binding:"min=-180,max=180"`
	ImageURL             *string `json:"image" binding:"omitempty,url"`
	ImagePhotographer    *string `json:"image_photographer"`
	ImagePhotographerURL *string `json:"image_photographer_url" binding:"omitempty,url"`
	ImageSource          *string `json:"image_source"`
	EstimatedPrice       *string `json:"estimatedPrice"`
}

// StoredAttraction is the row shape the attraction store reads and writes.
type StoredAttraction struct {
	ID                   string
	NoteID               string
	Name                 string
	Description          string
	Latitude             float64
	Longitude            float64
	ImageURL             *string
	ImagePhotographer    *string
	ImagePhotographerURL *string
	ImageSource          *string
	CreatedAt            time.Time
}

// SuggestionsResult is what the generation endpoint returns.
type SuggestionsResult struct {
	Suggestions []Suggestion `json:"suggestions"`
	FromCache   bool         `json:"fromCache,omitempty"`
}

// NoteStore looks up travel notes for prompt context and ownership checks.
type NoteStore interface {
	GetByID(ctx context.Context, id string) (Note, bool, error)
	GetByIDAndOwner(ctx context.Context, id, ownerID string) (Note, bool, error)
}

// AttractionStore persists committed attractions and serves reuse lookups.
type AttractionStore interface {
	InsertMany(ctx context.Context, noteID string, records []StoredAttraction) ([]StoredAttraction, error)
	DeleteOne(ctx context.Context, attractionID, noteID string) error
	FindByNameLike(ctx context.Context, pattern string, limit int) ([]StoredAttraction, error)
	FindImageByName(ctx context.Context, name string) (*Image, bool, error)
}

// SuggestionCache holds generated suggestion lists for a short TTL window.
type SuggestionCache interface {
	Get(ctx context.Context, key string) ([]Suggestion, bool, error)
	Put(ctx context.Context, key string, suggestions []Suggestion) error
}

// OwnershipCache memoizes note-access decisions per (userID, noteID) pair.
type OwnershipCache interface {
	Get(key string) (allowed bool, ok bool)
	Put(key string, allowed bool)
	Invalidate(key string)
}

// ImageFinder resolves a representative photo for an attraction name.
// Lookups are strictly best-effort: a nil result means no image, never an
// error the caller has to handle.
type ImageFinder interface {
	FindImage(ctx context.Context, query string) *Image
}

// ToImage recomposes the decomposed storage columns into an Image value.
// All four fields must be present, otherwise the attraction has no image.
func (r StoredAttraction) ToImage() *Image {
	if r.ImageURL == nil || *r.ImageURL == "" ||
		r.ImagePhotographer == nil || *r.ImagePhotographer == "" ||
		r.ImagePhotographerURL == nil || *r.ImagePhotographerURL == "" ||
		r.ImageSource == nil || *r.ImageSource == "" {
		return nil
	}
	return &Image{
		URL:             *r.ImageURL,
		Photographer:    *r.ImagePhotographer,
		PhotographerURL: *r.ImagePhotographerURL,
		Source:          *r.ImageSource,
	}
}

func (r StoredAttraction) toAttraction() Attraction {
	return Attraction{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Latitude:    r.Latitude,
		Longitude:   r.Longitude,
		Image:       r.ToImage(),
		CreatedAt:   r.CreatedAt,
	}
}
