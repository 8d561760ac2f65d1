package attractions

import (
	"context"
	"log/slog"
	"time"

	"github.com/mwalkowski/travel-notes/internal/infra/llm/chatgpt"
	apperrors "github.com/mwalkowski/travel-notes/pkg/errors"
	"github.com/mwalkowski/travel-notes/pkg/metrics"
)

// fallbackPrice is used when a reused record carries no pricing data.
const fallbackPrice = "Price information available at location"

// Config tunes the suggestion pipeline.
type Config struct {
	Model        string
	Temperature  float32
	MaxTokens    int
	Count        int
	ImageTimeout time.Duration
}

// ChatClient is the slice of the LLM client the generator needs.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req chatgpt.ChatCompletionRequest) (chatgpt.ChatCompletionResponse, error)
}

// Service exposes the attraction-suggestion pipeline.
type Service interface {
	// Suggestions runs the full generation flow for a note: suggestion-cache
	// check, note lookup with ownership enforcement, generation, cache store.
	Suggestions(ctx context.Context, noteID, userID string) (SuggestionsResult, error)
	// Generate synthesizes count suggestions for a note, reusing persisted
	// attractions when enough of them match the note name.
	Generate(ctx context.Context, note Note, count int, excludeNames []string) ([]Suggestion, error)
	// AddAttractions persists a user-selected subset of suggestions.
	AddAttractions(ctx context.Context, noteID, userID string, inputs []AttractionInput) ([]Attraction, error)
	// RemoveAttraction deletes one committed attraction from a note.
	RemoveAttraction(ctx context.Context, noteID, userID, attractionID string) error
}

type service struct {
	cfg       Config
	chat      ChatClient
	images    ImageFinder
	notes     NoteStore
	store     AttractionStore
	cache     SuggestionCache
	ownership OwnershipCache
	logger    *slog.Logger
}

// NewService wires up the attractions domain.
func NewService(cfg Config, chat ChatClient, images ImageFinder, notes NoteStore, store AttractionStore, cache SuggestionCache, ownership OwnershipCache, logger *slog.Logger) Service {
	return &service{
		cfg:       cfg,
		chat:      chat,
		images:    images,
		notes:     notes,
		store:     store,
		cache:     cache,
		ownership: ownership,
		logger:    logger.With("component", "attractions.service"),
	}
}

func (s *service) Suggestions(ctx context.Context, noteID, userID string) (SuggestionsResult, error) {
	key := suggestionKey(noteID, userID)
	if cached, ok, err := s.cache.Get(ctx, key); err != nil {
		s.logger.Warn("suggestion cache read failed", "error", err)
	} else if ok {
		return SuggestionsResult{Suggestions: cached, FromCache: true}, nil
	}

	note, found, err := s.notes.GetByID(ctx, noteID)
	if err != nil {
		return SuggestionsResult{}, apperrors.Wrap("storage_error", "failed to fetch travel note", err)
	}
	if !found {
		return SuggestionsResult{}, apperrors.Wrap("not_found", "travel note not found", nil)
	}
	if note.OwnerID != userID {
		return SuggestionsResult{}, apperrors.Wrap("forbidden", "access denied", nil)
	}

	suggestions, err := s.Generate(ctx, note, s.cfg.Count, nil)
	if err != nil {
		return SuggestionsResult{}, err
	}

	if err := s.cache.Put(ctx, key, suggestions); err != nil {
		s.logger.Warn("suggestion cache write failed", "error", err)
	}
	return SuggestionsResult{Suggestions: suggestions}, nil
}

func (s *service) Generate(ctx context.Context, note Note, count int, excludeNames []string) ([]Suggestion, error) {
	start := time.Now()

	if reused, ok := s.reuseExisting(ctx, note, count); ok {
		s.logger.Info("reused persisted attractions", "note", note.ID, "count", count)
		return reused, nil
	}

	resp, err := s.chat.CreateChatCompletion(ctx, chatgpt.ChatCompletionRequest{
		Model: s.cfg.Model,
		Messages: []chatgpt.Message{
			{Role: "user", Content: buildPrompt(note.Name, note.Description, count, excludeNames)},
		},
		Temperature:      s.cfg.Temperature,
		MaxTokens:        s.cfg.MaxTokens,
		PresencePenalty:  0.1,
		FrequencyPenalty: 0.1,
		ResponseFormat:   chatgpt.JSONObjectFormat,
	})
	if err != nil {
		return nil, apperrors.Wrap("generation_error", "chatgpt request failed", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return nil, apperrors.Wrap("generation_error", "chatgpt returned empty response", nil)
	}

	suggestions, err := parseCompletion(resp.Choices[0].Message.Content, count)
	if err != nil {
		return nil, apperrors.Wrap("generation_error", "chatgpt response malformed", err)
	}

	for i := range suggestions {
		suggestions[i].Image = s.resolveImage(ctx, suggestions[i].Name)
	}

	usage := metrics.TokenUsage{
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
		TotalTokens:      resp.Usage.TotalTokens,
	}
	s.logger.Info("suggestions generated",
		"note", note.ID,
		"count", count,
		"elapsed_ms", time.Since(start).Milliseconds(),
		"tokens", usage.TotalTokens,
	)
	return suggestions, nil
}

// reuseExisting maps persisted attractions to suggestions when the store
// already holds exactly count records loosely matching the note name. A store
// failure only disables reuse; generation proceeds.
func (s *service) reuseExisting(ctx context.Context, note Note, count int) ([]Suggestion, bool) {
	token := firstToken(note.Name)
	if token == "" {
		return nil, false
	}
	existing, err := s.store.FindByNameLike(ctx, token, count)
	if err != nil {
		s.logger.Warn("reuse lookup failed", "error", err)
		return nil, false
	}
	if len(existing) != count {
		return nil, false
	}

	out := make([]Suggestion, 0, count)
	for _, record := range existing {
		out = append(out, Suggestion{
			Name:           record.Name,
			Description:    record.Description,
			Latitude:       record.Latitude,
			Longitude:      record.Longitude,
			EstimatedPrice: fallbackPrice,
			Image:          reuseImage(record),
		})
	}
	return out, true
}

// reuseImage is more lenient than StoredAttraction.ToImage: a stored URL is
// enough to show a photo on the reuse path, missing attribution becomes "".
func reuseImage(record StoredAttraction) *Image {
	if record.ImageURL == nil || *record.ImageURL == "" {
		return nil
	}
	return &Image{
		URL:             *record.ImageURL,
		Photographer:    deref(record.ImagePhotographer),
		PhotographerURL: deref(record.ImagePhotographerURL),
		Source:          deref(record.ImageSource),
	}
}

// resolveImage attaches a photo to a generated suggestion. The store is
// consulted first so popular attractions do not burn image-search budget.
// Every failure path yields nil; a missing image never fails generation.
func (s *service) resolveImage(ctx context.Context, name string) *Image {
	if image, found, err := s.store.FindImageByName(ctx, name); err != nil {
		s.logger.Warn("stored image lookup failed", "name", name, "error", err)
	} else if found {
		return image
	}

	imgCtx, cancel := context.WithTimeout(ctx, s.cfg.ImageTimeout)
	defer cancel()
	return s.images.FindImage(imgCtx, name)
}

func (s *service) AddAttractions(ctx context.Context, noteID, userID string, inputs []AttractionInput) ([]Attraction, error) {
	allowed, err := s.verifyOwnership(ctx, noteID, userID)
	if err != nil {
		return nil, apperrors.Wrap("storage_error", "failed to verify note ownership", err)
	}
	if !allowed {
		return nil, apperrors.Wrap("not_found_or_forbidden", "note not found or access denied", nil)
	}

	records := make([]StoredAttraction, 0, len(inputs))
	for _, input := range inputs {
		record := StoredAttraction{
			NoteID:               noteID,
			Name:                 input.Name,
			Description:          deref(input.Description),
			Latitude:             input.Latitude,
			Longitude:            input.Longitude,
			ImageURL:             input.ImageURL,
			ImagePhotographer:    input.ImagePhotographer,
			ImagePhotographerURL: input.ImagePhotographerURL,
			ImageSource:          input.ImageSource,
		}
		if record.ImageURL == nil || *record.ImageURL == "" {
			imgCtx, cancel := context.WithTimeout(ctx, s.cfg.ImageTimeout)
			if image := s.images.FindImage(imgCtx, input.Name); image != nil {
				record.ImageURL = &image.URL
				record.ImagePhotographer = &image.Photographer
				record.ImagePhotographerURL = &image.PhotographerURL
				record.ImageSource = &image.Source
			}
			cancel()
		}
		records = append(records, record)
	}

	inserted, err := s.store.InsertMany(ctx, noteID, records)
	if err != nil {
		return nil, apperrors.Wrap("storage_error", "failed to create attractions", err)
	}

	out := make([]Attraction, 0, len(inserted))
	for _, record := range inserted {
		out = append(out, record.toAttraction())
	}
	return out, nil
}

func (s *service) RemoveAttraction(ctx context.Context, noteID, userID, attractionID string) error {
	allowed, err := s.verifyOwnership(ctx, noteID, userID)
	if err != nil {
		return apperrors.Wrap("storage_error", "failed to verify note ownership", err)
	}
	if !allowed {
		return apperrors.Wrap("not_found_or_forbidden", "note not found or access denied", nil)
	}

	if err := s.store.DeleteOne(ctx, attractionID, noteID); err != nil {
		return apperrors.Wrap("storage_error", "failed to delete attraction", err)
	}

	// Removal can change what the requester may do next; drop the memoized
	// decision instead of letting it ride out its TTL.
	s.ownership.Invalidate(ownershipKey(userID, noteID))
	return nil
}

func (s *service) verifyOwnership(ctx context.Context, noteID, userID string) (bool, error) {
	key := ownershipKey(userID, noteID)
	if allowed, ok := s.ownership.Get(key); ok {
		return allowed, nil
	}
	_, found, err := s.notes.GetByIDAndOwner(ctx, noteID, userID)
	if err != nil {
		return false, err
	}
	s.ownership.Put(key, found)
	return found, nil
}

func suggestionKey(noteID, userID string) string {
	return noteID + ":" + userID
}

func ownershipKey(userID, noteID string) string {
	return userID + ":" + noteID
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
