package unit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/mwalkowski/travel-notes/internal/domain/attractions"
	"github.com/mwalkowski/travel-notes/internal/domain/identity"
	"github.com/mwalkowski/travel-notes/internal/infra/attractionrepo"
	"github.com/mwalkowski/travel-notes/internal/infra/config"
	"github.com/mwalkowski/travel-notes/internal/infra/llm/chatgpt"
	"github.com/mwalkowski/travel-notes/internal/infra/noterepo"
	"github.com/mwalkowski/travel-notes/internal/infra/ownercache"
	"github.com/mwalkowski/travel-notes/internal/infra/suggestcache"
	httpiface "github.com/mwalkowski/travel-notes/internal/interface/http"
)

const authSecret = "flow-test-secret"

// TestSuggestionCacheReuse drives the generation endpoint twice through the
// full stack and checks the second response comes out of the cache without
// another model call.
func TestSuggestionCacheReuse(t *testing.T) {
	env := newTestEnv(t)
	token := env.signToken(t, "user-1")

	first := env.do(t, http.MethodGet, "/api/v1/travel-notes/note-1/attractions/generate", "", token)
	require.Equal(t, http.StatusOK, first.Code)

	var firstResult attractions.SuggestionsResult
	require.NoError(t, json.Unmarshal(first.Body.Bytes(), &firstResult))
	require.False(t, firstResult.FromCache)
	require.Len(t, firstResult.Suggestions, 3)
	require.Equal(t, 1, env.chat.calls)

	second := env.do(t, http.MethodGet, "/api/v1/travel-notes/note-1/attractions/generate", "", token)
	require.Equal(t, http.StatusOK, second.Code)

	var secondResult attractions.SuggestionsResult
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &secondResult))
	require.True(t, secondResult.FromCache)
	require.Equal(t, firstResult.Suggestions, secondResult.Suggestions)
	require.Equal(t, 1, env.chat.calls)
}

// TestCommitAndRemoveAttraction covers the select-then-commit flow: persist
// two suggestions, then remove one of them.
func TestCommitAndRemoveAttraction(t *testing.T) {
	env := newTestEnv(t)
	token := env.signToken(t, "user-1")

	body := `{"attractions":[
		{"name":"Wawel Castle","description":"Royal castle","latitude":50.05,"longitude":19.93,"image":"https://images.test/wawel.jpg"},
		{"name":"Main Square","latitude":50.06,"longitude":19.94}
	]}`
	created := env.do(t, http.MethodPost, "/api/v1/travel-notes/note-1/attractions", body, token)
	require.Equal(t, http.StatusCreated, created.Code)

	var payload struct {
		Attractions []attractions.Attraction `json:"attractions"`
	}
	require.NoError(t, json.Unmarshal(created.Body.Bytes(), &payload))
	require.Len(t, payload.Attractions, 2)
	require.Len(t, env.store.All(), 2)

	removed := env.do(t, http.MethodDelete, "/api/v1/travel-notes/note-1/attractions/"+payload.Attractions[0].ID, "", token)
	require.Equal(t, http.StatusNoContent, removed.Code)
	require.Len(t, env.store.All(), 1)
}

// TestCommitToForeignNote verifies another user's token cannot attach
// attractions to a note it does not own, and that existence is not leaked.
func TestCommitToForeignNote(t *testing.T) {
	env := newTestEnv(t)
	token := env.signToken(t, "intruder")

	body := `{"attractions":[{"name":"Wawel Castle","latitude":50.05,"longitude":19.93}]}`
	rec := env.do(t, http.MethodPost, "/api/v1/travel-notes/note-1/attractions", body, token)
	require.Equal(t, http.StatusNotFound, rec.Code)

	var errBody map[string]map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errBody))
	require.Equal(t, "not_found_or_forbidden", errBody["error"]["code"])
	require.Empty(t, env.store.All())
}

type testEnv struct {
	server *http.Server
	chat   *countingChatClient
	store  *attractionrepo.MemoryRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := &config.Config{
		HTTP: config.HTTPConfig{
			Address:      ":0",
			ReadTimeout:  time.Second,
			WriteTimeout: time.Second,
		},
		Auth:   config.AuthConfig{Secret: authSecret},
		LLM:    config.LLMConfig{APIKey: "sk-test", Model: "gpt-test"},
		Pexels: config.PexelsConfig{APIKey: "px-test"},
		Suggestions: config.SuggestionsConfig{
			Count:            3,
			CacheTTL:         15 * time.Minute,
			OwnershipTTL:     5 * time.Minute,
			OperationTimeout: 55 * time.Second,
			ImageTimeout:     3 * time.Second,
		},
	}

	notes := noterepo.NewMemoryRepository()
	notes.Seed(attractions.Note{ID: "note-1", OwnerID: "user-1", Name: "Krakow", Description: "Weekend in the old town"})

	store := attractionrepo.NewMemoryRepository()
	chat := &countingChatClient{payload: completionPayload(cfg.Suggestions.Count)}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	svc := attractions.NewService(
		attractions.Config{
			Model:        cfg.LLM.Model,
			Count:        cfg.Suggestions.Count,
			ImageTimeout: cfg.Suggestions.ImageTimeout,
		},
		chat,
		noImageFinder{},
		notes,
		store,
		suggestcache.NewMemoryStore(cfg.Suggestions.CacheTTL),
		ownercache.NewMemory(cfg.Suggestions.OwnershipTTL),
		logger,
	)

	handler := httpiface.NewHandler(cfg, svc, allFlags{}, logger)
	return &testEnv{
		server: httpiface.NewRouter(cfg, handler, identity.NewService(identity.Config{Secret: authSecret}, logger)),
		chat:   chat,
		store:  store,
	}
}

func (e *testEnv) do(t *testing.T, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	e.server.Handler.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) signToken(t *testing.T, userID string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   userID,
		"email": userID + "@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(authSecret))
	require.NoError(t, err)
	return token
}

func completionPayload(count int) string {
	items := make([]string, 0, count)
	for i := 1; i <= count; i++ {
		items = append(items, fmt.Sprintf(`{"name":"Attraction %d","description":"A long and detailed description.","latitude":50.0%d,"longitude":19.9%d,"estimatedPrice":"Free entry"}`, i, i, i))
	}
	return `{"attractions":[` + strings.Join(items, ",") + `]}`
}

type countingChatClient struct {
	payload string
	calls   int
}

func (c *countingChatClient) CreateChatCompletion(_ context.Context, _ chatgpt.ChatCompletionRequest) (chatgpt.ChatCompletionResponse, error) {
	c.calls++
	return chatgpt.ChatCompletionResponse{
		Choices: []struct {
			Message chatgpt.Message `json:"message"`
		}{
			{Message: chatgpt.Message{Role: "assistant", Content: c.payload}},
		},
	}, nil
}

type noImageFinder struct{}

func (noImageFinder) FindImage(context.Context, string) *attractions.Image { return nil }

type allFlags struct{}

func (allFlags) Enabled(string) bool { return true }
