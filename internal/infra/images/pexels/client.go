package pexels

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/mwalkowski/travel-notes/internal/domain/attractions"
)

const defaultBaseURL = "https://api.pexels.com/v1"

var parentheticalAlias = regexp.MustCompile(`\((.*?)\)`)

// Client looks up one representative photo per attraction on Pexels.
// Lookups are strictly best-effort: rate-limit exhaustion, transport errors,
// malformed payloads and empty result sets all come back as a nil image.
type Client struct {
	apiKey     string
	baseURL    string
	limiter    *Window
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient builds an API client sharing the given admission window.
func NewClient(apiKey, baseURL string, limiter *Window, logger *slog.Logger) *Client {
	base := strings.TrimSpace(baseURL)
	if base == "" {
		base = defaultBaseURL
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(base, "/"),
		limiter: limiter,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger.With("component", "pexels.client"),
	}
}

// FindImage searches for a landscape photo matching query and returns the
// first hit, or nil when none could be fetched.
func (c *Client) FindImage(ctx context.Context, query string) *attractions.Image {
	if !c.limiter.Allow() {
		c.logger.Warn("pexels rate limit reached, skipping image search", "query", query)
		return nil
	}
	c.limiter.Record()

	photo, err := c.search(ctx, normalizeQuery(query))
	if err != nil {
		c.logger.Warn("pexels image search failed", "query", query, "error", err)
		return nil
	}
	return photo
}

func (c *Client) search(ctx context.Context, query string) (*attractions.Image, error) {
	endpoint := fmt.Sprintf("%s/search?query=%s&per_page=1&orientation=landscape", c.baseURL, url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}
	req.Header.Set("Authorization", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, fmt.Errorf("search error: status=%d body=%s", resp.StatusCode, string(payload))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read search response: %w", err)
	}

	var raw searchResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	if len(raw.Photos) == 0 {
		return nil, nil
	}

	photo := raw.Photos[0]
	return &attractions.Image{
		URL:             photo.Src.Large2x,
		Photographer:    photo.Photographer,
		PhotographerURL: photo.PhotographerURL,
		Source:          fmt.Sprintf("https://www.pexels.com/photo/%d", photo.ID),
	}, nil
}

// normalizeQuery prefers a parenthetical alias when present: Pexels indexes
// mostly by common-language names, so "Wawel (Wawel Castle)" searches better
// as "Wawel Castle".
func normalizeQuery(query string) string {
	if match := parentheticalAlias.FindStringSubmatch(query); len(match) == 2 && strings.TrimSpace(match[1]) != "" {
		return strings.TrimSpace(match[1])
	}
	return query
}

type searchResponse struct {
	Photos []photo `json:"photos"`
}

type photo struct {
	ID              int64       `json:"id"`
	Photographer    string      `json:"photographer"`
	PhotographerURL string      `json:"photographer_url"`
	Src             photoSource `json:"src"`
}

type photoSource struct {
	Original  string `json:"original"`
	Large2x   string `json:"large2x"`
	Large     string `json:"large"`
	Medium    string `json:"medium"`
	Landscape string `json:"landscape"`
}

var _ attractions.ImageFinder = (*Client)(nil)
