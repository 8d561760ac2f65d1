package pexels

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const searchPayload = `{
	"photos": [
		{
			"id": 417173,
			"photographer": "Pixabay",
			"photographer_url": "https://www.pexels.com/@pixabay",
			"src": {
				"original": "https://images.pexels.com/photos/417173/original.jpg",
				"large2x": "https://images.pexels.com/photos/417173/large2x.jpg",
				"large": "https://images.pexels.com/photos/417173/large.jpg",
				"medium": "https://images.pexels.com/photos/417173/medium.jpg",
				"landscape": "https://images.pexels.com/photos/417173/landscape.jpg"
			}
		}
	]
}`

func TestFindImageSuccess(t *testing.T) {
	var gotQuery, gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("query")
		gotAuth = r.Header.Get("Authorization")
		require.Equal(t, "1", r.URL.Query().Get("per_page"))
		require.Equal(t, "landscape", r.URL.Query().Get("orientation"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(searchPayload))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, 10)

	image := client.FindImage(context.Background(), "Wawel Castle")
	require.NotNil(t, image)
	require.Equal(t, "https://images.pexels.com/photos/417173/large2x.jpg", image.URL)
	require.Equal(t, "Pixabay", image.Photographer)
	require.Equal(t, "https://www.pexels.com/@pixabay", image.PhotographerURL)
	require.Equal(t, "https://www.pexels.com/photo/417173", image.Source)
	require.Equal(t, "Wawel Castle", gotQuery)
	require.Equal(t, "test-key", gotAuth)
}

func TestFindImagePrefersParentheticalAlias(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("query")
		_, _ = w.Write([]byte(`{"photos":[]}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, 10)

	image := client.FindImage(context.Background(), "Sukiennice (Cloth Hall)")
	require.Nil(t, image)
	require.Equal(t, "Cloth Hall", gotQuery)
}

func TestFindImageEmptyResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"photos":[]}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, 10)
	require.Nil(t, client.FindImage(context.Background(), "Nonexistent Place"))
}

func TestFindImageUpstreamErrorYieldsNil(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, 10)
	require.Nil(t, client.FindImage(context.Background(), "Wawel Castle"))
}

func TestFindImageExhaustedWindowSkipsRequest(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		_, _ = w.Write([]byte(searchPayload))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, 1)

	require.NotNil(t, client.FindImage(context.Background(), "Wawel Castle"))
	require.Nil(t, client.FindImage(context.Background(), "Main Square"))
	require.Equal(t, 1, requests)
}

func TestNormalizeQuery(t *testing.T) {
	require.Equal(t, "Wawel Castle", normalizeQuery("Wawel (Wawel Castle)"))
	require.Equal(t, "Plain Name", normalizeQuery("Plain Name"))
	require.Equal(t, "Name ()", normalizeQuery("Name ()"))
}

func newTestClient(t *testing.T, baseURL string, maxRequests int) *Client {
	t.Helper()
	window := NewWindow(maxRequests, time.Hour)
	return NewClient("test-key", baseURL, window, slog.New(slog.NewTextHandler(io.Discard, nil)))
}
