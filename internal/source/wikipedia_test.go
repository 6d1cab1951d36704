package source

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ragchat/internal/chunker"
	"ragchat/internal/domain"
)

func TestWikipedia_Ingest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "query", r.URL.Query().Get("action"))
		assert.Equal(t, "Go programming", r.URL.Query().Get("gsrsearch"))
		assert.Equal(t, "2", r.URL.Query().Get("gsrlimit"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"query": {
				"pages": {
					"2": {"pageid": 2, "index": 2, "title": "Gopher", "extract": "A gopher is a rodent."},
					"1": {"pageid": 1, "index": 1, "title": "Go (programming language)", "extract": "Go is a statically typed language."}
				}
			}
		}`))
	}))
	defer server.Close()

	w := NewWikipedia(WikipediaConfig{BaseURL: server.URL, MaxDocs: 2, Timeout: time.Second},
		chunker.NewRecursive(1000, 150))

	chunks, err := w.Ingest(context.Background(), "Go programming")
	require.NoError(t, err)
	require.Len(t, chunks, 2)

	// Search ranking, not map order.
	assert.Equal(t, "Go is a statically typed language.", chunks[0].Content)
	assert.Equal(t, "Go (programming language)", chunks[0].Metadata["title"])
	assert.Equal(t, "wikipedia", chunks[0].Metadata["source"])
	assert.Equal(t, "Go programming", chunks[0].Metadata["query"])
	assert.Equal(t, "A gopher is a rodent.", chunks[1].Content)
}

func TestWikipedia_NoResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"query": {"pages": {}}}`))
	}))
	defer server.Close()

	w := NewWikipedia(WikipediaConfig{BaseURL: server.URL, Timeout: time.Second},
		chunker.NewRecursive(1000, 150))

	_, err := w.Ingest(context.Background(), "zzzz")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrProvider))
}

func TestWikipedia_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	w := NewWikipedia(WikipediaConfig{BaseURL: server.URL, Timeout: time.Second},
		chunker.NewRecursive(1000, 150))

	_, err := w.Ingest(context.Background(), "q")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrProvider))
}

func TestWikipedia_Name(t *testing.T) {
	w := NewWikipedia(WikipediaConfig{}, chunker.NewRecursive(1000, 150))
	assert.Equal(t, "wikipedia", w.Name())
}
