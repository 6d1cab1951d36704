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

func TestWebSearch_Ingest(t *testing.T) {
	t.Setenv("TEST_SERP_KEY", "secret")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "capital of France", r.URL.Query().Get("q"))
		assert.Equal(t, "secret", r.URL.Query().Get("api_key"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"answer_box": {"answer": "Paris"},
			"organic_results": [
				{"title": "Paris", "snippet": "Paris is the capital of France."},
				{"title": "France", "snippet": "France is a country in Europe."}
			]
		}`))
	}))
	defer server.Close()

	ws := NewWebSearch(WebSearchConfig{BaseURL: server.URL, APIKeyEnv: "TEST_SERP_KEY", Timeout: time.Second},
		chunker.NewRecursive(1000, 150))

	chunks, err := ws.Ingest(context.Background(), "capital of France")
	require.NoError(t, err)
	require.Len(t, chunks, 1, "aggregated result should land in a single document")

	assert.Contains(t, chunks[0].Content, "Paris")
	assert.Contains(t, chunks[0].Content, "capital of France")
	assert.Equal(t, "web_search", chunks[0].Metadata["source"])
	assert.Equal(t, "capital of France", chunks[0].Metadata["query"])
}

func TestWebSearch_MissingAPIKey(t *testing.T) {
	ws := NewWebSearch(WebSearchConfig{APIKeyEnv: "TEST_SERP_KEY_UNSET"},
		chunker.NewRecursive(1000, 150))

	_, err := ws.Ingest(context.Background(), "q")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrProvider))
}

func TestWebSearch_NoResults(t *testing.T) {
	t.Setenv("TEST_SERP_KEY", "secret")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"organic_results": []}`))
	}))
	defer server.Close()

	ws := NewWebSearch(WebSearchConfig{BaseURL: server.URL, APIKeyEnv: "TEST_SERP_KEY", Timeout: time.Second},
		chunker.NewRecursive(1000, 150))

	_, err := ws.Ingest(context.Background(), "zzzz")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrProvider))
}
