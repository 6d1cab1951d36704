package source

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"ragchat/internal/domain"
)

// WebSearch issues a SerpAPI search and wraps the aggregated result text
// as a single document tagged source=web_search.
type WebSearch struct {
	baseURL string
	apiKey  string
	chunker domain.Chunker
	client  *http.Client
}

// WebSearchConfig configures the web-search adapter. The API key is read
// from the environment variable named by APIKeyEnv.
type WebSearchConfig struct {
	BaseURL   string
	APIKeyEnv string
	Timeout   time.Duration
}

func NewWebSearch(cfg WebSearchConfig, chunker domain.Chunker) *WebSearch {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://serpapi.com/search.json"
	}
	if cfg.APIKeyEnv == "" {
		cfg.APIKeyEnv = "SERPAPI_API_KEY"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &WebSearch{
		baseURL: cfg.BaseURL,
		apiKey:  os.Getenv(cfg.APIKeyEnv),
		chunker: chunker,
		client:  &http.Client{Timeout: cfg.Timeout},
	}
}

func (w *WebSearch) Name() string { return "web_search" }

// Ingest searches the web for the query and chunks the aggregated result.
func (w *WebSearch) Ingest(ctx context.Context, query string) ([]domain.Chunk, error) {
	text, err := w.search(ctx, query)
	if err != nil {
		return nil, err
	}
	doc := domain.Document{
		Content: text,
		Metadata: map[string]string{
			"source": "web_search",
			"query":  query,
		},
	}
	chunks, err := w.chunker.Split([]domain.Document{doc})
	if err != nil {
		return nil, fmt.Errorf("web_search: %w: %w", domain.ErrProvider, err)
	}
	return chunks, nil
}

func (w *WebSearch) search(ctx context.Context, query string) (string, error) {
	if w.apiKey == "" {
		return "", fmt.Errorf("web_search: %w: missing API key", domain.ErrProvider)
	}
	params := url.Values{}
	params.Set("q", query)
	params.Set("engine", "google")
	params.Set("api_key", w.apiKey)

	var out struct {
		AnswerBox struct {
			Answer  string `json:"answer"`
			Snippet string `json:"snippet"`
		} `json:"answer_box"`
		OrganicResults []struct {
			Title   string `json:"title"`
			Snippet string `json:"snippet"`
		} `json:"organic_results"`
	}
	if err := getJSON(ctx, w.client, w.baseURL+"?"+params.Encode(), nil, &out); err != nil {
		return "", fmt.Errorf("web_search: %w: %w", domain.ErrProvider, err)
	}

	var parts []string
	if out.AnswerBox.Answer != "" {
		parts = append(parts, out.AnswerBox.Answer)
	}
	if out.AnswerBox.Snippet != "" {
		parts = append(parts, out.AnswerBox.Snippet)
	}
	for _, r := range out.OrganicResults {
		if r.Snippet != "" {
			parts = append(parts, r.Snippet)
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("web_search: %w: no results for %q", domain.ErrProvider, query)
	}
	return strings.Join(parts, "\n"), nil
}
