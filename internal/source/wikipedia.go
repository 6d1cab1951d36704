package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"ragchat/internal/domain"
)

// Wikipedia fetches plain-text article extracts from the MediaWiki API.
// A search generator picks the best-matching pages and the extracts prop
// returns their content in one round trip.
type Wikipedia struct {
	baseURL string
	maxDocs int
	chunker domain.Chunker
	client  *http.Client
}

// WikipediaConfig configures the encyclopedia adapter.
type WikipediaConfig struct {
	BaseURL string
	MaxDocs int
	Timeout time.Duration
}

func NewWikipedia(cfg WikipediaConfig, chunker domain.Chunker) *Wikipedia {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://en.wikipedia.org/w/api.php"
	}
	if cfg.MaxDocs <= 0 {
		cfg.MaxDocs = 2
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &Wikipedia{
		baseURL: cfg.BaseURL,
		maxDocs: cfg.MaxDocs,
		chunker: chunker,
		client:  &http.Client{Timeout: cfg.Timeout},
	}
}

func (w *Wikipedia) Name() string { return "wikipedia" }

// Ingest fetches up to maxDocs articles matching the query and chunks them.
func (w *Wikipedia) Ingest(ctx context.Context, query string) ([]domain.Chunk, error) {
	docs, err := w.fetch(ctx, query)
	if err != nil {
		return nil, err
	}
	chunks, err := w.chunker.Split(docs)
	if err != nil {
		return nil, fmt.Errorf("wikipedia: %w: %w", domain.ErrProvider, err)
	}
	return chunks, nil
}

type wikiPage struct {
	Index   int    `json:"index"`
	Title   string `json:"title"`
	Extract string `json:"extract"`
}

func (w *Wikipedia) fetch(ctx context.Context, query string) ([]domain.Document, error) {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("format", "json")
	params.Set("generator", "search")
	params.Set("gsrsearch", query)
	params.Set("gsrlimit", strconv.Itoa(w.maxDocs))
	params.Set("prop", "extracts")
	params.Set("explaintext", "1")
	params.Set("redirects", "1")

	var out struct {
		Query struct {
			Pages map[string]wikiPage `json:"pages"`
		} `json:"query"`
	}
	if err := getJSON(ctx, w.client, w.baseURL+"?"+params.Encode(), nil, &out); err != nil {
		return nil, fmt.Errorf("wikipedia: %w: %w", domain.ErrProvider, err)
	}
	if len(out.Query.Pages) == 0 {
		return nil, fmt.Errorf("wikipedia: %w: no articles for %q", domain.ErrProvider, query)
	}

	pages := make([]wikiPage, 0, len(out.Query.Pages))
	for _, p := range out.Query.Pages {
		if p.Extract == "" {
			continue
		}
		pages = append(pages, p)
	}
	// The generator returns pages in map order; the index field carries
	// the search ranking.
	sort.Slice(pages, func(i, j int) bool { return pages[i].Index < pages[j].Index })

	docs := make([]domain.Document, 0, len(pages))
	for _, p := range pages {
		docs = append(docs, domain.Document{
			Content: p.Extract,
			Metadata: map[string]string{
				"source": "wikipedia",
				"title":  p.Title,
				"query":  query,
			},
		})
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("wikipedia: %w: empty extracts for %q", domain.ErrProvider, query)
	}
	return docs, nil
}

// getJSON performs a GET request and decodes the JSON response into out.
func getJSON(ctx context.Context, client *http.Client, rawURL string, header http.Header, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("GET %s failed: %s", req.URL.Host, resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
