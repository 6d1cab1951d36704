package source

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"ragchat/internal/domain"
)

// Arxiv fetches paper titles and abstracts from the arXiv Atom export API.
type Arxiv struct {
	baseURL string
	maxDocs int
	chunker domain.Chunker
	client  *http.Client
}

// ArxivConfig configures the preprint-index adapter.
type ArxivConfig struct {
	BaseURL string
	MaxDocs int
	Timeout time.Duration
}

func NewArxiv(cfg ArxivConfig, chunker domain.Chunker) *Arxiv {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://export.arxiv.org/api/query"
	}
	if cfg.MaxDocs <= 0 {
		cfg.MaxDocs = 2
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &Arxiv{
		baseURL: cfg.BaseURL,
		maxDocs: cfg.MaxDocs,
		chunker: chunker,
		client:  &http.Client{Timeout: cfg.Timeout},
	}
}

func (a *Arxiv) Name() string { return "arxiv" }

// Ingest fetches up to maxDocs abstracts matching the query and chunks them.
func (a *Arxiv) Ingest(ctx context.Context, query string) ([]domain.Chunk, error) {
	docs, err := a.fetch(ctx, query)
	if err != nil {
		return nil, err
	}
	chunks, err := a.chunker.Split(docs)
	if err != nil {
		return nil, fmt.Errorf("arxiv: %w: %w", domain.ErrProvider, err)
	}
	return chunks, nil
}

type atomFeed struct {
	Entries []atomEntry `xml:"entry"`
}

type atomEntry struct {
	ID        string `xml:"id"`
	Title     string `xml:"title"`
	Summary   string `xml:"summary"`
	Published string `xml:"published"`
	Authors   []struct {
		Name string `xml:"name"`
	} `xml:"author"`
}

func (a *Arxiv) fetch(ctx context.Context, query string) ([]domain.Document, error) {
	params := url.Values{}
	params.Set("search_query", "all:"+query)
	params.Set("start", "0")
	params.Set("max_results", strconv.Itoa(a.maxDocs))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("arxiv: %w: %w", domain.ErrProvider, err)
	}
	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("arxiv: %w: %w", domain.ErrProvider, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("arxiv: %w: query failed: %s", domain.ErrProvider, resp.Status)
	}

	var feed atomFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("arxiv: %w: decoding feed: %w", domain.ErrProvider, err)
	}
	if len(feed.Entries) == 0 {
		return nil, fmt.Errorf("arxiv: %w: no papers for %q", domain.ErrProvider, query)
	}

	docs := make([]domain.Document, 0, len(feed.Entries))
	for _, e := range feed.Entries {
		title := strings.TrimSpace(e.Title)
		summary := strings.TrimSpace(e.Summary)
		if summary == "" {
			continue
		}
		authors := make([]string, 0, len(e.Authors))
		for _, au := range e.Authors {
			authors = append(authors, au.Name)
		}
		docs = append(docs, domain.Document{
			Content: title + "\n" + summary,
			Metadata: map[string]string{
				"source":    "arxiv",
				"title":     title,
				"authors":   strings.Join(authors, ", "),
				"published": e.Published,
				"entry_id":  e.ID,
				"query":     query,
			},
		})
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("arxiv: %w: empty abstracts for %q", domain.ErrProvider, query)
	}
	return docs, nil
}
