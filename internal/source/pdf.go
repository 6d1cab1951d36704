package source

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ledongthuc/pdf"

	"ragchat/internal/domain"
)

// PDF loads a local PDF file into one document per page. Unlike the
// network adapters it takes a file path, not a search query, and is only
// invoked when the caller explicitly supplies one.
type PDF struct {
	chunker domain.Chunker
}

func NewPDF(chunker domain.Chunker) *PDF {
	return &PDF{chunker: chunker}
}

func (p *PDF) Name() string { return "pdf" }

// Ingest reads the PDF at path and chunks its pages.
func (p *PDF) Ingest(_ context.Context, path string) ([]domain.Chunk, error) {
	docs, err := p.load(path)
	if err != nil {
		return nil, err
	}
	chunks, err := p.chunker.Split(docs)
	if err != nil {
		return nil, fmt.Errorf("pdf: %w: %w", domain.ErrProvider, err)
	}
	return chunks, nil
}

func (p *PDF) load(path string) ([]domain.Document, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("pdf: %w: opening %s: %w", domain.ErrProvider, path, err)
	}
	defer f.Close()

	name := filepath.Base(path)
	var docs []domain.Document
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("pdf: %w: reading page %d of %s: %w", domain.ErrProvider, i, name, err)
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		docs = append(docs, domain.Document{
			Content: text,
			Metadata: map[string]string{
				"source": name,
				"page":   strconv.Itoa(i),
			},
		})
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("pdf: %w: no extractable text in %s", domain.ErrProvider, name)
	}
	return docs, nil
}
