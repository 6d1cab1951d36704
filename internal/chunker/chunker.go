package chunker

import (
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/textsplitter"

	"ragchat/internal/domain"
)

// Recursive splits documents into overlapping fixed-size chunks, trying a
// prioritized list of separators (paragraph, line, word, character) so that
// each chunk stays within the configured size.
type Recursive struct {
	splitter textsplitter.RecursiveCharacter
}

// NewRecursive creates a chunker with the given chunk size and overlap,
// both measured in characters.
func NewRecursive(chunkSize, chunkOverlap int) *Recursive {
	if chunkSize <= 0 {
		chunkSize = 1000
	}
	if chunkOverlap < 0 || chunkOverlap >= chunkSize {
		chunkOverlap = 0
	}
	return &Recursive{
		splitter: textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(chunkSize),
			textsplitter.WithChunkOverlap(chunkOverlap),
			textsplitter.WithSeparators([]string{"\n\n", "\n", " ", ""}),
		),
	}
}

// Split splits every document into zero or more chunks, carrying the
// document's metadata onto each chunk. An empty document yields no chunks.
func (c *Recursive) Split(docs []domain.Document) ([]domain.Chunk, error) {
	var chunks []domain.Chunk
	for _, doc := range docs {
		if strings.TrimSpace(doc.Content) == "" {
			continue
		}
		segments, err := c.splitter.SplitText(doc.Content)
		if err != nil {
			return nil, fmt.Errorf("split document: %w", err)
		}
		for _, segment := range segments {
			if strings.TrimSpace(segment) == "" {
				continue
			}
			chunks = append(chunks, domain.Chunk{
				Content:  segment,
				Metadata: cloneMetadata(doc.Metadata),
			})
		}
	}
	return chunks, nil
}

func cloneMetadata(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
