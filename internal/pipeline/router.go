package pipeline

import (
	"strings"

	"ragchat/internal/domain"
)

// Classify assigns a source category to a query with case-insensitive
// keyword heuristics. Pure and deterministic. The category is recorded in
// the pipeline state but retrieval does not branch on it; it is a hook
// for source-aware retrieval later.
func Classify(query string) domain.Source {
	q := strings.ToLower(query)
	switch {
	case strings.Contains(q, "paper") || strings.Contains(q, "research"):
		return domain.SourceArxiv
	case strings.Contains(q, "wiki") || strings.Contains(q, "definition"):
		return domain.SourceWikipedia
	default:
		return domain.SourceRAG
	}
}
