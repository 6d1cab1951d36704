package domain

import "context"

// Document is a normalized unit of provider output: raw text plus string
// metadata such as the source name and the query that produced it.
// Immutable once created by a source adapter.
type Document struct {
	Content  string
	Metadata map[string]string
}

// Chunk is a bounded-size slice of a source document, the atomic unit
// stored in the vector index. Its content is a contiguous substring of
// exactly one document (modulo overlap with the preceding chunk).
type Chunk struct {
	Content  string
	Metadata map[string]string
}

// SearchResult is a retrieved chunk with its similarity score.
type SearchResult struct {
	Chunk Chunk
	Score float32
}

// Source is the category assigned to a query by the router.
type Source string

const (
	SourceArxiv     Source = "arxiv"
	SourceWikipedia Source = "wikipedia"
	SourceRAG       Source = "rag"
)

// State carries one query through the pipeline. Stages treat it as a
// value: each returns a copy with its own field populated.
type State struct {
	Query   string
	Source  Source
	Context string
	Answer  string
}

// Embedder converts text into a fixed-length vector representation.
type Embedder interface {
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// Completer produces a free-text completion for a prompt.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Chunker splits documents into chunks suitable for retrieval indexing.
type Chunker interface {
	Split(docs []Document) ([]Chunk, error)
}

// SourceAdapter fetches documents for a query from one external provider
// and returns them already chunked. Provider failures are returned, not
// suppressed; suppression is the aggregator's job.
type SourceAdapter interface {
	Name() string
	Ingest(ctx context.Context, query string) ([]Chunk, error)
}

// VectorIndex persists chunk embeddings and supports top-k similarity
// retrieval. Entries accumulate across upserts; there is no dedup.
type VectorIndex interface {
	Upsert(ctx context.Context, chunks []Chunk) error
	Query(ctx context.Context, text string, k int) ([]Chunk, error)
}
