// Package vectorindex stores chunk embeddings in an embedded chromem-go
// database and serves top-k similarity queries over them.
package vectorindex

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	chromem "github.com/philippgille/chromem-go"
	"go.uber.org/zap"

	"ragchat/internal/domain"
)

// Config holds configuration for the persistent index.
type Config struct {
	// Path is the directory for persistent storage.
	Path string

	// Collection is the collection name inside the database.
	Collection string

	// Compress enables gzip compression for stored data.
	Compress bool
}

// Index is a durable vector index backed by chromem-go. It is opened once
// at process start and shared across pipeline runs; chromem guards its own
// state, so concurrent Upsert and Query calls are safe.
type Index struct {
	collection *chromem.Collection
	embedder   domain.Embedder
	logger     *zap.Logger
}

// New opens (or creates) the database at cfg.Path and its collection.
func New(cfg Config, embedder domain.Embedder, logger *zap.Logger) (*Index, error) {
	if embedder == nil {
		return nil, fmt.Errorf("%w: embedder is required", domain.ErrStore)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Path == "" {
		cfg.Path = "chroma_db"
	}
	if cfg.Collection == "" {
		cfg.Collection = "ragchat"
	}

	if err := os.MkdirAll(cfg.Path, 0o755); err != nil {
		return nil, fmt.Errorf("%w: creating %s: %w", domain.ErrStore, cfg.Path, err)
	}
	db, err := chromem.NewPersistentDB(cfg.Path, cfg.Compress)
	if err != nil {
		return nil, fmt.Errorf("%w: opening database: %w", domain.ErrStore, err)
	}

	embedFunc := func(ctx context.Context, text string) ([]float32, error) {
		return embedder.EmbedQuery(ctx, text)
	}
	collection, err := db.GetOrCreateCollection(cfg.Collection, nil, embedFunc)
	if err != nil {
		return nil, fmt.Errorf("%w: opening collection %s: %w", domain.ErrStore, cfg.Collection, err)
	}

	logger.Info("vector index opened",
		zap.String("path", cfg.Path),
		zap.String("collection", cfg.Collection),
		zap.Int("entries", collection.Count()),
	)
	return &Index{collection: collection, embedder: embedder, logger: logger}, nil
}

// Upsert embeds the chunks and appends them to the index. Every call mints
// fresh entry ids, so repeated ingestion of overlapping sources accumulates
// duplicates rather than replacing anything.
func (i *Index) Upsert(ctx context.Context, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	texts := make([]string, len(chunks))
	for n, c := range chunks {
		texts[n] = c.Content
	}
	vectors, err := i.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrEmbedding, err)
	}
	if len(vectors) != len(chunks) {
		return fmt.Errorf("%w: got %d vectors for %d chunks", domain.ErrEmbedding, len(vectors), len(chunks))
	}

	docs := make([]chromem.Document, len(chunks))
	for n, c := range chunks {
		docs[n] = chromem.Document{
			ID:        uuid.NewString(),
			Content:   c.Content,
			Metadata:  c.Metadata,
			Embedding: vectors[n],
		}
	}
	if err := i.collection.AddDocuments(ctx, docs, 1); err != nil {
		return fmt.Errorf("%w: adding documents: %w", domain.ErrStore, err)
	}
	i.logger.Debug("chunks upserted",
		zap.Int("count", len(chunks)),
		zap.Int("entries", i.collection.Count()),
	)
	return nil
}

// Search returns the k stored chunks most similar to text with their
// cosine similarity scores, best match first. An empty index yields an
// empty result, not an error; k is clamped to the collection size.
func (i *Index) Search(ctx context.Context, text string, k int) ([]domain.SearchResult, error) {
	if k <= 0 {
		k = 4
	}
	count := i.collection.Count()
	if count == 0 {
		return nil, nil
	}
	if k > count {
		k = count
	}

	vector, err := i.embedder.EmbedQuery(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrEmbedding, err)
	}
	results, err := i.collection.QueryEmbedding(ctx, vector, k, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: querying: %w", domain.ErrStore, err)
	}

	out := make([]domain.SearchResult, 0, len(results))
	for _, r := range results {
		out = append(out, domain.SearchResult{
			Chunk: domain.Chunk{Content: r.Content, Metadata: r.Metadata},
			Score: r.Similarity,
		})
	}
	return out, nil
}

// Query is the score-free view of Search used by the pipeline.
func (i *Index) Query(ctx context.Context, text string, k int) ([]domain.Chunk, error) {
	results, err := i.Search(ctx, text, k)
	if err != nil {
		return nil, err
	}
	chunks := make([]domain.Chunk, 0, len(results))
	for _, r := range results {
		chunks = append(chunks, r.Chunk)
	}
	return chunks, nil
}

// Count reports the number of stored entries.
func (i *Index) Count() int { return i.collection.Count() }
