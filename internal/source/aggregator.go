package source

import (
	"context"

	"go.uber.org/zap"

	"ragchat/internal/domain"
)

// Aggregator runs every source adapter for a query and keeps whatever
// succeeds. A flaky provider must never abort the whole ingestion, so
// per-adapter failures are logged and skipped rather than returned.
type Aggregator struct {
	adapters []domain.SourceAdapter
	logger   *zap.Logger
}

func NewAggregator(logger *zap.Logger, adapters ...domain.SourceAdapter) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator{adapters: adapters, logger: logger}
}

// IngestAll invokes the adapters in order and returns the concatenation
// of the chunks from those that succeeded, possibly empty.
func (a *Aggregator) IngestAll(ctx context.Context, query string) []domain.Chunk {
	var chunks []domain.Chunk
	failed := 0
	for _, adapter := range a.adapters {
		got, err := adapter.Ingest(ctx, query)
		if err != nil {
			failed++
			a.logger.Warn("source skipped",
				zap.String("source", adapter.Name()),
				zap.String("query", query),
				zap.Error(err),
			)
			continue
		}
		chunks = append(chunks, got...)
	}
	a.logger.Info("ingestion finished",
		zap.String("query", query),
		zap.Int("chunks", len(chunks)),
		zap.Int("sources_failed", failed),
		zap.Int("sources_total", len(a.adapters)),
	)
	return chunks
}
