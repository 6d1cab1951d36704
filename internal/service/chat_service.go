package service

import (
	"context"

	"go.uber.org/zap"

	"ragchat/internal/domain"
	"ragchat/internal/pipeline"
	"ragchat/internal/source"
)

// ChatService is the application core behind the chat UI: for each query
// it ingests fresh source material into the index, then runs the pipeline.
type ChatService struct {
	aggregator *source.Aggregator
	fileSource domain.SourceAdapter
	index      domain.VectorIndex
	pipeline   *pipeline.Pipeline
	logger     *zap.Logger
}

func NewChatService(
	aggregator *source.Aggregator,
	fileSource domain.SourceAdapter,
	index domain.VectorIndex,
	pipe *pipeline.Pipeline,
	logger *zap.Logger,
) *ChatService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatService{
		aggregator: aggregator,
		fileSource: fileSource,
		index:      index,
		pipeline:   pipe,
		logger:     logger,
	}
}

// Ask answers one query. Source ingestion is best-effort per provider;
// index and LLM failures propagate. A query for which every provider
// failed still runs the pipeline against whatever the index already holds.
func (s *ChatService) Ask(ctx context.Context, query string) (string, error) {
	chunks := s.aggregator.IngestAll(ctx, query)
	if len(chunks) > 0 {
		if err := s.index.Upsert(ctx, chunks); err != nil {
			return "", err
		}
	}
	return s.pipeline.Run(ctx, query)
}

// IngestFile loads a local PDF into the index and reports how many chunks
// were stored. Unlike Ask's ingestion, its errors are not suppressed.
func (s *ChatService) IngestFile(ctx context.Context, path string) (int, error) {
	chunks, err := s.fileSource.Ingest(ctx, path)
	if err != nil {
		return 0, err
	}
	if err := s.index.Upsert(ctx, chunks); err != nil {
		return 0, err
	}
	s.logger.Info("file ingested", zap.String("path", path), zap.Int("chunks", len(chunks)))
	return len(chunks), nil
}
