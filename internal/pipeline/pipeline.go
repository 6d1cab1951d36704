// Package pipeline composes routing, retrieval and answer generation into
// a fixed three-stage transformation from a query to an answer.
package pipeline

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"ragchat/internal/domain"
)

const promptTemplate = `Use the following context to answer the question.

Context:
%s

Question:
%s
`

// Pipeline runs route -> retrieve -> answer in strict sequence over an
// immutable state value. No conditional edges, no retries; the first
// failing stage aborts the run and its error propagates to the caller.
type Pipeline struct {
	index     domain.VectorIndex
	completer domain.Completer
	topK      int
	logger    *zap.Logger
}

func New(index domain.VectorIndex, completer domain.Completer, topK int, logger *zap.Logger) *Pipeline {
	if topK <= 0 {
		topK = 4
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{index: index, completer: completer, topK: topK, logger: logger}
}

// Run executes the pipeline for one query and returns the answer text.
func (p *Pipeline) Run(ctx context.Context, query string) (string, error) {
	state, err := p.RunState(ctx, query)
	if err != nil {
		return "", err
	}
	return state.Answer, nil
}

// RunState executes the pipeline and returns the final state, with the
// routed source, retrieved context and answer populated.
func (p *Pipeline) RunState(ctx context.Context, query string) (domain.State, error) {
	state := domain.State{Query: query}

	state = p.route(state)
	state, err := p.retrieve(ctx, state)
	if err != nil {
		return state, err
	}
	state, err = p.answer(ctx, state)
	if err != nil {
		return state, err
	}

	p.logger.Debug("pipeline finished",
		zap.String("query", state.Query),
		zap.String("source", string(state.Source)),
		zap.Int("context_len", len(state.Context)),
	)
	return state, nil
}

func (p *Pipeline) route(state domain.State) domain.State {
	state.Source = Classify(state.Query)
	return state
}

// retrieve fills state.Context with the top-k chunks joined by blank
// lines. Zero retrieved chunks leave the context empty; the answer stage
// still runs.
func (p *Pipeline) retrieve(ctx context.Context, state domain.State) (domain.State, error) {
	chunks, err := p.index.Query(ctx, state.Query, p.topK)
	if err != nil {
		return state, err
	}
	parts := make([]string, 0, len(chunks))
	for _, c := range chunks {
		parts = append(parts, c.Content)
	}
	state.Context = strings.Join(parts, "\n\n")
	return state, nil
}

func (p *Pipeline) answer(ctx context.Context, state domain.State) (domain.State, error) {
	prompt := fmt.Sprintf(promptTemplate, state.Context, state.Query)
	out, err := p.completer.Complete(ctx, prompt)
	if err != nil {
		return state, err
	}
	state.Answer = out
	return state, nil
}
