package source

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"ragchat/internal/domain"
)

type fakeAdapter struct {
	name   string
	chunks []domain.Chunk
	err    error
	calls  int
}

func (f *fakeAdapter) Name() string { return f.name }

func (f *fakeAdapter) Ingest(context.Context, string) ([]domain.Chunk, error) {
	f.calls++
	return f.chunks, f.err
}

func TestAggregator_AllSourcesFail(t *testing.T) {
	fail := fmt.Errorf("%w: unreachable", domain.ErrProvider)
	a := NewAggregator(zaptest.NewLogger(t),
		&fakeAdapter{name: "wikipedia", err: fail},
		&fakeAdapter{name: "arxiv", err: fail},
		&fakeAdapter{name: "web_search", err: fail},
	)

	chunks := a.IngestAll(context.Background(), "anything")
	assert.Empty(t, chunks)
}

func TestAggregator_PartialFailureKeepsSuccesses(t *testing.T) {
	wiki := &fakeAdapter{name: "wikipedia", chunks: []domain.Chunk{{Content: "w1"}, {Content: "w2"}}}
	arxiv := &fakeAdapter{name: "arxiv", err: fmt.Errorf("%w: quota", domain.ErrProvider)}
	web := &fakeAdapter{name: "web_search", chunks: []domain.Chunk{{Content: "s1"}}}
	a := NewAggregator(zaptest.NewLogger(t), wiki, arxiv, web)

	chunks := a.IngestAll(context.Background(), "q")

	require.Len(t, chunks, 3)
	assert.Equal(t, "w1", chunks[0].Content)
	assert.Equal(t, "w2", chunks[1].Content)
	assert.Equal(t, "s1", chunks[2].Content)
}

func TestAggregator_FailureDoesNotShortCircuit(t *testing.T) {
	first := &fakeAdapter{name: "wikipedia", err: fmt.Errorf("%w: down", domain.ErrProvider)}
	second := &fakeAdapter{name: "arxiv", chunks: []domain.Chunk{{Content: "a1"}}}
	a := NewAggregator(zaptest.NewLogger(t), first, second)

	chunks := a.IngestAll(context.Background(), "q")

	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 1, second.calls)
	require.Len(t, chunks, 1)
	assert.Equal(t, "a1", chunks[0].Content)
}

func TestAggregator_NoAdapters(t *testing.T) {
	a := NewAggregator(nil)
	assert.Empty(t, a.IngestAll(context.Background(), "q"))
}
