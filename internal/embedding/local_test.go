package embedding

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocal_Deterministic(t *testing.T) {
	l := NewLocal(0)
	ctx := context.Background()

	a, err := l.EmbedQuery(ctx, "the quick brown fox")
	require.NoError(t, err)
	b, err := l.EmbedQuery(ctx, "the quick brown fox")
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Len(t, a, defaultLocalDimension)
}

func TestLocal_Normalized(t *testing.T) {
	l := NewLocal(64)
	vec, err := l.EmbedQuery(context.Background(), "some text with several words")
	require.NoError(t, err)

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, norm, 1e-5)
}

func TestLocal_EmptyInputIsValidVector(t *testing.T) {
	l := NewLocal(64)
	vec, err := l.EmbedQuery(context.Background(), "")
	require.NoError(t, err)

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, norm, 1e-5)
}

func TestLocal_SimilarTextsScoreHigher(t *testing.T) {
	l := NewLocal(0)
	ctx := context.Background()

	query, err := l.EmbedQuery(ctx, "What is the capital of France?")
	require.NoError(t, err)
	docs, err := l.EmbedDocuments(ctx, []string{
		"Paris is the capital of France.",
		"Quantum entanglement links particle states.",
	})
	require.NoError(t, err)
	require.Len(t, docs, 2)

	assert.Greater(t, dot(query, docs[0]), dot(query, docs[1]))
}

func TestLocal_CaseInsensitiveTokens(t *testing.T) {
	l := NewLocal(0)
	ctx := context.Background()

	a, _ := l.EmbedQuery(ctx, "France Paris")
	b, _ := l.EmbedQuery(ctx, "france paris")
	assert.Equal(t, a, b)
}

func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	if math.IsNaN(sum) {
		return 0
	}
	return sum
}
