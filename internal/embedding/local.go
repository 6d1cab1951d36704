package embedding

import (
	"context"
	"hash/fnv"
	"math"
	"regexp"
	"strings"
)

// Local is an offline bag-of-words embedder using feature hashing: each
// token is hashed into a fixed-size vector which is then L2-normalized.
// Deterministic for the same input, no network, no preparation phase.
// Useful without an embeddings endpoint and as a test double; texts that
// share tokens come out with high cosine similarity.
type Local struct {
	dimension int
}

const defaultLocalDimension = 256

var tokenRe = regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*|\p{N}+`)

func NewLocal(dimension int) *Local {
	if dimension <= 0 {
		dimension = defaultLocalDimension
	}
	return &Local{dimension: dimension}
}

// EmbedDocuments embeds every text independently.
func (l *Local) EmbedDocuments(_ context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, t := range texts {
		vectors[i] = l.embed(t)
	}
	return vectors, nil
}

// EmbedQuery embeds a single query text.
func (l *Local) EmbedQuery(_ context.Context, text string) ([]float32, error) {
	return l.embed(text), nil
}

func (l *Local) embed(text string) []float32 {
	vec := make([]float32, l.dimension)
	tokens := tokenRe.FindAllString(strings.ToLower(text), -1)
	for _, tok := range tokens {
		h := fnv.New32a()
		h.Write([]byte(tok))
		vec[int(h.Sum32())%l.dimension]++
	}
	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm == 0 {
		// Zero vectors break cosine similarity; mark the first component
		// so empty inputs still embed to a valid unit vector.
		vec[0] = 1
		return vec
	}
	inv := float32(1 / math.Sqrt(norm))
	for i := range vec {
		vec[i] *= inv
	}
	return vec
}
