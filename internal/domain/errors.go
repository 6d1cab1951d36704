package domain

import "errors"

// Sentinel errors for the pipeline. Wrap with fmt.Errorf("...: %w", ...)
// and match with errors.Is.
var (
	// ErrProvider is returned when a single source adapter's remote call
	// fails. The aggregator absorbs it; it never reaches Ask's caller.
	ErrProvider = errors.New("source provider failed")

	// ErrEmbedding is returned when embedding computation fails.
	ErrEmbedding = errors.New("embedding failed")

	// ErrStore is returned when the vector index cannot be read or written.
	ErrStore = errors.New("vector store failed")

	// ErrLLM is returned when the answer-generation call fails.
	ErrLLM = errors.New("llm call failed")
)
