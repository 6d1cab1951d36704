package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "https://api.groq.com/openai/v1", cfg.LLM.BaseURL)
	assert.Equal(t, "GROQ_API_KEY", cfg.LLM.APIKeyEnv)
	assert.Equal(t, 1000, cfg.Chunker.ChunkSize)
	assert.Equal(t, 150, cfg.Chunker.ChunkOverlap)
	assert.Equal(t, "chroma_db", cfg.Index.Path)
	assert.Equal(t, 2, cfg.Sources.Wikipedia.MaxDocs)
	assert.Equal(t, 2, cfg.Sources.Arxiv.MaxDocs)
	assert.Equal(t, 4, cfg.Retriever.TopK)
}

func TestLoad_PartialConfigGetsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
llm:
  model: llama-3.3-70b-versatile
chunker:
  chunk_size: 500
retriever:
  top_k: 8
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "llama-3.3-70b-versatile", cfg.LLM.Model)
	assert.Equal(t, "https://api.groq.com/openai/v1", cfg.LLM.BaseURL)
	assert.Equal(t, 500, cfg.Chunker.ChunkSize)
	assert.Equal(t, 150, cfg.Chunker.ChunkOverlap)
	assert.Equal(t, 8, cfg.Retriever.TopK)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("llm: ["), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")
	cfg := defaultConfig()
	cfg.Index.Path = "elsewhere"
	cfg.Embedder.Type = "local"

	require.NoError(t, Save(path, cfg))
	loaded, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "elsewhere", loaded.Index.Path)
	assert.Equal(t, "local", loaded.Embedder.Type)
	assert.Equal(t, cfg.LLM, loaded.LLM)
}
