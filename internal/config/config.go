package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LLMConfig holds configuration for the OpenAI-compatible chat model.
// The default base URL points at Groq, which speaks the OpenAI API.
type LLMConfig struct {
	BaseURL     string  `yaml:"base_url"`
	APIKeyEnv   string  `yaml:"api_key_env"`
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
	TimeoutSecs int     `yaml:"timeout_secs"`
}

// OpenAIEmbedderConfig holds configuration for the OpenAI-compatible embedder.
type OpenAIEmbedderConfig struct {
	BaseURL     string `yaml:"base_url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	Model       string `yaml:"model"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// EmbedderConfig selects and configures the text embedder implementation.
type EmbedderConfig struct {
	Type   string                `yaml:"type"`
	OpenAI *OpenAIEmbedderConfig `yaml:"openai,omitempty"`
}

// ChunkerConfig configures how documents are split into chunks.
type ChunkerConfig struct {
	ChunkSize    int `yaml:"chunk_size"`
	ChunkOverlap int `yaml:"chunk_overlap"`
}

// IndexConfig configures the persistent vector index.
type IndexConfig struct {
	Path       string `yaml:"path"`
	Collection string `yaml:"collection"`
	Compress   bool   `yaml:"compress"`
}

// SourcesConfig configures the ingestion source adapters.
type SourcesConfig struct {
	Wikipedia WikipediaConfig `yaml:"wikipedia"`
	Arxiv     ArxivConfig     `yaml:"arxiv"`
	WebSearch WebSearchConfig `yaml:"web_search"`
}

// WikipediaConfig contains settings for the encyclopedia adapter.
type WikipediaConfig struct {
	BaseURL     string `yaml:"base_url"`
	MaxDocs     int    `yaml:"max_docs"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// ArxivConfig contains settings for the preprint-index adapter.
type ArxivConfig struct {
	BaseURL     string `yaml:"base_url"`
	MaxDocs     int    `yaml:"max_docs"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// WebSearchConfig contains settings for the SerpAPI web-search adapter.
type WebSearchConfig struct {
	BaseURL     string `yaml:"base_url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// RetrieverConfig configures similarity retrieval.
type RetrieverConfig struct {
	TopK int `yaml:"top_k"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	LLM       LLMConfig       `yaml:"llm"`
	Embedder  EmbedderConfig  `yaml:"embedder"`
	Chunker   ChunkerConfig   `yaml:"chunker"`
	Index     IndexConfig     `yaml:"index"`
	Sources   SourcesConfig   `yaml:"sources"`
	Retriever RetrieverConfig `yaml:"retriever"`
	LogFile   string          `yaml:"log_file"`
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultConfig(), nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(&cfg)
	return &cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/ragchat/config.yaml.
// If neither exists, it writes defaults to ~/.config/ragchat/config.yaml and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "ragchat", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{}
	applyConfigDefaults(cfg)
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.LLM.BaseURL == "" {
		cfg.LLM.BaseURL = "https://api.groq.com/openai/v1"
	}
	if cfg.LLM.APIKeyEnv == "" {
		cfg.LLM.APIKeyEnv = "GROQ_API_KEY"
	}
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = "meta-llama/llama-4-scout-17b-16e-instruct"
	}
	if cfg.LLM.TimeoutSecs == 0 {
		cfg.LLM.TimeoutSecs = 60
	}
	if cfg.Embedder.Type == "" {
		cfg.Embedder.Type = "openai"
	}
	if cfg.Embedder.Type == "openai" {
		if cfg.Embedder.OpenAI == nil {
			cfg.Embedder.OpenAI = &OpenAIEmbedderConfig{}
		}
		if cfg.Embedder.OpenAI.BaseURL == "" {
			cfg.Embedder.OpenAI.BaseURL = "https://api.openai.com/v1"
		}
		if cfg.Embedder.OpenAI.APIKeyEnv == "" {
			cfg.Embedder.OpenAI.APIKeyEnv = "OPENAI_API_KEY"
		}
		if cfg.Embedder.OpenAI.Model == "" {
			cfg.Embedder.OpenAI.Model = "text-embedding-3-small"
		}
		if cfg.Embedder.OpenAI.TimeoutSecs == 0 {
			cfg.Embedder.OpenAI.TimeoutSecs = 30
		}
	}
	if cfg.Chunker.ChunkSize == 0 {
		cfg.Chunker.ChunkSize = 1000
	}
	if cfg.Chunker.ChunkOverlap == 0 {
		cfg.Chunker.ChunkOverlap = 150
	}
	if cfg.Index.Path == "" {
		cfg.Index.Path = "chroma_db"
	}
	if cfg.Index.Collection == "" {
		cfg.Index.Collection = "ragchat"
	}
	if cfg.Sources.Wikipedia.BaseURL == "" {
		cfg.Sources.Wikipedia.BaseURL = "https://en.wikipedia.org/w/api.php"
	}
	if cfg.Sources.Wikipedia.MaxDocs == 0 {
		cfg.Sources.Wikipedia.MaxDocs = 2
	}
	if cfg.Sources.Wikipedia.TimeoutSecs == 0 {
		cfg.Sources.Wikipedia.TimeoutSecs = 15
	}
	if cfg.Sources.Arxiv.BaseURL == "" {
		cfg.Sources.Arxiv.BaseURL = "https://export.arxiv.org/api/query"
	}
	if cfg.Sources.Arxiv.MaxDocs == 0 {
		cfg.Sources.Arxiv.MaxDocs = 2
	}
	if cfg.Sources.Arxiv.TimeoutSecs == 0 {
		cfg.Sources.Arxiv.TimeoutSecs = 15
	}
	if cfg.Sources.WebSearch.BaseURL == "" {
		cfg.Sources.WebSearch.BaseURL = "https://serpapi.com/search.json"
	}
	if cfg.Sources.WebSearch.APIKeyEnv == "" {
		cfg.Sources.WebSearch.APIKeyEnv = "SERPAPI_API_KEY"
	}
	if cfg.Sources.WebSearch.TimeoutSecs == 0 {
		cfg.Sources.WebSearch.TimeoutSecs = 15
	}
	if cfg.Retriever.TopK == 0 {
		cfg.Retriever.TopK = 4
	}
}
