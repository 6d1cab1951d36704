package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"ragchat/internal/chunker"
	"ragchat/internal/config"
	"ragchat/internal/domain"
	"ragchat/internal/embedding"
	"ragchat/internal/llm"
	"ragchat/internal/pipeline"
	"ragchat/internal/service"
	"ragchat/internal/source"
	"ragchat/internal/tui"
	"ragchat/internal/vectorindex"
)

func main() {
	_ = godotenv.Load()

	var cfgPath, pdfPath, question string
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ~/.config/ragchat/config.yaml if not provided)")
	flag.StringVar(&pdfPath, "pdf", "", "Ingest a local PDF into the index before starting")
	flag.StringVar(&question, "ask", "", "Answer a single question and exit instead of starting the chat UI")
	flag.Parse()

	var cfg *config.AppConfig
	var err error
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := newLogger(cfg.LogFile)
	defer logger.Sync()

	// Assemble components via interfaces
	split := chunker.NewRecursive(cfg.Chunker.ChunkSize, cfg.Chunker.ChunkOverlap)

	var emb domain.Embedder
	switch cfg.Embedder.Type {
	case "openai", "":
		emb, err = embedding.NewOpenAI(embedding.OpenAIConfig{
			BaseURL:   cfg.Embedder.OpenAI.BaseURL,
			APIKeyEnv: cfg.Embedder.OpenAI.APIKeyEnv,
			Model:     cfg.Embedder.OpenAI.Model,
			Timeout:   time.Duration(cfg.Embedder.OpenAI.TimeoutSecs) * time.Second,
		})
		if err != nil {
			log.Fatalf("openai embedder init failed: %v", err)
		}
	case "local":
		emb = embedding.NewLocal(0)
	default:
		log.Fatalf("unknown embedder: %s", cfg.Embedder.Type)
	}

	index, err := vectorindex.New(vectorindex.Config{
		Path:       cfg.Index.Path,
		Collection: cfg.Index.Collection,
		Compress:   cfg.Index.Compress,
	}, emb, logger)
	if err != nil {
		log.Fatalf("vector index init failed: %v", err)
	}

	aggregator := source.NewAggregator(logger,
		source.NewWikipedia(source.WikipediaConfig{
			BaseURL: cfg.Sources.Wikipedia.BaseURL,
			MaxDocs: cfg.Sources.Wikipedia.MaxDocs,
			Timeout: time.Duration(cfg.Sources.Wikipedia.TimeoutSecs) * time.Second,
		}, split),
		source.NewArxiv(source.ArxivConfig{
			BaseURL: cfg.Sources.Arxiv.BaseURL,
			MaxDocs: cfg.Sources.Arxiv.MaxDocs,
			Timeout: time.Duration(cfg.Sources.Arxiv.TimeoutSecs) * time.Second,
		}, split),
		source.NewWebSearch(source.WebSearchConfig{
			BaseURL:   cfg.Sources.WebSearch.BaseURL,
			APIKeyEnv: cfg.Sources.WebSearch.APIKeyEnv,
			Timeout:   time.Duration(cfg.Sources.WebSearch.TimeoutSecs) * time.Second,
		}, split),
	)

	completer, err := llm.New(llm.Config{
		BaseURL:     cfg.LLM.BaseURL,
		APIKeyEnv:   cfg.LLM.APIKeyEnv,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		Timeout:     time.Duration(cfg.LLM.TimeoutSecs) * time.Second,
	})
	if err != nil {
		log.Fatalf("llm init failed: %v", err)
	}

	pipe := pipeline.New(index, completer, cfg.Retriever.TopK, logger)
	svc := service.NewChatService(aggregator, source.NewPDF(split), index, pipe, logger)

	ctx := context.Background()
	if pdfPath != "" {
		n, err := svc.IngestFile(ctx, pdfPath)
		if err != nil {
			log.Fatalf("pdf ingest failed: %v", err)
		}
		fmt.Printf("Ingested %d chunks from %s\n", n, pdfPath)
	}

	if question != "" {
		answer, err := svc.Ask(ctx, question)
		if err != nil {
			log.Fatalf("query failed: %v", err)
		}
		fmt.Println(answer)
		return
	}

	m := tui.New(svc)
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		log.Fatal(err)
	}
}

// newLogger writes structured logs to a file so they do not interleave
// with the chat UI. Logging is off unless log_file is configured.
func newLogger(path string) *zap.Logger {
	if path == "" {
		return zap.NewNop()
	}
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	logger, err := cfg.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed: %v\n", err)
		return zap.NewNop()
	}
	return logger
}
