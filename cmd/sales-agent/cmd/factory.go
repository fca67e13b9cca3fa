package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/sachinhub/saas-sales-agent/internal/catalog"
	"github.com/sachinhub/saas-sales-agent/internal/config"
	"github.com/sachinhub/saas-sales-agent/internal/corpus"
	"github.com/sachinhub/saas-sales-agent/internal/crawler"
	"github.com/sachinhub/saas-sales-agent/internal/elasticsearch"
	"github.com/sachinhub/saas-sales-agent/internal/embeddings"
	"github.com/sachinhub/saas-sales-agent/internal/gemini"
	"github.com/sachinhub/saas-sales-agent/internal/ingestion"
	"github.com/sachinhub/saas-sales-agent/internal/llm"
	"github.com/sachinhub/saas-sales-agent/internal/orchestrator"
	"github.com/sachinhub/saas-sales-agent/internal/retrieval"
	"github.com/sachinhub/saas-sales-agent/internal/storage"
)

// loadCatalog reads the configured catalog file, falling back to the
// built-in catalog when none is configured or the file does not exist yet.
func loadCatalog(cfg config.Config) (*catalog.Catalog, error) {
	if cfg.Catalog.File == "" {
		return catalog.Default(), nil
	}
	if _, err := os.Stat(cfg.Catalog.File); errors.Is(err, fs.ErrNotExist) {
		slog.Info("catalog file not found, using built-in catalog", "file", cfg.Catalog.File)
		return catalog.Default(), nil
	}
	return catalog.Load(cfg.Catalog.File)
}

func newIndexBuilder(cfg config.Config) (orchestrator.IndexBuilder, error) {
	embedder, err := embeddings.New(cfg.Embeddings)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedder: %w", err)
	}

	switch cfg.Retrieval.Backend {
	case config.BackendElasticsearch:
		client, err := elasticsearch.New(cfg.Elasticsearch)
		if err != nil {
			return nil, err
		}
		slog.Info("using elasticsearch index", "alias", client.Alias())
		return elasticsearch.NewBuilder(client, embedder), nil
	default:
		return retrieval.NewBuilder(embedder), nil
	}
}

func newAnswerer(ctx context.Context, cfg config.Config) (llm.Answerer, error) {
	switch cfg.LLM.Provider {
	case config.LLMDMR:
		client, err := llm.NewClient(llm.ClientConfig{
			SocketPath: cfg.LLM.SocketPath,
			Model:      cfg.LLM.Model,
			MaxTokens:  cfg.LLM.MaxTokens,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create LLM client: %w", err)
		}
		slog.Info("answering with model runner", "model", cfg.LLM.Model)
		return client, nil
	case config.LLMGemini:
		client, err := gemini.NewClient(ctx, cfg.Gemini)
		if err != nil {
			return nil, err
		}
		slog.Info("answering with gemini", "model", cfg.Gemini.Model)
		return gemini.NewAnswerer(client, cfg.Gemini.Model), nil
	default:
		return llm.NewExtractive(), nil
	}
}

func newOrchestrator(ctx context.Context, cfg config.Config) (*orchestrator.Orchestrator, error) {
	cat, err := loadCatalog(cfg)
	if err != nil {
		return nil, err
	}
	builder, err := newIndexBuilder(cfg)
	if err != nil {
		return nil, err
	}
	answerer, err := newAnswerer(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return orchestrator.New(cat, builder, answerer,
		orchestrator.WithTopK(cfg.Retrieval.TopK),
		orchestrator.WithEntityK(cfg.Retrieval.EntityK),
		orchestrator.WithCorpusOptions(
			corpus.WithChunkSize(cfg.Corpus.ChunkSize),
			corpus.WithChunkOverlap(cfg.Corpus.ChunkOverlap),
		),
	), nil
}

// prepare builds an orchestrator with a ready index, merging the snapshot
// file first when one is given.
func prepare(ctx context.Context, cfg config.Config, snapshotPath string) (*orchestrator.Orchestrator, error) {
	o, err := newOrchestrator(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if snapshotPath != "" {
		if _, err := ingestion.New(o).IngestFile(ctx, snapshotPath); err != nil {
			return nil, fmt.Errorf("failed to ingest snapshot: %w", err)
		}
		return o, nil
	}

	if err := o.Rebuild(ctx); err != nil {
		return nil, err
	}
	return o, nil
}

func newCrawler(cfg config.Config, maxPages int) *crawler.Crawler {
	fetcher := crawler.NewCollyFetcher(crawler.FetcherConfig{
		UserAgent: cfg.Crawler.UserAgent,
		Timeout:   cfg.Crawler.Timeout,
	})
	return crawler.New(fetcher, crawler.Config{
		Delay:    cfg.Crawler.Delay,
		MaxPages: maxPages,
	})
}

func newStorage(ctx context.Context, cfg config.Config) (*storage.Client, error) {
	if cfg.Storage.Endpoint == "" {
		return nil, fmt.Errorf("storage not configured - check config file")
	}

	client, err := storage.New(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	if err := client.EnsureBucket(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure bucket: %w", err)
	}
	return client, nil
}
