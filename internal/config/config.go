package config

import (
	"fmt"
	"time"

	"github.com/sachinhub/saas-sales-agent/internal/corpus"
	"github.com/sachinhub/saas-sales-agent/internal/crawler"
	"github.com/sachinhub/saas-sales-agent/internal/elasticsearch"
	"github.com/sachinhub/saas-sales-agent/internal/embeddings"
	"github.com/sachinhub/saas-sales-agent/internal/gemini"
	"github.com/sachinhub/saas-sales-agent/internal/httpapi"
	"github.com/sachinhub/saas-sales-agent/internal/mcp"
	"github.com/sachinhub/saas-sales-agent/internal/retrieval"
	"github.com/sachinhub/saas-sales-agent/internal/storage"
)

// Retrieval backends.
const (
	BackendMemory        = "memory"
	BackendElasticsearch = "elasticsearch"
)

// Answerer providers.
const (
	LLMExtractive = "extractive"
	LLMDMR        = "dmr"
	LLMGemini     = "gemini"
)

// Config holds all application configuration.
type Config struct {
	Crawler       Crawler              `mapstructure:"crawler"`
	Corpus        Corpus               `mapstructure:"corpus"`
	Retrieval     Retrieval            `mapstructure:"retrieval"`
	Embeddings    embeddings.Config    `mapstructure:"embeddings"`
	LLM           LLM                  `mapstructure:"llm"`
	Gemini        gemini.Config        `mapstructure:"gemini"`
	Elasticsearch elasticsearch.Config `mapstructure:"elasticsearch"`
	Storage       storage.Config       `mapstructure:"storage"`
	Catalog       Catalog              `mapstructure:"catalog"`
	HTTP          httpapi.Config       `mapstructure:"http"`
	MCP           mcp.Config           `mapstructure:"mcp"`
}

// Crawler holds site crawling configuration.
type Crawler struct {
	SeedURL      string        `mapstructure:"seed_url"`
	Delay        time.Duration `mapstructure:"delay"`
	Timeout      time.Duration `mapstructure:"timeout"`
	UserAgent    string        `mapstructure:"user_agent"`
	MaxPages     int           `mapstructure:"max_pages"`
	SnapshotPath string        `mapstructure:"snapshot_path"`
}

// Corpus holds chunking configuration.
type Corpus struct {
	ChunkSize    int `mapstructure:"chunk_size"`
	ChunkOverlap int `mapstructure:"chunk_overlap"`
}

// Retrieval holds index configuration.
type Retrieval struct {
	Backend string `mapstructure:"backend"` // memory or elasticsearch
	TopK    int    `mapstructure:"top_k"`
	EntityK int    `mapstructure:"entity_k"`
}

// LLM holds answerer configuration.
type LLM struct {
	Provider   string `mapstructure:"provider"` // extractive, dmr or gemini
	SocketPath string `mapstructure:"socket_path"`
	Model      string `mapstructure:"model"`
	MaxTokens  int    `mapstructure:"max_tokens"`
}

// Catalog holds the catalog file location. Empty means the built-in catalog.
type Catalog struct {
	File string `mapstructure:"file"`
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		Crawler: Crawler{
			SeedURL:      "https://saas.elastic.run/",
			Delay:        crawler.DefaultDelay,
			Timeout:      crawler.DefaultTimeout,
			UserAgent:    crawler.DefaultUserAgent,
			SnapshotPath: "data/snapshot.json",
		},
		Corpus: Corpus{
			ChunkSize:    corpus.DefaultChunkSize,
			ChunkOverlap: corpus.DefaultChunkOverlap,
		},
		Retrieval: Retrieval{
			Backend: BackendMemory,
			TopK:    retrieval.DefaultK,
			EntityK: retrieval.EntityK,
		},
		Embeddings: embeddings.Config{
			Provider:   embeddings.ProviderHash,
			Dimensions: embeddings.DefaultDimensions,
			SocketPath: "", // User must provide their Docker socket path
			Model:      "ai/all-minilm",
		},
		LLM: LLM{
			Provider:   LLMExtractive,
			SocketPath: "", // User must provide their Docker socket path
			Model:      "ai/gemma3",
		},
		Gemini: gemini.Config{
			Model: gemini.DefaultModel,
		},
		Elasticsearch: elasticsearch.Config{
			Addresses: []string{"http://localhost:9200"},
			Alias:     elasticsearch.DefaultAlias,
		},
		Storage: storage.Config{
			Endpoint:        "localhost:9002",
			Bucket:          "sales-agent",
			AccessKeyID:     "minioadmin",
			SecretAccessKey: "minioadmin",
			UseSSL:          false,
		},
		HTTP: httpapi.Config{
			Addr: httpapi.DefaultAddr,
		},
		MCP: mcp.Config{
			Name:    "sales-agent",
			Version: "1.0.0",
		},
	}
}

// Validate rejects unknown provider and backend names.
func (c Config) Validate() error {
	switch c.Retrieval.Backend {
	case BackendMemory, BackendElasticsearch:
	default:
		return fmt.Errorf("unknown retrieval backend %q", c.Retrieval.Backend)
	}
	switch c.LLM.Provider {
	case LLMExtractive, LLMDMR, LLMGemini:
	default:
		return fmt.Errorf("unknown llm provider %q", c.LLM.Provider)
	}
	switch c.Embeddings.Provider {
	case embeddings.ProviderHash, embeddings.ProviderDMR:
	default:
		return fmt.Errorf("unknown embeddings provider %q", c.Embeddings.Provider)
	}
	return nil
}
