// Package pipeline runs a full knowledge-base update: crawl, persist, ingest.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sachinhub/saas-sales-agent/internal/crawler"
	"github.com/sachinhub/saas-sales-agent/internal/ingestion"
	"github.com/sachinhub/saas-sales-agent/internal/storage"
	"github.com/sachinhub/saas-sales-agent/pkg/models"
)

// SnapshotWriter persists snapshots remotely. *storage.Client satisfies it.
type SnapshotWriter interface {
	PutSnapshot(ctx context.Context, prefix string, snap *models.Snapshot, meta storage.CrawlMetadata) error
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithSnapshotFile saves every crawl snapshot to path.
func WithSnapshotFile(path string) Option {
	return func(p *Pipeline) { p.snapshotPath = path }
}

// WithStore persists every crawl snapshot to object storage.
func WithStore(store SnapshotWriter) Option {
	return func(p *Pipeline) { p.store = store }
}

// Result holds pipeline execution results.
type Result struct {
	PagesCrawled int
	PagesFailed  int
	SnapshotPath string
	Prefix       string
	Ingest       *ingestion.Result
	Duration     time.Duration
}

// Pipeline orchestrates the crawl, persist and ingest flow.
type Pipeline struct {
	crawler      *crawler.Crawler
	engine       *ingestion.Engine
	snapshotPath string
	store        SnapshotWriter
}

// New creates a new Pipeline.
func New(c *crawler.Crawler, engine *ingestion.Engine, opts ...Option) *Pipeline {
	p := &Pipeline{crawler: c, engine: engine}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes the full pipeline for a seed URL. A crawl cut short by ctx
// is still persisted but not ingested.
func (p *Pipeline) Run(ctx context.Context, seedURL string) (*Result, error) {
	start := time.Now()
	result := &Result{}

	snap, crawlErr := p.crawler.Crawl(ctx, seedURL)
	stats := p.crawler.Stats()
	result.PagesCrawled = stats.Pages
	result.PagesFailed = stats.Failed
	if snap == nil {
		return result, crawlErr
	}

	if err := p.persist(context.WithoutCancel(ctx), seedURL, snap, start, result); err != nil {
		return result, err
	}
	if crawlErr != nil {
		return result, fmt.Errorf("crawl interrupted: %w", crawlErr)
	}

	ingested, err := p.engine.Apply(ctx, snap)
	result.Ingest = ingested
	if err != nil {
		return result, err
	}

	result.Duration = time.Since(start)
	slog.Info("update complete",
		"seed", seedURL,
		"pages", result.PagesCrawled,
		"failed", result.PagesFailed,
		"duration", result.Duration)
	return result, nil
}

func (p *Pipeline) persist(ctx context.Context, seedURL string, snap *models.Snapshot, start time.Time, result *Result) error {
	if p.snapshotPath != "" {
		if err := crawler.SaveSnapshot(p.snapshotPath, snap); err != nil {
			return err
		}
		result.SnapshotPath = p.snapshotPath
		slog.Debug("snapshot saved", "path", p.snapshotPath)
	}

	if p.store == nil {
		return nil
	}
	prefix, err := storage.NewPrefix(seedURL, start)
	if err != nil {
		return err
	}
	meta := storage.CrawlMetadata{
		SourceURL: seedURL,
		Timestamp: start.UTC().Format(time.RFC3339),
		Failed:    result.PagesFailed,
	}
	if err := p.store.PutSnapshot(ctx, prefix, snap, meta); err != nil {
		return err
	}
	result.Prefix = prefix
	slog.Debug("snapshot stored", "prefix", prefix)
	return nil
}
