// Package ingestion applies crawl snapshots to the catalog and rebuilds the index.
package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/sachinhub/saas-sales-agent/internal/catalog"
	"github.com/sachinhub/saas-sales-agent/internal/crawler"
	"github.com/sachinhub/saas-sales-agent/internal/extractor"
	"github.com/sachinhub/saas-sales-agent/pkg/models"
)

// Target is the catalog owner that is rebuilt after a merge.
// *orchestrator.Orchestrator satisfies it.
type Target interface {
	Catalog() *catalog.Catalog
	Rebuild(ctx context.Context) error
	Ready() bool
}

// SnapshotStore reads stored snapshots. *storage.Client satisfies it.
type SnapshotStore interface {
	GetSnapshot(ctx context.Context, prefix string) (*models.Snapshot, error)
}

// Result holds ingestion execution results.
type Result struct {
	Source            string
	Pages             int
	ProductsUpdated   []string
	IndustriesUpdated []string
	Unknown           []string
	Rebuilt           bool
	Duration          time.Duration
}

// Engine merges extracted facts into the catalog of a Target.
type Engine struct {
	target Target
}

// New creates a new ingestion engine.
func New(target Target) *Engine {
	return &Engine{target: target}
}

// IngestFile applies the snapshot file at path.
func (e *Engine) IngestFile(ctx context.Context, path string) (*Result, error) {
	snap, err := crawler.LoadSnapshot(path)
	if err != nil {
		return nil, err
	}
	return e.apply(ctx, path, snap)
}

// IngestPrefix applies the snapshot stored under prefix.
func (e *Engine) IngestPrefix(ctx context.Context, store SnapshotStore, prefix string) (*Result, error) {
	snap, err := store.GetSnapshot(ctx, prefix)
	if err != nil {
		return nil, err
	}
	return e.apply(ctx, prefix, snap)
}

// Apply merges an in-memory snapshot.
func (e *Engine) Apply(ctx context.Context, snap *models.Snapshot) (*Result, error) {
	return e.apply(ctx, "memory", snap)
}

func (e *Engine) apply(ctx context.Context, source string, snap *models.Snapshot) (*Result, error) {
	start := time.Now()
	result := &Result{Source: source, Pages: snap.Len()}

	slog.Info("starting ingestion", "source", source, "pages", snap.Len())

	cat := e.target.Catalog()
	products := cat.ApplyProducts(extractor.ExtractProducts(snap))
	industries := cat.ApplyIndustries(extractor.ExtractIndustries(snap))

	result.ProductsUpdated = products.Updated
	result.IndustriesUpdated = industries.Updated
	result.Unknown = slices.Concat(products.Unknown, industries.Unknown)

	// the first ingest also builds the index
	if len(result.ProductsUpdated)+len(result.IndustriesUpdated) > 0 || !e.target.Ready() {
		if err := e.target.Rebuild(ctx); err != nil {
			return result, fmt.Errorf("failed to rebuild index: %w", err)
		}
		result.Rebuilt = true
	}

	result.Duration = time.Since(start)
	slog.Info("ingestion complete",
		"source", source,
		"products_updated", len(result.ProductsUpdated),
		"industries_updated", len(result.IndustriesUpdated),
		"unknown", len(result.Unknown),
		"rebuilt", result.Rebuilt,
		"duration", result.Duration)

	return result, nil
}
