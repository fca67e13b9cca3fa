package retrieval

import (
	"context"

	"github.com/sachinhub/saas-sales-agent/pkg/models"
)

// Searcher answers nearest-neighbour queries over a built corpus.
type Searcher interface {
	Search(ctx context.Context, query string, k int) ([]models.Hit, error)
}

// Builder builds in-memory indexes with a fixed embedder.
type Builder struct {
	Embedder Embedder
}

// NewBuilder creates a Builder.
func NewBuilder(e Embedder) *Builder {
	return &Builder{Embedder: e}
}

// Build embeds chunks into a fresh Index.
func (b *Builder) Build(ctx context.Context, chunks []models.Chunk) (Searcher, error) {
	idx, err := Build(ctx, b.Embedder, chunks)
	if err != nil {
		return nil, err
	}
	return idx, nil
}
