// Package retrieval is the in-memory nearest-neighbour index over corpus chunks.
package retrieval

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/sachinhub/saas-sales-agent/pkg/models"
)

// Default result sizes.
const (
	DefaultK = 3 // question answering
	EntityK  = 5 // relevant product and industry lookups
)

// ErrDimensionMismatch is returned when embeddings disagree in length.
var ErrDimensionMismatch = errors.New("embedding dimension mismatch")

// Embedder turns text into a vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Index holds normalized chunk embeddings. It is immutable after Build
// and safe for concurrent Search.
type Index struct {
	embedder Embedder
	chunks   []models.Chunk
	vectors  [][]float32
	dims     int
}

// Build embeds every chunk in order.
func Build(ctx context.Context, embedder Embedder, chunks []models.Chunk) (*Index, error) {
	if embedder == nil {
		return nil, errors.New("embedder is required")
	}

	idx := &Index{
		embedder: embedder,
		chunks:   make([]models.Chunk, len(chunks)),
		vectors:  make([][]float32, len(chunks)),
	}
	copy(idx.chunks, chunks)

	for i, c := range chunks {
		vec, err := embedder.Embed(ctx, c.Text)
		if err != nil {
			return nil, fmt.Errorf("embed chunk %d: %w", i, err)
		}
		if i == 0 {
			idx.dims = len(vec)
		} else if len(vec) != idx.dims {
			return nil, fmt.Errorf("%w: chunk %d has %d, want %d", ErrDimensionMismatch, i, len(vec), idx.dims)
		}
		idx.vectors[i] = normalized(vec)
	}

	slog.Debug("built retrieval index", "chunks", len(chunks), "dimensions", idx.dims)
	return idx, nil
}

// Len returns the number of indexed chunks.
func (idx *Index) Len() int {
	return len(idx.chunks)
}

// Search returns up to k chunks by descending cosine similarity to query.
// Equal scores keep insertion order. A non-positive k selects DefaultK.
func (idx *Index) Search(ctx context.Context, query string, k int) ([]models.Hit, error) {
	if k <= 0 {
		k = DefaultK
	}
	if len(idx.chunks) == 0 {
		return nil, nil
	}

	q, err := idx.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(q) != idx.dims {
		return nil, fmt.Errorf("%w: query has %d, want %d", ErrDimensionMismatch, len(q), idx.dims)
	}
	q = normalized(q)

	hits := make([]models.Hit, len(idx.chunks))
	for i, v := range idx.vectors {
		hits[i] = models.Hit{Chunk: idx.chunks[i], Score: dot(q, v)}
	}
	sort.SliceStable(hits, func(a, b int) bool {
		return hits[a].Score > hits[b].Score
	})

	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

func dot(a, b []float32) float64 {
	var s float64
	for i := range a {
		s += float64(a[i]) * float64(b[i])
	}
	return s
}

// normalized returns a unit-length copy of v; the zero vector stays zero.
func normalized(v []float32) []float32 {
	out := make([]float32, len(v))
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return out
	}
	norm := math.Sqrt(sum)
	for i, x := range v {
		out[i] = float32(float64(x) / norm)
	}
	return out
}
