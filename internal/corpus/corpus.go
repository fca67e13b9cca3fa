package corpus

import (
	"github.com/sachinhub/saas-sales-agent/pkg/models"
)

// Options controls chunking in Build.
type Options struct {
	ChunkSize    int
	ChunkOverlap int
}

// Option configures Build.
type Option func(*Options)

// WithChunkSize sets the maximum chunk length in runes.
func WithChunkSize(n int) Option {
	return func(o *Options) { o.ChunkSize = n }
}

// WithChunkOverlap sets how many runes consecutive chunks share.
func WithChunkOverlap(n int) Option {
	return func(o *Options) { o.ChunkOverlap = n }
}

// Build renders the catalog and splits it into labeled chunks.
// A chunk's SourceLabel is the entity block holding its first rune.
func Build(src Source, opts ...Option) []models.Chunk {
	o := Options{ChunkSize: DefaultChunkSize, ChunkOverlap: DefaultChunkOverlap}
	for _, opt := range opts {
		opt(&o)
	}
	size, overlap := normalize(o.ChunkSize, o.ChunkOverlap)

	text, blocks := render(src)
	r := []rune(text)
	spans := splitRunes(r, size, overlap)

	chunks := make([]models.Chunk, len(spans))
	for i, s := range spans {
		t := string(r[s.Start:s.End])
		chunks[i] = models.Chunk{
			ID:          models.ChunkID(i, t),
			Text:        t,
			SourceLabel: labelAt(blocks, s.Start),
			Position:    i,
		}
	}
	return chunks
}

func labelAt(blocks []block, offset int) string {
	for _, b := range blocks {
		if offset >= b.start && offset < b.end {
			return b.label
		}
	}
	return ""
}
