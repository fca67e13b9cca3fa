package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/sachinhub/saas-sales-agent/internal/retrieval"
	"github.com/sachinhub/saas-sales-agent/pkg/models"
)

// Embedder embeds chunk and query text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimensions() int
}

// chunkDoc is the stored form of a chunk.
type chunkDoc struct {
	ID          string    `json:"id"`
	Text        string    `json:"text"`
	SourceLabel string    `json:"source_label,omitempty"`
	Position    int       `json:"position"`
	Embedding   []float32 `json:"embedding,omitempty"`
}

// Builder writes a complete corpus into a fresh physical index and then
// moves the alias onto it. Searches keep hitting the previous index until
// the swap, and a failed build leaves it in place.
type Builder struct {
	client   *Client
	embedder Embedder
	now      func() time.Time
}

// NewBuilder creates a Builder.
func NewBuilder(client *Client, embedder Embedder) *Builder {
	return &Builder{client: client, embedder: embedder, now: time.Now}
}

// Build indexes chunks and returns a Searcher over the alias.
func (b *Builder) Build(ctx context.Context, chunks []models.Chunk) (retrieval.Searcher, error) {
	docs := make([]chunkDoc, len(chunks))
	dims := b.embedder.Dimensions()
	for i, c := range chunks {
		vec, err := b.embedder.Embed(ctx, c.Text)
		if err != nil {
			return nil, fmt.Errorf("embed chunk %d: %w", i, err)
		}
		if i == 0 {
			dims = len(vec)
		} else if len(vec) != dims {
			return nil, fmt.Errorf("%w: chunk %d has %d, want %d", retrieval.ErrDimensionMismatch, i, len(vec), dims)
		}
		docs[i] = chunkDoc{ID: c.ID, Text: c.Text, SourceLabel: c.SourceLabel, Position: c.Position}
		if !isZero(vec) {
			docs[i].Embedding = vec
		}
	}

	name := physicalName(b.client.alias, b.now())
	if err := b.client.createIndex(ctx, name, dims); err != nil {
		return nil, err
	}

	if err := b.load(ctx, name, docs); err != nil {
		b.discard(name)
		return nil, err
	}

	previous, err := b.client.aliasedIndices(ctx)
	if err != nil {
		b.discard(name)
		return nil, err
	}
	if err := b.client.swapAlias(ctx, name, previous); err != nil {
		b.discard(name)
		return nil, err
	}

	if err := b.client.deleteIndices(ctx, previous...); err != nil {
		slog.Warn("failed to delete previous chunk indices", "indices", previous, "error", err)
	}

	slog.Info("rebuilt elasticsearch index", "alias", b.client.alias, "index", name, "chunks", len(docs))
	return NewSearcher(b.client, b.embedder), nil
}

func (b *Builder) load(ctx context.Context, name string, docs []chunkDoc) error {
	if len(docs) > 0 {
		body, err := bulkBody(name, docs)
		if err != nil {
			return err
		}

		res, err := b.client.es.Bulk(
			bytes.NewReader(body),
			b.client.es.Bulk.WithContext(ctx),
			b.client.es.Bulk.WithIndex(name),
		)
		if err != nil {
			return fmt.Errorf("bulk index failed: %w", err)
		}
		defer res.Body.Close()

		if res.IsError() {
			return fmt.Errorf("bulk index error: %s", res.String())
		}
		if err := checkBulk(res.Body); err != nil {
			return err
		}
	}
	return b.client.refresh(ctx, name)
}

type bulkResponse struct {
	Errors bool `json:"errors"`
	Items  []map[string]struct {
		ID     string          `json:"_id"`
		Status int             `json:"status"`
		Error  json.RawMessage `json:"error,omitempty"`
	} `json:"items"`
}

// checkBulk decodes the whole _bulk response. An undecodable body counts as
// a failure, so a partly loaded index is never swapped in.
func checkBulk(r io.Reader) error {
	var br bulkResponse
	if err := json.NewDecoder(r).Decode(&br); err != nil {
		return fmt.Errorf("failed to decode bulk response: %w", err)
	}
	if !br.Errors {
		return nil
	}

	failed := 0
	var first string
	for _, item := range br.Items {
		for _, result := range item {
			if len(result.Error) == 0 {
				continue
			}
			if failed == 0 {
				first = fmt.Sprintf("%s (status %d): %s", result.ID, result.Status, result.Error)
			}
			failed++
		}
	}
	return fmt.Errorf("bulk index reported %d item errors, first: %s", failed, first)
}

func (b *Builder) discard(name string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := b.client.deleteIndices(ctx, name); err != nil {
		slog.Warn("failed to delete partial index", "index", name, "error", err)
	}
}

func physicalName(alias string, t time.Time) string {
	return alias + "-" + strconv.FormatInt(t.UnixNano(), 10)
}

// bulkBody renders NDJSON index actions for the _bulk API.
func bulkBody(index string, docs []chunkDoc) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, d := range docs {
		meta := map[string]map[string]string{"index": {"_index": index, "_id": d.ID}}
		if err := enc.Encode(meta); err != nil {
			return nil, fmt.Errorf("failed to encode bulk action: %w", err)
		}
		if err := enc.Encode(d); err != nil {
			return nil, fmt.Errorf("failed to encode chunk %s: %w", d.ID, err)
		}
	}
	return buf.Bytes(), nil
}

func isZero(v []float32) bool {
	for _, x := range v {
		if x != 0 {
			return false
		}
	}
	return true
}
