package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/sachinhub/saas-sales-agent/internal/retrieval"
	"github.com/sachinhub/saas-sales-agent/pkg/models"
)

// Searcher runs kNN queries against the alias.
type Searcher struct {
	client   *Client
	embedder Embedder
}

// NewSearcher creates a Searcher. It works against whatever index the alias
// points at, so it stays valid across rebuilds.
func NewSearcher(client *Client, embedder Embedder) *Searcher {
	return &Searcher{client: client, embedder: embedder}
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			Score  float64  `json:"_score"`
			Source chunkDoc `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// Search returns up to k chunks nearest to query. A non-positive k selects
// retrieval.DefaultK.
func (s *Searcher) Search(ctx context.Context, query string, k int) ([]models.Hit, error) {
	if k <= 0 {
		k = retrieval.DefaultK
	}

	vec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	var body map[string]any
	if s.client.hybrid {
		body = hybridQuery(query, vec, k)
	} else {
		body = knnQuery(vec, k)
	}
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal query: %w", err)
	}

	res, err := s.client.es.Search(
		s.client.es.Search.WithContext(ctx),
		s.client.es.Search.WithIndex(s.client.alias),
		s.client.es.Search.WithBody(bytes.NewReader(data)),
	)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("search error: %s", res.String())
	}

	var sr searchResponse
	if err := json.NewDecoder(res.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	hits := make([]models.Hit, len(sr.Hits.Hits))
	for i, h := range sr.Hits.Hits {
		hits[i] = models.Hit{
			Chunk: models.Chunk{
				ID:          h.Source.ID,
				Text:        h.Source.Text,
				SourceLabel: h.Source.SourceLabel,
				Position:    h.Source.Position,
			},
			Score: h.Score,
		}
	}
	sortHits(hits)
	return hits, nil
}

// sortHits orders hits by score, breaking ties by corpus position so the
// earlier chunk wins as it does in the in-memory index.
func sortHits(hits []models.Hit) {
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].Chunk.Position < hits[j].Chunk.Position
	})
}

func numCandidates(k int) int {
	return max(k*10, 50)
}

func knnQuery(vec []float32, k int) map[string]any {
	return map[string]any{
		"knn": map[string]any{
			"field":          "embedding",
			"query_vector":   vec,
			"k":              k,
			"num_candidates": numCandidates(k),
		},
		"size":    k,
		"_source": map[string]any{"excludes": []string{"embedding"}},
	}
}

// hybridQuery fuses BM25 over chunk text with kNN using reciprocal rank fusion.
func hybridQuery(query string, vec []float32, k int) map[string]any {
	return map[string]any{
		"retriever": map[string]any{
			"rrf": map[string]any{
				"retrievers": []map[string]any{
					{
						"standard": map[string]any{
							"query": map[string]any{
								"match": map[string]any{"text": query},
							},
						},
					},
					{
						"knn": map[string]any{
							"field":          "embedding",
							"query_vector":   vec,
							"k":              k,
							"num_candidates": numCandidates(k),
						},
					},
				},
			},
		},
		"size":    k,
		"_source": map[string]any{"excludes": []string{"embedding"}},
	}
}
