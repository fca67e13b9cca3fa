package elasticsearch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/sachinhub/saas-sales-agent/internal/embeddings"
	"github.com/sachinhub/saas-sales-agent/pkg/models"
)

// fakeES answers the handful of endpoints a rebuild touches.
type fakeES struct {
	mu       sync.Mutex
	bulkBody []byte
	search   string
	swapped  bool
	deleted  []string
}

func (f *fakeES) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")

	switch {
	case strings.HasSuffix(r.URL.Path, "/_bulk"):
		w.Write(f.bulkBody)
	case strings.HasSuffix(r.URL.Path, "/_search"):
		w.Write([]byte(f.search))
	case strings.HasSuffix(r.URL.Path, "/_refresh"):
		w.Write([]byte(`{"_shards":{"total":1,"successful":1,"failed":0}}`))
	case strings.HasPrefix(r.URL.Path, "/_alias/"):
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"alias missing","status":404}`))
	case r.URL.Path == "/_aliases":
		f.swapped = true
		w.Write([]byte(`{"acknowledged":true}`))
	case r.Method == http.MethodDelete:
		f.deleted = append(f.deleted, strings.TrimPrefix(r.URL.Path, "/"))
		w.Write([]byte(`{"acknowledged":true}`))
	case r.Method == http.MethodPut:
		w.Write([]byte(`{"acknowledged":true}`))
	default:
		w.Write([]byte(`{}`))
	}
}

func newFakeClient(t *testing.T, fake *fakeES) *Client {
	t.Helper()
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)

	client, err := New(Config{Addresses: []string{server.URL}, Alias: "chunks"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return client
}

func manyChunks(n int) []models.Chunk {
	chunks := make([]models.Chunk, n)
	for i := range chunks {
		text := fmt.Sprintf("chunk number %d about route optimization", i)
		chunks[i] = models.Chunk{ID: models.ChunkID(i, text), Text: text, Position: i}
	}
	return chunks
}

func bulkResponseWithErrors(n int) []byte {
	items := make([]map[string]any, n)
	for i := range items {
		items[i] = map[string]any{"index": map[string]any{
			"_id":    fmt.Sprintf("doc-%d", i),
			"status": 400,
			"error": map[string]any{
				"type":   "document_parsing_exception",
				"reason": strings.Repeat("failed to parse field [embedding] of type [dense_vector] ", 3),
			},
		}}
	}
	data, _ := json.Marshal(map[string]any{"took": 3, "errors": true, "items": items})
	return data
}

func TestBuild_LargeBulkFailureKeepsAlias(t *testing.T) {
	body := bulkResponseWithErrors(40)
	if len(body) <= 4096 {
		t.Fatalf("bulk response should exceed 4 KB, got %d bytes", len(body))
	}
	fake := &fakeES{bulkBody: body}
	builder := NewBuilder(newFakeClient(t, fake), embeddings.NewHasher(8))

	_, err := builder.Build(context.Background(), manyChunks(40))
	if err == nil {
		t.Fatal("expected bulk item errors to fail the build")
	}
	if !strings.Contains(err.Error(), "40 item errors") {
		t.Errorf("error = %v", err)
	}
	if fake.swapped {
		t.Error("alias must not move onto a partly loaded index")
	}
	if len(fake.deleted) != 1 || !strings.HasPrefix(fake.deleted[0], "chunks-") {
		t.Errorf("partial index should be discarded, deleted = %v", fake.deleted)
	}
}

func TestBuild_UndecodableBulkResponse(t *testing.T) {
	fake := &fakeES{bulkBody: []byte(`{"took":3,"errors":false,"items":[{"index":`)}
	builder := NewBuilder(newFakeClient(t, fake), embeddings.NewHasher(8))

	if _, err := builder.Build(context.Background(), manyChunks(2)); err == nil {
		t.Fatal("expected error for truncated bulk response")
	}
	if fake.swapped {
		t.Error("alias must not move when the bulk result is unknown")
	}
}

func TestBuild_SuccessfulBulkSwapsAlias(t *testing.T) {
	fake := &fakeES{bulkBody: []byte(`{"took":3,"errors":false,"items":[]}`)}
	builder := NewBuilder(newFakeClient(t, fake), embeddings.NewHasher(8))

	if _, err := builder.Build(context.Background(), manyChunks(3)); err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if !fake.swapped {
		t.Error("alias should move onto the new index")
	}
}

func TestSearch_TiesKeepCorpusOrder(t *testing.T) {
	fake := &fakeES{search: `{"hits":{"hits":[
		{"_score":0.5,"_source":{"id":"c","text":"third","position":2}},
		{"_score":0.9,"_source":{"id":"b","text":"second","position":1}},
		{"_score":0.5,"_source":{"id":"a","text":"first","position":0}}
	]}}`}
	searcher := NewSearcher(newFakeClient(t, fake), embeddings.NewHasher(8))

	hits, err := searcher.Search(context.Background(), "anything", 3)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	var ids []string
	for _, h := range hits {
		ids = append(ids, h.Chunk.ID)
	}
	if strings.Join(ids, ",") != "b,a,c" {
		t.Errorf("hit order = %v, want [b a c]", ids)
	}
}
