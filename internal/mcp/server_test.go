package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/sachinhub/saas-sales-agent/internal/catalog"
	"github.com/sachinhub/saas-sales-agent/pkg/models"
)

type fakeAssistant struct {
	answer     models.Answer
	hits       []models.Hit
	products   []models.Product
	industries []models.Industry
	err        error
	lastK      int
}

func (f *fakeAssistant) Query(context.Context, string) models.Answer { return f.answer }

func (f *fakeAssistant) Search(_ context.Context, _ string, k int) ([]models.Hit, error) {
	f.lastK = k
	return f.hits, f.err
}

func (f *fakeAssistant) RelevantProducts(context.Context, string) ([]models.Product, error) {
	return f.products, f.err
}

func (f *fakeAssistant) RelevantIndustries(context.Context, string) ([]models.Industry, error) {
	return f.industries, f.err
}

func (f *fakeAssistant) Catalog() *catalog.Catalog { return catalog.Default() }

func request(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func text(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) != 1 {
		t.Fatalf("expected one content item, got %d", len(result.Content))
	}
	tc, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected text content, got %T", result.Content[0])
	}
	return tc.Text
}

func TestNewServer(t *testing.T) {
	if _, err := NewServer(Config{}, nil); err == nil {
		t.Error("expected error without assistant")
	}

	s, err := NewServer(Config{Name: "sales-agent", Version: "1.0.0"}, &fakeAssistant{})
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}
	if s.mcpServer == nil {
		t.Error("mcpServer should not be nil")
	}
}

func TestAskHandler(t *testing.T) {
	a := &fakeAssistant{answer: models.Answer{
		Answer:         "Libera optimizes routes.",
		Sources:        []string{"Product: Libera"},
		Classification: models.ClassificationGeneral,
	}}
	s, _ := NewServer(Config{}, a)

	result, err := s.askHandler(context.Background(), request(map[string]any{"question": "routing?"}))
	if err != nil {
		t.Fatalf("askHandler() error = %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", text(t, result))
	}

	var got models.Answer
	if err := json.Unmarshal([]byte(text(t, result)), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if got.Answer != "Libera optimizes routes." || len(got.Sources) != 1 {
		t.Errorf("answer = %+v", got)
	}
}

func TestAskHandler_Errors(t *testing.T) {
	a := &fakeAssistant{answer: models.Answer{Answer: "An error occurred: boom", Classification: models.ClassificationError}}
	s, _ := NewServer(Config{}, a)

	result, _ := s.askHandler(context.Background(), request(map[string]any{}))
	if !result.IsError {
		t.Error("missing question should be a tool error")
	}

	result, _ = s.askHandler(context.Background(), request(map[string]any{"question": "q"}))
	if !result.IsError || !strings.Contains(text(t, result), "boom") {
		t.Error("error classification should be a tool error")
	}
}

func TestSearchHandler(t *testing.T) {
	a := &fakeAssistant{hits: []models.Hit{{Chunk: models.Chunk{Text: "Route Optimization"}, Score: 0.9}}}
	s, _ := NewServer(Config{}, a)

	result, _ := s.searchHandler(context.Background(), request(map[string]any{"query": "routes"}))
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", text(t, result))
	}
	if a.lastK != DefaultLimit {
		t.Errorf("k = %d, want %d", a.lastK, DefaultLimit)
	}
	if !strings.Contains(text(t, result), "Route Optimization") {
		t.Errorf("result = %s", text(t, result))
	}

	s.searchHandler(context.Background(), request(map[string]any{"query": "routes", "limit": float64(7)}))
	if a.lastK != 7 {
		t.Errorf("k = %d, want 7", a.lastK)
	}

	a.err = errors.New("index down")
	result, _ = s.searchHandler(context.Background(), request(map[string]any{"query": "routes"}))
	if !result.IsError {
		t.Error("search failure should be a tool error")
	}
}

func TestRelevantHandlers(t *testing.T) {
	a := &fakeAssistant{
		products:   []models.Product{{Name: "Libera"}},
		industries: []models.Industry{{Name: "FMCG"}},
	}
	s, _ := NewServer(Config{}, a)

	result, _ := s.productsHandler(context.Background(), request(map[string]any{"query": "delivery"}))
	var products []models.Product
	if err := json.Unmarshal([]byte(text(t, result)), &products); err != nil || len(products) != 1 || products[0].Name != "Libera" {
		t.Errorf("products = %+v, err = %v", products, err)
	}

	result, _ = s.industriesHandler(context.Background(), request(map[string]any{"query": "retail"}))
	var industries []models.Industry
	if err := json.Unmarshal([]byte(text(t, result)), &industries); err != nil || len(industries) != 1 || industries[0].Name != "FMCG" {
		t.Errorf("industries = %+v, err = %v", industries, err)
	}

	result, _ = s.productsHandler(context.Background(), request(map[string]any{}))
	if !result.IsError {
		t.Error("missing query should be a tool error")
	}
}

func TestCatalogHandler(t *testing.T) {
	s, _ := NewServer(Config{}, &fakeAssistant{})

	result, _ := s.catalogHandler(context.Background(), request(map[string]any{"query": "route optimization"}))
	var matches []catalog.Match
	if err := json.Unmarshal([]byte(text(t, result)), &matches); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(matches) == 0 || matches[0].Entity != "Libera" {
		t.Errorf("matches = %+v", matches)
	}

	result, _ = s.catalogHandler(context.Background(), request(map[string]any{"query": "zzz-no-such-fact"}))
	if got := text(t, result); got != "[]" {
		t.Errorf("no-match result = %s, want []", got)
	}
}
