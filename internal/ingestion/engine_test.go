package ingestion

import (
	"context"
	"errors"
	"path/filepath"
	"slices"
	"testing"

	"github.com/sachinhub/saas-sales-agent/internal/catalog"
	"github.com/sachinhub/saas-sales-agent/internal/crawler"
	"github.com/sachinhub/saas-sales-agent/pkg/models"
)

type fakeTarget struct {
	cat      *catalog.Catalog
	rebuilds int
	ready    bool
	err      error
}

func (f *fakeTarget) Catalog() *catalog.Catalog { return f.cat }

func (f *fakeTarget) Rebuild(context.Context) error {
	f.rebuilds++
	if f.err != nil {
		return f.err
	}
	f.ready = true
	return nil
}

func (f *fakeTarget) Ready() bool { return f.ready }

type fakeStore map[string]*models.Snapshot

func (s fakeStore) GetSnapshot(_ context.Context, prefix string) (*models.Snapshot, error) {
	snap, ok := s[prefix]
	if !ok {
		return nil, errors.New("no such prefix")
	}
	return snap, nil
}

func liberaSnapshot() *models.Snapshot {
	return models.NewSnapshot(models.PageRecord{
		URL: "https://saas.elastic.run/libera",
		Sections: models.Sections{
			{Title: "Libera Features", Text: "Proof of Delivery: digital signatures"},
			{Title: "Random Heading", Text: "ignored"},
		},
	})
}

func TestApply_MergesAndRebuilds(t *testing.T) {
	target := &fakeTarget{cat: catalog.Default(), ready: true}
	e := New(target)

	result, err := e.Apply(context.Background(), liberaSnapshot())
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if !slices.Equal(result.ProductsUpdated, []string{"Libera"}) {
		t.Errorf("ProductsUpdated = %v", result.ProductsUpdated)
	}
	if !result.Rebuilt || target.rebuilds != 1 {
		t.Errorf("expected one rebuild, got %d", target.rebuilds)
	}
	if result.Pages != 1 {
		t.Errorf("Pages = %d, want 1", result.Pages)
	}

	p, _ := target.cat.ProductByName("Libera")
	if p.Features[len(p.Features)-1].Name != "Proof of Delivery" {
		t.Errorf("feature not merged: %+v", p.Features)
	}
}

func TestApply_NoUpdatesSkipsRebuildWhenReady(t *testing.T) {
	target := &fakeTarget{cat: catalog.Default(), ready: true}

	result, err := New(target).Apply(context.Background(), models.NewSnapshot())
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if result.Rebuilt || target.rebuilds != 0 {
		t.Errorf("unexpected rebuild")
	}
}

func TestApply_BuildsWhenNotReady(t *testing.T) {
	target := &fakeTarget{cat: catalog.Default()}

	result, err := New(target).Apply(context.Background(), models.NewSnapshot())
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if !result.Rebuilt {
		t.Error("expected initial build")
	}
}

func TestApply_RebuildError(t *testing.T) {
	target := &fakeTarget{cat: catalog.Default(), err: errors.New("backend down")}

	result, err := New(target).Apply(context.Background(), liberaSnapshot())
	if err == nil {
		t.Fatal("expected error")
	}
	if result == nil || len(result.ProductsUpdated) != 1 {
		t.Errorf("merge result should be reported, got %+v", result)
	}
}

func TestIngestFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.json")
	if err := crawler.SaveSnapshot(path, liberaSnapshot()); err != nil {
		t.Fatal(err)
	}
	target := &fakeTarget{cat: catalog.Default()}

	result, err := New(target).IngestFile(context.Background(), path)
	if err != nil {
		t.Fatalf("IngestFile() error = %v", err)
	}
	if result.Source != path || !slices.Equal(result.ProductsUpdated, []string{"Libera"}) {
		t.Errorf("result = %+v", result)
	}

	if _, err := New(target).IngestFile(context.Background(), filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestIngestPrefix(t *testing.T) {
	store := fakeStore{"crawls/h/1": liberaSnapshot()}
	target := &fakeTarget{cat: catalog.Default()}

	result, err := New(target).IngestPrefix(context.Background(), store, "crawls/h/1")
	if err != nil {
		t.Fatalf("IngestPrefix() error = %v", err)
	}
	if result.Source != "crawls/h/1" || len(result.ProductsUpdated) != 1 {
		t.Errorf("result = %+v", result)
	}

	if _, err := New(target).IngestPrefix(context.Background(), store, "crawls/h/2"); err == nil {
		t.Error("expected error for unknown prefix")
	}
}
