package storage

import (
	"context"
	"errors"
	"os"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/sachinhub/saas-sales-agent/pkg/models"
)

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{"empty endpoint", Config{Bucket: "test"}, true},
		{"empty bucket", Config{Endpoint: "localhost:9000"}, true},
		{"valid config", Config{
			Endpoint:        "localhost:9000",
			Bucket:          "test",
			AccessKeyID:     "minioadmin",
			SecretAccessKey: "minioadmin",
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.config)
			if (err != nil) != tt.wantErr {
				t.Errorf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewPrefix(t *testing.T) {
	at := time.Date(2026, 3, 4, 17, 30, 5, 0, time.FixedZone("IST", 5*3600+1800))

	prefix, err := NewPrefix("https://saas.elastic.run/products", at)
	if err != nil {
		t.Fatalf("NewPrefix() error = %v", err)
	}
	re := regexp.MustCompile(`^crawls/saas\.elastic\.run/2026-03-04T12-00-05-[0-9a-f]{8}$`)
	if !re.MatchString(prefix) {
		t.Errorf("NewPrefix() = %q", prefix)
	}

	other, _ := NewPrefix("https://saas.elastic.run/products", at)
	if other == prefix {
		t.Error("prefixes for the same instant should differ")
	}

	if _, err := NewPrefix("not a url", at); err == nil {
		t.Error("expected error for seed without host")
	}
}

func TestPageObject(t *testing.T) {
	got := PageObject("crawls/h/ts", "https://h/a")
	want := "crawls/h/ts/pages/" + models.GenerateID("https://h/a") + ".md"
	if got != want {
		t.Errorf("PageObject() = %q, want %q", got, want)
	}
}

// TestIntegration_SnapshotRoundTrip runs against MinIO and skips when it is not running.
func TestIntegration_SnapshotRoundTrip(t *testing.T) {
	endpoint := os.Getenv("MINIO_ENDPOINT")
	if endpoint == "" {
		endpoint = "localhost:9000"
	}

	client, err := New(Config{
		Endpoint:        endpoint,
		Bucket:          "sales-agent-test",
		AccessKeyID:     "minioadmin",
		SecretAccessKey: "minioadmin",
	})
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.EnsureBucket(ctx); err != nil {
		t.Skipf("MinIO not available, skipping integration test: %v", err)
	}

	var sections models.Sections
	sections.Set("Libera Features", "Route Optimization: AI-powered routing")
	snap := models.NewSnapshot(
		models.PageRecord{URL: "https://test.example.com/", Title: "Home", Markdown: "# Home"},
		models.PageRecord{URL: "https://test.example.com/libera", Title: "Libera", Sections: sections},
	)

	prefix, _ := NewPrefix("https://test.example.com/", time.Now())
	if err := client.PutSnapshot(ctx, prefix, snap, CrawlMetadata{SourceURL: "https://test.example.com/", Timestamp: time.Now().UTC().Format(time.RFC3339)}); err != nil {
		t.Fatalf("PutSnapshot() error = %v", err)
	}

	got, err := client.GetSnapshot(ctx, prefix)
	if err != nil {
		t.Fatalf("GetSnapshot() error = %v", err)
	}
	if strings.Join(got.URLs(), ",") != "https://test.example.com/,https://test.example.com/libera" {
		t.Errorf("URLs() = %v", got.URLs())
	}

	meta, err := client.GetMetadata(ctx, prefix)
	if err != nil {
		t.Fatalf("GetMetadata() error = %v", err)
	}
	if meta.PageCount != 2 || len(meta.Pages) != 2 {
		t.Errorf("GetMetadata() = %+v", meta)
	}

	md, err := client.GetPageMarkdown(ctx, prefix, "https://test.example.com/")
	if err != nil || md != "# Home" {
		t.Errorf("GetPageMarkdown() = %q, %v", md, err)
	}

	latest, err := client.LatestPrefix(ctx, "test.example.com")
	if err != nil {
		t.Fatalf("LatestPrefix() error = %v", err)
	}
	if latest < prefix {
		t.Errorf("LatestPrefix() = %q, want at least %q", latest, prefix)
	}

	if _, err := client.LatestPrefix(ctx, "never-crawled.example.com"); !errors.Is(err, ErrNoCrawls) {
		t.Errorf("expected ErrNoCrawls, got %v", err)
	}
}
