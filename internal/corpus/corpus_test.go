package corpus

import (
	"strings"
	"testing"

	"github.com/sachinhub/saas-sales-agent/internal/catalog"
	"github.com/sachinhub/saas-sales-agent/pkg/models"
)

// expectedLabel returns the last entity header starting at or before rune offset.
func expectedLabel(text string, offset int) string {
	label := ""
	pos := 0
	for _, line := range strings.SplitAfter(text, "\n") {
		if pos > offset {
			break
		}
		trimmed := strings.TrimSuffix(line, "\n")
		if strings.HasPrefix(trimmed, models.ProductLabel) || strings.HasPrefix(trimmed, models.IndustryLabel) {
			label = trimmed
		}
		pos += len([]rune(line))
	}
	return label
}

func TestBuild_Labels(t *testing.T) {
	cat := catalog.Default()
	text := BuildText(cat)

	chunks := Build(cat, WithChunkSize(300), WithChunkOverlap(50))
	spans := Split(text, 300, 50)

	if len(chunks) != len(spans) {
		t.Fatalf("Build() returned %d chunks, Split %d spans", len(chunks), len(spans))
	}
	if chunks[0].SourceLabel != "" {
		t.Errorf("first chunk starts in the preamble, got label %q", chunks[0].SourceLabel)
	}
	for i, c := range chunks {
		if c.Position != i {
			t.Errorf("chunk %d Position = %d", i, c.Position)
		}
		if want := expectedLabel(text, spans[i].Start); c.SourceLabel != want {
			t.Errorf("chunk %d label = %q, want %q", i, c.SourceLabel, want)
		}
		if c.ID != models.ChunkID(i, c.Text) {
			t.Errorf("chunk %d has unexpected ID %q", i, c.ID)
		}
	}
}

func TestBuild_DefaultsMatchSplitIntoChunks(t *testing.T) {
	cat := catalog.Default()

	chunks := Build(cat)
	texts := SplitIntoChunks(BuildText(cat), DefaultChunkSize, DefaultChunkOverlap)

	if len(chunks) != len(texts) {
		t.Fatalf("expected %d chunks, got %d", len(texts), len(chunks))
	}
	for i := range texts {
		if chunks[i].Text != texts[i] {
			t.Errorf("chunk %d text differs", i)
		}
	}
}

func TestBuild_ContainsRouteOptimization(t *testing.T) {
	found := false
	for _, c := range Build(catalog.Default()) {
		if strings.Contains(c.Text, "Route Optimization") {
			found = true
		}
	}
	if !found {
		t.Error("expected a chunk mentioning Route Optimization")
	}
}
