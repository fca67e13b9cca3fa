package crawler

import (
	"errors"
	"slices"
	"strings"
	"testing"
)

const productPage = `<!DOCTYPE html>
<html>
<head><title>  Libera | Example  </title></head>
<body>
<nav><a href="/">Home</a><p>Navigation text</p></nav>
<main>
  <h1>Libera</h1>
  <p>Distribution management platform.</p>
  <div class="feature-list">
    <h2>Libera Features</h2>
    <ul><li>Route Optimization: faster deliveries</li><li>  </li><li>Order Management: fewer errors</li></ul>
  </div>
  <section class="benefits">
    <h3>Benefits</h3>
    <p>Lower cost to serve</p>
  </section>
  <div class="plain"><h2>Ignored</h2><p>not a section</p></div>
  <a href="pricing">Pricing</a>
  <a href="/docs/intro">Docs</a>
  <a href="/docs/intro">Docs again</a>
  <a href="https://other.com/">Other</a>
  <a href="#top">Top</a>
  <a href="javascript:void(0)">JS</a>
</main>
</body>
</html>`

func TestExtract_MainRegion(t *testing.T) {
	rec, err := Extract("https://example.com/products/libera", []byte(productPage))
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	if rec.URL != "https://example.com/products/libera" {
		t.Errorf("URL = %q", rec.URL)
	}
	if rec.Title != "Libera | Example" {
		t.Errorf("Title = %q", rec.Title)
	}
	if strings.Contains(rec.Text, "Navigation text") {
		t.Error("text outside the main region should be ignored")
	}
	wantText := []string{
		"Libera",
		"Distribution management platform.",
		"Libera Features",
		"Route Optimization: faster deliveries",
		"Order Management: fewer errors",
	}
	lines := strings.Split(rec.Text, "\n")
	for _, w := range wantText {
		if !slices.Contains(lines, w) {
			t.Errorf("text missing line %q:\n%s", w, rec.Text)
		}
	}
	if slices.Contains(lines, "") {
		t.Errorf("text should not contain empty lines:\n%s", rec.Text)
	}
}

func TestExtract_Sections(t *testing.T) {
	rec, err := Extract("https://example.com/products/libera", []byte(productPage))
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	if rec.Sections.Len() != 2 {
		t.Fatalf("expected 2 sections, got %+v", rec.Sections)
	}
	if rec.Sections[0].Title != "Libera Features" || rec.Sections[1].Title != "Benefits" {
		t.Errorf("section order = %+v", rec.Sections)
	}
	got, _ := rec.Sections.Get("Libera Features")
	want := "Route Optimization: faster deliveries\nOrder Management: fewer errors"
	if got != want {
		t.Errorf("section text = %q, want %q", got, want)
	}
	if _, ok := rec.Sections.Get("Ignored"); ok {
		t.Error("div without a section class should not produce a section")
	}
}

func TestExtract_ResolvesLinksAgainstPage(t *testing.T) {
	rec, err := Extract("https://example.com/products/libera", []byte(productPage))
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	want := []string{
		"https://example.com/",
		"https://example.com/products/pricing",
		"https://example.com/docs/intro",
		"https://other.com/",
		"https://example.com/products/libera#top",
	}
	if !slices.Equal(rec.Links, want) {
		t.Errorf("Links = %v, want %v", rec.Links, want)
	}
}

func TestExtract_Markdown(t *testing.T) {
	rec, err := Extract("https://example.com/products/libera", []byte(productPage))
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	for _, want := range []string{"# Libera", "## Libera Features", "Route Optimization"} {
		if !strings.Contains(rec.Markdown, want) {
			t.Errorf("markdown missing %q:\n%s", want, rec.Markdown)
		}
	}
}

func TestExtract_MainRegionFallbacks(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "article",
			html: `<body><p>outside</p><article><p>inside article</p></article></body>`,
			want: "inside article",
		},
		{
			name: "content div",
			html: `<body><div class="header"><p>outside</p></div><div class="page-content"><p>inside div</p></div></body>`,
			want: "inside div",
		},
		{
			name: "main class div",
			html: `<body><div class="Main-Wrapper"><h2>Heading</h2></div></body>`,
			want: "Heading",
		},
		{
			name: "no region",
			html: `<body><div class="header"><p>outside</p></div></body>`,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := Extract("https://example.com/", []byte(tt.html))
			if err != nil {
				t.Fatalf("Extract() error = %v", err)
			}
			if rec.Text != tt.want {
				t.Errorf("Text = %q, want %q", rec.Text, tt.want)
			}
		})
	}
}

func TestExtract_NoRegionHasNoSections(t *testing.T) {
	rec, err := Extract("https://example.com/", []byte(`<html><head><title>T</title></head><body><p>x</p></body></html>`))
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if rec.Title != "T" || rec.Text != "" || rec.Sections != nil || rec.Markdown != "" {
		t.Errorf("unexpected record %+v", rec)
	}
}

func TestExtract_BadURL(t *testing.T) {
	_, err := Extract("://bad", []byte("<html></html>"))
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
}
