package crawler

import (
	"net/url"
	"testing"
)

func TestPolicy_Allow(t *testing.T) {
	seed, _ := url.Parse("https://example.com/")
	p := NewPolicy(seed)

	tests := []struct {
		link string
		want bool
	}{
		{"https://example.com/products", true},
		{"http://example.com/products", true},
		{"https://example.com/a/b?q=1", true},
		{"https://other.com/products", false},
		{"https://www.example.com/products", false},
		{"https://example.com:8443/products", false},
		{"https://example.com/brochure.pdf", false},
		{"https://example.com/brochure.PDF", false},
		{"https://example.com/logo.png", false},
		{"https://example.com/photo.jpg", false},
		{"https://example.com/anim.gif", false},
		{"https://example.com/files.zip", false},
		{"https://example.com/spec.doc", false},
		{"https://example.com/spec.DOCX", false},
		{"https://example.com/page.html", true},
		{"https://example.com/about#team", false},
		{"https://example.com/about#", false},
		{"mailto:sales@example.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.link, func(t *testing.T) {
			if got := p.Allow(tt.link); got != tt.want {
				t.Errorf("Allow(%q) = %v, want %v", tt.link, got, tt.want)
			}
		})
	}
}

func TestParseSeed(t *testing.T) {
	u, err := parseSeed("  https://example.com  ")
	if err != nil {
		t.Fatalf("parseSeed() error = %v", err)
	}
	if u.String() != "https://example.com/" {
		t.Errorf("seed = %s", u)
	}
}
