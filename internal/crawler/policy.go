package crawler

import (
	"net/url"
	"path"
	"strings"
)

// skippedExtensions are path suffixes that never point at an HTML page.
var skippedExtensions = []string{".pdf", ".jpg", ".png", ".gif", ".zip", ".doc", ".docx"}

// Policy decides which discovered links a crawl may follow.
type Policy struct {
	host string
}

// NewPolicy creates a policy restricted to the seed's host (port included).
func NewPolicy(seed *url.URL) Policy {
	return Policy{host: seed.Host}
}

// Allow reports whether link is same-host, HTML-looking and fragment-free.
// It does not consult the visited set.
func (p Policy) Allow(link string) bool {
	if strings.Contains(link, "#") {
		return false
	}
	u, err := url.Parse(link)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	if u.Host != p.host {
		return false
	}
	ext := strings.ToLower(path.Ext(u.Path))
	for _, skip := range skippedExtensions {
		if ext == skip {
			return false
		}
	}
	return true
}

// Filter returns the allowed links, keeping their order.
func (p Policy) Filter(links []string) []string {
	var out []string
	for _, l := range links {
		if p.Allow(l) {
			out = append(out, l)
		}
	}
	return out
}

// parseSeed validates an absolute http(s) seed URL. An empty path becomes "/"
// so the seed and links back to the site root share one key.
func parseSeed(raw string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, err
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, ErrInvalidSeed
	}
	if u.Path == "" {
		u.Path = "/"
	}
	u.Fragment = ""
	return u, nil
}
