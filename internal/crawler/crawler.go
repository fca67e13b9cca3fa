package crawler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/sachinhub/saas-sales-agent/pkg/models"
)

// DefaultDelay is the pause between consecutive fetches.
const DefaultDelay = time.Second

// ErrInvalidSeed is returned when the seed is not an absolute http(s) URL.
var ErrInvalidSeed = errors.New("seed must be an absolute http or https URL")

// Config holds crawler configuration.
type Config struct {
	Delay    time.Duration // pause before every fetch except the first
	MaxPages int           // 0 means unlimited
}

// Stats summarizes one crawl.
type Stats struct {
	Fetched int // fetch attempts, successful or not
	Failed  int
	Pages   int
}

// Crawler walks one site depth-first starting from a seed URL.
// A Crawler is not safe for concurrent Crawl calls.
type Crawler struct {
	fetcher Fetcher
	config  Config
	sleep   func(ctx context.Context, d time.Duration) error
	stats   Stats
}

// New creates a crawler that fetches through f.
func New(f Fetcher, config Config) *Crawler {
	if config.Delay <= 0 {
		config.Delay = DefaultDelay
	}
	if config.MaxPages < 0 {
		config.MaxPages = 0
	}
	return &Crawler{
		fetcher: f,
		config:  config,
		sleep:   sleepContext,
	}
}

// Stats returns the counters of the most recent crawl.
func (c *Crawler) Stats() Stats {
	return c.stats
}

// Crawl visits every reachable same-host page under seed, each at most once,
// in depth-first order following document link order.
// A failing page is logged and skipped. On cancellation the pages gathered so
// far are returned together with the context error.
func (c *Crawler) Crawl(ctx context.Context, seed string) (*models.Snapshot, error) {
	seedURL, err := parseSeed(seed)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSeed, seed)
	}

	c.stats = Stats{}
	policy := NewPolicy(seedURL)
	snap := models.NewSnapshot()
	visited := make(map[string]struct{})

	// LIFO frontier; links are pushed in reverse so the first link is popped first.
	frontier := []string{seedURL.String()}

	slog.Debug("starting crawl", "seed", seedURL.String(), "delay", c.config.Delay, "max_pages", c.config.MaxPages)

	for len(frontier) > 0 {
		if c.config.MaxPages > 0 && c.stats.Fetched >= c.config.MaxPages {
			slog.Debug("page limit reached", "max_pages", c.config.MaxPages)
			break
		}

		next := frontier[len(frontier)-1]
		frontier = frontier[:len(frontier)-1]
		if _, seen := visited[next]; seen {
			continue
		}

		if c.stats.Fetched > 0 {
			if err := c.sleep(ctx, c.config.Delay); err != nil {
				return c.finish(snap), err
			}
		}
		if err := ctx.Err(); err != nil {
			return c.finish(snap), err
		}

		visited[next] = struct{}{}
		c.stats.Fetched++

		rec, err := c.visit(ctx, next)
		if err != nil {
			c.stats.Failed++
			slog.Warn("skipping page", "url", next, "error", err)
			if ctx.Err() != nil {
				return c.finish(snap), ctx.Err()
			}
			continue
		}

		rec.Links = policy.Filter(rec.Links)
		snap.Add(rec)
		slog.Debug("crawled page", "url", next, "links", len(rec.Links), "sections", rec.Sections.Len())

		for i := len(rec.Links) - 1; i >= 0; i-- {
			if _, seen := visited[rec.Links[i]]; !seen {
				frontier = append(frontier, rec.Links[i])
			}
		}
	}

	slog.Debug("crawl complete", "seed", seedURL.String(), "pages", snap.Len(), "failed", c.stats.Failed)
	return c.finish(snap), nil
}

func (c *Crawler) finish(snap *models.Snapshot) *models.Snapshot {
	c.stats.Pages = snap.Len()
	return snap
}

// visit fetches and extracts one page.
func (c *Crawler) visit(ctx context.Context, url string) (models.PageRecord, error) {
	resp, err := c.fetcher.Fetch(ctx, url)
	if err != nil {
		var fe *FetchError
		if !errors.As(err, &fe) {
			err = &FetchError{URL: url, Err: err}
		}
		return models.PageRecord{}, err
	}
	if resp.StatusCode != http.StatusOK {
		return models.PageRecord{}, &FetchError{URL: url, StatusCode: resp.StatusCode}
	}
	return Extract(url, resp.Body)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
