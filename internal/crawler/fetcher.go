package crawler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gocolly/colly/v2"
)

// DefaultTimeout is the default timeout for one page fetch.
const DefaultTimeout = 10 * time.Second

// ErrOffsiteRedirect is returned when a redirect would leave the fetched host.
var ErrOffsiteRedirect = errors.New("redirect leaves the original host")

// DefaultUserAgent is a realistic browser User-Agent so sites serve their normal markup.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// Response is the raw result of fetching one URL.
type Response struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

// Fetcher retrieves a single URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*Response, error)
}

// FetchError reports a network failure, timeout or non-200 status for a URL.
type FetchError struct {
	URL        string
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: HTTP %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// ParseError reports markup that could not be turned into a page record.
type ParseError struct {
	URL string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.URL, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// FetcherConfig holds HTTP fetch configuration.
type FetcherConfig struct {
	UserAgent string
	Timeout   time.Duration
}

// CollyFetcher fetches pages with a colly collector.
// Deduplication is left to the Crawler, so URL revisits are allowed.
type CollyFetcher struct {
	collector *colly.Collector
}

// NewCollyFetcher creates a fetcher with the given configuration.
func NewCollyFetcher(config FetcherConfig) *CollyFetcher {
	if config.Timeout == 0 {
		config.Timeout = DefaultTimeout
	}
	if config.UserAgent == "" {
		config.UserAgent = DefaultUserAgent
	}

	c := colly.NewCollector(
		colly.UserAgent(config.UserAgent),
		colly.AllowURLRevisit(),
	)
	c.SetRequestTimeout(config.Timeout)
	c.SetRedirectHandler(sameHostRedirect)

	return &CollyFetcher{collector: c}
}

// sameHostRedirect follows a redirect only when it stays on the host, port
// included, of the first request in the chain.
func sameHostRedirect(req *http.Request, via []*http.Request) error {
	if len(via) >= 10 {
		return errors.New("stopped after 10 redirects")
	}
	if len(via) > 0 && req.URL.Host != via[0].URL.Host {
		return fmt.Errorf("%w: %s", ErrOffsiteRedirect, req.URL)
	}
	return nil
}

// Fetch retrieves url. Any status other than 200 is returned as a *FetchError.
func (f *CollyFetcher) Fetch(ctx context.Context, url string) (*Response, error) {
	c := f.collector.Clone()

	var resp *Response
	var status int

	c.OnRequest(func(r *colly.Request) {
		if ctx.Err() != nil {
			r.Abort()
			return
		}
		r.Headers.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	})

	c.OnResponse(func(r *colly.Response) {
		resp = &Response{
			StatusCode:  r.StatusCode,
			ContentType: r.Headers.Get("Content-Type"),
			Body:        r.Body,
		}
	})

	c.OnError(func(r *colly.Response, err error) {
		if r != nil {
			status = r.StatusCode
		}
	})

	if err := c.Visit(url); err != nil {
		return nil, &FetchError{URL: url, StatusCode: status, Err: err}
	}
	if resp == nil {
		if err := ctx.Err(); err != nil {
			return nil, &FetchError{URL: url, Err: err}
		}
		return nil, &FetchError{URL: url, Err: errors.New("no response received")}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{URL: url, StatusCode: resp.StatusCode, Err: errors.New(http.StatusText(resp.StatusCode))}
	}

	return resp, nil
}
