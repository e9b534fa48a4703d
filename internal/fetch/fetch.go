// Package fetch retrieves a single page over HTTP. One scrape is one
// blocking fetch; there is no retry policy and no crawl.
package fetch

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/aditasap/bizscope/internal/page"
)

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 2 * 1024 * 1024

const userAgent = "Mozilla/5.0 (compatible; BizscopeBot/1.0)"

// Fetcher retrieves a page for extraction.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*page.Page, error)
}

// HTTPFetcher fetches pages with net/http. An optional rate limiter is
// shared across calls so batch scrapes stay polite.
type HTTPFetcher struct {
	client  *http.Client
	limiter *rate.Limiter
}

// Option configures an HTTPFetcher.
type Option func(*HTTPFetcher)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(f *HTTPFetcher) { f.client = c }
}

// WithTimeout replaces the default request timeout.
func WithTimeout(d time.Duration) Option {
	return func(f *HTTPFetcher) {
		if d > 0 {
			f.client.Timeout = d
		}
	}
}

// WithRateLimit throttles fetches to n requests per second.
func WithRateLimit(n float64) Option {
	return func(f *HTTPFetcher) {
		if n > 0 {
			f.limiter = rate.NewLimiter(rate.Limit(n), 1)
		}
	}
}

// New creates an HTTPFetcher with sensible defaults.
func New(opts ...Option) *HTTPFetcher {
	f := &HTTPFetcher{
		client: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 10 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch retrieves the URL and parses it into a Page.
func (f *HTTPFetcher) Fetch(ctx context.Context, targetURL string) (*page.Page, error) {
	if err := ValidateURL(targetURL); err != nil {
		return nil, err
	}

	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "fetch: rate limit wait")
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "fetch: create request")
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9,he;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, eris.Wrapf(err, "fetch: get %s", targetURL)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return nil, eris.Errorf("fetch: %s returned status %d", targetURL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, eris.Wrap(err, "fetch: read body")
	}
	if len(body) == 0 {
		return nil, eris.Errorf("fetch: empty response from %s", targetURL)
	}

	// The final URL after redirects is the base for relative links.
	finalURL := targetURL
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}

	return page.New(finalURL, string(body))
}

// ValidateURL checks that rawURL is an absolute http(s) URL with a host.
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return eris.New("fetch: empty url")
	}
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return eris.Errorf("fetch: url must start with http:// or https://: %s", rawURL)
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return eris.Wrapf(err, "fetch: parse url %s", rawURL)
	}
	if u.Scheme == "" || u.Host == "" {
		return eris.Errorf("fetch: invalid url: %s", rawURL)
	}
	return nil
}
