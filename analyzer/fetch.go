package analyzer

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/seo-optimizer/insights/errs"
)

const (
	DefaultUserAgent    = "SEOAnalyzer/1.0"
	DefaultFetchTimeout = 10 * time.Second
	DefaultProbeTimeout = 5 * time.Second

	maxPageBytes = 10 << 20
)

// Fetcher retrieves raw pages. Get reports the status without judging it;
// Fetch fails on anything outside 2xx.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
	Get(ctx context.Context, url string) (int, []byte, error)
}

// NewHTTPClient returns a client with connection pooling suited to short page
// and probe retrievals. Per-call deadlines come from the request context.
func NewHTTPClient() *http.Client {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
	return &http.Client{Transport: transport}
}

// HTTPFetcher fetches pages over HTTP with a bounded timeout and no retries.
type HTTPFetcher struct {
	client    *http.Client
	userAgent string
	timeout   time.Duration
}

// NewHTTPFetcher wraps client. A zero timeout selects DefaultFetchTimeout.
func NewHTTPFetcher(client *http.Client, userAgent string, timeout time.Duration) *HTTPFetcher {
	if client == nil {
		client = NewHTTPClient()
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	return &HTTPFetcher{client: client, userAgent: userAgent, timeout: timeout}
}

// UserAgent is the agent string sent with every request.
func (f *HTTPFetcher) UserAgent() string {
	return f.userAgent
}

// Get performs a GET and returns the status and body, whatever the status.
func (f *HTTPFetcher) Get(ctx context.Context, url string) (int, []byte, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("reading response body: %w", err)
	}
	return resp.StatusCode, body, nil
}

// Fetch returns the page body. Transport failures and non-2xx statuses are
// returned as errs.FetchFailed.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	status, body, err := f.Get(ctx, url)
	if err != nil {
		return nil, errs.Fetch(err.Error(), err)
	}
	if status < 200 || status >= 300 {
		return nil, errs.Fetch(statusMessage(status, url), nil)
	}
	return body, nil
}

func statusMessage(status int, url string) string {
	side := "Client"
	if status >= 500 {
		side = "Server"
	}
	return fmt.Sprintf("%d %s Error: %s for url: %s", status, side, http.StatusText(status), url)
}
