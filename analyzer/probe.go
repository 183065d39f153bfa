package analyzer

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/temoto/robotstxt"
	"golang.org/x/sync/errgroup"
)

// ProbeResult holds the outcome of the sitemap and robots.txt checks.
type ProbeResult struct {
	Sitemap      string
	RobotsTxt    string
	CrawlAllowed bool
}

// Prober runs the auxiliary sitemap and robots.txt checks for a page.
type Prober struct {
	fetcher   Fetcher
	userAgent string
	timeout   time.Duration
}

// NewProber returns a Prober issuing requests through fetcher.
// A zero timeout selects DefaultProbeTimeout.
func NewProber(fetcher Fetcher, userAgent string, timeout time.Duration) *Prober {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}
	return &Prober{fetcher: fetcher, userAgent: userAgent, timeout: timeout}
}

// Probe checks {pageURL}/sitemap.xml and {pageURL}/robots.txt concurrently.
// Failures are recorded as descriptions, never returned.
func (p *Prober) Probe(ctx context.Context, pageURL string) ProbeResult {
	result := ProbeResult{CrawlAllowed: true}

	var g errgroup.Group
	g.Go(func() error {
		result.Sitemap = p.checkSitemap(ctx, pageURL)
		return nil
	})
	g.Go(func() error {
		result.RobotsTxt, result.CrawlAllowed = p.checkRobots(ctx, pageURL)
		return nil
	})
	_ = g.Wait()

	return result
}

func (p *Prober) checkSitemap(ctx context.Context, pageURL string) string {
	sitemapURL := pageURL + "/sitemap.xml"
	status, _, err := p.get(ctx, sitemapURL)
	if err != nil {
		return fmt.Sprintf("No sitemap found: %v", err)
	}
	if status != http.StatusOK {
		return fmt.Sprintf("No sitemap found: status %d", status)
	}
	return sitemapURL
}

// checkRobots also reports whether the fetched rules let our agent crawl the
// page itself. Missing or unreadable rules allow everything.
func (p *Prober) checkRobots(ctx context.Context, pageURL string) (string, bool) {
	robotsURL := pageURL + "/robots.txt"
	status, body, err := p.get(ctx, robotsURL)
	if err != nil {
		return fmt.Sprintf("No robots.txt found: %v", err), true
	}
	if status != http.StatusOK {
		return fmt.Sprintf("No robots.txt found: status %d", status), true
	}

	rules, err := robotstxt.FromStatusAndBytes(status, body)
	if err != nil {
		return robotsURL, true
	}
	return robotsURL, rules.TestAgent(pagePath(pageURL), p.userAgent)
}

func (p *Prober) get(ctx context.Context, target string) (int, []byte, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	return p.fetcher.Get(ctx, target)
}

func pagePath(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil || u.Path == "" {
		return "/"
	}
	return u.Path
}
