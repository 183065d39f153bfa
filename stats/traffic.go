package stats

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

// Traffic collects visitor and latency statistics for the analysis endpoints.
type Traffic struct {
	UniqueVisitors   map[string]time.Time `json:"uniqueVisitors"` // IP -> last visit
	AnalysisRequests int                  `json:"analysisRequests"`
	ErrorCount       int                  `json:"errorCount"`
	PopularURLs      map[string]int       `json:"popularUrls"`
	AverageLoadTime  float64              `json:"averageLoadTime"` // milliseconds
	TotalLoadTime    float64              `json:"totalLoadTime"`
	LastPersisted    time.Time            `json:"lastPersisted"`

	path  string
	mutex sync.RWMutex
}

// URLCount is one entry of the popular URL ranking.
type URLCount struct {
	URL   string `json:"url"`
	Count int    `json:"count"`
}

// NewTraffic creates traffic statistics persisted at path, loading the file if
// it exists.
func NewTraffic(path string) (*Traffic, error) {
	t := &Traffic{
		UniqueVisitors: make(map[string]time.Time),
		PopularURLs:    make(map[string]int),
		path:           path,
	}
	if err := t.Load(); err != nil {
		return t, err
	}
	return t, nil
}

// TrackVisitor records a visit from ip.
func (t *Traffic) TrackVisitor(ip string) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	t.UniqueVisitors[ip] = time.Now()
}

// cleanURL reduces an analysed URL to scheme, host and path. Local and API
// URLs are not tracked and yield "".
func cleanURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return ""
	}

	if strings.Contains(u.Host, "localhost") ||
		strings.Contains(u.Host, "127.0.0.1") ||
		strings.Contains(strings.ToLower(u.Path), "/api/") {
		return ""
	}

	cleaned := u.Scheme + "://" + u.Host
	if u.Path != "" && u.Path != "/" {
		cleaned += u.Path
	}
	return strings.TrimSuffix(cleaned, "/")
}

// TrackAnalysis records one analysis of pageURL taking loadTime milliseconds.
func (t *Traffic) TrackAnalysis(pageURL string, loadTime float64, hasError bool) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	t.AnalysisRequests++
	if cleaned := cleanURL(pageURL); cleaned != "" {
		t.PopularURLs[cleaned]++
	}
	if hasError {
		t.ErrorCount++
	}

	t.TotalLoadTime += loadTime
	t.AverageLoadTime = t.TotalLoadTime / float64(t.AnalysisRequests)
}

// Requests returns the number of tracked analyses.
func (t *Traffic) Requests() int {
	t.mutex.RLock()
	defer t.mutex.RUnlock()
	return t.AnalysisRequests
}

// UniqueVisitorsCount returns the visitors seen in the last 24 hours.
func (t *Traffic) UniqueVisitorsCount() int {
	t.mutex.RLock()
	defer t.mutex.RUnlock()
	return t.uniqueVisitors()
}

func (t *Traffic) uniqueVisitors() int {
	cutoff := time.Now().Add(-24 * time.Hour)
	count := 0
	for _, lastVisit := range t.UniqueVisitors {
		if lastVisit.After(cutoff) {
			count++
		}
	}
	return count
}

// TopURLs returns the n most analysed URLs, most frequent first.
func (t *Traffic) TopURLs(n int) []URLCount {
	t.mutex.RLock()
	defer t.mutex.RUnlock()
	return t.topURLs(n)
}

func (t *Traffic) topURLs(n int) []URLCount {
	ranked := make([]URLCount, 0, len(t.PopularURLs))
	for u, count := range t.PopularURLs {
		ranked = append(ranked, URLCount{URL: u, Count: count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].URL < ranked[j].URL
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// ErrorRate returns the share of failed analyses as a percentage.
func (t *Traffic) ErrorRate() float64 {
	t.mutex.RLock()
	defer t.mutex.RUnlock()
	return t.errorRate()
}

func (t *Traffic) errorRate() float64 {
	if t.AnalysisRequests == 0 {
		return 0
	}
	return float64(t.ErrorCount) / float64(t.AnalysisRequests) * 100
}

// Snapshot returns the public statistics. Popular URLs are only included in
// development mode.
func (t *Traffic) Snapshot(devMode bool) map[string]any {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	snapshot := map[string]any{
		"uniqueVisitors24h": t.uniqueVisitors(),
		"totalRequests":     t.AnalysisRequests,
		"errorRate":         t.errorRate(),
		"averageLoadTime":   t.AverageLoadTime,
	}
	if devMode {
		snapshot["popularUrls"] = t.topURLs(5)
	}
	return snapshot
}

// Save writes the statistics to their file.
func (t *Traffic) Save() error {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	t.LastPersisted = time.Now()

	data, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("could not encode statistics: %w", err)
	}
	if err := os.WriteFile(t.path, data, 0o644); err != nil {
		return fmt.Errorf("could not write statistics file: %w", err)
	}
	return nil
}

// Load reads the statistics file. A missing file is not an error.
func (t *Traffic) Load() error {
	data, err := os.ReadFile(t.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("could not open statistics file: %w", err)
	}

	t.mutex.Lock()
	defer t.mutex.Unlock()

	err = json.Unmarshal(data, t)
	if t.UniqueVisitors == nil {
		t.UniqueVisitors = make(map[string]time.Time)
	}
	if t.PopularURLs == nil {
		t.PopularURLs = make(map[string]int)
	}
	if err != nil {
		return fmt.Errorf("could not decode statistics: %w", err)
	}
	return nil
}
