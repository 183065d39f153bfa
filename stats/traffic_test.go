package stats

import (
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanURL(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"strips query and fragment", "https://example.com/blog/?utm=1#top", "https://example.com/blog"},
		{"root path", "https://example.com/", "https://example.com"},
		{"localhost ignored", "http://localhost:8082/seo/report", ""},
		{"loopback ignored", "http://127.0.0.1/page", ""},
		{"api path ignored", "https://example.com/api/health", ""},
		{"not absolute", "example.com/page", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanURL(tt.raw))
		})
	}
}

func TestTrafficTracking(t *testing.T) {
	traffic, err := NewTraffic(filepath.Join(t.TempDir(), "traffic.json"))
	require.NoError(t, err)

	traffic.TrackVisitor("10.0.0.1")
	traffic.TrackVisitor("10.0.0.2")
	traffic.TrackVisitor("10.0.0.1")

	traffic.TrackAnalysis("https://example.com/a", 100, false)
	traffic.TrackAnalysis("https://example.com/a?x=1", 200, true)
	traffic.TrackAnalysis("https://example.org/", 300, false)
	traffic.TrackAnalysis("", 400, true)

	assert.Equal(t, 2, traffic.UniqueVisitorsCount())
	assert.Equal(t, 4, traffic.Requests())
	assert.InDelta(t, 50.0, traffic.ErrorRate(), 0.001)

	top := traffic.TopURLs(5)
	require.Len(t, top, 2)
	assert.Equal(t, URLCount{URL: "https://example.com/a", Count: 2}, top[0])
	assert.Equal(t, URLCount{URL: "https://example.org", Count: 1}, top[1])

	snapshot := traffic.Snapshot(false)
	assert.Equal(t, 4, snapshot["totalRequests"])
	assert.InDelta(t, 250.0, snapshot["averageLoadTime"], 0.001)
	assert.NotContains(t, snapshot, "popularUrls")

	assert.Contains(t, traffic.Snapshot(true), "popularUrls")
}

func TestTrafficExpiredVisitors(t *testing.T) {
	traffic, err := NewTraffic(filepath.Join(t.TempDir(), "traffic.json"))
	require.NoError(t, err)

	traffic.UniqueVisitors["10.0.0.9"] = time.Now().Add(-48 * time.Hour)
	traffic.TrackVisitor("10.0.0.1")

	assert.Equal(t, 1, traffic.UniqueVisitorsCount())
}

func TestTrafficSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "traffic.json")

	traffic, err := NewTraffic(path)
	require.NoError(t, err)
	traffic.TrackVisitor("10.0.0.1")
	traffic.TrackAnalysis("https://example.com/shop", 120, false)
	require.NoError(t, traffic.Save())

	reloaded, err := NewTraffic(path)
	require.NoError(t, err)
	assert.Equal(t, 1, reloaded.Requests())
	assert.Equal(t, 1, reloaded.UniqueVisitorsCount())
	assert.Equal(t, []URLCount{{URL: "https://example.com/shop", Count: 1}}, reloaded.TopURLs(5))
	assert.False(t, reloaded.LastPersisted.IsZero())
}

func TestTrafficSnapshotConcurrent(t *testing.T) {
	traffic, err := NewTraffic(filepath.Join(t.TempDir(), "traffic.json"))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				traffic.TrackAnalysis("https://example.com/", 10, false)
				traffic.Snapshot(true)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 400, traffic.Requests())
}
