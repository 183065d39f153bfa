package stats

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorage(t *testing.T) {
	tempDir := t.TempDir()

	storage, err := NewStorage(tempDir, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = storage.Shutdown() })

	t.Run("Record", func(t *testing.T) {
		storage.Record("technical-audit", false)
		storage.Record("technical-audit", true)
		storage.Record("local-seo-enhancement", false)

		stats := storage.GetCurrentStats()
		assert.Equal(t, 2, stats.Analyses["technical-audit"])
		assert.Equal(t, 1, stats.Failures["technical-audit"])
		assert.Equal(t, 1, stats.Analyses["local-seo-enhancement"])
		assert.Zero(t, stats.Failures["local-seo-enhancement"])
		assert.Equal(t, 3, stats.Total())
	})

	t.Run("ReturnsCopies", func(t *testing.T) {
		stats := storage.GetCurrentStats()
		stats.Analyses["technical-audit"] = 100

		assert.Equal(t, 2, storage.GetCurrentStats().Analyses["technical-audit"])
	})

	t.Run("Persistence", func(t *testing.T) {
		require.NoError(t, storage.save())

		storage2, err := NewStorage(tempDir, nil)
		require.NoError(t, err)
		defer storage2.Shutdown()

		stats := storage2.GetCurrentStats()
		assert.Equal(t, 2, stats.Analyses["technical-audit"])
		assert.Equal(t, 1, stats.Failures["technical-audit"])
	})

	t.Run("UnknownMonth", func(t *testing.T) {
		stats, ok := storage.GetMonthlyStats("1999-01")
		assert.False(t, ok)
		assert.NotNil(t, stats.Analyses)
		assert.Zero(t, stats.Total())
	})

	t.Run("Cleanup", func(t *testing.T) {
		oldMonth := monthStart(time.Now()).AddDate(0, -3, 0).Format("2006-01")
		keptMonth := monthStart(time.Now()).AddDate(0, -1, 0).Format("2006-01")

		storage.mutex.Lock()
		storage.stats[oldMonth] = &MonthlyStats{Analyses: map[string]int{"backlink-strategy": 100}}
		storage.stats[keptMonth] = &MonthlyStats{Analyses: map[string]int{"backlink-strategy": 5}}
		storage.mutex.Unlock()

		storage.Cleanup(1)

		_, exists := storage.GetMonthlyStats(oldMonth)
		assert.False(t, exists, "old stats should have been cleaned up")
		_, exists = storage.GetMonthlyStats(keptMonth)
		assert.True(t, exists)
		_, exists = storage.GetMonthlyStats(currentMonth())
		assert.True(t, exists)
	})

	t.Run("GetAllMonthsNewestFirst", func(t *testing.T) {
		months := storage.GetAllMonths()
		require.NotEmpty(t, months)
		assert.Equal(t, currentMonth(), months[0])
		for i := 1; i < len(months); i++ {
			assert.Greater(t, months[i-1], months[i])
		}
	})

	t.Run("FileSize", func(t *testing.T) {
		require.NoError(t, storage.save())

		info, err := os.Stat(filepath.Join(tempDir, "stats.json"))
		require.NoError(t, err)
		assert.Less(t, info.Size(), int64(1024), "file should stay small for this data")
	})

	t.Run("ConcurrentAccess", func(t *testing.T) {
		before := storage.GetCurrentStats().Analyses["content-gap-analysis"]

		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 100; j++ {
					storage.Record("content-gap-analysis", j%2 == 0)
					storage.GetCurrentStats()
				}
			}()
		}
		wg.Wait()

		stats := storage.GetCurrentStats()
		assert.Equal(t, before+1000, stats.Analyses["content-gap-analysis"])
		assert.Equal(t, 500, stats.Failures["content-gap-analysis"])
	})
}

func TestStorageShutdownWritesFinalState(t *testing.T) {
	tempDir := t.TempDir()

	storage, err := NewStorage(tempDir, nil)
	require.NoError(t, err)

	storage.Record("content-optimization", false)
	require.NoError(t, storage.Shutdown())
	require.NoError(t, storage.Shutdown(), "shutdown must be idempotent")

	reloaded, err := NewStorage(tempDir, nil)
	require.NoError(t, err)
	defer reloaded.Shutdown()

	assert.Equal(t, 1, reloaded.GetCurrentStats().Analyses["content-optimization"])
}

func TestStorageRejectsCorruptFile(t *testing.T) {
	tempDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "stats.json"), []byte("{not json"), 0o644))

	_, err := NewStorage(tempDir, nil)
	assert.Error(t, err)
}
