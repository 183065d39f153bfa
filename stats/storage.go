// Package stats keeps aggregate usage counters. It never stores reports or
// insights, only counts.
package stats

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
)

// MonthlyStats counts analyses per kind for one month.
type MonthlyStats struct {
	Analyses    map[string]int `json:"analyses"`
	Failures    map[string]int `json:"failures"`
	LastUpdated time.Time      `json:"last_updated"`
}

func newMonthlyStats() *MonthlyStats {
	return &MonthlyStats{
		Analyses: make(map[string]int),
		Failures: make(map[string]int),
	}
}

func (m *MonthlyStats) clone() MonthlyStats {
	out := MonthlyStats{
		Analyses:    make(map[string]int, len(m.Analyses)),
		Failures:    make(map[string]int, len(m.Failures)),
		LastUpdated: m.LastUpdated,
	}
	for k, v := range m.Analyses {
		out.Analyses[k] = v
	}
	for k, v := range m.Failures {
		out.Failures[k] = v
	}
	return out
}

// Total returns the number of analyses across all kinds.
func (m MonthlyStats) Total() int {
	total := 0
	for _, n := range m.Analyses {
		total += n
	}
	return total
}

// Storage persists monthly statistics to a JSON file in the background.
type Storage struct {
	mutex       sync.RWMutex
	stats       map[string]*MonthlyStats // key: "YYYY-MM"
	filePath    string
	lastWrite   time.Time
	writeBuffer chan struct{}
	done        chan struct{}
	stopped     sync.WaitGroup
	closeOnce   sync.Once
	logger      *zap.Logger
}

// NewStorage creates a storage backed by dataDir/stats.json, loading any
// existing file, and starts its background writer.
func NewStorage(dataDir string, logger *zap.Logger) (*Storage, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	s := &Storage{
		stats:       make(map[string]*MonthlyStats),
		filePath:    filepath.Join(dataDir, "stats.json"),
		writeBuffer: make(chan struct{}, 1),
		done:        make(chan struct{}),
		logger:      logger,
	}

	if err := s.load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load stats: %w", err)
	}

	s.stopped.Add(1)
	go s.backgroundWriter()

	return s, nil
}

func (s *Storage) load() error {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		return err
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if err := json.Unmarshal(data, &s.stats); err != nil {
		return err
	}
	for _, m := range s.stats {
		if m.Analyses == nil {
			m.Analyses = make(map[string]int)
		}
		if m.Failures == nil {
			m.Failures = make(map[string]int)
		}
	}
	return nil
}

// save writes to a temporary file and renames it over the real one.
func (s *Storage) save() error {
	s.mutex.RLock()
	data, err := json.Marshal(s.stats)
	s.mutex.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to marshal stats: %w", err)
	}

	tempFile := s.filePath + ".tmp"
	if err := os.WriteFile(tempFile, data, 0o644); err != nil {
		return fmt.Errorf("failed to write temporary file: %w", err)
	}
	if err := os.Rename(tempFile, s.filePath); err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}
	return nil
}

func (s *Storage) backgroundWriter() {
	defer s.stopped.Done()

	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.writeBuffer:
		case <-ticker.C:
		case <-s.done:
			return
		}
		if err := s.save(); err != nil {
			s.logger.Warn("failed to persist statistics", zap.Error(err))
		}
	}
}

func currentMonth() string {
	return time.Now().Format("2006-01")
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// requestWrite signals the writer without blocking; a pending request absorbs it.
func (s *Storage) requestWrite() {
	select {
	case s.writeBuffer <- struct{}{}:
	default:
	}
}

// Record counts one analysis of kind for the current month.
func (s *Storage) Record(kind string, failed bool) {
	month := currentMonth()

	s.mutex.Lock()
	defer s.mutex.Unlock()

	stats, exists := s.stats[month]
	if !exists {
		stats = newMonthlyStats()
		s.stats[month] = stats
	}

	stats.Analyses[kind]++
	if failed {
		stats.Failures[kind]++
	}
	stats.LastUpdated = time.Now()

	if time.Since(s.lastWrite) > time.Minute {
		s.requestWrite()
		s.lastWrite = time.Now()
	}
}

// GetCurrentStats returns a copy of the current month's statistics.
func (s *Storage) GetCurrentStats() MonthlyStats {
	stats, _ := s.GetMonthlyStats(currentMonth())
	return stats
}

// GetMonthlyStats returns a copy of the statistics for yearMonth ("YYYY-MM").
func (s *Storage) GetMonthlyStats(yearMonth string) (MonthlyStats, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if stats, exists := s.stats[yearMonth]; exists {
		return stats.clone(), true
	}
	return newMonthlyStats().clone(), false
}

// GetAllMonths returns the months with statistics, newest first.
func (s *Storage) GetAllMonths() []string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	months := make([]string, 0, len(s.stats))
	for month := range s.stats {
		months = append(months, month)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(months)))
	return months
}

// Cleanup keeps the current month and the retainMonths months before it.
func (s *Storage) Cleanup(retainMonths int) {
	oldest := monthStart(time.Now()).AddDate(0, -retainMonths, 0).Format("2006-01")

	s.mutex.Lock()
	for key := range s.stats {
		if key < oldest {
			delete(s.stats, key)
		}
	}
	s.mutex.Unlock()

	s.requestWrite()
	s.logger.Info("pruned statistics", zap.String("oldest_retained", oldest))
}

// Shutdown stops the background writer and writes the final state.
func (s *Storage) Shutdown() error {
	s.closeOnce.Do(func() { close(s.done) })
	s.stopped.Wait()
	return s.save()
}
