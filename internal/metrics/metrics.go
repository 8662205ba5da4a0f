package metrics

import (
	"sync"
	"time"
)

type Metrics struct {
	mu sync.RWMutex

	// Counters
	RunsStarted        int64
	PostsPublished     int64
	RunsFailed         int64
	ImagesGenerated    int64
	MediaUploadsFailed int64
	DuplicatesSkipped  int64

	// Timings
	LastRunDuration    time.Duration
	TotalRunDuration   time.Duration
	AverageRunDuration time.Duration
	runCount           int64

	// Status
	LastRunTime   time.Time
	LastPostURL   string
	LastErrorTime time.Time
	LastError     string
	IsHealthy     bool
}

var Global = &Metrics{IsHealthy: true}

func (m *Metrics) RunStarted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RunsStarted++
}

func (m *Metrics) PostPublished(link string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PostsPublished++
	m.LastPostURL = link
	m.LastRunTime = time.Now()
	m.IsHealthy = true
}

func (m *Metrics) ImageGenerated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ImagesGenerated++
}

func (m *Metrics) MediaUploadFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.MediaUploadsFailed++
}

func (m *Metrics) DuplicateSkipped(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DuplicatesSkipped += int64(n)
}

func (m *Metrics) RecordRunDuration(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.LastRunDuration = d
	m.TotalRunDuration += d
	m.runCount++
	m.AverageRunDuration = m.TotalRunDuration / time.Duration(m.runCount)
}

func (m *Metrics) RunFailed(err string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RunsFailed++
	m.LastError = err
	m.LastErrorTime = time.Now()
	m.IsHealthy = false
}

func (m *Metrics) GetStats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]interface{}{
		"runs_started":            m.RunsStarted,
		"posts_published":         m.PostsPublished,
		"runs_failed":             m.RunsFailed,
		"images_generated":        m.ImagesGenerated,
		"media_uploads_failed":    m.MediaUploadsFailed,
		"duplicates_skipped":      m.DuplicatesSkipped,
		"last_run_duration_ms":    m.LastRunDuration.Milliseconds(),
		"average_run_duration_ms": m.AverageRunDuration.Milliseconds(),
		"last_run_time":           m.LastRunTime.Format(time.RFC3339),
		"last_post_url":           m.LastPostURL,
		"last_error_time":         m.LastErrorTime.Format(time.RFC3339),
		"last_error":              m.LastError,
		"is_healthy":              m.IsHealthy,
	}
}
