package logger

import (
	"fmt"
	"sync"
	"time"
)

// ProgressReporter logs "n/total" lines for a batch of work, at most once per
// interval plus once on completion. Safe for concurrent Update calls.
type ProgressReporter struct {
	mu          sync.Mutex
	total       int
	current     int
	description string
	interval    time.Duration
	startTime   time.Time
	lastUpdate  time.Time
	logger      *Logger
	now         func() time.Time
}

func NewProgressReporter(log *Logger, total int, description string, interval time.Duration) *ProgressReporter {
	if log == nil {
		log = GetLogger()
	}
	now := time.Now()
	return &ProgressReporter{
		total:       total,
		description: description,
		interval:    interval,
		startTime:   now,
		lastUpdate:  now,
		logger:      log.Component("progress"),
		now:         time.Now,
	}
}

// Update adds increment and reports when the interval has passed or the
// batch is done.
func (pr *ProgressReporter) Update(increment int) {
	pr.mu.Lock()
	defer pr.mu.Unlock()

	pr.current += increment
	now := pr.now()
	if now.Sub(pr.lastUpdate) >= pr.interval || pr.current >= pr.total {
		pr.reportProgress(now)
		pr.lastUpdate = now
	}
}

// Current returns completed and total counts.
func (pr *ProgressReporter) Current() (current, total int) {
	pr.mu.Lock()
	defer pr.mu.Unlock()
	return pr.current, pr.total
}

// reportProgress must be called with the lock held.
func (pr *ProgressReporter) reportProgress(now time.Time) {
	percentage := 100.0
	if pr.total > 0 {
		percentage = float64(pr.current) / float64(pr.total) * 100
	}
	elapsed := now.Sub(pr.startTime)

	pr.logger.WithFields(map[string]interface{}{
		"current":    pr.current,
		"total":      pr.total,
		"elapsed_ms": elapsed.Milliseconds(),
	}).Info(fmt.Sprintf("%s: %d/%d (%.0f%%)", pr.description, pr.current, pr.total, percentage))
}
