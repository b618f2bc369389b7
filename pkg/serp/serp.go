// Package serp checks top keyword candidates against live search results and
// promotes the first one whose results leave a content gap.
package serp

import (
	"context"
	"errors"
	"sync"
	"time"

	"keyword-scout/pkg/models"
)

var ErrBudgetExhausted = errors.New("serp call budget exhausted")

// Analyzer reports content gaps for a keyword.
type Analyzer interface {
	Analyze(ctx context.Context, keyword string) (*models.SerpResult, error)
}

// AnalyzerFunc adapts a function to Analyzer.
type AnalyzerFunc func(ctx context.Context, keyword string) (*models.SerpResult, error)

func (f AnalyzerFunc) Analyze(ctx context.Context, keyword string) (*models.SerpResult, error) {
	return f(ctx, keyword)
}

type Config struct {
	Enabled    bool          `mapstructure:"enabled"`
	MaxCalls   int           `mapstructure:"max_calls"`
	Timeout    time.Duration `mapstructure:"timeout"`
	Endpoint   string        `mapstructure:"endpoint"`
	TopResults int           `mapstructure:"top_results"`
	CacheTTL   time.Duration `mapstructure:"cache_ttl"`
}

func DefaultConfig() Config {
	return Config{
		Enabled:    true,
		MaxCalls:   2,
		Timeout:    15 * time.Second,
		Endpoint:   "https://html.duckduckgo.com/html/",
		TopResults: 10,
		CacheTTL:   24 * time.Hour,
	}
}

// Budget caps analyzer calls for one request.
type Budget struct {
	mu   sync.Mutex
	max  int
	used int
}

func NewBudget(maxCalls int) *Budget {
	if maxCalls < 0 {
		maxCalls = 0
	}
	return &Budget{max: maxCalls}
}

// RecordCall reserves one call, or returns ErrBudgetExhausted.
func (b *Budget) RecordCall() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.used >= b.max {
		return ErrBudgetExhausted
	}
	b.used++
	return nil
}

func (b *Budget) Remaining() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.max - b.used
}

func (b *Budget) Used() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.used
}
