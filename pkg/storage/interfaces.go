// Package storage holds the SERP result caches and the run history
// contract. Concrete history backends live in the sqlite and postgres
// subpackages.
package storage

import (
	"context"
	"errors"
	"time"

	"keyword-scout/pkg/models"
)

var ErrNotConfigured = errors.New("history storage is not configured")

// Cache stores opaque values with a per-entry TTL. A ttl of zero means the
// cache default.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Close() error
}

// Run is one stored research run.
type Run struct {
	ID         string                 `json:"id"`
	CreatedAt  time.Time              `json:"createdAt"`
	DurationMS int64                  `json:"durationMs"`
	Seeds      []models.Seed          `json:"seeds"`
	Results    []models.KeywordResult `json:"results"`
}

// Filter narrows a history query.
type Filter struct {
	Since  *time.Time
	Limit  int
	Offset int
}

// History persists research runs.
type History interface {
	Save(ctx context.Context, run *Run) error
	Recent(ctx context.Context, filter Filter) ([]*Run, error)
	Close() error
}

// Disabled is the History used when no driver is configured. Saves are
// dropped and queries report ErrNotConfigured.
type Disabled struct{}

func (Disabled) Save(ctx context.Context, run *Run) error { return nil }

func (Disabled) Recent(ctx context.Context, filter Filter) ([]*Run, error) {
	return nil, ErrNotConfigured
}

func (Disabled) Close() error { return nil }
