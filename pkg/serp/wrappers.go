package serp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"

	"keyword-scout/pkg/logger"
	"keyword-scout/pkg/metrics"
	"keyword-scout/pkg/models"
	"keyword-scout/pkg/storage"
)

type timeoutAnalyzer struct {
	next    Analyzer
	timeout time.Duration
}

// WithTimeout bounds every Analyze call by d. The call returns when the
// deadline passes even if next ignores its context.
func WithTimeout(next Analyzer, d time.Duration) Analyzer {
	if d <= 0 {
		return next
	}
	return &timeoutAnalyzer{next: next, timeout: d}
}

func (a *timeoutAnalyzer) Analyze(ctx context.Context, keyword string) (*models.SerpResult, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	type outcome struct {
		result *models.SerpResult
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		result, err := a.next.Analyze(ctx, keyword)
		done <- outcome{result, err}
	}()

	select {
	case o := <-done:
		return o.result, o.err
	case <-ctx.Done():
		return nil, fmt.Errorf("serp analysis of %q: %w", keyword, ctx.Err())
	}
}

type cachedAnalyzer struct {
	next  Analyzer
	cache storage.Cache
	ttl   time.Duration
	log   *logger.Logger
}

// Cached serves repeated keywords from cache. Cache failures are logged and
// fall through to next; analyzer errors are never cached.
func Cached(next Analyzer, cache storage.Cache, ttl time.Duration) Analyzer {
	if cache == nil {
		return next
	}
	return &cachedAnalyzer{
		next:  next,
		cache: cache,
		ttl:   ttl,
		log:   logger.GetLogger().Component("serp_cache"),
	}
}

func (a *cachedAnalyzer) Analyze(ctx context.Context, keyword string) (*models.SerpResult, error) {
	key := CacheKey(keyword)

	raw, ok, err := a.cache.Get(ctx, key)
	if err != nil {
		a.log.WithError(err).WithField("key", key).Warn("SERP cache read failed")
	}
	if ok {
		var result models.SerpResult
		if err := json.Unmarshal(raw, &result); err == nil {
			metrics.RecordSerpCacheLookup(true)
			return &result, nil
		}
		a.log.WithField("key", key).Warn("Discarding undecodable SERP cache entry")
	}
	metrics.RecordSerpCacheLookup(false)

	result, err := a.next.Analyze(ctx, keyword)
	if err != nil {
		return nil, err
	}

	if encoded, err := json.Marshal(result); err == nil {
		if err := a.cache.Set(ctx, key, encoded, a.ttl); err != nil {
			a.log.WithError(err).WithField("key", key).Warn("SERP cache write failed")
		}
	}
	return result, nil
}

// CacheKey normalises keyword so case and spacing variants share an entry.
func CacheKey(keyword string) string {
	return "serp:" + strings.Join(strings.Fields(cases.Fold().String(keyword)), " ")
}
