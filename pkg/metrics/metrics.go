// Package metrics exposes Prometheus collectors for the research pipeline.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SourceFetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "keywords_source_fetches_total",
			Help: "Suggestion source fetches by outcome",
		},
		[]string{"source", "outcome"},
	)

	SourceFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "keywords_source_fetch_duration_seconds",
			Help:    "Duration of suggestion source fetches in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
		[]string{"source"},
	)

	CandidateRejectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "keywords_candidate_rejections_total",
			Help: "Candidates discarded by the scorer, by rule",
		},
		[]string{"reason"},
	)

	SerpCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "keywords_serp_calls_total",
			Help: "SERP analyzer calls by outcome",
		},
		[]string{"outcome"},
	)

	SerpCacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "keywords_serp_cache_lookups_total",
			Help: "SERP cache lookups by result",
		},
		[]string{"result"},
	)

	GenerateDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "keywords_generate_duration_seconds",
			Help:    "Duration of a full research run in seconds",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60},
		},
	)

	ResultsReturned = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "keywords_results_returned",
			Help:    "Keyword results returned per research run",
			Buckets: []float64{0, 1, 2, 3},
		},
	)
)

// RecordFetch counts one source fetch. failed distinguishes an unavailable
// source from one that answered.
func RecordFetch(source string, failed bool, empty bool, d time.Duration) {
	outcome := "ok"
	switch {
	case failed:
		outcome = "error"
	case empty:
		outcome = "empty"
	}
	SourceFetchesTotal.WithLabelValues(source, outcome).Inc()
	SourceFetchDuration.WithLabelValues(source).Observe(d.Seconds())
}

func RecordRejections(counts map[string]int) {
	for reason, n := range counts {
		CandidateRejectionsTotal.WithLabelValues(reason).Add(float64(n))
	}
}

// RecordSerpCall outcome is one of "gap", "no_gap", "error". Cache hits are
// budgeted calls too and land here with their analysis outcome.
func RecordSerpCall(outcome string) {
	SerpCallsTotal.WithLabelValues(outcome).Inc()
}

func RecordSerpCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	SerpCacheLookupsTotal.WithLabelValues(result).Inc()
}

func RecordGenerate(d time.Duration, results int) {
	GenerateDuration.Observe(d.Seconds())
	ResultsReturned.Observe(float64(results))
}
