package source

import (
	"context"
	"errors"
	"fmt"
	"time"

	"keyword-scout/pkg/models"
)

const (
	SourceGoogle        = "google"
	SourceReddit        = "reddit"
	SourceWikipedia     = "wikipedia"
	SourceStackExchange = "stackexchange"
	SourceTrends        = "trends"
	SourceQuestions     = "questions"
)

var (
	ErrCircuitOpen      = errors.New("circuit breaker is open")
	ErrUnexpectedStatus = errors.New("unexpected status")
)

// Fetcher harvests suggestion candidates for a term from one public source.
// Fetch never returns an error directly: failures are carried in Result.Err
// so callers can degrade to an empty list and still observe what went wrong.
type Fetcher interface {
	Name() string
	Fetch(ctx context.Context, term string) Result
}

type Result struct {
	Source     string
	Candidates []models.Candidate
	Err        error
	Duration   time.Duration
}

// Failed reports whether the source was unavailable, as opposed to
// answering with no suggestions.
func (r Result) Failed() bool {
	return r.Err != nil
}

// FetchError describes why a source could not be used.
type FetchError struct {
	Source string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: HTTP %d: %v", e.Source, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Source, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

func newResult(source string, texts []string, start time.Time) Result {
	candidates := make([]models.Candidate, 0, len(texts))
	for i, text := range texts {
		candidates = append(candidates, models.Candidate{Text: text, Source: source, Rank: i})
	}
	return Result{Source: source, Candidates: candidates, Duration: time.Since(start)}
}

func failedResult(source string, err error, start time.Time) Result {
	var fe *FetchError
	if !errors.As(err, &fe) {
		err = &FetchError{Source: source, Err: err}
	}
	return Result{Source: source, Candidates: []models.Candidate{}, Err: err, Duration: time.Since(start)}
}
