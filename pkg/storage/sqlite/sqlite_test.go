package sqlite

import (
	"context"
	"testing"
	"time"

	"keyword-scout/pkg/models"
	"keyword-scout/pkg/storage"
)

func TestSQLiteHistory(t *testing.T) {
	ctx := context.Background()
	h, err := New(":memory:")
	if err != nil {
		t.Fatalf("Failed to create SQLite history: %v", err)
	}
	defer h.Close()

	now := time.Now().UTC().Truncate(time.Second)

	older := &storage.Run{
		ID:         "run-older",
		CreatedAt:  now.Add(-2 * time.Hour),
		DurationMS: 900,
		Seeds:      []models.Seed{{Term: "roth ira", Weight: 3, Category: "retirement"}},
		Results:    []models.KeywordResult{},
	}
	newer := &storage.Run{
		ID:         "run-newer",
		CreatedAt:  now,
		DurationMS: 1200,
		Seeds:      []models.Seed{{Term: "medicare enrollment", Weight: 3, Category: "medicare"}},
		Results: []models.KeywordResult{{
			Term:     "medicare enrollment",
			Score:    71,
			Category: "medicare",
			Suggestions: []models.ScoredSuggestion{{
				Keyword:    "medicare enrollment dates 2025",
				Score:      71,
				Difficulty: models.DifficultyMedium,
			}},
		}},
	}

	for _, run := range []*storage.Run{older, newer} {
		if err := h.Save(ctx, run); err != nil {
			t.Fatalf("Failed to save run: %v", err)
		}
	}

	runs, err := h.Recent(ctx, storage.Filter{Limit: 10})
	if err != nil {
		t.Fatalf("Failed to query runs: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("Expected 2 runs, got %d", len(runs))
	}

	got := runs[0]
	if got.ID != newer.ID {
		t.Errorf("Expected newest run first, got %s", got.ID)
	}
	if got.DurationMS != newer.DurationMS {
		t.Errorf("Expected duration %d, got %d", newer.DurationMS, got.DurationMS)
	}
	if !got.CreatedAt.Equal(newer.CreatedAt) {
		t.Errorf("Expected CreatedAt %v, got %v", newer.CreatedAt, got.CreatedAt)
	}
	if len(got.Results) != 1 || got.Results[0].Suggestions[0].Keyword != "medicare enrollment dates 2025" {
		t.Errorf("Results did not round-trip: %+v", got.Results)
	}
	if got.Seeds[0].Category != "medicare" {
		t.Errorf("Seeds did not round-trip: %+v", got.Seeds)
	}

	// Limit
	runs, err = h.Recent(ctx, storage.Filter{Limit: 1})
	if err != nil {
		t.Fatalf("Failed to query with limit: %v", err)
	}
	if len(runs) != 1 {
		t.Errorf("Expected 1 run with limit, got %d", len(runs))
	}

	// Since
	since := now.Add(-time.Hour)
	runs, err = h.Recent(ctx, storage.Filter{Since: &since})
	if err != nil {
		t.Fatalf("Failed to query with since: %v", err)
	}
	if len(runs) != 1 || runs[0].ID != newer.ID {
		t.Errorf("Expected only the newer run, got %d runs", len(runs))
	}

	// duplicate id
	if err := h.Save(ctx, newer); err == nil {
		t.Error("Expected error saving a duplicate run id")
	}
}
