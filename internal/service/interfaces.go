package service

import (
	"context"

	"keyword-scout/pkg/models"
	"keyword-scout/pkg/storage"
)

type KeywordGenerator interface {
	Generate(ctx context.Context, manualSeeds []models.Seed) (*models.GenerateResponse, error)
}

type SeedLister interface {
	Seeds(category string) []models.Seed
	Categories() []string
}

type HistoryReader interface {
	History(ctx context.Context, limit int) ([]*storage.Run, error)
}

// KeywordService is everything the HTTP layer and CLI need from the
// research pipeline. *keyword.Service satisfies it.
type KeywordService interface {
	KeywordGenerator
	SeedLister
	HistoryReader
}
