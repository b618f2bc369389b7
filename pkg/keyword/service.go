// Package keyword runs a research pass: trend and evergreen seeds, parallel
// suggestion fetches, scoring, ranking and SERP validation.
package keyword

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"keyword-scout/pkg/logger"
	"keyword-scout/pkg/metrics"
	"keyword-scout/pkg/models"
	"keyword-scout/pkg/scorer"
	"keyword-scout/pkg/seed"
	"keyword-scout/pkg/serp"
	"keyword-scout/pkg/source"
	"keyword-scout/pkg/storage"
)

var ErrInvalidSeed = errors.New("invalid manual seed")

const (
	manualCategory   = "manual"
	progressInterval = 10 * time.Second
)

type TrendSource interface {
	Daily(ctx context.Context) ([]source.Trend, error)
}

type QuestionSource interface {
	Questions(ctx context.Context, keyword string) []string
}

// Deps are the collaborators of a Service. Fetchers are merged in slice
// order, so pass them as google, reddit, wikipedia, stackexchange. Trends,
// Questions, Validator and History are optional.
type Deps struct {
	Registry     *seed.Registry
	Fetchers     []source.Fetcher
	Trends       TrendSource
	Questions    QuestionSource
	Scorer       *scorer.Scorer
	Validator    *serp.Validator
	MaxSerpCalls int
	History      storage.History
}

type Service struct {
	config   Config
	deps     Deps
	trending *trendFilter
	log      *logger.Logger
	newID    func() string
	now      func() time.Time
}

func NewService(cfg Config, deps Deps) *Service {
	if cfg.MaxSeeds <= 0 {
		cfg.MaxSeeds = seed.DefaultSampleSize
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = 3
	}
	if cfg.SeedConcurrency <= 0 {
		cfg.SeedConcurrency = 4
	}
	if deps.Scorer == nil {
		deps.Scorer = scorer.New(scorer.DefaultConfig())
	}
	if deps.History == nil {
		deps.History = storage.Disabled{}
	}

	return &Service{
		config:   cfg,
		deps:     deps,
		trending: newTrendFilter(cfg),
		log:      logger.GetLogger().Component("keyword_service"),
		newID:    uuid.NewString,
		now:      time.Now,
	}
}

// Generate researches up to MaxSeeds manual seeds (or a category-diverse
// sample when none are given) plus up to MaxTrends trending seeds and returns
// at most MaxResults keyword results. Source failures degrade to empty
// candidate lists; only invalid input or a cancelled context return an error.
func (s *Service) Generate(ctx context.Context, manualSeeds []models.Seed) (*models.GenerateResponse, error) {
	start := s.now()
	runID := s.newID()
	log := s.log.WithField("run_id", runID)

	evergreen, err := s.pickSeeds(manualSeeds)
	if err != nil {
		return nil, err
	}
	trends := s.trendSeeds(ctx, log)

	type plannedSeed struct {
		seed    models.Seed
		isTrend bool
	}
	planned := make([]plannedSeed, 0, len(evergreen)+len(trends))
	for _, sd := range evergreen {
		planned = append(planned, plannedSeed{sd, false})
	}
	for _, sd := range trends {
		planned = append(planned, plannedSeed{sd, true})
	}

	log.WithFields(map[string]interface{}{
		"evergreen": len(evergreen),
		"trending":  len(trends),
	}).Info("Starting keyword research")

	researched := make([]models.KeywordResult, len(planned))
	progress := logger.NewProgressReporter(log, len(planned), "Seeds researched", progressInterval)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.SeedConcurrency)
	for i, p := range planned {
		g.Go(func() error {
			researched[i] = s.researchSeed(gctx, p.seed, p.isTrend, log)
			progress.Update(1)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("research run %s aborted: %w", runID, err)
	}

	results := rankResults(researched, s.config.MaxResults)
	if s.deps.Validator != nil && len(results) > 0 {
		results = s.deps.Validator.Validate(ctx, results, serp.NewBudget(s.deps.MaxSerpCalls))
	}

	seeds := make([]models.Seed, 0, len(planned))
	for _, p := range planned {
		seeds = append(seeds, p.seed)
	}
	resp := &models.GenerateResponse{RunID: runID, Seeds: seeds, Results: results}

	elapsed := s.now().Sub(start)
	metrics.RecordGenerate(elapsed, len(results))
	s.saveRun(ctx, resp, start, elapsed, log)

	log.WithFields(map[string]interface{}{
		"seeds":       len(seeds),
		"results":     len(results),
		"duration_ms": elapsed.Milliseconds(),
	}).Info("Keyword research finished")
	return resp, nil
}

func (s *Service) pickSeeds(manual []models.Seed) ([]models.Seed, error) {
	if len(manual) == 0 {
		if s.deps.Registry == nil {
			return nil, seed.ErrNoSeeds
		}
		return s.deps.Registry.SampleDiverse(s.config.MaxSeeds), nil
	}

	if len(manual) > s.config.MaxSeeds {
		manual = manual[:s.config.MaxSeeds]
	}
	out := make([]models.Seed, 0, len(manual))
	for i, sd := range manual {
		sd.Term = strings.Join(strings.Fields(sd.Term), " ")
		if sd.Term == "" {
			return nil, fmt.Errorf("%w: seed %d has an empty term", ErrInvalidSeed, i)
		}
		if sd.Weight < 1 {
			sd.Weight = 1
		}
		if strings.TrimSpace(sd.Category) == "" {
			sd.Category = manualCategory
		}
		out = append(out, sd)
	}
	return out, nil
}

func (s *Service) trendSeeds(ctx context.Context, log *logger.Logger) []models.Seed {
	if s.deps.Trends == nil || s.config.MaxTrends <= 0 {
		return nil
	}

	start := time.Now()
	trends, err := s.deps.Trends.Daily(ctx)
	metrics.RecordFetch(source.SourceTrends, err != nil, len(trends) == 0, time.Since(start))
	if err != nil {
		log.WithError(err).Warn("Trends unavailable, continuing with evergreen seeds")
		return nil
	}
	return s.trending.seeds(trends)
}

// researchSeed never fails: a seed without qualifying suggestions yields a
// placeholder with an empty suggestion list.
func (s *Service) researchSeed(ctx context.Context, sd models.Seed, isTrend bool, log *logger.Logger) models.KeywordResult {
	result := models.KeywordResult{
		Term:          sd.Term,
		Difficulty:    models.DifficultyHard,
		Suggestions:   []models.ScoredSuggestion{},
		PeopleAlsoAsk: []string{},
		Category:      sd.Category,
		IsTrend:       isTrend,
	}

	candidates := s.fetchAll(ctx, sd.Term, log)
	suggestions, rejected := s.deps.Scorer.Rank(sd.Term, candidates, isTrend)

	counts := make(map[string]int, len(rejected))
	for reason, n := range rejected {
		counts[string(reason)] = n
	}
	metrics.RecordRejections(counts)

	if len(suggestions) == 0 {
		log.WithFields(map[string]interface{}{
			"seed":       sd.Term,
			"candidates": len(candidates),
			"rejected":   rejected.Total(),
		}).Debug("Seed produced no qualifying suggestions")
		return result
	}

	var paa []string
	if s.deps.Questions != nil {
		paa = s.deps.Questions.Questions(ctx, sd.Term)
	}
	s.deps.Scorer.Enrich(suggestions, paa)

	result.Suggestions = suggestions
	result.Score = suggestions[0].Score
	result.Difficulty = suggestions[0].Difficulty
	if paa != nil {
		result.PeopleAlsoAsk = paa
	}
	return result
}

// fetchAll queries every fetcher concurrently and merges candidates in
// fetcher order regardless of completion order.
func (s *Service) fetchAll(ctx context.Context, term string, log *logger.Logger) []models.Candidate {
	results := make([]source.Result, len(s.deps.Fetchers))

	var g errgroup.Group
	for i, f := range s.deps.Fetchers {
		g.Go(func() error {
			results[i] = f.Fetch(ctx, term)
			return nil
		})
	}
	_ = g.Wait()

	var merged []models.Candidate
	for _, r := range results {
		metrics.RecordFetch(r.Source, r.Failed(), len(r.Candidates) == 0, r.Duration)
		if r.Failed() {
			log.WithError(r.Err).WithFields(map[string]interface{}{
				"source": r.Source,
				"seed":   term,
			}).Debug("Source unavailable")
			continue
		}
		merged = append(merged, r.Candidates...)
	}
	return merged
}

// rankResults drops placeholders, sorts by score (stable) and caps.
func rankResults(researched []models.KeywordResult, limit int) []models.KeywordResult {
	valid := make([]models.KeywordResult, 0, len(researched))
	for _, r := range researched {
		if len(r.Suggestions) > 0 {
			valid = append(valid, r)
		}
	}
	sort.SliceStable(valid, func(i, j int) bool {
		return valid[i].Score > valid[j].Score
	})
	if len(valid) > limit {
		valid = valid[:limit]
	}
	return valid
}

func (s *Service) saveRun(ctx context.Context, resp *models.GenerateResponse, start time.Time, elapsed time.Duration, log *logger.Logger) {
	run := &storage.Run{
		ID:         resp.RunID,
		CreatedAt:  start.UTC(),
		DurationMS: elapsed.Milliseconds(),
		Seeds:      resp.Seeds,
		Results:    resp.Results,
	}
	if err := s.deps.History.Save(ctx, run); err != nil {
		log.WithError(err).Warn("Failed to store research run")
	}
}

// History returns recent runs, newest first.
func (s *Service) History(ctx context.Context, limit int) ([]*storage.Run, error) {
	return s.deps.History.Recent(ctx, storage.Filter{Limit: limit})
}

// Seeds lists the registry, optionally narrowed to one category.
func (s *Service) Seeds(category string) []models.Seed {
	if s.deps.Registry == nil {
		return []models.Seed{}
	}
	if category == "" {
		return s.deps.Registry.Seeds()
	}
	if seeds := s.deps.Registry.ByCategory(category); seeds != nil {
		return seeds
	}
	return []models.Seed{}
}

// Categories lists the registry categories.
func (s *Service) Categories() []string {
	if s.deps.Registry == nil {
		return []string{}
	}
	return s.deps.Registry.Categories()
}
