package keyword

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"keyword-scout/pkg/models"
	"keyword-scout/pkg/scorer"
	"keyword-scout/pkg/seed"
	"keyword-scout/pkg/serp"
	"keyword-scout/pkg/source"
	"keyword-scout/pkg/storage"
)

type fakeFetcher struct {
	name    string
	answers map[string][]string
	fail    bool
	delay   time.Duration
}

func (f *fakeFetcher) Name() string { return f.name }

func (f *fakeFetcher) Fetch(ctx context.Context, term string) source.Result {
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.fail {
		return source.Result{
			Source:     f.name,
			Candidates: []models.Candidate{},
			Err:        &source.FetchError{Source: f.name, Status: 503, Err: source.ErrUnexpectedStatus},
		}
	}
	var candidates []models.Candidate
	for i, text := range f.answers[term] {
		candidates = append(candidates, models.Candidate{Text: text, Source: f.name, Rank: i})
	}
	return source.Result{Source: f.name, Candidates: candidates}
}

type fakeTrends struct {
	trends []source.Trend
	err    error
}

func (f *fakeTrends) Daily(ctx context.Context) ([]source.Trend, error) {
	return f.trends, f.err
}

type fakeQuestions struct{}

func (fakeQuestions) Questions(ctx context.Context, keyword string) []string {
	return []string{"How does " + keyword + " work?"}
}

type recordingHistory struct {
	mu   sync.Mutex
	runs []*storage.Run
}

func (h *recordingHistory) Save(ctx context.Context, run *storage.Run) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.runs = append(h.runs, run)
	return nil
}

func (h *recordingHistory) Recent(ctx context.Context, filter storage.Filter) ([]*storage.Run, error) {
	return h.runs, nil
}

func (h *recordingHistory) Close() error { return nil }

func manual(terms ...string) []models.Seed {
	seeds := make([]models.Seed, 0, len(terms))
	for _, t := range terms {
		seeds = append(seeds, models.Seed{Term: t, Weight: 1, Category: "test"})
	}
	return seeds
}

func newTestService(cfg Config, deps Deps) *Service {
	if deps.Registry == nil {
		deps.Registry = seed.NewDefaultRegistry(rand.New(rand.NewPCG(1, 2)))
	}
	svc := NewService(cfg, deps)
	svc.newID = func() string { return "run-1" }
	return svc
}

func TestGenerate_MergesInFetcherOrder(t *testing.T) {
	google := &fakeFetcher{name: "google", delay: 30 * time.Millisecond, answers: map[string][]string{
		"roth ira": {"roth ira rule explained"},
	}}
	reddit := &fakeFetcher{name: "reddit", answers: map[string][]string{
		"roth ira": {"roth ira rules explained"},
	}}

	svc := newTestService(DefaultConfig(), Deps{Fetchers: []source.Fetcher{google, reddit}})
	resp, err := svc.Generate(context.Background(), manual("roth ira"))
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if len(resp.Results) != 1 || len(resp.Results[0].Suggestions) != 1 {
		t.Fatalf("Expected one deduplicated suggestion, got %+v", resp.Results)
	}
	if got := resp.Results[0].Suggestions[0].Source; got != "google" {
		t.Errorf("Expected the google candidate to win the tie despite finishing last, got %s", got)
	}
	if resp.RunID != "run-1" {
		t.Errorf("Expected run id, got %q", resp.RunID)
	}
}

func TestGenerate_EmptySeedIsExcluded(t *testing.T) {
	google := &fakeFetcher{name: "google", answers: map[string][]string{
		"medicare enrollment": {"medicare enrollment dates 2025", "medicare enrollment"},
		"dead end":            {"dead end", "dead ends", "dead end login portal now"},
	}}
	reddit := &fakeFetcher{name: "reddit", fail: true}

	svc := newTestService(DefaultConfig(), Deps{Fetchers: []source.Fetcher{google, reddit}})
	resp, err := svc.Generate(context.Background(), manual("medicare enrollment", "dead end"))
	if err != nil {
		t.Fatalf("Expected degraded success, got %v", err)
	}

	if len(resp.Seeds) != 2 {
		t.Errorf("Expected both seeds echoed, got %v", resp.Seeds)
	}
	if len(resp.Results) != 1 || resp.Results[0].Term != "medicare enrollment" {
		t.Fatalf("Expected only the productive seed, got %+v", resp.Results)
	}
	top := resp.Results[0].Top()
	if top.Keyword != "medicare enrollment dates 2025" {
		t.Errorf("Unexpected top suggestion %q", top.Keyword)
	}
	if resp.Results[0].Score != top.Score {
		t.Errorf("Result score should mirror its top suggestion")
	}
}

func TestResearchSeed_Placeholder(t *testing.T) {
	google := &fakeFetcher{name: "google", answers: map[string][]string{"x": {"x"}}}
	svc := newTestService(DefaultConfig(), Deps{Fetchers: []source.Fetcher{google}})

	got := svc.researchSeed(context.Background(), models.Seed{Term: "x", Category: "c"}, false, svc.log)
	if got.Suggestions == nil || len(got.Suggestions) != 0 {
		t.Errorf("Expected empty non-nil suggestions, got %v", got.Suggestions)
	}
	if got.Term != "x" || got.Category != "c" {
		t.Errorf("Unexpected placeholder %+v", got)
	}
}

func TestGenerate_CapsResultsAndSerpCalls(t *testing.T) {
	answers := map[string][]string{}
	terms := []string{"roth ira", "credit score", "car insurance"}
	for _, term := range terms {
		answers[term] = []string{term + " for first time buyers", term + " rules and limits explained"}
	}
	trendTerms := []string{"medicare open enrollment", "irs refund delay"}
	for _, term := range trendTerms {
		answers[term] = []string{term + " update", term + " this week explained"}
	}

	var calls int32
	analyzer := serp.AnalyzerFunc(func(ctx context.Context, keyword string) (*models.SerpResult, error) {
		atomic.AddInt32(&calls, 1)
		return &models.SerpResult{ContentGaps: []string{}}, nil
	})

	svc := newTestService(DefaultConfig(), Deps{
		Fetchers:     []source.Fetcher{&fakeFetcher{name: "google", answers: answers}},
		Trends:       &fakeTrends{trends: []source.Trend{{Title: "Medicare Open Enrollment"}, {Title: "IRS refund delay"}}},
		Questions:    fakeQuestions{},
		Validator:    serp.NewValidator(analyzer, 2),
		MaxSerpCalls: 2,
	})

	resp, err := svc.Generate(context.Background(), manual(append(terms, "ignored fourth seed")...))
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if len(resp.Seeds) != 5 {
		t.Errorf("Expected 3 manual + 2 trend seeds, got %d: %v", len(resp.Seeds), resp.Seeds)
	}
	for _, s := range resp.Seeds {
		if s.Term == "ignored fourth seed" {
			t.Error("Manual seeds must be capped at 3")
		}
	}
	if len(resp.Results) != 3 {
		t.Fatalf("Expected 3 results, got %d", len(resp.Results))
	}
	if calls > 2 {
		t.Errorf("Expected at most 2 SERP calls, got %d", calls)
	}

	for i, r := range resp.Results {
		if len(r.Suggestions) > 5 {
			t.Errorf("Result %d has %d suggestions", i, len(r.Suggestions))
		}
		enriched := 0
		for _, s := range r.Suggestions {
			if s.Strategy != "" {
				enriched++
			}
		}
		if enriched > 3 {
			t.Errorf("Result %d has %d enriched suggestions", i, enriched)
		}
		if len(r.PeopleAlsoAsk) != 1 {
			t.Errorf("Result %d: expected PAA attached, got %v", i, r.PeopleAlsoAsk)
		}
		if i > 0 && resp.Results[i-1].Score < r.Score {
			t.Errorf("Results not sorted by score")
		}
	}
}

func TestGenerate_TrendSeedsUseLowerThreshold(t *testing.T) {
	google := &fakeFetcher{name: "google", answers: map[string][]string{
		"medicare open enrollment": {"medicare open enrollment deadline"},
	}}
	svc := newTestService(DefaultConfig(), Deps{
		Fetchers: []source.Fetcher{google},
		Trends:   &fakeTrends{trends: []source.Trend{{Title: "medicare open enrollment"}}},
	})

	resp, err := svc.Generate(context.Background(), manual("no suggestions here"))
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if len(resp.Results) != 1 || !resp.Results[0].IsTrend {
		t.Fatalf("Expected the trend seed result, got %+v", resp.Results)
	}
	if resp.Results[0].Category != models.CategoryTrending {
		t.Errorf("Expected trending category, got %s", resp.Results[0].Category)
	}
}

func TestGenerate_TrendFailureIsNotFatal(t *testing.T) {
	google := &fakeFetcher{name: "google", answers: map[string][]string{
		"roth ira": {"roth ira income limits 2025"},
	}}
	svc := newTestService(DefaultConfig(), Deps{
		Fetchers: []source.Fetcher{google},
		Trends:   &fakeTrends{err: errors.New("feed down")},
	})

	resp, err := svc.Generate(context.Background(), manual("roth ira"))
	if err != nil {
		t.Fatalf("Expected success without trends, got %v", err)
	}
	if len(resp.Seeds) != 1 || len(resp.Results) != 1 {
		t.Errorf("Unexpected response %+v", resp)
	}
}

func TestGenerate_SamplesRegistryWithoutManualSeeds(t *testing.T) {
	svc := newTestService(DefaultConfig(), Deps{
		Fetchers: []source.Fetcher{&fakeFetcher{name: "google"}},
	})

	resp, err := svc.Generate(context.Background(), nil)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if len(resp.Seeds) != 3 {
		t.Fatalf("Expected 3 sampled seeds, got %v", resp.Seeds)
	}
	categories := make(map[string]bool)
	for _, s := range resp.Seeds {
		categories[s.Category] = true
	}
	if len(categories) != 3 {
		t.Errorf("Expected category-diverse sample, got %v", resp.Seeds)
	}
	if resp.Results == nil || len(resp.Results) != 0 {
		t.Errorf("Expected empty non-nil results, got %v", resp.Results)
	}
}

func TestGenerate_InvalidManualSeed(t *testing.T) {
	svc := newTestService(DefaultConfig(), Deps{})

	_, err := svc.Generate(context.Background(), []models.Seed{{Term: "  "}})
	if !errors.Is(err, ErrInvalidSeed) {
		t.Errorf("Expected ErrInvalidSeed, got %v", err)
	}
}

func TestGenerate_ManualSeedDefaults(t *testing.T) {
	svc := newTestService(DefaultConfig(), Deps{})

	resp, err := svc.Generate(context.Background(), []models.Seed{{Term: "  Roth   IRA "}})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	got := resp.Seeds[0]
	if got.Term != "Roth IRA" || got.Weight != 1 || got.Category != "manual" {
		t.Errorf("Expected normalised manual seed, got %+v", got)
	}
}

func TestGenerate_CancelledContext(t *testing.T) {
	svc := newTestService(DefaultConfig(), Deps{
		Fetchers: []source.Fetcher{&fakeFetcher{name: "google"}},
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := svc.Generate(ctx, manual("roth ira")); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestGenerate_SavesHistory(t *testing.T) {
	history := &recordingHistory{}
	google := &fakeFetcher{name: "google", answers: map[string][]string{
		"roth ira": {"roth ira income limits 2025"},
	}}
	svc := newTestService(DefaultConfig(), Deps{Fetchers: []source.Fetcher{google}, History: history})

	if _, err := svc.Generate(context.Background(), manual("roth ira")); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if len(history.runs) != 1 || history.runs[0].ID != "run-1" || len(history.runs[0].Results) != 1 {
		t.Errorf("Expected run stored, got %+v", history.runs)
	}

	runs, err := svc.History(context.Background(), 10)
	if err != nil || len(runs) != 1 {
		t.Errorf("Expected history readable, got %v %v", runs, err)
	}
}

func TestTrendFilter(t *testing.T) {
	f := newTrendFilter(DefaultConfig())

	trends := []source.Trend{
		{Title: "Lakers vs Celtics"},
		{Title: "tax"},
		{Title: "Cardinals game"},
		{Title: "Medicare Open Enrollment"},
		{Title: "medicare open enrollment"},
		{Title: "investing in gold"},
		{Title: "IRS refund delay"},
	}
	got := f.seeds(trends)

	want := []string{"medicare open enrollment", "investing in gold"}
	if len(got) != len(want) {
		t.Fatalf("Expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i].Term != want[i] || got[i].Category != models.CategoryTrending {
			t.Errorf("Trend %d: expected %s, got %+v", i, want[i], got[i])
		}
	}
}

func TestScorerConfigIsHonoured(t *testing.T) {
	cfg := scorer.DefaultConfig()
	cfg.BannedTerms = append(cfg.BannedTerms, "dates")

	google := &fakeFetcher{name: "google", answers: map[string][]string{
		"medicare enrollment": {"medicare enrollment dates 2025"},
	}}
	svc := newTestService(DefaultConfig(), Deps{Fetchers: []source.Fetcher{google}, Scorer: scorer.New(cfg)})

	resp, _ := svc.Generate(context.Background(), manual("medicare enrollment"))
	for _, r := range resp.Results {
		for _, s := range r.Suggestions {
			if strings.Contains(s.Keyword, "dates") {
				t.Errorf("Configured banned term survived: %q", s.Keyword)
			}
		}
	}
}
