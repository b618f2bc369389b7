package scorer

import (
	"reflect"
	"strings"
	"testing"

	"keyword-scout/pkg/models"
)

func candidates(source string, texts ...string) []models.Candidate {
	out := make([]models.Candidate, 0, len(texts))
	for i, text := range texts {
		out = append(out, models.Candidate{Text: text, Source: source, Rank: i})
	}
	return out
}

func TestScoreCandidate_Rules(t *testing.T) {
	s := New(DefaultConfig())

	tests := []struct {
		name      string
		candidate string
		seed      string
		isTrend   bool
		want      Rejection
	}{
		{"enough extra words", "medicare enrollment dates 2025", "medicare enrollment", false, Accepted},
		{"one extra word evergreen", "medicare enrollment dates", "medicare enrollment", false, RejectFewWords},
		{"one extra word trend", "super bowl halftime", "super bowl", true, Accepted},
		{"no extra word trend", "Super Bowl", "super bowl", true, RejectFewWords},
		{"equals seed", "medicare enrollment", "medicare enrollment", false, RejectFewWords},
		{"seed plural with zero threshold", "roth iras", "roth ira", true, RejectFewWords},
		{"too long", "medicare " + strings.Repeat("x", 60), "medicare", false, RejectFewWords},
		{"too long multiword", "medicare advantage plans compared " + strings.Repeat("y", 40), "medicare", false, RejectTooLong},
		{"banned login", "medicare login portal", "medicare", false, RejectBanned},
		{"banned case folded", "Medicare Phone Number lookup", "medicare", false, RejectBanned},
		{"banned near me", "dental insurance near me", "dental", false, RejectBanned},
		{"blank", "   ", "medicare", false, RejectEmpty},
	}

	for _, test := range tests {
		_, got := s.ScoreCandidate(test.candidate, test.seed, 0, test.isTrend)
		if got != test.want {
			t.Errorf("%s: expected %q, got %q", test.name, test.want, got)
		}
	}
}

func TestScoreCandidate_SeedEcho(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MinExtraWords = 0
	s := New(cfg)

	for _, candidate := range []string{"Roth IRA", "roth iras"} {
		if _, reason := s.ScoreCandidate(candidate, "roth ira", 0, false); reason != RejectSameAsSeed {
			t.Errorf("%q: expected %q, got %q", candidate, RejectSameAsSeed, reason)
		}
	}
}

func TestScoreCandidate_Formula(t *testing.T) {
	s := New(DefaultConfig())

	tests := []struct {
		name      string
		candidate string
		seed      string
		rank      int
		want      float64
	}{
		// 50 + 2*8 + 5 (30 chars > 19+10)
		{"delta two with length bonus", "medicare enrollment dates 2025", "medicare enrollment", 0, 71},
		// 50 + 2*8 - 3, no bonus
		{"rank penalty", "roth ira tax rule", "roth ira", 3, 63},
		// delta capped at 4, rank capped at 10, bonus
		{"caps", "tax refund status check how long does it take", "tax refund", 25, 50 + 32 - 10 + 5},
	}

	for _, test := range tests {
		got, reason := s.ScoreCandidate(test.candidate, test.seed, test.rank, false)
		if reason != Accepted {
			t.Fatalf("%s: unexpected rejection %q", test.name, reason)
		}
		if got.Score != test.want {
			t.Errorf("%s: expected score %v, got %v", test.name, test.want, got.Score)
		}
	}
}

func TestScoreCandidate_ClampsScore(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Base = 95
	s := New(cfg)

	got, _ := s.ScoreCandidate("roth ira rules for beginners", "roth ira", 0, false)
	if got.Score != 100 {
		t.Errorf("Expected score clamped to 100, got %v", got.Score)
	}

	cfg.Base = -50
	s = New(cfg)
	got, _ = s.ScoreCandidate("roth ira rules 2025", "roth ira", 5, false)
	if got.Score != 0 {
		t.Errorf("Expected score clamped to 0, got %v", got.Score)
	}
}

func TestScoreCandidate_Classification(t *testing.T) {
	s := New(DefaultConfig())

	tests := []struct {
		candidate  string
		difficulty models.Difficulty
		volume     string
		intent     string
	}{
		{"credit score range chart", models.DifficultyMedium, "1K-10K", IntentInformational},
		{"best credit score apps", models.DifficultyMedium, "1K-10K", IntentCommercial},
		{"credit score repair cost estimate", models.DifficultyEasy, "100-1K", IntentTransactional},
		{"credit score official website check free", models.DifficultyEasy, "10-100", IntentNavigational},
	}

	for _, test := range tests {
		got, reason := s.ScoreCandidate(test.candidate, "credit score", 0, false)
		if reason != Accepted {
			t.Fatalf("%q: unexpected rejection %q", test.candidate, reason)
		}
		if got.Difficulty != test.difficulty || got.Volume != test.volume || got.Intent != test.intent {
			t.Errorf("%q: got %s/%s/%s, expected %s/%s/%s", test.candidate,
				got.Difficulty, got.Volume, got.Intent, test.difficulty, test.volume, test.intent)
		}
	}
}

func TestRank_MedicareEnrollment(t *testing.T) {
	s := New(DefaultConfig())

	got, rejected := s.Rank("medicare enrollment",
		candidates("google", "medicare enrollment dates 2025", "medicare enrollment"), false)

	if len(got) != 1 || got[0].Keyword != "medicare enrollment dates 2025" {
		t.Fatalf("Expected only the long-tail candidate, got %+v", got)
	}
	if got[0].Source != "google" {
		t.Errorf("Expected source to be carried, got %q", got[0].Source)
	}
	if rejected.Total() != 1 {
		t.Errorf("Expected 1 rejection, got %v", rejected)
	}
}

func TestRank_BannedNeverSurvives(t *testing.T) {
	s := New(DefaultConfig())

	got, rejected := s.Rank("medicare", candidates("google",
		"medicare login portal",
		"medicare login portal help for new members",
		"medicare part b premium 2025",
	), false)

	for _, sug := range got {
		if strings.Contains(sug.Keyword, "login") || strings.Contains(sug.Keyword, "portal") {
			t.Errorf("Banned suggestion survived: %q", sug.Keyword)
		}
	}
	if rejected[RejectBanned] != 2 {
		t.Errorf("Expected 2 banned rejections, got %v", rejected)
	}
}

func TestRank_DedupKeepsHighestScore(t *testing.T) {
	s := New(DefaultConfig())

	in := []models.Candidate{
		{Text: "roth ira contribution limit 2025", Source: "google", Rank: 4},
		{Text: "Roth IRAs contribution limits 2025", Source: "reddit", Rank: 0},
		{Text: "roth ira income limits married", Source: "google", Rank: 1},
	}
	got, _ := s.Rank("roth ira", in, false)

	stems := make(map[string]bool)
	for _, sug := range got {
		stem := Stem(sug.Keyword)
		if stems[stem] {
			t.Errorf("Duplicate stem %q in output", stem)
		}
		stems[stem] = true
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 suggestions, got %+v", got)
	}
	if got[0].Source != "reddit" {
		t.Errorf("Expected the better ranked plural variant to win, got %+v", got[0])
	}
}

func TestRank_DedupTieKeepsFirst(t *testing.T) {
	s := New(DefaultConfig())

	in := []models.Candidate{
		{Text: "roth ira rule explained", Source: "google", Rank: 0},
		{Text: "roth ira rules explained", Source: "reddit", Rank: 0},
	}
	got, _ := s.Rank("roth ira", in, false)
	if len(got) != 1 || got[0].Source != "google" {
		t.Errorf("Expected first candidate kept on tie, got %+v", got)
	}
}

func TestRank_QualityGate(t *testing.T) {
	s := New(DefaultConfig())

	// both score below 60 and are Medium: only the best survives
	got, _ := s.Rank("a b", []models.Candidate{
		{Text: "a b c d", Rank: 10},
		{Text: "a b e f", Rank: 8},
	}, false)
	if len(got) != 1 || got[0].Keyword != "a b e f" || got[0].Score != 58 {
		t.Errorf("Expected fallback to the single best, got %+v", got)
	}

	// Easy passes even below the threshold
	got, _ = s.Rank("x y z", []models.Candidate{
		{Text: "x y z q r", Rank: 10},
		{Text: "x y z a b", Rank: 9},
	}, false)
	if len(got) != 2 {
		t.Errorf("Expected Easy suggestions kept, got %+v", got)
	}
	for _, sug := range got {
		if sug.Score >= 60 || sug.Difficulty != models.DifficultyEasy {
			t.Errorf("Unexpected suggestion %+v", sug)
		}
	}

	if got, _ := s.Rank("x", nil, false); len(got) != 0 {
		t.Errorf("Expected no suggestions for no candidates, got %+v", got)
	}
}

func TestRank_SortedAndCapped(t *testing.T) {
	s := New(DefaultConfig())

	in := candidates("google",
		"budget tips for college students",
		"budget tips for families",
		"budget tips for beginners 2025 list",
		"budget tips for seniors",
		"budget tips for young adults",
		"budget tips for couples",
		"budget tips for single moms",
	)
	got, _ := s.Rank("budget tips", in, false)

	if len(got) != 5 {
		t.Fatalf("Expected 5 suggestions, got %d", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i-1].Score < got[i].Score {
			t.Errorf("Suggestions not sorted: %v before %v", got[i-1].Score, got[i].Score)
		}
	}
}

func TestRank_Deterministic(t *testing.T) {
	s := New(DefaultConfig())
	in := append(candidates("google", "credit score range chart", "credit score for car loan approval"),
		candidates("reddit", "what credit score do you need to buy a house", "credit scores range chart")...)

	first, _ := s.Rank("credit score", in, false)
	for i := 0; i < 10; i++ {
		again, _ := s.Rank("credit score", in, false)
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("Rank is not deterministic:\n%+v\n%+v", first, again)
		}
	}
}

func TestEnrich_TopThreeOnly(t *testing.T) {
	s := New(DefaultConfig())
	suggestions := make([]models.ScoredSuggestion, 5)
	for i := range suggestions {
		suggestions[i] = models.ScoredSuggestion{Keyword: "how to file taxes late", Intent: IntentInformational}
	}

	paa := []string{"How late can you file taxes?"}
	s.Enrich(suggestions, paa)

	for i, sug := range suggestions {
		enriched := i < 3
		if enriched != (sug.Strategy != "") {
			t.Errorf("Suggestion %d: unexpected strategy %q", i, sug.Strategy)
		}
		if enriched != (len(sug.PeopleAlsoAsk) == 1) {
			t.Errorf("Suggestion %d: unexpected PAA %v", i, sug.PeopleAlsoAsk)
		}
		if sug.PeopleAlsoAsk == nil {
			t.Errorf("Suggestion %d: PAA must be non-nil", i)
		}
	}

	paa[0] = "mutated"
	if suggestions[0].PeopleAlsoAsk[0] == "mutated" {
		t.Error("Enrich must copy the question list")
	}
}

func TestStem(t *testing.T) {
	tests := map[string]string{
		"Roth IRAs Rules": "roth ira rule",
		"roth  ira rule":  "roth ira rule",
		"taxes is":        "taxe is",
		"s":               "s",
		"bus pass":        "bus pass",
		"class fees":      "class fee",
		"status update":   "status update",
		"cost basis":      "cost basis",
		"IRS forms":       "irs form",
	}
	for in, want := range tests {
		if got := Stem(in); got != want {
			t.Errorf("Stem(%q) = %q, want %q", in, got, want)
		}
	}
}
