// Package scorer turns raw suggestion candidates into ranked long-tail
// keyword suggestions.
package scorer

import (
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"

	"keyword-scout/pkg/models"
)

// Scorer is stateless apart from its configuration and is safe for
// concurrent use.
type Scorer struct {
	config Config
	rules  []rule
}

func New(cfg Config) *Scorer {
	return &Scorer{
		config: cfg,
		rules: []rule{
			WordDeltaFilter{},
			SeedEchoFilter{},
			NewLengthFilter(cfg.MaxLength),
			NewBannedTermFilter(cfg.BannedTerms),
		},
	}
}

func (s *Scorer) Config() Config {
	return s.config
}

// ScoreCandidate scores one candidate against its seed. sourceIndex is the
// candidate's position in its source's response. A non-empty Rejection means
// the suggestion must be discarded.
func (s *Scorer) ScoreCandidate(candidate, seed string, sourceIndex int, isTrend bool) (models.ScoredSuggestion, Rejection) {
	text := strings.Join(strings.Fields(candidate), " ")
	if text == "" {
		return models.ScoredSuggestion{}, RejectEmpty
	}

	minExtra := s.config.MinExtraWords
	if isTrend {
		minExtra = s.config.MinExtraTrend
	}

	view := candidateView{
		text:      fold(text),
		seed:      fold(strings.Join(strings.Fields(seed), " ")),
		words:     wordCount(text),
		seedWords: wordCount(seed),
		minExtra:  minExtra,
	}
	for _, r := range s.rules {
		if r.Reject(view) {
			return models.ScoredSuggestion{}, r.Name()
		}
	}

	words := view.words
	return models.ScoredSuggestion{
		Keyword:       text,
		Score:         s.score(text, seed, words-view.seedWords, sourceIndex),
		Difficulty:    difficultyFor(words),
		Volume:        volumeFor(words),
		Intent:        intentFor(view.text),
		PeopleAlsoAsk: []string{},
	}, Accepted
}

func (s *Scorer) score(text, seed string, delta, sourceIndex int) float64 {
	c := s.config

	if delta > c.MaxWordDelta {
		delta = c.MaxWordDelta
	}
	if delta < 0 {
		delta = 0
	}
	if sourceIndex > c.MaxRankPenalty {
		sourceIndex = c.MaxRankPenalty
	}
	if sourceIndex < 0 {
		sourceIndex = 0
	}

	score := c.Base + float64(delta)*c.WordDeltaWeight - float64(sourceIndex)*c.RankPenalty
	if utf8.RuneCountInString(text) > utf8.RuneCountInString(seed)+c.LengthBonusMargin {
		score += c.LengthBonus
	}
	return math.Max(0, math.Min(100, score))
}

// Rank scores every candidate, removes singular/plural duplicates, applies
// the quality gate and returns at most MaxSuggestions suggestions sorted by
// score. Candidates must arrive in the fixed source merge order; ties keep
// that order.
func (s *Scorer) Rank(seed string, candidates []models.Candidate, isTrend bool) ([]models.ScoredSuggestion, Rejections) {
	rejected := make(Rejections)
	scored := make([]models.ScoredSuggestion, 0, len(candidates))

	for _, c := range candidates {
		suggestion, reason := s.ScoreCandidate(c.Text, seed, c.Rank, isTrend)
		if reason != Accepted {
			rejected[reason]++
			continue
		}
		suggestion.Source = c.Source
		scored = append(scored, suggestion)
	}

	unique := dedupe(scored)
	kept := s.qualityGate(unique)

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Score > kept[j].Score
	})
	if limit := s.config.MaxSuggestions; limit > 0 && len(kept) > limit {
		kept = kept[:limit]
	}
	return kept, rejected
}

// dedupe keeps the highest scoring suggestion per singular stem. On a tie the
// earlier one wins. Output keeps first-seen order of stems.
func dedupe(scored []models.ScoredSuggestion) []models.ScoredSuggestion {
	index := make(map[string]int)
	out := make([]models.ScoredSuggestion, 0, len(scored))

	for _, sug := range scored {
		key := Stem(sug.Keyword)
		if i, ok := index[key]; ok {
			if sug.Score > out[i].Score {
				out[i] = sug
			}
			continue
		}
		index[key] = len(out)
		out = append(out, sug)
	}
	return out
}

func (s *Scorer) qualityGate(scored []models.ScoredSuggestion) []models.ScoredSuggestion {
	kept := make([]models.ScoredSuggestion, 0, len(scored))
	for _, sug := range scored {
		if sug.Score >= s.config.QualityThreshold || sug.Difficulty == models.DifficultyEasy {
			kept = append(kept, sug)
		}
	}
	if len(kept) > 0 || len(scored) == 0 {
		return kept
	}

	best := 0
	for i := range scored {
		if scored[i].Score > scored[best].Score {
			best = i
		}
	}
	return []models.ScoredSuggestion{scored[best]}
}

// Enrich attaches the People-Also-Ask list and a content strategy to the top
// EnrichTop suggestions. The rest get an empty question list.
func (s *Scorer) Enrich(suggestions []models.ScoredSuggestion, paa []string) {
	for i := range suggestions {
		if i < s.config.EnrichTop {
			suggestions[i].PeopleAlsoAsk = append([]string{}, paa...)
			suggestions[i].Strategy = Strategy(suggestions[i])
			continue
		}
		suggestions[i].PeopleAlsoAsk = []string{}
		suggestions[i].Strategy = ""
	}
}

// Stem folds case and strips a plural "s" from every word, so "Roth IRAs
// Rules" and "roth ira rule" compare equal. Words of three letters or less
// and words ending in "ss", "us" or "is" are left alone ("bus pass", "basis").
func Stem(text string) string {
	words := strings.Fields(fold(text))
	for i, w := range words {
		if isPlural(w) {
			words[i] = w[:len(w)-1]
		}
	}
	return strings.Join(words, " ")
}

func isPlural(w string) bool {
	if len(w) <= 3 || !strings.HasSuffix(w, "s") {
		return false
	}
	switch w[len(w)-2] {
	case 's', 'u', 'i':
		return false
	}
	return true
}

func wordCount(s string) int {
	return len(strings.Fields(s))
}

// fold builds a fresh Caser per call; Casers keep state and the scorer runs
// on many goroutines.
func fold(s string) string {
	return cases.Fold().String(s)
}
