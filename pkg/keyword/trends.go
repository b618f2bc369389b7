package keyword

import (
	"strings"

	"golang.org/x/text/cases"

	"keyword-scout/pkg/models"
	"keyword-scout/pkg/source"
)

// trendFilter keeps trends that are on-niche, multi-word and not generic
// news/sports chatter.
type trendFilter struct {
	niche   []string
	generic map[string]bool
	limit   int
}

func newTrendFilter(cfg Config) *trendFilter {
	folder := cases.Fold()
	f := &trendFilter{generic: make(map[string]bool), limit: cfg.MaxTrends}
	for _, n := range cfg.NicheTerms {
		if n = strings.TrimSpace(folder.String(n)); n != "" {
			f.niche = append(f.niche, n)
		}
	}
	for _, g := range cfg.GenericTerms {
		f.generic[strings.TrimSpace(folder.String(g))] = true
	}
	return f
}

func (f *trendFilter) seeds(trends []source.Trend) []models.Seed {
	folder := cases.Fold()
	seen := make(map[string]bool)
	var out []models.Seed

	for _, t := range trends {
		if len(out) >= f.limit {
			break
		}
		term := strings.Join(strings.Fields(folder.String(t.Title)), " ")
		if seen[term] || !f.accept(term) {
			continue
		}
		seen[term] = true
		out = append(out, models.Seed{Term: term, Weight: 1, Category: models.CategoryTrending})
	}
	return out
}

// accept expects a folded, space-normalised term.
func (f *trendFilter) accept(term string) bool {
	words := strings.Fields(term)
	if len(words) < 2 {
		return false
	}
	for _, w := range words {
		if f.generic[w] {
			return false
		}
	}

	padded := " " + term + " "
	for _, n := range f.niche {
		for _, suffix := range nicheSuffixes {
			if strings.Contains(padded, " "+n+suffix+" ") {
				return true
			}
		}
	}
	return false
}

// nicheSuffixes lets "invest" match "investing" without "car" matching
// "cardinals".
var nicheSuffixes = []string{"", "s", "es", "ing", "ment", "ments"}
