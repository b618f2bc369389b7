package scorer

import (
	"strings"
	"unicode/utf8"
)

// Rejection names the rule that discarded a candidate. The zero value means
// the candidate was kept.
type Rejection string

const (
	Accepted         Rejection = ""
	RejectEmpty      Rejection = "empty"
	RejectFewWords   Rejection = "too_few_words"
	RejectSameAsSeed Rejection = "same_as_seed"
	RejectTooLong    Rejection = "too_long"
	RejectBanned     Rejection = "banned_term"
)

// Rejections counts discarded candidates per rule.
type Rejections map[Rejection]int

func (r Rejections) Total() int {
	total := 0
	for _, n := range r {
		total += n
	}
	return total
}

// candidateView is the folded form of a candidate and its seed that every
// rule reads.
type candidateView struct {
	text      string
	seed      string
	words     int
	seedWords int
	minExtra  int
}

type rule interface {
	Name() Rejection
	Reject(v candidateView) bool
}

// WordDeltaFilter drops candidates that do not add enough words to the seed.
type WordDeltaFilter struct{}

func (WordDeltaFilter) Name() Rejection { return RejectFewWords }

func (WordDeltaFilter) Reject(v candidateView) bool {
	return v.words-v.seedWords < v.minExtra
}

// SeedEchoFilter drops the seed itself and its naive plural.
type SeedEchoFilter struct{}

func (SeedEchoFilter) Name() Rejection { return RejectSameAsSeed }

func (SeedEchoFilter) Reject(v candidateView) bool {
	return v.text == v.seed || v.text == v.seed+"s"
}

// LengthFilter drops candidates longer than maxLength characters.
type LengthFilter struct {
	maxLength int
}

func NewLengthFilter(maxLength int) *LengthFilter {
	return &LengthFilter{maxLength: maxLength}
}

func (f *LengthFilter) Name() Rejection { return RejectTooLong }

func (f *LengthFilter) Reject(v candidateView) bool {
	return f.maxLength > 0 && utf8.RuneCountInString(v.text) > f.maxLength
}

// BannedTermFilter drops candidates containing any banned substring.
type BannedTermFilter struct {
	terms []string
}

func NewBannedTermFilter(terms []string) *BannedTermFilter {
	folded := make([]string, 0, len(terms))
	for _, t := range terms {
		if t = fold(strings.TrimSpace(t)); t != "" {
			folded = append(folded, t)
		}
	}
	return &BannedTermFilter{terms: folded}
}

func (f *BannedTermFilter) Name() Rejection { return RejectBanned }

func (f *BannedTermFilter) Reject(v candidateView) bool {
	for _, t := range f.terms {
		if strings.Contains(v.text, t) {
			return true
		}
	}
	return false
}
