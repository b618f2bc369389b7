// Package models holds the keyword research types shared by the seed
// registry, the scorer, the SERP validator and the HTTP layer.
package models

// Seed is a starting phrase for suggestion lookups.
type Seed struct {
	Term     string `json:"term" mapstructure:"term"`
	Weight   int    `json:"weight" mapstructure:"weight"`
	Category string `json:"category" mapstructure:"category"`
}

// CategoryTrending marks seeds derived from the daily trends feed.
const CategoryTrending = "trending"

// Candidate is a raw suggestion returned by a source before scoring.
type Candidate struct {
	Text   string `json:"text"`
	Source string `json:"source"`
	// Rank is the zero-based position in the source's own response.
	Rank int `json:"rank"`
}

type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// SerpResult is what the SERP analyzer reports for one keyword.
type SerpResult struct {
	ContentGaps      []string `json:"contentGaps"`
	TopDomains       []string `json:"topDomains"`
	HeadlinePatterns []string `json:"headlinePatterns"`
	Source           string   `json:"source"`
}

// HasGaps reports whether at least one content gap was found.
func (r *SerpResult) HasGaps() bool {
	return r != nil && len(r.ContentGaps) > 0
}

type ScoredSuggestion struct {
	Keyword       string      `json:"keyword"`
	Score         float64     `json:"score"`
	Difficulty    Difficulty  `json:"difficulty"`
	Volume        string      `json:"volume"`
	Intent        string      `json:"intent"`
	Source        string      `json:"source"`
	PeopleAlsoAsk []string    `json:"peopleAlsoAsk"`
	Strategy      string      `json:"strategy,omitempty"`
	SerpAnalysis  *SerpResult `json:"serpAnalysis,omitempty"`
}

type KeywordResult struct {
	Term          string             `json:"term"`
	Score         float64            `json:"score"`
	Difficulty    Difficulty         `json:"difficulty"`
	Suggestions   []ScoredSuggestion `json:"suggestions"`
	PeopleAlsoAsk []string           `json:"peopleAlsoAsk"`
	Category      string             `json:"category"`
	IsTrend       bool               `json:"isTrend"`
}

// Top returns the best suggestion, or nil for a placeholder result.
func (r *KeywordResult) Top() *ScoredSuggestion {
	if len(r.Suggestions) == 0 {
		return nil
	}
	return &r.Suggestions[0]
}

// GenerateRequest is the body of POST /api/keywords/generate.
type GenerateRequest struct {
	ManualSeeds []Seed `json:"manualSeeds,omitempty"`
}

// GenerateResponse is what a research run returns.
type GenerateResponse struct {
	RunID   string          `json:"runId"`
	Seeds   []Seed          `json:"seeds"`
	Results []KeywordResult `json:"results"`
}
