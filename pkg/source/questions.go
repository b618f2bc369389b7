package source

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"
)

var questionPrefixes = []string{"how", "what", "why", "can"}

var questionWords = map[string]bool{
	"how": true, "what": true, "why": true, "can": true, "when": true,
	"where": true, "who": true, "which": true, "is": true, "are": true,
	"do": true, "does": true, "should": true, "will": true,
}

// QuestionFinder builds a People-Also-Ask list from question-prefixed
// autocomplete queries.
type QuestionFinder struct {
	suggest *GoogleSuggest
	limit   int
}

func NewQuestionFinder(suggest *GoogleSuggest, limit int) *QuestionFinder {
	if limit <= 0 {
		limit = 4
	}
	return &QuestionFinder{suggest: suggest, limit: limit}
}

// Questions returns up to limit distinct questions about keyword. Prefix
// queries run concurrently; their answers are merged in prefix order.
// Failed prefixes are dropped.
func (q *QuestionFinder) Questions(ctx context.Context, keyword string) []string {
	answers := make([][]string, len(questionPrefixes))

	var g errgroup.Group
	for i, prefix := range questionPrefixes {
		g.Go(func() error {
			suggestions, err := q.suggest.Suggest(ctx, prefix+" "+keyword)
			if err != nil {
				return nil
			}
			answers[i] = suggestions
			return nil
		})
	}
	_ = g.Wait()

	seen := make(map[string]bool)
	out := make([]string, 0, q.limit)
	for _, list := range answers {
		for _, s := range list {
			if len(out) >= q.limit {
				return out
			}
			if !IsQuestion(s) {
				continue
			}
			question := asQuestion(s)
			key := strings.ToLower(question)
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, question)
		}
	}
	return out
}

// IsQuestion reports whether text opens with a question word.
func IsQuestion(text string) bool {
	fields := strings.Fields(strings.ToLower(text))
	return len(fields) > 2 && questionWords[fields[0]]
}

func asQuestion(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	s = strings.ToUpper(s[:1]) + s[1:]
	if !strings.HasSuffix(s, "?") {
		s += "?"
	}
	return s
}
