package serp

import (
	"context"

	"keyword-scout/pkg/logger"
	"keyword-scout/pkg/metrics"
	"keyword-scout/pkg/models"
)

type Validator struct {
	analyzer Analyzer
	maxCalls int
	log      *logger.Logger
}

func NewValidator(analyzer Analyzer, maxCalls int) *Validator {
	return &Validator{
		analyzer: analyzer,
		maxCalls: maxCalls,
		log:      logger.GetLogger().Component("serp_validator"),
	}
}

// Validate analyzes the top suggestion of each result in order until the
// budget runs out or a result with a content gap is found. That result moves
// to index 0; the others keep their relative order. Analyzer errors count as
// "no gap" but still consume budget. A nil budget means a fresh one sized
// maxCalls. The input slice is not modified.
func (v *Validator) Validate(ctx context.Context, results []models.KeywordResult, budget *Budget) []models.KeywordResult {
	out := make([]models.KeywordResult, len(results))
	copy(out, results)
	for i := range out {
		out[i].Suggestions = append([]models.ScoredSuggestion(nil), results[i].Suggestions...)
	}

	if v.analyzer == nil {
		return out
	}
	if budget == nil {
		budget = NewBudget(v.maxCalls)
	}

	for i := range out {
		top := out[i].Top()
		if top == nil {
			continue
		}
		if err := budget.RecordCall(); err != nil {
			v.log.WithField("term", out[i].Term).Debug("SERP budget exhausted, stopping validation")
			break
		}

		analysis, err := v.analyzer.Analyze(ctx, top.Keyword)
		if err != nil {
			metrics.RecordSerpCall("error")
			v.log.WithError(err).WithFields(map[string]interface{}{
				"keyword":   top.Keyword,
				"remaining": budget.Remaining(),
			}).Warn("SERP analysis failed, treating as no gap")
			continue
		}

		top.SerpAnalysis = analysis
		if analysis.HasGaps() {
			metrics.RecordSerpCall("gap")
			v.log.WithFields(map[string]interface{}{
				"keyword": top.Keyword,
				"gaps":    len(analysis.ContentGaps),
				"from":    i,
			}).Info("Content gap found, promoting result")
			promote(out, i)
			break
		}
		metrics.RecordSerpCall("no_gap")
	}
	return out
}

// promote moves results[i] to the front, shifting results[0:i] right by one.
func promote(results []models.KeywordResult, i int) {
	if i <= 0 || i >= len(results) {
		return
	}
	winner := results[i]
	copy(results[1:i+1], results[0:i])
	results[0] = winner
}
