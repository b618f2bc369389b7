package scorer

import (
	"fmt"
	"strings"

	"keyword-scout/pkg/models"
	"keyword-scout/pkg/source"
)

const (
	IntentInformational = "informational"
	IntentCommercial    = "commercial"
	IntentTransactional = "transactional"
	IntentNavigational  = "navigational"
)

var intentModifiers = []struct {
	intent string
	words  []string
}{
	{IntentTransactional, []string{"buy", "price", "prices", "pricing", "cost", "costs", "cheap", "cheapest", "quote", "quotes", "apply", "order", "deal", "deals", "sign up", "enroll"}},
	{IntentCommercial, []string{"best", "top", "vs", "versus", "review", "reviews", "compare", "comparison", "alternative", "alternatives", "rated"}},
	{IntentNavigational, []string{"official", "website", "app", "account", "contact"}},
}

func difficultyFor(words int) models.Difficulty {
	switch {
	case words >= 5:
		return models.DifficultyEasy
	case words == 4:
		return models.DifficultyMedium
	default:
		return models.DifficultyHard
	}
}

// volumeFor guesses a monthly search bucket. Longer phrases are searched less.
func volumeFor(words int) string {
	switch {
	case words >= 6:
		return "10-100"
	case words == 5:
		return "100-1K"
	case words == 4:
		return "1K-10K"
	default:
		return "10K+"
	}
}

// intentFor expects folded text.
func intentFor(text string) string {
	padded := " " + text + " "
	for _, m := range intentModifiers {
		for _, w := range m.words {
			if strings.Contains(padded, " "+w+" ") {
				return m.intent
			}
		}
	}
	return IntentInformational
}

// Strategy suggests an article angle for a suggestion.
func Strategy(s models.ScoredSuggestion) string {
	var angle string
	switch {
	case source.IsQuestion(s.Keyword) || strings.HasSuffix(s.Keyword, "?"):
		angle = fmt.Sprintf("Answer %q in the opening paragraph, then expand with an FAQ section", s.Keyword)
	case s.Intent == IntentCommercial:
		angle = fmt.Sprintf("Publish a comparison roundup for %q with a pros and cons table", s.Keyword)
	case s.Intent == IntentTransactional:
		angle = fmt.Sprintf("Write a cost breakdown for %q with real price ranges", s.Keyword)
	case s.Intent == IntentNavigational:
		angle = fmt.Sprintf("Build a resource page that links the official sources for %q", s.Keyword)
	default:
		angle = fmt.Sprintf("Write a step-by-step guide targeting %q", s.Keyword)
	}

	if s.Difficulty == models.DifficultyEasy {
		return angle + "; low competition, publish soon"
	}
	return angle
}
