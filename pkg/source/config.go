package source

import "time"

type Config struct {
	GoogleSuggestURL  string        `mapstructure:"google_suggest_url"`
	RedditURL         string        `mapstructure:"reddit_url"`
	WikipediaURL      string        `mapstructure:"wikipedia_url"`
	StackExchangeURL  string        `mapstructure:"stackexchange_url"`
	StackExchangeSite string        `mapstructure:"stackexchange_site"`
	TrendsURL         string        `mapstructure:"trends_url"`
	TrendsGeo         string        `mapstructure:"trends_geo"`
	Language          string        `mapstructure:"language"`
	UserAgent         string        `mapstructure:"user_agent"`
	Timeout           time.Duration `mapstructure:"timeout"`
	ResultLimit       int           `mapstructure:"result_limit"`
	AlphabetExpansion bool          `mapstructure:"alphabet_expansion"`
	ExpansionDelay    time.Duration `mapstructure:"expansion_delay"`
	// BreakerFailures enables a per-source circuit breaker when positive.
	BreakerFailures   int           `mapstructure:"breaker_failures"`
	BreakerReset      time.Duration `mapstructure:"breaker_reset"`
}

func DefaultConfig() Config {
	return Config{
		GoogleSuggestURL:  "https://suggestqueries.google.com/complete/search",
		RedditURL:         "https://www.reddit.com/search.json",
		WikipediaURL:      "https://en.wikipedia.org/w/api.php",
		StackExchangeURL:  "https://api.stackexchange.com/2.3/search/advanced",
		StackExchangeSite: "money",
		TrendsURL:         "https://trends.google.com/trending/rss",
		TrendsGeo:         "US",
		Language:          "en",
		Timeout:           10 * time.Second,
		ResultLimit:       10,
		ExpansionDelay:    150 * time.Millisecond,
		BreakerFailures:   0,
		BreakerReset:      time.Minute,
	}
}
