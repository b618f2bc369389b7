package keyword

type Config struct {
	// NicheTerms: a trend must mention one of these to become a seed.
	NicheTerms []string `mapstructure:"niche_terms"`
	// GenericTerms: a trend containing any of these words is dropped.
	GenericTerms    []string `mapstructure:"generic_terms"`
	MaxTrends       int      `mapstructure:"max_trends"`
	MaxSeeds        int      `mapstructure:"max_seeds"`
	MaxResults      int      `mapstructure:"max_results"`
	SeedConcurrency int      `mapstructure:"seed_concurrency"`
}

func DefaultConfig() Config {
	return Config{
		NicheTerms: []string{
			"insurance", "medicare", "medicaid", "health", "tax", "irs", "retirement",
			"ira", "401k", "social security", "mortgage", "loan", "credit", "bank",
			"savings", "budget", "debt", "finance", "invest", "stock market", "inflation",
			"interest rate", "home", "rent", "car", "auto", "small business",
		},
		GenericTerms: []string{
			"weather", "score", "scores", "game", "vs", "news", "live", "today",
			"tonight", "stream", "highlights", "lottery", "powerball", "died", "death",
		},
		MaxTrends:       2,
		MaxSeeds:        3,
		MaxResults:      3,
		SeedConcurrency: 4,
	}
}
