package scorer

// Config holds the scoring constants. Defaults reproduce the long-standing
// heuristic; they are configuration rather than code so they can be tuned
// without a release.
type Config struct {
	Base              float64 `mapstructure:"base"`
	WordDeltaWeight   float64 `mapstructure:"word_delta_weight"`
	MaxWordDelta      int     `mapstructure:"max_word_delta"`
	RankPenalty       float64 `mapstructure:"rank_penalty"`
	MaxRankPenalty    int     `mapstructure:"max_rank_penalty"`
	LengthBonus       float64 `mapstructure:"length_bonus"`
	LengthBonusMargin int     `mapstructure:"length_bonus_margin"`

	MaxLength        int     `mapstructure:"max_length"`
	MinExtraWords    int     `mapstructure:"min_extra_words"`
	MinExtraTrend    int     `mapstructure:"min_extra_words_trend"`
	QualityThreshold float64 `mapstructure:"quality_threshold"`
	MaxSuggestions   int     `mapstructure:"max_suggestions"`
	EnrichTop        int     `mapstructure:"enrich_top"`

	BannedTerms []string `mapstructure:"banned_terms"`
}

var defaultBannedTerms = []string{
	"pdf", "download", "login", "log in", "portal", "near me",
	"phone number", "customer service", "sign in", "free download",
	"torrent", "crack", "coupon code", "promo code", "reddit",
}

func DefaultConfig() Config {
	return Config{
		Base:              50,
		WordDeltaWeight:   8,
		MaxWordDelta:      4,
		RankPenalty:       1,
		MaxRankPenalty:    10,
		LengthBonus:       5,
		LengthBonusMargin: 10,
		MaxLength:         60,
		MinExtraWords:     2,
		MinExtraTrend:     1,
		QualityThreshold:  60,
		MaxSuggestions:    5,
		EnrichTop:         3,
		BannedTerms:       append([]string(nil), defaultBannedTerms...),
	}
}
