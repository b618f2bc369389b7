package config

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"

	"keyword-scout/pkg/keyword"
	"keyword-scout/pkg/scorer"
	"keyword-scout/pkg/seed"
	"keyword-scout/pkg/serp"
	"keyword-scout/pkg/source"
)

const EnvPrefix = "KEYWORDS"

type manager struct {
	mu         sync.RWMutex
	config     *Config
	viper      *viper.Viper
	configPath string
}

func NewManager() Manager {
	return &manager{
		viper: viper.New(),
	}
}

// Load reads configPath (optional, YAML) on top of the defaults, then
// applies KEYWORDS_* environment overrides, e.g. KEYWORDS_SERVER_PORT.
func (m *manager) Load(configPath string) (*Config, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.configPath = configPath
	m.setupViper(configPath)

	if configPath != "" {
		if err := m.viper.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	config, err := m.decode()
	if err != nil {
		return nil, err
	}

	m.config = config
	return config, nil
}

func (m *manager) Reload() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.config == nil {
		return fmt.Errorf("config not loaded")
	}

	if m.configPath != "" {
		if err := m.viper.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to reload config: %w", err)
		}
	}

	config, err := m.decode()
	if err != nil {
		return err
	}

	m.config = config
	return nil
}

func (m *manager) GetConfig() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config
}

func (m *manager) decode() (*Config, error) {
	var config Config
	if err := m.viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &config, nil
}

func (m *manager) setupViper(configPath string) {
	if configPath != "" {
		m.viper.SetConfigFile(configPath)
	}

	m.viper.SetEnvPrefix(EnvPrefix)
	m.viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	m.viper.AutomaticEnv()

	setDefaults(m.viper)
}

// setDefaults registers every key so AutomaticEnv can override keys that
// the config file does not mention.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 90*time.Second)
	v.SetDefault("server.request_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 15*time.Second)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "json")
	v.SetDefault("logger.output", "stdout")
	v.SetDefault("logger.time_format", "rfc3339")

	src := source.DefaultConfig()
	v.SetDefault("sources.google_suggest_url", src.GoogleSuggestURL)
	v.SetDefault("sources.reddit_url", src.RedditURL)
	v.SetDefault("sources.wikipedia_url", src.WikipediaURL)
	v.SetDefault("sources.stackexchange_url", src.StackExchangeURL)
	v.SetDefault("sources.stackexchange_site", src.StackExchangeSite)
	v.SetDefault("sources.trends_url", src.TrendsURL)
	v.SetDefault("sources.trends_geo", src.TrendsGeo)
	v.SetDefault("sources.language", src.Language)
	v.SetDefault("sources.user_agent", src.UserAgent)
	v.SetDefault("sources.timeout", src.Timeout)
	v.SetDefault("sources.result_limit", src.ResultLimit)
	v.SetDefault("sources.alphabet_expansion", src.AlphabetExpansion)
	v.SetDefault("sources.expansion_delay", src.ExpansionDelay)
	v.SetDefault("sources.breaker_failures", src.BreakerFailures)
	v.SetDefault("sources.breaker_reset", src.BreakerReset)

	sc := scorer.DefaultConfig()
	v.SetDefault("scoring.base", sc.Base)
	v.SetDefault("scoring.word_delta_weight", sc.WordDeltaWeight)
	v.SetDefault("scoring.max_word_delta", sc.MaxWordDelta)
	v.SetDefault("scoring.rank_penalty", sc.RankPenalty)
	v.SetDefault("scoring.max_rank_penalty", sc.MaxRankPenalty)
	v.SetDefault("scoring.length_bonus", sc.LengthBonus)
	v.SetDefault("scoring.length_bonus_margin", sc.LengthBonusMargin)
	v.SetDefault("scoring.max_length", sc.MaxLength)
	v.SetDefault("scoring.min_extra_words", sc.MinExtraWords)
	v.SetDefault("scoring.min_extra_words_trend", sc.MinExtraTrend)
	v.SetDefault("scoring.quality_threshold", sc.QualityThreshold)
	v.SetDefault("scoring.max_suggestions", sc.MaxSuggestions)
	v.SetDefault("scoring.enrich_top", sc.EnrichTop)
	v.SetDefault("scoring.banned_terms", sc.BannedTerms)

	sp := serp.DefaultConfig()
	v.SetDefault("serp.enabled", sp.Enabled)
	v.SetDefault("serp.max_calls", sp.MaxCalls)
	v.SetDefault("serp.timeout", sp.Timeout)
	v.SetDefault("serp.endpoint", sp.Endpoint)
	v.SetDefault("serp.top_results", sp.TopResults)
	v.SetDefault("serp.cache_ttl", sp.CacheTTL)

	v.SetDefault("cache.backend", CacheMemory)
	v.SetDefault("cache.size", 1000)
	v.SetDefault("cache.redis.addr", "localhost:6379")
	v.SetDefault("cache.redis.password", "")
	v.SetDefault("cache.redis.db", 0)
	v.SetDefault("cache.redis.prefix", "keywords:")

	v.SetDefault("storage.driver", DriverNone)
	v.SetDefault("storage.dsn", "")

	kw := keyword.DefaultConfig()
	v.SetDefault("orchestrator.niche_terms", kw.NicheTerms)
	v.SetDefault("orchestrator.generic_terms", kw.GenericTerms)
	v.SetDefault("orchestrator.max_trends", kw.MaxTrends)
	v.SetDefault("orchestrator.max_seeds", kw.MaxSeeds)
	v.SetDefault("orchestrator.max_results", kw.MaxResults)
	v.SetDefault("orchestrator.seed_concurrency", kw.SeedConcurrency)
}

// Upper bounds on a single research run.
const (
	maxSerpCalls      = 2
	maxRunResults     = 3
	maxRunSeeds       = 3
	maxRunTrends      = 2
	maxSuggestionsCap = 5
)

// Validate rejects configurations the service cannot start with.
func Validate(config *Config) error {
	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Server.Port)
	}

	if config.Sources.Timeout <= 0 {
		return fmt.Errorf("sources.timeout must be positive")
	}
	if config.Sources.ResultLimit <= 0 {
		return fmt.Errorf("sources.result_limit must be positive")
	}

	if config.Scoring.MaxSuggestions <= 0 {
		return fmt.Errorf("scoring.max_suggestions must be positive")
	}
	if config.Scoring.MaxSuggestions > maxSuggestionsCap {
		return fmt.Errorf("scoring.max_suggestions cannot exceed %d", maxSuggestionsCap)
	}
	if config.Scoring.MaxLength <= 0 {
		return fmt.Errorf("scoring.max_length must be positive")
	}

	if config.Serp.MaxCalls < 0 {
		return fmt.Errorf("serp.max_calls cannot be negative")
	}
	if config.Serp.MaxCalls > maxSerpCalls {
		return fmt.Errorf("serp.max_calls cannot exceed %d", maxSerpCalls)
	}
	if config.Serp.Enabled && config.Serp.Endpoint == "" {
		return fmt.Errorf("serp.endpoint is required when serp is enabled")
	}

	switch config.Cache.Backend {
	case CacheMemory:
		if config.Cache.Size <= 0 {
			return fmt.Errorf("cache.size must be positive")
		}
	case CacheRedis:
		if config.Cache.Redis.Addr == "" {
			return fmt.Errorf("cache.redis.addr is required for the redis backend")
		}
	default:
		return fmt.Errorf("unknown cache backend %q", config.Cache.Backend)
	}

	switch config.Storage.Driver {
	case DriverNone:
	case DriverSQLite, DriverPostgres:
		if config.Storage.DSN == "" {
			return fmt.Errorf("storage.dsn is required for driver %s", config.Storage.Driver)
		}
	default:
		return fmt.Errorf("unknown storage driver %q", config.Storage.Driver)
	}

	o := config.Orchestrator
	if o.MaxSeeds <= 0 || o.MaxResults <= 0 || o.SeedConcurrency <= 0 {
		return fmt.Errorf("orchestrator max_seeds, max_results and seed_concurrency must be positive")
	}
	if o.MaxTrends < 0 {
		return fmt.Errorf("orchestrator.max_trends cannot be negative")
	}
	if o.MaxSeeds > maxRunSeeds || o.MaxResults > maxRunResults || o.MaxTrends > maxRunTrends {
		return fmt.Errorf("orchestrator limits cannot exceed max_seeds=%d max_results=%d max_trends=%d",
			maxRunSeeds, maxRunResults, maxRunTrends)
	}

	if len(config.Seeds) > 0 {
		if err := seed.Validate(config.Seeds); err != nil {
			return fmt.Errorf("invalid seeds: %w", err)
		}
	}
	return nil
}
