// Package app assembles the keyword research pipeline from configuration.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"keyword-scout/internal/config"
	"keyword-scout/pkg/keyword"
	"keyword-scout/pkg/logger"
	"keyword-scout/pkg/models"
	"keyword-scout/pkg/scorer"
	"keyword-scout/pkg/seed"
	"keyword-scout/pkg/serp"
	"keyword-scout/pkg/source"
	"keyword-scout/pkg/storage"
	"keyword-scout/pkg/storage/postgres"
	"keyword-scout/pkg/storage/sqlite"
)

// App owns the long-lived resources behind a keyword.Service.
type App struct {
	Config  *config.Config
	Service *keyword.Service

	cache   storage.Cache
	history storage.History
}

// New builds every component named by cfg. The caller must Close the App.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	log := logger.GetLogger().Component("app")

	registry, err := newRegistry(cfg.Seeds)
	if err != nil {
		return nil, err
	}

	client := source.NewClient(cfg.Sources)
	google := source.NewGoogleSuggest(client, cfg.Sources)
	fetchers := []source.Fetcher{
		google,
		source.NewReddit(client, cfg.Sources),
		source.NewWikipedia(client, cfg.Sources),
		source.NewStackExchange(client, cfg.Sources),
	}

	cache, err := newCache(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	history, err := newHistory(ctx, cfg.Storage, log)
	if err != nil {
		cache.Close()
		return nil, err
	}

	deps := keyword.Deps{
		Registry:     registry,
		Fetchers:     fetchers,
		Trends:       source.NewTrends(client, cfg.Sources),
		Questions:    source.NewQuestionFinder(google, 0),
		Scorer:       scorer.New(cfg.Scoring),
		MaxSerpCalls: cfg.Serp.MaxCalls,
		History:      history,
	}
	if cfg.Serp.Enabled {
		var analyzer serp.Analyzer = serp.NewHTMLAnalyzer(client, cfg.Serp)
		analyzer = serp.Cached(analyzer, cache, cfg.Serp.CacheTTL)
		analyzer = serp.WithTimeout(analyzer, cfg.Serp.Timeout)
		deps.Validator = serp.NewValidator(analyzer, cfg.Serp.MaxCalls)
	} else {
		log.Info("SERP validation disabled")
	}

	log.WithFields(map[string]interface{}{
		"seeds":      len(registry.Seeds()),
		"categories": len(registry.Categories()),
		"cache":      cfg.Cache.Backend,
		"storage":    cfg.Storage.Driver,
	}).Info("Keyword service ready")

	return &App{
		Config:  cfg,
		Service: keyword.NewService(cfg.Orchestrator, deps),
		cache:   cache,
		history: history,
	}, nil
}

func (a *App) Close() error {
	return errors.Join(a.history.Close(), a.cache.Close())
}

func newRegistry(seeds []models.Seed) (*seed.Registry, error) {
	if len(seeds) == 0 {
		return seed.NewDefaultRegistry(nil), nil
	}
	registry, err := seed.NewRegistry(seeds, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build seed registry: %w", err)
	}
	return registry, nil
}

func newCache(ctx context.Context, cfg *config.Config, log *logger.Logger) (storage.Cache, error) {
	switch cfg.Cache.Backend {
	case config.CacheRedis:
		cache := storage.NewRedisCache(cfg.Cache.Redis, cfg.Serp.CacheTTL)
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := cache.Ping(pingCtx); err != nil {
			cache.Close()
			return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Cache.Redis.Addr, err)
		}
		log.WithField("addr", cfg.Cache.Redis.Addr).Info("Using redis SERP cache")
		return cache, nil
	default:
		return storage.NewMemoryCache(cfg.Cache.Size, cfg.Serp.CacheTTL), nil
	}
}

func newHistory(ctx context.Context, cfg config.StorageConfig, log *logger.Logger) (storage.History, error) {
	var (
		history storage.History
		err     error
	)
	switch cfg.Driver {
	case config.DriverSQLite:
		history, err = sqlite.New(cfg.DSN)
	case config.DriverPostgres:
		history, err = postgres.New(ctx, cfg.DSN)
	default:
		return storage.Disabled{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s history: %w", cfg.Driver, err)
	}

	log.WithFields(map[string]interface{}{
		"driver": cfg.Driver,
		"dsn":    logger.MaskDSN(cfg.DSN),
	}).Info("Run history enabled")
	return history, nil
}
