package config

import (
	"time"

	"keyword-scout/pkg/keyword"
	"keyword-scout/pkg/logger"
	"keyword-scout/pkg/models"
	"keyword-scout/pkg/scorer"
	"keyword-scout/pkg/serp"
	"keyword-scout/pkg/source"
	"keyword-scout/pkg/storage"
)

type Config struct {
	Server       ServerConfig   `mapstructure:"server"`
	Logger       logger.Config  `mapstructure:"logger"`
	Sources      source.Config  `mapstructure:"sources"`
	Scoring      scorer.Config  `mapstructure:"scoring"`
	Serp         serp.Config    `mapstructure:"serp"`
	Cache        CacheConfig    `mapstructure:"cache"`
	Storage      StorageConfig  `mapstructure:"storage"`
	Orchestrator keyword.Config `mapstructure:"orchestrator"`
	// Seeds replaces the built-in seed list when non-empty.
	Seeds []models.Seed `mapstructure:"seeds"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

type CacheConfig struct {
	Backend string              `mapstructure:"backend"`
	Size    int                 `mapstructure:"size"`
	Redis   storage.RedisConfig `mapstructure:"redis"`
}

const (
	DriverNone     = "none"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type StorageConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

type Manager interface {
	Load(configPath string) (*Config, error)
	Reload() error
	GetConfig() *Config
}
