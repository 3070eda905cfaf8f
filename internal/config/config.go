package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/xxxsen/common/logger"
)

type Config struct {
	Port       int              `json:"port"`
	Database   DatabaseConfig   `json:"database"`
	LogConfig  logger.LogConfig `json:"log_config"`
	CORS       []string         `json:"cors_allow_origins"`
	RateLimit  RateLimitConfig  `json:"rate_limit"`
	Schedule   ScheduleConfig   `json:"schedule"`
	Catalog    CatalogConfig    `json:"catalog"`
	EmbedCache EmbedCacheConfig `json:"embed_cache"`
}

type DatabaseConfig struct {
	DSN      string `json:"dsn"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	DBName   string `json:"db_name"`
	SSLMode  string `json:"ssl_mode"`
}

type RateLimitConfig struct {
	WindowSeconds int `json:"window_seconds"`
}

// ScheduleConfig carries cron specs; an empty spec disables the job.
type ScheduleConfig struct {
	ContentSyncCron  string `json:"content_sync_cron"`
	CacheCleanupCron string `json:"cache_cleanup_cron"`
}

type CatalogConfig struct {
	URL    string `json:"url"`
	Key    string `json:"key"`
	Secret string `json:"secret"`
}

type EmbedCacheConfig struct {
	LruSize       int `json:"lru_size"`
	LruTTLSeconds int `json:"lru_ttl_seconds"`
	MaxAgeDays    int `json:"max_age_days"`
}

func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.Port == 0 {
		return nil, fmt.Errorf("port is required")
	}
	if cfg.Database.DSN == "" && cfg.Database.Host == "" {
		return nil, fmt.Errorf("database.dsn or database.host is required")
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.LogConfig.Level == "" {
		cfg.LogConfig.Level = "info"
	}
	if cfg.EmbedCache.LruSize == 0 {
		cfg.EmbedCache.LruSize = 4096
	}
	if cfg.EmbedCache.LruTTLSeconds == 0 {
		cfg.EmbedCache.LruTTLSeconds = 3600
	}
	if cfg.EmbedCache.MaxAgeDays == 0 {
		cfg.EmbedCache.MaxAgeDays = 30
	}
	return &cfg, nil
}
