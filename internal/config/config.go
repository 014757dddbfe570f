package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Port                      int    `env:"PORT" envDefault:"8080"`
	DatabaseURL               string `env:"DATABASE_URL,required"`
	RedisURL                  string `env:"REDIS_URL,required"`
	LogLevel                  string `env:"LOG_LEVEL" envDefault:"info"`
	AllowedOrigins            string `env:"WS_ALLOWED_ORIGINS" envDefault:""`
	RateLimitPerMin           int    `env:"RATE_LIMIT_PER_MIN" envDefault:"120"`
	NotificationRetentionDays int    `env:"NOTIFICATION_RETENTION_DAYS" envDefault:"30"`
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// NotificationRetention returns how long read notifications are kept
// before the cleanup job deletes them.
func (c *Config) NotificationRetention() time.Duration {
	return time.Duration(c.NotificationRetentionDays) * 24 * time.Hour
}

// Origins returns the websocket origin allow-list. An empty list means
// any origin is accepted.
func (c *Config) Origins() []string {
	if c.AllowedOrigins == "" {
		return nil
	}
	parts := strings.Split(c.AllowedOrigins, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

func (c *Config) Validate(isProduction bool) error {
	if c.RateLimitPerMin <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MIN must be positive")
	}
	if c.NotificationRetentionDays <= 0 {
		return fmt.Errorf("NOTIFICATION_RETENTION_DAYS must be positive")
	}

	if isProduction {
		if len(c.Origins()) == 0 {
			log.Warn().Msg("WS_ALLOWED_ORIGINS is empty in production: any origin may open a websocket")
		}
		if strings.HasPrefix(c.RedisURL, "redis://") {
			log.Warn().Msg("REDIS_URL uses redis:// (not TLS) in production: consider using rediss://")
		}
	}

	return nil
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
