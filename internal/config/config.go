package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	FredAPIKey       string
	TelegramBotToken string
	RedisURL         string

	HTTPPort string
	APIKey   string

	CatalogPath string

	RefreshInterval time.Duration
	NotifyInterval  time.Duration
	ReleaseTimezone string
}

func Load() *Config {
	cfg := &Config{
		FredAPIKey:       os.Getenv("FRED_API_KEY"),
		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		RedisURL:         os.Getenv("REDIS_URL"),
		APIKey:           os.Getenv("API_KEY"),
		CatalogPath:      strings.TrimSpace(os.Getenv("CATALOG_PATH")),
	}

	if cfg.FredAPIKey == "" {
		log.Println("Warning: FRED_API_KEY not set")
	}
	if cfg.TelegramBotToken == "" {
		log.Println("Warning: TELEGRAM_BOT_TOKEN not set")
	}
	if cfg.RedisURL == "" {
		log.Println("Warning: REDIS_URL not set, defaulting to localhost:6379")
		cfg.RedisURL = "localhost:6379"
	}

	cfg.HTTPPort = strings.TrimSpace(os.Getenv("HTTP_PORT"))
	if cfg.HTTPPort == "" {
		cfg.HTTPPort = "8080"
	}

	cfg.RefreshInterval = 24 * time.Hour
	if v := os.Getenv("EVENT_REFRESH_HOURS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.RefreshInterval = time.Duration(n) * time.Hour
		}
	}

	cfg.NotifyInterval = 60 * time.Second
	if v := os.Getenv("NOTIFY_POLL_SECS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.NotifyInterval = time.Duration(n) * time.Second
		}
	}

	cfg.ReleaseTimezone = strings.TrimSpace(os.Getenv("RELEASE_TIMEZONE"))
	if cfg.ReleaseTimezone == "" {
		cfg.ReleaseTimezone = "America/New_York"
	}

	return cfg
}
