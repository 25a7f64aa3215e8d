package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port     string
	LogLevel string

	// Auth for operational endpoints; empty disables it.
	APIKey string

	// Public base URL used to build IIIF identifiers.
	BaseURL string

	// Document source. STORE_URL selects the remote store, otherwise
	// documents are read from DataDir.
	DataDir      string
	StoreURL     string
	StoreAPIKey  string
	StoreTimeout time.Duration

	// Search
	MinQueryLength int

	CORSOrigins []string
	StatsWindow time.Duration
}

func Load() Config {
	cfg := Config{
		Port:     envOr("PORT", "8090"),
		LogLevel: envOr("LOG_LEVEL", "info"),

		APIKey: os.Getenv("API_KEY"),

		BaseURL: strings.TrimRight(envOr("BASE_URL", "http://localhost:8090"), "/"),

		DataDir:      envOr("DATA_DIR", "./data"),
		StoreURL:     os.Getenv("STORE_URL"),
		StoreAPIKey:  os.Getenv("STORE_API_KEY"),
		StoreTimeout: envDuration("STORE_TIMEOUT", 30*time.Second),

		MinQueryLength: envInt("MIN_QUERY_LENGTH", 3),

		CORSOrigins: envList("CORS_ORIGINS", []string{"*"}),
		StatsWindow: envDuration("STATS_WINDOW", 1*time.Hour),
	}

	if cfg.StoreTimeout <= 0 {
		cfg.StoreTimeout = 30 * time.Second
	}
	if cfg.StatsWindow <= 0 {
		cfg.StatsWindow = 1 * time.Hour
	}

	return cfg
}

func (c Config) Validate() error {
	if c.MinQueryLength < 1 {
		return fmt.Errorf("MIN_QUERY_LENGTH must be at least 1, got %d", c.MinQueryLength)
	}
	if c.StoreURL != "" && c.StoreAPIKey == "" {
		return fmt.Errorf("STORE_API_KEY is required when STORE_URL is set")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("BASE_URL must be an absolute URL, got %q", c.BaseURL)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
