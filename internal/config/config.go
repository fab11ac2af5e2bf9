package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	// Auth: requests must carry this bearer token when set.
	APIKey string

	// Storage
	DBPath string

	// Upload limits
	MaxUploadBytes int64

	// Section location
	TOCScanWindow   int
	MaxSectionPages int

	// Summarization
	SummarySentences     int
	SummaryMinSentences  int
	SummaryMinTokens     int
	SummaryDamping       float64
	SummaryConvergence   float64
	SummaryMaxIterations int

	// Result cache
	CacheTTL time.Duration
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		APIKey: os.Getenv("FINLENS_API_KEY"),

		DBPath: envOr("DB_PATH", "finlens.db"),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB

		TOCScanWindow:   envInt("TOC_SCAN_WINDOW", 40),
		MaxSectionPages: envInt("MAX_SECTION_PAGES", 60),

		SummarySentences:     envInt("SUMMARY_SENTENCES", 6),
		SummaryMinSentences:  envInt("SUMMARY_MIN_SENTENCES", 3),
		SummaryMinTokens:     envInt("SUMMARY_MIN_TOKENS", 4),
		SummaryDamping:       envFloat("SUMMARY_DAMPING", 0.85),
		SummaryConvergence:   envFloat("SUMMARY_CONVERGENCE", 1e-4),
		SummaryMaxIterations: envInt("SUMMARY_MAX_ITERATIONS", 100),

		CacheTTL: envDuration("CACHE_TTL", 0), // 0 = process lifetime
	}

	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.TOCScanWindow <= 0 {
		cfg.TOCScanWindow = 40
	}
	if cfg.MaxSectionPages <= 0 {
		cfg.MaxSectionPages = 60
	}
	if cfg.SummarySentences <= 0 {
		cfg.SummarySentences = 6
	}
	if cfg.SummaryMinSentences <= 0 {
		cfg.SummaryMinSentences = 3
	}
	if cfg.SummaryDamping <= 0 || cfg.SummaryDamping >= 1 {
		cfg.SummaryDamping = 0.85
	}

	return cfg
}

func (c Config) Validate() error {
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH is required")
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

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
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
