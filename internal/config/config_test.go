package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()
	if cfg.Port != "8090" {
		t.Errorf("Port = %q, want 8090", cfg.Port)
	}
	if cfg.DBPath != "finlens.db" {
		t.Errorf("DBPath = %q, want finlens.db", cfg.DBPath)
	}
	if cfg.MaxUploadBytes != 52428800 {
		t.Errorf("MaxUploadBytes = %d, want 50MB", cfg.MaxUploadBytes)
	}
	if cfg.SummarySentences != 6 || cfg.SummaryMinSentences != 3 {
		t.Errorf("summary defaults wrong: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("TOC_SCAN_WINDOW", "25")
	t.Setenv("SUMMARY_DAMPING", "0.9")
	t.Setenv("CACHE_TTL", "15m")

	cfg := Load()
	if cfg.Port != "9999" {
		t.Errorf("Port = %q, want 9999", cfg.Port)
	}
	if cfg.TOCScanWindow != 25 {
		t.Errorf("TOCScanWindow = %d, want 25", cfg.TOCScanWindow)
	}
	if cfg.SummaryDamping != 0.9 {
		t.Errorf("SummaryDamping = %v, want 0.9", cfg.SummaryDamping)
	}
	if cfg.CacheTTL != 15*time.Minute {
		t.Errorf("CacheTTL = %v, want 15m", cfg.CacheTTL)
	}
}

func TestLoad_InvalidValuesClamped(t *testing.T) {
	t.Setenv("SUMMARY_DAMPING", "1.5")
	t.Setenv("TOC_SCAN_WINDOW", "-3")

	cfg := Load()
	if cfg.SummaryDamping != 0.85 {
		t.Errorf("SummaryDamping = %v, want the 0.85 fallback", cfg.SummaryDamping)
	}
	if cfg.TOCScanWindow != 40 {
		t.Errorf("TOCScanWindow = %d, want the 40 fallback", cfg.TOCScanWindow)
	}
}
