package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.ServiceName != "match-analysis-api" {
		t.Fatalf("unexpected ServiceName: %q", cfg.ServiceName)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("unexpected HTTPAddr: %q", cfg.HTTPAddr)
	}
	if cfg.CacheTTL != 60*time.Second {
		t.Fatalf("unexpected CacheTTL: %s", cfg.CacheTTL)
	}
	if len(cfg.RefreshLeagues) != 1 || cfg.RefreshLeagues[0] != "soccer_epl" {
		t.Fatalf("unexpected RefreshLeagues: %v", cfg.RefreshLeagues)
	}
	if !cfg.ManualEntry() {
		t.Fatalf("expected manual-entry mode when ODDS_API_KEY is empty")
	}
}

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_ManualEntryOffWithAPIKey(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("ODDS_API_KEY", "key-123")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.ManualEntry() {
		t.Fatalf("expected live mode when ODDS_API_KEY is set")
	}
}

func TestLoad_InvalidDuration(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("CACHE_TTL", "soon")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid CACHE_TTL")
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_CircuitKnobs(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("ODDS_API_CIRCUIT_FAILURE_COUNT", "7")
	t.Setenv("ODDS_API_CIRCUIT_OPEN_TIMEOUT", "30s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.OddsAPICircuitFailureCount != 7 {
		t.Fatalf("unexpected OddsAPICircuitFailureCount: %d", cfg.OddsAPICircuitFailureCount)
	}
	if cfg.OddsAPICircuitOpenTimeout != 30*time.Second {
		t.Fatalf("unexpected OddsAPICircuitOpenTimeout: %s", cfg.OddsAPICircuitOpenTimeout)
	}
}

func TestLoad_InvalidCircuitFailureCount(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("ODDS_API_CIRCUIT_FAILURE_COUNT", "0")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for ODDS_API_CIRCUIT_FAILURE_COUNT=0")
	}
}
