package config

import (
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		Addr:              ":8080",
		DatabaseURL:       "postgres://localhost/leavedesk",
		Environment:       "development",
		DefaultPaidQuota:  2,
		SwapResponseSLA:   24 * time.Hour,
		SwapSweepInterval: 15 * time.Minute,
	}
}

func TestValidateAcceptsDefaults(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateRequiresDatabaseURL(t *testing.T) {
	cfg := validConfig()
	cfg.DatabaseURL = "  "
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing DATABASE_URL")
	}
}

func TestValidateRequiresJWTSecretInProduction(t *testing.T) {
	cfg := validConfig()
	cfg.Environment = "production"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing JWT secret in production")
	}
	cfg.JWTSecret = "long-random-secret"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateRejectsNegativeQuota(t *testing.T) {
	cfg := validConfig()
	cfg.DefaultPaidQuota = -1
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for negative quota")
	}
}

func TestValidateRejectsNonPositiveSwapSettings(t *testing.T) {
	cfg := validConfig()
	cfg.SwapResponseSLA = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for zero swap SLA")
	}

	cfg = validConfig()
	cfg.SwapSweepInterval = -time.Minute
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for negative sweep interval")
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.Addr == "" {
		t.Fatal("expected default addr")
	}
	if cfg.DefaultPaidQuota != 2 {
		t.Fatalf("expected default quota 2, got %d", cfg.DefaultPaidQuota)
	}
	if cfg.SwapResponseSLA != 24*time.Hour {
		t.Fatalf("expected 24h swap SLA, got %s", cfg.SwapResponseSLA)
	}
}
