package config

import (
	"errors"
	"testing"
	"time"
)

func TestLoad_RequiresTokenSecret(t *testing.T) {
	t.Setenv("TRAVELMAP_AUTH_TOKEN_SECRET", "")
	t.Setenv("AUTH_TOKEN_SECRET", "")

	if _, err := Load(); !errors.Is(err, ErrMissingTokenSecret) {
		t.Fatalf("expected ErrMissingTokenSecret, got %v", err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("TRAVELMAP_AUTH_TOKEN_SECRET", "unit-test-secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.App.Name != "travelmap-api" || cfg.App.Port != 8080 {
		t.Fatalf("unexpected app defaults: %+v", cfg.App)
	}
	if cfg.Auth.TokenTTL != 168*time.Hour || cfg.Auth.SessionTTL != 168*time.Hour {
		t.Fatalf("unexpected lifetime defaults: %+v", cfg.Auth)
	}
	if cfg.Auth.SessionTokenLength != 32 {
		t.Fatalf("unexpected session token length %d", cfg.Auth.SessionTokenLength)
	}
	if cfg.Auth.MinPasswordLength != 6 || cfg.Auth.MinPasswordScore != 2 {
		t.Fatalf("unexpected password policy defaults: %+v", cfg.Auth)
	}
	if cfg.RateLimit.LoginMaxAttempts != 5 || cfg.RateLimit.WindowDuration != time.Minute {
		t.Fatalf("unexpected rate limit defaults: %+v", cfg.RateLimit)
	}
	if len(cfg.Kafka.Brokers) != 0 {
		t.Fatalf("expected no kafka brokers by default, got %v", cfg.Kafka.Brokers)
	}
	if cfg.Weather.Latitude != 43.2380 || cfg.Weather.Longitude != 76.9490 {
		t.Fatalf("unexpected weather coordinates: %+v", cfg.Weather)
	}
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("TRAVELMAP_AUTH_TOKEN_SECRET", "unit-test-secret")
	t.Setenv("TRAVELMAP_APP_ENV", "production")
	t.Setenv("TRAVELMAP_AUTH_TOKEN_TTL", "24h")
	t.Setenv("TRAVELMAP_RATE_LIMIT_LOGIN_MAX_ATTEMPTS", "10")
	t.Setenv("TRAVELMAP_AUTH_MIN_PASSWORD_SCORE", "0")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.App.Env != "production" {
		t.Fatalf("expected production env, got %s", cfg.App.Env)
	}
	if cfg.Auth.TokenTTL != 24*time.Hour {
		t.Fatalf("expected 24h token ttl, got %s", cfg.Auth.TokenTTL)
	}
	if cfg.RateLimit.LoginMaxAttempts != 10 {
		t.Fatalf("expected 10 login attempts, got %d", cfg.RateLimit.LoginMaxAttempts)
	}
	if cfg.Auth.MinPasswordScore != 0 {
		t.Fatalf("expected strength check disabled, got score %d", cfg.Auth.MinPasswordScore)
	}
}
