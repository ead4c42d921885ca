package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/stmtledger/internal/infrastructure/config"
)

func noDotenv(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "missing.env")
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "")

	cfg, err := config.Load(noDotenv(t))
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.DatabaseURL == "" {
		t.Fatalf("expected default database URL to be set")
	}

	if cfg.JWTSecret != "" {
		t.Fatalf("expected JWT secret default to be empty, got %q", cfg.JWTSecret)
	}

	if cfg.HTTPPort != "8080" {
		t.Fatalf("expected default HTTP port 8080, got %s", cfg.HTTPPort)
	}

	if !cfg.GRPCEnabled || cfg.GRPCPort != "9090" {
		t.Fatalf("expected gRPC on 9090 by default, got enabled=%v port=%s", cfg.GRPCEnabled, cfg.GRPCPort)
	}

	if cfg.Backend != config.BackendPostgres {
		t.Fatalf("expected postgres backend by default, got %s", cfg.Backend)
	}

	if !cfg.MaxAmount().IsZero() {
		t.Fatalf("expected no statement ceiling by default, got %s", cfg.MaxAmount())
	}

	if len(cfg.KafkaBrokers) != 0 {
		t.Fatalf("expected no kafka brokers by default, got %v", cfg.KafkaBrokers)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("REDIS_URL", "redis://example")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("GRPC_ENABLED", "false")
	t.Setenv("GRPC_PORT", "7443")
	t.Setenv("DATABASE_TIMEOUT", "45s")
	t.Setenv("JWT_SECRET", "top-secret")
	t.Setenv("AUTH_ENABLED", "true")
	t.Setenv("LEDGER_BACKEND", "wal")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("MAX_STATEMENT_AMOUNT", "10000.50")

	cfg, err := config.Load(noDotenv(t))
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.DatabaseURL != "postgres://example" {
		t.Fatalf("expected custom database URL, got %s", cfg.DatabaseURL)
	}

	if cfg.RedisURL != "redis://example" {
		t.Fatalf("expected custom redis URL, got %s", cfg.RedisURL)
	}

	if cfg.HTTPPort != "9090" {
		t.Fatalf("expected HTTP port override, got %s", cfg.HTTPPort)
	}

	if cfg.GRPCEnabled || cfg.GRPCPort != "7443" {
		t.Fatalf("expected gRPC override, got enabled=%v port=%s", cfg.GRPCEnabled, cfg.GRPCPort)
	}

	if cfg.DatabaseTimeout != 45*time.Second {
		t.Fatalf("expected database timeout override, got %s", cfg.DatabaseTimeout)
	}

	if cfg.JWTSecret != "top-secret" || !cfg.AuthEnabled {
		t.Fatalf("expected auth settings to be set, got secret=%s enabled=%v", cfg.JWTSecret, cfg.AuthEnabled)
	}

	if cfg.Backend != config.BackendWAL {
		t.Fatalf("expected wal backend, got %s", cfg.Backend)
	}

	if len(cfg.KafkaBrokers) != 2 || cfg.KafkaBrokers[1] != "k2:9092" {
		t.Fatalf("expected two kafka brokers, got %v", cfg.KafkaBrokers)
	}

	if !cfg.MaxAmount().Equal(decimal.RequireFromString("10000.50")) {
		t.Fatalf("expected statement ceiling 10000.50, got %s", cfg.MaxAmount())
	}
}

func TestLoadInvalidDuration(t *testing.T) {
	t.Setenv("HTTP_READ_TIMEOUT", "not-a-duration")

	if _, err := config.Load(noDotenv(t)); err == nil {
		t.Fatalf("expected error for invalid duration")
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"unknown backend", "LEDGER_BACKEND", "sqlite"},
		{"malformed ceiling", "MAX_STATEMENT_AMOUNT", "lots"},
		{"negative ceiling", "MAX_STATEMENT_AMOUNT", "-5"},
		{"auth without secret", "AUTH_ENABLED", "true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("JWT_SECRET", "")
			t.Setenv(tt.key, tt.val)

			if _, err := config.Load(noDotenv(t)); err == nil {
				t.Fatalf("expected error for %s=%s", tt.key, tt.val)
			}
		})
	}
}

func TestLoadReadsDotenvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("HTTP_PORT=7070\nLEDGER_BACKEND=memory\n"), 0o600); err != nil {
		t.Fatalf("failed to write env file: %v", err)
	}

	// registered so the values loaded from the file are cleared afterwards
	t.Setenv("HTTP_PORT", "")
	t.Setenv("LEDGER_BACKEND", "")
	os.Unsetenv("HTTP_PORT")
	os.Unsetenv("LEDGER_BACKEND")

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.HTTPPort != "7070" || cfg.Backend != config.BackendMemory {
		t.Fatalf("expected values from .env, got port=%s backend=%s", cfg.HTTPPort, cfg.Backend)
	}
}
