package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/iho/famledger/internal/infrastructure/config"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("STORE_BACKEND", "")

	cfg, err := config.LoadFiles()
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.DatabaseURL == "" {
		t.Fatalf("expected default database URL to be set")
	}

	if cfg.HTTPPort != "8080" {
		t.Fatalf("expected default HTTP port 8080, got %s", cfg.HTTPPort)
	}

	if cfg.RecurringHorizonMonths != 12 {
		t.Fatalf("expected default horizon 12, got %d", cfg.RecurringHorizonMonths)
	}

	if cfg.StoreBackend != config.StorePostgres {
		t.Fatalf("expected postgres backend by default, got %s", cfg.StoreBackend)
	}

	if cfg.AMQPURL != "" {
		t.Fatalf("expected empty AMQP URL by default, got %s", cfg.AMQPURL)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("REDIS_URL", "redis://example")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("DATABASE_TIMEOUT", "45s")
	t.Setenv("STORE_BACKEND", "memory")
	t.Setenv("RECURRING_HORIZON_MONTHS", "6")
	t.Setenv("SUMMARY_CACHE_TTL", "1m")

	cfg, err := config.LoadFiles()
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

	if cfg.DatabaseTimeout != 45*time.Second {
		t.Fatalf("expected database timeout override, got %s", cfg.DatabaseTimeout)
	}

	if cfg.StoreBackend != config.StoreMemory || cfg.RecurringHorizonMonths != 6 || cfg.SummaryCacheTTL != time.Minute {
		t.Fatalf("unexpected overrides: %+v", cfg)
	}
}

func TestLoadDotenvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte("AMQP_EXCHANGE=from-file\nHTTP_PORT=7070\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv("HTTP_PORT", "9999")
	t.Cleanup(func() { os.Unsetenv("AMQP_EXCHANGE") })

	cfg, err := config.LoadFiles(path, filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.AMQPExchange != "from-file" {
		t.Fatalf("expected exchange from file, got %s", cfg.AMQPExchange)
	}
	if cfg.HTTPPort != "9999" {
		t.Fatalf("expected environment to win over file, got %s", cfg.HTTPPort)
	}
}

func TestLoadInvalidDuration(t *testing.T) {
	t.Setenv("HTTP_READ_TIMEOUT", "not-a-duration")

	if _, err := config.LoadFiles(); err == nil {
		t.Fatalf("expected error for invalid duration")
	}
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	t.Setenv("STORE_BACKEND", "sqlite")

	if _, err := config.LoadFiles(); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}

func TestLoadDatabaseIsolation(t *testing.T) {
	t.Setenv("DATABASE_ISOLATION", "")
	cfg, err := config.LoadFiles()
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}
	if cfg.DatabaseIsolation != "read committed" {
		t.Fatalf("expected read committed by default, got %q", cfg.DatabaseIsolation)
	}

	t.Setenv("DATABASE_ISOLATION", "serializable")
	if cfg, err = config.LoadFiles(); err != nil || cfg.DatabaseIsolation != "serializable" {
		t.Fatalf("expected serializable override, got %+v err=%v", cfg, err)
	}

	t.Setenv("DATABASE_ISOLATION", "snapshot")
	if _, err := config.LoadFiles(); err == nil {
		t.Fatalf("expected error for unknown isolation level")
	}
}
