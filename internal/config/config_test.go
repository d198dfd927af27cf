package config

import (
	"context"
	"os"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://localhost:5432/roster")

	cfg, err := Load(context.Background())
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if cfg.DBDSN != "postgres://localhost:5432/roster" {
		t.Fatalf("DBDSN = %q", cfg.DBDSN)
	}
	if cfg.SeedRows != 1000 {
		t.Fatalf("SeedRows = %d, want 1000", cfg.SeedRows)
	}
	if cfg.BenchOps != 100 {
		t.Fatalf("BenchOps = %d, want 100", cfg.BenchOps)
	}
	if cfg.MetricsAddr != "" {
		t.Fatalf("MetricsAddr = %q, want empty", cfg.MetricsAddr)
	}
}

func TestLoadRequiresDSN(t *testing.T) {
	// t.Setenv registers the restore; the variable must be absent, not empty.
	t.Setenv("DB_DSN", "")
	os.Unsetenv("DB_DSN")

	if _, err := Load(context.Background()); err == nil {
		t.Fatal("Load() succeeded without DB_DSN")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://localhost:5432/roster")
	t.Setenv("SEED_ROWS", "25")
	t.Setenv("BENCH_OPS", "3")
	t.Setenv("METRICS_ADDR", ":9090")

	cfg, err := Load(context.Background())
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if cfg.SeedRows != 25 || cfg.BenchOps != 3 || cfg.MetricsAddr != ":9090" {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
}
