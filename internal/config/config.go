package config

import (
	"context"

	"github.com/sethvargo/go-envconfig"
)

// Config holds runtime configuration for the rosterctl tool.
type Config struct {
	DBDSN        string `env:"DB_DSN,required"`
	MetricsAddr  string `env:"METRICS_ADDR"`
	OTLPEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	SeedRows     int    `env:"SEED_ROWS,default=1000"`
	BenchOps     int    `env:"BENCH_OPS,default=100"`
}

// Load returns a Config populated from environment variables.
func Load(ctx context.Context) (Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
