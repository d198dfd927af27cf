package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"roster/bench"
	"roster/internal/config"
	"roster/pkg/db"
	"roster/pkg/telemetry"
	"roster/store"
)

const serviceName = "rosterctl"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	_ = godotenv.Load()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	root := newRootCommand()
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "rosterctl",
		Short:         "Utility for managing and benchmarking the roster store",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newMigrateCommand())
	cmd.AddCommand(newSeedCommand())
	cmd.AddCommand(newBenchCommand())
	return cmd
}

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := config.Load(ctx)
			if err != nil {
				return err
			}

			pool, err := db.Open(ctx, cfg.DBDSN)
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := db.Migrate(ctx, pool); err != nil {
				return err
			}
			log.Info().Msg("migrations applied")
			return nil
		},
	}
}

func newSeedCommand() *cobra.Command {
	var rows int

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert synthetic users for benchmarking",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := config.Load(ctx)
			if err != nil {
				return err
			}
			if rows <= 0 {
				rows = cfg.SeedRows
			}

			pool, err := db.Open(ctx, cfg.DBDSN)
			if err != nil {
				return err
			}
			defer pool.Close()

			st := store.New(store.WithLogger(log.Logger))
			ids, err := bench.Seed(ctx, pool, st, rows)
			if err != nil {
				return err
			}
			log.Info().Int("rows", len(ids)).Msg("seed complete")
			return nil
		},
	}

	cmd.Flags().IntVar(&rows, "rows", 0, "Number of users to insert (defaults to SEED_ROWS)")
	return cmd
}

func newBenchCommand() *cobra.Command {
	var (
		rows int
		ops  int
		keep bool
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Seed the store and time representative operations",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := config.Load(ctx)
			if err != nil {
				return err
			}
			if rows <= 0 {
				rows = cfg.SeedRows
			}
			if ops <= 0 {
				ops = cfg.BenchOps
			}

			if cfg.OTLPEndpoint != "" {
				shutdown, err := telemetry.Init(ctx, serviceName, cfg.OTLPEndpoint)
				if err != nil {
					return err
				}
				defer func() {
					shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer cancel()
					if err := shutdown(shutdownCtx); err != nil {
						log.Error().Err(err).Msg("shutdown telemetry")
					}
				}()
			}

			registry := prometheus.NewRegistry()
			if cfg.MetricsAddr != "" {
				stopMetrics := serveMetrics(cfg.MetricsAddr, registry)
				defer stopMetrics()
			}

			pool, err := db.Open(ctx, cfg.DBDSN)
			if err != nil {
				return err
			}
			defer pool.Close()

			st := store.New(store.WithLogger(log.Logger), store.WithMetrics(registry))
			suite := bench.New(pool, st, log.Logger)

			if err := suite.Seed(ctx, rows); err != nil {
				return err
			}
			if !keep {
				defer func() {
					if err := suite.Cleanup(context.WithoutCancel(ctx)); err != nil {
						log.Error().Err(err).Msg("cleanup failed")
					}
				}()
			}

			results, err := suite.Run(ctx, ops)
			if err != nil {
				return err
			}

			for _, result := range results {
				fmt.Printf("%-20s ops=%-6d total=%-12s per_op=%s\n", result.Name, result.Ops, result.Total, result.PerOp)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&rows, "rows", 0, "Number of users to seed (defaults to SEED_ROWS)")
	cmd.Flags().IntVar(&ops, "ops", 0, "Iterations per scenario (defaults to BENCH_OPS)")
	cmd.Flags().BoolVar(&keep, "keep", false, "Keep seeded rows after the run")
	return cmd
}

func serveMetrics(addr string, registry *prometheus.Registry) func() {
	router := chi.NewRouter()
	router.Use(chimiddleware.Recoverer)
	router.Method(http.MethodGet, "/metrics", otelhttp.NewHandler(
		promhttp.HandlerFor(registry, promhttp.HandlerOpts{}), "metrics"))

	server := &http.Server{Addr: addr, Handler: router}
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("metrics listener failed")
		}
	}()

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}
}
