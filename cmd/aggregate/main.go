// Package main runs a single sentiment aggregation pass and exits. Useful for
// cron-driven deployments and backfills.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"whale-intel/internal/aggjob"
	"whale-intel/internal/config"
	"whale-intel/internal/storage"
	chstore "whale-intel/internal/storage/clickhouse"
	"whale-intel/internal/storage/memory"
	"whale-intel/internal/storage/migrations"
	pgstore "whale-intel/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "", "Path to TOML config file (optional)")
	asOf := flag.String("as-of", "", "Run as of this RFC3339 time instead of now (for backfills)")
	flag.Parse()

	logger := log.New(os.Stdout, "[aggregate] ", log.LstdFlags)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatalf("Invalid config: %v", err)
	}

	ctx := context.Background()

	newsStore, snapshotStore, cleanup, err := createStores(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("Failed to create stores: %v", err)
	}
	defer cleanup()

	job := aggjob.NewJob(newsStore, snapshotStore, logger).
		WithWindow(cfg.Aggregation.Window.Duration)
	if *asOf != "" {
		at, err := time.Parse(time.RFC3339, *asOf)
		if err != nil {
			logger.Fatalf("Invalid --as-of value %q: %v", *asOf, err)
		}
		job = job.WithClock(func() time.Time { return at })
	}

	start := time.Now()
	result, err := job.Run(ctx)
	if err != nil {
		logger.Fatalf("Aggregation failed: %v", err)
	}

	logger.Printf("Run %s completed in %v", result.RunID, time.Since(start))
	logger.Printf("Hour bucket: %d", result.HourBucket)
	logger.Printf("Tickers processed: %d", result.TickersProcessed)
	logger.Printf("Snapshots inserted: %d", result.SnapshotsInserted)
	logger.Printf("Duplicates skipped: %d", result.DuplicatesSkipped)
	for _, e := range result.Errors {
		logger.Printf("Error: %s", e)
	}
	if len(result.Errors) > 0 {
		os.Exit(1)
	}
}

// createStores builds the two stores the job needs for the configured backend.
func createStores(ctx context.Context, cfg *config.Config, logger *log.Logger) (storage.NewsItemStore, storage.SentimentSnapshotStore, func(), error) {
	if strings.ToLower(cfg.Storage) == "memory" {
		return memory.NewNewsItemStore(), memory.NewSentimentSnapshotStore(), func() {}, nil
	}

	pool, err := pgstore.NewPool(ctx, cfg.Postgres.DSN)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("connect to postgres: %w", err)
	}

	if cfg.Postgres.RunMigrations {
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, nil, fmt.Errorf("run postgres migrations: %w", err)
		}
	}

	var chConn *chstore.Conn
	if cfg.Clickhouse.RunMigrations {
		chConn, err = migrations.RunClickhouseMigrations(ctx, cfg.Clickhouse.DSN)
	} else {
		chConn, err = chstore.NewConn(ctx, cfg.Clickhouse.DSN)
	}
	if err != nil {
		pool.Close()
		return nil, nil, nil, fmt.Errorf("connect to clickhouse: %w", err)
	}

	cleanup := func() {
		chConn.Close()
		pool.Close()
	}
	return pgstore.NewNewsItemStore(pool), chstore.NewSentimentSnapshotStore(chConn), cleanup, nil
}
