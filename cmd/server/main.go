// Package main runs the whale-intel API server together with the scheduled
// hourly sentiment aggregation job.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"whale-intel/internal/aggjob"
	"whale-intel/internal/cache"
	redisc "whale-intel/internal/cache/redis"
	"whale-intel/internal/config"
	"whale-intel/internal/entity"
	"whale-intel/internal/observability"
	"whale-intel/internal/sentiment"
	"whale-intel/internal/server"
	"whale-intel/internal/server/handler"
	"whale-intel/internal/server/ws"
	"whale-intel/internal/storage"
	chstore "whale-intel/internal/storage/clickhouse"
	"whale-intel/internal/storage/memory"
	"whale-intel/internal/storage/migrations"
	pgstore "whale-intel/internal/storage/postgres"
	"whale-intel/internal/whale"
)

// allStores holds all storage implementations.
type allStores struct {
	txStore       storage.TransactionStore
	newsStore     storage.NewsItemStore
	entityStore   storage.AddressEntityStore
	snapshotStore storage.SentimentSnapshotStore
}

// app holds the running components and the aggregation scheduler state.
type app struct {
	cfg    *config.Config
	stores *allStores
	job    *aggjob.Job
	hub    *ws.Hub
	status *handler.StatusHandler
	logger *log.Logger

	mu         sync.Mutex
	jobRunning bool
}

func main() {
	configPath := flag.String("config", "", "Path to TOML config file (optional)")
	flag.Parse()

	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lshortfile)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatalf("Invalid config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stores, cleanup, err := createStores(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("Failed to create stores: %v", err)
	}
	defer cleanup()

	respCache, cacheCleanup, err := createCache(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("Failed to create response cache: %v", err)
	}
	defer cacheCleanup()

	a := &app{
		cfg:    cfg,
		stores: stores,
		job: aggjob.NewJob(stores.newsStore, stores.snapshotStore,
			log.New(os.Stdout, "[aggjob] ", log.LstdFlags)).
			WithWindow(cfg.Aggregation.Window.Duration),
		hub:    ws.NewHub(log.New(os.Stdout, "[ws] ", log.LstdFlags)),
		status: handler.NewStatusHandler(strings.ToLower(cfg.Storage)),
		logger: logger,
	}

	srv := buildServer(cfg, a, stores, respCache, logger)

	// Channel to signal completion.
	done := make(chan error, 1)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, initiating graceful shutdown...", sig)
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Printf("Shutdown error: %v", err)
		}

		select {
		case sig := <-sigCh:
			logger.Printf("Received second signal %v, forcing immediate shutdown", sig)
			os.Exit(1)
		case <-time.After(30 * time.Second):
			logger.Println("Graceful shutdown timed out after 30s, forcing exit")
			os.Exit(1)
		case <-done:
			// Normal shutdown completed.
		}
	}()

	go func() {
		if err := a.hub.Run(ctx); err != nil && err != context.Canceled {
			logger.Printf("WebSocket hub stopped: %v", err)
		}
	}()

	if cfg.Aggregation.Enabled {
		go a.runAggregationScheduler(ctx)
	}

	err = srv.Start()
	done <- err
	cancel()

	if err != nil {
		logger.Fatalf("Server error: %v", err)
	}
	logger.Println("Shutdown complete")
}

// createStores creates all required stores for the configured backend.
func createStores(ctx context.Context, cfg *config.Config, logger *log.Logger) (*allStores, func(), error) {
	if strings.ToLower(cfg.Storage) == "memory" {
		stores := &allStores{
			txStore:       memory.NewTransactionStore(),
			newsStore:     memory.NewNewsItemStore(),
			entityStore:   memory.NewAddressEntityStore(),
			snapshotStore: memory.NewSentimentSnapshotStore(),
		}
		return stores, func() {}, nil
	}

	pool, err := pgstore.NewPool(ctx, cfg.Postgres.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to postgres: %w", err)
	}

	if cfg.Postgres.RunMigrations {
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("run postgres migrations: %w", err)
		}
		logger.Println("Postgres migrations applied")
	}

	var chConn *chstore.Conn
	if cfg.Clickhouse.RunMigrations {
		chConn, err = migrations.RunClickhouseMigrations(ctx, cfg.Clickhouse.DSN)
		if err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("run clickhouse migrations: %w", err)
		}
		logger.Println("ClickHouse migrations applied")
	} else {
		chConn, err = chstore.NewConn(ctx, cfg.Clickhouse.DSN)
		if err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("connect to clickhouse: %w", err)
		}
	}

	stores := &allStores{
		// PostgreSQL stores (source rows)
		txStore:     pgstore.NewTransactionStore(pool),
		newsStore:   pgstore.NewNewsItemStore(pool),
		entityStore: pgstore.NewAddressEntityStore(pool),

		// ClickHouse store (analytics snapshots)
		snapshotStore: chstore.NewSentimentSnapshotStore(chConn),
	}

	cleanup := func() {
		chConn.Close()
		pool.Close()
	}
	return stores, cleanup, nil
}

// createCache connects the Redis response cache, falling back to a no-op
// cache when disabled.
func createCache(ctx context.Context, cfg *config.Config, logger *log.Logger) (cache.ResponseCache, func(), error) {
	if !cfg.Redis.Enabled {
		return cache.Noop{}, func() {}, nil
	}

	client, err := redisc.New(ctx, redisc.ClientConfig{
		Addr:       cfg.Redis.Addr,
		Password:   cfg.Redis.Password,
		DB:         cfg.Redis.DB,
		PoolSize:   cfg.Redis.PoolSize,
		MaxRetries: cfg.Redis.MaxRetries,
	})
	if err != nil {
		return nil, nil, err
	}
	logger.Printf("Connected to Redis at %s", cfg.Redis.Addr)
	return redisc.NewResponseCache(client), func() { client.Close() }, nil
}

// buildServer wires the domain services into the HTTP server.
func buildServer(cfg *config.Config, a *app, stores *allStores, respCache cache.ResponseCache, logger *log.Logger) *server.Server {
	aggregator := whale.NewAggregator(stores.txStore, stores.entityStore)
	resolver := entity.NewResolver(stores.entityStore)
	blender := sentiment.NewBlender(blendConfig(cfg))

	cacheTTL := cfg.Redis.ResponseTTL.Duration
	handlerLogger := log.New(os.Stdout, "[api] ", log.LstdFlags)

	handlers := server.Handlers{
		Health: handler.NewHealthHandler(),
		Status: a.status,
		Whales: handler.NewWhaleHandler(aggregator, resolver, stores.txStore,
			respCache, cacheTTL, handlerLogger),
		Sentiment: handler.NewSentimentHandler(stores.txStore, stores.newsStore,
			blender, respCache, cacheTTL, handlerLogger),
		Score: handler.NewScoreHandler(stores.txStore, stores.newsStore,
			blender, handlerLogger),
		Snapshots: handler.NewSnapshotHandler(stores.snapshotStore, handlerLogger),
	}

	return server.NewServer(server.Config{
		Port:        cfg.Server.Port,
		CORSOrigins: cfg.Server.CORSOrigins,
	}, handlers, a.hub, logger)
}

// blendConfig maps the configured sentiment weights onto the blender config.
func blendConfig(cfg *config.Config) sentiment.Config {
	c := sentiment.DefaultConfig()
	s := cfg.Sentiment
	if s.WhaleBiasWeight > 0 {
		c.WhaleBiasWeight = s.WhaleBiasWeight
	}
	if s.NetFlowWeight > 0 {
		c.WhaleNetFlowWeight = s.NetFlowWeight
	}
	if s.MomentumWeight > 0 {
		c.WhaleMomentumWeight = s.MomentumWeight
	}
	if s.PriceWeight > 0 {
		c.PriceWeight = s.PriceWeight
	}
	if s.NewsWeight > 0 {
		c.NewsWeight = s.NewsWeight
	}
	if s.BullishThreshold != 0 {
		c.BullishThreshold = s.BullishThreshold
	}
	if s.BearishThreshold != 0 {
		c.BearishThreshold = s.BearishThreshold
	}
	return c
}

// runAggregationScheduler runs the aggregation job on the configured interval.
func (a *app) runAggregationScheduler(ctx context.Context) {
	a.logger.Printf("Starting aggregation scheduler (interval: %v)...", a.cfg.Aggregation.Interval.Duration)

	// Run immediately on start.
	a.runAggregation(ctx)

	ticker := time.NewTicker(a.cfg.Aggregation.Interval.Duration)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.runAggregation(ctx)
		}
	}
}

// runAggregation executes one aggregation pass, skipping if one is already
// in flight.
func (a *app) runAggregation(ctx context.Context) {
	a.mu.Lock()
	if a.jobRunning {
		a.mu.Unlock()
		a.logger.Println("Aggregation already running, skipping...")
		return
	}
	a.jobRunning = true
	a.mu.Unlock()

	defer func() {
		a.mu.Lock()
		a.jobRunning = false
		a.mu.Unlock()
	}()

	start := time.Now()
	result, err := a.job.Run(ctx)
	if err != nil {
		a.logger.Printf("Aggregation error: %v", err)
		observability.RecordAggregationRun("error", time.Since(start).Seconds())
		return
	}

	status := "success"
	if len(result.Errors) > 0 {
		status = "partial"
	}
	observability.RecordAggregationRun(status, time.Since(start).Seconds())
	observability.DefaultMetrics.TickersProcessed.Add(float64(result.TickersProcessed))
	observability.DefaultMetrics.SnapshotsInserted.Add(float64(result.SnapshotsInserted))
	observability.DefaultMetrics.SnapshotsDuplicate.Add(float64(result.DuplicatesSkipped))
	if status == "success" {
		observability.DefaultMetrics.LastSuccessfulAggregation.SetToCurrentTime()
	}

	summary := handler.RunSummary{
		RunID:             result.RunID,
		HourBucket:        result.HourBucket,
		TickersProcessed:  result.TickersProcessed,
		SnapshotsInserted: result.SnapshotsInserted,
		DuplicatesSkipped: result.DuplicatesSkipped,
		ErrorCount:        len(result.Errors),
		CompletedAt:       time.Now().UTC().UnixMilli(),
	}
	a.status.RecordRun(summary)
	a.hub.Publish(ws.ChannelSnapshots, summary)

	a.logger.Printf("Aggregation completed in %v: %d tickers, %d inserted, %d duplicates, %d errors",
		time.Since(start), result.TickersProcessed, result.SnapshotsInserted,
		result.DuplicatesSkipped, len(result.Errors))
}
