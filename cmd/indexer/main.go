// Package main implements the search indexer worker. It consumes case
// created events from NATS and keeps the SQLite search projection current.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/firtrack/firtrack-mvp/engine/search"
	"github.com/firtrack/firtrack-mvp/pkg/fn"
	"github.com/firtrack/firtrack-mvp/pkg/natsutil"
	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"
)

// Config holds all environment-based configuration.
type Config struct {
	NATSURL  string
	SearchDB string
}

func loadConfig() Config {
	_ = godotenv.Load()
	return Config{
		NATSURL:  envOr("NATS_URL", nats.DefaultURL),
		SearchDB: envOr("SEARCH_DB", "search.db"),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg := loadConfig()

	if err := run(cfg, logger); err != nil {
		logger.Error("indexer exited with error", "err", err)
		os.Exit(1)
	}
}

func run(cfg Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// NATS may come up after the worker in dev compose setups, so retry.
	nc, err := fn.Retry(ctx, fn.RetryOpts{MaxAttempts: 10, InitialWait: time.Second, MaxWait: 15 * time.Second, Jitter: true},
		func(context.Context) fn.Result[*nats.Conn] {
			return fn.FromPair(nats.Connect(cfg.NATSURL))
		}).Unwrap()
	if err != nil {
		return fmt.Errorf("nats connect: %w", err)
	}
	defer nc.Close()

	index, err := search.Open(cfg.SearchDB)
	if err != nil {
		return fmt.Errorf("search index: %w", err)
	}
	defer index.Close()

	sub, err := natsutil.Subscribe(nc, search.SubjectCaseCreated, func(ctx context.Context, doc search.CaseDoc) {
		if err := index.Put(ctx, doc); err != nil {
			logger.Error("index update failed", "case_id", doc.ID, "err", err)
			return
		}
		logger.Info("case indexed", "case_id", doc.ID)
	})
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", search.SubjectCaseCreated, err)
	}
	defer sub.Unsubscribe()

	logger.Info("indexer running", "subject", search.SubjectCaseCreated, "db", cfg.SearchDB)
	<-ctx.Done()
	logger.Info("shutdown signal received")
	return nil
}
