// Package main implements the FIRTrack API server.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/firtrack/firtrack-mvp/engine/chat"
	"github.com/firtrack/firtrack-mvp/engine/graph"
	"github.com/firtrack/firtrack-mvp/engine/search"
	"github.com/firtrack/firtrack-mvp/pkg/metrics"
	"github.com/firtrack/firtrack-mvp/pkg/mid"
	"github.com/firtrack/firtrack-mvp/pkg/ollama"
	"github.com/firtrack/firtrack-mvp/pkg/uploads"
	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"golang.org/x/time/rate"
)

// Config holds all environment-based configuration.
type Config struct {
	Port        string
	Neo4jURL    string
	Neo4jUser   string
	Neo4jPass   string
	NATSURL     string
	OllamaURL   string
	OllamaModel string
	UploadDir   string
	SearchDB    string
	CORSOrigin  string
	RateLimit   int
}

func loadConfig() Config {
	_ = godotenv.Load()
	return Config{
		Port:        envOr("PORT", "8080"),
		Neo4jURL:    envOr("NEO4J_URL", "neo4j://localhost:7687"),
		Neo4jUser:   envOr("NEO4J_USER", "neo4j"),
		Neo4jPass:   envOr("NEO4J_PASS", "password"),
		NATSURL:     envOr("NATS_URL", ""),
		OllamaURL:   envOr("OLLAMA_URL", "http://localhost:11434"),
		OllamaModel: envOr("OLLAMA_MODEL", "llama3.2"),
		UploadDir:   envOr("UPLOAD_DIR", "case_images"),
		SearchDB:    envOr("SEARCH_DB", "search.db"),
		CORSOrigin:  envOr("CORS_ORIGIN", "*"),
		RateLimit:   envIntOr("RATE_LIMIT", 50),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg := loadConfig()

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited with error", "err", err)
		os.Exit(1)
	}
}

func run(cfg Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Connect to Neo4j ---
	driver, err := neo4j.NewDriverWithContext(cfg.Neo4jURL, neo4j.BasicAuth(cfg.Neo4jUser, cfg.Neo4jPass, ""))
	if err != nil {
		return fmt.Errorf("neo4j driver: %w", err)
	}
	defer driver.Close(ctx)

	graphStore := graph.New(driver, logger)
	applied := graphStore.EnsureConstraints(ctx)
	logger.Info("schema constraints ensured", "applied", applied)

	// --- Attachment storage ---
	fileStore, err := uploads.NewDiskStore(cfg.UploadDir)
	if err != nil {
		return fmt.Errorf("upload dir: %w", err)
	}
	attachments := graph.NewAttachments(graphStore, fileStore)

	// --- Search projection ---
	index, err := search.Open(cfg.SearchDB)
	if err != nil {
		return fmt.Errorf("search index: %w", err)
	}
	defer index.Close()

	// --- NATS (optional) ---
	var nc *nats.Conn
	if cfg.NATSURL != "" {
		nc, err = nats.Connect(cfg.NATSURL)
		if err != nil {
			logger.Warn("nats unavailable, case events disabled", "err", err)
			nc = nil
		} else {
			defer nc.Close()
		}
	}

	// --- Chat assistant ---
	responder := chat.New(ollama.NewClient(cfg.OllamaURL, cfg.OllamaModel), logger)

	// --- Build HTTP server ---
	reg := metrics.New()
	srv := newServer(graphStore, attachments, index, responder, nc, reg, logger)

	limiter := rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateLimit*2)
	handler := mid.Chain(srv.routes(),
		mid.Recover(logger),
		mid.RequestID(),
		mid.Logger(logger),
		mid.OTel("firtrack-api"),
		mid.CORS(cfg.CORSOrigin),
		mid.RateLimit(limiter),
	)

	httpSrv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// --- Graceful shutdown ---
	errCh := make(chan error, 1)
	go func() {
		logger.Info("api server starting", "port", cfg.Port)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpSrv.Shutdown(shutCtx)
}
