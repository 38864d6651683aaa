package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/garnizeh/internradar/api"
	dbembed "github.com/garnizeh/internradar/db"
	"github.com/garnizeh/internradar/internal/ai"
	"github.com/garnizeh/internradar/internal/config"
	"github.com/garnizeh/internradar/internal/db"
	"github.com/garnizeh/internradar/internal/github"
	"github.com/garnizeh/internradar/internal/ingest"
	"github.com/garnizeh/internradar/internal/jobs"
	"github.com/garnizeh/internradar/internal/jsearch"
	"github.com/garnizeh/internradar/internal/repository/sqlite"
	"github.com/garnizeh/internradar/pkg/ollama"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	var configPath = flag.String("config", "", "Path to config YAML file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	api.SetLogger(logger)
	ollama.SetLogger(logger)

	logger.Info("starting internradar server", "version", version, "build_time", buildTime)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Open database connection and apply migrations
	database, err := db.New(ctx, cfg.DatabasePath, logger)
	if err != nil {
		log.Fatalf("Failed to open DB: %v", err)
	}
	if err := db.Migrate(ctx, database, dbembed.Migrations); err != nil {
		log.Fatalf("Failed to migrate DB: %v", err)
	}

	repo := sqlite.New(database, logger)

	// GitHub skill extraction
	ghClient := github.NewClient(cfg.GitHub.APIBaseURL, cfg.GitHub.Timeout, logger)
	extractor := github.NewExtractor(ghClient, cfg.GitHub.MaxConcurrent, logger)

	// LLM-backed ingestion pipeline
	var refresher api.Refresher
	ollamaClient, err := ollama.NewDefaultClient(cfg.Ollama)
	if err != nil {
		log.Fatalf("Failed to create ollama client: %v", err)
	}
	defer func() { _ = ollamaClient.Close() }()

	engine, err := ai.NewEngine(ollamaClient, cfg.Engine, logger)
	if err != nil {
		log.Fatalf("Failed to create ai engine: %v", err)
	}
	feed := jsearch.NewClient(cfg.JSearch.BaseURL, cfg.JSearch.APIKey, cfg.JSearch.Host, cfg.JSearch.Timeout, logger)
	refresher = ingest.NewService(feed, engine, repo, logger)

	// Background worker pool with the skill repair handler
	handlers := map[string]jobs.Handler{
		jobs.JobTypeSyncSkills: jobs.NewSyncSkillsHandler(repo, extractor, logger),
	}
	pool := jobs.NewWorkerPool(repo, handlers, logger, cfg.WorkerCount)
	pool.Start(ctx)
	defer pool.Stop()

	// Repair pass: GitHub accounts that never got their skills extracted
	go enqueueSkillBackfill(ctx, repo, pool, logger)

	handler := api.SetupRoutes(cfg, version, buildTime, database, extractor, refresher, pool)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.APITimeout,
		WriteTimeout: cfg.APITimeout,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server starting", "addr", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	// Close database connection
	if err := database.Close(); err != nil {
		logger.Error("error closing db", "err", err)
	}

	logger.Info("server exited")
}

// enqueueSkillBackfill schedules one repair job per GitHub user whose
// skill list is still empty. Runs once at startup.
func enqueueSkillBackfill(ctx context.Context, repo *sqlite.SQLiteRepo, pool *jobs.WorkerPool, logger *slog.Logger) {
	users, err := repo.ListGitHubUsersWithoutSkills(ctx)
	if err != nil {
		logger.Error("skill backfill scan failed", "err", err)
		return
	}
	for _, u := range users {
		payload := map[string]int64{"user_id": u.ID}
		if _, err := pool.Enqueue(ctx, jobs.JobTypeSyncSkills, payload, 100, 3); err != nil {
			logger.Warn("skill backfill enqueue failed", "user_id", u.ID, "err", err)
		}
	}
	if len(users) > 0 {
		logger.Info("skill backfill scheduled", "users", len(users))
	}
}
