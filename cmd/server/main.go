package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/datascrub/datascrub/internal/config"
	"github.com/datascrub/datascrub/internal/core"
	_ "github.com/datascrub/datascrub/internal/core/targets" // Register all export targets
	"github.com/datascrub/datascrub/internal/history"
	"github.com/datascrub/datascrub/internal/logging"
	"github.com/datascrub/datascrub/internal/web"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	// Load and validate configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logging based on config
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"max_file_size", cfg.Upload.MaxFileSize,
		"history_enabled", cfg.Database.HistoryEnabled(),
		"rate_limit_enabled", cfg.Rate.Enabled,
	)

	ctx := context.Background()

	// Job history is persisted to Postgres when a database is configured,
	// otherwise kept in memory for the life of the process.
	var jobs core.JobStore = core.NewMemoryJobStore(0)
	if cfg.Database.HistoryEnabled() {
		poolConfig, err := pgxpool.ParseConfig(cfg.Database.URL)
		if err != nil {
			slog.Error("failed to parse database URL", "error", err)
			os.Exit(1)
		}

		poolConfig.MaxConns = int32(cfg.Database.MaxConns)
		poolConfig.MinConns = int32(cfg.Database.MinConns)
		poolConfig.MaxConnLifetime = cfg.Database.MaxConnLifetime
		poolConfig.MaxConnIdleTime = cfg.Database.MaxConnIdleTime

		pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		if err := pool.Ping(ctx); err != nil {
			slog.Error("failed to ping database", "error", err)
			os.Exit(1)
		}

		if u, err := url.Parse(cfg.Database.URL); err == nil {
			dbName := strings.TrimPrefix(u.Path, "/")
			slog.Info("connected to database", "name", dbName)
		} else {
			slog.Info("connected to database")
		}

		store, err := history.NewStore(ctx, pool)
		if err != nil {
			slog.Error("failed to initialize job history", "error", err)
			os.Exit(1)
		}
		jobs = store
	}

	// Cleaning presets come from a YAML file when configured,
	// with built-in defaults as a fallback.
	presets := core.DefaultPresets()
	if cfg.Presets.Path != "" {
		presets, err = core.LoadPresets(cfg.Presets.Path)
		if err != nil {
			slog.Error("failed to load presets", "path", cfg.Presets.Path, "error", err)
			os.Exit(1)
		}
		slog.Info("presets loaded", "path", cfg.Presets.Path, "count", len(presets))
	}

	service := core.NewService(jobs, core.ServiceConfig{
		MaxSessions: cfg.Session.MaxSessions,
		SessionTTL:  cfg.Session.TTL,
		Presets:     presets,
	})

	slog.Info("export targets registered", "count", len(core.Targets()))

	server := web.NewServer(service, cfg)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	// Start server (uses addr from config internally)
	slog.Info("server starting", "addr", cfg.Server.Addr())
	if err := server.Start(); err != nil {
		slog.Info("server stopped", "error", err)
	}
}
