package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"time"

	taskservice "zodchiy/contexts/site-operations/task-service"
	postgresadapter "zodchiy/contexts/site-operations/task-service/adapters/postgres"
	"zodchiy/internal/platform/config"
	"zodchiy/internal/platform/db"
	"zodchiy/internal/platform/httpserver"
	"zodchiy/internal/platform/httpserver/docs"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server          *httpserver.Server
	postgres        *db.Postgres
	logger          *slog.Logger
	shutdownTimeout time.Duration
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return buildAPI(cfg, newLogger(cfg).With("process", "api"))
}

func buildAPI(cfg config.Config, logger *slog.Logger) (*APIApp, error) {
	docs.SwaggerInfo.Version = cfg.AppVersion

	var (
		tasks  taskservice.Module
		pg     *db.Postgres
		health func(ctx context.Context) error
	)
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		logger.Warn("POSTGRES_DSN is empty, using in-memory task store",
			"event", "bootstrap_memory_store_selected",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
		tasks = taskservice.NewInMemoryModule(nil, logger)
	} else {
		connected, err := db.Connect(cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		if cfg.AutoMigrate {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			err := connected.Migrate(ctx, postgresadapter.Models()...)
			cancel()
			if err != nil {
				_ = connected.Close()
				return nil, err
			}
		}
		repo := postgresadapter.NewRepository(connected.DB, logger)
		tasks = taskservice.NewModule(taskservice.Dependencies{
			Repository: repo,
			Evidence:   repo,
			Clock:      postgresadapter.SystemClock{},
			IDGen:      postgresadapter.UUIDGenerator{},
			Logger:     logger,
		})
		pg = connected
		health = connected.Ping
	}

	server := httpserver.New(tasks, httpserver.Options{
		Addr:          normalizeAddr(cfg.HTTPPort),
		Version:       cfg.AppVersion,
		AllowedOrigin: cfg.CORSAllowedOrigin,
		Health:        health,
	}, logger)
	return &APIApp{
		server:          server,
		postgres:        pg,
		logger:          logger,
		shutdownTimeout: cfg.ShutdownTimeout,
	}, nil
}

// Migrate applies the task schema to POSTGRES_DSN regardless of STORAGE_AUTO_MIGRATE.
func Migrate(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return errors.New("POSTGRES_DSN is required")
	}
	logger := newLogger(cfg).With("process", "migrate")

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return err
	}
	defer pg.Close()

	if err := pg.Migrate(ctx, postgresadapter.Models()...); err != nil {
		return err
	}
	logger.Info("task schema migrated",
		"event", "bootstrap_schema_migrated",
		"module", "internal/app/bootstrap",
		"layer", "platform",
	)
	return nil
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (a *APIApp) Run(ctx context.Context) error {
	a.logger.Info("api app started",
		"event", "bootstrap_api_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- a.server.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	timeout := a.shutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func newLogger(cfg config.Config) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)})
	return slog.New(handler).With("service", cfg.ServiceName)
}

func parseLevel(raw string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.Contains(value, ":") {
		return value
	}
	return ":" + value
}
