package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"zodchiy/internal/app/bootstrap"
)

// API process entrypoint.
// Data flow:
// 1) Load config.
// 2) Build app wiring (ports + adapters + use cases).
// 3) Serve HTTP until SIGINT/SIGTERM, then drain.

// @title Zodchiy Task Service API
// @version 1.9.0
// @description Construction-site task workflow with role-gated status transitions.
// @BasePath /
func main() {
	if err := run(); err != nil {
		slog.Error("api stopped with error", "event", "api_run_failed", "error", err.Error())
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.BuildAPI()
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			slog.Error("api close failed", "event", "api_close_failed", "error", err.Error())
		}
	}()
	return app.Run(ctx)
}
