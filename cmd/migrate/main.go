package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"zodchiy/internal/app/bootstrap"
)

// Migration entrypoint. Creates or extends the task tables and exits.
// Use it when STORAGE_AUTO_MIGRATE is off for the API process.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := bootstrap.Migrate(ctx)
	stop()
	if err != nil {
		slog.Error("migration failed", "event", "migrate_failed", "error", err.Error())
		os.Exit(1)
	}
}
