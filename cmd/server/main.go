// Package main implements the entry point for the Burst API server, which
// computes users' Echo Scores from their reading and challenge activity and
// selects each user's daily challenge.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"

	"github.com/burstlabs/burst-api/internal/config"
	"github.com/burstlabs/burst-api/internal/platform/logger"
)

func main() {
	migrateCmd := flag.String("migrate", "",
		"run a migration command (up, down, status) and exit")
	flag.Parse()

	if err := run(*migrateCmd); err != nil {
		log.Fatalf("server exited with error: %v", err)
	}
}

// run loads configuration, wires the application, and either executes a
// migration command or starts the HTTP server.
func run(migrateCmd string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger := logger.Setup(cfg.Server)
	slog.Info("server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel)

	if migrateCmd != "" {
		return runMigrations(cfg, migrateCmd)
	}

	app, err := newApplication(cfg, appLogger)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer app.cleanup()

	if err := app.scheduler.Start(); err != nil {
		return fmt.Errorf("failed to start batch scheduler: %w", err)
	}

	ctx := context.Background()
	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return err
	}

	return nil
}
