package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	_ "github.com/kirinyoku/busseat-go/docs"
	"github.com/kirinyoku/busseat-go/internal/app"
	"github.com/kirinyoku/busseat-go/internal/config"
)

// @title BusSeat API
// @version 1.0
// @description Seat inventory and booking for intercity bus trips.
// @host localhost:8080
// @BasePath /
func main() {
	envFile := pflag.String("env-file", "", "read configuration from this file before the environment")
	migrate := pflag.Bool("migrate", false, "apply the database schema before serving")
	migrateOnly := pflag.Bool("migrate-only", false, "apply the database schema and exit")
	pflag.Parse()

	cfg, err := config.New(*envFile)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.Log.Level}))
	slog.SetDefault(logger)

	ctx := context.Background()

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to create application", "error", err)
		os.Exit(1)
	}
	defer application.Close()

	if *migrate || *migrateOnly {
		if err := application.Migrate(ctx); err != nil {
			logger.Error("failed to apply schema", "error", err)
			application.Close()
			os.Exit(1)
		}
		if *migrateOnly {
			return
		}
	}

	if err := application.Run(ctx); err != nil {
		logger.Error("application finished with error", "error", err)
		application.Close()
		os.Exit(1)
	}
}
