package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"explore_tours/internal/application"
	"explore_tours/internal/config"
	"explore_tours/pkg/contextx"
	"explore_tours/pkg/logx"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		logx.NewLogger(os.Stderr, "text", "info").Error("config.Load", logx.Error(err))
		os.Exit(1) //nolint:gocritic
	}

	log := logx.NewLogger(os.Stdout, cfg.Log.Format, cfg.Log.Level).With(
		logx.FieldAppName, cfg.App.Name,
		logx.FieldAppVersion, cfg.App.Version,
	)

	slog.SetDefault(log)

	ctx = contextx.WithLogger(ctx, log)

	if err := application.Run(ctx, cfg); err != nil {
		log.Error("application failed", logx.Error(err))
		cancel()
		os.Exit(1)
	}

	log.Info("application stopped")
}
