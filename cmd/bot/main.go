package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"channelbot/bot"
	"channelbot/core/config"
	"channelbot/core/database"
	"channelbot/core/logger"
	"channelbot/core/telegram"
	"log/slog"

	"github.com/joho/godotenv"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "fatal:", err)
		os.Exit(1)
	}
}

func run() error {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := logger.InitLogger(cfg); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Shutdown() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer func() { _ = db.Close() }()

	if err := database.RunMigrations(cfg.Database); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	app, err := bot.New(ctx, cfg, db)
	if err != nil {
		return err
	}

	if err := telegram.Run(ctx, app.RunOptions()); err != nil {
		return fmt.Errorf("run bot: %w", err)
	}

	logger.Info(logger.Background(), "app", "shutdown.complete", slog.String("reason", "signal"))
	return nil
}
