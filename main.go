package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"etalase/internal/config"
	"etalase/internal/logger"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zl, err := logger.New(cfg.LogLevel, cfg.LogPretty)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer zl.Sync()

	app, err := NewApp(context.Background(), cfg, zl)
	if err != nil {
		zl.Fatal("failed to initialize app", zap.Error(err))
	}
	defer app.Close()

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		zl.Info("starting server", zap.String("port", cfg.AppPort), zap.String("backend", cfg.Backend))
		if err := app.Fiber.Listen(cfg.AppPort); err != nil {
			zl.Fatal("server failed to start", zap.Error(err))
		}
	}()

	<-quit
	zl.Info("shutting down server")
	if err := app.Fiber.Shutdown(); err != nil {
		zl.Error("error during fiber shutdown", zap.Error(err))
	}
	zl.Info("server gracefully stopped")
}
