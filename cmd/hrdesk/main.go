package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/localrivet/hrdesk"
	"github.com/localrivet/hrdesk/internal/config"
	"github.com/localrivet/hrdesk/internal/errortypes"
	"github.com/localrivet/hrdesk/internal/logger"
)

func main() {
	// Initialize logging first thing
	bootLogger := setupLogging()
	bootLogger.Info("HRDesk MCP Server - Starting...")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		errortypes.LogError(bootLogger, errortypes.ConfigError(err, "Failed to load configuration"))
		os.Exit(1)
	}

	appLogger := config.GetLoggerFromConfig(cfg)
	slog.SetDefault(appLogger)
	appLogger.Info("Configuration loaded",
		"path", cfg.GetConfigPath(),
		"level", cfg.Logging.Level,
		"persistent", cfg.Persistent(),
		"metrics_addr", cfg.Metrics.Addr)

	srv, err := hrdesk.NewServer(hrdesk.ServerOptions{Config: cfg, Logger: appLogger})
	if err != nil {
		errortypes.LogError(appLogger, err)
		os.Exit(1)
	}

	var once sync.Once
	shutdown := func(code int) {
		once.Do(func() {
			if err := srv.Stop(); err != nil {
				errortypes.LogError(appLogger, errortypes.DatabaseError(err, "Error closing store during shutdown"))
				code = 1
			}
			appLogger.Info("Shutdown complete")
			os.Exit(code)
		})
	}

	// Handle graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		appLogger.Info("Received shutdown signal, terminating gracefully...")
		shutdown(0)
	}()

	// Start the servers (this will block until stdin is closed)
	if err := srv.Start(ctx); err != nil {
		errortypes.LogError(appLogger, errortypes.APIError(err, "HRDesk server failed"))
		shutdown(1)
	}
	shutdown(0)
}

// setupLogging returns the logger used until the configuration is loaded
func setupLogging() *slog.Logger {
	cfg := logger.DefaultConfig()

	// Try to get log level from environment variable
	if levelStr := os.Getenv("LOG_LEVEL"); levelStr != "" {
		cfg.Level = logger.ParseLevel(levelStr)
	}
	l := logger.New(cfg)
	slog.SetDefault(l)
	return l
}
