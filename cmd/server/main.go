package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/garyjia/invoice-generator/internal/config"
	"github.com/garyjia/invoice-generator/internal/container"
	"github.com/garyjia/invoice-generator/pkg/utils"
)

func main() {
	configPath := flag.String("config", "", "path to an optional YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting invoice generator",
		zap.String("address", cfg.Server.Address()),
		zap.String("storage_dir", cfg.Storage.Dir))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c, err := container.NewContainer(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to create container", zap.Error(err))
	}
	if err := c.Start(ctx); err != nil {
		logger.Fatal("Failed to start container", zap.Error(err))
	}

	// Start blocks until a shutdown signal arrives
	if err := c.Server().Start(ctx); err != nil {
		logger.Error("Server stopped with error", zap.Error(err))
	}

	if err := c.Close(); err != nil {
		logger.Error("Failed to close container", zap.Error(err))
	}
	logger.Info("Shutdown complete")
}
