package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/disease-support-server/internal/config"
	"github.com/disease-support-server/internal/logging"
	"github.com/disease-support-server/internal/mcp"
	"github.com/disease-support-server/internal/service"
)

func main() {
	// Load configuration
	configManager, err := config.NewManager()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Validate configuration
	if err := configManager.Validate(); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	cfg := configManager.GetConfig()

	// stdout carries the protocol
	logCfg := cfg.Logging
	if logCfg.Output == "" || logCfg.Output == "stdout" {
		logCfg.Output = "stderr"
	}
	logger, err := logging.New(logCfg)
	if err != nil {
		log.Fatalf("Failed to configure logging: %v", err)
	}

	svc, closeCache, err := service.NewFromConfig(cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to build diagnosis service")
	}
	defer func() {
		if err := closeCache(); err != nil {
			logger.WithError(err).Warn("Failed to close cache")
		}
	}()

	// Create MCP server
	mcpServer := mcp.NewServer(cfg.MCP, svc, logger)

	// Setup graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Start MCP server
	if err := mcpServer.Start(ctx); err != nil {
		logger.WithError(err).Error("MCP server failed")
		os.Exit(1)
	}

	logger.Info("MCP server stopped")
}
