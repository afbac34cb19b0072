package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"pagesmith/internal/app"
	"pagesmith/internal/config"
)

func main() {
	mcpMode := flag.Bool("mcp", false, "run as a standalone MCP server on stdin/stdout")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	if *mcpMode {
		if err := app.ServeMCP(ctx, cfg); err != nil {
			log.Fatalf("mcp server: %v", err)
		}
		return
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	a, err := app.New(cfg, logger)
	if err != nil {
		logger.Fatal("init app", zap.Error(err))
	}
	defer a.Close()

	if err := a.Run(ctx); err != nil {
		logger.Fatal("run", zap.Error(err))
	}
}
