package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/coderman400/AIArchitect/internal/config"
)

func main() {
	if err := run(); err != nil {
		slog.Error("aiarchitect exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config load failed: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := NewServer(ctx, cfg)
	if err != nil {
		return fmt.Errorf("service init failed: %w", err)
	}
	logger := srv.infra.Logger

	logger.Info("aiarchitect starting",
		"version", cfg.Version,
		"addr", cfg.Server.Addr(),
		"env", cfg.Env(),
	)
	if err := srv.Start(); err != nil {
		return fmt.Errorf("service start failed: %w", err)
	}

	<-ctx.Done()
	stop()

	if err := srv.Shutdown(cfg.ShutdownTimeoutDuration()); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	logger.Info("aiarchitect stopped")
	return nil
}
