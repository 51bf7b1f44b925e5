package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"oauth-bridge/internal/app"
	"oauth-bridge/internal/config"
	"oauth-bridge/internal/logger"

	"github.com/gin-gonic/gin"
)

const shutdownGrace = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("invalid configuration", map[string]any{"error": err.Error()})
	}
	logger.Init(cfg.LogLevel)
	gin.SetMode(gin.ReleaseMode)

	if err := run(cfg); err != nil {
		logger.Fatal("oauth-bridge exited", map[string]any{"error": err.Error()})
	}
	logger.Info("oauth-bridge stopped cleanly", nil)
}

func run(cfg config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}

	serveErr := make(chan error, 1)
	go func() { serveErr <- application.Run() }()

	logger.Info("oauth-bridge started", map[string]any{
		"port":  cfg.AppPort,
		"store": cfg.StoreAddr(),
	})

	select {
	case err = <-serveErr:
		if err != nil {
			logger.Error("http server failed", map[string]any{"error": err.Error()})
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received", nil)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()

	if shutdownErr := application.Shutdown(shutdownCtx); shutdownErr != nil {
		return shutdownErr
	}
	return err
}
