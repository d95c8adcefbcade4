package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	httpadapter "github.com/couchcryptid/fire-spread-service/internal/adapter/http"
	"github.com/couchcryptid/fire-spread-service/internal/config"
	"github.com/couchcryptid/fire-spread-service/internal/observability"
	"github.com/couchcryptid/fire-spread-service/internal/service"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	svc, err := service.Build(ctx, cfg, logger, metrics)
	if err != nil {
		logger.Error("failed to build engine", "error", err)
		os.Exit(1)
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, svc.Engine, svc, httpadapter.Options{
		DefaultDataset: cfg.DefaultDataset,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		Version:        version,
	}, logger)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if err := svc.Close(); err != nil {
		logger.Error("storage close error", "error", err)
	}

	logger.Info("shutdown complete")
}
