package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"golang.org/x/sync/errgroup"

	"github.com/fairshare-app/backend/internal/audit"
	"github.com/fairshare-app/backend/internal/cache"
	"github.com/fairshare-app/backend/internal/config"
	"github.com/fairshare-app/backend/internal/server"
	"github.com/fairshare-app/backend/internal/service"
	"github.com/fairshare-app/backend/internal/storage/sqlite"
	"github.com/fairshare-app/backend/pkg/logging"
)

func main() {
	_ = godotenv.Load()
	logging.Setup()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("Config validation failed", "error", err)
		os.Exit(1)
	}

	// Initialize SQLite storage
	store, err := sqlite.New(cfg.SQLiteDBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.SQLiteDBPath)

	var planCache cache.Cache = cache.NewMemory()
	if cfg.RedisAddr != "" {
		planCache = cache.NewRedis(cfg.RedisAddr)
		slog.Info("Using Redis settlement-plan cache", "addr", cfg.RedisAddr)
	}

	svc := service.NewExpenseService(store, planCache, cfg.PlanCacheTTL)

	auditor, err := audit.New(store, cfg.AuditCron)
	if err != nil {
		slog.Error("Failed to set up audit scheduler", "error", err)
		os.Exit(1)
	}
	auditor.Start()
	defer auditor.Stop()

	// Wrap with h2c for HTTP/2 without TLS
	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: h2c.NewHandler(server.New(svc).Handler(), &http2.Server{}),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("Server starting", "address", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		slog.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
