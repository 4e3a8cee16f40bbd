package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"wordrush/internal/config"
	"wordrush/internal/httpapi"
	"wordrush/internal/registry"
	"wordrush/internal/words"
)

func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var provider words.Provider = words.Default()
	if cfg.DatabaseURL != "" {
		provider, err = words.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("word store unavailable", zap.Error(err))
		}
		logger.Info("word corpus loaded from database")
	}

	reg := registry.New(ctx, provider, logger.Named("registry"))
	handler := httpapi.SetupRoutes(reg, logger.Named("ws"), cfg.StaticDir)

	srv := &http.Server{Addr: cfg.Addr, Handler: handler}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("listening", zap.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// Inactive-room sweep runs on its own cadence, independent of any
	// request path.
	g.Go(func() error {
		ticker := time.NewTicker(cfg.SweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				reg.Inbox() <- registry.Sweep{IdleFor: registry.InactivityTimeout}
			}
		}
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
	logger.Info("server exited gracefully")
}
