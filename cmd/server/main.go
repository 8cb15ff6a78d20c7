package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpAdapter "github.com/iho/famledger/internal/adapter/http"
	"github.com/iho/famledger/internal/adapter/http/handler"
	"github.com/iho/famledger/internal/adapter/http/middleware"
	"github.com/iho/famledger/internal/app"
	"github.com/iho/famledger/internal/infrastructure/config"
	"github.com/iho/famledger/internal/infrastructure/logger"
)

const limiterIdleTTL = 10 * time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	logg := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	log.Logger = logg

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logg); err != nil {
		logg.Fatal().Err(err).Msg("server failed")
	}
}

func run(ctx context.Context, cfg *config.Config, logg zerolog.Logger) error {
	backend, err := app.Open(ctx, cfg, logg)
	if err != nil {
		return err
	}
	defer backend.Close()

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      newRouter(cfg, backend, logg),
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logg.Info().Str("port", cfg.HTTPPort).Str("store", cfg.StoreBackend).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logg.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logg.Info().Msg("server stopped")
	return nil
}

func newRouter(cfg *config.Config, b *app.Backend, logg zerolog.Logger) http.Handler {
	routerCfg := httpAdapter.RouterConfig{
		InstallmentHandler: handler.NewInstallmentHandler(b.InstallmentUC, b.EntryUC),
		RecurringHandler:   handler.NewRecurringHandler(b.RecurrenceUC),
		DuplicateHandler:   handler.NewDuplicateHandler(b.DuplicateUC),
		EntryHandler:       handler.NewEntryHandler(b.EntryUC),
		SummaryHandler:     handler.NewSummaryHandler(b.SummaryUC),
		SettingsHandler:    handler.NewSettingsHandler(b.SettingsUC),
		HealthHandler:      handler.NewHealthHandler(b.Checks),
		IdempotencyStore:   b.Idempotent,
		IdempotencyTTL:     cfg.IdempotencyTTL,
		Metrics:            b.Metrics,
		Gatherer:           b.Registry,
		Logger:             logg,
		RequestTimeout:     cfg.HTTPWriteTimeout,
	}

	if cfg.RateLimitRPS > 0 {
		limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst).OnReject(b.Metrics.RateLimited)
		go func() {
			ticker := time.NewTicker(limiterIdleTTL)
			defer ticker.Stop()
			for range ticker.C {
				limiter.CleanupLimiters(limiterIdleTTL)
			}
		}()
		routerCfg.RateLimiter = limiter
	}

	return httpAdapter.NewRouter(routerCfg)
}
