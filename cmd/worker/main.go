package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/iho/famledger/internal/app"
	"github.com/iho/famledger/internal/infrastructure/amqp"
	"github.com/iho/famledger/internal/infrastructure/config"
	"github.com/iho/famledger/internal/infrastructure/eventpublisher"
	"github.com/iho/famledger/internal/infrastructure/logger"
	"github.com/iho/famledger/internal/worker"
)

const outboxRetention = 7 * 24 * time.Hour

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	logg := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat}).
		With().Str("process", "worker").Logger()
	log.Logger = logg

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logg); err != nil {
		logg.Fatal().Err(err).Msg("worker failed")
	}
	logg.Info().Msg("worker stopped")
}

func run(ctx context.Context, cfg *config.Config, logg zerolog.Logger) error {
	backend, err := app.Open(ctx, cfg, logg)
	if err != nil {
		return err
	}
	defer backend.Close()

	publisher, closePublisher, err := newPublisher(cfg, logg)
	if err != nil {
		return err
	}
	defer closePublisher()

	sweeper := worker.NewSweeper(worker.SweepConfig{
		Recurrence: backend.RecurrenceUC,
		Duplicates: backend.DuplicateUC,
		Retrier:    backend.Retrier,
		Observer:   backend.Metrics,
		Logger:     &logg,
		Interval:   cfg.RecurringSweepInterval,
		Horizon:    cfg.RecurringHorizonMonths,
	})

	outbox := eventpublisher.NewEventPublisher(eventpublisher.Config{
		OutboxRepo: backend.Outbox,
		Publisher:  publisher,
		Observer:   backend.Metrics,
		Logger:     &logg,
		BatchSize:  cfg.OutboxBatchSize,
		Interval:   cfg.OutboxInterval,
		Retention:  outboxRetention,
	})

	metricsServer := &http.Server{
		Addr:              ":" + cfg.WorkerMetricsPort,
		Handler:           promhttp.HandlerFor(backend.Registry, promhttp.HandlerOpts{}),
		ReadHeaderTimeout: cfg.HTTPReadTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return ignoreCanceled(sweeper.Start(gctx)) })
	g.Go(func() error { return ignoreCanceled(outbox.Start(gctx)) })
	g.Go(func() error {
		logg.Info().Str("port", cfg.WorkerMetricsPort).Msg("serving worker metrics")
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
		defer cancel()
		return metricsServer.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// newPublisher returns the AMQP publisher when AMQP_URL is set and a log
// publisher otherwise.
func newPublisher(cfg *config.Config, logg zerolog.Logger) (eventpublisher.Publisher, func(), error) {
	if cfg.AMQPURL == "" {
		logg.Info().Msg("AMQP_URL not set; outbox events are logged")
		return eventpublisher.NewLogPublisher(logg), func() {}, nil
	}

	p, err := amqp.Dial(cfg.AMQPURL, cfg.AMQPExchange, logg)
	if err != nil {
		return nil, nil, err
	}
	return p, func() {
		if err := p.Close(); err != nil {
			logg.Warn().Err(err).Msg("failed to close AMQP publisher")
		}
	}, nil
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
