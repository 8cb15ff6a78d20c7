// Package app wires the configured store backend into use cases.
package app

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/iho/famledger/internal/adapter/http/handler"
	"github.com/iho/famledger/internal/adapter/repository/memory"
	postgresRepo "github.com/iho/famledger/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/famledger/internal/adapter/repository/redis"
	"github.com/iho/famledger/internal/infrastructure/config"
	"github.com/iho/famledger/internal/infrastructure/metrics"
	"github.com/iho/famledger/internal/infrastructure/postgres"
	"github.com/iho/famledger/internal/infrastructure/redis"
	"github.com/iho/famledger/internal/usecase"
)

// Backend holds the store adapters and the use cases built on them.
type Backend struct {
	TxManager  usecase.TransactionManager
	Entries    usecase.EntryRepository
	Rules      usecase.RecurrenceRuleRepository
	Outbox     usecase.OutboxRepository
	Settings   usecase.SettingsRepository
	IDGen      usecase.IDGenerator
	Retrier    usecase.Retrier
	Cache      usecase.Cache
	Idempotent usecase.IdempotencyStore

	EntryUC       *usecase.EntryUseCase
	InstallmentUC *usecase.InstallmentUseCase
	RecurrenceUC  *usecase.RecurrenceUseCase
	DuplicateUC   *usecase.DuplicateUseCase
	SummaryUC     *usecase.SummaryUseCase
	SettingsUC    *usecase.SettingsUseCase

	Metrics  *metrics.Metrics
	Registry *prometheus.Registry

	// Checks are the readiness checks of the external stores in use.
	Checks map[string]handler.Check

	closers []func()
}

// Open connects the backend selected by cfg.StoreBackend. Redis is optional:
// an empty REDIS_URL disables the summary cache and idempotency keys.
func Open(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*Backend, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	b := &Backend{
		IDGen:    postgresRepo.NewULIDGenerator(),
		Metrics:  metrics.New(registry),
		Registry: registry,
		Checks:   make(map[string]handler.Check),
	}

	switch cfg.StoreBackend {
	case config.StoreMemory:
		store := memory.NewStore()
		b.TxManager = store
		b.Entries = store.Entries()
		b.Rules = store.Rules()
		b.Outbox = store.Outbox()
		b.Settings = store.Settings()
		logger.Warn().Msg("using in-memory store; data is lost on exit")

	case config.StorePostgres:
		if cfg.MigrateOnStart {
			if err := postgres.RunMigrations(cfg.DatabaseURL, logger); err != nil {
				return nil, fmt.Errorf("run migrations: %w", err)
			}
		}

		pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
			DatabaseURL:    cfg.DatabaseURL,
			MaxConns:       cfg.DatabaseMaxConns,
			MinConns:       cfg.DatabaseMinConns,
			ConnectTimeout: cfg.DatabaseTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("connect to postgres: %w", err)
		}
		b.closers = append(b.closers, pool.Close)
		logger.Info().Msg("connected to postgres")

		b.TxManager = postgresRepo.NewTxManager(pool,
			postgresRepo.WithIsolation(pgx.TxIsoLevel(cfg.DatabaseIsolation)))
		b.Entries = postgresRepo.NewEntryRepository(pool)
		b.Rules = postgresRepo.NewRecurrenceRuleRepository(pool)
		b.Outbox = postgresRepo.NewOutboxRepository(pool)
		b.Settings = postgresRepo.NewSettingsRepository(pool)
		b.Retrier = postgresRepo.NewRetrier(logger)
		b.Checks["postgres"] = pool.Ping

	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}

	if cfg.RedisURL != "" {
		client, err := redis.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			b.Close()
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		b.closers = append(b.closers, func() { _ = client.Close() })
		logger.Info().Msg("connected to redis")

		b.Cache = redisRepo.NewCache(client)
		b.Idempotent = redisRepo.NewIdempotencyStore(client)
		b.Checks["redis"] = redisPing(client)
	}

	opts := usecase.Options{Logger: &logger, Metrics: b.Metrics, Cache: b.Cache}
	b.EntryUC = usecase.NewEntryUseCase(b.TxManager, b.Entries, b.Outbox, b.IDGen, opts)
	b.InstallmentUC = usecase.NewInstallmentUseCase(b.TxManager, b.Entries, b.Outbox, b.IDGen, opts)
	b.RecurrenceUC = usecase.NewRecurrenceUseCase(b.TxManager, b.Rules, b.Entries, b.Outbox, b.IDGen, opts)
	b.DuplicateUC = usecase.NewDuplicateUseCase(b.TxManager, b.Entries, b.Outbox, b.IDGen, opts)
	b.SummaryUC = usecase.NewSummaryUseCase(b.Entries, b.Settings, cfg.SummaryCacheTTL, opts)
	b.SettingsUC = usecase.NewSettingsUseCase(b.TxManager, b.Settings, b.Outbox, b.IDGen, opts)

	return b, nil
}

// Close releases every connection opened by Open, last opened first.
func (b *Backend) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
	b.closers = nil
}

func redisPing(client *goredis.Client) handler.Check {
	return func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}
}
