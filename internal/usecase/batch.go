package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/famledger/internal/domain"
)

// Options carries the optional collaborators shared by the use cases.
type Options struct {
	Logger  *zerolog.Logger
	Metrics MetricsRecorder
	Cache   Cache
}

type deps struct {
	logger  zerolog.Logger
	metrics MetricsRecorder
	cache   Cache
}

func newDeps(opts Options) deps {
	d := deps{logger: zerolog.Nop(), metrics: noopMetrics{}, cache: opts.Cache}
	if opts.Logger != nil {
		d.logger = *opts.Logger
	}
	if opts.Metrics != nil {
		d.metrics = opts.Metrics
	}
	return d
}

// runBatch applies fn inside one transaction. Any failure, including the
// commit, is reported as a *domain.BatchError and nothing is applied.
func (d deps) runBatch(ctx context.Context, txManager TransactionManager, op string, size int, fn func(tx Transaction) error) error {
	err := func() error {
		tx, err := txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		if err := fn(tx); err != nil {
			return err
		}

		return tx.Commit(ctx)
	}()
	if err != nil {
		d.metrics.BatchFailed(op)
		d.logger.Error().Err(err).Str("op", op).Int("size", size).Msg("batch write failed")
		return &domain.BatchError{Op: op, Err: err}
	}

	d.metrics.BatchCommitted(op, size)
	return nil
}

// invalidateMonths drops cached summaries for every month the entries touch.
// Cache failures are logged and never fail the operation.
func (d deps) invalidateMonths(ctx context.Context, entries ...*domain.Entry) {
	if d.cache == nil || len(entries) == 0 {
		return
	}

	seen := make(map[domain.YearMonth]struct{})
	keys := make([]string, 0)
	for _, e := range entries {
		ym := e.Month()
		if _, ok := seen[ym]; ok {
			continue
		}
		seen[ym] = struct{}{}
		keys = append(keys, SummaryCacheKey(ym))
	}

	if err := d.cache.Delete(ctx, keys...); err != nil {
		d.logger.Warn().Err(err).Strs("keys", keys).Msg("failed to invalidate summary cache")
	}
}

// SummaryCacheKey is the cache key of a month summary.
func SummaryCacheKey(ym domain.YearMonth) string {
	return "summary:" + ym.String()
}

func newOutboxEvent(idGen IDGenerator, aggregateType, aggregateID, eventType string, payload any, now time.Time) *domain.OutboxEvent {
	return &domain.OutboxEvent{
		ID:            idGen.Generate(),
		AggregateID:   aggregateID,
		AggregateType: aggregateType,
		EventType:     eventType,
		Payload:       domain.EventPayload(payload),
		CreatedAt:     now,
	}
}

func entryIDs(entries []*domain.Entry) []string {
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}
	return ids
}
