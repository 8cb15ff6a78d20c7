package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/iho/famledger/internal/domain"
)

// SummaryUseCase renders month summaries. The month's own totals are cached
// when a Cache is configured; the carried balance and settings comparisons
// are computed on every call because writes to earlier months and settings
// updates change them.
type SummaryUseCase struct {
	entryRepo    EntryRepository
	settingsRepo SettingsRepository
	ttl          time.Duration
	deps
}

// NewSummaryUseCase creates a new SummaryUseCase. A zero ttl uses
// DefaultSummaryTTL.
func NewSummaryUseCase(entryRepo EntryRepository, settingsRepo SettingsRepository, ttl time.Duration, opts Options) *SummaryUseCase {
	if ttl <= 0 {
		ttl = DefaultSummaryTTL
	}
	return &SummaryUseCase{
		entryRepo:    entryRepo,
		settingsRepo: settingsRepo,
		ttl:          ttl,
		deps:         newDeps(opts),
	}
}

// MonthSummary returns income, expense, balance and pillar totals for month,
// the balance carried in from earlier months and the month measured against
// the household settings.
func (uc *SummaryUseCase) MonthSummary(ctx context.Context, month domain.YearMonth) (*domain.MonthSummary, error) {
	if err := month.Validate(); err != nil {
		return nil, err
	}

	summary, err := uc.monthTotals(ctx, month)
	if err != nil {
		return nil, err
	}

	settings, err := uc.settingsRepo.Get(ctx)
	if err != nil {
		return nil, err
	}

	carried, err := uc.entryRepo.TotalsBefore(ctx, month.FirstDay())
	if err != nil {
		return nil, err
	}

	summary.ApplySettings(settings, carried)

	return summary, nil
}

func (uc *SummaryUseCase) monthTotals(ctx context.Context, month domain.YearMonth) (*domain.MonthSummary, error) {
	key := SummaryCacheKey(month)
	if cached, ok := uc.fromCache(ctx, key); ok {
		return cached, nil
	}

	entries, err := uc.entryRepo.ListByDateRange(ctx, month.FirstDay(), month.LastDay())
	if err != nil {
		return nil, err
	}

	summary := domain.Summarize(month, entries)
	uc.toCache(ctx, key, summary)

	return summary, nil
}

func (uc *SummaryUseCase) fromCache(ctx context.Context, key string) (*domain.MonthSummary, bool) {
	if uc.cache == nil {
		return nil, false
	}

	data, err := uc.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			uc.logger.Warn().Err(err).Str("key", key).Msg("summary cache read failed")
		}
		return nil, false
	}

	var summary domain.MonthSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		uc.logger.Warn().Err(err).Str("key", key).Msg("discarding unreadable cached summary")
		return nil, false
	}

	return &summary, true
}

func (uc *SummaryUseCase) toCache(ctx context.Context, key string, summary *domain.MonthSummary) {
	if uc.cache == nil {
		return
	}

	data, err := json.Marshal(summary)
	if err != nil {
		return
	}

	if err := uc.cache.Set(ctx, key, data, uc.ttl); err != nil {
		uc.logger.Warn().Err(err).Str("key", key).Msg("summary cache write failed")
	}
}
