// Package worker runs the periodic recurring-rule sweep.
package worker

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/famledger/internal/usecase"
)

// RecurrenceGenerator materializes due recurring entries.
type RecurrenceGenerator interface {
	GenerateDue(ctx context.Context, now time.Time, horizon int, retrier usecase.Retrier) (*usecase.DueReport, error)
}

// DuplicatePruner removes extra recurring occurrences within a month.
type DuplicatePruner interface {
	PruneRuleDuplicates(ctx context.Context) (int, error)
}

// SweepObserver records sweep outcomes.
type SweepObserver interface {
	ObserveSweep(failed bool, elapsed time.Duration)
}

// SweepConfig configures a Sweeper.
type SweepConfig struct {
	Recurrence RecurrenceGenerator
	Duplicates DuplicatePruner
	Retrier    usecase.Retrier
	Observer   SweepObserver
	Logger     *zerolog.Logger
	Interval   time.Duration
	Horizon    int
}

// SweepResult summarizes one sweep pass.
type SweepResult struct {
	Rules   int
	Created int
	Failed  int
	Pruned  int
}

// Sweeper keeps every active rule materialized a fixed number of months
// ahead and prunes duplicate occurrences afterwards.
type Sweeper struct {
	recurrence RecurrenceGenerator
	duplicates DuplicatePruner
	retrier    usecase.Retrier
	observer   SweepObserver
	logger     zerolog.Logger
	interval   time.Duration
	horizon    int
	now        func() time.Time
}

// NewSweeper creates a new Sweeper.
func NewSweeper(cfg SweepConfig) *Sweeper {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Hour
	}
	if cfg.Horizon < 0 {
		cfg.Horizon = 0
	}

	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	return &Sweeper{
		recurrence: cfg.Recurrence,
		duplicates: cfg.Duplicates,
		retrier:    cfg.Retrier,
		observer:   cfg.Observer,
		logger:     logger.With().Str("component", "sweep").Logger(),
		interval:   cfg.Interval,
		horizon:    cfg.Horizon,
		now:        time.Now,
	}
}

// Start runs a sweep immediately and then on every interval until ctx is
// cancelled.
func (s *Sweeper) Start(ctx context.Context) error {
	s.logger.Info().
		Dur("interval", s.interval).
		Int("horizon_months", s.horizon).
		Msg("recurring sweep started")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.runLogged(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("recurring sweep shutting down")
			return ctx.Err()
		case <-ticker.C:
			s.runLogged(ctx)
		}
	}
}

func (s *Sweeper) runLogged(ctx context.Context) {
	result, err := s.RunOnce(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		s.logger.Error().Err(err).Msg("recurring sweep failed")
		return
	}

	s.logger.Info().
		Int("rules", result.Rules).
		Int("created", result.Created).
		Int("pruned", result.Pruned).
		Msg("recurring sweep completed")
}

// RunOnce performs one sweep. Rules that fail generation are counted and
// reported in the returned error; pruning still runs for the rest.
func (s *Sweeper) RunOnce(ctx context.Context) (*SweepResult, error) {
	start := s.now()
	result := &SweepResult{}

	report, genErr := s.recurrence.GenerateDue(ctx, start.UTC(), s.horizon, s.retrier)
	if report != nil {
		result.Rules = report.Rules
		result.Created = report.Created
		result.Failed = report.Failed
	}
	if genErr != nil && report == nil {
		s.observe(true, start)
		return result, genErr
	}

	var pruneErr error
	prune := func() error {
		var err error
		result.Pruned, err = s.duplicates.PruneRuleDuplicates(ctx)
		return err
	}
	if s.retrier != nil {
		pruneErr = s.retrier.Retry(ctx, prune)
	} else {
		pruneErr = prune()
	}

	err := errors.Join(genErr, pruneErr)
	s.observe(err != nil, start)

	return result, err
}

func (s *Sweeper) observe(failed bool, start time.Time) {
	if s.observer != nil {
		s.observer.ObserveSweep(failed, s.now().Sub(start))
	}
}
