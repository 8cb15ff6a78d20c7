package usecase

import (
	"context"
	"time"

	"github.com/iho/famledger/internal/domain"
)

// DuplicateUseCase detects exact duplicates and prunes repeated rule
// occurrences.
type DuplicateUseCase struct {
	txManager  TransactionManager
	entryRepo  EntryRepository
	outboxRepo OutboxRepository
	idGen      IDGenerator
	deps
}

// NewDuplicateUseCase creates a new DuplicateUseCase.
func NewDuplicateUseCase(
	txManager TransactionManager,
	entryRepo EntryRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
	opts Options,
) *DuplicateUseCase {
	return &DuplicateUseCase{
		txManager:  txManager,
		entryRepo:  entryRepo,
		outboxRepo: outboxRepo,
		idGen:      idGen,
		deps:       newDeps(opts),
	}
}

// FindExact returns the exact-duplicate clusters among one month's entries.
// Nothing is deleted; an empty result is not an error.
func (uc *DuplicateUseCase) FindExact(ctx context.Context, month domain.YearMonth) ([]domain.DuplicateCluster, error) {
	if err := month.Validate(); err != nil {
		return nil, err
	}

	entries, err := uc.entryRepo.ListByDateRange(ctx, month.FirstDay(), month.LastDay())
	if err != nil {
		return nil, err
	}

	clusters := domain.FindExactDuplicates(entries)
	uc.logger.Debug().
		Str("month", month.String()).
		Int("entries", len(entries)).
		Int("clusters", len(clusters)).
		Msg("exact duplicates scanned")

	return clusters, nil
}

// PruneRuleDuplicates deletes every fixed entry repeating a (rule, month)
// pair, keeping the earliest by date and id. It returns how many entries
// were deleted.
func (uc *DuplicateUseCase) PruneRuleDuplicates(ctx context.Context) (int, error) {
	fixed, err := uc.entryRepo.ListFixed(ctx)
	if err != nil {
		return 0, err
	}

	dupes := domain.FindRuleDuplicates(fixed)
	if len(dupes) == 0 {
		return 0, nil
	}

	ids := entryIDs(dupes)
	now := time.Now().UTC()
	event := newOutboxEvent(uc.idGen, domain.AggregateTypeLedger, "duplicates",
		domain.EventTypeDuplicatesPruned, domain.EntriesChangedEvent{
			EntryIDs: ids,
			Count:    len(ids),
		}, now)

	err = uc.runBatch(ctx, uc.txManager, OpPruneDuplicates, len(ids), func(tx Transaction) error {
		if err := uc.entryRepo.DeleteMany(ctx, tx, ids); err != nil {
			return err
		}
		return uc.outboxRepo.Create(ctx, tx, event)
	})
	if err != nil {
		return 0, err
	}

	uc.metrics.DuplicatesPruned(len(ids))
	uc.invalidateMonths(ctx, dupes...)
	uc.logger.Info().Int("deleted", len(ids)).Int("scanned", len(fixed)).Msg("rule duplicates pruned")

	return len(ids), nil
}
