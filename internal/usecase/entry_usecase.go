package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/famledger/internal/domain"
)

// EntryUseCase handles plain entry creation, lookup and deletion.
type EntryUseCase struct {
	txManager  TransactionManager
	entryRepo  EntryRepository
	outboxRepo OutboxRepository
	idGen      IDGenerator
	deps
}

// NewEntryUseCase creates a new EntryUseCase.
func NewEntryUseCase(
	txManager TransactionManager,
	entryRepo EntryRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
	opts Options,
) *EntryUseCase {
	return &EntryUseCase{
		txManager:  txManager,
		entryRepo:  entryRepo,
		outboxRepo: outboxRepo,
		idGen:      idGen,
		deps:       newDeps(opts),
	}
}

// CreateEntryInput represents one plain entry to insert.
type CreateEntryInput struct {
	Date          time.Time
	Description   string
	Category      string
	Pillar        domain.Pillar
	CardSource    string
	Type          domain.EntryType
	PaymentMethod domain.PaymentMethod
	Amount        decimal.Decimal
	IsFixed       bool
}

// CreateEntries validates and inserts plain entries in one batch. Entries
// without a pillar get the default pillar of their category.
func (uc *EntryUseCase) CreateEntries(ctx context.Context, inputs []CreateEntryInput) ([]*domain.Entry, error) {
	if len(inputs) == 0 {
		return []*domain.Entry{}, nil
	}

	now := time.Now().UTC()
	entries := make([]*domain.Entry, len(inputs))
	for i, in := range inputs {
		e := &domain.Entry{
			Description:   strings.TrimSpace(in.Description),
			Amount:        in.Amount,
			Date:          domain.DateOnly(in.Date),
			Type:          in.Type,
			Category:      strings.TrimSpace(in.Category),
			Pillar:        domain.DefaultPillar(in.Pillar, in.Category),
			PaymentMethod: in.PaymentMethod,
			CardSource:    strings.TrimSpace(in.CardSource),
			IsFixed:       in.IsFixed,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := e.Validate(); err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		entries[i] = e
	}

	for _, e := range entries {
		e.ID = uc.idGen.Generate()
	}

	ids := entryIDs(entries)
	event := newOutboxEvent(uc.idGen, domain.AggregateTypeLedger, ids[0],
		domain.EventTypeEntriesCreated, domain.EntriesChangedEvent{EntryIDs: ids, Count: len(ids)}, now)

	err := uc.runBatch(ctx, uc.txManager, OpCreateEntries, len(entries), func(tx Transaction) error {
		if err := uc.entryRepo.CreateMany(ctx, tx, entries); err != nil {
			return err
		}
		return uc.outboxRepo.Create(ctx, tx, event)
	})
	if err != nil {
		return nil, err
	}

	uc.invalidateMonths(ctx, entries...)
	uc.logger.Info().Int("created", len(entries)).Msg("entries created")

	return entries, nil
}

// GetEntry returns one entry by id.
func (uc *EntryUseCase) GetEntry(ctx context.Context, id string) (*domain.Entry, error) {
	return uc.entryRepo.GetByID(ctx, id)
}

// ListByMonth returns the month's entries ordered by date.
func (uc *EntryUseCase) ListByMonth(ctx context.Context, month domain.YearMonth) ([]*domain.Entry, error) {
	if err := month.Validate(); err != nil {
		return nil, err
	}
	return uc.entryRepo.ListByDateRange(ctx, month.FirstDay(), month.LastDay())
}

// ListInstallmentGroup returns a group ordered by installment index.
func (uc *EntryUseCase) ListInstallmentGroup(ctx context.Context, parentTransactionID string) ([]*domain.Entry, error) {
	entries, err := uc.entryRepo.ListByParent(ctx, parentTransactionID)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrInstallmentGroupNotFound, parentTransactionID)
	}
	domain.SortEntriesByInstallment(entries)
	return entries, nil
}

// DeleteEntries deletes the given entries in one batch. Unknown ids fail the
// whole request before anything is written.
func (uc *EntryUseCase) DeleteEntries(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	seen := make(map[string]struct{}, len(ids))
	unique := make([]string, 0, len(ids))
	entries := make([]*domain.Entry, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}

		e, err := uc.entryRepo.GetByID(ctx, id)
		if err != nil {
			return 0, err
		}
		unique = append(unique, id)
		entries = append(entries, e)
	}

	now := time.Now().UTC()
	event := newOutboxEvent(uc.idGen, domain.AggregateTypeLedger, unique[0],
		domain.EventTypeEntriesDeleted, domain.EntriesChangedEvent{EntryIDs: unique, Count: len(unique)}, now)

	err := uc.runBatch(ctx, uc.txManager, OpDeleteEntries, len(unique), func(tx Transaction) error {
		if err := uc.entryRepo.DeleteMany(ctx, tx, unique); err != nil {
			return err
		}
		return uc.outboxRepo.Create(ctx, tx, event)
	})
	if err != nil {
		return 0, err
	}

	uc.invalidateMonths(ctx, entries...)
	uc.logger.Info().Int("deleted", len(unique)).Msg("entries deleted")

	return len(unique), nil
}
