package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/famledger/internal/domain"
)

// InstallmentUseCase expands purchases into installment groups and resizes
// existing groups.
type InstallmentUseCase struct {
	txManager  TransactionManager
	entryRepo  EntryRepository
	outboxRepo OutboxRepository
	idGen      IDGenerator
	deps
}

// NewInstallmentUseCase creates a new InstallmentUseCase.
func NewInstallmentUseCase(
	txManager TransactionManager,
	entryRepo EntryRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
	opts Options,
) *InstallmentUseCase {
	return &InstallmentUseCase{
		txManager:  txManager,
		entryRepo:  entryRepo,
		outboxRepo: outboxRepo,
		idGen:      idGen,
		deps:       newDeps(opts),
	}
}

// PurchaseInput describes the base entry an installment group is cut from.
type PurchaseInput struct {
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

// ExpandInstallmentsInput represents input for expanding a purchase.
// StartDate defaults to the purchase date.
type ExpandInstallmentsInput struct {
	StartDate         time.Time
	Purchase          PurchaseInput
	TotalInstallments int
}

// SharedEntryFields are carried onto entries created when a group grows.
type SharedEntryFields struct {
	Category      string
	Pillar        domain.Pillar
	CardSource    string
	Type          domain.EntryType
	PaymentMethod domain.PaymentMethod
	IsFixed       bool
}

// ResizeInstallmentsInput represents input for resizing a group.
type ResizeInstallmentsInput struct {
	ParentTransactionID  string
	NewDescription       string
	Shared               SharedEntryFields
	NewTotalAmount       decimal.Decimal
	NewTotalInstallments int
}

// ResizeResult reports what a resize changed.
type ResizeResult struct {
	ParentTransactionID string
	Updated             int
	Created             int
	Deleted             int
}

// Expand splits a purchase into TotalInstallments monthly entries sharing a
// fresh parent id and writes them in one batch. It returns the entry ids in
// installment order.
func (uc *InstallmentUseCase) Expand(ctx context.Context, input ExpandInstallmentsInput) ([]string, error) {
	n := input.TotalInstallments
	if err := domain.ValidateInstallmentCount(n); err != nil {
		return nil, err
	}

	p := input.Purchase
	if err := domain.ValidateAmount(p.Amount); err != nil {
		return nil, err
	}

	start := input.StartDate
	if start.IsZero() {
		start = p.Date
	}
	if start.IsZero() {
		return nil, fmt.Errorf("%w: purchase date is required", domain.ErrInvalidDate)
	}
	start = domain.DateOnly(start)
	description := strings.TrimSpace(p.Description)
	category := strings.TrimSpace(p.Category)
	pillar := domain.DefaultPillar(p.Pillar, category)

	draft := &domain.Entry{
		Description:   description,
		Amount:        p.Amount,
		Date:          start,
		Type:          p.Type,
		Category:      category,
		Pillar:        pillar,
		PaymentMethod: p.PaymentMethod,
		CardSource:    p.CardSource,
	}
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	parentID := uc.idGen.Generate()
	perInstallment := domain.SplitAmount(p.Amount, n)
	now := time.Now().UTC()

	entries := make([]*domain.Entry, n)
	for i := 0; i < n; i++ {
		e := &domain.Entry{
			Description:         domain.InstallmentDescription(description, i+1, n),
			Amount:              perInstallment,
			Date:                domain.AddMonthsClamped(start, i),
			Type:                p.Type,
			Category:            category,
			Pillar:              pillar,
			PaymentMethod:       p.PaymentMethod,
			CardSource:          p.CardSource,
			IsFixed:             p.IsFixed,
			InstallmentIndex:    i + 1,
			TotalInstallments:   n,
			ParentTransactionID: parentID,
			CreatedAt:           now,
			UpdatedAt:           now,
		}
		e.ID = uc.idGen.Generate()
		entries[i] = e
	}

	event := newOutboxEvent(uc.idGen, domain.AggregateTypeInstallmentGroup, parentID,
		domain.EventTypeInstallmentsCreated, domain.InstallmentsCreatedEvent{
			ParentTransactionID: parentID,
			EntryIDs:            entryIDs(entries),
			TotalAmount:         p.Amount.String(),
			InstallmentAmount:   perInstallment.String(),
			TotalInstallments:   n,
		}, now)

	err := uc.runBatch(ctx, uc.txManager, OpExpandInstallments, n, func(tx Transaction) error {
		if err := uc.entryRepo.CreateMany(ctx, tx, entries); err != nil {
			return err
		}
		return uc.outboxRepo.Create(ctx, tx, event)
	})
	if err != nil {
		return nil, err
	}

	uc.metrics.InstallmentGroupCreated(n)
	uc.invalidateMonths(ctx, entries...)
	uc.logger.Info().
		Str("parent_transaction_id", parentID).
		Int("created", n).
		Str("installment_amount", perInstallment.String()).
		Msg("installment group created")

	return entryIDs(entries), nil
}

// Resize rewrites an installment group to NewTotalInstallments entries worth
// NewTotalAmount in total. Entries with an index up to the new count keep
// their dates and indexes and get the new amount and label; entries beyond it
// are deleted. Growth continues monthly from the last kept entry. All writes
// land in one batch.
func (uc *InstallmentUseCase) Resize(ctx context.Context, input ResizeInstallmentsInput) (*ResizeResult, error) {
	n := input.NewTotalInstallments
	if err := domain.ValidateInstallmentCount(n); err != nil {
		return nil, err
	}
	if err := domain.ValidateAmount(input.NewTotalAmount); err != nil {
		return nil, err
	}
	if err := domain.ValidateDescription(input.NewDescription); err != nil {
		return nil, err
	}
	shared := input.Shared
	shared.Category = strings.TrimSpace(shared.Category)
	shared.Pillar = domain.DefaultPillar(shared.Pillar, shared.Category)
	if err := validateShared(shared); err != nil {
		return nil, err
	}

	existing, err := uc.entryRepo.ListByParent(ctx, input.ParentTransactionID)
	if err != nil {
		return nil, err
	}
	if len(existing) == 0 {
		uc.logger.Warn().
			Str("parent_transaction_id", input.ParentTransactionID).
			Msg("resize requested for an installment group with no entries")
		return nil, fmt.Errorf("%w: %s", domain.ErrInstallmentGroupNotFound, input.ParentTransactionID)
	}
	domain.SortEntriesByInstallment(existing)

	current := len(existing)
	perInstallment := domain.SplitAmount(input.NewTotalAmount, n)
	description := strings.TrimSpace(input.NewDescription)
	now := time.Now().UTC()

	kept := make([]*domain.Entry, 0, min(current, n))
	removed := make([]string, 0)
	for _, e := range existing {
		if e.InstallmentIndex > n {
			removed = append(removed, e.ID)
			continue
		}
		kept = append(kept, e)
	}

	patches := make([]EntryPatch, 0, len(kept))
	for _, e := range kept {
		amount := perInstallment
		desc := domain.InstallmentDescription(description, e.InstallmentIndex, n)
		total := n
		patches = append(patches, EntryPatch{
			ID:                e.ID,
			Amount:            &amount,
			Description:       &desc,
			TotalInstallments: &total,
			UpdatedAt:         now,
		})
	}

	// With nothing kept the first entry anchors the month sequence and the
	// group is rebuilt from index 1.
	anchor, next := existing[0], 1
	if len(kept) > 0 {
		anchor = kept[len(kept)-1]
		next = anchor.InstallmentIndex + 1
	}

	created := make([]*domain.Entry, 0)
	for index := next; index <= n; index++ {
		created = append(created, &domain.Entry{
			ID:                  uc.idGen.Generate(),
			Description:         domain.InstallmentDescription(description, index, n),
			Amount:              perInstallment,
			Date:                domain.AddMonthsClamped(anchor.Date, index-anchor.InstallmentIndex),
			Type:                shared.Type,
			Category:            shared.Category,
			Pillar:              shared.Pillar,
			PaymentMethod:       shared.PaymentMethod,
			CardSource:          shared.CardSource,
			IsFixed:             shared.IsFixed,
			InstallmentIndex:    index,
			TotalInstallments:   n,
			ParentTransactionID: input.ParentTransactionID,
			CreatedAt:           now,
			UpdatedAt:           now,
		})
	}

	result := &ResizeResult{
		ParentTransactionID: input.ParentTransactionID,
		Updated:             len(patches),
		Created:             len(created),
		Deleted:             len(removed),
	}

	event := newOutboxEvent(uc.idGen, domain.AggregateTypeInstallmentGroup, input.ParentTransactionID,
		domain.EventTypeInstallmentsResized, domain.InstallmentsResizedEvent{
			ParentTransactionID: input.ParentTransactionID,
			TotalAmount:         input.NewTotalAmount.String(),
			PreviousCount:       current,
			TotalInstallments:   n,
			Updated:             result.Updated,
			Created:             result.Created,
			Deleted:             result.Deleted,
		}, now)

	size := len(patches) + len(created) + len(removed)
	err = uc.runBatch(ctx, uc.txManager, OpResizeInstallments, size, func(tx Transaction) error {
		if len(removed) > 0 {
			if err := uc.entryRepo.DeleteMany(ctx, tx, removed); err != nil {
				return err
			}
		}
		if err := uc.entryRepo.UpdateMany(ctx, tx, patches); err != nil {
			return err
		}
		if len(created) > 0 {
			if err := uc.entryRepo.CreateMany(ctx, tx, created); err != nil {
				return err
			}
		}
		return uc.outboxRepo.Create(ctx, tx, event)
	})
	if err != nil {
		return nil, err
	}

	uc.metrics.InstallmentGroupResized(result.Updated, result.Created, result.Deleted)
	uc.invalidateMonths(ctx, append(existing, created...)...)
	uc.logger.Info().
		Str("parent_transaction_id", input.ParentTransactionID).
		Int("previous", current).
		Int("total", n).
		Int("created", result.Created).
		Int("deleted", result.Deleted).
		Msg("installment group resized")

	return result, nil
}

func validateShared(s SharedEntryFields) error {
	if err := domain.ValidateCategory(s.Category); err != nil {
		return err
	}
	if !s.Type.IsValid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidEntryType, s.Type)
	}
	if !s.PaymentMethod.IsValid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidPaymentMethod, s.PaymentMethod)
	}
	if s.Pillar != "" && !s.Pillar.IsValid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidPillar, s.Pillar)
	}
	return nil
}
