package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/iho/famledger/internal/domain"
	"github.com/iho/famledger/internal/infrastructure/postgres/generated"
	"github.com/iho/famledger/internal/usecase"
)

// EntryRepository implements usecase.EntryRepository.
type EntryRepository struct {
	queries *generated.Queries
}

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(db generated.DBTX) *EntryRepository {
	return &EntryRepository{queries: generated.New(db)}
}

// CreateMany inserts entries within a transaction.
func (r *EntryRepository) CreateMany(ctx context.Context, tx usecase.Transaction, entries []*domain.Entry) error {
	queries, err := txQueries(tx)
	if err != nil {
		return err
	}

	for _, e := range entries {
		if err := queries.CreateTransaction(ctx, entryToParams(e)); err != nil {
			return fmt.Errorf("insert entry %s: %w", e.ID, err)
		}
	}

	return nil
}

// UpdateMany applies patches within a transaction.
func (r *EntryRepository) UpdateMany(ctx context.Context, tx usecase.Transaction, patches []usecase.EntryPatch) error {
	queries, err := txQueries(tx)
	if err != nil {
		return err
	}

	for _, p := range patches {
		params := generated.UpdateTransactionParams{
			ID:        p.ID,
			UpdatedAt: timeToPgTimestamptz(p.UpdatedAt),
		}
		if p.Amount != nil {
			params.Amount = decimalToNumeric(*p.Amount)
		}
		if p.Description != nil {
			params.Description = textOrNull(*p.Description)
		}
		if p.TotalInstallments != nil {
			params.TotalInstallments = intOrNull(*p.TotalInstallments)
		}

		n, err := queries.UpdateTransaction(ctx, params)
		if err != nil {
			return fmt.Errorf("update entry %s: %w", p.ID, err)
		}
		if n == 0 {
			return fmt.Errorf("%w: %s", domain.ErrEntryNotFound, p.ID)
		}
	}

	return nil
}

// DeleteMany removes entries within a transaction. Missing ids are ignored.
func (r *EntryRepository) DeleteMany(ctx context.Context, tx usecase.Transaction, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	queries, err := txQueries(tx)
	if err != nil {
		return err
	}

	_, err = queries.DeleteTransactions(ctx, ids)
	return err
}

// GetByID retrieves an entry by ID.
func (r *EntryRepository) GetByID(ctx context.Context, id string) (*domain.Entry, error) {
	row, err := r.queries.GetTransaction(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrEntryNotFound, id)
		}
		return nil, err
	}

	return rowToEntry(row), nil
}

// ListByParent returns a group ordered by installment index.
func (r *EntryRepository) ListByParent(ctx context.Context, parentTransactionID string) ([]*domain.Entry, error) {
	return rowsToEntries(r.queries.ListTransactionsByParent(ctx, textOrNull(parentTransactionID)))
}

// ListByRule returns the rule's entries dated within [from, to].
func (r *EntryRepository) ListByRule(ctx context.Context, ruleID string, from, to time.Time) ([]*domain.Entry, error) {
	return rowsToEntries(r.queries.ListTransactionsByRule(ctx, generated.ListTransactionsByRuleParams{
		RecurringRuleID: textOrNull(ruleID),
		FromDate:        timeToPgDate(from),
		ToDate:          timeToPgDate(to),
	}))
}

// ListByRuleFrom returns the rule's entries dated on or after from.
func (r *EntryRepository) ListByRuleFrom(ctx context.Context, ruleID string, from time.Time) ([]*domain.Entry, error) {
	return rowsToEntries(r.queries.ListTransactionsByRuleFrom(ctx, generated.ListTransactionsByRuleFromParams{
		RecurringRuleID: textOrNull(ruleID),
		FromDate:        timeToPgDate(from),
	}))
}

// ListFixed returns fixed entries ordered by date, then id.
func (r *EntryRepository) ListFixed(ctx context.Context) ([]*domain.Entry, error) {
	return rowsToEntries(r.queries.ListFixedTransactions(ctx))
}

// ListByDateRange returns entries dated within [from, to] ordered by date, then id.
func (r *EntryRepository) ListByDateRange(ctx context.Context, from, to time.Time) ([]*domain.Entry, error) {
	return rowsToEntries(r.queries.ListTransactionsByDateRange(ctx, generated.ListTransactionsByDateRangeParams{
		FromDate: timeToPgDate(from),
		ToDate:   timeToPgDate(to),
	}))
}

// TotalsBefore sums income and expense of entries dated before day.
func (r *EntryRepository) TotalsBefore(ctx context.Context, day time.Time) (domain.Totals, error) {
	row, err := r.queries.SumTransactionsBefore(ctx, timeToPgDate(day))
	if err != nil {
		return domain.Totals{}, err
	}
	return domain.Totals{
		Income:  numericToDecimal(row.Income),
		Expense: numericToDecimal(row.Expense),
	}, nil
}

func entryToParams(e *domain.Entry) generated.CreateTransactionParams {
	return generated.CreateTransactionParams{
		ID:                  e.ID,
		Description:         e.Description,
		Amount:              decimalToNumeric(e.Amount),
		EntryDate:           timeToPgDate(e.Date),
		Type:                string(e.Type),
		Category:            e.Category,
		Pillar:              textOrNull(string(e.Pillar)),
		PaymentMethod:       string(e.PaymentMethod),
		CardSource:          textOrNull(e.CardSource),
		IsFixed:             e.IsFixed,
		InstallmentIndex:    intOrNull(e.InstallmentIndex),
		TotalInstallments:   intOrNull(e.TotalInstallments),
		ParentTransactionID: textOrNull(e.ParentTransactionID),
		RecurringRuleID:     textOrNull(e.RecurringRuleID),
		CreatedAt:           timeToPgTimestamptz(e.CreatedAt),
		UpdatedAt:           timeToPgTimestamptz(e.UpdatedAt),
	}
}

func rowToEntry(row generated.Transaction) *domain.Entry {
	return &domain.Entry{
		ID:                  row.ID,
		Description:         row.Description,
		Amount:              numericToDecimal(row.Amount),
		Date:                pgDateToTime(row.EntryDate),
		Type:                domain.EntryType(row.Type),
		Category:            row.Category,
		Pillar:              domain.Pillar(row.Pillar.String),
		PaymentMethod:       domain.PaymentMethod(row.PaymentMethod),
		CardSource:          row.CardSource.String,
		IsFixed:             row.IsFixed,
		InstallmentIndex:    int(row.InstallmentIndex.Int32),
		TotalInstallments:   int(row.TotalInstallments.Int32),
		ParentTransactionID: row.ParentTransactionID.String,
		RecurringRuleID:     row.RecurringRuleID.String,
		CreatedAt:           row.CreatedAt.Time,
		UpdatedAt:           row.UpdatedAt.Time,
	}
}

func rowsToEntries(rows []generated.Transaction, err error) ([]*domain.Entry, error) {
	if err != nil {
		return nil, err
	}

	entries := make([]*domain.Entry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, rowToEntry(row))
	}

	return entries, nil
}
