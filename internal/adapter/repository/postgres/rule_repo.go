package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/iho/famledger/internal/domain"
	"github.com/iho/famledger/internal/infrastructure/postgres/generated"
	"github.com/iho/famledger/internal/usecase"
)

// RecurrenceRuleRepository implements usecase.RecurrenceRuleRepository.
type RecurrenceRuleRepository struct {
	queries *generated.Queries
}

// NewRecurrenceRuleRepository creates a new RecurrenceRuleRepository.
func NewRecurrenceRuleRepository(db generated.DBTX) *RecurrenceRuleRepository {
	return &RecurrenceRuleRepository{queries: generated.New(db)}
}

// Create inserts a rule within a transaction.
func (r *RecurrenceRuleRepository) Create(ctx context.Context, tx usecase.Transaction, rule *domain.RecurrenceRule) error {
	queries, err := txQueries(tx)
	if err != nil {
		return err
	}

	return queries.CreateRecurringRule(ctx, generated.CreateRecurringRuleParams{
		ID:            rule.ID,
		Description:   rule.Description,
		Amount:        decimalToNumeric(rule.Amount),
		Category:      rule.Category,
		Pillar:        textOrNull(string(rule.Pillar)),
		PaymentMethod: string(rule.PaymentMethod),
		CardSource:    textOrNull(rule.CardSource),
		Frequency:     string(rule.Frequency),
		StartDate:     timeToPgDate(rule.StartDate),
		EndDate:       optionalDate(rule),
		IsActive:      rule.IsActive,
		CreatedAt:     timeToPgTimestamptz(rule.CreatedAt),
		UpdatedAt:     timeToPgTimestamptz(rule.UpdatedAt),
	})
}

// Update overwrites a rule within a transaction.
func (r *RecurrenceRuleRepository) Update(ctx context.Context, tx usecase.Transaction, rule *domain.RecurrenceRule) error {
	queries, err := txQueries(tx)
	if err != nil {
		return err
	}

	n, err := queries.UpdateRecurringRule(ctx, generated.UpdateRecurringRuleParams{
		ID:            rule.ID,
		Description:   rule.Description,
		Amount:        decimalToNumeric(rule.Amount),
		Category:      rule.Category,
		Pillar:        textOrNull(string(rule.Pillar)),
		PaymentMethod: string(rule.PaymentMethod),
		CardSource:    textOrNull(rule.CardSource),
		Frequency:     string(rule.Frequency),
		StartDate:     timeToPgDate(rule.StartDate),
		EndDate:       optionalDate(rule),
		IsActive:      rule.IsActive,
		UpdatedAt:     timeToPgTimestamptz(rule.UpdatedAt),
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", domain.ErrRuleNotFound, rule.ID)
	}

	return nil
}

// GetByID retrieves a rule by ID.
func (r *RecurrenceRuleRepository) GetByID(ctx context.Context, id string) (*domain.RecurrenceRule, error) {
	row, err := r.queries.GetRecurringRule(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrRuleNotFound, id)
		}
		return nil, err
	}

	return rowToRule(row), nil
}

// List returns every rule ordered by start date.
func (r *RecurrenceRuleRepository) List(ctx context.Context) ([]*domain.RecurrenceRule, error) {
	return rowsToRules(r.queries.ListRecurringRules(ctx))
}

// ListActive returns active rules ordered by start date.
func (r *RecurrenceRuleRepository) ListActive(ctx context.Context) ([]*domain.RecurrenceRule, error) {
	return rowsToRules(r.queries.ListActiveRecurringRules(ctx))
}

func optionalDate(rule *domain.RecurrenceRule) pgtype.Date {
	if rule.EndDate == nil {
		return pgtype.Date{}
	}
	return timeToPgDate(*rule.EndDate)
}

func rowToRule(row generated.RecurringRule) *domain.RecurrenceRule {
	rule := &domain.RecurrenceRule{
		ID:            row.ID,
		Description:   row.Description,
		Amount:        numericToDecimal(row.Amount),
		Category:      row.Category,
		Pillar:        domain.Pillar(row.Pillar.String),
		PaymentMethod: domain.PaymentMethod(row.PaymentMethod),
		CardSource:    row.CardSource.String,
		Frequency:     domain.Frequency(row.Frequency),
		StartDate:     pgDateToTime(row.StartDate),
		IsActive:      row.IsActive,
		CreatedAt:     row.CreatedAt.Time,
		UpdatedAt:     row.UpdatedAt.Time,
	}
	if row.EndDate.Valid {
		end := pgDateToTime(row.EndDate)
		rule.EndDate = &end
	}
	return rule
}

func rowsToRules(rows []generated.RecurringRule, err error) ([]*domain.RecurrenceRule, error) {
	if err != nil {
		return nil, err
	}

	rules := make([]*domain.RecurrenceRule, 0, len(rows))
	for _, row := range rows {
		rules = append(rules, rowToRule(row))
	}

	return rules, nil
}
