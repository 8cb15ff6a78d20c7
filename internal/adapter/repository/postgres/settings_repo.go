package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/iho/famledger/internal/domain"
	"github.com/iho/famledger/internal/infrastructure/postgres/generated"
	"github.com/iho/famledger/internal/usecase"
)

// SettingsRepository implements usecase.SettingsRepository over the
// single-row settings table.
type SettingsRepository struct {
	queries *generated.Queries
}

// NewSettingsRepository creates a new SettingsRepository.
func NewSettingsRepository(db generated.DBTX) *SettingsRepository {
	return &SettingsRepository{queries: generated.New(db)}
}

// Get returns the saved settings, or the defaults before the first save.
func (r *SettingsRepository) Get(ctx context.Context) (*domain.Settings, error) {
	row, err := r.queries.GetSettings(ctx)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.DefaultSettings(), nil
		}
		return nil, err
	}

	settings := &domain.Settings{
		OpeningBalance: numericToDecimal(row.OpeningBalance),
		IncomeTarget:   numericToDecimal(row.IncomeTarget),
		ExpenseTarget:  numericToDecimal(row.ExpenseTarget),
		UpdatedAt:      row.UpdatedAt.Time,
	}
	if err := json.Unmarshal(row.PillarGoals, &settings.PillarGoals); err != nil {
		return nil, fmt.Errorf("postgres: decode pillar goals: %w", err)
	}
	if err := json.Unmarshal(row.CategoryBudgets, &settings.CategoryBudgets); err != nil {
		return nil, fmt.Errorf("postgres: decode category budgets: %w", err)
	}
	if settings.CategoryBudgets == nil {
		settings.CategoryBudgets = map[string]decimal.Decimal{}
	}
	settings.Normalize()

	return settings, nil
}

// Save writes the settings within a transaction.
func (r *SettingsRepository) Save(ctx context.Context, tx usecase.Transaction, settings *domain.Settings) error {
	queries, err := txQueries(tx)
	if err != nil {
		return err
	}

	goals, err := json.Marshal(settings.PillarGoals)
	if err != nil {
		return fmt.Errorf("postgres: encode pillar goals: %w", err)
	}
	budgets, err := json.Marshal(settings.CategoryBudgets)
	if err != nil {
		return fmt.Errorf("postgres: encode category budgets: %w", err)
	}

	return queries.UpsertSettings(ctx, generated.UpsertSettingsParams{
		OpeningBalance:  decimalToNumeric(settings.OpeningBalance),
		IncomeTarget:    decimalToNumeric(settings.IncomeTarget),
		ExpenseTarget:   decimalToNumeric(settings.ExpenseTarget),
		PillarGoals:     goals,
		CategoryBudgets: budgets,
		UpdatedAt:       timeToPgTimestamptz(settings.UpdatedAt),
	})
}
