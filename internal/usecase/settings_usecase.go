package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/famledger/internal/domain"
)

// SettingsUseCase reads and updates the household settings.
type SettingsUseCase struct {
	txManager    TransactionManager
	settingsRepo SettingsRepository
	outboxRepo   OutboxRepository
	idGen        IDGenerator
	deps
}

// NewSettingsUseCase creates a new SettingsUseCase.
func NewSettingsUseCase(
	txManager TransactionManager,
	settingsRepo SettingsRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
	opts Options,
) *SettingsUseCase {
	return &SettingsUseCase{
		txManager:    txManager,
		settingsRepo: settingsRepo,
		outboxRepo:   outboxRepo,
		idGen:        idGen,
		deps:         newDeps(opts),
	}
}

// UpdateSettingsInput is a partial update. Nil fields are left untouched.
// Goals and budgets are merged key by key; a zero budget removes it.
type UpdateSettingsInput struct {
	OpeningBalance  *decimal.Decimal
	IncomeTarget    *decimal.Decimal
	ExpenseTarget   *decimal.Decimal
	PillarGoals     map[domain.Pillar]decimal.Decimal
	CategoryBudgets map[string]decimal.Decimal
}

func (in UpdateSettingsInput) fields() []string {
	fields := make([]string, 0, 5)
	if in.OpeningBalance != nil {
		fields = append(fields, "opening_balance")
	}
	if in.IncomeTarget != nil {
		fields = append(fields, "income_target")
	}
	if in.ExpenseTarget != nil {
		fields = append(fields, "expense_target")
	}
	if len(in.PillarGoals) > 0 {
		fields = append(fields, "pillar_goals")
	}
	if len(in.CategoryBudgets) > 0 {
		fields = append(fields, "category_budgets")
	}
	return fields
}

// Get returns the current settings.
func (uc *SettingsUseCase) Get(ctx context.Context) (*domain.Settings, error) {
	return uc.settingsRepo.Get(ctx)
}

// Update merges in into the current settings and saves the result. An
// update naming no field returns the current settings unchanged.
func (uc *SettingsUseCase) Update(ctx context.Context, in UpdateSettingsInput) (*domain.Settings, error) {
	current, err := uc.settingsRepo.Get(ctx)
	if err != nil {
		return nil, err
	}

	fields := in.fields()
	if len(fields) == 0 {
		return current, nil
	}

	next := current.Clone()
	if in.OpeningBalance != nil {
		next.OpeningBalance = *in.OpeningBalance
	}
	if in.IncomeTarget != nil {
		next.IncomeTarget = *in.IncomeTarget
	}
	if in.ExpenseTarget != nil {
		next.ExpenseTarget = *in.ExpenseTarget
	}
	for p, share := range in.PillarGoals {
		next.PillarGoals[p] = share
	}
	for category, limit := range in.CategoryBudgets {
		next.CategoryBudgets[strings.TrimSpace(category)] = limit
	}

	if err := next.Validate(); err != nil {
		return nil, err
	}
	next.Normalize()

	now := time.Now().UTC()
	next.UpdatedAt = now
	event := newOutboxEvent(uc.idGen, domain.AggregateTypeSettings, SettingsAggregateID,
		domain.EventTypeSettingsUpdated, domain.SettingsUpdatedEvent{Fields: fields}, now)

	err = uc.runBatch(ctx, uc.txManager, OpSaveSettings, 1, func(tx Transaction) error {
		if err := uc.settingsRepo.Save(ctx, tx, next); err != nil {
			return err
		}
		return uc.outboxRepo.Create(ctx, tx, event)
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info().Strs("fields", fields).Msg("settings updated")

	return next, nil
}
