package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/famledger/internal/domain"
	"github.com/iho/famledger/internal/usecase"
)

func TestSettingsUseCase_UpdateMergesFields(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	uc := f.settings()

	_, err := uc.Update(ctx, usecase.UpdateSettingsInput{
		OpeningBalance:  decimalPtr(800),
		CategoryBudgets: map[string]decimal.Decimal{" Lazer ": decimal.NewFromInt(300), "Mercado": decimal.NewFromInt(900)},
	})
	require.NoError(t, err)

	updated, err := uc.Update(ctx, usecase.UpdateSettingsInput{
		PillarGoals: map[domain.Pillar]decimal.Decimal{
			domain.PillarFixedExpenses: decimal.RequireFromString("0.5"),
			domain.PillarInvestments:   decimal.RequireFromString("0.3"),
		},
		CategoryBudgets: map[string]decimal.Decimal{"Mercado": decimal.Zero},
	})
	require.NoError(t, err)

	assert.True(t, updated.OpeningBalance.Equal(decimal.NewFromInt(800)), "untouched fields survive")
	assert.True(t, updated.PillarGoals[domain.PillarFixedExpenses].Equal(decimal.RequireFromString("0.5")))
	assert.True(t, updated.PillarGoals[domain.PillarGuiltyFree].Equal(decimal.RequireFromString("0.15")))
	assert.Equal(t, map[string]decimal.Decimal{"Lazer": decimal.NewFromInt(300)}, updated.CategoryBudgets)
	assert.False(t, updated.UpdatedAt.IsZero())

	stored, err := uc.Get(ctx)
	require.NoError(t, err)
	assert.True(t, stored.PillarGoals[domain.PillarInvestments].Equal(decimal.RequireFromString("0.3")))

	events := f.store.Outbox().All()
	require.Len(t, events, 2)
	assert.Equal(t, domain.EventTypeSettingsUpdated, events[1].EventType)
	assert.Equal(t, usecase.SettingsAggregateID, events[1].AggregateID)
}

func TestSettingsUseCase_UpdateRejectsInvalid(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		in   usecase.UpdateSettingsInput
		want error
	}{
		{
			name: "goals above income",
			in: usecase.UpdateSettingsInput{PillarGoals: map[domain.Pillar]decimal.Decimal{
				domain.PillarGuiltyFree: decimal.RequireFromString("0.4"),
			}},
			want: domain.ErrInvalidSettings,
		},
		{
			name: "negative goal",
			in: usecase.UpdateSettingsInput{PillarGoals: map[domain.Pillar]decimal.Decimal{
				domain.PillarUnexpected: decimal.RequireFromString("-0.05"),
			}},
			want: domain.ErrInvalidSettings,
		},
		{
			name: "unknown pillar",
			in: usecase.UpdateSettingsInput{PillarGoals: map[domain.Pillar]decimal.Decimal{
				"Viagens": decimal.RequireFromString("0.01"),
			}},
			want: domain.ErrInvalidPillar,
		},
		{
			name: "negative budget",
			in:   usecase.UpdateSettingsInput{CategoryBudgets: map[string]decimal.Decimal{"Lazer": decimal.NewFromInt(-1)}},
			want: domain.ErrInvalidSettings,
		},
		{
			name: "blank budget category",
			in:   usecase.UpdateSettingsInput{CategoryBudgets: map[string]decimal.Decimal{"  ": decimal.NewFromInt(10)}},
			want: domain.ErrInvalidCategory,
		},
		{
			name: "negative target",
			in:   usecase.UpdateSettingsInput{IncomeTarget: decimalPtr(-100)},
			want: domain.ErrInvalidSettings,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			_, err := f.settings().Update(ctx, tt.in)
			require.ErrorIs(t, err, tt.want)
			assert.True(t, domain.IsValidationError(err))
			assert.Empty(t, f.store.Outbox().All())
		})
	}
}

func TestSettingsUseCase_EmptyUpdateWritesNothing(t *testing.T) {
	f := newFixture()

	got, err := f.settings().Update(context.Background(), usecase.UpdateSettingsInput{})
	require.NoError(t, err)
	assert.True(t, got.PillarGoals[domain.PillarFixedExpenses].Equal(decimal.RequireFromString("0.65")))
	assert.Empty(t, f.store.Outbox().All())
}

func TestSettingsUseCase_CommitFailureKeepsPreviousSettings(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.store.FailCommits(errors.New("disk full"))

	_, err := f.settings().Update(ctx, usecase.UpdateSettingsInput{OpeningBalance: decimalPtr(50)})
	var batchErr *domain.BatchError
	require.ErrorAs(t, err, &batchErr)
	assert.Equal(t, usecase.OpSaveSettings, batchErr.Op)

	f.store.FailCommits(nil)
	got, err := f.settings().Get(ctx)
	require.NoError(t, err)
	assert.True(t, got.OpeningBalance.IsZero())
}
