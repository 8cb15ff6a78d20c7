package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/famledger/internal/domain"
	"github.com/iho/famledger/internal/usecase"
)

func entryInput(desc, category string, amount int64, date time.Time) usecase.CreateEntryInput {
	return usecase.CreateEntryInput{
		Description:   desc,
		Amount:        decimal.NewFromInt(amount),
		Date:          date,
		Type:          domain.EntryTypeExpense,
		Category:      category,
		PaymentMethod: domain.PaymentMethodPix,
	}
}

func TestEntryUseCase_CreateEntries(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	created, err := f.entries().CreateEntries(ctx, []usecase.CreateEntryInput{
		entryInput("Cinema", "Lazer", 60, day(2024, time.May, 4)),
		entryInput("Passagem", "Viagem", 900, day(2024, time.May, 9)),
	})
	require.NoError(t, err)
	require.Len(t, created, 2)

	assert.Equal(t, domain.PillarGuiltyFree, created[0].Pillar, "pillar inferred from category")
	assert.Empty(t, created[1].Pillar)
	assert.NotEmpty(t, created[0].ID)

	listed, err := f.entries().ListByMonth(ctx, domain.YearMonth{Year: 2024, Month: time.May})
	require.NoError(t, err)
	assert.Len(t, listed, 2)

	got, err := f.entries().GetEntry(ctx, created[1].ID)
	require.NoError(t, err)
	assert.Equal(t, "Passagem", got.Description)
}

func TestEntryUseCase_CreateEntries_RejectsWholeBatch(t *testing.T) {
	f := newFixture()

	bad := entryInput("Cinema", "Lazer", 0, day(2024, time.May, 4))
	_, err := f.entries().CreateEntries(context.Background(), []usecase.CreateEntryInput{
		entryInput("Padaria", "Mercado", 10, day(2024, time.May, 4)),
		bad,
	})
	require.ErrorIs(t, err, domain.ErrInvalidAmount)
	assert.Empty(t, f.store.Entries().All())
}

func TestEntryUseCase_DeleteEntries(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.store.Seed(
		seeded("a", "Padaria", 12, day(2024, time.May, 3)),
		seeded("b", "Padaria", 12, day(2024, time.May, 3)),
	)

	_, err := f.entries().DeleteEntries(ctx, []string{"a", "missing"})
	require.ErrorIs(t, err, domain.ErrEntryNotFound)
	assert.Len(t, f.store.Entries().All(), 2)

	n, err := f.entries().DeleteEntries(ctx, []string{"b", "b"})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = f.entries().GetEntry(ctx, "b")
	require.ErrorIs(t, err, domain.ErrEntryNotFound)
}

func TestEntryUseCase_ListInstallmentGroup(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	parent := expand(t, f, 400, 4, day(2024, time.January, 10))

	group, err := f.entries().ListInstallmentGroup(ctx, parent)
	require.NoError(t, err)
	require.Len(t, group, 4)
	for i, e := range group {
		assert.Equal(t, i+1, e.InstallmentIndex)
	}

	_, err = f.entries().ListInstallmentGroup(ctx, "missing")
	require.ErrorIs(t, err, domain.ErrInstallmentGroupNotFound)
}
