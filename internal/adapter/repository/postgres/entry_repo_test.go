package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/famledger/internal/domain"
	"github.com/iho/famledger/internal/usecase"
)

var transactionColumns = []string{
	"id", "description", "amount", "entry_date", "type", "category", "pillar", "payment_method",
	"card_source", "is_fixed", "installment_index", "total_installments", "parent_transaction_id",
	"recurring_rule_id", "created_at", "updated_at",
}

func beginTx(t *testing.T, pool pgxmock.PgxPoolIface) usecase.Transaction {
	t.Helper()
	pool.ExpectBegin()
	tx, err := newTxManager(pool).Begin(context.Background())
	require.NoError(t, err)
	return tx
}

func TestEntryRepositoryCreateMany(t *testing.T) {
	pool := newMockPool(t)
	repo := NewEntryRepository(pool)
	tx := beginTx(t, pool)

	now := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
	entries := []*domain.Entry{
		{ID: "e1", Description: "TV (1/2)", Amount: decimal.NewFromInt(50), Date: now, Type: domain.EntryTypeExpense,
			Category: "Casa", PaymentMethod: domain.PaymentMethodCreditCard, InstallmentIndex: 1, TotalInstallments: 2, ParentTransactionID: "p"},
		{ID: "e2", Description: "TV (2/2)", Amount: decimal.NewFromInt(50), Date: now.AddDate(0, 1, 0), Type: domain.EntryTypeExpense,
			Category: "Casa", PaymentMethod: domain.PaymentMethodCreditCard, InstallmentIndex: 2, TotalInstallments: 2, ParentTransactionID: "p"},
	}

	pool.ExpectExec("INSERT INTO transactions").
		WithArgs("e1", "TV (1/2)", pgxmock.AnyArg(), pgxmock.AnyArg(), "expense", "Casa", pgtype.Text{}, "credit_card",
			pgtype.Text{}, false, pgtype.Int4{Int32: 1, Valid: true}, pgtype.Int4{Int32: 2, Valid: true},
			pgtype.Text{String: "p", Valid: true}, pgtype.Text{}, pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	pool.ExpectExec("INSERT INTO transactions").WillReturnResult(pgxmock.NewResult("INSERT", 1))
	pool.ExpectCommit()

	require.NoError(t, repo.CreateMany(context.Background(), tx, entries))
	require.NoError(t, tx.Commit(context.Background()))
	assertExpectations(t, pool)
}

func TestEntryRepositoryCreateManyStopsOnError(t *testing.T) {
	pool := newMockPool(t)
	repo := NewEntryRepository(pool)
	tx := beginTx(t, pool)

	pool.ExpectExec("INSERT INTO transactions").WillReturnError(assert.AnError)
	pool.ExpectRollback()

	err := repo.CreateMany(context.Background(), tx, []*domain.Entry{{ID: "e1"}, {ID: "e2"}})
	require.ErrorIs(t, err, assert.AnError)
	require.NoError(t, tx.Rollback(context.Background()))
	assertExpectations(t, pool)
}

func TestEntryRepositoryUpdateManyMissingRow(t *testing.T) {
	pool := newMockPool(t)
	repo := NewEntryRepository(pool)
	tx := beginTx(t, pool)

	amount := decimal.RequireFromString("33.33")
	pool.ExpectExec("UPDATE transactions SET").WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	pool.ExpectExec("UPDATE transactions SET").WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.UpdateMany(context.Background(), tx, []usecase.EntryPatch{
		{ID: "e1", Amount: &amount},
		{ID: "gone", Amount: &amount},
	})
	require.ErrorIs(t, err, domain.ErrEntryNotFound)
	assertExpectations(t, pool)
}

func TestEntryRepositoryDeleteMany(t *testing.T) {
	pool := newMockPool(t)
	repo := NewEntryRepository(pool)
	tx := beginTx(t, pool)

	pool.ExpectExec("DELETE FROM transactions").
		WithArgs([]string{"e1", "e2"}).
		WillReturnResult(pgxmock.NewResult("DELETE", 2))

	require.NoError(t, repo.DeleteMany(context.Background(), tx, []string{"e1", "e2"}))
	require.NoError(t, repo.DeleteMany(context.Background(), tx, nil))
	assertExpectations(t, pool)
}

func TestEntryRepositoryRejectsForeignTransaction(t *testing.T) {
	repo := NewEntryRepository(newMockPool(t))

	err := repo.CreateMany(context.Background(), foreignTx{}, []*domain.Entry{{ID: "e1"}})
	require.Error(t, err)
}

func TestEntryRepositoryGetByIDNotFound(t *testing.T) {
	pool := newMockPool(t)
	repo := NewEntryRepository(pool)

	pool.ExpectQuery("FROM transactions").WithArgs("missing").WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	require.ErrorIs(t, err, domain.ErrEntryNotFound)
	assertExpectations(t, pool)
}

func TestEntryRepositoryListByParent(t *testing.T) {
	pool := newMockPool(t)
	repo := NewEntryRepository(pool)

	created := pgtype.Timestamptz{Time: time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC), Valid: true}
	rows := pgxmock.NewRows(transactionColumns).
		AddRow("e1", "TV (1/2)", decimalToNumeric(decimal.RequireFromString("49.95")),
			pgtype.Date{Time: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), Valid: true},
			"expense", "Casa", pgtype.Text{String: "Guilty-free", Valid: true}, "credit_card",
			pgtype.Text{String: "Nubank", Valid: true}, false,
			pgtype.Int4{Int32: 1, Valid: true}, pgtype.Int4{Int32: 2, Valid: true},
			pgtype.Text{String: "p", Valid: true}, pgtype.Text{}, created, created)

	pool.ExpectQuery("WHERE parent_transaction_id").WillReturnRows(rows)

	entries, err := repo.ListByParent(context.Background(), "p")
	require.NoError(t, err)
	require.Len(t, entries, 1)

	e := entries[0]
	assert.Equal(t, "e1", e.ID)
	assert.True(t, decimal.RequireFromString("49.95").Equal(e.Amount))
	assert.Equal(t, time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), e.Date)
	assert.Equal(t, domain.PillarGuiltyFree, e.Pillar)
	assert.Equal(t, "Nubank", e.CardSource)
	assert.Equal(t, 1, e.InstallmentIndex)
	assert.Equal(t, 2, e.TotalInstallments)
	assert.Empty(t, e.RecurringRuleID)
	assertExpectations(t, pool)
}

type foreignTx struct{}

func (foreignTx) Commit(context.Context) error   { return nil }
func (foreignTx) Rollback(context.Context) error { return nil }

func TestEntryRepositoryTotalsBefore(t *testing.T) {
	pool := newMockPool(t)
	repo := NewEntryRepository(pool)
	march := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	pool.ExpectQuery("FROM transactions").
		WithArgs(pgtype.Date{Time: march, Valid: true}).
		WillReturnRows(pgxmock.NewRows([]string{"income", "expense"}).AddRow(
			decimalToNumeric(decimal.NewFromInt(10000)),
			decimalToNumeric(decimal.RequireFromString("7250.40")),
		))

	totals, err := repo.TotalsBefore(context.Background(), march)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(10000).Equal(totals.Income))
	assert.True(t, decimal.RequireFromString("7250.40").Equal(totals.Expense))
	assertExpectations(t, pool)
}
