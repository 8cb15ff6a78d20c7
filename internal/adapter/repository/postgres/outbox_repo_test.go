package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/famledger/internal/domain"
)

func TestOutboxRepositoryCreate(t *testing.T) {
	pool := newMockPool(t)
	repo := NewOutboxRepository(pool)
	tx := beginTx(t, pool)

	pool.ExpectExec("INSERT INTO outbox_events").
		WithArgs("ev1", "p1", domain.AggregateTypeInstallmentGroup, domain.EventTypeInstallmentsCreated,
			[]byte(`{"total_installments":3}`), pgxmock.AnyArg(), false).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := repo.Create(context.Background(), tx, &domain.OutboxEvent{
		ID:            "ev1",
		AggregateID:   "p1",
		AggregateType: domain.AggregateTypeInstallmentGroup,
		EventType:     domain.EventTypeInstallmentsCreated,
		Payload:       map[string]any{"total_installments": 3},
		CreatedAt:     time.Now(),
	})
	require.NoError(t, err)
	assertExpectations(t, pool)
}

func TestOutboxRepositoryGetUnpublished(t *testing.T) {
	pool := newMockPool(t)
	repo := NewOutboxRepository(pool)

	created := pgtype.Timestamptz{Time: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Valid: true}
	pool.ExpectQuery("FROM outbox_events").WithArgs(int32(10)).WillReturnRows(
		pgxmock.NewRows([]string{"id", "aggregate_id", "aggregate_type", "event_type", "payload", "created_at", "published_at", "published"}).
			AddRow("ev1", "r1", domain.AggregateTypeRecurrenceRule, domain.EventTypeRecurrenceRetired,
				[]byte(`{"deleted":2}`), created, pgtype.Timestamptz{}, false))

	events, err := repo.GetUnpublished(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, domain.EventTypeRecurrenceRetired, events[0].EventType)
	assert.EqualValues(t, 2, events[0].Payload["deleted"])
	assert.Nil(t, events[0].PublishedAt)
	assertExpectations(t, pool)
}

func TestOutboxRepositoryMarkAndDelete(t *testing.T) {
	pool := newMockPool(t)
	repo := NewOutboxRepository(pool)
	at := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	pool.ExpectExec("UPDATE outbox_events SET published").
		WithArgs("ev1", pgtype.Timestamptz{Time: at, Valid: true}).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	pool.ExpectExec("DELETE FROM outbox_events").
		WithArgs(pgtype.Timestamptz{Time: at, Valid: true}).
		WillReturnResult(pgxmock.NewResult("DELETE", 3))

	require.NoError(t, repo.MarkPublished(context.Background(), "ev1", at))
	require.NoError(t, repo.DeletePublished(context.Background(), at))
	assertExpectations(t, pool)
}
