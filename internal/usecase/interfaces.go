package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/famledger/internal/domain"
)

// EntryPatch is a partial update of one entry. Nil fields are left untouched.
type EntryPatch struct {
	UpdatedAt         time.Time
	Amount            *decimal.Decimal
	Description       *string
	TotalInstallments *int
	ID                string
}

// EntryRepository defines data access for ledger entries.
type EntryRepository interface {
	CreateMany(ctx context.Context, tx Transaction, entries []*domain.Entry) error
	UpdateMany(ctx context.Context, tx Transaction, patches []EntryPatch) error
	DeleteMany(ctx context.Context, tx Transaction, ids []string) error
	GetByID(ctx context.Context, id string) (*domain.Entry, error)
	// ListByParent returns an installment group in any order.
	ListByParent(ctx context.Context, parentTransactionID string) ([]*domain.Entry, error)
	// ListByRule returns the rule's entries dated within [from, to].
	ListByRule(ctx context.Context, ruleID string, from, to time.Time) ([]*domain.Entry, error)
	// ListByRuleFrom returns the rule's entries dated on or after from.
	ListByRuleFrom(ctx context.Context, ruleID string, from time.Time) ([]*domain.Entry, error)
	// ListFixed returns every fixed entry ordered by date, then id.
	ListFixed(ctx context.Context) ([]*domain.Entry, error)
	// ListByDateRange returns entries dated within [from, to] ordered by date, then id.
	ListByDateRange(ctx context.Context, from, to time.Time) ([]*domain.Entry, error)
	// TotalsBefore sums income and expense of every entry dated before day.
	TotalsBefore(ctx context.Context, day time.Time) (domain.Totals, error)
}

// RecurrenceRuleRepository defines data access for recurrence rules.
type RecurrenceRuleRepository interface {
	Create(ctx context.Context, tx Transaction, rule *domain.RecurrenceRule) error
	Update(ctx context.Context, tx Transaction, rule *domain.RecurrenceRule) error
	GetByID(ctx context.Context, id string) (*domain.RecurrenceRule, error)
	List(ctx context.Context) ([]*domain.RecurrenceRule, error)
	ListActive(ctx context.Context) ([]*domain.RecurrenceRule, error)
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	DeletePublished(ctx context.Context, before time.Time) error
}

// SettingsRepository stores the household settings.
type SettingsRepository interface {
	// Get returns the saved settings, or domain.DefaultSettings when nothing
	// was saved yet.
	Get(ctx context.Context) (*domain.Settings, error)
	Save(ctx context.Context, tx Transaction, settings *domain.Settings) error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// ErrCacheMiss is returned by Cache.Get when the key is absent.
var ErrCacheMiss = errors.New("cache miss")

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release drops a claimed key so the request can be retried.
	Release(ctx context.Context, key string) error
}
