package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/famledger/internal/infrastructure/postgres/generated"
	"github.com/iho/famledger/internal/usecase"
)

type txStarter interface {
	BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error)
}

// TxManager opens the pgx transactions engine batches are written in.
type TxManager struct {
	pool txStarter
	opts pgx.TxOptions
}

// TxManagerOption configures a TxManager.
type TxManagerOption func(*TxManager)

// WithIsolation sets the isolation level of every batch transaction. The
// server default applies when unset.
func WithIsolation(level pgx.TxIsoLevel) TxManagerOption {
	return func(m *TxManager) {
		m.opts.IsoLevel = level
	}
}

// NewTxManager creates a TxManager over pool.
func NewTxManager(pool *pgxpool.Pool, opts ...TxManagerOption) *TxManager {
	return newTxManager(pool, opts...)
}

func newTxManager(pool txStarter, opts ...TxManagerOption) *TxManager {
	m := &TxManager{pool: pool}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Begin starts a batch transaction.
func (m *TxManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	tx, err := m.pool.BeginTx(ctx, m.opts)
	if err != nil {
		return nil, fmt.Errorf("postgres: begin batch: %w", err)
	}
	return &Tx{tx: tx}, nil
}

// Tx is one batch transaction. After Commit, successful or not, Rollback is
// a no-op so callers can always defer it.
type Tx struct {
	tx     pgx.Tx
	closed bool
}

// Commit commits the batch.
func (t *Tx) Commit(ctx context.Context) error {
	t.closed = true
	return t.tx.Commit(ctx)
}

// Rollback discards the batch unless it was already committed.
func (t *Tx) Rollback(ctx context.Context) error {
	if t.closed {
		return nil
	}
	t.closed = true
	return t.tx.Rollback(ctx)
}

// txQueries binds the generated queries to a batch transaction opened by
// TxManager.
func txQueries(tx usecase.Transaction) (*generated.Queries, error) {
	pgTx, ok := tx.(*Tx)
	if !ok {
		return nil, fmt.Errorf("postgres: unexpected transaction type %T", tx)
	}
	if pgTx.closed {
		return nil, fmt.Errorf("postgres: batch transaction already finished")
	}
	return generated.New(pgTx.tx), nil
}
