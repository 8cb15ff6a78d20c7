// Package memory is an in-process store implementing the repository and
// transaction interfaces. Writes are staged on a Tx and applied all at once
// on Commit, or not at all.
package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/iho/famledger/internal/domain"
	"github.com/iho/famledger/internal/usecase"
)

// ErrTxDone is returned when a committed or rolled back Tx is reused.
var ErrTxDone = errors.New("memory: transaction already closed")

type state struct {
	entries  map[string]*domain.Entry
	rules    map[string]*domain.RecurrenceRule
	events   map[string]*domain.OutboxEvent
	settings *domain.Settings
}

func (s *state) clone() *state {
	c := &state{
		entries:  make(map[string]*domain.Entry, len(s.entries)),
		rules:    make(map[string]*domain.RecurrenceRule, len(s.rules)),
		events:   make(map[string]*domain.OutboxEvent, len(s.events)),
		settings: s.settings, // replaced on save, never mutated
	}
	for k, v := range s.entries {
		c.entries[k] = v
	}
	for k, v := range s.rules {
		c.rules[k] = v
	}
	for k, v := range s.events {
		c.events[k] = v
	}
	return c
}

// Store holds entries, rules, settings and outbox events.
type Store struct {
	data      *state
	commitErr error
	mu        sync.RWMutex
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{data: (&state{}).clone()}
}

// Begin starts a transaction.
func (s *Store) Begin(ctx context.Context) (usecase.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &Tx{store: s}, nil
}

// FailCommits makes every following Commit fail with err, leaving the store
// untouched. Pass nil to restore normal commits.
func (s *Store) FailCommits(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commitErr = err
}

// Seed inserts entries directly, bypassing validation and transactions.
func (s *Store) Seed(entries ...*domain.Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range entries {
		s.data.entries[e.ID] = cloneEntry(e)
	}
}

// SeedRules inserts rules directly.
func (s *Store) SeedRules(rules ...*domain.RecurrenceRule) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range rules {
		s.data.rules[r.ID] = cloneRule(r)
	}
}

// Entries returns the entry repository view of the store.
func (s *Store) Entries() *EntryRepository {
	return &EntryRepository{store: s}
}

// Rules returns the rule repository view of the store.
func (s *Store) Rules() *RuleRepository {
	return &RuleRepository{store: s}
}

// Settings returns the settings repository view of the store.
func (s *Store) Settings() *SettingsRepository {
	return &SettingsRepository{store: s}
}

// Outbox returns the outbox repository view of the store.
func (s *Store) Outbox() *OutboxRepository {
	return &OutboxRepository{store: s}
}

func (s *Store) apply(ops []func(*state) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.commitErr != nil {
		return s.commitErr
	}

	next := s.data.clone()
	for _, op := range ops {
		if err := op(next); err != nil {
			return err
		}
	}
	s.data = next

	return nil
}

func (s *Store) read(fn func(*state)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.data)
}

// Tx stages writes until Commit.
type Tx struct {
	store *Store
	ops   []func(*state) error
	done  bool
}

// Commit applies every staged write atomically.
func (t *Tx) Commit(ctx context.Context) error {
	if t.done {
		return ErrTxDone
	}
	t.done = true
	if err := ctx.Err(); err != nil {
		return err
	}
	return t.store.apply(t.ops)
}

// Rollback discards staged writes. It is a no-op after Commit.
func (t *Tx) Rollback(ctx context.Context) error {
	if t.done {
		return nil
	}
	t.done = true
	t.ops = nil
	return nil
}

func (t *Tx) stage(op func(*state) error) error {
	if t.done {
		return ErrTxDone
	}
	t.ops = append(t.ops, op)
	return nil
}

func stage(tx usecase.Transaction, op func(*state) error) error {
	t, ok := tx.(*Tx)
	if !ok {
		return errors.New("memory: foreign transaction")
	}
	return t.stage(op)
}

func cloneEntry(e *domain.Entry) *domain.Entry {
	c := *e
	return &c
}

func cloneRule(r *domain.RecurrenceRule) *domain.RecurrenceRule {
	c := *r
	if r.EndDate != nil {
		end := *r.EndDate
		c.EndDate = &end
	}
	return &c
}
