package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/famledger/internal/domain"
	"github.com/iho/famledger/internal/usecase"
)

// EntryRepository implements usecase.EntryRepository.
type EntryRepository struct {
	store *Store
}

// CreateMany stages entry inserts. Reused ids fail the commit.
func (r *EntryRepository) CreateMany(ctx context.Context, tx usecase.Transaction, entries []*domain.Entry) error {
	copies := make([]*domain.Entry, len(entries))
	for i, e := range entries {
		copies[i] = cloneEntry(e)
	}

	return stage(tx, func(s *state) error {
		for _, e := range copies {
			if _, exists := s.entries[e.ID]; exists {
				return fmt.Errorf("memory: duplicate entry id %s", e.ID)
			}
			s.entries[e.ID] = e
		}
		return nil
	})
}

// UpdateMany stages patches. An unknown id fails the commit.
func (r *EntryRepository) UpdateMany(ctx context.Context, tx usecase.Transaction, patches []usecase.EntryPatch) error {
	staged := make([]usecase.EntryPatch, len(patches))
	copy(staged, patches)

	return stage(tx, func(s *state) error {
		for _, p := range staged {
			current, ok := s.entries[p.ID]
			if !ok {
				return fmt.Errorf("%w: %s", domain.ErrEntryNotFound, p.ID)
			}
			e := cloneEntry(current)
			if p.Amount != nil {
				e.Amount = *p.Amount
			}
			if p.Description != nil {
				e.Description = *p.Description
			}
			if p.TotalInstallments != nil {
				e.TotalInstallments = *p.TotalInstallments
			}
			e.UpdatedAt = p.UpdatedAt
			s.entries[p.ID] = e
		}
		return nil
	})
}

// DeleteMany stages deletes. Missing ids are ignored.
func (r *EntryRepository) DeleteMany(ctx context.Context, tx usecase.Transaction, ids []string) error {
	staged := make([]string, len(ids))
	copy(staged, ids)

	return stage(tx, func(s *state) error {
		for _, id := range staged {
			delete(s.entries, id)
		}
		return nil
	})
}

// GetByID returns one entry.
func (r *EntryRepository) GetByID(ctx context.Context, id string) (*domain.Entry, error) {
	var found *domain.Entry
	r.store.read(func(s *state) {
		if e, ok := s.entries[id]; ok {
			found = cloneEntry(e)
		}
	})
	if found == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrEntryNotFound, id)
	}
	return found, nil
}

// ListByParent returns a group ordered by installment index.
func (r *EntryRepository) ListByParent(ctx context.Context, parentTransactionID string) ([]*domain.Entry, error) {
	entries := r.filter(func(e *domain.Entry) bool {
		return e.ParentTransactionID == parentTransactionID
	})
	domain.SortEntriesByInstallment(entries)
	return entries, nil
}

// ListByRule returns the rule's entries dated within [from, to].
func (r *EntryRepository) ListByRule(ctx context.Context, ruleID string, from, to time.Time) ([]*domain.Entry, error) {
	entries := r.filter(func(e *domain.Entry) bool {
		return e.RecurringRuleID == ruleID && inRange(e.Date, from, to)
	})
	domain.SortEntriesByDate(entries)
	return entries, nil
}

// ListByRuleFrom returns the rule's entries dated on or after from.
func (r *EntryRepository) ListByRuleFrom(ctx context.Context, ruleID string, from time.Time) ([]*domain.Entry, error) {
	entries := r.filter(func(e *domain.Entry) bool {
		return e.RecurringRuleID == ruleID && !e.Date.Before(from)
	})
	domain.SortEntriesByDate(entries)
	return entries, nil
}

// ListFixed returns fixed entries ordered by date, then id.
func (r *EntryRepository) ListFixed(ctx context.Context) ([]*domain.Entry, error) {
	entries := r.filter(func(e *domain.Entry) bool { return e.IsFixed })
	domain.SortEntriesByDate(entries)
	return entries, nil
}

// ListByDateRange returns entries dated within [from, to] ordered by date, then id.
func (r *EntryRepository) ListByDateRange(ctx context.Context, from, to time.Time) ([]*domain.Entry, error) {
	entries := r.filter(func(e *domain.Entry) bool { return inRange(e.Date, from, to) })
	domain.SortEntriesByDate(entries)
	return entries, nil
}

// TotalsBefore sums income and expense of entries dated before day.
func (r *EntryRepository) TotalsBefore(ctx context.Context, day time.Time) (domain.Totals, error) {
	totals := domain.Totals{Income: decimal.Zero, Expense: decimal.Zero}
	r.store.read(func(s *state) {
		for _, e := range s.entries {
			if !e.Date.Before(day) {
				continue
			}
			switch e.Type {
			case domain.EntryTypeIncome:
				totals.Income = totals.Income.Add(e.Amount)
			case domain.EntryTypeExpense:
				totals.Expense = totals.Expense.Add(e.Amount)
			}
		}
	})
	return totals, nil
}

// All returns every entry ordered by date, then id.
func (r *EntryRepository) All() []*domain.Entry {
	entries := r.filter(func(*domain.Entry) bool { return true })
	domain.SortEntriesByDate(entries)
	return entries
}

func (r *EntryRepository) filter(keep func(e *domain.Entry) bool) []*domain.Entry {
	result := make([]*domain.Entry, 0)
	r.store.read(func(s *state) {
		for _, e := range s.entries {
			if keep(e) {
				result = append(result, cloneEntry(e))
			}
		}
	})
	return result
}

func inRange(t, from, to time.Time) bool {
	return !t.Before(from) && !t.After(to)
}
