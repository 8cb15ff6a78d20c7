package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/iho/famledger/internal/domain"
	"github.com/iho/famledger/internal/usecase"
)

// RuleRepository implements usecase.RecurrenceRuleRepository.
type RuleRepository struct {
	store *Store
}

// Create stages a rule insert.
func (r *RuleRepository) Create(ctx context.Context, tx usecase.Transaction, rule *domain.RecurrenceRule) error {
	c := cloneRule(rule)
	return stage(tx, func(s *state) error {
		if _, exists := s.rules[c.ID]; exists {
			return fmt.Errorf("memory: duplicate rule id %s", c.ID)
		}
		s.rules[c.ID] = c
		return nil
	})
}

// Update stages a full rule replacement.
func (r *RuleRepository) Update(ctx context.Context, tx usecase.Transaction, rule *domain.RecurrenceRule) error {
	c := cloneRule(rule)
	return stage(tx, func(s *state) error {
		if _, exists := s.rules[c.ID]; !exists {
			return fmt.Errorf("%w: %s", domain.ErrRuleNotFound, c.ID)
		}
		s.rules[c.ID] = c
		return nil
	})
}

// GetByID returns one rule.
func (r *RuleRepository) GetByID(ctx context.Context, id string) (*domain.RecurrenceRule, error) {
	var found *domain.RecurrenceRule
	r.store.read(func(s *state) {
		if rule, ok := s.rules[id]; ok {
			found = cloneRule(rule)
		}
	})
	if found == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrRuleNotFound, id)
	}
	return found, nil
}

// List returns every rule ordered by start date, then id.
func (r *RuleRepository) List(ctx context.Context) ([]*domain.RecurrenceRule, error) {
	return r.filter(func(*domain.RecurrenceRule) bool { return true }), nil
}

// ListActive returns active rules ordered by start date, then id.
func (r *RuleRepository) ListActive(ctx context.Context) ([]*domain.RecurrenceRule, error) {
	return r.filter(func(rule *domain.RecurrenceRule) bool { return rule.IsActive }), nil
}

func (r *RuleRepository) filter(keep func(*domain.RecurrenceRule) bool) []*domain.RecurrenceRule {
	result := make([]*domain.RecurrenceRule, 0)
	r.store.read(func(s *state) {
		for _, rule := range s.rules {
			if keep(rule) {
				result = append(result, cloneRule(rule))
			}
		}
	})
	sort.Slice(result, func(i, j int) bool {
		if !result[i].StartDate.Equal(result[j].StartDate) {
			return result[i].StartDate.Before(result[j].StartDate)
		}
		return result[i].ID < result[j].ID
	})
	return result
}
