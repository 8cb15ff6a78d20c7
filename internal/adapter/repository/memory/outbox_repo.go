package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/iho/famledger/internal/domain"
	"github.com/iho/famledger/internal/usecase"
)

// OutboxRepository implements usecase.OutboxRepository.
type OutboxRepository struct {
	store *Store
}

// Create stages an event insert.
func (r *OutboxRepository) Create(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error {
	c := *event
	return stage(tx, func(s *state) error {
		if _, exists := s.events[c.ID]; exists {
			return fmt.Errorf("memory: duplicate event id %s", c.ID)
		}
		s.events[c.ID] = &c
		return nil
	})
}

// GetUnpublished returns up to limit unpublished events, oldest first.
func (r *OutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	events := r.filter(func(e *domain.OutboxEvent) bool { return !e.Published })
	if limit > 0 && len(events) > limit {
		events = events[:limit]
	}
	return events, nil
}

// MarkPublished flags an event as published.
func (r *OutboxRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	return r.store.apply([]func(*state) error{func(s *state) error {
		current, ok := s.events[id]
		if !ok {
			return fmt.Errorf("memory: event %s not found", id)
		}
		e := *current
		e.Published = true
		e.PublishedAt = &publishedAt
		s.events[id] = &e
		return nil
	}})
}

// DeletePublished removes events published before the cutoff.
func (r *OutboxRepository) DeletePublished(ctx context.Context, before time.Time) error {
	return r.store.apply([]func(*state) error{func(s *state) error {
		for id, e := range s.events {
			if e.Published && e.PublishedAt != nil && e.PublishedAt.Before(before) {
				delete(s.events, id)
			}
		}
		return nil
	}})
}

// All returns every event, oldest first.
func (r *OutboxRepository) All() []*domain.OutboxEvent {
	return r.filter(func(*domain.OutboxEvent) bool { return true })
}

func (r *OutboxRepository) filter(keep func(*domain.OutboxEvent) bool) []*domain.OutboxEvent {
	result := make([]*domain.OutboxEvent, 0)
	r.store.read(func(s *state) {
		for _, e := range s.events {
			if keep(e) {
				c := *e
				result = append(result, &c)
			}
		}
	})
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})
	return result
}
