package usecase_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/iho/famledger/internal/adapter/repository/memory"
	"github.com/iho/famledger/internal/domain"
	"github.com/iho/famledger/internal/usecase"
)

type seqIDs struct {
	mu sync.Mutex
	n  int
}

func (g *seqIDs) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("id-%04d", g.n)
}

type mapCache struct {
	mu   sync.Mutex
	data map[string][]byte
	gets int
}

func newMapCache() *mapCache {
	return &mapCache{data: make(map[string][]byte)}
}

func (c *mapCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	v, ok := c.data[key]
	if !ok {
		return nil, usecase.ErrCacheMiss
	}
	return v, nil
}

func (c *mapCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func (c *mapCache) Delete(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

func (c *mapCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[key]
	return ok
}

type fixture struct {
	store *memory.Store
	ids   *seqIDs
	cache *mapCache
}

func newFixture() *fixture {
	return &fixture{store: memory.NewStore(), ids: &seqIDs{}, cache: newMapCache()}
}

func (f *fixture) opts() usecase.Options {
	return usecase.Options{Cache: f.cache}
}

func (f *fixture) installments() *usecase.InstallmentUseCase {
	return usecase.NewInstallmentUseCase(f.store, f.store.Entries(), f.store.Outbox(), f.ids, f.opts())
}

func (f *fixture) recurrence() *usecase.RecurrenceUseCase {
	return usecase.NewRecurrenceUseCase(f.store, f.store.Rules(), f.store.Entries(), f.store.Outbox(), f.ids, f.opts())
}

func (f *fixture) duplicates() *usecase.DuplicateUseCase {
	return usecase.NewDuplicateUseCase(f.store, f.store.Entries(), f.store.Outbox(), f.ids, f.opts())
}

func (f *fixture) entries() *usecase.EntryUseCase {
	return usecase.NewEntryUseCase(f.store, f.store.Entries(), f.store.Outbox(), f.ids, f.opts())
}

func (f *fixture) settings() *usecase.SettingsUseCase {
	return usecase.NewSettingsUseCase(f.store, f.store.Settings(), f.store.Outbox(), f.ids, f.opts())
}

func (f *fixture) summaries() *usecase.SummaryUseCase {
	return usecase.NewSummaryUseCase(f.store.Entries(), f.store.Settings(), time.Minute, f.opts())
}

func decimalPtr(n int64) *decimal.Decimal {
	d := decimal.NewFromInt(n)
	return &d
}

func (f *fixture) group(t *testing.T, parentID string) []*domain.Entry {
	t.Helper()
	entries, err := f.store.Entries().ListByParent(context.Background(), parentID)
	require.NoError(t, err)
	return entries
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
