package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/famledger/internal/adapter/http/dto"
	"github.com/iho/famledger/internal/domain"
	"github.com/iho/famledger/internal/usecase"
)

type entryServiceStub struct {
	created []usecase.CreateEntryInput
	month   domain.YearMonth
	deleted []string
}

func (s *entryServiceStub) CreateEntries(ctx context.Context, inputs []usecase.CreateEntryInput) ([]*domain.Entry, error) {
	s.created = inputs
	entries := make([]*domain.Entry, len(inputs))
	for i, in := range inputs {
		entries[i] = &domain.Entry{ID: "e", Date: in.Date, Amount: in.Amount, Type: in.Type}
	}
	return entries, nil
}

func (s *entryServiceStub) GetEntry(ctx context.Context, id string) (*domain.Entry, error) {
	if id == "missing" {
		return nil, domain.ErrEntryNotFound
	}
	return &domain.Entry{ID: id, Amount: decimal.NewFromInt(1)}, nil
}

func (s *entryServiceStub) ListByMonth(ctx context.Context, month domain.YearMonth) ([]*domain.Entry, error) {
	s.month = month
	return []*domain.Entry{}, nil
}

func (s *entryServiceStub) DeleteEntries(ctx context.Context, ids []string) (int, error) {
	s.deleted = ids
	return len(ids), nil
}

type duplicateServiceStub struct {
	err error
}

func (s duplicateServiceStub) FindExact(ctx context.Context, month domain.YearMonth) ([]domain.DuplicateCluster, error) {
	return []domain.DuplicateCluster{}, s.err
}

func (s duplicateServiceStub) PruneRuleDuplicates(ctx context.Context) (int, error) {
	return 2, s.err
}

type summaryServiceStub struct{}

func (summaryServiceStub) MonthSummary(ctx context.Context, month domain.YearMonth) (*domain.MonthSummary, error) {
	return domain.Summarize(month, nil), nil
}

func TestEntryHandler_Create(t *testing.T) {
	svc := &entryServiceStub{}
	h := NewEntryHandler(svc)

	body := `{"entries":[{"date":"2024-02-10","description":"Mercado","amount":"250.40","type":"expense","category":"Alimentação"}]}`
	rec := httptest.NewRecorder()
	h.Create(rec, httptest.NewRequest(http.MethodPost, "/entries", bytes.NewBufferString(body)))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(svc.created) != 1 || !svc.created[0].Date.Equal(time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected inputs: %+v", svc.created)
	}
}

func TestEntryHandler_ListRequiresPeriod(t *testing.T) {
	svc := &entryServiceStub{}
	h := NewEntryHandler(svc)

	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/entries?year=2024", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/entries?year=2024&month=7", nil))
	if rec.Code != http.StatusOK || svc.month.String() != "2024-07" {
		t.Fatalf("expected 200 for 2024-07, got %d month=%s", rec.Code, svc.month)
	}
	if rec.Body.String() != "[]\n" {
		t.Fatalf("expected empty JSON array, got %q", rec.Body.String())
	}
}

func TestEntryHandler_GetAndDelete(t *testing.T) {
	svc := &entryServiceStub{}
	h := NewEntryHandler(svc)

	rec := httptest.NewRecorder()
	h.Get(rec, withURLParam(httptest.NewRequest(http.MethodGet, "/entries/missing", nil), "id", "missing"))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.Delete(rec, httptest.NewRequest(http.MethodPost, "/entries/delete", bytes.NewBufferString(`{"ids":["a","b"]}`)))
	var resp dto.CountResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil || resp.Count != 2 {
		t.Fatalf("expected count 2, got %+v err=%v", resp, err)
	}
}

func TestDuplicateHandler(t *testing.T) {
	h := NewDuplicateHandler(duplicateServiceStub{})

	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/duplicates?year=2024&month=1", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.Prune(rec, httptest.NewRequest(http.MethodPost, "/duplicates/prune", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	failing := NewDuplicateHandler(duplicateServiceStub{err: &domain.BatchError{Op: "prune_duplicates", Err: errors.New("down")}})
	rec = httptest.NewRecorder()
	failing.Prune(rec, httptest.NewRequest(http.MethodPost, "/duplicates/prune", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestSummaryHandler(t *testing.T) {
	h := NewSummaryHandler(summaryServiceStub{})

	rec := httptest.NewRecorder()
	h.Get(rec, httptest.NewRequest(http.MethodGet, "/summary?year=2024&month=3", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp dto.SummaryResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if resp.Month != "2024-03" || resp.Balance != "0.00" || len(resp.Pillars) != len(domain.Pillars) {
		t.Fatalf("unexpected summary: %+v", resp)
	}
}

func TestHealthHandlerReadiness(t *testing.T) {
	h := NewHealthHandler(map[string]Check{
		"postgres": func(ctx context.Context) error { return nil },
	})

	rec := httptest.NewRecorder()
	h.Readiness(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	h = NewHealthHandler(map[string]Check{
		"redis": func(ctx context.Context) error { return errors.New("refused") },
	})
	rec = httptest.NewRecorder()
	h.Readiness(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}
