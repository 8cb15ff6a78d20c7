package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/iho/famledger/internal/adapter/http/dto"
	"github.com/iho/famledger/internal/domain"
	"github.com/iho/famledger/internal/usecase"
)

// RecurrenceService manages recurrence rules.
type RecurrenceService interface {
	Generate(ctx context.Context, rule *domain.RecurrenceRule, monthsToGenerate int) (*usecase.GenerateResult, error)
	GenerateForRule(ctx context.Context, ruleID string, monthsToGenerate int) (*usecase.GenerateResult, error)
	RetireFrom(ctx context.Context, ruleID string, fromDate time.Time) (*usecase.RetireResult, error)
	ListRules(ctx context.Context) ([]*domain.RecurrenceRule, error)
}

// RecurringHandler handles recurrence rule HTTP requests.
type RecurringHandler struct {
	rules RecurrenceService
}

// NewRecurringHandler creates a new RecurringHandler.
func NewRecurringHandler(rules RecurrenceService) *RecurringHandler {
	return &RecurringHandler{rules: rules}
}

// Create stores a new rule and generates its first months.
func (h *RecurringHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateRecurringRuleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	rule, err := req.ToDomain()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid recurring rule", err.Error())
		return
	}

	result, err := h.rules.Generate(r.Context(), rule, req.Months)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create recurring rule", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.GenerateFromUseCase(result))
}

// Generate fills missing months of an existing rule.
func (h *RecurringHandler) Generate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req dto.GenerateRequest
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := h.rules.GenerateForRule(r.Context(), id, req.Months)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to generate recurring entries", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.GenerateFromUseCase(result))
}

// Retire stops a rule from a date onwards.
func (h *RecurringHandler) Retire(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req dto.RetireRuleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	from, err := req.ParseFromDate()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid retirement date", err.Error())
		return
	}

	result, err := h.rules.RetireFrom(r.Context(), id, from)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to retire recurring rule", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.RetireFromUseCase(result))
}

// List returns every rule.
func (h *RecurringHandler) List(w http.ResponseWriter, r *http.Request) {
	rules, err := h.rules.ListRules(r.Context())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list recurring rules", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.RulesFromDomain(rules))
}
