package handler

import (
	"context"
	"net/http"

	"github.com/iho/famledger/internal/adapter/http/dto"
	"github.com/iho/famledger/internal/domain"
)

// SummaryService computes month summaries.
type SummaryService interface {
	MonthSummary(ctx context.Context, month domain.YearMonth) (*domain.MonthSummary, error)
}

// SummaryHandler handles summary HTTP requests.
type SummaryHandler struct {
	summaries SummaryService
}

// NewSummaryHandler creates a new SummaryHandler.
func NewSummaryHandler(summaries SummaryService) *SummaryHandler {
	return &SummaryHandler{summaries: summaries}
}

// Get returns the totals of a month.
func (h *SummaryHandler) Get(w http.ResponseWriter, r *http.Request) {
	month, err := parseMonthQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid period", err.Error())
		return
	}

	summary, err := h.summaries.MonthSummary(r.Context(), month)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to compute summary", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.SummaryFromDomain(summary))
}
