package handler

import (
	"context"
	"net/http"

	"github.com/iho/famledger/internal/adapter/http/dto"
	"github.com/iho/famledger/internal/domain"
)

// DuplicateService finds and prunes duplicate entries.
type DuplicateService interface {
	FindExact(ctx context.Context, month domain.YearMonth) ([]domain.DuplicateCluster, error)
	PruneRuleDuplicates(ctx context.Context) (int, error)
}

// DuplicateHandler handles duplicate reconciliation HTTP requests.
type DuplicateHandler struct {
	duplicates DuplicateService
}

// NewDuplicateHandler creates a new DuplicateHandler.
func NewDuplicateHandler(duplicates DuplicateService) *DuplicateHandler {
	return &DuplicateHandler{duplicates: duplicates}
}

// List reports exact duplicates within a month.
func (h *DuplicateHandler) List(w http.ResponseWriter, r *http.Request) {
	month, err := parseMonthQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid period", err.Error())
		return
	}

	clusters, err := h.duplicates.FindExact(r.Context(), month)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to find duplicates", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ClustersFromDomain(clusters))
}

// Prune deletes extra fixed entries sharing a rule and month.
func (h *DuplicateHandler) Prune(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.duplicates.PruneRuleDuplicates(r.Context())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to prune duplicates", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.CountResponse{Count: deleted})
}
