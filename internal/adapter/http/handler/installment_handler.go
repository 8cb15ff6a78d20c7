package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/famledger/internal/adapter/http/dto"
	"github.com/iho/famledger/internal/domain"
	"github.com/iho/famledger/internal/usecase"
)

// InstallmentService expands and resizes installment groups.
type InstallmentService interface {
	Expand(ctx context.Context, input usecase.ExpandInstallmentsInput) ([]string, error)
	Resize(ctx context.Context, input usecase.ResizeInstallmentsInput) (*usecase.ResizeResult, error)
}

// InstallmentGroupReader reads installment entries back.
type InstallmentGroupReader interface {
	GetEntry(ctx context.Context, id string) (*domain.Entry, error)
	ListInstallmentGroup(ctx context.Context, parentTransactionID string) ([]*domain.Entry, error)
}

// InstallmentHandler handles installment HTTP requests.
type InstallmentHandler struct {
	installments InstallmentService
	groups       InstallmentGroupReader
}

// NewInstallmentHandler creates a new InstallmentHandler.
func NewInstallmentHandler(installments InstallmentService, groups InstallmentGroupReader) *InstallmentHandler {
	return &InstallmentHandler{installments: installments, groups: groups}
}

// Expand splits a purchase into monthly installments.
func (h *InstallmentHandler) Expand(w http.ResponseWriter, r *http.Request) {
	var req dto.ExpandInstallmentsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid installment purchase", err.Error())
		return
	}

	ids, err := h.installments.Expand(r.Context(), input)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to expand installments", err.Error())
		return
	}

	resp := dto.InstallmentGroupResponse{EntryIDs: ids}
	if first, err := h.groups.GetEntry(r.Context(), ids[0]); err == nil {
		resp.ParentTransactionID = first.ParentTransactionID
	}

	writeJSON(w, http.StatusCreated, resp)
}

// Get lists an installment group.
func (h *InstallmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	parentID := chi.URLParam(r, "parentId")
	if parentID == "" {
		writeError(w, http.StatusBadRequest, "missing parent transaction ID", "")
		return
	}

	entries, err := h.groups.ListInstallmentGroup(r.Context(), parentID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get installment group", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.InstallmentGroupResponse{
		ParentTransactionID: parentID,
		Entries:             dto.EntriesFromDomain(entries),
	})
}

// Resize rewrites an installment group.
func (h *InstallmentHandler) Resize(w http.ResponseWriter, r *http.Request) {
	parentID := chi.URLParam(r, "parentId")
	if parentID == "" {
		writeError(w, http.StatusBadRequest, "missing parent transaction ID", "")
		return
	}

	var req dto.ResizeInstallmentsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput(parentID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid resize request", err.Error())
		return
	}

	result, err := h.installments.Resize(r.Context(), input)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to resize installments", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ResizeFromUseCase(result))
}
