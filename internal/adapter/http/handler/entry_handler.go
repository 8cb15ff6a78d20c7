package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/famledger/internal/adapter/http/dto"
	"github.com/iho/famledger/internal/domain"
	"github.com/iho/famledger/internal/usecase"
)

// EntryService manages plain entries.
type EntryService interface {
	CreateEntries(ctx context.Context, inputs []usecase.CreateEntryInput) ([]*domain.Entry, error)
	GetEntry(ctx context.Context, id string) (*domain.Entry, error)
	ListByMonth(ctx context.Context, month domain.YearMonth) ([]*domain.Entry, error)
	DeleteEntries(ctx context.Context, ids []string) (int, error)
}

// EntryHandler handles entry HTTP requests.
type EntryHandler struct {
	entries EntryService
}

// NewEntryHandler creates a new EntryHandler.
func NewEntryHandler(entries EntryService) *EntryHandler {
	return &EntryHandler{entries: entries}
}

// Create stores a batch of plain entries atomically.
func (h *EntryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateEntriesRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	inputs, err := req.ToUseCaseInput()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid entries", err.Error())
		return
	}

	entries, err := h.entries.CreateEntries(r.Context(), inputs)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create entries", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.EntriesFromDomain(entries))
}

// List returns the entries of a month.
func (h *EntryHandler) List(w http.ResponseWriter, r *http.Request) {
	month, err := parseMonthQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid period", err.Error())
		return
	}

	entries, err := h.entries.ListByMonth(r.Context(), month)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list entries", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.EntriesFromDomain(entries))
}

// Get retrieves an entry by ID.
func (h *EntryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing entry ID", "")
		return
	}

	entry, err := h.entries.GetEntry(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get entry", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.EntryFromDomain(entry))
}

// Delete removes entries atomically.
func (h *EntryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var req dto.DeleteEntriesRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	deleted, err := h.entries.DeleteEntries(r.Context(), req.IDs)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to delete entries", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.CountResponse{Count: deleted})
}
