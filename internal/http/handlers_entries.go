package http

import (
	"errors"
	"log/slog"
	"net/http"

	"financeiro/internal/core"
)

type createEntryRequest struct {
	Kind            string `json:"kind"`
	Date            string `json:"date"`
	Amount          string `json:"amount"`
	Category        string `json:"category"`
	CounterpartyRef string `json:"counterpartyRef"`
	Notes           string `json:"notes"`
}

type createEntryResponse struct {
	ID string `json:"id"`
}

func (s *Server) handleCreateEntry(w http.ResponseWriter, r *http.Request) {
	var req createEntryRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	amount, err := core.ParseDecimalAmount(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid amount: "+err.Error())
		return
	}

	entry := core.LedgerEntry{
		Kind:            core.Kind(req.Kind),
		Date:            date,
		Amount:          amount,
		Category:        sanitizeInput(req.Category),
		CounterpartyRef: sanitizeInput(req.CounterpartyRef),
		Notes:           sanitizeInput(req.Notes),
	}

	if err := entry.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	id, err := s.ledger.CreateEntry(r.Context(), entry)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to create entry", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create entry")
		return
	}

	// Any write makes cached report responses stale.
	s.reportCache.Purge()

	writeJSON(w, http.StatusCreated, createEntryResponse{ID: id})
}

func (s *Server) handleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing entry id")
		return
	}

	if err := s.ledger.DeleteEntry(r.Context(), id); err != nil {
		if errors.Is(err, core.ErrEntryNotFound) {
			writeError(w, http.StatusNotFound, "entry not found")
			return
		}
		slog.ErrorContext(r.Context(), "Failed to delete entry", "entry_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete entry")
		return
	}

	s.reportCache.Purge()

	w.WriteHeader(http.StatusNoContent)
}
