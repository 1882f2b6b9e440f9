package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"financeiro/internal/engine"
	"financeiro/internal/storage"
)

func (s *Server) handleSaveBreakEven(w http.ResponseWriter, r *http.Request) {
	var in engine.BreakEvenInputs
	if err := readJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	in.Name = sanitizeInput(in.Name)
	if strings.TrimSpace(in.Name) == "" {
		writeError(w, http.StatusBadRequest, "projection name is required")
		return
	}
	for _, v := range in.VariableCosts {
		if v.Percent.LessThan(decimal.Zero) {
			writeError(w, http.StatusBadRequest, "variable cost percentages must not be negative")
			return
		}
	}
	for _, f := range in.FixedCosts {
		if f.Value.LessThan(decimal.Zero) {
			writeError(w, http.StatusBadRequest, "fixed costs must not be negative")
			return
		}
	}

	p, err := s.reports.SaveBreakEvenProjection(r.Context(), in)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to save projection", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save projection")
		return
	}

	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) handleListBreakEven(w http.ResponseWriter, r *http.Request) {
	projections, err := s.reports.ListBreakEvenProjections(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to list projections", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list projections")
		return
	}
	if projections == nil {
		projections = []storage.Projection{}
	}
	writeJSON(w, http.StatusOK, projections)
}
