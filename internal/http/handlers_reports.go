package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"financeiro/internal/engine"
)

type dreReportResponse struct {
	Period engine.Range     `json:"period"`
	Report engine.DREResult `json:"report"`
}

type cashFlowReportResponse struct {
	Period engine.Range             `json:"period"`
	Report engine.CashFlowStatement `json:"report"`
}

func (s *Server) handleDREReport(w http.ResponseWriter, r *http.Request) {
	s.serveCachedReport(w, r, func() (any, error) {
		selector, start, end, err := parsePeriodParams(r)
		if err != nil {
			return nil, clientError{err.Error()}
		}
		report, rng, err := s.reports.DREReport(r.Context(), selector, start, end)
		if err != nil {
			return nil, err
		}
		return dreReportResponse{Period: rng, Report: report}, nil
	})
}

func (s *Server) handleCashFlowReport(w http.ResponseWriter, r *http.Request) {
	s.serveCachedReport(w, r, func() (any, error) {
		selector, start, end, err := parsePeriodParams(r)
		if err != nil {
			return nil, clientError{err.Error()}
		}
		report, rng, err := s.reports.CashFlowReport(r.Context(), selector, start, end)
		if err != nil {
			return nil, err
		}
		return cashFlowReportResponse{Period: rng, Report: report}, nil
	})
}

// serveCachedReport renders a report through the LRU cache, keyed by the full
// request URI. Parse errors are 400s and are never cached.
func (s *Server) serveCachedReport(w http.ResponseWriter, r *http.Request, build func() (any, error)) {
	key := r.URL.RequestURI()

	if body, ok := s.reportCache.Get(key); ok {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("X-Cache", "hit")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(body)
		return
	}

	resp, err := build()
	if err != nil {
		if isClientError(err) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		slog.ErrorContext(r.Context(), "Failed to build report", "url", key, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to build report")
		return
	}

	body, err := json.Marshal(resp)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to encode report", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to encode report")
		return
	}
	body = append(body, '\n')

	s.reportCache.Set(key, body)

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("X-Cache", "miss")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
