package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"financeiro/internal/core"
	"financeiro/internal/engine"
)

const maxBodyBytes = 1 << 20 // 1 MiB

type errorResponse struct {
	Error string `json:"error"`
}

// clientError marks failures caused by the request itself, mapped to 400.
type clientError struct{ msg string }

func (e clientError) Error() string { return e.msg }

func isClientError(err error) bool {
	var ce clientError
	return errors.As(err, &ce)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// readJSON decodes the request body into v, rejecting unknown fields and
// oversized payloads.
func readJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

// parseDate parses a date query parameter in YYYY-MM-DD format. An empty
// value yields the zero date.
func parseDate(value string) (core.Date, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return core.Date{}, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return core.Date{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD", value)
	}
	return core.Date{Time: t}, nil
}

// parsePeriodParams reads the period selector and custom bounds from the
// query string. An absent period defaults to the current month.
func parsePeriodParams(r *http.Request) (engine.PeriodSelector, core.Date, core.Date, error) {
	q := r.URL.Query()

	selector := engine.PeriodSelector(strings.TrimSpace(q.Get("period")))
	if selector == "" {
		selector = engine.CurrentMonth
	}
	if !selector.Valid() {
		return "", core.Date{}, core.Date{}, fmt.Errorf("unknown period %q", selector)
	}

	start, err := parseDate(q.Get("start"))
	if err != nil {
		return "", core.Date{}, core.Date{}, err
	}
	end, err := parseDate(q.Get("end"))
	if err != nil {
		return "", core.Date{}, core.Date{}, err
	}

	return selector, start, end, nil
}

// sanitizeInput trims whitespace and strips control characters.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
