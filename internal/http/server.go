// Package http exposes the calculation engine and the ledger as a JSON API.
package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"financeiro/internal/cache"
	"financeiro/internal/core"
	"financeiro/internal/engine"
	"financeiro/internal/storage"
)

// LedgerAPI is the write side of the ledger consumed by the entry handlers.
type LedgerAPI interface {
	CreateEntry(ctx context.Context, e core.LedgerEntry) (string, error)
	DeleteEntry(ctx context.Context, id string) error
}

// ReportAPI resolves periods and runs the engine over stored entries.
type ReportAPI interface {
	DREReport(ctx context.Context, selector engine.PeriodSelector, customStart, customEnd core.Date) (engine.DREResult, engine.Range, error)
	CashFlowReport(ctx context.Context, selector engine.PeriodSelector, customStart, customEnd core.Date) (engine.CashFlowStatement, engine.Range, error)
	SaveBreakEvenProjection(ctx context.Context, in engine.BreakEvenInputs) (storage.Projection, error)
	ListBreakEvenProjections(ctx context.Context) ([]storage.Projection, error)
}

// CacheConfig sizes the report response cache.
type CacheConfig struct {
	Size int
	TTL  time.Duration
}

type Server struct {
	http.Server
	ledger      LedgerAPI
	reports     ReportAPI
	rateLimiter *rateLimiter

	// Rendered report responses keyed by path+query. Invalidated wholesale
	// on every ledger write.
	reportCache *cache.LRUCache[[]byte]

	stopCacheCleanup chan struct{}
	shutdownOnce     sync.Once
}

// NewServer wires routes and middleware, returning a ready-to-run server.
func NewServer(addr string, ledger LedgerAPI, reports ReportAPI, cacheCfg CacheConfig) *Server {
	mux := http.NewServeMux()

	if cacheCfg.Size <= 0 {
		cacheCfg.Size = 64
	}
	if cacheCfg.TTL <= 0 {
		cacheCfg.TTL = 30 * time.Second
	}

	s := &Server{
		Server: http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
		},
		ledger:           ledger,
		reports:          reports,
		rateLimiter:      newRateLimiter(),
		reportCache:      cache.NewLRUCache[[]byte](cacheCfg.Size, cacheCfg.TTL),
		stopCacheCleanup: make(chan struct{}),
	}

	go s.startCacheCleanup()

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("POST /api/entries", s.withMiddleware(s.handleCreateEntry))
	mux.HandleFunc("DELETE /api/entries/{id}", s.withMiddleware(s.handleDeleteEntry))

	mux.HandleFunc("GET /api/reports/dre", s.withMiddleware(s.handleDREReport))
	mux.HandleFunc("GET /api/reports/cashflow", s.withMiddleware(s.handleCashFlowReport))

	mux.HandleFunc("POST /api/pricing/quote", s.withMiddleware(s.handlePricingQuote))

	mux.HandleFunc("POST /api/breakeven", s.withMiddleware(s.handleSaveBreakEven))
	mux.HandleFunc("GET /api/breakeven/projections", s.withMiddleware(s.handleListBreakEven))

	return s
}

// withMiddleware adds request IDs, logging, rate limiting on writes and
// security headers.
func (s *Server) withMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		clientIP := extractClientIP(r)

		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		slog.InfoContext(ctx, "Request started",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"client_ip", clientIP)

		if r.Method != http.MethodGet && !s.rateLimiter.allow(clientIP) {
			slog.WarnContext(ctx, "Rate limit exceeded",
				"client_ip", clientIP, "method", r.Method, "url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &statusWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		slog.InfoContext(ctx, "Request completed",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", time.Since(start).Milliseconds(),
			"client_ip", clientIP)
	}
}

type requestIDKey struct{}

// statusWriter captures the response status for the completion log line.
type statusWriter struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusWriter) WriteHeader(code int) {
	w.statusCode = code
	w.ResponseWriter.WriteHeader(code)
}

func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

func (s *Server) startCacheCleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if cleaned := s.reportCache.CleanExpired(); cleaned > 0 {
				slog.Debug("Report cache cleanup completed", "entries_removed", cleaned)
			}
		case <-s.stopCacheCleanup:
			return
		}
	}
}

// Shutdown stops background goroutines before shutting down the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		close(s.stopCacheCleanup)
		s.rateLimiter.stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
