package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"financeiro/internal/core"
	"financeiro/internal/engine"
	"financeiro/internal/storage"
)

// EntrySource is the read side of the storage layer used by reports.
type EntrySource interface {
	ListEntriesByRange(ctx context.Context, start, end core.Date) ([]core.LedgerEntry, error)
}

// ProjectionStore persists saved break-even scenarios.
type ProjectionStore interface {
	SaveProjection(ctx context.Context, p storage.Projection) error
	ListProjections(ctx context.Context) ([]storage.Projection, error)
}

// ReportService resolves a reporting period, loads the matching ledger slice
// and runs the calculation engine over it. The reference clock is injected so
// "current month" is deterministic in tests.
type ReportService struct {
	entries     EntrySource
	projections ProjectionStore
	now         func() time.Time
}

func NewReportService(entries EntrySource, projections ProjectionStore, now func() time.Time) *ReportService {
	if now == nil {
		now = time.Now
	}
	return &ReportService{
		entries:     entries,
		projections: projections,
		now:         now,
	}
}

// DREReport builds the income statement for the selected period.
func (s *ReportService) DREReport(ctx context.Context, selector engine.PeriodSelector, customStart, customEnd core.Date) (engine.DREResult, engine.Range, error) {
	rng, entries, err := s.entriesForPeriod(ctx, selector, customStart, customEnd)
	if err != nil {
		return engine.DREResult{}, rng, err
	}
	return engine.ComputeDRE(entries), rng, nil
}

// CashFlowReport builds the daily and per-category cash flow for the
// selected period.
func (s *ReportService) CashFlowReport(ctx context.Context, selector engine.PeriodSelector, customStart, customEnd core.Date) (engine.CashFlowStatement, engine.Range, error) {
	rng, entries, err := s.entriesForPeriod(ctx, selector, customStart, customEnd)
	if err != nil {
		return engine.CashFlowStatement{}, rng, err
	}
	return engine.AggregateCashFlow(entries), rng, nil
}

func (s *ReportService) entriesForPeriod(ctx context.Context, selector engine.PeriodSelector, customStart, customEnd core.Date) (engine.Range, []core.LedgerEntry, error) {
	rng := engine.ResolveRange(selector, s.now(), customStart, customEnd)
	entries, err := s.entries.ListEntriesByRange(ctx, rng.Start, rng.End)
	if err != nil {
		return rng, nil, fmt.Errorf("list entries for period: %w", err)
	}
	return rng, entries, nil
}

// SaveBreakEvenProjection computes a break-even scenario and persists it
// together with its inputs.
func (s *ReportService) SaveBreakEvenProjection(ctx context.Context, in engine.BreakEvenInputs) (storage.Projection, error) {
	p := storage.Projection{
		ID:        uuid.NewString(),
		Name:      in.Name,
		Inputs:    in,
		Result:    engine.ComputeBreakEven(in),
		CreatedAt: s.now().UTC(),
	}
	if err := s.projections.SaveProjection(ctx, p); err != nil {
		return storage.Projection{}, fmt.Errorf("save projection: %w", err)
	}
	return p, nil
}

// ListBreakEvenProjections returns saved scenarios, most recent first.
func (s *ReportService) ListBreakEvenProjections(ctx context.Context) ([]storage.Projection, error) {
	return s.projections.ListProjections(ctx)
}
