// Package engine implements the financial calculation engine: period
// filtering, cash-flow aggregation, the DRE income statement, pricing and
// break-even analysis.
//
// Every function in this package is a pure, total reduction over in-memory
// inputs. There is no I/O, no clock read and no shared state; callers inject
// the reference date and the entry snapshot, and degenerate inputs produce
// tagged results instead of errors.
package engine

import (
	"time"

	"financeiro/internal/core"
)

const (
	CurrentMonth  PeriodSelector = "current-month"
	PreviousMonth PeriodSelector = "previous-month"
	Last3Months   PeriodSelector = "last-3-months"
	Last6Months   PeriodSelector = "last-6-months"
	CurrentYear   PeriodSelector = "current-year"
	Custom        PeriodSelector = "custom"
)

type (
	// PeriodSelector names a reporting window relative to a reference date.
	PeriodSelector string

	// Range is a closed date interval; both bounds are included when
	// filtering.
	Range struct {
		Start core.Date `json:"start"`
		End   core.Date `json:"end"`
	}
)

// Valid reports whether the selector is one of the known period names.
func (s PeriodSelector) Valid() bool {
	switch s {
	case CurrentMonth, PreviousMonth, Last3Months, Last6Months, CurrentYear, Custom:
		return true
	}
	return false
}

// ResolveRange turns a period selector into a concrete date interval,
// relative to asOf. The reference date is injected rather than read from the
// clock so resolution is deterministic.
//
// A custom selector with a missing bound falls back to the current month
// instead of failing, so a half-filled date picker still yields a report.
func ResolveRange(selector PeriodSelector, asOf time.Time, customStart, customEnd core.Date) Range {
	year, month := asOf.Year(), asOf.Month()

	switch selector {
	case PreviousMonth:
		return monthSpan(year, int(month)-1, year, int(month)-1)
	case Last3Months:
		return monthSpan(year, int(month)-2, year, int(month))
	case Last6Months:
		return monthSpan(year, int(month)-5, year, int(month))
	case CurrentYear:
		return Range{
			Start: core.NewDate(year, 1, 1),
			End:   core.NewDate(year, 12, 31),
		}
	case Custom:
		if customStart.IsZero() || customEnd.IsZero() {
			return monthSpan(year, int(month), year, int(month))
		}
		return Range{Start: customStart, End: customEnd}
	default:
		// CurrentMonth, and any unknown selector.
		return monthSpan(year, int(month), year, int(month))
	}
}

// monthSpan builds the range from the first day of (fromYear, fromMonth) to
// the last day of (toYear, toMonth). Month values outside 1..12 normalize
// through time.Date, which is what makes "current month - 2" work across
// year boundaries.
func monthSpan(fromYear, fromMonth, toYear, toMonth int) Range {
	start := time.Date(fromYear, time.Month(fromMonth), 1, 0, 0, 0, 0, time.UTC)
	// Day zero of the following month is the last day of toMonth.
	end := time.Date(toYear, time.Month(toMonth)+1, 0, 0, 0, 0, 0, time.UTC)
	return Range{
		Start: core.Date{Time: start},
		End:   core.Date{Time: end},
	}
}

// Contains reports whether the date falls inside the range, bounds included.
func (r Range) Contains(d core.Date) bool {
	return d.OnOrAfter(r.Start) && d.OnOrBefore(r.End)
}

// FilterByRange returns the entries whose date falls inside the range. The
// input slice is never mutated; order is preserved.
func FilterByRange(entries []core.LedgerEntry, r Range) []core.LedgerEntry {
	out := make([]core.LedgerEntry, 0, len(entries))
	for _, e := range entries {
		if r.Contains(e.Date) {
			out = append(out, e)
		}
	}
	return out
}
