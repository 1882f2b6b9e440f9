package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"financeiro/internal/core"
)

// RecurrentSource is the slice of the storage layer the recurring processor
// reads templates from.
type RecurrentSource interface {
	GetActiveRecurrentEntries(ctx context.Context, now time.Time) ([]core.RecurrentEntry, error)
	GetRecurrentLastExecution(ctx context.Context, id int64) (time.Time, error)
	UpdateRecurrentLastExecution(ctx context.Context, id int64, when time.Time) error
}

// EntryCreator creates concrete ledger entries from expanded templates.
type EntryCreator interface {
	CreateEntry(ctx context.Context, e core.LedgerEntry) (string, error)
}

// RecurringProcessor expands due recurring templates into ledger entries.
type RecurringProcessor struct {
	templates RecurrentSource
	ledger    EntryCreator
}

func NewRecurringProcessor(templates RecurrentSource, ledger EntryCreator) *RecurringProcessor {
	return &RecurringProcessor{
		templates: templates,
		ledger:    ledger,
	}
}

// ProcessDueEntries checks every active template against the processing time
// and creates one ledger entry per due template. A failing template is logged
// and skipped, never aborting the batch. Returns the number of entries
// created.
func (p *RecurringProcessor) ProcessDueEntries(ctx context.Context, now time.Time) (int, error) {
	if p.templates == nil || p.ledger == nil {
		return 0, fmt.Errorf("processor not properly initialized")
	}

	templates, err := p.templates.GetActiveRecurrentEntries(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("get active recurrent entries: %w", err)
	}

	slog.InfoContext(ctx, "Processing recurring templates",
		"total_active", len(templates),
		"processing_date", now.Format("2006-01-02"))

	processed := 0
	for _, re := range templates {
		lastExecution, err := p.templates.GetRecurrentLastExecution(ctx, re.ID)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to read last execution date",
				"recurrent_id", re.ID, "error", err)
			continue
		}

		checker, err := GetDuenessChecker(re.Every)
		if err != nil {
			slog.ErrorContext(ctx, "Unsupported repetition type",
				"recurrent_id", re.ID, "every", re.Every, "error", err)
			continue
		}
		if !checker.IsDue(lastExecution, now, re.StartDate) {
			continue
		}

		entry := core.LedgerEntry{
			Kind:     re.Kind,
			Date:     core.DateOf(now),
			Amount:   re.Amount,
			Category: re.Category,
			Notes:    re.Notes,
		}

		entryID, err := p.ledger.CreateEntry(ctx, entry)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to create entry from recurring template",
				"recurrent_id", re.ID,
				"category", re.Category,
				"error", err)
			continue
		}

		if err := p.templates.UpdateRecurrentLastExecution(ctx, re.ID, now); err != nil {
			slog.ErrorContext(ctx, "Failed to update last execution date",
				"recurrent_id", re.ID, "error", err)
			// Entry was created; keep counting it.
		}

		processed++
		slog.InfoContext(ctx, "Created entry from recurring template",
			"recurrent_id", re.ID,
			"entry_id", entryID,
			"category", re.Category,
			"amount", re.Amount.String(),
			"frequency", re.Every)
	}

	slog.InfoContext(ctx, "Recurring processing complete",
		"processed", processed,
		"total_checked", len(templates))

	return processed, nil
}
