// Package backend selects and constructs the spreadsheet mirror
// implementation from configuration.
package backend

import (
	"context"
	"fmt"

	"financeiro/internal/config"
	"financeiro/internal/sheets"
	"financeiro/internal/sheets/google"
	"financeiro/internal/sheets/memory"
)

// Mirror bundles the write and delete side of a spreadsheet backend.
type Mirror interface {
	sheets.LedgerWriter
	sheets.LedgerDeleter
}

// Type names the available mirror backends.
type Type string

const (
	// Sheets mirrors to a Google Sheets spreadsheet.
	Sheets Type = "sheets"
	// Memory keeps the mirror in process, for development and tests.
	Memory Type = "memory"
)

// Select returns the backend type the config asks for: Google Sheets when a
// spreadsheet ID is configured, the in-memory store otherwise.
func Select(cfg *config.Config) Type {
	if cfg.GoogleSpreadsheetID != "" {
		return Sheets
	}
	return Memory
}

// New constructs the mirror for the selected backend type.
func New(ctx context.Context, t Type) (Mirror, error) {
	switch t {
	case Sheets:
		client, err := google.NewFromEnv(ctx)
		if err != nil {
			return nil, fmt.Errorf("initialize sheets mirror: %w", err)
		}
		return client, nil
	case Memory:
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown mirror backend %q", t)
	}
}
