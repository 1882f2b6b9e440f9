// Package sheets defines the outbound ports for the spreadsheet mirror of
// the ledger.
package sheets

import (
	"context"

	"financeiro/internal/core"
)

type (
	// LedgerWriter appends a ledger entry to the mirror and returns an
	// opaque row reference.
	LedgerWriter interface {
		Append(ctx context.Context, e core.LedgerEntry) (rowRef string, err error)
	}

	// LedgerDeleter removes a mirrored entry by its ledger ID.
	LedgerDeleter interface {
		Delete(ctx context.Context, entryID string) error
	}
)
