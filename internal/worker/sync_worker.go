// Package worker mirrors ledger entries from SQLite to the spreadsheet
// backend, driven by AMQP messages with a periodic pending-scan as backup.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"financeiro/internal/amqp"
	"financeiro/internal/core"
	"financeiro/internal/sheets"
	"financeiro/internal/storage"
)

// SyncStore is the slice of the storage layer the worker needs.
type SyncStore interface {
	GetEntry(ctx context.Context, id string) (core.LedgerEntry, error)
	GetPendingSyncEntries(ctx context.Context, limit int) ([]storage.PendingSyncEntry, error)
	MarkSynced(ctx context.Context, id string) error
	MarkSyncError(ctx context.Context, id string) error
}

// SyncWorker pushes ledger entries to the spreadsheet mirror.
type SyncWorker struct {
	store     SyncStore
	writer    sheets.LedgerWriter
	deleter   sheets.LedgerDeleter
	batchSize int
}

func NewSyncWorker(store SyncStore, writer sheets.LedgerWriter, deleter sheets.LedgerDeleter, batchSize int) *SyncWorker {
	return &SyncWorker{
		store:     store,
		writer:    writer,
		deleter:   deleter,
		batchSize: batchSize,
	}
}

// HandleSyncMessage processes one message from the queue. Upserts re-read the
// entry from storage, so a stale or duplicate message mirrors the current
// state. The returned error drives the broker nack/requeue decision.
func (w *SyncWorker) HandleSyncMessage(ctx context.Context, msg *amqp.EntrySyncMessage) error {
	slog.InfoContext(ctx, "Processing sync message",
		"entry_id", msg.EntryID,
		"action", msg.Action)

	switch msg.Action {
	case amqp.ActionDelete:
		return w.deleteFromSheet(ctx, msg.EntryID)
	case amqp.ActionUpsert:
		return w.syncEntry(ctx, msg.EntryID)
	default:
		return fmt.Errorf("unknown sync action %q", msg.Action)
	}
}

// ProcessPendingEntries mirrors entries still marked pending. This is the
// backup path for lost AMQP messages and broker downtime.
func (w *SyncWorker) ProcessPendingEntries(ctx context.Context) error {
	pending, err := w.store.GetPendingSyncEntries(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("get pending entries: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending entries", "count", len(pending))

	for _, p := range pending {
		if err := w.syncEntry(ctx, p.ID); err != nil {
			slog.ErrorContext(ctx, "Failed to sync pending entry",
				"entry_id", p.ID, "error", err)
		}
	}
	return nil
}

// StartupSyncCheck drains the pending backlog once at worker startup, with a
// larger batch than the periodic scan. Recovers from worker downtime.
func (w *SyncWorker) StartupSyncCheck(ctx context.Context) error {
	pending, err := w.store.GetPendingSyncEntries(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("get pending entries for startup check: %w", err)
	}
	if len(pending) == 0 {
		slog.InfoContext(ctx, "No pending entries found on startup")
		return nil
	}

	slog.InfoContext(ctx, "Found pending entries on startup, processing...",
		"count", len(pending))

	synced, failed := 0, 0
	for _, p := range pending {
		if err := w.syncEntry(ctx, p.ID); err != nil {
			slog.ErrorContext(ctx, "Failed to sync entry during startup",
				"entry_id", p.ID, "error", err)
			failed++
			continue
		}
		synced++
	}

	slog.InfoContext(ctx, "Startup sync completed",
		"total", len(pending),
		"synced", synced,
		"errors", failed)

	return nil
}

// syncEntry reads the entry and appends it to the mirror, updating the sync
// status either way. An entry soft-deleted between the message and now is
// removed from the mirror instead.
func (w *SyncWorker) syncEntry(ctx context.Context, id string) error {
	entry, err := w.store.GetEntry(ctx, id)
	if err != nil {
		if errors.Is(err, core.ErrEntryNotFound) {
			return w.deleteFromSheet(ctx, id)
		}
		if markErr := w.store.MarkSyncError(ctx, id); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark sync error", "entry_id", id, "error", markErr)
		}
		return fmt.Errorf("get entry from storage: %w", err)
	}

	ref, err := w.writer.Append(ctx, entry)
	if err != nil {
		if markErr := w.store.MarkSyncError(ctx, id); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark sync error", "entry_id", id, "error", markErr)
		}
		return fmt.Errorf("append to sheet: %w", err)
	}

	if err := w.store.MarkSynced(ctx, id); err != nil {
		slog.ErrorContext(ctx, "Failed to mark as synced", "entry_id", id, "error", err)
		// The mirror write succeeded; the periodic scan will retry the mark.
	}

	slog.InfoContext(ctx, "Entry synced",
		"entry_id", id,
		"sheets_ref", ref,
		"category", entry.Category,
		"amount", entry.Amount.String())

	return nil
}

func (w *SyncWorker) deleteFromSheet(ctx context.Context, id string) error {
	if w.deleter == nil {
		slog.WarnContext(ctx, "No sheet deleter configured, skipping mirror deletion",
			"entry_id", id)
		return nil
	}
	if err := w.deleter.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete from sheet: %w", err)
	}
	slog.InfoContext(ctx, "Entry removed from sheet", "entry_id", id)
	return nil
}
