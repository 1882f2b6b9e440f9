// Package services provides business logic and orchestration over storage,
// the calculation engine and the messaging layer.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"financeiro/internal/core"
)

// EntryStore is the slice of the storage layer the ledger service writes to.
type EntryStore interface {
	CreateEntry(ctx context.Context, e core.LedgerEntry) error
	SoftDeleteEntry(ctx context.Context, id string) error
}

// SyncPublisher publishes async sync notifications for the spreadsheet
// mirror. May be nil when messaging is disabled.
type SyncPublisher interface {
	PublishEntrySync(ctx context.Context, entryID string) error
	PublishEntryDelete(ctx context.Context, entryID string) error
}

// LedgerService orchestrates ledger entry operations across SQLite and AMQP.
type LedgerService struct {
	store     EntryStore
	publisher SyncPublisher
}

func NewLedgerService(store EntryStore, publisher SyncPublisher) *LedgerService {
	return &LedgerService{
		store:     store,
		publisher: publisher,
	}
}

// CreateEntry saves an entry locally and publishes a sync message. The entry
// gets a generated ID when none is supplied. Publish failures do not fail the
// request: the entry is saved locally and the periodic sync will pick it up.
func (s *LedgerService) CreateEntry(ctx context.Context, e core.LedgerEntry) (string, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if err := e.Validate(); err != nil {
		return "", err
	}

	if err := s.store.CreateEntry(ctx, e); err != nil {
		return "", fmt.Errorf("save ledger entry: %w", err)
	}

	if err := s.publishSync(ctx, e.ID); err != nil {
		slog.ErrorContext(ctx, "Failed to publish sync message",
			"entry_id", e.ID, "error", err)
	}

	return e.ID, nil
}

// DeleteEntry soft deletes an entry locally and publishes a delete message.
func (s *LedgerService) DeleteEntry(ctx context.Context, id string) error {
	if err := s.store.SoftDeleteEntry(ctx, id); err != nil {
		return fmt.Errorf("soft delete ledger entry: %w", err)
	}

	if err := s.publishDelete(ctx, id); err != nil {
		slog.ErrorContext(ctx, "Failed to publish delete message",
			"entry_id", id, "error", err)
	}

	return nil
}

func (s *LedgerService) publishSync(ctx context.Context, id string) error {
	if s.publisher == nil {
		slog.WarnContext(ctx, "Sync publisher not available, skipping sync message")
		return nil
	}
	return s.publisher.PublishEntrySync(ctx, id)
}

func (s *LedgerService) publishDelete(ctx context.Context, id string) error {
	if s.publisher == nil {
		slog.WarnContext(ctx, "Sync publisher not available, skipping delete message")
		return nil
	}
	return s.publisher.PublishEntryDelete(ctx, id)
}
