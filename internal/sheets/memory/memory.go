// Package memory is an in-memory spreadsheet mirror used as the default
// backend and in tests.
package memory

import (
	"context"
	"fmt"
	"sync"

	"financeiro/internal/core"
)

type Store struct {
	mu    sync.Mutex
	items []core.LedgerEntry
}

func New() *Store {
	return &Store{}
}

// Append stores the entry and returns a synthetic row reference.
func (s *Store) Append(_ context.Context, e core.LedgerEntry) (string, error) {
	if err := e.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, e)
	return fmt.Sprintf("mem:%d", len(s.items)), nil
}

// Delete removes the entry with the given ledger ID. Unknown IDs are a
// no-op, matching the remote mirror's tolerance of already-deleted rows.
func (s *Store) Delete(_ context.Context, entryID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, e := range s.items {
		if e.ID == entryID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return nil
		}
	}
	return nil
}

// Entries returns a copy of the stored entries, for assertions in tests.
func (s *Store) Entries() []core.LedgerEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.LedgerEntry, len(s.items))
	copy(out, s.items)
	return out
}
