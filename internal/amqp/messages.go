package amqp

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	ActionUpsert = "upsert"
	ActionDelete = "delete"
)

// EntrySyncMessage asks the worker to mirror one ledger entry to the
// spreadsheet. It carries only the entry ID and the action; the worker
// fetches the current row from the database, so stale messages are harmless.
type EntrySyncMessage struct {
	EntryID   string    `json:"entry_id"`
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
}

// NewEntrySyncMessage creates an upsert message for the given entry.
func NewEntrySyncMessage(entryID string) *EntrySyncMessage {
	return &EntrySyncMessage{
		EntryID:   entryID,
		Action:    ActionUpsert,
		Timestamp: time.Now(),
	}
}

// NewEntryDeleteMessage creates a delete message for the given entry.
func NewEntryDeleteMessage(entryID string) *EntrySyncMessage {
	return &EntrySyncMessage{
		EntryID:   entryID,
		Action:    ActionDelete,
		Timestamp: time.Now(),
	}
}

// Validate checks the message is well formed before handling.
func (m *EntrySyncMessage) Validate() error {
	if m.EntryID == "" {
		return fmt.Errorf("empty entry id")
	}
	if m.Action != ActionUpsert && m.Action != ActionDelete {
		return fmt.Errorf("unknown action %q", m.Action)
	}
	return nil
}

// ToJSON converts the message to JSON bytes
func (m *EntrySyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// EntrySyncMessageFromJSON creates a message from JSON bytes
func EntrySyncMessageFromJSON(data []byte) (*EntrySyncMessage, error) {
	var msg EntrySyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
