package services

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"financeiro/internal/core"
)

type fakeEntryStore struct {
	created   []core.LedgerEntry
	deleted   []string
	createErr error
	deleteErr error
}

func (f *fakeEntryStore) CreateEntry(_ context.Context, e core.LedgerEntry) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, e)
	return nil
}

func (f *fakeEntryStore) SoftDeleteEntry(_ context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

type fakePublisher struct {
	synced     []string
	deleted    []string
	publishErr error
}

func (f *fakePublisher) PublishEntrySync(_ context.Context, id string) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.synced = append(f.synced, id)
	return nil
}

func (f *fakePublisher) PublishEntryDelete(_ context.Context, id string) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func validEntry() core.LedgerEntry {
	return core.LedgerEntry{
		Kind:     core.Revenue,
		Date:     core.NewDate(2024, 3, 10),
		Amount:   decimal.RequireFromString("1500"),
		Category: "Vendas de Produtos",
	}
}

func TestLedgerService_CreateEntry(t *testing.T) {
	store := &fakeEntryStore{}
	pub := &fakePublisher{}
	svc := NewLedgerService(store, pub)

	id, err := svc.CreateEntry(context.Background(), validEntry())
	if err != nil {
		t.Fatalf("CreateEntry: %v", err)
	}
	if id == "" {
		t.Fatal("expected generated entry ID")
	}
	if len(store.created) != 1 || store.created[0].ID != id {
		t.Fatalf("entry not stored with generated ID: %+v", store.created)
	}
	if len(pub.synced) != 1 || pub.synced[0] != id {
		t.Fatalf("sync message not published: %v", pub.synced)
	}
}

func TestLedgerService_CreateEntryKeepsProvidedID(t *testing.T) {
	store := &fakeEntryStore{}
	svc := NewLedgerService(store, nil)

	e := validEntry()
	e.ID = "fixed-id"
	id, err := svc.CreateEntry(context.Background(), e)
	if err != nil {
		t.Fatalf("CreateEntry: %v", err)
	}
	if id != "fixed-id" {
		t.Fatalf("expected provided ID to survive, got %q", id)
	}
}

func TestLedgerService_CreateEntryValidates(t *testing.T) {
	store := &fakeEntryStore{}
	svc := NewLedgerService(store, nil)

	_, err := svc.CreateEntry(context.Background(), core.LedgerEntry{Kind: "nonsense"})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if len(store.created) != 0 {
		t.Fatal("invalid entry must not reach storage")
	}
}

func TestLedgerService_CreateEntryPublishFailureIsNonFatal(t *testing.T) {
	store := &fakeEntryStore{}
	pub := &fakePublisher{publishErr: errors.New("broker down")}
	svc := NewLedgerService(store, pub)

	id, err := svc.CreateEntry(context.Background(), validEntry())
	if err != nil {
		t.Fatalf("publish failure must not fail the request: %v", err)
	}
	if id == "" || len(store.created) != 1 {
		t.Fatal("entry should still be saved locally")
	}
}

func TestLedgerService_CreateEntryStorageFailure(t *testing.T) {
	store := &fakeEntryStore{createErr: errors.New("disk full")}
	pub := &fakePublisher{}
	svc := NewLedgerService(store, pub)

	if _, err := svc.CreateEntry(context.Background(), validEntry()); err == nil {
		t.Fatal("expected storage error to propagate")
	}
	if len(pub.synced) != 0 {
		t.Fatal("no sync message should be published when save fails")
	}
}

func TestLedgerService_DeleteEntry(t *testing.T) {
	store := &fakeEntryStore{}
	pub := &fakePublisher{}
	svc := NewLedgerService(store, pub)

	if err := svc.DeleteEntry(context.Background(), "e1"); err != nil {
		t.Fatalf("DeleteEntry: %v", err)
	}
	if len(store.deleted) != 1 || store.deleted[0] != "e1" {
		t.Fatalf("soft delete not recorded: %v", store.deleted)
	}
	if len(pub.deleted) != 1 || pub.deleted[0] != "e1" {
		t.Fatalf("delete message not published: %v", pub.deleted)
	}
}

func TestLedgerService_DeleteEntryNilPublisher(t *testing.T) {
	store := &fakeEntryStore{}
	svc := NewLedgerService(store, nil)

	if err := svc.DeleteEntry(context.Background(), "e1"); err != nil {
		t.Fatalf("DeleteEntry with nil publisher: %v", err)
	}
}
