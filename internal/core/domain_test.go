package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestKindValidate(t *testing.T) {
	if err := Revenue.Validate(); err != nil {
		t.Fatalf("revenue should be valid: %v", err)
	}
	if err := Expense.Validate(); err != nil {
		t.Fatalf("expense should be valid: %v", err)
	}
	if err := Kind("transfer").Validate(); err != ErrInvalidKind {
		t.Fatalf("expected ErrInvalidKind, got %v", err)
	}
}

func TestDateCompare(t *testing.T) {
	a := NewDate(2024, 1, 10)
	b := NewDate(2024, 1, 11)

	if !a.OnOrBefore(a) || !a.OnOrAfter(a) {
		t.Fatal("date must be on-or-before and on-or-after itself")
	}
	if !a.OnOrBefore(b) {
		t.Fatal("jan 10 should be on-or-before jan 11")
	}
	if a.OnOrAfter(b) {
		t.Fatal("jan 10 should not be on-or-after jan 11")
	}
}

func TestLedgerEntryValidate(t *testing.T) {
	valid := LedgerEntry{
		Kind:     Revenue,
		Date:     NewDate(2024, 1, 10),
		Amount:   dec("1000"),
		Category: "Vendas de Produtos",
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid entry rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(e LedgerEntry) LedgerEntry
		want   error
	}{
		{"bad kind", func(e LedgerEntry) LedgerEntry { e.Kind = "credit"; return e }, ErrInvalidKind},
		{"zero amount", func(e LedgerEntry) LedgerEntry { e.Amount = decimal.Zero; return e }, ErrInvalidAmount},
		{"negative amount", func(e LedgerEntry) LedgerEntry { e.Amount = dec("-10"); return e }, ErrInvalidAmount},
		{"empty category", func(e LedgerEntry) LedgerEntry { e.Category = "  "; return e }, ErrEmptyCategory},
		{"zero date", func(e LedgerEntry) LedgerEntry { e.Date = Date{}; return e }, nil},
	}
	for _, tc := range cases {
		err := tc.mutate(valid).Validate()
		if err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
		if tc.want != nil && err != tc.want {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestRecurrentEntryValidate(t *testing.T) {
	valid := RecurrentEntry{
		Kind:      Expense,
		StartDate: NewDate(2024, 1, 5),
		Every:     Monthly,
		Amount:    dec("1200"),
		Category:  "Aluguel",
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid template rejected: %v", err)
	}

	withEnd := valid
	withEnd.EndDate = NewDate(2023, 12, 31)
	if err := withEnd.Validate(); err == nil {
		t.Fatal("end date before start date should be rejected")
	}

	badEvery := valid
	badEvery.Every = "fortnightly"
	if err := badEvery.Validate(); err == nil {
		t.Fatal("unknown repetition type should be rejected")
	}
}
