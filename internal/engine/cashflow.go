package engine

import (
	"sort"

	"github.com/shopspring/decimal"

	"financeiro/internal/core"
)

type (
	// DayFlow holds the revenue and expense movement of a single calendar
	// day.
	DayFlow struct {
		Date    core.Date       `json:"date"`
		Revenue decimal.Decimal `json:"revenue"`
		Expense decimal.Decimal `json:"expense"`
		Net     decimal.Decimal `json:"net"`
	}

	// FlowTotals is the roll-up over a whole statement.
	FlowTotals struct {
		Revenue decimal.Decimal `json:"revenue"`
		Expense decimal.Decimal `json:"expense"`
		Net     decimal.Decimal `json:"net"`
	}

	// CashFlowStatement buckets entries by day and by raw category. Days is
	// sorted ascending and sparse: days without movement are not
	// synthesized, a consumer wanting a dense series fills the gaps itself.
	// Category keys are the entries' own labels, not taxonomy groups.
	CashFlowStatement struct {
		Days              []DayFlow                  `json:"days"`
		RevenueByCategory map[string]decimal.Decimal `json:"revenueByCategory"`
		ExpenseByCategory map[string]decimal.Decimal `json:"expenseByCategory"`
		Totals            FlowTotals                 `json:"totals"`
	}
)

// AggregateCashFlow reduces a set of entries into daily and per-category
// buckets with running totals. All sums are exact decimal additions; nothing
// is rounded here, display formatting is the caller's concern.
func AggregateCashFlow(entries []core.LedgerEntry) CashFlowStatement {
	byDay := make(map[string]*DayFlow)
	stmt := CashFlowStatement{
		RevenueByCategory: make(map[string]decimal.Decimal),
		ExpenseByCategory: make(map[string]decimal.Decimal),
	}

	for _, e := range entries {
		key := e.Date.Format("2006-01-02")
		day, ok := byDay[key]
		if !ok {
			day = &DayFlow{Date: e.Date}
			byDay[key] = day
		}

		switch e.Kind {
		case core.Revenue:
			day.Revenue = day.Revenue.Add(e.Amount)
			stmt.RevenueByCategory[e.Category] = stmt.RevenueByCategory[e.Category].Add(e.Amount)
			stmt.Totals.Revenue = stmt.Totals.Revenue.Add(e.Amount)
		default:
			day.Expense = day.Expense.Add(e.Amount)
			stmt.ExpenseByCategory[e.Category] = stmt.ExpenseByCategory[e.Category].Add(e.Amount)
			stmt.Totals.Expense = stmt.Totals.Expense.Add(e.Amount)
		}
	}

	stmt.Days = make([]DayFlow, 0, len(byDay))
	for _, day := range byDay {
		day.Net = day.Revenue.Sub(day.Expense)
		stmt.Days = append(stmt.Days, *day)
	}
	sort.Slice(stmt.Days, func(i, j int) bool {
		return stmt.Days[i].Date.Before(stmt.Days[j].Date.Time)
	})

	stmt.Totals.Net = stmt.Totals.Revenue.Sub(stmt.Totals.Expense)
	return stmt
}
