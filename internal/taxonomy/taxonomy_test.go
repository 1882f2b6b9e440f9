package taxonomy

import (
	"testing"

	"financeiro/internal/core"
)

func TestClassifyRevenue(t *testing.T) {
	cases := []struct {
		category  string
		group     string
		financial bool
		matched   bool
	}{
		{"Vendas de Produtos", GroupOperatingRevenue, false, true},
		{"Prestação de Serviços", GroupOperatingRevenue, false, true},
		{"Juros Recebidos", GroupFinancialRevenue, true, true},
		{"Venda de Imobilizado", GroupOtherRevenue, false, true},
		{"Categoria Inventada", GroupOtherRevenue, false, false},
		{"", GroupOtherRevenue, false, false},
	}
	for _, tc := range cases {
		got := Classify(core.Revenue, tc.category)
		if got.Group != tc.group || got.IsFinancial != tc.financial || got.Matched != tc.matched {
			t.Fatalf("%q: got %+v, want group=%s financial=%v matched=%v",
				tc.category, got, tc.group, tc.financial, tc.matched)
		}
	}
}

func TestClassifyExpense(t *testing.T) {
	cases := []struct {
		category string
		group    string
		check    func(Classification) bool
	}{
		{"ICMS sobre Vendas", GroupDeductions, func(c Classification) bool { return c.IsDeduction }},
		{"Simples Nacional", GroupDeductions, func(c Classification) bool { return c.IsDeduction }},
		{"Custo dos Produtos Vendidos (CPV)", GroupCosts, func(c Classification) bool { return c.IsCOGS }},
		{"Matéria-Prima", GroupCosts, func(c Classification) bool { return c.IsCOGS }},
		{"Salários e Encargos", GroupOperatingExpense, func(c Classification) bool { return c.IsOperatingExpense }},
		{"Aluguel", GroupOperatingExpense, func(c Classification) bool { return c.IsOperatingExpense }},
		{"Juros Pagos", GroupFinancialExpense, func(c Classification) bool { return c.IsFinancial }},
		{"Perdas Diversas", GroupOtherExpense, func(c Classification) bool { return c.IsOperatingExpense }},
	}
	for _, tc := range cases {
		got := Classify(core.Expense, tc.category)
		if got.Group != tc.group {
			t.Fatalf("%q: got group %s, want %s", tc.category, got.Group, tc.group)
		}
		if !tc.check(got) {
			t.Fatalf("%q: role flags wrong: %+v", tc.category, got)
		}
		if !got.Matched {
			t.Fatalf("%q: should be a known category", tc.category)
		}
	}
}

// Each expense category must land in exactly one role so the DRE never
// double-counts a ledger entry.
func TestClassifyExpenseSingleRole(t *testing.T) {
	for _, category := range append(Categories(core.Expense), "Desconhecida") {
		c := Classify(core.Expense, category)
		roles := 0
		for _, set := range []bool{c.IsDeduction, c.IsCOGS, c.IsOperatingExpense, c.IsFinancial} {
			if set {
				roles++
			}
		}
		if roles != 1 {
			t.Fatalf("%q: expected exactly one role, got %d (%+v)", category, roles, c)
		}
	}
}

func TestClassifyUnknownExpenseFallsBack(t *testing.T) {
	got := Classify(core.Expense, "Gastos com Hipopótamos")
	if got.Group != GroupOtherExpense || !got.IsOperatingExpense || got.Matched {
		t.Fatalf("unexpected fallback classification: %+v", got)
	}
}
