// Package taxonomy holds the fixed classification of ledger categories into
// DRE (income statement) groups.
//
// The mapping is pure configuration data: adding a category means adding a
// line to a table, never a branch to the classifier. Classification is a
// single map lookup plus a lenient fallback, so an unrecognized category is
// absorbed into the "other" group of its kind instead of being dropped or
// rejected.
package taxonomy

import "financeiro/internal/core"

// Revenue groups.
const (
	GroupOperatingRevenue = "Receitas Operacionais"
	GroupFinancialRevenue = "Receitas Financeiras"
	GroupOtherRevenue     = "Outras Receitas"
)

// Expense groups.
const (
	GroupDeductions       = "Deduções da Receita"
	GroupCosts            = "Custos"
	GroupOperatingExpense = "Despesas Operacionais"
	GroupFinancialExpense = "Despesas Financeiras"
	GroupOtherExpense     = "Outras Despesas"
)

// Classification describes where a category lands in the income statement.
// Exactly one of the boolean roles is set for expense groups; revenue groups
// set IsFinancial or none.
type Classification struct {
	Group              string
	IsDeduction        bool
	IsCOGS             bool
	IsOperatingExpense bool
	IsFinancial        bool
	Matched            bool // false when the fallback group was used
}

// revenueGroups maps each revenue leaf category to its group.
var revenueGroups = buildIndex(map[string][]string{
	GroupOperatingRevenue: {
		"Vendas de Produtos",
		"Vendas de Mercadorias",
		"Prestação de Serviços",
		"Vendas no Atacado",
		"Assinaturas e Mensalidades",
	},
	GroupFinancialRevenue: {
		"Rendimentos de Aplicações",
		"Juros Recebidos",
		"Descontos Obtidos",
	},
	GroupOtherRevenue: {
		"Venda de Imobilizado",
		"Aluguéis Recebidos",
	},
})

// expenseGroups maps each expense leaf category to its group.
var expenseGroups = buildIndex(map[string][]string{
	GroupDeductions: {
		"ICMS sobre Vendas",
		"ISS sobre Serviços",
		"PIS/COFINS",
		"Simples Nacional",
		"Devoluções e Abatimentos",
	},
	GroupCosts: {
		"Custo dos Produtos Vendidos (CPV)",
		"Custo das Mercadorias Vendidas (CMV)",
		"Custo dos Serviços Prestados (CSP)",
		"Matéria-Prima",
		"Frete sobre Compras",
		"Embalagens",
	},
	GroupOperatingExpense: {
		"Salários e Encargos",
		"Pró-Labore",
		"Aluguel",
		"Energia Elétrica",
		"Água e Esgoto",
		"Internet e Telefone",
		"Marketing e Publicidade",
		"Contabilidade",
		"Material de Escritório",
		"Software e Assinaturas",
		"Manutenção e Reparos",
		"Combustível e Transporte",
		"Impostos e Taxas",
		"Seguros",
	},
	GroupFinancialExpense: {
		"Juros Pagos",
		"Tarifas Bancárias",
		"IOF",
		"Multas e Juros de Mora",
		"Taxas de Cartão",
	},
	GroupOtherExpense: {
		"Perdas Diversas",
		"Doações",
	},
})

func buildIndex(groups map[string][]string) map[string]string {
	idx := make(map[string]string)
	for group, categories := range groups {
		for _, c := range categories {
			idx[c] = group
		}
	}
	return idx
}

// Classify resolves a category label into its DRE classification via exact
// string match. Unknown categories never error: they fall back to the "other"
// group of their kind, tagged as operating revenue or operating expense, so
// mistyped categories still show up in totals.
func Classify(kind core.Kind, category string) Classification {
	switch kind {
	case core.Revenue:
		if group, ok := revenueGroups[category]; ok {
			return Classification{
				Group:       group,
				IsFinancial: group == GroupFinancialRevenue,
				Matched:     true,
			}
		}
		return Classification{Group: GroupOtherRevenue, Matched: false}
	default:
		if group, ok := expenseGroups[category]; ok {
			return Classification{
				Group:              group,
				IsDeduction:        group == GroupDeductions,
				IsCOGS:             group == GroupCosts,
				IsOperatingExpense: group == GroupOperatingExpense || group == GroupOtherExpense,
				IsFinancial:        group == GroupFinancialExpense,
				Matched:            true,
			}
		}
		return Classification{Group: GroupOtherExpense, IsOperatingExpense: true, Matched: false}
	}
}

// Categories returns the known leaf categories for a kind, for seeding
// dropdowns and validating imports. The slice is a copy.
func Categories(kind core.Kind) []string {
	var idx map[string]string
	if kind == core.Revenue {
		idx = revenueGroups
	} else {
		idx = expenseGroups
	}
	out := make([]string, 0, len(idx))
	for c := range idx {
		out = append(out, c)
	}
	return out
}
