package engine

import (
	"github.com/shopspring/decimal"

	"financeiro/internal/core"
	"financeiro/internal/taxonomy"
)

var oneHundred = decimal.NewFromInt(100)

type (
	// DRELine is a single income-statement line with its share of net
	// revenue. When net revenue is zero every percentage is zero, never a
	// division error.
	DRELine struct {
		Value   decimal.Decimal `json:"value"`
		Percent decimal.Decimal `json:"percentOfNetRevenue"`
	}

	// DREResult is the structured income statement
	// (Demonstração do Resultado do Exercício) derived from a filtered
	// entry set. It is recomputed from scratch on every call and never
	// cached or mutated.
	DREResult struct {
		GrossRevenue      DRELine `json:"grossRevenue"`
		Deductions        DRELine `json:"deductions"`
		NetRevenue        DRELine `json:"netRevenue"`
		CostOfGoodsSold   DRELine `json:"costOfGoodsSold"`
		GrossProfit       DRELine `json:"grossProfit"`
		OperatingExpenses DRELine `json:"operatingExpenses"`
		OperatingResult   DRELine `json:"operatingResult"`
		FinancialRevenue  DRELine `json:"financialRevenue"`
		FinancialExpenses DRELine `json:"financialExpenses"`
		FinancialResult   DRELine `json:"financialResult"`
		NetResult         DRELine `json:"netResult"`

		// UnmatchedCategories lists category labels that fell into a
		// fallback group, one occurrence each, in first-seen order. The
		// numbers above already include them; this is a data-quality
		// diagnostic, not an error.
		UnmatchedCategories []string `json:"unmatchedCategories,omitempty"`
	}
)

// ComputeDRE classifies every entry through the taxonomy and folds the
// amounts into income-statement lines. The function is total: unknown
// categories land in the "other" bucket of their kind and contribute to the
// result like any other entry.
func ComputeDRE(entries []core.LedgerEntry) DREResult {
	var (
		grossRevenue      decimal.Decimal
		deductions        decimal.Decimal
		costOfGoodsSold   decimal.Decimal
		operatingExpenses decimal.Decimal
		financialRevenue  decimal.Decimal
		financialExpenses decimal.Decimal
	)

	var unmatched []string
	seen := make(map[string]bool)

	for _, e := range entries {
		c := taxonomy.Classify(e.Kind, e.Category)
		if !c.Matched && !seen[e.Category] {
			seen[e.Category] = true
			unmatched = append(unmatched, e.Category)
		}

		if e.Kind == core.Revenue {
			if c.IsFinancial {
				financialRevenue = financialRevenue.Add(e.Amount)
			} else {
				// Operating and "other" revenue both count as gross.
				grossRevenue = grossRevenue.Add(e.Amount)
			}
			continue
		}

		// Each expense category belongs to exactly one group, so every
		// amount is routed exactly once.
		switch {
		case c.IsDeduction:
			deductions = deductions.Add(e.Amount)
		case c.IsCOGS:
			costOfGoodsSold = costOfGoodsSold.Add(e.Amount)
		case c.IsFinancial:
			financialExpenses = financialExpenses.Add(e.Amount)
		default:
			operatingExpenses = operatingExpenses.Add(e.Amount)
		}
	}

	netRevenue := grossRevenue.Sub(deductions)
	grossProfit := netRevenue.Sub(costOfGoodsSold)
	operatingResult := grossProfit.Sub(operatingExpenses)
	financialResult := financialRevenue.Sub(financialExpenses)
	netResult := operatingResult.Add(financialResult)

	line := func(v decimal.Decimal) DRELine {
		return DRELine{Value: v, Percent: percentOf(v, netRevenue)}
	}

	return DREResult{
		GrossRevenue:        line(grossRevenue),
		Deductions:          line(deductions),
		NetRevenue:          line(netRevenue),
		CostOfGoodsSold:     line(costOfGoodsSold),
		GrossProfit:         line(grossProfit),
		OperatingExpenses:   line(operatingExpenses),
		OperatingResult:     line(operatingResult),
		FinancialRevenue:    line(financialRevenue),
		FinancialExpenses:   line(financialExpenses),
		FinancialResult:     line(financialResult),
		NetResult:           line(netResult),
		UnmatchedCategories: unmatched,
	}
}

// percentOf returns value/base as a percentage, or zero when the base is
// zero.
func percentOf(value, base decimal.Decimal) decimal.Decimal {
	if base.IsZero() {
		return decimal.Zero
	}
	return value.Div(base).Mul(oneHundred)
}
