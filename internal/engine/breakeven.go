package engine

import (
	"github.com/shopspring/decimal"

	"financeiro/internal/core"
)

type (
	// VariableCost is a cost that scales with revenue, expressed as a
	// percentage of it.
	VariableCost struct {
		Description string          `json:"description"`
		Percent     decimal.Decimal `json:"percent"`
	}

	// FixedCost is an absolute monthly cost independent of revenue.
	FixedCost struct {
		Description string          `json:"description"`
		Value       decimal.Decimal `json:"value"`
	}

	// BreakEvenInputs is a tenant's projection scenario. Projections may be
	// named and saved; persistence lives outside the engine.
	BreakEvenInputs struct {
		Name                 string          `json:"name"`
		EstimatedRevenue     decimal.Decimal `json:"estimatedRevenue"`
		VariableCosts        []VariableCost  `json:"variableCosts"`
		FixedCosts           []FixedCost     `json:"fixedCosts"`
		NonOperatingOutflows decimal.Decimal `json:"nonOperatingOutflows"`
	}

	// BreakEvenResult is the outcome of a projection.
	//
	// Viable is false when variable costs consume 100% of revenue or more:
	// the contribution margin is then non-positive and no revenue level
	// covers the fixed costs. That state is a legitimate business signal,
	// not an error, and BreakEvenRevenue is zero (not infinite) when it is
	// set.
	BreakEvenResult struct {
		Viable                        bool            `json:"viable"`
		ContributionMarginPercent     decimal.Decimal `json:"contributionMarginPercent"`
		FixedCostTotal                decimal.Decimal `json:"fixedCostTotal"`
		BreakEvenRevenue              decimal.Decimal `json:"breakEvenRevenue"`
		BreakEvenAsPercentOfEstimated decimal.Decimal `json:"breakEvenAsPercentOfEstimated"`
		MaxProLabore                  decimal.Decimal `json:"maxProLabore"`
	}
)

// VariableCostPercentTotal sums the variable cost percentages.
func (in BreakEvenInputs) VariableCostPercentTotal() decimal.Decimal {
	var total decimal.Decimal
	for _, v := range in.VariableCosts {
		total = total.Add(v.Percent)
	}
	return total
}

// FixedCostTotal sums the fixed cost values.
func (in BreakEvenInputs) FixedCostTotal() decimal.Decimal {
	var total decimal.Decimal
	for _, f := range in.FixedCosts {
		total = total.Add(f.Value)
	}
	return total
}

// ComputeBreakEven derives the contribution margin, the break-even revenue
// point and the maximum sustainable owner compensation (pro-labore) from a
// projection scenario.
func ComputeBreakEven(in BreakEvenInputs) BreakEvenResult {
	variablePercent := in.VariableCostPercentTotal()
	contribution := oneHundred.Sub(variablePercent)
	fixedTotal := in.FixedCostTotal()

	r := BreakEvenResult{
		ContributionMarginPercent: contribution,
		FixedCostTotal:            fixedTotal,
	}

	if contribution.GreaterThan(decimal.Zero) {
		r.Viable = true
		r.BreakEvenRevenue = fixedTotal.Div(core.Percent(contribution))
		if !in.EstimatedRevenue.IsZero() {
			r.BreakEvenAsPercentOfEstimated = percentOf(r.BreakEvenRevenue, in.EstimatedRevenue)
		}
	}

	// Pro-labore: what remains of the estimated revenue after variable
	// costs (converted to absolute terms), fixed costs and non-operating
	// outflows. Never negative; an underwater scenario caps at zero.
	variableAbsolute := in.EstimatedRevenue.Mul(core.Percent(variablePercent))
	proLabore := in.EstimatedRevenue.
		Sub(variableAbsolute).
		Sub(fixedTotal).
		Sub(in.NonOperatingOutflows)
	if proLabore.GreaterThan(decimal.Zero) {
		r.MaxProLabore = proLabore
	}

	return r
}
