package engine

import (
	"github.com/shopspring/decimal"

	"financeiro/internal/core"
)

type (
	// CostItem is a named cost component of a product or service.
	CostItem struct {
		Description string          `json:"description"`
		Value       decimal.Decimal `json:"value"`
	}

	// FeeItem is a percentage fee applied on top of the sale price, such as
	// card processing or marketplace commission.
	FeeItem struct {
		Description string          `json:"description"`
		Percent     decimal.Decimal `json:"percent"`
	}

	// PricingInputs describes a product or service being priced. For
	// services, labor is hours times hourly rate; products leave those at
	// zero.
	PricingInputs struct {
		MaterialCosts  []CostItem      `json:"materialCosts"`
		LaborHours     decimal.Decimal `json:"laborHours"`
		HourlyRate     decimal.Decimal `json:"hourlyRate"`
		AdditionalFees []FeeItem       `json:"additionalFees"`
		MarginPercent  decimal.Decimal `json:"marginPercent"`
	}

	// Quote is the outcome of the pricing formula.
	//
	// Viable is false when margin plus fees reach 100% or more: at that
	// point the divisor 1-(percent/100) is zero or negative and no finite
	// price covers the cost. The monetary fields are zero in that case
	// rather than infinite or negative.
	Quote struct {
		Viable          bool            `json:"viable"`
		FinalPrice      decimal.Decimal `json:"finalPrice"`
		ProfitValue     decimal.Decimal `json:"profitValue"`  // final price minus cost
		FeesValue       decimal.Decimal `json:"feesValue"`    // share of the price consumed by fees
		MarginProfit    decimal.Decimal `json:"marginProfit"` // profit net of fees, what the owner keeps
		TotalCost       decimal.Decimal `json:"totalCost"`
		CombinedPercent decimal.Decimal `json:"combinedPercent"`
	}
)

// TotalCost sums material costs and labor (hours × hourly rate).
func (in PricingInputs) TotalCost() decimal.Decimal {
	total := in.LaborHours.Mul(in.HourlyRate)
	for _, c := range in.MaterialCosts {
		total = total.Add(c.Value)
	}
	return total
}

// feePercentTotal sums the additional fee percentages.
func (in PricingInputs) feePercentTotal() decimal.Decimal {
	var total decimal.Decimal
	for _, f := range in.AdditionalFees {
		total = total.Add(f.Percent)
	}
	return total
}

// PriceItem runs the pricing formula over structured inputs.
func PriceItem(in PricingInputs) Quote {
	return Price(in.TotalCost(), in.MarginPercent, in.feePercentTotal())
}

// Price derives a sale price from a total cost, a target margin percentage
// and the sum of percentage fees, using the markup-on-price formula
//
//	finalPrice = totalCost / (1 - (marginPercent+feePercent)/100)
//
// so that margin and fees are percentages of the final price, not of the
// cost. Two degenerate inputs are handled explicitly: a non-positive cost
// prices at zero (no cost basis, no price), and a combined percentage at or
// above 100 yields an unviable quote.
func Price(totalCost, marginPercent, feePercent decimal.Decimal) Quote {
	combined := marginPercent.Add(feePercent)

	q := Quote{
		Viable:          true,
		TotalCost:       totalCost,
		CombinedPercent: combined,
	}

	if combined.GreaterThanOrEqual(oneHundred) {
		q.Viable = false
		return q
	}
	if totalCost.LessThanOrEqual(decimal.Zero) {
		// Explicit edge case: zero price, but still a viable quote.
		return q
	}

	divisor := decimal.NewFromInt(1).Sub(core.Percent(combined))
	q.FinalPrice = totalCost.Div(divisor)
	q.ProfitValue = q.FinalPrice.Sub(totalCost)
	q.FeesValue = q.FinalPrice.Mul(core.Percent(feePercent))
	q.MarginProfit = q.ProfitValue.Sub(q.FeesValue)
	return q
}
