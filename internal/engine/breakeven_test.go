package engine

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestComputeBreakEven(t *testing.T) {
	in := BreakEvenInputs{
		EstimatedRevenue: dec("10000"),
		VariableCosts: []VariableCost{
			{Description: "impostos", Percent: dec("10")},
			{Description: "comissões", Percent: dec("20")},
		},
		FixedCosts: []FixedCost{
			{Description: "aluguel", Value: dec("2000")},
			{Description: "folha", Value: dec("1500")},
		},
		NonOperatingOutflows: dec("500"),
	}

	r := ComputeBreakEven(in)

	if !r.Viable {
		t.Fatal("scenario should be viable")
	}
	if !r.ContributionMarginPercent.Equal(dec("70")) {
		t.Fatalf("contribution margin: got %s, want 70", r.ContributionMarginPercent)
	}
	if !r.FixedCostTotal.Equal(dec("3500")) {
		t.Fatalf("fixed total: got %s, want 3500", r.FixedCostTotal)
	}
	// 3500 / 0.70 = 5000
	if !r.BreakEvenRevenue.Equal(dec("5000")) {
		t.Fatalf("break-even revenue: got %s, want 5000", r.BreakEvenRevenue)
	}
	if !r.BreakEvenAsPercentOfEstimated.Equal(dec("50")) {
		t.Fatalf("break-even percent of estimated: got %s, want 50", r.BreakEvenAsPercentOfEstimated)
	}
	// 10000 - 3000 variable - 3500 fixed - 500 = 3000
	if !r.MaxProLabore.Equal(dec("3000")) {
		t.Fatalf("max pro-labore: got %s, want 3000", r.MaxProLabore)
	}
}

func TestComputeBreakEvenUnviable(t *testing.T) {
	for _, variable := range []string{"100", "120"} {
		in := BreakEvenInputs{
			EstimatedRevenue: dec("8000"),
			VariableCosts:    []VariableCost{{Description: "tudo", Percent: dec(variable)}},
			FixedCosts:       []FixedCost{{Description: "aluguel", Value: dec("1000")}},
		}

		r := ComputeBreakEven(in)

		if r.Viable {
			t.Fatalf("variable costs at %s%% must be unviable", variable)
		}
		if !r.BreakEvenRevenue.IsZero() {
			t.Fatalf("unviable scenario must not report a break-even revenue, got %s", r.BreakEvenRevenue)
		}
		// Contribution margin still reported, as the (non-positive) signal.
		if r.ContributionMarginPercent.GreaterThan(decimal.Zero) {
			t.Fatalf("contribution margin should be <= 0, got %s", r.ContributionMarginPercent)
		}
		// Pro-labore floors at zero, never negative.
		if r.MaxProLabore.Sign() < 0 {
			t.Fatalf("pro-labore must never be negative, got %s", r.MaxProLabore)
		}
		if !r.MaxProLabore.IsZero() {
			t.Fatalf("underwater scenario should cap pro-labore at zero, got %s", r.MaxProLabore)
		}
	}
}

func TestComputeBreakEvenZeroEstimatedRevenue(t *testing.T) {
	in := BreakEvenInputs{
		VariableCosts: []VariableCost{{Description: "impostos", Percent: dec("30")}},
		FixedCosts:    []FixedCost{{Description: "aluguel", Value: dec("700")}},
	}

	r := ComputeBreakEven(in)

	if !r.Viable {
		t.Fatal("scenario is viable even without an estimate")
	}
	if !r.BreakEvenRevenue.Equal(dec("1000")) {
		t.Fatalf("break-even revenue: got %s, want 1000", r.BreakEvenRevenue)
	}
	// No estimate to compare against: percent reports zero, not a division
	// error.
	if !r.BreakEvenAsPercentOfEstimated.IsZero() {
		t.Fatalf("percent of estimated should be 0, got %s", r.BreakEvenAsPercentOfEstimated)
	}
	if !r.MaxProLabore.IsZero() {
		t.Fatalf("no revenue, no pro-labore: got %s", r.MaxProLabore)
	}
}

func TestComputeBreakEvenNoCosts(t *testing.T) {
	r := ComputeBreakEven(BreakEvenInputs{EstimatedRevenue: dec("5000")})
	if !r.Viable {
		t.Fatal("no costs should be viable")
	}
	if !r.BreakEvenRevenue.IsZero() {
		t.Fatalf("no fixed costs means break-even at zero, got %s", r.BreakEvenRevenue)
	}
	if !r.MaxProLabore.Equal(dec("5000")) {
		t.Fatalf("everything is pro-labore: got %s", r.MaxProLabore)
	}
}
