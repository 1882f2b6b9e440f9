package http

import (
	"net/http"

	"github.com/shopspring/decimal"

	"financeiro/internal/engine"
)

func validPercent(p decimal.Decimal) bool {
	return p.GreaterThanOrEqual(decimal.Zero)
}

func (s *Server) handlePricingQuote(w http.ResponseWriter, r *http.Request) {
	var in engine.PricingInputs
	if err := readJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if !validPercent(in.MarginPercent) {
		writeError(w, http.StatusBadRequest, "marginPercent must not be negative")
		return
	}
	for _, f := range in.AdditionalFees {
		if !validPercent(f.Percent) {
			writeError(w, http.StatusBadRequest, "fee percentages must not be negative")
			return
		}
	}
	for _, c := range in.MaterialCosts {
		if c.Value.LessThan(decimal.Zero) {
			writeError(w, http.StatusBadRequest, "material costs must not be negative")
			return
		}
	}

	writeJSON(w, http.StatusOK, engine.PriceItem(in))
}
