package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"financeiro/internal/core"
	"financeiro/internal/engine"
	"financeiro/internal/storage"
)

type fakeLedger struct {
	created   []core.LedgerEntry
	deleted   []string
	deleteErr error
}

func (f *fakeLedger) CreateEntry(_ context.Context, e core.LedgerEntry) (string, error) {
	e.ID = "generated-id"
	f.created = append(f.created, e)
	return e.ID, nil
}

func (f *fakeLedger) DeleteEntry(_ context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeReports struct {
	dreCalls    int
	projections []storage.Projection
}

func (f *fakeReports) DREReport(_ context.Context, _ engine.PeriodSelector, _, _ core.Date) (engine.DREResult, engine.Range, error) {
	f.dreCalls++
	return engine.ComputeDRE([]core.LedgerEntry{{
			Kind:     core.Revenue,
			Date:     core.NewDate(2024, 3, 5),
			Amount:   decimal.RequireFromString("1000"),
			Category: "Vendas de Produtos",
		}}),
		engine.Range{Start: core.NewDate(2024, 3, 1), End: core.NewDate(2024, 3, 31)},
		nil
}

func (f *fakeReports) CashFlowReport(_ context.Context, _ engine.PeriodSelector, _, _ core.Date) (engine.CashFlowStatement, engine.Range, error) {
	return engine.AggregateCashFlow(nil),
		engine.Range{Start: core.NewDate(2024, 3, 1), End: core.NewDate(2024, 3, 31)},
		nil
}

func (f *fakeReports) SaveBreakEvenProjection(_ context.Context, in engine.BreakEvenInputs) (storage.Projection, error) {
	p := storage.Projection{
		ID:        "p1",
		Name:      in.Name,
		Inputs:    in,
		Result:    engine.ComputeBreakEven(in),
		CreatedAt: time.Now(),
	}
	f.projections = append(f.projections, p)
	return p, nil
}

func (f *fakeReports) ListBreakEvenProjections(_ context.Context) ([]storage.Projection, error) {
	return f.projections, nil
}

func newTestServer(t *testing.T) (*Server, *fakeLedger, *fakeReports) {
	t.Helper()
	ledger := &fakeLedger{}
	reports := &fakeReports{}
	s := NewServer(":0", ledger, reports, CacheConfig{Size: 8, TTL: time.Minute})
	t.Cleanup(func() {
		_ = s.Shutdown(context.Background())
	})
	return s, ledger, reports
}

func doRequest(s *Server, method, target, body string) *httptest.ResponseRecorder {
	var r *http.Request
	if body != "" {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
	} else {
		r = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	s.Server.Handler.ServeHTTP(w, r)
	return w
}

func TestCreateEntry(t *testing.T) {
	s, ledger, _ := newTestServer(t)

	body := `{"kind":"revenue","date":"2024-03-05","amount":"1500,50","category":"Vendas de Produtos","notes":"pedido 42"}`
	w := doRequest(s, http.MethodPost, "/api/entries", body)

	if w.Code != http.StatusCreated {
		t.Fatalf("status: got %d, body %s", w.Code, w.Body.String())
	}

	var resp struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.ID == "" {
		t.Fatal("expected entry ID in response")
	}

	if len(ledger.created) != 1 {
		t.Fatalf("expected 1 created entry, got %d", len(ledger.created))
	}
	e := ledger.created[0]
	if e.Amount.String() != "1500.5" {
		t.Fatalf("comma amount not normalized: %s", e.Amount)
	}
	if e.Kind != core.Revenue || e.Category != "Vendas de Produtos" {
		t.Fatalf("unexpected entry: %+v", e)
	}
}

func TestCreateEntryValidation(t *testing.T) {
	s, ledger, _ := newTestServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"invalid kind", `{"kind":"transfer","date":"2024-03-05","amount":"10","category":"x"}`},
		{"invalid amount", `{"kind":"expense","date":"2024-03-05","amount":"abc","category":"x"}`},
		{"zero amount", `{"kind":"expense","date":"2024-03-05","amount":"0","category":"x"}`},
		{"missing category", `{"kind":"expense","date":"2024-03-05","amount":"10","category":""}`},
		{"bad date", `{"kind":"expense","date":"05/03/2024","amount":"10","category":"x"}`},
		{"unknown field", `{"kind":"expense","date":"2024-03-05","amount":"10","category":"x","extra":true}`},
		{"malformed json", `{`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(s, http.MethodPost, "/api/entries", tt.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status: got %d, want 400 (body %s)", w.Code, w.Body.String())
			}
		})
	}

	if len(ledger.created) != 0 {
		t.Fatalf("invalid requests must not create entries: %d", len(ledger.created))
	}
}

func TestDeleteEntry(t *testing.T) {
	s, ledger, _ := newTestServer(t)

	w := doRequest(s, http.MethodDelete, "/api/entries/e1", "")
	if w.Code != http.StatusNoContent {
		t.Fatalf("status: got %d", w.Code)
	}
	if len(ledger.deleted) != 1 || ledger.deleted[0] != "e1" {
		t.Fatalf("delete not forwarded: %v", ledger.deleted)
	}
}

func TestDeleteEntryNotFound(t *testing.T) {
	s, ledger, _ := newTestServer(t)
	ledger.deleteErr = core.ErrEntryNotFound

	w := doRequest(s, http.MethodDelete, "/api/entries/missing", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status: got %d, want 404", w.Code)
	}
}

func TestDREReport(t *testing.T) {
	s, _, _ := newTestServer(t)

	w := doRequest(s, http.MethodGet, "/api/reports/dre?period=current-month", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, body %s", w.Code, w.Body.String())
	}

	var resp struct {
		Period struct {
			Start string `json:"start"`
			End   string `json:"end"`
		} `json:"period"`
		Report struct {
			GrossRevenue struct {
				Value string `json:"value"`
			} `json:"grossRevenue"`
		} `json:"report"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Period.Start != "2024-03-01" || resp.Period.End != "2024-03-31" {
		t.Fatalf("period: got %+v", resp.Period)
	}
	if resp.Report.GrossRevenue.Value != "1000" {
		t.Fatalf("gross revenue: got %q", resp.Report.GrossRevenue.Value)
	}
}

func TestDREReportUnknownPeriod(t *testing.T) {
	s, _, _ := newTestServer(t)

	w := doRequest(s, http.MethodGet, "/api/reports/dre?period=last-decade", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400", w.Code)
	}
}

func TestReportCaching(t *testing.T) {
	s, _, reports := newTestServer(t)

	first := doRequest(s, http.MethodGet, "/api/reports/dre?period=current-month", "")
	if got := first.Header().Get("X-Cache"); got != "miss" {
		t.Fatalf("first request X-Cache: got %q", got)
	}

	second := doRequest(s, http.MethodGet, "/api/reports/dre?period=current-month", "")
	if got := second.Header().Get("X-Cache"); got != "hit" {
		t.Fatalf("second request X-Cache: got %q", got)
	}
	if reports.dreCalls != 1 {
		t.Fatalf("report recomputed despite cache: %d calls", reports.dreCalls)
	}
	if first.Body.String() != second.Body.String() {
		t.Fatal("cached body differs from original")
	}

	// A ledger write invalidates cached reports.
	doRequest(s, http.MethodPost, "/api/entries",
		`{"kind":"expense","date":"2024-03-06","amount":"10","category":"Aluguel"}`)

	third := doRequest(s, http.MethodGet, "/api/reports/dre?period=current-month", "")
	if got := third.Header().Get("X-Cache"); got != "miss" {
		t.Fatalf("after write X-Cache: got %q", got)
	}
	if reports.dreCalls != 2 {
		t.Fatalf("expected recompute after write, got %d calls", reports.dreCalls)
	}
}

func TestCashFlowReport(t *testing.T) {
	s, _, _ := newTestServer(t)

	w := doRequest(s, http.MethodGet, "/api/reports/cashflow", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, body %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"totals"`) {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestPricingQuote(t *testing.T) {
	s, _, _ := newTestServer(t)

	body := `{"materialCosts":[{"description":"matéria-prima","value":"100"}],"laborHours":"0","hourlyRate":"0","additionalFees":[],"marginPercent":"20"}`
	w := doRequest(s, http.MethodPost, "/api/pricing/quote", body)
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, body %s", w.Code, w.Body.String())
	}

	var q engine.Quote
	if err := json.Unmarshal(w.Body.Bytes(), &q); err != nil {
		t.Fatalf("decode quote: %v", err)
	}
	if !q.Viable {
		t.Fatal("quote should be viable")
	}
	if !q.FinalPrice.Equal(decimal.RequireFromString("125")) {
		t.Fatalf("final price: got %s, want 125", q.FinalPrice)
	}
}

func TestPricingQuoteUnviable(t *testing.T) {
	s, _, _ := newTestServer(t)

	body := `{"materialCosts":[{"description":"c","value":"50"}],"laborHours":"0","hourlyRate":"0","additionalFees":[{"description":"taxa","percent":"40"}],"marginPercent":"60"}`
	w := doRequest(s, http.MethodPost, "/api/pricing/quote", body)
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d", w.Code)
	}

	var q engine.Quote
	if err := json.Unmarshal(w.Body.Bytes(), &q); err != nil {
		t.Fatalf("decode quote: %v", err)
	}
	if q.Viable {
		t.Fatal("margin+fees at 100% must be unviable")
	}
	if !q.FinalPrice.IsZero() {
		t.Fatalf("unviable quote must not carry a price, got %s", q.FinalPrice)
	}
}

func TestPricingQuoteNegativeMargin(t *testing.T) {
	s, _, _ := newTestServer(t)

	body := `{"materialCosts":[],"laborHours":"0","hourlyRate":"0","additionalFees":[],"marginPercent":"-5"}`
	w := doRequest(s, http.MethodPost, "/api/pricing/quote", body)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400", w.Code)
	}
}

func TestBreakEvenSaveAndList(t *testing.T) {
	s, _, _ := newTestServer(t)

	body := `{"name":"cenário base","estimatedRevenue":"10000","variableCosts":[{"description":"impostos","percent":"30"}],"fixedCosts":[{"description":"aluguel","value":"3500"}],"nonOperatingOutflows":"0"}`
	w := doRequest(s, http.MethodPost, "/api/breakeven", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("status: got %d, body %s", w.Code, w.Body.String())
	}

	var p storage.Projection
	if err := json.Unmarshal(w.Body.Bytes(), &p); err != nil {
		t.Fatalf("decode projection: %v", err)
	}
	if !p.Result.Viable {
		t.Fatal("projection should be viable")
	}
	if !p.Result.BreakEvenRevenue.Equal(decimal.RequireFromString("5000")) {
		t.Fatalf("break-even revenue: got %s", p.Result.BreakEvenRevenue)
	}

	list := doRequest(s, http.MethodGet, "/api/breakeven/projections", "")
	if list.Code != http.StatusOK {
		t.Fatalf("list status: got %d", list.Code)
	}
	var ps []storage.Projection
	if err := json.Unmarshal(list.Body.Bytes(), &ps); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(ps) != 1 || ps[0].Name != "cenário base" {
		t.Fatalf("unexpected projections: %+v", ps)
	}
}

func TestBreakEvenRequiresName(t *testing.T) {
	s, _, _ := newTestServer(t)

	w := doRequest(s, http.MethodPost, "/api/breakeven", `{"name":"","estimatedRevenue":"0","variableCosts":[],"fixedCosts":[],"nonOperatingOutflows":"0"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400", w.Code)
	}
}

func TestHealthEndpoints(t *testing.T) {
	s, _, _ := newTestServer(t)

	for _, path := range []string{"/healthz", "/readyz"} {
		w := doRequest(s, http.MethodGet, path, "")
		if w.Code != http.StatusOK {
			t.Fatalf("%s status: got %d", path, w.Code)
		}
	}
}
