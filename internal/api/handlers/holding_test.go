package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/api/handlers"
	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/rights"
	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/testutil"
)

// TestHoldingHandler_CreateHolding tests the POST /api/holding endpoint.
func TestHoldingHandler_CreateHolding(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := handlers.NewHoldingHandler(testutil.NewTestHoldingService(t, db), testutil.NewTestValuationService(t, db))
	account := testutil.NewAccount().Build(t, db)
	stock := testutil.NewStock().Build(t, db)

	valid := func() map[string]any {
		return map[string]any{
			"accountId":         account.ID,
			"symbol":            stock.Symbol,
			"shares":            1000,
			"costBasisPerShare": "52.3",
			"purchaseDate":      "2022-05-10",
		}
	}

	tests := []struct {
		name     string
		modify   func(body map[string]any)
		expected int
	}{
		{"valid purchase", func(map[string]any) {}, http.StatusCreated},
		{"zero shares", func(b map[string]any) { b["shares"] = 0 }, http.StatusBadRequest},
		{"negative cost basis", func(b map[string]any) { b["costBasisPerShare"] = "-1" }, http.StatusBadRequest},
		{"impossible date", func(b map[string]any) { b["purchaseDate"] = "2022-02-30" }, http.StatusBadRequest},
		{"malformed symbol", func(b map[string]any) { b["symbol"] = "TSMC" }, http.StatusBadRequest},
		{"unregistered symbol", func(b map[string]any) { b["symbol"] = "9999" }, http.StatusBadRequest},
		{"unknown account", func(b map[string]any) { b["accountId"] = testutil.MakeID() }, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := valid()
			tt.modify(body)

			req := testutil.NewJSONRequest(t, http.MethodPost, "/api/holding", body, nil)
			w := httptest.NewRecorder()
			handler.CreateHolding(w, req)

			if w.Code != tt.expected {
				t.Errorf("Expected status %d, got %d: %s", tt.expected, w.Code, w.Body.String())
			}
		})
	}
}

// TestHoldingHandler_Adjustment tests the GET /api/holding/{uuid}/adjustment endpoint.
//
// WHY: This is the read path for the adjusted position. It must fold the stored events and
// leave the holding itself untouched.
func TestHoldingHandler_Adjustment(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := handlers.NewHoldingHandler(testutil.NewTestHoldingService(t, db), testutil.NewTestValuationService(t, db))
	account := testutil.NewAccount().Build(t, db)
	stock := testutil.NewStock().Build(t, db)
	holding := testutil.NewHolding(account.ID, stock.Symbol).Build(t, db)
	testutil.NewCorporateAction(stock.Symbol, testutil.MustDate("2023-07-20")).WithCash("2").WithRatio("100").Build(t, db)

	req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/holding/"+holding.ID+"/adjustment", map[string]string{"uuid": holding.ID})
	w := httptest.NewRecorder()
	handler.Adjustment(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	result := testutil.DecodeJSON[rights.Result](t, w)
	if result.FinalShares != 1100 {
		t.Errorf("Expected 1100 shares, got %d", result.FinalShares)
	}
	if result.TotalCashDistributionReceived.String() != "2000" {
		t.Errorf("Expected 2000 cash received, got %s", result.TotalCashDistributionReceived)
	}
	if len(result.EventsApplied) != 1 {
		t.Errorf("Expected 1 applied event, got %d", len(result.EventsApplied))
	}

	stored := testutil.NewTestHoldingService(t, db)
	unchanged, err := stored.GetHolding(req.Context(), holding.ID)
	if err != nil {
		t.Fatalf("GetHolding() returned unexpected error: %v", err)
	}
	if unchanged.Shares != holding.Shares {
		t.Errorf("Expected stored shares to stay %d, got %d", holding.Shares, unchanged.Shares)
	}

	missing := testutil.MakeID()
	req = testutil.NewRequestWithURLParams(http.MethodGet, "/api/holding/"+missing+"/adjustment", map[string]string{"uuid": missing})
	w = httptest.NewRecorder()
	handler.Adjustment(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}
