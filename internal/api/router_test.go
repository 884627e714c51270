package api_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/api"
	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/backup"
	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/testutil"
)

// TestNewRouter tests that routes resolve through the middleware chain.
//
// WHY: Path parameters are validated by middleware before any handler runs, so malformed
// IDs and symbols must be rejected with 400 at the router level.
func TestNewRouter(t *testing.T) {
	db := testutil.SetupTestDB(t)
	codec, err := backup.NewCodec("")
	if err != nil {
		t.Fatalf("NewCodec() returned unexpected error: %v", err)
	}

	svc := api.Services{
		System:          testutil.NewTestSystemService(t, db),
		Account:         testutil.NewTestAccountService(t, db),
		Stock:           testutil.NewTestStockService(t, db),
		Holding:         testutil.NewTestHoldingService(t, db),
		CorporateAction: testutil.NewTestCorporateActionService(t, db, testutil.NewMockCorporateActionFeed()),
		Price:           testutil.NewTestPriceService(t, db, testutil.NewMockPriceFeed()),
		Valuation:       testutil.NewTestValuationService(t, db),
		Backup:          testutil.NewTestBackupService(t, db),
	}
	router := api.NewRouter(svc, codec, testutil.TestConfig())

	stock := testutil.NewStock().Build(t, db)

	tests := []struct {
		name     string
		method   string
		path     string
		expected int
	}{
		{"health", http.MethodGet, "/api/system/health", http.StatusOK},
		{"version", http.MethodGet, "/api/system/version", http.StatusOK},
		{"list accounts", http.MethodGet, "/api/account", http.StatusOK},
		{"malformed account id", http.MethodGet, "/api/account/not-a-uuid", http.StatusBadRequest},
		{"unknown account", http.MethodGet, "/api/account/" + testutil.MakeID(), http.StatusNotFound},
		{"get stock", http.MethodGet, "/api/stock/" + stock.Symbol, http.StatusOK},
		{"malformed symbol", http.MethodGet, "/api/stock/TSMC", http.StatusBadRequest},
		{"stock actions", http.MethodGet, "/api/stock/" + stock.Symbol + "/action", http.StatusOK},
		{"update price", http.MethodPost, "/api/stock/" + stock.Symbol + "/price/update", http.StatusOK},
		{"stock prices", http.MethodGet, "/api/stock/" + stock.Symbol + "/price", http.StatusOK},
		{"malformed holding id", http.MethodGet, "/api/holding/123/adjustment", http.StatusBadRequest},
		{"valuation", http.MethodGet, "/api/valuation", http.StatusOK},
		{"empty snapshot", http.MethodGet, "/api/valuation/snapshot", http.StatusNotFound},
		{"export", http.MethodGet, "/api/backup", http.StatusOK},
		{"unknown route", http.MethodGet, "/api/portfolio", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.expected {
				t.Errorf("%s %s: expected status %d, got %d: %s", tt.method, tt.path, tt.expected, w.Code, w.Body.String())
			}
		})
	}
}
