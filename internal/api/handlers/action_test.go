package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/api/handlers"
	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/model"
	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/testutil"
)

// TestCorporateActionHandler_CreateAction tests the POST /api/stock/{symbol}/action endpoint.
func TestCorporateActionHandler_CreateAction(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := handlers.NewCorporateActionHandler(testutil.NewTestCorporateActionService(t, db, testutil.NewMockCorporateActionFeed()))
	stock := testutil.NewStock().Build(t, db)
	params := map[string]string{"symbol": stock.Symbol}

	t.Run("records a manual event", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/stock/"+stock.Symbol+"/action",
			map[string]any{"exDate": "2023-07-20", "cashDividendPerShare": "3", "stockDividendRatioPerThousand": "0"}, params)
		w := httptest.NewRecorder()
		handler.CreateAction(w, req)

		if w.Code != http.StatusCreated {
			t.Fatalf("Expected status 201, got %d: %s", w.Code, w.Body.String())
		}
		action := testutil.DecodeJSON[model.CorporateAction](t, w)
		if action.Source != model.SourceManual {
			t.Errorf("Expected source manual, got %s", action.Source)
		}
	})

	t.Run("rejects an event with no amounts", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/stock/"+stock.Symbol+"/action",
			map[string]any{"exDate": "2023-08-20", "cashDividendPerShare": "0", "stockDividendRatioPerThousand": "0"}, params)
		w := httptest.NewRecorder()
		handler.CreateAction(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", w.Code)
		}
	})

	t.Run("returns 404 for unregistered symbol", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/stock/9999/action",
			map[string]any{"exDate": "2023-07-20", "cashDividendPerShare": "1"}, map[string]string{"symbol": "9999"})
		w := httptest.NewRecorder()
		handler.CreateAction(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected status 404, got %d", w.Code)
		}
	})
}

// TestCorporateActionHandler_RefreshActions tests the POST /api/stock/{symbol}/action/refresh endpoint.
//
// WHY: A failing upstream source is not a server fault; clients need 502 to tell the two apart.
func TestCorporateActionHandler_RefreshActions(t *testing.T) {
	db := testutil.SetupTestDB(t)
	stock := testutil.NewStock().Build(t, db)
	mockFeed := testutil.NewMockCorporateActionFeed().
		WithError(stock.Symbol, apperrors.ErrFeedUnavailable)
	handler := handlers.NewCorporateActionHandler(testutil.NewTestCorporateActionService(t, db, mockFeed))

	req := testutil.NewRequestWithURLParams(http.MethodPost, "/api/stock/"+stock.Symbol+"/action/refresh", map[string]string{"symbol": stock.Symbol})
	w := httptest.NewRecorder()
	handler.RefreshActions(w, req)

	if w.Code != http.StatusBadGateway {
		t.Errorf("Expected status 502, got %d: %s", w.Code, w.Body.String())
	}
}

// TestCorporateActionHandler_RefreshAllActions tests the POST /api/action/refresh endpoint.
func TestCorporateActionHandler_RefreshAllActions(t *testing.T) {
	db := testutil.SetupTestDB(t)
	account := testutil.NewAccount().Build(t, db)
	stock := testutil.NewStock().Build(t, db)
	testutil.NewHolding(account.ID, stock.Symbol).Build(t, db)
	mockFeed := testutil.NewMockCorporateActionFeed().
		WithEvents(stock.Symbol, testutil.Event("2023-07-20", "3", "0"))
	handler := handlers.NewCorporateActionHandler(testutil.NewTestCorporateActionService(t, db, mockFeed))

	req := httptest.NewRequest(http.MethodPost, "/api/action/refresh", nil)
	w := httptest.NewRecorder()
	handler.RefreshAllActions(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	resp := testutil.DecodeJSON[model.RefreshResponse](t, w)
	if resp.TotalUpdated != 1 || resp.TotalErrors != 0 {
		t.Errorf("Expected 1 updated and 0 errors, got %d and %d", resp.TotalUpdated, resp.TotalErrors)
	}
}
