package handlers_test

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/api/handlers"
	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/api/response"
	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/model"
	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/testutil"
)

func newAccountHandler(t *testing.T) (*handlers.AccountHandler, *sql.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	return handlers.NewAccountHandler(testutil.NewTestAccountService(t, db), testutil.NewTestHoldingService(t, db)), db
}

// TestAccountHandler_Accounts tests the GET /api/account endpoint.
//
// WHY: An empty store must serialize as [] rather than null so clients can iterate safely.
func TestAccountHandler_Accounts(t *testing.T) {
	handler, _ := newAccountHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/account", nil)
	w := httptest.NewRecorder()
	handler.Accounts(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if body := w.Body.String(); body != "[]\n" {
		t.Errorf("Expected empty array, got %s", body)
	}
}

// TestAccountHandler_CreateAccount tests the POST /api/account endpoint.
func TestAccountHandler_CreateAccount(t *testing.T) {
	t.Run("creates account", func(t *testing.T) {
		handler, _ := newAccountHandler(t)

		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/account",
			map[string]any{"name": "Fubon", "broker": "Fubon Securities", "feeDiscount": "0.6"}, nil)
		w := httptest.NewRecorder()
		handler.CreateAccount(w, req)

		if w.Code != http.StatusCreated {
			t.Fatalf("Expected status 201, got %d: %s", w.Code, w.Body.String())
		}
		account := testutil.DecodeJSON[model.Account](t, w)
		if account.Name != "Fubon" || account.FeeDiscount.String() != "0.6" {
			t.Errorf("Expected Fubon with discount 0.6, got %+v", account)
		}
	})

	tests := []struct {
		name string
		body any
	}{
		{"missing name", map[string]any{"broker": "x"}},
		{"blank name", map[string]any{"name": "   "}},
		{"discount above one", map[string]any{"name": "A", "feeDiscount": "1.5"}},
		{"unknown field", map[string]any{"name": "A", "currency": "TWD"}},
		{"malformed JSON", "{"},
	}

	for _, tt := range tests {
		t.Run(tt.name+" returns 400", func(t *testing.T) {
			handler, _ := newAccountHandler(t)

			req := testutil.NewJSONRequest(t, http.MethodPost, "/api/account", tt.body, nil)
			w := httptest.NewRecorder()
			handler.CreateAccount(w, req)

			if w.Code != http.StatusBadRequest {
				t.Errorf("Expected status 400, got %d: %s", w.Code, w.Body.String())
			}
		})
	}
}

// TestAccountHandler_GetAccount tests the GET /api/account/{uuid} endpoint.
func TestAccountHandler_GetAccount(t *testing.T) {
	handler, db := newAccountHandler(t)
	account := testutil.NewAccount().Build(t, db)

	req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/account/"+account.ID, map[string]string{"uuid": account.ID})
	w := httptest.NewRecorder()
	handler.GetAccount(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	missing := testutil.MakeID()
	req = testutil.NewRequestWithURLParams(http.MethodGet, "/api/account/"+missing, map[string]string{"uuid": missing})
	w = httptest.NewRecorder()
	handler.GetAccount(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

// TestAccountHandler_DeleteAccount tests the DELETE /api/account/{uuid} endpoint.
func TestAccountHandler_DeleteAccount(t *testing.T) {
	t.Run("returns 409 while holdings exist", func(t *testing.T) {
		handler, db := newAccountHandler(t)
		account := testutil.NewAccount().Build(t, db)
		stock := testutil.NewStock().Build(t, db)
		testutil.NewHolding(account.ID, stock.Symbol).Build(t, db)

		req := testutil.NewRequestWithURLParams(http.MethodDelete, "/api/account/"+account.ID, map[string]string{"uuid": account.ID})
		w := httptest.NewRecorder()
		handler.DeleteAccount(w, req)

		if w.Code != http.StatusConflict {
			t.Fatalf("Expected status 409, got %d", w.Code)
		}
		resp := testutil.DecodeJSON[response.ErrorResponse](t, w)
		if resp.Error != "account has holdings" {
			t.Errorf("Expected error 'account has holdings', got %q", resp.Error)
		}
	})

	t.Run("returns 204 on success", func(t *testing.T) {
		handler, db := newAccountHandler(t)
		account := testutil.NewAccount().Build(t, db)

		req := testutil.NewRequestWithURLParams(http.MethodDelete, "/api/account/"+account.ID, map[string]string{"uuid": account.ID})
		w := httptest.NewRecorder()
		handler.DeleteAccount(w, req)

		if w.Code != http.StatusNoContent {
			t.Errorf("Expected status 204, got %d", w.Code)
		}
	})
}
