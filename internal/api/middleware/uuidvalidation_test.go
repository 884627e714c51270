package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/api/middleware"
	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/testutil"
)

func TestValidateUUIDMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		uuid       string
		wantCalled bool
		wantStatus int
	}{
		{"passes through valid UUID", "550e8400-e29b-41d4-a716-446655440000", true, http.StatusOK},
		{"returns 400 for invalid UUID", "invalid-id", false, http.StatusBadRequest},
		{"returns 400 for empty UUID", "", false, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handlerCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				handlerCalled = true
				w.WriteHeader(http.StatusOK)
			})

			req := testutil.NewRequestWithURLParams(http.MethodGet, "/test", map[string]string{"uuid": tt.uuid})
			w := httptest.NewRecorder()
			middleware.ValidateUUIDMiddleware(next).ServeHTTP(w, req)

			if handlerCalled != tt.wantCalled {
				t.Errorf("Expected handler called = %v, got %v", tt.wantCalled, handlerCalled)
			}
			if w.Code != tt.wantStatus {
				t.Errorf("Expected %d, got %d", tt.wantStatus, w.Code)
			}
		})
	}
}

func TestValidateSymbolMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		symbol     string
		wantStatus int
	}{
		{"ordinary share", "2330", http.StatusOK},
		{"ETF code", "00878", http.StatusOK},
		{"inverse ETF suffix", "00632R", http.StatusOK},
		{"Yahoo ticker is rejected", "2330.TW", http.StatusBadRequest},
		{"letters are rejected", "TSMC", http.StatusBadRequest},
		{"too short", "233", http.StatusBadRequest},
		{"empty", "", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
			})

			req := testutil.NewRequestWithURLParams(http.MethodGet, "/test", map[string]string{"symbol": tt.symbol})
			w := httptest.NewRecorder()
			middleware.ValidateSymbolMiddleware(next).ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("Expected %d, got %d: %s", tt.wantStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestLogger_PassesStatusThrough(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/stock%0D%0A", nil)
	w := httptest.NewRecorder()
	middleware.Logger(next).ServeHTTP(w, req)

	if w.Code != http.StatusTeapot {
		t.Errorf("Expected 418, got %d", w.Code)
	}
}
