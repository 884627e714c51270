package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/api/handlers"
	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/model"
	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/testutil"
)

// TestSystemHandler_Health tests the GET /api/system/health endpoint.
//
// WHY: Container orchestration uses this endpoint; a lost database must turn it into a 503.
func TestSystemHandler_Health(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := handlers.NewSystemHandler(testutil.NewTestSystemService(t, db))

	req := httptest.NewRequest(http.MethodGet, "/api/system/health", nil)
	w := httptest.NewRecorder()
	handler.Health(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	resp := testutil.DecodeJSON[handlers.HealthResponse](t, w)
	if resp.Status != "healthy" || resp.Database != "connected" {
		t.Errorf("Expected healthy/connected, got %+v", resp)
	}

	db.Close()
	w = httptest.NewRecorder()
	handler.Health(w, req)
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected status 503 on a closed database, got %d", w.Code)
	}
}

// TestSystemHandler_Version tests the GET /api/system/version endpoint.
func TestSystemHandler_Version(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := handlers.NewSystemHandler(testutil.NewTestSystemService(t, db))

	req := httptest.NewRequest(http.MethodGet, "/api/system/version", nil)
	w := httptest.NewRecorder()
	handler.Version(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	info := testutil.DecodeJSON[model.VersionInfo](t, w)
	if info.CorporateActionSource != "yahoo" {
		t.Errorf("Expected corporate action source yahoo, got %s", info.CorporateActionSource)
	}
	if _, ok := info.Features["encrypted_backup"]; !ok {
		t.Errorf("Expected encrypted_backup feature flag to be reported")
	}
}
