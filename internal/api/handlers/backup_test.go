package handlers_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fernet/fernet-go"

	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/api/handlers"
	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/backup"
	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/model"
	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/testutil"
)

func newCodec(t *testing.T, key string) *backup.Codec {
	t.Helper()
	codec, err := backup.NewCodec(key)
	if err != nil {
		t.Fatalf("NewCodec() returned unexpected error: %v", err)
	}
	return codec
}

// TestBackupHandler_RoundTrip tests exporting the store and importing the download.
//
// WHY: The export must be a file the import endpoint accepts unchanged, with and without
// encryption.
func TestBackupHandler_RoundTrip(t *testing.T) {
	var key fernet.Key
	if err := key.Generate(); err != nil {
		t.Fatalf("Failed to generate key: %v", err)
	}

	tests := []struct {
		name        string
		key         string
		contentType string
		extension   string
	}{
		{"plain", "", "application/json", ".json"},
		{"encrypted", key.Encode(), "application/octet-stream", ".fernet"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := testutil.SetupTestDB(t)
			handler := handlers.NewBackupHandler(testutil.NewTestBackupService(t, db), newCodec(t, tt.key))
			account := testutil.NewAccount().Build(t, db)
			stock := testutil.NewStock().Build(t, db)
			testutil.NewHolding(account.ID, stock.Symbol).Build(t, db)

			req := httptest.NewRequest(http.MethodGet, "/api/backup", nil)
			w := httptest.NewRecorder()
			handler.Export(w, req)

			if w.Code != http.StatusOK {
				t.Fatalf("Expected status 200, got %d", w.Code)
			}
			if ct := w.Header().Get("Content-Type"); ct != tt.contentType {
				t.Errorf("Expected Content-Type %s, got %s", tt.contentType, ct)
			}
			disposition := w.Header().Get("Content-Disposition")
			if !strings.HasPrefix(disposition, `attachment; filename="stock-tracker-`) || !strings.HasSuffix(disposition, tt.extension+`"`) {
				t.Errorf("Unexpected Content-Disposition %s", disposition)
			}
			exported := w.Body.Bytes()

			testutil.CleanDatabase(t, db)

			req = httptest.NewRequest(http.MethodPost, "/api/backup", bytes.NewReader(exported))
			w = httptest.NewRecorder()
			handler.Import(w, req)

			if w.Code != http.StatusOK {
				t.Fatalf("Expected status 200 from import, got %d: %s", w.Code, w.Body.String())
			}
			summary := testutil.DecodeJSON[model.ImportSummary](t, w)
			if summary.Accounts != 1 || summary.Stocks != 1 || summary.Holdings != 1 {
				t.Errorf("Expected one account, stock and holding restored, got %+v", summary)
			}
		})
	}
}

// TestBackupHandler_Import_Invalid tests rejected uploads.
func TestBackupHandler_Import_Invalid(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := handlers.NewBackupHandler(testutil.NewTestBackupService(t, db), newCodec(t, ""))
	testutil.NewAccount().Build(t, db)

	tests := []struct {
		name string
		body string
	}{
		{"empty body", ""},
		{"not JSON", "hello"},
		{"unsupported version", `{"version": 7}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/backup", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			handler.Import(w, req)

			if w.Code != http.StatusBadRequest {
				t.Errorf("Expected status 400, got %d: %s", w.Code, w.Body.String())
			}
		})
	}
	testutil.AssertRowCount(t, db, "account", 1)
}
