package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/api/response"
	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/backup"
	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/service"
)

// maxBackupBytes bounds an uploaded backup document.
const maxBackupBytes = 64 << 20

// BackupHandler handles export and import of the whole store.
type BackupHandler struct {
	backupService *service.BackupService
	codec         *backup.Codec
}

// NewBackupHandler creates a new BackupHandler. The codec decides whether exports are encrypted.
func NewBackupHandler(backupService *service.BackupService, codec *backup.Codec) *BackupHandler {
	return &BackupHandler{
		backupService: backupService,
		codec:         codec,
	}
}

// Export handles GET requests to download a backup of all accounts, stocks, holdings,
// corporate actions and prices.
//
// Endpoint: GET /api/backup
// Response: 200 OK with the JSON document, or a Fernet token (application/octet-stream)
// when BACKUP_KEY is set
// Error: 500 Internal Server Error if the export fails
func (h *BackupHandler) Export(w http.ResponseWriter, r *http.Request) {
	b, err := h.backupService.Export(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToExport.Error(), err.Error())
		return
	}

	body, err := h.codec.Encode(b)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToExport.Error(), err.Error())
		return
	}

	name := "stock-tracker-" + b.ExportedAt.Format("20060102-150405")
	if h.codec.Encrypted() {
		response.RespondBytes(w, "application/octet-stream", name+".fernet", body)
		return
	}
	response.RespondBytes(w, "application/json", name+".json", body)
}

// Import handles POST requests to replace all data with an uploaded backup.
//
// Endpoint: POST /api/backup
// Request Body: a document produced by Export, plain or encrypted
// Response: 200 OK with ImportSummary
// Error: 400 Bad Request if the document cannot be read, decrypted or restored
// Error: 413 Request Entity Too Large if the body exceeds the upload limit
// Error: 500 Internal Server Error if the import fails
func (h *BackupHandler) Import(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBackupBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.RespondError(w, http.StatusRequestEntityTooLarge, "backup too large", err.Error())
			return
		}
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	b, err := h.codec.Decode(data)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToImport)
		return
	}

	summary, err := h.backupService.Import(r.Context(), b)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToImport)
		return
	}

	response.RespondJSON(w, http.StatusOK, summary)
}
