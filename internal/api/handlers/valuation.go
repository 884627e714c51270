package handlers

import (
	"net/http"

	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/api/response"
	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/rights"
	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/service"
	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/validation"
)

// ValuationHandler handles HTTP requests for gain/loss valuations and adjustment snapshots.
type ValuationHandler struct {
	valuationService *service.ValuationService
}

// NewValuationHandler creates a new ValuationHandler with the provided service dependency.
func NewValuationHandler(valuationService *service.ValuationService) *ValuationHandler {
	return &ValuationHandler{
		valuationService: valuationService,
	}
}

// Valuation handles GET requests to value holdings at their latest stored prices.
//
// Endpoint: GET /api/valuation?mode=TOTAL_RETURN|PRICE_ONLY&account={uuid}
// Query: mode defaults to TOTAL_RETURN; account restricts the valuation to one account
// Response: 200 OK with ValuationResponse
// Error: 400 Bad Request if mode or account is malformed
// Error: 404 Not Found if the account does not exist
func (h *ValuationHandler) Valuation(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	mode, err := rights.ParseMode(query.Get("mode"))
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid mode", err.Error())
		return
	}

	accountID := query.Get("account")
	if accountID != "" {
		if err := validation.ValidateUUID(accountID); err != nil {
			response.RespondError(w, http.StatusBadRequest, "invalid UUID format", err.Error())
			return
		}
	}

	resp, err := h.valuationService.Valuate(r.Context(), mode, accountID)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToCalculate)
		return
	}

	response.RespondJSON(w, http.StatusOK, resp)
}

// Recalculate handles POST requests to fold every holding from scratch and replace the stored
// adjustment snapshot.
//
// Endpoint: POST /api/valuation/recalculate
// Response: 200 OK with RecalculateResponse
// Error: 500 Internal Server Error if the snapshot cannot be stored
func (h *ValuationHandler) Recalculate(w http.ResponseWriter, r *http.Request) {
	resp, err := h.valuationService.Recalculate(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToCalculate.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, resp)
}

// Snapshots handles GET requests to read the stored adjustment snapshot.
//
// Endpoint: GET /api/valuation/snapshot
// Response: 200 OK with array of AdjustmentSnapshot
// Error: 404 Not Found if nothing has been calculated yet
func (h *ValuationHandler) Snapshots(w http.ResponseWriter, r *http.Request) {
	snapshots, err := h.valuationService.GetSnapshots(r.Context())
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToCalculate)
		return
	}

	response.RespondJSON(w, http.StatusOK, snapshots)
}
