package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/api/request"
	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/api/response"
	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/service"
	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/validation"
)

// HoldingHandler handles HTTP requests for holding endpoints.
// It serves as the HTTP layer adapter, parsing requests and delegating
// business logic to the holdingService and, for adjustments, the valuationService.
type HoldingHandler struct {
	holdingService   *service.HoldingService
	valuationService *service.ValuationService
}

// NewHoldingHandler creates a new HoldingHandler with the provided service dependencies.
func NewHoldingHandler(holdingService *service.HoldingService, valuationService *service.ValuationService) *HoldingHandler {
	return &HoldingHandler{
		holdingService:   holdingService,
		valuationService: valuationService,
	}
}

// Holdings handles GET requests to retrieve the holdings of every account.
//
// Endpoint: GET /api/holding
// Response: 200 OK with array of Holding ordered by purchase date
// Error: 500 Internal Server Error if retrieval fails
func (h *HoldingHandler) Holdings(w http.ResponseWriter, r *http.Request) {
	holdings, err := h.holdingService.GetHoldings(r.Context(), "")
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveHoldings.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, holdings)
}

// GetHolding handles GET requests to retrieve a single holding by ID.
//
// Endpoint: GET /api/holding/{uuid}
// Response: 200 OK with Holding
// Error: 400 Bad Request if holding ID is invalid (validated by middleware)
// Error: 404 Not Found if holding not found
func (h *HoldingHandler) GetHolding(w http.ResponseWriter, r *http.Request) {
	holding, err := h.holdingService.GetHolding(r.Context(), chi.URLParam(r, "uuid"))
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveHoldings)
		return
	}

	response.RespondJSON(w, http.StatusOK, holding)
}

// CreateHolding handles POST requests to record a purchase lot.
//
// Endpoint: POST /api/holding
// Request Body: CreateHoldingRequest (accountId, symbol, shares, costBasisPerShare, purchaseDate, note)
// Response: 201 Created with Holding
// Error: 400 Bad Request if validation fails or the account or symbol is unknown
// Error: 500 Internal Server Error if creation fails
func (h *HoldingHandler) CreateHolding(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreateHoldingRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	holding, err := h.holdingService.CreateHolding(r.Context(), req)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveHoldings)
		return
	}

	response.RespondJSON(w, http.StatusCreated, holding)
}

// UpdateHolding handles PUT requests to update an existing holding.
//
// Endpoint: PUT /api/holding/{uuid}
// Request Body: UpdateHoldingRequest (all fields optional)
// Response: 200 OK with updated Holding
// Error: 400 Bad Request if validation fails or the account or symbol is unknown
// Error: 404 Not Found if holding not found
func (h *HoldingHandler) UpdateHolding(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.UpdateHoldingRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	holding, err := h.holdingService.UpdateHolding(r.Context(), chi.URLParam(r, "uuid"), req)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveHoldings)
		return
	}

	response.RespondJSON(w, http.StatusOK, holding)
}

// DeleteHolding handles DELETE requests to remove a holding.
//
// Endpoint: DELETE /api/holding/{uuid}
// Response: 204 No Content on successful deletion
// Error: 404 Not Found if holding not found
func (h *HoldingHandler) DeleteHolding(w http.ResponseWriter, r *http.Request) {
	if err := h.holdingService.DeleteHolding(r.Context(), chi.URLParam(r, "uuid")); err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveHoldings)
		return
	}

	response.RespondJSON(w, http.StatusNoContent, nil)
}

// Adjustment handles GET requests to fold a holding over the stored corporate actions of its
// symbol. The result is computed on every request and not stored.
//
// Endpoint: GET /api/holding/{uuid}/adjustment
// Response: 200 OK with rights.Result
// Error: 404 Not Found if holding not found
// Error: 422 Unprocessable Entity if the stored holding cannot be folded
func (h *HoldingHandler) Adjustment(w http.ResponseWriter, r *http.Request) {
	result, err := h.valuationService.GetAdjustment(r.Context(), chi.URLParam(r, "uuid"))
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToCalculate)
		return
	}

	response.RespondJSON(w, http.StatusOK, result)
}
