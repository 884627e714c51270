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

// CorporateActionHandler handles HTTP requests for ex-dividend / ex-rights events.
type CorporateActionHandler struct {
	actionService *service.CorporateActionService
}

// NewCorporateActionHandler creates a new CorporateActionHandler with the provided service dependency.
func NewCorporateActionHandler(actionService *service.CorporateActionService) *CorporateActionHandler {
	return &CorporateActionHandler{
		actionService: actionService,
	}
}

// Actions handles GET requests to list the stored events of a symbol.
//
// Endpoint: GET /api/stock/{symbol}/action
// Response: 200 OK with array of CorporateAction, oldest first
// Error: 404 Not Found if the symbol is not registered
func (h *CorporateActionHandler) Actions(w http.ResponseWriter, r *http.Request) {
	actions, err := h.actionService.GetActions(r.Context(), chi.URLParam(r, "symbol"))
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveActions)
		return
	}

	response.RespondJSON(w, http.StatusOK, actions)
}

// CreateAction handles POST requests to record a manual event. A manual event replaces any
// event stored for the same ex-date and is never overwritten by a refresh.
//
// Endpoint: POST /api/stock/{symbol}/action
// Request Body: CreateCorporateActionRequest (exDate, cashDividendPerShare, stockDividendRatioPerThousand)
// Response: 201 Created with CorporateAction
// Error: 400 Bad Request if validation fails
// Error: 404 Not Found if the symbol is not registered
func (h *CorporateActionHandler) CreateAction(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreateCorporateActionRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCreateCorporateAction(req); err != nil {
		respondValidationError(w, err)
		return
	}

	action, err := h.actionService.CreateManualAction(r.Context(), chi.URLParam(r, "symbol"), req)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveActions)
		return
	}

	response.RespondJSON(w, http.StatusCreated, action)
}

// RefreshActions handles POST requests to fetch the event history of one symbol.
//
// Endpoint: POST /api/stock/{symbol}/action/refresh
// Response: 200 OK with RefreshedSymbol
// Error: 404 Not Found if the symbol is not registered
// Error: 502 Bad Gateway if the source fails or returns nothing
func (h *CorporateActionHandler) RefreshActions(w http.ResponseWriter, r *http.Request) {
	refreshed, err := h.actionService.RefreshActions(r.Context(), chi.URLParam(r, "symbol"))
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRefreshActions)
		return
	}

	response.RespondJSON(w, http.StatusOK, refreshed)
}

// RefreshAllActions handles POST requests to refresh every symbol that has holdings.
// Symbols that fail are listed in the response; they do not fail the request.
//
// Endpoint: POST /api/action/refresh
// Response: 200 OK with RefreshResponse
// Error: 500 Internal Server Error if the held symbols cannot be listed
func (h *CorporateActionHandler) RefreshAllActions(w http.ResponseWriter, r *http.Request) {
	resp, err := h.actionService.RefreshAllActions(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRefreshActions.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, resp)
}
