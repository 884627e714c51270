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

// AccountHandler handles HTTP requests for brokerage account endpoints.
// It serves as the HTTP layer adapter, parsing requests and delegating
// business logic to the accountService.
type AccountHandler struct {
	accountService *service.AccountService
	holdingService *service.HoldingService
}

// NewAccountHandler creates a new AccountHandler with the provided service dependencies.
func NewAccountHandler(accountService *service.AccountService, holdingService *service.HoldingService) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
		holdingService: holdingService,
	}
}

// Accounts handles GET requests to retrieve all accounts.
//
// Endpoint: GET /api/account
// Response: 200 OK with array of Account
// Error: 500 Internal Server Error if retrieval fails
func (h *AccountHandler) Accounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.accountService.GetAccounts(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveAccounts.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, accounts)
}

// GetAccount handles GET requests to retrieve a single account by ID.
//
// Endpoint: GET /api/account/{uuid}
// Response: 200 OK with Account
// Error: 400 Bad Request if account ID is invalid (validated by middleware)
// Error: 404 Not Found if account not found
// Error: 500 Internal Server Error if retrieval fails
func (h *AccountHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	account, err := h.accountService.GetAccount(r.Context(), chi.URLParam(r, "uuid"))
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveAccounts)
		return
	}

	response.RespondJSON(w, http.StatusOK, account)
}

// AccountHoldings handles GET requests to list the holdings recorded under an account.
//
// Endpoint: GET /api/account/{uuid}/holding
// Response: 200 OK with array of Holding ordered by purchase date
// Error: 404 Not Found if account not found
func (h *AccountHandler) AccountHoldings(w http.ResponseWriter, r *http.Request) {
	holdings, err := h.holdingService.GetHoldings(r.Context(), chi.URLParam(r, "uuid"))
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveHoldings)
		return
	}

	response.RespondJSON(w, http.StatusOK, holdings)
}

// CreateAccount handles POST requests to create a new account.
//
// Endpoint: POST /api/account
// Request Body: CreateAccountRequest (name, broker, feeDiscount)
// Response: 201 Created with Account
// Error: 400 Bad Request if validation fails or request body is invalid
// Error: 500 Internal Server Error if creation fails
func (h *AccountHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreateAccountRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	account, err := h.accountService.CreateAccount(r.Context(), req)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, "failed to create account", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusCreated, account)
}

// UpdateAccount handles PUT requests to update an existing account. Omitted fields keep
// their stored value.
//
// Endpoint: PUT /api/account/{uuid}
// Request Body: UpdateAccountRequest (all fields optional)
// Response: 200 OK with updated Account
// Error: 400 Bad Request if validation fails
// Error: 404 Not Found if account not found
func (h *AccountHandler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.UpdateAccountRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	account, err := h.accountService.UpdateAccount(r.Context(), chi.URLParam(r, "uuid"), req)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveAccounts)
		return
	}

	response.RespondJSON(w, http.StatusOK, account)
}

// DeleteAccount handles DELETE requests to remove an account without holdings.
//
// Endpoint: DELETE /api/account/{uuid}
// Response: 204 No Content on successful deletion
// Error: 404 Not Found if account not found
// Error: 409 Conflict if the account still has holdings
func (h *AccountHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	if err := h.accountService.DeleteAccount(r.Context(), chi.URLParam(r, "uuid")); err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveAccounts)
		return
	}

	response.RespondJSON(w, http.StatusNoContent, nil)
}
