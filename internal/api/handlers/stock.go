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

// StockHandler handles HTTP requests for the symbol registry.
type StockHandler struct {
	stockService *service.StockService
}

// NewStockHandler creates a new StockHandler with the provided service dependency.
func NewStockHandler(stockService *service.StockService) *StockHandler {
	return &StockHandler{
		stockService: stockService,
	}
}

// Stocks handles GET requests to retrieve all registered stocks.
//
// Endpoint: GET /api/stock
// Response: 200 OK with array of Stock ordered by symbol
// Error: 500 Internal Server Error if retrieval fails
func (h *StockHandler) Stocks(w http.ResponseWriter, r *http.Request) {
	stocks, err := h.stockService.GetStocks(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveStocks.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, stocks)
}

// GetStock handles GET requests to retrieve a single stock.
//
// Endpoint: GET /api/stock/{symbol}
// Response: 200 OK with Stock
// Error: 400 Bad Request if the symbol is malformed (validated by middleware)
// Error: 404 Not Found if the symbol is not registered
func (h *StockHandler) GetStock(w http.ResponseWriter, r *http.Request) {
	stock, err := h.stockService.GetStock(r.Context(), chi.URLParam(r, "symbol"))
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveStocks)
		return
	}

	response.RespondJSON(w, http.StatusOK, stock)
}

// CreateStock handles POST requests to register a stock.
//
// Endpoint: POST /api/stock
// Request Body: CreateStockRequest (symbol, name, market, classification)
// Response: 201 Created with Stock
// Error: 400 Bad Request if validation fails
// Error: 409 Conflict if the symbol is already registered
func (h *StockHandler) CreateStock(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreateStockRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	stock, err := h.stockService.CreateStock(r.Context(), req)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveStocks)
		return
	}

	response.RespondJSON(w, http.StatusCreated, stock)
}

// UpdateStock handles PUT requests to update a stock's name, market or classification.
//
// Endpoint: PUT /api/stock/{symbol}
// Request Body: UpdateStockRequest (all fields optional)
// Response: 200 OK with updated Stock
// Error: 400 Bad Request if validation fails
// Error: 404 Not Found if the symbol is not registered
func (h *StockHandler) UpdateStock(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.UpdateStockRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	stock, err := h.stockService.UpdateStock(r.Context(), chi.URLParam(r, "symbol"), req)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveStocks)
		return
	}

	response.RespondJSON(w, http.StatusOK, stock)
}

// DeleteStock handles DELETE requests to unregister a stock. Its stored corporate actions and
// prices are removed with it.
//
// Endpoint: DELETE /api/stock/{symbol}
// Response: 204 No Content on successful deletion
// Error: 404 Not Found if the symbol is not registered
// Error: 409 Conflict if holdings still reference the symbol
func (h *StockHandler) DeleteStock(w http.ResponseWriter, r *http.Request) {
	if err := h.stockService.DeleteStock(r.Context(), chi.URLParam(r, "symbol")); err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveStocks)
		return
	}

	response.RespondJSON(w, http.StatusNoContent, nil)
}
