package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/api/response"
	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/service"
)

// PriceHandler handles HTTP requests for stored closing prices.
type PriceHandler struct {
	priceService *service.PriceService
}

// NewPriceHandler creates a new PriceHandler with the provided service dependency.
func NewPriceHandler(priceService *service.PriceService) *PriceHandler {
	return &PriceHandler{
		priceService: priceService,
	}
}

// Prices handles GET requests to retrieve the stored price history of a symbol.
//
// Endpoint: GET /api/stock/{symbol}/price
// Response: 200 OK with array of StockPrice, newest first
// Error: 404 Not Found if the symbol is not registered
func (h *PriceHandler) Prices(w http.ResponseWriter, r *http.Request) {
	prices, err := h.priceService.GetPrices(r.Context(), chi.URLParam(r, "symbol"))
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrievePrices)
		return
	}

	response.RespondJSON(w, http.StatusOK, prices)
}

// UpdatePrice handles POST requests to fetch and store the latest close of a symbol.
//
// Endpoint: POST /api/stock/{symbol}/price/update
// Response: 200 OK with the stored StockPrice
// Error: 404 Not Found if the symbol is not registered
// Error: 502 Bad Gateway if the price feed fails or returns nothing
func (h *PriceHandler) UpdatePrice(w http.ResponseWriter, r *http.Request) {
	price, err := h.priceService.UpdatePrice(r.Context(), chi.URLParam(r, "symbol"))
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToUpdatePrices)
		return
	}

	response.RespondJSON(w, http.StatusOK, price)
}

// UpdateAllPrices handles POST requests to update the close of every symbol that has holdings.
//
// Endpoint: POST /api/price/update
// Response: 200 OK with RefreshResponse
// Error: 500 Internal Server Error if the held symbols cannot be listed
func (h *PriceHandler) UpdateAllPrices(w http.ResponseWriter, r *http.Request) {
	resp, err := h.priceService.UpdateAllPrices(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToUpdatePrices.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, resp)
}
