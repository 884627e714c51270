package service

import (
	"context"
	"fmt"

	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/api/request"
	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/model"
	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/repository"
)

// StockService manages the symbol registry.
type StockService struct {
	stockRepo *repository.StockRepository
}

// NewStockService creates a new StockService.
func NewStockService(stockRepo *repository.StockRepository) *StockService {
	return &StockService{stockRepo: stockRepo}
}

// GetStocks retrieves every registered stock ordered by symbol.
func (s *StockService) GetStocks(ctx context.Context) ([]model.Stock, error) {
	return s.stockRepo.GetStocks(ctx)
}

// GetStock retrieves one stock.
// Returns apperrors.ErrStockNotFound if the symbol is not registered.
func (s *StockService) GetStock(ctx context.Context, symbol string) (model.Stock, error) {
	return s.stockRepo.GetStock(ctx, symbol)
}

// CreateStock registers a symbol. The classification defaults to an ordinary stock.
//
// Returns:
//   - apperrors.ErrDuplicateEntry if the symbol is already registered
//   - error if the insert fails
func (s *StockService) CreateStock(ctx context.Context, req request.CreateStockRequest) (*model.Stock, error) {
	stock := &model.Stock{
		Symbol:         req.Symbol,
		Name:           req.Name,
		Market:         req.Market,
		Classification: req.Classification,
	}
	if stock.Classification == "" {
		stock.Classification = model.ClassificationStock
	}

	if err := s.stockRepo.InsertStock(ctx, *stock); err != nil {
		return nil, fmt.Errorf("failed to create stock: %w", err)
	}
	return stock, nil
}

// UpdateStock applies the provided fields to a registered stock.
func (s *StockService) UpdateStock(ctx context.Context, symbol string, req request.UpdateStockRequest) (*model.Stock, error) {
	stock, err := s.stockRepo.GetStock(ctx, symbol)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		stock.Name = *req.Name
	}
	if req.Market != nil {
		stock.Market = *req.Market
	}
	if req.Classification != nil {
		stock.Classification = *req.Classification
	}

	if err := s.stockRepo.UpdateStock(ctx, stock); err != nil {
		return nil, fmt.Errorf("failed to update stock: %w", err)
	}
	return &stock, nil
}

// DeleteStock removes a stock with its prices and corporate actions.
//
// Returns:
//   - apperrors.ErrStockNotFound if the symbol is not registered
//   - apperrors.ErrStockInUse if holdings still reference it
func (s *StockService) DeleteStock(ctx context.Context, symbol string) error {
	return s.stockRepo.DeleteStock(ctx, symbol)
}
