package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/feed"
	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/model"
	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/repository"
)

// PriceService stores closing prices fetched from the price feed.
type PriceService struct {
	priceRepo   *repository.PriceRepository
	stockRepo   *repository.StockRepository
	feed        feed.PriceFeed
	concurrency int
}

// NewPriceService creates a new PriceService.
// concurrency bounds the number of symbols fetched in parallel by UpdateAllPrices.
func NewPriceService(
	priceRepo *repository.PriceRepository,
	stockRepo *repository.StockRepository,
	priceFeed feed.PriceFeed,
	concurrency int,
) *PriceService {
	return &PriceService{
		priceRepo:   priceRepo,
		stockRepo:   stockRepo,
		feed:        priceFeed,
		concurrency: concurrency,
	}
}

// GetPrices retrieves the stored price history of a symbol, newest first.
// Returns apperrors.ErrStockNotFound if the symbol is not registered.
func (s *PriceService) GetPrices(ctx context.Context, symbol string) ([]model.StockPrice, error) {
	if _, err := s.stockRepo.GetStock(ctx, symbol); err != nil {
		return nil, err
	}
	return s.priceRepo.GetPrices(ctx, symbol)
}

// UpdatePrice fetches and stores the latest close of a symbol.
// A close already stored for the same date is overwritten.
//
// Returns:
//   - model.StockPrice: the stored price
//   - error: apperrors.ErrStockNotFound, a feed error, or a database failure
func (s *PriceService) UpdatePrice(ctx context.Context, symbol string) (model.StockPrice, error) {
	stock, err := s.stockRepo.GetStock(ctx, symbol)
	if err != nil {
		return model.StockPrice{}, err
	}
	return s.updateStock(ctx, stock)
}

// UpdateAllPrices refreshes the latest close of every held symbol.
// Per-symbol failures are reported in the response; only failing to list the symbols is an error.
func (s *PriceService) UpdateAllPrices(ctx context.Context) (model.RefreshResponse, error) {
	stocks, err := s.stockRepo.GetHeldStocks(ctx)
	if err != nil {
		return model.RefreshResponse{}, err
	}

	return refreshBatch(ctx, "prices", stocks, s.concurrency, func(ctx context.Context, stock model.Stock) (model.RefreshedSymbol, error) {
		if _, err := s.updateStock(ctx, stock); err != nil {
			return model.RefreshedSymbol{}, err
		}
		return model.RefreshedSymbol{Symbol: stock.Symbol, Stored: 1}, nil
	}), nil
}

func (s *PriceService) updateStock(ctx context.Context, stock model.Stock) (model.StockPrice, error) {
	quote, err := s.feed.LatestPrice(ctx, stock)
	if err != nil {
		return model.StockPrice{}, err
	}

	price, err := s.priceRepo.UpsertPrice(ctx, model.StockPrice{
		ID:     uuid.New().String(),
		Symbol: stock.Symbol,
		Date:   quote.Date,
		Price:  quote.Price,
	})
	if err != nil {
		return model.StockPrice{}, fmt.Errorf("failed to store price: %w", err)
	}
	return price, nil
}
