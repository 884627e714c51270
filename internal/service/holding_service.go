package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/api/request"
	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/model"
	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/repository"
	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/rights"
)

// HoldingService handles recorded purchases.
// Holdings keep their purchase values; adjustments are computed by ValuationService.
type HoldingService struct {
	holdingRepo *repository.HoldingRepository
	accountRepo *repository.AccountRepository
	stockRepo   *repository.StockRepository
}

// NewHoldingService creates a new HoldingService with the provided repository dependencies.
func NewHoldingService(
	holdingRepo *repository.HoldingRepository,
	accountRepo *repository.AccountRepository,
	stockRepo *repository.StockRepository,
) *HoldingService {
	return &HoldingService{
		holdingRepo: holdingRepo,
		accountRepo: accountRepo,
		stockRepo:   stockRepo,
	}
}

// GetHoldings retrieves the holdings of an account, or of every account when accountID is empty.
// Returns apperrors.ErrAccountNotFound for an unknown account.
func (s *HoldingService) GetHoldings(ctx context.Context, accountID string) ([]model.Holding, error) {
	if accountID != "" {
		if _, err := s.accountRepo.GetAccount(ctx, accountID); err != nil {
			return nil, err
		}
	}
	return s.holdingRepo.GetHoldings(ctx, accountID)
}

// GetHolding retrieves one holding.
// Returns apperrors.ErrHoldingNotFound if it does not exist.
func (s *HoldingService) GetHolding(ctx context.Context, id string) (model.Holding, error) {
	return s.holdingRepo.GetHolding(ctx, id)
}

// CreateHolding records a purchase.
//
// Returns:
//   - apperrors.ErrUnknownReference if the account or symbol does not exist
//   - error if the date does not parse or the insert fails
func (s *HoldingService) CreateHolding(ctx context.Context, req request.CreateHoldingRequest) (*model.Holding, error) {
	purchaseDate, err := rights.ParseDate(req.PurchaseDate)
	if err != nil {
		return nil, err
	}

	if err := s.checkReferences(ctx, req.AccountID, req.Symbol); err != nil {
		return nil, err
	}

	holding := &model.Holding{
		ID:                uuid.New().String(),
		AccountID:         req.AccountID,
		Symbol:            req.Symbol,
		Shares:            req.Shares,
		CostBasisPerShare: req.CostBasisPerShare,
		PurchaseDate:      purchaseDate,
		Note:              req.Note,
		CreatedAt:         time.Now().UTC(),
	}

	if err := s.holdingRepo.InsertHolding(ctx, *holding); err != nil {
		return nil, fmt.Errorf("failed to create holding: %w", err)
	}
	return holding, nil
}

// UpdateHolding applies the provided fields to a holding.
//
// Returns:
//   - apperrors.ErrHoldingNotFound if the holding doesn't exist
//   - apperrors.ErrUnknownReference if a new account or symbol does not exist
func (s *HoldingService) UpdateHolding(ctx context.Context, id string, req request.UpdateHoldingRequest) (*model.Holding, error) {
	holding, err := s.holdingRepo.GetHolding(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.AccountID != nil {
		holding.AccountID = *req.AccountID
	}
	if req.Symbol != nil {
		holding.Symbol = *req.Symbol
	}
	if req.Shares != nil {
		holding.Shares = *req.Shares
	}
	if req.CostBasisPerShare != nil {
		holding.CostBasisPerShare = *req.CostBasisPerShare
	}
	if req.PurchaseDate != nil {
		if holding.PurchaseDate, err = rights.ParseDate(*req.PurchaseDate); err != nil {
			return nil, err
		}
	}
	if req.Note != nil {
		holding.Note = *req.Note
	}

	if req.AccountID != nil || req.Symbol != nil {
		if err := s.checkReferences(ctx, holding.AccountID, holding.Symbol); err != nil {
			return nil, err
		}
	}

	if err := s.holdingRepo.UpdateHolding(ctx, holding); err != nil {
		return nil, fmt.Errorf("failed to update holding: %w", err)
	}
	return &holding, nil
}

// DeleteHolding removes a holding and its stored adjustment snapshot.
// Returns apperrors.ErrHoldingNotFound if it does not exist.
func (s *HoldingService) DeleteHolding(ctx context.Context, id string) error {
	return s.holdingRepo.DeleteHolding(ctx, id)
}

func (s *HoldingService) checkReferences(ctx context.Context, accountID, symbol string) error {
	if _, err := s.accountRepo.GetAccount(ctx, accountID); err != nil {
		if errors.Is(err, apperrors.ErrAccountNotFound) {
			return fmt.Errorf("%w: account %s", apperrors.ErrUnknownReference, accountID)
		}
		return err
	}
	if _, err := s.stockRepo.GetStock(ctx, symbol); err != nil {
		if errors.Is(err, apperrors.ErrStockNotFound) {
			return fmt.Errorf("%w: symbol %s", apperrors.ErrUnknownReference, symbol)
		}
		return err
	}
	return nil
}
