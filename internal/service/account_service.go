package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/api/request"
	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/model"
	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/repository"
)

// AccountService handles brokerage account business logic.
type AccountService struct {
	accountRepo *repository.AccountRepository
	holdingRepo *repository.HoldingRepository
}

// NewAccountService creates a new AccountService with the provided repository dependencies.
func NewAccountService(
	accountRepo *repository.AccountRepository,
	holdingRepo *repository.HoldingRepository,
) *AccountService {
	return &AccountService{
		accountRepo: accountRepo,
		holdingRepo: holdingRepo,
	}
}

// GetAccounts retrieves all accounts ordered by name.
func (s *AccountService) GetAccounts(ctx context.Context) ([]model.Account, error) {
	return s.accountRepo.GetAccounts(ctx)
}

// GetAccount retrieves a single account.
// Returns apperrors.ErrAccountNotFound if it does not exist.
func (s *AccountService) GetAccount(ctx context.Context, id string) (model.Account, error) {
	return s.accountRepo.GetAccount(ctx, id)
}

// CreateAccount creates an account. A missing fee discount means no discount.
func (s *AccountService) CreateAccount(ctx context.Context, req request.CreateAccountRequest) (*model.Account, error) {
	account := &model.Account{
		ID:          uuid.New().String(),
		Name:        req.Name,
		Broker:      req.Broker,
		FeeDiscount: decimal.NewFromInt(1),
		CreatedAt:   time.Now().UTC(),
	}
	if req.FeeDiscount != nil {
		account.FeeDiscount = *req.FeeDiscount
	}

	if err := s.accountRepo.InsertAccount(ctx, *account); err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	return account, nil
}

// UpdateAccount applies the provided fields to an existing account.
//
// Returns:
//   - apperrors.ErrAccountNotFound if the account doesn't exist
//   - error if the update fails
func (s *AccountService) UpdateAccount(ctx context.Context, id string, req request.UpdateAccountRequest) (*model.Account, error) {
	account, err := s.accountRepo.GetAccount(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		account.Name = *req.Name
	}
	if req.Broker != nil {
		account.Broker = *req.Broker
	}
	if req.FeeDiscount != nil {
		account.FeeDiscount = *req.FeeDiscount
	}

	if err := s.accountRepo.UpdateAccount(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to update account: %w", err)
	}

	return &account, nil
}

// DeleteAccount removes an account that has no holdings.
//
// Returns:
//   - apperrors.ErrAccountNotFound if the account doesn't exist
//   - apperrors.ErrAccountInUse if holdings are still recorded under it
//   - error if deletion fails
func (s *AccountService) DeleteAccount(ctx context.Context, id string) error {
	if _, err := s.accountRepo.GetAccount(ctx, id); err != nil {
		return err
	}

	count, err := s.holdingRepo.CountByAccount(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check account usage: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("%w: %d holdings", apperrors.ErrAccountInUse, count)
	}

	if err := s.accountRepo.DeleteAccount(ctx, id); err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	return nil
}
