package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/model"
	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/repository"
)

// BackupService exports the whole store and restores it from an export.
// Adjustment snapshots are derived data and are not part of a backup.
type BackupService struct {
	db          *sql.DB
	accountRepo *repository.AccountRepository
	stockRepo   *repository.StockRepository
	holdingRepo *repository.HoldingRepository
	actionRepo  *repository.CorporateActionRepository
	priceRepo   *repository.PriceRepository
}

// NewBackupService creates a new BackupService with the provided repository dependencies.
func NewBackupService(
	db *sql.DB,
	accountRepo *repository.AccountRepository,
	stockRepo *repository.StockRepository,
	holdingRepo *repository.HoldingRepository,
	actionRepo *repository.CorporateActionRepository,
	priceRepo *repository.PriceRepository,
) *BackupService {
	return &BackupService{
		db:          db,
		accountRepo: accountRepo,
		stockRepo:   stockRepo,
		holdingRepo: holdingRepo,
		actionRepo:  actionRepo,
		priceRepo:   priceRepo,
	}
}

// Export reads every account, stock, holding, corporate action and price.
func (s *BackupService) Export(ctx context.Context) (model.Backup, error) {
	accounts, err := s.accountRepo.GetAccounts(ctx)
	if err != nil {
		return model.Backup{}, err
	}
	stocks, err := s.stockRepo.GetStocks(ctx)
	if err != nil {
		return model.Backup{}, err
	}
	holdings, err := s.holdingRepo.GetHoldings(ctx, "")
	if err != nil {
		return model.Backup{}, err
	}
	actions, err := s.actionRepo.GetAllActions(ctx)
	if err != nil {
		return model.Backup{}, err
	}
	prices, err := s.priceRepo.GetAllPrices(ctx)
	if err != nil {
		return model.Backup{}, err
	}

	return model.Backup{
		Version:          model.BackupVersion,
		ExportedAt:       time.Now().UTC().Truncate(time.Second),
		Accounts:         accounts,
		Stocks:           stocks,
		Holdings:         holdings,
		CorporateActions: actions,
		Prices:           prices,
	}, nil
}

// Import replaces all data with the contents of b in one transaction. On any failure nothing
// is changed. Stored snapshots are dropped with their holdings.
//
// Returns:
//   - model.ImportSummary: the number of rows restored per table
//   - error: apperrors.ErrInvalidBackup for an unsupported version or rows that violate the
//     schema (duplicates, dangling references), or a database failure
func (s *BackupService) Import(ctx context.Context, b model.Backup) (model.ImportSummary, error) {
	if b.Version != model.BackupVersion {
		return model.ImportSummary{}, fmt.Errorf("%w: unsupported version %d", apperrors.ErrInvalidBackup, b.Version)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.ImportSummary{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	accountRepo := s.accountRepo.WithTx(tx)
	stockRepo := s.stockRepo.WithTx(tx)
	holdingRepo := s.holdingRepo.WithTx(tx)
	actionRepo := s.actionRepo.WithTx(tx)
	priceRepo := s.priceRepo.WithTx(tx)

	// Children first.
	if err := holdingRepo.DeleteAll(ctx); err != nil {
		return model.ImportSummary{}, err
	}
	if err := actionRepo.DeleteAll(ctx); err != nil {
		return model.ImportSummary{}, err
	}
	if err := priceRepo.DeleteAll(ctx); err != nil {
		return model.ImportSummary{}, err
	}
	if err := stockRepo.DeleteAll(ctx); err != nil {
		return model.ImportSummary{}, err
	}
	if err := accountRepo.DeleteAll(ctx); err != nil {
		return model.ImportSummary{}, err
	}

	var summary model.ImportSummary

	for _, a := range b.Accounts {
		if err := accountRepo.InsertAccount(ctx, a); err != nil {
			return model.ImportSummary{}, invalidRow("account", a.ID, err)
		}
		summary.Accounts++
	}
	for _, st := range b.Stocks {
		if err := stockRepo.InsertStock(ctx, st); err != nil {
			return model.ImportSummary{}, invalidRow("stock", st.Symbol, err)
		}
		summary.Stocks++
	}
	for _, h := range b.Holdings {
		if err := holdingRepo.InsertHolding(ctx, h); err != nil {
			return model.ImportSummary{}, invalidRow("holding", h.ID, err)
		}
		summary.Holdings++
	}

	stored, err := actionRepo.UpsertActions(ctx, b.CorporateActions)
	if err != nil {
		return model.ImportSummary{}, invalidRow("corporate action", "", err)
	}
	summary.CorporateActions = stored

	for _, p := range b.Prices {
		if _, err := priceRepo.UpsertPrice(ctx, p); err != nil {
			return model.ImportSummary{}, invalidRow("price", p.Symbol, err)
		}
		summary.Prices++
	}

	if err := tx.Commit(); err != nil {
		return model.ImportSummary{}, fmt.Errorf("failed to commit import: %w", err)
	}
	return summary, nil
}

func invalidRow(table, key string, err error) error {
	if key == "" {
		return fmt.Errorf("%w: %s: %v", apperrors.ErrInvalidBackup, table, err)
	}
	return fmt.Errorf("%w: %s %s: %v", apperrors.ErrInvalidBackup, table, key, err)
}
