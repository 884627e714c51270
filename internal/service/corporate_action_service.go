package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/api/request"
	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/feed"
	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/logger"
	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/model"
	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/repository"
	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/rights"
)

// historyStart is the beginning of the fetched corporate-action window. Re-fetching the whole
// window is idempotent, so holdings added later with older purchase dates are covered.
var historyStart = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// CorporateActionService stores ex-dividend / ex-rights events, fetched or entered manually.
type CorporateActionService struct {
	db          *sql.DB
	actionRepo  *repository.CorporateActionRepository
	stockRepo   *repository.StockRepository
	feed        feed.CorporateActionFeed
	concurrency int
}

// NewCorporateActionService creates a new CorporateActionService.
// concurrency bounds the number of symbols fetched in parallel by RefreshAllActions.
func NewCorporateActionService(
	db *sql.DB,
	actionRepo *repository.CorporateActionRepository,
	stockRepo *repository.StockRepository,
	actionFeed feed.CorporateActionFeed,
	concurrency int,
) *CorporateActionService {
	return &CorporateActionService{
		db:          db,
		actionRepo:  actionRepo,
		stockRepo:   stockRepo,
		feed:        actionFeed,
		concurrency: concurrency,
	}
}

// GetActions retrieves the stored events of a symbol, oldest first.
// Returns apperrors.ErrStockNotFound if the symbol is not registered.
func (s *CorporateActionService) GetActions(ctx context.Context, symbol string) ([]model.CorporateAction, error) {
	if _, err := s.stockRepo.GetStock(ctx, symbol); err != nil {
		return nil, err
	}
	return s.actionRepo.GetActions(ctx, symbol)
}

// CreateManualAction records an event entered by the user. It replaces any event stored for the
// same ex-date, and later fetches never overwrite it.
//
// Returns:
//   - apperrors.ErrStockNotFound if the symbol is not registered
//   - error if the date does not parse or the upsert fails
func (s *CorporateActionService) CreateManualAction(
	ctx context.Context,
	symbol string,
	req request.CreateCorporateActionRequest,
) (*model.CorporateAction, error) {
	if _, err := s.stockRepo.GetStock(ctx, symbol); err != nil {
		return nil, err
	}

	exDate, err := rights.ParseDate(req.ExDate)
	if err != nil {
		return nil, err
	}

	action := &model.CorporateAction{
		ID:                            uuid.New().String(),
		Symbol:                        symbol,
		ExDate:                        exDate,
		CashDividendPerShare:          req.CashDividendPerShare,
		StockDividendRatioPerThousand: req.StockDividendRatioPerThousand,
		Source:                        model.SourceManual,
		FetchedAt:                     time.Now().UTC(),
	}

	if _, err := s.actionRepo.UpsertActions(ctx, []model.CorporateAction{*action}); err != nil {
		return nil, fmt.Errorf("failed to store corporate action: %w", err)
	}

	// An existing row keeps its ID; return what is stored.
	stored, err := s.actionRepo.GetActions(ctx, symbol)
	if err != nil {
		return nil, err
	}
	for i := range stored {
		if stored[i].ExDate.Equal(exDate) {
			return &stored[i], nil
		}
	}
	return action, nil
}

// RefreshActions fetches the event history of one symbol from the configured feed and stores it.
//
// Returns:
//   - model.RefreshedSymbol: rows written and the source records dropped as malformed
//   - error: apperrors.ErrStockNotFound, a feed error (apperrors.ErrNoData, apperrors.ErrFeedUnavailable),
//     or a database failure
func (s *CorporateActionService) RefreshActions(ctx context.Context, symbol string) (model.RefreshedSymbol, error) {
	stock, err := s.stockRepo.GetStock(ctx, symbol)
	if err != nil {
		return model.RefreshedSymbol{}, err
	}
	return s.refreshStock(ctx, stock)
}

// RefreshAllActions refreshes every symbol that has at least one holding.
// Per-symbol failures are reported in the response; only failing to list the symbols is an error.
func (s *CorporateActionService) RefreshAllActions(ctx context.Context) (model.RefreshResponse, error) {
	stocks, err := s.stockRepo.GetHeldStocks(ctx)
	if err != nil {
		return model.RefreshResponse{}, err
	}
	return refreshBatch(ctx, "corporate actions", stocks, s.concurrency, s.refreshStock), nil
}

func (s *CorporateActionService) refreshStock(ctx context.Context, stock model.Stock) (model.RefreshedSymbol, error) {
	raw, err := s.feed.FetchActions(ctx, stock, historyStart)
	if err != nil {
		return model.RefreshedSymbol{}, err
	}

	events, warnings := rights.Normalize(raw)
	for _, w := range warnings {
		logger.Get().Warnw("dropped corporate action record", "symbol", stock.Symbol, "source", s.feed.Source(),
			"exDate", w.ExDate, "reason", w.Reason)
	}

	now := time.Now().UTC()
	actions := make([]model.CorporateAction, len(events))
	for i, ev := range events {
		actions[i] = model.CorporateAction{
			ID:                            uuid.New().String(),
			Symbol:                        stock.Symbol,
			ExDate:                        ev.ExDate,
			CashDividendPerShare:          ev.CashDividendPerShare,
			StockDividendRatioPerThousand: ev.StockDividendRatioPerThousand,
			Source:                        s.feed.Source(),
			FetchedAt:                     now,
		}
	}

	stored, err := s.upsertInTx(ctx, actions)
	if err != nil {
		return model.RefreshedSymbol{}, err
	}

	return model.RefreshedSymbol{Symbol: stock.Symbol, Stored: stored, Warnings: warnings}, nil
}

func (s *CorporateActionService) upsertInTx(ctx context.Context, actions []model.CorporateAction) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stored, err := s.actionRepo.WithTx(tx).UpsertActions(ctx, actions)
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit corporate actions: %w", err)
	}
	return stored, nil
}
