package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/config"
	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/logger"
	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/model"
	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/repository"
	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/rights"
)

// ValuationService folds holdings over their stored corporate actions and values them at the
// latest stored prices. Nothing it computes is written back to the holdings.
type ValuationService struct {
	db           *sql.DB
	holdingRepo  *repository.HoldingRepository
	accountRepo  *repository.AccountRepository
	stockRepo    *repository.StockRepository
	actionRepo   *repository.CorporateActionRepository
	priceRepo    *repository.PriceRepository
	snapshotRepo *repository.SnapshotRepository
	costs        config.CostsConfig
}

// NewValuationService creates a new ValuationService with the provided repository dependencies
// and the configured transaction costs.
func NewValuationService(
	db *sql.DB,
	holdingRepo *repository.HoldingRepository,
	accountRepo *repository.AccountRepository,
	stockRepo *repository.StockRepository,
	actionRepo *repository.CorporateActionRepository,
	priceRepo *repository.PriceRepository,
	snapshotRepo *repository.SnapshotRepository,
	costs config.CostsConfig,
) *ValuationService {
	return &ValuationService{
		db:           db,
		holdingRepo:  holdingRepo,
		accountRepo:  accountRepo,
		stockRepo:    stockRepo,
		actionRepo:   actionRepo,
		priceRepo:    priceRepo,
		snapshotRepo: snapshotRepo,
		costs:        costs,
	}
}

// valuationInputs is everything loaded up front to value a set of holdings.
type valuationInputs struct {
	holdings []model.Holding
	actions  map[string][]model.CorporateAction
	prices   map[string]model.StockPrice
	stocks   map[string]model.Stock
	accounts map[string]model.Account
}

func (s *ValuationService) loadInputs(ctx context.Context, accountID string) (valuationInputs, error) {
	if accountID != "" {
		if _, err := s.accountRepo.GetAccount(ctx, accountID); err != nil {
			return valuationInputs{}, err
		}
	}

	holdings, err := s.holdingRepo.GetHoldings(ctx, accountID)
	if err != nil {
		return valuationInputs{}, err
	}

	symbols := uniqueSymbols(holdings)
	actions, err := s.actionRepo.GetActionsForSymbols(ctx, symbols)
	if err != nil {
		return valuationInputs{}, err
	}
	prices, err := s.priceRepo.GetLatestPrices(ctx, symbols)
	if err != nil {
		return valuationInputs{}, err
	}

	stockList, err := s.stockRepo.GetStocks(ctx)
	if err != nil {
		return valuationInputs{}, err
	}
	stocks := make(map[string]model.Stock, len(stockList))
	for _, st := range stockList {
		stocks[st.Symbol] = st
	}

	accountList, err := s.accountRepo.GetAccounts(ctx)
	if err != nil {
		return valuationInputs{}, err
	}
	accounts := make(map[string]model.Account, len(accountList))
	for _, a := range accountList {
		accounts[a.ID] = a
	}

	return valuationInputs{
		holdings: holdings,
		actions:  actions,
		prices:   prices,
		stocks:   stocks,
		accounts: accounts,
	}, nil
}

// Valuate values every holding of an account, or of every account when accountID is empty.
//
// Each holding gets its own entry: either the adjustment and the gain/loss report, or the reason
// it could not be valued (no stored price, invalid holding). One failing holding never fails the
// request. Totals cover the successfully valued holdings.
//
// Returns:
//   - model.ValuationResponse: one entry per holding, ordered by purchase date
//   - error: apperrors.ErrAccountNotFound for an unknown account, or a database failure
func (s *ValuationService) Valuate(ctx context.Context, mode rights.Mode, accountID string) (model.ValuationResponse, error) {
	in, err := s.loadInputs(ctx, accountID)
	if err != nil {
		return model.ValuationResponse{}, err
	}

	resp := model.ValuationResponse{
		Mode:     mode,
		Holdings: make([]model.HoldingValuation, 0, len(in.holdings)),
		Totals: model.ValuationTotals{
			CostTotal:         decimal.Zero,
			MarketValue:       decimal.Zero,
			CashDistributions: decimal.Zero,
			GrossGainLoss:     decimal.Zero,
			Fees:              decimal.Zero,
			NetGainLoss:       decimal.Zero,
		},
	}
	invested := decimal.Zero

	for _, h := range in.holdings {
		entry := model.HoldingValuation{HoldingID: h.ID, AccountID: h.AccountID, Symbol: h.Symbol}

		result, report, priceDate, err := s.valueHolding(h, in, mode)
		if err != nil {
			logger.Get().Warnw("holding not valued", "holding", h.ID, "symbol", h.Symbol, "error", err)
			entry.Error = err.Error()
			resp.Holdings = append(resp.Holdings, entry)
			resp.TotalErrors++
			continue
		}
		entry.Adjustment = &result
		entry.Report = &report
		entry.PriceDate = &priceDate
		resp.Holdings = append(resp.Holdings, entry)
		resp.TotalValued++

		t := &resp.Totals
		t.CostTotal = t.CostTotal.Add(report.CostTotal)
		t.MarketValue = t.MarketValue.Add(report.MarketValue)
		t.CashDistributions = t.CashDistributions.Add(report.CashDistributions)
		t.GrossGainLoss = t.GrossGainLoss.Add(report.GrossGainLoss)
		t.Fees = t.Fees.Add(report.BuyFee).Add(report.SellFee).Add(report.SellTax)
		t.NetGainLoss = t.NetGainLoss.Add(report.NetGainLoss)
		invested = invested.Add(report.CostTotal).Add(report.BuyFee)
	}

	if invested.IsPositive() {
		resp.Totals.NetGainLossPercent = resp.Totals.NetGainLoss.Div(invested).Mul(decimal.NewFromInt(100)).Round(2)
	}

	return resp, nil
}

func (s *ValuationService) valueHolding(
	h model.Holding,
	in valuationInputs,
	mode rights.Mode,
) (rights.Result, rights.GainLossReport, time.Time, error) {
	result, err := s.fold(h, in.actions[h.Symbol])
	if err != nil {
		return rights.Result{}, rights.GainLossReport{}, time.Time{}, err
	}

	price, ok := in.prices[h.Symbol]
	if !ok {
		return rights.Result{}, rights.GainLossReport{}, time.Time{}, fmt.Errorf("%w: %s", apperrors.ErrPriceNotFound, h.Symbol)
	}

	report, err := rights.ComputeGainLoss(h.Position(), result, price.Price, mode, s.costsFor(in.accounts[h.AccountID], in.stocks[h.Symbol]))
	if err != nil {
		return rights.Result{}, rights.GainLossReport{}, time.Time{}, err
	}
	return result, report, price.Date, nil
}

func (s *ValuationService) fold(h model.Holding, actions []model.CorporateAction) (rights.Result, error) {
	result, err := rights.Fold(h.Position(), model.Events(actions))
	if err != nil {
		return rights.Result{}, err
	}
	for _, w := range result.Warnings {
		logger.Get().Warnw("corporate action skipped", "holding", h.ID, "symbol", h.Symbol, "exDate", w.ExDate, "reason", w.Reason)
	}
	return result, nil
}

// costsFor applies the account's fee discount to the configured rates and selects the sell tax
// of the stock's classification. The minimum fee is not discounted.
func (s *ValuationService) costsFor(account model.Account, stock model.Stock) rights.TransactionCosts {
	discount := account.FeeDiscount
	if !discount.IsPositive() {
		discount = decimal.NewFromInt(1)
	}
	return rights.TransactionCosts{
		BuyFeeRate:         s.costs.BuyFeeRate.Mul(discount),
		SellFeeRate:        s.costs.SellFeeRate.Mul(discount),
		MinFee:             s.costs.MinFee,
		TransactionTaxRate: s.costs.TaxRate(stock.Classification),
	}
}

// GetAdjustment folds one holding over the stored events of its symbol.
//
// Returns:
//   - rights.Result: final shares, adjusted cost basis, cash received and the applied events
//   - error: apperrors.ErrHoldingNotFound, a *rights.InvalidInputError for an invalid holding,
//     or a database failure
func (s *ValuationService) GetAdjustment(ctx context.Context, holdingID string) (rights.Result, error) {
	h, err := s.holdingRepo.GetHolding(ctx, holdingID)
	if err != nil {
		return rights.Result{}, err
	}
	actions, err := s.actionRepo.GetActions(ctx, h.Symbol)
	if err != nil {
		return rights.Result{}, err
	}
	return s.fold(h, actions)
}

// Recalculate folds every holding from scratch and replaces the stored snapshot in one
// transaction. Holdings that cannot be folded are reported and left out of the snapshot.
func (s *ValuationService) Recalculate(ctx context.Context) (model.RecalculateResponse, error) {
	holdings, err := s.holdingRepo.GetHoldings(ctx, "")
	if err != nil {
		return model.RecalculateResponse{}, err
	}
	actions, err := s.actionRepo.GetActionsForSymbols(ctx, uniqueSymbols(holdings))
	if err != nil {
		return model.RecalculateResponse{}, err
	}

	calculatedAt := time.Now().UTC().Truncate(time.Second)
	resp := model.RecalculateResponse{Errors: []model.HoldingError{}, CalculatedAt: calculatedAt}
	snapshots := make([]model.AdjustmentSnapshot, 0, len(holdings))

	for _, h := range holdings {
		result, err := s.fold(h, actions[h.Symbol])
		if err != nil {
			logger.Get().Warnw("holding not recalculated", "holding", h.ID, "symbol", h.Symbol, "error", err)
			resp.Errors = append(resp.Errors, model.HoldingError{HoldingID: h.ID, Symbol: h.Symbol, Error: err.Error()})
			continue
		}
		snapshots = append(snapshots, model.NewAdjustmentSnapshot(h.ID, result, calculatedAt))
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.RecalculateResponse{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.snapshotRepo.WithTx(tx).ReplaceAll(ctx, snapshots); err != nil {
		return model.RecalculateResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.RecalculateResponse{}, fmt.Errorf("failed to commit snapshot: %w", err)
	}

	resp.Calculated = len(snapshots)
	return resp, nil
}

// GetSnapshots returns the stored snapshot, ordered by holding ID.
// Returns apperrors.ErrSnapshotNotFound if no recalculation has stored anything yet.
func (s *ValuationService) GetSnapshots(ctx context.Context) ([]model.AdjustmentSnapshot, error) {
	snapshots, err := s.snapshotRepo.GetSnapshots(ctx)
	if err != nil {
		return nil, err
	}
	if len(snapshots) == 0 {
		return nil, apperrors.ErrSnapshotNotFound
	}
	return snapshots, nil
}

func uniqueSymbols(holdings []model.Holding) []string {
	seen := make(map[string]bool, len(holdings))
	symbols := make([]string, 0, len(holdings))
	for _, h := range holdings {
		if !seen[h.Symbol] {
			seen[h.Symbol] = true
			symbols = append(symbols, h.Symbol)
		}
	}
	return symbols
}

// IsInvalidInput reports whether err is an engine input rejection.
func IsInvalidInput(err error) bool {
	var invalid *rights.InvalidInputError
	return errors.As(err, &invalid)
}
