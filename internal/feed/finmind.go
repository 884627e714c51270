package feed

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/finmind"
	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/model"
	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/rights"
)

// parValue is the NT$ face value of one Taiwanese share.
var parValue = decimal.NewFromInt(10)

type dividendQuerier interface {
	QueryDividends(ctx context.Context, stockID string, since time.Time) ([]finmind.DividendRecord, error)
}

// FinMindFeed serves corporate actions from the FinMind TaiwanStockDividend dataset.
type FinMindFeed struct {
	client dividendQuerier
}

// NewFinMindFeed wraps a FinMind client.
func NewFinMindFeed(client *finmind.Client) *FinMindFeed {
	return &FinMindFeed{client: client}
}

// Source returns the value recorded in corporate_action.source.
func (f *FinMindFeed) Source() string { return model.SourceFinMind }

// FetchActions converts each resolution into a cash event on its cash ex-date and a stock event
// on its stock ex-date. The two dates usually coincide and normalization merges them.
//
// FinMind expresses stock dividends as NT$ of par value per share. At NT$10 par, NT$1 is 100
// shares per thousand.
func (f *FinMindFeed) FetchActions(ctx context.Context, stock model.Stock, since time.Time) ([]rights.Event, error) {
	records, err := f.client.QueryDividends(ctx, stock.Symbol, since)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrFeedUnavailable, err)
	}

	var events []rights.Event
	for _, r := range records {
		if cash := r.CashPerShare(); !cash.IsZero() {
			events = append(events, rights.ParseEvent(r.CashExDividendTradingDate, cash, decimal.Zero))
		}
		if stockValue := r.StockPerShare(); !stockValue.IsZero() {
			ratio := stockValue.Div(parValue).Mul(thousand)
			events = append(events, rights.ParseEvent(r.StockExDividendTradingDate, decimal.Zero, ratio))
		}
	}

	return events, nil
}
