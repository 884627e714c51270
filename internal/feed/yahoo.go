package feed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/model"
	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/rights"
	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/yahoo"
)

// YahooFeed serves prices and corporate actions from the Yahoo Finance chart API.
type YahooFeed struct {
	client yahoo.Client
}

// NewYahooFeed wraps a Yahoo client.
func NewYahooFeed(client yahoo.Client) *YahooFeed {
	return &YahooFeed{client: client}
}

// Source returns the value recorded in corporate_action.source.
func (f *YahooFeed) Source() string { return model.SourceYahoo }

// LatestPrice returns the last available close of the stock.
func (f *YahooFeed) LatestPrice(ctx context.Context, stock model.Stock) (Quote, error) {
	resp, err := f.client.QueryLatest(ctx, stock.YahooTicker())
	if err != nil {
		return Quote{}, wrapYahoo(err)
	}

	chart, err := yahoo.ParseChart(resp)
	if err != nil {
		return Quote{}, fmt.Errorf("%w: %v", apperrors.ErrNoData, err)
	}
	latest, ok := chart.Latest()
	if !ok {
		return Quote{}, fmt.Errorf("%w: no close for %s", apperrors.ErrNoData, stock.YahooTicker())
	}

	return Quote{Date: latest.Date, Price: latest.PriceClose}, nil
}

// FetchActions returns one event per Yahoo dividend and one per split.
//
// A split of n:d is a stock dividend of (n/d - 1) * 1000 shares per thousand. A reverse split
// yields a negative ratio, which normalization rejects with a warning.
func (f *YahooFeed) FetchActions(ctx context.Context, stock model.Stock, since time.Time) ([]rights.Event, error) {
	resp, err := f.client.QueryEvents(ctx, stock.YahooTicker(), since)
	if err != nil {
		return nil, wrapYahoo(err)
	}

	parsed, err := yahoo.ParseEvents(resp)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrNoData, err)
	}

	events := make([]rights.Event, 0, len(parsed.Dividends)+len(parsed.Splits))
	for _, d := range parsed.Dividends {
		events = append(events, rights.NewEvent(d.ExDate, d.Amount, decimal.Zero))
	}
	for _, s := range parsed.Splits {
		events = append(events, rights.NewEvent(s.ExDate, decimal.Zero, splitRatioPerThousand(s)))
	}

	return events, nil
}

func splitRatioPerThousand(s yahoo.Split) decimal.Decimal {
	if s.Denominator.IsZero() {
		return decimal.NewFromInt(-1)
	}
	return s.Numerator.Div(s.Denominator).Sub(decimal.NewFromInt(1)).Mul(thousand)
}

func wrapYahoo(err error) error {
	if errors.Is(err, yahoo.ErrNoResult) {
		return fmt.Errorf("%w: %v", apperrors.ErrNoData, err)
	}
	return fmt.Errorf("%w: %v", apperrors.ErrFeedUnavailable, err)
}
