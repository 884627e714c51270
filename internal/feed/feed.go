// Package feed adapts the external market-data clients to the shapes the services consume:
// the latest close of a stock, and its corporate-action history as engine events.
package feed

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/config"
	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/finmind"
	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/model"
	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/rights"
	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/yahoo"
)

// Quote is a closing price on a trading day.
type Quote struct {
	Date  time.Time
	Price decimal.Decimal
}

// PriceFeed returns the most recent close of a stock.
type PriceFeed interface {
	LatestPrice(ctx context.Context, stock model.Stock) (Quote, error)
}

// CorporateActionFeed returns the ex-dividend / ex-rights history of a stock.
// The events are raw: they may contain malformed or same-day records and must be normalized.
type CorporateActionFeed interface {
	Source() string
	FetchActions(ctx context.Context, stock model.Stock, since time.Time) ([]rights.Event, error)
}

// thousand converts ratios to the per-thousand-shares convention.
var thousand = decimal.NewFromInt(1000)

// NewCorporateActionFeed selects the corporate-action source named by the configuration.
func NewCorporateActionFeed(cfg config.FeedConfig, yahooClient yahoo.Client) (CorporateActionFeed, error) {
	switch cfg.CorporateActionSource {
	case config.SourceYahoo:
		return NewYahooFeed(yahooClient), nil
	case config.SourceFinMind:
		return NewFinMindFeed(finmind.NewClient(cfg.FinMindToken, cfg.RequestTimeout)), nil
	default:
		return nil, fmt.Errorf("unknown corporate action source %q", cfg.CorporateActionSource)
	}
}
