package yahoo

import (
	"time"

	"github.com/shopspring/decimal"
)

// Response represents the raw JSON response structure from the Yahoo Finance chart API.
//
// The structure includes:
//   - Chart.Result: Array of result objects (typically contains one element)
//   - Chart.Result[].Meta: Symbol metadata (name, currency, exchange)
//   - Chart.Result[].Timestamp: Unix timestamps for each data point
//   - Chart.Result[].Indicators: Close prices per timestamp
//   - Chart.Result[].Events: Dividends and splits keyed by Unix timestamp, present when events=div|split
//   - Chart.Error: Optional error object from Yahoo API
type Response struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Currency     string `json:"currency"`
				Symbol       string `json:"symbol"`
				ExchangeName string `json:"exchangeName"`
				LongName     string `json:"longName"`
				ShortName    string `json:"shortName"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
			Events struct {
				Dividends map[string]RawDividend `json:"dividends"`
				Splits    map[string]RawSplit    `json:"splits"`
			} `json:"events"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// RawDividend is one entry of the events.dividends object.
type RawDividend struct {
	Amount float64 `json:"amount"`
	Date   int64   `json:"date"`
}

// RawSplit is one entry of the events.splits object.
// A Taiwanese stock dividend of r shares per thousand shows up as a split of (1000+r):1000.
type RawSplit struct {
	Date        int64   `json:"date"`
	Numerator   float64 `json:"numerator"`
	Denominator float64 `json:"denominator"`
}

// PriceChart is the parsed close-price series of one ticker, oldest first.
type PriceChart struct {
	Symbol     string       `json:"symbol"`
	Currency   string       `json:"currency"`
	Indicators []Indicators `json:"indicators"`
}

// Indicators is a single trading day's close.
type Indicators struct {
	Date       time.Time       `json:"date"`
	PriceClose decimal.Decimal `json:"priceClose"`
}

// Latest returns the most recent day with a close.
func (c PriceChart) Latest() (Indicators, bool) {
	if len(c.Indicators) == 0 {
		return Indicators{}, false
	}
	return c.Indicators[len(c.Indicators)-1], true
}

// Dividend is a parsed cash distribution.
type Dividend struct {
	ExDate time.Time
	Amount decimal.Decimal
}

// Split is a parsed share split expressed as numerator:denominator.
type Split struct {
	ExDate      time.Time
	Numerator   decimal.Decimal
	Denominator decimal.Decimal
}

// Events holds the parsed distributions of one ticker, each list sorted by date.
type Events struct {
	Dividends []Dividend
	Splits    []Split
}
