package model

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/rights"
)

// Corporate action sources recorded with each stored event.
const (
	SourceManual  = "manual"
	SourceYahoo   = "yahoo"
	SourceFinMind = "finmind"
)

// CorporateAction is a stored ex-dividend / ex-rights event. The store holds at most one row per
// (Symbol, ExDate).
type CorporateAction struct {
	ID                            string          `json:"id"`
	Symbol                        string          `json:"symbol"`
	ExDate                        time.Time       `json:"exDate"`
	CashDividendPerShare          decimal.Decimal `json:"cashDividendPerShare"`          // TWD per share
	StockDividendRatioPerThousand decimal.Decimal `json:"stockDividendRatioPerThousand"` // Shares granted per 1000 held
	Source                        string          `json:"source"`                        // "manual", "yahoo" or "finmind"
	FetchedAt                     time.Time       `json:"fetchedAt"`
}

// Event returns the action as a rights engine event.
func (a CorporateAction) Event() rights.Event {
	return rights.NewEvent(a.ExDate, a.CashDividendPerShare, a.StockDividendRatioPerThousand)
}

// Events converts a slice of stored actions to engine events.
func Events(actions []CorporateAction) []rights.Event {
	events := make([]rights.Event, len(actions))
	for i, a := range actions {
		events[i] = a.Event()
	}
	return events
}
