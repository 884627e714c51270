// Package rights folds ex-dividend and ex-rights events over a holding.
//
// The package is a pure calculation layer. It never performs I/O and keeps no state between calls,
// so Fold and ComputeGainLoss are safe to call concurrently for different holdings. Callers always
// pass the original holding together with the full event history of its symbol; a previous Result is
// never an input.
package rights

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the layout used for every date crossing the package boundary.
const DateLayout = "2006-01-02"

var thousand = decimal.NewFromInt(1000)

// Holding is a position in one symbol as originally purchased.
// Shares and CostBasisPerShare are never modified by this package.
type Holding struct {
	Symbol            string          `json:"symbol"`
	Shares            int64           `json:"shares"`
	CostBasisPerShare decimal.Decimal `json:"costBasisPerShare"`
	PurchaseDate      time.Time       `json:"purchaseDate"`
}

// Validate reports an *InvalidInputError when the holding cannot be folded.
func (h Holding) Validate() error {
	if h.Shares <= 0 {
		return &InvalidInputError{Field: "shares", Reason: "must be positive"}
	}
	if !h.CostBasisPerShare.IsPositive() {
		return &InvalidInputError{Field: "costBasisPerShare", Reason: "must be positive"}
	}
	if h.PurchaseDate.IsZero() {
		return &InvalidInputError{Field: "purchaseDate", Reason: "is required"}
	}
	return nil
}

// Event is one ex-dividend / ex-rights record for a symbol.
//
// A zero ExDate marks a record whose date was missing or could not be parsed; such an event is
// rejected with a warning when folded.
type Event struct {
	ExDate                        time.Time
	CashDividendPerShare          decimal.Decimal
	StockDividendRatioPerThousand decimal.Decimal

	rawExDate string
}

type eventJSON struct {
	ExDate                        string          `json:"exDate"`
	CashDividendPerShare          decimal.Decimal `json:"cashDividendPerShare"`
	StockDividendRatioPerThousand decimal.Decimal `json:"stockDividendRatioPerThousand"`
}

// MarshalJSON writes the event with an ISO-8601 date.
func (e Event) MarshalJSON() ([]byte, error) {
	date := e.rawExDate
	if !e.ExDate.IsZero() {
		date = e.ExDate.Format(DateLayout)
	}
	return json.Marshal(eventJSON{
		ExDate:                        date,
		CashDividendPerShare:          e.CashDividendPerShare,
		StockDividendRatioPerThousand: e.StockDividendRatioPerThousand,
	})
}

// UnmarshalJSON accepts an event whose date does not parse. The raw value is kept so that the
// warning raised by Fold can name it.
func (e *Event) UnmarshalJSON(data []byte) error {
	var raw eventJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*e = Event{
		CashDividendPerShare:          raw.CashDividendPerShare,
		StockDividendRatioPerThousand: raw.StockDividendRatioPerThousand,
		rawExDate:                     raw.ExDate,
	}
	if d, err := ParseDate(raw.ExDate); err == nil {
		e.ExDate = d
	}
	return nil
}

// malformed returns the reason the event must be rejected, or "" when the event is usable.
func (e Event) malformed() string {
	switch {
	case e.ExDate.IsZero():
		return fmt.Sprintf("missing or unparseable ex-date %q", e.rawExDate)
	case e.CashDividendPerShare.IsNegative():
		return "negative cash dividend per share"
	case e.StockDividendRatioPerThousand.IsNegative():
		return "negative stock dividend ratio"
	}
	return ""
}

// AppliedEvent records one folded event with the values before and after it.
type AppliedEvent struct {
	ExDate                        string          `json:"exDate"`
	CashDividendPerShare          decimal.Decimal `json:"cashDividendPerShare"`
	StockDividendRatioPerThousand decimal.Decimal `json:"stockDividendRatioPerThousand"`
	SharesBefore                  int64           `json:"sharesBefore"`
	SharesGranted                 int64           `json:"sharesGranted"`
	SharesAfter                   int64           `json:"sharesAfter"`
	CostBasisBefore               decimal.Decimal `json:"costBasisBefore"`
	CostBasisAfter                decimal.Decimal `json:"costBasisAfter"`
	CashReceived                  decimal.Decimal `json:"cashReceived"`
}

// Warning describes an input event that was dropped from the fold.
type Warning struct {
	ExDate string `json:"exDate"`
	Reason string `json:"reason"`
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.ExDate, w.Reason)
}

// Result is the outcome of folding every applicable event over a holding.
type Result struct {
	FinalShares                   int64           `json:"finalShares"`
	FinalCostBasisPerShare        decimal.Decimal `json:"finalCostBasisPerShare"`
	TotalCashDistributionReceived decimal.Decimal `json:"totalCashDistributionReceived"`
	EventsApplied                 []AppliedEvent  `json:"eventsApplied"`
	Warnings                      []Warning       `json:"warnings"`
}

// InvalidInputError is returned for input the engine refuses to compute from.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: %s %s", e.Field, e.Reason)
}

// ParseDate parses a "2006-01-02" or RFC3339 value into a UTC calendar date.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		d, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return time.Time{}, fmt.Errorf("failed to parse date %q: %w", s, err)
		}
	}
	return DateOnly(d), nil
}

// DateOnly drops the clock part of t, keeping the calendar date t has in its own location.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// NewEvent builds an event for exDate (date part only).
func NewEvent(exDate time.Time, cash, ratioPerThousand decimal.Decimal) Event {
	ev := Event{
		CashDividendPerShare:          cash,
		StockDividendRatioPerThousand: ratioPerThousand,
	}
	if !exDate.IsZero() {
		ev.ExDate = DateOnly(exDate)
	}
	return ev
}

// ParseEvent builds an event from a textual ex-date. An unparseable date is kept so that
// Normalize and Fold can report it.
func ParseEvent(exDate string, cash, ratioPerThousand decimal.Decimal) Event {
	ev := Event{
		CashDividendPerShare:          cash,
		StockDividendRatioPerThousand: ratioPerThousand,
		rawExDate:                     exDate,
	}
	if d, err := ParseDate(exDate); err == nil {
		ev.ExDate = d
	}
	return ev
}
