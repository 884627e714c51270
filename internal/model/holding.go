package model

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/rights"
)

// Holding represents a recorded purchase. Shares and CostBasisPerShare are the values of the
// original purchase; adjustments for distributions are always derived, never stored here.
type Holding struct {
	ID                string          `json:"id"`
	AccountID         string          `json:"accountId"`
	Symbol            string          `json:"symbol"`
	Shares            int64           `json:"shares"`
	CostBasisPerShare decimal.Decimal `json:"costBasisPerShare"`
	PurchaseDate      time.Time       `json:"purchaseDate"`
	Note              string          `json:"note"`
	CreatedAt         time.Time       `json:"createdAt"`
}

// Position returns the holding in the form the rights engine folds over.
func (h Holding) Position() rights.Holding {
	return rights.Holding{
		Symbol:            h.Symbol,
		Shares:            h.Shares,
		CostBasisPerShare: h.CostBasisPerShare,
		PurchaseDate:      h.PurchaseDate,
	}
}
