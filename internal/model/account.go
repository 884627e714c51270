package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account represents a brokerage account holdings are recorded under.
type Account struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Broker      string          `json:"broker"`
	FeeDiscount decimal.Decimal `json:"feeDiscount"` // Multiplier on the configured fee rates, 0 < d <= 1
	CreatedAt   time.Time       `json:"createdAt"`
}
