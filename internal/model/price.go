package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockPrice is a daily closing price. The store holds at most one row per (Symbol, Date).
type StockPrice struct {
	ID     string          `json:"id"`
	Symbol string          `json:"symbol"`
	Date   time.Time       `json:"date"`
	Price  decimal.Decimal `json:"price"`
}
