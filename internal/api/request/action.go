package request

import "github.com/shopspring/decimal"

// CreateCorporateActionRequest records a manually entered ex-dividend / ex-rights event.
// At least one of the two amounts must be positive.
type CreateCorporateActionRequest struct {
	ExDate                        string          `json:"exDate" validate:"required,date"`
	CashDividendPerShare          decimal.Decimal `json:"cashDividendPerShare" validate:"gte=0"`
	StockDividendRatioPerThousand decimal.Decimal `json:"stockDividendRatioPerThousand" validate:"gte=0"`
}
