package request

import "github.com/shopspring/decimal"

type CreateHoldingRequest struct {
	AccountID         string          `json:"accountId" validate:"required,uuid"`
	Symbol            string          `json:"symbol" validate:"required,symbol"`
	Shares            int64           `json:"shares" validate:"gt=0"`
	CostBasisPerShare decimal.Decimal `json:"costBasisPerShare" validate:"gt=0"`
	PurchaseDate      string          `json:"purchaseDate" validate:"required,date"`
	Note              string          `json:"note" validate:"max=500"`
}

type UpdateHoldingRequest struct {
	AccountID         *string          `json:"accountId,omitempty" validate:"omitempty,uuid"`
	Symbol            *string          `json:"symbol,omitempty" validate:"omitempty,symbol"`
	Shares            *int64           `json:"shares,omitempty" validate:"omitempty,gt=0"`
	CostBasisPerShare *decimal.Decimal `json:"costBasisPerShare,omitempty" validate:"omitempty,gt=0"`
	PurchaseDate      *string          `json:"purchaseDate,omitempty" validate:"omitempty,date"`
	Note              *string          `json:"note,omitempty" validate:"omitempty,max=500"`
}
