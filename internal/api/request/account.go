package request

import "github.com/shopspring/decimal"

type CreateAccountRequest struct {
	Name        string           `json:"name" validate:"required,notblank,max=100"`
	Broker      string           `json:"broker" validate:"max=100"`
	FeeDiscount *decimal.Decimal `json:"feeDiscount,omitempty" validate:"omitempty,gt=0,lte=1"`
}

type UpdateAccountRequest struct {
	Name        *string          `json:"name,omitempty" validate:"omitempty,notblank,max=100"`
	Broker      *string          `json:"broker,omitempty" validate:"omitempty,max=100"`
	FeeDiscount *decimal.Decimal `json:"feeDiscount,omitempty" validate:"omitempty,gt=0,lte=1"`
}
