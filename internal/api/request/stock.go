package request

type CreateStockRequest struct {
	Symbol         string `json:"symbol" validate:"required,symbol"`
	Name           string `json:"name" validate:"required,notblank,max=100"`
	Market         string `json:"market" validate:"required,market"`
	Classification string `json:"classification" validate:"omitempty,classification"`
}

type UpdateStockRequest struct {
	Name           *string `json:"name,omitempty" validate:"omitempty,notblank,max=100"`
	Market         *string `json:"market,omitempty" validate:"omitempty,market"`
	Classification *string `json:"classification,omitempty" validate:"omitempty,classification"`
}
