package validation

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/api/request"
)

func fieldErrors(t *testing.T, err error) map[string]string {
	t.Helper()
	var verr *Error
	require.True(t, errors.As(err, &verr), "expected *validation.Error, got %v", err)
	return verr.Fields
}

func TestStruct_CreateHolding(t *testing.T) {
	valid := request.CreateHoldingRequest{
		AccountID:         "550e8400-e29b-41d4-a716-446655440000",
		Symbol:            "2330",
		Shares:            1000,
		CostBasisPerShare: decimal.RequireFromString("580.5"),
		PurchaseDate:      "2023-01-05",
	}

	t.Run("valid request passes", func(t *testing.T) {
		assert.NoError(t, Struct(valid))
	})

	t.Run("every invalid field is reported by json name", func(t *testing.T) {
		req := request.CreateHoldingRequest{
			AccountID:         "not-a-uuid",
			Symbol:            "TSMC",
			Shares:            0,
			CostBasisPerShare: decimal.RequireFromString("-1"),
			PurchaseDate:      "05/01/2023",
		}
		fields := fieldErrors(t, Struct(req))

		assert.Len(t, fields, 5)
		assert.Contains(t, fields, "accountId")
		assert.Contains(t, fields, "symbol")
		assert.Contains(t, fields, "shares")
		assert.Contains(t, fields, "costBasisPerShare")
		assert.Equal(t, "purchaseDate must be a YYYY-MM-DD date", fields["purchaseDate"])
	})

	t.Run("zero cost basis rejected", func(t *testing.T) {
		req := valid
		req.CostBasisPerShare = decimal.Zero
		fields := fieldErrors(t, Struct(req))
		assert.Contains(t, fields, "costBasisPerShare")
	})
}

func TestStruct_UpdateHolding(t *testing.T) {
	t.Run("empty update passes", func(t *testing.T) {
		assert.NoError(t, Struct(request.UpdateHoldingRequest{}))
	})

	t.Run("provided fields are checked", func(t *testing.T) {
		shares := int64(-5)
		date := "2023-13-01"
		fields := fieldErrors(t, Struct(request.UpdateHoldingRequest{Shares: &shares, PurchaseDate: &date}))
		assert.Contains(t, fields, "shares")
		assert.Contains(t, fields, "purchaseDate")
	})
}

func TestStruct_Account(t *testing.T) {
	t.Run("blank name rejected", func(t *testing.T) {
		fields := fieldErrors(t, Struct(request.CreateAccountRequest{Name: "   "}))
		assert.Equal(t, "name cannot be empty", fields["name"])
	})

	t.Run("fee discount must be within (0, 1]", func(t *testing.T) {
		for _, v := range []string{"0", "1.2", "-0.5"} {
			d := decimal.RequireFromString(v)
			fields := fieldErrors(t, Struct(request.CreateAccountRequest{Name: "Main", FeeDiscount: &d}))
			assert.Contains(t, fields, "feeDiscount", v)
		}

		d := decimal.RequireFromString("0.28")
		assert.NoError(t, Struct(request.CreateAccountRequest{Name: "Main", FeeDiscount: &d}))
	})
}

func TestStruct_Stock(t *testing.T) {
	tests := []struct {
		name    string
		req     request.CreateStockRequest
		wantErr string
	}{
		{"valid stock", request.CreateStockRequest{Symbol: "2330", Name: "TSMC", Market: "TWSE"}, ""},
		{"valid etf with suffix", request.CreateStockRequest{Symbol: "00632R", Name: "Inverse", Market: "TWSE", Classification: "etf"}, ""},
		{"tpex listing", request.CreateStockRequest{Symbol: "6488", Name: "GlobalWafers", Market: "TPEx"}, ""},
		{"unknown market", request.CreateStockRequest{Symbol: "2330", Name: "TSMC", Market: "NYSE"}, "market"},
		{"bad symbol", request.CreateStockRequest{Symbol: "2330.TW", Name: "TSMC", Market: "TWSE"}, "symbol"},
		{"bad classification", request.CreateStockRequest{Symbol: "2330", Name: "TSMC", Market: "TWSE", Classification: "reit"}, "classification"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(tt.req)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.Contains(t, fieldErrors(t, err), tt.wantErr)
		})
	}
}

func TestValidateCreateCorporateAction(t *testing.T) {
	t.Run("needs a distribution", func(t *testing.T) {
		fields := fieldErrors(t, ValidateCreateCorporateAction(request.CreateCorporateActionRequest{ExDate: "2023-07-20"}))
		assert.Contains(t, fields, "cashDividendPerShare")
	})

	t.Run("negative ratio rejected", func(t *testing.T) {
		fields := fieldErrors(t, ValidateCreateCorporateAction(request.CreateCorporateActionRequest{
			ExDate:                        "2023-07-20",
			StockDividendRatioPerThousand: decimal.RequireFromString("-10"),
		}))
		assert.Contains(t, fields, "stockDividendRatioPerThousand")
	})

	t.Run("stock dividend only is valid", func(t *testing.T) {
		assert.NoError(t, ValidateCreateCorporateAction(request.CreateCorporateActionRequest{
			ExDate:                        "2023-07-20",
			StockDividendRatioPerThousand: decimal.RequireFromString("50"),
		}))
	})
}

func TestError_IsDeterministic(t *testing.T) {
	err := &Error{Fields: map[string]string{"b": "two", "a": "one", "c": "three"}}
	assert.Equal(t, "a: one; b: two; c: three", err.Error())
}

func TestValidateUUID(t *testing.T) {
	assert.NoError(t, ValidateUUID("550e8400-e29b-41d4-a716-446655440000"))
	assert.ErrorIs(t, ValidateUUID("123"), ErrInvalidUUID)
}

func TestValidateSymbol(t *testing.T) {
	assert.NoError(t, ValidateSymbol("0050"))
	assert.ErrorIs(t, ValidateSymbol("50"), ErrInvalidSymbol)
	assert.ErrorIs(t, ValidateSymbol("'; DROP"), ErrInvalidSymbol)
}
