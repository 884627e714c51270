package rights

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Mode selects how distributions enter a gain/loss figure.
type Mode string

const (
	// ModePriceOnly ignores every distribution and prices the holding as purchased.
	ModePriceOnly Mode = "PRICE_ONLY"
	// ModeTotalReturn prices the adjusted share count and counts the cash received.
	ModeTotalReturn Mode = "TOTAL_RETURN"
)

// ParseMode accepts a mode name case-insensitively. An empty string selects ModeTotalReturn.
func ParseMode(s string) (Mode, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", string(ModeTotalReturn):
		return ModeTotalReturn, nil
	case string(ModePriceOnly):
		return ModePriceOnly, nil
	}
	return "", fmt.Errorf("unknown gain/loss mode %q", s)
}

// TransactionCosts holds the broker fee and sell-side tax parameters of a round trip.
type TransactionCosts struct {
	BuyFeeRate         decimal.Decimal `json:"buyFeeRate"`
	SellFeeRate        decimal.Decimal `json:"sellFeeRate"`
	MinFee             decimal.Decimal `json:"minFee"`
	TransactionTaxRate decimal.Decimal `json:"transactionTaxRate"`
}

func (c TransactionCosts) validate() error {
	fields := []struct {
		name  string
		value decimal.Decimal
	}{
		{"buyFeeRate", c.BuyFeeRate},
		{"sellFeeRate", c.SellFeeRate},
		{"minFee", c.MinFee},
		{"transactionTaxRate", c.TransactionTaxRate},
	}
	for _, f := range fields {
		if f.value.IsNegative() {
			return &InvalidInputError{Field: f.name, Reason: "cannot be negative"}
		}
	}
	return nil
}

// Fee returns max(MinFee, round(gross * rate)), rounded to whole currency units.
func (c TransactionCosts) Fee(gross, rate decimal.Decimal) decimal.Decimal {
	return decimal.Max(c.MinFee, gross.Mul(rate).Round(0))
}

// Tax returns the sell-side transaction tax on gross, rounded to whole currency units.
func (c TransactionCosts) Tax(gross decimal.Decimal) decimal.Decimal {
	return gross.Mul(c.TransactionTaxRate).Round(0)
}

// GainLossReport is the valuation of one holding at a price.
type GainLossReport struct {
	Mode               Mode            `json:"mode"`
	Shares             int64           `json:"shares"`
	CostBasisPerShare  decimal.Decimal `json:"costBasisPerShare"`
	CurrentPrice       decimal.Decimal `json:"currentPrice"`
	CostTotal          decimal.Decimal `json:"costTotal"`
	MarketValue        decimal.Decimal `json:"marketValue"`
	CashDistributions  decimal.Decimal `json:"cashDistributions"`
	GrossGainLoss      decimal.Decimal `json:"grossGainLoss"`
	BuyFee             decimal.Decimal `json:"buyFee"`
	SellFee            decimal.Decimal `json:"sellFee"`
	SellTax            decimal.Decimal `json:"sellTax"`
	NetGainLoss        decimal.Decimal `json:"netGainLoss"`
	NetGainLossPercent decimal.Decimal `json:"netGainLossPercent"`
}

// ComputeGainLoss values the holding at currentPrice.
//
// In ModePriceOnly the gross figure is (currentPrice - costBasisPerShare) * shares of the original
// purchase; result is not consulted. In ModeTotalReturn the adjusted share count from result is
// priced and the cash distributions are added:
//
//	gross = currentPrice*finalShares - costBasisPerShare*shares + totalCash
//
// which equals (currentPrice - finalCostBasisPerShare) * finalShares while the adjusted cost basis
// has not been clamped at zero.
//
// Both modes then subtract the same round-trip costs: the buy fee on the purchase amount, and the
// sell fee and sell tax on the market value. The percentage is relative to the purchase amount plus
// the buy fee, rounded to two decimals.
func ComputeGainLoss(
	h Holding,
	result Result,
	currentPrice decimal.Decimal,
	mode Mode,
	costs TransactionCosts,
) (GainLossReport, error) {
	if err := h.Validate(); err != nil {
		return GainLossReport{}, err
	}
	if !currentPrice.IsPositive() {
		return GainLossReport{}, &InvalidInputError{Field: "currentPrice", Reason: "must be positive"}
	}
	if err := costs.validate(); err != nil {
		return GainLossReport{}, err
	}

	costTotal := h.CostBasisPerShare.Mul(decimal.NewFromInt(h.Shares))

	report := GainLossReport{
		Mode:              mode,
		CurrentPrice:      currentPrice,
		CostTotal:         costTotal,
		CashDistributions: decimal.Zero,
	}

	switch mode {
	case ModePriceOnly:
		report.Shares = h.Shares
		report.CostBasisPerShare = h.CostBasisPerShare
		report.MarketValue = currentPrice.Mul(decimal.NewFromInt(h.Shares))
		report.GrossGainLoss = report.MarketValue.Sub(costTotal)
	case ModeTotalReturn:
		// Stock dividends only ever add shares, so anything smaller than the purchase is not a
		// result folded from this holding.
		if result.FinalShares < h.Shares {
			return GainLossReport{}, &InvalidInputError{Field: "result", Reason: "does not belong to holding"}
		}
		report.Shares = result.FinalShares
		report.CostBasisPerShare = result.FinalCostBasisPerShare
		report.CashDistributions = result.TotalCashDistributionReceived
		report.MarketValue = currentPrice.Mul(decimal.NewFromInt(result.FinalShares))
		report.GrossGainLoss = report.MarketValue.Sub(costTotal).Add(result.TotalCashDistributionReceived)
	default:
		return GainLossReport{}, &InvalidInputError{Field: "mode", Reason: fmt.Sprintf("%q is not supported", mode)}
	}

	report.BuyFee = costs.Fee(costTotal, costs.BuyFeeRate)
	report.SellFee = costs.Fee(report.MarketValue, costs.SellFeeRate)
	report.SellTax = costs.Tax(report.MarketValue)
	report.NetGainLoss = report.GrossGainLoss.Sub(report.BuyFee).Sub(report.SellFee).Sub(report.SellTax)

	invested := costTotal.Add(report.BuyFee)
	report.NetGainLossPercent = report.NetGainLoss.Div(invested).Mul(decimal.NewFromInt(100)).Round(2)

	return report, nil
}
