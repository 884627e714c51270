package model

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/rights"
)

// HoldingValuation is the valuation of one holding. Exactly one of Report and Error is set.
type HoldingValuation struct {
	HoldingID  string                 `json:"holdingId"`
	AccountID  string                 `json:"accountId"`
	Symbol     string                 `json:"symbol"`
	PriceDate  *time.Time             `json:"priceDate,omitempty"`
	Adjustment *rights.Result         `json:"adjustment,omitempty"`
	Report     *rights.GainLossReport `json:"report,omitempty"`
	Error      string                 `json:"error,omitempty"`
}

// ValuationTotals sums the reports of the successfully valued holdings.
type ValuationTotals struct {
	CostTotal          decimal.Decimal `json:"costTotal"`
	MarketValue        decimal.Decimal `json:"marketValue"`
	CashDistributions  decimal.Decimal `json:"cashDistributions"`
	GrossGainLoss      decimal.Decimal `json:"grossGainLoss"`
	Fees               decimal.Decimal `json:"fees"` // Buy fee, sell fee and sell tax
	NetGainLoss        decimal.Decimal `json:"netGainLoss"`
	NetGainLossPercent decimal.Decimal `json:"netGainLossPercent"`
}

// ValuationResponse is the valuation of a set of holdings in one mode.
type ValuationResponse struct {
	Mode        rights.Mode        `json:"mode"`
	Holdings    []HoldingValuation `json:"holdings"`
	Totals      ValuationTotals    `json:"totals"`
	TotalValued int                `json:"totalValued"`
	TotalErrors int                `json:"totalErrors"`
}

// AdjustmentSnapshot is the persisted outcome of folding one holding.
type AdjustmentSnapshot struct {
	HoldingID                     string                `json:"holdingId"`
	FinalShares                   int64                 `json:"finalShares"`
	FinalCostBasisPerShare        decimal.Decimal       `json:"finalCostBasisPerShare"`
	TotalCashDistributionReceived decimal.Decimal       `json:"totalCashDistributionReceived"`
	EventsApplied                 []rights.AppliedEvent `json:"eventsApplied"`
	Warnings                      []rights.Warning      `json:"warnings"`
	CalculatedAt                  time.Time             `json:"calculatedAt"`
}

// NewAdjustmentSnapshot records result for holdingID at calculatedAt.
func NewAdjustmentSnapshot(holdingID string, result rights.Result, calculatedAt time.Time) AdjustmentSnapshot {
	snapshot := AdjustmentSnapshot{
		HoldingID:                     holdingID,
		FinalShares:                   result.FinalShares,
		FinalCostBasisPerShare:        result.FinalCostBasisPerShare,
		TotalCashDistributionReceived: result.TotalCashDistributionReceived,
		EventsApplied:                 result.EventsApplied,
		Warnings:                      result.Warnings,
		CalculatedAt:                  calculatedAt,
	}
	if snapshot.EventsApplied == nil {
		snapshot.EventsApplied = []rights.AppliedEvent{}
	}
	if snapshot.Warnings == nil {
		snapshot.Warnings = []rights.Warning{}
	}
	return snapshot
}

// HoldingError is a holding that could not be processed in a batch.
type HoldingError struct {
	HoldingID string `json:"holdingId"`
	Symbol    string `json:"symbol"`
	Error     string `json:"error"`
}

// RecalculateResponse is the result of rebuilding the adjustment snapshot.
type RecalculateResponse struct {
	Calculated   int            `json:"calculated"`
	Errors       []HoldingError `json:"errors"`
	CalculatedAt time.Time      `json:"calculatedAt"`
}
