package model

import "github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/rights"

// RefreshResponse is the result of a bulk price update or corporate action refresh.
// Every requested symbol appears either in Updated or in Errors.
// Success is true if at least one symbol was refreshed.
type RefreshResponse struct {
	Success      bool              `json:"success"`
	Updated      []RefreshedSymbol `json:"updated"`
	Errors       []RefreshError    `json:"errors"`
	TotalUpdated int               `json:"totalUpdated"`
	TotalErrors  int               `json:"totalErrors"`
}

// RefreshedSymbol is a symbol refreshed successfully.
type RefreshedSymbol struct {
	Symbol   string           `json:"symbol"`
	Stored   int              `json:"stored"`             // Rows inserted or updated
	Warnings []rights.Warning `json:"warnings,omitempty"` // Source records dropped as malformed
}

// RefreshError is a symbol that failed to refresh.
type RefreshError struct {
	Symbol string `json:"symbol"`
	Error  string `json:"error"`
}

// NewRefreshResponse assembles the response totals from the per-symbol outcome lists.
func NewRefreshResponse(updated []RefreshedSymbol, errs []RefreshError) RefreshResponse {
	if updated == nil {
		updated = []RefreshedSymbol{}
	}
	if errs == nil {
		errs = []RefreshError{}
	}
	return RefreshResponse{
		Success:      len(updated) > 0,
		Updated:      updated,
		Errors:       errs,
		TotalUpdated: len(updated),
		TotalErrors:  len(errs),
	}
}
