package apperrors

import "errors"

// Domain entity errors represent missing entities in the system.
var (
	// ErrAccountNotFound indicates that an account with the given ID does not exist.
	ErrAccountNotFound = errors.New("account not found")

	// ErrStockNotFound indicates that no stock is registered under the given symbol.
	ErrStockNotFound = errors.New("stock not found")

	// ErrHoldingNotFound indicates that a holding with the given ID does not exist.
	ErrHoldingNotFound = errors.New("holding not found")

	// ErrPriceNotFound indicates that no price is stored for the symbol.
	ErrPriceNotFound = errors.New("price not found")

	// ErrSnapshotNotFound indicates that no adjustment snapshot has been calculated yet.
	ErrSnapshotNotFound = errors.New("adjustment snapshot not found")
)

// Business logic errors represent constraint violations.
var (
	// ErrDuplicateEntry indicates that an entity with the same unique key already exists.
	ErrDuplicateEntry = errors.New("duplicate entry")

	// ErrAccountInUse indicates that an account still has holdings and cannot be deleted.
	ErrAccountInUse = errors.New("account has holdings")

	// ErrStockInUse indicates that a stock is still held and cannot be deleted.
	ErrStockInUse = errors.New("stock has holdings")

	// ErrUnknownReference indicates that a holding references an account or symbol that does not exist.
	ErrUnknownReference = errors.New("unknown account or symbol")

	// ErrInvalidBackup indicates that an import document cannot be read or decrypted.
	ErrInvalidBackup = errors.New("invalid backup")
)

// Feed errors represent failures of the external data sources.
var (
	// ErrNoData indicates that the source answered but returned nothing for the symbol.
	ErrNoData = errors.New("no data returned")

	// ErrFeedUnavailable indicates a transport or upstream failure.
	ErrFeedUnavailable = errors.New("data source unavailable")
)

// Operation failure messages used in API error responses.
var (
	ErrFailedToRetrieveAccounts = errors.New("failed to retrieve accounts")
	ErrFailedToRetrieveStocks   = errors.New("failed to retrieve stocks")
	ErrFailedToRetrieveHoldings = errors.New("failed to retrieve holdings")
	ErrFailedToRetrieveActions  = errors.New("failed to retrieve corporate actions")
	ErrFailedToRetrievePrices   = errors.New("failed to retrieve prices")
	ErrFailedToRefreshActions   = errors.New("failed to refresh corporate actions")
	ErrFailedToUpdatePrices     = errors.New("failed to update prices")
	ErrFailedToCalculate        = errors.New("failed to calculate valuation")
	ErrFailedToExport           = errors.New("failed to export backup")
	ErrFailedToImport           = errors.New("failed to import backup")
	ErrFailedToGetVersionInfo   = errors.New("failed to get version information")
)
