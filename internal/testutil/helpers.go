package testutil

import (
	"database/sql"
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/config"
	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/feed"
	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/repository"
	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/rights"
	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/service"
)

// testConcurrency bounds batch refreshes in tests.
const testConcurrency = 4

func NewTestAccountService(t *testing.T, db *sql.DB) *service.AccountService {
	t.Helper()

	return service.NewAccountService(
		repository.NewAccountRepository(db),
		repository.NewHoldingRepository(db),
	)
}

func NewTestStockService(t *testing.T, db *sql.DB) *service.StockService {
	t.Helper()

	return service.NewStockService(repository.NewStockRepository(db))
}

func NewTestHoldingService(t *testing.T, db *sql.DB) *service.HoldingService {
	t.Helper()

	return service.NewHoldingService(
		repository.NewHoldingRepository(db),
		repository.NewAccountRepository(db),
		repository.NewStockRepository(db),
	)
}

// NewTestCorporateActionService creates a CorporateActionService backed by the given feed,
// usually a MockCorporateActionFeed.
func NewTestCorporateActionService(t *testing.T, db *sql.DB, actionFeed feed.CorporateActionFeed) *service.CorporateActionService {
	t.Helper()

	return service.NewCorporateActionService(
		db,
		repository.NewCorporateActionRepository(db),
		repository.NewStockRepository(db),
		actionFeed,
		testConcurrency,
	)
}

// NewTestPriceService creates a PriceService backed by the given feed, usually a MockPriceFeed.
func NewTestPriceService(t *testing.T, db *sql.DB, priceFeed feed.PriceFeed) *service.PriceService {
	t.Helper()

	return service.NewPriceService(
		repository.NewPriceRepository(db),
		repository.NewStockRepository(db),
		priceFeed,
		testConcurrency,
	)
}

// NewTestValuationService creates a ValuationService with DefaultCosts.
func NewTestValuationService(t *testing.T, db *sql.DB) *service.ValuationService {
	t.Helper()

	return NewTestValuationServiceWithCosts(t, db, DefaultCosts())
}

// NewTestValuationServiceWithCosts creates a ValuationService with explicit transaction costs.
func NewTestValuationServiceWithCosts(t *testing.T, db *sql.DB, costs config.CostsConfig) *service.ValuationService {
	t.Helper()

	return service.NewValuationService(
		db,
		repository.NewHoldingRepository(db),
		repository.NewAccountRepository(db),
		repository.NewStockRepository(db),
		repository.NewCorporateActionRepository(db),
		repository.NewPriceRepository(db),
		repository.NewSnapshotRepository(db),
		costs,
	)
}

func NewTestBackupService(t *testing.T, db *sql.DB) *service.BackupService {
	t.Helper()

	return service.NewBackupService(
		db,
		repository.NewAccountRepository(db),
		repository.NewStockRepository(db),
		repository.NewHoldingRepository(db),
		repository.NewCorporateActionRepository(db),
		repository.NewPriceRepository(db),
	)
}

func NewTestSystemService(t *testing.T, db *sql.DB) *service.SystemService {
	t.Helper()

	return service.NewSystemService(db, TestConfig())
}

// DefaultCosts returns the production fee and tax defaults.
func DefaultCosts() config.CostsConfig {
	return config.CostsConfig{
		BuyFeeRate:  decimal.RequireFromString("0.001425"),
		SellFeeRate: decimal.RequireFromString("0.001425"),
		MinFee:      decimal.NewFromInt(20),
		TaxRates: map[string]decimal.Decimal{
			"stock":    decimal.RequireFromString("0.003"),
			"etf":      decimal.RequireFromString("0.001"),
			"bond_etf": decimal.Zero,
		},
	}
}

// ZeroCosts returns costs with every fee and tax at zero, for tests about share arithmetic.
func ZeroCosts() config.CostsConfig {
	return config.CostsConfig{
		BuyFeeRate:  decimal.Zero,
		SellFeeRate: decimal.Zero,
		MinFee:      decimal.Zero,
		TaxRates:    map[string]decimal.Decimal{"stock": decimal.Zero},
	}
}

// TestConfig returns a configuration with production defaults and the scheduler disabled.
func TestConfig() *config.Config {
	return &config.Config{
		Costs: DefaultCosts(),
		Feed: config.FeedConfig{
			CorporateActionSource: config.SourceYahoo,
			RequestTimeout:        5 * time.Second,
		},
		Scheduler: config.SchedulerConfig{Concurrency: testConcurrency},
		Env:       "test",
	}
}

// MakeID generates a UUID string for use in tests.
//
// Example usage:
//
//	id := testutil.MakeID()
//	// Returns: "550e8400-e29b-41d4-a716-446655440000"
func MakeID() string {
	return uuid.New().String()
}

// MakeSymbol generates a numeric TWSE-style symbol for testing.
//
// Example usage:
//
//	symbol := testutil.MakeSymbol()
//	// Returns: "948213"
func MakeSymbol() string {
	return "9" + randomDigits(5)
}

// MakeName generates a unique account or stock name for testing.
//
// Example usage:
//
//	name := testutil.MakeName("Account")
//	// Returns: "Account ABC123"
func MakeName(base string) string {
	if base == "" {
		base = "Test"
	}
	return base + " " + randomAlphanumeric(6)
}

// MustDate parses a YYYY-MM-DD date and panics on malformed input.
func MustDate(s string) time.Time {
	d, err := rights.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// randomAlphanumeric generates a random alphanumeric string of specified length.
func randomAlphanumeric(length int) string {
	return randomFrom("ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789", length)
}

func randomDigits(length int) string {
	return randomFrom("0123456789", length)
}

func randomFrom(charset string, length int) string {
	result := make([]byte, length)
	for i := range result {
		//nolint:gosec // G404: Using math/rand for test data generation is acceptable
		result[i] = charset[rand.Intn(len(charset))]
	}
	return string(result)
}
