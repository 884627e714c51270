package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/model"
)

// AccountBuilder provides a fluent interface for creating test accounts.
//
// Example usage:
//
//	// Simple creation with defaults
//	account := testutil.NewAccount().Build(t, db)
//
//	// Customized account
//	account := testutil.NewAccount().
//	    WithName("Main").
//	    WithFeeDiscount("0.6").
//	    Build(t, db)
type AccountBuilder struct {
	ID          string
	Name        string
	Broker      string
	FeeDiscount decimal.Decimal
	CreatedAt   time.Time
}

// NewAccount creates an AccountBuilder with sensible defaults.
func NewAccount() *AccountBuilder {
	return &AccountBuilder{
		ID:          MakeID(),
		Name:        MakeName("Account"),
		Broker:      "Test Securities",
		FeeDiscount: decimal.NewFromInt(1),
		CreatedAt:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// WithID sets a custom ID.
func (b *AccountBuilder) WithID(id string) *AccountBuilder {
	b.ID = id
	return b
}

// WithName sets a custom name.
func (b *AccountBuilder) WithName(name string) *AccountBuilder {
	b.Name = name
	return b
}

// WithFeeDiscount sets the fee multiplier from its decimal string.
func (b *AccountBuilder) WithFeeDiscount(discount string) *AccountBuilder {
	b.FeeDiscount = decimal.RequireFromString(discount)
	return b
}

// Build creates the account in the database and returns it.
func (b *AccountBuilder) Build(t *testing.T, db *sql.DB) model.Account {
	t.Helper()

	_, err := db.Exec(
		`INSERT INTO account (id, name, broker, fee_discount, created_at) VALUES (?, ?, ?, ?, ?)`,
		b.ID, b.Name, b.Broker, b.FeeDiscount.String(), b.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		t.Fatalf("Failed to create test account: %v", err)
	}

	return model.Account{
		ID:          b.ID,
		Name:        b.Name,
		Broker:      b.Broker,
		FeeDiscount: b.FeeDiscount,
		CreatedAt:   b.CreatedAt,
	}
}

// StockBuilder provides a fluent interface for creating test stocks.
//
// Example usage:
//
//	stock := testutil.NewStock().WithSymbol("2330").Build(t, db)
//	etf := testutil.NewStock().WithClassification(model.ClassificationETF).Build(t, db)
type StockBuilder struct {
	Symbol         string
	Name           string
	Market         string
	Classification string
}

// NewStock creates a StockBuilder for an ordinary TWSE-listed stock with a random symbol.
func NewStock() *StockBuilder {
	return &StockBuilder{
		Symbol:         MakeSymbol(),
		Name:           MakeName("Stock"),
		Market:         model.MarketTWSE,
		Classification: model.ClassificationStock,
	}
}

// WithSymbol sets a custom symbol.
func (b *StockBuilder) WithSymbol(symbol string) *StockBuilder {
	b.Symbol = symbol
	return b
}

// WithMarket sets the listing market.
func (b *StockBuilder) WithMarket(market string) *StockBuilder {
	b.Market = market
	return b
}

// WithClassification sets the tax classification.
func (b *StockBuilder) WithClassification(classification string) *StockBuilder {
	b.Classification = classification
	return b
}

// Build creates the stock in the database and returns it.
func (b *StockBuilder) Build(t *testing.T, db *sql.DB) model.Stock {
	t.Helper()

	_, err := db.Exec(
		`INSERT INTO stock (symbol, name, market, classification) VALUES (?, ?, ?, ?)`,
		b.Symbol, b.Name, b.Market, b.Classification,
	)
	if err != nil {
		t.Fatalf("Failed to create test stock: %v", err)
	}

	return model.Stock{
		Symbol:         b.Symbol,
		Name:           b.Name,
		Market:         b.Market,
		Classification: b.Classification,
	}
}

// HoldingBuilder provides a fluent interface for creating test holdings.
//
// Example usage:
//
//	holding := testutil.NewHolding(account.ID, stock.Symbol).
//	    WithShares(1000).
//	    WithCostBasis("30").
//	    WithPurchaseDate(MustDate("2022-01-01")).
//	    Build(t, db)
type HoldingBuilder struct {
	ID                string
	AccountID         string
	Symbol            string
	Shares            int64
	CostBasisPerShare decimal.Decimal
	PurchaseDate      time.Time
	Note              string
	CreatedAt         time.Time
}

// NewHolding creates a HoldingBuilder for 1000 shares at 100 bought on 2022-01-03.
func NewHolding(accountID, symbol string) *HoldingBuilder {
	return &HoldingBuilder{
		ID:                MakeID(),
		AccountID:         accountID,
		Symbol:            symbol,
		Shares:            1000,
		CostBasisPerShare: decimal.NewFromInt(100),
		PurchaseDate:      MustDate("2022-01-03"),
		CreatedAt:         time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// WithID sets a custom ID.
func (b *HoldingBuilder) WithID(id string) *HoldingBuilder {
	b.ID = id
	return b
}

// WithShares sets the purchased share count.
func (b *HoldingBuilder) WithShares(shares int64) *HoldingBuilder {
	b.Shares = shares
	return b
}

// WithCostBasis sets the cost basis per share from its decimal string.
func (b *HoldingBuilder) WithCostBasis(cost string) *HoldingBuilder {
	b.CostBasisPerShare = decimal.RequireFromString(cost)
	return b
}

// WithPurchaseDate sets the purchase date.
func (b *HoldingBuilder) WithPurchaseDate(date time.Time) *HoldingBuilder {
	b.PurchaseDate = date
	return b
}

// WithNote sets the free-text note.
func (b *HoldingBuilder) WithNote(note string) *HoldingBuilder {
	b.Note = note
	return b
}

// Build creates the holding in the database and returns it.
func (b *HoldingBuilder) Build(t *testing.T, db *sql.DB) model.Holding {
	t.Helper()

	_, err := db.Exec(`
		INSERT INTO holding (id, account_id, symbol, shares, cost_basis_per_share, purchase_date, note, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.AccountID, b.Symbol, b.Shares, b.CostBasisPerShare.String(),
		b.PurchaseDate.Format("2006-01-02"), b.Note, b.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		t.Fatalf("Failed to create test holding: %v", err)
	}

	return model.Holding{
		ID:                b.ID,
		AccountID:         b.AccountID,
		Symbol:            b.Symbol,
		Shares:            b.Shares,
		CostBasisPerShare: b.CostBasisPerShare,
		PurchaseDate:      b.PurchaseDate,
		Note:              b.Note,
		CreatedAt:         b.CreatedAt,
	}
}

// CorporateActionBuilder provides a fluent interface for creating stored corporate actions.
//
// Example usage:
//
//	testutil.NewCorporateAction(stock.Symbol, MustDate("2023-06-15")).WithCash("1.5").Build(t, db)
type CorporateActionBuilder struct {
	ID                            string
	Symbol                        string
	ExDate                        time.Time
	CashDividendPerShare          decimal.Decimal
	StockDividendRatioPerThousand decimal.Decimal
	Source                        string
	FetchedAt                     time.Time
}

// NewCorporateAction creates a builder for an event with no cash and no stock dividend.
func NewCorporateAction(symbol string, exDate time.Time) *CorporateActionBuilder {
	return &CorporateActionBuilder{
		ID:                            MakeID(),
		Symbol:                        symbol,
		ExDate:                        exDate,
		CashDividendPerShare:          decimal.Zero,
		StockDividendRatioPerThousand: decimal.Zero,
		Source:                        model.SourceYahoo,
		FetchedAt:                     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// WithCash sets the cash dividend per share from its decimal string.
func (b *CorporateActionBuilder) WithCash(cash string) *CorporateActionBuilder {
	b.CashDividendPerShare = decimal.RequireFromString(cash)
	return b
}

// WithRatio sets the stock dividend per thousand shares from its decimal string.
func (b *CorporateActionBuilder) WithRatio(ratio string) *CorporateActionBuilder {
	b.StockDividendRatioPerThousand = decimal.RequireFromString(ratio)
	return b
}

// WithSource sets the recorded source.
func (b *CorporateActionBuilder) WithSource(source string) *CorporateActionBuilder {
	b.Source = source
	return b
}

// Build creates the corporate action in the database and returns it.
func (b *CorporateActionBuilder) Build(t *testing.T, db *sql.DB) model.CorporateAction {
	t.Helper()

	_, err := db.Exec(`
		INSERT INTO corporate_action
			(id, symbol, ex_date, cash_dividend_per_share, stock_dividend_ratio_per_thousand, source, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.Symbol, b.ExDate.Format("2006-01-02"), b.CashDividendPerShare.String(),
		b.StockDividendRatioPerThousand.String(), b.Source, b.FetchedAt.Format(time.RFC3339),
	)
	if err != nil {
		t.Fatalf("Failed to create test corporate action: %v", err)
	}

	return model.CorporateAction{
		ID:                            b.ID,
		Symbol:                        b.Symbol,
		ExDate:                        b.ExDate,
		CashDividendPerShare:          b.CashDividendPerShare,
		StockDividendRatioPerThousand: b.StockDividendRatioPerThousand,
		Source:                        b.Source,
		FetchedAt:                     b.FetchedAt,
	}
}

// PriceBuilder provides a fluent interface for creating stored prices.
//
// Example usage:
//
//	testutil.NewPrice(stock.Symbol).WithDate(MustDate("2024-06-28")).WithPrice("30").Build(t, db)
type PriceBuilder struct {
	ID     string
	Symbol string
	Date   time.Time
	Price  decimal.Decimal
}

// NewPrice creates a PriceBuilder for a close of 100 on 2024-06-28.
func NewPrice(symbol string) *PriceBuilder {
	return &PriceBuilder{
		ID:     MakeID(),
		Symbol: symbol,
		Date:   MustDate("2024-06-28"),
		Price:  decimal.NewFromInt(100),
	}
}

// WithDate sets the price date.
func (b *PriceBuilder) WithDate(date time.Time) *PriceBuilder {
	b.Date = date
	return b
}

// WithPrice sets the closing price from its decimal string.
func (b *PriceBuilder) WithPrice(price string) *PriceBuilder {
	b.Price = decimal.RequireFromString(price)
	return b
}

// Build creates the price in the database and returns it.
func (b *PriceBuilder) Build(t *testing.T, db *sql.DB) model.StockPrice {
	t.Helper()

	_, err := db.Exec(
		`INSERT INTO stock_price (id, symbol, date, price) VALUES (?, ?, ?, ?)`,
		b.ID, b.Symbol, b.Date.Format("2006-01-02"), b.Price.String(),
	)
	if err != nil {
		t.Fatalf("Failed to create test price: %v", err)
	}

	return model.StockPrice{
		ID:     b.ID,
		Symbol: b.Symbol,
		Date:   b.Date,
		Price:  b.Price,
	}
}
