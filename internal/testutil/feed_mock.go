package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/feed"
	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/model"
	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/rights"
)

// MockPriceFeed is a mock implementation of feed.PriceFeed for testing.
// It returns predefined quotes per symbol instead of making API calls.
// Safe for concurrent use.
type MockPriceFeed struct {
	mu sync.Mutex
	// Quotes is the quote returned per symbol. Symbols without an entry get DefaultQuote.
	Quotes map[string]feed.Quote
	// DefaultQuote is returned for symbols missing from Quotes
	DefaultQuote feed.Quote
	// Errors is the error returned per symbol
	Errors map[string]error
	// QueryCount tracks how many times LatestPrice was called
	QueryCount int
}

// NewMockPriceFeed creates a mock price feed whose default close is 100 on 2024-06-28.
func NewMockPriceFeed() *MockPriceFeed {
	return &MockPriceFeed{
		Quotes:       make(map[string]feed.Quote),
		DefaultQuote: feed.Quote{Date: MustDate("2024-06-28"), Price: decimal.NewFromInt(100)},
		Errors:       make(map[string]error),
	}
}

// LatestPrice returns the configured quote or error of the stock.
func (m *MockPriceFeed) LatestPrice(_ context.Context, stock model.Stock) (feed.Quote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.QueryCount++
	if err, ok := m.Errors[stock.Symbol]; ok {
		return feed.Quote{}, err
	}
	if q, ok := m.Quotes[stock.Symbol]; ok {
		return q, nil
	}
	return m.DefaultQuote, nil
}

// WithQuote configures the close returned for a symbol.
func (m *MockPriceFeed) WithQuote(symbol, date, price string) *MockPriceFeed {
	m.Quotes[symbol] = feed.Quote{Date: MustDate(date), Price: decimal.RequireFromString(price)}
	return m
}

// WithError configures the mock to fail for a symbol.
func (m *MockPriceFeed) WithError(symbol string, err error) *MockPriceFeed {
	m.Errors[symbol] = err
	return m
}

// Calls returns how many times LatestPrice was called.
func (m *MockPriceFeed) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.QueryCount
}

// MockCorporateActionFeed is a mock implementation of feed.CorporateActionFeed for testing.
// Safe for concurrent use.
type MockCorporateActionFeed struct {
	mu sync.Mutex
	// SourceName is returned by Source
	SourceName string
	// Events is the raw event list returned per symbol
	Events map[string][]rights.Event
	// Errors is the error returned per symbol
	Errors map[string]error
	// QueryCount tracks how many times FetchActions was called
	QueryCount int
}

// NewMockCorporateActionFeed creates a mock feed reporting itself as the Yahoo source
// and returning no events.
func NewMockCorporateActionFeed() *MockCorporateActionFeed {
	return &MockCorporateActionFeed{
		SourceName: model.SourceYahoo,
		Events:     make(map[string][]rights.Event),
		Errors:     make(map[string]error),
	}
}

// Source returns the configured source name.
func (m *MockCorporateActionFeed) Source() string { return m.SourceName }

// FetchActions returns the configured events or error of the stock.
func (m *MockCorporateActionFeed) FetchActions(_ context.Context, stock model.Stock, _ time.Time) ([]rights.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.QueryCount++
	if err, ok := m.Errors[stock.Symbol]; ok {
		return nil, err
	}
	return m.Events[stock.Symbol], nil
}

// WithEvents configures the raw events returned for a symbol.
func (m *MockCorporateActionFeed) WithEvents(symbol string, events ...rights.Event) *MockCorporateActionFeed {
	m.Events[symbol] = append(m.Events[symbol], events...)
	return m
}

// WithError configures the mock to fail for a symbol.
func (m *MockCorporateActionFeed) WithError(symbol string, err error) *MockCorporateActionFeed {
	m.Errors[symbol] = err
	return m
}

// Calls returns how many times FetchActions was called.
func (m *MockCorporateActionFeed) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.QueryCount
}

// Event builds an engine event from textual values.
//
// Example usage:
//
//	testutil.Event("2023-07-20", "0.75", "46")
func Event(exDate, cash, ratio string) rights.Event {
	return rights.ParseEvent(exDate, decimal.RequireFromString(cash), decimal.RequireFromString(ratio))
}
