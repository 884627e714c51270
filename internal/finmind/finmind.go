// Package finmind is a client for the FinMind open data API.
// Only the TaiwanStockDividend dataset is used.
package finmind

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
)

const (
	baseURL         = "https://api.finmindtrade.com/api/v4/data"
	datasetDividend = "TaiwanStockDividend"
	dateLayout      = "2006-01-02"
)

// DividendRecord is one row of the TaiwanStockDividend dataset: a board resolution
// of cash and stock distributions, each with its own ex-dividend trading date.
// Monetary fields are NT$ per share; stock fields are NT$ of par value per share.
type DividendRecord struct {
	Date                       string          `json:"date"`
	StockID                    string          `json:"stock_id"`
	Year                       string          `json:"year"`
	CashEarningsDistribution   decimal.Decimal `json:"CashEarningsDistribution"`
	CashStatutorySurplus       decimal.Decimal `json:"CashStatutorySurplus"`
	CashExDividendTradingDate  string          `json:"CashExDividendTradingDate"`
	CashDividendPaymentDate    string          `json:"CashDividendPaymentDate"`
	StockEarningsDistribution  decimal.Decimal `json:"StockEarningsDistribution"`
	StockStatutorySurplus      decimal.Decimal `json:"StockStatutorySurplus"`
	StockExDividendTradingDate string          `json:"StockExDividendTradingDate"`
	AnnouncementDate           string          `json:"AnnouncementDate"`
}

// CashPerShare is the total cash distributed per share.
func (r DividendRecord) CashPerShare() decimal.Decimal {
	return r.CashEarningsDistribution.Add(r.CashStatutorySurplus)
}

// StockPerShare is the total par value distributed as shares, per share held.
func (r DividendRecord) StockPerShare() decimal.Decimal {
	return r.StockEarningsDistribution.Add(r.StockStatutorySurplus)
}

// dataResponse is the envelope every FinMind v4 endpoint answers with.
type dataResponse struct {
	Msg    string           `json:"msg"`
	Status int              `json:"status"`
	Data   []DividendRecord `json:"data"`
}

// Client fetches datasets from FinMind.
type Client struct {
	httpClient *http.Client
	baseURL    string // overridable for tests
	token      string
}

// NewClient creates a FinMind client. An empty token uses the anonymous rate limit.
func NewClient(token string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		token:      token,
	}
}

// QueryDividends fetches the dividend resolutions of a stock announced since the given date.
//
// Parameters:
//   - ctx: Request context
//   - stockID: Bare Taiwanese symbol (e.g. "2330")
//   - since: Earliest resolution date to return
//
// Returns:
//   - []DividendRecord: Rows in the order FinMind returns them (by date)
//   - error: If the request fails or FinMind answers with a non-200 status
func (c *Client) QueryDividends(ctx context.Context, stockID string, since time.Time) ([]DividendRecord, error) {
	params := url.Values{}
	params.Set("dataset", datasetDividend)
	params.Set("data_id", stockID)
	params.Set("start_date", since.Format(dateLayout))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var body dataResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	if body.Status != http.StatusOK {
		return nil, fmt.Errorf("finmind error %d: %s", body.Status, body.Msg)
	}

	return body.Data, nil
}
