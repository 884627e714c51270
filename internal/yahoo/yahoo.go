package yahoo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

const (
	chartBaseURL = "https://query1.finance.yahoo.com/v8/finance/chart"
	userAgent    = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
)

// ErrNoResult is returned when Yahoo answers without any chart result for a ticker.
var ErrNoResult = errors.New("no results returned")

// taipei is the exchange time zone; Yahoo timestamps mark the session open there.
var taipei = time.FixedZone("Asia/Taipei", 8*60*60)

// Client is the subset of the Yahoo chart API the application depends on.
type Client interface {
	QueryLatest(ctx context.Context, ticker string) (Response, error)
	QueryEvents(ctx context.Context, ticker string, since time.Time) (Response, error)
}

// FinanceClient fetches chart data from the Yahoo Finance API.
type FinanceClient struct {
	httpClient *http.Client
	baseURL    string // overridable for tests
}

// NewFinanceClient creates a Yahoo Finance client whose requests time out after timeout.
func NewFinanceClient(timeout time.Duration) *FinanceClient {
	return &FinanceClient{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    chartBaseURL,
	}
}

// QueryLatest fetches the last 5 days of daily closes for a ticker.
// The most recent one is the latest available closing price.
//
// Parameters:
//   - ctx: Request context
//   - ticker: Yahoo ticker including the exchange suffix (e.g. "2330.TW")
//
// Returns:
//   - Response: Raw API response
//   - error: If the request fails, Yahoo reports an error, or no result is returned
func (c *FinanceClient) QueryLatest(ctx context.Context, ticker string) (Response, error) {
	params := url.Values{}
	params.Set("interval", "1d")
	params.Set("range", "5d")
	return c.query(ctx, ticker, params)
}

// QueryEvents fetches dividend and split events of a ticker from since until now.
//
// Parameters:
//   - ctx: Request context
//   - ticker: Yahoo ticker including the exchange suffix
//   - since: Start of the window
//
// Returns:
//   - Response: Raw API response with the events object populated
//   - error: If the request fails, Yahoo reports an error, or no result is returned
func (c *FinanceClient) QueryEvents(ctx context.Context, ticker string, since time.Time) (Response, error) {
	params := url.Values{}
	params.Set("interval", "1d")
	params.Set("period1", strconv.FormatInt(since.Unix(), 10))
	params.Set("period2", strconv.FormatInt(time.Now().Unix(), 10))
	params.Set("events", "div|split")
	return c.query(ctx, ticker, params)
}

func (c *FinanceClient) query(ctx context.Context, ticker string, params url.Values) (Response, error) {
	endpoint := c.baseURL + "/" + url.PathEscape(ticker) + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Response{}, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Response{}, fmt.Errorf("http request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var response Response
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		if resp.StatusCode != http.StatusOK {
			return Response{}, fmt.Errorf("unexpected status %d", resp.StatusCode)
		}
		return Response{}, fmt.Errorf("decoding response: %w", err)
	}

	if response.Chart.Error != nil {
		return Response{}, fmt.Errorf("yahoo error: %s: %s", response.Chart.Error.Code, response.Chart.Error.Description)
	}
	if resp.StatusCode != http.StatusOK {
		return Response{}, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	if len(response.Chart.Result) == 0 {
		return Response{}, fmt.Errorf("%w for %s", ErrNoResult, ticker)
	}

	return response, nil
}

// ParseChart converts a raw response into a close-price series.
// Days where Yahoo reports a null close, which happens for the session in progress, are skipped.
//
// Returns:
//   - PriceChart: Closes ordered by date
//   - error: If the response has no result, no timestamps, or mismatched array lengths
func ParseChart(yahooResult Response) (PriceChart, error) {
	if len(yahooResult.Chart.Result) == 0 {
		return PriceChart{}, ErrNoResult
	}
	result := yahooResult.Chart.Result[0]

	if len(result.Timestamp) == 0 {
		return PriceChart{}, fmt.Errorf("no price data returned")
	}
	if len(result.Indicators.Quote) == 0 || len(result.Indicators.Quote[0].Close) == 0 {
		return PriceChart{}, fmt.Errorf("no close prices returned")
	}
	closes := result.Indicators.Quote[0].Close
	if len(closes) != len(result.Timestamp) {
		return PriceChart{}, fmt.Errorf("mismatched data lengths")
	}

	indicators := make([]Indicators, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if closes[i] == nil {
			continue
		}
		indicators = append(indicators, Indicators{
			Date:       sessionDate(ts),
			PriceClose: decimal.NewFromFloat(*closes[i]),
		})
	}

	return PriceChart{
		Symbol:     result.Meta.Symbol,
		Currency:   result.Meta.Currency,
		Indicators: indicators,
	}, nil
}

// ParseEvents extracts dividends and splits from a response fetched with QueryEvents.
// A response without events yields empty lists.
func ParseEvents(yahooResult Response) (Events, error) {
	if len(yahooResult.Chart.Result) == 0 {
		return Events{}, ErrNoResult
	}
	raw := yahooResult.Chart.Result[0].Events

	events := Events{
		Dividends: make([]Dividend, 0, len(raw.Dividends)),
		Splits:    make([]Split, 0, len(raw.Splits)),
	}
	for _, d := range raw.Dividends {
		events.Dividends = append(events.Dividends, Dividend{
			ExDate: sessionDate(d.Date),
			Amount: decimal.NewFromFloat(d.Amount),
		})
	}
	for _, s := range raw.Splits {
		events.Splits = append(events.Splits, Split{
			ExDate:      sessionDate(s.Date),
			Numerator:   decimal.NewFromFloat(s.Numerator),
			Denominator: decimal.NewFromFloat(s.Denominator),
		})
	}

	sort.Slice(events.Dividends, func(i, j int) bool {
		return events.Dividends[i].ExDate.Before(events.Dividends[j].ExDate)
	})
	sort.Slice(events.Splits, func(i, j int) bool {
		return events.Splits[i].ExDate.Before(events.Splits[j].ExDate)
	})

	return events, nil
}

// sessionDate returns the Taipei calendar date of a Unix timestamp as midnight UTC.
func sessionDate(unix int64) time.Time {
	local := time.Unix(unix, 0).In(taipei)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}
