package finmind

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dividendBody = `{
  "msg": "success",
  "status": 200,
  "data": [{
    "date": "2023-05-10",
    "stock_id": "2884",
    "year": "111",
    "StockEarningsDistribution": 0.46,
    "StockStatutorySurplus": 0.0,
    "StockExDividendTradingDate": "2023-07-20",
    "CashEarningsDistribution": 0.7,
    "CashStatutorySurplus": 0.05,
    "CashExDividendTradingDate": "2023-07-20",
    "CashDividendPaymentDate": "2023-08-18",
    "AnnouncementDate": "2023-06-30"
  }]
}`

func newTestClient(server *httptest.Server, token string) *Client {
	c := NewClient(token, 5*time.Second)
	c.baseURL = server.URL
	return c
}

func TestClient_QueryDividends(t *testing.T) {
	var query map[string]string
	var auth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = map[string]string{
			"dataset":    r.URL.Query().Get("dataset"),
			"data_id":    r.URL.Query().Get("data_id"),
			"start_date": r.URL.Query().Get("start_date"),
		}
		auth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(dividendBody))
	}))
	defer server.Close()

	since := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	records, err := newTestClient(server, "secret").QueryDividends(context.Background(), "2884", since)
	require.NoError(t, err)

	assert.Equal(t, "TaiwanStockDividend", query["dataset"])
	assert.Equal(t, "2884", query["data_id"])
	assert.Equal(t, "2020-01-01", query["start_date"])
	assert.Equal(t, "Bearer secret", auth)

	require.Len(t, records, 1)
	assert.Equal(t, "2023-07-20", records[0].CashExDividendTradingDate)
	assert.Equal(t, "0.75", records[0].CashPerShare().String())
	assert.Equal(t, "0.46", records[0].StockPerShare().String())
}

func TestClient_QueryDividends_AnonymousHasNoAuthHeader(t *testing.T) {
	var auth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"msg":"success","status":200,"data":[]}`))
	}))
	defer server.Close()

	records, err := newTestClient(server, "").QueryDividends(context.Background(), "2330", time.Now())
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Empty(t, auth)
}

func TestClient_QueryDividends_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{"http status", http.StatusInternalServerError, `oops`, "unexpected status 500"},
		{"envelope status", http.StatusOK, `{"msg":"Your level is register","status":402,"data":[]}`, "finmind error 402"},
		{"malformed", http.StatusOK, `{"data":[`, "decoding response"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := newTestClient(server, "").QueryDividends(context.Background(), "2330", time.Now())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
