package justetf

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/etnz/networth"
	"github.com/etnz/networth/date"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const isin = "IE00B4L5Y983"

func newClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(WithBaseURL(srv.URL), WithHTTPClient(srv.Client()), WithToday(date.MustParse("2024-03-10")))
}

func TestClient_FetchHistory(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/etfs/"+isin+"/performance-chart", r.URL.Path)
		assert.Equal(t, "EUR", r.URL.Query().Get("currency"))
		assert.Equal(t, "2021-03-10", r.URL.Query().Get("dateFrom"))
		assert.Equal(t, "2024-03-10", r.URL.Query().Get("dateTo"))
		assert.Equal(t, "MARKET_VALUE", r.URL.Query().Get("valuesType"))
		fmt.Fprint(w, `{"series": [
			{"date": "2024-01-30", "value": {"raw": 80.111, "localized": "80.11"}},
			{"date": "2024-01-31", "value": {"raw": 81.234, "localized": "81.23"}},
			{"date": "2024-02-28", "value": {"raw": 83.5}},
			{"date": "2024-03-08", "value": {"raw": 84.004}}
		]}`)
	})

	h, err := c.FetchHistory(context.Background(), isin, "EUR", 3)
	require.NoError(t, err)

	tests := []struct {
		on   string
		want string
	}{
		{"2024-01-31", "81.23"},
		{"2024-02-29", "83.5"},
		{"2024-03-31", "84"},
	}
	require.Equal(t, len(tests), h.Len())
	for _, tt := range tests {
		t.Run(tt.on, func(t *testing.T) {
			v, ok := h.Get(date.MustParse(tt.on))
			require.True(t, ok)
			assert.True(t, v.Equal(decimal.RequireFromString(tt.want)), "got %v", v)
		})
	}
}

func TestClient_FetchLatest(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2024-02-10", r.URL.Query().Get("dateFrom"))
		fmt.Fprint(w, `{"latestQuote": {"raw": 84.56, "localized": "84.56"}, "latestQuoteDate": "2024-03-08", "series": []}`)
	})

	q, err := c.FetchLatest(context.Background(), isin, "EUR")
	require.NoError(t, err)
	assert.Equal(t, date.MustParse("2024-03-08"), q.Date)
	assert.True(t, q.Close.Equal(decimal.RequireFromString("84.56")))
}

func TestClient_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
		code int
	}{
		{"status", `{}`, http.StatusTooManyRequests},
		{"no series", `{"latestQuote": null}`, http.StatusOK},
		{"bad date", `{"series": [{"date": "yesterday", "value": {"raw": 1}}], "latestQuoteDate": "yesterday", "latestQuote": {"raw": 1}}`, http.StatusOK},
		{"bad value", `{"series": [{"date": "2024-01-02", "value": {"raw": "1"}}], "latestQuoteDate": "2024-01-02", "latestQuote": {"raw": "1"}}`, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.code)
				fmt.Fprint(w, tt.body)
			})
			_, err := c.FetchHistory(context.Background(), isin, "EUR", 1)
			assert.True(t, errors.Is(err, networth.ErrExternalFetch), "history: got %v", err)
			_, err = c.FetchLatest(context.Background(), isin, "EUR")
			assert.True(t, errors.Is(err, networth.ErrExternalFetch), "latest: got %v", err)
		})
	}
}
