package yahoo

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/etnz/networth"
	"github.com/etnz/networth/date"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unix(s string) int64 { return date.MustParse(s).Time().Unix() }

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, networth.UserAgent, r.Header.Get("User-Agent"))
		switch r.URL.Path {
		case "/v8/finance/chart/BTC-EUR":
		case "/v8/finance/chart/BAD-EUR":
			fmt.Fprint(w, `{"chart": {"result": null, "error": {"code": "Not Found"}}}`)
			return
		default:
			http.NotFound(w, r)
			return
		}
		if r.URL.Query().Get("interval") == "1mo" {
			assert.Equal(t, "3y", r.URL.Query().Get("range"))
			fmt.Fprintf(w, `{"chart": {"result": [{
				"meta": {"currency": "EUR"},
				"timestamp": [%d, %d, %d, %d],
				"indicators": {"quote": [{"close": [40000.123, null, 42000.456, 43000]}]}
			}]}}`, unix("2024-01-01"), unix("2024-02-01"), unix("2024-03-01"), unix("2024-03-10"))
			return
		}
		fmt.Fprintf(w, `{"chart": {"result": [{"meta": {"regularMarketPrice": 45123.456, "regularMarketTime": %d}}]}}`,
			unix("2024-03-10")+3600*15)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_FetchHistory(t *testing.T) {
	srv := newServer(t)
	c := New(WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))

	h, err := c.FetchHistory(context.Background(), "BTC", "EUR", 3)
	require.NoError(t, err)

	// january, march (the last close of the month wins), february has no close.
	assert.Equal(t, []date.Date{date.MustParse("2024-01-31"), date.MustParse("2024-03-31")}, h.Days())
	jan, _ := h.Get(date.MustParse("2024-01-31"))
	assert.True(t, jan.Equal(decimal.RequireFromString("40000.12")), "jan %v", jan)
	mar, _ := h.Get(date.MustParse("2024-03-31"))
	assert.True(t, mar.Equal(decimal.NewFromInt(43000)), "mar %v", mar)
}

func TestClient_FetchLatest(t *testing.T) {
	srv := newServer(t)

	// the quote is at 15:00 UTC.
	tests := []struct {
		loc  *time.Location
		want string
	}{
		{time.UTC, "2024-03-10"},
		{time.FixedZone("UTC+10", 10*3600), "2024-03-11"},
	}
	for _, test := range tests {
		t.Run(test.loc.String(), func(t *testing.T) {
			c := New(WithBaseURL(srv.URL), WithHTTPClient(srv.Client()), WithLocation(test.loc))
			q, err := c.FetchLatest(context.Background(), "BTC", "EUR")
			require.NoError(t, err)
			assert.Equal(t, date.MustParse(test.want), q.Date)
			assert.True(t, q.Close.Equal(decimal.RequireFromString("45123.456")))
		})
	}
}

func TestClient_Errors(t *testing.T) {
	srv := newServer(t)
	c := New(WithBaseURL(srv.URL), WithHTTPClient(&http.Client{Timeout: time.Second}))

	tests := []struct {
		name  string
		fetch func() error
	}{
		{"unknown symbol", func() error {
			_, err := c.FetchLatest(context.Background(), "ETH", "EUR")
			return err
		}},
		{"no result", func() error {
			_, err := c.FetchHistory(context.Background(), "BAD", "EUR", 3)
			return err
		}},
		{"no meta", func() error {
			_, err := c.FetchLatest(context.Background(), "BAD", "EUR")
			return err
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.fetch()
			assert.True(t, errors.Is(err, networth.ErrExternalFetch), "got %v", err)
		})
	}
}
