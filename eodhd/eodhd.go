// Package eodhd fetches prices from the EOD Historical Data API (https://eodhd.com).
//
// It serves both asset classes: cryptocurrencies are quoted on the virtual CC
// exchange, ETFs are found by ISIN in the ticker list of an exchange.
package eodhd

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/etnz/networth"
	"github.com/etnz/networth/date"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	DefaultBaseURL = "https://eodhd.com/api"
	// DefaultExchange is where ISINs are looked up, see https://eodhd.com/financial-apis/covered-tickers-eodhd
	DefaultExchange = "XETRA"
)

// Client is a networth.PriceFetcher backed by the EODHD API.
type Client struct {
	key      string
	base     string
	exchange string
	client   *http.Client
	logger   *zap.Logger
	today    func() date.Date
	loc      *time.Location

	mu      sync.Mutex
	tickers map[string]string // ISIN -> ticker
}

type Option func(*Client)

func WithBaseURL(base string) Option            { return func(c *Client) { c.base = base } }
func WithHTTPClient(client *http.Client) Option { return func(c *Client) { c.client = client } }
func WithLogger(logger *zap.Logger) Option      { return func(c *Client) { c.logger = logger } }
func WithExchange(exchange string) Option       { return func(c *Client) { c.exchange = exchange } }

// WithLocation sets where real time quote dates are read, the location of date.Today.
// Default is time.Local.
func WithLocation(loc *time.Location) Option { return func(c *Client) { c.loc = loc } }

// WithToday sets the end of the requested ranges. Default is date.Today().
func WithToday(today date.Date) Option { return func(c *Client) { c.today = func() date.Date { return today } } }

// New returns a client authenticated with an API key.
func New(key string, opts ...Option) (*Client, error) {
	if key == "" {
		return nil, errors.Wrap(networth.ErrConfiguration, "missing eodhd api key")
	}
	c := &Client{
		key:      key,
		base:     DefaultBaseURL,
		exchange: DefaultExchange,
		client:   &http.Client{Timeout: 30 * time.Second},
		logger:   zap.NewNop(),
		today:    date.Today,
		loc:      time.Local,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

var _ networth.PriceFetcher = (*Client)(nil)

var isinPattern = regexp.MustCompile(`^[A-Z]{2}[A-Z0-9]{9}[0-9]$`)

// Ticker returns the EODHD ticker of a symbol quoted in currency.
//
// A symbol with an exchange suffix, like "VWCE.XETRA", is already a ticker. An ISIN
// is looked up in the exchange ticker list. Anything else is a cryptocurrency pair on
// the CC exchange, like "BTC-EUR.CC".
func (c *Client) Ticker(ctx context.Context, symbol, currency string) (string, error) {
	switch {
	case strings.Contains(symbol, "."):
		return symbol, nil
	case isinPattern.MatchString(symbol):
		return c.lookup(ctx, symbol)
	default:
		return fmt.Sprintf("%s-%s.CC", symbol, currency), nil
	}
}

// tickerInfo is one item of the exchange-symbol-list endpoint.
type tickerInfo struct {
	Code     string `json:"Code"`
	Name     string `json:"Name"`
	Exchange string `json:"Exchange"`
	Currency string `json:"Currency"`
	Isin     string `json:"Isin"`
}

// lookup finds the ticker of isin on the client's exchange. The ticker list is
// fetched once.
func (c *Client) lookup(ctx context.Context, isin string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.tickers == nil {
		addr := fmt.Sprintf("%s/exchange-symbol-list/%s?%s", c.base, url.PathEscape(c.exchange), c.query(nil).Encode())
		var content []tickerInfo
		if err := networth.GetJSON(ctx, c.client, addr, &content); err != nil {
			return "", errors.Wrapf(err, "tickers of exchange %s", c.exchange)
		}
		c.tickers = make(map[string]string, len(content))
		for _, t := range content {
			if t.Isin != "" {
				// t.Exchange is the physical place, the API speaks of the virtual one.
				c.tickers[t.Isin] = t.Code + "." + c.exchange
			}
		}
		c.logger.Debug("exchange tickers", zap.String("exchange", c.exchange), zap.Int("tickers", len(c.tickers)))
	}
	ticker, ok := c.tickers[isin]
	if !ok {
		return "", errors.Wrapf(networth.ErrExternalFetch, "%s is not traded on eodhd exchange %s", isin, c.exchange)
	}
	return ticker, nil
}

func (c *Client) query(extra url.Values) url.Values {
	q := url.Values{"fmt": {"json"}, "api_token": {c.key}}
	for k, v := range extra {
		q[k] = v
	}
	return q
}

// FetchHistory returns the monthly closes of the last lookbackYears years, dated on
// the month end and rounded to cents.
func (c *Client) FetchHistory(ctx context.Context, symbol, currency string, lookbackYears int) (*date.History[decimal.Decimal], error) {
	ticker, err := c.Ticker(ctx, symbol, currency)
	if err != nil {
		return nil, err
	}
	today := c.today()
	q := c.query(url.Values{
		"period": {"m"},
		"from":   {today.AddMonth(-12 * lookbackYears).String()},
		"to":     {today.String()},
	})
	addr := fmt.Sprintf("%s/eod/%s?%s", c.base, url.PathEscape(ticker), q.Encode())

	// [{"date": "2024-02-01", "open": 675.066, "high": 684.219, "low": 648.659,
	//   "close": 668.445, "adjusted_close": 67.705, "volume": 0}, ...]
	type bar struct {
		Date  date.Date       `json:"date"`
		Close decimal.Decimal `json:"close"`
	}
	var content []bar
	if err := networth.GetJSON(ctx, c.client, addr, &content); err != nil {
		return nil, errors.Wrapf(err, "monthly prices of %s", ticker)
	}
	points := func(yield func(date.Date, decimal.Decimal) bool) {
		for _, b := range content {
			if !yield(b.Date, b.Close) {
				return
			}
		}
	}
	h := networth.MonthEndCloses(points)
	c.logger.Debug("monthly closes", zap.String("ticker", ticker), zap.Int("closes", h.Len()))
	return h, nil
}

// FetchLatest returns the real time (delayed) close.
func (c *Client) FetchLatest(ctx context.Context, symbol, currency string) (networth.Quote, error) {
	ticker, err := c.Ticker(ctx, symbol, currency)
	if err != nil {
		return networth.Quote{}, err
	}
	addr := fmt.Sprintf("%s/real-time/%s?%s", c.base, url.PathEscape(ticker), c.query(nil).Encode())

	// {"code": "BTC-EUR.CC", "timestamp": 1710079200, "close": 63412.5, ...}
	var content struct {
		Timestamp int64           `json:"timestamp"`
		Close     decimal.Decimal `json:"close"`
	}
	if err := networth.GetJSON(ctx, c.client, addr, &content); err != nil {
		return networth.Quote{}, errors.Wrapf(err, "real time price of %s", ticker)
	}
	if content.Timestamp == 0 {
		return networth.Quote{}, errors.Wrapf(networth.ErrExternalFetch, "no real time price for %s", ticker)
	}
	return networth.Quote{
		Date:  date.Of(time.Unix(content.Timestamp, 0).In(c.loc)),
		Close: content.Close,
	}, nil
}
