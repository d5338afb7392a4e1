// Package yahoo fetches cryptocurrency prices from the Yahoo Finance chart API.
package yahoo

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/networth"
	"github.com/etnz/networth/date"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DefaultBaseURL is the public chart API host.
const DefaultBaseURL = "https://query1.finance.yahoo.com"

// Client is a networth.PriceFetcher for symbols quoted as <SYMBOL>-<CURRENCY> pairs,
// like BTC-EUR.
type Client struct {
	base   string
	client *http.Client
	logger *zap.Logger
	loc    *time.Location
}

type Option func(*Client)

func WithBaseURL(base string) Option            { return func(c *Client) { c.base = base } }
func WithHTTPClient(client *http.Client) Option { return func(c *Client) { c.client = client } }
func WithLogger(logger *zap.Logger) Option      { return func(c *Client) { c.logger = logger } }

// WithLocation sets where live quote dates are read, the location of date.Today.
// Default is time.Local.
func WithLocation(loc *time.Location) Option { return func(c *Client) { c.loc = loc } }

// New returns a client of the public API.
func New(opts ...Option) *Client {
	c := &Client{
		base:   DefaultBaseURL,
		client: &http.Client{Timeout: 30 * time.Second},
		logger: zap.NewNop(),
		loc:    time.Local,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ networth.PriceFetcher = (*Client)(nil)

func (c *Client) chart(ctx context.Context, symbol, currency, rng, interval string) (any, error) {
	addr := fmt.Sprintf("%s/v8/finance/chart/%s-%s?%s", c.base,
		url.PathEscape(symbol), url.PathEscape(currency),
		url.Values{"range": {rng}, "interval": {interval}}.Encode())
	var jobj any
	if err := networth.GetJSON(ctx, c.client, addr, &jobj); err != nil {
		return nil, errors.Wrapf(err, "chart of %s-%s", symbol, currency)
	}
	return jobj, nil
}

// FetchHistory returns the monthly closes of the last lookbackYears years, one per
// month, dated on the month end and rounded to cents. Months without a close are
// left out.
func (c *Client) FetchHistory(ctx context.Context, symbol, currency string, lookbackYears int) (*date.History[decimal.Decimal], error) {
	jobj, err := c.chart(ctx, symbol, currency, fmt.Sprintf("%dy", lookbackYears), "1mo")
	if err != nil {
		return nil, err
	}
	timestamps, err := list(jobj, "$.chart.result[0].timestamp")
	if err != nil {
		return nil, err
	}
	closes, err := list(jobj, "$.chart.result[0].indicators.quote[0].close")
	if err != nil {
		return nil, err
	}
	if len(timestamps) != len(closes) {
		return nil, errors.Wrapf(networth.ErrExternalFetch, "%s-%s: %d timestamps for %d closes", symbol, currency, len(timestamps), len(closes))
	}

	points := func(yield func(date.Date, decimal.Decimal) bool) {
		for i, ts := range timestamps {
			sec, ok := ts.(float64)
			v, hasClose := closes[i].(float64)
			if !ok || !hasClose {
				c.logger.Debug("no close", zap.String("symbol", symbol), zap.Any("timestamp", ts))
				continue
			}
			if !yield(unixDate(int64(sec)), decimal.NewFromFloat(v)) {
				return
			}
		}
	}
	h := networth.MonthEndCloses(points)
	c.logger.Debug("monthly closes", zap.String("symbol", symbol), zap.String("currency", currency), zap.Int("closes", h.Len()))
	return h, nil
}

// FetchLatest returns the regular market price and its date.
func (c *Client) FetchLatest(ctx context.Context, symbol, currency string) (networth.Quote, error) {
	jobj, err := c.chart(ctx, symbol, currency, "1d", "1d")
	if err != nil {
		return networth.Quote{}, err
	}
	price, err := number(jobj, "$.chart.result[0].meta.regularMarketPrice")
	if err != nil {
		return networth.Quote{}, err
	}
	sec, err := number(jobj, "$.chart.result[0].meta.regularMarketTime")
	if err != nil {
		return networth.Quote{}, err
	}
	on := date.Of(time.Unix(int64(sec), 0).In(c.loc))
	return networth.Quote{Date: on, Close: decimal.NewFromFloat(price)}, nil
}

// unixDate returns the UTC date of a unix timestamp.
func unixDate(sec int64) date.Date { return date.Of(time.Unix(sec, 0).UTC()) }

func list(jobj any, path string) ([]any, error) {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return nil, errors.Wrapf(networth.ErrExternalFetch, "parsing %q: %v", path, err)
	}
	l, ok := jval.([]any)
	if !ok {
		return nil, errors.Wrapf(networth.ErrExternalFetch, "parsing %q: not a list: %v", path, jval)
	}
	return l, nil
}

func number(jobj any, path string) (float64, error) {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return 0, errors.Wrapf(networth.ErrExternalFetch, "parsing %q: %v", path, err)
	}
	v, ok := jval.(float64)
	if !ok {
		return 0, errors.Wrapf(networth.ErrExternalFetch, "parsing %q: not a number: %v", path, jval)
	}
	return v, nil
}
