// Package justetf fetches ETF prices, by ISIN, from the justETF performance chart API.
package justetf

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

const DefaultBaseURL = "https://www.justetf.com"

// Client is a networth.PriceFetcher for ETFs identified by their ISIN.
type Client struct {
	base   string
	client *http.Client
	logger *zap.Logger
	today  func() date.Date
}

type Option func(*Client)

func WithBaseURL(base string) Option            { return func(c *Client) { c.base = base } }
func WithHTTPClient(client *http.Client) Option { return func(c *Client) { c.client = client } }
func WithLogger(logger *zap.Logger) Option      { return func(c *Client) { c.logger = logger } }

// WithToday sets the end of the requested ranges. Default is date.Today().
func WithToday(today date.Date) Option { return func(c *Client) { c.today = func() date.Date { return today } } }

func New(opts ...Option) *Client {
	c := &Client{
		base:   DefaultBaseURL,
		client: &http.Client{Timeout: 30 * time.Second},
		logger: zap.NewNop(),
		today:  date.Today,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ networth.PriceFetcher = (*Client)(nil)

// chart queries the market values of isin in [from, to].
func (c *Client) chart(ctx context.Context, isin, currency string, from, to date.Date) (any, error) {
	q := url.Values{
		"locale":           {"en"},
		"currency":         {currency},
		"valuesType":       {"MARKET_VALUE"},
		"reduceData":       {"true"},
		"includeDividends": {"false"},
		"features":         {"DIVIDENDS"},
		"dateFrom":         {from.String()},
		"dateTo":           {to.String()},
	}
	addr := fmt.Sprintf("%s/api/etfs/%s/performance-chart?%s", c.base, url.PathEscape(isin), q.Encode())
	var jobj any
	if err := networth.GetJSON(ctx, c.client, addr, &jobj); err != nil {
		return nil, errors.Wrapf(err, "performance chart of %s", isin)
	}
	return jobj, nil
}

// FetchHistory returns the last market value of every month of the last lookbackYears
// years, dated on the month end and rounded to cents.
func (c *Client) FetchHistory(ctx context.Context, isin, currency string, lookbackYears int) (*date.History[decimal.Decimal], error) {
	today := c.today()
	jobj, err := c.chart(ctx, isin, currency, today.AddMonth(-12*lookbackYears), today)
	if err != nil {
		return nil, err
	}
	jval, err := jsonpath.Get("$.series", jobj)
	if err != nil {
		return nil, errors.Wrapf(networth.ErrExternalFetch, "%s: no series: %v", isin, err)
	}
	series, ok := jval.([]any)
	if !ok {
		return nil, errors.Wrapf(networth.ErrExternalFetch, "%s: series is not a list", isin)
	}

	daily := new(date.History[decimal.Decimal])
	for _, point := range series {
		on, err := dateAt(point, "$.date")
		if err != nil {
			return nil, errors.Wrap(err, isin)
		}
		v, err := valueAt(point, "$.value.raw")
		if err != nil {
			return nil, errors.Wrap(err, isin)
		}
		daily.Append(on, v)
	}
	h := networth.MonthEndCloses(daily.Values())
	c.logger.Debug("monthly closes", zap.String("isin", isin), zap.String("currency", currency), zap.Int("points", daily.Len()), zap.Int("closes", h.Len()))
	return h, nil
}

// FetchLatest returns the latest quote over the last month.
func (c *Client) FetchLatest(ctx context.Context, isin, currency string) (networth.Quote, error) {
	today := c.today()
	jobj, err := c.chart(ctx, isin, currency, today.AddMonth(-1), today)
	if err != nil {
		return networth.Quote{}, err
	}
	v, err := valueAt(jobj, "$.latestQuote.raw")
	if err != nil {
		return networth.Quote{}, errors.Wrap(err, isin)
	}
	on, err := dateAt(jobj, "$.latestQuoteDate")
	if err != nil {
		return networth.Quote{}, errors.Wrap(err, isin)
	}
	return networth.Quote{Date: on, Close: v}, nil
}

func valueAt(jobj any, path string) (decimal.Decimal, error) {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return decimal.Zero, errors.Wrapf(networth.ErrExternalFetch, "parsing %q: %v", path, err)
	}
	v, ok := jval.(float64)
	if !ok {
		return decimal.Zero, errors.Wrapf(networth.ErrExternalFetch, "parsing %q: not a number: %v", path, jval)
	}
	return decimal.NewFromFloat(v), nil
}

func dateAt(jobj any, path string) (date.Date, error) {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return date.Date{}, errors.Wrapf(networth.ErrExternalFetch, "parsing %q: %v", path, err)
	}
	s, ok := jval.(string)
	if !ok {
		return date.Date{}, errors.Wrapf(networth.ErrExternalFetch, "parsing %q: not a string: %v", path, jval)
	}
	on, err := date.Parse(s)
	if err != nil {
		return date.Date{}, errors.Wrapf(networth.ErrExternalFetch, "parsing %q: %v", path, err)
	}
	return on, nil
}
