package networth

import (
	"context"
	"iter"

	"github.com/etnz/networth/date"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// Quote is a single dated close.
type Quote struct {
	Date  date.Date
	Close decimal.Decimal
}

// PriceFetcher retrieves prices of a symbol, expressed in currency, from a remote
// source.
type PriceFetcher interface {
	// FetchHistory returns the month end closes of the last lookbackYears years.
	FetchHistory(ctx context.Context, symbol, currency string, lookbackYears int) (*date.History[decimal.Decimal], error)
	// FetchLatest returns the latest known close.
	FetchLatest(ctx context.Context, symbol, currency string) (Quote, error)
}

// Fetchers binds a PriceFetcher to each asset class.
type Fetchers map[AssetClass]PriceFetcher

// For returns the fetcher of class.
func (f Fetchers) For(class AssetClass) (PriceFetcher, error) {
	fetcher, ok := f[class]
	if !ok || fetcher == nil {
		return nil, errors.Wrapf(ErrConfiguration, "no price fetcher for %s", class)
	}
	return fetcher, nil
}

// RoundClose rounds a close to cents.
func RoundClose(v decimal.Decimal) decimal.Decimal { return v.Round(2) }

// MonthEndCloses resamples chronological closes into one close per month, the last of
// the month, dated on the month end and rounded to cents.
func MonthEndCloses(closes iter.Seq2[date.Date, decimal.Decimal]) *date.History[decimal.Decimal] {
	h := new(date.History[decimal.Decimal])
	for on, v := range closes {
		h.Append(date.Monthly.Bucket(on), RoundClose(v))
	}
	return h
}
