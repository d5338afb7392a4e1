package networth

import (
	"context"
	"sync"

	"github.com/etnz/networth/date"
	"github.com/shopspring/decimal"
)

// EUR is a helper for test to create euro money from const
func EUR(v float64) Money { return M(v, "EUR") }

// day is a helper for test to create a date.
func day(s string) date.Date { return date.MustParse(s) }

// cash is a helper for test to create a cashflow record.
func cash(on, account, category, subcategory string, qty float64) Record {
	return Record{Date: day(on), Type: account, Category: category, Subcategory: subcategory, Quantity: Q(qty)}
}

// trade is a helper for test to create an investment record.
func trade(on string, class AssetClass, symbol string, qty float64) Record {
	return Record{Date: day(on), Type: class.String(), Category: "Buy", Symbol: symbol, Quantity: Q(qty)}
}

// closes is a helper for test to create a price series from "date", value pairs.
func closes(points ...any) *date.History[decimal.Decimal] {
	h := new(date.History[decimal.Decimal])
	for i := 0; i+1 < len(points); i += 2 {
		h.Append(day(points[i].(string)), decimal.NewFromFloat(points[i+1].(float64)))
	}
	return h
}

// fakeFetcher is an in memory PriceFetcher that counts its calls.
type fakeFetcher struct {
	mu       sync.Mutex
	history  map[string]*date.History[decimal.Decimal]
	latest   map[string]Quote
	err      error
	calls    int
	lookback []int
}

func (f *fakeFetcher) FetchHistory(ctx context.Context, symbol, currency string, lookbackYears int) (*date.History[decimal.Decimal], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lookback = append(f.lookback, lookbackYears)
	if f.err != nil {
		return nil, f.err
	}
	h, ok := f.history[symbol+"-"+currency]
	if !ok {
		return nil, ErrExternalFetch
	}
	return h, nil
}

func (f *fakeFetcher) FetchLatest(ctx context.Context, symbol, currency string) (Quote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return Quote{}, f.err
	}
	q, ok := f.latest[symbol+"-"+currency]
	if !ok {
		return Quote{}, ErrExternalFetch
	}
	return q, nil
}
