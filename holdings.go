package networth

import (
	"maps"
	"slices"
	"time"

	"github.com/etnz/networth/date"
	"github.com/pkg/errors"
)

// Holdings is the cumulative quantity series of every symbol, per asset class.
type Holdings map[AssetClass]map[string]*date.History[Quantity]

// Classes returns the asset classes present in h, in display order.
func (h Holdings) Classes() []AssetClass {
	var classes []AssetClass
	for _, c := range AssetClasses() {
		if len(h[c]) > 0 {
			classes = append(classes, c)
		}
	}
	return classes
}

// Symbols returns the sorted symbols of class.
func (h Holdings) Symbols(class AssetClass) []string { return slices.Sorted(maps.Keys(h[class])) }

// Get returns the quantity series of a symbol, or nil.
func (h Holdings) Get(class AssetClass, symbol string) *date.History[Quantity] {
	return h[class][symbol]
}

func (h Holdings) set(class AssetClass, symbol string, series *date.History[Quantity]) {
	if h[class] == nil {
		h[class] = make(map[string]*date.History[Quantity])
	}
	h[class][symbol] = series
}

// Held returns the symbols of class with a non zero quantity at some date.
func (h Holdings) Held(class AssetClass) []string {
	var held []string
	for _, symbol := range h.Symbols(class) {
		for _, q := range h[class][symbol].Values() {
			if !q.IsZero() {
				held = append(held, symbol)
				break
			}
		}
	}
	return held
}

// group splits investment records per asset class and symbol.
func group(records Records) (map[AssetClass]map[string]Records, error) {
	groups := make(map[AssetClass]map[string]Records)
	for _, r := range records {
		class, err := r.AssetClass()
		if err != nil {
			return nil, errors.Wrapf(err, "record of %s %s", r.Date, r.Symbol)
		}
		if groups[class] == nil {
			groups[class] = make(map[string]Records)
		}
		groups[class][r.Symbol] = append(groups[class][r.Symbol], r)
	}
	return groups, nil
}

// ComputeMonthlyHoldings computes the month end quantity of every symbol of the year
// opened by snap, up to cutoff.
//
// The opening quantities become Init records dated Dec 31 of the previous year, so that
// every series starts on that date. Each series has a value on every month end up to
// cutoff: a month without records keeps the quantity of the previous month.
func ComputeMonthlyHoldings(records Records, snap *Snapshot, cutoff date.Date) (Holdings, error) {
	if snap == nil {
		return nil, errors.Wrap(ErrConfiguration, "missing init snapshot")
	}
	from := date.New(snap.Year(), time.January, 1)
	if cutoff.Before(snap.AsOf) {
		return nil, errors.Wrapf(ErrConfiguration, "cutoff %s is before %s", cutoff, snap.AsOf)
	}
	records = append(snap.InitRecords(), records.Between(from, cutoff)...)
	groups, err := group(records)
	if err != nil {
		return nil, err
	}

	grid := date.MonthEnds(snap.AsOf, cutoff)
	h := make(Holdings)
	for class, symbols := range groups {
		for symbol, rs := range symbols {
			h.set(class, symbol, cumulate(aligned(rs, date.Monthly, grid), Quantity{}))
		}
	}
	return h, nil
}

// ComputeCurrentHoldings computes the daily quantity of every symbol from the first of
// today's month to today.
//
// Each series starts from the last quantity of the symbol in monthly. Symbols first
// traded this month start from zero.
func ComputeCurrentHoldings(records Records, monthly Holdings, today date.Date) (Holdings, error) {
	today, first := date.CurrentWindow(today)
	groups, err := group(records.Between(first, today))
	if err != nil {
		return nil, err
	}
	grid := date.Days(first, today)

	h := make(Holdings)
	for class, symbols := range monthly {
		for symbol, series := range symbols {
			_, base := series.Latest()
			h.set(class, symbol, cumulate(aligned(groups[class][symbol], date.Daily, grid), base))
		}
	}
	for class, symbols := range groups {
		for symbol, rs := range symbols {
			if h.Get(class, symbol) != nil {
				continue
			}
			h.set(class, symbol, cumulate(aligned(rs, date.Daily, grid), Quantity{}))
		}
	}
	return h, nil
}
