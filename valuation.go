package networth

import (
	"slices"

	"github.com/etnz/networth/date"
	"github.com/shopspring/decimal"
)

// Prices holds the close series of every symbol, per asset class.
type Prices map[AssetClass]map[string]*date.History[decimal.Decimal]

// Set records the close series of a symbol.
func (p Prices) Set(class AssetClass, symbol string, closes *date.History[decimal.Decimal]) {
	if p[class] == nil {
		p[class] = make(map[string]*date.History[decimal.Decimal])
	}
	p[class][symbol] = closes
}

// Quotes holds the live quote of every symbol, per asset class.
type Quotes map[AssetClass]map[string]Quote

// Set records the live quote of a symbol.
func (q Quotes) Set(class AssetClass, symbol string, quote Quote) {
	if q[class] == nil {
		q[class] = make(map[string]Quote)
	}
	q[class][symbol] = quote
}

// Valued is one date of the outer join of a quantity series with a close series.
type Valued struct {
	Date     date.Date
	Quantity Quantity
	Close    Money
	Value    Money // Close × Quantity, zero if a side is missing
	// Return is Close relative to the previous month end close, undefined without one.
	Return Percent

	MissingQuantity bool
	MissingClose    bool
}

// OK reports whether both sides of the join are present.
func (v Valued) OK() bool { return !v.MissingQuantity && !v.MissingClose }

// SymbolValuation is the valued series of one symbol.
type SymbolValuation struct {
	Class  AssetClass
	Symbol string
	Rows   []Valued
}

// Name returns "class/symbol".
func (s SymbolValuation) Name() string { return s.Class.String() + "/" + s.Symbol }

// Row returns the row at on.
func (s SymbolValuation) Row(on date.Date) (Valued, bool) {
	i, found := slices.BinarySearchFunc(s.Rows, on, func(v Valued, on date.Date) int { return v.Date.Compare(on) })
	if !found {
		return Valued{}, false
	}
	return s.Rows[i], true
}

// Valuation is the valued series of every symbol, sorted by class then symbol.
type Valuation struct {
	Currency string
	Symbols  []SymbolValuation
}

// ValueHoldings joins every quantity series of h with the close series of the same
// symbol in prices.
//
// The join is an outer join on dates: a date present on one side only produces a row
// flagged with the missing side, and a zero value.
func ValueHoldings(h Holdings, prices Prices, currency string) Valuation {
	v := Valuation{Currency: currency}
	for _, class := range AssetClasses() {
		for _, symbol := range h.Symbols(class) {
			quantities := h.Get(class, symbol)
			closes := prices[class][symbol]
			if closes == nil {
				closes = new(date.History[decimal.Decimal])
			}
			sv := SymbolValuation{Class: class, Symbol: symbol}
			for on := range date.Union(quantities.Days(), closes.Days()) {
				q, hasQ := quantities.Get(on)
				c, hasC := closes.Get(on)
				row := Valued{
					Date:            on,
					Quantity:        q,
					Close:           M(c, currency),
					Value:           M(0, currency),
					MissingQuantity: !hasQ,
					MissingClose:    !hasC,
				}
				if row.OK() {
					row.Value = row.Close.Mul(q)
				}
				if hasC {
					row.Return = monthReturn(closes, on, c)
				}
				sv.Rows = append(sv.Rows, row)
			}
			v.Symbols = append(v.Symbols, sv)
		}
	}
	return v
}

// monthReturn returns the change of close since the month end before on.
func monthReturn(closes *date.History[decimal.Decimal], on date.Date, price decimal.Decimal) Percent {
	prev, ok := closes.ValueAsOf(on.StartOf(date.Monthly).Add(-1))
	if !ok {
		return Undefined
	}
	r, _ := Ratio(price.Sub(prev), prev)
	return r
}

// Total is the value of all investments at a date.
type Total struct {
	Date  date.Date
	Value Money
	// Missing lists the symbols, as "class/symbol", held at Date but without a value.
	// They are left out of Value.
	Missing []string
}

// Partial reports whether some symbols are missing from the total.
func (t Total) Partial() bool { return len(t.Missing) > 0 }

// Totals sums, for every date of grid, the value of the symbols valued at that date.
//
// A symbol with a quantity but no close at a date is reported missing, unless its
// quantity is zero. A symbol without any quantity at a date is not held and is skipped.
func (v Valuation) Totals(grid []date.Date) []Total {
	totals := make([]Total, 0, len(grid))
	for _, on := range grid {
		t := Total{Date: on, Value: M(0, v.Currency)}
		for _, sv := range v.Symbols {
			row, ok := sv.Row(on)
			switch {
			case !ok || row.MissingQuantity:
				// not held
			case row.OK():
				t.Value = t.Value.Add(row.Value)
			case row.Quantity.IsZero():
				// sold out, worth nothing
			default:
				t.Missing = append(t.Missing, sv.Name())
			}
		}
		totals = append(totals, t)
	}
	return totals
}

// CurrentValuation is the value of all investments today.
type CurrentValuation struct {
	// Date is the latest quote date among the valued symbols, today when none is.
	Date    date.Date
	Value   Money
	Rows    []SymbolValuation // one row per valued symbol
	Missing []string
}

// ValueCurrent joins the live quote of every symbol with its daily quantity series and
// collapses the result into a single value.
//
// A quote is joined with the quantity held on the quote date. Symbols held today
// without a quote, or with a quote dated outside of the current daily series (before
// the first of the month), are reported missing and left out of the value. A quote
// dated after today is valued today. Quotes of different symbols may have different
// dates (an ETF quote stops on the last trading day, a crypto quote does not): all
// valued rows are summed and the result is dated with the latest of them.
//
// The return of a row is its quote relative to the month end close found in prices.
func ValueCurrent(current Holdings, quotes Quotes, prices Prices, currency string, today date.Date) CurrentValuation {
	cv := CurrentValuation{Value: M(0, currency)}
	for _, class := range AssetClasses() {
		for _, symbol := range current.Symbols(class) {
			quantities := current.Get(class, symbol)
			_, held := quantities.Latest()
			quote, hasQuote := quotes[class][symbol]
			var q Quantity
			hasQ := false
			if hasQuote {
				// a provider ahead of the local day dates its quote tomorrow.
				if quote.Date.After(today) {
					quote.Date = today
				}
				q, hasQ = quantities.Get(quote.Date)
			}
			if !hasQuote || !hasQ {
				if !held.IsZero() {
					cv.Missing = append(cv.Missing, class.String()+"/"+symbol)
				}
				continue
			}
			row := Valued{
				Date:     quote.Date,
				Quantity: q,
				Close:    M(quote.Close, currency),
				Return:   Undefined,
			}
			if closes := prices[class][symbol]; closes != nil {
				row.Return = monthReturn(closes, quote.Date, quote.Close)
			}
			row.Value = row.Close.Mul(q)
			cv.Rows = append(cv.Rows, SymbolValuation{Class: class, Symbol: symbol, Rows: []Valued{row}})
			cv.Value = cv.Value.Add(row.Value)
			if row.Date.After(cv.Date) {
				cv.Date = row.Date
			}
		}
	}
	if cv.Date.IsZero() {
		cv.Date = today
	}
	return cv
}
