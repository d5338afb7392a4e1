package networth

import (
	"context"

	"github.com/etnz/networth/date"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Analyzer computes the reports of a reporting year from its init snapshot and records.
//
// Prices are fetched at most once per Analyzer, through the price cache.
type Analyzer struct {
	year     int
	currency string
	today    date.Date
	lookback int
	fetchers Fetchers
	cache    *PriceCache
	logger   *zap.Logger

	snapshot    *Snapshot
	cashflow    Records
	investments Records

	prices Prices
	quotes Quotes
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithCurrency sets the currency of the accounts and of the prices. Default is EUR.
func WithCurrency(currency string) Option { return func(a *Analyzer) { a.currency = currency } }

// WithToday sets the date the reports are computed at. Default is date.Today().
func WithToday(today date.Date) Option { return func(a *Analyzer) { a.today = today } }

// WithLookback sets how many years of prices to fetch when a price cache is missing.
// Default is 5.
func WithLookback(years int) Option { return func(a *Analyzer) { a.lookback = years } }

// WithFetchers sets the price fetcher of each asset class.
func WithFetchers(f Fetchers) Option { return func(a *Analyzer) { a.fetchers = f } }

// WithPriceCache sets the price cache. Default is a cache in the data root.
func WithPriceCache(c *PriceCache) Option { return func(a *Analyzer) { a.cache = c } }

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option { return func(a *Analyzer) { a.logger = logger } }

func newAnalyzer(year int, opts []Option) (*Analyzer, error) {
	a := &Analyzer{
		year:     year,
		currency: "EUR",
		today:    date.Today(),
		lookback: 5,
		fetchers: Fetchers{},
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if err := yearIsReportable(year, a.today); err != nil {
		return nil, err
	}
	return a, nil
}

// NewAnalyzer loads the init snapshot and the cashflow and investments records of year
// from the data root.
func NewAnalyzer(root string, year int, opts ...Option) (*Analyzer, error) {
	a, err := newAnalyzer(year, opts)
	if err != nil {
		return nil, err
	}
	if a.cache == nil {
		a.cache = NewPriceCache(root, a.logger)
	}
	if a.snapshot, err = LoadSnapshot(root, year, a.currency); err != nil {
		return nil, err
	}
	if a.cashflow, err = LoadRecords(root, CashflowKind, year, a.logger); err != nil {
		return nil, err
	}
	if a.investments, err = LoadRecords(root, InvestmentsKind, year, a.logger); err != nil {
		return nil, err
	}
	a.logger.Debug("records loaded",
		zap.Int("year", year),
		zap.Int("cashflow", len(a.cashflow)),
		zap.Int("investments", len(a.investments)))
	return a, nil
}

// NewAnalyzerFromRecords returns an Analyzer over records already in memory.
// Without WithPriceCache, prices are fetched on every call.
func NewAnalyzerFromRecords(snap *Snapshot, cashflow, investments Records, opts ...Option) (*Analyzer, error) {
	if snap == nil {
		return nil, errors.Wrap(ErrConfiguration, "missing init snapshot")
	}
	a, err := newAnalyzer(snap.Year(), opts)
	if err != nil {
		return nil, err
	}
	a.snapshot = snap
	a.currency = snap.Currency
	a.cashflow = append(Records(nil), cashflow...)
	a.investments = append(Records(nil), investments...)
	a.cashflow.Sort()
	a.investments.Sort()
	return a, nil
}

func (a *Analyzer) Year() int           { return a.year }
func (a *Analyzer) Currency() string    { return a.currency }
func (a *Analyzer) Today() date.Date    { return a.today }
func (a *Analyzer) Snapshot() *Snapshot { return a.snapshot }

// Cutoff returns the last date of the closed months of the year.
func (a *Analyzer) Cutoff() date.Date { return date.ReportingCutoff(a.year, a.today) }

// IsRunningYear reports whether the year is in progress, and has a current row.
func (a *Analyzer) IsRunningYear() bool { return a.year == a.today.Year() }

// ComputeMonthlyCashflow returns the cashflow of the closed months of the year.
func (a *Analyzer) ComputeMonthlyCashflow() (*Cashflow, error) {
	return ComputeMonthlyCashflow(a.cashflow, a.snapshot, a.Cutoff())
}

// ComputeCurrentCashflow returns the cashflow of the month in progress, or nil for a
// past year.
func (a *Analyzer) ComputeCurrentCashflow() (*CashflowRow, error) {
	if !a.IsRunningYear() {
		return nil, nil
	}
	cf, err := a.ComputeMonthlyCashflow()
	if err != nil {
		return nil, err
	}
	row := ComputeCurrentCashflow(a.cashflow, cf.Last(), a.today)
	return &row, nil
}

// ComputeMonthlyHoldings returns the quantities held at every closed month end.
func (a *Analyzer) ComputeMonthlyHoldings() (Holdings, error) {
	return ComputeMonthlyHoldings(a.investments, a.snapshot, a.Cutoff())
}

// ComputeCurrentHoldings returns the daily quantities of the month in progress, or nil
// for a past year.
func (a *Analyzer) ComputeCurrentHoldings() (Holdings, error) {
	if !a.IsRunningYear() {
		return nil, nil
	}
	monthly, err := a.ComputeMonthlyHoldings()
	if err != nil {
		return nil, err
	}
	return ComputeCurrentHoldings(a.investments, monthly, a.today)
}

// FetchPrices returns the month end closes of every symbol held in h.
//
// A symbol whose prices cannot be fetched is logged and left out, or kept with the
// closes already cached: its value is then missing from the totals. Only a missing
// fetcher, or a cancelled ctx, is an error.
func (a *Analyzer) FetchPrices(ctx context.Context, h Holdings) (Prices, error) {
	if a.prices != nil {
		return a.prices, nil
	}
	prices := make(Prices)
	for _, class := range h.Classes() {
		fetcher, err := a.fetchers.For(class)
		if err != nil {
			return nil, err
		}
		for _, symbol := range h.Held(class) {
			closes, err := a.history(ctx, fetcher, symbol)
			if err != nil {
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				a.logger.Error("price history unavailable", zap.Stringer("class", class), zap.String("symbol", symbol), zap.Error(err))
			}
			if closes != nil {
				prices.Set(class, symbol, closes)
			}
		}
	}
	a.prices = prices
	return prices, nil
}

// history returns the closes of symbol over the reporting range, through the cache if any.
func (a *Analyzer) history(ctx context.Context, f PriceFetcher, symbol string) (*date.History[decimal.Decimal], error) {
	if a.cache == nil {
		fetched, err := f.FetchHistory(ctx, symbol, a.currency, a.lookback)
		if err != nil {
			return nil, err
		}
		return fetched.Between(date.LastYearEnd(a.year), a.Cutoff()), nil
	}
	return a.cache.History(ctx, f, a.year, symbol, a.currency, a.Cutoff(), a.today, a.lookback)
}

// FetchQuotes returns the live quote of every symbol held today in current.
// Symbols without a quote are logged and left out.
func (a *Analyzer) FetchQuotes(ctx context.Context, current Holdings) (Quotes, error) {
	if a.quotes != nil {
		return a.quotes, nil
	}
	quotes := make(Quotes)
	for _, class := range current.Classes() {
		fetcher, err := a.fetchers.For(class)
		if err != nil {
			return nil, err
		}
		for _, symbol := range current.Symbols(class) {
			if _, q := current.Get(class, symbol).Latest(); q.IsZero() {
				continue
			}
			quote, err := fetcher.FetchLatest(ctx, symbol, a.currency)
			if err != nil {
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				a.logger.Error("live quote unavailable", zap.Stringer("class", class), zap.String("symbol", symbol), zap.Error(err))
				continue
			}
			quote.Close = RoundClose(quote.Close)
			quotes.Set(class, symbol, quote)
		}
	}
	a.quotes = quotes
	return quotes, nil
}

// ComputeMonthlyHoldingsValuation returns the valued holdings of every closed month end.
func (a *Analyzer) ComputeMonthlyHoldingsValuation(ctx context.Context) (Valuation, error) {
	h, err := a.ComputeMonthlyHoldings()
	if err != nil {
		return Valuation{}, err
	}
	prices, err := a.FetchPrices(ctx, h)
	if err != nil {
		return Valuation{}, err
	}
	return ValueHoldings(h, prices, a.currency), nil
}

// ComputeMonthlyHoldingsTotal returns the value of all investments on every closed
// month end, from Dec 31 of the previous year.
func (a *Analyzer) ComputeMonthlyHoldingsTotal(ctx context.Context) ([]Total, error) {
	v, err := a.ComputeMonthlyHoldingsValuation(ctx)
	if err != nil {
		return nil, err
	}
	totals := v.Totals(date.MonthEnds(a.snapshot.AsOf, a.Cutoff()))
	for _, t := range totals {
		if t.Partial() {
			a.logger.Warn("partial investments total", zap.Stringer("date", t.Date), zap.Strings("missing", t.Missing))
		}
	}
	return totals, nil
}

// ComputeCurrentValuation returns the value of the investments today, or nil for a
// past year.
func (a *Analyzer) ComputeCurrentValuation(ctx context.Context) (*CurrentValuation, error) {
	current, err := a.ComputeCurrentHoldings()
	if err != nil || current == nil {
		return nil, err
	}
	quotes, err := a.FetchQuotes(ctx, current)
	if err != nil {
		return nil, err
	}
	monthly, err := a.ComputeMonthlyHoldings()
	if err != nil {
		return nil, err
	}
	prices, err := a.FetchPrices(ctx, monthly)
	if err != nil {
		return nil, err
	}
	cv := ValueCurrent(current, quotes, prices, a.currency, a.today)
	return &cv, nil
}

// ComputeCurrentDayNetWorthRow returns today's net worth row, or nil for a past year.
func (a *Analyzer) ComputeCurrentDayNetWorthRow(ctx context.Context) (*NetWorthRow, error) {
	if !a.IsRunningYear() {
		return nil, nil
	}
	cf, err := a.ComputeMonthlyCashflow()
	if err != nil {
		return nil, err
	}
	last := cf.Last()
	month := ComputeCurrentCashflow(a.cashflow, last, a.today)
	cv, err := a.ComputeCurrentValuation(ctx)
	if err != nil {
		return nil, err
	}
	row := CurrentNetWorthRow(last.Liquidity, month.Savings, month.Investments.Sub(last.Investments), cv.Value, a.today)
	row.Missing = cv.Missing
	return &row, nil
}

// ComputeNetWorthSeries returns the net worth of every closed month end, followed by
// today's row for the running year.
func (a *Analyzer) ComputeNetWorthSeries(ctx context.Context) ([]NetWorthRow, error) {
	cf, err := a.ComputeMonthlyCashflow()
	if err != nil {
		return nil, err
	}
	totals, err := a.ComputeMonthlyHoldingsTotal(ctx)
	if err != nil {
		return nil, err
	}
	current, err := a.ComputeCurrentDayNetWorthRow(ctx)
	if err != nil {
		return nil, err
	}
	return ComposeNetWorth(cf, totals, current), nil
}

// ComputeBalances returns the balance of every account at asOf.
func (a *Analyzer) ComputeBalances(asOf date.Date) Balances {
	return ComputeBalances(a.cashflow, a.snapshot, asOf)
}

// ComputeExpenses returns the expenses of r.
func (a *Analyzer) ComputeExpenses(r date.Range) []Expense {
	return ComputeExpenses(a.cashflow, r, a.currency)
}
