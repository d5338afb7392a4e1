package networth

import (
	"context"
	"testing"

	"github.com/etnz/networth/date"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// writeYear writes a small 2024 data root: 1000 EUR on a bank account and 10 X ETF
// shares on Dec 31, a salary, some groceries and 5 more X shares in january, a little
// activity in march.
func writeYear(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, SnapshotFile(root, 2024), `{"liquidity_eur": {"Bank": 1000}, "assets": {"ETFs": {"X": 10}}}`)
	cashflow := "Date,Type,Category,Subcategory,Coin,Qty,Description\n"
	writeFile(t, PeriodFile(root, CashflowKind, 2024, 1)+".csv", cashflow+
		"2024-01-05,Bank,Salary,,EUR,500,\n"+
		"2024-01-10,Bank,Food,Groceries,EUR,-200,\n"+
		"2024-01-20,Bank,Transfer,Invest,EUR,-100,buy X\n")
	writeFile(t, PeriodFile(root, CashflowKind, 2024, 3)+".csv", cashflow+
		"2024-03-02,Bank,Salary,,EUR,80,\n"+
		"2024-03-03,Bank,Food,Groceries,EUR,-30,\n")
	writeFile(t, PeriodFile(root, InvestmentsKind, 2024, 1)+".csv",
		"Date,Type,Category,Subcategory,Symbol,Qty,Description\n2024-01-15,ETFs,Buy,,X,5,\n")
	return root
}

func xFetcher() *fakeFetcher {
	return &fakeFetcher{
		history: map[string]*date.History[decimal.Decimal]{
			"X-EUR": closes("2023-12-31", 20.0, "2024-01-31", 21.0, "2024-02-29", 22.0),
		},
		latest: map[string]Quote{"X-EUR": {Date: day("2024-03-08"), Close: decimal.RequireFromString("22.004")}},
	}
}

func TestAnalyzer_NetWorthSeries(t *testing.T) {
	ctx := context.Background()
	root := writeYear(t)
	f := xFetcher()
	a, err := NewAnalyzer(root, 2024,
		WithToday(day("2024-03-10")),
		WithFetchers(Fetchers{ETFs: f}),
		WithLogger(zap.NewNop()))
	require.NoError(t, err)
	assert.Equal(t, day("2024-02-29"), a.Cutoff())
	assert.True(t, a.IsRunningYear())

	rows, err := a.ComputeNetWorthSeries(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 4)

	tests := []struct {
		on          string
		liquidity   float64
		investments float64
		networth    float64
	}{
		{"2023-12-31", 1000, 200, 1200},
		{"2024-01-31", 1200, 315, 1515},
		{"2024-02-29", 1200, 330, 1530},
		{"2024-03-10", 1250, 330, 1580},
	}
	for i, tt := range tests {
		t.Run(tt.on, func(t *testing.T) {
			row := rows[i]
			assert.Equal(t, day(tt.on), row.Date)
			assert.True(t, row.Liquidity.Equal(EUR(tt.liquidity)), "liquidity %v", row.Liquidity)
			assert.True(t, row.Investments.Equal(EUR(tt.investments)), "investments %v", row.Investments)
			assert.True(t, row.NetWorth.Equal(EUR(tt.networth)), "net worth %v", row.NetWorth)
			assert.False(t, row.Partial())
		})
	}
	assert.True(t, rows[3].Current)

	// prices are fetched once per analyzer, and cached on disk.
	calls := f.calls
	_, err = a.ComputeNetWorthSeries(ctx)
	require.NoError(t, err)
	assert.Equal(t, calls, f.calls)

	cached, err := NewPriceCache(root, nil).Load(2024, "X", "EUR")
	require.NoError(t, err)
	assert.Equal(t, 3, cached.Len())
}

func TestAnalyzer_Cashflow(t *testing.T) {
	a, err := NewAnalyzer(writeYear(t), 2024, WithToday(day("2024-03-10")))
	require.NoError(t, err)

	cf, err := a.ComputeMonthlyCashflow()
	require.NoError(t, err)
	require.Len(t, cf.Rows, 3)
	assert.True(t, cf.Rows[1].SavingRate.Equal(P(0.6)))

	current, err := a.ComputeCurrentCashflow()
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.True(t, current.Liquidity.Equal(EUR(1250)))

	b := a.ComputeBalances(a.Today())
	assert.True(t, b.Total.Equal(EUR(1250)))

	expenses := a.ComputeExpenses(date.YearToCutoff(2024, a.Today()))
	require.Len(t, expenses, 1)
	assert.True(t, expenses[0].Amount.Equal(EUR(200)))
}

func TestAnalyzer_PastYear(t *testing.T) {
	ctx := context.Background()
	a, err := NewAnalyzer(writeYear(t), 2024,
		WithToday(day("2025-06-01")),
		WithFetchers(Fetchers{ETFs: xFetcher()}))
	require.NoError(t, err)
	assert.Equal(t, day("2024-12-31"), a.Cutoff())

	current, err := a.ComputeCurrentDayNetWorthRow(ctx)
	require.NoError(t, err)
	assert.Nil(t, current)

	rows, err := a.ComputeNetWorthSeries(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 13)
	// no close after february: the investments are missing from the total.
	dec := rows[12]
	assert.True(t, dec.Partial())
	assert.Equal(t, []string{"ETFs/X"}, dec.Missing)
	assert.True(t, dec.NetWorth.Equal(EUR(1250)), "net worth %v", dec.NetWorth)
}

func TestAnalyzer_Errors(t *testing.T) {
	root := writeYear(t)

	_, err := NewAnalyzer(root, 2025, WithToday(day("2024-03-10")))
	assert.True(t, errors.Is(err, ErrConfiguration), "got %v", err)

	_, err = NewAnalyzer(root, 2023, WithToday(day("2024-03-10")))
	assert.True(t, errors.Is(err, ErrConfiguration), "missing snapshot: got %v", err)

	a, err := NewAnalyzer(root, 2024, WithToday(day("2024-03-10")))
	require.NoError(t, err)
	_, err = a.ComputeNetWorthSeries(context.Background())
	assert.True(t, errors.Is(err, ErrConfiguration), "no fetcher: got %v", err)
}

func TestNewAnalyzerFromRecords(t *testing.T) {
	snap := snapshot2024()
	snap.SetAsset(ETFs, "X", Q(10))
	a, err := NewAnalyzerFromRecords(snap,
		Records{cash("2024-01-05", "A", "Salary", "", 500)},
		Records{trade("2024-01-15", ETFs, "X", 5)},
		WithToday(day("2024-03-10")),
		WithFetchers(Fetchers{ETFs: xFetcher()}))
	require.NoError(t, err)

	totals, err := a.ComputeMonthlyHoldingsTotal(context.Background())
	require.NoError(t, err)
	require.Len(t, totals, 3)
	assert.True(t, totals[2].Value.Equal(EUR(330)))

	cv, err := a.ComputeCurrentValuation(context.Background())
	require.NoError(t, err)
	require.NotNil(t, cv)
	assert.Equal(t, day("2024-03-08"), cv.Date)
	assert.True(t, cv.Value.Equal(EUR(330)), "rounded quote: %v", cv.Value)
	require.Len(t, cv.Rows, 1)
	assert.True(t, cv.Rows[0].Rows[0].Return.Equal(P(0)), "flat since february: %v", cv.Rows[0].Rows[0].Return)
}
