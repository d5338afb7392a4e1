package networth

import (
	"fmt"
	"testing"

	"github.com/etnz/networth/date"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshot2024() *Snapshot {
	s := NewSnapshot(2024, "EUR")
	s.Liquidity["A"] = EUR(1000)
	return s
}

func TestComputeMonthlyCashflow_January(t *testing.T) {
	records := Records{
		cash("2024-01-05", "A", "Salary", "", 500),
		cash("2024-01-10", "A", "Food", "Groceries", -200),
		cash("2024-01-20", "A", "Transfer", "Invest", -100),
	}
	cf, err := ComputeMonthlyCashflow(records, snapshot2024(), day("2024-01-31"))
	require.NoError(t, err)
	require.Len(t, cf.Rows, 2)

	init := cf.Rows[0]
	assert.True(t, init.Init)
	assert.Equal(t, day("2023-12-31"), init.Date)
	assert.True(t, init.Savings.Equal(EUR(1000)))
	assert.True(t, init.Liquidity.Equal(EUR(1000)))
	assert.False(t, init.SavingRate.IsDefined())

	jan := cf.Rows[1]
	assert.Equal(t, day("2024-01-31"), jan.Date)
	assert.True(t, jan.Incomes.Equal(EUR(500)), "incomes %v", jan.Incomes)
	assert.True(t, jan.Liabilities.Equal(EUR(-200)), "liabilities %v", jan.Liabilities)
	assert.True(t, jan.Savings.Equal(EUR(300)), "savings %v", jan.Savings)
	assert.True(t, jan.SavingRate.Equal(P(0.6)), "saving rate %v", jan.SavingRate)
	assert.True(t, jan.Investments.Equal(EUR(-100)), "investments %v", jan.Investments)
	assert.True(t, jan.Liquidity.Equal(EUR(1200)), "liquidity %v", jan.Liquidity)
}

func TestComputeMonthlyCashflow_ZeroIncome(t *testing.T) {
	records := Records{
		cash("2024-01-05", "A", "Salary", "", 500),
		cash("2024-02-10", "A", "Food", "", -50),
	}
	cf, err := ComputeMonthlyCashflow(records, snapshot2024(), day("2024-03-31"))
	require.NoError(t, err)
	require.Len(t, cf.Rows, 4)

	feb, mar := cf.Rows[2], cf.Rows[3]
	assert.False(t, feb.SavingRate.IsDefined())
	assert.Equal(t, "-", feb.SavingRate.String())
	assert.True(t, feb.Savings.Equal(EUR(-50)))

	// an empty month is present, with zeros.
	assert.Equal(t, day("2024-03-31"), mar.Date)
	assert.True(t, mar.Incomes.IsZero())
	assert.True(t, mar.Savings.IsZero())
	assert.False(t, mar.SavingRate.IsDefined())
	assert.True(t, mar.Liquidity.Equal(feb.Liquidity))
}

func TestComputeMonthlyCashflow_Bounds(t *testing.T) {
	records := Records{
		cash("2023-12-20", "A", "Salary", "", 999), // already in the snapshot
		cash("2024-01-05", "A", "Salary", "", 500),
		cash("2024-02-05", "A", "Salary", "", 500), // after the cutoff
	}
	cf, err := ComputeMonthlyCashflow(records, snapshot2024(), day("2024-01-31"))
	require.NoError(t, err)
	assert.True(t, cf.Last().Liquidity.Equal(EUR(1500)))

	// january of the running year: nothing is closed yet.
	cf, err = ComputeMonthlyCashflow(records, snapshot2024(), day("2023-12-31"))
	require.NoError(t, err)
	require.Len(t, cf.Rows, 1)
	assert.True(t, cf.Last().Init)

	_, err = ComputeMonthlyCashflow(records, snapshot2024(), day("2023-11-30"))
	assert.True(t, errors.Is(err, ErrConfiguration))
	_, err = ComputeMonthlyCashflow(records, snapshot2024(), day("2025-01-31"))
	assert.True(t, errors.Is(err, ErrConfiguration))
	_, err = ComputeMonthlyCashflow(records, nil, day("2024-01-31"))
	assert.True(t, errors.Is(err, ErrConfiguration))
}

func TestComputeMonthlyCashflow_OtherTransfersAreNeutral(t *testing.T) {
	records := Records{
		cash("2024-01-05", "A", "Salary", "", 500),
		cash("2024-01-06", "A", "Transfer", "Savings", -300),
		cash("2024-01-06", "B", "Transfer", "Savings", 300),
	}
	cf, err := ComputeMonthlyCashflow(records, snapshot2024(), day("2024-01-31"))
	require.NoError(t, err)
	jan := cf.Last()
	assert.True(t, jan.Incomes.Equal(EUR(500)))
	assert.True(t, jan.Liabilities.IsZero())
	assert.True(t, jan.Liquidity.Equal(EUR(1500)))
}

// The liquidity of every row is the sum of all savings up to that row minus the sum of
// the absolute investment transfers up to that row.
func TestComputeMonthlyCashflow_LiquidityReconstruction(t *testing.T) {
	snap := snapshot2024()
	snap.Liquidity["B"] = EUR(250.5)

	var records Records
	for m := 1; m <= 12; m++ {
		for d := 1; d <= 28; d += 3 {
			on := fmt.Sprintf("2024-%02d-%02d", m, d)
			amount := float64((m*37+d*11)%400) - 150
			switch d % 4 {
			case 0:
				records = append(records, cash(on, "A", "Transfer", "Invest", -float64(m*d%90)))
			case 1:
				records = append(records, cash(on, "B", "Transfer", "Invest", float64(d)))
			default:
				records = append(records, cash(on, "A", "Misc", "", amount))
			}
		}
	}
	cf, err := ComputeMonthlyCashflow(records, snap, day("2024-12-31"))
	require.NoError(t, err)
	require.Len(t, cf.Rows, 13)

	savings, invested := EUR(0), EUR(0)
	for _, row := range cf.Rows {
		savings = savings.Add(row.Savings)
		invested = invested.Add(row.Investments.Abs())
		assert.True(t, row.Liquidity.Equal(savings.Sub(invested)), "%s: liquidity %v", row.Date, row.Liquidity)
	}

	// the raw records, monthly sums, give the same result.
	var cum, inv Money = snap.TotalLiquidity(), EUR(0)
	for i, row := range cf.Rows[1:] {
		month := records.Filter(func(r Record) bool { return int(r.Date.Month()) == i+1 })
		cum = cum.Add(M(total(month.Filter(Tagged(Income, Liability))).Decimal(), "EUR"))
		inv = inv.Add(M(total(month.Filter(Tagged(TransferInvestment))).Decimal(), "EUR").Abs())
		assert.True(t, row.Liquidity.Equal(cum.Sub(inv)), "%s: liquidity %v", row.Date, row.Liquidity)
	}
}

func TestComputeCurrentCashflow(t *testing.T) {
	last := CashflowRow{Date: day("2024-02-29"), Investments: EUR(-100), Liquidity: EUR(1200)}
	records := Records{
		cash("2024-02-20", "A", "Salary", "", 1000), // closed month
		cash("2024-03-02", "A", "Salary", "", 80),
		cash("2024-03-03", "A", "Food", "", -30),
		cash("2024-03-12", "A", "Food", "", -999), // after today
	}
	row := ComputeCurrentCashflow(records, last, day("2024-03-10"))
	assert.True(t, row.Current)
	assert.Equal(t, day("2024-03-10"), row.Date)
	assert.True(t, row.Incomes.Equal(EUR(80)))
	assert.True(t, row.Liabilities.Equal(EUR(-30)))
	assert.True(t, row.Savings.Equal(EUR(50)))
	assert.True(t, row.Liquidity.Equal(EUR(1250)), "liquidity %v", row.Liquidity)
	assert.True(t, row.Investments.Equal(EUR(-100)))

	records = append(records, cash("2024-03-05", "A", "Transfer", "Invest", -40))
	records.Sort()
	row = ComputeCurrentCashflow(records, last, day("2024-03-10"))
	assert.True(t, row.Investments.Equal(EUR(-140)))
	assert.True(t, row.Liquidity.Equal(EUR(1210)), "liquidity %v", row.Liquidity)
}

func TestComputeBalances(t *testing.T) {
	snap := snapshot2024()
	snap.Liquidity["Cash"] = EUR(20)
	records := Records{
		cash("2024-01-05", "A", "Salary", "", 500.004),
		cash("2024-01-10", "B", "Food", "", -20),
		cash("2024-02-10", "A", "Food", "", -20),
	}
	b := ComputeBalances(records, snap, day("2024-01-31"))
	require.Len(t, b.Accounts, 3)
	assert.Equal(t, "A", b.Accounts[0].Account)
	assert.True(t, b.Accounts[0].Amount.Equal(EUR(1500)), "A = %v", b.Accounts[0].Amount)
	assert.Equal(t, "B", b.Accounts[1].Account)
	assert.True(t, b.Accounts[1].Amount.Equal(EUR(-20)))
	assert.Equal(t, "Cash", b.Accounts[2].Account)
	assert.True(t, b.Accounts[2].Amount.Equal(EUR(20)))
	assert.True(t, b.Total.Equal(EUR(1500)))
}

func TestComputeExpenses(t *testing.T) {
	records := Records{
		cash("2024-01-05", "A", "Salary", "", 500),
		cash("2024-01-06", "A", "Food", "Groceries", -20),
		cash("2024-01-07", "A", "Food", "Groceries", -30),
		cash("2024-01-08", "A", "Food", "Restaurant", -80),
		cash("2024-01-09", "A", "Transfer", "Invest", -100),
		cash("2024-02-09", "A", "Rent", "", -700),
	}
	got := ComputeExpenses(records, date.Range{From: day("2024-01-01"), To: day("2024-01-31")}, "EUR")
	require.Len(t, got, 2)
	assert.Equal(t, "Restaurant", got[0].Subcategory)
	assert.True(t, got[0].Amount.Equal(EUR(80)))
	assert.Equal(t, "Groceries", got[1].Subcategory)
	assert.True(t, got[1].Amount.Equal(EUR(50)))
}
