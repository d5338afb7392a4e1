package networth

import (
	"time"

	"github.com/etnz/networth/date"
	"github.com/pkg/errors"
)

// CashflowRow is the cash accounting of one period.
//
// Savings is Incomes + Liabilities (liabilities are negative). Investments is the sum of
// the Transfer/Invest records, usually negative since the money leaves the accounts.
// Liquidity is what is left on the accounts at Date.
type CashflowRow struct {
	Date        date.Date
	Incomes     Money
	Liabilities Money
	Savings     Money
	SavingRate  Percent
	Investments Money
	Liquidity   Money

	// Init marks the opening row built from the init snapshot. Incomes, Liabilities
	// and SavingRate do not apply to it.
	Init bool
	// Current marks the row of the month in progress.
	Current bool
}

// newCashflowRow computes the savings and saving rate of a period.
// The saving rate is Undefined when there is no income.
func newCashflowRow(on date.Date, incomes, liabilities, investments Quantity, cur string) CashflowRow {
	row := CashflowRow{
		Date:        on,
		Incomes:     M(incomes.Decimal(), cur),
		Liabilities: M(liabilities.Decimal(), cur),
		Investments: M(investments.Decimal(), cur),
	}
	row.Savings = row.Incomes.Add(row.Liabilities)
	row.SavingRate, _ = row.Savings.Ratio(row.Incomes)
	return row
}

// Cashflow is the monthly cash accounting of a reporting year: the init row followed by
// one row per month end up to the reporting cutoff.
type Cashflow struct {
	Currency string
	Rows     []CashflowRow
}

// Last returns the last row, the init row if no month is closed yet.
func (c *Cashflow) Last() CashflowRow { return c.Rows[len(c.Rows)-1] }

// Dates returns the date of every row.
func (c *Cashflow) Dates() []date.Date {
	dates := make([]date.Date, 0, len(c.Rows))
	for _, r := range c.Rows {
		dates = append(dates, r.Date)
	}
	return dates
}

// Liquidity returns the liquidity series.
func (c *Cashflow) Liquidity() *date.History[Money] {
	h := new(date.History[Money])
	for _, r := range c.Rows {
		h.Append(r.Date, r.Liquidity)
	}
	return h
}

// ComputeMonthlyCashflow computes the cashflow of the year opened by snap, from
// January to cutoff.
//
// Records outside [Jan 1, cutoff] are ignored. Every month end of the range gets a row,
// months without records are zero. Liquidity is the cumulative sum of savings, starting
// with the init liquidity, minus the cumulative sum of the absolute investment transfers.
func ComputeMonthlyCashflow(records Records, snap *Snapshot, cutoff date.Date) (*Cashflow, error) {
	if snap == nil {
		return nil, errors.Wrap(ErrConfiguration, "missing init snapshot")
	}
	year := snap.Year()
	if cutoff.Before(snap.AsOf) || cutoff.Year() > year {
		return nil, errors.Wrapf(ErrConfiguration, "cutoff %s is outside of year %d", cutoff, year)
	}
	cur := snap.Currency
	from := date.New(year, time.January, 1)
	records = records.Between(from, cutoff)
	grid := date.MonthEnds(from, cutoff)

	incomes := aligned(records.Filter(Tagged(Income)), date.Monthly, grid)
	liabilities := aligned(records.Filter(Tagged(Liability)), date.Monthly, grid)
	investments := aligned(records.Filter(Tagged(TransferInvestment)), date.Monthly, grid)

	init := CashflowRow{
		Date:        snap.AsOf,
		Incomes:     M(0, cur),
		Liabilities: M(0, cur),
		Savings:     snap.TotalLiquidity(),
		SavingRate:  Undefined,
		Investments: M(0, cur),
		Init:        true,
	}
	rows := []CashflowRow{init}
	for _, on := range grid {
		in, _ := incomes.Get(on)
		out, _ := liabilities.Get(on)
		inv, _ := investments.Get(on)
		rows = append(rows, newCashflowRow(on, in, out, inv, cur))
	}

	// liquidity = cumsum(savings) - cumsum(|investments|)
	savings, invested := M(0, cur), M(0, cur)
	for i := range rows {
		savings = savings.Add(rows[i].Savings)
		invested = invested.Add(rows[i].Investments.Abs())
		rows[i].Liquidity = savings.Sub(invested)
	}
	return &Cashflow{Currency: cur, Rows: rows}, nil
}

// ComputeCurrentCashflow computes the row of the month in progress, from the first of
// today's month to today, on top of last, the last closed row.
//
// Its Investments is last.Investments plus this month's investment transfers, and its
// Liquidity is last.Liquidity plus this month's savings minus the absolute value of this
// month's investment transfers.
func ComputeCurrentCashflow(records Records, last CashflowRow, today date.Date) CashflowRow {
	cur := last.Liquidity.Currency()
	today, first := date.CurrentWindow(today)
	records = records.Between(first, today)

	in := total(records.Filter(Tagged(Income)))
	out := total(records.Filter(Tagged(Liability)))
	inv := total(records.Filter(Tagged(TransferInvestment)))

	row := newCashflowRow(today, in, out, inv, cur)
	row.Investments = last.Investments.Add(M(inv.Decimal(), cur))
	row.Liquidity = last.Liquidity.Add(row.Savings).Sub(M(inv.Decimal(), cur).Abs())
	row.Current = true
	return row
}
