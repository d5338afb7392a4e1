package networth

import "github.com/etnz/networth/date"

// NetWorthRow is the net worth at a date.
type NetWorthRow struct {
	Date          date.Date
	Liquidity     Money
	Investments   Money
	NetWorth      Money // Liquidity + Investments
	Change        Money // NetWorth - previous row NetWorth
	ChangePercent Percent

	// Missing lists the symbols left out of Investments, see Total.
	Missing []string
	// Current marks the row of today, after the closed months.
	Current bool
}

// Partial reports whether some investments could not be valued.
func (r NetWorthRow) Partial() bool { return len(r.Missing) > 0 }

// CurrentNetWorthRow computes today's row from the last closed liquidity, the savings
// and investment transfers of the month so far, and the current value of investments.
func CurrentNetWorthRow(lastLiquidity, monthSavings, monthInvestments, investments Money, today date.Date) NetWorthRow {
	liquidity := lastLiquidity.Add(monthSavings).Sub(monthInvestments.Abs())
	return NetWorthRow{
		Date:        today,
		Liquidity:   liquidity,
		Investments: investments,
		NetWorth:    liquidity.Add(investments),
		Current:     true,
	}
}

// ComposeNetWorth computes the net worth on every cashflow date, from its liquidity and
// the investment total at the same date. A date without a total counts no investment.
//
// current, when not nil, is appended before the changes are computed, so that its
// change is relative to the last closed month.
func ComposeNetWorth(cf *Cashflow, totals []Total, current *NetWorthRow) []NetWorthRow {
	byDate := make(map[date.Date]Total, len(totals))
	for _, t := range totals {
		byDate[t.Date] = t
	}

	rows := make([]NetWorthRow, 0, len(cf.Rows)+1)
	for _, c := range cf.Rows {
		row := NetWorthRow{Date: c.Date, Liquidity: c.Liquidity, Investments: M(0, cf.Currency)}
		if t, ok := byDate[c.Date]; ok {
			row.Investments = t.Value
			row.Missing = t.Missing
		}
		row.NetWorth = row.Liquidity.Add(row.Investments)
		rows = append(rows, row)
	}
	if current != nil {
		rows = append(rows, *current)
	}

	for i := range rows {
		if i == 0 {
			rows[i].Change = M(0, cf.Currency)
			rows[i].ChangePercent = Undefined
			continue
		}
		// relative to the previous row, undefined when it is zero.
		prev := rows[i-1].NetWorth
		rows[i].Change = rows[i].NetWorth.Sub(prev)
		rows[i].ChangePercent, _ = rows[i].Change.Ratio(prev)
	}
	return rows
}
