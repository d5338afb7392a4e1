// Package renderer formats the networth reports as markdown documents.
package renderer

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/etnz/networth"
	"github.com/etnz/networth/date"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/shopspring/decimal"
)

// CashflowMarkdown renders the monthly cashflow, followed by the month in progress
// when current is not nil.
func CashflowMarkdown(year int, cf *networth.Cashflow, current *networth.CashflowRow) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Cashflow %d\n\n", year)

	t := newTable("Month", "Incomes", "Liabilities", "Savings", "Saving rate", "Investments", "Liquidity")
	rows := cf.Rows
	if current != nil {
		rows = append(rows[:len(rows):len(rows)], *current)
	}
	for _, r := range rows {
		if r.Init {
			t.AppendRow(table.Row{monthLabel(r.Date, true, false), "", "", "", "", "", r.Liquidity.String()})
			continue
		}
		t.AppendRow(table.Row{
			monthLabel(r.Date, false, r.Current),
			r.Incomes.String(),
			r.Liabilities.String(),
			r.Savings.SignedString(),
			r.SavingRate.String(),
			r.Investments.String(),
			r.Liquidity.String(),
		})
	}
	b.WriteString(t.RenderMarkdown())
	b.WriteString("\n")
	return b.String()
}

// HoldingsMarkdown renders the value of every symbol on every month end, and the total.
func HoldingsMarkdown(year int, v networth.Valuation, totals []networth.Total) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Holdings %d\n\n", year)

	header := []any{"Month"}
	for _, sv := range v.Symbols {
		header = append(header, sv.Name())
	}
	header = append(header, "Total")
	t := newTable(header...)

	missing := make(map[string][]string)
	var order []string
	for i, total := range totals {
		label := monthLabel(total.Date, i == 0, false)
		row := table.Row{label}
		for _, sv := range v.Symbols {
			row = append(row, cell(sv, total.Date))
		}
		row = append(row, partial(total.Value, total.Missing))
		t.AppendRow(row)
		missing[label] = total.Missing
		order = append(order, label)
	}
	b.WriteString(t.RenderMarkdown())
	b.WriteString("\n")
	writeMissing(&b, missing, order)
	return b.String()
}

// ReturnsMarkdown renders the monthly price return of every symbol, on the dates of
// totals. A return without a previous close is rendered "-".
func ReturnsMarkdown(v networth.Valuation, totals []networth.Total) string {
	var b strings.Builder
	b.WriteString("## Monthly returns\n\n")

	header := []any{"Month"}
	for _, sv := range v.Symbols {
		header = append(header, sv.Name())
	}
	t := newTable(header...)
	for i, total := range totals {
		row := table.Row{monthLabel(total.Date, i == 0, false)}
		for _, sv := range v.Symbols {
			r, ok := sv.Row(total.Date)
			switch {
			case !ok || r.MissingClose:
				row = append(row, "")
			default:
				row = append(row, r.Return.SignedString())
			}
		}
		t.AppendRow(row)
	}
	b.WriteString(t.RenderMarkdown())
	b.WriteString("\n")
	return b.String()
}

// cell renders the value of a symbol at a date: quantity × close, "?" when the close
// is missing, empty when the symbol is not held.
func cell(sv networth.SymbolValuation, on date.Date) string {
	for _, r := range sv.Rows {
		if r.Date != on {
			continue
		}
		switch {
		case r.MissingQuantity:
			return ""
		case r.MissingClose && r.Quantity.IsZero():
			return ""
		case r.MissingClose:
			return r.Quantity.String() + " × ?"
		default:
			return fmt.Sprintf("%s × %s = %s", r.Quantity, r.Close, r.Value)
		}
	}
	return ""
}

// CurrentHoldingsMarkdown renders today's valuation.
func CurrentHoldingsMarkdown(cv *networth.CurrentValuation) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## Today (quotes of %s)\n\n", cv.Date)
	t := newTable("Asset", "Quote date", "Quantity", "Close", "Value", "Since month end")
	for _, sv := range cv.Rows {
		r := sv.Rows[0]
		t.AppendRow(table.Row{sv.Name(), r.Date.String(), r.Quantity.String(), r.Close.String(), r.Value.String(), r.Return.SignedString()})
	}
	t.AppendRow(table.Row{"Total", "", "", "", partial(cv.Value, cv.Missing), ""})
	b.WriteString(t.RenderMarkdown())
	b.WriteString("\n")
	writeMissing(&b, map[string][]string{"today": cv.Missing}, []string{"today"})
	return b.String()
}

// NetWorthMarkdown renders the net worth series.
func NetWorthMarkdown(year int, rows []networth.NetWorthRow) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Net worth %d\n\n", year)

	t := newTable("Month", "Liquidity", "Investments", "Net worth", "Change", "Change %")
	missing := make(map[string][]string)
	var order []string
	for i, r := range rows {
		label := monthLabel(r.Date, i == 0, r.Current)
		t.AppendRow(table.Row{
			label,
			r.Liquidity.String(),
			partial(r.Investments, r.Missing),
			partial(r.NetWorth, r.Missing),
			r.Change.SignedString(),
			r.ChangePercent.SignedString(),
		})
		missing[label] = r.Missing
		order = append(order, label)
	}
	b.WriteString(t.RenderMarkdown())
	b.WriteString("\n")
	writeMissing(&b, missing, order)
	return b.String()
}

// BalancesMarkdown renders the balance of every account.
func BalancesMarkdown(b networth.Balances) string {
	var s strings.Builder
	fmt.Fprintf(&s, "# Balances on %s\n\n", b.AsOf)
	t := newTable("Account", "Balance")
	for _, a := range b.Accounts {
		t.AppendRow(table.Row{a.Account, a.Amount.String()})
	}
	t.AppendRow(table.Row{"Total", b.Total.String()})
	s.WriteString(t.RenderMarkdown())
	s.WriteString("\n")
	return s.String()
}

// ExpensesMarkdown renders the expenses of r, largest first, with their share of the
// total.
func ExpensesMarkdown(r date.Range, expenses []networth.Expense, currency string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Expenses %s\n\n", r.Identifier())

	amounts := make([]networth.Money, 0, len(expenses))
	for _, e := range expenses {
		amounts = append(amounts, e.Amount)
	}
	total := networth.Sum(currency, amounts...)

	t := newTable("Category", "Subcategory", "Amount", "Share")
	for _, e := range expenses {
		share, _ := e.Amount.Ratio(total)
		t.AppendRow(table.Row{e.Category, e.Subcategory, e.Amount.String(), share.String()})
	}
	t.AppendRow(table.Row{"Total", "", total.String(), ""})
	b.WriteString(t.RenderMarkdown())
	b.WriteString("\n")
	return b.String()
}

// PricesMarkdown renders the month end closes of every symbol, followed by the live
// quotes when there are some.
func PricesMarkdown(prices networth.Prices, quotes networth.Quotes, currency string) string {
	var b strings.Builder
	b.WriteString("# Prices\n\n")

	type column struct {
		name   string
		closes *date.History[decimal.Decimal]
	}
	var columns []column
	var series [][]date.Date
	header := []any{"Month"}
	for _, class := range networth.AssetClasses() {
		for _, symbol := range slices.Sorted(maps.Keys(prices[class])) {
			c := column{name: class.String() + "/" + symbol, closes: prices[class][symbol]}
			columns = append(columns, c)
			series = append(series, c.closes.Days())
			header = append(header, c.name)
		}
	}
	t := newTable(header...)
	for on := range date.Union(series...) {
		row := table.Row{monthLabel(on, false, false)}
		for _, c := range columns {
			v, ok := c.closes.Get(on)
			if !ok {
				row = append(row, "")
				continue
			}
			row = append(row, networth.M(v, currency).String())
		}
		t.AppendRow(row)
	}
	b.WriteString(t.RenderMarkdown())
	b.WriteString("\n")

	ConditionalBlock(&b, func(w io.Writer) bool {
		fmt.Fprint(w, "\n## Live quotes\n\n")
		t := newTable("Asset", "Date", "Close")
		n := 0
		for _, class := range networth.AssetClasses() {
			for _, symbol := range slices.Sorted(maps.Keys(quotes[class])) {
				q := quotes[class][symbol]
				t.AppendRow(table.Row{class.String() + "/" + symbol, q.Date.String(), networth.M(q.Close, currency).String()})
				n++
			}
		}
		fmt.Fprintln(w, t.RenderMarkdown())
		return n > 0
	})
	return b.String()
}
