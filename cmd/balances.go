package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/etnz/networth"
	"github.com/etnz/networth/date"
	"github.com/etnz/networth/renderer"
	"github.com/google/subcommands"
)

// balancesCmd holds the flags for the 'balances' subcommand.
type balancesCmd struct {
	date string
}

func (*balancesCmd) Name() string     { return "balances" }
func (*balancesCmd) Synopsis() string { return "display the balance of every account" }
func (*balancesCmd) Usage() string {
	return `nw [-year <year>] balances [-d <date>]

  Displays the balance of every account on a given date: its init balance plus
  the cashflow records up to that date.
  Default date is today for the running year, Dec 31 otherwise.
`
}

func (c *balancesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "date of the balances")
}

func (c *balancesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on, err := parseDate(c.date)
	if err != nil {
		fmt.Fprintf(stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	return run(ctx, func(_ context.Context, a *networth.Analyzer) (string, error) {
		return renderer.BalancesMarkdown(a.ComputeBalances(asOf(a, on))), nil
	})
}

// expensesCmd holds the flags for the 'expenses' subcommand.
type expensesCmd struct {
	date   string
	period string
}

func (*expensesCmd) Name() string     { return "expenses" }
func (*expensesCmd) Synopsis() string { return "display the expenses of a period by category" }
func (*expensesCmd) Usage() string {
	return `nw [-year <year>] expenses [-p <period>] [-d <date>]

  Displays the liabilities of the period containing a date, by category and
  subcategory, with their share of the total.
  Periods are day, week, month, quarter or year.
  Default date is today for the running year, Dec 31 otherwise.
`
}

func (c *expensesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "a date in the period")
	f.StringVar(&c.period, "p", "month", "period of the expenses")
}

func (c *expensesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on, err := parseDate(c.date)
	if err != nil {
		fmt.Fprintf(stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	period, err := date.ParsePeriod(c.period)
	if err != nil {
		fmt.Fprintf(stderr, "Error parsing period: %v\n", err)
		return subcommands.ExitUsageError
	}
	return run(ctx, func(_ context.Context, a *networth.Analyzer) (string, error) {
		r := date.NewRange(asOf(a, on), period)
		return renderer.ExpensesMarkdown(r, a.ComputeExpenses(r), a.Currency()), nil
	})
}
