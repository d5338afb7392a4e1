package cmd

import (
	"context"
	"flag"

	"github.com/etnz/networth"
	"github.com/etnz/networth/renderer"
	"github.com/google/subcommands"
)

type cashflowCmd struct{}

func (*cashflowCmd) Name() string     { return "cashflow" }
func (*cashflowCmd) Synopsis() string { return "display the monthly cashflow of the year" }
func (*cashflowCmd) Usage() string {
	return `nw [-year <year>] cashflow

  Displays incomes, liabilities, savings, saving rate, investment transfers and
  liquidity of every closed month of the year, starting from the init snapshot.
  For the running year, the month in progress is added as of today.
`
}

func (*cashflowCmd) SetFlags(f *flag.FlagSet) {}

func (*cashflowCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(ctx, func(_ context.Context, a *networth.Analyzer) (string, error) {
		cf, err := a.ComputeMonthlyCashflow()
		if err != nil {
			return "", err
		}
		current, err := a.ComputeCurrentCashflow()
		if err != nil {
			return "", err
		}
		return renderer.CashflowMarkdown(a.Year(), cf, current), nil
	})
}
