package cmd

import (
	"context"
	"flag"

	"github.com/etnz/networth"
	"github.com/etnz/networth/renderer"
	"github.com/google/subcommands"
)

type networthCmd struct{}

func (*networthCmd) Name() string     { return "networth" }
func (*networthCmd) Synopsis() string { return "display the net worth at every month end" }
func (*networthCmd) Usage() string {
	return `nw [-year <year>] networth

  Displays liquidity, investments and net worth at every closed month end, and
  their change from the previous month. For the running year, the net worth of
  today is added, valued with live quotes.

  Totals marked with * leave out the symbols without prices.
`
}

func (*networthCmd) SetFlags(f *flag.FlagSet) {}

func (*networthCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(ctx, func(ctx context.Context, a *networth.Analyzer) (string, error) {
		rows, err := a.ComputeNetWorthSeries(ctx)
		if err != nil {
			return "", err
		}
		return renderer.NetWorthMarkdown(a.Year(), rows), nil
	})
}
