package cmd

import (
	"context"
	"flag"

	"github.com/etnz/networth"
	"github.com/etnz/networth/renderer"
	"github.com/google/subcommands"
)

// holdingsCmd holds the flags for the 'holdings' subcommand.
type holdingsCmd struct {
	monthly bool
	returns bool
}

func (*holdingsCmd) Name() string     { return "holdings" }
func (*holdingsCmd) Synopsis() string { return "display the value of the investments held" }
func (*holdingsCmd) Usage() string {
	return `nw [-year <year>] holdings [-m] [-r]

  Displays, for every closed month end, the quantity of each symbol held, its
  close and its value, and the total value of the investments.
  For the running year, the holdings of today are valued with live quotes, and
  compared with the last month end close.
  With -r, also displays the monthly price return of every symbol.
`
}

func (c *holdingsCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.monthly, "m", false, "only display the closed months, without live quotes")
	f.BoolVar(&c.returns, "r", false, "also display the monthly price return of every symbol")
}

func (c *holdingsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(ctx, func(ctx context.Context, a *networth.Analyzer) (string, error) {
		v, err := a.ComputeMonthlyHoldingsValuation(ctx)
		if err != nil {
			return "", err
		}
		totals, err := a.ComputeMonthlyHoldingsTotal(ctx)
		if err != nil {
			return "", err
		}
		md := renderer.HoldingsMarkdown(a.Year(), v, totals)
		if c.returns {
			md += "\n" + renderer.ReturnsMarkdown(v, totals)
		}
		if c.monthly {
			return md, nil
		}
		cv, err := a.ComputeCurrentValuation(ctx)
		if err != nil {
			return "", err
		}
		if cv != nil {
			md += "\n" + renderer.CurrentHoldingsMarkdown(cv)
		}
		return md, nil
	})
}
