package cmd

import (
	"context"
	"flag"

	"github.com/etnz/networth"
	"github.com/etnz/networth/renderer"
	"github.com/google/subcommands"
)

type pricesCmd struct{}

func (*pricesCmd) Name() string     { return "prices" }
func (*pricesCmd) Synopsis() string { return "fetch and display the prices of the symbols held" }
func (*pricesCmd) Usage() string {
	return `nw [-year <year>] prices

  Fetches the month end closes of every symbol held during the year, updating the
  price cache of the year, and displays them.
  For the running year, the live quotes of the symbols held today are added.
`
}

func (*pricesCmd) SetFlags(f *flag.FlagSet) {}

func (*pricesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(ctx, func(ctx context.Context, a *networth.Analyzer) (string, error) {
		h, err := a.ComputeMonthlyHoldings()
		if err != nil {
			return "", err
		}
		prices, err := a.FetchPrices(ctx, h)
		if err != nil {
			return "", err
		}
		var quotes networth.Quotes
		current, err := a.ComputeCurrentHoldings()
		if err != nil {
			return "", err
		}
		if current != nil {
			if quotes, err = a.FetchQuotes(ctx, current); err != nil {
				return "", err
			}
		}
		return renderer.PricesMarkdown(prices, quotes, a.Currency()), nil
	})
}
