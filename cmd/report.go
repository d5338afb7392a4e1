package cmd

import (
	"context"

	"github.com/etnz/networth"
	"github.com/etnz/networth/date"
	"github.com/google/subcommands"
)

// run opens the analyzer of the configured year and prints the report built by report.
func run(ctx context.Context, report func(context.Context, *networth.Analyzer) (string, error)) subcommands.ExitStatus {
	a, logger, err := openAnalyzer()
	if logger != nil {
		defer logger.Sync()
	}
	if err != nil {
		return failure(err)
	}
	md, err := report(ctx, a)
	if err != nil {
		return failure(err)
	}
	printMarkdown(md)
	return subcommands.ExitSuccess
}

// parseDate parses an optional date flag, the zero date when empty.
func parseDate(s string) (date.Date, error) {
	if s == "" {
		return date.Date{}, nil
	}
	return date.Parse(s)
}

// asOf returns on, or the last day covered by the reports of a when on is zero:
// today for the running year, Dec 31 otherwise.
func asOf(a *networth.Analyzer, on date.Date) date.Date {
	switch {
	case !on.IsZero():
		return on
	case a.IsRunningYear():
		return a.Today()
	default:
		return a.Cutoff()
	}
}
