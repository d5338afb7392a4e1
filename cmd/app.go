// Package cmd implements the nw command line application.
package cmd

import (
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/networth"
	"github.com/etnz/networth/config"
	"github.com/etnz/networth/date"
	"github.com/etnz/networth/eodhd"
	"github.com/etnz/networth/justetf"
	"github.com/etnz/networth/yahoo"
	"github.com/google/subcommands"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	for _, cmd := range reports {
		c.Register(cmd, "reports")
	}
	c.Register(&topicCmd{}, "documentation")
}

var reports = []subcommands.Command{
	&cashflowCmd{},
	&holdingsCmd{},
	&networthCmd{},
	&balancesCmd{},
	&expensesCmd{},
	&pricesCmd{},
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var (
	configFile = flag.String("config", "", "Path to the config file (default "+config.DefaultFile+" if it exists)")
	dataPath   = flag.String("data", "", "Root folder of the yearly data folders, overrides the config")
	year       = flag.Int("year", 0, "Reporting year, overrides the config. Default is the current year")
	Verbose    = flag.Bool("v", false, "Log debug messages")
	raw        = flag.Bool("raw", false, "Print the reports as markdown instead of rendering them for the terminal")
)

var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// loadConfig reads the configuration and applies the global flags on top of it.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(*configFile)
	if err != nil {
		return nil, err
	}
	if *dataPath != "" {
		cfg.Data = *dataPath
	}
	if *year != 0 {
		cfg.Year = *year
	}
	if cfg.Year == 0 {
		cfg.Year = date.Today().Year()
	}
	return cfg, nil
}

// openAnalyzer builds the analyzer of the configured year, with its logger.
func openAnalyzer() (*networth.Analyzer, *zap.Logger, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	logger, err := cfg.Logger(*Verbose)
	if err != nil {
		return nil, nil, err
	}
	fetchers, err := newFetchers(cfg, logger)
	if err != nil {
		return nil, logger, err
	}
	a, err := networth.NewAnalyzer(cfg.Data, cfg.Year,
		networth.WithCurrency(cfg.Currency),
		networth.WithLookback(cfg.LookbackYears),
		networth.WithFetchers(fetchers),
		networth.WithLogger(logger))
	return a, logger, err
}

// newFetchers returns the price fetcher of every configured asset class.
//
// Asset classes served by the same provider share its fetcher, and its throttle.
func newFetchers(cfg *config.Config, logger *zap.Logger) (networth.Fetchers, error) {
	providers, err := cfg.ProviderOf()
	if err != nil {
		return nil, err
	}
	client := networth.NewHTTPClient(cfg.HTTP.Timeout, cfg.HTTP.CacheDir, logger)
	byProvider := make(map[string]networth.PriceFetcher)
	fetchers := make(networth.Fetchers, len(providers))
	for class, provider := range providers {
		f, ok := byProvider[provider]
		if !ok {
			plog := logger.Named(provider)
			if f, err = newFetcher(cfg, provider, client, plog); err != nil {
				return nil, err
			}
			t := networth.NewThrottle(cfg.Throttle.Interval, cfg.Throttle.MinDelay, cfg.Throttle.MaxDelay, plog)
			f = networth.Throttled(f, t)
			byProvider[provider] = f
		}
		fetchers[class] = f
	}
	return fetchers, nil
}

func newFetcher(cfg *config.Config, provider string, client *http.Client, logger *zap.Logger) (networth.PriceFetcher, error) {
	switch provider {
	case config.Yahoo:
		return yahoo.New(yahoo.WithHTTPClient(client), yahoo.WithLogger(logger)), nil
	case config.JustETF:
		return justetf.New(justetf.WithHTTPClient(client), justetf.WithLogger(logger)), nil
	case config.EODHD:
		opts := []eodhd.Option{eodhd.WithHTTPClient(client), eodhd.WithLogger(logger)}
		if cfg.EODHD.Exchange != "" {
			opts = append(opts, eodhd.WithExchange(cfg.EODHD.Exchange))
		}
		return eodhd.New(cfg.EODHD.Key, opts...)
	default:
		return nil, errors.Wrapf(networth.ErrConfiguration, "unknown price provider %q", provider)
	}
}

// failure prints err and returns the exit status matching its kind.
func failure(err error) subcommands.ExitStatus {
	fmt.Fprintf(stderr, "Error: %v\n", err)
	if errors.Is(err, networth.ErrConfiguration) {
		return subcommands.ExitUsageError
	}
	return subcommands.ExitFailure
}

// printMarkdown prints a report, rendered for the terminal unless -raw is set.
func printMarkdown(md string) {
	if !*raw {
		r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
		if err == nil {
			if out, err := r.Render(md); err == nil {
				md = out
			}
		}
	}
	fmt.Fprint(stdout, md)
}
