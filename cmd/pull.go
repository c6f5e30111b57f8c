package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/etnz/marketcap"
	"github.com/etnz/marketcap/date"
	"github.com/etnz/marketcap/fmp"
	"github.com/etnz/marketcap/prices"
	"github.com/etnz/marketcap/renderer"
	"github.com/etnz/marketcap/sec"
	"github.com/google/subcommands"
)

const (
	fmpAPIKeyEnv   = "FMP_API_KEY"
	secAgentEnv    = "SEC_USER_AGENT"
	tiingoTokenEnv = "TIINGO_API_TOKEN"
)

// errUsage marks flag combinations that cannot run.
var errUsage = errors.New("usage")

// pullCmd implements the "pull" command.
type pullCmd struct {
	config    string
	out       string
	fmpAPIKey string
	shares    string
	prices    string
	period    string
	delay     time.Duration
	timeout   time.Duration
	noCache   bool
	raw       bool
	html      string
}

func (*pullCmd) Name() string     { return "pull" }
func (*pullCmd) Synopsis() string { return "pull month-end market caps into a CSV table" }
func (*pullCmd) Usage() string {
	return `mcap pull [-config <file>] [-out <file>] [-shares filings|snapshot] [-prices stooq|tiingo]

  Pulls the market cap history of every configured ticker and writes them as a
  date,name,value,category CSV table, one row per ticker and month-end, values
  in billions of US dollars.

  The FMP historical market cap is used when available (requires the FMP_API_KEY
  environment variable or the -fmp-api-key flag), otherwise it is approximated
  as month-end close times shares outstanding.

  Tickers without data are skipped, the command fails only if all are.
`
}

func (c *pullCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.config, "config", defaultConfig, "Path to the tickers config file (JSON or YAML)")
	f.StringVar(&c.out, "out", "data/processed/marketcap_monthly.csv", "Path of the CSV table to write, parent folders are created")
	f.StringVar(&c.fmpAPIKey, "fmp-api-key", "", "FMP API key. This flag takes precedence over the "+fmpAPIKeyEnv+" environment variable. You can get one at https://site.financialmodelingprep.com/")
	f.StringVar(&c.shares, "shares", "filings", "shares outstanding source: 'filings' (SEC history) or 'snapshot' (FMP profile, constant)")
	f.StringVar(&c.prices, "prices", "stooq", "close price source: 'stooq' or 'tiingo' (requires "+tiingoTokenEnv+")")
	f.StringVar(&c.period, "period", "monthly", "period of the rows: 'monthly', 'quarterly' or 'yearly', always dated on a month-end")
	f.DurationVar(&c.delay, "delay", 250*time.Millisecond, "delay between two tickers")
	f.DurationVar(&c.timeout, "timeout", marketcap.DefaultTimeout, "timeout of each HTTP request")
	f.BoolVar(&c.noCache, "no-cache", false, "do not use the daily HTTP cache")
	f.BoolVar(&c.raw, "raw", false, "print the run report as raw markdown")
	f.StringVar(&c.html, "html", "", "also write the run report as HTML into this file")
}

// apiKey retrieves the FMP API key from the command-line flag or the environment variable.
// It prioritizes the flag over the environment variable.
func (c *pullCmd) apiKey() string {
	if c.fmpAPIKey == "" {
		c.fmpAPIKey = os.Getenv(fmpAPIKeyEnv)
	}
	return c.fmpAPIKey
}

// reconciler builds the source chain selected by the flags.
func (c *pullCmd) reconciler() (*marketcap.Reconciler, error) {
	dir := *cacheDir
	if c.noCache {
		dir = ""
	}
	client := marketcap.NewClient(c.timeout, dir)

	r := new(marketcap.Reconciler)
	period, err := date.ParsePeriod(c.period)
	if err != nil || period < date.Monthly {
		return nil, fmt.Errorf("%w: unsupported period %q", errUsage, c.period)
	}
	r.Period = period

	key := c.apiKey()
	if key != "" {
		r.Primary = fmp.New(key, client)
	} else {
		log.Printf("warning: no FMP API key (-fmp-api-key or %s), market caps are approximated", fmpAPIKeyEnv)
	}

	switch c.prices {
	case "stooq":
		r.Prices = prices.NewStooq(client)
	case "tiingo":
		token := os.Getenv(tiingoTokenEnv)
		if token == "" {
			return nil, fmt.Errorf("%w: -prices tiingo requires the %s environment variable", errUsage, tiingoTokenEnv)
		}
		r.Prices = prices.NewTiingo(token, client)
	default:
		return nil, fmt.Errorf("%w: unknown price source %q", errUsage, c.prices)
	}

	switch c.shares {
	case "filings":
		r.Shares = sec.New(os.Getenv(secAgentEnv), client)
	case "snapshot":
		if key == "" {
			return nil, fmt.Errorf("%w: -shares snapshot requires an FMP API key", errUsage)
		}
		r.Shares = fmp.Snapshot{Client: fmp.New(key, client)}
	default:
		return nil, fmt.Errorf("%w: unknown shares source %q", errUsage, c.shares)
	}
	return r, nil
}

func (c *pullCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	r, err := c.reconciler()
	if errors.Is(err, errUsage) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return c.run(ctx, r, date.Today())
}

// run pulls every ticker with r, writes the table and prints the report.
func (c *pullCmd) run(ctx context.Context, r *marketcap.Reconciler, today date.Date) subcommands.ExitStatus {
	cfg, status := loadConfig(c.config)
	if status != subcommands.ExitSuccess {
		return status
	}

	outcomes, err := r.Pull(ctx, cfg.Tickers, c.delay)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	points := marketcap.Aggregate(outcomes)
	if len(points) == 0 {
		fmt.Fprintf(os.Stderr, "Error: no market cap rows to write\n")
		return subcommands.ExitFailure
	}
	if err := marketcap.WriteCSVFile(c.out, points); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %q: %v\n", c.out, err)
		return subcommands.ExitFailure
	}
	log.Printf("wrote %s (%d rows)", c.out, len(points))

	report := marketcap.NewPullReport(today, outcomes)
	report.Output, report.Rows = c.out, len(points)
	doc := renderer.PullMarkdown(report)

	if c.html != "" {
		if err := writeHTML(c.html, doc); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing %q: %v\n", c.html, err)
			return subcommands.ExitFailure
		}
	}
	if c.raw {
		fmt.Print(doc)
	} else {
		printMarkdown(doc)
	}
	return subcommands.ExitSuccess
}
