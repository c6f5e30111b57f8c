package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/etnz/marketcap/renderer"
	"github.com/google/subcommands"
)

type tickersCmd struct {
	config string
	raw    bool
}

func (*tickersCmd) Name() string     { return "tickers" }
func (*tickersCmd) Synopsis() string { return "list the configured tickers" }
func (*tickersCmd) Usage() string {
	return `mcap tickers [-config <file>]

  Lists the tickers as they will be pulled, with their defaults applied.
`
}

func (c *tickersCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.config, "config", defaultConfig, "Path to the tickers config file (JSON or YAML)")
	f.BoolVar(&c.raw, "raw", false, "print raw markdown")
}

func (c *tickersCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, status := loadConfig(c.config)
	if status != subcommands.ExitSuccess {
		return status
	}
	doc := renderer.TickersMarkdown(cfg)
	if c.raw {
		fmt.Print(doc)
	} else {
		printMarkdown(doc)
	}
	return subcommands.ExitSuccess
}
