// Package cmd implements the mcap CLI application.
package cmd

import (
	"flag"
	"fmt"
	"os"

	"github.com/etnz/marketcap"
	"github.com/google/subcommands"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	for _, cmd := range Commands() {
		c.Register(cmd, "")
	}
}

// Commands returns the mcap commands.
func Commands() []subcommands.Command {
	return []subcommands.Command{
		&pullCmd{},
		&mergeCmd{},
		&tickersCmd{},
		&topicCmd{},
	}
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var cacheDir = flag.String("cache-dir", marketcap.DefaultCacheDir(), "Folder of the daily HTTP cache")

const defaultConfig = "config/tickers.json"

// loadConfig loads the tickers config, reporting errors on stderr.
func loadConfig(path string) (*marketcap.Config, subcommands.ExitStatus) {
	cfg, err := marketcap.LoadConfig(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		return nil, subcommands.ExitFailure
	}
	return cfg, subcommands.ExitSuccess
}
