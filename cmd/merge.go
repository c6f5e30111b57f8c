package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/etnz/marketcap"
	"github.com/etnz/marketcap/date"
	"github.com/google/subcommands"
)

// mergeCmd implements the "merge" command.
type mergeCmd struct {
	out string
}

func (*mergeCmd) Name() string     { return "merge" }
func (*mergeCmd) Synopsis() string { return "merge market cap tables" }
func (*mergeCmd) Usage() string {
	return `mcap merge [-out <file>] <table.csv>...

  Merges CSV tables written by "mcap pull" into a single sorted table.

  Invalid rows (date not a month-end, empty name, negative or non numeric
  value) are dropped. When a ticker name has a value for the same month in
  several tables, the last table wins.
`
}

func (c *mergeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.out, "out", "", "Path of the merged table, stdout if empty")
}

func (c *mergeCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: at least one table is required")
		return subcommands.ExitUsageError
	}

	points, err := mergeFiles(f.Args()...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	if c.out == "" {
		err = marketcap.EncodeCSV(os.Stdout, points)
	} else {
		err = marketcap.WriteCSVFile(c.out, points)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error writing merged table: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// mergeFiles reads the tables at paths, later tables override earlier ones.
func mergeFiles(paths ...string) ([]marketcap.MarketCapPoint, error) {
	type key struct {
		day  date.Date
		name string
	}
	index := make(map[key]int)
	var points []marketcap.MarketCapPoint
	for _, path := range paths {
		table, err := readTable(path)
		if err != nil {
			return nil, err
		}
		for _, p := range table {
			k := key{p.Date, p.Name}
			if i, exists := index[k]; exists {
				points[i] = p
				continue
			}
			index[k] = len(points)
			points = append(points, p)
		}
	}
	marketcap.SortPoints(points)
	return points, nil
}

func readTable(path string) ([]marketcap.MarketCapPoint, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	points, dropped, err := marketcap.DecodeCSV(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if dropped > 0 {
		log.Printf("warning: %s: dropped %d invalid rows", path, dropped)
	}
	return points, nil
}
