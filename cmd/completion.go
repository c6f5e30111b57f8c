package cmd

import (
	"flag"

	"github.com/etnz/marketcap/date"
	"github.com/etnz/marketcap/docs"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// predictors of flag values, by flag name. Other flags complete as anything.
var predictors = map[string]complete.Predictor{
	"config":   predict.Or(predict.Files("*.json"), predict.Files("*.yaml"), predict.Files("*.yml")),
	"out":      predict.Files("*.csv"),
	"html":     predict.Files("*.html"),
	"shares":   predict.Set{"filings", "snapshot"},
	"prices":   predict.Set{"stooq", "tiingo"},
	"period":   predict.Set(date.PeriodNames(date.Monthly)),
	"raw":      predict.Nothing,
	"no-cache": predict.Nothing,
	"list":     predict.Nothing,
}

// args predicts the positional arguments of commands, by command name.
var args = map[string]complete.Predictor{
	"merge": predict.Files("*.csv"),
	"topic": predict.Set(topics()),
}

func topics() []string {
	all, _ := docs.GetAllTopics()
	return all
}

// Completion returns the shell completion of the commands, including the
// global flags.
func Completion(commands ...subcommands.Command) *complete.Command {
	root := &complete.Command{
		Sub:   make(map[string]*complete.Command),
		Flags: make(map[string]complete.Predictor),
	}
	flag.CommandLine.VisitAll(func(f *flag.Flag) {
		root.Flags[f.Name] = predictor(f.Name)
	})
	for _, c := range commands {
		fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
		c.SetFlags(fs)
		sub := &complete.Command{Flags: make(map[string]complete.Predictor), Args: args[c.Name()]}
		fs.VisitAll(func(f *flag.Flag) {
			sub.Flags[f.Name] = predictor(f.Name)
		})
		root.Sub[c.Name()] = sub
	}
	return root
}

func predictor(flagName string) complete.Predictor {
	if p, ok := predictors[flagName]; ok {
		return p
	}
	return predict.Something
}
