package cmd

import (
	"testing"

	"github.com/posener/complete/v2/predict"
)

func TestCompletion(t *testing.T) {
	root := Completion(Commands()...)

	for _, name := range []string{"pull", "merge", "tickers", "topic"} {
		if _, ok := root.Sub[name]; !ok {
			t.Errorf("Completion() has no %q subcommand", name)
		}
	}
	if _, ok := root.Flags["cache-dir"]; !ok {
		t.Error("Completion() does not complete the -cache-dir global flag")
	}

	pull := root.Sub["pull"]
	for _, name := range []string{"config", "out", "fmp-api-key", "shares", "prices", "period", "delay", "timeout", "no-cache", "raw", "html"} {
		if _, ok := pull.Flags[name]; !ok {
			t.Errorf("Completion() does not complete pull -%s", name)
		}
	}
	shares, ok := pull.Flags["shares"].(predict.Set)
	if !ok || len(shares) != 2 {
		t.Errorf("Completion() pull -shares predictor = %v want the two policies", pull.Flags["shares"])
	}
	if root.Sub["merge"].Args == nil {
		t.Error("Completion() merge arguments are not completed")
	}
}
