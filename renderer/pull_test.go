package renderer

import (
	"errors"
	"strings"
	"testing"

	"github.com/etnz/marketcap"
	"github.com/etnz/marketcap/date"
	"github.com/shopspring/decimal"
)

func TestPullMarkdown(t *testing.T) {
	r := &marketcap.PullReport{
		Date:   date.New(2024, 5, 20),
		Output: "data/processed/marketcap_monthly.csv",
		Rows:   42,
		Tickers: []marketcap.TickerReport{
			{
				Spec:    marketcap.TickerSpec{Ticker: "MSFT", Name: "Microsoft", Category: "Hyperscaler"},
				Source:  "fmp",
				Months:  21,
				Latest:  date.New(2024, 5, 31),
				Value:   decimal.RequireFromString("3012.5"),
				Partial: true,
			},
			{
				Spec:   marketcap.TickerSpec{Ticker: "AMZN", Name: "Amazon", Category: "Hyperscaler"},
				Source: "stooq close × sec shares (approx)",
				Months: 21,
				Latest: date.New(2024, 4, 30),
				Value:  decimal.RequireFromString("1820"),
			},
			{
				Spec: marketcap.TickerSpec{Ticker: "ORCL", Name: "Oracle", Category: "Cloud"},
				Err:  errors.New("sec shares: no shares outstanding"),
			},
		},
	}
	got := PullMarkdown(r)

	for _, want := range []string{
		"# Market Caps as of 2024-05-20",
		"Wrote 42 rows to `data/processed/marketcap_monthly.csv`.",
		"**MSFT**",
		"2024-05-31 (partial)",
		"$3,012.50B",
		"$1,820.00B",
		"## Skipped",
		"**ORCL** (Oracle): sec shares: no shares outstanding",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("PullMarkdown() does not contain %q, got:\n%s", want, got)
		}
	}
}

func TestPullMarkdown_NothingSkipped(t *testing.T) {
	got := PullMarkdown(&marketcap.PullReport{Date: date.New(2024, 5, 20)})
	if strings.Contains(got, "Skipped") {
		t.Errorf("PullMarkdown() should not have a skipped section, got:\n%s", got)
	}
}

func TestTickersMarkdown(t *testing.T) {
	cfg := &marketcap.Config{Tickers: []marketcap.TickerSpec{
		{Ticker: "MSFT", Name: "Microsoft", Category: "Hyperscaler"},
		{Ticker: "CRWV", Name: "CoreWeave", Category: "Neocloud"},
	}}
	got := TickersMarkdown(cfg)
	for _, want := range []string{"# Tickers", "**MSFT**", "Microsoft", "**CRWV**", "Neocloud"} {
		if !strings.Contains(got, want) {
			t.Errorf("TickersMarkdown() does not contain %q, got:\n%s", want, got)
		}
	}
	if strings.Index(got, "MSFT") > strings.Index(got, "CRWV") {
		t.Errorf("TickersMarkdown() should keep the config order, got:\n%s", got)
	}
}
