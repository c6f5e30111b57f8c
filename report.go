package marketcap

import (
	"github.com/Rhymond/go-money"
	"github.com/etnz/marketcap/date"
	"github.com/shopspring/decimal"
)

// PullReport summarizes a pull run.
type PullReport struct {
	Date    date.Date // day of the run
	Output  string    // path of the written table
	Rows    int       // number of rows written
	Tickers []TickerReport
}

// TickerReport is the outcome of a single ticker.
type TickerReport struct {
	Spec    TickerSpec
	Source  string
	Months  int
	Latest  date.Date       // latest month-end
	Value   decimal.Decimal // latest market cap, in billions
	Partial bool            // the latest month is not over yet
	Err     error
}

// OK reports whether the ticker was pulled.
func (t TickerReport) OK() bool { return t.Err == nil }

// NewPullReport builds the report of outcomes pulled on day.
func NewPullReport(day date.Date, outcomes []Outcome) *PullReport {
	r := &PullReport{Date: day}
	for _, o := range outcomes {
		t := TickerReport{Spec: o.Spec, Source: o.Source, Err: o.Err}
		if o.OK() {
			t.Months = o.Series.Len()
			t.Latest, t.Value = o.Series.Latest()
			t.Partial = IsPartialMonth(t.Latest, day)
		} else if t.Err == nil {
			t.Err = ErrNoData
		}
		r.Tickers = append(r.Tickers, t)
	}
	return r
}

// Skipped returns the tickers that could not be pulled.
func (r *PullReport) Skipped() []TickerReport {
	var skipped []TickerReport
	for _, t := range r.Tickers {
		if !t.OK() {
			skipped = append(skipped, t)
		}
	}
	return skipped
}

// Billions formats an amount in billions of US dollars, like "$3,012.50B".
func Billions(v decimal.Decimal) string {
	cents := v.Shift(2).Round(0).IntPart()
	return money.New(cents, money.USD).Display() + "B"
}
