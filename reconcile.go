package marketcap

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/etnz/marketcap/date"
	"github.com/shopspring/decimal"
)

// Outcome is the result of reconciling a single ticker.
type Outcome struct {
	Spec   TickerSpec
	Source string                         // name of the source that served the series
	Series *date.History[decimal.Decimal] // month-end market cap, in billions
	Err    error                          // why the ticker was skipped
}

// OK reports whether the ticker produced a series.
func (o Outcome) OK() bool { return o.Err == nil && o.Series != nil && o.Series.Len() > 0 }

// Reconciler picks, for each ticker, the first source able to produce a
// monthly market cap series.
//
// Primary is optional, when set its series is used exclusively whenever it
// is not empty. Otherwise the market cap is approximated as the month-end
// close from Prices times the shares outstanding from Shares.
type Reconciler struct {
	Primary MarketCapSource
	Prices  PriceSource
	Shares  SharesSource

	// Period of the series, Monthly when zero. Quarterly and Yearly
	// series are still dated on month-ends.
	Period date.Period
}

func (r *Reconciler) period() date.Period {
	if r.Period < date.Monthly {
		return date.Monthly
	}
	return r.Period
}

// Reconcile computes the month-end market cap series of symbol, in billions,
// and the name of the source that served it.
func (r *Reconciler) Reconcile(ctx context.Context, symbol string) (*date.History[decimal.Decimal], string, error) {
	if r.Primary != nil {
		h, err := r.historical(ctx, symbol)
		switch {
		case err == nil && h.Len() > 0:
			return h, r.Primary.Name(), nil
		case err == nil:
			log.Printf("%s: %s has no data, falling back", symbol, r.Primary.Name())
		case IsPaywalled(err):
			log.Printf("%s: %s is paywalled, falling back", symbol, r.Primary.Name())
		default:
			log.Printf("%s: %s error, falling back: %v", symbol, r.Primary.Name(), err)
		}
		if ctx.Err() != nil {
			return nil, "", ctx.Err()
		}
	}

	h, err := r.approximate(ctx, symbol)
	if err != nil {
		return nil, "", err
	}
	return h, fmt.Sprintf("%s close × %s shares (approx)", r.Prices.Name(), r.Shares.Name()), nil
}

// historical returns the primary source's series at period end, in billions.
func (r *Reconciler) historical(ctx context.Context, symbol string) (*date.History[decimal.Decimal], error) {
	daily, err := r.Primary.MarketCap(ctx, symbol)
	if err != nil {
		return nil, err
	}
	return nonNegative(date.Map(daily.Resample(r.period()), billions)), nil
}

// nonNegative returns h without its negative values.
func nonNegative(h *date.History[decimal.Decimal]) *date.History[decimal.Decimal] {
	kept := new(date.History[decimal.Decimal])
	for on, v := range h.Values() {
		if !v.IsNegative() {
			kept.Append(on, v)
		}
	}
	return kept
}

// approximate returns period end close × shares outstanding, in billions.
func (r *Reconciler) approximate(ctx context.Context, symbol string) (*date.History[decimal.Decimal], error) {
	if r.Prices == nil || r.Shares == nil {
		return nil, fmt.Errorf("no fallback source configured: %w", ErrNoData)
	}
	closes, err := r.Prices.Closes(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("%s prices: %w", r.Prices.Name(), err)
	}
	monthly := closes.Resample(r.period())
	if monthly.Len() == 0 {
		return nil, fmt.Errorf("%s prices: %w", r.Prices.Name(), ErrNoData)
	}

	shares, err := r.Shares.Shares(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("%s shares: %w", r.Shares.Name(), err)
	}
	filled, ok := shares.Fill(monthly.Days())
	if !ok {
		return nil, fmt.Errorf("%s shares: %w", r.Shares.Name(), ErrNoShares)
	}

	h := new(date.History[decimal.Decimal])
	i := 0
	for on, price := range monthly.Values() {
		value := decimal.NewFromFloat(price).Mul(decimal.NewFromFloat(filled[i]))
		h.Append(on, billions(value))
		i++
	}
	if h = nonNegative(h); h.Len() == 0 {
		return nil, fmt.Errorf("%s shares: %w", r.Shares.Name(), ErrNoShares)
	}
	return h, nil
}

// billions converts an amount in currency units into billions.
func billions(v decimal.Decimal) decimal.Decimal { return v.Shift(-9) }

// Pull reconciles every ticker in order, waiting delay between two tickers.
//
// A ticker that fails is reported in its Outcome and does not stop the pull.
// Pull only fails if the context is done, or if every ticker failed.
func (r *Reconciler) Pull(ctx context.Context, tickers []TickerSpec, delay time.Duration) ([]Outcome, error) {
	if len(tickers) == 0 {
		return nil, fmt.Errorf("no tickers to pull")
	}
	outcomes := make([]Outcome, 0, len(tickers))
	var errs []error
	for i, spec := range tickers {
		if i > 0 && delay > 0 {
			select {
			case <-ctx.Done():
				return outcomes, ctx.Err()
			case <-time.After(delay):
			}
		}

		h, source, err := r.Reconcile(ctx, spec.Ticker)
		if ctx.Err() != nil {
			return outcomes, ctx.Err()
		}
		if err == nil && h.Len() == 0 {
			err = ErrNoData
		}
		o := Outcome{Spec: spec, Source: source, Series: h, Err: err}
		if err != nil {
			o.Series, o.Source = nil, ""
			log.Printf("%s: SKIP (no usable market cap series): %v", spec.Ticker, err)
			errs = append(errs, fmt.Errorf("%s: %w", spec.Ticker, err))
		} else {
			log.Printf("%s: OK (%s) rows=%d", spec.Ticker, source, h.Len())
		}
		outcomes = append(outcomes, o)
	}
	if len(errs) == len(tickers) {
		return outcomes, fmt.Errorf("all tickers failed: %w", errors.Join(errs...))
	}
	return outcomes, nil
}
