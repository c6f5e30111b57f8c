package marketcap

import (
	"context"

	"github.com/etnz/marketcap/date"
	"github.com/shopspring/decimal"
)

// MarketCapSource serves a direct market capitalization history.
type MarketCapSource interface {
	Name() string
	// MarketCap returns the market cap of symbol, in currency units, at the
	// source's own cadence (usually daily).
	MarketCap(ctx context.Context, symbol string) (*date.History[decimal.Decimal], error)
}

// PriceSource serves daily close prices.
type PriceSource interface {
	Name() string
	Closes(ctx context.Context, symbol string) (*date.History[float64], error)
}

// SharesSource serves shares outstanding observations, possibly sparse.
type SharesSource interface {
	Name() string
	Shares(ctx context.Context, symbol string) (*date.History[float64], error)
}
