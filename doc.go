// Package marketcap builds a tidy month-end market capitalization table for a
// list of tickers, ready to feed a bar chart race.
//
// For each ticker a Reconciler tries its sources in order:
//   - a direct market cap history (see package fmp), used exclusively when
//     it serves the ticker;
//   - an approximation, month-end close (see package prices) times shares
//     outstanding (see packages sec and fmp), shares being forward then
//     backward filled onto the price months.
//
// Tickers without any usable source are skipped. The successful series are
// then aggregated into MarketCapPoint rows, dated on month-ends, valued in
// billions, sorted by date then by decreasing value, and written as CSV.
//
// This package serves as the foundational logic for the `mcap` command-line
// tool.
package marketcap
