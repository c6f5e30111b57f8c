// Package fmp reads market capitalization data from Financial Modeling Prep.
//
// It serves two things: the daily historical market cap of a symbol, and the
// company profile snapshot used to derive shares outstanding when no filing
// history is available.
//
// Symbols not covered by the current subscription answer 402, reported as an
// error matching marketcap.ErrPaywalled.
package fmp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/marketcap"
	"github.com/etnz/marketcap/date"
	"github.com/shopspring/decimal"
)

// DefaultBaseURL is the FMP API root.
const DefaultBaseURL = "https://financialmodelingprep.com"

// Client queries the FMP "stable" API.
type Client struct {
	APIKey  string
	BaseURL string // defaults to DefaultBaseURL
	HTTP    *http.Client
}

// New returns a client using apiKey. A nil client means http.DefaultClient.
func New(apiKey string, client *http.Client) *Client {
	if client == nil {
		client = http.DefaultClient
	}
	return &Client{APIKey: apiKey, BaseURL: DefaultBaseURL, HTTP: client}
}

// Name implements marketcap.MarketCapSource.
func (c *Client) Name() string { return "fmp" }

func (c *Client) endpoint(path, symbol string) string {
	base := c.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	q := url.Values{"symbol": {symbol}, "apikey": {c.APIKey}}
	return strings.TrimSuffix(base, "/") + path + "?" + q.Encode()
}

// MarketCap returns the daily market cap of symbol, in dollars.
//
// Rows with an unparseable date or market cap are ignored. A response without
// any row, or whose rows lack the "date" or "marketCap" fields, is an error.
func (c *Client) MarketCap(ctx context.Context, symbol string) (*date.History[decimal.Decimal], error) {
	// https://financialmodelingprep.com/stable/historical-market-capitalization?symbol=AAPL&apikey=...
	// [
	//   {
	//     "symbol": "AAPL",
	//     "date": "2025-02-04",
	//     "marketCap": 3500823120000
	//   },
	body, err := marketcap.Get(ctx, c.HTTP, c.endpoint("/stable/historical-market-capitalization", symbol), nil)
	if err != nil {
		return nil, err
	}

	var rows []map[string]any
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber() // keep market caps exact
	if err := dec.Decode(&rows); err != nil {
		return nil, fmt.Errorf("unexpected fmp response for %s: %.200s", symbol, body)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("empty fmp response for %s: %w", symbol, marketcap.ErrNoData)
	}
	if _, ok := rows[0]["date"]; !ok {
		return nil, fmt.Errorf("fmp response for %s is missing field %q", symbol, "date")
	}
	if _, ok := rows[0]["marketCap"]; !ok {
		return nil, fmt.Errorf("fmp response for %s is missing field %q", symbol, "marketCap")
	}

	h := new(date.History[decimal.Decimal])
	skipped := 0
	for _, row := range rows {
		s, _ := row["date"].(string)
		day, err := date.Parse(s)
		if err != nil {
			skipped++
			continue
		}
		n, ok := row["marketCap"].(json.Number)
		if !ok {
			skipped++
			continue
		}
		value, err := decimal.NewFromString(n.String())
		if err != nil {
			skipped++
			continue
		}
		h.Append(day, value)
	}
	if skipped > 0 {
		log.Printf("warning: %s: ignored %d unparseable fmp rows", symbol, skipped)
	}
	return h, nil
}

// Profile is the subset of the company profile used to derive shares outstanding.
type Profile struct {
	Price             float64
	MarketCap         float64
	SharesOutstanding float64 // zero when the profile does not carry it
}

// Profile returns the current profile of symbol.
func (c *Client) Profile(ctx context.Context, symbol string) (Profile, error) {
	// https://financialmodelingprep.com/stable/profile?symbol=AAPL&apikey=...
	// [
	//   {
	//     "symbol": "AAPL",
	//     "price": 232.8,
	//     "marketCap": 3500823120000,
	//     ...
	var jobj any
	if err := marketcap.GetJSON(ctx, c.HTTP, c.endpoint("/stable/profile", symbol), nil, &jobj); err != nil {
		return Profile{}, err
	}
	if list, ok := jobj.([]any); !ok || len(list) == 0 {
		return Profile{}, fmt.Errorf("empty fmp profile for %s: %w", symbol, marketcap.ErrNoData)
	}

	var p Profile
	var err error
	if p.Price, err = number(jobj, "$[0].price"); err != nil {
		return Profile{}, fmt.Errorf("fmp profile for %s: %w", symbol, err)
	}
	if p.MarketCap, err = number(jobj, "$[0].marketCap"); err != nil {
		return Profile{}, fmt.Errorf("fmp profile for %s: %w", symbol, err)
	}
	// optional
	p.SharesOutstanding, _ = number(jobj, "$[0].sharesOutstanding")
	return p, nil
}

// Shares returns the shares outstanding in the profile, or derive them from
// the market cap and price.
func (p Profile) Shares() (float64, error) {
	if p.SharesOutstanding > 0 {
		return p.SharesOutstanding, nil
	}
	if p.Price <= 0 || p.MarketCap <= 0 {
		return 0, marketcap.ErrNoShares
	}
	return p.MarketCap / p.Price, nil
}

// number reads the float at path in jobj.
func number(jobj any, path string) (float64, error) {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return 0, fmt.Errorf("field %q: %w", path, err)
	}
	val, ok := jval.(float64)
	if !ok {
		return 0, fmt.Errorf("field %q is not a number: %v", path, jval)
	}
	return val, nil
}

// Snapshot serves the profile shares outstanding as a single observation,
// dated today. Once filled onto past months it is a constant.
type Snapshot struct {
	*Client
}

// Name implements marketcap.SharesSource.
func (s Snapshot) Name() string { return "fmp profile" }

// Shares implements marketcap.SharesSource.
func (s Snapshot) Shares(ctx context.Context, symbol string) (*date.History[float64], error) {
	p, err := s.Profile(ctx, symbol)
	if err != nil {
		return nil, err
	}
	shares, err := p.Shares()
	if err != nil {
		return nil, fmt.Errorf("fmp profile for %s: %w", symbol, err)
	}
	h := new(date.History[float64])
	h.Append(date.Today(), shares)
	return h, nil
}
