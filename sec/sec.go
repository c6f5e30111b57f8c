// Package sec reads shares outstanding from SEC EDGAR XBRL company facts.
//
// SEC requires a descriptive User-Agent on every request, see
// https://www.sec.gov/os/accessing-edgar-data.
package sec

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/marketcap"
	"github.com/etnz/marketcap/date"
)

// DefaultUserAgent is sent when no user agent is configured.
const DefaultUserAgent = "mcap marketcap puller (contact: your-email@example.com)"

var (
	// TickersURL maps tickers to CIK.
	TickersURL = "https://www.sec.gov/files/company_tickers.json"
	// FactsURL is the companyfacts root, the CIK file is appended.
	FactsURL = "https://data.sec.gov/api/xbrl/companyfacts/"
)

// shareTags are the facts tried in order, filers do not agree on a single one.
var shareTags = []string{
	`$.facts["dei"]["EntityCommonStockSharesOutstanding"].units.shares`,
	`$.facts["dei"]["CommonStockSharesOutstanding"].units.shares`,
	`$.facts["us-gaap"]["CommonStockSharesOutstanding"].units.shares`,
	`$.facts["us-gaap"]["EntityCommonStockSharesOutstanding"].units.shares`,
}

// Client reads EDGAR. The ticker to CIK map is downloaded once per Client.
type Client struct {
	UserAgent  string
	HTTP       *http.Client
	TickersURL string // defaults to TickersURL
	FactsURL   string // defaults to FactsURL

	mu   sync.Mutex
	ciks map[string]string // upper case ticker to 10 digits CIK
}

// New returns a client. An empty userAgent means DefaultUserAgent, a nil
// client http.DefaultClient.
func New(userAgent string, client *http.Client) *Client {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &Client{UserAgent: userAgent, HTTP: client, TickersURL: TickersURL, FactsURL: FactsURL}
}

// Name implements marketcap.SharesSource.
func (c *Client) Name() string { return "sec" }

func (c *Client) header() http.Header {
	return http.Header{"User-Agent": {c.UserAgent}}
}

// CIK returns the zero padded 10 digits CIK of ticker.
func (c *Client) CIK(ctx context.Context, ticker string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ciks == nil {
		ciks, err := c.fetchCIKs(ctx)
		if err != nil {
			return "", err
		}
		c.ciks = ciks
	}
	cik, ok := c.ciks[strings.ToUpper(ticker)]
	if !ok {
		return "", fmt.Errorf("could not find CIK for ticker %s: %w", ticker, marketcap.ErrNoData)
	}
	return cik, nil
}

func (c *Client) fetchCIKs(ctx context.Context) (map[string]string, error) {
	// {"0":{"cik_str":789019,"ticker":"MSFT","title":"MICROSOFT CORP"},...}
	type Info struct {
		CIK    int64  `json:"cik_str"`
		Ticker string `json:"ticker"`
	}
	addr := c.TickersURL
	if addr == "" {
		addr = TickersURL
	}
	content := make(map[string]Info)
	if err := marketcap.GetJSON(ctx, c.HTTP, addr, c.header(), &content); err != nil {
		return nil, err
	}
	ciks := make(map[string]string, len(content))
	for _, info := range content {
		ciks[strings.ToUpper(info.Ticker)] = fmt.Sprintf("%010d", info.CIK)
	}
	return ciks, nil
}

// Shares implements marketcap.SharesSource.
//
// The first tag with observations in unit "shares" is used. Observations are
// dated on their period end, the last one reported for a given day wins.
func (c *Client) Shares(ctx context.Context, symbol string) (*date.History[float64], error) {
	cik, err := c.CIK(ctx, symbol)
	if err != nil {
		return nil, err
	}
	base := c.FactsURL
	if base == "" {
		base = FactsURL
	}
	var jobj any
	if err := marketcap.GetJSON(ctx, c.HTTP, base+"CIK"+cik+".json", c.header(), &jobj); err != nil {
		return nil, err
	}
	return ParseShares(symbol, jobj)
}

// ParseShares extracts the shares outstanding history from a decoded
// companyfacts document.
func ParseShares(symbol string, jobj any) (*date.History[float64], error) {
	for _, path := range shareTags {
		jval, err := jsonpath.Get(path, jobj)
		if err != nil {
			continue // tag not reported
		}
		facts, ok := jval.([]any)
		if !ok || len(facts) == 0 {
			continue
		}
		h := new(date.History[float64])
		for _, f := range facts {
			fact, ok := f.(map[string]any)
			if !ok {
				continue
			}
			end, _ := fact["end"].(string)
			day, err := date.Parse(end)
			if err != nil {
				continue
			}
			val, ok := fact["val"].(float64)
			if !ok {
				continue
			}
			h.Append(day, val)
		}
		if h.Len() == 0 {
			log.Printf("warning: %s: no valid observation in %s", symbol, path)
			continue
		}
		return h, nil
	}
	return nil, fmt.Errorf("sec companyfacts for %s: %w", symbol, marketcap.ErrNoShares)
}
