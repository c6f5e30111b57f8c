// Package prices serves daily close prices of US listed stocks.
//
// Stooq is the default, keyless source. Tiingo is an alternative requiring a
// token. Both are fetched with marketcap.Get and parsed into a go-quote Quote,
// then into a date.History.
package prices

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/etnz/marketcap"
	"github.com/etnz/marketcap/date"
	"github.com/markcheno/go-quote"
)

// DefaultStooqURL is the Stooq download root.
const DefaultStooqURL = "https://stooq.com"

// Stooq downloads daily OHLCV from stooq.com.
type Stooq struct {
	BaseURL string // defaults to DefaultStooqURL
	HTTP    *http.Client
}

// NewStooq returns a Stooq source. A nil client means http.DefaultClient.
func NewStooq(client *http.Client) *Stooq {
	if client == nil {
		client = http.DefaultClient
	}
	return &Stooq{BaseURL: DefaultStooqURL, HTTP: client}
}

// Name implements marketcap.PriceSource.
func (s *Stooq) Name() string { return "stooq" }

// Closes implements marketcap.PriceSource.
func (s *Stooq) Closes(ctx context.Context, symbol string) (*date.History[float64], error) {
	// US symbols are lower case, suffixed with ".us" e.g. https://stooq.com/q/d/l/?s=msft.us&i=d
	base := s.BaseURL
	if base == "" {
		base = DefaultStooqURL
	}
	q := url.Values{"s": {strings.ToLower(symbol) + ".us"}, "i": {"d"}}
	addr := strings.TrimSuffix(base, "/") + "/q/d/l/?" + q.Encode()

	body, err := marketcap.Get(ctx, s.HTTP, addr, nil)
	if err != nil {
		return nil, err
	}
	return ParseStooq(symbol, string(body))
}

// ParseStooq parses a Stooq daily CSV
//
//	Date,Open,High,Low,Close,Volume
//	2024-01-02,373.86,375.9,366.77,370.87,25258600
//
// Rows with an invalid date or a non positive close are ignored. Stooq answers
// a plain "No data" for unknown symbols, reported as marketcap.ErrNoData.
func ParseStooq(symbol, csv string) (*date.History[float64], error) {
	lines := strings.Split(strings.ReplaceAll(csv, "\r", ""), "\n")
	rows := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if len(rows) == 0 {
			// header
			if !strings.HasPrefix(strings.ToLower(line), "date,") {
				if strings.Contains(strings.ToLower(line), "no data") {
					return nil, fmt.Errorf("stooq %s: %w", symbol, marketcap.ErrNoData)
				}
				return nil, fmt.Errorf("unexpected stooq response for %s: %.200s", symbol, line)
			}
			rows = append(rows, line)
			continue
		}
		switch strings.Count(line, ",") {
		case 5:
		case 4:
			// some series have no volume
			line += ",0"
		default:
			continue
		}
		rows = append(rows, line)
	}

	q, err := quote.NewQuoteFromCSVDateFormat(symbol, strings.Join(rows, "\n"), "2006-01-02")
	if err != nil {
		return nil, fmt.Errorf("stooq %s: %w", symbol, err)
	}
	return closes(symbol, q)
}

// closes converts a quote into its close history.
func closes(symbol string, q quote.Quote) (*date.History[float64], error) {
	h := new(date.History[float64])
	for i, t := range q.Date {
		price := q.Close[i]
		if t.IsZero() || price <= 0 || math.IsNaN(price) || math.IsInf(price, 0) {
			continue
		}
		h.Append(date.Of(t), price)
	}
	if h.Len() == 0 {
		return nil, fmt.Errorf("no close price for %s: %w", symbol, marketcap.ErrNoData)
	}
	return h, nil
}

// DefaultTiingoURL is the Tiingo API root.
const DefaultTiingoURL = "https://api.tiingo.com"

// Tiingo reads adjusted daily closes from api.tiingo.com.
type Tiingo struct {
	Token   string
	From    date.Date // first day of history, defaults to DefaultTiingoStart
	BaseURL string    // defaults to DefaultTiingoURL
	HTTP    *http.Client
}

// NewTiingo returns a Tiingo source. A nil client means http.DefaultClient.
func NewTiingo(token string, client *http.Client) *Tiingo {
	if client == nil {
		client = http.DefaultClient
	}
	return &Tiingo{Token: token, BaseURL: DefaultTiingoURL, HTTP: client}
}

// DefaultTiingoStart is the first day requested from Tiingo.
var DefaultTiingoStart = date.New(2000, time.January, 1)

// Name implements marketcap.PriceSource.
func (t *Tiingo) Name() string { return "tiingo" }

// Closes implements marketcap.PriceSource.
func (t *Tiingo) Closes(ctx context.Context, symbol string) (*date.History[float64], error) {
	if t.Token == "" {
		return nil, fmt.Errorf("tiingo requires an api token")
	}
	from := t.From
	if from.IsZero() {
		from = DefaultTiingoStart
	}
	base := t.BaseURL
	if base == "" {
		base = DefaultTiingoURL
	}
	client := t.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	// e.g. https://api.tiingo.com/tiingo/daily/msft/prices?startDate=2000-01-01&endDate=2024-06-30
	q := url.Values{"startDate": {from.String()}, "endDate": {date.Today().String()}}
	addr := fmt.Sprintf("%s/tiingo/daily/%s/prices?%s", strings.TrimSuffix(base, "/"),
		url.PathEscape(strings.ReplaceAll(strings.ToLower(symbol), "/", "-")), q.Encode())

	body, err := marketcap.Get(ctx, client, addr, http.Header{"Authorization": {"Token " + t.Token}})
	if err != nil {
		return nil, fmt.Errorf("tiingo %s: %w", symbol, err)
	}
	return ParseTiingo(symbol, body)
}

// tiingoRow is a row of the Tiingo daily prices answer, only adjusted
// values are kept.
type tiingoRow struct {
	Date      string  `json:"date"`
	AdjOpen   float64 `json:"adjOpen"`
	AdjHigh   float64 `json:"adjHigh"`
	AdjLow    float64 `json:"adjLow"`
	AdjClose  float64 `json:"adjClose"`
	AdjVolume float64 `json:"adjVolume"`
}

// ParseTiingo parses a Tiingo daily prices answer
//
//	[{"date":"2024-01-02T00:00:00.000Z","adjClose":370.87, ...}, ...]
//
// into adjusted closes.
func ParseTiingo(symbol string, body []byte) (*date.History[float64], error) {
	var rows []tiingoRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("unexpected tiingo response for %s: %w", symbol, err)
	}
	q := quote.NewQuote(symbol, len(rows))
	for i, row := range rows {
		on, err := date.Parse(row.Date)
		if err != nil {
			continue // zero time, skipped by closes
		}
		q.Date[i] = time.Date(on.Year(), on.Month(), on.Day(), 0, 0, 0, 0, time.UTC)
		q.Open[i], q.High[i], q.Low[i], q.Close[i] = row.AdjOpen, row.AdjHigh, row.AdjLow, row.AdjClose
		q.Volume[i] = row.AdjVolume
	}
	return closes(symbol, q)
}
