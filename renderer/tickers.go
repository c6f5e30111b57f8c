package renderer

import (
	"bytes"
	"strconv"

	"github.com/etnz/marketcap"
	md "github.com/nao1215/markdown"
)

// TickersMarkdown renders the tickers of a config, in pull order.
func TickersMarkdown(cfg *marketcap.Config) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Tickers")
	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignRight, md.AlignLeft, md.AlignLeft, md.AlignLeft},
		Header:    []string{"#", "Ticker", "Name", "Category"},
		Rows:      [][]string{},
	}
	for i, t := range cfg.Tickers {
		table.Rows = append(table.Rows, []string{strconv.Itoa(i + 1), md.Bold(t.Ticker), t.Name, t.Category})
	}
	doc.Table(table)
	return doc.String()
}
