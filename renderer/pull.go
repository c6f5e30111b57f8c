package renderer

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/etnz/marketcap"
	md "github.com/nao1215/markdown"
)

// PullMarkdown renders the report of a pull run.
func PullMarkdown(r *marketcap.PullReport) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Market Caps as of %s", r.Date))
	if r.Output != "" {
		doc.PlainTextf("Wrote %d rows to %s.", r.Rows, md.Code(r.Output))
	}

	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignLeft,
			md.AlignLeft,
			md.AlignLeft,
			md.AlignRight,
			md.AlignLeft,
			md.AlignRight,
		},
		Header: []string{"Ticker", "Name", "Category", "Source", "Months", "Latest", "Market Cap"},
		Rows:   [][]string{},
	}
	for _, t := range r.Tickers {
		if !t.OK() {
			continue
		}
		latest := t.Latest.String()
		if t.Partial {
			latest += " (partial)"
		}
		table.Rows = append(table.Rows, []string{
			md.Bold(t.Spec.Ticker),
			t.Spec.Name,
			t.Spec.Category,
			t.Source,
			strconv.Itoa(t.Months),
			latest,
			marketcap.Billions(t.Value),
		})
	}
	if len(table.Rows) > 0 {
		doc.Table(table)
	}

	if skipped := r.Skipped(); len(skipped) > 0 {
		doc.H2("Skipped")
		items := make([]string, 0, len(skipped))
		for _, t := range skipped {
			items = append(items, fmt.Sprintf("%s (%s): %v", md.Bold(t.Spec.Ticker), t.Spec.Name, t.Err))
		}
		doc.BulletList(items...)
	}

	return doc.String()
}
