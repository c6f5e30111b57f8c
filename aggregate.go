package marketcap

import (
	"cmp"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/etnz/marketcap/date"
	"github.com/shopspring/decimal"
)

// csvHeader is the header of the output table.
var csvHeader = []string{"date", "name", "value", "category"}

// MarketCapPoint is a row of the output table.
type MarketCapPoint struct {
	Date     date.Date       // always a month-end
	Name     string          // display name of the ticker
	Value    decimal.Decimal // market cap in billions
	Category string
}

// Aggregate concatenates the series of successful outcomes into a single
// table, sorted with SortPoints. Negative values are dropped.
func Aggregate(outcomes []Outcome) []MarketCapPoint {
	var points []MarketCapPoint
	for _, o := range outcomes {
		if !o.OK() {
			continue
		}
		for on, v := range o.Series.Values() {
			if v.IsNegative() {
				continue
			}
			points = append(points, MarketCapPoint{
				Date:     on,
				Name:     o.Spec.Name,
				Value:    v,
				Category: o.Spec.Category,
			})
		}
	}
	SortPoints(points)
	return points
}

// SortPoints sorts by date ascending then value descending, so that every
// month reads in rank order. Ties are broken by name.
func SortPoints(points []MarketCapPoint) {
	slices.SortStableFunc(points, func(a, b MarketCapPoint) int {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}
		if c := b.Value.Cmp(a.Value); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
}

// EncodeCSV writes the points as a `date,name,value,category` table.
func EncodeCSV(w io.Writer, points []MarketCapPoint) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, p := range points {
		if err := cw.Write([]string{p.Date.String(), p.Name, p.Value.String(), p.Category}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// DecodeCSV reads a table written by EncodeCSV, columns may be in any order.
//
// Rows whose date is not a valid month-end, whose name is empty, or whose
// value is not a non-negative number are dropped and counted.
func DecodeCSV(r io.Reader) (points []MarketCapPoint, dropped int, err error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, 0, fmt.Errorf("empty csv: missing header %q", strings.Join(csvHeader, ","))
	}
	if err != nil {
		return nil, 0, err
	}
	col := make(map[string]int)
	for i, h := range header {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, h := range csvHeader {
		if _, ok := col[h]; !ok {
			return nil, 0, fmt.Errorf("invalid csv header %q: missing column %q", strings.Join(header, ","), h)
		}
	}

	field := func(record []string, name string) string {
		if i := col[name]; i < len(record) {
			return strings.TrimSpace(record[i])
		}
		return ""
	}

	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, dropped, err
		}
		on, err := date.Parse(field(record, "date"))
		if err != nil || on != on.EndOf(date.Monthly) {
			dropped++
			continue
		}
		value, err := decimal.NewFromString(field(record, "value"))
		if err != nil || value.IsNegative() {
			dropped++
			continue
		}
		name := field(record, "name")
		if name == "" {
			dropped++
			continue
		}
		points = append(points, MarketCapPoint{Date: on, Name: name, Value: value, Category: field(record, "category")})
	}
	return points, dropped, nil
}

// WriteCSVFile writes the points into path, creating parent folders as needed.
func WriteCSVFile(path string, points []MarketCapPoint) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := EncodeCSV(f, points); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}
