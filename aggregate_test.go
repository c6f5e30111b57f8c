package marketcap

import (
	"bytes"
	"strings"
	"testing"

	"github.com/etnz/marketcap/date"
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
)

// rows renders points as CSV records for easy comparison.
func rows(points []MarketCapPoint) []string {
	var r []string
	for _, p := range points {
		r = append(r, strings.Join([]string{p.Date.String(), p.Name, p.Value.String(), p.Category}, ","))
	}
	return r
}

func series(values map[string]string) *date.History[decimal.Decimal] {
	h := new(date.History[decimal.Decimal])
	for on, v := range values {
		h.Append(date.MustParse(on), decimal.RequireFromString(v))
	}
	return h
}

func TestAggregate(t *testing.T) {
	outcomes := []Outcome{
		{
			Spec:   TickerSpec{Ticker: "AMZN", Name: "Amazon", Category: "Hyperscaler"},
			Series: series(map[string]string{"2024-01-31": "1600", "2024-02-29": "1800"}),
		},
		{
			Spec: TickerSpec{Ticker: "ORCL", Name: "Oracle", Category: "Cloud"},
			Err:  ErrNoData,
		},
		{
			Spec:   TickerSpec{Ticker: "MSFT", Name: "Microsoft", Category: "Hyperscaler"},
			Series: series(map[string]string{"2024-02-29": "3000", "2024-01-31": "1500", "2024-03-31": "-1"}),
		},
		{
			Spec:   TickerSpec{Ticker: "GOOG", Name: "Alphabet", Category: "Hyperscaler"},
			Series: series(map[string]string{"2024-01-31": "1600"}),
		},
	}

	want := []string{
		"2024-01-31,Alphabet,1600,Hyperscaler",
		"2024-01-31,Amazon,1600,Hyperscaler",
		"2024-01-31,Microsoft,1500,Hyperscaler",
		"2024-02-29,Microsoft,3000,Hyperscaler",
		"2024-02-29,Amazon,1800,Hyperscaler",
	}
	if diff := cmp.Diff(want, rows(Aggregate(outcomes))); diff != "" {
		t.Errorf("Aggregate() mismatch (-want +got):\n%s", diff)
	}
}

func TestAggregate_OneRowPerMonth(t *testing.T) {
	daily := new(date.History[decimal.Decimal])
	for d := date.MustParse("2023-01-01"); d.Before(date.MustParse("2024-01-01")); d = d.Add(1) {
		daily.Append(d, decimal.NewFromInt(int64(d.Day())))
	}
	outcomes := []Outcome{{
		Spec:   TickerSpec{Ticker: "X", Name: "X"},
		Series: daily.Resample(date.Monthly),
	}}
	points := Aggregate(outcomes)
	if len(points) != 12 {
		t.Fatalf("Aggregate() returned %d rows want 12", len(points))
	}
	seen := make(map[string]bool)
	for _, p := range points {
		if p.Date != p.Date.EndOf(date.Monthly) {
			t.Errorf("row dated %v is not a month-end", p.Date)
		}
		month := p.Date.Format("2006-01")
		if seen[month] {
			t.Errorf("month %s appears twice", month)
		}
		seen[month] = true
	}
}

func TestDecodeCSV(t *testing.T) {
	input := `category,date,name,value
Hyperscaler,2024-01-31,Microsoft,3000.5
Hyperscaler,2024-01-31,Amazon,n/a
Hyperscaler,2024-01-15,Alphabet,1500
Hyperscaler,2024-01-31,Meta,-3
Hyperscaler,2024-02-29,,12
Hyperscaler,not-a-date,Nvidia,12
Cloud,2024-02-29,Oracle,350
`
	points, dropped, err := DecodeCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("DecodeCSV() unexpected error = %v", err)
	}
	if dropped != 5 {
		t.Errorf("DecodeCSV() dropped %d rows want 5", dropped)
	}
	want := []string{
		"2024-01-31,Microsoft,3000.5,Hyperscaler",
		"2024-02-29,Oracle,350,Cloud",
	}
	if diff := cmp.Diff(want, rows(points)); diff != "" {
		t.Errorf("DecodeCSV() mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeCSV_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		input   string
		wantErr string
	}{
		{"empty", "", "empty csv"},
		{"missing column", "date,name,category\n2024-01-31,A,B\n", `missing column "value"`},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := DecodeCSV(strings.NewReader(tc.input))
			if err == nil {
				t.Fatalf("DecodeCSV() expected an error, but got none")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("DecodeCSV() error = %q, want to contain %q", err, tc.wantErr)
			}
		})
	}
}

func TestEncodeDecodeCSV(t *testing.T) {
	points := []MarketCapPoint{
		{Date: date.MustParse("2024-01-31"), Name: "Meta, Inc.", Value: decimal.RequireFromString("1012.25"), Category: "Social"},
	}
	var buf bytes.Buffer
	if err := EncodeCSV(&buf, points); err != nil {
		t.Fatalf("EncodeCSV() unexpected error = %v", err)
	}
	got, dropped, err := DecodeCSV(&buf)
	if err != nil || dropped != 0 {
		t.Fatalf("DecodeCSV() = %v dropped, error %v", dropped, err)
	}
	if diff := cmp.Diff(rows(points), rows(got)); diff != "" {
		t.Errorf("DecodeCSV(EncodeCSV()) mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteCSVFile(t *testing.T) {
	path := t.TempDir() + "/data/processed/out.csv"
	if err := WriteCSVFile(path, nil); err != nil {
		t.Fatalf("WriteCSVFile() unexpected error = %v", err)
	}
}
