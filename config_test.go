package marketcap

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDecodeConfig(t *testing.T) {
	input := `{"tickers": [
		{"ticker": "MSFT", "name": "Microsoft", "category": "Hyperscaler"},
		{"ticker": " ORCL "}
	]}`
	cfg, err := DecodeConfig(strings.NewReader(input))
	if err != nil {
		t.Fatalf("DecodeConfig() unexpected error = %v", err)
	}
	if len(cfg.Tickers) != 2 {
		t.Fatalf("DecodeConfig() got %d tickers want 2", len(cfg.Tickers))
	}
	if got, want := cfg.Tickers[0], (TickerSpec{"MSFT", "Microsoft", "Hyperscaler"}); got != want {
		t.Errorf("DecodeConfig() tickers[0] = %+v want %+v", got, want)
	}
	if got, want := cfg.Tickers[1], (TickerSpec{"ORCL", "ORCL", DefaultCategory}); got != want {
		t.Errorf("DecodeConfig() tickers[1] = %+v want %+v", got, want)
	}
}

func TestDecodeConfig_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		input   string
		wantErr string
	}{
		{"not json", `tickers: [MSFT]`, "invalid config"},
		{"no tickers", `{"tickers": []}`, "no tickers found"},
		{"missing key", `{}`, "no tickers found"},
		{"empty symbol", `{"tickers": [{"name": "Nobody"}]}`, "has no symbol"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeConfig(strings.NewReader(tc.input))
			if err == nil {
				t.Fatalf("DecodeConfig() expected an error, but got none")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("DecodeConfig() error = %q, want to contain %q", err, tc.wantErr)
			}
		})
	}
}

func TestDecodeYAMLConfig(t *testing.T) {
	input := `
tickers:
  - ticker: MSFT
    name: Microsoft
    category: Hyperscaler
  - ticker: CRWV
`
	cfg, err := DecodeYAMLConfig(strings.NewReader(input))
	if err != nil {
		t.Fatalf("DecodeYAMLConfig() unexpected error = %v", err)
	}
	want := []TickerSpec{
		{Ticker: "MSFT", Name: "Microsoft", Category: "Hyperscaler"},
		{Ticker: "CRWV", Name: "CRWV", Category: DefaultCategory},
	}
	if diff := cmp.Diff(want, cfg.Tickers); diff != "" {
		t.Errorf("DecodeYAMLConfig() mismatch (-want +got):\n%s", diff)
	}

	if _, err := DecodeYAMLConfig(strings.NewReader("")); err == nil {
		t.Error("DecodeYAMLConfig() of an empty document expected an error")
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	for name, content := range map[string]string{
		"tickers.json": `{"tickers": [{"ticker": "MSFT"}]}`,
		"tickers.yaml": "tickers:\n  - ticker: MSFT\n",
	} {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		cfg, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig(%s) unexpected error = %v", name, err)
		}
		if len(cfg.Tickers) != 1 || cfg.Tickers[0].Ticker != "MSFT" {
			t.Errorf("LoadConfig(%s) = %+v", name, cfg.Tickers)
		}
	}
	if _, err := LoadConfig(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("LoadConfig() of a missing file expected an error")
	}
}
