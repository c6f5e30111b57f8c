package marketcap

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultCategory is the category of a ticker configured without one.
const DefaultCategory = "Unknown"

// TickerSpec is a ticker to pull, with the name and category written in the output.
type TickerSpec struct {
	Ticker   string `json:"ticker" yaml:"ticker"`
	Name     string `json:"name,omitempty" yaml:"name,omitempty"`
	Category string `json:"category,omitempty" yaml:"category,omitempty"`
}

// Config is the list of tickers to pull.
type Config struct {
	Tickers []TickerSpec `json:"tickers" yaml:"tickers"`
}

// DecodeConfig reads a JSON config and applies defaults: the name defaults to
// the ticker and the category to DefaultCategory.
func DecodeConfig(r io.Reader) (*Config, error) {
	var cfg Config
	if err := json.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg.withDefaults()
}

// DecodeYAMLConfig is like DecodeConfig for a YAML document.
func DecodeYAMLConfig(r io.Reader) (*Config, error) {
	var cfg Config
	if err := yaml.NewDecoder(r).Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg.withDefaults()
}

func (cfg Config) withDefaults() (*Config, error) {
	if len(cfg.Tickers) == 0 {
		return nil, fmt.Errorf("invalid config: no tickers found")
	}
	for i := range cfg.Tickers {
		t := &cfg.Tickers[i]
		t.Ticker = strings.TrimSpace(t.Ticker)
		if t.Ticker == "" {
			return nil, fmt.Errorf("invalid config: ticker #%d has no symbol", i)
		}
		if t.Name == "" {
			t.Name = t.Ticker
		}
		if t.Category == "" {
			t.Category = DefaultCategory
		}
	}
	return &cfg, nil
}

// LoadConfig reads the config file at path. Files ending in .yaml or .yml are
// read as YAML, anything else as JSON.
func LoadConfig(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	decode := DecodeConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		decode = DecodeYAMLConfig
	}
	cfg, err := decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}
