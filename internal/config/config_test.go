package config

import (
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	path := filepath.Join("testdata", "config.yaml")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.App.Name != "backtester-test" {
		t.Fatalf("unexpected App.Name: %s", cfg.App.Name)
	}
	if cfg.App.LogLevel != "debug" {
		t.Fatalf("unexpected App.LogLevel: %s", cfg.App.LogLevel)
	}
	if cfg.Backtest.InitialCapital != 50000 {
		t.Fatalf("unexpected initial capital: %.2f", cfg.Backtest.InitialCapital)
	}
	if cfg.Backtest.CostModel.FlatFee != 1.5 {
		t.Fatalf("unexpected flat fee: %.2f", cfg.Backtest.CostModel.FlatFee)
	}
	if cfg.Backtest.CostModel.BpsSpread != 5 {
		t.Fatalf("unexpected spread: %.2f", cfg.Backtest.CostModel.BpsSpread)
	}
	if !cfg.Backtest.AllowShort {
		t.Fatalf("expected shorting enabled")
	}
	if cfg.Backtest.MaxLeverage != 2 {
		t.Fatalf("unexpected max leverage: %.2f", cfg.Backtest.MaxLeverage)
	}
	if cfg.Backtest.MinTradeNotional != 25 {
		t.Fatalf("unexpected min trade notional: %.2f", cfg.Backtest.MinTradeNotional)
	}
	if cfg.Backtest.RiskFreeRate != 0.02 {
		t.Fatalf("unexpected risk-free rate: %.4f", cfg.Backtest.RiskFreeRate)
	}
	if cfg.Backtest.AnnualizationPeriods != 252 {
		t.Fatalf("unexpected annualization periods: %d", cfg.Backtest.AnnualizationPeriods)
	}
	if cfg.Strategy.Mode != "momentum" {
		t.Fatalf("unexpected strategy mode: %s", cfg.Strategy.Mode)
	}
	if cfg.Strategy.Params.Lookback != 10 {
		t.Fatalf("unexpected lookback: %d", cfg.Strategy.Params.Lookback)
	}
	if cfg.Strategy.Params.TopN != 2 {
		t.Fatalf("unexpected top_n: %d", cfg.Strategy.Params.TopN)
	}
	if cfg.Strategy.Params.Threshold != 0.01 {
		t.Fatalf("unexpected threshold: %.4f", cfg.Strategy.Params.Threshold)
	}
	if cfg.Data.CSVPath != "prices.csv" {
		t.Fatalf("unexpected csv path: %s", cfg.Data.CSVPath)
	}
	if len(cfg.Data.Instruments) != 2 || cfg.Data.Instruments[0] != "AAPL" {
		t.Fatalf("unexpected instruments: %+v", cfg.Data.Instruments)
	}
	if cfg.Data.Seed != 7 {
		t.Fatalf("unexpected seed: %d", cfg.Data.Seed)
	}
	if cfg.Data.LedgerPath != "out/ledger.jsonl" {
		t.Fatalf("unexpected ledger path: %s", cfg.Data.LedgerPath)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	cfg, err := Load(filepath.Join("testdata", "config.yaml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	reloaded, err := Load(path)
	if err != nil {
		t.Fatalf("reload returned error: %v", err)
	}
	if reloaded.Backtest.InitialCapital != cfg.Backtest.InitialCapital {
		t.Fatalf("initial capital lost in round trip")
	}
	if reloaded.Strategy.Mode != cfg.Strategy.Mode {
		t.Fatalf("strategy mode lost in round trip")
	}
}

func TestValidate(t *testing.T) {
	good := Backtest{InitialCapital: 1000, MaxLeverage: 1}
	if err := good.Validate(); err != nil {
		t.Fatalf("unexpected error for valid config: %v", err)
	}

	cases := []Backtest{
		{InitialCapital: 0, MaxLeverage: 1},
		{InitialCapital: 1000, MaxLeverage: 0},
		{InitialCapital: 1000, MaxLeverage: 1, MinTradeNotional: -1},
		{InitialCapital: 1000, MaxLeverage: 1, CostModel: Costs{FlatFee: -1}},
		{InitialCapital: 1000, MaxLeverage: 1, AnnualizationPeriods: -252},
	}
	for i, c := range cases {
		if err := c.Validate(); err == nil {
			t.Fatalf("case %d: expected validation error", i)
		}
	}
}
