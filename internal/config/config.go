// Package config exposes strongly typed application configuration structs loaded from YAML.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// App captures process-wide runtime settings such as name, environment, metrics, and logging levels.
type App struct {
	Name        string `yaml:"name"`
	Env         string `yaml:"env"`
	MetricsAddr string `yaml:"metrics_addr"`
	LogLevel    string `yaml:"log_level"`
}

// Costs parameterizes the trade cost model: a flat fee per executed trade
// plus a proportional spread in basis points of the traded notional.
type Costs struct {
	FlatFee   float64 `yaml:"flat_fee"`
	BpsSpread float64 `yaml:"bps_spread"`
}

// Backtest groups every simulation knob the engine recognizes.
type Backtest struct {
	InitialCapital       float64 `yaml:"initial_capital"`
	CostModel            Costs   `yaml:"cost_model"`
	AllowShort           bool    `yaml:"allow_short"`
	MaxLeverage          float64 `yaml:"max_leverage"`
	MinTradeNotional     float64 `yaml:"min_trade_notional"`
	RiskFreeRate         float64 `yaml:"risk_free_rate"`
	AnnualizationPeriods int     `yaml:"annualization_periods"` // 0 infers cadence from timestamps
}

// StrategyParams groups tunable knobs for a strategy implementation.
type StrategyParams struct {
	Lookback  int     `yaml:"lookback"`
	TopN      int     `yaml:"top_n"`
	Threshold float64 `yaml:"threshold"`
}

// Strategy specifies which strategy is active along with the parameter bundle.
type Strategy struct {
	Mode   string         `yaml:"mode"`
	Params StrategyParams `yaml:"params"`
}

// Data points the cmd glue at a price source: a CSV export, or the seeded
// sample generator when no path is set.
type Data struct {
	CSVPath     string   `yaml:"csv_path"`
	Instruments []string `yaml:"instruments"`
	Steps       int      `yaml:"steps"`
	Seed        int64    `yaml:"seed"`
	ResultsPath string   `yaml:"results_path"`
	LedgerPath  string   `yaml:"ledger_path"`
}

// Config collects every configuration leaf for easy marshaling from YAML.
type Config struct {
	App      App      `yaml:"app"`
	Backtest Backtest `yaml:"backtest"`
	Strategy Strategy `yaml:"strategy"`
	Data     Data     `yaml:"data"`
}

// Load reads a YAML file from disk and hydrates a Config struct.
func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	var config Config
	if err := yaml.NewDecoder(file).Decode(&config); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	return &config, nil
}

// Save persists a Config struct to disk as YAML.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Validate rejects parameter combinations the engine refuses to start with.
func (b Backtest) Validate() error {
	if b.InitialCapital <= 0 {
		return fmt.Errorf("initial_capital must be positive, got %.2f", b.InitialCapital)
	}
	if b.MaxLeverage < 1 {
		return fmt.Errorf("max_leverage must be >= 1, got %.2f", b.MaxLeverage)
	}
	if b.MinTradeNotional < 0 {
		return fmt.Errorf("min_trade_notional must be >= 0, got %.2f", b.MinTradeNotional)
	}
	if b.CostModel.FlatFee < 0 || b.CostModel.BpsSpread < 0 {
		return fmt.Errorf("cost model fees must be >= 0")
	}
	if b.AnnualizationPeriods < 0 {
		return fmt.Errorf("annualization_periods must be >= 0, got %d", b.AnnualizationPeriods)
	}
	return nil
}
