package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/stanford5667/advanced-portfolio-backtester2/internal/analytics"
	"github.com/stanford5667/advanced-portfolio-backtester2/internal/config"
	"github.com/stanford5667/advanced-portfolio-backtester2/internal/engine"
	"github.com/stanford5667/advanced-portfolio-backtester2/internal/metrics"
	"github.com/stanford5667/advanced-portfolio-backtester2/internal/series"
	"github.com/stanford5667/advanced-portfolio-backtester2/internal/strategy"
	"github.com/stanford5667/advanced-portfolio-backtester2/internal/util"
)

func main() {
	_ = godotenv.Load()

	path := os.Getenv("BACKTEST_CONFIG")
	if path == "" {
		path = "internal/config/config.yaml"
	}

	cfg, err := config.Load(path)
	if err != nil {
		lg := util.NewLogger("info")
		lg.Fatal().Err(err).Msg("load config")
	}
	log := util.NewLogger(cfg.App.LogLevel)

	if err := cfg.Backtest.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid backtest config")
	}

	if cfg.App.MetricsAddr != "" {
		_ = metrics.Serve(cfg.App.MetricsAddr)
		log.Info().Str("addr", cfg.App.MetricsAddr).Msg("metrics up")
	}

	prices, err := loadSeries(cfg.Data)
	if err != nil {
		log.Fatal().Err(err).Msg("load price series")
	}

	strat := strategy.Build(cfg.Strategy.Mode, strategy.Params{
		Lookback:  cfg.Strategy.Params.Lookback,
		TopN:      cfg.Strategy.Params.TopN,
		Threshold: cfg.Strategy.Params.Threshold,
	})

	eng, err := engine.New(engine.Options{
		InitialCapital: cfg.Backtest.InitialCapital,
		Costs: engine.CostModel{
			FlatFee:   cfg.Backtest.CostModel.FlatFee,
			BpsSpread: cfg.Backtest.CostModel.BpsSpread,
		},
		Limits: engine.Limits{
			AllowShort:       cfg.Backtest.AllowShort,
			MaxLeverage:      cfg.Backtest.MaxLeverage,
			MinTradeNotional: cfg.Backtest.MinTradeNotional,
		},
		RiskFreeRate:         cfg.Backtest.RiskFreeRate,
		AnnualizationPeriods: cfg.Backtest.AnnualizationPeriods,
	}, log)
	if err != nil {
		log.Fatal().Err(err).Msg("build engine")
	}

	results, err := eng.Run(prices, strat)
	if err != nil {
		log.Fatal().Err(err).Msg("run backtest")
	}

	fmt.Print(summarize(results))

	if cfg.Data.ResultsPath != "" {
		if err := writeResults(cfg.Data.ResultsPath, results); err != nil {
			log.Error().Err(err).Msg("write results")
		} else {
			log.Info().Str("path", cfg.Data.ResultsPath).Msg("results written")
		}
	}
	if cfg.Data.LedgerPath != "" {
		recorder, err := engine.NewJSONLRecorder(cfg.Data.LedgerPath)
		if err != nil {
			log.Error().Err(err).Msg("open ledger recorder")
		} else {
			recorder.RecordAll(results.Ledger)
			_ = recorder.Close()
			log.Info().Str("path", cfg.Data.LedgerPath).Msg("ledger written")
		}
	}
}

func loadSeries(data config.Data) (*series.Series, error) {
	if data.CSVPath != "" {
		return series.LoadCSV(data.CSVPath)
	}
	instruments := data.Instruments
	if len(instruments) == 0 {
		instruments = []string{"AAPL", "MSFT", "GOOG"}
	}
	steps := data.Steps
	if steps <= 0 {
		steps = 252
	}
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	return series.Sample(instruments, steps, start, data.Seed), nil
}

func writeResults(path string, results *engine.Results) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func summarize(r *engine.Results) string {
	out := "\nPortfolio Performance Summary\n============================\n\n"
	out += fmt.Sprintf("Strategy: %s\n\n", r.Strategy)
	out += "Returns:\n"
	out += fmt.Sprintf("- Total Return: %.2f%%\n", r.Metric(analytics.MetricTotalReturn)*100)
	out += fmt.Sprintf("- Annualized Return: %.2f%%\n\n", r.Metric(analytics.MetricAnnualizedReturn)*100)
	out += "Risk Metrics:\n"
	out += fmt.Sprintf("- Volatility: %.2f%%\n", r.Metric(analytics.MetricVolatility)*100)
	out += fmt.Sprintf("- Maximum Drawdown: %.2f%%\n", r.Metric(analytics.MetricMaxDrawdown)*100)
	out += fmt.Sprintf("- Value at Risk (95%%): %.2f%%\n\n", r.Metric(analytics.MetricVaR95)*100)
	out += "Risk-Adjusted Metrics:\n"
	out += fmt.Sprintf("- Sharpe Ratio: %.2f\n", r.Metric(analytics.MetricSharpe))
	out += fmt.Sprintf("- Sortino Ratio: %.2f\n", r.Metric(analytics.MetricSortino))
	out += fmt.Sprintf("- Calmar Ratio: %.2f\n\n", r.Metric(analytics.MetricCalmar))
	if len(r.FinalWeights) > 0 {
		out += "Portfolio Composition:\n"
		for inst, w := range r.FinalWeights {
			out += fmt.Sprintf("- %s: %.2f%%\n", inst, w*100)
		}
	}
	if len(r.Events) > 0 {
		out += fmt.Sprintf("\nRecorded Events: %d\n", len(r.Events))
	}
	return out
}
