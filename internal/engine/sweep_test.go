package engine

import (
	"math"
	"testing"

	"github.com/rs/zerolog"

	"github.com/stanford5667/advanced-portfolio-backtester2/internal/analytics"
	"github.com/stanford5667/advanced-portfolio-backtester2/internal/strategy"
)

func TestSweepMatchesSerialRuns(t *testing.T) {
	prices := []float64{100, 104, 97, 109, 95, 112}
	s := singleSeries(t, "AAPL", prices)

	spreads := []float64{0, 10, 50}
	jobs := make([]Job, len(spreads))
	for i, bps := range spreads {
		opts := basicOptions(10000)
		opts.Costs = CostModel{BpsSpread: bps}
		jobs[i] = Job{
			Name:      "bps",
			Options:   opts,
			Series:    s,
			Generator: strategy.NewBuyAndHold(),
		}
	}

	outcomes := Sweep(jobs, zerolog.Nop())
	if len(outcomes) != len(jobs) {
		t.Fatalf("expected %d outcomes, got %d", len(jobs), len(outcomes))
	}

	for i, bps := range spreads {
		if outcomes[i].Err != nil {
			t.Fatalf("job %d returned error: %v", i, outcomes[i].Err)
		}
		opts := basicOptions(10000)
		opts.Costs = CostModel{BpsSpread: bps}
		eng := mustEngine(t, opts)
		serial, err := eng.Run(s, strategy.NewBuyAndHold())
		if err != nil {
			t.Fatalf("serial run %d returned error: %v", i, err)
		}
		got := outcomes[i].Results.Metric(analytics.MetricTotalReturn)
		want := serial.Metric(analytics.MetricTotalReturn)
		if math.Abs(got-want) > 1e-12 {
			t.Fatalf("job %d diverged from serial run: %.12f vs %.12f", i, got, want)
		}
	}
}

func TestSweepReportsBadConfig(t *testing.T) {
	s := singleSeries(t, "AAPL", []float64{100, 101})
	outcomes := Sweep([]Job{{
		Name:      "broken",
		Options:   Options{InitialCapital: -1, Limits: Limits{MaxLeverage: 1}},
		Series:    s,
		Generator: strategy.NewBuyAndHold(),
	}}, zerolog.Nop())

	if outcomes[0].Err == nil {
		t.Fatalf("expected configuration error surfaced in outcome")
	}
	if outcomes[0].Results != nil {
		t.Fatalf("failed job must not surface partial results")
	}
}
