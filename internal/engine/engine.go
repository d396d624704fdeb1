// Package engine simulates holding and rebalancing a portfolio over a price
// series, producing a ledger, an equity curve, and derived metrics.
package engine

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/rs/zerolog"

	"github.com/stanford5667/advanced-portfolio-backtester2/internal/analytics"
	"github.com/stanford5667/advanced-portfolio-backtester2/internal/metrics"
	"github.com/stanford5667/advanced-portfolio-backtester2/internal/series"
	"github.com/stanford5667/advanced-portfolio-backtester2/internal/strategy"
)

const epsilon = 1e-9

// ErrConfiguration rejects a run before it starts: bad capital, leverage, or
// cost parameters.
var ErrConfiguration = errors.New("invalid configuration")

// ErrAlignment rejects a run whose signal set does not correspond one-to-one
// with the price series steps.
var ErrAlignment = errors.New("signals misaligned with price series")

// CostModel maps a trade's notional value to a simulated execution cost:
// a flat fee per trade plus a proportional spread in basis points.
type CostModel struct {
	FlatFee   float64
	BpsSpread float64
}

// Charge returns the cost of trading the given notional. A zero notional
// costs nothing.
func (c CostModel) Charge(notional float64) float64 {
	if notional == 0 {
		return 0
	}
	return c.FlatFee + math.Abs(notional)*c.BpsSpread/10000
}

// Limits encodes the sizing constraints applied to every rebalance.
type Limits struct {
	AllowShort       bool
	MaxLeverage      float64
	MinTradeNotional float64
}

// Options bundles every knob a single run depends on. No process-wide state:
// two engines with different options never interact.
type Options struct {
	InitialCapital       float64
	Costs                CostModel
	Limits               Limits
	RiskFreeRate         float64
	AnnualizationPeriods int // 0 infers cadence from the series timestamps
}

// Engine runs sequential backtests under a fixed option set.
type Engine struct {
	opts Options
	log  zerolog.Logger
}

// New validates options and constructs an engine. Validation failures wrap
// ErrConfiguration and mean the run never starts.
func New(opts Options, log zerolog.Logger) (*Engine, error) {
	if opts.InitialCapital <= 0 {
		return nil, fmt.Errorf("%w: initial capital %.2f must be positive", ErrConfiguration, opts.InitialCapital)
	}
	if opts.Limits.MaxLeverage < 1 {
		return nil, fmt.Errorf("%w: max leverage %.2f must be >= 1", ErrConfiguration, opts.Limits.MaxLeverage)
	}
	if opts.Limits.MinTradeNotional < 0 {
		return nil, fmt.Errorf("%w: min trade notional %.2f must be >= 0", ErrConfiguration, opts.Limits.MinTradeNotional)
	}
	if opts.Costs.FlatFee < 0 || opts.Costs.BpsSpread < 0 {
		return nil, fmt.Errorf("%w: cost model fees must be >= 0", ErrConfiguration)
	}
	if opts.AnnualizationPeriods < 0 {
		return nil, fmt.Errorf("%w: annualization periods %d must be >= 0", ErrConfiguration, opts.AnnualizationPeriods)
	}
	return &Engine{opts: opts, log: log}, nil
}

// sized is satisfied by generators that replay a precomputed signal table and
// therefore know how many steps they cover.
type sized interface {
	Len() int
}

// Run advances the simulation one step at a time over the full series and
// returns the results. Per-step anomalies (invalid signals, missing prices,
// infeasible trades) are recovered locally and recorded as events; only
// alignment problems abort, and they abort before the first step.
func (e *Engine) Run(s *series.Series, gen strategy.Generator) (*Results, error) {
	if s == nil || s.Len() == 0 {
		return nil, fmt.Errorf("%w: empty price series", ErrAlignment)
	}
	if fixed, ok := gen.(sized); ok && fixed.Len() != s.Len() {
		return nil, fmt.Errorf("%w: %d signal entries for %d price steps", ErrAlignment, fixed.Len(), s.Len())
	}

	e.log.Info().Str("strategy", gen.Name()).Int("steps", s.Len()).Msg("backtest started")

	cash := e.opts.InitialCapital
	positions := make(map[string]Position)
	lastKnown := make(map[string]float64)
	ledger := NewLedger(s.Len())
	curve := make([]analytics.Point, 0, s.Len())
	var events []Event
	instruments := s.Instruments()

	for i := 0; i < s.Len(); i++ {
		step := s.At(i)

		// Materialize this step's marks, carrying forward the last known
		// price for anything not quoted.
		marks := make(map[string]float64, len(instruments))
		for _, inst := range instruments {
			if px, ok := step.Prices[inst]; ok {
				lastKnown[inst] = px
				marks[inst] = px
				continue
			}
			if px, ok := lastKnown[inst]; ok {
				marks[inst] = px
				events = append(events, Event{
					Step: i, Ts: step.Ts, Kind: EventDataQuality, Instrument: inst,
					Detail: "price missing, carried forward last known quote",
				})
				metrics.DataWarningsTotal.Inc()
				e.log.Warn().Int("step", i).Str("inst", inst).Msg("price missing, carrying forward")
			}
		}

		equity, _ := Valuation(cash, positions, marks)

		targets, err := gen.Generate(s.Window(i))
		if bad := invalidTarget(targets, err); bad != "" {
			events = append(events, Event{Step: i, Ts: step.Ts, Kind: EventInvalidSignal, Detail: bad})
			metrics.SignalErrorsTotal.Inc()
			e.log.Warn().Int("step", i).Str("reason", bad).Msg("invalid signal, holding")
			targets = nil
		}

		var realizedDelta, stepCost float64
		if len(targets) > 0 && equity > 0 {
			realizedDelta, stepCost, cash = e.rebalance(i, step, targets, marks, positions, cash, equity, &events)
		}

		ledger.Append(Entry{
			Step:          i,
			Ts:            step.Ts,
			Cash:          cash,
			Positions:     clonePositions(positions),
			RealizedDelta: realizedDelta,
			Cost:          stepCost,
		})
		marked, _ := Valuation(cash, positions, marks)
		curve = append(curve, analytics.Point{Ts: step.Ts, Equity: marked})
		metrics.StepsTotal.Inc()
	}

	finalMarks := make(map[string]float64, len(lastKnown))
	for inst, px := range lastKnown {
		finalMarks[inst] = px
	}
	results := newResults(gen.Name(), curve, ledger, events, positions, finalMarks, analytics.Params{
		RiskFreeRate:   e.opts.RiskFreeRate,
		PeriodsPerYear: e.opts.AnnualizationPeriods,
	})
	metrics.RunsTotal.WithLabelValues(gen.Name()).Inc()
	e.log.Info().Str("strategy", gen.Name()).
		Float64("final_equity", curve[len(curve)-1].Equity).
		Int("events", len(events)).
		Msg("backtest complete")
	return results, nil
}

// rebalance executes one step's trades in ascending instrument order so runs
// are reproducible when instruments compete for limited cash. Returns the
// realized PnL delta, the total cost charged, and the updated cash balance.
func (e *Engine) rebalance(stepIdx int, step series.Step, targets, marks map[string]float64, positions map[string]Position, cash, equity float64, events *[]Event) (float64, float64, float64) {
	limits := e.opts.Limits

	// Constraint pre-pass: clamp forbidden shorts, then scale the whole
	// vector down if gross exposure would exceed the leverage cap.
	clamped := make(map[string]float64, len(targets))
	gross := 0.0
	for inst, w := range targets {
		if w < 0 && !limits.AllowShort {
			e.log.Warn().Int("step", stepIdx).Str("inst", inst).Float64("weight", w).Msg("short target clamped, shorting disabled")
			w = 0
		}
		clamped[inst] = w
		gross += math.Abs(w)
	}
	if gross > limits.MaxLeverage {
		scale := limits.MaxLeverage / gross
		for inst := range clamped {
			clamped[inst] *= scale
		}
	}

	order := make([]string, 0, len(clamped))
	for inst := range clamped {
		order = append(order, inst)
	}
	sort.Strings(order)

	var realizedDelta, stepCost float64
	for _, inst := range order {
		px, ok := marks[inst]
		if !ok || px <= 0 {
			if clamped[inst] != 0 {
				*events = append(*events, Event{
					Step: stepIdx, Ts: step.Ts, Kind: EventDataQuality, Instrument: inst,
					Detail: "no price available, target skipped",
				})
			}
			continue
		}
		pos := positions[inst]
		delta := clamped[inst]*equity - pos.Qty*px
		if math.Abs(delta) <= epsilon || math.Abs(delta) < limits.MinTradeNotional {
			continue
		}
		cost := e.opts.Costs.Charge(delta)

		// With leverage capped at 1x, a buy can only spend the cash on hand:
		// scale it down to the feasible size instead of failing the step.
		// The feasible notional solves delta + Charge(delta) = cash.
		if delta > 0 && limits.MaxLeverage <= 1 && delta+cost > cash+epsilon {
			feasible := (cash - e.opts.Costs.FlatFee) / (1 + e.opts.Costs.BpsSpread/10000)
			if feasible <= epsilon {
				*events = append(*events, Event{
					Step: stepIdx, Ts: step.Ts, Kind: EventInsufficientCapital, Instrument: inst,
					Detail: fmt.Sprintf("no cash for %.2f buy, skipped", delta),
				})
				metrics.PartialFillsTotal.Inc()
				continue
			}
			*events = append(*events, Event{
				Step: stepIdx, Ts: step.Ts, Kind: EventInsufficientCapital, Instrument: inst,
				Detail: fmt.Sprintf("buy scaled to %.0f%% of %.2f target", feasible/delta*100, delta),
			})
			metrics.PartialFillsTotal.Inc()
			delta = feasible
			cost = e.opts.Costs.Charge(delta)
		}

		realizedDelta += applyFill(positions, inst, delta/px, px)
		cash -= delta + cost
		stepCost += cost
	}
	return realizedDelta, stepCost, cash
}

// applyFill mutates the position for inst by the signed share delta at the
// given price, maintaining a weighted-average cost basis on adds and
// realizing PnL on reductions. Returns the realized PnL of the fill.
func applyFill(positions map[string]Position, inst string, shares, px float64) float64 {
	pos := positions[inst]
	newQty := pos.Qty + shares
	if math.Abs(newQty) <= epsilon {
		newQty = 0
	}

	var realized float64
	switch {
	case pos.Qty == 0 || pos.Qty*shares > 0:
		// Fresh entry or add in the same direction: blend the basis.
		if newQty == 0 {
			return 0
		}
		basis := math.Abs(pos.Qty)*pos.AvgCost + math.Abs(shares)*px
		pos.AvgCost = basis / math.Abs(newQty)
		pos.Qty = newQty
	case newQty == 0 || pos.Qty*newQty > 0:
		// Full or partial reduction: realize on the closed quantity.
		realized = direction(pos.Qty) * (px - pos.AvgCost) * math.Abs(shares)
		pos.Qty = newQty
		if newQty == 0 {
			pos.AvgCost = 0
		}
	default:
		// Crossed through zero: close the old side, open the remainder fresh.
		realized = direction(pos.Qty) * (px - pos.AvgCost) * math.Abs(pos.Qty)
		pos.Qty = newQty
		pos.AvgCost = px
	}

	if pos.Qty == 0 {
		delete(positions, inst)
	} else {
		positions[inst] = pos
	}
	return realized
}

func direction(qty float64) float64 {
	if qty < 0 {
		return -1
	}
	return 1
}

// invalidTarget reports why a strategy output must be rejected, or "" when it
// is usable. NaN or infinite weights poison every downstream computation, so
// the whole step downgrades to a hold.
func invalidTarget(targets map[string]float64, err error) string {
	if err != nil {
		return fmt.Sprintf("strategy error: %v", err)
	}
	for inst, w := range targets {
		if math.IsNaN(w) || math.IsInf(w, 0) {
			return fmt.Sprintf("non-finite weight %v for %s", w, inst)
		}
	}
	return ""
}
