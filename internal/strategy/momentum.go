package strategy

import (
	"math"
	"sort"

	"github.com/stanford5667/advanced-portfolio-backtester2/internal/series"
)

// Momentum ranks instruments by their return over a lookback window and
// splits the portfolio equally across the strongest movers above a threshold.
// Until the window has filled it stays in cash.
type Momentum struct {
	lookback  int
	topN      int
	threshold float64
}

// NewMomentum builds a momentum strategy using lookback steps, portfolio
// breadth, and a minimum percent-change filter.
func NewMomentum(lookback, topN int, threshold float64) *Momentum {
	if lookback <= 0 {
		lookback = 20
	}
	if topN <= 0 {
		topN = 1
	}
	if threshold < 0 {
		threshold = 0
	}
	return &Momentum{lookback: lookback, topN: topN, threshold: threshold}
}

// Name returns the identifier for the strategy implementation.
func (m *Momentum) Name() string { return "Momentum" }

type ranked struct {
	inst   string
	change float64
}

// Generate longs the topN instruments whose lookback return clears the
// threshold, equal-weighted. Instruments that fall out of the ranking get an
// explicit zero so stale positions are closed.
func (m *Momentum) Generate(w series.Window) (map[string]float64, error) {
	targets := make(map[string]float64)
	if w.Len() <= m.lookback {
		return targets, nil
	}
	base := w.Len() - 1 - m.lookback

	var candidates []ranked
	for _, inst := range w.Instruments() {
		then, okThen := w.Price(base, inst)
		now, okNow := w.Price(w.Len()-1, inst)
		targets[inst] = 0
		if !okThen || !okNow || then <= 0 {
			continue
		}
		change := (now - then) / then
		if change < m.threshold || math.IsNaN(change) {
			continue
		}
		candidates = append(candidates, ranked{inst: inst, change: change})
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].change == candidates[j].change {
			return candidates[i].inst < candidates[j].inst
		}
		return candidates[i].change > candidates[j].change
	})
	if len(candidates) > m.topN {
		candidates = candidates[:m.topN]
	}
	if len(candidates) == 0 {
		return targets, nil
	}
	weight := 1.0 / float64(len(candidates))
	for _, c := range candidates {
		targets[c.inst] = weight
	}
	return targets, nil
}
