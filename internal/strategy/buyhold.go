package strategy

import (
	"github.com/stanford5667/advanced-portfolio-backtester2/internal/series"
)

// BuyAndHold targets an equal weight across every quoted instrument at every
// step. With a single instrument this is the classic all-in-at-step-zero
// portfolio: after the first fill the target always matches the held exposure,
// so no further trades fire.
type BuyAndHold struct{}

// NewBuyAndHold builds the zero-parameter buy-and-hold strategy.
func NewBuyAndHold() *BuyAndHold { return &BuyAndHold{} }

// Name returns the identifier for the strategy implementation.
func (b *BuyAndHold) Name() string { return "BuyAndHold" }

// Generate targets 1/n for each instrument quoted at the current step.
func (b *BuyAndHold) Generate(w series.Window) (map[string]float64, error) {
	last := w.Last()
	if len(last.Prices) == 0 {
		return map[string]float64{}, nil
	}
	weight := 1.0 / float64(len(last.Prices))
	targets := make(map[string]float64, len(last.Prices))
	for inst := range last.Prices {
		targets[inst] = weight
	}
	return targets, nil
}
