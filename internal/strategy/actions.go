package strategy

import (
	"github.com/stanford5667/advanced-portfolio-backtester2/internal/series"
)

// Action is a discrete per-instrument trading signal for strategies that do
// not size positions themselves.
type Action int

const (
	// Hold leaves the current position untouched.
	Hold Action = iota
	// Buy enters or keeps a long allocation.
	Buy
	// Sell closes the position.
	Sell
)

// EqualWeight converts discrete actions into target weights: every Buy shares
// the portfolio equally, every Sell maps to an explicit zero, and Hold stays
// out of the map so the engine leaves the position alone.
func EqualWeight(actions map[string]Action) map[string]float64 {
	buys := 0
	for _, a := range actions {
		if a == Buy {
			buys++
		}
	}
	targets := make(map[string]float64, len(actions))
	for inst, a := range actions {
		switch a {
		case Buy:
			targets[inst] = 1.0 / float64(buys)
		case Sell:
			targets[inst] = 0
		}
	}
	return targets
}

// Fixed replays a precomputed per-step signal set. Its length is checked
// against the price series before a run starts, so a misaligned table aborts
// instead of silently truncating.
type Fixed struct {
	name    string
	entries []map[string]float64
}

// NewFixed wraps precomputed target-weight entries, one per time step.
func NewFixed(name string, entries []map[string]float64) *Fixed {
	if name == "" {
		name = "Fixed"
	}
	return &Fixed{name: name, entries: entries}
}

// Name returns the identifier supplied at construction.
func (f *Fixed) Name() string { return f.name }

// Len reports how many steps the signal set covers.
func (f *Fixed) Len() int { return len(f.entries) }

// Generate emits the entry matching the window's decision step.
func (f *Fixed) Generate(w series.Window) (map[string]float64, error) {
	idx := w.Len() - 1
	if idx < 0 || idx >= len(f.entries) {
		return map[string]float64{}, nil
	}
	return f.entries[idx], nil
}
