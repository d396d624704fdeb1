// Package strategy contains signal generation logic wired into price windows.
package strategy

import (
	"strings"

	"github.com/stanford5667/advanced-portfolio-backtester2/internal/series"
)

// Generator defines behaviour shared by strategy implementations used by the
// engine. Generate is invoked once per time step with the price history up to
// and including that step; the returned map carries the target portfolio
// weight per instrument in [-1, 1]. Instruments absent from the map are left
// untouched (HOLD); an explicit zero closes the position.
type Generator interface {
	Generate(w series.Window) (map[string]float64, error)
	Name() string
}

// Params expresses tunable knobs required by strategy constructors.
type Params struct {
	Lookback  int
	TopN      int
	Threshold float64
}

// Build returns a strategy implementation matching the configured mode.
func Build(mode string, params Params) Generator {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", "hold", "buy_and_hold", "buyhold":
		return NewBuyAndHold()
	case "momentum", "trend":
		return NewMomentum(params.Lookback, params.TopN, params.Threshold)
	default:
		return NewBuyAndHold()
	}
}
