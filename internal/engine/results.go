package engine

import (
	"bytes"
	"math"
	"strconv"

	"github.com/stanford5667/advanced-portfolio-backtester2/internal/analytics"
)

// Scalar is a metric value that survives a JSON round trip even when the
// statistic is undefined: NaN encodes as null and decodes back to NaN.
type Scalar float64

// MarshalJSON encodes finite values as numbers and non-finite ones as null.
func (s Scalar) MarshalJSON() ([]byte, error) {
	f := float64(s)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(f, 'g', -1, 64)), nil
}

// UnmarshalJSON decodes null back into NaN.
func (s *Scalar) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*s = Scalar(math.NaN())
		return nil
	}
	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return err
	}
	*s = Scalar(f)
	return nil
}

// Results is the final output of a run: the equity curve, the named metric
// map, the recorded anomaly events, the full ledger, and the final portfolio
// weights. Immutable once returned; serializing it to JSON and back loses
// nothing.
type Results struct {
	Strategy     string             `json:"strategy"`
	Curve        []analytics.Point  `json:"equity_curve"`
	Metrics      map[string]Scalar  `json:"metrics"`
	Events       []Event            `json:"events,omitempty"`
	Ledger       []Entry            `json:"ledger,omitempty"`
	FinalWeights map[string]float64 `json:"final_weights,omitempty"`
}

func newResults(strategyName string, curve []analytics.Point, ledger *Ledger, events []Event, positions map[string]Position, marks map[string]float64, params analytics.Params) *Results {
	computed := analytics.Compute(curve, params)
	scalars := make(map[string]Scalar, len(computed))
	for name, v := range computed {
		scalars[name] = Scalar(v)
	}

	var weights map[string]float64
	_, exposure := Valuation(0, positions, marks)
	if last := curve[len(curve)-1].Equity; len(exposure) > 0 && last > 0 {
		weights = make(map[string]float64, len(exposure))
		for inst, value := range exposure {
			weights[inst] = value / last
		}
	}

	return &Results{
		Strategy:     strategyName,
		Curve:        curve,
		Metrics:      scalars,
		Events:       events,
		Ledger:       ledger.Snapshot(),
		FinalWeights: weights,
	}
}

// Metric returns the named metric as a float64, NaN when absent.
func (r *Results) Metric(name string) float64 {
	v, ok := r.Metrics[name]
	if !ok {
		return math.NaN()
	}
	return float64(v)
}
