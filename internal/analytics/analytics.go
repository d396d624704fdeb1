// Package analytics derives risk and performance statistics from an equity
// curve. Every function is pure: the curve is never mutated and repeated
// calls with the same inputs return identical values, so callers can re-run
// the same curve under different parameter sets.
package analytics

import (
	"math"
	"sort"
	"time"
)

// Point is one sample of the equity curve: total portfolio value at a step.
type Point struct {
	Ts     time.Time `json:"ts"`
	Equity float64   `json:"equity"`
}

// Params carries the knobs metrics depend on. RiskFreeRate is annual;
// PeriodsPerYear of 0 means infer the cadence from the curve's timestamps.
type Params struct {
	RiskFreeRate   float64
	PeriodsPerYear int
}

// Metric names used as keys of the computed map.
const (
	MetricTotalReturn      = "total_return"
	MetricAnnualizedReturn = "annualized_return"
	MetricVolatility       = "volatility"
	MetricSharpe           = "sharpe_ratio"
	MetricSortino          = "sortino_ratio"
	MetricMaxDrawdown      = "max_drawdown"
	MetricVaR95            = "var_95"
	MetricCalmar           = "calmar_ratio"
	MetricFinalEquity      = "final_equity"
)

// Compute rolls the full metric set off an equity curve. Statistics that are
// undefined for the given curve (zero variance, no downside periods) come
// back as NaN rather than an error.
func Compute(curve []Point, p Params) map[string]float64 {
	out := make(map[string]float64, 9)
	if len(curve) == 0 {
		return out
	}
	periods := p.PeriodsPerYear
	if periods <= 0 {
		periods = InferPeriodsPerYear(timestamps(curve))
	}
	rets := Returns(curve)
	rfPerPeriod := p.RiskFreeRate / float64(periods)

	total := TotalReturn(curve)
	annualized := AnnualizedReturn(total, len(curve), periods)
	maxDD := MaxDrawdown(curve)

	out[MetricTotalReturn] = total
	out[MetricAnnualizedReturn] = annualized
	out[MetricVolatility] = Volatility(rets, periods)
	out[MetricSharpe] = SharpeRatio(rets, rfPerPeriod, periods)
	out[MetricSortino] = SortinoRatio(rets, rfPerPeriod, periods)
	out[MetricMaxDrawdown] = maxDD
	out[MetricVaR95] = ValueAtRisk(rets, 0.95)
	out[MetricCalmar] = CalmarRatio(annualized, maxDD)
	out[MetricFinalEquity] = curve[len(curve)-1].Equity
	return out
}

// Returns computes the period return at each step i>0: equity[i]/equity[i-1]-1.
func Returns(curve []Point) []float64 {
	if len(curve) < 2 {
		return nil
	}
	out := make([]float64, 0, len(curve)-1)
	for i := 1; i < len(curve); i++ {
		prev := curve[i-1].Equity
		if prev == 0 {
			out = append(out, 0)
			continue
		}
		out = append(out, curve[i].Equity/prev-1)
	}
	return out
}

// TotalReturn is equity[last]/equity[0] - 1.
func TotalReturn(curve []Point) float64 {
	if len(curve) == 0 || curve[0].Equity == 0 {
		return math.NaN()
	}
	return curve[len(curve)-1].Equity/curve[0].Equity - 1
}

// AnnualizedReturn converts a total return over n samples at the given
// cadence into a compound annual rate.
func AnnualizedReturn(total float64, samples, periodsPerYear int) float64 {
	if samples < 2 || periodsPerYear <= 0 {
		return math.NaN()
	}
	years := float64(samples) / float64(periodsPerYear)
	return math.Pow(1+total, 1/years) - 1
}

// Volatility is the annualized sample standard deviation of period returns.
func Volatility(returns []float64, periodsPerYear int) float64 {
	return stdev(returns) * math.Sqrt(float64(periodsPerYear))
}

// SharpeRatio is mean excess period return over the standard deviation of
// period returns, scaled by sqrt of the annualization factor. NaN when the
// curve has no variance.
func SharpeRatio(returns []float64, rfPerPeriod float64, periodsPerYear int) float64 {
	sd := stdev(returns)
	if sd == 0 || math.IsNaN(sd) {
		return math.NaN()
	}
	excess := mean(returns) - rfPerPeriod
	return excess / sd * math.Sqrt(float64(periodsPerYear))
}

// SortinoRatio shares Sharpe's numerator but divides by the standard
// deviation of only the negative excess returns. When no period lands below
// the risk-free rate the statistic is undefined and reported as NaN.
func SortinoRatio(returns []float64, rfPerPeriod float64, periodsPerYear int) float64 {
	var downside []float64
	for _, r := range returns {
		if r-rfPerPeriod < 0 {
			downside = append(downside, r-rfPerPeriod)
		}
	}
	if len(downside) == 0 {
		return math.NaN()
	}
	sd := stdev(downside)
	if sd == 0 || math.IsNaN(sd) {
		return math.NaN()
	}
	excess := mean(returns) - rfPerPeriod
	return excess / sd * math.Sqrt(float64(periodsPerYear))
}

// MaxDrawdown is the deepest decline from a running peak, expressed as a
// non-positive fraction. A non-decreasing curve scores exactly 0.
func MaxDrawdown(curve []Point) float64 {
	if len(curve) == 0 {
		return math.NaN()
	}
	peak := curve[0].Equity
	worst := 0.0
	for _, pt := range curve {
		if pt.Equity > peak {
			peak = pt.Equity
		}
		if peak == 0 {
			continue
		}
		dd := pt.Equity/peak - 1
		if dd < worst {
			worst = dd
		}
	}
	return worst
}

// ValueAtRisk is the historical VaR at the given confidence: the
// (1-confidence) quantile of the period-return distribution, reported signed
// (a loss quantile is negative).
func ValueAtRisk(returns []float64, confidence float64) float64 {
	return Percentile(returns, 1-confidence)
}

// Percentile computes the q-quantile (q in [0,1]) of xs using linear
// interpolation between order statistics at rank q*(n-1).
func Percentile(xs []float64, q float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)

	rank := q * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo < 0 {
		return sorted[0]
	}
	if hi >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	frac := rank - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

// CalmarRatio is annualized return over the magnitude of max drawdown, 0 when
// the curve never drew down.
func CalmarRatio(annualized, maxDrawdown float64) float64 {
	if maxDrawdown == 0 {
		return 0
	}
	return annualized / math.Abs(maxDrawdown)
}

// InferPeriodsPerYear guesses the sampling cadence from median timestamp
// spacing: hourly, daily (252 trading days), weekly, monthly, or yearly.
func InferPeriodsPerYear(ts []time.Time) int {
	if len(ts) < 2 {
		return 252
	}
	deltas := make([]time.Duration, 0, len(ts)-1)
	for i := 1; i < len(ts); i++ {
		deltas = append(deltas, ts[i].Sub(ts[i-1]))
	}
	sort.Slice(deltas, func(i, j int) bool { return deltas[i] < deltas[j] })
	median := deltas[len(deltas)/2]

	switch {
	case median <= 2*time.Hour:
		return 24 * 365
	case median <= 2*24*time.Hour:
		return 252
	case median <= 8*24*time.Hour:
		return 52
	case median <= 40*24*time.Hour:
		return 12
	default:
		return 1
	}
}

func timestamps(curve []Point) []time.Time {
	out := make([]time.Time, len(curve))
	for i, pt := range curve {
		out[i] = pt.Ts
	}
	return out
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// stdev is the sample standard deviation (n-1 denominator); NaN for fewer
// than two samples.
func stdev(xs []float64) float64 {
	if len(xs) < 2 {
		return math.NaN()
	}
	m := mean(xs)
	var sum float64
	for _, x := range xs {
		d := x - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(xs)-1))
}
