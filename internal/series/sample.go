package series

import (
	"math"
	"math/rand"
	"time"
)

// Sample generates a deterministic synthetic daily price table for demos and
// tests: a geometric walk with mild drift per instrument, seeded so repeated
// runs produce identical data.
func Sample(instruments []string, steps int, start time.Time, seed int64) *Series {
	if steps <= 0 {
		steps = 252
	}
	rng := rand.New(rand.NewSource(seed))

	levels := make(map[string]float64, len(instruments))
	for _, inst := range instruments {
		levels[inst] = 50 + rng.Float64()*200
	}

	out := make([]Step, 0, steps)
	for i := 0; i < steps; i++ {
		prices := make(map[string]float64, len(instruments))
		for _, inst := range instruments {
			ret := rng.NormFloat64()*0.02 + 0.0005
			levels[inst] *= math.Exp(ret)
			prices[inst] = levels[inst]
		}
		out = append(out, Step{Ts: start.AddDate(0, 0, i), Prices: prices})
	}

	s, err := New(out)
	if err != nil {
		// the generator only emits positive prices and increasing dates
		panic(err)
	}
	return s
}
