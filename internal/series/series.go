// Package series standardizes the price table shared between data loading and the simulation layers.
package series

import (
	"fmt"
	"sort"
	"time"
)

// Step models one time slice of the table: a timestamp plus the adjusted
// close for every instrument quoted at that step. An instrument absent from
// Prices is explicitly missing at that step.
type Step struct {
	Ts     time.Time
	Prices map[string]float64
}

// Series is an immutable, time-ordered table of adjusted prices per
// instrument. The engine borrows it for the duration of a run and never
// mutates it.
type Series struct {
	instruments []string
	steps       []Step
}

// New validates and freezes a sequence of steps into a Series. Timestamps
// must be strictly increasing and every quoted price must be positive.
func New(steps []Step) (*Series, error) {
	if len(steps) == 0 {
		return nil, fmt.Errorf("series: no steps")
	}
	seen := make(map[string]bool)
	for i, st := range steps {
		if i > 0 && !st.Ts.After(steps[i-1].Ts) {
			return nil, fmt.Errorf("series: timestamps not strictly increasing at step %d", i)
		}
		for inst, px := range st.Prices {
			if inst == "" {
				return nil, fmt.Errorf("series: empty instrument identifier at step %d", i)
			}
			if px <= 0 {
				return nil, fmt.Errorf("series: non-positive price %.6f for %s at step %d", px, inst, i)
			}
			seen[inst] = true
		}
	}
	instruments := make([]string, 0, len(seen))
	for inst := range seen {
		instruments = append(instruments, inst)
	}
	sort.Strings(instruments)

	frozen := make([]Step, len(steps))
	for i, st := range steps {
		prices := make(map[string]float64, len(st.Prices))
		for inst, px := range st.Prices {
			prices[inst] = px
		}
		frozen[i] = Step{Ts: st.Ts, Prices: prices}
	}
	return &Series{instruments: instruments, steps: frozen}, nil
}

// Len returns the number of time steps.
func (s *Series) Len() int { return len(s.steps) }

// Instruments returns the identifiers covered by the series, ascending.
func (s *Series) Instruments() []string {
	out := make([]string, len(s.instruments))
	copy(out, s.instruments)
	return out
}

// At returns a copy of step i.
func (s *Series) At(i int) Step {
	st := s.steps[i]
	prices := make(map[string]float64, len(st.Prices))
	for inst, px := range st.Prices {
		prices[inst] = px
	}
	return Step{Ts: st.Ts, Prices: prices}
}

// Price reports the adjusted close for inst at step i and whether it is quoted.
func (s *Series) Price(i int, inst string) (float64, bool) {
	px, ok := s.steps[i].Prices[inst]
	return px, ok
}

// Window returns the history visible at step end: steps 0..end inclusive.
// Strategies only ever receive a Window, so future prices are unreachable.
func (s *Series) Window(end int) Window {
	if end < 0 || end >= len(s.steps) {
		panic(fmt.Sprintf("series: window end %d out of range [0,%d)", end, len(s.steps)))
	}
	return Window{s: s, end: end}
}

// Window is a read-only view of a Series truncated at a decision step.
type Window struct {
	s   *Series
	end int
}

// Len returns the number of visible steps.
func (w Window) Len() int { return w.end + 1 }

// At returns a copy of visible step i.
func (w Window) At(i int) Step {
	if i < 0 || i > w.end {
		panic(fmt.Sprintf("series: window index %d out of range [0,%d]", i, w.end))
	}
	return w.s.At(i)
}

// Last returns the most recent visible step.
func (w Window) Last() Step { return w.s.At(w.end) }

// Price reports the quote for inst at visible step i.
func (w Window) Price(i int, inst string) (float64, bool) {
	if i < 0 || i > w.end {
		panic(fmt.Sprintf("series: window index %d out of range [0,%d]", i, w.end))
	}
	return w.s.Price(i, inst)
}

// Instruments returns the identifiers covered by the underlying series.
func (w Window) Instruments() []string { return w.s.Instruments() }
