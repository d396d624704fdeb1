package engine

import "time"

// Position tracks a held quantity and its weighted-average cost basis.
// Quantity is negative for shorts.
type Position struct {
	Qty     float64 `json:"qty"`
	AvgCost float64 `json:"avg_cost"`
}

// Entry is the state recorded after one simulated step: cash, a positions
// snapshot, the realized PnL delta from that step's fills, and the
// transaction cost charged.
type Entry struct {
	Step          int                 `json:"step"`
	Ts            time.Time           `json:"ts"`
	Cash          float64             `json:"cash"`
	Positions     map[string]Position `json:"positions"`
	RealizedDelta float64             `json:"realized_delta"`
	Cost          float64             `json:"cost"`
}

// Ledger stores step entries in memory. It is append-only: entries are never
// mutated after Append, and accessors hand out copies. The engine owns the
// ledger for the duration of a run and exposes it read-only afterward.
type Ledger struct {
	entries []Entry
}

// NewLedger creates an empty ledger optionally pre-sizing storage.
func NewLedger(capacity int) *Ledger {
	if capacity < 0 {
		capacity = 0
	}
	return &Ledger{entries: make([]Entry, 0, capacity)}
}

// Append records a step entry.
func (l *Ledger) Append(e Entry) {
	l.entries = append(l.entries, e)
}

// Len returns the number of recorded entries.
func (l *Ledger) Len() int { return len(l.entries) }

// At returns a copy of entry i with its positions map cloned.
func (l *Ledger) At(i int) Entry {
	return cloneEntry(l.entries[i])
}

// Snapshot returns a copy of all recorded entries.
func (l *Ledger) Snapshot() []Entry {
	out := make([]Entry, len(l.entries))
	for i, e := range l.entries {
		out[i] = cloneEntry(e)
	}
	return out
}

func cloneEntry(e Entry) Entry {
	positions := make(map[string]Position, len(e.Positions))
	for inst, pos := range e.Positions {
		positions[inst] = pos
	}
	e.Positions = positions
	return e
}

func clonePositions(positions map[string]Position) map[string]Position {
	out := make(map[string]Position, len(positions))
	for inst, pos := range positions {
		out[inst] = pos
	}
	return out
}
