package engine

import "time"

// EventKind classifies the per-step anomalies a run survives and records.
type EventKind string

const (
	// EventInvalidSignal marks a strategy output rejected as non-finite; the
	// step is downgraded to a hold.
	EventInvalidSignal EventKind = "invalid_signal"
	// EventDataQuality marks a missing price carried forward from the last
	// known quote.
	EventDataQuality EventKind = "data_quality_warning"
	// EventInsufficientCapital marks a trade scaled down to the feasible size.
	EventInsufficientCapital EventKind = "insufficient_capital"
)

// Event records one recovered anomaly for caller inspection. Events never
// abort a run; they accumulate into the results.
type Event struct {
	Step       int       `json:"step"`
	Ts         time.Time `json:"ts"`
	Kind       EventKind `json:"kind"`
	Instrument string    `json:"instrument,omitempty"`
	Detail     string    `json:"detail"`
}
