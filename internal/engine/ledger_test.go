package engine

import (
	"testing"
	"time"
)

func TestLedgerAppendSnapshot(t *testing.T) {
	ledger := NewLedger(2)
	entry := Entry{
		Step:      0,
		Ts:        time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		Cash:      500,
		Positions: map[string]Position{"AAPL": {Qty: 10, AvgCost: 95}},
	}
	ledger.Append(entry)

	snapshot := ledger.Snapshot()
	if len(snapshot) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(snapshot))
	}
	if snapshot[0].Cash != 500 {
		t.Fatalf("unexpected cash: %.2f", snapshot[0].Cash)
	}

	// Mutating the snapshot must not reach the ledger.
	snapshot[0].Positions["AAPL"] = Position{Qty: 0}
	if ledger.At(0).Positions["AAPL"].Qty != 10 {
		t.Fatalf("ledger mutated through snapshot")
	}
}

func TestLedgerAtReturnsCopy(t *testing.T) {
	ledger := NewLedger(0)
	ledger.Append(Entry{Positions: map[string]Position{"AAPL": {Qty: 1, AvgCost: 100}}})

	got := ledger.At(0)
	got.Positions["AAPL"] = Position{Qty: 99}
	if ledger.At(0).Positions["AAPL"].Qty != 1 {
		t.Fatalf("ledger mutated through At copy")
	}
}
