package series

import (
	"testing"
	"time"
)

func daily(t *testing.T, prices ...map[string]float64) *Series {
	t.Helper()
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	steps := make([]Step, len(prices))
	for i, p := range prices {
		steps[i] = Step{Ts: start.AddDate(0, 0, i), Prices: p}
	}
	s, err := New(steps)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return s
}

func TestNewValidatesOrdering(t *testing.T) {
	ts := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	_, err := New([]Step{
		{Ts: ts, Prices: map[string]float64{"AAPL": 100}},
		{Ts: ts, Prices: map[string]float64{"AAPL": 101}},
	})
	if err == nil {
		t.Fatalf("expected error for non-increasing timestamps")
	}
}

func TestNewRejectsNonPositivePrice(t *testing.T) {
	ts := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	_, err := New([]Step{{Ts: ts, Prices: map[string]float64{"AAPL": 0}}})
	if err == nil {
		t.Fatalf("expected error for zero price")
	}
}

func TestInstrumentsSortedAscending(t *testing.T) {
	s := daily(t, map[string]float64{"MSFT": 300, "AAPL": 100, "GOOG": 150})
	got := s.Instruments()
	want := []string{"AAPL", "GOOG", "MSFT"}
	if len(got) != len(want) {
		t.Fatalf("expected %d instruments, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %s at %d, got %s", want[i], i, got[i])
		}
	}
}

func TestAtReturnsCopy(t *testing.T) {
	s := daily(t, map[string]float64{"AAPL": 100})
	step := s.At(0)
	step.Prices["AAPL"] = 1

	px, ok := s.Price(0, "AAPL")
	if !ok || px != 100 {
		t.Fatalf("series mutated through At copy: %.2f", px)
	}
}

func TestWindowHidesFuture(t *testing.T) {
	s := daily(t,
		map[string]float64{"AAPL": 100},
		map[string]float64{"AAPL": 110},
		map[string]float64{"AAPL": 120},
	)
	w := s.Window(1)
	if w.Len() != 2 {
		t.Fatalf("expected window length 2, got %d", w.Len())
	}
	if px, _ := w.Price(1, "AAPL"); px != 110 {
		t.Fatalf("expected last visible price 110, got %.2f", px)
	}

	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic when reading past the window end")
		}
	}()
	w.At(2)
}

func TestWindowEndOutOfRange(t *testing.T) {
	s := daily(t, map[string]float64{"AAPL": 100})
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for out-of-range window end")
		}
	}()
	s.Window(1)
}
