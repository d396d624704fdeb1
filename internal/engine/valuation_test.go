package engine

import (
	"math"
	"testing"
)

func TestValuation(t *testing.T) {
	positions := map[string]Position{
		"AAPL": {Qty: 10, AvgCost: 90},
		"MSFT": {Qty: -2, AvgCost: 310},
	}
	prices := map[string]float64{"AAPL": 100, "MSFT": 300}

	equity, exposure := Valuation(1000, positions, prices)
	if math.Abs(equity-(1000+1000-600)) > 1e-9 {
		t.Fatalf("unexpected equity: %.2f", equity)
	}
	if exposure["AAPL"] != 1000 {
		t.Fatalf("unexpected AAPL exposure: %.2f", exposure["AAPL"])
	}
	if exposure["MSFT"] != -600 {
		t.Fatalf("unexpected MSFT exposure: %.2f", exposure["MSFT"])
	}
}

func TestValuationMissingPrice(t *testing.T) {
	positions := map[string]Position{"AAPL": {Qty: 10, AvgCost: 90}}
	equity, exposure := Valuation(1000, positions, map[string]float64{})
	if equity != 1000 {
		t.Fatalf("expected unpriced position to contribute nothing, equity %.2f", equity)
	}
	if exposure["AAPL"] != 0 {
		t.Fatalf("expected zero exposure for unpriced instrument, got %.2f", exposure["AAPL"])
	}
}

func TestValuationIsPure(t *testing.T) {
	positions := map[string]Position{"AAPL": {Qty: 10, AvgCost: 90}}
	prices := map[string]float64{"AAPL": 100}
	Valuation(1000, positions, prices)

	if positions["AAPL"].Qty != 10 || positions["AAPL"].AvgCost != 90 {
		t.Fatalf("positions mutated by valuation")
	}
	if prices["AAPL"] != 100 {
		t.Fatalf("prices mutated by valuation")
	}
}
