package engine

// Valuation marks a book to market: equity is cash plus the sum of quantity
// times price, and exposure is the per-instrument dollar value. Pure function
// of its inputs; nothing is mutated. An instrument with no price in the map
// contributes zero exposure rather than failing — the engine carries missing
// prices forward before calling, so an absent price here means the instrument
// has never been quoted.
func Valuation(cash float64, positions map[string]Position, prices map[string]float64) (float64, map[string]float64) {
	equity := cash
	exposure := make(map[string]float64, len(positions))
	for inst, pos := range positions {
		px, ok := prices[inst]
		if !ok {
			exposure[inst] = 0
			continue
		}
		value := pos.Qty * px
		exposure[inst] = value
		equity += value
	}
	return equity, exposure
}
