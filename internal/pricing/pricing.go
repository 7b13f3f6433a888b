// Package pricing maps a transaction amount to the flat platform fee.
package pricing

// Bands are half-open: each runs from its lower bound up to (excluding) the
// next band's. Amounts are fractional, so matching on lower bounds keeps
// values like 49.50 inside the band below instead of falling between two
// integer-bounded ranges.
type tier struct {
	min float64
	fee float64
}

var tiers = []tier{
	{0, 0},
	{50, 3},
	{101, 7},
	{501, 9},
	{1001, 12},
	{1501, 17},
	{2501, 24},
	{3501, 30},
	{5001, 40},
	{7501, 48},
	{10001, 55},
	{15001, 62},
	{20001, 75},
	{35001, 92},
	{50001, 105},
	{150001, 125},
	{300001, 150},
	{500001, 192},
}

// Fee returns the flat fee for a transaction amount. Amounts beyond the top
// band pay the top-band fee; non-positive amounts cost nothing.
func Fee(amount float64) float64 {
	if amount <= 0 {
		return 0
	}
	for i := 1; i < len(tiers); i++ {
		if amount < tiers[i].min {
			return tiers[i-1].fee
		}
	}
	return tiers[len(tiers)-1].fee
}
