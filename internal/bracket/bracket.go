// Package bracket holds the pure price-grid math of the rebalancing strategy:
// the symmetric bracket calculator and the start-price normalizer. Nothing in
// this package keeps state; the engine calls it fresh from the authoritative
// position every time.
package bracket

import "math"

// Pair is the next buy/sell bracket around an anchor price.
type Pair struct {
	BuyPrice  float64
	BuyQty    int
	SellPrice float64
	SellQty   int
}

// Compute derives the bracket pair from the anchor price and current holdings.
// trigger is the symmetric distance r, profitSharing the traded fraction s.
//
// The quantities are symmetric up to integer rounding: buying BuyQty at
// BuyPrice and selling the same quantity back at the anchor reverses the cash
// flow. holdings of zero yields zero quantities on both sides.
func Compute(anchor float64, holdings int, trigger, profitSharing float64) Pair {
	step := 1 + trigger
	traded := trigger * float64(holdings) * profitSharing
	return Pair{
		BuyPrice:  anchor / step,
		BuyQty:    int(math.Round(traded)),
		SellPrice: anchor * step,
		SellQty:   int(math.Round(traded / step)),
	}
}
