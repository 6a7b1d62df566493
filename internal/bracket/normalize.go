package bracket

import "math"

// Normalize snaps a start price onto the canonical bracket grid implied by
// trigger: the nearest exact power of (1+trigger). Runs on different assets at
// different absolute price levels then land on equivalent relative bracket
// steps. Idempotent: normalizing an already-normalized price returns it.
func Normalize(startPrice, trigger float64) float64 {
	step := 1 + trigger
	n := math.Round(math.Log(startPrice) / math.Log(step))
	return math.Pow(step, n)
}
