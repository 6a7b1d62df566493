package backtest

import "log"

// Series is a sparse daily value lookup keyed by YYYY-MM-DD. Implemented by
// data.Daily; nil means "no series configured".
type Series interface {
	At(dateKey string) (float64, bool)
}

// Adjustments converts the bank's running balance into realistic cost or
// gain from actual daily returns: a negative bank forgoes the reference
// asset's return, a positive bank earns the risk-free return. The two totals
// are never netted during accumulation, so a benefit from the reference
// asset declining while the bank was negative stays visible.
type Adjustments struct {
	Reference Series
	RiskFree  Series

	// Flat daily fallback rates for dates missing from the series.
	ReferenceFallback float64
	RiskFreeFallback  float64

	OpportunityCost float64
	RiskFreeGains   float64

	warnedRef bool
	warnedRF  bool
}

// Apply computes the day's adjustment for the given bank balance and
// accumulates it. It returns the signed delta to apply to the bank: negative
// when a deficit accrues cost, positive when a surplus earns interest.
func (a *Adjustments) Apply(dateKey string, bank float64) float64 {
	switch {
	case bank < 0:
		rate := a.rate(a.Reference, dateKey, a.ReferenceFallback, "reference", &a.warnedRef)
		cost := -bank * rate
		a.OpportunityCost += cost
		return -cost
	case bank > 0:
		rate := a.rate(a.RiskFree, dateKey, a.RiskFreeFallback, "risk-free", &a.warnedRF)
		gain := bank * rate
		a.RiskFreeGains += gain
		return gain
	default:
		return 0
	}
}

// rate resolves the day's return with fallback. Missing dates are a data
// gap, not an error: logged once per series and absorbed.
func (a *Adjustments) rate(s Series, dateKey string, fallback float64, name string, warned *bool) float64 {
	if s != nil {
		if v, ok := s.At(dateKey); ok {
			return v
		}
		if !*warned {
			log.Printf("[WARN] %s return series missing %s; using flat daily rate %v", name, dateKey, fallback)
			*warned = true
		}
	}
	return fallback
}
