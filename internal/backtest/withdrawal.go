package backtest

import "math"

// WithdrawalSchedule is the immutable withdrawal configuration. A zero
// FrequencyDays disables withdrawals.
type WithdrawalSchedule struct {
	AnnualRate    float64
	FrequencyDays int
	CPIAdjusted   bool
}

// Enabled reports whether the schedule fires at all.
func (s WithdrawalSchedule) Enabled() bool {
	return s.FrequencyDays > 0
}

// Amount is the per-period withdrawal before CPI scaling: the annual rate on
// the initial value, spread over 365/frequency periods per year.
func (s WithdrawalSchedule) Amount(initialValue float64) float64 {
	if !s.Enabled() {
		return 0
	}
	return initialValue * s.AnnualRate * float64(s.FrequencyDays) / 365.0
}

// coverSale sizes the share sale needed to fund a withdrawal bank-first:
// zero if the bank already covers the amount, otherwise the ceiling of the
// deficit at price, capped at coreHoldings. Withdrawals sell only core
// holdings, never the buyback ledger, so they earn no attributed alpha.
func coverSale(bank, amount, price float64, coreHoldings int) int {
	if bank >= amount || price <= 0 {
		return 0
	}
	shares := int(math.Ceil((amount - bank) / price))
	if shares > coreHoldings {
		shares = coreHoldings
	}
	if shares < 0 {
		return 0
	}
	return shares
}
