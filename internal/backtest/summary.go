package backtest

import (
	"math"
	"time"

	"github.com/ricksladkey/synthetic-dividend-sub002/internal/model"
)

// Summary is computed once at close from the full transaction log and the
// per-bar position history, and is read-only thereafter.
type Summary struct {
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Bars      int       `json:"bars"`

	InitialValue  float64 `json:"initial_value"`
	FinalHoldings int     `json:"final_holdings"`
	FinalBank     float64 `json:"final_bank"`
	FinalValue    float64 `json:"final_value"`

	// AllTimeHigh is the highest (normalized) price seen over the run.
	AllTimeHigh float64 `json:"all_time_high"`

	// TotalReturn counts withdrawn cash as returned capital.
	TotalReturn      float64 `json:"total_return"`
	AnnualizedReturn float64 `json:"annualized_return"`

	// VolatilityAlpha is the excess return over an otherwise-identical
	// buyback-disabled run; populated by Compare, zero for a lone run.
	VolatilityAlpha float64 `json:"volatility_alpha"`
	RealizedAlpha   float64 `json:"realized_alpha"`

	Buys        int `json:"buys"`
	Sells       int `json:"sells"`
	Withdrawals int `json:"withdrawals"`

	TotalWithdrawn      float64 `json:"total_withdrawn"`
	WithdrawalShortfall float64 `json:"withdrawal_shortfall"`
	SkippedOrders       int     `json:"skipped_orders"`

	BankMin      float64 `json:"bank_min"`
	BankMax      float64 `json:"bank_max"`
	BankAvg      float64 `json:"bank_avg"`
	DaysNegative int     `json:"days_negative"`
	DaysPositive int     `json:"days_positive"`

	OpportunityCost float64 `json:"opportunity_cost"`
	RiskFreeGains   float64 `json:"risk_free_gains"`

	DeploymentMin float64 `json:"deployment_min"`
	DeploymentMax float64 `json:"deployment_max"`
	DeploymentAvg float64 `json:"deployment_avg"`
}

// barStats accumulates the per-bar-close observations the summary reports.
type barStats struct {
	n int

	bankMin, bankMax, bankSum float64
	daysNeg, daysPos          int

	depMin, depMax, depSum float64
}

func (s *barStats) observe(pos model.Position, closePrice float64) {
	bank := pos.Bank
	if s.n == 0 || bank < s.bankMin {
		s.bankMin = bank
	}
	if s.n == 0 || bank > s.bankMax {
		s.bankMax = bank
	}
	s.bankSum += bank
	if bank < 0 {
		s.daysNeg++
	} else if bank > 0 {
		s.daysPos++
	}

	dep := 0.0
	if v := pos.Value(closePrice); v != 0 {
		dep = float64(pos.Holdings) * closePrice / v
	}
	if s.n == 0 || dep < s.depMin {
		s.depMin = dep
	}
	if s.n == 0 || dep > s.depMax {
		s.depMax = dep
	}
	s.depSum += dep

	s.n++
}

func (r *run) summarize() Summary {
	first := r.bars[0]
	last := r.bars[len(r.bars)-1]

	s := Summary{
		StartDate:           first.Date,
		EndDate:             last.Date,
		Bars:                len(r.bars),
		InitialValue:        r.initialValue,
		FinalHoldings:       r.pos.Holdings,
		FinalBank:           r.pos.Bank,
		FinalValue:          r.pos.Value(last.Close),
		AllTimeHigh:         r.pos.AllTimeHigh,
		RealizedAlpha:       r.realizedAlpha,
		TotalWithdrawn:      r.totalWithdrawn,
		WithdrawalShortfall: r.withdrawalShortfall,
		SkippedOrders:       r.skippedOrders,
		OpportunityCost:     r.adjust.OpportunityCost,
		RiskFreeGains:       r.adjust.RiskFreeGains,
	}

	for _, t := range r.transactions {
		switch t.Action {
		case model.ActionBuy:
			s.Buys++
		case model.ActionSell:
			s.Sells++
		case model.ActionWithdraw:
			s.Withdrawals++
		}
	}

	if r.initialValue > 0 {
		s.TotalReturn = (s.FinalValue + s.TotalWithdrawn - s.InitialValue) / s.InitialValue
	}
	if days := last.Date.Sub(first.Date).Hours() / 24; days > 0 && 1+s.TotalReturn > 0 {
		s.AnnualizedReturn = math.Pow(1+s.TotalReturn, 365.0/days) - 1
	}

	if r.stats.n > 0 {
		n := float64(r.stats.n)
		s.BankMin = r.stats.bankMin
		s.BankMax = r.stats.bankMax
		s.BankAvg = r.stats.bankSum / n
		s.DaysNegative = r.stats.daysNeg
		s.DaysPositive = r.stats.daysPos
		s.DeploymentMin = r.stats.depMin
		s.DeploymentMax = r.stats.depMax
		s.DeploymentAvg = r.stats.depSum / n
	}
	return s
}
