package backtest

import (
	"math"
	"testing"

	"github.com/ricksladkey/synthetic-dividend-sub002/internal/data"
	"github.com/ricksladkey/synthetic-dividend-sub002/internal/model"
)

func TestWithdrawalSchedule_Amount(t *testing.T) {
	s := WithdrawalSchedule{AnnualRate: 0.073, FrequencyDays: 50}
	if got, want := s.Amount(5000), 50.0; math.Abs(got-want) > 1e-9 {
		t.Errorf("amount = %v, want %v", got, want)
	}

	if (WithdrawalSchedule{AnnualRate: 0.04}).Enabled() {
		t.Error("zero frequency must disable the schedule")
	}
	if got := (WithdrawalSchedule{AnnualRate: 0.04}).Amount(5000); got != 0 {
		t.Errorf("disabled schedule amount = %v, want 0", got)
	}
}

func TestCoverSale(t *testing.T) {
	if got := coverSale(100, 50, 50, 1000); got != 0 {
		t.Errorf("funded bank must not sell, got %d", got)
	}
	if got := coverSale(0, 50, 50, 1000); got != 1 {
		t.Errorf("exact deficit = %d shares, want 1", got)
	}
	if got := coverSale(0, 51, 50, 1000); got != 2 {
		t.Errorf("deficit must round up, got %d", got)
	}
	if got := coverSale(-10, 50, 50, 1000); got != 2 {
		t.Errorf("negative bank deepens the deficit, got %d", got)
	}
	if got := coverSale(0, 500, 50, 3); got != 3 {
		t.Errorf("sale must cap at core holdings, got %d", got)
	}
	if got := coverSale(0, 50, 0, 1000); got != 0 {
		t.Errorf("non-positive price must not sell, got %d", got)
	}
}

// holdStrategy is a configuration that never trades on its own, isolating the
// withdrawal arithmetic.
func holdStrategy(qty int) model.StrategyParams {
	return model.StrategyParams{
		Trigger:         0.0905,
		ProfitSharing:   0,
		InitialQuantity: qty,
		Buyback:         true,
		Margin:          model.MarginPermissive,
	}
}

func flatSeries(n int, price float64) []model.PriceBar {
	var bars []model.PriceBar
	for i := 0; i < n; i++ {
		bars = append(bars, flatBar(i, price))
	}
	return bars
}

func TestRun_WithdrawalSellsToCover(t *testing.T) {
	// 100 shares at 50 is 5000 of initial value; 7.3% annually every 50 days
	// is 50 per period. With an empty bank the engine sells one share at the
	// close to fund it.
	p := Params{
		Strategy:   holdStrategy(100),
		Withdrawal: WithdrawalSchedule{AnnualRate: 0.073, FrequencyDays: 50},
		Simple:     true,
	}
	res := mustRun(t, p, Inputs{Bars: flatSeries(60, 50)})

	s := res.Summary
	if s.Withdrawals != 1 {
		t.Fatalf("withdrawals = %d, want 1", s.Withdrawals)
	}
	if math.Abs(s.TotalWithdrawn-50) > 1e-6 {
		t.Errorf("total withdrawn = %v, want 50", s.TotalWithdrawn)
	}
	if s.Sells != 1 {
		t.Errorf("sells = %d, want 1 covering sale", s.Sells)
	}
	if s.FinalHoldings != 99 {
		t.Errorf("final holdings = %d, want 99", s.FinalHoldings)
	}
	if math.Abs(s.FinalBank) > 1e-6 {
		t.Errorf("final bank = %v, want ~0", s.FinalBank)
	}
}

func TestRun_ZeroRateWithdrawalStillLogged(t *testing.T) {
	// The schedule firing is an event even when the amount is zero, so the
	// cadence stays visible in the tape.
	p := Params{
		Strategy:   holdStrategy(100),
		Withdrawal: WithdrawalSchedule{AnnualRate: 0, FrequencyDays: 10},
		Simple:     true,
	}
	res := mustRun(t, p, Inputs{Bars: flatSeries(25, 50)})

	s := res.Summary
	if s.Withdrawals != 2 {
		t.Errorf("withdrawals = %d, want 2", s.Withdrawals)
	}
	if s.TotalWithdrawn != 0 {
		t.Errorf("total withdrawn = %v, want 0", s.TotalWithdrawn)
	}
	if s.Sells != 0 {
		t.Errorf("sells = %d, want 0", s.Sells)
	}
}

func TestRun_StrictWithdrawalShortfall(t *testing.T) {
	// One share at 50 cannot fund a 500 withdrawal. Strict margin debits the
	// bank only to zero and counts the rest as shortfall.
	strat := holdStrategy(1)
	strat.Margin = model.MarginStrict
	p := Params{
		Strategy:   strat,
		Withdrawal: WithdrawalSchedule{AnnualRate: 73, FrequencyDays: 50},
		Simple:     true,
	}
	res := mustRun(t, p, Inputs{Bars: flatSeries(60, 50)})

	s := res.Summary
	if s.FinalHoldings != 0 {
		t.Errorf("final holdings = %d, want 0 (whole position liquidated)", s.FinalHoldings)
	}
	if math.Abs(s.TotalWithdrawn-50) > 1e-6 {
		t.Errorf("total withdrawn = %v, want 50 (all the cash there was)", s.TotalWithdrawn)
	}
	if math.Abs(s.WithdrawalShortfall-450) > 1e-6 {
		t.Errorf("shortfall = %v, want 450", s.WithdrawalShortfall)
	}
	if s.FinalBank < 0 {
		t.Errorf("final bank = %v, strict margin must not go negative", s.FinalBank)
	}
}

func TestRun_CPIAdjustedWithdrawals(t *testing.T) {
	// CPI rising from 100 to 110 between the two withdrawal dates scales the
	// second payment by 1.1.
	p := Params{
		Strategy:   holdStrategy(100),
		Withdrawal: WithdrawalSchedule{AnnualRate: 0.073, FrequencyDays: 10, CPIAdjusted: true},
	}
	cpi := data.Daily{
		day(0).Format("2006-01-02"):  100,
		day(15).Format("2006-01-02"): 110,
	}
	res := mustRun(t, p, Inputs{Bars: flatSeries(25, 50), CPI: cpi})

	s := res.Summary
	if s.Withdrawals != 2 {
		t.Fatalf("withdrawals = %d, want 2", s.Withdrawals)
	}
	if math.Abs(s.TotalWithdrawn-21) > 1e-6 {
		t.Errorf("total withdrawn = %v, want 21 (10 + 11)", s.TotalWithdrawn)
	}
}

func TestRun_CPIObservedOnWithdrawalDay(t *testing.T) {
	// A CPI value dated exactly on the withdrawal day must scale that same
	// withdrawal, not take effect one bar late.
	p := Params{
		Strategy:   holdStrategy(100),
		Withdrawal: WithdrawalSchedule{AnnualRate: 0.073, FrequencyDays: 10, CPIAdjusted: true},
	}
	cpi := data.Daily{
		day(0).Format("2006-01-02"):  100,
		day(10).Format("2006-01-02"): 110,
	}
	res := mustRun(t, p, Inputs{Bars: flatSeries(15, 50)})
	if res.Summary.Withdrawals != 1 {
		t.Fatalf("withdrawals = %d, want 1", res.Summary.Withdrawals)
	}

	res = mustRun(t, p, Inputs{Bars: flatSeries(15, 50), CPI: cpi})
	if got := res.Summary.TotalWithdrawn; math.Abs(got-11) > 1e-6 {
		t.Errorf("total withdrawn = %v, want 11 (10 x 110/100)", got)
	}
}

func TestRun_SimpleModeIgnoresCPI(t *testing.T) {
	p := Params{
		Strategy:   holdStrategy(100),
		Withdrawal: WithdrawalSchedule{AnnualRate: 0.073, FrequencyDays: 10, CPIAdjusted: true},
		Simple:     true,
	}
	cpi := data.Daily{
		day(0).Format("2006-01-02"):  100,
		day(15).Format("2006-01-02"): 200,
	}
	res := mustRun(t, p, Inputs{Bars: flatSeries(25, 50), CPI: cpi})

	if got := res.Summary.TotalWithdrawn; math.Abs(got-20) > 1e-6 {
		t.Errorf("total withdrawn = %v, want 20 (no CPI scaling in simple mode)", got)
	}
}
