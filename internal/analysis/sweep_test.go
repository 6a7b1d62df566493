package analysis

import (
	"math"
	"testing"
	"time"

	"github.com/ricksladkey/synthetic-dividend-sub002/internal/backtest"
	"github.com/ricksladkey/synthetic-dividend-sub002/internal/model"
)

func day(i int) time.Time {
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i)
}

func flatBar(i int, p float64) model.PriceBar {
	return model.PriceBar{Date: day(i), Open: p, High: p, Low: p, Close: p}
}

// vShape dips from 100 to 80 and recovers past the start.
func vShape() []model.PriceBar {
	return []model.PriceBar{
		flatBar(0, 100),
		flatBar(1, 100),
		{Date: day(2), Open: 100, High: 100, Low: 80, Close: 80},
		{Date: day(3), Open: 80, High: 101, Low: 80, Close: 101},
	}
}

func baseParams() backtest.Params {
	return backtest.Params{
		Strategy: model.StrategyParams{
			Trigger:         0.0905,
			ProfitSharing:   0.5,
			InitialQuantity: 1000,
			Buyback:         true,
			Margin:          model.MarginPermissive,
			NormalizePrices: true,
		},
		Simple: true,
	}
}

func TestGrid(t *testing.T) {
	g := Grid(0.05, 0.15, 0.05)
	if len(g) != 3 {
		t.Fatalf("grid = %v, want 3 values", g)
	}
	if math.Abs(g[0]-0.05) > 1e-12 || math.Abs(g[2]-0.15) > 1e-9 {
		t.Errorf("grid endpoints wrong: %v", g)
	}

	if Grid(0.1, 0.05, 0.01) != nil {
		t.Error("inverted range must yield nil")
	}
	if Grid(0.05, 0.1, 0) != nil {
		t.Error("zero step must yield nil")
	}
}

func TestSweep_SortedByAnnualizedReturn(t *testing.T) {
	cells, err := Sweep(baseParams(), backtest.Inputs{Bars: vShape()},
		[]float64{0.05, 0.0905}, []float64{0, 0.5, 1})
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if len(cells) != 6 {
		t.Fatalf("cells = %d, want 6", len(cells))
	}
	for i := 1; i < len(cells); i++ {
		if cells[i-1].Summary.AnnualizedReturn < cells[i].Summary.AnnualizedReturn {
			t.Fatalf("cells not sorted at %d: %v < %v",
				i, cells[i-1].Summary.AnnualizedReturn, cells[i].Summary.AnnualizedReturn)
		}
	}
}

func TestSweep_EmptyGrid(t *testing.T) {
	if _, err := Sweep(baseParams(), backtest.Inputs{Bars: vShape()}, nil, []float64{0.5}); err == nil {
		t.Fatal("empty trigger grid must error")
	}
}

func TestValidateLedgerConvergence(t *testing.T) {
	cmp, err := backtest.Compare(baseParams(), backtest.Inputs{Bars: vShape()})
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	if err := ValidateLedgerConvergence(cmp); err != nil {
		t.Errorf("convergence check failed: %v", err)
	}
}
